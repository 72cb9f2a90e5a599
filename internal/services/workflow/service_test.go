package workflow

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/talentlink/marketplace-api/internal/models"
	"github.com/talentlink/marketplace-api/internal/repositories"
)

// fakeStore is an in-memory Store so the state machine can be exercised
// without a database. Transaction runs the callback against the same maps;
// the paths under test either fully apply or fail before mutating.
type fakeStore struct {
	projects     map[uuid.UUID]*models.Project
	applications map[uuid.UUID]*models.Application
	users        map[uuid.UUID]*models.User
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		projects:     make(map[uuid.UUID]*models.Project),
		applications: make(map[uuid.UUID]*models.Application),
		users:        make(map[uuid.UUID]*models.User),
	}
}

func (s *fakeStore) Projects() repositories.ProjectRepo         { return (*fakeProjects)(s) }
func (s *fakeStore) Applications() repositories.ApplicationRepo { return (*fakeApplications)(s) }
func (s *fakeStore) Users() repositories.UserRepo               { return (*fakeUsers)(s) }
func (s *fakeStore) Transaction(fn func(repositories.Store) error) error {
	return fn(s)
}

type fakeProjects fakeStore

func (r *fakeProjects) GetByID(id uuid.UUID) (models.Project, error) {
	p, ok := r.projects[id]
	if !ok {
		return models.Project{}, gorm.ErrRecordNotFound
	}
	return *p, nil
}

func (r *fakeProjects) AssignIfUnassigned(projectID, freelancerID uuid.UUID, at time.Time) (bool, error) {
	p, ok := r.projects[projectID]
	if !ok || p.AssignedTo != nil {
		return false, nil
	}
	fid := freelancerID
	ts := at
	p.AssignedTo = &fid
	p.AssignedAt = &ts
	p.Status = models.ProjectStatusAssigned
	return true, nil
}

func (r *fakeProjects) SetStatus(projectID uuid.UUID, status models.ProjectStatus, assignedTo *uuid.UUID, assignedAt *time.Time) error {
	p, ok := r.projects[projectID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Status = status
	p.AssignedTo = assignedTo
	p.AssignedAt = assignedAt
	return nil
}

func (r *fakeProjects) Delete(projectID uuid.UUID) error {
	delete(r.projects, projectID)
	return nil
}

func (r *fakeProjects) IDsByClient(clientID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for id, p := range r.projects {
		if p.ClientID == clientID {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (r *fakeProjects) ResetByFreelancer(freelancerID uuid.UUID) error {
	for _, p := range r.projects {
		if p.AssignedTo != nil && *p.AssignedTo == freelancerID {
			p.AssignedTo = nil
			p.AssignedAt = nil
			p.Status = models.ProjectStatusOpen
		}
	}
	return nil
}

type fakeApplications fakeStore

func (r *fakeApplications) GetByID(id uuid.UUID) (models.Application, error) {
	a, ok := r.applications[id]
	if !ok {
		return models.Application{}, gorm.ErrRecordNotFound
	}
	return *a, nil
}

func (r *fakeApplications) GetByIDForUpdate(id uuid.UUID) (models.Application, error) {
	return r.GetByID(id)
}

func (r *fakeApplications) ExistsForPair(projectID, freelancerID uuid.UUID) (bool, error) {
	for _, a := range r.applications {
		if a.ProjectID == projectID && a.FreelancerID == freelancerID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeApplications) Create(app *models.Application) error {
	app.ID = uuid.New()
	stored := *app
	r.applications[app.ID] = &stored
	return nil
}

func (r *fakeApplications) SetStatus(id uuid.UUID, status models.ApplicationStatus) error {
	a, ok := r.applications[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	a.Status = status
	return nil
}

func (r *fakeApplications) RejectOtherPending(projectID, exceptID uuid.UUID) error {
	for id, a := range r.applications {
		if a.ProjectID == projectID && id != exceptID && a.Status == models.AppStatusPending {
			a.Status = models.AppStatusRejected
		}
	}
	return nil
}

func (r *fakeApplications) Delete(id uuid.UUID) error {
	delete(r.applications, id)
	return nil
}

func (r *fakeApplications) DeleteByProject(projectID uuid.UUID) error {
	for id, a := range r.applications {
		if a.ProjectID == projectID {
			delete(r.applications, id)
		}
	}
	return nil
}

func (r *fakeApplications) DeleteByFreelancer(freelancerID uuid.UUID) error {
	for id, a := range r.applications {
		if a.FreelancerID == freelancerID {
			delete(r.applications, id)
		}
	}
	return nil
}

type fakeUsers fakeStore

func (r *fakeUsers) GetByID(id uuid.UUID) (models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return models.User{}, gorm.ErrRecordNotFound
	}
	return *u, nil
}

func (r *fakeUsers) Delete(id uuid.UUID) error {
	delete(r.users, id)
	return nil
}

// test fixture helpers

func addUser(s *fakeStore, role models.Role) uuid.UUID {
	id := uuid.New()
	s.users[id] = &models.User{ID: id, Role: role}
	return id
}

func addProject(s *fakeStore, clientID uuid.UUID, status models.ProjectStatus) uuid.UUID {
	id := uuid.New()
	s.projects[id] = &models.Project{
		ID:       id,
		ClientID: clientID,
		Status:   status,
		Budget:   "1000",
	}
	return id
}

func addApplication(s *fakeStore, projectID, freelancerID uuid.UUID, status models.ApplicationStatus) uuid.UUID {
	id := uuid.New()
	s.applications[id] = &models.Application{
		ID:           id,
		ProjectID:    projectID,
		FreelancerID: freelancerID,
		BidAmount:    500,
		CoverLetter:  "I can do this.",
		Status:       status,
	}
	return id
}

func client(id uuid.UUID) Actor     { return Actor{ID: id, Role: models.RoleClient} }
func freelancer(id uuid.UUID) Actor { return Actor{ID: id, Role: models.RoleFreelancer} }
func admin(id uuid.UUID) Actor      { return Actor{ID: id, Role: models.RoleAdmin} }

func TestSubmitApplication(t *testing.T) {
	t.Run("creates pending application on open project", func(t *testing.T) {
		store := newFakeStore()
		clientID := addUser(store, models.RoleClient)
		freelancerID := addUser(store, models.RoleFreelancer)
		projectID := addProject(store, clientID, models.ProjectStatusOpen)

		svc := NewService(store)
		app, err := svc.SubmitApplication(projectID, freelancer(freelancerID), 750, "Hire me.")
		require.NoError(t, err)
		require.Equal(t, models.AppStatusPending, app.Status)
		require.Equal(t, freelancerID, app.FreelancerID)
		require.False(t, app.ApplicationDate.IsZero())
		require.Len(t, store.applications, 1)
	})

	t.Run("rejects non-positive bid", func(t *testing.T) {
		store := newFakeStore()
		projectID := addProject(store, addUser(store, models.RoleClient), models.ProjectStatusOpen)

		svc := NewService(store)
		_, err := svc.SubmitApplication(projectID, freelancer(uuid.New()), 0, "Hire me.")
		require.Equal(t, KindInvalidArgument, KindOf(err))
	})

	t.Run("rejects empty cover letter", func(t *testing.T) {
		store := newFakeStore()
		projectID := addProject(store, addUser(store, models.RoleClient), models.ProjectStatusOpen)

		svc := NewService(store)
		_, err := svc.SubmitApplication(projectID, freelancer(uuid.New()), 500, "   ")
		require.Equal(t, KindInvalidArgument, KindOf(err))
	})

	t.Run("missing project is not found", func(t *testing.T) {
		svc := NewService(newFakeStore())
		_, err := svc.SubmitApplication(uuid.New(), freelancer(uuid.New()), 500, "Hire me.")
		require.Equal(t, KindNotFound, KindOf(err))
	})

	t.Run("non-open project is invalid state", func(t *testing.T) {
		store := newFakeStore()
		projectID := addProject(store, addUser(store, models.RoleClient), models.ProjectStatusAssigned)

		svc := NewService(store)
		_, err := svc.SubmitApplication(projectID, freelancer(uuid.New()), 500, "Hire me.")
		require.Equal(t, KindInvalidState, KindOf(err))
	})

	t.Run("second application from same freelancer is a conflict", func(t *testing.T) {
		store := newFakeStore()
		freelancerID := addUser(store, models.RoleFreelancer)
		projectID := addProject(store, addUser(store, models.RoleClient), models.ProjectStatusOpen)

		svc := NewService(store)
		_, err := svc.SubmitApplication(projectID, freelancer(freelancerID), 500, "Hire me.")
		require.NoError(t, err)

		_, err = svc.SubmitApplication(projectID, freelancer(freelancerID), 600, "Hire me again.")
		require.Equal(t, KindConflict, KindOf(err))
		require.Len(t, store.applications, 1)
	})

	t.Run("different freelancers may apply to the same project", func(t *testing.T) {
		store := newFakeStore()
		projectID := addProject(store, addUser(store, models.RoleClient), models.ProjectStatusOpen)

		svc := NewService(store)
		_, err := svc.SubmitApplication(projectID, freelancer(uuid.New()), 500, "Hire me.")
		require.NoError(t, err)
		_, err = svc.SubmitApplication(projectID, freelancer(uuid.New()), 600, "No, hire me.")
		require.NoError(t, err)
		require.Len(t, store.applications, 2)
	})
}

func TestSetApplicationStatus(t *testing.T) {
	t.Run("accept assigns project and rejects pending siblings", func(t *testing.T) {
		store := newFakeStore()
		clientID := addUser(store, models.RoleClient)
		winner := addUser(store, models.RoleFreelancer)
		loser := addUser(store, models.RoleFreelancer)
		projectID := addProject(store, clientID, models.ProjectStatusOpen)
		winnerApp := addApplication(store, projectID, winner, models.AppStatusPending)
		loserApp := addApplication(store, projectID, loser, models.AppStatusPending)
		rejectedApp := addApplication(store, projectID, addUser(store, models.RoleFreelancer), models.AppStatusRejected)

		svc := NewService(store)
		app, err := svc.SetApplicationStatus(winnerApp, client(clientID), models.AppStatusAccepted)
		require.NoError(t, err)
		require.Equal(t, models.AppStatusAccepted, app.Status)

		project := store.projects[projectID]
		require.Equal(t, models.ProjectStatusAssigned, project.Status)
		require.NotNil(t, project.AssignedTo)
		require.Equal(t, winner, *project.AssignedTo)
		require.NotNil(t, project.AssignedAt)

		require.Equal(t, models.AppStatusRejected, store.applications[loserApp].Status)
		// already-rejected siblings are left alone
		require.Equal(t, models.AppStatusRejected, store.applications[rejectedApp].Status)
	})

	t.Run("accept on an already assigned project is a conflict", func(t *testing.T) {
		store := newFakeStore()
		clientID := addUser(store, models.RoleClient)
		other := addUser(store, models.RoleFreelancer)
		projectID := addProject(store, clientID, models.ProjectStatusOpen)
		store.projects[projectID].AssignedTo = &other
		store.projects[projectID].Status = models.ProjectStatusAssigned

		// A pending application can still exist if it was submitted before the
		// assignment landed.
		appID := addApplication(store, projectID, addUser(store, models.RoleFreelancer), models.AppStatusPending)

		svc := NewService(store)
		_, err := svc.SetApplicationStatus(appID, client(clientID), models.AppStatusAccepted)
		require.Equal(t, KindConflict, KindOf(err))
		require.Equal(t, models.AppStatusPending, store.applications[appID].Status)
		require.Equal(t, other, *store.projects[projectID].AssignedTo)
	})

	t.Run("reject leaves the project untouched", func(t *testing.T) {
		store := newFakeStore()
		clientID := addUser(store, models.RoleClient)
		projectID := addProject(store, clientID, models.ProjectStatusOpen)
		appID := addApplication(store, projectID, addUser(store, models.RoleFreelancer), models.AppStatusPending)

		svc := NewService(store)
		app, err := svc.SetApplicationStatus(appID, client(clientID), models.AppStatusRejected)
		require.NoError(t, err)
		require.Equal(t, models.AppStatusRejected, app.Status)

		project := store.projects[projectID]
		require.Equal(t, models.ProjectStatusOpen, project.Status)
		require.Nil(t, project.AssignedTo)
	})

	t.Run("repeating the same decision is a no-op success", func(t *testing.T) {
		store := newFakeStore()
		clientID := addUser(store, models.RoleClient)
		winner := addUser(store, models.RoleFreelancer)
		projectID := addProject(store, clientID, models.ProjectStatusOpen)
		appID := addApplication(store, projectID, winner, models.AppStatusPending)

		svc := NewService(store)
		_, err := svc.SetApplicationStatus(appID, client(clientID), models.AppStatusAccepted)
		require.NoError(t, err)

		app, err := svc.SetApplicationStatus(appID, client(clientID), models.AppStatusAccepted)
		require.NoError(t, err)
		require.Equal(t, models.AppStatusAccepted, app.Status)
		require.Equal(t, winner, *store.projects[projectID].AssignedTo)
	})

	t.Run("switching a settled application is invalid state", func(t *testing.T) {
		store := newFakeStore()
		clientID := addUser(store, models.RoleClient)
		projectID := addProject(store, clientID, models.ProjectStatusOpen)
		appID := addApplication(store, projectID, addUser(store, models.RoleFreelancer), models.AppStatusRejected)

		svc := NewService(store)
		_, err := svc.SetApplicationStatus(appID, client(clientID), models.AppStatusAccepted)
		require.Equal(t, KindInvalidState, KindOf(err))
	})

	t.Run("only accepted or rejected are valid targets", func(t *testing.T) {
		store := newFakeStore()
		clientID := addUser(store, models.RoleClient)
		projectID := addProject(store, clientID, models.ProjectStatusOpen)
		appID := addApplication(store, projectID, addUser(store, models.RoleFreelancer), models.AppStatusPending)

		svc := NewService(store)
		for _, target := range []models.ApplicationStatus{models.AppStatusPending, models.AppStatusWithdrawn, "bogus"} {
			_, err := svc.SetApplicationStatus(appID, client(clientID), target)
			require.Equal(t, KindInvalidArgument, KindOf(err))
		}
	})

	t.Run("unknown application is not found", func(t *testing.T) {
		svc := NewService(newFakeStore())
		_, err := svc.SetApplicationStatus(uuid.New(), client(uuid.New()), models.AppStatusAccepted)
		require.Equal(t, KindNotFound, KindOf(err))
	})

	t.Run("only owning client or admin may decide", func(t *testing.T) {
		store := newFakeStore()
		clientID := addUser(store, models.RoleClient)
		projectID := addProject(store, clientID, models.ProjectStatusOpen)
		appID := addApplication(store, projectID, addUser(store, models.RoleFreelancer), models.AppStatusPending)

		svc := NewService(store)
		_, err := svc.SetApplicationStatus(appID, client(uuid.New()), models.AppStatusRejected)
		require.Equal(t, KindForbidden, KindOf(err))

		_, err = svc.SetApplicationStatus(appID, admin(uuid.New()), models.AppStatusRejected)
		require.NoError(t, err)
	})

	t.Run("decisions are frozen once the project completes", func(t *testing.T) {
		store := newFakeStore()
		clientID := addUser(store, models.RoleClient)
		winner := addUser(store, models.RoleFreelancer)
		projectID := addProject(store, clientID, models.ProjectStatusCompleted)
		store.projects[projectID].AssignedTo = &winner
		appID := addApplication(store, projectID, addUser(store, models.RoleFreelancer), models.AppStatusPending)

		svc := NewService(store)
		_, err := svc.SetApplicationStatus(appID, client(clientID), models.AppStatusRejected)
		require.Equal(t, KindInvalidState, KindOf(err))
	})
}

func TestWithdrawApplication(t *testing.T) {
	t.Run("submitting freelancer deletes their pending application", func(t *testing.T) {
		store := newFakeStore()
		freelancerID := addUser(store, models.RoleFreelancer)
		projectID := addProject(store, addUser(store, models.RoleClient), models.ProjectStatusOpen)
		appID := addApplication(store, projectID, freelancerID, models.AppStatusPending)

		svc := NewService(store)
		require.NoError(t, svc.WithdrawApplication(appID, freelancer(freelancerID)))
		require.Empty(t, store.applications)
	})

	t.Run("admin may withdraw on a freelancer's behalf", func(t *testing.T) {
		store := newFakeStore()
		projectID := addProject(store, addUser(store, models.RoleClient), models.ProjectStatusOpen)
		appID := addApplication(store, projectID, addUser(store, models.RoleFreelancer), models.AppStatusPending)

		svc := NewService(store)
		require.NoError(t, svc.WithdrawApplication(appID, admin(uuid.New())))
		require.Empty(t, store.applications)
	})

	t.Run("anyone else is forbidden", func(t *testing.T) {
		store := newFakeStore()
		projectID := addProject(store, addUser(store, models.RoleClient), models.ProjectStatusOpen)
		appID := addApplication(store, projectID, addUser(store, models.RoleFreelancer), models.AppStatusPending)

		svc := NewService(store)
		err := svc.WithdrawApplication(appID, freelancer(uuid.New()))
		require.Equal(t, KindForbidden, KindOf(err))
		require.Len(t, store.applications, 1)
	})

	t.Run("settled applications cannot be withdrawn", func(t *testing.T) {
		store := newFakeStore()
		freelancerID := addUser(store, models.RoleFreelancer)
		projectID := addProject(store, addUser(store, models.RoleClient), models.ProjectStatusAssigned)
		appID := addApplication(store, projectID, freelancerID, models.AppStatusAccepted)

		svc := NewService(store)
		err := svc.WithdrawApplication(appID, freelancer(freelancerID))
		require.Equal(t, KindInvalidState, KindOf(err))
	})

	t.Run("completed project freezes its applications", func(t *testing.T) {
		store := newFakeStore()
		freelancerID := addUser(store, models.RoleFreelancer)
		projectID := addProject(store, addUser(store, models.RoleClient), models.ProjectStatusCompleted)
		appID := addApplication(store, projectID, freelancerID, models.AppStatusPending)

		svc := NewService(store)
		err := svc.WithdrawApplication(appID, freelancer(freelancerID))
		require.Equal(t, KindInvalidState, KindOf(err))
	})
}

func TestSetProjectStatus(t *testing.T) {
	t.Run("assigned cannot be set directly", func(t *testing.T) {
		store := newFakeStore()
		clientID := addUser(store, models.RoleClient)
		projectID := addProject(store, clientID, models.ProjectStatusOpen)

		svc := NewService(store)
		_, err := svc.SetProjectStatus(projectID, client(clientID), models.ProjectStatusAssigned)
		require.Equal(t, KindInvalidArgument, KindOf(err))
	})

	t.Run("progress requires an assignee", func(t *testing.T) {
		store := newFakeStore()
		clientID := addUser(store, models.RoleClient)
		projectID := addProject(store, clientID, models.ProjectStatusOpen)

		svc := NewService(store)
		for _, target := range []models.ProjectStatus{models.ProjectStatusInProgress, models.ProjectStatusCompleted} {
			_, err := svc.SetProjectStatus(projectID, client(clientID), target)
			require.Equal(t, KindInvalidState, KindOf(err))
		}
	})

	t.Run("assigned project moves through progress to completed", func(t *testing.T) {
		store := newFakeStore()
		clientID := addUser(store, models.RoleClient)
		freelancerID := addUser(store, models.RoleFreelancer)
		projectID := addProject(store, clientID, models.ProjectStatusAssigned)
		store.projects[projectID].AssignedTo = &freelancerID

		svc := NewService(store)
		p, err := svc.SetProjectStatus(projectID, client(clientID), models.ProjectStatusInProgress)
		require.NoError(t, err)
		require.Equal(t, models.ProjectStatusInProgress, p.Status)
		require.Equal(t, freelancerID, *p.AssignedTo)

		p, err = svc.SetProjectStatus(projectID, client(clientID), models.ProjectStatusCompleted)
		require.NoError(t, err)
		require.Equal(t, models.ProjectStatusCompleted, p.Status)
		require.Equal(t, freelancerID, *p.AssignedTo)
	})

	t.Run("reopening detaches the freelancer", func(t *testing.T) {
		store := newFakeStore()
		clientID := addUser(store, models.RoleClient)
		freelancerID := addUser(store, models.RoleFreelancer)
		projectID := addProject(store, clientID, models.ProjectStatusAssigned)
		now := time.Now()
		store.projects[projectID].AssignedTo = &freelancerID
		store.projects[projectID].AssignedAt = &now

		svc := NewService(store)
		p, err := svc.SetProjectStatus(projectID, client(clientID), models.ProjectStatusOpen)
		require.NoError(t, err)
		require.Equal(t, models.ProjectStatusOpen, p.Status)
		require.Nil(t, p.AssignedTo)
		require.Nil(t, p.AssignedAt)
		require.Nil(t, store.projects[projectID].AssignedTo)
	})

	t.Run("same status is a no-op", func(t *testing.T) {
		store := newFakeStore()
		clientID := addUser(store, models.RoleClient)
		projectID := addProject(store, clientID, models.ProjectStatusOpen)

		svc := NewService(store)
		p, err := svc.SetProjectStatus(projectID, client(clientID), models.ProjectStatusOpen)
		require.NoError(t, err)
		require.Equal(t, models.ProjectStatusOpen, p.Status)
	})

	t.Run("only owner or admin may edit", func(t *testing.T) {
		store := newFakeStore()
		projectID := addProject(store, addUser(store, models.RoleClient), models.ProjectStatusOpen)

		svc := NewService(store)
		_, err := svc.SetProjectStatus(projectID, client(uuid.New()), models.ProjectStatusCancelled)
		require.Equal(t, KindForbidden, KindOf(err))

		_, err = svc.SetProjectStatus(projectID, admin(uuid.New()), models.ProjectStatusCancelled)
		require.NoError(t, err)
	})
}

func TestDeleteProject(t *testing.T) {
	t.Run("deletes the project with its applications", func(t *testing.T) {
		store := newFakeStore()
		clientID := addUser(store, models.RoleClient)
		projectID := addProject(store, clientID, models.ProjectStatusOpen)
		addApplication(store, projectID, addUser(store, models.RoleFreelancer), models.AppStatusPending)
		addApplication(store, projectID, addUser(store, models.RoleFreelancer), models.AppStatusRejected)

		otherProject := addProject(store, clientID, models.ProjectStatusOpen)
		keep := addApplication(store, otherProject, addUser(store, models.RoleFreelancer), models.AppStatusPending)

		svc := NewService(store)
		require.NoError(t, svc.DeleteProject(projectID, client(clientID)))
		require.NotContains(t, store.projects, projectID)
		require.Len(t, store.applications, 1)
		require.Contains(t, store.applications, keep)
	})

	t.Run("only owner or admin may delete", func(t *testing.T) {
		store := newFakeStore()
		projectID := addProject(store, addUser(store, models.RoleClient), models.ProjectStatusOpen)

		svc := NewService(store)
		err := svc.DeleteProject(projectID, client(uuid.New()))
		require.Equal(t, KindForbidden, KindOf(err))
		require.Contains(t, store.projects, projectID)
	})
}

func TestDeleteUser(t *testing.T) {
	t.Run("requires admin", func(t *testing.T) {
		store := newFakeStore()
		userID := addUser(store, models.RoleFreelancer)

		svc := NewService(store)
		err := svc.DeleteUser(userID, client(uuid.New()))
		require.Equal(t, KindForbidden, KindOf(err))
	})

	t.Run("client cascade removes projects and their applications", func(t *testing.T) {
		store := newFakeStore()
		clientID := addUser(store, models.RoleClient)
		projectID := addProject(store, clientID, models.ProjectStatusOpen)
		addApplication(store, projectID, addUser(store, models.RoleFreelancer), models.AppStatusPending)

		svc := NewService(store)
		require.NoError(t, svc.DeleteUser(clientID, admin(uuid.New())))
		require.NotContains(t, store.users, clientID)
		require.Empty(t, store.projects)
		require.Empty(t, store.applications)
	})

	t.Run("freelancer cascade reopens assigned projects", func(t *testing.T) {
		store := newFakeStore()
		clientID := addUser(store, models.RoleClient)
		freelancerID := addUser(store, models.RoleFreelancer)
		projectID := addProject(store, clientID, models.ProjectStatusInProgress)
		store.projects[projectID].AssignedTo = &freelancerID
		addApplication(store, projectID, freelancerID, models.AppStatusAccepted)

		svc := NewService(store)
		require.NoError(t, svc.DeleteUser(freelancerID, admin(uuid.New())))
		require.NotContains(t, store.users, freelancerID)
		require.Empty(t, store.applications)

		project := store.projects[projectID]
		require.Equal(t, models.ProjectStatusOpen, project.Status)
		require.Nil(t, project.AssignedTo)
	})

	t.Run("unknown user is not found", func(t *testing.T) {
		svc := NewService(newFakeStore())
		err := svc.DeleteUser(uuid.New(), admin(uuid.New()))
		require.Equal(t, KindNotFound, KindOf(err))
	})
}

// TestHiringLifecycle walks a posting end to end: three bids, one accept,
// progress to completion, with the idempotent re-accept along the way.
func TestHiringLifecycle(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)

	clientID := addUser(store, models.RoleClient)
	alice := addUser(store, models.RoleFreelancer)
	bob := addUser(store, models.RoleFreelancer)
	carol := addUser(store, models.RoleFreelancer)
	projectID := addProject(store, clientID, models.ProjectStatusOpen)

	aliceApp, err := svc.SubmitApplication(projectID, freelancer(alice), 800, "Alice's pitch")
	require.NoError(t, err)
	bobApp, err := svc.SubmitApplication(projectID, freelancer(bob), 700, "Bob's pitch")
	require.NoError(t, err)
	carolApp, err := svc.SubmitApplication(projectID, freelancer(carol), 900, "Carol's pitch")
	require.NoError(t, err)

	// Carol thinks twice.
	require.NoError(t, svc.WithdrawApplication(carolApp.ID, freelancer(carol)))

	// The client picks Alice; the double-click repeats the decision.
	_, err = svc.SetApplicationStatus(aliceApp.ID, client(clientID), models.AppStatusAccepted)
	require.NoError(t, err)
	_, err = svc.SetApplicationStatus(aliceApp.ID, client(clientID), models.AppStatusAccepted)
	require.NoError(t, err)

	require.Equal(t, models.AppStatusRejected, store.applications[bobApp.ID].Status)
	require.Equal(t, alice, *store.projects[projectID].AssignedTo)

	// Bob cannot be accepted anymore.
	_, err = svc.SetApplicationStatus(bobApp.ID, client(clientID), models.AppStatusAccepted)
	require.Equal(t, KindInvalidState, KindOf(err))

	// Work happens.
	_, err = svc.SetProjectStatus(projectID, client(clientID), models.ProjectStatusInProgress)
	require.NoError(t, err)
	_, err = svc.SetProjectStatus(projectID, client(clientID), models.ProjectStatusCompleted)
	require.NoError(t, err)

	// Completion freezes everything.
	_, err = svc.SetApplicationStatus(aliceApp.ID, client(clientID), models.AppStatusRejected)
	require.Equal(t, KindInvalidState, KindOf(err))
	require.Equal(t, models.ProjectStatusCompleted, store.projects[projectID].Status)
	require.Equal(t, alice, *store.projects[projectID].AssignedTo)
}
