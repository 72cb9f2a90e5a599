package workflow

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/talentlink/marketplace-api/internal/models"
	"github.com/talentlink/marketplace-api/internal/repositories"
)

// Actor is the authenticated identity invoking an operation. Authentication
// happens upstream (JWT middleware); the service only checks authority.
type Actor struct {
	ID   uuid.UUID
	Role models.Role
}

func (a Actor) isAdmin() bool { return a.Role == models.RoleAdmin }

// Service is the single authoritative write path for application status
// transitions and the correlated project status/assignment mutations.
// Nothing else in the API writes Project.Status, Project.AssignedTo or
// Application.Status.
type Service struct {
	store repositories.Store
}

func NewService(store repositories.Store) *Service {
	return &Service{store: store}
}

// SubmitApplication creates a pending application from a freelancer against
// an open project.
func (s *Service) SubmitApplication(projectID uuid.UUID, actor Actor, bidAmount float64, coverLetter string) (models.Application, error) {
	if bidAmount <= 0 {
		return models.Application{}, invalidArgument("Bid amount must be a positive number.")
	}
	if strings.TrimSpace(coverLetter) == "" {
		return models.Application{}, invalidArgument("Cover letter is required.")
	}

	project, err := s.store.Projects().GetByID(projectID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Application{}, notFound("Project not found or may have been deleted.")
	}
	if err != nil {
		return models.Application{}, err
	}

	if project.Status != models.ProjectStatusOpen {
		return models.Application{}, invalidState(fmt.Sprintf(
			"This project is not currently open for applications. Current status: %s", project.Status))
	}

	exists, err := s.store.Applications().ExistsForPair(projectID, actor.ID)
	if err != nil {
		return models.Application{}, err
	}
	if exists {
		return models.Application{}, conflict("You have already applied for this project.")
	}

	app := models.Application{
		ProjectID:       projectID,
		FreelancerID:    actor.ID,
		BidAmount:       bidAmount,
		CoverLetter:     coverLetter,
		Status:          models.AppStatusPending,
		ApplicationDate: time.Now(),
	}
	if err := s.store.Applications().Create(&app); err != nil {
		// Backstop for two submissions racing past the pre-check; the unique
		// index on (project_id, freelancer_id) decides.
		if repositories.IsUniqueViolation(err) {
			return models.Application{}, conflict("You have already applied for this project.")
		}
		return models.Application{}, err
	}

	app.Project = &project
	return app, nil
}

// SetApplicationStatus moves a pending application to accepted or rejected.
// Accepting assigns the project to the applicant and rejects every sibling
// application still pending, all inside one transaction. Repeating a request
// for a state the application is already in is a no-op success.
func (s *Service) SetApplicationStatus(applicationID uuid.UUID, actor Actor, newStatus models.ApplicationStatus) (models.Application, error) {
	if newStatus != models.AppStatusAccepted && newStatus != models.AppStatusRejected {
		return models.Application{}, invalidArgument("Status must be 'accepted' or 'rejected'.")
	}

	app, err := s.store.Applications().GetByID(applicationID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Application{}, notFound("Application not found.")
	}
	if err != nil {
		return models.Application{}, err
	}

	project, err := s.store.Projects().GetByID(app.ProjectID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Application{}, notFound("Application not found.")
	}
	if err != nil {
		return models.Application{}, err
	}

	if project.ClientID != actor.ID && !actor.isAdmin() {
		return models.Application{}, forbidden("Not authorized to update this application.")
	}

	if project.Status == models.ProjectStatusCompleted {
		return models.Application{}, invalidState("Cannot change application status for a completed project.")
	}

	// Idempotent re-submission of the same decision.
	if app.Status == newStatus {
		app.Project = &project
		return app, nil
	}

	if app.Status != models.AppStatusPending {
		return models.Application{}, invalidState(fmt.Sprintf(
			"Application is already %s and cannot be changed.", app.Status))
	}

	if newStatus == models.AppStatusRejected {
		if err := s.store.Applications().SetStatus(app.ID, models.AppStatusRejected); err != nil {
			return models.Application{}, err
		}
		app.Status = models.AppStatusRejected
		app.Project = &project
		return app, nil
	}

	// Accept: compare-and-swap the assignment, then fan out rejections. Two
	// concurrent accepts race on the swap; the loser gets zero rows and a
	// Conflict, never a double assignment.
	now := time.Now()
	err = s.store.Transaction(func(tx repositories.Store) error {
		locked, err := tx.Applications().GetByIDForUpdate(app.ID)
		if err != nil {
			return err
		}
		if locked.Status != models.AppStatusPending {
			return invalidState(fmt.Sprintf(
				"Application is already %s and cannot be changed.", locked.Status))
		}

		assigned, err := tx.Projects().AssignIfUnassigned(project.ID, app.FreelancerID, now)
		if err != nil {
			return err
		}
		if !assigned {
			return conflict("Project is already assigned to a freelancer.")
		}

		if err := tx.Applications().RejectOtherPending(project.ID, app.ID); err != nil {
			return err
		}
		return tx.Applications().SetStatus(app.ID, models.AppStatusAccepted)
	})
	if err != nil {
		return models.Application{}, err
	}

	app.Status = models.AppStatusAccepted
	project.Status = models.ProjectStatusAssigned
	project.AssignedTo = &app.FreelancerID
	project.AssignedAt = &now
	app.Project = &project
	return app, nil
}

// WithdrawApplication removes a pending application. Only the submitting
// freelancer (or an admin) may do this. The row is hard-deleted; the
// `withdrawn` status value is intentionally left unused.
func (s *Service) WithdrawApplication(applicationID uuid.UUID, actor Actor) error {
	app, err := s.store.Applications().GetByID(applicationID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound("Application not found.")
	}
	if err != nil {
		return err
	}

	if app.FreelancerID != actor.ID && !actor.isAdmin() {
		return forbidden("Not authorized to delete this application.")
	}

	project, err := s.store.Projects().GetByID(app.ProjectID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	if err == nil {
		if project.Status == models.ProjectStatusCompleted {
			return invalidState("Cannot change application status for a completed project.")
		}
		if app.Status != models.AppStatusPending {
			return invalidState(fmt.Sprintf(
				"Only pending applications can be withdrawn; this one is %s.", app.Status))
		}
	}

	return s.store.Applications().Delete(app.ID)
}

// SetProjectStatus is the direct status edit (client or admin). Assignment
// itself only ever happens through acceptance, so "assigned" cannot be set
// here, and the AssignedTo/Status invariant is enforced on every edit.
func (s *Service) SetProjectStatus(projectID uuid.UUID, actor Actor, newStatus models.ProjectStatus) (models.Project, error) {
	switch newStatus {
	case models.ProjectStatusOpen, models.ProjectStatusInProgress,
		models.ProjectStatusCompleted, models.ProjectStatusCancelled:
	case models.ProjectStatusAssigned:
		return models.Project{}, invalidArgument(
			"Status 'assigned' is set by accepting an application, not directly.")
	default:
		return models.Project{}, invalidArgument(
			"Invalid status provided. Allowed statuses: open, in progress, completed, cancelled.")
	}

	project, err := s.store.Projects().GetByID(projectID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Project{}, notFound("Project not found.")
	}
	if err != nil {
		return models.Project{}, err
	}

	if project.ClientID != actor.ID && !actor.isAdmin() {
		return models.Project{}, forbidden("Not authorized to update this project status.")
	}

	if project.Status == newStatus {
		return project, nil
	}

	assignedTo := project.AssignedTo
	assignedAt := project.AssignedAt
	switch newStatus {
	case models.ProjectStatusInProgress, models.ProjectStatusCompleted:
		if project.AssignedTo == nil {
			return models.Project{}, invalidState(fmt.Sprintf(
				"Project must be assigned to a freelancer before it can be marked %s.", newStatus))
		}
	case models.ProjectStatusOpen, models.ProjectStatusCancelled:
		// Reopening or cancelling detaches the freelancer.
		assignedTo = nil
		assignedAt = nil
	}

	if err := s.store.Projects().SetStatus(project.ID, newStatus, assignedTo, assignedAt); err != nil {
		return models.Project{}, err
	}

	project.Status = newStatus
	project.AssignedTo = assignedTo
	project.AssignedAt = assignedAt
	return project, nil
}

// DeleteProject removes a project together with all of its applications.
func (s *Service) DeleteProject(projectID uuid.UUID, actor Actor) error {
	project, err := s.store.Projects().GetByID(projectID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound("Project not found.")
	}
	if err != nil {
		return err
	}

	if project.ClientID != actor.ID && !actor.isAdmin() {
		return forbidden("Not authorized to delete this project.")
	}

	return s.store.Transaction(func(tx repositories.Store) error {
		if err := tx.Applications().DeleteByProject(project.ID); err != nil {
			return err
		}
		return tx.Projects().Delete(project.ID)
	})
}

// DeleteUser removes an account and cascades by role: a client's projects go
// away with their applications, a freelancer is detached from any assigned
// project (which reopens) and their applications are removed.
func (s *Service) DeleteUser(userID uuid.UUID, actor Actor) error {
	if !actor.isAdmin() {
		return forbidden("Not authorized to delete users.")
	}

	user, err := s.store.Users().GetByID(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound("User not found.")
	}
	if err != nil {
		return err
	}

	return s.store.Transaction(func(tx repositories.Store) error {
		switch user.Role {
		case models.RoleClient:
			ids, err := tx.Projects().IDsByClient(user.ID)
			if err != nil {
				return err
			}
			for _, pid := range ids {
				if err := tx.Applications().DeleteByProject(pid); err != nil {
					return err
				}
				if err := tx.Projects().Delete(pid); err != nil {
					return err
				}
			}
		case models.RoleFreelancer:
			if err := tx.Projects().ResetByFreelancer(user.ID); err != nil {
				return err
			}
			if err := tx.Applications().DeleteByFreelancer(user.ID); err != nil {
				return err
			}
		}
		return tx.Users().Delete(user.ID)
	})
}
