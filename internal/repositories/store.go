package repositories

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/talentlink/marketplace-api/internal/models"
)

// Store groups the repositories the workflow service writes through. The
// gorm-backed implementation is the only one used in production; tests swap
// in an in-memory fake.
type Store interface {
	Projects() ProjectRepo
	Applications() ApplicationRepo
	Users() UserRepo

	// Transaction runs fn against a store bound to a single DB transaction.
	Transaction(fn func(Store) error) error
}

type ProjectRepo interface {
	GetByID(id uuid.UUID) (models.Project, error)

	// AssignIfUnassigned is the compare-and-swap that assigns a freelancer
	// only while assigned_to is still null. Returns false when another accept
	// won the race.
	AssignIfUnassigned(projectID, freelancerID uuid.UUID, at time.Time) (bool, error)

	SetStatus(projectID uuid.UUID, status models.ProjectStatus, assignedTo *uuid.UUID, assignedAt *time.Time) error
	Delete(projectID uuid.UUID) error
	IDsByClient(clientID uuid.UUID) ([]uuid.UUID, error)

	// ResetByFreelancer detaches a freelancer from every project assigned to
	// them, putting those projects back to open.
	ResetByFreelancer(freelancerID uuid.UUID) error
}

type ApplicationRepo interface {
	GetByID(id uuid.UUID) (models.Application, error)
	GetByIDForUpdate(id uuid.UUID) (models.Application, error)
	ExistsForPair(projectID, freelancerID uuid.UUID) (bool, error)
	Create(app *models.Application) error
	SetStatus(id uuid.UUID, status models.ApplicationStatus) error

	// RejectOtherPending fans the accept decision out to every sibling
	// application still pending on the same project.
	RejectOtherPending(projectID, exceptID uuid.UUID) error

	Delete(id uuid.UUID) error
	DeleteByProject(projectID uuid.UUID) error
	DeleteByFreelancer(freelancerID uuid.UUID) error
}

type UserRepo interface {
	GetByID(id uuid.UUID) (models.User, error)
	Delete(id uuid.UUID) error
}

type gormStore struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Projects() ProjectRepo         { return &projectRepo{db: s.db} }
func (s *gormStore) Applications() ApplicationRepo { return &applicationRepo{db: s.db} }
func (s *gormStore) Users() UserRepo               { return &userRepo{db: s.db} }

func (s *gormStore) Transaction(fn func(Store) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{db: tx})
	})
}

// IsUniqueViolation reports whether err is the postgres duplicate-key error,
// e.g. from the (project_id, freelancer_id) index.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
