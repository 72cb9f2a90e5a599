package models

import (
	"time"

	"github.com/google/uuid"
)

type ApplicationStatus string

const (
	AppStatusPending   ApplicationStatus = "pending"
	AppStatusAccepted  ApplicationStatus = "accepted"
	AppStatusRejected  ApplicationStatus = "rejected"
	AppStatusWithdrawn ApplicationStatus = "withdrawn" // declared but unused: withdrawal deletes the row
)

// Application is a freelancer's bid on one open project. The composite unique
// index guarantees at most one application per (project, freelancer) pair.
type Application struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProjectID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_project_freelancer" json:"project_id"`
	FreelancerID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_project_freelancer" json:"freelancer_id"`

	BidAmount   float64 `gorm:"not null" json:"bid_amount"`
	CoverLetter string  `gorm:"type:text;not null" json:"cover_letter"`

	Status          ApplicationStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	ApplicationDate time.Time         `gorm:"not null" json:"application_date"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Project    *Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Freelancer *User    `gorm:"foreignKey:FreelancerID" json:"freelancer,omitempty"`
}
