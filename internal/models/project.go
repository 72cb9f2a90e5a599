package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ProjectStatus string

const (
	ProjectStatusOpen       ProjectStatus = "open"
	ProjectStatusAssigned   ProjectStatus = "assigned"
	ProjectStatusInProgress ProjectStatus = "in progress"
	ProjectStatusCompleted  ProjectStatus = "completed"
	ProjectStatusCancelled  ProjectStatus = "cancelled"
)

// Project is a job posted by a client, open for applications until one is
// accepted. AssignedTo is non-null exactly while status is assigned,
// "in progress" or completed; all status/assignment writes go through the
// workflow service.
type Project struct {
	ID       uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ClientID uuid.UUID `gorm:"type:uuid;index;not null" json:"client_id"`

	Title       string `gorm:"not null" json:"title"`
	Description string `gorm:"type:text;not null" json:"description"`

	// Free-text, e.g. "$500 - $1000". Kept as a string on purpose.
	Budget string `gorm:"not null" json:"budget"`

	Status         ProjectStatus  `gorm:"type:varchar(20);not null;default:'open';index" json:"status"`
	SkillsRequired datatypes.JSON `json:"skills_required"` // ordered JSON array of strings

	AssignedTo *uuid.UUID `gorm:"type:uuid;index" json:"assigned_to,omitempty"`
	AssignedAt *time.Time `json:"assigned_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Client     *User `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Freelancer *User `gorm:"foreignKey:AssignedTo" json:"freelancer,omitempty"`
}
