package models

import (
	"time"

	"github.com/google/uuid"
)

// Message is one entry in a project's chat between the client and the
// assigned freelancer. Messages are append-only; only the read flag is ever
// updated.
type Message struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SenderID   uuid.UUID  `gorm:"type:uuid;index;not null" json:"sender_id"`
	ReceiverID *uuid.UUID `gorm:"type:uuid" json:"receiver_id,omitempty"`
	ProjectID  uuid.UUID  `gorm:"type:uuid;index;not null" json:"project_id"`

	Content string `gorm:"type:text;not null" json:"content"`
	Read    bool   `gorm:"default:false" json:"read"`

	CreatedAt time.Time `json:"created_at"`

	Sender *User `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
}
