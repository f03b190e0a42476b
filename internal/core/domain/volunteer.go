package domain

import (
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// Volunteer
// =============================================================================

// DateLayout is the layout used when volunteers are listed.
const DateLayout = "2006-01-02 15:04:05"

// MessageFallback is shown for records that carry no message at all.
const MessageFallback = "N/A"

// Volunteer represents a person who signed up to help.
type Volunteer struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	Message      *string   `json:"message,omitempty"` // nil for records stored without one
	RegisteredAt time.Time `json:"registered_at"`
}

// NewVolunteer creates a volunteer registered at now.
// An omitted message is stored as an empty string, not as a missing one.
func NewVolunteer(name, email, phone, message string, now time.Time) *Volunteer {
	return &Volunteer{
		ID:           NewVolunteerID(),
		Name:         name,
		Email:        email,
		Phone:        phone,
		Message:      &message,
		RegisteredAt: now.UTC(),
	}
}

// NewVolunteerID returns a fresh volunteer identifier.
func NewVolunteerID() string {
	return "vol_" + uuid.New().String()[:8]
}

// DisplayMessage returns the message for listing.
func (v *Volunteer) DisplayMessage() string {
	if v.Message == nil {
		return MessageFallback
	}
	return *v.Message
}

// DisplayDate returns the registration time in UTC formatted with DateLayout.
func (v *Volunteer) DisplayDate() string {
	return v.RegisteredAt.UTC().Format(DateLayout)
}
