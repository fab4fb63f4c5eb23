package domain

import (
	"time"

	"github.com/google/uuid"
)

// Confirmation is the single resolved booking of an event. It references
// the event and the winning user by identifier only.
type Confirmation struct {
	EventID       uuid.UUID `db:"event_id" json:"eventId"`
	Location      string    `db:"location" json:"location"`
	Slot          TimeSlot  `db:"slot" json:"slot"`
	WinningUserID uuid.UUID `db:"winning_user_id" json:"winningUserId"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
}
