package domain

import (
	"time"

	"github.com/google/uuid"
)

type JoinRequestStatus string

const (
	JoinRequestStatusWaiting           JoinRequestStatus = "waiting"
	JoinRequestStatusAccepted          JoinRequestStatus = "accepted"
	JoinRequestStatusRejected          JoinRequestStatus = "rejected"
	JoinRequestStatusCancelled         JoinRequestStatus = "cancelled"
	JoinRequestStatusReservationFailed JoinRequestStatus = "reservation_failed"
)

// Terminal reports whether the request can never change status again.
// Only a waiting request is active.
func (s JoinRequestStatus) Terminal() bool {
	return s != JoinRequestStatusWaiting
}

// JoinRequest is a responder's constrained acceptance of an event: the
// subset of offered locations and candidate slots they can make.
type JoinRequest struct {
	ID        uuid.UUID         `db:"id" json:"id"`
	EventID   uuid.UUID         `db:"event_id" json:"eventId"`
	UserID    uuid.UUID         `db:"user_id" json:"userId"`
	Locations Locations         `db:"locations" json:"locations"`
	TimeSlots TimeSlots         `db:"time_slots" json:"timeSlots"`
	Status    JoinRequestStatus `db:"status" json:"status"`
	Comment   string            `db:"comment" json:"comment,omitempty"`
	CreatedAt time.Time         `db:"created_at" json:"createdAt"`
}
