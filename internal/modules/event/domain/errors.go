package domain

import "errors"

// Precondition and invariant violations surfaced by the lifecycle
// operations. Callers match with errors.Is; the aggregate is left
// untouched whenever one of these is returned.
var (
	ErrInvalidDuration = errors.New("session duration must be a positive number of minutes")
	ErrInvalidWindow   = errors.New("availability window must start before it ends")
	ErrEmptyLocations  = errors.New("event requires at least one location")
	ErrEmptyWindows    = errors.New("event requires at least one availability window")
	ErrNoAvailableSlots = errors.New("no candidate slots fit the availability windows")

	ErrEventNotOpen      = errors.New("event is not open")
	ErrEventNotConfirmed = errors.New("event is not confirmed")
	ErrNotOwner          = errors.New("caller does not own the event")

	ErrOwnerCannotJoin        = errors.New("event owner cannot submit a join request")
	ErrEmptySelection         = errors.New("join request requires at least one location and one time slot")
	ErrInvalidLocation        = errors.New("selected location is not offered by the event")
	ErrInvalidSlot            = errors.New("selected time slot is not a candidate slot of the event")
	ErrDuplicateActiveRequest = errors.New("user already has a waiting join request on the event")
	ErrRequestNotFound        = errors.New("join request not found")
	ErrRequestNotCancellable  = errors.New("join request is not in a cancellable state")
	ErrInvalidChoice          = errors.New("chosen location or slot was not offered by the join request")
)
