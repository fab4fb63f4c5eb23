package domain

import (
	"time"

	"github.com/google/uuid"
)

type EventStatus string

const (
	EventStatusOpen EventStatus = "open"
	// EventStatusAccepted is a provisional hold between the owner picking a
	// winner and the booking being secured. The current flow confirms in a
	// single step, so accepted is never stored.
	EventStatusAccepted          EventStatus = "accepted"
	EventStatusConfirmed         EventStatus = "confirmed"
	EventStatusCancelled         EventStatus = "cancelled"
	EventStatusReservationFailed EventStatus = "reservation_failed"
	EventStatusCompleted         EventStatus = "completed"
)

type EventType string

const (
	EventTypeMatch    EventType = "match"
	EventTypeTraining EventType = "training"
)

// Event is an organizer's open proposal for a game across candidate
// locations and time slots. It owns its join requests and is the unit of
// exclusive mutation: every lifecycle operation below validates first and
// touches state only on success.
type Event struct {
	ID                     uuid.UUID   `db:"id" json:"id"`
	OwnerID                uuid.UUID   `db:"owner_id" json:"ownerId"`
	Description            string      `db:"description" json:"description,omitempty"`
	SkillLevel             string      `db:"skill_level" json:"skillLevel"`
	Type                   EventType   `db:"event_type" json:"type"`
	ExpectedPlayers        int         `db:"expected_players" json:"expectedPlayers"`
	SessionDurationMinutes int         `db:"session_duration_minutes" json:"sessionDurationMinutes"`
	Locations              Locations   `db:"locations" json:"locations"`
	Windows                DateWindows `db:"windows" json:"windows"`
	CandidateSlots         TimeSlots   `db:"candidate_slots" json:"candidateSlots"`
	Status                 EventStatus `db:"status" json:"status"`
	Version                int         `db:"version" json:"-"`
	CreatedAt              time.Time   `db:"created_at" json:"createdAt"`

	JoinRequests []JoinRequest `db:"-" json:"joinRequests,omitempty"`
	Confirmation *Confirmation `db:"-" json:"confirmation,omitempty"`
}

// MatchFormat labels the event by expected player count. Advisory only.
func (e *Event) MatchFormat() string {
	switch e.ExpectedPlayers {
	case 2:
		return "singles"
	case 4:
		return "doubles"
	default:
		return "custom"
	}
}

func NewEvent(
	ownerID uuid.UUID,
	locations []string,
	windows []DateWindow,
	durationMinutes int,
	skillLevel string,
	eventType EventType,
	expectedPlayers int,
	description string,
) (Event, error) {
	if len(locations) == 0 {
		return Event{}, ErrEmptyLocations
	}

	if len(windows) == 0 {
		return Event{}, ErrEmptyWindows
	}

	slots, err := GenerateSlots(windows, durationMinutes)
	if err != nil {
		return Event{}, err
	}

	if len(slots) == 0 {
		return Event{}, ErrNoAvailableSlots
	}

	return Event{
		ID:                     uuid.New(),
		OwnerID:                ownerID,
		Description:            description,
		SkillLevel:             skillLevel,
		Type:                   eventType,
		ExpectedPlayers:        expectedPlayers,
		SessionDurationMinutes: durationMinutes,
		Locations:              locations,
		Windows:                windows,
		CandidateSlots:         slots,
		Status:                 EventStatusOpen,
		Version:                1,
		CreatedAt:              time.Now().UTC(),
	}, nil
}

// UpdateAvailability replaces the availability windows and the session
// duration, recomputing the candidate slots. Allowed only while the event
// is open - the slot set freezes once the event leaves the open state.
func (e *Event) UpdateAvailability(ownerID uuid.UUID, windows []DateWindow, durationMinutes int) error {
	if e.OwnerID != ownerID {
		return ErrNotOwner
	}

	if e.Status != EventStatusOpen {
		return ErrEventNotOpen
	}

	if len(windows) == 0 {
		return ErrEmptyWindows
	}

	slots, err := GenerateSlots(windows, durationMinutes)
	if err != nil {
		return err
	}

	if len(slots) == 0 {
		return ErrNoAvailableSlots
	}

	e.Windows = windows
	e.SessionDurationMinutes = durationMinutes
	e.CandidateSlots = slots

	return nil
}

// SubmitJoinRequest records a responder's selection. Selections are strict
// subset checks against the event's own location set and candidate slots.
func (e *Event) SubmitJoinRequest(
	userID uuid.UUID,
	locations []string,
	timeSlots []TimeSlot,
	comment string,
) (JoinRequest, error) {
	if e.Status != EventStatusOpen {
		return JoinRequest{}, ErrEventNotOpen
	}

	if userID == e.OwnerID {
		return JoinRequest{}, ErrOwnerCannotJoin
	}

	if len(locations) == 0 || len(timeSlots) == 0 {
		return JoinRequest{}, ErrEmptySelection
	}

	for _, location := range locations {
		if !e.Locations.Contains(location) {
			return JoinRequest{}, ErrInvalidLocation
		}
	}

	for _, slot := range timeSlots {
		if !e.CandidateSlots.Contains(slot) {
			return JoinRequest{}, ErrInvalidSlot
		}
	}

	for _, request := range e.JoinRequests {
		if request.UserID == userID && !request.Status.Terminal() {
			return JoinRequest{}, ErrDuplicateActiveRequest
		}
	}

	request := JoinRequest{
		ID:        uuid.New(),
		EventID:   e.ID,
		UserID:    userID,
		Locations: locations,
		TimeSlots: timeSlots,
		Status:    JoinRequestStatusWaiting,
		Comment:   comment,
		CreatedAt: time.Now().UTC(),
	}

	e.JoinRequests = append(e.JoinRequests, request)

	return request, nil
}

// CancelJoinRequest withdraws the caller's waiting request. Cancelled and
// rejected requests stay on the event; the user may submit a fresh one
// while the event is still open.
func (e *Event) CancelJoinRequest(userID uuid.UUID) (JoinRequest, error) {
	found := false
	for i := range e.JoinRequests {
		if e.JoinRequests[i].UserID != userID {
			continue
		}

		found = true
		if e.JoinRequests[i].Status == JoinRequestStatusWaiting {
			e.JoinRequests[i].Status = JoinRequestStatusCancelled
			return e.JoinRequests[i], nil
		}
	}

	if !found {
		return JoinRequest{}, ErrRequestNotFound
	}

	return JoinRequest{}, ErrRequestNotCancellable
}

// Cancel closes an open event and cascades to every waiting join request.
func (e *Event) Cancel(ownerID uuid.UUID) error {
	if e.OwnerID != ownerID {
		return ErrNotOwner
	}

	if e.Status != EventStatusOpen {
		return ErrEventNotOpen
	}

	e.Status = EventStatusCancelled
	for i := range e.JoinRequests {
		if e.JoinRequests[i].Status == JoinRequestStatusWaiting {
			e.JoinRequests[i].Status = JoinRequestStatusCancelled
		}
	}

	return nil
}

// AcceptJoinRequest is the owner picking one response and committing to
// book it: the winner is accepted, every other waiting request is
// rejected, the event is confirmed, and a confirmation is attached. The
// chosen location and slot must come from what the winner offered.
func (e *Event) AcceptJoinRequest(
	ownerID uuid.UUID,
	winningUserID uuid.UUID,
	chosenLocation string,
	chosenSlot TimeSlot,
) (Confirmation, error) {
	if e.OwnerID != ownerID {
		return Confirmation{}, ErrNotOwner
	}

	if e.Status != EventStatusOpen {
		return Confirmation{}, ErrEventNotOpen
	}

	winnerIdx := -1
	for i := range e.JoinRequests {
		if e.JoinRequests[i].UserID == winningUserID &&
			e.JoinRequests[i].Status == JoinRequestStatusWaiting {
			winnerIdx = i
			break
		}
	}

	if winnerIdx == -1 {
		return Confirmation{}, ErrRequestNotFound
	}

	winner := &e.JoinRequests[winnerIdx]
	if !winner.Locations.Contains(chosenLocation) || !winner.TimeSlots.Contains(chosenSlot) {
		return Confirmation{}, ErrInvalidChoice
	}

	winner.Status = JoinRequestStatusAccepted
	for i := range e.JoinRequests {
		if i != winnerIdx && e.JoinRequests[i].Status == JoinRequestStatusWaiting {
			e.JoinRequests[i].Status = JoinRequestStatusRejected
		}
	}

	confirmation := Confirmation{
		EventID:       e.ID,
		Location:      chosenLocation,
		Slot:          chosenSlot,
		WinningUserID: winningUserID,
		CreatedAt:     time.Now().UTC(),
	}

	e.Status = EventStatusConfirmed
	e.Confirmation = &confirmation

	return confirmation, nil
}

// ReportReservationFailure records that the owner could not secure the
// booked resource after acceptance. Terminal - the workflow never falls
// back to the next-best request.
func (e *Event) ReportReservationFailure(ownerID uuid.UUID) error {
	if e.OwnerID != ownerID {
		return ErrNotOwner
	}

	if e.Status != EventStatusConfirmed {
		return ErrEventNotConfirmed
	}

	e.Status = EventStatusReservationFailed
	for i := range e.JoinRequests {
		if e.JoinRequests[i].Status == JoinRequestStatusAccepted {
			e.JoinRequests[i].Status = JoinRequestStatusReservationFailed
		}
	}

	return nil
}

// CompleteIfPast moves a confirmed event to completed once the confirmed
// session has ended. Idempotent and a no-op before the deadline or after
// the event terminated some other way. Reports whether a transition
// happened so callers know to persist.
func (e *Event) CompleteIfPast(now time.Time) bool {
	if e.Status != EventStatusConfirmed || e.Confirmation == nil {
		return false
	}

	sessionEnd := e.Confirmation.Slot.EndTime(e.SessionDurationMinutes)
	if now.Before(sessionEnd) {
		return false
	}

	e.Status = EventStatusCompleted
	return true
}
