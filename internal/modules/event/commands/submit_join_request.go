package commands

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"

	"github.com/avelkovic/matchpoint/internal/modules/core"
	"github.com/avelkovic/matchpoint/internal/modules/event/domain"

	"github.com/eskrenkovic/mediator-go"
	"github.com/eskrenkovic/tql"
	"github.com/go-chi/chi"
	"github.com/google/uuid"
)

type SubmitJoinRequestCommand struct {
	EventID   uuid.UUID         `json:"-"`
	UserID    uuid.UUID         `json:"-"`
	Locations []string          `json:"locations"`
	TimeSlots []domain.TimeSlot `json:"timeSlots"`
	Comment   string            `json:"comment"`
}

func (c SubmitJoinRequestCommand) Validate() error {
	if c.EventID == uuid.Nil {
		return fmt.Errorf("invalid EventID - '%s'", c.EventID)
	}

	if c.UserID == uuid.Nil {
		return fmt.Errorf("invalid UserID - '%s'", c.UserID)
	}

	if len(c.Locations) == 0 {
		return fmt.Errorf("invalid Locations - at least one location required")
	}

	if len(c.TimeSlots) == 0 {
		return fmt.Errorf("invalid TimeSlots - at least one time slot required")
	}

	return nil
}

type SubmitJoinRequestResponse struct {
	RequestID uuid.UUID `json:"requestId"`
}

func HandleSubmitJoinRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	command, err := core.RequestBody[SubmitJoinRequestCommand](r)
	if err != nil {
		core.WriteBadRequest(w, r, err)
		return
	}

	eventID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		core.WriteBadRequest(w, r, fmt.Errorf("invalid event id"))
		return
	}

	command.EventID = eventID
	command.UserID = core.Session(ctx).UserID

	response, err := mediator.Send[SubmitJoinRequestCommand, SubmitJoinRequestResponse](ctx, command)
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	core.WriteOK(w, r, response)
}

type SubmitJoinRequestCommandHandler struct {
	db *sql.DB
}

func NewSubmitJoinRequestCommandHandler(db *sql.DB) *SubmitJoinRequestCommandHandler {
	return &SubmitJoinRequestCommandHandler{db}
}

func (h *SubmitJoinRequestCommandHandler) Handle(
	ctx context.Context,
	request SubmitJoinRequestCommand,
) (SubmitJoinRequestResponse, error) {
	var created domain.JoinRequest

	txFn := func(ctx context.Context, tx *sql.Tx) error {
		event, err := loadEventForUpdate(ctx, tx, request.EventID)
		if err != nil {
			return err
		}

		created, err = event.SubmitJoinRequest(
			request.UserID,
			request.Locations,
			request.TimeSlots,
			request.Comment,
		)
		if err != nil {
			return err
		}

		const stmt = `
			INSERT INTO
				join_request (id, event_id, user_id, locations, time_slots, status, comment, created_at)
			VALUES
				(:id, :event_id, :user_id, :locations, :time_slots, :status, :comment, :created_at);`

		_, err = tql.Exec(ctx, tx, stmt, created)
		return err
	}

	if err := core.Tx(ctx, h.db, txFn); err != nil {
		return SubmitJoinRequestResponse{}, wrapDomainError(err)
	}

	return SubmitJoinRequestResponse{RequestID: created.ID}, nil
}
