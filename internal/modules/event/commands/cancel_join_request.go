package commands

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"

	"github.com/avelkovic/matchpoint/internal/modules/core"

	"github.com/eskrenkovic/mediator-go"
	"github.com/eskrenkovic/tql"
	"github.com/go-chi/chi"
	"github.com/google/uuid"
)

type CancelJoinRequestCommand struct {
	EventID uuid.UUID
	UserID  uuid.UUID
}

func (c CancelJoinRequestCommand) Validate() error {
	if c.EventID == uuid.Nil {
		return fmt.Errorf("invalid EventID - '%s'", c.EventID)
	}

	if c.UserID == uuid.Nil {
		return fmt.Errorf("invalid UserID - '%s'", c.UserID)
	}

	return nil
}

func HandleCancelJoinRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	eventID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		core.WriteBadRequest(w, r, fmt.Errorf("invalid event id"))
		return
	}

	command := CancelJoinRequestCommand{
		EventID: eventID,
		UserID:  core.Session(ctx).UserID,
	}

	if _, err := mediator.Send[CancelJoinRequestCommand, core.Unit](ctx, command); err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	core.WriteOK(w, r, nil)
}

type CancelJoinRequestCommandHandler struct {
	db *sql.DB
}

func NewCancelJoinRequestCommandHandler(db *sql.DB) *CancelJoinRequestCommandHandler {
	return &CancelJoinRequestCommandHandler{db}
}

func (h *CancelJoinRequestCommandHandler) Handle(
	ctx context.Context,
	request CancelJoinRequestCommand,
) (core.Unit, error) {
	txFn := func(ctx context.Context, tx *sql.Tx) error {
		event, err := loadEventForUpdate(ctx, tx, request.EventID)
		if err != nil {
			return err
		}

		cancelled, err := event.CancelJoinRequest(request.UserID)
		if err != nil {
			return err
		}

		const stmt = `
			UPDATE
				join_request
			SET
				status = :status
			WHERE
				id = :id;`

		_, err = tql.Exec(ctx, tx, stmt, cancelled)
		return err
	}

	if err := core.Tx(ctx, h.db, txFn); err != nil {
		return core.Unit{}, wrapDomainError(err)
	}

	return core.Unit{}, nil
}
