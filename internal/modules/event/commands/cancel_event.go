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

type CancelEventCommand struct {
	EventID uuid.UUID
	OwnerID uuid.UUID
}

func (c CancelEventCommand) Validate() error {
	if c.EventID == uuid.Nil {
		return fmt.Errorf("invalid EventID - '%s'", c.EventID)
	}

	if c.OwnerID == uuid.Nil {
		return fmt.Errorf("invalid OwnerID - '%s'", c.OwnerID)
	}

	return nil
}

func HandleCancelEvent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	eventID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		core.WriteBadRequest(w, r, fmt.Errorf("invalid event id"))
		return
	}

	command := CancelEventCommand{
		EventID: eventID,
		OwnerID: core.Session(ctx).UserID,
	}

	if _, err := mediator.Send[CancelEventCommand, core.Unit](ctx, command); err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	core.WriteOK(w, r, nil)
}

type CancelEventCommandHandler struct {
	db *sql.DB
}

func NewCancelEventCommandHandler(db *sql.DB) *CancelEventCommandHandler {
	return &CancelEventCommandHandler{db}
}

func (h *CancelEventCommandHandler) Handle(
	ctx context.Context,
	request CancelEventCommand,
) (core.Unit, error) {
	txFn := func(ctx context.Context, tx *sql.Tx) error {
		event, err := loadEventForUpdate(ctx, tx, request.EventID)
		if err != nil {
			return err
		}

		if err := event.Cancel(request.OwnerID); err != nil {
			return err
		}

		if err := updateEventStatus(ctx, tx, event); err != nil {
			return err
		}

		const cascadeStmt = `
			UPDATE
				join_request
			SET
				status = $1
			WHERE
				event_id = $2 AND status = $3;`

		_, err = tql.Exec(
			ctx,
			tx,
			cascadeStmt,
			domain.JoinRequestStatusCancelled,
			event.ID,
			domain.JoinRequestStatusWaiting,
		)
		return err
	}

	if err := core.Tx(ctx, h.db, txFn); err != nil {
		return core.Unit{}, wrapDomainError(err)
	}

	return core.Unit{}, nil
}
