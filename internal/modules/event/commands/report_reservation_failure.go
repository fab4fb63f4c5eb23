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

type ReportReservationFailureCommand struct {
	EventID uuid.UUID
	OwnerID uuid.UUID
}

func (c ReportReservationFailureCommand) Validate() error {
	if c.EventID == uuid.Nil {
		return fmt.Errorf("invalid EventID - '%s'", c.EventID)
	}

	if c.OwnerID == uuid.Nil {
		return fmt.Errorf("invalid OwnerID - '%s'", c.OwnerID)
	}

	return nil
}

func HandleReportReservationFailure(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	eventID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		core.WriteBadRequest(w, r, fmt.Errorf("invalid event id"))
		return
	}

	command := ReportReservationFailureCommand{
		EventID: eventID,
		OwnerID: core.Session(ctx).UserID,
	}

	if _, err := mediator.Send[ReportReservationFailureCommand, core.Unit](ctx, command); err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	core.WriteOK(w, r, nil)
}

type ReportReservationFailureCommandHandler struct {
	db *sql.DB
}

func NewReportReservationFailureCommandHandler(db *sql.DB) *ReportReservationFailureCommandHandler {
	return &ReportReservationFailureCommandHandler{db}
}

func (h *ReportReservationFailureCommandHandler) Handle(
	ctx context.Context,
	request ReportReservationFailureCommand,
) (core.Unit, error) {
	txFn := func(ctx context.Context, tx *sql.Tx) error {
		event, err := loadEventForUpdate(ctx, tx, request.EventID)
		if err != nil {
			return err
		}

		if err := event.ReportReservationFailure(request.OwnerID); err != nil {
			return err
		}

		if err := updateEventStatus(ctx, tx, event); err != nil {
			return err
		}

		const stmt = `
			UPDATE
				join_request
			SET
				status = $1
			WHERE
				event_id = $2 AND status = $3;`

		_, err = tql.Exec(
			ctx,
			tx,
			stmt,
			domain.JoinRequestStatusReservationFailed,
			event.ID,
			domain.JoinRequestStatusAccepted,
		)
		return err
	}

	if err := core.Tx(ctx, h.db, txFn); err != nil {
		return core.Unit{}, wrapDomainError(err)
	}

	return core.Unit{}, nil
}
