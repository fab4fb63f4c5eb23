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

type UpdateAvailabilityCommand struct {
	EventID         uuid.UUID           `json:"-"`
	OwnerID         uuid.UUID           `json:"-"`
	Windows         []domain.DateWindow `json:"windows"`
	DurationMinutes int                 `json:"durationMinutes"`
}

func (c UpdateAvailabilityCommand) Validate() error {
	if c.EventID == uuid.Nil {
		return fmt.Errorf("invalid EventID - '%s'", c.EventID)
	}

	if c.OwnerID == uuid.Nil {
		return fmt.Errorf("invalid OwnerID - '%s'", c.OwnerID)
	}

	if len(c.Windows) == 0 {
		return fmt.Errorf("invalid Windows - at least one availability window required")
	}

	if c.DurationMinutes <= 0 {
		return fmt.Errorf("invalid DurationMinutes - '%d'", c.DurationMinutes)
	}

	return nil
}

func HandleUpdateAvailability(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	command, err := core.RequestBody[UpdateAvailabilityCommand](r)
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
	command.OwnerID = core.Session(ctx).UserID

	if _, err := mediator.Send[UpdateAvailabilityCommand, core.Unit](ctx, command); err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	core.WriteOK(w, r, nil)
}

type UpdateAvailabilityCommandHandler struct {
	db *sql.DB
}

func NewUpdateAvailabilityCommandHandler(db *sql.DB) *UpdateAvailabilityCommandHandler {
	return &UpdateAvailabilityCommandHandler{db}
}

func (h *UpdateAvailabilityCommandHandler) Handle(
	ctx context.Context,
	request UpdateAvailabilityCommand,
) (core.Unit, error) {
	txFn := func(ctx context.Context, tx *sql.Tx) error {
		event, err := loadEventForUpdate(ctx, tx, request.EventID)
		if err != nil {
			return err
		}

		if err := event.UpdateAvailability(request.OwnerID, request.Windows, request.DurationMinutes); err != nil {
			return err
		}

		const stmt = `
			UPDATE
				event
			SET
				windows = :windows,
				session_duration_minutes = :session_duration_minutes,
				candidate_slots = :candidate_slots,
				version = version + 1
			WHERE
				id = :id;`

		_, err = tql.Exec(ctx, tx, stmt, event)
		return err
	}

	if err := core.Tx(ctx, h.db, txFn); err != nil {
		return core.Unit{}, wrapDomainError(err)
	}

	return core.Unit{}, nil
}
