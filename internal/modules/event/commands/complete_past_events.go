package commands

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/avelkovic/matchpoint/internal/modules/core"
	"github.com/avelkovic/matchpoint/internal/modules/event/domain"

	"github.com/eskrenkovic/tql"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// CompletePastEventsCommand sweeps confirmed events whose session has
// already ended and marks them completed. Invoked from a ticker; safe to
// run redundantly since the transition is idempotent.
type CompletePastEventsCommand struct {
	Now time.Time
}

type CompletePastEventsResponse struct {
	Completed int
}

type CompletePastEventsCommandHandler struct {
	db *sql.DB
}

func NewCompletePastEventsCommandHandler(db *sql.DB) *CompletePastEventsCommandHandler {
	return &CompletePastEventsCommandHandler{db}
}

func (h *CompletePastEventsCommandHandler) Handle(
	ctx context.Context,
	request CompletePastEventsCommand,
) (CompletePastEventsResponse, error) {
	now := request.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	const eventsQuery = `
		SELECT
			*
		FROM
			event
		WHERE
			status = $1;`

	events, err := tql.Query[domain.Event](ctx, h.db, eventsQuery, domain.EventStatusConfirmed)
	switch {
	case err != nil && errors.Is(err, sql.ErrNoRows):
		return CompletePastEventsResponse{}, nil
	case err != nil:
		return CompletePastEventsResponse{}, core.NewCommandError(500, err)
	}

	if len(events) == 0 {
		return CompletePastEventsResponse{}, nil
	}

	eventIDs := core.Map(events, func(e domain.Event) uuid.UUID { return e.ID })

	const confirmationsQuery = `
		SELECT
			*
		FROM
			confirmation
		WHERE
			event_id = ANY($1);`

	confirmations, err := tql.Query[domain.Confirmation](ctx, h.db, confirmationsQuery, pq.Array(eventIDs))
	if err != nil {
		return CompletePastEventsResponse{}, core.NewCommandError(500, err)
	}

	confirmationsByEvent := make(map[uuid.UUID]domain.Confirmation, len(confirmations))
	for _, confirmation := range confirmations {
		confirmationsByEvent[confirmation.EventID] = confirmation
	}

	var completedIDs []uuid.UUID
	for i := range events {
		if confirmation, ok := confirmationsByEvent[events[i].ID]; ok {
			events[i].Confirmation = &confirmation
		}

		if events[i].CompleteIfPast(now) {
			completedIDs = append(completedIDs, events[i].ID)
		}
	}

	if len(completedIDs) == 0 {
		return CompletePastEventsResponse{}, nil
	}

	const stmt = `
		UPDATE
			event
		SET
			status = $1,
			version = version + 1
		WHERE
			id = ANY($2) AND status = $3;`

	if _, err := tql.Exec(
		ctx,
		h.db,
		stmt,
		domain.EventStatusCompleted,
		pq.Array(completedIDs),
		domain.EventStatusConfirmed,
	); err != nil {
		return CompletePastEventsResponse{}, core.NewCommandError(500, err)
	}

	return CompletePastEventsResponse{Completed: len(completedIDs)}, nil
}
