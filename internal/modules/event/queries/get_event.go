package queries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/avelkovic/matchpoint/internal/modules/core"
	"github.com/avelkovic/matchpoint/internal/modules/event/domain"

	"github.com/eskrenkovic/mediator-go"
	"github.com/eskrenkovic/tql"
	"github.com/go-chi/chi"
	"github.com/google/uuid"
)

type GetEventQuery struct {
	EventID uuid.UUID
}

func (q GetEventQuery) Validate() error {
	if q.EventID == uuid.Nil {
		return fmt.Errorf("invalid EventID - '%s'", q.EventID)
	}

	return nil
}

func HandleGetEvent(w http.ResponseWriter, r *http.Request) {
	eventID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		core.WriteBadRequest(w, r, fmt.Errorf("invalid event id"))
		return
	}

	event, err := mediator.Send[GetEventQuery, domain.Event](r.Context(), GetEventQuery{EventID: eventID})
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	core.WriteOK(w, r, event)
}

type GetEventQueryHandler struct {
	db *sql.DB
}

func NewGetEventQueryHandler(db *sql.DB) *GetEventQueryHandler {
	return &GetEventQueryHandler{db}
}

func (h *GetEventQueryHandler) Handle(ctx context.Context, request GetEventQuery) (domain.Event, error) {
	const eventQuery = `
		SELECT
			*
		FROM
			event
		WHERE
			id = $1;`

	event, err := tql.QueryFirst[domain.Event](ctx, h.db, eventQuery, request.EventID)
	switch {
	case err != nil && errors.Is(err, sql.ErrNoRows):
		return domain.Event{}, core.NewCommandError(404, err)
	case err != nil:
		return domain.Event{}, core.NewCommandError(500, err)
	}

	const requestsQuery = `
		SELECT
			*
		FROM
			join_request
		WHERE
			event_id = $1
		ORDER BY
			created_at, id;`

	requests, err := tql.Query[domain.JoinRequest](ctx, h.db, requestsQuery, request.EventID)
	if err != nil {
		return domain.Event{}, core.NewCommandError(500, err)
	}
	event.JoinRequests = requests

	const confirmationQuery = `
		SELECT
			*
		FROM
			confirmation
		WHERE
			event_id = $1;`

	confirmation, err := tql.QueryFirst[domain.Confirmation](ctx, h.db, confirmationQuery, request.EventID)
	switch {
	case err != nil && errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return domain.Event{}, core.NewCommandError(500, err)
	default:
		event.Confirmation = &confirmation
	}

	return event, nil
}
