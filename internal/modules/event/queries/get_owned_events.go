package queries

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"

	"github.com/avelkovic/matchpoint/internal/modules/core"
	"github.com/avelkovic/matchpoint/internal/modules/event/domain"

	"github.com/eskrenkovic/mediator-go"
	"github.com/eskrenkovic/tql"
	"github.com/google/uuid"
)

type GetOwnedEventsQuery struct {
	OwnerID uuid.UUID
}

func (q GetOwnedEventsQuery) Validate() error {
	if q.OwnerID == uuid.Nil {
		return fmt.Errorf("invalid OwnerID - '%s'", q.OwnerID)
	}

	return nil
}

func HandleGetOwnedEvents(w http.ResponseWriter, r *http.Request) {
	ownerIDParam, found := r.URL.Query()["ownerId"]
	if !found {
		core.WriteBadRequest(w, r, fmt.Errorf("missing required query param 'ownerId'"))
		return
	}

	ownerID, err := uuid.Parse(ownerIDParam[0])
	if err != nil {
		core.WriteBadRequest(w, r, fmt.Errorf("invalid format for query param 'ownerId'"))
		return
	}

	response, err := mediator.Send[GetOwnedEventsQuery, []domain.Event](
		r.Context(),
		GetOwnedEventsQuery{OwnerID: ownerID},
	)
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	core.WriteOK(w, r, response)
}

type GetOwnedEventsQueryHandler struct {
	db *sql.DB
}

func NewGetOwnedEventsQueryHandler(db *sql.DB) *GetOwnedEventsQueryHandler {
	return &GetOwnedEventsQueryHandler{db}
}

func (h *GetOwnedEventsQueryHandler) Handle(
	ctx context.Context,
	request GetOwnedEventsQuery,
) ([]domain.Event, error) {
	const query = `
		SELECT
			*
		FROM
			event
		WHERE
			owner_id = $1
		ORDER BY
			created_at DESC;`

	return tql.Query[domain.Event](ctx, h.db, query, request.OwnerID)
}
