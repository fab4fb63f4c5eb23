package queries

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/avelkovic/matchpoint/internal/modules/core"
	"github.com/avelkovic/matchpoint/internal/modules/event/domain"

	"github.com/eskrenkovic/mediator-go"
	"github.com/eskrenkovic/tql"
)

// GetOpenEventsQuery lists invitations still accepting join requests.
type GetOpenEventsQuery struct{}

func HandleGetOpenEvents(w http.ResponseWriter, r *http.Request) {
	response, err := mediator.Send[GetOpenEventsQuery, []domain.Event](r.Context(), GetOpenEventsQuery{})
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	core.WriteOK(w, r, response)
}

type GetOpenEventsQueryHandler struct {
	db *sql.DB
}

func NewGetOpenEventsQueryHandler(db *sql.DB) *GetOpenEventsQueryHandler {
	return &GetOpenEventsQueryHandler{db}
}

func (h *GetOpenEventsQueryHandler) Handle(
	ctx context.Context,
	request GetOpenEventsQuery,
) ([]domain.Event, error) {
	const query = `
		SELECT
			*
		FROM
			event
		WHERE
			status = $1
		ORDER BY
			created_at DESC;`

	return tql.Query[domain.Event](ctx, h.db, query, domain.EventStatusOpen)
}
