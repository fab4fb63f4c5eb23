package queries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/avelkovic/matchpoint/internal/modules/core"
	"github.com/avelkovic/matchpoint/internal/modules/location"

	"github.com/eskrenkovic/mediator-go"
	"github.com/go-chi/chi"
	"github.com/google/uuid"
)

type GetLocationQuery struct {
	LocationID uuid.UUID
}

func (q GetLocationQuery) Validate() error {
	if q.LocationID == uuid.Nil {
		return fmt.Errorf("invalid LocationID - '%s'", q.LocationID)
	}

	return nil
}

func HandleGetLocation(w http.ResponseWriter, r *http.Request) {
	locationID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		core.WriteBadRequest(w, r, err)
		return
	}

	query := GetLocationQuery{LocationID: locationID}
	response, err := mediator.Send[GetLocationQuery, location.Location](r.Context(), query)
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	core.WriteOK(w, r, response)
}

type GetLocationQueryHandler struct {
	repository *location.LocationRepository
}

func NewGetLocationQueryHandler(repository *location.LocationRepository) *GetLocationQueryHandler {
	return &GetLocationQueryHandler{repository}
}

func (h *GetLocationQueryHandler) Handle(
	ctx context.Context,
	request GetLocationQuery,
) (location.Location, error) {
	entry, err := h.repository.LoadLocation(ctx, request.LocationID)
	switch {
	case err != nil && errors.Is(err, sql.ErrNoRows):
		return location.Location{}, core.NewCommandError(404, err)
	case err != nil:
		return location.Location{}, core.NewCommandError(500, err, core.WithReason("failed to load location"))
	}

	return entry, nil
}

type ListLocationsQuery struct{}

func HandleListLocations(w http.ResponseWriter, r *http.Request) {
	response, err := mediator.Send[ListLocationsQuery, []location.Location](r.Context(), ListLocationsQuery{})
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	core.WriteOK(w, r, response)
}

type ListLocationsQueryHandler struct {
	repository *location.LocationRepository
}

func NewListLocationsQueryHandler(repository *location.LocationRepository) *ListLocationsQueryHandler {
	return &ListLocationsQueryHandler{repository}
}

func (h *ListLocationsQueryHandler) Handle(
	ctx context.Context,
	request ListLocationsQuery,
) ([]location.Location, error) {
	return h.repository.ListLocations(ctx)
}
