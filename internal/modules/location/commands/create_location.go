package commands

import (
	"context"
	"fmt"
	"net/http"
	"path"

	"github.com/avelkovic/matchpoint/internal/modules/core"
	"github.com/avelkovic/matchpoint/internal/modules/location"

	"github.com/eskrenkovic/mediator-go"
	"github.com/google/uuid"
)

type CreateLocationCommand struct {
	Location location.CreateLocationModel
}

func (c CreateLocationCommand) Validate() error {
	if c.Location.Slug == "" {
		return fmt.Errorf("invalid Slug - '%s'", c.Location.Slug)
	}

	if c.Location.Name == "" {
		return fmt.Errorf("invalid Name - '%s'", c.Location.Name)
	}

	return nil
}

type CreateLocationResponse struct {
	LocationID uuid.UUID `json:"locationId"`
}

func HandleCreateLocation(w http.ResponseWriter, r *http.Request) {
	model, err := core.RequestBody[location.CreateLocationModel](r)
	if err != nil {
		core.WriteBadRequest(w, r, err)
		return
	}

	command := CreateLocationCommand{Location: model}
	response, err := mediator.Send[CreateLocationCommand, CreateLocationResponse](r.Context(), command)
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	core.WriteCreated(w, r, path.Join(r.Host, "locations", response.LocationID.String()))
}

type CreateLocationCommandHandler struct {
	repository *location.LocationRepository
}

func NewCreateLocationCommandHandler(repository *location.LocationRepository) *CreateLocationCommandHandler {
	return &CreateLocationCommandHandler{repository}
}

func (h *CreateLocationCommandHandler) Handle(
	ctx context.Context,
	request CreateLocationCommand,
) (CreateLocationResponse, error) {
	entry := location.Location{
		ID:          uuid.New(),
		Slug:        request.Location.Slug,
		Name:        request.Location.Name,
		Address:     request.Location.Address,
		CourtCount:  request.Location.CourtCount,
		Indoor:      request.Location.Indoor,
		Description: request.Location.Description,
	}

	if err := h.repository.SaveLocation(ctx, entry); err != nil {
		return CreateLocationResponse{}, core.NewCommandError(500, err, core.WithReason("failed to store location"))
	}

	return CreateLocationResponse{LocationID: entry.ID}, nil
}
