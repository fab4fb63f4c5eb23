package commands

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"path"

	"github.com/avelkovic/matchpoint/internal/modules/core"
	"github.com/avelkovic/matchpoint/internal/modules/event/domain"

	"github.com/eskrenkovic/mediator-go"
	"github.com/eskrenkovic/tql"
	"github.com/google/uuid"
)

type CreateEventCommand struct {
	OwnerID         uuid.UUID           `json:"-"`
	Locations       []string            `json:"locations"`
	Windows         []domain.DateWindow `json:"windows"`
	DurationMinutes int                 `json:"durationMinutes"`
	SkillLevel      string              `json:"skillLevel"`
	Type            domain.EventType    `json:"type"`
	ExpectedPlayers int                 `json:"expectedPlayers"`
	Description     string              `json:"description"`
}

func (c CreateEventCommand) Validate() error {
	if c.OwnerID == uuid.Nil {
		return fmt.Errorf("invalid OwnerID - '%s'", c.OwnerID)
	}

	if len(c.Locations) == 0 {
		return fmt.Errorf("invalid Locations - at least one location required")
	}

	if len(c.Windows) == 0 {
		return fmt.Errorf("invalid Windows - at least one availability window required")
	}

	if c.DurationMinutes <= 0 {
		return fmt.Errorf("invalid DurationMinutes - '%d'", c.DurationMinutes)
	}

	if c.Type != domain.EventTypeMatch && c.Type != domain.EventTypeTraining {
		return fmt.Errorf("invalid Type - '%s'", c.Type)
	}

	return nil
}

type CreateEventResponse struct {
	EventID        uuid.UUID        `json:"eventId"`
	CandidateSlots domain.TimeSlots `json:"candidateSlots"`
}

func HandleCreateEvent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	command, err := core.RequestBody[CreateEventCommand](r)
	if err != nil {
		core.WriteBadRequest(w, r, err)
		return
	}
	command.OwnerID = core.Session(ctx).UserID

	response, err := mediator.Send[CreateEventCommand, CreateEventResponse](ctx, command)
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	location := path.Join(r.Host, "events", response.EventID.String())
	core.WriteCreated(w, r, location)
}

type CreateEventCommandHandler struct {
	db *sql.DB
}

func NewCreateEventCommandHandler(db *sql.DB) *CreateEventCommandHandler {
	return &CreateEventCommandHandler{db}
}

func (h *CreateEventCommandHandler) Handle(
	ctx context.Context,
	request CreateEventCommand,
) (CreateEventResponse, error) {
	event, err := domain.NewEvent(
		request.OwnerID,
		request.Locations,
		request.Windows,
		request.DurationMinutes,
		request.SkillLevel,
		request.Type,
		request.ExpectedPlayers,
		request.Description,
	)
	if err != nil {
		return CreateEventResponse{}, wrapDomainError(err)
	}

	const stmt = `
		INSERT INTO
			event (
				id, owner_id, description, skill_level, event_type, expected_players,
				session_duration_minutes, locations, windows, candidate_slots,
				status, version, created_at
			)
		VALUES
			(
				:id, :owner_id, :description, :skill_level, :event_type, :expected_players,
				:session_duration_minutes, :locations, :windows, :candidate_slots,
				:status, :version, :created_at
			);`

	if _, err := tql.Exec(ctx, h.db, stmt, event); err != nil {
		return CreateEventResponse{}, core.NewCommandError(500, err, core.WithReason("failed to store event"))
	}

	return CreateEventResponse{EventID: event.ID, CandidateSlots: event.CandidateSlots}, nil
}
