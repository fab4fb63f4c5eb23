package commands

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
	"go.uber.org/zap"
)

type AcceptJoinRequestCommand struct {
	EventID        uuid.UUID       `json:"-"`
	OwnerID        uuid.UUID       `json:"-"`
	WinningUserID  uuid.UUID       `json:"winningUserId"`
	ChosenLocation string          `json:"chosenLocation"`
	ChosenSlot     domain.TimeSlot `json:"chosenSlot"`
}

func (c AcceptJoinRequestCommand) Validate() error {
	if c.EventID == uuid.Nil {
		return fmt.Errorf("invalid EventID - '%s'", c.EventID)
	}

	if c.OwnerID == uuid.Nil {
		return fmt.Errorf("invalid OwnerID - '%s'", c.OwnerID)
	}

	if c.WinningUserID == uuid.Nil {
		return fmt.Errorf("invalid WinningUserID - '%s'", c.WinningUserID)
	}

	if c.ChosenLocation == "" {
		return fmt.Errorf("invalid ChosenLocation - '%s'", c.ChosenLocation)
	}

	return nil
}

func HandleAcceptJoinRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	command, err := core.RequestBody[AcceptJoinRequestCommand](r)
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

	confirmation, err := mediator.Send[AcceptJoinRequestCommand, domain.Confirmation](ctx, command)
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	core.WriteOK(w, r, confirmation)
}

type AcceptJoinRequestCommandHandler struct {
	db          *sql.DB
	emailClient *core.EmailClient
	emailSender string
}

func NewAcceptJoinRequestCommandHandler(
	db *sql.DB,
	emailClient *core.EmailClient,
	emailSender string,
) *AcceptJoinRequestCommandHandler {
	return &AcceptJoinRequestCommandHandler{db, emailClient, emailSender}
}

func (h *AcceptJoinRequestCommandHandler) Handle(
	ctx context.Context,
	request AcceptJoinRequestCommand,
) (domain.Confirmation, error) {
	var confirmation domain.Confirmation

	txFn := func(ctx context.Context, tx *sql.Tx) error {
		event, err := loadEventForUpdate(ctx, tx, request.EventID)
		if err != nil {
			return err
		}

		// The winner's status is re-checked here, inside the critical
		// section, so a concurrently committed cancellation surfaces as
		// request-not-found instead of silently accepting a dead request.
		confirmation, err = event.AcceptJoinRequest(
			request.OwnerID,
			request.WinningUserID,
			request.ChosenLocation,
			request.ChosenSlot,
		)
		if err != nil {
			return err
		}

		if err := updateEventStatus(ctx, tx, event); err != nil {
			return err
		}

		const winnerStmt = `
			UPDATE
				join_request
			SET
				status = $1
			WHERE
				event_id = $2 AND user_id = $3 AND status = $4;`

		if _, err := tql.Exec(
			ctx,
			tx,
			winnerStmt,
			domain.JoinRequestStatusAccepted,
			event.ID,
			request.WinningUserID,
			domain.JoinRequestStatusWaiting,
		); err != nil {
			return err
		}

		const losersStmt = `
			UPDATE
				join_request
			SET
				status = $1
			WHERE
				event_id = $2 AND status = $3;`

		if _, err := tql.Exec(
			ctx,
			tx,
			losersStmt,
			domain.JoinRequestStatusRejected,
			event.ID,
			domain.JoinRequestStatusWaiting,
		); err != nil {
			return err
		}

		const confirmationStmt = `
			INSERT INTO
				confirmation (event_id, location, slot, winning_user_id, created_at)
			VALUES
				(:event_id, :location, :slot, :winning_user_id, :created_at);`

		_, err = tql.Exec(ctx, tx, confirmationStmt, confirmation)
		return err
	}

	if err := core.Tx(ctx, h.db, txFn); err != nil {
		return domain.Confirmation{}, wrapDomainError(err)
	}

	// Best effort only - the booking is committed either way.
	h.notifyWinner(ctx, confirmation)

	return confirmation, nil
}

func (h *AcceptJoinRequestCommandHandler) notifyWinner(ctx context.Context, confirmation domain.Confirmation) {
	const query = `
		SELECT
			email
		FROM
			auth."user"
		WHERE
			id = $1;`

	email, err := tql.QueryFirst[string](ctx, h.db, query, confirmation.WinningUserID)
	switch {
	case err != nil && errors.Is(err, sql.ErrNoRows):
		return
	case err != nil:
		zap.L().Warn("failed to look up winner email", zap.Error(err))
		return
	}

	message := core.MailMessage{
		Subject: "Your game is confirmed",
		From:    h.emailSender,
		To:      []string{email},
		BodyString: fmt.Sprintf(
			"Your join request was accepted. See you at %s on %s.",
			confirmation.Location,
			confirmation.Slot,
		),
	}

	if err := h.emailClient.Send(message); err != nil {
		zap.L().Warn("failed to send confirmation email", zap.Error(err))
	}
}
