package commands

import (
	"context"
	"database/sql"
	"errors"

	"github.com/avelkovic/matchpoint/internal/modules/core"
	"github.com/avelkovic/matchpoint/internal/modules/event/domain"

	"github.com/eskrenkovic/tql"
	"github.com/google/uuid"
)

// loadEventForUpdate locks the event row for the duration of the enclosing
// transaction and hydrates the full aggregate. The row lock is the per-event
// mutual exclusion boundary: competing submits, cancels, and accepts on the
// same event serialize here.
func loadEventForUpdate(ctx context.Context, tx *sql.Tx, eventID uuid.UUID) (domain.Event, error) {
	const eventQuery = `
		SELECT
			*
		FROM
			event
		WHERE
			id = $1
		FOR UPDATE;`

	event, err := tql.QueryFirst[domain.Event](ctx, tx, eventQuery, eventID)
	if err != nil {
		return domain.Event{}, err
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

	requests, err := tql.Query[domain.JoinRequest](ctx, tx, requestsQuery, eventID)
	if err != nil {
		return domain.Event{}, err
	}
	event.JoinRequests = requests

	const confirmationQuery = `
		SELECT
			*
		FROM
			confirmation
		WHERE
			event_id = $1;`

	confirmation, err := tql.QueryFirst[domain.Confirmation](ctx, tx, confirmationQuery, eventID)
	switch {
	case err != nil && errors.Is(err, sql.ErrNoRows):
		// open or cancelled events have no confirmation
	case err != nil:
		return domain.Event{}, err
	default:
		event.Confirmation = &confirmation
	}

	return event, nil
}

func updateEventStatus(ctx context.Context, tx *sql.Tx, event domain.Event) error {
	const stmt = `
		UPDATE
			event
		SET
			status = :status,
			version = version + 1
		WHERE
			id = :id;`

	_, err := tql.Exec(ctx, tx, stmt, event)
	return err
}

// wrapDomainError maps lifecycle precondition failures onto the status
// codes the HTTP layer surfaces. Anything unrecognized is a 500.
func wrapDomainError(err error) error {
	switch {
	case errors.Is(err, sql.ErrNoRows),
		errors.Is(err, domain.ErrRequestNotFound):
		return core.NewCommandError(404, err)
	case errors.Is(err, domain.ErrNotOwner),
		errors.Is(err, domain.ErrOwnerCannotJoin):
		return core.NewCommandError(403, err)
	case errors.Is(err, domain.ErrEventNotOpen),
		errors.Is(err, domain.ErrEventNotConfirmed),
		errors.Is(err, domain.ErrDuplicateActiveRequest),
		errors.Is(err, domain.ErrRequestNotCancellable):
		return core.NewCommandError(409, err)
	case errors.Is(err, domain.ErrEmptyLocations),
		errors.Is(err, domain.ErrEmptyWindows),
		errors.Is(err, domain.ErrEmptySelection),
		errors.Is(err, domain.ErrInvalidDuration),
		errors.Is(err, domain.ErrInvalidWindow),
		errors.Is(err, domain.ErrInvalidLocation),
		errors.Is(err, domain.ErrInvalidSlot),
		errors.Is(err, domain.ErrInvalidChoice),
		errors.Is(err, domain.ErrNoAvailableSlots):
		return core.NewCommandError(400, err)
	default:
		return core.NewCommandError(500, err)
	}
}
