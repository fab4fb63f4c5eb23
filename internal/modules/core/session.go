package core

import (
	"context"

	"github.com/google/uuid"
)

type ContextKey string

const SessionContextKey ContextKey = "session"

// ContextSession is the authenticated caller attached to the request
// context by the authentication middleware.
type ContextSession struct {
	UserID uuid.UUID
}

func Session(ctx context.Context) ContextSession {
	rawVal := ctx.Value(SessionContextKey)
	if rawVal == nil {
		return ContextSession{}
	}

	session, ok := rawVal.(ContextSession)
	if !ok {
		return ContextSession{}
	}

	return session
}
