package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

const SessionCookieName = "matchpoint-session"

type Session struct {
	ID        uuid.UUID `db:"id"`
	UserID    uuid.UUID `db:"user_id"`
	CreatedAt time.Time `db:"created_at"`
	ExpiresAt time.Time `db:"expires_at"`
}

func NewSession(userID uuid.UUID, lifetime time.Duration) Session {
	now := time.Now().UTC()
	return Session{
		ID:        uuid.New(),
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(lifetime),
	}
}

func (s Session) Validate() error {
	if time.Now().UTC().After(s.ExpiresAt) {
		return fmt.Errorf("session expired")
	}

	return nil
}
