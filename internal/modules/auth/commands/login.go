package commands

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/avelkovic/matchpoint/internal/modules/auth/domain"
	"github.com/avelkovic/matchpoint/internal/modules/core"

	"github.com/eskrenkovic/mediator-go"
	"github.com/eskrenkovic/tql"
)

const sessionLifetime = 7 * 24 * time.Hour

type LoginCommand struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c LoginCommand) Validate() error {
	if c.Email == "" {
		return fmt.Errorf("invalid Email: '%s'", c.Email)
	}

	if c.Password == "" {
		return fmt.Errorf("invalid Password")
	}

	return nil
}

func HandleLogin(w http.ResponseWriter, r *http.Request) {
	command, err := core.RequestBody[LoginCommand](r)
	if err != nil {
		core.WriteBadRequest(w, r, err)
		return
	}

	session, err := mediator.Send[LoginCommand, domain.Session](r.Context(), command)
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     domain.SessionCookieName,
		Value:    session.ID.String(),
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	core.WriteOK(w, r, nil)
}

type LoginCommandHandler struct {
	db             *sql.DB
	passwordHasher *domain.PasswordHasher
}

func NewLoginCommandHandler(db *sql.DB, passwordHasher *domain.PasswordHasher) *LoginCommandHandler {
	return &LoginCommandHandler{db, passwordHasher}
}

func (h *LoginCommandHandler) Handle(ctx context.Context, request LoginCommand) (domain.Session, error) {
	const userQuery = `
		SELECT
			*
		FROM
			auth."user"
		WHERE
			email = $1;`

	user, err := tql.QueryFirst[domain.User](ctx, h.db, userQuery, request.Email)
	switch {
	case err != nil && errors.Is(err, sql.ErrNoRows):
		return domain.Session{}, core.NewCommandError(401, fmt.Errorf("invalid credentials"))
	case err != nil:
		return domain.Session{}, core.NewCommandError(500, err)
	}

	if !user.EmailConfirmed {
		return domain.Session{}, core.NewCommandError(401, fmt.Errorf("email not confirmed"))
	}

	authErr := user.Authenticate(request.Password, h.passwordHasher)

	// Persist the failed-attempt counter and a potential lock regardless
	// of the outcome.
	const updateUserStmt = `
		UPDATE
			auth."user"
		SET
			unsuccessful_login_attempts = :unsuccessful_login_attempts,
			locked = :locked,
			security_stamp = :security_stamp
		WHERE
			id = :id;`

	if _, err := tql.Exec(ctx, h.db, updateUserStmt, user); err != nil {
		return domain.Session{}, core.NewCommandError(500, err)
	}

	if authErr != nil {
		return domain.Session{}, core.NewCommandError(401, authErr)
	}

	session := domain.NewSession(user.ID, sessionLifetime)

	const sessionStmt = `
		INSERT INTO
			auth.session (id, user_id, created_at, expires_at)
		VALUES
			(:id, :user_id, :created_at, :expires_at);`

	if _, err := tql.Exec(ctx, h.db, sessionStmt, session); err != nil {
		return domain.Session{}, core.NewCommandError(500, err)
	}

	return session, nil
}
