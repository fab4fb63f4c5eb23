package auth

import (
	"context"
	"database/sql"
	"errors"
	"net/http"

	"github.com/avelkovic/matchpoint/internal/modules/auth/domain"
	"github.com/avelkovic/matchpoint/internal/modules/core"

	"github.com/eskrenkovic/tql"
	"github.com/google/uuid"
)

// AuthenticationMiddleware resolves the session cookie into a
// core.ContextSession and rejects the request when the session is
// missing, unknown, or expired.
func AuthenticationMiddleware(db *sql.DB) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(domain.SessionCookieName)
			if err != nil {
				core.WriteUnauthorized(w, r, nil)
				return
			}

			sessionID, err := uuid.Parse(cookie.Value)
			if err != nil {
				core.WriteUnauthorized(w, r, nil)
				return
			}

			const q = `SELECT * FROM auth.session WHERE id = $1;`

			session, err := tql.QueryFirst[domain.Session](r.Context(), db, q, sessionID)
			switch {
			case err != nil && errors.Is(err, sql.ErrNoRows):
				core.WriteUnauthorized(w, r, nil)
				return
			case err != nil:
				core.WriteInternalServerError(w, r, nil)
				return
			}

			if err := session.Validate(); err != nil {
				core.WriteUnauthorized(w, r, nil)
				return
			}

			authContext := context.WithValue(
				r.Context(),
				core.SessionContextKey,
				core.ContextSession{UserID: session.UserID},
			)
			next.ServeHTTP(w, r.WithContext(authContext))
		}
	}
}
