package commands

import (
	"net/http"

	"github.com/avelkovic/matchpoint/internal/modules/auth/domain"
	"github.com/avelkovic/matchpoint/internal/modules/core"
)

func HandleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{Name: domain.SessionCookieName, Path: "/", MaxAge: -1})
	core.WriteOK(w, r, nil)
}
