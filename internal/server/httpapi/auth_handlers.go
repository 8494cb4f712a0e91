package httpapi

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrijs2005/motordesk/internal/server/auth"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if !s.checkCredentials(req.Username, req.Password) {
		s.writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := auth.CreateSessionToken([]byte(s.cfg.SessionSecret), s.cfg.SessionValidity)
	if err != nil {
		s.logger.Error(r.Context(), "creating session token", "error", err)
		s.writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	http.SetCookie(w, auth.SessionCookie(token, !s.cfg.DevMode, s.cfg.SessionValidity))
	s.writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) logout(w http.ResponseWriter, _ *http.Request) {
	http.SetCookie(w, auth.ClearSessionCookie(!s.cfg.DevMode))
	s.writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// checkCredentials compares against the configured admin account. The
// configured password may be a bcrypt hash; a plain value is compared in
// constant time.
func (s *Server) checkCredentials(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.cfg.AdminUsername)) == 1

	var passOK bool
	if strings.HasPrefix(s.cfg.AdminPassword, "$2") {
		passOK = bcrypt.CompareHashAndPassword([]byte(s.cfg.AdminPassword), []byte(password)) == nil
	} else {
		passOK = subtle.ConstantTimeCompare([]byte(password), []byte(s.cfg.AdminPassword)) == 1
	}

	return userOK && passOK
}
