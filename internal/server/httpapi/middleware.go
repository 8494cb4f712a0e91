package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/motordesk/internal/common"
	"github.com/dmitrijs2005/motordesk/internal/server/auth"
)

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		reqID, err := common.MakeRandHexString(4)
		if err != nil {
			reqID = "--------"
		}

		next.ServeHTTP(rw, r)

		s.logger.Info(r.Context(), "request",
			"id", reqID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.status,
			"duration", time.Since(start),
		)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) hasValidSession(r *http.Request) bool {
	return auth.VerifySessionToken(auth.TokenFromRequest(r), []byte(s.cfg.SessionSecret))
}

// requireSessionAPI guards the admin JSON API. Requests without a valid
// session get a 401 with a JSON body.
func (s *Server) requireSessionAPI(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.hasValidSession(r) {
			s.writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// gateAdminPages guards the admin pages. Unauthenticated visitors are sent
// to the login page; an authenticated visitor opening the login page is sent
// straight to the vehicle list.
func (s *Server) gateAdminPages(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		isLoginPage := strings.TrimRight(r.URL.Path, "/") == "/admin/login"
		authenticated := s.hasValidSession(r)

		if isLoginPage && authenticated {
			http.Redirect(w, r, "/admin/vehicles", http.StatusSeeOther)
			return
		}
		if !isLoginPage && !authenticated {
			http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
			return
		}

		next.ServeHTTP(w, r)
	})
}
