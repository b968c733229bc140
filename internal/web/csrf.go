package web

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"
	"time"

	"kasirinaja/frontend/internal/session"
)

const csrfField = "csrf_token"

// csrfToken binds a form token to the session and an hour bucket. Anonymous
// pages share the "anon" binding.
func (s *Server) csrfToken(binding string, bucket int64) string {
	h := hmac.New(sha256.New, s.csrfKey)
	fmt.Fprintf(h, "%s|%d", binding, bucket)
	return hex.EncodeToString(h.Sum(nil))
}

func csrfBinding(r *http.Request) string {
	if sess := session.FromContext(r.Context()); sess != nil {
		return sess.ID
	}
	return "anon"
}

func (s *Server) issueCSRF(r *http.Request) string {
	return s.csrfToken(csrfBinding(r), s.now().Truncate(time.Hour).Unix())
}

// validCSRF accepts tokens from the current or the previous hour.
func (s *Server) validCSRF(r *http.Request, token string) bool {
	if token == "" {
		return false
	}
	binding := csrfBinding(r)
	current := s.now().Truncate(time.Hour).Unix()
	for _, bucket := range []int64{current, current - 3600} {
		if hmac.Equal([]byte(token), []byte(s.csrfToken(binding, bucket))) {
			return true
		}
	}
	return false
}

func (s *Server) checkCSRF(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			next.ServeHTTP(w, r)
			return
		}
		if err := r.ParseForm(); err != nil {
			s.renderError(w, r, http.StatusBadRequest, "The form could not be read.")
			return
		}
		token := strings.TrimSpace(r.Header.Get("X-CSRF-Token"))
		if token == "" {
			token = strings.TrimSpace(r.FormValue(csrfField))
		}
		if !s.validCSRF(r, token) {
			logFor(r).Warn("rejected form without a valid csrf token")
			s.renderError(w, r, http.StatusForbidden, "This form has expired. Reload the page and try again.")
			return
		}
		next.ServeHTTP(w, r)
	})
}
