package web

import (
	"encoding/base64"
	"net/http"
	"strings"
)

const flashCookie = "kasir_flash"

const (
	flashSuccess = "success"
	flashError   = "error"
	flashInfo    = "info"
)

// flash is a one-shot notice carried across a redirect.
type flash struct {
	Kind    string
	Message string
}

func (s *Server) setFlash(w http.ResponseWriter, kind string, message string) {
	value := base64.RawURLEncoding.EncodeToString([]byte(kind + "|" + message))
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    value,
		Path:     "/",
		MaxAge:   60,
		HttpOnly: true,
		Secure:   s.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// takeFlash reads the pending notice and clears it.
func (s *Server) takeFlash(w http.ResponseWriter, r *http.Request) *flash {
	cookie, err := r.Cookie(flashCookie)
	if err != nil || cookie.Value == "" {
		return nil
	}
	http.SetCookie(w, &http.Cookie{Name: flashCookie, Value: "", Path: "/", MaxAge: -1, HttpOnly: true, Secure: s.cookieSecure, SameSite: http.SameSiteLaxMode})

	raw, err := base64.RawURLEncoding.DecodeString(cookie.Value)
	if err != nil {
		return nil
	}
	kind, message, ok := strings.Cut(string(raw), "|")
	if !ok || message == "" {
		return nil
	}
	switch kind {
	case flashSuccess, flashError, flashInfo:
	default:
		kind = flashInfo
	}
	return &flash{Kind: kind, Message: message}
}
