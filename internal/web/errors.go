package web

import (
	"errors"
	"net/http"

	"kasirinaja/frontend/internal/admin"
	"kasirinaja/frontend/internal/apiclient"
	"kasirinaja/frontend/internal/guard"
	"kasirinaja/frontend/internal/pos"
	"kasirinaja/frontend/internal/report"
	"kasirinaja/frontend/internal/session"
)

const (
	msgSessionExpired = "Your session has expired. Please sign in again."
	msgAccessDenied   = "Access denied."
)

// authFailure ends the navigation for credential problems reported by the
// API: a 401 tears the session down, a 403 sends the user to their home.
func (s *Server) authFailure(w http.ResponseWriter, r *http.Request, err error) bool {
	sess := session.FromContext(r.Context())
	switch {
	case errors.Is(err, apiclient.ErrUnauthorized):
		if sess != nil {
			if endErr := s.sessions.End(r.Context(), sess.ID); endErr != nil {
				logFor(r).WithError(endErr).Error("end session after 401")
			}
			s.workspaces.Drop(sess.ID)
		}
		s.clearSessionCookie(w)
		s.setFlash(w, flashError, msgSessionExpired)
		s.redirect(w, r, guard.LoginPath)
		return true
	case errors.Is(err, apiclient.ErrForbidden):
		home := "/"
		if sess != nil {
			home = guard.HomeFor(sess.Role)
		}
		s.setFlash(w, flashError, msgAccessDenied)
		s.redirect(w, r, home)
		return true
	}
	return false
}

// fail reports a failed remote call. With a back URL the user is redirected
// there with a notice; without one an error page is rendered.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error, fallback string, back string) {
	if s.authFailure(w, r, err) {
		return
	}
	logFor(r).WithError(err).Warn("remote call failed")
	message := apiclient.Message(err, fallback)
	if back != "" {
		s.setFlash(w, flashError, message)
		s.redirect(w, r, back)
		return
	}
	s.renderError(w, r, failureStatus(err), message)
}

func failureStatus(err error) int {
	var remote *apiclient.RemoteError
	if errors.As(err, &remote) && remote.Status == http.StatusNotFound {
		return http.StatusNotFound
	}
	return http.StatusBadGateway
}

// userMessage turns a local validation error or a remote failure into the
// text shown to the user.
func userMessage(err error, fallback string) string {
	switch {
	case errors.Is(err, pos.ErrEmptyCart):
		return "Add at least one product to the cart."
	case errors.Is(err, pos.ErrNoActiveShift):
		return "Start a shift before checking out."
	case errors.Is(err, pos.ErrInsufficientCash):
		return "Cash tendered is less than the subtotal."
	case errors.Is(err, pos.ErrMissingCardNumber):
		return "Enter the debit card number."
	case errors.Is(err, pos.ErrCheckoutPending):
		return "A checkout is already being submitted."
	case errors.Is(err, pos.ErrNotConfirmed):
		return "Review and confirm the checkout first."
	case errors.Is(err, pos.ErrInvalidAmount):
		return "Enter a valid amount."
	case errors.Is(err, admin.ErrInvalidQuantity):
		return "Quantity must be a positive whole number."
	case errors.Is(err, report.ErrInvalidRange):
		return "Choose a valid date range."
	}
	return apiclient.Message(err, fallback)
}
