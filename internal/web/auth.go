package web

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"kasirinaja/frontend/internal/apiclient"
	"kasirinaja/frontend/internal/domain"
	"kasirinaja/frontend/internal/form"
	"kasirinaja/frontend/internal/guard"
	"kasirinaja/frontend/internal/session"
)

type loginForm struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required"`
}

type registerForm struct {
	Name     string `form:"name" validate:"required,max=100"`
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required,min=6"`
	Confirm  string `form:"confirm" validate:"eqfield=Password"`
}

type forgotForm struct {
	Email string `form:"email" validate:"required,email"`
}

type resetForm struct {
	Password string `form:"password" validate:"required,min=6"`
	Confirm  string `form:"confirm" validate:"eqfield=Password"`
}

func formErrors(err error) map[string]string {
	if errs, ok := form.AsErrors(err); ok {
		return errs
	}
	return map[string]string{"form": err.Error()}
}

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	if sess := session.FromContext(r.Context()); sess != nil {
		s.redirect(w, r, guard.HomeFor(sess.Role))
		return
	}
	s.render(w, r, http.StatusOK, "login", "Sign in", loginForm{})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	f := loginForm{
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
	}
	if !s.loginLimiter.Allow(clientKey(r)) {
		s.render(w, r, http.StatusTooManyRequests, "login", "Sign in", loginForm{Email: f.Email},
			withNotice(flashError, "Too many sign-in attempts. Wait a minute and try again."))
		return
	}
	if err := form.Validate(f); err != nil {
		s.render(w, r, http.StatusUnprocessableEntity, "login", "Sign in", loginForm{Email: f.Email}, withErrors(formErrors(err)))
		return
	}

	resp, err := s.data.Login(r.Context(), domain.LoginRequest{Email: f.Email, Password: f.Password})
	if err != nil {
		logFor(r).WithError(err).Info("login rejected")
		s.render(w, r, http.StatusUnauthorized, "login", "Sign in", loginForm{Email: f.Email},
			withNotice(flashError, apiclient.Message(err, "Invalid email or password.")))
		return
	}

	if prev := session.FromContext(r.Context()); prev != nil {
		s.endSession(r, prev)
	}
	sess, cookie, err := s.sessions.Begin(r.Context(), resp)
	if err != nil {
		logFor(r).WithError(err).Error("begin session")
		s.renderError(w, r, http.StatusInternalServerError, "Could not sign you in. Please try again.")
		return
	}
	s.setSessionCookie(w, cookie, sess.ExpiresAt)
	s.setFlash(w, flashSuccess, "Welcome back, "+sess.Name+".")
	s.redirect(w, r, guard.HomeFor(sess.Role))
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if sess := session.FromContext(r.Context()); sess != nil {
		s.endSession(r, sess)
	}
	s.clearSessionCookie(w)
	s.setFlash(w, flashInfo, "You have been signed out.")
	s.redirect(w, r, guard.LoginPath)
}

// endSession deletes the stored session and its cashier workspace.
func (s *Server) endSession(r *http.Request, sess *session.Session) {
	if err := s.sessions.End(r.Context(), sess.ID); err != nil {
		logFor(r).WithError(err).Error("end session")
	}
	s.workspaces.Drop(sess.ID)
}

func (s *Server) handleRegisterPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "register", "Create an account", registerForm{})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	f := registerForm{
		Name:     strings.TrimSpace(r.PostFormValue("name")),
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
		Confirm:  r.PostFormValue("confirm"),
	}
	echo := registerForm{Name: f.Name, Email: f.Email}
	if err := form.Validate(f); err != nil {
		s.render(w, r, http.StatusUnprocessableEntity, "register", "Create an account", echo, withErrors(formErrors(err)))
		return
	}

	err := s.data.Register(r.Context(), domain.RegisterRequest{Name: f.Name, Email: f.Email, Password: f.Password})
	if err != nil {
		s.render(w, r, http.StatusBadRequest, "register", "Create an account", echo,
			withNotice(flashError, apiclient.Message(err, "Registration failed.")))
		return
	}
	s.setFlash(w, flashSuccess, "Account created. Please sign in.")
	s.redirect(w, r, guard.LoginPath)
}

func (s *Server) handleForgotPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "forgot", "Forgot password", forgotForm{})
}

func (s *Server) handleForgot(w http.ResponseWriter, r *http.Request) {
	f := forgotForm{Email: strings.TrimSpace(r.PostFormValue("email"))}
	if err := form.Validate(f); err != nil {
		s.render(w, r, http.StatusUnprocessableEntity, "forgot", "Forgot password", f, withErrors(formErrors(err)))
		return
	}

	resp, err := s.data.ForgotPassword(r.Context(), domain.ForgotPasswordRequest{Email: f.Email})
	if err != nil {
		s.render(w, r, http.StatusBadRequest, "forgot", "Forgot password", f,
			withNotice(flashError, apiclient.Message(err, "Could not send the reset link.")))
		return
	}
	message := resp.Message
	if message == "" {
		message = "If the address is registered, a reset link is on its way."
	}
	s.render(w, r, http.StatusOK, "forgot", "Forgot password", forgotForm{}, withNotice(flashSuccess, message))
}

func (s *Server) handleResetPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "reset", "Reset password", map[string]string{"Token": mux.Vars(r)["token"]})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	token := mux.Vars(r)["token"]
	view := map[string]string{"Token": token}
	f := resetForm{Password: r.PostFormValue("password"), Confirm: r.PostFormValue("confirm")}
	if err := form.Validate(f); err != nil {
		s.render(w, r, http.StatusUnprocessableEntity, "reset", "Reset password", view, withErrors(formErrors(err)))
		return
	}

	if _, err := s.data.ResetPassword(r.Context(), token, domain.ResetPasswordRequest{Password: f.Password}); err != nil {
		s.render(w, r, http.StatusBadRequest, "reset", "Reset password", view,
			withNotice(flashError, apiclient.Message(err, "The reset link is invalid or has expired.")))
		return
	}
	s.setFlash(w, flashSuccess, "Password updated. Please sign in.")
	s.redirect(w, r, guard.LoginPath)
}
