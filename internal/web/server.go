// Package web serves the browser-facing pages: the blog, the auth pages, the
// cashier POS and the admin back office.
package web

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"kasirinaja/frontend/internal/data"
	"kasirinaja/frontend/internal/guard"
	"kasirinaja/frontend/internal/pos"
	"kasirinaja/frontend/internal/session"
)

type Options struct {
	Data               *data.Service
	Sessions           *session.Manager
	Workspaces         *pos.Registry
	CookieSecure       bool
	LoginRatePerMinute int
	// CSRFSecret keys form tokens. A random key is used when empty, which
	// invalidates open forms on restart.
	CSRFSecret string
}

type Server struct {
	data         *data.Service
	sessions     *session.Manager
	workspaces   *pos.Registry
	pages        *pageSet
	loginLimiter *loginLimiter
	csrfKey      []byte
	cookieSecure bool
	now          func() time.Time
}

func New(opts Options) (*Server, error) {
	if opts.Data == nil || opts.Sessions == nil {
		return nil, errors.New("web: data service and session manager are required")
	}
	if opts.Workspaces == nil {
		opts.Workspaces = pos.NewRegistry()
	}

	pages, err := loadPages()
	if err != nil {
		return nil, err
	}

	var key []byte
	if opts.CSRFSecret != "" {
		sum := sha256.Sum256([]byte("csrf:" + opts.CSRFSecret))
		key = sum[:]
	} else {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, err
		}
	}

	return &Server{
		data:         opts.Data,
		sessions:     opts.Sessions,
		workspaces:   opts.Workspaces,
		pages:        pages,
		loginLimiter: newLoginLimiter(opts.LoginRatePerMinute),
		csrfKey:      key,
		cookieSecure: opts.CookieSecure,
		now:          func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	r.HandleFunc("/", s.handleHome).Methods(http.MethodGet)
	r.HandleFunc("/blogs/{slug}", s.handleBlog).Methods(http.MethodGet)

	r.HandleFunc("/login", s.handleLoginPage).Methods(http.MethodGet)
	r.HandleFunc("/login", s.handleLogin).Methods(http.MethodPost)
	r.HandleFunc("/logout", s.handleLogout).Methods(http.MethodPost)
	r.HandleFunc("/register", s.handleRegisterPage).Methods(http.MethodGet)
	r.HandleFunc("/register", s.handleRegister).Methods(http.MethodPost)
	r.HandleFunc("/forgot-password", s.handleForgotPage).Methods(http.MethodGet)
	r.HandleFunc("/forgot-password", s.handleForgot).Methods(http.MethodPost)
	r.HandleFunc("/reset-password/{token}", s.handleResetPage).Methods(http.MethodGet)
	r.HandleFunc("/reset-password/{token}", s.handleReset).Methods(http.MethodPost)

	write := r.PathPrefix("/write").Subrouter()
	write.Use(s.require(guard.SignedIn))
	write.HandleFunc("", s.handleWritePage).Methods(http.MethodGet)
	write.HandleFunc("", s.handleWrite).Methods(http.MethodPost)

	cashier := r.PathPrefix("/cashier").Subrouter()
	cashier.Use(s.require(guard.CashierOnly))
	cashier.HandleFunc("", s.handlePOS).Methods(http.MethodGet)
	cashier.HandleFunc("/cart/{action:add|increment|decrement|remove|clear}", s.handleCart).Methods(http.MethodPost)
	cashier.HandleFunc("/payment", s.handlePayment).Methods(http.MethodPost)
	cashier.HandleFunc("/checkout/request", s.handleCheckoutRequest).Methods(http.MethodPost)
	cashier.HandleFunc("/checkout/cancel", s.handleCheckoutCancel).Methods(http.MethodPost)
	cashier.HandleFunc("/checkout/submit", s.handleCheckoutSubmit).Methods(http.MethodPost)
	cashier.HandleFunc("/shift", s.handleShiftPage).Methods(http.MethodGet)
	cashier.HandleFunc("/shift/start", s.handleShiftStart).Methods(http.MethodPost)
	cashier.HandleFunc("/shift/end", s.handleShiftEnd).Methods(http.MethodPost)
	cashier.HandleFunc("/transactions", s.handleShiftTransactions).Methods(http.MethodGet)

	adm := r.PathPrefix("/admin").Subrouter()
	adm.Use(s.require(guard.AdminOnly))
	adm.HandleFunc("", s.handleDashboard).Methods(http.MethodGet)

	adm.HandleFunc("/products", s.handleProducts).Methods(http.MethodGet)
	adm.HandleFunc("/products", s.handleProductCreate).Methods(http.MethodPost)
	adm.HandleFunc("/products/new", s.handleProductNew).Methods(http.MethodGet)
	adm.HandleFunc("/products/{id}/edit", s.handleProductEdit).Methods(http.MethodGet)
	adm.HandleFunc("/products/{id}", s.handleProductUpdate).Methods(http.MethodPost)
	adm.HandleFunc("/products/{id}/stock", s.handleProductStock).Methods(http.MethodPost)
	adm.HandleFunc("/products/{id}/delete", s.handleProductDeletePage).Methods(http.MethodGet)
	adm.HandleFunc("/products/{id}/delete", s.handleProductDelete).Methods(http.MethodPost)

	adm.HandleFunc("/cashiers", s.handleCashiers).Methods(http.MethodGet)
	adm.HandleFunc("/cashiers", s.handleCashierCreate).Methods(http.MethodPost)
	adm.HandleFunc("/cashiers/new", s.handleCashierNew).Methods(http.MethodGet)
	adm.HandleFunc("/cashiers/{id}/edit", s.handleCashierEdit).Methods(http.MethodGet)
	adm.HandleFunc("/cashiers/{id}", s.handleCashierUpdate).Methods(http.MethodPost)
	adm.HandleFunc("/cashiers/{id}/delete", s.handleCashierDeletePage).Methods(http.MethodGet)
	adm.HandleFunc("/cashiers/{id}/delete", s.handleCashierDelete).Methods(http.MethodPost)

	adm.HandleFunc("/reports/daily", s.handleDailyReport).Methods(http.MethodGet)
	adm.HandleFunc("/reports/period", s.handlePeriodReport).Methods(http.MethodGet)
	adm.HandleFunc("/reports/period/export", s.handlePeriodExport).Methods(http.MethodGet)
	adm.HandleFunc("/reports/transactions", s.handleTransactionReport).Methods(http.MethodGet)
	adm.HandleFunc("/reports/transactions/export", s.handleTransactionExport).Methods(http.MethodGet)
	adm.HandleFunc("/reports/mismatches", s.handleMismatchReport).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(s.handleNotFound)

	// Wrapped outside the router so unmatched paths get the same treatment.
	return chain(r, requestLogger, securityHeaders, limitBody, s.loadSession, s.checkCSRF)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"ok": true,
		"at": s.now().Format(time.RFC3339),
	})
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.renderError(w, r, http.StatusNotFound, "Page not found.")
}

// scope returns the data hooks bound to the signed-in user.
func (s *Server) scope(r *http.Request) *data.Scope {
	return s.data.As(session.FromContext(r.Context()))
}

func logFor(r *http.Request) *log.Entry {
	entry := log.WithField("path", r.URL.Path)
	if id := requestIDFrom(r.Context()); id != "" {
		entry = entry.WithField("request_id", id)
	}
	return entry
}
