package web

import (
	"bytes"
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"kasirinaja/frontend/internal/report"
	"kasirinaja/frontend/internal/session"
)

//go:embed templates/*.html
var templateFS embed.FS

// pageSet holds one template per page, each parsed together with the layout.
type pageSet struct {
	pages map[string]*template.Template
}

var funcs = template.FuncMap{
	"rupiah": report.FormatRupiah,
	"rupiahPtr": func(d *decimal.Decimal) string {
		if d == nil {
			return "-"
		}
		return report.FormatRupiah(*d)
	},
	"when": report.FormatTime,
	"whenPtr": func(t *time.Time) string {
		if t == nil {
			return "-"
		}
		return report.FormatTime(*t)
	},
	"add": func(a int, b int) int { return a + b },
}

func loadPages() (*pageSet, error) {
	names, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, pkgerrors.Wrap(err, "list templates")
	}
	set := &pageSet{pages: make(map[string]*template.Template)}
	for _, name := range names {
		base := strings.TrimSuffix(path.Base(name), ".html")
		if base == "layout" {
			continue
		}
		tmpl, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFS, "templates/layout.html", name)
		if err != nil {
			return nil, pkgerrors.Wrapf(err, "parse template %s", base)
		}
		set.pages[base] = tmpl
	}
	return set, nil
}

// page is what every template receives.
type page struct {
	Title   string
	Session *session.Session
	CSRF    string
	Flash   *flash
	Notice  *flash
	Errors  map[string]string
	Data    any
}

type renderOpt func(*page)

func withNotice(kind string, message string) renderOpt {
	return func(p *page) { p.Notice = &flash{Kind: kind, Message: message} }
}

func withErrors(errs map[string]string) renderOpt {
	return func(p *page) { p.Errors = errs }
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name string, title string, data any, opts ...renderOpt) {
	tmpl, ok := s.pages.pages[name]
	if !ok {
		logFor(r).WithField("template", name).Error("unknown template")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	p := page{
		Title:   title,
		Session: session.FromContext(r.Context()),
		CSRF:    s.issueCSRF(r),
		Flash:   s.takeFlash(w, r),
		Data:    data,
	}
	for _, opt := range opts {
		opt(&p)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, p); err != nil {
		logFor(r).WithError(err).WithField("template", name).Error("render page")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (s *Server) renderError(w http.ResponseWriter, r *http.Request, status int, message string) {
	s.render(w, r, status, "error", "Something went wrong", map[string]any{"Status": status}, withNotice(flashError, message))
}

func (s *Server) redirect(w http.ResponseWriter, r *http.Request, to string) {
	http.Redirect(w, r, to, http.StatusSeeOther)
}

func (s *Server) setSessionCookie(w http.ResponseWriter, value string, expiresAt time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     session.CookieName,
		Value:    value,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   s.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     session.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}
