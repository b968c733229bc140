package guard

import (
	"kasirinaja/frontend/internal/domain"
	"kasirinaja/frontend/internal/session"
)

const LoginPath = "/login"

// Rule restricts a page to a set of roles. An empty Roles list admits any
// signed-in user.
type Rule struct {
	Roles      []domain.Role
	RedirectTo string
	Message    string
}

type Decision struct {
	Allowed  bool
	Redirect string
	Message  string
}

var (
	AdminOnly = Rule{
		Roles:      []domain.Role{domain.RoleAdmin},
		RedirectTo: "/cashier",
		Message:    "That page is for administrators.",
	}
	CashierOnly = Rule{
		Roles:      []domain.Role{domain.RoleCashier},
		RedirectTo: "/admin",
		Message:    "That page is for cashiers.",
	}
	SignedIn = Rule{}
)

// HomeFor is where a user of role lands after login.
func HomeFor(role domain.Role) string {
	if role == domain.RoleAdmin {
		return "/admin"
	}
	return "/"
}

func Evaluate(sess *session.Session, rule Rule) Decision {
	if sess == nil {
		return Decision{Redirect: LoginPath, Message: "Please sign in first."}
	}
	if len(rule.Roles) == 0 {
		return Decision{Allowed: true}
	}
	for _, role := range rule.Roles {
		if sess.Role == role {
			return Decision{Allowed: true}
		}
	}

	redirect := rule.RedirectTo
	if redirect == "" {
		redirect = HomeFor(sess.Role)
	}
	return Decision{Redirect: redirect, Message: rule.Message}
}
