package admin

import (
	"net/url"
	"strconv"
	"strings"

	"kasirinaja/frontend/internal/domain"
)

const PageSize = 10

// ListState is a table's search term and page. It lives in the URL query so
// a reloaded or shared link shows the same view.
type ListState struct {
	Query string
	Page  int
}

func ParseListState(values url.Values) ListState {
	page, err := strconv.Atoi(values.Get("page"))
	if err != nil || page < 1 {
		page = 1
	}
	return ListState{Query: strings.TrimSpace(values.Get("q")), Page: page}
}

// WithQuery sets the search term. A different term starts over at page 1.
func (s ListState) WithQuery(q string) ListState {
	q = strings.TrimSpace(q)
	if q != s.Query {
		return ListState{Query: q, Page: 1}
	}
	return s
}

func (s ListState) WithPage(page int) ListState {
	if page < 1 {
		page = 1
	}
	s.Page = page
	return s
}

// Encode renders the state as a query string, omitting defaults.
func (s ListState) Encode() string {
	values := url.Values{}
	if s.Query != "" {
		values.Set("q", s.Query)
	}
	if s.Page > 1 {
		values.Set("page", strconv.Itoa(s.Page))
	}
	return values.Encode()
}

// Page is one slice of a client-side paginated list.
type Page[T any] struct {
	Items      []T
	Page       int
	PageSize   int
	Total      int
	TotalPages int
	HasPrev    bool
	HasNext    bool
}

// Paginate slices items to the requested page, clamping the page into range.
func Paginate[T any](items []T, page int, size int) Page[T] {
	if size < 1 {
		size = PageSize
	}
	total := len(items)
	totalPages := (total + size - 1) / size
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * size
	end := start + size
	if end > total {
		end = total
	}
	return Page[T]{
		Items:      items[start:end],
		Page:       page,
		PageSize:   size,
		Total:      total,
		TotalPages: totalPages,
		HasPrev:    page > 1,
		HasNext:    page < totalPages,
	}
}

// FilterProducts keeps products whose name or description contains term,
// ignoring case.
func FilterProducts(products []domain.Product, term string) []domain.Product {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return products
	}
	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if containsFold(p.Name, term) || containsFold(p.DescriptionText(), term) {
			out = append(out, p)
		}
	}
	return out
}

// FilterCashiers keeps cashiers whose name or email contains term, ignoring
// case.
func FilterCashiers(cashiers []domain.Cashier, term string) []domain.Cashier {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return cashiers
	}
	out := make([]domain.Cashier, 0, len(cashiers))
	for _, c := range cashiers {
		if containsFold(c.Name, term) || containsFold(c.Email, term) {
			out = append(out, c)
		}
	}
	return out
}

func containsFold(s string, lowerTerm string) bool {
	return strings.Contains(strings.ToLower(s), lowerTerm)
}
