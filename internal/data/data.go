package data

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"kasirinaja/frontend/internal/cache"
	"kasirinaja/frontend/internal/domain"
	"kasirinaja/frontend/internal/session"
)

// Cache resource names. Each is the first segment of a cache key.
const (
	resProducts    = "products"
	resProduct     = "product"
	resCashiers    = "cashiers"
	resCashier     = "cashier"
	resActiveShift = "activeShift"
	resBlogs       = "blogs"
	resBlog        = "blog"
)

// API is the remote surface the hooks call. *apiclient.Client implements it.
type API interface {
	Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error)
	Register(ctx context.Context, req domain.RegisterRequest) error
	ForgotPassword(ctx context.Context, req domain.ForgotPasswordRequest) (domain.MessageResponse, error)
	ResetPassword(ctx context.Context, resetToken string, req domain.ResetPasswordRequest) (domain.MessageResponse, error)

	ListProducts(ctx context.Context, token string) ([]domain.Product, error)
	GetProduct(ctx context.Context, token string, id string) (domain.Product, error)
	CreateProduct(ctx context.Context, token string, req domain.ProductCreateRequest) (domain.Product, error)
	UpdateProduct(ctx context.Context, token string, id string, req domain.ProductUpdateRequest) (domain.Product, error)
	DeleteProduct(ctx context.Context, token string, id string) error
	AdjustStock(ctx context.Context, token string, id string, quantity int) error

	ListCashiers(ctx context.Context, token string, search string) ([]domain.Cashier, error)
	GetCashier(ctx context.Context, token string, id string) (domain.Cashier, error)
	CreateCashier(ctx context.Context, token string, req domain.CashierCreateRequest) (domain.Cashier, error)
	UpdateCashier(ctx context.Context, token string, id string, req domain.CashierUpdateRequest) (domain.Cashier, error)
	DeleteCashier(ctx context.Context, token string, id string) error

	ActiveShift(ctx context.Context, token string) (*domain.Shift, error)
	StartShift(ctx context.Context, token string, startMoney decimal.Decimal) (domain.ShiftResponse, error)
	EndShift(ctx context.Context, token string, endMoney decimal.Decimal) (domain.ShiftResponse, error)

	ListTransactions(ctx context.Context, token string, filter domain.TransactionFilter) ([]domain.Transaction, error)
	Checkout(ctx context.Context, token string, req domain.CheckoutRequest) (domain.CheckoutResponse, error)

	DailyReport(ctx context.Context, token string, date string) (domain.DailyReport, error)
	SummaryReport(ctx context.Context, token string, start string, end string) (domain.SummaryReport, error)
	Mismatches(ctx context.Context, token string, start string, end string) (domain.MismatchReport, error)

	ListBlogs(ctx context.Context, query domain.BlogQuery) (domain.BlogPage, error)
	GetBlog(ctx context.Context, slug string) (domain.Blog, error)
	CreateBlog(ctx context.Context, token string, req domain.BlogCreateRequest) error
}

type Service struct {
	api   API
	cache cache.QueryCache
	ttl   time.Duration
}

func New(api API, qc cache.QueryCache, ttl time.Duration) *Service {
	if qc == nil {
		qc = cache.Noop{}
	}
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &Service{api: api, cache: qc, ttl: ttl}
}

// As scopes the hooks to one signed-in identity.
func (s *Service) As(sess *session.Session) *Scope {
	return &Scope{svc: s, sess: sess}
}

// Scope runs queries and mutations with one session's credential.
type Scope struct {
	svc  *Service
	sess *session.Session
}

func (sc *Scope) token() string {
	if sc.sess == nil {
		return ""
	}
	return sc.sess.Token
}

func (sc *Scope) userKey() string {
	if sc.sess == nil {
		return "anon"
	}
	return sc.sess.UserID
}

// cached reads key into dest, running load on a miss. Cache failures only
// cost a round trip.
func cached[T any](ctx context.Context, s *Service, key string, load func() (T, error)) (T, error) {
	var hit T
	ok, err := s.cache.Get(ctx, key, &hit)
	if err != nil {
		log.WithError(err).WithField("key", key).Warn("query cache read failed")
	}
	if ok && err == nil {
		return hit, nil
	}

	fresh, err := load()
	if err != nil {
		return fresh, err
	}
	if err := s.cache.Set(ctx, key, fresh, s.ttl); err != nil {
		log.WithError(err).WithField("key", key).Warn("query cache write failed")
	}
	return fresh, nil
}

func (s *Service) invalidate(ctx context.Context, prefixes ...string) {
	if err := s.cache.Invalidate(ctx, prefixes...); err != nil {
		log.WithError(err).WithField("prefixes", prefixes).Warn("query cache invalidation failed")
	}
}

func prefix(resource string) string {
	return resource + ":"
}
