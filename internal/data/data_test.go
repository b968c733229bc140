package data

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kasirinaja/frontend/internal/apiclient"
	"kasirinaja/frontend/internal/cache"
	"kasirinaja/frontend/internal/domain"
	"kasirinaja/frontend/internal/session"
)

type fakeAPI struct {
	calls       map[string]int
	products    []domain.Product
	activeShift *domain.Shift
	checkoutErr error
	lastToken   string
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		calls:    map[string]int{},
		products: []domain.Product{{ID: "p1", Name: "Gula", Price: decimal.NewFromInt(15000), Stock: 10}},
	}
}

func (f *fakeAPI) hit(name string, token string) {
	f.calls[name]++
	f.lastToken = token
}

func (f *fakeAPI) Login(_ context.Context, req domain.LoginRequest) (domain.LoginResponse, error) {
	f.hit("Login", "")
	return domain.LoginResponse{User: domain.User{ID: "u1", Email: req.Email, Role: domain.RoleCashier}, AccessToken: "tok"}, nil
}

func (f *fakeAPI) Register(context.Context, domain.RegisterRequest) error {
	f.hit("Register", "")
	return nil
}

func (f *fakeAPI) ForgotPassword(context.Context, domain.ForgotPasswordRequest) (domain.MessageResponse, error) {
	f.hit("ForgotPassword", "")
	return domain.MessageResponse{Message: "sent"}, nil
}

func (f *fakeAPI) ResetPassword(_ context.Context, token string, _ domain.ResetPasswordRequest) (domain.MessageResponse, error) {
	f.hit("ResetPassword", token)
	return domain.MessageResponse{Message: "ok"}, nil
}

func (f *fakeAPI) ListProducts(_ context.Context, token string) ([]domain.Product, error) {
	f.hit("ListProducts", token)
	return append([]domain.Product(nil), f.products...), nil
}

func (f *fakeAPI) GetProduct(_ context.Context, token string, id string) (domain.Product, error) {
	f.hit("GetProduct", token)
	for _, p := range f.products {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Product{}, &apiclient.RemoteError{Status: 404, Message: "Product not found"}
}

func (f *fakeAPI) CreateProduct(_ context.Context, token string, req domain.ProductCreateRequest) (domain.Product, error) {
	f.hit("CreateProduct", token)
	p := domain.Product{ID: "p2", Name: req.Name, Price: req.Price, Stock: req.Stock}
	f.products = append(f.products, p)
	return p, nil
}

func (f *fakeAPI) UpdateProduct(_ context.Context, token string, id string, req domain.ProductUpdateRequest) (domain.Product, error) {
	f.hit("UpdateProduct", token)
	for i := range f.products {
		if f.products[i].ID == id && req.Name != nil {
			f.products[i].Name = *req.Name
			return f.products[i], nil
		}
	}
	return domain.Product{}, nil
}

func (f *fakeAPI) DeleteProduct(_ context.Context, token string, _ string) error {
	f.hit("DeleteProduct", token)
	return nil
}

func (f *fakeAPI) AdjustStock(_ context.Context, token string, id string, quantity int) error {
	f.hit("AdjustStock", token)
	for i := range f.products {
		if f.products[i].ID == id {
			f.products[i].Stock += quantity
		}
	}
	return nil
}

func (f *fakeAPI) ListCashiers(_ context.Context, token string, _ string) ([]domain.Cashier, error) {
	f.hit("ListCashiers", token)
	return []domain.Cashier{{ID: "c1", Name: "Budi", Email: "budi@example.com", Role: domain.RoleCashier}}, nil
}

func (f *fakeAPI) GetCashier(_ context.Context, token string, id string) (domain.Cashier, error) {
	f.hit("GetCashier", token)
	return domain.Cashier{ID: id}, nil
}

func (f *fakeAPI) CreateCashier(_ context.Context, token string, req domain.CashierCreateRequest) (domain.Cashier, error) {
	f.hit("CreateCashier", token)
	return domain.Cashier{ID: "c2", Name: req.Name, Email: req.Email}, nil
}

func (f *fakeAPI) UpdateCashier(_ context.Context, token string, id string, _ domain.CashierUpdateRequest) (domain.Cashier, error) {
	f.hit("UpdateCashier", token)
	return domain.Cashier{ID: id}, nil
}

func (f *fakeAPI) DeleteCashier(_ context.Context, token string, _ string) error {
	f.hit("DeleteCashier", token)
	return nil
}

func (f *fakeAPI) ActiveShift(_ context.Context, token string) (*domain.Shift, error) {
	f.hit("ActiveShift", token)
	return f.activeShift, nil
}

func (f *fakeAPI) StartShift(_ context.Context, token string, startMoney decimal.Decimal) (domain.ShiftResponse, error) {
	f.hit("StartShift", token)
	f.activeShift = &domain.Shift{ID: "s1", StartMoney: startMoney, StartTime: time.Now()}
	return domain.ShiftResponse{Message: "started", Shift: *f.activeShift}, nil
}

func (f *fakeAPI) EndShift(_ context.Context, token string, endMoney decimal.Decimal) (domain.ShiftResponse, error) {
	f.hit("EndShift", token)
	shift := *f.activeShift
	shift.EndMoney = &endMoney
	f.activeShift = nil
	return domain.ShiftResponse{Message: "ended", Shift: shift}, nil
}

func (f *fakeAPI) ListTransactions(_ context.Context, token string, _ domain.TransactionFilter) ([]domain.Transaction, error) {
	f.hit("ListTransactions", token)
	return nil, nil
}

func (f *fakeAPI) Checkout(_ context.Context, token string, _ domain.CheckoutRequest) (domain.CheckoutResponse, error) {
	f.hit("Checkout", token)
	if f.checkoutErr != nil {
		return domain.CheckoutResponse{}, f.checkoutErr
	}
	return domain.CheckoutResponse{Message: "ok", Transaction: domain.Transaction{ID: "t1"}}, nil
}

func (f *fakeAPI) DailyReport(_ context.Context, token string, date string) (domain.DailyReport, error) {
	f.hit("DailyReport", token)
	return domain.DailyReport{Date: date}, nil
}

func (f *fakeAPI) SummaryReport(_ context.Context, token string, start string, end string) (domain.SummaryReport, error) {
	f.hit("SummaryReport", token)
	return domain.SummaryReport{Start: start, End: end}, nil
}

func (f *fakeAPI) Mismatches(_ context.Context, token string, start string, end string) (domain.MismatchReport, error) {
	f.hit("Mismatches", token)
	return domain.MismatchReport{Start: start, End: end}, nil
}

func (f *fakeAPI) ListBlogs(_ context.Context, query domain.BlogQuery) (domain.BlogPage, error) {
	f.hit("ListBlogs", "")
	return domain.BlogPage{Meta: domain.PageMeta{Page: query.Page, Take: query.Take}}, nil
}

func (f *fakeAPI) GetBlog(_ context.Context, slug string) (domain.Blog, error) {
	f.hit("GetBlog", "")
	return domain.Blog{Slug: slug}, nil
}

func (f *fakeAPI) CreateBlog(_ context.Context, token string, _ domain.BlogCreateRequest) error {
	f.hit("CreateBlog", token)
	return nil
}

func cashierSession(userID string) *session.Session {
	return &session.Session{ID: "sess-" + userID, UserID: userID, Role: domain.RoleCashier, Token: "tok-" + userID}
}

func TestProductsAreCachedPerUser(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI()
	svc := New(api, cache.NewMemory(), time.Minute)

	_, err := svc.As(cashierSession("u1")).Products(ctx)
	require.NoError(t, err)
	_, err = svc.As(cashierSession("u1")).Products(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, api.calls["ListProducts"])
	assert.Equal(t, "tok-u1", api.lastToken)

	_, err = svc.As(cashierSession("u2")).Products(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, api.calls["ListProducts"])
}

func TestCheckoutInvalidatesEveryUsersProducts(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI()
	svc := New(api, cache.NewMemory(), time.Minute)
	u1, u2 := svc.As(cashierSession("u1")), svc.As(cashierSession("u2"))

	_, _ = u1.Products(ctx)
	_, _ = u2.Products(ctx)
	require.Equal(t, 2, api.calls["ListProducts"])

	_, err := u1.Checkout(ctx, domain.CheckoutRequest{ShiftID: "s1", PaymentMethod: domain.PaymentDebit})
	require.NoError(t, err)

	_, _ = u1.Products(ctx)
	_, _ = u2.Products(ctx)
	assert.Equal(t, 4, api.calls["ListProducts"])
}

func TestFailedCheckoutKeepsCache(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI()
	api.checkoutErr = &apiclient.RemoteError{Status: 400, Message: "Stok tidak cukup"}
	svc := New(api, cache.NewMemory(), time.Minute)
	u1 := svc.As(cashierSession("u1"))

	_, _ = u1.Products(ctx)
	_, err := u1.Checkout(ctx, domain.CheckoutRequest{})
	require.Error(t, err)
	assert.Equal(t, "Stok tidak cukup", apiclient.Message(err, ""))

	_, _ = u1.Products(ctx)
	assert.Equal(t, 1, api.calls["ListProducts"])
}

func TestAdjustStockRefreshesListAndDetail(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI()
	svc := New(api, cache.NewMemory(), time.Minute)
	admin := svc.As(&session.Session{UserID: "a1", Role: domain.RoleAdmin, Token: "tok-a1"})

	before, err := admin.Product(ctx, "p1")
	require.NoError(t, err)
	require.NoError(t, admin.AdjustStock(ctx, "p1", 5))

	after, err := admin.Product(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, before.Stock+5, after.Stock)
	assert.Equal(t, 2, api.calls["GetProduct"])
}

func TestActiveShiftCachesAbsenceUntilStart(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI()
	svc := New(api, cache.NewMemory(), time.Minute)
	u1 := svc.As(cashierSession("u1"))

	shift, err := u1.ActiveShift(ctx)
	require.NoError(t, err)
	assert.Nil(t, shift)
	_, _ = u1.ActiveShift(ctx)
	assert.Equal(t, 1, api.calls["ActiveShift"])

	_, err = u1.StartShift(ctx, decimal.NewFromInt(100000))
	require.NoError(t, err)

	shift, err = u1.ActiveShift(ctx)
	require.NoError(t, err)
	require.NotNil(t, shift)
	assert.True(t, shift.StartMoney.Equal(decimal.NewFromInt(100000)))
	assert.Equal(t, 2, api.calls["ActiveShift"])

	_, err = u1.EndShift(ctx, decimal.NewFromInt(95000))
	require.NoError(t, err)
	shift, err = u1.ActiveShift(ctx)
	require.NoError(t, err)
	assert.Nil(t, shift)
}

func TestCashierMutationsInvalidateLists(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI()
	svc := New(api, cache.NewMemory(), time.Minute)
	admin := svc.As(&session.Session{UserID: "a1", Role: domain.RoleAdmin, Token: "tok-a1"})

	_, _ = admin.Cashiers(ctx, "")
	_, _ = admin.Cashiers(ctx, "  ")
	assert.Equal(t, 1, api.calls["ListCashiers"])

	_, err := admin.CreateCashier(ctx, domain.CashierCreateRequest{Name: "Rina", Email: "rina@example.com", Password: "secret1"})
	require.NoError(t, err)
	_, _ = admin.Cashiers(ctx, "")
	assert.Equal(t, 2, api.calls["ListCashiers"])

	require.NoError(t, admin.DeleteCashier(ctx, "c1"))
	_, _ = admin.Cashiers(ctx, "")
	assert.Equal(t, 3, api.calls["ListCashiers"])
}

func TestReportsAreNotCached(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI()
	svc := New(api, cache.NewMemory(), time.Minute)
	admin := svc.As(&session.Session{UserID: "a1", Role: domain.RoleAdmin, Token: "tok-a1"})

	for i := 0; i < 2; i++ {
		_, err := admin.SummaryReport(ctx, "2024-01-01", "2024-01-07")
		require.NoError(t, err)
	}
	assert.Equal(t, 2, api.calls["SummaryReport"])
}

func TestBlogWriteInvalidatesListing(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI()
	svc := New(api, cache.NewMemory(), time.Minute)

	_, _ = svc.Blogs(ctx, domain.BlogQuery{Page: 1, Take: 6})
	_, _ = svc.Blogs(ctx, domain.BlogQuery{Page: 1, Take: 6})
	assert.Equal(t, 1, api.calls["ListBlogs"])

	require.NoError(t, svc.As(cashierSession("u1")).CreateBlog(ctx, domain.BlogCreateRequest{Title: "Baru"}))
	_, _ = svc.Blogs(ctx, domain.BlogQuery{Page: 1, Take: 6})
	assert.Equal(t, 2, api.calls["ListBlogs"])
}

func TestBlogSearchCachesByExactTerm(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI()
	svc := New(api, cache.NewMemory(), time.Minute)

	_, _ = svc.Blogs(ctx, domain.BlogQuery{Page: 1, Take: 6, Search: "Sugar"})
	_, _ = svc.Blogs(ctx, domain.BlogQuery{Page: 1, Take: 6, Search: " Sugar "})
	assert.Equal(t, 1, api.calls["ListBlogs"])

	_, _ = svc.Blogs(ctx, domain.BlogQuery{Page: 1, Take: 6, Search: "sugar"})
	assert.Equal(t, 2, api.calls["ListBlogs"])
}

type failingCache struct{}

func (failingCache) Get(context.Context, string, any) (bool, error) {
	return false, errors.New("redis down")
}

func (failingCache) Set(context.Context, string, any, time.Duration) error {
	return errors.New("redis down")
}

func (failingCache) Invalidate(context.Context, ...string) error {
	return errors.New("redis down")
}

func TestCacheFailuresFallThroughToAPI(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI()
	svc := New(api, failingCache{}, time.Minute)

	products, err := svc.As(cashierSession("u1")).Products(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 1)

	require.NoError(t, svc.As(cashierSession("u1")).DeleteProduct(ctx, "p1"))
}
