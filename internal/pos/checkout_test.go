package pos

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"kasirinaja/frontend/internal/domain"
)

type recordingSubmitter struct {
	mu       sync.Mutex
	requests []domain.CheckoutRequest
	err      error
	release  chan struct{}
	entered  chan struct{}
}

func (s *recordingSubmitter) Checkout(_ context.Context, req domain.CheckoutRequest) (domain.CheckoutResponse, error) {
	if s.entered != nil {
		s.entered <- struct{}{}
	}
	if s.release != nil {
		<-s.release
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, req)
	if s.err != nil {
		return domain.CheckoutResponse{}, s.err
	}
	return domain.CheckoutResponse{Message: "ok", Transaction: domain.Transaction{ID: "t1", TotalAmount: decimal.NewFromInt(50000)}}, nil
}

func openShift() *domain.Shift {
	return &domain.Shift{ID: "s1", StartMoney: decimal.NewFromInt(100000), StartTime: time.Now()}
}

func filledWorkspace(t *testing.T, payment Payment) *Workspace {
	t.Helper()
	ws := NewWorkspace()
	if err := ws.Edit(func(c *Cart) {
		c.Add(product("p1", "Gula", 15000))
		c.Add(product("p1", "Gula", 15000))
		c.Add(product("p2", "Kopi", 20000))
	}); err != nil {
		t.Fatalf("edit cart: %v", err)
	}
	if err := ws.SetPayment(payment); err != nil {
		t.Fatalf("set payment: %v", err)
	}
	return ws
}

func TestValidateOrder(t *testing.T) {
	empty := NewWorkspace()
	if err := empty.Validate(openShift()); !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart with shift, got %v", err)
	}
	if err := empty.Validate(nil); !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart without shift, got %v", err)
	}

	valid := filledWorkspace(t, Payment{Method: domain.PaymentCash, Tendered: "60000"})
	if err := valid.Validate(nil); !errors.Is(err, ErrNoActiveShift) {
		t.Fatalf("expected ErrNoActiveShift, got %v", err)
	}
	closed := openShift()
	ended := time.Now()
	closed.EndTime = &ended
	if err := valid.Validate(closed); !errors.Is(err, ErrNoActiveShift) {
		t.Fatalf("expected ErrNoActiveShift for closed shift, got %v", err)
	}
	if err := valid.Validate(openShift()); err != nil {
		t.Fatalf("expected valid checkout, got %v", err)
	}

	short := filledWorkspace(t, Payment{Method: domain.PaymentCash, Tendered: "40000"})
	if err := short.Validate(openShift()); !errors.Is(err, ErrInsufficientCash) {
		t.Fatalf("expected ErrInsufficientCash, got %v", err)
	}
	if change := short.View().Change; !change.IsZero() {
		t.Fatalf("expected zero change when short, got %s", change)
	}
	garbage := filledWorkspace(t, Payment{Method: domain.PaymentCash, Tendered: "banyak"})
	if err := garbage.Validate(openShift()); !errors.Is(err, ErrInsufficientCash) {
		t.Fatalf("expected ErrInsufficientCash for non-numeric tender, got %v", err)
	}

	debit := filledWorkspace(t, Payment{Method: domain.PaymentDebit, CardNumber: "   "})
	if err := debit.Validate(openShift()); !errors.Is(err, ErrMissingCardNumber) {
		t.Fatalf("expected ErrMissingCardNumber, got %v", err)
	}
}

func TestRequestCheckoutAndCancel(t *testing.T) {
	ws := filledWorkspace(t, Payment{Method: domain.PaymentCash, Tendered: "60000"})

	summary, err := ws.RequestCheckout(openShift())
	if err != nil {
		t.Fatalf("request checkout: %v", err)
	}
	if !summary.Subtotal.Equal(decimal.NewFromInt(50000)) || !summary.Change.Equal(decimal.NewFromInt(10000)) {
		t.Fatalf("unexpected summary %+v", summary)
	}
	if ws.Phase() != PhaseConfirmPending {
		t.Fatalf("expected confirm pending, got %s", ws.Phase())
	}

	ws.Cancel()
	view := ws.View()
	if view.Phase != PhaseEditing || view.Summary != nil || len(view.Lines) != 2 {
		t.Fatalf("expected cancel to return to editing with cart intact, got %+v", view)
	}
}

func TestSubmitRequiresConfirmation(t *testing.T) {
	ws := filledWorkspace(t, Payment{Method: domain.PaymentCash, Tendered: "60000"})
	sub := &recordingSubmitter{}

	if _, err := ws.Submit(context.Background(), openShift(), sub); !errors.Is(err, ErrNotConfirmed) {
		t.Fatalf("expected ErrNotConfirmed, got %v", err)
	}
	if len(sub.requests) != 0 {
		t.Fatalf("expected no remote call")
	}
}

func TestSubmitSuccessClearsCartAndPayment(t *testing.T) {
	ws := filledWorkspace(t, Payment{Method: domain.PaymentCash, Tendered: "60000"})
	sub := &recordingSubmitter{}

	if _, err := ws.RequestCheckout(openShift()); err != nil {
		t.Fatalf("request checkout: %v", err)
	}
	sale, err := ws.Submit(context.Background(), openShift(), sub)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if sale.ID != "t1" {
		t.Fatalf("unexpected sale %+v", sale)
	}

	req := sub.requests[0]
	if req.ShiftID != "s1" || req.PaymentMethod != domain.PaymentCash || req.DebitCardNumber != "" {
		t.Fatalf("unexpected request %+v", req)
	}
	if req.CashAmount == nil || !req.CashAmount.Equal(decimal.NewFromInt(60000)) {
		t.Fatalf("expected cashAmount 60000, got %v", req.CashAmount)
	}
	if len(req.Items) != 2 || req.Items[0].ProductID != "p1" || req.Items[0].Quantity != 2 {
		t.Fatalf("unexpected items %+v", req.Items)
	}

	view := ws.View()
	if len(view.Lines) != 0 || view.Payment.Tendered != "" || view.Payment.CardNumber != "" {
		t.Fatalf("expected cart and payment reset, got %+v", view)
	}
	if view.Phase != PhaseEditing || view.Outcome != PhaseSuccess || view.LastSale == nil {
		t.Fatalf("expected editing phase with success outcome, got %+v", view)
	}
}

func TestSubmitDebitSendsCardNumber(t *testing.T) {
	ws := filledWorkspace(t, Payment{Method: domain.PaymentDebit, CardNumber: "4111 1111", Tendered: "999999"})
	sub := &recordingSubmitter{}

	if _, err := ws.RequestCheckout(openShift()); err != nil {
		t.Fatalf("request checkout: %v", err)
	}
	if _, err := ws.Submit(context.Background(), openShift(), sub); err != nil {
		t.Fatalf("submit: %v", err)
	}
	req := sub.requests[0]
	if req.PaymentMethod != domain.PaymentDebit || req.DebitCardNumber != "4111 1111" || req.CashAmount != nil {
		t.Fatalf("unexpected debit request %+v", req)
	}
}

func TestSubmitFailurePreservesCart(t *testing.T) {
	ws := filledWorkspace(t, Payment{Method: domain.PaymentCash, Tendered: "60000"})
	remoteErr := errors.New("Stok tidak cukup")
	sub := &recordingSubmitter{err: remoteErr}

	if _, err := ws.RequestCheckout(openShift()); err != nil {
		t.Fatalf("request checkout: %v", err)
	}
	before := ws.View().Lines
	if _, err := ws.Submit(context.Background(), openShift(), sub); !errors.Is(err, remoteErr) {
		t.Fatalf("expected remote error, got %v", err)
	}

	view := ws.View()
	if len(view.Lines) != len(before) || view.Lines[0].Quantity != before[0].Quantity {
		t.Fatalf("expected cart preserved, got %+v", view.Lines)
	}
	if view.Payment.Tendered != "60000" {
		t.Fatalf("expected tendered input preserved, got %q", view.Payment.Tendered)
	}
	if view.Phase != PhaseEditing || view.Outcome != PhaseFailed || !errors.Is(view.LastError, remoteErr) {
		t.Fatalf("expected failed outcome back in editing, got %+v", view)
	}
}

func TestSubmitRechecksShift(t *testing.T) {
	ws := filledWorkspace(t, Payment{Method: domain.PaymentCash, Tendered: "60000"})
	sub := &recordingSubmitter{}

	if _, err := ws.RequestCheckout(openShift()); err != nil {
		t.Fatalf("request checkout: %v", err)
	}
	if _, err := ws.Submit(context.Background(), nil, sub); !errors.Is(err, ErrNoActiveShift) {
		t.Fatalf("expected ErrNoActiveShift, got %v", err)
	}
	if len(sub.requests) != 0 {
		t.Fatalf("expected no remote call without shift")
	}
}

func TestSecondSubmitWhileSubmittingIsRejected(t *testing.T) {
	ws := filledWorkspace(t, Payment{Method: domain.PaymentCash, Tendered: "60000"})
	sub := &recordingSubmitter{release: make(chan struct{}), entered: make(chan struct{}, 1)}

	if _, err := ws.RequestCheckout(openShift()); err != nil {
		t.Fatalf("request checkout: %v", err)
	}

	done := make(chan error, 1)
	go func() {
		_, err := ws.Submit(context.Background(), openShift(), sub)
		done <- err
	}()
	<-sub.entered

	if ws.Phase() != PhaseSubmitting {
		t.Fatalf("expected submitting phase, got %s", ws.Phase())
	}
	if _, err := ws.Submit(context.Background(), openShift(), sub); !errors.Is(err, ErrCheckoutPending) {
		t.Fatalf("expected ErrCheckoutPending, got %v", err)
	}
	if err := ws.Edit(func(c *Cart) { c.Clear() }); !errors.Is(err, ErrCheckoutPending) {
		t.Fatalf("expected edits to be refused while submitting, got %v", err)
	}
	if _, err := ws.RequestCheckout(openShift()); !errors.Is(err, ErrCheckoutPending) {
		t.Fatalf("expected a new checkout request to be refused while submitting, got %v", err)
	}
	if ws.View().LastError != nil {
		t.Fatalf("expected a refused request to leave no failure on the workspace")
	}
	view := ws.View()
	if len(view.Lines) != 2 {
		t.Fatalf("expected view to stay readable while submitting")
	}

	close(sub.release)
	if err := <-done; err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if len(sub.requests) != 1 {
		t.Fatalf("expected exactly one remote call, got %d", len(sub.requests))
	}
}

func TestEditLeavesConfirmation(t *testing.T) {
	ws := filledWorkspace(t, Payment{Method: domain.PaymentCash, Tendered: "60000"})
	if _, err := ws.RequestCheckout(openShift()); err != nil {
		t.Fatalf("request checkout: %v", err)
	}
	if err := ws.Edit(func(c *Cart) { c.Increment("p2") }); err != nil {
		t.Fatalf("edit: %v", err)
	}
	if ws.Phase() != PhaseEditing {
		t.Fatalf("expected editing after cart change, got %s", ws.Phase())
	}
	if _, err := ws.Submit(context.Background(), openShift(), &recordingSubmitter{}); !errors.Is(err, ErrNotConfirmed) {
		t.Fatalf("expected stale confirmation to be dropped, got %v", err)
	}
}

func TestRegistryPruneDropsEndedSessions(t *testing.T) {
	reg := NewRegistry()
	reg.Get("sess-live")
	reg.Get("sess-expired")

	dropped := reg.Prune(func(id string) bool { return id == "sess-live" })
	if dropped != 1 {
		t.Fatalf("expected one workspace dropped, got %d", dropped)
	}
	if reg.Len() != 1 {
		t.Fatalf("expected the live workspace to remain, got %d", reg.Len())
	}
	if reg.Prune(func(string) bool { return true }) != 0 {
		t.Fatalf("expected nothing dropped while sessions are alive")
	}
}

func TestRegistryIsPerSession(t *testing.T) {
	reg := NewRegistry()
	a := reg.Get("sess-a")
	if reg.Get("sess-a") != a {
		t.Fatalf("expected same workspace for same session")
	}
	if reg.Get("sess-b") == a {
		t.Fatalf("expected distinct workspace per session")
	}
	reg.Drop("sess-a")
	if reg.Len() != 1 {
		t.Fatalf("expected one workspace after drop, got %d", reg.Len())
	}
}
