package pos

import (
	"context"
	"errors"
	"sync"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"kasirinaja/frontend/internal/domain"
)

var (
	ErrEmptyCart         = errors.New("cart is empty")
	ErrNoActiveShift     = errors.New("start a shift before checking out")
	ErrInsufficientCash  = errors.New("tendered cash is less than the subtotal")
	ErrMissingCardNumber = errors.New("debit card number is required")
	ErrCheckoutPending   = errors.New("a checkout is already being submitted")
	ErrNotConfirmed      = errors.New("checkout has not been confirmed")
)

type Phase string

const (
	PhaseEditing        Phase = "editing"
	PhaseValidating     Phase = "validating"
	PhaseConfirmPending Phase = "confirm_pending"
	PhaseSubmitting     Phase = "submitting"
	PhaseSuccess        Phase = "success"
	PhaseFailed         Phase = "failed"
)

// Summary is what the cashier confirms before a sale is sent.
type Summary struct {
	Lines      []CartItem
	Subtotal   decimal.Decimal
	Method     domain.PaymentMethod
	Tendered   decimal.Decimal
	Change     decimal.Decimal
	CardNumber string
}

// Submitter sends a checkout to the remote API.
type Submitter interface {
	Checkout(ctx context.Context, req domain.CheckoutRequest) (domain.CheckoutResponse, error)
}

// Workspace is one cashier's POS page state: cart, payment inputs and the
// checkout phase. Methods are safe for concurrent use; the lock is released
// while a checkout is on the wire.
type Workspace struct {
	mu        sync.Mutex
	cart      Cart
	payment   Payment
	phase     Phase
	summary   *Summary
	outcome   Phase
	lastError error
	lastSale  *domain.Transaction
}

func NewWorkspace() *Workspace {
	return &Workspace{
		payment: Payment{Method: domain.PaymentCash},
		phase:   PhaseEditing,
	}
}

// View is a consistent copy of the workspace for rendering.
type View struct {
	Lines     []CartItem
	Subtotal  decimal.Decimal
	Payment   Payment
	Change    decimal.Decimal
	Phase     Phase
	Summary   *Summary
	Outcome   Phase
	LastError error
	LastSale  *domain.Transaction
}

func (w *Workspace) View() View {
	w.mu.Lock()
	defer w.mu.Unlock()

	subtotal := w.cart.Subtotal()
	return View{
		Lines:     w.cart.Lines(),
		Subtotal:  subtotal,
		Payment:   w.payment,
		Change:    ChangeDue(w.payment, subtotal),
		Phase:     w.phase,
		Summary:   w.summary,
		Outcome:   w.outcome,
		LastError: w.lastError,
		LastSale:  w.lastSale,
	}
}

// Edit applies fn to the cart. Edits are refused while a checkout is being
// confirmed or submitted.
func (w *Workspace) Edit(fn func(c *Cart)) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.phase == PhaseSubmitting {
		return ErrCheckoutPending
	}
	w.backToEditing()
	fn(&w.cart)
	return nil
}

func (w *Workspace) SetPayment(p Payment) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.phase == PhaseSubmitting {
		return ErrCheckoutPending
	}
	w.backToEditing()
	w.payment = p.normalized()
	return nil
}

// Reset empties the cart and the payment inputs.
func (w *Workspace) Reset() error {
	return w.Edit(func(c *Cart) {
		c.Clear()
		w.payment = Payment{Method: w.payment.Method}
	})
}

// Validate checks the workspace against shift in a fixed order: empty cart,
// missing shift, then the payment method's own requirement.
func (w *Workspace) Validate(shift *domain.Shift) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, err := w.validateLocked(shift)
	return err
}

func (w *Workspace) validateLocked(shift *domain.Shift) (Summary, error) {
	if w.cart.IsEmpty() {
		return Summary{}, ErrEmptyCart
	}
	if !CheckoutEnabled(shift) {
		return Summary{}, ErrNoActiveShift
	}

	payment := w.payment.normalized()
	subtotal := w.cart.Subtotal()
	summary := Summary{
		Lines:    w.cart.Lines(),
		Subtotal: subtotal,
		Method:   payment.Method,
	}
	switch payment.Method {
	case domain.PaymentCash:
		tendered, err := ParseAmount(payment.Tendered)
		if err != nil || tendered.LessThan(subtotal) {
			return Summary{}, ErrInsufficientCash
		}
		summary.Tendered = tendered
		summary.Change = tendered.Sub(subtotal)
	case domain.PaymentDebit:
		if payment.CardNumber == "" {
			return Summary{}, ErrMissingCardNumber
		}
		summary.CardNumber = payment.CardNumber
	}
	return summary, nil
}

// RequestCheckout validates and, on success, parks the workspace in
// ConfirmPending with the summary to show.
func (w *Workspace) RequestCheckout(shift *domain.Shift) (Summary, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.phase == PhaseSubmitting {
		return Summary{}, ErrCheckoutPending
	}

	w.phase = PhaseValidating
	summary, err := w.validateLocked(shift)
	if err != nil {
		w.phase = PhaseEditing
		w.summary = nil
		w.outcome = PhaseFailed
		w.lastError = err
		return Summary{}, err
	}
	w.phase = PhaseConfirmPending
	w.summary = &summary
	w.outcome = ""
	w.lastError = nil
	return summary, nil
}

// Cancel leaves the confirmation step without side effects.
func (w *Workspace) Cancel() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.phase == PhaseConfirmPending {
		w.phase = PhaseEditing
		w.summary = nil
	}
}

// Submit sends the confirmed checkout. On success the cart and payment inputs
// are cleared; on failure they are left untouched and the error is kept for
// display. There are no automatic retries.
func (w *Workspace) Submit(ctx context.Context, shift *domain.Shift, submitter Submitter) (*domain.Transaction, error) {
	w.mu.Lock()
	switch w.phase {
	case PhaseSubmitting:
		w.mu.Unlock()
		return nil, ErrCheckoutPending
	case PhaseConfirmPending:
	default:
		w.mu.Unlock()
		return nil, ErrNotConfirmed
	}

	// The shift may have been closed since the summary was shown.
	summary, err := w.validateLocked(shift)
	if err != nil {
		w.phase = PhaseEditing
		w.summary = nil
		w.outcome = PhaseFailed
		w.lastError = err
		w.mu.Unlock()
		return nil, err
	}

	req := domain.CheckoutRequest{
		ShiftID:       shift.ID,
		PaymentMethod: summary.Method,
		Items:         w.cart.checkoutItems(),
	}
	switch summary.Method {
	case domain.PaymentCash:
		tendered := summary.Tendered
		req.CashAmount = &tendered
	case domain.PaymentDebit:
		req.DebitCardNumber = summary.CardNumber
	}
	w.phase = PhaseSubmitting
	w.mu.Unlock()

	resp, err := submitter.Checkout(ctx, req)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.phase = PhaseEditing
	w.summary = nil
	if err != nil {
		w.outcome = PhaseFailed
		w.lastError = err
		log.WithError(err).WithField("shift_id", req.ShiftID).Warn("checkout failed")
		return nil, err
	}

	w.outcome = PhaseSuccess
	sale := resp.Transaction
	w.lastSale = &sale
	w.lastError = nil
	w.cart.Clear()
	w.payment = Payment{Method: w.payment.Method}
	log.WithFields(log.Fields{"shift_id": req.ShiftID, "transaction_id": sale.ID, "lines": len(req.Items)}).Info("checkout completed")
	return &sale, nil
}

func (w *Workspace) Phase() Phase {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.phase
}

// ClearNotice drops the last outcome after it was shown.
func (w *Workspace) ClearNotice() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.outcome = ""
	w.lastError = nil
	w.lastSale = nil
}

func (w *Workspace) backToEditing() {
	if w.phase == PhaseConfirmPending {
		w.phase = PhaseEditing
		w.summary = nil
	}
}
