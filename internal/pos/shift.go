package pos

import (
	"context"

	"github.com/shopspring/decimal"

	"kasirinaja/frontend/internal/domain"
)

// ShiftAPI is the shift surface of the data hooks for one cashier.
type ShiftAPI interface {
	ActiveShift(ctx context.Context) (*domain.Shift, error)
	StartShift(ctx context.Context, startMoney decimal.Decimal) (domain.ShiftResponse, error)
	EndShift(ctx context.Context, endMoney decimal.Decimal) (domain.ShiftResponse, error)
}

type ShiftManager struct {
	api ShiftAPI
}

func NewShiftManager(api ShiftAPI) *ShiftManager {
	return &ShiftManager{api: api}
}

// Active returns the open shift, or nil when there is none.
func (m *ShiftManager) Active(ctx context.Context) (*domain.Shift, error) {
	shift, err := m.api.ActiveShift(ctx)
	if err != nil {
		return nil, err
	}
	if !shift.IsOpen() {
		return nil, nil
	}
	return shift, nil
}

func (m *ShiftManager) Start(ctx context.Context, rawStartMoney string) (domain.ShiftResponse, error) {
	amount, err := ParseAmount(rawStartMoney)
	if err != nil {
		return domain.ShiftResponse{}, ErrInvalidAmount
	}
	return m.api.StartShift(ctx, amount)
}

// End closes the open shift with the counted closing cash. The response
// carries the remote reconciliation when one was computed.
func (m *ShiftManager) End(ctx context.Context, rawEndMoney string) (domain.ShiftResponse, error) {
	amount, err := ParseAmount(rawEndMoney)
	if err != nil {
		return domain.ShiftResponse{}, ErrInvalidAmount
	}
	return m.api.EndShift(ctx, amount)
}

// CheckoutEnabled gates payment inputs and the checkout button.
func CheckoutEnabled(shift *domain.Shift) bool {
	return shift.IsOpen()
}

// Reconciliation is the display form of a closed shift's cash check.
type Reconciliation struct {
	EndMoney     decimal.Decimal
	ExpectedCash *decimal.Decimal
	Discrepancy  *decimal.Decimal
	Mismatch     bool
}

// Reconcile derives the end-of-shift display from the API response. The
// mismatch flag is the server's, or a non-zero discrepancy when the server
// sent the expected figure without one.
func Reconcile(resp domain.ShiftResponse) Reconciliation {
	rec := Reconciliation{ExpectedCash: resp.ExpectedCash}
	if resp.Shift.EndMoney != nil {
		rec.EndMoney = *resp.Shift.EndMoney
	}
	if resp.ExpectedCash != nil && resp.Shift.EndMoney != nil {
		diff := resp.Shift.EndMoney.Sub(*resp.ExpectedCash)
		rec.Discrepancy = &diff
		rec.Mismatch = !diff.IsZero()
	}
	if resp.Mismatch != nil && *resp.Mismatch {
		rec.Mismatch = true
	}
	return rec
}
