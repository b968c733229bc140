package pos

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"kasirinaja/frontend/internal/domain"
)

type fakeShiftAPI struct {
	active  *domain.Shift
	started []decimal.Decimal
	ended   []decimal.Decimal
}

func (f *fakeShiftAPI) ActiveShift(context.Context) (*domain.Shift, error) {
	return f.active, nil
}

func (f *fakeShiftAPI) StartShift(_ context.Context, startMoney decimal.Decimal) (domain.ShiftResponse, error) {
	f.started = append(f.started, startMoney)
	f.active = &domain.Shift{ID: "s1", StartMoney: startMoney, StartTime: time.Now()}
	return domain.ShiftResponse{Shift: *f.active}, nil
}

func (f *fakeShiftAPI) EndShift(_ context.Context, endMoney decimal.Decimal) (domain.ShiftResponse, error) {
	f.ended = append(f.ended, endMoney)
	return domain.ShiftResponse{Shift: domain.Shift{ID: "s1", EndMoney: &endMoney}}, nil
}

func TestShiftStartValidatesAmount(t *testing.T) {
	api := &fakeShiftAPI{}
	m := NewShiftManager(api)

	for _, raw := range []string{"-1", "abc", ""} {
		if _, err := m.Start(context.Background(), raw); !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("Start(%q): expected ErrInvalidAmount, got %v", raw, err)
		}
	}
	if len(api.started) != 0 {
		t.Fatalf("expected no remote call for invalid amounts")
	}

	if _, err := m.Start(context.Background(), "100.000"); err != nil {
		t.Fatalf("start: %v", err)
	}
	if !api.started[0].Equal(decimal.NewFromInt(100000)) {
		t.Fatalf("expected start money 100000, got %s", api.started[0])
	}

	shift, err := m.Active(context.Background())
	if err != nil || shift == nil || !CheckoutEnabled(shift) {
		t.Fatalf("expected open shift after start, got %+v (%v)", shift, err)
	}
}

func TestShiftEndValidatesAmount(t *testing.T) {
	api := &fakeShiftAPI{}
	m := NewShiftManager(api)

	if _, err := m.End(context.Background(), "-50"); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	resp, err := m.End(context.Background(), "95000")
	if err != nil {
		t.Fatalf("end: %v", err)
	}
	if resp.Shift.EndMoney == nil || !resp.Shift.EndMoney.Equal(decimal.NewFromInt(95000)) {
		t.Fatalf("unexpected end response %+v", resp)
	}
}

func TestActiveIgnoresClosedShift(t *testing.T) {
	ended := time.Now()
	api := &fakeShiftAPI{active: &domain.Shift{ID: "s0", EndTime: &ended}}
	shift, err := NewShiftManager(api).Active(context.Background())
	if err != nil || shift != nil {
		t.Fatalf("expected closed shift to count as none, got %+v (%v)", shift, err)
	}
	if CheckoutEnabled(nil) {
		t.Fatalf("expected checkout disabled without shift")
	}
}

func TestReconcile(t *testing.T) {
	end := decimal.NewFromInt(95000)
	expected := decimal.NewFromInt(100000)

	rec := Reconcile(domain.ShiftResponse{Shift: domain.Shift{EndMoney: &end}, ExpectedCash: &expected})
	if rec.Discrepancy == nil || !rec.Discrepancy.Equal(decimal.NewFromInt(-5000)) || !rec.Mismatch {
		t.Fatalf("expected -5000 mismatch, got %+v", rec)
	}

	even := decimal.NewFromInt(100000)
	matched := false
	rec = Reconcile(domain.ShiftResponse{Shift: domain.Shift{EndMoney: &even}, ExpectedCash: &expected, Mismatch: &matched})
	if rec.Mismatch || !rec.Discrepancy.IsZero() {
		t.Fatalf("expected matched shift, got %+v", rec)
	}

	flagged := true
	rec = Reconcile(domain.ShiftResponse{Shift: domain.Shift{EndMoney: &even}, Mismatch: &flagged})
	if !rec.Mismatch || rec.Discrepancy != nil {
		t.Fatalf("expected server flag without discrepancy, got %+v", rec)
	}
}
