package pos

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"kasirinaja/frontend/internal/domain"
)

var ErrInvalidAmount = errors.New("amount must be a non-negative number")

// Payment holds the raw payment inputs as typed into the POS form.
type Payment struct {
	Method     domain.PaymentMethod
	Tendered   string
	CardNumber string
}

func (p Payment) normalized() Payment {
	if !p.Method.Valid() {
		p.Method = domain.PaymentCash
	}
	p.Tendered = strings.TrimSpace(p.Tendered)
	p.CardNumber = strings.TrimSpace(p.CardNumber)
	return p
}

// ParseAmount reads a money figure typed by a user. Thousands separators
// ("100.000", "100,000") and an "Rp" prefix are accepted.
func ParseAmount(raw string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(strings.TrimPrefix(cleaned, "Rp"), "rp")
	cleaned = strings.TrimSpace(cleaned)
	cleaned = strings.NewReplacer(" ", "", "_", "").Replace(cleaned)
	if isGrouped(cleaned, '.') {
		cleaned = strings.ReplaceAll(cleaned, ".", "")
	} else if isGrouped(cleaned, ',') {
		cleaned = strings.ReplaceAll(cleaned, ",", "")
	}
	if cleaned == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	amount, err := decimal.NewFromString(cleaned)
	if err != nil || amount.IsNegative() {
		return decimal.Zero, ErrInvalidAmount
	}
	return amount, nil
}

// isGrouped reports whether s looks like digits grouped in threes by sep,
// e.g. "1.250.000".
func isGrouped(s string, sep byte) bool {
	parts := strings.Split(s, string(sep))
	if len(parts) < 2 || parts[0] == "" || len(parts[0]) > 3 {
		return false
	}
	for i, part := range parts {
		if i > 0 && len(part) != 3 {
			return false
		}
		for j := 0; j < len(part); j++ {
			if part[j] < '0' || part[j] > '9' {
				return false
			}
		}
	}
	return true
}

// ChangeDue is max(0, tendered - subtotal) for CASH and zero otherwise,
// including when the tendered input is not a number.
func ChangeDue(payment Payment, subtotal decimal.Decimal) decimal.Decimal {
	payment = payment.normalized()
	if payment.Method != domain.PaymentCash {
		return decimal.Zero
	}
	tendered, err := ParseAmount(payment.Tendered)
	if err != nil {
		return decimal.Zero
	}
	change := tendered.Sub(subtotal)
	if change.IsNegative() {
		return decimal.Zero
	}
	return change
}
