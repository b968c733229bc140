package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const displayLayout = "02 Jan 2006 15:04"

type timeLike struct {
	t  time.Time
	ok bool
}

func at(t time.Time) timeLike {
	return timeLike{t: t, ok: !t.IsZero()}
}

func atPtr(t *time.Time) timeLike {
	if t == nil {
		return timeLike{}
	}
	return at(*t)
}

func (tl timeLike) display() string {
	if !tl.ok {
		return "-"
	}
	return tl.t.Format(displayLayout)
}

// FormatTime renders a timestamp the way report tables show it.
func FormatTime(t time.Time) string {
	return at(t).display()
}

// FormatRupiah renders an amount as "Rp 1.250.000", keeping up to two
// decimals when the amount is fractional.
func FormatRupiah(amount decimal.Decimal) string {
	amount = amount.Round(2)
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Neg()
	}
	whole := amount.Truncate(0)
	frac := amount.Sub(whole)

	digits := whole.String()
	var grouped strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			grouped.WriteByte('.')
		}
		grouped.WriteRune(r)
	}

	out := sign + "Rp " + grouped.String()
	if !frac.IsZero() {
		out += fmt.Sprintf(",%02d", frac.Shift(2).IntPart())
	}
	return out
}
