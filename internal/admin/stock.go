package admin

import (
	"errors"
	"strconv"
	"strings"
)

var ErrInvalidQuantity = errors.New("quantity must be a positive whole number")

type StockDirection string

const (
	StockIncrease StockDirection = "increase"
	StockDecrease StockDirection = "decrease"
)

// ParseStockAdjustment turns the typed quantity and the pressed button into
// the signed relative change sent to the API.
func ParseStockAdjustment(raw string, direction StockDirection) (int, error) {
	qty, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || qty <= 0 {
		return 0, ErrInvalidQuantity
	}
	switch direction {
	case StockIncrease:
		return qty, nil
	case StockDecrease:
		return -qty, nil
	}
	return 0, ErrInvalidQuantity
}
