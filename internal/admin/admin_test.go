package admin

import (
	"errors"
	"fmt"
	"net/url"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kasirinaja/frontend/internal/domain"
	"kasirinaja/frontend/internal/form"
)

func strPtr(s string) *string { return &s }

func TestFilterProductsMatchesNameOrDescription(t *testing.T) {
	products := []domain.Product{
		{ID: "p1", Name: "Brown Sugar"},
		{ID: "p2", Name: "Kopi", Description: strPtr("with SUGAR added")},
		{ID: "p3", Name: "Teh", Description: strPtr("unsweetened")},
		{ID: "p4", Name: "Garam"},
	}

	got := FilterProducts(products, "sugar")
	require.Len(t, got, 2)
	assert.Equal(t, "p1", got[0].ID)
	assert.Equal(t, "p2", got[1].ID)
	assert.Len(t, FilterProducts(products, " "), 4)
}

func TestFilterCashiersMatchesNameOrEmail(t *testing.T) {
	cashiers := []domain.Cashier{
		{ID: "c1", Name: "Budi", Email: "budi@toko.id"},
		{ID: "c2", Name: "Sari", Email: "sari@toko.id"},
		{ID: "c3", Name: "Rina", Email: "BUDIWATI@mail.id"},
	}
	got := FilterCashiers(cashiers, "budi")
	require.Len(t, got, 2)
	assert.Equal(t, "c1", got[0].ID)
	assert.Equal(t, "c3", got[1].ID)
}

func TestListStateRoundTrip(t *testing.T) {
	state := ParseListState(url.Values{"q": {" sugar "}, "page": {"3"}})
	assert.Equal(t, ListState{Query: "sugar", Page: 3}, state)

	values, err := url.ParseQuery(state.Encode())
	require.NoError(t, err)
	assert.Equal(t, state, ParseListState(values))

	assert.Equal(t, ListState{Page: 1}, ParseListState(url.Values{"page": {"abc"}}))
	assert.Equal(t, "", ListState{Page: 1}.Encode())
}

func TestChangingSearchResetsPage(t *testing.T) {
	state := ListState{Query: "sugar", Page: 4}
	assert.Equal(t, 4, state.WithQuery(" sugar").Page)
	assert.Equal(t, ListState{Query: "salt", Page: 1}, state.WithQuery("salt"))
	assert.Equal(t, 1, state.WithPage(-2).Page)
}

func TestPaginate(t *testing.T) {
	items := make([]int, 23)
	for i := range items {
		items[i] = i
	}

	first := Paginate(items, 1, PageSize)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, first.Items)
	assert.Equal(t, 3, first.TotalPages)
	assert.False(t, first.HasPrev)
	assert.True(t, first.HasNext)

	last := Paginate(items, 3, PageSize)
	assert.Equal(t, []int{20, 21, 22}, last.Items)
	assert.False(t, last.HasNext)

	clamped := Paginate(items, 99, PageSize)
	assert.Equal(t, 3, clamped.Page)

	empty := Paginate([]int{}, 2, PageSize)
	assert.Equal(t, 1, empty.Page)
	assert.Empty(t, empty.Items)
	assert.Equal(t, 1, empty.TotalPages)
}

func TestSearchThenPaginate(t *testing.T) {
	products := make([]domain.Product, 0, 25)
	for i := 0; i < 25; i++ {
		name := fmt.Sprintf("Item %02d", i)
		if i%2 == 0 {
			name = fmt.Sprintf("Sugar %02d", i)
		}
		products = append(products, domain.Product{ID: fmt.Sprintf("p%d", i), Name: name})
	}

	state := ListState{Query: "", Page: 3}.WithQuery("sugar")
	page := Paginate(FilterProducts(products, state.Query), state.Page, PageSize)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 13, page.Total)
	assert.Len(t, page.Items, 10)
	for _, p := range page.Items {
		assert.Contains(t, p.Name, "Sugar")
	}
}

func TestParseStockAdjustment(t *testing.T) {
	qty, err := ParseStockAdjustment("5", StockIncrease)
	require.NoError(t, err)
	assert.Equal(t, 5, qty)

	qty, err = ParseStockAdjustment(" 4 ", StockDecrease)
	require.NoError(t, err)
	assert.Equal(t, -4, qty)

	for _, raw := range []string{"0", "-3", "abc", "", "2.5"} {
		_, err := ParseStockAdjustment(raw, StockIncrease)
		assert.True(t, errors.Is(err, ErrInvalidQuantity), raw)
	}
	_, err = ParseStockAdjustment("5", "sideways")
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestProductFormValidation(t *testing.T) {
	_, err := ProductFormFromValues(url.Values{"name": {""}, "price": {"-1"}, "stock": {"x"}}).CreateRequest()
	fields, ok := form.AsErrors(err)
	require.True(t, ok)
	assert.True(t, fields.Has("name"))
	assert.True(t, fields.Has("price"))
	assert.True(t, fields.Has("stock"))

	req, err := ProductFormFromValues(url.Values{"name": {"Gula"}, "price": {"15000"}, "stock": {"12"}, "description": {"1kg"}}).CreateRequest()
	require.NoError(t, err)
	assert.True(t, req.Price.Equal(decimal.NewFromInt(15000)))
	assert.Equal(t, 12, req.Stock)
	assert.Equal(t, "1kg", req.Description)

	upd, err := ProductFormFrom(domain.Product{Name: "Gula", Price: decimal.NewFromInt(16000), Stock: 3}).UpdateRequest()
	require.NoError(t, err)
	assert.Equal(t, "Gula", *upd.Name)
	assert.Equal(t, 3, *upd.Stock)
}

func TestProductFormRejectsOverflowingStock(t *testing.T) {
	values := url.Values{"name": {"Gula"}, "price": {"15000"}, "stock": {"99999999999999999999"}}

	_, err := ProductFormFromValues(values).CreateRequest()
	fields, ok := form.AsErrors(err)
	require.True(t, ok)
	assert.True(t, fields.Has("stock"))

	_, err = ProductFormFromValues(values).UpdateRequest()
	fields, ok = form.AsErrors(err)
	require.True(t, ok)
	assert.True(t, fields.Has("stock"))
}

func TestCashierFormPasswordRules(t *testing.T) {
	base := url.Values{"name": {"Rina"}, "email": {"rina@toko.id"}}

	_, err := CashierFormFromValues(base).CreateRequest()
	fields, ok := form.AsErrors(err)
	require.True(t, ok)
	assert.Equal(t, "is required", fields["password"])

	withShort := url.Values{"name": {"Rina"}, "email": {"rina@toko.id"}, "password": {"123"}}
	_, err = CashierFormFromValues(withShort).CreateRequest()
	fields, _ = form.AsErrors(err)
	assert.Equal(t, "must be at least 6 characters", fields["password"])

	upd, err := CashierFormFromValues(base).UpdateRequest()
	require.NoError(t, err)
	assert.Nil(t, upd.Password)

	_, err = CashierFormFromValues(withShort).UpdateRequest()
	assert.Error(t, err)

	_, err = CashierFormFromValues(url.Values{"name": {"Rina"}, "email": {"not-an-email"}, "password": {"secret1"}}).CreateRequest()
	fields, _ = form.AsErrors(err)
	assert.True(t, fields.Has("email"))
}

func TestConfirmed(t *testing.T) {
	assert.True(t, Confirmed(url.Values{"confirm": {"yes"}}))
	assert.False(t, Confirmed(url.Values{}))
}
