package admin

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"kasirinaja/frontend/internal/domain"
	"kasirinaja/frontend/internal/form"
)

type ProductForm struct {
	Name        string `form:"name" validate:"required,max=120"`
	Price       string `form:"price" validate:"required,money"`
	Stock       string `form:"stock" validate:"required,count"`
	Description string `form:"description" validate:"max=1000"`
}

func ProductFormFromValues(values url.Values) ProductForm {
	return ProductForm{
		Name:        strings.TrimSpace(values.Get("name")),
		Price:       strings.TrimSpace(values.Get("price")),
		Stock:       strings.TrimSpace(values.Get("stock")),
		Description: strings.TrimSpace(values.Get("description")),
	}
}

func ProductFormFrom(p domain.Product) ProductForm {
	return ProductForm{
		Name:        p.Name,
		Price:       p.Price.String(),
		Stock:       strconv.Itoa(p.Stock),
		Description: p.DescriptionText(),
	}
}

func (f ProductForm) CreateRequest() (domain.ProductCreateRequest, error) {
	if err := form.Validate(f); err != nil {
		return domain.ProductCreateRequest{}, err
	}
	price, stock, err := f.parsed()
	if err != nil {
		return domain.ProductCreateRequest{}, err
	}
	return domain.ProductCreateRequest{
		Name:        f.Name,
		Price:       price,
		Stock:       stock,
		Description: f.Description,
	}, nil
}

func (f ProductForm) UpdateRequest() (domain.ProductUpdateRequest, error) {
	if err := form.Validate(f); err != nil {
		return domain.ProductUpdateRequest{}, err
	}
	price, stock, err := f.parsed()
	if err != nil {
		return domain.ProductUpdateRequest{}, err
	}
	name, description := f.Name, f.Description
	return domain.ProductUpdateRequest{
		Name:        &name,
		Price:       &price,
		Stock:       &stock,
		Description: &description,
	}, nil
}

func (f ProductForm) parsed() (decimal.Decimal, int, error) {
	price, err := decimal.NewFromString(f.Price)
	if err != nil {
		return decimal.Zero, 0, form.Errors{"price": "must be an amount of zero or more"}
	}
	stock, err := strconv.Atoi(f.Stock)
	if err != nil || stock < 0 {
		return decimal.Zero, 0, form.Errors{"stock": "must be a whole number of zero or more"}
	}
	return price, stock, nil
}

type CashierForm struct {
	Name     string `form:"name" validate:"required,max=100"`
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password"`
}

type cashierCreate struct {
	CashierForm
	Password string `form:"password" validate:"required,min=6"`
}

type cashierUpdate struct {
	CashierForm
	Password string `form:"password" validate:"omitempty,min=6"`
}

func CashierFormFromValues(values url.Values) CashierForm {
	return CashierForm{
		Name:     strings.TrimSpace(values.Get("name")),
		Email:    strings.TrimSpace(values.Get("email")),
		Password: values.Get("password"),
	}
}

func CashierFormFrom(c domain.Cashier) CashierForm {
	return CashierForm{Name: c.Name, Email: c.Email}
}

func (f CashierForm) CreateRequest() (domain.CashierCreateRequest, error) {
	if err := form.Validate(cashierCreate{CashierForm: f, Password: f.Password}); err != nil {
		return domain.CashierCreateRequest{}, err
	}
	return domain.CashierCreateRequest{Name: f.Name, Email: f.Email, Password: f.Password}, nil
}

// UpdateRequest leaves the password untouched when the field is blank.
func (f CashierForm) UpdateRequest() (domain.CashierUpdateRequest, error) {
	if err := form.Validate(cashierUpdate{CashierForm: f, Password: f.Password}); err != nil {
		return domain.CashierUpdateRequest{}, err
	}
	name, email := f.Name, f.Email
	req := domain.CashierUpdateRequest{Name: &name, Email: &email}
	if f.Password != "" {
		password := f.Password
		req.Password = &password
	}
	return req, nil
}

// DeleteConfirmation backs the page shown before a delete is sent.
type DeleteConfirmation struct {
	Kind      string
	ID        string
	Label     string
	Action    string
	CancelURL string
}

// Confirmed reports whether the posted form carries the explicit confirmation.
func Confirmed(values url.Values) bool {
	return values.Get("confirm") == "yes"
}
