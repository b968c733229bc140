package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// The remote API exchanges amounts as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleCashier Role = "CASHIER"
)

type PaymentMethod string

const (
	PaymentCash  PaymentMethod = "CASH"
	PaymentDebit PaymentMethod = "DEBIT"
)

func (m PaymentMethod) Valid() bool {
	return m == PaymentCash || m == PaymentDebit
}

type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is the user record with the bearer credential issued for it.
type LoginResponse struct {
	User
	AccessToken string `json:"accessToken"`
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	Password string `json:"password"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Description *string         `json:"description,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

func (p Product) DescriptionText() string {
	if p.Description == nil {
		return ""
	}
	return *p.Description
}

type ProductCreateRequest struct {
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Description string          `json:"description,omitempty"`
}

type ProductUpdateRequest struct {
	Name        *string          `json:"name,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Stock       *int             `json:"stock,omitempty"`
	Description *string          `json:"description,omitempty"`
}

// StockAdjustRequest carries a signed relative change, not an absolute stock.
type StockAdjustRequest struct {
	Quantity int `json:"quantity"`
}

type Cashier struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type CashierCreateRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type CashierUpdateRequest struct {
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Password *string `json:"password,omitempty"`
}

type Shift struct {
	ID         string           `json:"id"`
	CashierID  string           `json:"cashierId"`
	StartMoney decimal.Decimal  `json:"startMoney"`
	EndMoney   *decimal.Decimal `json:"endMoney,omitempty"`
	StartTime  time.Time        `json:"startTime"`
	EndTime    *time.Time       `json:"endTime,omitempty"`
	CreatedAt  time.Time        `json:"createdAt"`
	UpdatedAt  time.Time        `json:"updatedAt"`
}

func (s *Shift) IsOpen() bool {
	return s != nil && s.EndTime == nil
}

type ShiftStartRequest struct {
	StartMoney decimal.Decimal `json:"startMoney"`
}

type ShiftEndRequest struct {
	EndMoney decimal.Decimal `json:"endMoney"`
}

// ShiftResponse wraps a shift mutation result. ExpectedCash and Mismatch are
// only present when the remote side reconciled a closed shift.
type ShiftResponse struct {
	Message      string           `json:"message"`
	Shift        Shift            `json:"shift"`
	ExpectedCash *decimal.Decimal `json:"expectedCash,omitempty"`
	Mismatch     *bool            `json:"mismatch,omitempty"`
}

type ActiveShiftResponse struct {
	Shift *Shift `json:"shift"`
}

type Person struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type ProductRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type TransactionItem struct {
	ID            string          `json:"id"`
	TransactionID string          `json:"transactionId"`
	ProductID     string          `json:"productId"`
	Quantity      int             `json:"quantity"`
	Price         decimal.Decimal `json:"price"`
	Product       *ProductRef     `json:"product,omitempty"`
}

func (i TransactionItem) Name() string {
	if i.Product != nil && i.Product.Name != "" {
		return i.Product.Name
	}
	return i.ProductID
}

func (i TransactionItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type TransactionShift struct {
	ID      string  `json:"id"`
	Cashier *Person `json:"cashier,omitempty"`
}

type Transaction struct {
	ID              string            `json:"id"`
	ShiftID         string            `json:"shiftId"`
	PaymentMethod   PaymentMethod     `json:"paymentMethod"`
	CashAmount      *decimal.Decimal  `json:"cashAmount,omitempty"`
	ChangeAmount    *decimal.Decimal  `json:"changeAmount,omitempty"`
	DebitCardNumber *string           `json:"debitCardNumber,omitempty"`
	TotalAmount     decimal.Decimal   `json:"totalAmount"`
	CreatedAt       time.Time         `json:"createdAt"`
	Items           []TransactionItem `json:"transactionItems"`
	Shift           *TransactionShift `json:"shift,omitempty"`
}

func (t Transaction) CashierName() string {
	if t.Shift == nil || t.Shift.Cashier == nil {
		return ""
	}
	return t.Shift.Cashier.Name
}

type TransactionFilter struct {
	ShiftID string
	From    string
	To      string
}

type CheckoutItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type CheckoutRequest struct {
	ShiftID         string           `json:"shiftId"`
	PaymentMethod   PaymentMethod    `json:"paymentMethod"`
	CashAmount      *decimal.Decimal `json:"cashAmount,omitempty"`
	DebitCardNumber string           `json:"debitCardNumber,omitempty"`
	Items           []CheckoutItem   `json:"items"`
}

type CheckoutResponse struct {
	Message     string      `json:"message"`
	Transaction Transaction `json:"transaction"`
}

type Blog struct {
	ID          string    `json:"id"`
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Content     string    `json:"content"`
	Thumbnail   string    `json:"thumbnail"`
	UserID      string    `json:"userId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type BlogQuery struct {
	Page   int
	Take   int
	Search string
}

type PageMeta struct {
	Page  int `json:"page"`
	Take  int `json:"take"`
	Total int `json:"total"`
}

type BlogPage struct {
	Data []Blog   `json:"data"`
	Meta PageMeta `json:"meta"`
}

// BlogCreateRequest is sent as multipart form data.
type BlogCreateRequest struct {
	Title         string
	Category      string
	Description   string
	Content       string
	ThumbnailName string
	Thumbnail     []byte
}

type SessionRecord struct {
	ID          string
	SealedToken string
	UserID      string
	Name        string
	Email       string
	Role        Role
	CreatedAt   time.Time
	ExpiresAt   time.Time
}
