package web

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/mux"

	"kasirinaja/frontend/internal/domain"
	"kasirinaja/frontend/internal/pos"
	"kasirinaja/frontend/internal/report"
	"kasirinaja/frontend/internal/session"
)

const posPath = "/cashier"

type posView struct {
	Shift           *domain.Shift
	CheckoutEnabled bool
	Query           string
	Products        []domain.Product
	Cart            pos.View
	Methods         []domain.PaymentMethod
}

type shiftView struct {
	Shift          *domain.Shift
	Reconciliation *pos.Reconciliation
}

type shiftTransactionsView struct {
	Shift  *domain.Shift
	Rows   []report.TransactionRow
	Totals domain.DailyTotals
}

func (s *Server) workspace(r *http.Request) *pos.Workspace {
	return s.workspaces.Get(session.FromContext(r.Context()).ID)
}

func (s *Server) shifts(r *http.Request) *pos.ShiftManager {
	return pos.NewShiftManager(s.scope(r))
}

// posURL keeps the product search term across cart actions.
func posURL(query string) string {
	if query = strings.TrimSpace(query); query != "" {
		return posPath + "?" + url.Values{"q": {query}}.Encode()
	}
	return posPath
}

func (s *Server) handlePOS(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	shift, err := s.shifts(r).Active(ctx)
	if err != nil {
		s.fail(w, r, err, "Could not load your shift.", "")
		return
	}
	products, err := s.scope(r).Products(ctx)
	if err != nil {
		s.fail(w, r, err, "Could not load products.", "")
		return
	}

	ws := s.workspace(r)
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	view := posView{
		Shift:           shift,
		CheckoutEnabled: pos.CheckoutEnabled(shift),
		Query:           query,
		Products:        pos.FilterProducts(products, query),
		Cart:            ws.View(),
		Methods:         []domain.PaymentMethod{domain.PaymentCash, domain.PaymentDebit},
	}

	var opts []renderOpt
	switch {
	case view.Cart.Outcome == pos.PhaseSuccess && view.Cart.LastSale != nil:
		opts = append(opts, withNotice(flashSuccess, saleNotice(view.Cart.LastSale)))
	case view.Cart.Outcome == pos.PhaseFailed && view.Cart.LastError != nil:
		opts = append(opts, withNotice(flashError, userMessage(view.Cart.LastError, "Checkout failed.")))
	}
	ws.ClearNotice()
	s.render(w, r, http.StatusOK, "pos", "Point of sale", view, opts...)
}

func saleNotice(sale *domain.Transaction) string {
	msg := "Sale completed. Total " + report.FormatRupiah(sale.TotalAmount) + "."
	if sale.ChangeAmount != nil {
		msg += " Change due " + report.FormatRupiah(*sale.ChangeAmount) + "."
	}
	return msg
}

func findProduct(products []domain.Product, id string) (domain.Product, bool) {
	for _, p := range products {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Product{}, false
}

func (s *Server) handleCart(w http.ResponseWriter, r *http.Request) {
	back := posURL(r.PostFormValue("q"))
	productID := strings.TrimSpace(r.PostFormValue("product_id"))
	ws := s.workspace(r)

	var err error
	switch mux.Vars(r)["action"] {
	case "add":
		products, lerr := s.scope(r).Products(r.Context())
		if lerr != nil {
			s.fail(w, r, lerr, "Could not load products.", back)
			return
		}
		product, ok := findProduct(products, productID)
		if !ok {
			s.setFlash(w, flashError, "Product not found.")
			s.redirect(w, r, back)
			return
		}
		if product.Stock <= 0 {
			s.setFlash(w, flashError, fmt.Sprintf("%s is out of stock.", product.Name))
			s.redirect(w, r, back)
			return
		}
		err = ws.Edit(func(c *pos.Cart) { c.Add(product) })
	case "increment":
		err = ws.Edit(func(c *pos.Cart) { c.Increment(productID) })
	case "decrement":
		err = ws.Edit(func(c *pos.Cart) { c.Decrement(productID) })
	case "remove":
		err = ws.Edit(func(c *pos.Cart) { c.Remove(productID) })
	case "clear":
		err = ws.Reset()
	}
	if err != nil {
		s.setFlash(w, flashError, userMessage(err, "The cart could not be changed."))
	}
	s.redirect(w, r, back)
}

func paymentFrom(r *http.Request) pos.Payment {
	return pos.Payment{
		Method:     domain.PaymentMethod(strings.ToUpper(strings.TrimSpace(r.PostFormValue("method")))),
		Tendered:   r.PostFormValue("tendered"),
		CardNumber: r.PostFormValue("card_number"),
	}
}

func (s *Server) handlePayment(w http.ResponseWriter, r *http.Request) {
	if err := s.workspace(r).SetPayment(paymentFrom(r)); err != nil {
		s.setFlash(w, flashError, userMessage(err, "The payment could not be changed."))
	}
	s.redirect(w, r, posURL(r.PostFormValue("q")))
}

// handleCheckoutRequest validates the cart and moves it to the confirmation
// step. Validation failures are kept on the workspace and shown on the page.
func (s *Server) handleCheckoutRequest(w http.ResponseWriter, r *http.Request) {
	back := posURL(r.PostFormValue("q"))
	ws := s.workspace(r)
	if r.PostFormValue("method") != "" {
		if err := ws.SetPayment(paymentFrom(r)); err != nil {
			s.setFlash(w, flashError, userMessage(err, "The payment could not be changed."))
			s.redirect(w, r, back)
			return
		}
	}

	shift, err := s.shifts(r).Active(r.Context())
	if err != nil {
		s.fail(w, r, err, "Could not load your shift.", back)
		return
	}
	// Validation failures stay on the workspace and handlePOS renders them.
	// Only a submission already in flight needs a flash.
	if _, err := ws.RequestCheckout(shift); errors.Is(err, pos.ErrCheckoutPending) {
		s.setFlash(w, flashError, userMessage(err, ""))
	}
	s.redirect(w, r, back)
}

func (s *Server) handleCheckoutCancel(w http.ResponseWriter, r *http.Request) {
	s.workspace(r).Cancel()
	s.redirect(w, r, posURL(r.PostFormValue("q")))
}

func (s *Server) handleCheckoutSubmit(w http.ResponseWriter, r *http.Request) {
	back := posURL(r.PostFormValue("q"))
	shift, err := s.shifts(r).Active(r.Context())
	if err != nil {
		s.fail(w, r, err, "Could not load your shift.", back)
		return
	}

	_, err = s.workspace(r).Submit(r.Context(), shift, s.scope(r))
	switch {
	case err == nil:
	case s.authFailure(w, r, err):
		return
	case errors.Is(err, pos.ErrCheckoutPending), errors.Is(err, pos.ErrNotConfirmed):
		s.setFlash(w, flashError, userMessage(err, ""))
	}
	s.redirect(w, r, back)
}

func (s *Server) handleShiftPage(w http.ResponseWriter, r *http.Request) {
	shift, err := s.shifts(r).Active(r.Context())
	if err != nil {
		s.fail(w, r, err, "Could not load your shift.", "")
		return
	}
	s.render(w, r, http.StatusOK, "shift", "Shift", shiftView{Shift: shift})
}

func (s *Server) handleShiftStart(w http.ResponseWriter, r *http.Request) {
	resp, err := s.shifts(r).Start(r.Context(), r.PostFormValue("start_money"))
	if errors.Is(err, pos.ErrInvalidAmount) {
		s.setFlash(w, flashError, userMessage(err, ""))
		s.redirect(w, r, "/cashier/shift")
		return
	}
	if err != nil {
		s.fail(w, r, err, "Could not start the shift.", "/cashier/shift")
		return
	}
	message := resp.Message
	if message == "" {
		message = "Shift started."
	}
	s.setFlash(w, flashSuccess, message)
	s.redirect(w, r, posPath)
}

func (s *Server) handleShiftEnd(w http.ResponseWriter, r *http.Request) {
	resp, err := s.shifts(r).End(r.Context(), r.PostFormValue("end_money"))
	if errors.Is(err, pos.ErrInvalidAmount) {
		s.setFlash(w, flashError, userMessage(err, ""))
		s.redirect(w, r, "/cashier/shift")
		return
	}
	if err != nil {
		s.fail(w, r, err, "Could not end the shift.", "/cashier/shift")
		return
	}

	rec := pos.Reconcile(resp)
	kind, message := flashSuccess, "Shift closed."
	if rec.Mismatch {
		kind, message = flashError, "Shift closed with a cash mismatch."
	}
	s.render(w, r, http.StatusOK, "shift", "Shift", shiftView{Reconciliation: &rec}, withNotice(kind, message))
}

func (s *Server) handleShiftTransactions(w http.ResponseWriter, r *http.Request) {
	shift, err := s.shifts(r).Active(r.Context())
	if err != nil {
		s.fail(w, r, err, "Could not load your shift.", "")
		return
	}
	view := shiftTransactionsView{Shift: shift}
	if shift != nil {
		txs, err := s.scope(r).Transactions(r.Context(), domain.TransactionFilter{ShiftID: shift.ID})
		if err != nil {
			s.fail(w, r, err, "Could not load transactions.", "")
			return
		}
		view.Rows = report.TransactionRows(txs)
		view.Totals = report.SummarizeTransactions(txs).Totals
	}
	s.render(w, r, http.StatusOK, "shift_transactions", "My transactions", view)
}
