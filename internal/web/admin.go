package web

import (
	"net/http"
	"net/url"

	"github.com/gorilla/mux"

	"kasirinaja/frontend/internal/admin"
	"kasirinaja/frontend/internal/domain"
	"kasirinaja/frontend/internal/report"
)

const (
	productsPath = "/admin/products"
	cashiersPath = "/admin/cashiers"
)

type listView[T any] struct {
	State   admin.ListState
	Page    admin.Page[T]
	PrevURL string
	NextURL string
}

// listState reads the table state from the query. When the search box was
// submitted along with the term it was showing, the page survives only if the
// term did not change.
func listState(values url.Values) admin.ListState {
	state := admin.ParseListState(values)
	if values.Has("shown") {
		shown := admin.ListState{Query: values.Get("shown"), Page: state.Page}
		state = shown.WithQuery(values.Get("q"))
	}
	return state
}

func newListView[T any](base string, state admin.ListState, items []T) listView[T] {
	page := admin.Paginate(items, state.Page, admin.PageSize)
	state = state.WithPage(page.Page)
	view := listView[T]{State: state, Page: page}
	link := func(p int) string {
		if q := state.WithPage(p).Encode(); q != "" {
			return base + "?" + q
		}
		return base
	}
	if page.HasPrev {
		view.PrevURL = link(page.Page - 1)
	}
	if page.HasNext {
		view.NextURL = link(page.Page + 1)
	}
	return view
}

type productFormView struct {
	ID    string
	Form  admin.ProductForm
	Stock int
}

type cashierFormView struct {
	ID   string
	Form admin.CashierForm
}

type dashboardView struct {
	Date   string
	Totals domain.DailyTotals
	Error  string
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	today := s.now().Format(report.DateLayout)
	view := dashboardView{Date: today}
	rep, err := s.scope(r).DailyReport(r.Context(), today)
	if err != nil {
		if s.authFailure(w, r, err) {
			return
		}
		view.Error = userMessage(err, "Today's figures are unavailable.")
	} else {
		view.Totals = rep.Totals
	}
	s.render(w, r, http.StatusOK, "dashboard", "Dashboard", view)
}

func (s *Server) handleProducts(w http.ResponseWriter, r *http.Request) {
	products, err := s.scope(r).Products(r.Context())
	if err != nil {
		s.fail(w, r, err, "Could not load products.", "")
		return
	}
	state := listState(r.URL.Query())
	view := newListView(productsPath, state, admin.FilterProducts(products, state.Query))
	s.render(w, r, http.StatusOK, "products", "Products", view)
}

func (s *Server) handleProductNew(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "product_form", "New product", productFormView{})
}

func (s *Server) handleProductCreate(w http.ResponseWriter, r *http.Request) {
	f := admin.ProductFormFromValues(r.PostForm)
	req, err := f.CreateRequest()
	if err != nil {
		s.render(w, r, http.StatusUnprocessableEntity, "product_form", "New product", productFormView{Form: f}, withErrors(formErrors(err)))
		return
	}
	if _, err := s.scope(r).CreateProduct(r.Context(), req); err != nil {
		if s.authFailure(w, r, err) {
			return
		}
		s.render(w, r, http.StatusBadRequest, "product_form", "New product", productFormView{Form: f},
			withNotice(flashError, userMessage(err, "Could not create the product.")))
		return
	}
	s.setFlash(w, flashSuccess, "Product created.")
	s.redirect(w, r, productsPath)
}

func (s *Server) handleProductEdit(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	product, err := s.scope(r).Product(r.Context(), id)
	if err != nil {
		s.fail(w, r, err, "Product not found.", productsPath)
		return
	}
	s.render(w, r, http.StatusOK, "product_form", "Edit product", productFormView{ID: id, Form: admin.ProductFormFrom(product), Stock: product.Stock})
}

func (s *Server) handleProductUpdate(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	f := admin.ProductFormFromValues(r.PostForm)
	view := productFormView{ID: id, Form: f}
	req, err := f.UpdateRequest()
	if err != nil {
		s.render(w, r, http.StatusUnprocessableEntity, "product_form", "Edit product", view, withErrors(formErrors(err)))
		return
	}
	if _, err := s.scope(r).UpdateProduct(r.Context(), id, req); err != nil {
		if s.authFailure(w, r, err) {
			return
		}
		s.render(w, r, http.StatusBadRequest, "product_form", "Edit product", view,
			withNotice(flashError, userMessage(err, "Could not update the product.")))
		return
	}
	s.setFlash(w, flashSuccess, "Product updated.")
	s.redirect(w, r, productsPath)
}

func (s *Server) handleProductStock(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	back := productsPath + "/" + url.PathEscape(id) + "/edit"

	quantity, err := admin.ParseStockAdjustment(r.PostFormValue("quantity"), admin.StockDirection(r.PostFormValue("direction")))
	if err != nil {
		s.setFlash(w, flashError, userMessage(err, ""))
		s.redirect(w, r, back)
		return
	}
	if err := s.scope(r).AdjustStock(r.Context(), id, quantity); err != nil {
		s.fail(w, r, err, "Could not adjust the stock.", back)
		return
	}
	s.setFlash(w, flashSuccess, "Stock updated.")
	s.redirect(w, r, back)
}

func productDeletion(p domain.Product) admin.DeleteConfirmation {
	return admin.DeleteConfirmation{
		Kind:      "product",
		ID:        p.ID,
		Label:     p.Name,
		Action:    productsPath + "/" + url.PathEscape(p.ID) + "/delete",
		CancelURL: productsPath,
	}
}

func (s *Server) handleProductDeletePage(w http.ResponseWriter, r *http.Request) {
	product, err := s.scope(r).Product(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.fail(w, r, err, "Product not found.", productsPath)
		return
	}
	s.render(w, r, http.StatusOK, "confirm_delete", "Delete product", productDeletion(product))
}

// handleProductDelete only calls the API once the confirmation page was
// submitted.
func (s *Server) handleProductDelete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if !admin.Confirmed(r.PostForm) {
		s.redirect(w, r, productsPath+"/"+url.PathEscape(id)+"/delete")
		return
	}
	if err := s.scope(r).DeleteProduct(r.Context(), id); err != nil {
		s.fail(w, r, err, "Could not delete the product.", productsPath)
		return
	}
	s.setFlash(w, flashSuccess, "Product deleted.")
	s.redirect(w, r, productsPath)
}

func (s *Server) handleCashiers(w http.ResponseWriter, r *http.Request) {
	cashiers, err := s.scope(r).Cashiers(r.Context(), "")
	if err != nil {
		s.fail(w, r, err, "Could not load cashiers.", "")
		return
	}
	state := listState(r.URL.Query())
	view := newListView(cashiersPath, state, admin.FilterCashiers(cashiers, state.Query))
	s.render(w, r, http.StatusOK, "cashiers", "Cashiers", view)
}

func (s *Server) handleCashierNew(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "cashier_form", "New cashier", cashierFormView{})
}

func (s *Server) handleCashierCreate(w http.ResponseWriter, r *http.Request) {
	f := admin.CashierFormFromValues(r.PostForm)
	view := cashierFormView{Form: admin.CashierForm{Name: f.Name, Email: f.Email}}
	req, err := f.CreateRequest()
	if err != nil {
		s.render(w, r, http.StatusUnprocessableEntity, "cashier_form", "New cashier", view, withErrors(formErrors(err)))
		return
	}
	if _, err := s.scope(r).CreateCashier(r.Context(), req); err != nil {
		if s.authFailure(w, r, err) {
			return
		}
		s.render(w, r, http.StatusBadRequest, "cashier_form", "New cashier", view,
			withNotice(flashError, userMessage(err, "Could not create the cashier.")))
		return
	}
	s.setFlash(w, flashSuccess, "Cashier created.")
	s.redirect(w, r, cashiersPath)
}

func (s *Server) handleCashierEdit(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	cashier, err := s.scope(r).Cashier(r.Context(), id)
	if err != nil {
		s.fail(w, r, err, "Cashier not found.", cashiersPath)
		return
	}
	s.render(w, r, http.StatusOK, "cashier_form", "Edit cashier", cashierFormView{ID: id, Form: admin.CashierFormFrom(cashier)})
}

func (s *Server) handleCashierUpdate(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	f := admin.CashierFormFromValues(r.PostForm)
	view := cashierFormView{ID: id, Form: admin.CashierForm{Name: f.Name, Email: f.Email}}
	req, err := f.UpdateRequest()
	if err != nil {
		s.render(w, r, http.StatusUnprocessableEntity, "cashier_form", "Edit cashier", view, withErrors(formErrors(err)))
		return
	}
	if _, err := s.scope(r).UpdateCashier(r.Context(), id, req); err != nil {
		if s.authFailure(w, r, err) {
			return
		}
		s.render(w, r, http.StatusBadRequest, "cashier_form", "Edit cashier", view,
			withNotice(flashError, userMessage(err, "Could not update the cashier.")))
		return
	}
	s.setFlash(w, flashSuccess, "Cashier updated.")
	s.redirect(w, r, cashiersPath)
}

func (s *Server) handleCashierDeletePage(w http.ResponseWriter, r *http.Request) {
	cashier, err := s.scope(r).Cashier(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.fail(w, r, err, "Cashier not found.", cashiersPath)
		return
	}
	s.render(w, r, http.StatusOK, "confirm_delete", "Delete cashier", admin.DeleteConfirmation{
		Kind:      "cashier",
		ID:        cashier.ID,
		Label:     cashier.Name + " <" + cashier.Email + ">",
		Action:    cashiersPath + "/" + url.PathEscape(cashier.ID) + "/delete",
		CancelURL: cashiersPath,
	})
}

func (s *Server) handleCashierDelete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if !admin.Confirmed(r.PostForm) {
		s.redirect(w, r, cashiersPath+"/"+url.PathEscape(id)+"/delete")
		return
	}
	if err := s.scope(r).DeleteCashier(r.Context(), id); err != nil {
		s.fail(w, r, err, "Could not delete the cashier.", cashiersPath)
		return
	}
	s.setFlash(w, flashSuccess, "Cashier deleted.")
	s.redirect(w, r, cashiersPath)
}
