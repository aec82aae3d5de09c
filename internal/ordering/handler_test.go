package ordering

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/appetiteclub/apt"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/thewinery/selforder/internal/menu"
	"github.com/thewinery/selforder/internal/nav"
)

type fakeMenuRepo struct {
	items []*menu.MenuItem
	err   error
}

func (f *fakeMenuRepo) ListAvailable(ctx context.Context) ([]*menu.MenuItem, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.items, nil
}

type testServer struct {
	router   chi.Router
	handler  *Handler
	cart     *Cart
	sessions *SessionManager
	ledger   *Ledger
	checkout *Checkout
	items    map[string]*menu.MenuItem
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	items := map[string]*menu.MenuItem{
		"croquetas": testItem("Croquetas", 10.0, menu.CategoryTapas),
		"ribeye":    testCustomizableItem(),
		"package":   testTapasPackage(),
		"sangria":   testItem("Sangria", 14.0, menu.CategoryDrinks),
	}
	var all []*menu.MenuItem
	for _, item := range items {
		all = append(all, item)
	}

	catalog := menu.NewCatalog(&fakeMenuRepo{items: all}, nil)
	if err := catalog.Warm(context.Background()); err != nil {
		t.Fatalf("Warm() error = %v", err)
	}

	store := NewMockStore()
	sessions := NewSessionManager(store, nil, DefaultSessionMinutes, nil)
	t.Cleanup(func() { _ = sessions.Stop(context.Background()) })
	cart := NewCart(store, sessions, nil)
	ledger := NewLedger(store, DefaultEstimatedMinutes, nil)
	checkout := NewCheckout(cart, ledger, "", nil, nil)
	navigator := nav.NewNavigator("", nil, nil)

	h := NewHandler(HandlerDeps{
		Catalog:   catalog,
		Cart:      cart,
		Sessions:  sessions,
		Ledger:    ledger,
		Checkout:  checkout,
		Navigator: navigator,
	}, apt.NewConfig(), nil)

	r := chi.NewRouter()
	h.RegisterRoutes(r)

	return &testServer{
		router:   r,
		handler:  h,
		cart:     cart,
		sessions: sessions,
		ledger:   ledger,
		checkout: checkout,
		items:    items,
	}
}

func (ts *testServer) do(t *testing.T, method, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var body *bytes.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("cannot marshal payload: %v", err)
		}
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, body)
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func TestHandlerListMenuItems(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodGet, "/menu/items?category=tapas", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %v, want %v", w.Code, http.StatusOK)
	}

	w = ts.do(t, http.MethodGet, "/menu/items", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %v, want %v", w.Code, http.StatusOK)
	}
}

func TestHandlerListMenuItemsUnavailable(t *testing.T) {
	catalog := menu.NewCatalog(&fakeMenuRepo{err: errors.New("mongo down")}, nil)
	_ = catalog.Warm(context.Background())

	ts := newTestServer(t)
	ts.handler.catalog = catalog

	w := ts.do(t, http.MethodGet, "/menu/items", nil)
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %v, want %v", w.Code, http.StatusServiceUnavailable)
	}
}

func TestHandlerAddItem(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodPost, "/cart/items", AddItemRequest{
		MenuItemID: ts.items["croquetas"].ID.String(),
		Quantity:   2,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %v, want %v, body %s", w.Code, http.StatusCreated, w.Body.String())
	}
	if got := ts.cart.ItemCount(); got != 2 {
		t.Errorf("ItemCount() = %v, want 2", got)
	}
}

func TestHandlerAddItemByShortCode(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodPost, "/cart/items", AddItemRequest{MenuItemID: "Sangria"})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %v, want %v, body %s", w.Code, http.StatusCreated, w.Body.String())
	}
	if got := ts.cart.ItemCount(); got != 1 {
		t.Errorf("ItemCount() = %v, want 1", got)
	}
}

func TestHandlerAddItemErrors(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name       string
		payload    AddItemRequest
		wantStatus int
	}{
		{"unknown item", AddItemRequest{MenuItemID: uuid.New().String()}, http.StatusNotFound},
		{"missing reference", AddItemRequest{}, http.StatusBadRequest},
		{"customization required", AddItemRequest{MenuItemID: ts.items["ribeye"].ID.String()}, http.StatusConflict},
		{"invalid quantity", AddItemRequest{MenuItemID: ts.items["croquetas"].ID.String(), Quantity: -1}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := ts.do(t, http.MethodPost, "/cart/items", tt.payload)
			if w.Code != tt.wantStatus {
				t.Errorf("status = %v, want %v, body %s", w.Code, tt.wantStatus, w.Body.String())
			}
		})
	}
}

func TestHandlerAddCustomizedItem(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodPost, "/cart/items/customized", AddCustomizedItemRequest{
		MenuItemID: ts.items["ribeye"].ID.String(),
		Quantity:   1,
		Selections: map[string][]string{"doneness": {"medium"}, "sides": {"fries"}},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %v, want %v, body %s", w.Code, http.StatusCreated, w.Body.String())
	}

	lines := ts.cart.Lines()
	if len(lines) != 1 || !almostEqual(lines[0].TotalPrice, 36.0) {
		t.Errorf("lines = %v, want one line at 36.0", lines)
	}

	// Missing required group is rejected.
	w = ts.do(t, http.MethodPost, "/cart/items/customized", AddCustomizedItemRequest{
		MenuItemID: ts.items["ribeye"].ID.String(),
		Quantity:   1,
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %v, want %v", w.Code, http.StatusBadRequest)
	}
}

func TestHandlerTapasPackageStartsSession(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodPost, "/cart/items/customized", AddCustomizedItemRequest{
		MenuItemID: menu.TapasPackageCode,
		Quantity:   4,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %v, want %v, body %s", w.Code, http.StatusCreated, w.Body.String())
	}
	if !ts.sessions.Active() {
		t.Error("confirming the package did not start a session")
	}

	w = ts.do(t, http.MethodGet, "/session", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %v, want %v", w.Code, http.StatusOK)
	}
}

func TestHandlerUpdateQuantity(t *testing.T) {
	ts := newTestServer(t)
	line, _ := ts.cart.AddItem(ts.items["croquetas"], 3)

	w := ts.do(t, http.MethodPatch, "/cart/items/"+line.ID.String(), UpdateQuantityRequest{Quantity: 5})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %v, want %v, body %s", w.Code, http.StatusOK, w.Body.String())
	}
	if got := ts.cart.ItemCount(); got != 5 {
		t.Errorf("ItemCount() = %v, want 5", got)
	}

	w = ts.do(t, http.MethodPatch, "/cart/items/"+uuid.New().String(), UpdateQuantityRequest{Quantity: 1})
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %v, want %v", w.Code, http.StatusNotFound)
	}

	w = ts.do(t, http.MethodPatch, "/cart/items/not-a-uuid", UpdateQuantityRequest{Quantity: 1})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %v, want %v", w.Code, http.StatusBadRequest)
	}
}

func TestHandlerRemoveAndClear(t *testing.T) {
	ts := newTestServer(t)
	line, _ := ts.cart.AddItem(ts.items["croquetas"], 1)
	ts.cart.AddItem(ts.items["sangria"], 1)

	w := ts.do(t, http.MethodDelete, "/cart/items/"+line.ID.String(), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %v, want %v", w.Code, http.StatusOK)
	}

	w = ts.do(t, http.MethodDelete, "/cart", nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %v, want %v", w.Code, http.StatusNoContent)
	}
	if !ts.cart.Empty() {
		t.Error("cart not empty after clear")
	}
}

func TestHandlerCheckoutFlow(t *testing.T) {
	ts := newTestServer(t)

	// Empty cart cannot begin.
	w := ts.do(t, http.MethodPost, "/checkout", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %v, want %v", w.Code, http.StatusBadRequest)
	}

	ts.cart.AddItem(ts.items["croquetas"], 2)
	w = ts.do(t, http.MethodPost, "/checkout", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %v, want %v, body %s", w.Code, http.StatusOK, w.Body.String())
	}

	// Wrong code: unauthorized, checkout still in progress.
	w = ts.do(t, http.MethodPost, "/checkout/confirm", ConfirmCheckoutRequest{Code: "nope"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %v, want %v", w.Code, http.StatusUnauthorized)
	}
	if got := ts.checkout.State(); got != CheckoutAwaitingCode {
		t.Errorf("State() = %v, want %v", got, CheckoutAwaitingCode)
	}

	w = ts.do(t, http.MethodPost, "/checkout/confirm", ConfirmCheckoutRequest{Code: "waiter123"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %v, want %v, body %s", w.Code, http.StatusOK, w.Body.String())
	}
	if !ts.cart.Empty() {
		t.Error("cart not cleared after confirmation")
	}
	if got := len(ts.ledger.Orders()); got != 1 {
		t.Errorf("len(Orders()) = %v, want 1", got)
	}

	// Confirm without a checkout in progress.
	w = ts.do(t, http.MethodPost, "/checkout/confirm", ConfirmCheckoutRequest{Code: "waiter123"})
	if w.Code != http.StatusConflict {
		t.Errorf("status = %v, want %v", w.Code, http.StatusConflict)
	}
}

func TestHandlerCancelCheckout(t *testing.T) {
	ts := newTestServer(t)
	ts.cart.AddItem(ts.items["croquetas"], 1)
	ts.do(t, http.MethodPost, "/checkout", nil)

	w := ts.do(t, http.MethodDelete, "/checkout", nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %v, want %v", w.Code, http.StatusNoContent)
	}
	if ts.cart.Empty() {
		t.Error("cancel cleared the cart")
	}
}

func TestHandlerOrders(t *testing.T) {
	ts := newTestServer(t)
	lines := []*CartLine{NewCartLine(ts.items["croquetas"], 2)}
	order := ts.ledger.Record(lines, ComputeTotals(lines))

	w := ts.do(t, http.MethodGet, "/orders", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %v, want %v", w.Code, http.StatusOK)
	}

	// Reorder puts fresh lines into the cart.
	w = ts.do(t, http.MethodPost, fmt.Sprintf("/orders/%s/reorder", order.ID), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %v, want %v, body %s", w.Code, http.StatusOK, w.Body.String())
	}
	if got := ts.cart.ItemCount(); got != 2 {
		t.Errorf("ItemCount() after reorder = %v, want 2", got)
	}
	if got := ts.handler.navigator.State().Tab; got != nav.TabMenu {
		t.Errorf("tab after reorder = %v, want %v", got, nav.TabMenu)
	}

	w = ts.do(t, http.MethodDelete, "/orders/"+order.ID.String(), nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %v, want %v", w.Code, http.StatusNoContent)
	}
	w = ts.do(t, http.MethodDelete, "/orders/"+order.ID.String(), nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %v, want %v", w.Code, http.StatusNotFound)
	}
}

func TestHandlerSession(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodGet, "/session", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %v, want %v", w.Code, http.StatusOK)
	}
	var resp struct {
		Data struct {
			Active bool `json:"active"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("cannot decode response: %v", err)
	}
	if resp.Data.Active {
		t.Error("session reported active before start")
	}

	w = ts.do(t, http.MethodDelete, "/session", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %v, want %v", w.Code, http.StatusNotFound)
	}

	ts.sessions.Start(context.Background(), 2)
	w = ts.do(t, http.MethodDelete, "/session", nil)
	if w.Code != http.StatusNoContent {
		t.Errorf("status = %v, want %v", w.Code, http.StatusNoContent)
	}
}

func TestHandlerNavigation(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodPut, "/navigation", SetNavigationRequest{Tab: "orders"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %v, want %v, body %s", w.Code, http.StatusOK, w.Body.String())
	}

	var resp struct {
		Data struct {
			Query string `json:"query"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("cannot decode response: %v", err)
	}
	if resp.Data.Query != "tab=orders" {
		t.Errorf("query = %q, want %q", resp.Data.Query, "tab=orders")
	}

	w = ts.do(t, http.MethodPost, "/navigation/resync", ResyncNavigationRequest{Query: "tab=menu&category=drinks"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %v, want %v", w.Code, http.StatusOK)
	}
	if got := ts.handler.navigator.State().Category; got != menu.CategoryDrinks {
		t.Errorf("category after resync = %v, want %v", got, menu.CategoryDrinks)
	}
}
