package ordering

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/telemetry"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/thewinery/selforder/internal/menu"
	"github.com/thewinery/selforder/internal/nav"
)

const MaxBodyBytes = 1 << 20

// Handler is the HTTP surface the tablet front end talks to. It is a thin
// orchestration layer: all rules live in the cart, session, ledger and
// checkout components.
type Handler struct {
	logger    apt.Logger
	config    *apt.Config
	tlm       *telemetry.HTTP
	catalog   *menu.Catalog
	cart      *Cart
	sessions  *SessionManager
	ledger    *Ledger
	checkout  *Checkout
	navigator *nav.Navigator
}

type HandlerDeps struct {
	Catalog   *menu.Catalog
	Cart      *Cart
	Sessions  *SessionManager
	Ledger    *Ledger
	Checkout  *Checkout
	Navigator *nav.Navigator
}

func NewHandler(hd HandlerDeps, config *apt.Config, logger apt.Logger) *Handler {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &Handler{
		logger:    logger,
		config:    config,
		tlm:       telemetry.NewHTTP(),
		catalog:   hd.Catalog,
		cart:      hd.Cart,
		sessions:  hd.Sessions,
		ledger:    hd.Ledger,
		checkout:  hd.Checkout,
		navigator: hd.Navigator,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/menu", func(r chi.Router) {
		r.Get("/categories", h.ListCategories)
		r.Get("/items", h.ListMenuItems)
	})

	r.Route("/cart", func(r chi.Router) {
		r.Get("/", h.ViewCart)
		r.Delete("/", h.ClearCart)
		r.Post("/items", h.AddItem)
		r.Post("/items/customized", h.AddCustomizedItem)
		r.Patch("/items/{id}", h.UpdateQuantity)
		r.Delete("/items/{id}", h.RemoveItem)
	})

	r.Route("/checkout", func(r chi.Router) {
		r.Post("/", h.BeginCheckout)
		r.Post("/confirm", h.ConfirmCheckout)
		r.Delete("/", h.CancelCheckout)
	})

	r.Route("/orders", func(r chi.Router) {
		r.Get("/", h.ListOrders)
		r.Delete("/{id}", h.DeleteOrder)
		r.Post("/{id}/reorder", h.Reorder)
	})

	r.Route("/session", func(r chi.Router) {
		r.Get("/", h.SessionStatus)
		r.Delete("/", h.EndSession)
	})

	r.Route("/navigation", func(r chi.Router) {
		r.Get("/", h.GetNavigation)
		r.Put("/", h.SetNavigation)
		r.Post("/resync", h.ResyncNavigation)
	})
}

// Menu

func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListCategories")
	defer finish()

	apt.RespondSuccess(w, map[string]interface{}{
		"categories":       menu.FoodCategories(),
		"drink_categories": menu.DrinkCategories(),
	})
}

func (h *Handler) ListMenuItems(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListMenuItems")
	defer finish()

	log := h.log(r)

	if err := h.catalog.Err(); err != nil && !h.catalog.Loaded() {
		// Menu source down and no snapshot yet: retryable, cart and
		// orders remain fully usable.
		log.Info("menu catalog unavailable", "error", err)
		apt.RespondError(w, http.StatusServiceUnavailable, "Menu is temporarily unavailable")
		return
	}

	category := r.URL.Query().Get("category")
	vegetarian := r.URL.Query().Get("vegetarian") == "true"

	var items []*menu.MenuItem
	if category == "" {
		items = h.catalog.Items()
	} else {
		items = h.catalog.ItemsByCategory(category, vegetarian)
	}

	tapasFree := h.sessions != nil && h.sessions.Active() && category == menu.CategoryTapas
	apt.RespondSuccess(w, map[string]interface{}{
		"items":              items,
		"tapas_session_free": tapasFree,
	})
}

// Cart

func (h *Handler) ViewCart(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ViewCart")
	defer finish()

	h.respondCart(w)
}

func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.AddItem")
	defer finish()

	log := h.log(r)

	req, ok := decode[AddItemRequest](w, r, log)
	if !ok {
		return
	}

	item, ok := h.resolveItem(w, req.MenuItemID, log)
	if !ok {
		return
	}

	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}

	line, err := h.cart.AddItem(item, quantity)
	if err != nil {
		switch {
		case errors.Is(err, ErrCustomizationRequired):
			// Not an error the guest sees: the front end routes to the
			// customization flow instead.
			apt.RespondError(w, http.StatusConflict, "Item requires customization")
		default:
			log.Debug("cannot add item", "error", err)
			apt.RespondError(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	w.WriteHeader(http.StatusCreated)
	apt.RespondSuccess(w, line)
}

func (h *Handler) AddCustomizedItem(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.AddCustomizedItem")
	defer finish()

	log := h.log(r)

	req, ok := decode[AddCustomizedItemRequest](w, r, log)
	if !ok {
		return
	}

	item, ok := h.resolveItem(w, req.MenuItemID, log)
	if !ok {
		return
	}

	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}

	selections := Selection(req.Selections)
	if selections == nil {
		selections = Selection{}
	}
	if err := selections.Validate(item); err != nil {
		log.Debug("missing required customization", "error", err, "item", item.ShortCode)
		apt.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	totalPrice := selections.Price(item, quantity)
	line, err := h.cart.AddCustomizedItem(r.Context(), item, quantity, selections, totalPrice)
	if err != nil {
		log.Debug("cannot add customized item", "error", err)
		apt.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	w.WriteHeader(http.StatusCreated)
	apt.RespondSuccess(w, line)
}

func (h *Handler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.UpdateQuantity")
	defer finish()

	log := h.log(r)

	id, ok := h.parseIDParam(w, r, log)
	if !ok {
		return
	}

	req, ok := decode[UpdateQuantityRequest](w, r, log)
	if !ok {
		return
	}

	if err := h.cart.UpdateQuantity(id, req.Quantity); err != nil {
		switch {
		case errors.Is(err, ErrLineNotFound):
			apt.RespondError(w, http.StatusNotFound, "Cart line not found")
		default:
			apt.RespondError(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	h.respondCart(w)
}

func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.RemoveItem")
	defer finish()

	log := h.log(r)

	id, ok := h.parseIDParam(w, r, log)
	if !ok {
		return
	}

	if err := h.cart.Remove(id); err != nil {
		apt.RespondError(w, http.StatusNotFound, "Cart line not found")
		return
	}

	h.respondCart(w)
}

func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ClearCart")
	defer finish()

	h.cart.Clear()
	w.WriteHeader(http.StatusNoContent)
}

// Checkout

func (h *Handler) BeginCheckout(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.BeginCheckout")
	defer finish()

	log := h.log(r)

	if err := h.checkout.Begin(); err != nil {
		switch {
		case errors.Is(err, ErrEmptyCart):
			apt.RespondError(w, http.StatusBadRequest, "Cart is empty")
		case errors.Is(err, ErrCheckoutInProgress):
			apt.RespondError(w, http.StatusConflict, "Checkout already in progress")
		default:
			log.Error("cannot begin checkout", "error", err)
			apt.RespondError(w, http.StatusInternalServerError, "Could not begin checkout")
		}
		return
	}

	apt.RespondSuccess(w, map[string]interface{}{
		"state":      h.checkout.State(),
		"totals":     h.cart.Totals(),
		"item_count": h.cart.ItemCount(),
	})
}

func (h *Handler) ConfirmCheckout(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ConfirmCheckout")
	defer finish()

	log := h.log(r)

	req, ok := decode[ConfirmCheckoutRequest](w, r, log)
	if !ok {
		return
	}

	receipt, err := h.checkout.SubmitStaffCode(r.Context(), req.Code)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidStaffCode):
			// The guest retries; checkout stays in the awaiting state.
			apt.RespondError(w, http.StatusUnauthorized, "Invalid waiter code. Please try again.")
		case errors.Is(err, ErrCheckoutNotStarted):
			apt.RespondError(w, http.StatusConflict, "No checkout in progress")
		case errors.Is(err, ErrEmptyCart):
			apt.RespondError(w, http.StatusConflict, "Cart is empty")
		default:
			log.Error("cannot confirm checkout", "error", err)
			apt.RespondError(w, http.StatusInternalServerError, "Could not confirm order")
		}
		return
	}

	apt.RespondSuccess(w, receipt)
}

func (h *Handler) CancelCheckout(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.CancelCheckout")
	defer finish()

	if err := h.checkout.Cancel(); err != nil {
		apt.RespondError(w, http.StatusConflict, "No checkout in progress")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Orders

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListOrders")
	defer finish()

	apt.RespondCollection(w, h.ledger.Orders(), "order")
}

func (h *Handler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.DeleteOrder")
	defer finish()

	log := h.log(r)

	id, ok := h.parseIDParam(w, r, log)
	if !ok {
		return
	}

	if err := h.ledger.Delete(id); err != nil {
		apt.RespondError(w, http.StatusNotFound, "Order not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Reorder(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.Reorder")
	defer finish()

	log := h.log(r)

	id, ok := h.parseIDParam(w, r, log)
	if !ok {
		return
	}

	lines, err := h.ledger.Reorder(id)
	if err != nil {
		log.Debug("cannot reorder", "error", err, "order_id", id.String())
		apt.RespondError(w, http.StatusNotFound, "Order not found")
		return
	}

	h.cart.AddLines(lines)
	if h.navigator != nil {
		h.navigator.SetTab(nav.TabMenu)
	}

	h.respondCart(w)
}

// Tapas session

func (h *Handler) SessionStatus(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.SessionStatus")
	defer finish()

	session := h.sessions.Current()
	if session == nil {
		apt.RespondSuccess(w, map[string]interface{}{"active": false})
		return
	}

	apt.RespondSuccess(w, map[string]interface{}{
		"active":            true,
		"session":           session,
		"remaining_seconds": int(h.sessions.Remaining().Seconds()),
	})
}

func (h *Handler) EndSession(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.EndSession")
	defer finish()

	if err := h.sessions.End(r.Context()); err != nil {
		apt.RespondError(w, http.StatusNotFound, "No active tapas session")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Navigation

func (h *Handler) GetNavigation(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetNavigation")
	defer finish()

	h.respondNavigation(w)
}

func (h *Handler) SetNavigation(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.SetNavigation")
	defer finish()

	log := h.log(r)

	req, ok := decode[SetNavigationRequest](w, r, log)
	if !ok {
		return
	}

	if req.Tab != "" {
		h.navigator.SetTab(nav.Tab(req.Tab))
	}
	if req.Category != "" {
		h.navigator.SetCategory(req.Category)
	}
	if req.DrinkCategory != "" {
		h.navigator.SetDrinkCategory(req.DrinkCategory)
	}

	h.respondNavigation(w)
}

func (h *Handler) ResyncNavigation(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ResyncNavigation")
	defer finish()

	log := h.log(r)

	req, ok := decode[ResyncNavigationRequest](w, r, log)
	if !ok {
		return
	}

	h.navigator.Resync(req.Query)
	h.respondNavigation(w)
}

// Helpers

func (h *Handler) respondCart(w http.ResponseWriter) {
	lines := h.cart.Lines()
	apt.RespondSuccess(w, map[string]interface{}{
		"lines":      lines,
		"totals":     ComputeTotals(lines),
		"item_count": h.cart.ItemCount(),
	})
}

func (h *Handler) respondNavigation(w http.ResponseWriter) {
	state := h.navigator.State()
	apt.RespondSuccess(w, map[string]interface{}{
		"state": state,
		// The canonical query the front end writes with replaceState.
		"query": state.Encode(),
	})
}

// resolveItem accepts either a catalog UUID or a short code.
func (h *Handler) resolveItem(w http.ResponseWriter, ref string, log apt.Logger) (*menu.MenuItem, bool) {
	if ref == "" {
		apt.RespondError(w, http.StatusBadRequest, "menu_item_id is required")
		return nil, false
	}

	if id, err := uuid.Parse(ref); err == nil {
		if item, ok := h.catalog.Item(id); ok {
			return item, true
		}
	} else if item, ok := h.catalog.ItemByCode(ref); ok {
		return item, true
	}

	log.Debug("menu item not found", "ref", ref)
	apt.RespondError(w, http.StatusNotFound, "Menu item not found")
	return nil, false
}

func (h *Handler) parseIDParam(w http.ResponseWriter, r *http.Request, log apt.Logger) (uuid.UUID, bool) {
	idStr := chi.URLParam(r, "id")
	if idStr == "" {
		log.Debug("missing id parameter")
		apt.RespondError(w, http.StatusBadRequest, "Missing id parameter")
		return uuid.Nil, false
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		log.Debug("invalid id parameter", "id", idStr)
		apt.RespondError(w, http.StatusBadRequest, "Invalid id parameter")
		return uuid.Nil, false
	}

	return id, true
}

func decode[T any](w http.ResponseWriter, r *http.Request, log apt.Logger) (T, bool) {
	var req T

	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	defer r.Body.Close()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Debug("failed to read request body", "error", err)
		apt.RespondError(w, http.StatusBadRequest, "Failed to read request body")
		return req, false
	}

	if err := json.Unmarshal(body, &req); err != nil {
		log.Debug("failed to decode request body", "error", err)
		apt.RespondError(w, http.StatusBadRequest, "Invalid JSON in request body")
		return req, false
	}

	return req, true
}

func (h *Handler) log(r *http.Request) apt.Logger {
	return h.logger.With("request_id", r.Context().Value("request_id"))
}
