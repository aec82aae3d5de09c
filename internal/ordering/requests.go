package ordering

// AddItemRequest adds an uncustomized item to the cart. MenuItemID accepts
// a catalog UUID or a short code.
type AddItemRequest struct {
	MenuItemID string `json:"menu_item_id"`
	Quantity   int    `json:"quantity,omitempty"`
}

// AddCustomizedItemRequest adds an item together with the guest's
// customization choices, keyed by customization group ID.
type AddCustomizedItemRequest struct {
	MenuItemID string              `json:"menu_item_id"`
	Quantity   int                 `json:"quantity,omitempty"`
	Selections map[string][]string `json:"selections,omitempty"`
}

type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type ConfirmCheckoutRequest struct {
	Code string `json:"code"`
}

type SetNavigationRequest struct {
	Tab           string `json:"tab,omitempty"`
	Category      string `json:"category,omitempty"`
	DrinkCategory string `json:"drink_category,omitempty"`
}

type ResyncNavigationRequest struct {
	Query string `json:"query"`
}
