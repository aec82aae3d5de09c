package ordering

// Service charge and GST rates applied to every order. GST is computed on
// the service-charge-inclusive amount, matching the printed bill.
const (
	ServiceChargeRate = 0.10
	GSTRate           = 0.09
)

// Totals is the price breakdown of a cart or a frozen order.
type Totals struct {
	Subtotal      float64 `json:"subtotal"`
	ServiceCharge float64 `json:"service_charge"`
	GST           float64 `json:"gst"`
	Total         float64 `json:"total"`
}

// ComputeTotals derives the breakdown from cart lines. It is the single
// source of truth: the cart view, checkout and order history all call it.
// No rounding happens here, display formatting is a presentation concern.
func ComputeTotals(lines []*CartLine) Totals {
	var subtotal float64
	for _, line := range lines {
		subtotal += line.TotalPrice
	}

	serviceCharge := subtotal * ServiceChargeRate
	gst := (subtotal + serviceCharge) * GSTRate

	return Totals{
		Subtotal:      subtotal,
		ServiceCharge: serviceCharge,
		GST:           gst,
		Total:         subtotal + serviceCharge + gst,
	}
}
