package ordering

import (
	"testing"

	"github.com/thewinery/selforder/internal/menu"
)

func TestComputeTotals(t *testing.T) {
	tests := []struct {
		name              string
		lineTotals        []float64
		wantSubtotal      float64
		wantServiceCharge float64
		wantGST           float64
		wantTotal         float64
	}{
		{
			name: "empty cart",
		},
		{
			name:              "hundred dollar subtotal",
			lineTotals:        []float64{60.0, 40.0},
			wantSubtotal:      100.0,
			wantServiceCharge: 10.0,
			wantGST:           9.9,
			wantTotal:         119.9,
		},
		{
			name:              "single line",
			lineTotals:        []float64{40.0},
			wantSubtotal:      40.0,
			wantServiceCharge: 4.0,
			wantGST:           3.96,
			wantTotal:         47.96,
		},
		{
			name:              "free tapas lines contribute nothing",
			lineTotals:        []float64{0, 0, 25.0},
			wantSubtotal:      25.0,
			wantServiceCharge: 2.5,
			wantGST:           2.475,
			wantTotal:         29.975,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var lines []*CartLine
			for _, total := range tt.lineTotals {
				line := NewCartLine(testItem("item", total, menu.CategoryTapas), 1)
				line.TotalPrice = total
				lines = append(lines, line)
			}

			got := ComputeTotals(lines)
			if !almostEqual(got.Subtotal, tt.wantSubtotal) {
				t.Errorf("ComputeTotals().Subtotal = %v, want %v", got.Subtotal, tt.wantSubtotal)
			}
			if !almostEqual(got.ServiceCharge, tt.wantServiceCharge) {
				t.Errorf("ComputeTotals().ServiceCharge = %v, want %v", got.ServiceCharge, tt.wantServiceCharge)
			}
			if !almostEqual(got.GST, tt.wantGST) {
				t.Errorf("ComputeTotals().GST = %v, want %v", got.GST, tt.wantGST)
			}
			if !almostEqual(got.Total, tt.wantTotal) {
				t.Errorf("ComputeTotals().Total = %v, want %v", got.Total, tt.wantTotal)
			}
		})
	}
}

func TestComputeTotalsDerivation(t *testing.T) {
	// GST is charged on the service-inclusive amount, not the raw subtotal.
	lines := []*CartLine{NewCartLine(testItem("paella", 100.0, "paellas"), 1)}
	got := ComputeTotals(lines)

	wantGST := (got.Subtotal + got.ServiceCharge) * GSTRate
	if !almostEqual(got.GST, wantGST) {
		t.Errorf("ComputeTotals().GST = %v, want %v", got.GST, wantGST)
	}
	if !almostEqual(got.Total, got.Subtotal+got.ServiceCharge+got.GST) {
		t.Errorf("ComputeTotals().Total = %v, want sum of components", got.Total)
	}
}
