package domain

import (
	"errors"
	"testing"
)

func TestAvailableQuantity(t *testing.T) {
	tests := []struct {
		name     string
		quantity int
		reserved int
		defects  []Defect
		want     int
	}{
		{"no deductions", 10, 0, nil, 10},
		{"reserved only", 10, 3, nil, 7},
		{"defects only", 10, 0, []Defect{{Quantity: 2}}, 8},
		{"reserved and defects", 10, 2, []Defect{{Quantity: 1}}, 7},
		{"multiple defects", 10, 2, []Defect{{Quantity: 1}, {Quantity: 3}}, 4},
		{"fully consumed", 5, 3, []Defect{{Quantity: 2}}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Stock{
				Quantity:         tt.quantity,
				ReservedQuantity: tt.reserved,
				Defects:          tt.defects,
			}
			if got := s.AvailableQuantity(); got != tt.want {
				t.Errorf("AvailableQuantity() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDefectQuantity(t *testing.T) {
	s := &Stock{Defects: []Defect{{Quantity: 2}, {Quantity: 5}}}
	if got := s.DefectQuantity(); got != 7 {
		t.Errorf("DefectQuantity() = %d, want 7", got)
	}
}

func TestInsufficientStockErrorShortfall(t *testing.T) {
	err := &InsufficientStockError{VariantID: 1, LocationID: 2, Requested: 3, Available: 2}
	if got := err.Shortfall(); got != 1 {
		t.Errorf("Shortfall() = %d, want 1", got)
	}

	var target *InsufficientStockError
	if !errors.As(error(err), &target) {
		t.Error("errors.As should match *InsufficientStockError")
	}
}
