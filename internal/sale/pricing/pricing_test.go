package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestUnitPrice(t *testing.T) {
	tests := []struct {
		name    string
		price   string
		percent string
		amount  string
		want    string
	}{
		{"no discount", "100", "0", "0", "100"},
		{"percent only", "100", "10", "0", "90"},
		{"amount only", "100", "0", "15", "85"},
		{"percent then amount", "100", "10", "5", "85"},
		{"floors at zero", "10", "50", "20", "0"},
		{"fractional price", "19.99", "10", "0", "17.991"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := UnitPrice(dec(tt.price), dec(tt.percent), dec(tt.amount))
			if !got.Equal(dec(tt.want)) {
				t.Errorf("UnitPrice(%s, %s, %s) = %s, want %s", tt.price, tt.percent, tt.amount, got, tt.want)
			}
		})
	}
}

func TestLineTotal(t *testing.T) {
	// variant discount 10% on a 100 price -> unit 90; two units -> 180;
	// line discount 10% -> 162
	unit := UnitPrice(dec("100"), dec("10"), dec("0"))
	got := LineTotal(unit, 2, dec("10"), dec("0"))
	if !got.Equal(dec("162")) {
		t.Errorf("LineTotal = %s, want 162", got)
	}
	// same line at three units scales linearly
	got = LineTotal(unit, 3, dec("10"), dec("0"))
	if !got.Equal(dec("243")) {
		t.Errorf("LineTotal = %s, want 243", got)
	}
}

func TestLineTotalFixedDiscountPerUnit(t *testing.T) {
	// the fixed discount comes off every unit: (100 - 10) * 2 = 180
	got := LineTotal(dec("100"), 2, dec("0"), dec("10"))
	if !got.Equal(dec("180")) {
		t.Errorf("LineTotal = %s, want 180", got)
	}
}

func TestLineTotalFloorsAtZero(t *testing.T) {
	got := LineTotal(dec("5"), 1, dec("0"), dec("10"))
	if !got.Equal(decimal.Zero) {
		t.Errorf("LineTotal = %s, want 0", got)
	}
	// the unit price floors at zero before multiplying, so quantity
	// cannot resurrect a negative unit
	got = LineTotal(dec("3"), 10, dec("0"), dec("5"))
	if !got.Equal(decimal.Zero) {
		t.Errorf("LineTotal = %s, want 0", got)
	}
}

func TestReceiptTotal(t *testing.T) {
	// 500 in lines, 10 percent off then 20 fixed -> 430
	got := ReceiptTotal(dec("500"), dec("10"), dec("20"))
	if !got.Equal(dec("430")) {
		t.Errorf("ReceiptTotal = %s, want 430", got)
	}
}

func TestReceiptTotalFloorsAtZero(t *testing.T) {
	got := ReceiptTotal(dec("30"), dec("0"), dec("50"))
	if !got.Equal(decimal.Zero) {
		t.Errorf("ReceiptTotal = %s, want 0", got)
	}
}

func TestRoundingOnlyAtBoundary(t *testing.T) {
	// 19.99 with 10% off is 17.991 per unit; three units keep full
	// precision through the line, and only the final total is rounded
	unit := UnitPrice(dec("19.99"), dec("10"), dec("0"))
	line := LineTotal(unit, 3, dec("0"), dec("0"))
	if !line.Equal(dec("53.973")) {
		t.Fatalf("line = %s, want 53.973", line)
	}

	total := Round2(ReceiptTotal(line, dec("0"), dec("0")))
	if !total.Equal(dec("53.97")) {
		t.Errorf("rounded total = %s, want 53.97", total)
	}
}

func TestRound2(t *testing.T) {
	tests := []struct{ in, want string }{
		{"1.005", "1.01"},
		{"1.004", "1"},
		{"162", "162"},
	}
	for _, tt := range tests {
		if got := Round2(dec(tt.in)); !got.Equal(dec(tt.want)) {
			t.Errorf("Round2(%s) = %s, want %s", tt.in, got, tt.want)
		}
	}
}
