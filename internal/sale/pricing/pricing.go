// Package pricing computes settlement amounts. All arithmetic stays in
// decimals end to end; rounding happens exactly once, at the value that
// is about to be persisted or displayed. Discounts apply percent first,
// then the fixed amount, and no result ever drops below zero.
package pricing

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// applyDiscount subtracts pct percent of base, then the fixed amount,
// flooring at zero.
func applyDiscount(base, percent, amount decimal.Decimal) decimal.Decimal {
	discounted := base.
		Sub(base.Mul(percent).Div(hundred)).
		Sub(amount)
	if discounted.IsNegative() {
		return decimal.Zero
	}
	return discounted
}

// UnitPrice is the effective per-unit price after the variant's standing
// discount. Unrounded; it feeds into LineTotal.
func UnitPrice(price, discountPercent, discountAmount decimal.Decimal) decimal.Decimal {
	return applyDiscount(price, discountPercent, discountAmount)
}

// LineTotal prices one receipt line: the line-level discount applies to
// each unit, floored at zero, before multiplying by quantity. Unrounded;
// it feeds into ReceiptTotal.
func LineTotal(unitPrice decimal.Decimal, quantity int, discountPercent, discountAmount decimal.Decimal) decimal.Decimal {
	discounted := applyDiscount(unitPrice, discountPercent, discountAmount)
	return discounted.Mul(decimal.NewFromInt(int64(quantity)))
}

// ReceiptTotal applies the receipt-level discount to the sum of line totals
func ReceiptTotal(lineSum, discountPercent, discountAmount decimal.Decimal) decimal.Decimal {
	return applyDiscount(lineSum, discountPercent, discountAmount)
}

// Round2 rounds to two decimal places. Call it only on values crossing
// the persistence or presentation boundary.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
