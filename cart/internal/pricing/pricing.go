// Package pricing computes the payable breakdown of a cart. It is pure
// arithmetic: storage and coupon resolution happen upstream.
package pricing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

type Line struct {
	CategoryId    uuid.UUID
	UnitPrice     decimal.Decimal
	GstPercentage decimal.Decimal
	Quantity      int32
}

type Breakdown struct {
	TotalItems          int32
	Subtotal            decimal.Decimal
	DiscountAmount      decimal.Decimal
	GstAmount           decimal.Decimal
	ServiceChargeAmount decimal.Decimal
	FinalAmount         decimal.Decimal
}

// Compute derives the breakdown in a fixed order so results are
// reproducible: subtotal, discount, per-unique-category service charge,
// proportionally allocated per-line GST, rounded final amount.
//
// The discount is allocated across lines by their share of the subtotal
// before each line's own GST rate applies. Lines may carry different GST
// rates, so subtracting the discount once before a single tax pass would
// bias the aggregate toward whichever rate is summed last.
func Compute(lines []Line, discount decimal.Decimal, categoryFee decimal.Decimal) Breakdown {
	subtotal := decimal.Zero
	totalItems := int32(0)
	categories := map[uuid.UUID]struct{}{}
	for _, line := range lines {
		subtotal = subtotal.Add(line.UnitPrice.Mul(decimal.NewFromInt32(line.Quantity)))
		totalItems += line.Quantity
		categories[line.CategoryId] = struct{}{}
	}

	// An applied coupon can outlive cart shrinkage; clamping keeps the
	// final amount non-negative.
	if discount.IsNegative() {
		discount = decimal.Zero
	}
	if discount.GreaterThan(subtotal) {
		discount = subtotal
	}

	serviceCharge := categoryFee.Mul(decimal.NewFromInt(int64(len(categories))))

	gst := decimal.Zero
	if subtotal.IsPositive() {
		afterDiscount := subtotal.Sub(discount)
		for _, line := range lines {
			lineSubtotal := line.UnitPrice.Mul(decimal.NewFromInt32(line.Quantity))
			lineAfterDiscount := lineSubtotal.Mul(afterDiscount).Div(subtotal)
			gst = gst.Add(lineAfterDiscount.Mul(line.GstPercentage).Div(oneHundred))
		}
	}
	gst = gst.Round(2)

	final := subtotal.Sub(discount).Add(gst).Add(serviceCharge).Round(2)

	return Breakdown{
		TotalItems:          totalItems,
		Subtotal:            subtotal,
		DiscountAmount:      discount,
		GstAmount:           gst,
		ServiceChargeAmount: serviceCharge,
		FinalAmount:         final,
	}
}
