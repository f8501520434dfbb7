package pricing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestComputeSingleCategoryNoDiscount(t *testing.T) {
	categoryId := uuid.New()
	lines := []Line{
		{
			CategoryId:    categoryId,
			UnitPrice:     decimal.NewFromInt(100),
			GstPercentage: decimal.NewFromInt(18),
			Quantity:      2,
		},
	}

	breakdown := Compute(lines, decimal.Zero, decimal.NewFromInt(79))

	assert.EqualValues(t, 2, breakdown.TotalItems)
	assert.True(t, breakdown.Subtotal.Equal(decimal.NewFromInt(200)))
	assert.True(t, breakdown.DiscountAmount.Equal(decimal.Zero))
	assert.True(t, breakdown.GstAmount.Equal(decimal.NewFromInt(36)))
	assert.True(t, breakdown.ServiceChargeAmount.Equal(decimal.NewFromInt(79)))
	assert.True(t, breakdown.FinalAmount.Equal(decimal.NewFromInt(315)))
}

func TestComputePercentageDiscount(t *testing.T) {
	categoryId := uuid.New()
	lines := []Line{
		{
			CategoryId:    categoryId,
			UnitPrice:     decimal.NewFromInt(100),
			GstPercentage: decimal.NewFromInt(18),
			Quantity:      2,
		},
	}

	breakdown := Compute(lines, decimal.NewFromInt(20), decimal.NewFromInt(79))

	assert.True(t, breakdown.DiscountAmount.Equal(decimal.NewFromInt(20)))
	assert.True(
		t,
		breakdown.GstAmount.Equal(decimal.NewFromFloat(32.40)),
		"expected gst=32.40 got %s",
		breakdown.GstAmount.String(),
	)
	assert.True(
		t,
		breakdown.FinalAmount.Equal(decimal.NewFromFloat(291.40)),
		"expected final=291.40 got %s",
		breakdown.FinalAmount.String(),
	)
}

func TestComputeDiscountClampedToSubtotal(t *testing.T) {
	lines := []Line{
		{
			CategoryId:    uuid.New(),
			UnitPrice:     decimal.NewFromInt(100),
			GstPercentage: decimal.NewFromInt(18),
			Quantity:      2,
		},
	}

	breakdown := Compute(lines, decimal.NewFromInt(500), decimal.NewFromInt(79))

	assert.True(t, breakdown.DiscountAmount.Equal(decimal.NewFromInt(200)))
	assert.True(t, breakdown.GstAmount.Equal(decimal.Zero))
	assert.True(t, breakdown.FinalAmount.Equal(decimal.NewFromInt(79)))
	assert.False(t, breakdown.FinalAmount.IsNegative())
}

func TestComputeNegativeDiscountTreatedAsZero(t *testing.T) {
	lines := []Line{
		{
			CategoryId:    uuid.New(),
			UnitPrice:     decimal.NewFromInt(50),
			GstPercentage: decimal.Zero,
			Quantity:      1,
		},
	}

	breakdown := Compute(lines, decimal.NewFromInt(-10), decimal.NewFromInt(79))

	assert.True(t, breakdown.DiscountAmount.Equal(decimal.Zero))
	assert.True(t, breakdown.FinalAmount.Equal(decimal.NewFromInt(129)))
}

func TestComputeEmptyCart(t *testing.T) {
	breakdown := Compute(nil, decimal.Zero, decimal.NewFromInt(79))

	assert.EqualValues(t, 0, breakdown.TotalItems)
	assert.True(t, breakdown.Subtotal.Equal(decimal.Zero))
	assert.True(t, breakdown.GstAmount.Equal(decimal.Zero))
	assert.True(t, breakdown.ServiceChargeAmount.Equal(decimal.Zero))
	assert.True(t, breakdown.FinalAmount.Equal(decimal.Zero))
}

func TestComputeEmptyCartWithStaleDiscount(t *testing.T) {
	// a leftover discount on an emptied cart must not drive the total negative
	breakdown := Compute(nil, decimal.NewFromInt(20), decimal.NewFromInt(79))

	assert.True(t, breakdown.DiscountAmount.Equal(decimal.Zero))
	assert.True(t, breakdown.FinalAmount.Equal(decimal.Zero))
}

func TestComputeChargesFeePerUniqueCategory(t *testing.T) {
	cleaning := uuid.New()
	plumbing := uuid.New()
	lines := []Line{
		{CategoryId: cleaning, UnitPrice: decimal.NewFromInt(100), GstPercentage: decimal.Zero, Quantity: 1},
		{CategoryId: cleaning, UnitPrice: decimal.NewFromInt(50), GstPercentage: decimal.Zero, Quantity: 1},
		{CategoryId: plumbing, UnitPrice: decimal.NewFromInt(200), GstPercentage: decimal.Zero, Quantity: 1},
	}

	breakdown := Compute(lines, decimal.Zero, decimal.NewFromInt(79))

	assert.True(
		t,
		breakdown.ServiceChargeAmount.Equal(decimal.NewFromInt(158)),
		"two unique categories should be charged twice, got %s",
		breakdown.ServiceChargeAmount.String(),
	)
}

func TestComputeAllocatesDiscountProportionallyAcrossGstRates(t *testing.T) {
	lines := []Line{
		{CategoryId: uuid.New(), UnitPrice: decimal.NewFromInt(100), GstPercentage: decimal.NewFromInt(18), Quantity: 1},
		{CategoryId: uuid.New(), UnitPrice: decimal.NewFromInt(100), GstPercentage: decimal.NewFromInt(5), Quantity: 1},
	}

	// 50 off a 200 subtotal leaves each line at 75 taxable
	breakdown := Compute(lines, decimal.NewFromInt(50), decimal.Zero)

	expected := decimal.NewFromFloat(75 * 0.18).Add(decimal.NewFromFloat(75 * 0.05)).Round(2)
	assert.True(
		t,
		breakdown.GstAmount.Equal(expected),
		"expected gst=%s got %s",
		expected.String(),
		breakdown.GstAmount.String(),
	)
}

func TestComputeIdentity(t *testing.T) {
	lines := []Line{
		{CategoryId: uuid.New(), UnitPrice: decimal.NewFromFloat(149.99), GstPercentage: decimal.NewFromInt(18), Quantity: 3},
		{CategoryId: uuid.New(), UnitPrice: decimal.NewFromFloat(79.50), GstPercentage: decimal.NewFromInt(5), Quantity: 2},
	}

	breakdown := Compute(lines, decimal.NewFromInt(60), decimal.NewFromInt(79))

	identity := breakdown.Subtotal.
		Sub(breakdown.DiscountAmount).
		Add(breakdown.GstAmount).
		Add(breakdown.ServiceChargeAmount).
		Round(2)
	assert.True(
		t,
		breakdown.FinalAmount.Equal(identity),
		"final=%s must equal subtotal-discount+gst+serviceCharge=%s",
		breakdown.FinalAmount.String(),
		identity.String(),
	)
}
