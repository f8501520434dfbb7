package response

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CartLine struct {
	ID         uuid.UUID       `json:"id"`
	ServiceId  uuid.UUID       `json:"serviceId"`
	VariantId  *uuid.UUID      `json:"variantId,omitempty"`
	CategoryId uuid.UUID       `json:"categoryId"`
	Quantity   int32           `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unitPrice"`
	LineTotal  decimal.Decimal `json:"lineTotal"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// Cart is the derived snapshot returned on every read. It is recomputed
// per request and never persisted.
type Cart struct {
	Lines               []CartLine      `json:"lines"`
	TotalItems          int32           `json:"totalItems"`
	Subtotal            decimal.Decimal `json:"subtotal"`
	DiscountAmount      decimal.Decimal `json:"discountAmount"`
	GstAmount           decimal.Decimal `json:"gstAmount"`
	ServiceChargeAmount decimal.Decimal `json:"serviceChargeAmount"`
	FinalAmount         decimal.Decimal `json:"finalAmount"`
	AppliedCouponCode   string          `json:"appliedCouponCode,omitempty"`
}
