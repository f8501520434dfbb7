package request

import (
	"github.com/google/uuid"
)

type AddCartLine struct {
	ServiceId uuid.UUID  `json:"serviceId" validate:"required"`
	VariantId *uuid.UUID `json:"variantId"`
	Quantity  int32      `json:"quantity"  validate:"required,gte=1"`
}

type UpdateCartLine struct {
	Quantity int32 `json:"quantity" validate:"required,gte=1"`
}

type ApplyCoupon struct {
	Code string `json:"code" validate:"required,min=1"`
}
