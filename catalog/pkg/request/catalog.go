package request

import (
	"time"

	"github.com/google/uuid"
)

type Category struct {
	Name        string `json:"name"        validate:"required,min=1"`
	Description string `json:"description"`
}

type Service struct {
	CategoryId      uuid.UUID `json:"categoryId"      validate:"required"`
	Name            string    `json:"name"            validate:"required,min=1"`
	Description     string    `json:"description"`
	BasePrice       string    `json:"basePrice"       validate:"required,price"`
	DiscountedPrice *string   `json:"discountedPrice" validate:"omitempty,price"`
	GstPercentage   string    `json:"gstPercentage"   validate:"required,price"`
	IsActive        *bool     `json:"isActive"`
}

type Coupon struct {
	Code                  string      `json:"code"                  validate:"required,min=1,uppercase"`
	DiscountType          string      `json:"discountType"          validate:"required,oneof=percentage fixed_amount free_service"`
	DiscountValue         string      `json:"discountValue"         validate:"required,price"`
	MinimumOrderAmount    string      `json:"minimumOrderAmount"    validate:"omitempty,price"`
	MaximumDiscountAmount *string     `json:"maximumDiscountAmount" validate:"omitempty,price"`
	ValidFrom             time.Time   `json:"validFrom"             validate:"required"`
	ValidUntil            time.Time   `json:"validUntil"            validate:"required,gtfield=ValidFrom"`
	UsageLimit            *int32      `json:"usageLimit"            validate:"omitempty,gte=1"`
	UsageLimitPerUser     *int32      `json:"usageLimitPerUser"     validate:"omitempty,gte=1"`
	FirstTimeUsersOnly    bool        `json:"firstTimeUsersOnly"`
	ApplicableCategories  []uuid.UUID `json:"applicableCategories"`
	ApplicableServices    []uuid.UUID `json:"applicableServices"`
	IsActive              *bool       `json:"isActive"`
}
