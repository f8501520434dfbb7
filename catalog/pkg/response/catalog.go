package response

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Category struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type Service struct {
	ID              uuid.UUID        `json:"id"`
	CategoryId      uuid.UUID        `json:"categoryId"`
	Name            string           `json:"name"`
	Description     string           `json:"description,omitempty"`
	BasePrice       decimal.Decimal  `json:"basePrice"`
	DiscountedPrice *decimal.Decimal `json:"discountedPrice,omitempty"`
	GstPercentage   decimal.Decimal  `json:"gstPercentage"`
	IsActive        bool             `json:"isActive"`
	CreatedAt       time.Time        `json:"createdAt"`
	UpdatedAt       time.Time        `json:"updatedAt"`
}

type Coupon struct {
	ID                    uuid.UUID        `json:"id"`
	Code                  string           `json:"code"`
	DiscountType          string           `json:"discountType"`
	DiscountValue         decimal.Decimal  `json:"discountValue"`
	MinimumOrderAmount    decimal.Decimal  `json:"minimumOrderAmount"`
	MaximumDiscountAmount *decimal.Decimal `json:"maximumDiscountAmount,omitempty"`
	ValidFrom             time.Time        `json:"validFrom"`
	ValidUntil            time.Time        `json:"validUntil"`
	UsageLimit            *int32           `json:"usageLimit,omitempty"`
	UsageLimitPerUser     *int32           `json:"usageLimitPerUser,omitempty"`
	UsageCount            int32            `json:"usageCount"`
	FirstTimeUsersOnly    bool             `json:"firstTimeUsersOnly"`
	ApplicableCategories  []uuid.UUID      `json:"applicableCategories"`
	ApplicableServices    []uuid.UUID      `json:"applicableServices"`
	IsActive              bool             `json:"isActive"`
}
