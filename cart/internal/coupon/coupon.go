// Package coupon decides whether a promotional code applies to a cart
// and how much it is worth. Evaluation is pure: the caller loads the
// coupon and usage counts, Evaluate only runs the rules.
package coupon

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AppliedLifetime bounds how long an applied coupon stays attached to a
// cart. Expiry is evaluated lazily on read, there is no sweeper.
const AppliedLifetime = 24 * time.Hour

type Type string

const (
	TypePercentage  Type = "percentage"
	TypeFixedAmount Type = "fixed_amount"
	TypeFreeService Type = "free_service"
)

type Coupon struct {
	ID                    uuid.UUID
	Code                  string
	DiscountType          Type
	DiscountValue         decimal.Decimal
	MinimumOrderAmount    decimal.Decimal
	MaximumDiscountAmount *decimal.Decimal
	ValidFrom             time.Time
	ValidUntil            time.Time
	UsageLimit            *int32
	UsageLimitPerUser     *int32
	UsageCount            int32
	FirstTimeUsersOnly    bool
	ApplicableCategories  []uuid.UUID
	ApplicableServices    []uuid.UUID
	IsActive              bool
}

type Reason string

const (
	ReasonInvalidOrExpired     Reason = "invalid_or_expired"
	ReasonBelowMinimum         Reason = "below_minimum"
	ReasonFirstTimeOnly        Reason = "first_time_only"
	ReasonGlobalLimitExceeded  Reason = "global_limit_exceeded"
	ReasonPerUserLimitExceeded Reason = "per_user_limit_exceeded"
	ReasonNotApplicable        Reason = "not_applicable"
)

// Rejection reports the first rule a coupon failed, with the unmet
// threshold where one exists.
type Rejection struct {
	Reason  Reason
	Minimum decimal.Decimal
}

func (r *Rejection) Error() string {
	switch r.Reason {
	case ReasonInvalidOrExpired:
		return "coupon is invalid or expired"
	case ReasonBelowMinimum:
		return fmt.Sprintf("order amount is below the minimum of %s", r.Minimum.String())
	case ReasonFirstTimeOnly:
		return "coupon is only valid for first-time users"
	case ReasonGlobalLimitExceeded:
		return "coupon usage limit has been reached"
	case ReasonPerUserLimitExceeded:
		return "coupon usage limit for this user has been reached"
	case ReasonNotApplicable:
		return "coupon is not applicable to the services in the cart"
	}
	return string(r.Reason)
}

// Context is the cart-side state the rules run against.
type Context struct {
	Now            time.Time
	OrderAmount    decimal.Decimal
	CategoryIds    []uuid.UUID
	ServiceIds     []uuid.UUID
	UserKnown      bool
	FirstTimeUser  bool
	UserUsageCount int64
}

// Evaluate runs the rule chain in a fixed order, short-circuiting on the
// first failure, and returns the discount amount rounded to the nearest
// integer currency unit.
func Evaluate(cpn Coupon, ctx Context) (decimal.Decimal, error) {
	if !cpn.IsActive || ctx.Now.Before(cpn.ValidFrom) || ctx.Now.After(cpn.ValidUntil) {
		return decimal.Zero, &Rejection{Reason: ReasonInvalidOrExpired}
	}

	if ctx.OrderAmount.LessThan(cpn.MinimumOrderAmount) {
		return decimal.Zero, &Rejection{
			Reason:  ReasonBelowMinimum,
			Minimum: cpn.MinimumOrderAmount,
		}
	}

	// Anonymous shoppers cannot be verified as first-time, so they do
	// not get first-time-only coupons.
	if cpn.FirstTimeUsersOnly && (!ctx.UserKnown || !ctx.FirstTimeUser) {
		return decimal.Zero, &Rejection{Reason: ReasonFirstTimeOnly}
	}

	if cpn.UsageLimit != nil && cpn.UsageCount >= *cpn.UsageLimit {
		return decimal.Zero, &Rejection{Reason: ReasonGlobalLimitExceeded}
	}

	if ctx.UserKnown && cpn.UsageLimitPerUser != nil &&
		ctx.UserUsageCount >= int64(*cpn.UsageLimitPerUser) {
		return decimal.Zero, &Rejection{Reason: ReasonPerUserLimitExceeded}
	}

	if len(cpn.ApplicableCategories) > 0 &&
		!intersects(cpn.ApplicableCategories, ctx.CategoryIds) {
		return decimal.Zero, &Rejection{Reason: ReasonNotApplicable}
	}

	if len(cpn.ApplicableServices) > 0 &&
		!intersects(cpn.ApplicableServices, ctx.ServiceIds) {
		return decimal.Zero, &Rejection{Reason: ReasonNotApplicable}
	}

	return discountFor(cpn, ctx.OrderAmount), nil
}

func discountFor(cpn Coupon, orderAmount decimal.Decimal) decimal.Decimal {
	var discount decimal.Decimal
	switch cpn.DiscountType {
	case TypePercentage:
		discount = orderAmount.Mul(cpn.DiscountValue).Div(decimal.NewFromInt(100))
		if cpn.MaximumDiscountAmount != nil && discount.GreaterThan(*cpn.MaximumDiscountAmount) {
			discount = *cpn.MaximumDiscountAmount
		}
	case TypeFixedAmount, TypeFreeService:
		// never discount more than the order is worth
		discount = decimal.Min(cpn.DiscountValue, orderAmount)
	}
	return discount.Round(0)
}

func intersects(allowed []uuid.UUID, present []uuid.UUID) bool {
	set := make(map[uuid.UUID]struct{}, len(allowed))
	for _, id := range allowed {
		set[id] = struct{}{}
	}
	for _, id := range present {
		if _, ok := set[id]; ok {
			return true
		}
	}
	return false
}
