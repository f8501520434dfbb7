package coupon

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func int32Ptr(v int32) *int32 { return &v }

func activeCoupon() Coupon {
	now := time.Now()
	return Coupon{
		ID:                 uuid.New(),
		Code:               "WELCOME10",
		DiscountType:       TypePercentage,
		DiscountValue:      decimal.NewFromInt(10),
		MinimumOrderAmount: decimal.Zero,
		ValidFrom:          now.Add(-time.Hour),
		ValidUntil:         now.Add(time.Hour),
		IsActive:           true,
	}
}

func evalContext() Context {
	return Context{
		Now:         time.Now(),
		OrderAmount: decimal.NewFromInt(200),
		UserKnown:   true,
	}
}

func TestEvaluateInactiveCoupon(t *testing.T) {
	cpn := activeCoupon()
	cpn.IsActive = false

	_, err := Evaluate(cpn, evalContext())

	rejection := &Rejection{}
	require.ErrorAs(t, err, &rejection)
	assert.Equal(t, ReasonInvalidOrExpired, rejection.Reason)
}

func TestEvaluateExpiredCoupon(t *testing.T) {
	cpn := activeCoupon()
	cpn.ValidUntil = time.Now().Add(-time.Minute)

	_, err := Evaluate(cpn, evalContext())

	rejection := &Rejection{}
	require.ErrorAs(t, err, &rejection)
	assert.Equal(t, ReasonInvalidOrExpired, rejection.Reason)
}

func TestEvaluateNotYetValidCoupon(t *testing.T) {
	cpn := activeCoupon()
	cpn.ValidFrom = time.Now().Add(time.Hour)
	cpn.ValidUntil = time.Now().Add(2 * time.Hour)

	_, err := Evaluate(cpn, evalContext())

	rejection := &Rejection{}
	require.ErrorAs(t, err, &rejection)
	assert.Equal(t, ReasonInvalidOrExpired, rejection.Reason)
}

func TestEvaluateBelowMinimum(t *testing.T) {
	cpn := activeCoupon()
	cpn.MinimumOrderAmount = decimal.NewFromInt(500)

	_, err := Evaluate(cpn, evalContext())

	rejection := &Rejection{}
	require.ErrorAs(t, err, &rejection)
	assert.Equal(t, ReasonBelowMinimum, rejection.Reason)
	assert.True(t, rejection.Minimum.Equal(decimal.NewFromInt(500)))
}

func TestEvaluateExpiryWinsOverMinimum(t *testing.T) {
	// validity is checked before the minimum, an expired coupon never
	// leaks its threshold
	cpn := activeCoupon()
	cpn.ValidUntil = time.Now().Add(-time.Minute)
	cpn.MinimumOrderAmount = decimal.NewFromInt(500)

	_, err := Evaluate(cpn, evalContext())

	rejection := &Rejection{}
	require.ErrorAs(t, err, &rejection)
	assert.Equal(t, ReasonInvalidOrExpired, rejection.Reason)
}

func TestEvaluateFirstTimeOnlyRejectsReturningUser(t *testing.T) {
	cpn := activeCoupon()
	cpn.FirstTimeUsersOnly = true
	ctx := evalContext()
	ctx.FirstTimeUser = false

	_, err := Evaluate(cpn, ctx)

	rejection := &Rejection{}
	require.ErrorAs(t, err, &rejection)
	assert.Equal(t, ReasonFirstTimeOnly, rejection.Reason)
}

func TestEvaluateFirstTimeOnlyRejectsAnonymous(t *testing.T) {
	cpn := activeCoupon()
	cpn.FirstTimeUsersOnly = true
	ctx := evalContext()
	ctx.UserKnown = false
	ctx.FirstTimeUser = true

	_, err := Evaluate(cpn, ctx)

	rejection := &Rejection{}
	require.ErrorAs(t, err, &rejection)
	assert.Equal(t, ReasonFirstTimeOnly, rejection.Reason)
}

func TestEvaluateGlobalUsageLimit(t *testing.T) {
	cpn := activeCoupon()
	cpn.UsageLimit = int32Ptr(100)
	cpn.UsageCount = 100

	_, err := Evaluate(cpn, evalContext())

	rejection := &Rejection{}
	require.ErrorAs(t, err, &rejection)
	assert.Equal(t, ReasonGlobalLimitExceeded, rejection.Reason)
}

func TestEvaluatePerUserUsageLimit(t *testing.T) {
	cpn := activeCoupon()
	cpn.UsageLimitPerUser = int32Ptr(1)
	ctx := evalContext()
	ctx.UserUsageCount = 1

	_, err := Evaluate(cpn, ctx)

	rejection := &Rejection{}
	require.ErrorAs(t, err, &rejection)
	assert.Equal(t, ReasonPerUserLimitExceeded, rejection.Reason)
}

func TestEvaluatePerUserLimitSkippedForAnonymous(t *testing.T) {
	cpn := activeCoupon()
	cpn.UsageLimitPerUser = int32Ptr(1)
	ctx := evalContext()
	ctx.UserKnown = false
	ctx.UserUsageCount = 5

	discount, err := Evaluate(cpn, ctx)

	require.NoError(t, err)
	assert.True(t, discount.Equal(decimal.NewFromInt(20)))
}

func TestEvaluateCategoryScope(t *testing.T) {
	allowed := uuid.New()
	cpn := activeCoupon()
	cpn.ApplicableCategories = []uuid.UUID{allowed}

	ctx := evalContext()
	ctx.CategoryIds = []uuid.UUID{uuid.New()}
	_, err := Evaluate(cpn, ctx)
	rejection := &Rejection{}
	require.ErrorAs(t, err, &rejection)
	assert.Equal(t, ReasonNotApplicable, rejection.Reason)

	ctx.CategoryIds = []uuid.UUID{uuid.New(), allowed}
	_, err = Evaluate(cpn, ctx)
	assert.NoError(t, err)
}

func TestEvaluateServiceScope(t *testing.T) {
	allowed := uuid.New()
	cpn := activeCoupon()
	cpn.ApplicableServices = []uuid.UUID{allowed}

	ctx := evalContext()
	ctx.ServiceIds = []uuid.UUID{uuid.New()}
	_, err := Evaluate(cpn, ctx)
	rejection := &Rejection{}
	require.ErrorAs(t, err, &rejection)
	assert.Equal(t, ReasonNotApplicable, rejection.Reason)

	ctx.ServiceIds = []uuid.UUID{allowed}
	_, err = Evaluate(cpn, ctx)
	assert.NoError(t, err)
}

func TestEvaluatePercentageDiscount(t *testing.T) {
	cpn := activeCoupon()

	discount, err := Evaluate(cpn, evalContext())

	require.NoError(t, err)
	assert.True(t, discount.Equal(decimal.NewFromInt(20)))
}

func TestEvaluatePercentageDiscountCapped(t *testing.T) {
	cap := decimal.NewFromInt(15)
	cpn := activeCoupon()
	cpn.MaximumDiscountAmount = &cap

	discount, err := Evaluate(cpn, evalContext())

	require.NoError(t, err)
	assert.True(t, discount.Equal(cap))
}

func TestEvaluatePercentageDiscountRoundsToUnit(t *testing.T) {
	cpn := activeCoupon()
	ctx := evalContext()
	// 10% of 155 = 15.5, rounds to 16
	ctx.OrderAmount = decimal.NewFromInt(155)

	discount, err := Evaluate(cpn, ctx)

	require.NoError(t, err)
	assert.True(
		t,
		discount.Equal(decimal.NewFromInt(16)),
		"expected 16 got %s",
		discount.String(),
	)
}

func TestEvaluateFixedAmountCappedAtOrderAmount(t *testing.T) {
	cpn := activeCoupon()
	cpn.DiscountType = TypeFixedAmount
	cpn.DiscountValue = decimal.NewFromInt(500)

	discount, err := Evaluate(cpn, evalContext())

	require.NoError(t, err)
	assert.True(t, discount.Equal(decimal.NewFromInt(200)))
}

func TestEvaluateFreeServiceCappedAtOrderAmount(t *testing.T) {
	cpn := activeCoupon()
	cpn.DiscountType = TypeFreeService
	cpn.DiscountValue = decimal.NewFromInt(99)

	discount, err := Evaluate(cpn, evalContext())

	require.NoError(t, err)
	assert.True(t, discount.Equal(decimal.NewFromInt(99)))
}

func TestRejectionMessages(t *testing.T) {
	tests := []struct {
		rejection *Rejection
		contains  string
	}{
		{&Rejection{Reason: ReasonInvalidOrExpired}, "invalid or expired"},
		{&Rejection{Reason: ReasonBelowMinimum, Minimum: decimal.NewFromInt(500)}, "500"},
		{&Rejection{Reason: ReasonFirstTimeOnly}, "first-time"},
		{&Rejection{Reason: ReasonGlobalLimitExceeded}, "limit"},
		{&Rejection{Reason: ReasonPerUserLimitExceeded}, "limit"},
		{&Rejection{Reason: ReasonNotApplicable}, "not applicable"},
	}
	for _, test := range tests {
		assert.Contains(t, test.rejection.Error(), test.contains)
	}
}
