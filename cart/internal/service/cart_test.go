package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/servease/servease/cart/internal/coupon"
	"github.com/servease/servease/cart/pkg/request"
	inErrors "github.com/servease/servease/internal/errors"
	"github.com/servease/servease/internal/identity"
)

func TestCartAddLineMergesSameServiceAndVariant(t *testing.T) {
	c := context.Background()
	redisClient, pool, pgContainer, redisContainer, queries, cartService := setup(t)(c)
	defer teardown(t)(redisClient, pool, pgContainer, redisContainer)

	category := seedCategory(t, c, queries, "Cleaning")
	svc := seedService(t, c, queries, category.ID, "Deep Cleaning", 100, 18)
	principal := identity.Anonymous(uuid.New())

	_, err := cartService.AddLine(c, principal, request.AddCartLine{ServiceId: svc.ID, Quantity: 1})
	require.NoError(t, err)
	cart, err := cartService.AddLine(c, principal, request.AddCartLine{ServiceId: svc.ID, Quantity: 2})
	require.NoError(t, err)

	require.Len(t, cart.Lines, 1)
	assert.EqualValues(t, 3, cart.Lines[0].Quantity)
	assert.EqualValues(t, 3, cart.TotalItems)
	assert.True(t, cart.Subtotal.Equal(decimal.NewFromInt(300)))
}

func TestCartAddLineDistinctVariantsStaySeparate(t *testing.T) {
	c := context.Background()
	redisClient, pool, pgContainer, redisContainer, queries, cartService := setup(t)(c)
	defer teardown(t)(redisClient, pool, pgContainer, redisContainer)

	category := seedCategory(t, c, queries, "Cleaning")
	svc := seedService(t, c, queries, category.ID, "Deep Cleaning", 100, 18)
	principal := identity.Anonymous(uuid.New())
	variantId := uuid.New()

	_, err := cartService.AddLine(c, principal, request.AddCartLine{ServiceId: svc.ID, Quantity: 1})
	require.NoError(t, err)
	cart, err := cartService.AddLine(
		c,
		principal,
		request.AddCartLine{ServiceId: svc.ID, VariantId: &variantId, Quantity: 1},
	)
	require.NoError(t, err)

	assert.Len(t, cart.Lines, 2)
}

func TestCartAddLineUnknownService(t *testing.T) {
	c := context.Background()
	redisClient, pool, pgContainer, redisContainer, _, cartService := setup(t)(c)
	defer teardown(t)(redisClient, pool, pgContainer, redisContainer)

	principal := identity.Anonymous(uuid.New())

	_, err := cartService.AddLine(c, principal, request.AddCartLine{ServiceId: uuid.New(), Quantity: 1})

	assert.ErrorIs(t, err, inErrors.ErrServiceNotFound)
}

func TestCartSnapshotPricing(t *testing.T) {
	c := context.Background()
	redisClient, pool, pgContainer, redisContainer, queries, cartService := setup(t)(c)
	defer teardown(t)(redisClient, pool, pgContainer, redisContainer)

	cleaning := seedCategory(t, c, queries, "Cleaning")
	plumbing := seedCategory(t, c, queries, "Plumbing")
	deepCleaning := seedService(t, c, queries, cleaning.ID, "Deep Cleaning", 100, 18)
	tapRepair := seedService(t, c, queries, plumbing.ID, "Tap Repair", 200, 5)
	principal := identity.Anonymous(uuid.New())

	_, err := cartService.AddLine(c, principal, request.AddCartLine{ServiceId: deepCleaning.ID, Quantity: 2})
	require.NoError(t, err)
	cart, err := cartService.AddLine(c, principal, request.AddCartLine{ServiceId: tapRepair.ID, Quantity: 1})
	require.NoError(t, err)

	assert.EqualValues(t, 3, cart.TotalItems)
	assert.True(t, cart.Subtotal.Equal(decimal.NewFromInt(400)))
	// 200 * 18% + 200 * 5%
	assert.True(t, cart.GstAmount.Equal(decimal.NewFromInt(46)), "got gst=%s", cart.GstAmount.String())
	assert.True(t, cart.ServiceChargeAmount.Equal(decimal.NewFromInt(158)))
	assert.True(t, cart.FinalAmount.Equal(decimal.NewFromInt(604)), "got final=%s", cart.FinalAmount.String())
}

func TestCartUpdateAndRemoveLine(t *testing.T) {
	c := context.Background()
	redisClient, pool, pgContainer, redisContainer, queries, cartService := setup(t)(c)
	defer teardown(t)(redisClient, pool, pgContainer, redisContainer)

	category := seedCategory(t, c, queries, "Cleaning")
	svc := seedService(t, c, queries, category.ID, "Deep Cleaning", 100, 18)
	principal := identity.Anonymous(uuid.New())

	cart, err := cartService.AddLine(c, principal, request.AddCartLine{ServiceId: svc.ID, Quantity: 1})
	require.NoError(t, err)
	lineId := cart.Lines[0].ID

	cart, err = cartService.UpdateLine(c, principal, lineId, request.UpdateCartLine{Quantity: 5})
	require.NoError(t, err)
	assert.EqualValues(t, 5, cart.Lines[0].Quantity)

	cart, err = cartService.RemoveLine(c, principal, lineId)
	require.NoError(t, err)
	assert.Empty(t, cart.Lines)

	_, err = cartService.UpdateLine(c, principal, lineId, request.UpdateCartLine{Quantity: 1})
	assert.ErrorIs(t, err, inErrors.ErrCartLineNotFound)
	_, err = cartService.RemoveLine(c, principal, lineId)
	assert.ErrorIs(t, err, inErrors.ErrCartLineNotFound)
}

func TestCartUpdateLineOwnedByAnotherPrincipal(t *testing.T) {
	c := context.Background()
	redisClient, pool, pgContainer, redisContainer, queries, cartService := setup(t)(c)
	defer teardown(t)(redisClient, pool, pgContainer, redisContainer)

	category := seedCategory(t, c, queries, "Cleaning")
	svc := seedService(t, c, queries, category.ID, "Deep Cleaning", 100, 18)
	owner := identity.Anonymous(uuid.New())
	intruder := identity.Anonymous(uuid.New())

	cart, err := cartService.AddLine(c, owner, request.AddCartLine{ServiceId: svc.ID, Quantity: 1})
	require.NoError(t, err)

	_, err = cartService.UpdateLine(c, intruder, cart.Lines[0].ID, request.UpdateCartLine{Quantity: 9})

	assert.ErrorIs(t, err, inErrors.ErrCartLineNotFound)
}

func TestCartApplyAndRemoveCoupon(t *testing.T) {
	c := context.Background()
	redisClient, pool, pgContainer, redisContainer, queries, cartService := setup(t)(c)
	defer teardown(t)(redisClient, pool, pgContainer, redisContainer)

	category := seedCategory(t, c, queries, "Cleaning")
	svc := seedService(t, c, queries, category.ID, "Deep Cleaning", 100, 18)
	seedCoupon(t, c, queries, "WELCOME10", string(coupon.TypePercentage), 10, 0)
	principal := identity.Anonymous(uuid.New())

	_, err := cartService.AddLine(c, principal, request.AddCartLine{ServiceId: svc.ID, Quantity: 2})
	require.NoError(t, err)

	cart, err := cartService.ApplyCoupon(c, principal, request.ApplyCoupon{Code: "WELCOME10"})
	require.NoError(t, err)
	assert.Equal(t, "WELCOME10", cart.AppliedCouponCode)
	assert.True(t, cart.DiscountAmount.Equal(decimal.NewFromInt(20)))
	// 180 taxable at 18%
	assert.True(t, cart.GstAmount.Equal(decimal.NewFromFloat(32.40)), "got gst=%s", cart.GstAmount.String())

	cart, err = cartService.RemoveCoupon(c, principal)
	require.NoError(t, err)
	assert.Empty(t, cart.AppliedCouponCode)
	assert.True(t, cart.DiscountAmount.Equal(decimal.Zero))

	_, err = cartService.RemoveCoupon(c, principal)
	assert.ErrorIs(t, err, inErrors.ErrCouponNotFound)
}

func TestCartApplyUnknownCouponDropsPreviousOne(t *testing.T) {
	c := context.Background()
	redisClient, pool, pgContainer, redisContainer, queries, cartService := setup(t)(c)
	defer teardown(t)(redisClient, pool, pgContainer, redisContainer)

	category := seedCategory(t, c, queries, "Cleaning")
	svc := seedService(t, c, queries, category.ID, "Deep Cleaning", 100, 18)
	seedCoupon(t, c, queries, "WELCOME10", string(coupon.TypePercentage), 10, 0)
	principal := identity.Anonymous(uuid.New())

	_, err := cartService.AddLine(c, principal, request.AddCartLine{ServiceId: svc.ID, Quantity: 2})
	require.NoError(t, err)
	_, err = cartService.ApplyCoupon(c, principal, request.ApplyCoupon{Code: "WELCOME10"})
	require.NoError(t, err)

	_, err = cartService.ApplyCoupon(c, principal, request.ApplyCoupon{Code: "NOSUCHCODE"})
	rejection := &coupon.Rejection{}
	require.ErrorAs(t, err, &rejection)
	assert.Equal(t, coupon.ReasonInvalidOrExpired, rejection.Reason)

	cart, err := cartService.FindCart(c, principal)
	require.NoError(t, err)
	assert.Empty(t, cart.AppliedCouponCode)
	assert.True(t, cart.DiscountAmount.Equal(decimal.Zero))
}

func TestCartApplyCouponBelowMinimum(t *testing.T) {
	c := context.Background()
	redisClient, pool, pgContainer, redisContainer, queries, cartService := setup(t)(c)
	defer teardown(t)(redisClient, pool, pgContainer, redisContainer)

	category := seedCategory(t, c, queries, "Cleaning")
	svc := seedService(t, c, queries, category.ID, "Deep Cleaning", 100, 18)
	seedCoupon(t, c, queries, "BIGSPEND", string(coupon.TypePercentage), 10, 500)
	principal := identity.Anonymous(uuid.New())

	_, err := cartService.AddLine(c, principal, request.AddCartLine{ServiceId: svc.ID, Quantity: 1})
	require.NoError(t, err)

	_, err = cartService.ApplyCoupon(c, principal, request.ApplyCoupon{Code: "BIGSPEND"})

	rejection := &coupon.Rejection{}
	require.ErrorAs(t, err, &rejection)
	assert.Equal(t, coupon.ReasonBelowMinimum, rejection.Reason)
	assert.True(t, rejection.Minimum.Equal(decimal.NewFromInt(500)))
}

func TestCartAppliedCouponExpiresLazily(t *testing.T) {
	c := context.Background()
	redisClient, pool, pgContainer, redisContainer, queries, cartService := setup(t)(c)
	defer teardown(t)(redisClient, pool, pgContainer, redisContainer)

	category := seedCategory(t, c, queries, "Cleaning")
	svc := seedService(t, c, queries, category.ID, "Deep Cleaning", 100, 18)
	seedCoupon(t, c, queries, "WELCOME10", string(coupon.TypePercentage), 10, 0)
	principal := identity.Anonymous(uuid.New())

	_, err := cartService.AddLine(c, principal, request.AddCartLine{ServiceId: svc.ID, Quantity: 2})
	require.NoError(t, err)
	_, err = cartService.ApplyCoupon(c, principal, request.ApplyCoupon{Code: "WELCOME10"})
	require.NoError(t, err)

	_, err = pool.Exec(
		c,
		"UPDATE applied_coupons SET applied_at = now() - interval '25 hours' WHERE owner_kind = $1 AND owner_id = $2",
		string(principal.Kind),
		principal.Owner(),
	)
	require.NoError(t, err)

	cart, err := cartService.FindCart(c, principal)
	require.NoError(t, err)
	assert.Empty(t, cart.AppliedCouponCode)
	assert.True(t, cart.DiscountAmount.Equal(decimal.Zero))

	// the expired row was deleted, not just masked
	_, err = cartService.RemoveCoupon(c, principal)
	assert.ErrorIs(t, err, inErrors.ErrCouponNotFound)
}

func TestCartClear(t *testing.T) {
	c := context.Background()
	redisClient, pool, pgContainer, redisContainer, queries, cartService := setup(t)(c)
	defer teardown(t)(redisClient, pool, pgContainer, redisContainer)

	category := seedCategory(t, c, queries, "Cleaning")
	svc := seedService(t, c, queries, category.ID, "Deep Cleaning", 100, 18)
	seedCoupon(t, c, queries, "WELCOME10", string(coupon.TypePercentage), 10, 0)
	principal := identity.Anonymous(uuid.New())

	_, err := cartService.AddLine(c, principal, request.AddCartLine{ServiceId: svc.ID, Quantity: 2})
	require.NoError(t, err)
	_, err = cartService.ApplyCoupon(c, principal, request.ApplyCoupon{Code: "WELCOME10"})
	require.NoError(t, err)

	cart, err := cartService.Clear(c, principal)
	require.NoError(t, err)

	assert.Empty(t, cart.Lines)
	assert.Empty(t, cart.AppliedCouponCode)
	assert.True(t, cart.FinalAmount.Equal(decimal.Zero))
}
