package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const couponColumns = `id, code, discount_type, discount_value, minimum_order_amount, maximum_discount_amount,
valid_from, valid_until, usage_limit, usage_limit_per_user, usage_count, first_time_users_only,
applicable_categories, applicable_services, is_active, created_at, updated_at`

const insertCoupon = `
INSERT INTO coupons (id, code, discount_type, discount_value, minimum_order_amount, maximum_discount_amount,
                     valid_from, valid_until, usage_limit, usage_limit_per_user, first_time_users_only,
                     applicable_categories, applicable_services, is_active)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
RETURNING ` + couponColumns

type InsertCouponParams struct {
	ID                    uuid.UUID
	Code                  string
	DiscountType          string
	DiscountValue         pgtype.Numeric
	MinimumOrderAmount    pgtype.Numeric
	MaximumDiscountAmount pgtype.Numeric
	ValidFrom             pgtype.Timestamptz
	ValidUntil            pgtype.Timestamptz
	UsageLimit            pgtype.Int4
	UsageLimitPerUser     pgtype.Int4
	FirstTimeUsersOnly    bool
	ApplicableCategories  []uuid.UUID
	ApplicableServices    []uuid.UUID
	IsActive              bool
}

func scanCoupon(row interface{ Scan(...interface{}) error }) (Coupon, error) {
	var i Coupon
	err := row.Scan(
		&i.ID,
		&i.Code,
		&i.DiscountType,
		&i.DiscountValue,
		&i.MinimumOrderAmount,
		&i.MaximumDiscountAmount,
		&i.ValidFrom,
		&i.ValidUntil,
		&i.UsageLimit,
		&i.UsageLimitPerUser,
		&i.UsageCount,
		&i.FirstTimeUsersOnly,
		&i.ApplicableCategories,
		&i.ApplicableServices,
		&i.IsActive,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

func (q *Queries) InsertCoupon(c context.Context, arg InsertCouponParams) (Coupon, error) {
	row := q.db.QueryRow(
		c,
		insertCoupon,
		arg.ID,
		arg.Code,
		arg.DiscountType,
		arg.DiscountValue,
		arg.MinimumOrderAmount,
		arg.MaximumDiscountAmount,
		arg.ValidFrom,
		arg.ValidUntil,
		arg.UsageLimit,
		arg.UsageLimitPerUser,
		arg.FirstTimeUsersOnly,
		arg.ApplicableCategories,
		arg.ApplicableServices,
		arg.IsActive,
	)
	return scanCoupon(row)
}

const findCouponByCode = `
SELECT ` + couponColumns + `
FROM coupons
WHERE code = $1
`

func (q *Queries) FindCouponByCode(c context.Context, code string) (Coupon, error) {
	return scanCoupon(q.db.QueryRow(c, findCouponByCode, code))
}

const findCoupons = `
SELECT ` + couponColumns + `
FROM coupons
ORDER BY created_at DESC
`

func (q *Queries) FindCoupons(c context.Context) ([]Coupon, error) {
	rows, err := q.db.Query(c, findCoupons)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Coupon{}
	for rows.Next() {
		i, err := scanCoupon(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const countCouponUsagesByUser = `
SELECT count(*)
FROM coupon_usages
WHERE coupon_id = $1 AND user_id = $2
`

type CountCouponUsagesByUserParams struct {
	CouponID uuid.UUID
	UserID   uuid.UUID
}

func (q *Queries) CountCouponUsagesByUser(
	c context.Context,
	arg CountCouponUsagesByUserParams,
) (int64, error) {
	var count int64
	err := q.db.QueryRow(c, countCouponUsagesByUser, arg.CouponID, arg.UserID).Scan(&count)
	return count, err
}

const countOrdersByUser = `
SELECT count(*)
FROM orders
WHERE user_id = $1
`

func (q *Queries) CountOrdersByUser(c context.Context, userId uuid.UUID) (int64, error) {
	var count int64
	err := q.db.QueryRow(c, countOrdersByUser, userId).Scan(&count)
	return count, err
}
