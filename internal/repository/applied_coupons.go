package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const upsertAppliedCoupon = `
INSERT INTO applied_coupons (owner_kind, owner_id, code, discount_amount, applied_at)
VALUES ($1, $2, $3, $4, now())
ON CONFLICT (owner_kind, owner_id)
DO UPDATE SET code = $3, discount_amount = $4, applied_at = now()
RETURNING owner_kind, owner_id, code, discount_amount, applied_at
`

type UpsertAppliedCouponParams struct {
	OwnerKind      string
	OwnerID        uuid.UUID
	Code           string
	DiscountAmount pgtype.Numeric
}

func (q *Queries) UpsertAppliedCoupon(
	c context.Context,
	arg UpsertAppliedCouponParams,
) (AppliedCoupon, error) {
	row := q.db.QueryRow(
		c,
		upsertAppliedCoupon,
		arg.OwnerKind,
		arg.OwnerID,
		arg.Code,
		arg.DiscountAmount,
	)
	var i AppliedCoupon
	err := row.Scan(&i.OwnerKind, &i.OwnerID, &i.Code, &i.DiscountAmount, &i.AppliedAt)
	return i, err
}

const findAppliedCouponByOwner = `
SELECT owner_kind, owner_id, code, discount_amount, applied_at
FROM applied_coupons
WHERE owner_kind = $1 AND owner_id = $2
`

type FindAppliedCouponByOwnerParams struct {
	OwnerKind string
	OwnerID   uuid.UUID
}

func (q *Queries) FindAppliedCouponByOwner(
	c context.Context,
	arg FindAppliedCouponByOwnerParams,
) (AppliedCoupon, error) {
	row := q.db.QueryRow(c, findAppliedCouponByOwner, arg.OwnerKind, arg.OwnerID)
	var i AppliedCoupon
	err := row.Scan(&i.OwnerKind, &i.OwnerID, &i.Code, &i.DiscountAmount, &i.AppliedAt)
	return i, err
}

const deleteAppliedCouponByOwner = `
DELETE FROM applied_coupons
WHERE owner_kind = $1 AND owner_id = $2
`

type DeleteAppliedCouponByOwnerParams struct {
	OwnerKind string
	OwnerID   uuid.UUID
}

func (q *Queries) DeleteAppliedCouponByOwner(
	c context.Context,
	arg DeleteAppliedCouponByOwnerParams,
) (int64, error) {
	tag, err := q.db.Exec(c, deleteAppliedCouponByOwner, arg.OwnerKind, arg.OwnerID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
