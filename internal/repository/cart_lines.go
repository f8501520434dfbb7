package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const findCartLinesByOwner = `
SELECT id, owner_kind, owner_id, service_id, variant_id, category_id, quantity, unit_price, created_at, updated_at
FROM cart_lines
WHERE owner_kind = $1 AND owner_id = $2
ORDER BY created_at DESC
`

type FindCartLinesByOwnerParams struct {
	OwnerKind string
	OwnerID   uuid.UUID
}

func (q *Queries) FindCartLinesByOwner(
	c context.Context,
	arg FindCartLinesByOwnerParams,
) ([]CartLine, error) {
	rows, err := q.db.Query(c, findCartLinesByOwner, arg.OwnerKind, arg.OwnerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []CartLine{}
	for rows.Next() {
		var i CartLine
		if err := rows.Scan(
			&i.ID,
			&i.OwnerKind,
			&i.OwnerID,
			&i.ServiceID,
			&i.VariantID,
			&i.CategoryID,
			&i.Quantity,
			&i.UnitPrice,
			&i.CreatedAt,
			&i.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const findCartLineDetailsByOwner = `
SELECT cl.id, cl.owner_kind, cl.owner_id, cl.service_id, cl.variant_id, cl.category_id, cl.quantity, cl.unit_price, cl.created_at, cl.updated_at,
       s.gst_percentage
FROM cart_lines cl
JOIN services s ON s.id = cl.service_id
WHERE cl.owner_kind = $1 AND cl.owner_id = $2
ORDER BY cl.created_at DESC
`

type FindCartLineDetailsByOwnerParams struct {
	OwnerKind string
	OwnerID   uuid.UUID
}

type FindCartLineDetailsByOwnerRow struct {
	ID            uuid.UUID
	OwnerKind     string
	OwnerID       uuid.UUID
	ServiceID     uuid.UUID
	VariantID     uuid.NullUUID
	CategoryID    uuid.UUID
	Quantity      int32
	UnitPrice     pgtype.Numeric
	CreatedAt     pgtype.Timestamptz
	UpdatedAt     pgtype.Timestamptz
	GstPercentage pgtype.Numeric
}

func (q *Queries) FindCartLineDetailsByOwner(
	c context.Context,
	arg FindCartLineDetailsByOwnerParams,
) ([]FindCartLineDetailsByOwnerRow, error) {
	rows, err := q.db.Query(c, findCartLineDetailsByOwner, arg.OwnerKind, arg.OwnerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []FindCartLineDetailsByOwnerRow{}
	for rows.Next() {
		var i FindCartLineDetailsByOwnerRow
		if err := rows.Scan(
			&i.ID,
			&i.OwnerKind,
			&i.OwnerID,
			&i.ServiceID,
			&i.VariantID,
			&i.CategoryID,
			&i.Quantity,
			&i.UnitPrice,
			&i.CreatedAt,
			&i.UpdatedAt,
			&i.GstPercentage,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const findCartLineByOwnerAndService = `
SELECT id, owner_kind, owner_id, service_id, variant_id, category_id, quantity, unit_price, created_at, updated_at
FROM cart_lines
WHERE owner_kind = $1
  AND owner_id = $2
  AND service_id = $3
  AND variant_id IS NOT DISTINCT FROM $4
`

type FindCartLineByOwnerAndServiceParams struct {
	OwnerKind string
	OwnerID   uuid.UUID
	ServiceID uuid.UUID
	VariantID uuid.NullUUID
}

func (q *Queries) FindCartLineByOwnerAndService(
	c context.Context,
	arg FindCartLineByOwnerAndServiceParams,
) (CartLine, error) {
	row := q.db.QueryRow(
		c,
		findCartLineByOwnerAndService,
		arg.OwnerKind,
		arg.OwnerID,
		arg.ServiceID,
		arg.VariantID,
	)
	var i CartLine
	err := row.Scan(
		&i.ID,
		&i.OwnerKind,
		&i.OwnerID,
		&i.ServiceID,
		&i.VariantID,
		&i.CategoryID,
		&i.Quantity,
		&i.UnitPrice,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const insertCartLine = `
INSERT INTO cart_lines (id, owner_kind, owner_id, service_id, variant_id, category_id, quantity, unit_price)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id, owner_kind, owner_id, service_id, variant_id, category_id, quantity, unit_price, created_at, updated_at
`

type InsertCartLineParams struct {
	ID         uuid.UUID
	OwnerKind  string
	OwnerID    uuid.UUID
	ServiceID  uuid.UUID
	VariantID  uuid.NullUUID
	CategoryID uuid.UUID
	Quantity   int32
	UnitPrice  pgtype.Numeric
}

func (q *Queries) InsertCartLine(c context.Context, arg InsertCartLineParams) (CartLine, error) {
	row := q.db.QueryRow(
		c,
		insertCartLine,
		arg.ID,
		arg.OwnerKind,
		arg.OwnerID,
		arg.ServiceID,
		arg.VariantID,
		arg.CategoryID,
		arg.Quantity,
		arg.UnitPrice,
	)
	var i CartLine
	err := row.Scan(
		&i.ID,
		&i.OwnerKind,
		&i.OwnerID,
		&i.ServiceID,
		&i.VariantID,
		&i.CategoryID,
		&i.Quantity,
		&i.UnitPrice,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const addCartLineQuantity = `
UPDATE cart_lines
SET quantity = quantity + $4, updated_at = now()
WHERE id = $1 AND owner_kind = $2 AND owner_id = $3
RETURNING id, owner_kind, owner_id, service_id, variant_id, category_id, quantity, unit_price, created_at, updated_at
`

type AddCartLineQuantityParams struct {
	ID        uuid.UUID
	OwnerKind string
	OwnerID   uuid.UUID
	Quantity  int32
}

func (q *Queries) AddCartLineQuantity(
	c context.Context,
	arg AddCartLineQuantityParams,
) (CartLine, error) {
	row := q.db.QueryRow(c, addCartLineQuantity, arg.ID, arg.OwnerKind, arg.OwnerID, arg.Quantity)
	var i CartLine
	err := row.Scan(
		&i.ID,
		&i.OwnerKind,
		&i.OwnerID,
		&i.ServiceID,
		&i.VariantID,
		&i.CategoryID,
		&i.Quantity,
		&i.UnitPrice,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const updateCartLineQuantity = `
UPDATE cart_lines
SET quantity = $4, updated_at = now()
WHERE id = $1 AND owner_kind = $2 AND owner_id = $3
`

type UpdateCartLineQuantityParams struct {
	ID        uuid.UUID
	OwnerKind string
	OwnerID   uuid.UUID
	Quantity  int32
}

func (q *Queries) UpdateCartLineQuantity(
	c context.Context,
	arg UpdateCartLineQuantityParams,
) (int64, error) {
	tag, err := q.db.Exec(c, updateCartLineQuantity, arg.ID, arg.OwnerKind, arg.OwnerID, arg.Quantity)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

const deleteCartLine = `
DELETE FROM cart_lines
WHERE id = $1 AND owner_kind = $2 AND owner_id = $3
`

type DeleteCartLineParams struct {
	ID        uuid.UUID
	OwnerKind string
	OwnerID   uuid.UUID
}

func (q *Queries) DeleteCartLine(c context.Context, arg DeleteCartLineParams) (int64, error) {
	tag, err := q.db.Exec(c, deleteCartLine, arg.ID, arg.OwnerKind, arg.OwnerID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

const deleteCartLinesByOwner = `
DELETE FROM cart_lines
WHERE owner_kind = $1 AND owner_id = $2
`

type DeleteCartLinesByOwnerParams struct {
	OwnerKind string
	OwnerID   uuid.UUID
}

func (q *Queries) DeleteCartLinesByOwner(
	c context.Context,
	arg DeleteCartLinesByOwnerParams,
) (int64, error) {
	tag, err := q.db.Exec(c, deleteCartLinesByOwner, arg.OwnerKind, arg.OwnerID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
