package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const insertService = `
INSERT INTO services (id, category_id, name, description, base_price, discounted_price, gst_percentage, is_active)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id, category_id, name, description, base_price, discounted_price, gst_percentage, is_active, created_at, updated_at
`

type InsertServiceParams struct {
	ID              uuid.UUID
	CategoryID      uuid.UUID
	Name            string
	Description     pgtype.Text
	BasePrice       pgtype.Numeric
	DiscountedPrice pgtype.Numeric
	GstPercentage   pgtype.Numeric
	IsActive        bool
}

func (q *Queries) InsertService(c context.Context, arg InsertServiceParams) (Service, error) {
	row := q.db.QueryRow(
		c,
		insertService,
		arg.ID,
		arg.CategoryID,
		arg.Name,
		arg.Description,
		arg.BasePrice,
		arg.DiscountedPrice,
		arg.GstPercentage,
		arg.IsActive,
	)
	var i Service
	err := row.Scan(
		&i.ID,
		&i.CategoryID,
		&i.Name,
		&i.Description,
		&i.BasePrice,
		&i.DiscountedPrice,
		&i.GstPercentage,
		&i.IsActive,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const findServiceById = `
SELECT id, category_id, name, description, base_price, discounted_price, gst_percentage, is_active, created_at, updated_at
FROM services
WHERE id = $1
`

func (q *Queries) FindServiceById(c context.Context, id uuid.UUID) (Service, error) {
	row := q.db.QueryRow(c, findServiceById, id)
	var i Service
	err := row.Scan(
		&i.ID,
		&i.CategoryID,
		&i.Name,
		&i.Description,
		&i.BasePrice,
		&i.DiscountedPrice,
		&i.GstPercentage,
		&i.IsActive,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const findServices = `
SELECT id, category_id, name, description, base_price, discounted_price, gst_percentage, is_active, created_at, updated_at
FROM services
WHERE is_active = true
  AND ($1::uuid IS NULL OR category_id = $1)
ORDER BY name
`

func (q *Queries) FindServices(c context.Context, categoryId uuid.NullUUID) ([]Service, error) {
	rows, err := q.db.Query(c, findServices, categoryId)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Service{}
	for rows.Next() {
		var i Service
		if err := rows.Scan(
			&i.ID,
			&i.CategoryID,
			&i.Name,
			&i.Description,
			&i.BasePrice,
			&i.DiscountedPrice,
			&i.GstPercentage,
			&i.IsActive,
			&i.CreatedAt,
			&i.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const updateService = `
UPDATE services
SET name = $2,
    description = $3,
    base_price = $4,
    discounted_price = $5,
    gst_percentage = $6,
    is_active = $7,
    updated_at = now()
WHERE id = $1
RETURNING id, category_id, name, description, base_price, discounted_price, gst_percentage, is_active, created_at, updated_at
`

type UpdateServiceParams struct {
	ID              uuid.UUID
	Name            string
	Description     pgtype.Text
	BasePrice       pgtype.Numeric
	DiscountedPrice pgtype.Numeric
	GstPercentage   pgtype.Numeric
	IsActive        bool
}

func (q *Queries) UpdateService(c context.Context, arg UpdateServiceParams) (Service, error) {
	row := q.db.QueryRow(
		c,
		updateService,
		arg.ID,
		arg.Name,
		arg.Description,
		arg.BasePrice,
		arg.DiscountedPrice,
		arg.GstPercentage,
		arg.IsActive,
	)
	var i Service
	err := row.Scan(
		&i.ID,
		&i.CategoryID,
		&i.Name,
		&i.Description,
		&i.BasePrice,
		&i.DiscountedPrice,
		&i.GstPercentage,
		&i.IsActive,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}
