package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const insertCategory = `
INSERT INTO service_categories (id, name, description)
VALUES ($1, $2, $3)
RETURNING id, name, description, created_at, updated_at
`

type InsertCategoryParams struct {
	ID          uuid.UUID
	Name        string
	Description pgtype.Text
}

func (q *Queries) InsertCategory(
	c context.Context,
	arg InsertCategoryParams,
) (ServiceCategory, error) {
	row := q.db.QueryRow(c, insertCategory, arg.ID, arg.Name, arg.Description)
	var i ServiceCategory
	err := row.Scan(&i.ID, &i.Name, &i.Description, &i.CreatedAt, &i.UpdatedAt)
	return i, err
}

const findCategoryById = `
SELECT id, name, description, created_at, updated_at
FROM service_categories
WHERE id = $1
`

func (q *Queries) FindCategoryById(c context.Context, id uuid.UUID) (ServiceCategory, error) {
	row := q.db.QueryRow(c, findCategoryById, id)
	var i ServiceCategory
	err := row.Scan(&i.ID, &i.Name, &i.Description, &i.CreatedAt, &i.UpdatedAt)
	return i, err
}

const findCategories = `
SELECT id, name, description, created_at, updated_at
FROM service_categories
ORDER BY name
`

func (q *Queries) FindCategories(c context.Context) ([]ServiceCategory, error) {
	rows, err := q.db.Query(c, findCategories)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []ServiceCategory{}
	for rows.Next() {
		var i ServiceCategory
		if err := rows.Scan(&i.ID, &i.Name, &i.Description, &i.CreatedAt, &i.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}
