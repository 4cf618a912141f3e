package gen

import (
	"context"
	"database/sql"
)

const createHoliday = `-- name: CreateHoliday :exec
INSERT INTO holidays (id, title, date, description, is_recurring, created_at, updated_at)
VALUES (?1, ?2, ?3, ?4, ?5, ?6, ?6)
`

type CreateHolidayParams struct {
	ID          string
	Title       string
	Date        string
	Description sql.NullString
	IsRecurring bool
	CreatedAt   string
}

func (q *Queries) CreateHoliday(ctx context.Context, arg CreateHolidayParams) error {
	_, err := q.db.ExecContext(ctx, createHoliday,
		arg.ID,
		arg.Title,
		arg.Date,
		arg.Description,
		arg.IsRecurring,
		arg.CreatedAt,
	)
	return err
}

const deleteHoliday = `-- name: DeleteHoliday :execrows
DELETE FROM holidays
WHERE id = ?1
`

func (q *Queries) DeleteHoliday(ctx context.Context, id string) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteHoliday, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const getHoliday = `-- name: GetHoliday :one
SELECT id, title, date, description, is_recurring, created_at, updated_at
FROM holidays
WHERE id = ?1
`

func (q *Queries) GetHoliday(ctx context.Context, id string) (Holiday, error) {
	row := q.db.QueryRowContext(ctx, getHoliday, id)
	var i Holiday
	err := row.Scan(
		&i.ID,
		&i.Title,
		&i.Date,
		&i.Description,
		&i.IsRecurring,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const listHolidays = `-- name: ListHolidays :many
SELECT id, title, date, description, is_recurring, created_at, updated_at
FROM holidays
WHERE ?1 IS NULL OR substr(date, 1, 4) = ?1 OR is_recurring = 1
ORDER BY date ASC, id ASC
`

func (q *Queries) ListHolidays(ctx context.Context, year sql.NullString) ([]Holiday, error) {
	rows, err := q.db.QueryContext(ctx, listHolidays, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Holiday
	for rows.Next() {
		var i Holiday
		if err := rows.Scan(
			&i.ID,
			&i.Title,
			&i.Date,
			&i.Description,
			&i.IsRecurring,
			&i.CreatedAt,
			&i.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const updateHoliday = `-- name: UpdateHoliday :execrows
UPDATE holidays
SET title = ?1, date = ?2, description = ?3, is_recurring = ?4, updated_at = ?5
WHERE id = ?6
`

type UpdateHolidayParams struct {
	Title       string
	Date        string
	Description sql.NullString
	IsRecurring bool
	UpdatedAt   string
	ID          string
}

func (q *Queries) UpdateHoliday(ctx context.Context, arg UpdateHolidayParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateHoliday,
		arg.Title,
		arg.Date,
		arg.Description,
		arg.IsRecurring,
		arg.UpdatedAt,
		arg.ID,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
