package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/aussiebroadwan/taskboard/internal/todo/domain"
	"github.com/aussiebroadwan/taskboard/internal/todo/store/drivers/sqlite/gen"
)

type holidaysRepo struct {
	q *gen.Queries
}

func (r *holidaysRepo) ListHolidays(ctx context.Context, year *int) ([]domain.Holiday, error) {
	var y sql.NullString
	if year != nil {
		y = sql.NullString{String: fmt.Sprintf("%04d", *year), Valid: true}
	}

	rows, err := r.q.ListHolidays(ctx, y)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Holiday, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapHoliday(row))
	}
	return out, nil
}

func (r *holidaysRepo) GetHoliday(ctx context.Context, id string) (domain.Holiday, error) {
	row, err := r.q.GetHoliday(ctx, id)
	if err != nil {
		return domain.Holiday{}, mapNotFound(err)
	}
	return mapHoliday(row), nil
}

func (r *holidaysRepo) CreateHoliday(ctx context.Context, h domain.Holiday) error {
	if h.CreatedAt.IsZero() {
		h.CreatedAt = time.Now()
	}
	return r.q.CreateHoliday(ctx, gen.CreateHolidayParams{
		ID:          h.ID,
		Title:       h.Title,
		Date:        h.Date,
		Description: mapOptionalString(h.Description),
		IsRecurring: h.IsRecurring,
		CreatedAt:   formatTime(h.CreatedAt),
	})
}

func (r *holidaysRepo) UpdateHoliday(ctx context.Context, h domain.Holiday) error {
	if h.UpdatedAt.IsZero() {
		h.UpdatedAt = time.Now()
	}
	return mapRowsAffected(r.q.UpdateHoliday(ctx, gen.UpdateHolidayParams{
		Title:       h.Title,
		Date:        h.Date,
		Description: mapOptionalString(h.Description),
		IsRecurring: h.IsRecurring,
		UpdatedAt:   formatTime(h.UpdatedAt),
		ID:          h.ID,
	}))
}

func (r *holidaysRepo) DeleteHoliday(ctx context.Context, id string) error {
	return mapRowsAffected(r.q.DeleteHoliday(ctx, id))
}
