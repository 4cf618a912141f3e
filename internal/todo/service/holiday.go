package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/aussiebroadwan/taskboard/internal/todo/domain"
	"github.com/aussiebroadwan/taskboard/internal/todo/store"
	"github.com/aussiebroadwan/taskboard/pkg/idx"
	"github.com/aussiebroadwan/taskboard/pkg/slogx"
)

const maxHolidayTitleChars = 100

// HolidayService serves the shared holiday calendar. Access control lives
// in the HTTP layer.
type HolidayService struct {
	Store store.Store

	// Now defaults to time.Now.
	Now func() time.Time
}

func (s *HolidayService) now() time.Time {
	if s.Now != nil {
		return storedTime(s.Now())
	}
	return storedTime(time.Now())
}

func validateHoliday(h domain.Holiday) error {
	return asValidationError(validation.ValidateStruct(&h,
		validation.Field(&h.Title, validation.Required, validation.RuneLength(1, maxHolidayTitleChars)),
		validation.Field(&h.Date, validation.Required, validation.Date(domain.HolidayDateLayout)),
	))
}

// List returns holidays dated in year plus every recurring holiday. A nil
// year lists them all.
func (s *HolidayService) List(ctx context.Context, year *int) ([]domain.Holiday, error) {
	holidays, err := s.Store.Holidays().ListHolidays(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("list holidays: %w", err)
	}
	return holidays, nil
}

func (s *HolidayService) Get(ctx context.Context, id string) (domain.Holiday, error) {
	h, err := s.Store.Holidays().GetHoliday(ctx, id)
	if err != nil {
		return domain.Holiday{}, mapHolidayErr(err)
	}
	return h, nil
}

func (s *HolidayService) Create(ctx context.Context, in domain.CreateHolidayInput) (domain.Holiday, error) {
	now := s.now()
	h := domain.Holiday{
		ID:          idx.New().String(),
		Title:       strings.TrimSpace(in.Title),
		Date:        strings.TrimSpace(in.Date),
		Description: in.Description,
		IsRecurring: in.IsRecurring,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := validateHoliday(h); err != nil {
		return domain.Holiday{}, err
	}

	if err := s.Store.Holidays().CreateHoliday(ctx, h); err != nil {
		return domain.Holiday{}, fmt.Errorf("create holiday: %w", err)
	}

	slogx.FromContext(ctx).Info("holiday created", slog.String("holiday_id", h.ID))
	return h, nil
}

func (s *HolidayService) Update(ctx context.Context, id string, patch domain.HolidayPatch) (domain.Holiday, error) {
	if patch.Title != nil {
		t := strings.TrimSpace(*patch.Title)
		patch.Title = &t
	}
	if patch.Date != nil {
		d := strings.TrimSpace(*patch.Date)
		patch.Date = &d
	}

	var updated domain.Holiday
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		current, err := tx.Holidays().GetHoliday(ctx, id)
		if err != nil {
			return err
		}

		next := patch.Apply(current)
		if err := validateHoliday(next); err != nil {
			return err
		}
		next.UpdatedAt = s.now()

		if err := tx.Holidays().UpdateHoliday(ctx, next); err != nil {
			return err
		}
		updated = next
		return nil
	})
	if err != nil {
		return domain.Holiday{}, mapHolidayErr(err)
	}

	slogx.FromContext(ctx).Info("holiday updated", slog.String("holiday_id", id))
	return updated, nil
}

func (s *HolidayService) Delete(ctx context.Context, id string) error {
	if err := s.Store.Holidays().DeleteHoliday(ctx, id); err != nil {
		return mapHolidayErr(err)
	}
	slogx.FromContext(ctx).Info("holiday deleted", slog.String("holiday_id", id))
	return nil
}

func mapHolidayErr(err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return ErrHolidayNotFound
	case errors.Is(err, ErrValidation):
		return err
	default:
		return fmt.Errorf("holiday store: %w", err)
	}
}
