package domain

import "time"

// HolidayDateLayout is the only accepted holiday date format.
const HolidayDateLayout = "2006-01-02"

type Holiday struct {
	ID          string    `json:"holidayId"`
	Title       string    `json:"title"`
	Date        string    `json:"date"`
	Description *string   `json:"description,omitempty"`
	IsRecurring bool      `json:"isRecurring"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type CreateHolidayInput struct {
	Title       string
	Date        string
	Description *string
	IsRecurring bool
}

// HolidayPatch is a partial update; nil fields are kept.
type HolidayPatch struct {
	Title       *string
	Date        *string
	Description *string
	IsRecurring *bool
}

func (p HolidayPatch) Apply(h Holiday) Holiday {
	if p.Title != nil {
		h.Title = *p.Title
	}
	if p.Date != nil {
		h.Date = *p.Date
	}
	if p.Description != nil {
		h.Description = p.Description
	}
	if p.IsRecurring != nil {
		h.IsRecurring = *p.IsRecurring
	}
	return h
}
