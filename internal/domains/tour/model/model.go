package model

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mkiss03/utazasparizsbaoff-sub000/shared/model"
)

const (
	TableName  = "tours"
	EntityName = "tour"

	FieldID                 = "id"
	FieldTitle              = "title"
	FieldSlug               = "slug"
	FieldTourDate           = "tour_date"
	FieldStartTime          = "start_time"
	FieldDurationMinutes    = "duration_minutes"
	FieldMinParticipants    = "min_participants"
	FieldMaxParticipants    = "max_participants"
	FieldPricePerPerson     = "price_per_person"
	FieldStatus             = "status"
	FieldCancellationReason = "cancellation_reason"
	FieldCurrentBookings    = "current_bookings"
)

type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

// Bookable reports whether a tour in this status accepts admissions. Keeping
// the predicate here means a future status cannot silently slip past the
// capacity gate.
func (s Status) Bookable() bool {
	return s == StatusPublished
}

type Tour struct {
	ID                 string          `db:"id"`
	Title              string          `db:"title"`
	Slug               string          `db:"slug"`
	TourDate           time.Time       `db:"tour_date"`
	StartTime          time.Time       `db:"start_time"`
	DurationMinutes    int             `db:"duration_minutes"`
	MinParticipants    int             `db:"min_participants"`
	MaxParticipants    int             `db:"max_participants"`
	PricePerPerson     decimal.Decimal `db:"price_per_person"`
	Status             Status          `db:"status"`
	CancellationReason string          `db:"cancellation_reason"`
	CurrentBookings    int             `db:"current_bookings"`
	model.Metadata
}

// AvailableSeats is the remaining admissible party size.
func (t *Tour) AvailableSeats() int {
	return t.MaxParticipants - t.CurrentBookings
}
