package dto

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mkiss03/utazasparizsbaoff-sub000/internal/domains/tour/model"
	"github.com/mkiss03/utazasparizsbaoff-sub000/shared"
	"github.com/mkiss03/utazasparizsbaoff-sub000/shared/constant"
	gDto "github.com/mkiss03/utazasparizsbaoff-sub000/shared/dto"
	gModel "github.com/mkiss03/utazasparizsbaoff-sub000/shared/model"
	"github.com/mkiss03/utazasparizsbaoff-sub000/shared/timezone"
)

type CreateTourRequest struct {
	Title           string `json:"title"            validate:"required,max=200"`
	TourDate        string `json:"tour_date"        validate:"required"`
	StartTime       string `json:"start_time"       validate:"required"`
	DurationMinutes int    `json:"duration_minutes" validate:"required,gt=0"`
	MinParticipants int    `json:"min_participants" validate:"required,gt=0"`
	MaxParticipants int    `json:"max_participants" validate:"required,gtefield=MinParticipants"`
	PricePerPerson  string `json:"price_per_person" validate:"required"`
}

func (c *CreateTourRequest) ToModel(user string) (model.Tour, error) {
	tourDate, err := timezone.Parse(constant.DateOnlyFormat, c.TourDate)
	if err != nil {
		return model.Tour{}, fmt.Errorf("invalid tour date: %w", err)
	}

	startTime, err := timezone.Parse(constant.TimeOnlyFormat, c.StartTime)
	if err != nil {
		return model.Tour{}, fmt.Errorf("invalid start time: %w", err)
	}

	price, err := decimal.NewFromString(c.PricePerPerson)
	if err != nil {
		return model.Tour{}, fmt.Errorf("invalid price: %w", err)
	}

	if price.IsNegative() {
		return model.Tour{}, fmt.Errorf("price must not be negative")
	}

	return model.Tour{
		ID:              uuid.NewString(),
		Title:           c.Title,
		Slug:            shared.Slugify(c.Title, tourDate),
		TourDate:        tourDate,
		StartTime:       startTime,
		DurationMinutes: c.DurationMinutes,
		MinParticipants: c.MinParticipants,
		MaxParticipants: c.MaxParticipants,
		PricePerPerson:  price,
		Status:          model.StatusDraft,
		CurrentBookings: 0,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}, nil
}

type UpdateTourRequest struct {
	Title           string `db:"title"            json:"title"            validate:"omitempty,max=200"`
	TourDate        string `json:"tour_date"        validate:"omitempty"`
	StartTime       string `json:"start_time"       validate:"omitempty"`
	DurationMinutes int    `db:"duration_minutes" json:"duration_minutes" validate:"omitempty,gt=0"`
	MinParticipants int    `db:"min_participants" json:"min_participants" validate:"omitempty,gt=0"`
	MaxParticipants int    `db:"max_participants" json:"max_participants" validate:"omitempty,gt=0"`
	PricePerPerson  string `json:"price_per_person" validate:"omitempty"`
}

type CancelTourRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

type TourResponse struct {
	ID                 string `json:"id"`
	Title              string `json:"title"`
	Slug               string `json:"slug"`
	TourDate           string `json:"tour_date"`
	StartTime          string `json:"start_time"`
	DurationMinutes    int    `json:"duration_minutes"`
	MinParticipants    int    `json:"min_participants"`
	MaxParticipants    int    `json:"max_participants"`
	PricePerPerson     string `json:"price_per_person"`
	Status             string `json:"status"`
	CancellationReason string `json:"cancellation_reason,omitempty"`
	CurrentBookings    int    `json:"current_bookings"`
	AvailableSeats     int    `json:"available_seats"`
	gDto.Metadata
}

func (r *TourResponse) FromModel(model model.Tour) {
	r.ID = model.ID
	r.Title = model.Title
	r.Slug = model.Slug
	r.TourDate = model.TourDate.Format(constant.DateOnlyFormat)
	r.StartTime = model.StartTime.Format(constant.TimeOnlyFormat)
	r.DurationMinutes = model.DurationMinutes
	r.MinParticipants = model.MinParticipants
	r.MaxParticipants = model.MaxParticipants
	r.PricePerPerson = model.PricePerPerson.StringFixed(2)
	r.Status = string(model.Status)
	r.CancellationReason = model.CancellationReason
	r.CurrentBookings = model.CurrentBookings
	r.AvailableSeats = model.AvailableSeats()
	r.Metadata.FromModel(model.Metadata)
}

// TourEvent is the payload published to the event stream when a tour is
// cancelled, carrying how many bookings the cascade swept along.
type TourEvent struct {
	Type              string `json:"type"`
	TourID            string `json:"tour_id"`
	Reason            string `json:"reason"`
	CancelledBookings int64  `json:"cancelled_bookings"`
}

const EventTourCancelled = "tour.cancelled"

type GetToursResponse struct {
	Tours     []TourResponse `json:"tours"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetToursResponse) FromModels(models []model.Tour, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Tours = make([]TourResponse, len(models))
	for i, mod := range models {
		r.Tours[i].FromModel(mod)
	}
}
