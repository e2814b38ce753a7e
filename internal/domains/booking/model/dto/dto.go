package dto

import (
	"github.com/mkiss03/utazasparizsbaoff-sub000/internal/domains/booking/model"
	"github.com/mkiss03/utazasparizsbaoff-sub000/shared"
	gDto "github.com/mkiss03/utazasparizsbaoff-sub000/shared/dto"
)

type CreateBookingRequest struct {
	TourID          string `json:"tour_id"          validate:"required"`
	GuestName       string `json:"guest_name"       validate:"required,max=100"`
	GuestEmail      string `json:"guest_email"      validate:"required,email,max=100"`
	GuestPhone      string `json:"guest_phone"      validate:"omitempty,max=20"`
	NumParticipants int    `json:"num_participants" validate:"required,min=1"`
}

type BookingResponse struct {
	ID              string `json:"id"`
	OrderNumber     string `json:"order_number"`
	TourID          string `json:"tour_id"`
	GuestName       string `json:"guest_name"`
	GuestEmail      string `json:"guest_email"`
	GuestPhone      string `json:"guest_phone"`
	NumParticipants int    `json:"num_participants"`
	TotalAmount     string `json:"total_amount"`
	PaymentStatus   string `json:"payment_status"`
	BookingStatus   string `json:"booking_status"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(model model.Booking) {
	r.ID = model.ID
	r.OrderNumber = model.OrderNumber
	r.TourID = model.TourID
	r.GuestName = model.GuestName
	r.GuestEmail = model.GuestEmail
	r.GuestPhone = model.GuestPhone
	r.NumParticipants = model.NumParticipants
	r.TotalAmount = model.TotalAmount.StringFixed(2)
	r.PaymentStatus = string(model.PaymentStatus)
	r.BookingStatus = string(model.BookingStatus)
	r.Metadata.FromModel(model.Metadata)
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}

// BookingEvent is the payload published to the event stream when a booking
// is confirmed or cancelled.
type BookingEvent struct {
	Type            string `json:"type"`
	BookingID       string `json:"booking_id"`
	OrderNumber     string `json:"order_number"`
	TourID          string `json:"tour_id"`
	NumParticipants int    `json:"num_participants"`
	TotalAmount     string `json:"total_amount"`
}

const (
	EventBookingConfirmed = "booking.confirmed"
	EventBookingCancelled = "booking.cancelled"
)
