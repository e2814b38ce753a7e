package model

import (
	"github.com/shopspring/decimal"

	"github.com/mkiss03/utazasparizsbaoff-sub000/shared/model"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID              = "id"
	FieldOrderNumber     = "order_number"
	FieldTourID          = "tour_id"
	FieldGuestName       = "guest_name"
	FieldGuestEmail      = "guest_email"
	FieldGuestPhone      = "guest_phone"
	FieldNumParticipants = "num_participants"
	FieldTotalAmount     = "total_amount"
	FieldPaymentStatus   = "payment_status"
	FieldBookingStatus   = "booking_status"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentRefunded  PaymentStatus = "refunded"
)

type BookingStatus string

const (
	StatusConfirmed        BookingStatus = "confirmed"
	StatusCancelledByAdmin BookingStatus = "cancelled_by_admin"
	StatusCancelledByGuest BookingStatus = "cancelled_by_guest"
)

type Booking struct {
	ID              string          `db:"id"`
	OrderNumber     string          `db:"order_number"`
	TourID          string          `db:"tour_id"`
	GuestName       string          `db:"guest_name"`
	GuestEmail      string          `db:"guest_email"`
	GuestPhone      string          `db:"guest_phone"`
	NumParticipants int             `db:"num_participants"`
	TotalAmount     decimal.Decimal `db:"total_amount"`
	PaymentStatus   PaymentStatus   `db:"payment_status"`
	BookingStatus   BookingStatus   `db:"booking_status"`
	model.Metadata
}
