package model

import (
	"github.com/mkiss03/utazasparizsbaoff-sub000/shared/model"
)

const (
	TableName  = "testimonials"
	EntityName = "testimonial"

	FieldID          = "id"
	FieldGuestName   = "guest_name"
	FieldQuote       = "quote"
	FieldRating      = "rating"
	FieldPosition    = "position"
	FieldIsPublished = "is_published"
)

type Testimonial struct {
	ID          string `db:"id"`
	GuestName   string `db:"guest_name"`
	Quote       string `db:"quote"`
	Rating      int    `db:"rating"`
	Position    int    `db:"position"`
	IsPublished bool   `db:"is_published"`
	model.Metadata
}
