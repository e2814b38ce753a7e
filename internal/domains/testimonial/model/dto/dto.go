package dto

import (
	"github.com/google/uuid"

	"github.com/mkiss03/utazasparizsbaoff-sub000/internal/domains/testimonial/model"
	"github.com/mkiss03/utazasparizsbaoff-sub000/shared"
	gDto "github.com/mkiss03/utazasparizsbaoff-sub000/shared/dto"
	gModel "github.com/mkiss03/utazasparizsbaoff-sub000/shared/model"
	"github.com/mkiss03/utazasparizsbaoff-sub000/shared/timezone"
)

type CreateTestimonialRequest struct {
	GuestName string `json:"guest_name" validate:"required,max=100"`
	Quote     string `json:"quote"      validate:"required,max=1000"`
	Rating    int    `json:"rating"     validate:"required,min=1,max=5"`
}

func (c *CreateTestimonialRequest) ToModel(position int, user string) model.Testimonial {
	return model.Testimonial{
		ID:          uuid.NewString(),
		GuestName:   c.GuestName,
		Quote:       c.Quote,
		Rating:      c.Rating,
		Position:    position,
		IsPublished: false,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateTestimonialRequest struct {
	GuestName   string `db:"guest_name"   json:"guest_name"   validate:"omitempty,max=100"`
	Quote       string `db:"quote"        json:"quote"        validate:"omitempty,max=1000"`
	Rating      int    `db:"rating"       json:"rating"       validate:"omitempty,min=1,max=5"`
	IsPublished *bool  `db:"is_published" json:"is_published" validate:"omitempty"`
}

type MoveTestimonialRequest struct {
	Position int `json:"position" validate:"required,min=1"`
}

type TestimonialResponse struct {
	ID          string `json:"id"`
	GuestName   string `json:"guest_name"`
	Quote       string `json:"quote"`
	Rating      int    `json:"rating"`
	Position    int    `json:"position"`
	IsPublished bool   `json:"is_published"`
	gDto.Metadata
}

func (r *TestimonialResponse) FromModel(model model.Testimonial) {
	r.ID = model.ID
	r.GuestName = model.GuestName
	r.Quote = model.Quote
	r.Rating = model.Rating
	r.Position = model.Position
	r.IsPublished = model.IsPublished
	r.Metadata.FromModel(model.Metadata)
}

type GetTestimonialsResponse struct {
	Testimonials []TestimonialResponse `json:"testimonials"`
	TotalPage    int                   `json:"total_page"`
	TotalData    int                   `json:"total_data"`
}

func (r *GetTestimonialsResponse) FromModels(models []model.Testimonial, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Testimonials = make([]TestimonialResponse, len(models))
	for i, mod := range models {
		r.Testimonials[i].FromModel(mod)
	}
}
