package dto_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/mkiss03/utazasparizsbaoff-sub000/internal/domains/tour/model"
	"github.com/mkiss03/utazasparizsbaoff-sub000/internal/domains/tour/model/dto"
	gModel "github.com/mkiss03/utazasparizsbaoff-sub000/shared/model"
)

func TestCreateTourRequest_ToModel(t *testing.T) {
	tests := []struct {
		name    string
		req     dto.CreateTourRequest
		wantErr bool
	}{
		{
			name: "valid request",
			req: dto.CreateTourRequest{
				Title:           "Montmartre at Dusk",
				TourDate:        "2026-10-01",
				StartTime:       "18:30",
				DurationMinutes: 120,
				MinParticipants: 2,
				MaxParticipants: 12,
				PricePerPerson:  "25.00",
			},
			wantErr: false,
		},
		{
			name: "invalid date",
			req: dto.CreateTourRequest{
				Title:           "Montmartre at Dusk",
				TourDate:        "01-10-2026",
				StartTime:       "18:30",
				DurationMinutes: 120,
				MinParticipants: 2,
				MaxParticipants: 12,
				PricePerPerson:  "25.00",
			},
			wantErr: true,
		},
		{
			name: "invalid start time",
			req: dto.CreateTourRequest{
				Title:           "Montmartre at Dusk",
				TourDate:        "2026-10-01",
				StartTime:       "6:30pm",
				DurationMinutes: 120,
				MinParticipants: 2,
				MaxParticipants: 12,
				PricePerPerson:  "25.00",
			},
			wantErr: true,
		},
		{
			name: "unparseable price",
			req: dto.CreateTourRequest{
				Title:           "Montmartre at Dusk",
				TourDate:        "2026-10-01",
				StartTime:       "18:30",
				DurationMinutes: 120,
				MinParticipants: 2,
				MaxParticipants: 12,
				PricePerPerson:  "twenty-five",
			},
			wantErr: true,
		},
		{
			name: "negative price",
			req: dto.CreateTourRequest{
				Title:           "Montmartre at Dusk",
				TourDate:        "2026-10-01",
				StartTime:       "18:30",
				DurationMinutes: 120,
				MinParticipants: 2,
				MaxParticipants: 12,
				PricePerPerson:  "-25.00",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tour, err := tt.req.ToModel("operator-1")

			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			assert.NoError(t, err)
			assert.NotEmpty(t, tour.ID)
			assert.Equal(t, model.StatusDraft, tour.Status)
			assert.Equal(t, 0, tour.CurrentBookings)
			assert.Equal(t, "montmartre-at-dusk-2026-10-01", tour.Slug)
			assert.True(t, tour.PricePerPerson.Equal(decimal.RequireFromString("25.00")))
			assert.Equal(t, "operator-1", tour.CreatedBy)
		})
	}
}

func TestTourResponse_FromModel(t *testing.T) {
	tour := model.Tour{
		ID:              "tour-1",
		Title:           "Montmartre at Dusk",
		Slug:            "montmartre-at-dusk-2026-10-01",
		TourDate:        time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		StartTime:       time.Date(0, 1, 1, 18, 30, 0, 0, time.UTC),
		DurationMinutes: 120,
		MinParticipants: 2,
		MaxParticipants: 12,
		PricePerPerson:  decimal.RequireFromString("25.5"),
		Status:          model.StatusPublished,
		CurrentBookings: 4,
		Metadata: gModel.Metadata{
			CreatedBy:  "operator-1",
			ModifiedBy: "operator-1",
		},
	}

	var res dto.TourResponse
	res.FromModel(tour)

	assert.Equal(t, "tour-1", res.ID)
	assert.Equal(t, "2026-10-01", res.TourDate)
	assert.Equal(t, "18:30", res.StartTime)
	assert.Equal(t, "25.50", res.PricePerPerson)
	assert.Equal(t, "published", res.Status)
	assert.Equal(t, 8, res.AvailableSeats)
	assert.Empty(t, res.CancellationReason)
}

func TestGetToursResponse_FromModels(t *testing.T) {
	models := []model.Tour{
		{ID: "tour-1", PricePerPerson: decimal.Zero},
		{ID: "tour-2", PricePerPerson: decimal.Zero},
	}

	var res dto.GetToursResponse
	res.FromModels(models, 12, 10)

	assert.Len(t, res.Tours, 2)
	assert.Equal(t, 12, res.TotalData)
	assert.Equal(t, 2, res.TotalPage)
	assert.Equal(t, "tour-1", res.Tours[0].ID)
}
