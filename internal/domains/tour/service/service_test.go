package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/mkiss03/utazasparizsbaoff-sub000/config"
	kafkaMocks "github.com/mkiss03/utazasparizsbaoff-sub000/infras/kafka/mocks"
	"github.com/mkiss03/utazasparizsbaoff-sub000/infras/otel/mocks"
	bookingMocks "github.com/mkiss03/utazasparizsbaoff-sub000/internal/domains/booking/mocks"
	tourMocks "github.com/mkiss03/utazasparizsbaoff-sub000/internal/domains/tour/mocks"
	"github.com/mkiss03/utazasparizsbaoff-sub000/internal/domains/tour/model"
	"github.com/mkiss03/utazasparizsbaoff-sub000/internal/domains/tour/model/dto"
	"github.com/mkiss03/utazasparizsbaoff-sub000/internal/domains/tour/service"
	cacheMocks "github.com/mkiss03/utazasparizsbaoff-sub000/shared/cache/mocks"
	gDto "github.com/mkiss03/utazasparizsbaoff-sub000/shared/dto"
	"github.com/mkiss03/utazasparizsbaoff-sub000/shared/failure"
)

func defaultQueryParams() gDto.QueryParams {
	return gDto.QueryParams{Page: 1, Limit: 10, SortBy: "created_at", SortDir: "DESC"}
}

type stubTransactor struct{}

func (s stubTransactor) WithTransaction(_ context.Context, fn func(tx *sqlx.Tx) error) error {
	return fn(nil)
}

type serviceMocks struct {
	repo        *tourMocks.MockTour
	bookingRepo *bookingMocks.MockBooking
	cache       *cacheMocks.MockRedisCache
	publisher   *kafkaMocks.MockPublisher
}

func newService(t *testing.T) (service.Tour, serviceMocks) {
	ctrl := gomock.NewController(t)

	m := serviceMocks{
		repo:        tourMocks.NewMockTour(ctrl),
		bookingRepo: bookingMocks.NewMockBooking(ctrl),
		cache:       cacheMocks.NewMockRedisCache(ctrl),
		publisher:   kafkaMocks.NewMockPublisher(ctrl),
	}

	m.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	m.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	m.publisher.EXPECT().SendMessages(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600
	cfg.Kafka.Topic.Events = "tour-events"

	svc := service.New(m.repo, m.bookingRepo, cfg, m.cache, mocks.NewOtel(), m.publisher, stubTransactor{})

	return svc, m
}

func draftTour(id string) model.Tour {
	return model.Tour{
		ID:              id,
		Title:           "Montmartre at Dusk",
		Slug:            "montmartre-at-dusk-2026-10-01",
		Status:          model.StatusDraft,
		MinParticipants: 2,
		MaxParticipants: 12,
		CurrentBookings: 0,
		PricePerPerson:  decimal.RequireFromString("25.00"),
	}
}

func TestTourService_Create(t *testing.T) {
	tests := []struct {
		name      string
		req       dto.CreateTourRequest
		setupMock func(m serviceMocks)
		wantErr   bool
		wantCode  int
	}{
		{
			name: "successful creation starts in draft",
			req: dto.CreateTourRequest{
				Title:           "Montmartre at Dusk",
				TourDate:        "2026-10-01",
				StartTime:       "18:30",
				DurationMinutes: 120,
				MinParticipants: 2,
				MaxParticipants: 12,
				PricePerPerson:  "25.00",
			},
			setupMock: func(m serviceMocks) {
				m.repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, tour model.Tour) error {
						assert.Equal(t, model.StatusDraft, tour.Status)
						assert.Equal(t, 0, tour.CurrentBookings)
						assert.Equal(t, "montmartre-at-dusk-2026-10-01", tour.Slug)

						return nil
					})
			},
			wantErr: false,
		},
		{
			name: "invalid date is a bad request",
			req: dto.CreateTourRequest{
				Title:           "Montmartre at Dusk",
				TourDate:        "01/10/2026",
				StartTime:       "18:30",
				DurationMinutes: 120,
				MinParticipants: 2,
				MaxParticipants: 12,
				PricePerPerson:  "25.00",
			},
			setupMock: func(m serviceMocks) {},
			wantErr:   true,
			wantCode:  http.StatusBadRequest,
		},
		{
			name: "negative price is a bad request",
			req: dto.CreateTourRequest{
				Title:           "Montmartre at Dusk",
				TourDate:        "2026-10-01",
				StartTime:       "18:30",
				DurationMinutes: 120,
				MinParticipants: 2,
				MaxParticipants: 12,
				PricePerPerson:  "-5.00",
			},
			setupMock: func(m serviceMocks) {},
			wantErr:   true,
			wantCode:  http.StatusBadRequest,
		},
		{
			name: "repository error",
			req: dto.CreateTourRequest{
				Title:           "Montmartre at Dusk",
				TourDate:        "2026-10-01",
				StartTime:       "18:30",
				DurationMinutes: 120,
				MinParticipants: 2,
				MaxParticipants: 12,
				PricePerPerson:  "25.00",
			},
			setupMock: func(m serviceMocks) {
				m.repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(errors.New("database error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newService(t)
			tt.setupMock(m)

			_, err := svc.Create(context.Background(), tt.req, "operator-1")

			if tt.wantErr {
				assert.Error(t, err)

				if tt.wantCode != 0 {
					assert.Equal(t, tt.wantCode, failure.GetCode(err))
				}

				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestTourService_Publish(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(m serviceMocks)
		wantErr   bool
		wantCode  int
	}{
		{
			name: "draft tour publishes",
			setupMock: func(m serviceMocks) {
				m.repo.EXPECT().
					TransitionStatus(gomock.Any(), "tour-1", model.StatusDraft, model.StatusPublished, gomock.Any()).
					Return(true, nil)
			},
			wantErr: false,
		},
		{
			name: "missing tour",
			setupMock: func(m serviceMocks) {
				m.repo.EXPECT().
					TransitionStatus(gomock.Any(), "tour-1", model.StatusDraft, model.StatusPublished, gomock.Any()).
					Return(false, nil)

				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Tour{}, nil)
			},
			wantErr:  true,
			wantCode: http.StatusNotFound,
		},
		{
			name: "cancelled tour cannot publish",
			setupMock: func(m serviceMocks) {
				m.repo.EXPECT().
					TransitionStatus(gomock.Any(), "tour-1", model.StatusDraft, model.StatusPublished, gomock.Any()).
					Return(false, nil)

				cancelled := draftTour("tour-1")
				cancelled.Status = model.StatusCancelled

				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(cancelled, nil)
			},
			wantErr:  true,
			wantCode: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newService(t)
			tt.setupMock(m)

			err := svc.Publish(context.Background(), "tour-1", "operator-1")

			if tt.wantErr {
				assert.Error(t, err)

				if tt.wantCode != 0 {
					assert.Equal(t, tt.wantCode, failure.GetCode(err))
				}

				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestTourService_Update(t *testing.T) {
	tests := []struct {
		name      string
		req       dto.UpdateTourRequest
		setupMock func(m serviceMocks)
		wantErr   bool
		wantCode  int
	}{
		{
			name: "plain field patch",
			req:  dto.UpdateTourRequest{Title: "Montmartre by Night"},
			setupMock: func(m serviceMocks) {
				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(draftTour("tour-1"), nil)

				m.repo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ any) error {
						assert.Equal(t, "Montmartre by Night", fields[model.FieldTitle])
						assert.Contains(t, fields, model.FieldSlug)

						return nil
					})
			},
			wantErr: false,
		},
		{
			name: "shrinking capacity under occupancy is refused",
			req:  dto.UpdateTourRequest{MaxParticipants: 5},
			setupMock: func(m serviceMocks) {
				tour := draftTour("tour-1")
				tour.Status = model.StatusPublished
				tour.CurrentBookings = 8

				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(tour, nil)

				m.repo.EXPECT().
					UpdateWithCapacityGuard(gomock.Any(), gomock.Any(), "tour-1", 5).
					Return(false, nil)
			},
			wantErr:  true,
			wantCode: http.StatusConflict,
		},
		{
			name: "shrinking capacity above occupancy succeeds",
			req:  dto.UpdateTourRequest{MaxParticipants: 8},
			setupMock: func(m serviceMocks) {
				tour := draftTour("tour-1")
				tour.Status = model.StatusPublished
				tour.CurrentBookings = 6

				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(tour, nil)

				m.repo.EXPECT().
					UpdateWithCapacityGuard(gomock.Any(), gomock.Any(), "tour-1", 8).
					Return(true, nil)
			},
			wantErr: false,
		},
		{
			name: "cancelled tour still accepts field edits",
			req:  dto.UpdateTourRequest{DurationMinutes: 90},
			setupMock: func(m serviceMocks) {
				tour := draftTour("tour-1")
				tour.Status = model.StatusCancelled

				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(tour, nil)

				m.repo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)
			},
			wantErr: false,
		},
		{
			name: "max below existing min is a bad request",
			req:  dto.UpdateTourRequest{MaxParticipants: 1},
			setupMock: func(m serviceMocks) {
				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(draftTour("tour-1"), nil)
			},
			wantErr:  true,
			wantCode: http.StatusBadRequest,
		},
		{
			name: "invalid price is a bad request",
			req:  dto.UpdateTourRequest{PricePerPerson: "abc"},
			setupMock: func(m serviceMocks) {
				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(draftTour("tour-1"), nil)
			},
			wantErr:  true,
			wantCode: http.StatusBadRequest,
		},
		{
			name: "missing tour",
			req:  dto.UpdateTourRequest{Title: "New Title"},
			setupMock: func(m serviceMocks) {
				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Tour{}, nil)
			},
			wantErr:  true,
			wantCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newService(t)
			tt.setupMock(m)

			err := svc.Update(context.Background(), "tour-1", tt.req, "operator-1")

			if tt.wantErr {
				assert.Error(t, err)

				if tt.wantCode != 0 {
					assert.Equal(t, tt.wantCode, failure.GetCode(err))
				}

				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestTourService_Cancel(t *testing.T) {
	req := dto.CancelTourRequest{Reason: "guide unavailable"}

	tests := []struct {
		name      string
		setupMock func(m serviceMocks)
		wantErr   bool
		wantCode  int
	}{
		{
			name: "published tour cancels and sweeps bookings",
			setupMock: func(m serviceMocks) {
				tour := draftTour("tour-1")
				tour.Status = model.StatusPublished
				tour.CurrentBookings = 7

				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(tour, nil)

				m.repo.EXPECT().
					TransitionStatusTx(gomock.Any(), gomock.Any(), "tour-1", model.StatusPublished, model.StatusCancelled, gomock.Any()).
					DoAndReturn(func(_ context.Context, _ *sqlx.Tx, _ string, _, _ model.Status, fields map[string]any) (bool, error) {
						assert.Equal(t, "guide unavailable", fields[model.FieldCancellationReason])

						return true, nil
					})

				m.bookingRepo.EXPECT().
					CancelAllForTourTx(gomock.Any(), gomock.Any(), "tour-1", "operator-1").
					Return(int64(3), nil)
			},
			wantErr: false,
		},
		{
			name: "draft tour cancels with an empty cascade",
			setupMock: func(m serviceMocks) {
				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(draftTour("tour-1"), nil)

				m.repo.EXPECT().
					TransitionStatusTx(gomock.Any(), gomock.Any(), "tour-1", model.StatusDraft, model.StatusCancelled, gomock.Any()).
					Return(true, nil)

				m.bookingRepo.EXPECT().
					CancelAllForTourTx(gomock.Any(), gomock.Any(), "tour-1", "operator-1").
					Return(int64(0), nil)
			},
			wantErr: false,
		},
		{
			name: "already cancelled tour is rejected",
			setupMock: func(m serviceMocks) {
				tour := draftTour("tour-1")
				tour.Status = model.StatusCancelled

				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(tour, nil)
			},
			wantErr:  true,
			wantCode: http.StatusConflict,
		},
		{
			name: "completed tour is rejected",
			setupMock: func(m serviceMocks) {
				tour := draftTour("tour-1")
				tour.Status = model.StatusCompleted

				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(tour, nil)
			},
			wantErr:  true,
			wantCode: http.StatusConflict,
		},
		{
			name: "missing tour",
			setupMock: func(m serviceMocks) {
				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Tour{}, nil)
			},
			wantErr:  true,
			wantCode: http.StatusNotFound,
		},
		{
			name: "cascade failure aborts the whole cancellation",
			setupMock: func(m serviceMocks) {
				tour := draftTour("tour-1")
				tour.Status = model.StatusPublished

				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(tour, nil)

				m.repo.EXPECT().
					TransitionStatusTx(gomock.Any(), gomock.Any(), "tour-1", model.StatusPublished, model.StatusCancelled, gomock.Any()).
					Return(true, nil)

				m.bookingRepo.EXPECT().
					CancelAllForTourTx(gomock.Any(), gomock.Any(), "tour-1", "operator-1").
					Return(int64(0), errors.New("database error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newService(t)
			tt.setupMock(m)

			err := svc.Cancel(context.Background(), "tour-1", req, "operator-1")

			if tt.wantErr {
				assert.Error(t, err)

				if tt.wantCode != 0 {
					assert.Equal(t, tt.wantCode, failure.GetCode(err))
				}

				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestTourService_ListPublishedUpcoming(t *testing.T) {
	t.Run("invalid from date is a bad request", func(t *testing.T) {
		svc, _ := newService(t)

		_, err := svc.ListPublishedUpcoming(context.Background(), defaultQueryParams(), "not-a-date")

		assert.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("filters to published tours from the given date", func(t *testing.T) {
		svc, m := newService(t)

		m.cache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("cache miss")).
			Times(2)

		m.repo.EXPECT().
			Count(gomock.Any(), gomock.Any()).
			Return(1, nil)

		m.repo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ gDto.QueryParams, filter gDto.FilterGroup, _ ...string) ([]model.Tour, error) {
				assert.Equal(t, gDto.FilterGroupOperatorAnd, filter.Operator)
				assert.Len(t, filter.Filters, 2)

				published := draftTour("tour-1")
				published.Status = model.StatusPublished

				return []model.Tour{published}, nil
			})

		m.cache.EXPECT().
			Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil).
			AnyTimes()

		res, err := svc.ListPublishedUpcoming(context.Background(), defaultQueryParams(), "2026-10-01")

		assert.NoError(t, err)
		assert.Len(t, res.Tours, 1)
		assert.Equal(t, 1, res.TotalData)
	})
}
