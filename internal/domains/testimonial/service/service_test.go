package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/mkiss03/utazasparizsbaoff-sub000/config"
	"github.com/mkiss03/utazasparizsbaoff-sub000/infras/otel/mocks"
	testimonialMocks "github.com/mkiss03/utazasparizsbaoff-sub000/internal/domains/testimonial/mocks"
	"github.com/mkiss03/utazasparizsbaoff-sub000/internal/domains/testimonial/model"
	"github.com/mkiss03/utazasparizsbaoff-sub000/internal/domains/testimonial/model/dto"
	"github.com/mkiss03/utazasparizsbaoff-sub000/internal/domains/testimonial/service"
	cacheMocks "github.com/mkiss03/utazasparizsbaoff-sub000/shared/cache/mocks"
	"github.com/mkiss03/utazasparizsbaoff-sub000/shared/constant"
	"github.com/mkiss03/utazasparizsbaoff-sub000/shared/failure"
)

type serviceMocks struct {
	repo  *testimonialMocks.MockTestimonial
	cache *cacheMocks.MockRedisCache
}

func newService(t *testing.T) (service.Testimonial, serviceMocks) {
	ctrl := gomock.NewController(t)

	m := serviceMocks{
		repo:  testimonialMocks.NewMockTestimonial(ctrl),
		cache: cacheMocks.NewMockRedisCache(ctrl),
	}

	m.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	m.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	svc := service.New(m.repo, cfg, m.cache, mocks.NewOtel())

	return svc, m
}

func TestTestimonialService_Create(t *testing.T) {
	req := dto.CreateTestimonialRequest{
		GuestName: "Marie",
		Quote:     "Best walk through the Marais I could have asked for.",
		Rating:    5,
	}

	tests := []struct {
		name      string
		setupMock func(m serviceMocks)
		wantErr   bool
	}{
		{
			name: "appends to the end of the carousel",
			setupMock: func(m serviceMocks) {
				m.repo.EXPECT().
					NextPosition(gomock.Any()).
					Return(4, nil)

				m.repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, testimonial model.Testimonial) error {
						assert.Equal(t, 4, testimonial.Position)
						assert.False(t, testimonial.IsPublished)
						assert.Equal(t, "Marie", testimonial.GuestName)

						return nil
					})
			},
			wantErr: false,
		},
		{
			name: "position lookup failure",
			setupMock: func(m serviceMocks) {
				m.repo.EXPECT().
					NextPosition(gomock.Any()).
					Return(0, errors.New("database error"))
			},
			wantErr: true,
		},
		{
			name: "insert failure",
			setupMock: func(m serviceMocks) {
				m.repo.EXPECT().
					NextPosition(gomock.Any()).
					Return(1, nil)

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

			res, err := svc.Create(context.Background(), req, "operator-1")

			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			assert.NoError(t, err)
			assert.NotEmpty(t, res.ID)
			assert.Equal(t, 4, res.Position)
		})
	}
}

func TestTestimonialService_Get(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(m serviceMocks)
		wantErr   bool
		wantCode  int
	}{
		{
			name: "cache hit skips the repository",
			setupMock: func(m serviceMocks) {
				m.cache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ string, value any) error {
						res, ok := value.(*dto.TestimonialResponse)
						assert.True(t, ok)
						res.ID = "testimonial-1"

						return nil
					})
			},
			wantErr: false,
		},
		{
			name: "cache miss falls back to the repository",
			setupMock: func(m serviceMocks) {
				m.cache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("cache miss"))

				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Testimonial{ID: "testimonial-1", GuestName: "Marie", Rating: 5, Position: 1}, nil)

				m.cache.EXPECT().
					Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()
			},
			wantErr: false,
		},
		{
			name: "missing testimonial",
			setupMock: func(m serviceMocks) {
				m.cache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("cache miss"))

				m.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Testimonial{}, nil)
			},
			wantErr:  true,
			wantCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newService(t)
			tt.setupMock(m)

			res, err := svc.Get(context.Background(), "testimonial-1")

			if tt.wantErr {
				assert.Error(t, err)

				if tt.wantCode != 0 {
					assert.Equal(t, tt.wantCode, failure.GetCode(err))
				}

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, "testimonial-1", res.ID)
		})
	}
}

func TestTestimonialService_Update(t *testing.T) {
	published := true
	req := dto.UpdateTestimonialRequest{Quote: "Updated quote", IsPublished: &published}

	tests := []struct {
		name      string
		setupMock func(m serviceMocks)
		wantErr   bool
		wantCode  int
	}{
		{
			name: "patches only the provided fields",
			setupMock: func(m serviceMocks) {
				m.repo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)

				m.repo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ any) error {
						assert.Equal(t, "Updated quote", fields[model.FieldQuote])
						assert.Equal(t, &published, fields[model.FieldIsPublished])
						assert.NotContains(t, fields, model.FieldGuestName)
						assert.Equal(t, "operator-1", fields[constant.FieldModifiedBy])

						return nil
					})
			},
			wantErr: false,
		},
		{
			name: "missing testimonial",
			setupMock: func(m serviceMocks) {
				m.repo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, nil)
			},
			wantErr:  true,
			wantCode: http.StatusNotFound,
		},
		{
			name: "update failure",
			setupMock: func(m serviceMocks) {
				m.repo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)

				m.repo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("database error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newService(t)
			tt.setupMock(m)

			err := svc.Update(context.Background(), "testimonial-1", req, "operator-1")

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

func TestTestimonialService_Move(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(m serviceMocks)
		wantErr   bool
		wantCode  int
	}{
		{
			name: "writes the new position",
			setupMock: func(m serviceMocks) {
				m.repo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)

				m.repo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ any) error {
						assert.Equal(t, 2, fields[model.FieldPosition])
						assert.Equal(t, "operator-1", fields[constant.FieldModifiedBy])

						return nil
					})
			},
			wantErr: false,
		},
		{
			name: "missing testimonial",
			setupMock: func(m serviceMocks) {
				m.repo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, nil)
			},
			wantErr:  true,
			wantCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newService(t)
			tt.setupMock(m)

			err := svc.Move(context.Background(), "testimonial-1", dto.MoveTestimonialRequest{Position: 2}, "operator-1")

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

func TestTestimonialService_Delete(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(m serviceMocks)
		wantErr   bool
		wantCode  int
	}{
		{
			name: "deletes an existing testimonial",
			setupMock: func(m serviceMocks) {
				m.repo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)

				m.repo.EXPECT().
					Delete(gomock.Any(), gomock.Any()).
					Return(nil)
			},
			wantErr: false,
		},
		{
			name: "missing testimonial",
			setupMock: func(m serviceMocks) {
				m.repo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, nil)
			},
			wantErr:  true,
			wantCode: http.StatusNotFound,
		},
		{
			name: "delete failure",
			setupMock: func(m serviceMocks) {
				m.repo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)

				m.repo.EXPECT().
					Delete(gomock.Any(), gomock.Any()).
					Return(errors.New("database error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newService(t)
			tt.setupMock(m)

			err := svc.Delete(context.Background(), "testimonial-1")

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
