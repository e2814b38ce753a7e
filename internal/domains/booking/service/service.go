package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/mkiss03/utazasparizsbaoff-sub000/config"
	"github.com/mkiss03/utazasparizsbaoff-sub000/infras/kafka"
	"github.com/mkiss03/utazasparizsbaoff-sub000/infras/otel"
	"github.com/mkiss03/utazasparizsbaoff-sub000/infras/postgres"
	"github.com/mkiss03/utazasparizsbaoff-sub000/internal/domains/booking/model"
	"github.com/mkiss03/utazasparizsbaoff-sub000/internal/domains/booking/model/dto"
	"github.com/mkiss03/utazasparizsbaoff-sub000/internal/domains/booking/repository"
	tourModel "github.com/mkiss03/utazasparizsbaoff-sub000/internal/domains/tour/model"
	tourRepo "github.com/mkiss03/utazasparizsbaoff-sub000/internal/domains/tour/repository"
	"github.com/mkiss03/utazasparizsbaoff-sub000/shared"
	"github.com/mkiss03/utazasparizsbaoff-sub000/shared/cache"
	"github.com/mkiss03/utazasparizsbaoff-sub000/shared/constant"
	gDto "github.com/mkiss03/utazasparizsbaoff-sub000/shared/dto"
	"github.com/mkiss03/utazasparizsbaoff-sub000/shared/failure"
	gModel "github.com/mkiss03/utazasparizsbaoff-sub000/shared/model"
	"github.com/mkiss03/utazasparizsbaoff-sub000/shared/timezone"
)

const (
	cacheGetBooking    = "booking:get"
	cacheGetAllBooking = "booking:gets"
	cacheCountBooking  = "booking:count"
	cacheGetTour       = "tour:get"
	cacheGetAllTour    = "tour:gets"
)

type Booking interface {
	Create(ctx context.Context, req dto.CreateBookingRequest) (dto.BookingResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetBookingsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.BookingResponse, error)
	CancelByGuest(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo      repository.Booking
	tourRepo  tourRepo.Tour
	cfg       *config.Config
	cache     cache.RedisCache
	otel      otel.Otel
	publisher kafka.Publisher
	db        postgres.Transactor
}

func New(repo repository.Booking, tourRepository tourRepo.Tour, cfg *config.Config, redisCache cache.RedisCache, ot otel.Otel, publisher kafka.Publisher, db postgres.Transactor) Booking {
	return &serviceImpl{
		repo:      repo,
		tourRepo:  tourRepository,
		cfg:       cfg,
		cache:     redisCache,
		otel:      ot,
		publisher: publisher,
		db:        db,
	}
}

// Create admits a reservation against the tour's remaining capacity. The
// capacity check and the occupancy increment are one conditional UPDATE
// executed by the database, so two concurrent admissions can never both
// claim the same seats; the booking insert joins it in the same transaction.
func (s *serviceImpl) Create(ctx context.Context, req dto.CreateBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	tour, err := s.tourRepo.Get(ctx, shared.FilterByID(req.TourID, tourModel.FieldID, tourModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get tour for admission")

		return res, fmt.Errorf("failed to get tour for admission: %w", err)
	}

	if tour.ID == constant.Empty {
		return res, failure.NotFound("tour not found") // nolint:wrapcheck
	}

	if !tour.Status.Bookable() {
		return res, failure.UnprocessableEntity("this tour is no longer available") // nolint:wrapcheck
	}

	orderNumber, err := shared.GenerateOrderNumber(s.cfg.Booking.OrderNumberPrefix, timezone.Now())
	if err != nil {
		log.Error().Err(err).Msg("failed to generate order number")

		return res, fmt.Errorf("failed to generate order number: %w", err)
	}

	// Price snapshot: later tour price edits must not touch this booking.
	booking := model.Booking{
		ID:              uuid.NewString(),
		OrderNumber:     orderNumber,
		TourID:          tour.ID,
		GuestName:       req.GuestName,
		GuestEmail:      req.GuestEmail,
		GuestPhone:      req.GuestPhone,
		NumParticipants: req.NumParticipants,
		TotalAmount:     tour.PricePerPerson.Mul(decimal.NewFromInt(int64(req.NumParticipants))),
		PaymentStatus:   model.PaymentCompleted,
		BookingStatus:   model.StatusConfirmed,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  constant.Empty,
			ModifiedBy: constant.Empty,
		},
	}

	err = s.db.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		reserved, reserveErr := s.tourRepo.ReserveCapacityTx(ctx, tx, tour.ID, req.NumParticipants)
		if reserveErr != nil {
			return fmt.Errorf("failed to reserve capacity: %w", reserveErr)
		}

		if !reserved {
			return s.classifyRefusal(ctx, tour.ID)
		}

		if insertErr := s.repo.InsertTx(ctx, tx, booking); insertErr != nil {
			return fmt.Errorf("failed to insert booking: %w", insertErr)
		}

		return nil
	})
	if err != nil {
		log.Error().Err(err).Str("tourID", tour.ID).Msg("admission refused or failed")

		return res, err
	}

	s.publishEvent(ctx, dto.EventBookingConfirmed, booking)

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllBooking)
		shared.InvalidateCaches(c, s.cache, cacheCountBooking)
		shared.InvalidateCaches(c, s.cache, cacheGetTour)
		shared.InvalidateCaches(c, s.cache, cacheGetAllTour)
	}()

	res.FromModel(booking)

	return res, nil
}

// classifyRefusal re-reads the tour after a failed reservation so the caller
// learns whether the tour went away, stopped being bookable, or simply has
// fewer seats left than requested.
func (s *serviceImpl) classifyRefusal(ctx context.Context, tourID string) error {
	tour, err := s.tourRepo.Get(ctx, shared.FilterByID(tourID, tourModel.FieldID, tourModel.TableName))
	if err != nil {
		return fmt.Errorf("failed to classify admission refusal: %w", err)
	}

	if tour.ID == constant.Empty {
		return failure.NotFound("tour not found") // nolint:wrapcheck
	}

	if !tour.Status.Bookable() {
		return failure.UnprocessableEntity("this tour is no longer available") // nolint:wrapcheck
	}

	return failure.InsufficientSeats(tour.AvailableSeats()) // nolint:wrapcheck
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for bookings")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save bookings to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetBooking, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking")

		return res, nil
	}

	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return res, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return res, failure.NotFound("booking not found") // nolint:wrapcheck
	}

	res.FromModel(booking)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking to cache")
		}
	}()

	return res, nil
}

// CancelByGuest releases one confirmed booking. Unlike the admin cascade the
// tour may still be published and selling, so the seats go back to the pool
// in the same transaction that flips the booking status.
func (s *serviceImpl) CancelByGuest(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.CancelByGuest")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking for cancellation")

		return fmt.Errorf("failed to get booking for cancellation: %w", err)
	}

	if booking.ID == constant.Empty {
		return failure.NotFound("booking not found") // nolint:wrapcheck
	}

	if booking.BookingStatus != model.StatusConfirmed {
		return failure.InvalidTransition(model.EntityName, string(booking.BookingStatus), "guest cancellation") // nolint:wrapcheck
	}

	err = s.db.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		moved, trErr := s.repo.TransitionStatusTx(ctx, tx, booking.ID, model.StatusConfirmed, model.StatusCancelledByGuest, model.PaymentRefunded)
		if trErr != nil {
			return fmt.Errorf("failed to cancel booking: %w", trErr)
		}

		if !moved {
			return failure.InvalidTransition(model.EntityName, string(booking.BookingStatus), "guest cancellation") // nolint:wrapcheck
		}

		released, relErr := s.tourRepo.ReleaseCapacityTx(ctx, tx, booking.TourID, booking.NumParticipants)
		if relErr != nil {
			return fmt.Errorf("failed to release tour capacity: %w", relErr)
		}

		if !released {
			return fmt.Errorf("occupancy of tour %s does not cover booking %s", booking.TourID, booking.ID)
		}

		return nil
	})
	if err != nil {
		log.Error().Err(err).Str("bookingID", id).Msg("failed to cancel booking")

		return err
	}

	booking.BookingStatus = model.StatusCancelledByGuest
	booking.PaymentStatus = model.PaymentRefunded

	s.publishEvent(ctx, dto.EventBookingCancelled, booking)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetBooking, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete booking from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllBooking)
		shared.InvalidateCaches(c, s.cache, cacheCountBooking)
		shared.InvalidateCaches(c, s.cache, cacheGetTour)
		shared.InvalidateCaches(c, s.cache, cacheGetAllTour)
	}()

	return nil
}

// publishEvent is fire-and-forget: a broker outage must not fail a booking
// that already committed.
func (s *serviceImpl) publishEvent(ctx context.Context, eventType string, booking model.Booking) {
	event := dto.BookingEvent{
		Type:            eventType,
		BookingID:       booking.ID,
		OrderNumber:     booking.OrderNumber,
		TourID:          booking.TourID,
		NumParticipants: booking.NumParticipants,
		TotalAmount:     booking.TotalAmount.StringFixed(2),
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.publisher.SendMessages(c, s.cfg.Kafka.Topic.Events, kafka.Message{
			Key:   booking.TourID,
			Value: event,
		}); err != nil {
			log.Error().Err(err).Str("event", eventType).Msg("failed to publish booking event")
		}
	}()
}
