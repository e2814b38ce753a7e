package service

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/mkiss03/utazasparizsbaoff-sub000/config"
	"github.com/mkiss03/utazasparizsbaoff-sub000/infras/kafka"
	"github.com/mkiss03/utazasparizsbaoff-sub000/infras/otel"
	"github.com/mkiss03/utazasparizsbaoff-sub000/infras/postgres"
	bookingRepo "github.com/mkiss03/utazasparizsbaoff-sub000/internal/domains/booking/repository"
	"github.com/mkiss03/utazasparizsbaoff-sub000/internal/domains/tour/model"
	"github.com/mkiss03/utazasparizsbaoff-sub000/internal/domains/tour/model/dto"
	"github.com/mkiss03/utazasparizsbaoff-sub000/internal/domains/tour/repository"
	"github.com/mkiss03/utazasparizsbaoff-sub000/shared"
	"github.com/mkiss03/utazasparizsbaoff-sub000/shared/cache"
	"github.com/mkiss03/utazasparizsbaoff-sub000/shared/constant"
	gDto "github.com/mkiss03/utazasparizsbaoff-sub000/shared/dto"
	"github.com/mkiss03/utazasparizsbaoff-sub000/shared/failure"
	"github.com/mkiss03/utazasparizsbaoff-sub000/shared/timezone"
)

const (
	cacheGetTour    = "tour:get"
	cacheGetAllTour = "tour:gets"
	cacheCountTour  = "tour:count"
)

type Tour interface {
	Create(ctx context.Context, req dto.CreateTourRequest, operator string) (dto.TourResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetToursResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.TourResponse, error)
	ListPublishedUpcoming(ctx context.Context, req gDto.QueryParams, fromDate string) (dto.GetToursResponse, error)
	Update(ctx context.Context, id string, req dto.UpdateTourRequest, operator string) error
	Publish(ctx context.Context, id, operator string) error
	Cancel(ctx context.Context, id string, req dto.CancelTourRequest, operator string) error
}

type serviceImpl struct {
	repo        repository.Tour
	bookingRepo bookingRepo.Booking
	cfg         *config.Config
	cache       cache.RedisCache
	otel        otel.Otel
	publisher   kafka.Publisher
	db          postgres.Transactor
}

func New(repo repository.Tour, bookingRepository bookingRepo.Booking, cfg *config.Config, redisCache cache.RedisCache, ot otel.Otel, publisher kafka.Publisher, db postgres.Transactor) Tour {
	return &serviceImpl{
		repo:        repo,
		bookingRepo: bookingRepository,
		cfg:         cfg,
		cache:       redisCache,
		otel:        ot,
		publisher:   publisher,
		db:          db,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateTourRequest, operator string) (res dto.TourResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".tour.Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	tour, err := req.ToModel(operator)
	if err != nil {
		return res, failure.BadRequest(err) // nolint:wrapcheck
	}

	err = s.repo.Insert(ctx, tour)
	if err != nil {
		log.Error().Err(err).Msg("failed to insert tour")

		return res, fmt.Errorf("failed to insert tour: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllTour)
		shared.InvalidateCaches(c, s.cache, cacheCountTour)
	}()

	res.FromModel(tour)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetToursResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".tour.GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllTour, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for tours")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count tours")

		return res, fmt.Errorf("failed to count tours: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get tours")

		return res, fmt.Errorf("failed to get tours: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save tours to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".tour.Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountTour, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for tour count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count tours")

		return res, fmt.Errorf("failed to count tours: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save tour count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.TourResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".tour.Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetTour, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for tour")

		return res, nil
	}

	tour, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get tour")

		return res, fmt.Errorf("failed to get tour: %w", err)
	}

	if tour.ID == constant.Empty {
		return res, failure.NotFound("tour not found") // nolint:wrapcheck
	}

	res.FromModel(tour)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save tour to cache")
		}
	}()

	return res, nil
}

// ListPublishedUpcoming is the storefront view: published tours whose date is
// on or after fromDate (today when fromDate is empty).
func (s *serviceImpl) ListPublishedUpcoming(ctx context.Context, req gDto.QueryParams, fromDate string) (res dto.GetToursResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".tour.ListPublishedUpcoming")
	defer scope.End()
	defer scope.TraceIfError(err)

	from := timezone.Now()

	if fromDate != constant.Empty {
		from, err = timezone.Parse(constant.DateOnlyFormat, fromDate)
		if err != nil {
			return res, failure.BadRequestFromString("invalid from date") // nolint:wrapcheck
		}
	}

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldStatus,
				Value:    model.StatusPublished,
				Operator: gDto.FilterOperatorEq,
				Table:    model.TableName,
			},
			gDto.Filter{
				Field:    model.FieldTourDate,
				Value:    from.Format(constant.DateOnlyFormat),
				Operator: gDto.FilterOperatorGreaterEq,
				Table:    model.TableName,
			},
		},
	}

	return s.GetAll(ctx, req, filter)
}

// Update patches a tour's details. When max_participants shrinks, the write is
// guarded so it cannot drop below the seats already confirmed.
func (s *serviceImpl) Update(ctx context.Context, id string, req dto.UpdateTourRequest, operator string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".tour.Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	tour, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get tour for update")

		return fmt.Errorf("failed to get tour for update: %w", err)
	}

	if tour.ID == constant.Empty {
		return failure.NotFound("tour not found") // nolint:wrapcheck
	}

	if req.MaxParticipants > 0 && req.MinParticipants == 0 && req.MaxParticipants < tour.MinParticipants {
		return failure.BadRequestFromString("max participants cannot drop below min participants") // nolint:wrapcheck
	}

	if req.MinParticipants > 0 && req.MaxParticipants == 0 && req.MinParticipants > tour.MaxParticipants {
		return failure.BadRequestFromString("min participants cannot exceed max participants") // nolint:wrapcheck
	}

	if req.MinParticipants > 0 && req.MaxParticipants > 0 && req.MinParticipants > req.MaxParticipants {
		return failure.BadRequestFromString("min participants cannot exceed max participants") // nolint:wrapcheck
	}

	fields := shared.TransformFields(req, operator)

	title := tour.Title
	if req.Title != constant.Empty {
		title = req.Title
	}

	tourDate := tour.TourDate

	if req.TourDate != constant.Empty {
		tourDate, err = timezone.Parse(constant.DateOnlyFormat, req.TourDate)
		if err != nil {
			return failure.BadRequestFromString("invalid tour date") // nolint:wrapcheck
		}

		fields[model.FieldTourDate] = tourDate
	}

	if req.StartTime != constant.Empty {
		startTime, parseErr := timezone.Parse(constant.TimeOnlyFormat, req.StartTime)
		if parseErr != nil {
			return failure.BadRequestFromString("invalid start time") // nolint:wrapcheck
		}

		fields[model.FieldStartTime] = startTime
	}

	if req.PricePerPerson != constant.Empty {
		price, parseErr := decimal.NewFromString(req.PricePerPerson)
		if parseErr != nil || price.IsNegative() {
			return failure.BadRequestFromString("invalid price") // nolint:wrapcheck
		}

		fields[model.FieldPricePerPerson] = price
	}

	if req.Title != constant.Empty || req.TourDate != constant.Empty {
		fields[model.FieldSlug] = shared.Slugify(title, tourDate)
	}

	if req.MaxParticipants > 0 {
		updated, guardErr := s.repo.UpdateWithCapacityGuard(ctx, fields, tour.ID, req.MaxParticipants)
		if guardErr != nil {
			log.Error().Err(guardErr).Msg("failed to update tour")

			return fmt.Errorf("failed to update tour: %w", guardErr)
		}

		if !updated {
			return failure.CapacityBelowOccupancy(req.MaxParticipants, tour.CurrentBookings) // nolint:wrapcheck
		}
	} else {
		err = s.repo.Update(ctx, fields, shared.FilterByID(tour.ID, model.FieldID, model.TableName))
		if err != nil {
			log.Error().Err(err).Msg("failed to update tour")

			return fmt.Errorf("failed to update tour: %w", err)
		}
	}

	s.invalidateTourCaches(ctx, tour.ID)

	return nil
}

// Publish opens a draft tour for bookings.
func (s *serviceImpl) Publish(ctx context.Context, id, operator string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".tour.Publish")
	defer scope.End()
	defer scope.TraceIfError(err)

	moved, err := s.repo.TransitionStatus(ctx, id, model.StatusDraft, model.StatusPublished, map[string]any{
		constant.FieldModifiedBy: operator,
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to publish tour")

		return fmt.Errorf("failed to publish tour: %w", err)
	}

	if !moved {
		tour, getErr := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
		if getErr != nil {
			return fmt.Errorf("failed to classify publish refusal: %w", getErr)
		}

		if tour.ID == constant.Empty {
			return failure.NotFound("tour not found") // nolint:wrapcheck
		}

		return failure.InvalidTransition(model.EntityName, string(tour.Status), "publish") // nolint:wrapcheck
	}

	s.invalidateTourCaches(ctx, id)

	return nil
}

// Cancel takes a tour out of service and sweeps its confirmed bookings into
// the admin-cancelled/refunded state in the same transaction, so no booking
// can stay confirmed against a cancelled tour.
func (s *serviceImpl) Cancel(ctx context.Context, id string, req dto.CancelTourRequest, operator string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".tour.Cancel")
	defer scope.End()
	defer scope.TraceIfError(err)

	tour, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get tour for cancellation")

		return fmt.Errorf("failed to get tour for cancellation: %w", err)
	}

	if tour.ID == constant.Empty {
		return failure.NotFound("tour not found") // nolint:wrapcheck
	}

	if tour.Status == model.StatusCancelled || tour.Status == model.StatusCompleted {
		return failure.InvalidTransition(model.EntityName, string(tour.Status), "cancellation") // nolint:wrapcheck
	}

	var cancelled int64

	err = s.db.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		moved, trErr := s.repo.TransitionStatusTx(ctx, tx, tour.ID, tour.Status, model.StatusCancelled, map[string]any{
			model.FieldCancellationReason: req.Reason,
			constant.FieldModifiedBy:      operator,
		})
		if trErr != nil {
			return fmt.Errorf("failed to cancel tour: %w", trErr)
		}

		if !moved {
			return failure.InvalidTransition(model.EntityName, string(tour.Status), "cancellation") // nolint:wrapcheck
		}

		cancelled, trErr = s.bookingRepo.CancelAllForTourTx(ctx, tx, tour.ID, operator)
		if trErr != nil {
			return fmt.Errorf("failed to cascade cancellation: %w", trErr)
		}

		return nil
	})
	if err != nil {
		log.Error().Err(err).Str("tourID", id).Msg("failed to cancel tour")

		return err
	}

	log.Info().Str("tourID", id).Int64("cancelledBookings", cancelled).Msg("tour cancelled")

	event := dto.TourEvent{
		Type:              dto.EventTourCancelled,
		TourID:            tour.ID,
		Reason:            req.Reason,
		CancelledBookings: cancelled,
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.publisher.SendMessages(c, s.cfg.Kafka.Topic.Events, kafka.Message{
			Key:   tour.ID,
			Value: event,
		}); err != nil {
			log.Error().Err(err).Str("event", dto.EventTourCancelled).Msg("failed to publish tour event")
		}
	}()

	s.invalidateTourCaches(ctx, id)

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, "booking:get")
		shared.InvalidateCaches(c, s.cache, "booking:gets")
		shared.InvalidateCaches(c, s.cache, "booking:count")
	}()

	return nil
}

func (s *serviceImpl) invalidateTourCaches(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetTour, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete tour from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllTour)
		shared.InvalidateCaches(c, s.cache, cacheCountTour)
	}()
}
