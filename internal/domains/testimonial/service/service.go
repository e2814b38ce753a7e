package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/mkiss03/utazasparizsbaoff-sub000/config"
	"github.com/mkiss03/utazasparizsbaoff-sub000/infras/otel"
	"github.com/mkiss03/utazasparizsbaoff-sub000/internal/domains/testimonial/model"
	"github.com/mkiss03/utazasparizsbaoff-sub000/internal/domains/testimonial/model/dto"
	"github.com/mkiss03/utazasparizsbaoff-sub000/internal/domains/testimonial/repository"
	"github.com/mkiss03/utazasparizsbaoff-sub000/shared"
	"github.com/mkiss03/utazasparizsbaoff-sub000/shared/cache"
	"github.com/mkiss03/utazasparizsbaoff-sub000/shared/constant"
	gDto "github.com/mkiss03/utazasparizsbaoff-sub000/shared/dto"
	"github.com/mkiss03/utazasparizsbaoff-sub000/shared/failure"
	"github.com/mkiss03/utazasparizsbaoff-sub000/shared/timezone"
)

const (
	cacheGetTestimonial    = "testimonial:get"
	cacheGetAllTestimonial = "testimonial:gets"
	cacheCountTestimonial  = "testimonial:count"
)

type Testimonial interface {
	Create(ctx context.Context, req dto.CreateTestimonialRequest, operator string) (dto.TestimonialResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetTestimonialsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.TestimonialResponse, error)
	Update(ctx context.Context, id string, req dto.UpdateTestimonialRequest, operator string) error
	Move(ctx context.Context, id string, req dto.MoveTestimonialRequest, operator string) error
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo  repository.Testimonial
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
}

func New(repo repository.Testimonial, cfg *config.Config, redisCache cache.RedisCache, ot otel.Otel) Testimonial {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: redisCache,
		otel:  ot,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateTestimonialRequest, operator string) (res dto.TestimonialResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".testimonial.Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	position, err := s.repo.NextPosition(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to get next testimonial position")

		return res, fmt.Errorf("failed to get next testimonial position: %w", err)
	}

	testimonial := req.ToModel(position, operator)

	err = s.repo.Insert(ctx, testimonial)
	if err != nil {
		log.Error().Err(err).Msg("failed to insert testimonial")

		return res, fmt.Errorf("failed to insert testimonial: %w", err)
	}

	s.invalidateCaches(ctx, testimonial.ID)

	res.FromModel(testimonial)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetTestimonialsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".testimonial.GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllTestimonial, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for testimonials")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count testimonials")

		return res, fmt.Errorf("failed to count testimonials: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get testimonials")

		return res, fmt.Errorf("failed to get testimonials: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save testimonials to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".testimonial.Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountTestimonial, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for testimonial count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count testimonials")

		return res, fmt.Errorf("failed to count testimonials: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save testimonial count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.TestimonialResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".testimonial.Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetTestimonial, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for testimonial")

		return res, nil
	}

	testimonial, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get testimonial")

		return res, fmt.Errorf("failed to get testimonial: %w", err)
	}

	if testimonial.ID == constant.Empty {
		return res, failure.NotFound("testimonial not found") // nolint:wrapcheck
	}

	res.FromModel(testimonial)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save testimonial to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, id string, req dto.UpdateTestimonialRequest, operator string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".testimonial.Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	exists, err := s.repo.Exist(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check testimonial")

		return fmt.Errorf("failed to check testimonial: %w", err)
	}

	if !exists {
		return failure.NotFound("testimonial not found") // nolint:wrapcheck
	}

	err = s.repo.Update(ctx, shared.TransformFields(req, operator), shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to update testimonial")

		return fmt.Errorf("failed to update testimonial: %w", err)
	}

	s.invalidateCaches(ctx, id)

	return nil
}

// Move places a testimonial at the given carousel position. Concurrent moves
// are resolved last writer wins; gaps or duplicate positions are tolerated
// because ordering only needs to be stable, not dense.
func (s *serviceImpl) Move(ctx context.Context, id string, req dto.MoveTestimonialRequest, operator string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".testimonial.Move")
	defer scope.End()
	defer scope.TraceIfError(err)

	exists, err := s.repo.Exist(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check testimonial")

		return fmt.Errorf("failed to check testimonial: %w", err)
	}

	if !exists {
		return failure.NotFound("testimonial not found") // nolint:wrapcheck
	}

	fields := map[string]any{
		model.FieldPosition:      req.Position,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: operator,
	}

	err = s.repo.Update(ctx, fields, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to move testimonial")

		return fmt.Errorf("failed to move testimonial: %w", err)
	}

	s.invalidateCaches(ctx, id)

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".testimonial.Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	exists, err := s.repo.Exist(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check testimonial")

		return fmt.Errorf("failed to check testimonial: %w", err)
	}

	if !exists {
		return failure.NotFound("testimonial not found") // nolint:wrapcheck
	}

	err = s.repo.Delete(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to delete testimonial")

		return fmt.Errorf("failed to delete testimonial: %w", err)
	}

	s.invalidateCaches(ctx, id)

	return nil
}

func (s *serviceImpl) invalidateCaches(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetTestimonial, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete testimonial from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllTestimonial)
		shared.InvalidateCaches(c, s.cache, cacheCountTestimonial)
	}()
}
