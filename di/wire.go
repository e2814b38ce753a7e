//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"github.com/mkiss03/utazasparizsbaoff-sub000/config"
	"github.com/mkiss03/utazasparizsbaoff-sub000/infras/kafka"
	"github.com/mkiss03/utazasparizsbaoff-sub000/infras/otel"
	"github.com/mkiss03/utazasparizsbaoff-sub000/infras/postgres"
	"github.com/mkiss03/utazasparizsbaoff-sub000/infras/redis"
	"github.com/mkiss03/utazasparizsbaoff-sub000/shared/cache"
	"github.com/mkiss03/utazasparizsbaoff-sub000/transport/http"
	"github.com/mkiss03/utazasparizsbaoff-sub000/transport/http/middleware"
	"github.com/mkiss03/utazasparizsbaoff-sub000/transport/http/router"

	bookingRepository "github.com/mkiss03/utazasparizsbaoff-sub000/internal/domains/booking/repository"
	bookingService "github.com/mkiss03/utazasparizsbaoff-sub000/internal/domains/booking/service"
	testimonialRepository "github.com/mkiss03/utazasparizsbaoff-sub000/internal/domains/testimonial/repository"
	testimonialService "github.com/mkiss03/utazasparizsbaoff-sub000/internal/domains/testimonial/service"
	tourRepository "github.com/mkiss03/utazasparizsbaoff-sub000/internal/domains/tour/repository"
	tourService "github.com/mkiss03/utazasparizsbaoff-sub000/internal/domains/tour/service"

	bookingHandler "github.com/mkiss03/utazasparizsbaoff-sub000/internal/handlers/booking"
	testimonialHandler "github.com/mkiss03/utazasparizsbaoff-sub000/internal/handlers/testimonial"
	tourHandler "github.com/mkiss03/utazasparizsbaoff-sub000/internal/handlers/tour"
)

var configurations = wire.NewSet(
	config.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	wire.Bind(new(postgres.Transactor), new(*postgres.Connection)),
	otel.New,
	redis.New,
	kafka.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var tourDomain = wire.NewSet(
	tourRepository.New,
	tourService.New,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	bookingService.New,
)

var testimonialDomain = wire.NewSet(
	testimonialRepository.New,
	testimonialService.New,
)

var domains = wire.NewSet(
	tourDomain,
	bookingDomain,
	testimonialDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	tourHandler.New,
	bookingHandler.New,
	testimonialHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}
