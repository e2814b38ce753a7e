package router

import (
	"github.com/go-chi/chi/v5"

	"github.com/mkiss03/utazasparizsbaoff-sub000/internal/handlers/booking"
	"github.com/mkiss03/utazasparizsbaoff-sub000/internal/handlers/testimonial"
	"github.com/mkiss03/utazasparizsbaoff-sub000/internal/handlers/tour"
)

type DomainHandlers struct {
	Tour        tour.Handler
	Booking     booking.Handler
	Testimonial testimonial.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
}

func (r *Router) SetupRoutes(router chi.Router) {
	router.Route("/v1", func(routerGroup chi.Router) {
		r.DomainHandlers.Tour.Router(routerGroup)
		r.DomainHandlers.Booking.Router(routerGroup)
		r.DomainHandlers.Testimonial.Router(routerGroup)
	})
}

func New(domainHandlers DomainHandlers) Router {
	return Router{
		DomainHandlers: domainHandlers,
	}
}
