package tour

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/mkiss03/utazasparizsbaoff-sub000/infras/otel"
	"github.com/mkiss03/utazasparizsbaoff-sub000/internal/domains/tour/model"
	"github.com/mkiss03/utazasparizsbaoff-sub000/internal/domains/tour/model/dto"
	"github.com/mkiss03/utazasparizsbaoff-sub000/internal/domains/tour/service"
	"github.com/mkiss03/utazasparizsbaoff-sub000/shared/constant"
	gDto "github.com/mkiss03/utazasparizsbaoff-sub000/shared/dto"
	"github.com/mkiss03/utazasparizsbaoff-sub000/shared/validator"
	"github.com/mkiss03/utazasparizsbaoff-sub000/transport/http/response"
)

type Handler struct {
	service service.Tour
	otel    otel.Otel
}

func New(service service.Tour, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/tours", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateTour)
		routerGroup.Get("/", handler.GetTours)
		routerGroup.Get("/published", handler.GetPublishedTours)
		routerGroup.Get("/{id}", handler.GetTourByID)
		routerGroup.Patch("/{id}", handler.UpdateTour)
		routerGroup.Post("/{id}/publish", handler.PublishTour)
		routerGroup.Post("/{id}/cancel", handler.CancelTour)
	})
}

// CreateTour handles the creation of a new tour.
// @Summary Create a new tour
// @Description Create a new walking tour in draft status.
// @Tags Tour
// @Accept json
// @Produce json
// @Param request body dto.CreateTourRequest true "Create Tour Request"
// @Success 201 {object} response.Data[dto.TourResponse] "Tour created successfully"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/tours [post]
func (handler *Handler) CreateTour(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateTour")
	defer scope.End()

	req := dto.CreateTourRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	operator, _ := ctx.Value(constant.ContextKeyOperatorID).(string)

	tour, err := handler.service.Create(ctx, req, operator)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create tour")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Tour created successfully by operator " + operator)

	response.WithJSON(w, http.StatusCreated, tour)
}

// GetTours retrieves all tours based on query parameters.
// @Summary Get all tours
// @Description Retrieve all tours with optional filtering and pagination.
// @Tags Tour
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param status query string false "Filter by status (draft, published, cancelled, completed)"
// @Param tour_date query string false "Filter by tour date (YYYY-MM-DD)"
// @Success 200 {object} response.Data[dto.GetToursResponse] "List of tours"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/tours [get]
func (handler *Handler) GetTours(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetTours")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	status := r.URL.Query().Get(model.FieldStatus)
	tourDate := r.URL.Query().Get(model.FieldTourDate)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	if status != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldStatus,
			Operator: gDto.FilterOperatorEq,
			Value:    status,
			Table:    model.TableName,
		})
	}

	if tourDate != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldTourDate,
			Operator: gDto.FilterOperatorEq,
			Value:    tourDate,
			Table:    model.TableName,
		})
	}

	tours, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get tours")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Tours retrieved successfully")

	response.WithJSON(w, http.StatusOK, tours)
}

// GetPublishedTours retrieves the storefront listing of published upcoming tours.
// @Summary Get published upcoming tours
// @Description Retrieve published tours from a given date onwards, today by default.
// @Tags Tour
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param from query string false "Earliest tour date to include (YYYY-MM-DD)"
// @Success 200 {object} response.Data[dto.GetToursResponse] "List of published tours"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/tours/published [get]
func (handler *Handler) GetPublishedTours(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetPublishedTours")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	fromDate := r.URL.Query().Get(constant.RequestParamFrom)

	tours, err := handler.service.ListPublishedUpcoming(ctx, queryParams, fromDate)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get published tours")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Published tours retrieved successfully")

	response.WithJSON(w, http.StatusOK, tours)
}

// GetTourByID retrieves a tour by its ID.
// @Summary Get a tour by ID
// @Description Retrieve a tour by its unique identifier.
// @Tags Tour
// @Accept json
// @Produce json
// @Param id path string true "Tour ID"
// @Success 200 {object} response.Data[dto.TourResponse] "Tour details"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/tours/{id} [get]
func (handler *Handler) GetTourByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetTourByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	tour, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get tour by ID")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Tour retrieved successfully")

	response.WithJSON(w, http.StatusOK, tour)
}

// UpdateTour updates an existing tour by its ID.
// @Summary Update a tour by ID
// @Description Update the details of an existing draft or published tour.
// @Tags Tour
// @Accept json
// @Produce json
// @Param id path string true "Tour ID"
// @Param request body dto.UpdateTourRequest true "Update Tour Request"
// @Success 200 {object} response.Message "Tour updated successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/tours/{id} [patch]
func (handler *Handler) UpdateTour(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateTour")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.UpdateTourRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	operator, _ := ctx.Value(constant.ContextKeyOperatorID).(string)

	if err := handler.service.Update(ctx, id, req, operator); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update tour")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Tour updated successfully by operator " + operator)

	response.WithMessage(w, http.StatusOK, "Tour updated successfully")
}

// PublishTour opens a draft tour for bookings.
// @Summary Publish a tour
// @Description Move a draft tour to published so it can accept bookings.
// @Tags Tour
// @Accept json
// @Produce json
// @Param id path string true "Tour ID"
// @Success 200 {object} response.Message "Tour published successfully"
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/tours/{id}/publish [post]
func (handler *Handler) PublishTour(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".PublishTour")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	operator, _ := ctx.Value(constant.ContextKeyOperatorID).(string)

	if err := handler.service.Publish(ctx, id, operator); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to publish tour")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Tour published successfully by operator " + operator)

	response.WithMessage(w, http.StatusOK, "Tour published successfully")
}

// CancelTour cancels a tour and all of its confirmed bookings.
// @Summary Cancel a tour
// @Description Cancel a tour with a reason; every confirmed booking is cancelled and refunded with it.
// @Tags Tour
// @Accept json
// @Produce json
// @Param id path string true "Tour ID"
// @Param request body dto.CancelTourRequest true "Cancel Tour Request"
// @Success 200 {object} response.Message "Tour cancelled successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/tours/{id}/cancel [post]
func (handler *Handler) CancelTour(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CancelTour")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.CancelTourRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	operator, _ := ctx.Value(constant.ContextKeyOperatorID).(string)

	if err := handler.service.Cancel(ctx, id, req, operator); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to cancel tour")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Tour cancelled successfully by operator " + operator)

	response.WithMessage(w, http.StatusOK, "Tour cancelled successfully")
}
