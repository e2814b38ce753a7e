package testimonial

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/mkiss03/utazasparizsbaoff-sub000/infras/otel"
	"github.com/mkiss03/utazasparizsbaoff-sub000/internal/domains/testimonial/model"
	"github.com/mkiss03/utazasparizsbaoff-sub000/internal/domains/testimonial/model/dto"
	"github.com/mkiss03/utazasparizsbaoff-sub000/internal/domains/testimonial/service"
	"github.com/mkiss03/utazasparizsbaoff-sub000/shared"
	"github.com/mkiss03/utazasparizsbaoff-sub000/shared/constant"
	gDto "github.com/mkiss03/utazasparizsbaoff-sub000/shared/dto"
	"github.com/mkiss03/utazasparizsbaoff-sub000/shared/validator"
	"github.com/mkiss03/utazasparizsbaoff-sub000/transport/http/response"
)

type Handler struct {
	service service.Testimonial
	otel    otel.Otel
}

func New(service service.Testimonial, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/testimonials", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateTestimonial)
		routerGroup.Get("/", handler.GetTestimonials)
		routerGroup.Get("/{id}", handler.GetTestimonialByID)
		routerGroup.Patch("/{id}", handler.UpdateTestimonial)
		routerGroup.Put("/{id}/position", handler.MoveTestimonial)
		routerGroup.Delete("/{id}", handler.DeleteTestimonial)
	})
}

// CreateTestimonial handles the creation of a new testimonial.
// @Summary Create a new testimonial
// @Description Create a new guest testimonial, appended to the end of the carousel.
// @Tags Testimonial
// @Accept json
// @Produce json
// @Param request body dto.CreateTestimonialRequest true "Create Testimonial Request"
// @Success 201 {object} response.Data[dto.TestimonialResponse] "Testimonial created successfully"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/testimonials [post]
func (handler *Handler) CreateTestimonial(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateTestimonial")
	defer scope.End()

	req := dto.CreateTestimonialRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	operator, _ := ctx.Value(constant.ContextKeyOperatorID).(string)

	testimonial, err := handler.service.Create(ctx, req, operator)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create testimonial")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Testimonial created successfully by operator " + operator)

	response.WithJSON(w, http.StatusCreated, testimonial)
}

// GetTestimonials retrieves all testimonials based on query parameters.
// @Summary Get all testimonials
// @Description Retrieve all testimonials with optional filtering and pagination.
// @Tags Testimonial
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param is_published query boolean false "Filter by published flag"
// @Success 200 {object} response.Data[dto.GetTestimonialsResponse] "List of testimonials"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/testimonials [get]
func (handler *Handler) GetTestimonials(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetTestimonials")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	if queryParams.SortBy == constant.DefaultValueSortBy {
		queryParams.SortBy = model.FieldPosition
		queryParams.SortDir = gDto.SortDirAsc
	}

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	if isPublished := shared.ConvertStringToBool(r.URL.Query().Get(model.FieldIsPublished)); isPublished != nil {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldIsPublished,
			Operator: gDto.FilterOperatorEq,
			Value:    *isPublished,
			Table:    model.TableName,
		})
	}

	testimonials, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get testimonials")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Testimonials retrieved successfully")

	response.WithJSON(w, http.StatusOK, testimonials)
}

// GetTestimonialByID retrieves a testimonial by its ID.
// @Summary Get a testimonial by ID
// @Description Retrieve a testimonial by its unique identifier.
// @Tags Testimonial
// @Accept json
// @Produce json
// @Param id path string true "Testimonial ID"
// @Success 200 {object} response.Data[dto.TestimonialResponse] "Testimonial details"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/testimonials/{id} [get]
func (handler *Handler) GetTestimonialByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetTestimonialByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	testimonial, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get testimonial by ID")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Testimonial retrieved successfully")

	response.WithJSON(w, http.StatusOK, testimonial)
}

// UpdateTestimonial updates an existing testimonial by its ID.
// @Summary Update a testimonial by ID
// @Description Update the details of an existing testimonial.
// @Tags Testimonial
// @Accept json
// @Produce json
// @Param id path string true "Testimonial ID"
// @Param request body dto.UpdateTestimonialRequest true "Update Testimonial Request"
// @Success 200 {object} response.Message "Testimonial updated successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/testimonials/{id} [patch]
func (handler *Handler) UpdateTestimonial(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateTestimonial")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.UpdateTestimonialRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	operator, _ := ctx.Value(constant.ContextKeyOperatorID).(string)

	if err := handler.service.Update(ctx, id, req, operator); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update testimonial")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Testimonial updated successfully by operator " + operator)

	response.WithMessage(w, http.StatusOK, "Testimonial updated successfully")
}

// MoveTestimonial places a testimonial at a new carousel position.
// @Summary Move a testimonial
// @Description Set the carousel position of a testimonial; concurrent moves resolve last writer wins.
// @Tags Testimonial
// @Accept json
// @Produce json
// @Param id path string true "Testimonial ID"
// @Param request body dto.MoveTestimonialRequest true "Move Testimonial Request"
// @Success 200 {object} response.Message "Testimonial moved successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/testimonials/{id}/position [put]
func (handler *Handler) MoveTestimonial(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".MoveTestimonial")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.MoveTestimonialRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	operator, _ := ctx.Value(constant.ContextKeyOperatorID).(string)

	if err := handler.service.Move(ctx, id, req, operator); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to move testimonial")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Testimonial moved successfully by operator " + operator)

	response.WithMessage(w, http.StatusOK, "Testimonial moved successfully")
}

// DeleteTestimonial deletes a testimonial by its ID.
// @Summary Delete a testimonial by ID
// @Description Delete a testimonial using its unique identifier.
// @Tags Testimonial
// @Accept json
// @Produce json
// @Param id path string true "Testimonial ID"
// @Success 200 {object} response.Message "Testimonial deleted successfully"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/testimonials/{id} [delete]
func (handler *Handler) DeleteTestimonial(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteTestimonial")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete testimonial")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Testimonial deleted successfully")

	response.WithMessage(w, http.StatusOK, "Testimonial deleted successfully")
}
