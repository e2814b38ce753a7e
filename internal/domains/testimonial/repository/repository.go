package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"

	"github.com/mkiss03/utazasparizsbaoff-sub000/infras/otel"
	"github.com/mkiss03/utazasparizsbaoff-sub000/infras/postgres"
	"github.com/mkiss03/utazasparizsbaoff-sub000/internal/domains/testimonial/model"
	"github.com/mkiss03/utazasparizsbaoff-sub000/shared/constant"
	gDto "github.com/mkiss03/utazasparizsbaoff-sub000/shared/dto"
	"github.com/mkiss03/utazasparizsbaoff-sub000/shared/logger"
	gRepo "github.com/mkiss03/utazasparizsbaoff-sub000/shared/repository"
)

type Testimonial interface {
	Insert(ctx context.Context, model model.Testimonial) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Testimonial, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Testimonial, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error

	// NextPosition returns the position a newly added testimonial takes at the
	// end of the carousel.
	NextPosition(ctx context.Context) (int, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Testimonial]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Testimonial {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Testimonial](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

func (repo *repositoryImpl) NextPosition(ctx context.Context) (int, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".testimonial.NextPosition")
	defer scope.End()

	query := fmt.Sprintf(
		"SELECT COALESCE(MAX(%s), 0) + 1 FROM %s",
		model.FieldPosition,
		model.TableName,
	)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	var next int

	err := repo.db.Read.GetContext(ctx, &next, query)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return 0, fmt.Errorf("failed to get next position (%s): %w", model.EntityName, err)
	}

	return next, nil
}
