package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"maps"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/mkiss03/utazasparizsbaoff-sub000/infras/otel"
	"github.com/mkiss03/utazasparizsbaoff-sub000/infras/postgres"
	"github.com/mkiss03/utazasparizsbaoff-sub000/internal/domains/tour/model"
	"github.com/mkiss03/utazasparizsbaoff-sub000/shared/constant"
	gDto "github.com/mkiss03/utazasparizsbaoff-sub000/shared/dto"
	"github.com/mkiss03/utazasparizsbaoff-sub000/shared/logger"
	gRepo "github.com/mkiss03/utazasparizsbaoff-sub000/shared/repository"
	"github.com/mkiss03/utazasparizsbaoff-sub000/shared/timezone"
)

type Tour interface {
	Insert(ctx context.Context, model model.Tour) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Tour, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Tour, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error

	// ReserveCapacityTx atomically claims seats on a published tour. The
	// status gate and the capacity bound are checked by the database in the
	// same statement as the increment, so concurrent admissions can never
	// overshoot max_participants.
	ReserveCapacityTx(ctx context.Context, sqltx *sqlx.Tx, tourID string, seats int) (bool, error)

	// ReleaseCapacityTx gives seats back after a guest cancellation.
	ReleaseCapacityTx(ctx context.Context, sqltx *sqlx.Tx, tourID string, seats int) (bool, error)

	// TransitionStatus moves a tour between lifecycle statuses, conditional
	// on the current status. Extra fields are written with the same statement.
	TransitionStatus(ctx context.Context, tourID string, from, to model.Status, fields map[string]any) (bool, error)
	TransitionStatusTx(ctx context.Context, sqltx *sqlx.Tx, tourID string, from, to model.Status, fields map[string]any) (bool, error)

	// UpdateWithCapacityGuard applies a field patch only if the new
	// max_participants does not drop below the seats already confirmed.
	UpdateWithCapacityGuard(ctx context.Context, fields map[string]any, tourID string, maxParticipants int) (bool, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Tour]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Tour {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Tour](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

func (repo *repositoryImpl) ReserveCapacityTx(ctx context.Context, sqltx *sqlx.Tx, tourID string, seats int) (bool, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".tour.ReserveCapacityTx")
	defer scope.End()

	query := fmt.Sprintf(
		"UPDATE %s SET %s = %s + :seats, %s = :modified_at WHERE %s = :id AND %s = :status AND %s + :seats <= %s",
		model.TableName,
		model.FieldCurrentBookings, model.FieldCurrentBookings,
		constant.FieldModifiedAt,
		model.FieldID,
		model.FieldStatus,
		model.FieldCurrentBookings, model.FieldMaxParticipants,
	)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	result, err := sqltx.NamedExecContext(ctx, query, map[string]any{
		"id":          tourID,
		"seats":       seats,
		"status":      model.StatusPublished,
		"modified_at": timezone.Now(),
	})
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return false, fmt.Errorf("failed to reserve capacity (%s): %w", model.EntityName, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return false, fmt.Errorf("failed to read reserve result (%s): %w", model.EntityName, err)
	}

	return affected > 0, nil
}

func (repo *repositoryImpl) ReleaseCapacityTx(ctx context.Context, sqltx *sqlx.Tx, tourID string, seats int) (bool, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".tour.ReleaseCapacityTx")
	defer scope.End()

	query := fmt.Sprintf(
		"UPDATE %s SET %s = %s - :seats, %s = :modified_at WHERE %s = :id AND %s >= :seats",
		model.TableName,
		model.FieldCurrentBookings, model.FieldCurrentBookings,
		constant.FieldModifiedAt,
		model.FieldID,
		model.FieldCurrentBookings,
	)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	result, err := sqltx.NamedExecContext(ctx, query, map[string]any{
		"id":          tourID,
		"seats":       seats,
		"modified_at": timezone.Now(),
	})
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return false, fmt.Errorf("failed to release capacity (%s): %w", model.EntityName, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return false, fmt.Errorf("failed to read release result (%s): %w", model.EntityName, err)
	}

	return affected > 0, nil
}

func (repo *repositoryImpl) TransitionStatus(ctx context.Context, tourID string, from, to model.Status, fields map[string]any) (bool, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".tour.TransitionStatus")
	defer scope.End()

	return repo.transitionStatus(ctx, scope, repo.db.Write, tourID, from, to, fields)
}

func (repo *repositoryImpl) TransitionStatusTx(ctx context.Context, sqltx *sqlx.Tx, tourID string, from, to model.Status, fields map[string]any) (bool, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".tour.TransitionStatusTx")
	defer scope.End()

	return repo.transitionStatus(ctx, scope, sqltx, tourID, from, to, fields)
}

func (repo *repositoryImpl) transitionStatus(ctx context.Context, scope otel.Scope, exec sqlx.ExtContext, tourID string, from, to model.Status, fields map[string]any) (bool, error) {
	args := map[string]any{
		"id":          tourID,
		"from_status": from,
		"to_status":   to,
		"modified_at": timezone.Now(),
	}

	setClauses := []string{
		fmt.Sprintf("%s = :to_status", model.FieldStatus),
		fmt.Sprintf("%s = :modified_at", constant.FieldModifiedAt),
	}

	for col := range maps.Keys(fields) {
		setClauses = append(setClauses, fmt.Sprintf("%s = :%s", col, col))
	}

	maps.Copy(args, fields)

	query := fmt.Sprintf(
		"UPDATE %s SET %s WHERE %s = :id AND %s = :from_status",
		model.TableName,
		strings.Join(setClauses, ", "),
		model.FieldID,
		model.FieldStatus,
	)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	result, err := sqlx.NamedExecContext(ctx, exec, query, args)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return false, fmt.Errorf("failed to transition status (%s): %w", model.EntityName, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return false, fmt.Errorf("failed to read transition result (%s): %w", model.EntityName, err)
	}

	return affected > 0, nil
}

func (repo *repositoryImpl) UpdateWithCapacityGuard(ctx context.Context, fields map[string]any, tourID string, maxParticipants int) (bool, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".tour.UpdateWithCapacityGuard")
	defer scope.End()

	setClauses := []string{}
	args := map[string]any{
		"id":        tourID,
		"guard_max": maxParticipants,
	}

	for col := range maps.Keys(fields) {
		setClauses = append(setClauses, fmt.Sprintf("%s = :%s", col, col))
	}

	maps.Copy(args, fields)

	query := fmt.Sprintf(
		"UPDATE %s SET %s WHERE %s = :id AND %s <= :guard_max",
		model.TableName,
		strings.Join(setClauses, ", "),
		model.FieldID,
		model.FieldCurrentBookings,
	)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	result, err := repo.db.Write.NamedExecContext(ctx, query, args)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return false, fmt.Errorf("failed to update with capacity guard (%s): %w", model.EntityName, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return false, fmt.Errorf("failed to read guarded update result (%s): %w", model.EntityName, err)
	}

	return affected > 0, nil
}
