package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/mkiss03/utazasparizsbaoff-sub000/infras/otel"
	"github.com/mkiss03/utazasparizsbaoff-sub000/infras/postgres"
	"github.com/mkiss03/utazasparizsbaoff-sub000/internal/domains/booking/model"
	"github.com/mkiss03/utazasparizsbaoff-sub000/shared/constant"
	gDto "github.com/mkiss03/utazasparizsbaoff-sub000/shared/dto"
	"github.com/mkiss03/utazasparizsbaoff-sub000/shared/logger"
	gRepo "github.com/mkiss03/utazasparizsbaoff-sub000/shared/repository"
	"github.com/mkiss03/utazasparizsbaoff-sub000/shared/timezone"
)

type Booking interface {
	Insert(ctx context.Context, model model.Booking) error
	InsertTx(ctx context.Context, sqltx *sqlx.Tx, model model.Booking) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Booking, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error

	// CancelAllForTourTx flips every confirmed booking of a tour to the
	// admin-cancelled/refunded state in a single statement, as part of the
	// cancellation cascade transaction.
	CancelAllForTourTx(ctx context.Context, sqltx *sqlx.Tx, tourID, operator string) (int64, error)

	// TransitionStatusTx moves one booking between statuses, conditional on
	// its current status, with the payment status updated alongside.
	TransitionStatusTx(ctx context.Context, sqltx *sqlx.Tx, bookingID string, from, to model.BookingStatus, payment model.PaymentStatus) (bool, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Booking]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Booking {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

func (repo *repositoryImpl) CancelAllForTourTx(ctx context.Context, sqltx *sqlx.Tx, tourID, operator string) (int64, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.CancelAllForTourTx")
	defer scope.End()

	query := fmt.Sprintf(
		"UPDATE %s SET %s = :to_status, %s = :payment_status, %s = :modified_at, %s = :modified_by WHERE %s = :tour_id AND %s = :from_status",
		model.TableName,
		model.FieldBookingStatus,
		model.FieldPaymentStatus,
		constant.FieldModifiedAt,
		constant.FieldModifiedBy,
		model.FieldTourID,
		model.FieldBookingStatus,
	)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	result, err := sqltx.NamedExecContext(ctx, query, map[string]any{
		"tour_id":        tourID,
		"from_status":    model.StatusConfirmed,
		"to_status":      model.StatusCancelledByAdmin,
		"payment_status": model.PaymentRefunded,
		"modified_at":    timezone.Now(),
		"modified_by":    operator,
	})
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return 0, fmt.Errorf("failed to cancel bookings for tour (%s): %w", model.EntityName, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return 0, fmt.Errorf("failed to read cascade result (%s): %w", model.EntityName, err)
	}

	return affected, nil
}

func (repo *repositoryImpl) TransitionStatusTx(ctx context.Context, sqltx *sqlx.Tx, bookingID string, from, to model.BookingStatus, payment model.PaymentStatus) (bool, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.TransitionStatusTx")
	defer scope.End()

	query := fmt.Sprintf(
		"UPDATE %s SET %s = :to_status, %s = :payment_status, %s = :modified_at WHERE %s = :id AND %s = :from_status",
		model.TableName,
		model.FieldBookingStatus,
		model.FieldPaymentStatus,
		constant.FieldModifiedAt,
		model.FieldID,
		model.FieldBookingStatus,
	)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	result, err := sqltx.NamedExecContext(ctx, query, map[string]any{
		"id":             bookingID,
		"from_status":    from,
		"to_status":      to,
		"payment_status": payment,
		"modified_at":    timezone.Now(),
	})
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return false, fmt.Errorf("failed to transition booking status (%s): %w", model.EntityName, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return false, fmt.Errorf("failed to read transition result (%s): %w", model.EntityName, err)
	}

	return affected > 0, nil
}
