package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"termin/infras/otel"
	"termin/infras/postgres"
	"termin/internal/domains/timeslot/model"
	"termin/shared/constant"
	gDto "termin/shared/dto"
	gRepo "termin/shared/repository"
)

type TimeSlot interface {
	Insert(ctx context.Context, model model.TimeSlot) error
	InsertBulkTx(ctx context.Context, sqltx *sqlx.Tx, models []model.TimeSlot) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.TimeSlot, error)
	GetForUpdateTx(ctx context.Context, sqltx *sqlx.Tx, filter gDto.FilterGroup, columns ...string) (model.TimeSlot, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.TimeSlot, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	UpdateTx(ctx context.Context, sqltx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) error
	DeleteTx(ctx context.Context, sqltx *sqlx.Tx, filter gDto.FilterGroup) error
	OverlapsTx(ctx context.Context, sqltx *sqlx.Tx, teacherID string, from, to time.Time) (bool, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.TimeSlot]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) TimeSlot {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.TimeSlot](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// OverlapsTx reports whether the teacher already owns a non-cancelled slot intersecting [from, to).
func (r *repositoryImpl) OverlapsTx(ctx context.Context, sqltx *sqlx.Tx, teacherID string, from, to time.Time) (bool, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".time_slot.OverlapsTx")
	defer scope.End()

	filter := OpenFor(teacherID)
	filter.Add(gDto.Filter{Field: model.FieldStartTime, ArgName: "overlap_to", Value: to, Operator: gDto.FilterOperatorLess, Table: model.TableName})
	filter.Add(gDto.Filter{Field: model.FieldEndTime, ArgName: "overlap_from", Value: from, Operator: gDto.FilterOperatorGreater, Table: model.TableName})

	where, args := filter.GetWhereClause()

	query := fmt.Sprintf("SELECT EXISTS(SELECT 1 FROM %s WHERE %s)", model.TableName, where)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	prepare, err := sqltx.PrepareNamedContext(ctx, query)
	if err != nil {
		scope.TraceError(err)

		return false, fmt.Errorf("failed to prepare overlap query: %w", err)
	}
	defer prepare.Close()

	var exist bool
	if err = prepare.GetContext(ctx, &exist, args); err != nil {
		scope.TraceError(err)

		return false, fmt.Errorf("failed to check overlapping time slots: %w", err)
	}

	return exist, nil
}

// OpenFor matches the non-cancelled slots of a teacher.
func OpenFor(teacherID string) gDto.FilterGroup {
	return gDto.And(
		gDto.Filter{Field: model.FieldTeacherID, Value: teacherID, Operator: gDto.FilterOperatorEq, Table: model.TableName},
		gDto.Filter{Field: model.FieldStatus, Value: model.StatusCancelled, Operator: gDto.FilterOperatorNotEq, Table: model.TableName},
	)
}
