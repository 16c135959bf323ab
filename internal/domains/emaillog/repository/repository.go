package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"

	"termin/infras/otel"
	"termin/infras/postgres"
	"termin/internal/domains/emaillog/model"
	gDto "termin/shared/dto"
	gRepo "termin/shared/repository"
)

type EmailLog interface {
	Insert(ctx context.Context, model model.EmailLog) error
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.EmailLog, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.EmailLog]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) EmailLog {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.EmailLog](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// ForEvent matches the log entry written for one kind of event of a booking.
func ForEvent(bookingID, kind string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldBookingID, Value: bookingID, Operator: gDto.FilterOperatorEq, Table: model.TableName},
			gDto.Filter{Field: model.FieldKind, Value: kind, Operator: gDto.FilterOperatorEq, Table: model.TableName},
		},
	}
}
