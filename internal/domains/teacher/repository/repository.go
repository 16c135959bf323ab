package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"

	"termin/infras/otel"
	"termin/infras/postgres"
	"termin/internal/domains/teacher/model"
	gDto "termin/shared/dto"
	gRepo "termin/shared/repository"
)

type Teacher interface {
	Insert(ctx context.Context, model model.Teacher) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Teacher, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Teacher, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Teacher]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Teacher {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Teacher](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// InDepartment matches every teacher assigned to departmentID.
func InDepartment(departmentID string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{Field: model.FieldDepartmentID, Value: departmentID, Operator: gDto.FilterOperatorEq, Table: model.TableName},
		},
	}
}
