package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"termin/infras/otel"
	"termin/infras/postgres"
	"termin/shared/constant"
	"termin/shared/dto"
)

var errRequiredFilter = errors.New("required filter")

type execer interface {
	NamedExecContext(ctx context.Context, query string, arg any) (sql.Result, error)
}

// preparer is satisfied by both *sqlx.DB and *sqlx.Tx.
type preparer interface {
	PrepareNamedContext(ctx context.Context, query string) (*sqlx.NamedStmt, error)
}

// joiner is implemented by models whose reads span more than their own table.
type joiner interface {
	GetJoinQuery() string
}

type lockMode string

const (
	lockNone      lockMode = ""
	lockForUpdate lockMode = "FOR UPDATE OF %s"
)

type column struct {
	name  string
	table string
	alias string
}

func (c column) expr() string {
	switch {
	case c.table == "":
		return c.name
	case c.alias != "":
		return fmt.Sprintf("%s.%s AS %s", c.table, c.name, c.alias)
	default:
		return fmt.Sprintf("%s.%s", c.table, c.name)
	}
}

// Repository implements the CRUD statements shared by every table. Columns come from the db tags of T;
// fields tagged with a foreign table are read through the model's join and never written.
type Repository[T any] struct {
	db            *postgres.Connection
	otel          otel.Otel
	table         string
	entity        string
	primaryColumn string
	columns       []column
	join          string
	insertQuery   string
	InsertColumns []string
}

func NewRepository[T any](entityName, tableName, primaryColumn string, dbConnection *postgres.Connection, otl otel.Otel) Repository[T] {
	var zero T

	columns, insertColumns := getColumns(tableName, reflect.TypeOf(zero))

	var join string
	if j, ok := any(zero).(joiner); ok {
		join = j.GetJoinQuery()
	}

	placeholders := make([]string, len(insertColumns))
	for i, col := range insertColumns {
		placeholders[i] = ":" + col
	}

	return Repository[T]{
		db:            dbConnection,
		otel:          otl,
		table:         tableName,
		entity:        entityName,
		primaryColumn: primaryColumn,
		columns:       columns,
		join:          join,
		insertQuery:   fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", tableName, strings.Join(insertColumns, ", "), strings.Join(placeholders, ", ")),
		InsertColumns: insertColumns,
	}
}

func (repo *Repository[T]) scope(ctx context.Context, operation string) (context.Context, otel.Scope) {
	return repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, fmt.Sprintf("%s.%s.%s", constant.OtelRepositoryScopeName, repo.entity, operation))
}

func (repo *Repository[T]) fail(scope otel.Scope, query, action string, err error) error {
	scope.TraceError(err)
	log.Error().Err(err).Str("entity", repo.entity).Str("query", query).Msgf("failed to %s", action)

	return fmt.Errorf("failed to %s (%s): %w", action, repo.entity, err)
}

func (repo *Repository[T]) Insert(ctx context.Context, model T) error {
	return repo.insert(ctx, "Insert", repo.db.Write, model)
}

func (repo *Repository[T]) InsertTx(ctx context.Context, sqltx *sqlx.Tx, model T) error {
	return repo.insert(ctx, "InsertTx", sqltx, model)
}

// InsertBulk writes all models in one statement. An empty slice is a no-op.
func (repo *Repository[T]) InsertBulk(ctx context.Context, models []T) error {
	return repo.insertBulk(ctx, "InsertBulk", repo.db.Write, models)
}

func (repo *Repository[T]) InsertBulkTx(ctx context.Context, sqltx *sqlx.Tx, models []T) error {
	return repo.insertBulk(ctx, "InsertBulkTx", sqltx, models)
}

func (repo *Repository[T]) insert(ctx context.Context, operation string, exec execer, model T) error {
	ctx, scope := repo.scope(ctx, operation)
	defer scope.End()

	scope.SetAttribute(constant.OtelQueryAttributeKey, repo.insertQuery)

	if _, err := exec.NamedExecContext(ctx, repo.insertQuery, model); err != nil {
		return repo.fail(scope, repo.insertQuery, "insert data", err)
	}

	return nil
}

func (repo *Repository[T]) insertBulk(ctx context.Context, operation string, exec execer, models []T) error {
	if len(models) == 0 {
		return nil
	}

	ctx, scope := repo.scope(ctx, operation)
	defer scope.End()

	scope.SetAttributes(map[string]any{
		constant.OtelQueryAttributeKey: repo.insertQuery,
		"rows":                         len(models),
	})

	if _, err := exec.NamedExecContext(ctx, repo.insertQuery, models); err != nil {
		return repo.fail(scope, repo.insertQuery, "bulk insert data", err)
	}

	return nil
}

func (repo *Repository[T]) Exist(ctx context.Context, filter dto.FilterGroup) (bool, error) {
	return repo.exist(ctx, "Exist", repo.db.Read, filter)
}

func (repo *Repository[T]) ExistTx(ctx context.Context, sqltx *sqlx.Tx, filter dto.FilterGroup) (bool, error) {
	return repo.exist(ctx, "ExistTx", sqltx, filter)
}

func (repo *Repository[T]) exist(ctx context.Context, operation string, db preparer, filter dto.FilterGroup) (bool, error) {
	ctx, scope := repo.scope(ctx, operation)
	defer scope.End()

	where, args := repo.BuildWhereClause(filter)
	if where == "" {
		return false, errRequiredFilter
	}

	query := fmt.Sprintf("SELECT EXISTS(SELECT 1 FROM %s %s)", repo.table, where)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	var exist bool
	if err := repo.getInto(ctx, db, query, &exist, args); err != nil {
		return false, repo.fail(scope, query, "check exist data", err)
	}

	return exist, nil
}

// Get returns the zero value of T when no row matches.
func (repo *Repository[T]) Get(ctx context.Context, filter dto.FilterGroup, columns ...string) (T, error) {
	return repo.get(ctx, "Get", repo.db.Read, filter, lockNone, columns...)
}

// GetTx reads through the transaction so uncommitted writes of the same transaction are visible.
func (repo *Repository[T]) GetTx(ctx context.Context, sqltx *sqlx.Tx, filter dto.FilterGroup, columns ...string) (T, error) {
	return repo.get(ctx, "GetTx", sqltx, filter, lockNone, columns...)
}

// GetForUpdateTx locks the matching rows of the base table until the transaction ends.
func (repo *Repository[T]) GetForUpdateTx(ctx context.Context, sqltx *sqlx.Tx, filter dto.FilterGroup, columns ...string) (T, error) {
	return repo.get(ctx, "GetForUpdateTx", sqltx, filter, lockForUpdate, columns...)
}

func (repo *Repository[T]) get(ctx context.Context, operation string, db preparer, filter dto.FilterGroup, lock lockMode, columns ...string) (T, error) {
	ctx, scope := repo.scope(ctx, operation)
	defer scope.End()

	where, args := repo.BuildWhereClause(filter)

	query := fmt.Sprintf("SELECT %s FROM %s %s %s", repo.selectList(columns...), repo.table, repo.join, where)
	if lock != lockNone {
		query += " " + fmt.Sprintf(string(lock), repo.table)
	}

	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	var model T

	err := repo.getInto(ctx, db, query, &model, args)
	if errors.Is(err, sql.ErrNoRows) {
		return model, nil
	}

	if err != nil {
		return model, repo.fail(scope, query, "get data", err)
	}

	return model, nil
}

func (repo *Repository[T]) GetAll(ctx context.Context, params dto.QueryParams, filter dto.FilterGroup, columns ...string) ([]T, error) {
	return repo.getAll(ctx, "GetAll", repo.db.Read, params, filter, columns...)
}

func (repo *Repository[T]) GetAllTx(ctx context.Context, sqltx *sqlx.Tx, params dto.QueryParams, filter dto.FilterGroup, columns ...string) ([]T, error) {
	return repo.getAll(ctx, "GetAllTx", sqltx, params, filter, columns...)
}

func (repo *Repository[T]) getAll(ctx context.Context, operation string, db preparer, params dto.QueryParams, filter dto.FilterGroup, columns ...string) ([]T, error) {
	ctx, scope := repo.scope(ctx, operation)
	defer scope.End()

	where, args := repo.BuildWhereClause(filter)
	ordering := repo.orderBy(params)
	pagination := paginate(params, args)

	query := fmt.Sprintf("SELECT %s FROM %s %s %s %s %s", repo.selectList(columns...), repo.table, repo.join, where, ordering, pagination)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	prepare, err := db.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, repo.fail(scope, query, "prepare statement", err)
	}
	defer prepare.Close()

	var models []T
	if err = prepare.SelectContext(ctx, &models, args); err != nil {
		return nil, repo.fail(scope, query, "get all data", err)
	}

	return models, nil
}

func (repo *Repository[T]) Count(ctx context.Context, filter dto.FilterGroup) (int, error) {
	ctx, scope := repo.scope(ctx, "Count")
	defer scope.End()

	where, args := repo.BuildWhereClause(filter)

	query := fmt.Sprintf("SELECT COUNT(%s.%s) FROM %s %s %s", repo.table, repo.primaryColumn, repo.table, repo.join, where)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	var count int
	if err := repo.getInto(ctx, repo.db.Read, query, &count, args); err != nil {
		return 0, repo.fail(scope, query, "count data", err)
	}

	return count, nil
}

func (repo *Repository[T]) Update(ctx context.Context, mod map[string]any, filter dto.FilterGroup) error {
	return repo.update(ctx, "Update", repo.db.Write, mod, filter)
}

func (repo *Repository[T]) UpdateTx(ctx context.Context, sqltx *sqlx.Tx, mod map[string]any, filter dto.FilterGroup) error {
	return repo.update(ctx, "UpdateTx", sqltx, mod, filter)
}

func (repo *Repository[T]) update(ctx context.Context, operation string, exec execer, mod map[string]any, filter dto.FilterGroup) error {
	ctx, scope := repo.scope(ctx, operation)
	defer scope.End()

	where, args := repo.BuildWhereClause(filter)
	if where == "" {
		return errRequiredFilter
	}

	query := fmt.Sprintf("UPDATE %s SET %s %s", repo.table, setList(mod), where)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	maps.Copy(args, mod)

	if _, err := exec.NamedExecContext(ctx, query, args); err != nil {
		return repo.fail(scope, query, "update data", err)
	}

	return nil
}

func (repo *Repository[T]) Delete(ctx context.Context, filter dto.FilterGroup) error {
	return repo.delete(ctx, "Delete", repo.db.Write, filter)
}

func (repo *Repository[T]) DeleteTx(ctx context.Context, sqltx *sqlx.Tx, filter dto.FilterGroup) error {
	return repo.delete(ctx, "DeleteTx", sqltx, filter)
}

func (repo *Repository[T]) delete(ctx context.Context, operation string, exec execer, filter dto.FilterGroup) error {
	ctx, scope := repo.scope(ctx, operation)
	defer scope.End()

	where, args := repo.BuildWhereClause(filter)
	if where == "" {
		return errRequiredFilter
	}

	query := fmt.Sprintf("DELETE FROM %s %s", repo.table, where)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if _, err := exec.NamedExecContext(ctx, query, args); err != nil {
		return repo.fail(scope, query, "delete data", err)
	}

	return nil
}

func (repo *Repository[T]) getInto(ctx context.Context, db preparer, query string, dest any, args map[string]any) error {
	prepare, err := db.PrepareNamedContext(ctx, query)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer prepare.Close()

	return prepare.GetContext(ctx, dest, args) //nolint:wrapcheck
}

// selectList renders the projection, restricted to the given db names when any are passed.
func (repo *Repository[T]) selectList(only ...string) string {
	exprs := make([]string, 0, len(repo.columns))

	for _, col := range repo.columns {
		name := col.name
		if col.alias != "" {
			name = col.alias
		}

		if len(only) > 0 && !slices.Contains(only, name) {
			continue
		}

		exprs = append(exprs, col.expr())
	}

	return strings.Join(exprs, ", ")
}

// orderBy only accepts columns of the base table so ORDER BY never carries raw input.
// The primary key breaks ties to keep pages stable.
func (repo *Repository[T]) orderBy(params dto.QueryParams) string {
	if params.SortBy == "" || params.SortDir == "" || !repo.sortable(params.SortBy) {
		return ""
	}

	order := fmt.Sprintf("ORDER BY %s.%s %s", repo.table, params.SortBy, params.SortDir)
	if params.SortBy != repo.primaryColumn {
		order += fmt.Sprintf(", %s.%s", repo.table, repo.primaryColumn)
	}

	return order
}

func (repo *Repository[T]) sortable(name string) bool {
	return slices.ContainsFunc(repo.columns, func(col column) bool {
		return col.table == repo.table && col.alias == "" && col.name == name
	})
}

func (repo *Repository[T]) BuildWhereClause(filter dto.FilterGroup) (string, map[string]any) {
	where, args := filter.GetWhereClause()
	if where == "" {
		return "", map[string]any{}
	}

	return fmt.Sprintf(" WHERE %s ", where), args
}

func paginate(params dto.QueryParams, args map[string]any) string {
	switch {
	case params.Page > 0 && params.Limit > 0:
		args["limit"] = params.Limit
		args["offset"] = (params.Page - 1) * params.Limit

		return "LIMIT :limit OFFSET :offset"
	case params.Limit > 0:
		args["limit"] = params.Limit

		return "LIMIT :limit"
	default:
		return ""
	}
}

// setList renders "col = :col" pairs in column order.
func setList(mod map[string]any) string {
	fields := make([]string, 0, len(mod))
	for _, col := range slices.Sorted(maps.Keys(mod)) {
		fields = append(fields, fmt.Sprintf("%s = :%s", col, col))
	}

	return strings.Join(fields, ", ")
}

func getColumns(table string, reflectType reflect.Type) (columns []column, insertColumns []string) {
	for i := range reflectType.NumField() {
		field := reflectType.Field(i)

		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			col, insertCol := getColumns(table, field.Type)
			columns = append(columns, col...)
			insertColumns = append(insertColumns, insertCol...)

			continue
		}

		dbTag := field.Tag.Get("db")
		if dbTag == "" || dbTag == "-" {
			continue
		}

		source := field.Tag.Get("table")
		if source == "" || source == table {
			columns = append(columns, column{name: dbTag, table: table})
			insertColumns = append(insertColumns, dbTag)

			continue
		}

		name := field.Tag.Get("column")
		if name == "" {
			name = dbTag
		}

		columns = append(columns, column{name: name, table: source, alias: dbTag})
	}

	return columns, insertColumns
}
