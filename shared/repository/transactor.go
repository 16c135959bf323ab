package repository

//go:generate go run go.uber.org/mock/mockgen -source=./transactor.go -destination=./mocks/transactor_mock.go -package=mocks

import (
	"context"

	"termin/infras/postgres"
)

// Transactor runs fn atomically. Repositories passed the tx join the same unit of work.
type Transactor interface {
	WithTransaction(ctx context.Context, fn postgres.TxFunc) error
}

func NewTransactor(db *postgres.Connection) Transactor {
	return db
}
