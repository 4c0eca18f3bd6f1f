package repository

import (
	"context"

	"cinema-ticketing/pkg/database"
)

// TxManager runs fn in one database transaction. Repository calls made with
// the ctx passed to fn join that transaction.
type TxManager interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type txManager struct {
	db database.PgxIface
}

func NewTxManager(db database.PgxIface) TxManager {
	return &txManager{db: db}
}

func (m *txManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return database.WithTx(ctx, m.db, fn)
}
