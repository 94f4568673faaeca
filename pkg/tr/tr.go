// Package tr хранит транзакцию pgx в контексте и предоставляет Transactor,
// который выполняет функцию внутри одной транзакции.
package tr

import (
	"context"

	"github.com/DRSN-tech/storefront-backend/pkg/e"
	transaction "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5"
)

type txKey struct{}

// WithTx кладёт транзакцию в контекст.
func WithTx(ctx context.Context, tx pgx.Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// TxFromCtx извлекает объект транзакции (pgx.Tx) из контекста
func TxFromCtx(ctx context.Context) (pgx.Tx, error) {
	tx, ok := ctx.Value(txKey{}).(pgx.Tx)
	if !ok {
		return nil, e.ErrTransactionNotFound
	}
	return tx, nil
}

// PgTransactor открывает транзакцию через go-transaction-manager и кладёт её в контекст.
type PgTransactor struct {
	db transaction.Transactional
}

func NewPgTransactor(db transaction.Transactional) *PgTransactor {
	return &PgTransactor{db: db}
}

// WithinTx выполняет fn в транзакции. Ошибка fn или паника откатывают транзакцию.
func (p *PgTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	const op = "PgTransactor.WithinTx"

	ctx, tx, err := transaction.NewTransaction(ctx, pgx.TxOptions{}, p.db)
	if err != nil {
		return e.Wrap(op, err)
	}

	defer func() {
		if r := recover(); r != nil {
			if tx.IsActive() {
				_ = tx.Rollback(ctx)
			}
			panic(r)
		}
		if err != nil && tx.IsActive() {
			_ = tx.Rollback(ctx)
		}
	}()

	var raw any = tx.Transaction()
	pgxTx, ok := raw.(pgx.Tx)
	if !ok {
		return e.Wrap(op, e.ErrTransactionNotFound)
	}

	if err = fn(WithTx(ctx, pgxTx)); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return e.Wrap(op, err)
	}

	return nil
}

// NopTransactor выполняет fn без транзакции (in-memory хранилища).
type NopTransactor struct{}

func (NopTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
