package pgdb

import (
	"context"
	"errors"

	"github.com/DRSN-tech/storefront-backend/pkg/tr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

// DB описывает методы pgx, которыми пользуются репозитории.
// Ему удовлетворяют *pgxpool.Pool и pgx.Tx.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// conn возвращает транзакцию из ctx, если она есть, иначе db.
func conn(ctx context.Context, db DB) DB {
	if tx, err := tr.TxFromCtx(ctx); err == nil {
		return tx
	}
	return db
}

// postgresDuplicate сообщает о нарушении уникального ограничения.
func postgresDuplicate(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
