// Package database holds the small query interfaces shared by repositories
// and services, so a *pgxpool.Pool, a pgx.Tx and a pgxmock pool are
// interchangeable at the call sites.
package database

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Executor interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type QueryExecutor interface {
	Querier
	Executor
}

type TxBeginner interface {
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

// Pool is what multi-step services depend on: direct queries plus the
// ability to open a transaction.
type Pool interface {
	QueryExecutor
	TxBeginner
}
