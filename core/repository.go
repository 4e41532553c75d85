package core

import (
	"context"
	"database/sql"
)

type RepoError interface {
	GetError() error
	Type() string
	Error() string
}

type CtxKeyForDBTxnType string

var (
	CtxKeyForDBTxn CtxKeyForDBTxnType = "DB_TXN"
)

// Executor 是 *sql.DB 与 *sql.Tx 的公共子集
type Executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

type Repo struct {
	DB *sql.DB
}

// Conn 返回 ctx 中已开启的事务，没有事务时返回连接池
func (r Repo) Conn(ctx context.Context) Executor {
	if tx, ok := ctx.Value(CtxKeyForDBTxn).(*sql.Tx); ok && tx != nil {
		return tx
	}
	return r.DB
}

// WithTx 把事务放进 ctx，供同一调用链上的仓储复用
func WithTx(ctx context.Context, tx *sql.Tx) context.Context {
	return context.WithValue(ctx, CtxKeyForDBTxn, tx)
}
