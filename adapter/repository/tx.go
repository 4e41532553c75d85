package repository

import (
	"context"
	"database/sql"

	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/common/log"
	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/core"
	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/domain/dependency"
)

type txManager struct {
	db *sql.DB
}

// InTx fn 返回错误或 panic 时回滚，否则提交。fn 内的仓储通过 ctx 使用同一个事务
func (m *txManager) InTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if _, ok := ctx.Value(core.CtxKeyForDBTxn).(*sql.Tx); ok {
		return fn(ctx)
	}

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		log.Errorf("Failed to begin transaction: %v", err)
		return dependency.NewRepoExecuteSqlError(err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Errorf("Failed to rollback transaction: %v", rbErr)
			}
			return
		}
		if cErr := tx.Commit(); cErr != nil {
			log.Errorf("Failed to commit transaction: %v", cErr)
			err = dependency.NewRepoExecuteSqlError(cErr)
		}
	}()

	return fn(core.WithTx(ctx, tx))
}
