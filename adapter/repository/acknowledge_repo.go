package repository

import (
	"context"

	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/common/log"
	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/core"
	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/domain/dependency"
	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/domain/entity"
	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/utils/idgen"
	"github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
)

type acknowledgeRepo struct {
	core.Repo
	idGen *idgen.Generator
}

// Insert 批量写入确认记录，返回按输入顺序分配的 acknowledgeid
func (repo *acknowledgeRepo) Insert(ctx context.Context, acks []entity.Acknowledge) ([]uint64, core.RepoError) {
	if len(acks) == 0 {
		return []uint64{}, nil
	}
	ids := repo.idGen.NextIDs(len(acks))
	if len(ids) != len(acks) {
		return nil, dependency.NewRepoGenerateIDError(errors.Errorf("generate %d acknowledge ids, got %d", len(acks), len(ids)))
	}

	builder := squirrel.Insert(entity.AcknowledgesTable.Name).
		Columns("acknowledgeid", "userid", "eventid", "clock", "message", "action")
	for i, ack := range acks {
		builder = builder.Values(ids[i], ack.UserID, ack.EventID, ack.Clock, ack.Message, int(ack.Action))
	}
	sqlStr, args, err := builder.ToSql()
	if err != nil {
		log.Errorf("Failed to build SQL for insert acknowledges: %v", err)
		return nil, dependency.NewRepoExecuteSqlError(err)
	}

	if _, err = repo.Conn(ctx).ExecContext(ctx, sqlStr, args...); err != nil {
		log.Errorf("Failed to insert acknowledges: %v", err)
		return nil, dependency.NewRepoExecuteSqlError(err)
	}
	return ids, nil
}
