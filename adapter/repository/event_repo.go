package repository

import (
	"context"

	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/common/log"
	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/core"
	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/domain/dependency"
	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/domain/entity"
	"github.com/Masterminds/squirrel"
)

type eventRepo struct {
	recordRepo
}

// SetAcknowledged 标记事件已确认
func (repo *eventRepo) SetAcknowledged(ctx context.Context, eventIDs []uint64) core.RepoError {
	if len(eventIDs) == 0 {
		return nil
	}
	sqlStr, args, err := squirrel.Update(entity.EventsTable.Name).
		Set("acknowledged", entity.EventAcknowledged).
		Where(squirrel.Eq{"eventid": eventIDs}).
		ToSql()
	if err != nil {
		log.Errorf("Failed to build SQL for acknowledge events: %v", err)
		return dependency.NewRepoExecuteSqlError(err)
	}

	if _, err = repo.Conn(ctx).ExecContext(ctx, sqlStr, args...); err != nil {
		log.Errorf("Failed to update events acknowledged: %v", err)
		return dependency.NewRepoExecuteSqlError(err)
	}
	return nil
}
