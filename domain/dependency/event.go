package dependency

import (
	"context"

	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/core"
	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/domain/entity"
	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/domain/query"
)

// RecordRepo 执行拼装好的查询，按列名返回记录
type RecordRepo interface {
	Select(ctx context.Context, parts *query.Parts) ([]entity.Record, core.RepoError)
}

// EventRepo 事件表读写
type EventRepo interface {
	RecordRepo
	// SetAcknowledged 把事件标记为已确认
	SetAcknowledged(ctx context.Context, eventIDs []uint64) core.RepoError
}

type AcknowledgeRepo interface {
	// Insert 批量写入确认记录，返回按顺序生成的 acknowledgeid
	Insert(ctx context.Context, acks []entity.Acknowledge) ([]uint64, core.RepoError)
}

type TaskRepo interface {
	// InsertTasks 批量写入任务，返回按顺序生成的 taskid
	InsertTasks(ctx context.Context, tasks []entity.Task) ([]uint64, core.RepoError)
	InsertCloseProblem(ctx context.Context, links []entity.TaskCloseProblem) core.RepoError
}

// TxManager 在同一个事务中执行 fn，fn 返回错误时回滚
type TxManager interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// TaskNotifier 事务提交后通知外部任务执行器
type TaskNotifier interface {
	AnnounceCloseProblem(ctx context.Context, taskIDs []uint64) error
}
