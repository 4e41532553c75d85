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

const (
	taskTable             = "task"
	taskCloseProblemTable = "task_close_problem"
)

// taskRepo 任务队列，由外部执行器消费
type taskRepo struct {
	core.Repo
	idGen *idgen.Generator
}

func (repo *taskRepo) InsertTasks(ctx context.Context, tasks []entity.Task) ([]uint64, core.RepoError) {
	if len(tasks) == 0 {
		return []uint64{}, nil
	}
	ids := repo.idGen.NextIDs(len(tasks))
	if len(ids) != len(tasks) {
		return nil, dependency.NewRepoGenerateIDError(errors.Errorf("generate %d task ids, got %d", len(tasks), len(ids)))
	}

	builder := squirrel.Insert(taskTable).Columns("taskid", "type", "status", "clock")
	for i, task := range tasks {
		builder = builder.Values(ids[i], task.Type, task.Status, task.Clock)
	}
	if rErr := repo.exec(ctx, builder, "tasks"); rErr != nil {
		return nil, rErr
	}
	return ids, nil
}

func (repo *taskRepo) InsertCloseProblem(ctx context.Context, links []entity.TaskCloseProblem) core.RepoError {
	if len(links) == 0 {
		return nil
	}
	builder := squirrel.Insert(taskCloseProblemTable).Columns("taskid", "acknowledgeid")
	for _, link := range links {
		builder = builder.Values(link.TaskID, link.AcknowledgeID)
	}
	return repo.exec(ctx, builder, "close problem tasks")
}

func (repo *taskRepo) exec(ctx context.Context, builder squirrel.InsertBuilder, name string) core.RepoError {
	sqlStr, args, err := builder.ToSql()
	if err != nil {
		log.Errorf("Failed to build SQL for insert %s: %v", name, err)
		return dependency.NewRepoExecuteSqlError(err)
	}
	if _, err = repo.Conn(ctx).ExecContext(ctx, sqlStr, args...); err != nil {
		log.Errorf("Failed to insert %s: %v", name, err)
		return dependency.NewRepoExecuteSqlError(err)
	}
	return nil
}
