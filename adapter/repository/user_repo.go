package repository

import (
	"context"

	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/common/log"
	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/core"
	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/domain/dependency"
	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/domain/entity"
	"github.com/Masterminds/squirrel"
)

type userRepo struct {
	core.Repo
}

func (repo *userRepo) GetType(ctx context.Context, userID uint64) (entity.UserType, bool, core.RepoError) {
	sqlStr, args, err := squirrel.Select("u.type").
		From(entity.UsersTable.From()).
		Where(squirrel.Eq{"u.userid": userID}).
		Limit(1).
		ToSql()
	if err != nil {
		log.Errorf("Failed to build SQL for user type: %v", err)
		return 0, false, dependency.NewRepoExecuteSqlError(err)
	}
	rows, err := repo.Conn(ctx).QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Errorf("Failed to query user %d: %v", userID, err)
		return 0, false, dependency.NewRepoExecuteSqlError(err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			log.Errorf("Rows iteration error: %v", err)
			return 0, false, dependency.NewRepoExecuteSqlError(err)
		}
		return 0, false, nil
	}
	var userType int
	if err := rows.Scan(&userType); err != nil {
		log.Errorf("Failed to scan user type: %v", err)
		return 0, false, dependency.NewRepoExecuteSqlError(err)
	}
	return entity.UserType(userType), true, nil
}
