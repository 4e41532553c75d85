package repository

import (
	"context"
	"fmt"
	"time"

	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/common/log"
	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/core"
	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/domain/dependency"
	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/infrastructure/cache"
	"github.com/Masterminds/squirrel"
	"github.com/bytedance/sonic"
	"github.com/pkg/errors"
)

const userGroupsKey = "itops_event_manager:user_groups:%d"

// groupRepo 用户所属用户组。配置了缓存时先读缓存，缓存异常只记录告警并回退到数据库
type groupRepo struct {
	core.Repo
	cache cache.Cache
	ttl   time.Duration
}

func (repo *groupRepo) UserGroupIDs(ctx context.Context, userID uint64) ([]uint64, core.RepoError) {
	key := fmt.Sprintf(userGroupsKey, userID)
	if groupIDs, ok := repo.cached(ctx, key); ok {
		return groupIDs, nil
	}

	sqlStr, args, err := squirrel.Select("ug.usrgrpid").Distinct().
		From("users_groups ug").
		Where(squirrel.Eq{"ug.userid": userID}).
		ToSql()
	if err != nil {
		log.Errorf("Failed to build SQL for user groups: %v", err)
		return nil, dependency.NewRepoExecuteSqlError(err)
	}
	rows, err := repo.Conn(ctx).QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Errorf("Failed to query user groups: %v", err)
		return nil, dependency.NewRepoExecuteSqlError(err)
	}
	defer rows.Close()

	groupIDs := make([]uint64, 0)
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			log.Errorf("Failed to scan user group row: %v", err)
			return nil, dependency.NewRepoExecuteSqlError(err)
		}
		groupIDs = append(groupIDs, id)
	}
	if err := rows.Err(); err != nil {
		log.Errorf("Rows iteration error: %v", err)
		return nil, dependency.NewRepoExecuteSqlError(err)
	}

	repo.store(ctx, key, groupIDs)
	return groupIDs, nil
}

func (repo *groupRepo) cached(ctx context.Context, key string) ([]uint64, bool) {
	if repo.cache == nil {
		return nil, false
	}
	v, err := repo.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrKeyNotFound) {
			log.Warnf("read user groups from cache failed: %v", err)
		}
		return nil, false
	}
	var groupIDs []uint64
	if err := sonic.UnmarshalString(v, &groupIDs); err != nil {
		log.Warnf("decode cached user groups %s failed: %v", key, err)
		return nil, false
	}
	return groupIDs, true
}

func (repo *groupRepo) store(ctx context.Context, key string, groupIDs []uint64) {
	if repo.cache == nil {
		return
	}
	v, err := sonic.MarshalString(groupIDs)
	if err != nil {
		log.Warnf("encode user groups failed: %v", err)
		return
	}
	if err := repo.cache.Set(ctx, key, v, repo.ttl); err != nil {
		log.Warnf("write user groups to cache failed: %v", err)
	}
}
