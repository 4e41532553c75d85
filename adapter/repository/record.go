package repository

import (
	"context"

	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/common/log"
	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/core"
	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/domain/dependency"
	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/domain/entity"
	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/domain/query"
	"github.com/pkg/errors"
	"github.com/spf13/cast"
)

type recordRepo struct {
	core.Repo
}

// Select 执行 Parts 渲染出的查询，按列顺序组装为记录
func (repo *recordRepo) Select(ctx context.Context, parts *query.Parts) ([]entity.Record, core.RepoError) {
	sqlStr, args, err := parts.ToSql()
	if err != nil {
		log.Errorf("Failed to build SQL for %s: %v", parts.Table().Name, err)
		return nil, dependency.NewRepoExecuteSqlError(err)
	}
	log.Debugf("select %s: %s %v", parts.Table().Name, sqlStr, args)

	rows, err := repo.Conn(ctx).QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Errorf("Failed to query %s: %v", parts.Table().Name, err)
		return nil, dependency.NewRepoExecuteSqlError(err)
	}
	defer rows.Close()

	columns := parts.Columns()
	records := make([]entity.Record, 0)
	for rows.Next() {
		values := make([]any, len(columns))
		dest := make([]any, len(columns))
		for i := range values {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			log.Errorf("Failed to scan %s row: %v", parts.Table().Name, err)
			return nil, dependency.NewRepoExecuteSqlError(err)
		}
		record := make(entity.Record, len(columns))
		for i, col := range columns {
			v, err := normalize(values[i], col.Kind)
			if err != nil {
				log.Errorf("Failed to convert column %s: %v", col.Key, err)
				return nil, dependency.NewRepoInternalError(err)
			}
			record[col.Key] = v
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		log.Errorf("Rows iteration error: %v", err)
		return nil, dependency.NewRepoExecuteSqlError(err)
	}
	return records, nil
}

// normalize 驱动返回的 []byte、int64 等统一转换为 uint64、int64、string，NULL 保持为 nil
func normalize(v any, kind entity.FieldKind) (any, error) {
	if v == nil {
		return nil, nil
	}
	if b, ok := v.([]byte); ok {
		v = string(b)
	}
	switch kind {
	case entity.FieldID:
		id, err := cast.ToUint64E(v)
		return id, errors.Wrapf(err, "convert %v to id", v)
	case entity.FieldInt:
		n, err := cast.ToInt64E(v)
		return n, errors.Wrapf(err, "convert %v to int", v)
	default:
		return cast.ToString(v), nil
	}
}
