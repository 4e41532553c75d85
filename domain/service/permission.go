package service

import (
	"context"

	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/common/ids"
	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/common/log"
	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/core"
	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/domain/dependency"
	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/domain/entity"
	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/domain/query"
	"github.com/spf13/cast"
)

// Scope 权限过滤的结果，两个字段至多一个有效，都为空表示不限制
type Scope struct {
	// ObjectIDs 收窄后的对象 ID，替换请求中的 objectids
	ObjectIDs *ids.Set
	// Predicate 未指定对象 ID 时追加到事件查询上的 EXISTS 条件
	Predicate query.Mutator
}

type PermissionFilter struct {
	groups  dependency.GroupResolver
	lookups *dependency.Lookups
}

func NewPermissionFilter(groups dependency.GroupResolver, lookups *dependency.Lookups) *PermissionFilter {
	return &PermissionFilter{groups: groups, lookups: lookups}
}

// Scope 计算调用方对某类对象的可见范围。
// 超级管理员不受限制；只有触发器、监控项、自动发现规则需要过滤。
func (f *PermissionFilter) Scope(ctx context.Context, principal entity.Principal, object entity.EventObject,
	requested *ids.Set, editable bool) (Scope, core.ServiceError) {
	if principal.SuperAdmin() || !object.HostLinked() {
		return Scope{}, nil
	}

	groupIDs, rErr := f.groups.UserGroupIDs(ctx, principal.UserID)
	if rErr != nil {
		log.Errorf("resolve user groups of %d failed: %s", principal.UserID, rErr.Error())
		return Scope{}, NewSvcInternalError(rErr)
	}
	perm := entity.RequiredPermission(editable)

	if requested == nil {
		return Scope{Predicate: query.Permission(object, groupIDs, perm)}, nil
	}
	if requested.Len() == 0 {
		return Scope{ObjectIDs: ids.NewSet()}, nil
	}

	lookup, ok := f.lookups.ForObject(object)
	if !ok {
		return Scope{}, nil
	}
	records, rErr := lookup.Get(ctx, dependency.LookupQuery{
		IDs:    requested.Slice(),
		Output: entity.Fields(lookup.PK()),
		Scope:  &dependency.PermissionScope{GroupIDs: groupIDs, Permission: perm},
	})
	if rErr != nil {
		log.Errorf("check %s permission failed: %s", object, rErr.Error())
		return Scope{}, NewSvcInternalError(rErr)
	}

	allowed := ids.NewSet()
	for _, r := range records {
		allowed.Add(cast.ToUint64(r[lookup.PK()]))
	}
	return Scope{ObjectIDs: requested.Intersect(allowed)}, nil
}
