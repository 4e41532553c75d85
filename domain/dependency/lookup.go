package dependency

import (
	"context"

	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/core"
	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/domain/entity"
)

// PermissionScope 调用方所属用户组及所需的最低权限
type PermissionScope struct {
	GroupIDs   []uint64
	Permission entity.Permission
}

// LookupQuery 按 ID 批量查询关联对象
type LookupQuery struct {
	IDs []uint64
	// ByField 按非主键字段过滤，例如按 eventid 查询告警，为空时按主键
	ByField string
	Output  entity.Output
	// Scope 为 nil 时不做权限检查
	Scope     *PermissionScope
	SortField string
	SortOrder string
}

// ObjectLookup 某一类对象的查询能力
type ObjectLookup interface {
	Get(ctx context.Context, q LookupQuery) ([]entity.Record, core.RepoError)
	PK() string
}

// Lookups 按对象类型分发的查询表
type Lookups struct {
	Triggers       ObjectLookup
	Items          ObjectLookup
	DiscoveryRules ObjectLookup
	DHosts         ObjectLookup
	DServices      ObjectLookup
	Hosts          ObjectLookup
	Alerts         ObjectLookup
}

// ForObject 事件对象对应的查询，自动注册主机没有关联对象
func (l *Lookups) ForObject(object entity.EventObject) (ObjectLookup, bool) {
	var lookup ObjectLookup
	switch object {
	case entity.EventObjectTrigger:
		lookup = l.Triggers
	case entity.EventObjectItem:
		lookup = l.Items
	case entity.EventObjectLLDRule:
		lookup = l.DiscoveryRules
	case entity.EventObjectDHost:
		lookup = l.DHosts
	case entity.EventObjectDService:
		lookup = l.DServices
	}
	return lookup, lookup != nil
}

// GroupResolver 查询用户所属的用户组
type GroupResolver interface {
	UserGroupIDs(ctx context.Context, userID uint64) ([]uint64, core.RepoError)
}

type UserRepo interface {
	// GetType 用户不存在时 found 为 false
	GetType(ctx context.Context, userID uint64) (userType entity.UserType, found bool, err core.RepoError)
}
