package query

import (
	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/domain/entity"
	"github.com/Masterminds/squirrel"
)

// Permission 生成 EXISTS 子查询：对象所属主机的全部主机组中没有任何组拒绝访问，
// 且至少有一个组授予的权限不低于 perm。
// 只对触发器、监控项、自动发现规则生效，其它对象不做过滤。
func Permission(object entity.EventObject, groupIDs []uint64, perm entity.Permission) Mutator {
	return PermissionOn(object, ev.Column("objectid"), groupIDs, perm)
}

// PermissionOn 与 Permission 相同，outer 为外层查询中对象主键所在的列，例如 t.triggerid
func PermissionOn(object entity.EventObject, outer string, groupIDs []uint64, perm entity.Permission) Mutator {
	return func(p *Parts) {
		sub, ok := PermissionSubquery(object, outer, groupIDs, perm)
		if !ok {
			return
		}
		p.Where(wherePermission, squirrel.Expr("EXISTS (?)", sub))
	}
}

// PermissionSubquery 返回权限子查询，对象类型不需要过滤时 ok 为 false。
// 子查询内的别名（pf、pi、hgg）不与外层的表别名冲突。
func PermissionSubquery(object entity.EventObject, outer string, groupIDs []uint64, perm entity.Permission) (squirrel.SelectBuilder, bool) {
	rights := squirrel.Expr("JOIN rights r ON r.id=hgg.groupid AND ?", squirrel.Eq{"r.groupid": groupIDs})

	var sub squirrel.SelectBuilder
	switch object {
	case entity.EventObjectTrigger:
		sub = squirrel.Select("NULL").
			From("functions pf,items pi,hosts_groups hgg").
			JoinClause(rights).
			Where(outer + "=pf.triggerid").
			Where("pf.itemid=pi.itemid").
			Where("pi.hostid=hgg.hostid").
			GroupBy("pf.triggerid")
	case entity.EventObjectItem, entity.EventObjectLLDRule:
		sub = squirrel.Select("NULL").
			From("items pi,hosts_groups hgg").
			JoinClause(rights).
			Where(outer + "=pi.itemid").
			Where("pi.hostid=hgg.hostid").
			GroupBy("hgg.hostid")
	default:
		return sub, false
	}
	return sub.
		Having("MIN(r.permission)>?", int(entity.PermissionDeny)).
		Having("MAX(r.permission)>=?", int(perm)), true
}
