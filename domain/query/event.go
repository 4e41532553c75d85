package query

import (
	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/domain/entity"
	"github.com/Masterminds/squirrel"
)

// 事件查询中各过滤条件使用的 where 键，关联条件按别名复用
const (
	whereEventIDs   = "eventids"
	whereObjectIDs  = "objectids"
	whereGroupIDs   = "hg"
	whereHostGroup  = "hgi"
	whereFuncEvent  = "fe"
	whereFuncItem   = "fi"
	whereHostIDs    = "i"
	whereFuncTrig   = "ft"
	whereObject     = "o"
	whereSource     = "source"
	wherePermission = "permission"
)

var ev = entity.EventsTable

func NewEventParts() *Parts {
	return New(ev)
}

func EventIDs(ids []uint64) Mutator {
	return func(p *Parts) {
		p.Where(whereEventIDs, squirrel.Eq{ev.Column("eventid"): ids})
	}
}

// ObjectIDs 只对能关联到主机的对象生效，groupCount 时按 objectid 分组
func ObjectIDs(object entity.EventObject, ids []uint64, groupCount bool) Mutator {
	return func(p *Parts) {
		if !object.HostLinked() {
			return
		}
		p.Where(whereObjectIDs, squirrel.Eq{ev.Column("objectid"): ids})
		if groupCount {
			p.GroupBy("objectid", ev.Column("objectid"))
		}
	}
}

// GroupIDs 触发器经 functions -> items -> hosts_groups 关联，监控项与自动发现规则直接经 items 关联
func GroupIDs(object entity.EventObject, ids []uint64) Mutator {
	return func(p *Parts) {
		switch object {
		case entity.EventObjectTrigger:
			p.From("functions", "functions f")
			p.From("items", "items i")
			p.From("hosts_groups", "hosts_groups hg")
			p.Where(whereGroupIDs, squirrel.Eq{"hg.groupid": ids})
			p.Where(whereHostGroup, squirrel.Expr("hg.hostid=i.hostid"))
			p.Where(whereFuncEvent, squirrel.Expr("f.triggerid=e.objectid"))
			p.Where(whereFuncItem, squirrel.Expr("f.itemid=i.itemid"))
		case entity.EventObjectItem, entity.EventObjectLLDRule:
			p.From("items", "items i")
			p.From("hosts_groups", "hosts_groups hg")
			p.Where(whereGroupIDs, squirrel.Eq{"hg.groupid": ids})
			p.Where(whereHostGroup, squirrel.Expr("hg.hostid=i.hostid"))
			p.Where(whereFuncItem, squirrel.Expr("e.objectid=i.itemid"))
		}
	}
}

func HostIDs(object entity.EventObject, ids []uint64) Mutator {
	return func(p *Parts) {
		switch object {
		case entity.EventObjectTrigger:
			p.From("functions", "functions f")
			p.From("items", "items i")
			p.Where(whereHostIDs, squirrel.Eq{"i.hostid": ids})
			p.Where(whereFuncTrig, squirrel.Expr("f.triggerid=e.objectid"))
			p.Where(whereFuncItem, squirrel.Expr("f.itemid=i.itemid"))
		case entity.EventObjectItem, entity.EventObjectLLDRule:
			p.From("items", "items i")
			p.Where(whereHostIDs, squirrel.Eq{"i.hostid": ids})
			p.Where(whereFuncItem, squirrel.Expr("e.objectid=i.itemid"))
		}
	}
}

func Object(object entity.EventObject) Mutator {
	return func(p *Parts) {
		p.Where(whereObject, squirrel.Eq{ev.Column("object"): int(object)})
	}
}

func Source(source entity.EventSource) Mutator {
	return func(p *Parts) {
		p.Where(whereSource, squirrel.Eq{ev.Column("source"): int(source)})
	}
}

func Acknowledged(acknowledged bool) Mutator {
	v := 0
	if acknowledged {
		v = 1
	}
	return func(p *Parts) {
		p.Where("acknowledged", squirrel.Eq{ev.Column("acknowledged"): v})
	}
}

func TimeFrom(clock int64) Mutator {
	return func(p *Parts) {
		p.Where("time_from", squirrel.GtOrEq{ev.Column("clock"): clock})
	}
}

func TimeTill(clock int64) Mutator {
	return func(p *Parts) {
		p.Where("time_till", squirrel.LtOrEq{ev.Column("clock"): clock})
	}
}

func EventIDFrom(id uint64) Mutator {
	return func(p *Parts) {
		p.Where("eventid_from", squirrel.GtOrEq{ev.Column("eventid"): id})
	}
}

func EventIDTill(id uint64) Mutator {
	return func(p *Parts) {
		p.Where("eventid_till", squirrel.LtOrEq{ev.Column("eventid"): id})
	}
}

func Values(values []int) Mutator {
	return func(p *Parts) {
		p.Where("value", squirrel.Eq{ev.Column("value"): values})
	}
}

// EventOutput 在通用输出之外处理 event_recovery 虚拟字段，
// withObject 为 true 时追加 object、objectid 供关联对象查询使用
func EventOutput(output entity.Output, withObject bool) Mutator {
	return func(p *Parts) {
		if p.Counting() {
			return
		}
		Output(output)(p)

		recovery := false
		for _, field := range []string{"r_eventid", "c_eventid", "correlationid"} {
			if output.Has(field) {
				p.Select(field, entity.EventRecoveryTable.Column(field))
				recovery = true
			}
		}
		if recovery {
			p.LeftJoin(entity.EventRecoveryTable.Name, entity.EventRecoveryTable.From(), "er.eventid=e.eventid")
		}

		if withObject {
			p.Select("object", ev.Column("object"))
			p.Select("objectid", ev.Column("objectid"))
		}
	}
}
