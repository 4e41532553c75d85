package query

import (
	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/domain/entity"
	"github.com/Masterminds/squirrel"
)

// In 按某一列过滤，field 为空时使用主键
func In(field string, ids []uint64) Mutator {
	return func(p *Parts) {
		t := p.Table()
		if field == "" {
			field = t.PK
		}
		p.Where("in."+field, squirrel.Eq{t.Column(field): ids})
		p.Select(field, t.Column(field))
	}
}

// HostRelation 事件到主机的关系：触发器经 functions、items 关联，监控项与自动发现规则经 items 关联
func HostRelation(source entity.EventSource, object entity.EventObject, eventIDs []uint64) (*Parts, bool) {
	p := NewEventParts().Apply(EventIDs(eventIDs))
	switch object {
	case entity.EventObjectTrigger:
		p.From("functions", "functions f")
		p.From("items", "items i")
		p.Where(whereFuncEvent, squirrel.Expr("f.triggerid=e.objectid"))
		p.Where(whereFuncItem, squirrel.Expr("f.itemid=i.itemid"))
	case entity.EventObjectItem, entity.EventObjectLLDRule:
		p.From("items", "items i")
		p.Where(whereFuncItem, squirrel.Expr("e.objectid=i.itemid"))
	default:
		return nil, false
	}
	p.Apply(Object(object), Source(source))
	p.Select("hostid", entity.ItemsTable.Column("hostid"))
	return p, true
}

// Acknowledges 查询事件的确认记录，按时间倒序；请求用户字段时关联 users 表。
// count 为 true 时按事件分组计数。
func Acknowledges(eventIDs []uint64, output entity.Output, count bool) *Parts {
	acks := entity.AcknowledgesTable
	p := New(acks).Apply(In("eventid", eventIDs))
	if count {
		return p.Count().GroupBy("eventid", acks.Column("eventid"))
	}

	p.Apply(Output(output))
	users := entity.UsersTable
	joinUsers := false
	for _, field := range entity.AcknowledgeUserFields {
		if output.Has(field) {
			p.Select(field, users.Column(field))
			joinUsers = true
		}
	}
	if joinUsers {
		p.LeftJoin(users.Name, users.From(), "u.userid=a.userid")
	}
	return p.OrderBy("clock", acks.Column("clock")+" "+SortDESC)
}

// Tags 查询事件标签
func Tags(eventIDs []uint64) *Parts {
	tags := entity.EventTagTable
	return New(tags).
		Apply(In("eventid", eventIDs)).
		Select("tag", tags.Column("tag")).
		Select("value", tags.Column("value"))
}
