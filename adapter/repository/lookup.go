package repository

import (
	"context"

	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/common/log"
	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/core"
	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/domain/dependency"
	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/domain/entity"
	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/domain/query"
	"github.com/Masterminds/squirrel"
)

// tableLookup 按 ID 查询一类关联对象。permObject 为触发器、监控项或自动发现规则时支持权限过滤
type tableLookup struct {
	recordRepo
	table      entity.Table
	permObject entity.EventObject
	guarded    bool
	fixed      map[string]any
}

func (l *tableLookup) PK() string {
	return l.table.PK
}

func (l *tableLookup) Get(ctx context.Context, q dependency.LookupQuery) ([]entity.Record, core.RepoError) {
	if len(q.IDs) == 0 {
		return []entity.Record{}, nil
	}
	t := l.table
	p := query.New(t).Apply(query.Output(q.Output), query.In(q.ByField, q.IDs))
	for field, v := range l.fixed {
		p.Where("fixed."+field, squirrel.Eq{t.Column(field): v})
	}
	if q.Scope != nil && l.guarded {
		p.Apply(query.PermissionOn(l.permObject, t.Column(t.PK), q.Scope.GroupIDs, q.Scope.Permission))
	}
	if q.SortField != "" {
		sort, err := query.Sort(t, []string{q.SortField}, []string{q.SortField}, []string{q.SortOrder})
		if err != nil {
			log.Errorf("invalid sort for %s: %v", t.Name, err)
			return nil, dependency.NewRepoInternalError(err)
		}
		p.Apply(sort)
	}
	return l.Select(ctx, p)
}

func newTableLookup(repo core.Repo, table entity.Table) *tableLookup {
	return &tableLookup{recordRepo: recordRepo{Repo: repo}, table: table}
}

func (l *tableLookup) guard(object entity.EventObject) *tableLookup {
	l.permObject = object
	l.guarded = true
	return l
}

func (l *tableLookup) where(field string, v any) *tableLookup {
	if l.fixed == nil {
		l.fixed = make(map[string]any)
	}
	l.fixed[field] = v
	return l
}

// NewLookups 监控项与自动发现规则同在 items 表，以 flags 区分
func NewLookups(repo core.Repo) *dependency.Lookups {
	return &dependency.Lookups{
		Triggers: newTableLookup(repo, entity.TriggersTable).guard(entity.EventObjectTrigger),
		Items: newTableLookup(repo, entity.ItemsTable).guard(entity.EventObjectItem).
			where("flags", entity.ItemFlagNormal),
		DiscoveryRules: newTableLookup(repo, entity.ItemsTable).guard(entity.EventObjectLLDRule).
			where("flags", entity.ItemFlagDiscoveryRule),
		DHosts:    newTableLookup(repo, entity.DHostsTable),
		DServices: newTableLookup(repo, entity.DServicesTable),
		Hosts:     newTableLookup(repo, entity.HostsTable),
		Alerts:    newTableLookup(repo, entity.AlertsTable),
	}
}
