package service

import (
	"context"
	"regexp"
	"strings"

	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/core"
	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/domain/dependency"
	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/domain/entity"
	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/domain/query"
	"github.com/pkg/errors"
	"github.com/spf13/cast"
)

// fakeCond 从渲染出的 SQL 中解析出的顶层条件
type fakeCond struct {
	eventIDs  map[uint64]bool
	objectIDs map[uint64]bool
	object    *int
	source    *int
	exists    bool
	limit     int
}

var (
	eventIDsClause = regexp.MustCompile(`^\w+\.eventid (IN \(|= \?)`)
	limitClause    = regexp.MustCompile(` LIMIT (\d+)$`)
)

// splitTopLevel 只在括号之外切分
func splitTopLevel(s, sep string) []string {
	var parts []string
	depth, start := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
		}
		if depth == 0 && strings.HasPrefix(s[i:], sep) {
			parts = append(parts, s[start:i])
			start = i + len(sep)
			i += len(sep) - 1
		}
	}
	return append(parts, s[start:])
}

func cutTopLevel(s string, keywords ...string) string {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
		}
		if depth != 0 {
			continue
		}
		for _, kw := range keywords {
			if strings.HasPrefix(s[i:], kw) {
				return s[:i]
			}
		}
	}
	return s
}

func idSet(args []interface{}) map[uint64]bool {
	out := make(map[uint64]bool, len(args))
	for _, a := range args {
		out[cast.ToUint64(a)] = true
	}
	return out
}

func parseCond(sql string, args []interface{}) fakeCond {
	cond := fakeCond{}
	if m := limitClause.FindStringSubmatch(sql); m != nil {
		cond.limit = cast.ToInt(m[1])
	}
	idx := strings.Index(sql, " WHERE ")
	if idx < 0 {
		return cond
	}
	where := cutTopLevel(sql[idx+len(" WHERE "):], " GROUP BY ", " ORDER BY ", " LIMIT ")
	for _, clause := range splitTopLevel(where, " AND ") {
		n := strings.Count(clause, "?")
		clauseArgs := args[:n]
		args = args[n:]
		switch {
		case clause == "(1=0)":
			cond.eventIDs = map[uint64]bool{}
		case eventIDsClause.MatchString(clause):
			cond.eventIDs = idSet(clauseArgs)
		case strings.HasPrefix(clause, "e.objectid IN ("):
			cond.objectIDs = idSet(clauseArgs)
		case clause == "e.object = ?":
			v := cast.ToInt(clauseArgs[0])
			cond.object = &v
		case clause == "e.source = ?":
			v := cast.ToInt(clauseArgs[0])
			cond.source = &v
		case strings.HasPrefix(clause, "EXISTS ("):
			cond.exists = true
		}
	}
	return cond
}

func (c fakeCond) match(r entity.Record) bool {
	if c.eventIDs != nil && !c.eventIDs[cast.ToUint64(r["eventid"])] {
		return false
	}
	if c.objectIDs != nil && !c.objectIDs[cast.ToUint64(r["objectid"])] {
		return false
	}
	if c.object != nil && cast.ToInt(r["object"]) != *c.object {
		return false
	}
	if c.source != nil && cast.ToInt(r["source"]) != *c.source {
		return false
	}
	return true
}

// fakeEventRepo 内存中的 events、acknowledges、event_tag 及事件到主机的关系
type fakeEventRepo struct {
	events    []entity.Record
	hidden    map[uint64]bool
	hostLinks []entity.Record
	tags      []entity.Record
	acks      *fakeAckRepo

	sqls         []string
	args         [][]interface{}
	acknowledged []uint64
	setErr       core.RepoError
}

func (f *fakeEventRepo) Select(_ context.Context, p *query.Parts) ([]entity.Record, core.RepoError) {
	sql, args, err := p.ToSql()
	if err != nil {
		return nil, dependency.NewRepoInternalError(err)
	}
	f.sqls = append(f.sqls, sql)
	f.args = append(f.args, args)
	cond := parseCond(sql, args)

	var source []entity.Record
	switch p.Table().Name {
	case entity.EventsTable.Name:
		if p.Selected("hostid") {
			source = f.hostLinks
			break
		}
		for _, e := range f.events {
			if cond.exists && f.hidden[cast.ToUint64(e["eventid"])] {
				continue
			}
			source = append(source, e)
		}
	case entity.AcknowledgesTable.Name:
		source = f.acks.rows
	case entity.EventTagTable.Name:
		source = f.tags
	}

	var matched []entity.Record
	for _, r := range source {
		if cond.match(r) {
			matched = append(matched, r)
		}
	}
	if cond.limit > 0 && len(matched) > cond.limit {
		matched = matched[:cond.limit]
	}
	if p.Counting() {
		return countRows(p.Columns()[1:], matched), nil
	}

	out := make([]entity.Record, 0, len(matched))
	for _, r := range matched {
		row := entity.Record{}
		for _, col := range p.Columns() {
			row[col.Key] = r[col.Key]
		}
		out = append(out, row)
	}
	return out, nil
}

func countRows(groups []query.Column, rows []entity.Record) []entity.Record {
	if len(groups) == 0 {
		return []entity.Record{{"rowscount": int64(len(rows))}}
	}
	var out []entity.Record
	index := map[string]entity.Record{}
	for _, r := range rows {
		key := ""
		for _, g := range groups {
			key += cast.ToString(r[g.Key]) + "|"
		}
		group, ok := index[key]
		if !ok {
			group = entity.Record{"rowscount": int64(0)}
			for _, g := range groups {
				group[g.Key] = r[g.Key]
			}
			index[key] = group
			out = append(out, group)
		}
		group["rowscount"] = group["rowscount"].(int64) + 1
	}
	return out
}

func (f *fakeEventRepo) SetAcknowledged(_ context.Context, eventIDs []uint64) core.RepoError {
	if f.setErr != nil {
		return f.setErr
	}
	ids := idSet(toArgs(eventIDs))
	for _, e := range f.events {
		if ids[cast.ToUint64(e["eventid"])] {
			e["acknowledged"] = int64(1)
		}
	}
	f.acknowledged = append(f.acknowledged, eventIDs...)
	return nil
}

func toArgs(ids []uint64) []interface{} {
	out := make([]interface{}, 0, len(ids))
	for _, id := range ids {
		out = append(out, id)
	}
	return out
}

type fakeAckRepo struct {
	rows   []entity.Record
	nextID uint64
	err    core.RepoError
	short  bool
}

func (f *fakeAckRepo) Insert(_ context.Context, acks []entity.Acknowledge) ([]uint64, core.RepoError) {
	if f.err != nil {
		return nil, f.err
	}
	ids := make([]uint64, 0, len(acks))
	for _, a := range acks {
		f.nextID++
		f.rows = append(f.rows, entity.Record{
			"acknowledgeid": f.nextID,
			"userid":        a.UserID,
			"eventid":       a.EventID,
			"clock":         a.Clock,
			"message":       a.Message,
			"action":        int64(a.Action),
		})
		ids = append(ids, f.nextID)
	}
	if f.short {
		ids = ids[:len(ids)-1]
	}
	return ids, nil
}

type fakeTaskRepo struct {
	tasks   []entity.Task
	links   []entity.TaskCloseProblem
	nextID  uint64
	linkErr core.RepoError
}

func (f *fakeTaskRepo) InsertTasks(_ context.Context, tasks []entity.Task) ([]uint64, core.RepoError) {
	ids := make([]uint64, 0, len(tasks))
	for _, t := range tasks {
		f.nextID++
		t.TaskID = f.nextID
		f.tasks = append(f.tasks, t)
		ids = append(ids, f.nextID)
	}
	return ids, nil
}

func (f *fakeTaskRepo) InsertCloseProblem(_ context.Context, links []entity.TaskCloseProblem) core.RepoError {
	if f.linkErr != nil {
		return f.linkErr
	}
	f.links = append(f.links, links...)
	return nil
}

// fakeTx 失败时把各仓储恢复到事务开始前的状态
type fakeTx struct {
	events *fakeEventRepo
	acks   *fakeAckRepo
	tasks  *fakeTaskRepo
	calls  int
}

func (f *fakeTx) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	flags := map[uint64]interface{}{}
	for _, e := range f.events.events {
		flags[cast.ToUint64(e["eventid"])] = e["acknowledged"]
	}
	acked, acks, tasks, links := len(f.events.acknowledged), len(f.acks.rows), len(f.tasks.tasks), len(f.tasks.links)

	if err := fn(ctx); err != nil {
		for _, e := range f.events.events {
			e["acknowledged"] = flags[cast.ToUint64(e["eventid"])]
		}
		f.events.acknowledged = f.events.acknowledged[:acked]
		f.acks.rows = f.acks.rows[:acks]
		f.tasks.tasks = f.tasks.tasks[:tasks]
		f.tasks.links = f.tasks.links[:links]
		return err
	}
	return nil
}

type fakeNotifier struct {
	calls [][]uint64
	err   error
}

func (f *fakeNotifier) AnnounceCloseProblem(_ context.Context, taskIDs []uint64) error {
	f.calls = append(f.calls, taskIDs)
	return f.err
}

type fakeGroups struct {
	groups []uint64
	calls  int
}

func (f *fakeGroups) UserGroupIDs(_ context.Context, _ uint64) ([]uint64, core.RepoError) {
	f.calls++
	return f.groups, nil
}

// fakeLookup 按 ID 过滤，Scope 不为空时排除 denied 中的对象
type fakeLookup struct {
	pk      string
	records []entity.Record
	denied  map[uint64]bool
	calls   []dependency.LookupQuery
}

func (f *fakeLookup) PK() string {
	return f.pk
}

func (f *fakeLookup) Get(_ context.Context, q dependency.LookupQuery) ([]entity.Record, core.RepoError) {
	f.calls = append(f.calls, q)
	field := q.ByField
	if field == "" {
		field = f.pk
	}
	ids := idSet(toArgs(q.IDs))
	var out []entity.Record
	for _, r := range f.records {
		if !ids[cast.ToUint64(r[field])] {
			continue
		}
		if q.Scope != nil && f.denied[cast.ToUint64(r[f.pk])] {
			continue
		}
		row := entity.Record{}
		for k, v := range r {
			if k == f.pk || k == field || q.Output.Has(k) {
				row[k] = v
			}
		}
		out = append(out, row)
	}
	return out, nil
}

var errStorage = dependency.NewRepoExecuteSqlError(errors.New("Duplicate entry"))
