// Package query 以结构化的中间形式（select/from/join/where/group/order/limit）拼装查询，
// 所有拼装函数只修改 Parts，最后由 ToSql 统一渲染为 SQL。
package query

import (
	"fmt"
	"strings"

	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/domain/entity"
	"github.com/Masterminds/squirrel"
)

// keyed 按键去重且保持首次写入顺序的集合，同一个键再次写入时原位覆盖
type keyed[V any] struct {
	keys []string
	vals map[string]V
}

func (k *keyed[V]) set(key string, v V) {
	if k.vals == nil {
		k.vals = make(map[string]V)
	}
	if _, ok := k.vals[key]; !ok {
		k.keys = append(k.keys, key)
	}
	k.vals[key] = v
}

func (k *keyed[V]) get(key string) (V, bool) {
	v, ok := k.vals[key]
	return v, ok
}

func (k *keyed[V]) len() int {
	return len(k.keys)
}

func (k *keyed[V]) values() []V {
	out := make([]V, 0, len(k.keys))
	for _, key := range k.keys {
		out = append(out, k.vals[key])
	}
	return out
}

// Column 结果集中的一列，Key 为返回记录中的字段名
type Column struct {
	Key  string
	Kind entity.FieldKind
}

// Join LEFT JOIN 子句
type Join struct {
	From string
	On   string
}

// Mutator 对 Parts 的一次独立修改
type Mutator func(p *Parts)

// Parts 一次查询的中间表示
type Parts struct {
	table   entity.Table
	selects keyed[string]
	from    keyed[string]
	joins   keyed[Join]
	where   keyed[squirrel.Sqlizer]
	group   keyed[string]
	order   keyed[string]
	limit   uint64
	count   bool
	seq     int
}

// New 以主表为起点，默认只查询主键
func New(table entity.Table) *Parts {
	p := &Parts{table: table}
	p.Select(table.PK, table.Column(table.PK))
	p.From(table.Name, table.From())
	return p
}

func (p *Parts) Table() entity.Table {
	return p.table
}

func (p *Parts) Apply(mutators ...Mutator) *Parts {
	for _, m := range mutators {
		if m != nil {
			m(p)
		}
	}
	return p
}

// Select 以键去重，例如 "objectid" -> "e.objectid"
func (p *Parts) Select(key, expr string) *Parts {
	p.selects.set(key, expr)
	return p
}

func (p *Parts) Selected(key string) bool {
	_, ok := p.selects.get(key)
	return ok
}

// From 以表名为键，重复添加同一张表不会产生重复连接
func (p *Parts) From(key, expr string) *Parts {
	p.from.set(key, expr)
	return p
}

func (p *Parts) LeftJoin(key, from, on string) *Parts {
	p.joins.set(key, Join{From: from, On: on})
	return p
}

// Where 带键的条件，相同键后写覆盖先写
func (p *Parts) Where(key string, pred squirrel.Sqlizer) *Parts {
	p.where.set(key, pred)
	return p
}

// AndWhere 不需要去重的条件
func (p *Parts) AndWhere(pred squirrel.Sqlizer) *Parts {
	p.seq++
	p.where.set(fmt.Sprintf("#%d", p.seq), pred)
	return p
}

func (p *Parts) GroupBy(key, expr string) *Parts {
	p.group.set(key, expr)
	return p
}

func (p *Parts) OrderBy(key, expr string) *Parts {
	p.order.set(key, expr)
	return p
}

// Limit 0 表示不限制
func (p *Parts) Limit(n uint64) *Parts {
	p.limit = n
	return p
}

// Count 渲染为 COUNT(DISTINCT pk) AS rowscount，分组列会一并输出
func (p *Parts) Count() *Parts {
	p.count = true
	return p
}

func (p *Parts) Counting() bool {
	return p.count
}

// Builder 渲染为 squirrel 查询
func (p *Parts) Builder() squirrel.SelectBuilder {
	var columns []string
	if p.count {
		columns = append(columns, fmt.Sprintf("COUNT(DISTINCT %s) AS rowscount", p.table.Column(p.table.PK)))
		columns = append(columns, p.group.values()...)
	} else {
		columns = p.selects.values()
	}

	b := squirrel.Select(columns...)
	if !p.count && p.from.len() > 1 {
		b = b.Distinct()
	}
	b = b.From(p.renderFrom())
	for _, w := range p.where.values() {
		b = b.Where(w)
	}
	if p.group.len() > 0 {
		b = b.GroupBy(p.group.values()...)
	}
	if !p.count && p.order.len() > 0 {
		b = b.OrderBy(p.order.values()...)
	}
	if p.limit > 0 {
		b = b.Limit(p.limit)
	}
	return b
}

// Columns 与 Builder 渲染出的列一一对应，供扫描结果时确定字段名和类型
func (p *Parts) Columns() []Column {
	if p.count {
		cols := []Column{{Key: "rowscount", Kind: entity.FieldInt}}
		for _, key := range p.group.keys {
			cols = append(cols, Column{Key: key, Kind: entity.ColumnKind(p.group.vals[key])})
		}
		return cols
	}
	cols := make([]Column, 0, p.selects.len())
	for _, key := range p.selects.keys {
		cols = append(cols, Column{Key: key, Kind: entity.ColumnKind(p.selects.vals[key])})
	}
	return cols
}

func (p *Parts) ToSql() (string, []interface{}, error) {
	return p.Builder().ToSql()
}

// 存在 LEFT JOIN 时主表放在最后，保证 JOIN 紧跟主表
func (p *Parts) renderFrom() string {
	if p.joins.len() == 0 {
		return strings.Join(p.from.values(), ",")
	}
	var sources []string
	for _, key := range p.from.keys {
		if key != p.table.Name {
			sources = append(sources, p.from.vals[key])
		}
	}
	base := p.table.From()
	for _, j := range p.joins.values() {
		base += " LEFT JOIN " + j.From + " ON " + j.On
	}
	return strings.Join(append(sources, base), ",")
}
