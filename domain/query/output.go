package query

import (
	"fmt"
	"sort"
	"strings"

	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/common/ids"
	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/domain/entity"
	"github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"github.com/spf13/cast"
)

const (
	SortASC  = "ASC"
	SortDESC = "DESC"
)

// Output 按请求的输出字段追加 select，表中不存在的字段忽略
func Output(output entity.Output) Mutator {
	return func(p *Parts) {
		t := p.Table()
		switch output.Mode {
		case entity.OutputExtend:
			for _, name := range t.FieldNames() {
				p.Select(name, t.Column(name))
			}
		case entity.OutputFields:
			for _, name := range output.Fields {
				if t.HasField(name) {
					p.Select(name, t.Column(name))
				}
			}
		}
	}
}

// Sort 校验排序字段与方向。sortorder 只有一个时作用于全部字段，否则按下标对应，缺省为 ASC
func Sort(table entity.Table, sortable []string, fields []string, orders []string) (Mutator, error) {
	type item struct{ field, order string }
	items := make([]item, 0, len(fields))
	for i, field := range fields {
		if field == "" {
			continue
		}
		if !contains(sortable, field) || !table.HasField(field) {
			return nil, errors.Errorf("Sorting by field \"%s\" not allowed.", field)
		}
		order := SortASC
		switch {
		case len(orders) == 1:
			order = orders[0]
		case i < len(orders):
			order = orders[i]
		}
		order = strings.ToUpper(strings.TrimSpace(order))
		if order == "" {
			order = SortASC
		}
		if order != SortASC && order != SortDESC {
			return nil, errors.Errorf("Incorrect sort direction \"%s\".", order)
		}
		items = append(items, item{field: field, order: order})
	}

	return func(p *Parts) {
		for _, it := range items {
			p.OrderBy(it.field, table.Column(it.field)+" "+it.order)
			p.Select(it.field, table.Column(it.field))
		}
	}, nil
}

// Filter 字段等值过滤，多个值时使用 IN；未知字段报错，空值忽略
func Filter(table entity.Table, filter map[string]interface{}) (Mutator, error) {
	names := make([]string, 0, len(filter))
	for name := range filter {
		names = append(names, name)
	}
	sort.Strings(names)

	preds := make([]squirrel.Sqlizer, 0, len(names))
	for _, name := range names {
		field, ok := table.Field(name)
		if !ok {
			return nil, errors.Errorf("Incorrect filter field \"%s\".", name)
		}
		values, err := filterValues(field, filter[name])
		if err != nil {
			return nil, err
		}
		switch len(values) {
		case 0:
			continue
		case 1:
			preds = append(preds, squirrel.Eq{table.Column(name): values[0]})
		default:
			preds = append(preds, squirrel.Eq{table.Column(name): values})
		}
	}

	return func(p *Parts) {
		for i, pred := range preds {
			p.Where(fmt.Sprintf("filter.%d", i), pred)
		}
	}, nil
}

func filterValues(field entity.Field, raw interface{}) ([]interface{}, error) {
	if raw == nil {
		return nil, nil
	}
	var items []interface{}
	switch v := raw.(type) {
	case []interface{}:
		items = v
	case []string:
		for _, s := range v {
			items = append(items, s)
		}
	default:
		items = []interface{}{v}
	}

	out := make([]interface{}, 0, len(items))
	for _, item := range items {
		switch field.Kind {
		case entity.FieldID:
			set, err := ids.Parse(item)
			if err != nil {
				return nil, errors.Wrapf(err, "Incorrect filter value for field \"%s\"", field.Name)
			}
			for _, id := range set.Slice() {
				out = append(out, id)
			}
		case entity.FieldInt:
			n, err := cast.ToInt64E(item)
			if err != nil {
				return nil, errors.Wrapf(err, "Incorrect filter value for field \"%s\"", field.Name)
			}
			out = append(out, n)
		default:
			s, err := cast.ToStringE(item)
			if err != nil {
				return nil, errors.Wrapf(err, "Incorrect filter value for field \"%s\"", field.Name)
			}
			out = append(out, s)
		}
	}
	return out, nil
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
