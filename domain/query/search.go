package query

import (
	"sort"
	"strings"

	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/domain/entity"
	"github.com/Masterminds/squirrel"
	"github.com/spf13/cast"
)

// SearchOptions 模糊搜索参数
type SearchOptions struct {
	// 字段 -> 模式（字符串或字符串数组）
	Search           map[string]interface{}
	SearchByAny      bool
	StartSearch      bool
	ExcludeSearch    bool
	WildcardsEnabled bool
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// Search 只作用于字符串字段，不存在或非字符串字段忽略。
// 同一字段的多个模式之间为 OR（排除模式时为 AND），字段之间默认 AND，searchByAny 时为 OR。
func Search(table entity.Table, opts SearchOptions) Mutator {
	names := make([]string, 0, len(opts.Search))
	for name := range opts.Search {
		names = append(names, name)
	}
	sort.Strings(names)

	var fieldPreds []squirrel.Sqlizer
	for _, name := range names {
		field, ok := table.Field(name)
		if !ok || field.Kind != entity.FieldString {
			continue
		}
		var preds []squirrel.Sqlizer
		for _, pattern := range patterns(opts.Search[name]) {
			preds = append(preds, likeExpr(table.Column(name), pattern, opts))
		}
		switch {
		case len(preds) == 0:
			continue
		case len(preds) == 1:
			fieldPreds = append(fieldPreds, preds[0])
		case opts.ExcludeSearch:
			fieldPreds = append(fieldPreds, squirrel.And(preds))
		default:
			fieldPreds = append(fieldPreds, squirrel.Or(preds))
		}
	}

	return func(p *Parts) {
		switch {
		case len(fieldPreds) == 0:
			return
		case len(fieldPreds) == 1:
			p.Where("search", fieldPreds[0])
		case opts.SearchByAny:
			p.Where("search", squirrel.Or(fieldPreds))
		default:
			p.Where("search", squirrel.And(fieldPreds))
		}
	}
}

func likeExpr(column, pattern string, opts SearchOptions) squirrel.Sqlizer {
	pattern = strings.ToUpper(likeEscaper.Replace(pattern))
	switch {
	case opts.WildcardsEnabled:
		pattern = strings.ReplaceAll(pattern, "*", "%")
	case opts.StartSearch:
		pattern = pattern + "%"
	default:
		pattern = "%" + pattern + "%"
	}
	op := "LIKE"
	if opts.ExcludeSearch {
		op = "NOT LIKE"
	}
	return squirrel.Expr("UPPER("+column+") "+op+" ? ESCAPE '!'", pattern)
}

func patterns(raw interface{}) []string {
	var out []string
	switch v := raw.(type) {
	case nil:
	case []interface{}:
		for _, item := range v {
			if s := cast.ToString(item); s != "" {
				out = append(out, s)
			}
		}
	case []string:
		for _, s := range v {
			if s != "" {
				out = append(out, s)
			}
		}
	default:
		if s := cast.ToString(v); s != "" {
			out = append(out, s)
		}
	}
	return out
}
