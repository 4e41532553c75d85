// Package ids 提供标识符集合，保持首次出现的顺序并去重。
package ids

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cast"
)

type Set struct {
	order []uint64
	index map[uint64]struct{}
}

func NewSet(values ...uint64) *Set {
	s := &Set{index: make(map[uint64]struct{}, len(values))}
	for _, v := range values {
		s.Add(v)
	}
	return s
}

// Add 追加标识符，已存在时忽略；返回是否为新元素
func (s *Set) Add(v uint64) bool {
	if s.index == nil {
		s.index = make(map[uint64]struct{})
	}
	if _, ok := s.index[v]; ok {
		return false
	}
	s.index[v] = struct{}{}
	s.order = append(s.order, v)
	return true
}

func (s *Set) Has(v uint64) bool {
	if s == nil {
		return false
	}
	_, ok := s.index[v]
	return ok
}

func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}

// Slice 按插入顺序返回副本
func (s *Set) Slice() []uint64 {
	if s == nil {
		return []uint64{}
	}
	out := make([]uint64, len(s.order))
	copy(out, s.order)
	return out
}

// Intersect 保留 s 的顺序，只留下 other 中也存在的元素
func (s *Set) Intersect(other *Set) *Set {
	out := NewSet()
	for _, v := range s.Slice() {
		if other.Has(v) {
			out.Add(v)
		}
	}
	return out
}

// Parse 把请求中的标识符（单值、数组、逗号分隔字符串）转换为集合。
// 返回 nil 表示未指定，空集合表示匹配不到任何对象。
func Parse(value any) (*Set, error) {
	if value == nil {
		return nil, nil
	}
	s := NewSet()
	switch v := value.(type) {
	case *Set:
		return v, nil
	case []uint64:
		for _, id := range v {
			s.Add(id)
		}
	case []any:
		for _, item := range v {
			id, err := parseOne(item)
			if err != nil {
				return nil, err
			}
			s.Add(id)
		}
	case []string:
		for _, item := range v {
			id, err := parseOne(item)
			if err != nil {
				return nil, err
			}
			s.Add(id)
		}
	case string:
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := parseOne(part)
			if err != nil {
				return nil, err
			}
			s.Add(id)
		}
	default:
		id, err := parseOne(v)
		if err != nil {
			return nil, err
		}
		s.Add(id)
	}
	return s, nil
}

func parseOne(value any) (uint64, error) {
	switch v := value.(type) {
	case string:
		// cast 会把 "abc" 静默转为 0，这里要求纯数字
		v = strings.TrimSpace(v)
		if v == "" || strings.TrimLeft(v, "0123456789") != "" {
			return 0, errors.Errorf("invalid identifier %q", v)
		}
	case float64:
		if v < 0 || v != float64(uint64(v)) {
			return 0, errors.Errorf("invalid identifier %v", v)
		}
	}
	id, err := cast.ToUint64E(value)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid identifier %v", value)
	}
	return id, nil
}
