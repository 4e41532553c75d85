// Package relation 在一次批量查询的结果与父对象之间建立索引，按关系把子对象挂回父对象。
package relation

import (
	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/common/ids"
	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/domain/entity"
	"github.com/spf13/cast"
)

// Map 父 ID -> 有序且去重的子 ID
type Map struct {
	parentKey string
	relations map[uint64]*ids.Set
	related   *ids.Set
}

// New parentKey 为父对象中的主键字段，例如 eventid
func New(parentKey string) *Map {
	return &Map{
		parentKey: parentKey,
		relations: make(map[uint64]*ids.Set),
		related:   ids.NewSet(),
	}
}

// FromRecords 用同一批记录中的两个字段建立关系，例如 acknowledges 的 eventid -> acknowledgeid
func FromRecords(records []entity.Record, parentKey, childKey string) *Map {
	m := New(parentKey)
	for _, r := range records {
		m.AddRelation(cast.ToUint64(r[parentKey]), cast.ToUint64(r[childKey]))
	}
	return m
}

func (m *Map) AddRelation(parentID, childID uint64) {
	children, ok := m.relations[parentID]
	if !ok {
		children = ids.NewSet()
		m.relations[parentID] = children
	}
	children.Add(childID)
	m.related.Add(childID)
}

// RelatedIDs 全部子 ID，用于一次性批量查询
func (m *Map) RelatedIDs() []uint64 {
	return m.related.Slice()
}

func (m *Map) Len() int {
	return m.related.Len()
}

// MapMany 为每个父对象设置子对象列表，没有关联时为空列表
func (m *Map) MapMany(parents []entity.Record, children map[uint64]entity.Record, field string) []entity.Record {
	for _, parent := range parents {
		list := make([]entity.Record, 0)
		for _, childID := range m.relations[m.parentID(parent)].Slice() {
			if child, ok := children[childID]; ok {
				list = append(list, child)
			}
		}
		parent[field] = list
	}
	return parents
}

// MapOne 为每个父对象设置唯一的关联对象，没有关联时不设置该字段
func (m *Map) MapOne(parents []entity.Record, children map[uint64]entity.Record, field string) []entity.Record {
	for _, parent := range parents {
		var one entity.Record
		for _, childID := range m.relations[m.parentID(parent)].Slice() {
			if child, ok := children[childID]; ok {
				one = child
				break
			}
		}
		if one == nil {
			delete(parent, field)
			continue
		}
		parent[field] = one
	}
	return parents
}

func (m *Map) parentID(parent entity.Record) uint64 {
	return cast.ToUint64(parent[m.parentKey])
}

// Index 按主键建立索引，供 MapMany、MapOne 使用
func Index(records []entity.Record, pk string) map[uint64]entity.Record {
	out := make(map[uint64]entity.Record, len(records))
	for _, r := range records {
		out[cast.ToUint64(r[pk])] = r
	}
	return out
}
