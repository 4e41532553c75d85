package vo

import "devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/domain/entity"

type ResultKind int

const (
	ResultEvents ResultKind = iota
	ResultList
	ResultCount
	ResultGroups
)

// GetResult 查询结果，Kind 决定哪个字段有效
type GetResult struct {
	Kind   ResultKind
	Count  int64
	Groups []entity.Record
	Events map[uint64]entity.Record
	List   []entity.Record
}

// Len 返回结果中的事件数
func (r GetResult) Len() int {
	switch r.Kind {
	case ResultEvents:
		return len(r.Events)
	case ResultList:
		return len(r.List)
	}
	return 0
}

func (r GetResult) Has(eventID uint64) bool {
	switch r.Kind {
	case ResultEvents:
		_, ok := r.Events[eventID]
		return ok
	case ResultList:
		for _, e := range r.List {
			if id, ok := e["eventid"].(uint64); ok && id == eventID {
				return true
			}
		}
	}
	return false
}

// Body 响应体
func (r GetResult) Body() interface{} {
	switch r.Kind {
	case ResultCount:
		return r.Count
	case ResultGroups:
		return r.Groups
	case ResultEvents:
		return r.Events
	}
	return r.List
}

type AcknowledgeResp struct {
	EventIDs []uint64 `json:"eventids"`
}
