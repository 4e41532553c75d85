package entity

import "fmt"

// EventSource 事件来源
type EventSource int

const (
	EventSourceTriggers         EventSource = 0
	EventSourceDiscovery        EventSource = 1
	EventSourceAutoRegistration EventSource = 2
	EventSourceInternal         EventSource = 3
)

// EventObject 事件关联的对象类型
type EventObject int

const (
	EventObjectTrigger     EventObject = 0
	EventObjectDHost       EventObject = 1
	EventObjectDService    EventObject = 2
	EventObjectAutoRegHost EventObject = 3
	EventObjectItem        EventObject = 4
	EventObjectLLDRule     EventObject = 5
)

const (
	TriggerValueOK      = 0
	TriggerValueProblem = 1

	TriggerManualCloseNotAllowed = 0
	TriggerManualCloseAllowed    = 1

	EventNotAcknowledged = 0
	EventAcknowledged    = 1
)

var eventSourceNames = map[EventSource]string{
	EventSourceTriggers:         "trigger",
	EventSourceDiscovery:        "discovery",
	EventSourceAutoRegistration: "auto registration",
	EventSourceInternal:         "internal",
}

var eventObjectNames = map[EventObject]string{
	EventObjectTrigger:     "trigger",
	EventObjectDHost:       "discovered host",
	EventObjectDService:    "discovered service",
	EventObjectAutoRegHost: "auto-registered host",
	EventObjectItem:        "item",
	EventObjectLLDRule:     "low-level discovery rule",
}

// 来源与对象的合法组合
var sourceObjects = map[EventSource][]EventObject{
	EventSourceTriggers:         {EventObjectTrigger},
	EventSourceDiscovery:        {EventObjectDHost, EventObjectDService},
	EventSourceAutoRegistration: {EventObjectAutoRegHost},
	EventSourceInternal:         {EventObjectTrigger, EventObjectItem, EventObjectLLDRule},
}

func (s EventSource) Valid() bool {
	_, ok := eventSourceNames[s]
	return ok
}

func (s EventSource) String() string {
	if name, ok := eventSourceNames[s]; ok {
		return name
	}
	return fmt.Sprintf("source(%d)", int(s))
}

func (o EventObject) Valid() bool {
	_, ok := eventObjectNames[o]
	return ok
}

func (o EventObject) String() string {
	if name, ok := eventObjectNames[o]; ok {
		return name
	}
	return fmt.Sprintf("object(%d)", int(o))
}

// HostLinked 对象是否能通过 items 关联到主机
func (o EventObject) HostLinked() bool {
	return o == EventObjectTrigger || o == EventObjectItem || o == EventObjectLLDRule
}

// Compatible 检查来源与对象组合是否合法
func Compatible(source EventSource, object EventObject) bool {
	for _, o := range sourceObjects[source] {
		if o == object {
			return true
		}
	}
	return false
}

// Sources 返回全部事件来源
func Sources() []EventSource {
	return []EventSource{EventSourceTriggers, EventSourceDiscovery, EventSourceAutoRegistration, EventSourceInternal}
}

// Objects 返回全部对象类型
func Objects() []EventObject {
	return []EventObject{EventObjectTrigger, EventObjectDHost, EventObjectDService, EventObjectAutoRegHost,
		EventObjectItem, EventObjectLLDRule}
}

// AcknowledgeAction 确认时附带的动作
type AcknowledgeAction int

const (
	AcknowledgeActionNone         AcknowledgeAction = 0
	AcknowledgeActionCloseProblem AcknowledgeAction = 1
)

func (a AcknowledgeAction) Valid() bool {
	return a == AcknowledgeActionNone || a == AcknowledgeActionCloseProblem
}

const (
	TaskTypeCloseProblem = 1
	TaskStatusNew        = 1
)

// Record 一行查询结果，字段集合由输出参数决定
type Record map[string]any

// Acknowledge 确认记录
type Acknowledge struct {
	AcknowledgeID uint64
	UserID        uint64
	EventID       uint64
	Clock         int64
	Message       string
	Action        AcknowledgeAction
}

// Task 任务队列中的一条任务，由外部 worker 消费
type Task struct {
	TaskID uint64
	Type   int
	Status int
	Clock  int64
}

// TaskCloseProblem 关闭问题任务与确认记录一一对应
type TaskCloseProblem struct {
	TaskID        uint64
	AcknowledgeID uint64
}
