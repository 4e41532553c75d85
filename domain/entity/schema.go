package entity

import "strings"

// FieldKind 字段类型，决定过滤与模糊搜索是否适用
type FieldKind int

const (
	FieldID FieldKind = iota
	FieldInt
	FieldString
)

// Table 查询涉及的表结构（只包含用到的列）
type Table struct {
	Name   string
	Alias  string
	PK     string
	Fields []Field
}

type Field struct {
	Name string
	Kind FieldKind
}

func (t Table) Field(name string) (Field, bool) {
	for _, f := range t.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

func (t Table) HasField(name string) bool {
	_, ok := t.Field(name)
	return ok
}

// FieldNames 按定义顺序返回全部列名
func (t Table) FieldNames() []string {
	names := make([]string, 0, len(t.Fields))
	for _, f := range t.Fields {
		names = append(names, f.Name)
	}
	return names
}

// Column 带别名的列名，例如 e.eventid
func (t Table) Column(name string) string {
	return t.Alias + "." + name
}

// From 带别名的表名，例如 events e
func (t Table) From() string {
	return t.Name + " " + t.Alias
}

var (
	EventsTable = Table{
		Name: "events", Alias: "e", PK: "eventid",
		Fields: []Field{
			{"eventid", FieldID},
			{"source", FieldInt},
			{"object", FieldInt},
			{"objectid", FieldID},
			{"clock", FieldInt},
			{"ns", FieldInt},
			{"value", FieldInt},
			{"acknowledged", FieldInt},
			{"name", FieldString},
		},
	}

	// EventRecoveryTable 通过 LEFT JOIN 输出 r_eventid、c_eventid、correlationid
	EventRecoveryTable = Table{
		Name: "event_recovery", Alias: "er", PK: "eventid",
		Fields: []Field{
			{"eventid", FieldID},
			{"r_eventid", FieldID},
			{"c_eventid", FieldID},
			{"correlationid", FieldID},
		},
	}

	AcknowledgesTable = Table{
		Name: "acknowledges", Alias: "a", PK: "acknowledgeid",
		Fields: []Field{
			{"acknowledgeid", FieldID},
			{"userid", FieldID},
			{"eventid", FieldID},
			{"clock", FieldInt},
			{"message", FieldString},
			{"action", FieldInt},
		},
	}

	EventTagTable = Table{
		Name: "event_tag", Alias: "et", PK: "eventtagid",
		Fields: []Field{
			{"eventtagid", FieldID},
			{"eventid", FieldID},
			{"tag", FieldString},
			{"value", FieldString},
		},
	}

	AlertsTable = Table{
		Name: "alerts", Alias: "al", PK: "alertid",
		Fields: []Field{
			{"alertid", FieldID},
			{"eventid", FieldID},
			{"userid", FieldID},
			{"clock", FieldInt},
			{"message", FieldString},
			{"status", FieldInt},
		},
	}

	HostsTable = Table{
		Name: "hosts", Alias: "h", PK: "hostid",
		Fields: []Field{
			{"hostid", FieldID},
			{"host", FieldString},
			{"name", FieldString},
			{"status", FieldInt},
		},
	}

	TriggersTable = Table{
		Name: "triggers", Alias: "t", PK: "triggerid",
		Fields: []Field{
			{"triggerid", FieldID},
			{"description", FieldString},
			{"priority", FieldInt},
			{"value", FieldInt},
			{"manual_close", FieldInt},
		},
	}

	// ItemsTable 普通监控项与自动发现规则共用，flags 区分
	ItemsTable = Table{
		Name: "items", Alias: "i", PK: "itemid",
		Fields: []Field{
			{"itemid", FieldID},
			{"hostid", FieldID},
			{"name", FieldString},
			{"key_", FieldString},
			{"flags", FieldInt},
		},
	}

	DHostsTable = Table{
		Name: "dhosts", Alias: "dh", PK: "dhostid",
		Fields: []Field{
			{"dhostid", FieldID},
			{"druleid", FieldID},
			{"status", FieldInt},
		},
	}

	DServicesTable = Table{
		Name: "dservices", Alias: "ds", PK: "dserviceid",
		Fields: []Field{
			{"dserviceid", FieldID},
			{"dhostid", FieldID},
			{"type", FieldInt},
			{"ip", FieldString},
			{"port", FieldInt},
			{"status", FieldInt},
		},
	}

	UsersTable = Table{
		Name: "users", Alias: "u", PK: "userid",
		Fields: []Field{
			{"userid", FieldID},
			{"alias", FieldString},
			{"name", FieldString},
			{"surname", FieldString},
			{"type", FieldInt},
		},
	}
)

const (
	ItemFlagNormal        = 0
	ItemFlagDiscoveryRule = 1
)

// 确认记录中可通过 users 表补充的字段
var AcknowledgeUserFields = []string{"alias", "name", "surname"}

var tablesByAlias = map[string]Table{}

func init() {
	for _, t := range []Table{EventsTable, EventRecoveryTable, AcknowledgesTable, EventTagTable, AlertsTable,
		HostsTable, TriggersTable, ItemsTable, DHostsTable, DServicesTable, UsersTable} {
		tablesByAlias[t.Alias] = t
	}
}

// TableByAlias 按别名查找表结构
func TableByAlias(alias string) (Table, bool) {
	t, ok := tablesByAlias[alias]
	return t, ok
}

// ColumnKind 根据 alias.field 形式的列表达式推断类型，无法识别时按字符串处理
func ColumnKind(expr string) FieldKind {
	if strings.HasSuffix(expr, " AS rowscount") {
		return FieldInt
	}
	alias, name, ok := strings.Cut(expr, ".")
	if !ok {
		return FieldString
	}
	t, ok := TableByAlias(alias)
	if !ok {
		return FieldString
	}
	if f, ok := t.Field(name); ok {
		return f.Kind
	}
	return FieldString
}
