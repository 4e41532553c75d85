package query

import (
	"testing"

	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/domain/entity"
	. "github.com/smartystreets/goconvey/convey"
)

var sortable = []string{"eventid", "objectid", "clock"}

func TestSort(t *testing.T) {
	Convey("TestSort", t, func() {
		Convey("单个方向作用于全部字段", func() {
			m, err := Sort(entity.EventsTable, sortable, []string{"clock", "eventid"}, []string{"desc"})
			So(err, ShouldBeNil)

			sql, _, err := NewEventParts().Apply(m).Limit(10).ToSql()

			So(err, ShouldBeNil)
			So(sql, ShouldEqual, "SELECT e.eventid, e.clock FROM events e ORDER BY e.clock DESC, e.eventid DESC LIMIT 10")
		})

		Convey("按下标对应方向，缺省为 ASC", func() {
			m, err := Sort(entity.EventsTable, sortable, []string{"clock", "objectid", "eventid"}, []string{"DESC", "ASC"})
			So(err, ShouldBeNil)

			sql, _, _ := NewEventParts().Apply(m).ToSql()

			So(sql, ShouldEqual, "SELECT e.eventid, e.clock, e.objectid FROM events e "+
				"ORDER BY e.clock DESC, e.objectid ASC, e.eventid ASC")
		})

		Convey("不允许的排序字段", func() {
			_, err := Sort(entity.EventsTable, sortable, []string{"name"}, nil)

			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, `"name"`)
		})

		Convey("错误的排序方向", func() {
			_, err := Sort(entity.EventsTable, sortable, []string{"clock"}, []string{"up"})

			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "sort direction")
		})
	})
}

func TestFilter(t *testing.T) {
	Convey("TestFilter", t, func() {
		Convey("单值等于，多值 IN", func() {
			m, err := Filter(entity.EventsTable, map[string]interface{}{
				"value":        []interface{}{float64(0), float64(1)},
				"acknowledged": float64(1),
				"name":         nil,
			})
			So(err, ShouldBeNil)

			sql, args, _ := NewEventParts().Apply(m).ToSql()

			So(sql, ShouldEqual, "SELECT e.eventid FROM events e WHERE e.acknowledged = ? AND e.value IN (?,?)")
			So(args, ShouldResemble, []interface{}{int64(1), int64(0), int64(1)})
		})

		Convey("标识符字段", func() {
			m, err := Filter(entity.EventsTable, map[string]interface{}{"objectid": "12,13"})
			So(err, ShouldBeNil)

			sql, args, _ := NewEventParts().Apply(m).ToSql()

			So(sql, ShouldEqual, "SELECT e.eventid FROM events e WHERE e.objectid IN (?,?)")
			So(args, ShouldResemble, []interface{}{uint64(12), uint64(13)})
		})

		Convey("未知字段报错", func() {
			_, err := Filter(entity.EventsTable, map[string]interface{}{"severity": 1})

			So(err, ShouldNotBeNil)
		})

		Convey("非法的值", func() {
			_, err := Filter(entity.EventsTable, map[string]interface{}{"clock": "yesterday"})

			So(err, ShouldNotBeNil)
		})
	})
}

func TestSearch(t *testing.T) {
	Convey("TestSearch", t, func() {
		Convey("只搜索字符串字段并转义", func() {
			m := Search(entity.EventsTable, SearchOptions{Search: map[string]interface{}{
				"name":  "cpu_load",
				"clock": "1",
			}})

			sql, args, _ := NewEventParts().Apply(m).ToSql()

			So(sql, ShouldEqual, "SELECT e.eventid FROM events e WHERE UPPER(e.name) LIKE ? ESCAPE '!'")
			So(args, ShouldResemble, []interface{}{"%CPU!_LOAD%"})
		})

		Convey("多个模式取或", func() {
			m := Search(entity.EventsTable, SearchOptions{Search: map[string]interface{}{
				"name": []interface{}{"a", "b"},
			}})

			sql, args, _ := NewEventParts().Apply(m).ToSql()

			So(sql, ShouldEqual, "SELECT e.eventid FROM events e WHERE (UPPER(e.name) LIKE ? ESCAPE '!' OR UPPER(e.name) LIKE ? ESCAPE '!')")
			So(args, ShouldResemble, []interface{}{"%A%", "%B%"})
		})

		Convey("排除模式取与", func() {
			m := Search(entity.EventsTable, SearchOptions{
				Search:        map[string]interface{}{"name": []string{"a", "b"}},
				ExcludeSearch: true,
			})

			sql, _, _ := NewEventParts().Apply(m).ToSql()

			So(sql, ShouldEqual, "SELECT e.eventid FROM events e WHERE (UPPER(e.name) NOT LIKE ? ESCAPE '!' AND UPPER(e.name) NOT LIKE ? ESCAPE '!')")
		})

		Convey("前缀搜索与通配符", func() {
			start := Search(entity.EventsTable, SearchOptions{Search: map[string]interface{}{"name": "disk"}, StartSearch: true})
			wildcard := Search(entity.EventsTable, SearchOptions{Search: map[string]interface{}{"name": "disk*free"}, WildcardsEnabled: true})

			_, startArgs, _ := NewEventParts().Apply(start).ToSql()
			_, wildcardArgs, _ := NewEventParts().Apply(wildcard).ToSql()

			So(startArgs, ShouldResemble, []interface{}{"DISK%"})
			So(wildcardArgs, ShouldResemble, []interface{}{"DISK%FREE"})
		})

		Convey("空模式不产生条件", func() {
			m := Search(entity.EventsTable, SearchOptions{Search: map[string]interface{}{"name": ""}})

			sql, _, _ := NewEventParts().Apply(m).ToSql()

			So(sql, ShouldEqual, "SELECT e.eventid FROM events e")
		})
	})
}
