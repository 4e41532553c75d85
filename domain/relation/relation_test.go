package relation

import (
	"testing"

	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/domain/entity"
	. "github.com/smartystreets/goconvey/convey"
)

func events(eventIDs ...uint64) []entity.Record {
	out := make([]entity.Record, 0, len(eventIDs))
	for _, id := range eventIDs {
		out = append(out, entity.Record{"eventid": id})
	}
	return out
}

func TestMap(t *testing.T) {
	Convey("TestMap", t, func() {
		Convey("RelatedIDs 去重并保持顺序", func() {
			m := New("eventid")
			m.AddRelation(1, 30)
			m.AddRelation(2, 10)
			m.AddRelation(1, 10)
			m.AddRelation(1, 30)

			So(m.RelatedIDs(), ShouldResemble, []uint64{30, 10})
			So(m.Len(), ShouldEqual, 2)
		})

		Convey("MapMany 不丢失父对象", func() {
			m := New("eventid")
			m.AddRelation(1, 10)
			m.AddRelation(1, 11)
			m.AddRelation(2, 99)
			hosts := map[uint64]entity.Record{
				10: {"hostid": uint64(10)},
				11: {"hostid": uint64(11)},
			}

			result := m.MapMany(events(1, 2, 3), hosts, "hosts")

			So(len(result), ShouldEqual, 3)
			So(result[0]["hosts"], ShouldResemble, []entity.Record{{"hostid": uint64(10)}, {"hostid": uint64(11)}})
			// 子对象不存在或没有关联时为空列表
			So(result[1]["hosts"], ShouldResemble, []entity.Record{})
			So(result[2]["hosts"], ShouldResemble, []entity.Record{})
		})

		Convey("MapOne 没有关联时不设置字段", func() {
			m := New("eventid")
			m.AddRelation(1, 500)
			triggers := map[uint64]entity.Record{500: {"triggerid": uint64(500), "manual_close": 1}}

			result := m.MapOne(events(1, 2), triggers, "relatedObject")

			So(result[0]["relatedObject"], ShouldResemble, entity.Record{"triggerid": uint64(500), "manual_close": 1})
			_, ok := result[1]["relatedObject"]
			So(ok, ShouldBeFalse)

			// 关联的子对象不在结果中时同样不设置
			m.AddRelation(2, 600)
			result = m.MapOne(events(2), triggers, "relatedObject")
			_, ok = result[0]["relatedObject"]
			So(ok, ShouldBeFalse)
		})

		Convey("FromRecords 使用记录中的字段建立关系", func() {
			acks := []entity.Record{
				{"acknowledgeid": int64(7), "eventid": "1"},
				{"acknowledgeid": int64(8), "eventid": "1"},
				{"acknowledgeid": int64(9), "eventid": "2"},
			}
			m := FromRecords(acks, "eventid", "acknowledgeid")
			children := map[uint64]entity.Record{7: {"message": "a"}, 8: {"message": "b"}, 9: {"message": "c"}}

			result := m.MapMany(events(2, 1), children, "acknowledges")

			So(m.RelatedIDs(), ShouldResemble, []uint64{7, 8, 9})
			So(result[0]["acknowledges"], ShouldResemble, []entity.Record{{"message": "c"}})
			So(result[1]["acknowledges"], ShouldResemble, []entity.Record{{"message": "a"}, {"message": "b"}})
		})
	})
}
