package vo

import (
	"testing"

	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/domain/entity"
	. "github.com/smartystreets/goconvey/convey"
)

func TestDecodeEventGetReq(t *testing.T) {
	Convey("TestDecodeEventGetReq", t, func() {
		Convey("字符串形式的数字与布尔值", func() {
			req, err := DecodeEventGetReq([]byte(`{"object":"4","source":3,"acknowledged":"true","countOutput":1,
				"eventids":[101,"102"],"time_from":1700000000,"limit":"10"}`))

			So(err, ShouldBeNil)
			So(*req.Object, ShouldEqual, 4)
			So(*req.Source, ShouldEqual, 3)
			So(*req.Acknowledged, ShouldBeTrue)
			So(req.CountOutput, ShouldBeTrue)
			So(*req.TimeFrom, ShouldEqual, int64(1700000000))
			So(req.EventIDs, ShouldResemble, []interface{}{int64(101), "102"})
			So(req.Limit, ShouldEqual, "10")
		})

		Convey("输出参数", func() {
			req, err := DecodeEventGetReq([]byte(`{"output":["eventid","clock"],"selectHosts":"extend",
				"select_acknowledges":"count"}`))

			So(err, ShouldBeNil)
			So(req.Output, ShouldResemble, entity.Fields("eventid", "clock"))
			So(req.SelectHosts, ShouldResemble, entity.Extend())
			So(req.SelectAcknowledges, ShouldResemble, entity.Count())
			So(req.SelectTags.Requested(), ShouldBeFalse)
		})

		Convey("空请求体", func() {
			req, err := DecodeEventGetReq(nil)

			So(err, ShouldBeNil)
			So(req.Object, ShouldBeNil)
			So(req.Output.Requested(), ShouldBeFalse)
		})

		Convey("非法的 JSON", func() {
			_, err := DecodeEventGetReq([]byte(`{"object":`))

			So(err, ShouldNotBeNil)
		})

		Convey("非法的输出参数", func() {
			_, err := DecodeEventGetReq([]byte(`{"output":[1,2]}`))

			So(err, ShouldNotBeNil)
		})
	})
}

func TestDecodeAcknowledgeReq(t *testing.T) {
	Convey("TestDecodeAcknowledgeReq", t, func() {
		req, err := DecodeAcknowledgeReq([]byte(`{"eventids":"101,102","message":"ack","action":"1"}`))

		So(err, ShouldBeNil)
		So(req.EventIDs, ShouldEqual, "101,102")
		So(*req.Message, ShouldEqual, "ack")
		So(*req.Action, ShouldEqual, 1)
	})
}
