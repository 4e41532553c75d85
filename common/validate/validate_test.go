package validate

import (
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	. "github.com/smartystreets/goconvey/convey"
)

type ackReq struct {
	Message *string `validate:"omitempty,ackmessage"`
}

func TestAckMessageValidation(t *testing.T) {
	Convey("TestAckMessageValidation", t, func() {
		v := validator.New()
		So(Register(v), ShouldBeNil)
		msg := func(s string) *string { return &s }

		Convey("普通消息", func() {
			So(v.Struct(&ackReq{Message: msg("problem fixed\nby ops")}), ShouldBeNil)
		})

		Convey("未传消息", func() {
			So(v.Struct(&ackReq{}), ShouldBeNil)
		})

		Convey("超过列宽", func() {
			So(v.Struct(&ackReq{Message: msg(strings.Repeat("确", 256))}), ShouldNotBeNil)
			So(v.Struct(&ackReq{Message: msg(strings.Repeat("确", 255))}), ShouldBeNil)
		})

		Convey("包含控制字符", func() {
			So(v.Struct(&ackReq{Message: msg("bad\x00message")}), ShouldNotBeNil)
		})
	})
}
