package kafka

import (
	"context"
	"testing"

	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/config"
	"github.com/agiledragon/gomonkey/v2"
	"github.com/bytedance/sonic"
	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNewTaskProducer(t *testing.T) {
	Convey("TestNewTaskProducer", t, func() {
		Convey("无 SASL 认证", func() {
			p, err := NewTaskProducer(config.KafkaCfg{Brokers: []string{"localhost:9092"}, TaskTopic: "tasks"})
			So(err, ShouldBeNil)
			So(p.writer.Topic, ShouldEqual, "tasks")
			So(p.Close(), ShouldBeNil)
		})

		Convey("SCRAM-SHA-512 认证", func() {
			p, err := NewTaskProducer(config.KafkaCfg{
				Brokers:   []string{"localhost:9092"},
				TaskTopic: "tasks",
				SASL:      config.SASLCfg{Enabled: true, Mechanism: "SCRAM-SHA-512", Username: "u", Password: "p"},
			})
			So(err, ShouldBeNil)
			So(p.writer.Transport.(*kafka.Transport).SASL, ShouldNotBeNil)
			So(p.Close(), ShouldBeNil)
		})

		Convey("不支持的认证机制", func() {
			_, err := NewTaskProducer(config.KafkaCfg{
				Brokers:   []string{"localhost:9092"},
				TaskTopic: "tasks",
				SASL:      config.SASLCfg{Enabled: true, Mechanism: "GSSAPI"},
			})
			So(err, ShouldNotBeNil)
		})

		Convey("缺少 broker", func() {
			_, err := NewTaskProducer(config.KafkaCfg{TaskTopic: "tasks"})
			So(err, ShouldNotBeNil)
		})

		Convey("未启用时不发送", func() {
			n, cleanup, err := NewNotifier()
			So(err, ShouldBeNil)
			So(n.AnnounceCloseProblem(context.Background(), []uint64{1}), ShouldBeNil)
			cleanup()
		})
	})
}

func TestAnnounceCloseProblem(t *testing.T) {
	Convey("TestAnnounceCloseProblem", t, func() {
		p, err := NewTaskProducer(config.KafkaCfg{Brokers: []string{"localhost:9092"}, TaskTopic: "tasks"})
		So(err, ShouldBeNil)
		defer p.Close()

		Convey("每个任务一条消息，以 taskid 为键", func() {
			var captured []kafka.Message
			patches := gomonkey.ApplyMethod(p.writer, "WriteMessages",
				func(_ *kafka.Writer, ctx context.Context, msgs ...kafka.Message) error {
					captured = append(captured, msgs...)
					return nil
				})
			defer patches.Reset()

			So(p.AnnounceCloseProblem(context.Background(), []uint64{5001, 5002}), ShouldBeNil)
			So(captured, ShouldHaveLength, 2)
			So(string(captured[0].Key), ShouldEqual, "5001")

			var msg TaskMessage
			So(sonic.Unmarshal(captured[1].Value, &msg), ShouldBeNil)
			So(msg, ShouldResemble, TaskMessage{TaskID: 5002, Type: 1})
		})

		Convey("写入失败返回错误", func() {
			patches := gomonkey.ApplyMethod(p.writer, "WriteMessages",
				func(_ *kafka.Writer, ctx context.Context, msgs ...kafka.Message) error {
					return errors.New("broker unavailable")
				})
			defer patches.Reset()

			err := p.AnnounceCloseProblem(context.Background(), []uint64{1})
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "broker unavailable")
		})

		Convey("没有任务时不写入", func() {
			So(p.AnnounceCloseProblem(context.Background(), nil), ShouldBeNil)
		})
	})
}
