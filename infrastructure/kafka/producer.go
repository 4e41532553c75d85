package kafka

import (
	"context"
	"strconv"
	"time"

	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/common/log"
	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/config"
	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/domain/dependency"
	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/domain/entity"
	"github.com/bytedance/sonic"
	"github.com/google/wire"
	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"
)

var ProviderSet = wire.NewSet(NewNotifier)

// TaskMessage 通知任务执行器有新的关闭问题任务
type TaskMessage struct {
	TaskID uint64 `json:"taskid"`
	Type   int    `json:"type"`
}

// TaskProducer 任务写入提交后，按 taskid 为键发送通知
type TaskProducer struct {
	writer *kafka.Writer
}

// disabledProducer kafka.enabled 为 false 时使用，任务只依赖执行器轮询
type disabledProducer struct{}

func (disabledProducer) AnnounceCloseProblem(context.Context, []uint64) error {
	return nil
}

func (disabledProducer) Close() error {
	return nil
}

// Notifier 任务通知与资源释放
type Notifier interface {
	dependency.TaskNotifier
	Close() error
}

// NewNotifier 根据 kafka 配置创建通知器，cleanup 在服务退出时关闭 writer
func NewNotifier() (dependency.TaskNotifier, func(), error) {
	cfg := config.Get().Kafka
	var n Notifier = disabledProducer{}
	if cfg.Enabled {
		p, err := NewTaskProducer(cfg)
		if err != nil {
			return nil, nil, err
		}
		n = p
	} else {
		log.Infof("kafka disabled, close problem tasks will not be announced")
	}
	cleanup := func() {
		if err := n.Close(); err != nil {
			log.Warnf("close kafka writer failed: %v", err)
		}
	}
	return n, cleanup, nil
}

func NewTaskProducer(cfg config.KafkaCfg) (*TaskProducer, error) {
	if len(cfg.Brokers) == 0 || cfg.TaskTopic == "" {
		return nil, errors.New("kafka brokers and taskTopic are required")
	}
	mechanism, err := buildSASLMechanism(cfg.SASL)
	if err != nil {
		return nil, errors.Wrap(err, "构建 SASL 认证失败")
	}
	writeTimeout := time.Duration(cfg.WriteTimeout) * time.Second
	if writeTimeout <= 0 {
		writeTimeout = 10 * time.Second
	}

	log.Infof("kafka task producer: brokers=%v, topic=%s, sasl=%v", cfg.Brokers, cfg.TaskTopic, mechanism != nil)
	return &TaskProducer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Topic:        cfg.TaskTopic,
			Balancer:     &kafka.Hash{},
			Transport:    &kafka.Transport{SASL: mechanism},
			RequiredAcks: kafka.RequireOne,
			WriteTimeout: writeTimeout,
			ReadTimeout:  writeTimeout,
		},
	}, nil
}

// AnnounceCloseProblem 同步写入，一个任务一条消息
func (p *TaskProducer) AnnounceCloseProblem(ctx context.Context, taskIDs []uint64) error {
	if len(taskIDs) == 0 {
		return nil
	}
	now := time.Now().Local()
	msgs := make([]kafka.Message, 0, len(taskIDs))
	for _, taskID := range taskIDs {
		value, err := sonic.Marshal(TaskMessage{TaskID: taskID, Type: entity.TaskTypeCloseProblem})
		if err != nil {
			return errors.Wrapf(err, "marshal task %d", taskID)
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(strconv.FormatUint(taskID, 10)),
			Value: value,
			Time:  now,
		})
	}
	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return errors.Wrap(err, "write close problem tasks")
	}
	return nil
}

func (p *TaskProducer) Close() error {
	if p.writer != nil {
		return p.writer.Close()
	}
	return nil
}
