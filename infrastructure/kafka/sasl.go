package kafka

import (
	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/common/log"
	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/config"
	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go/sasl"
	"github.com/segmentio/kafka-go/sasl/plain"
	"github.com/segmentio/kafka-go/sasl/scram"
)

// buildSASLMechanism 未启用认证时返回 nil，使用 PLAINTEXT 协议
func buildSASLMechanism(cfg config.SASLCfg) (sasl.Mechanism, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	switch cfg.Mechanism {
	case "PLAIN", "plain", "":
		return plain.Mechanism{
			Username: cfg.Username,
			Password: cfg.Password,
		}, nil
	case "SCRAM-SHA-256":
		mechanism, err := scram.Mechanism(scram.SHA256, cfg.Username, cfg.Password)
		if err != nil {
			return nil, errors.Wrap(err, "创建 SCRAM-SHA-256 认证失败")
		}
		return mechanism, nil
	case "SCRAM-SHA-512":
		mechanism, err := scram.Mechanism(scram.SHA512, cfg.Username, cfg.Password)
		if err != nil {
			return nil, errors.Wrap(err, "创建 SCRAM-SHA-512 认证失败")
		}
		return mechanism, nil
	default:
		log.Errorf("unsupported sasl mechanism %s", cfg.Mechanism)
		return nil, errors.Errorf("不支持的 SASL 机制: %s", cfg.Mechanism)
	}
}
