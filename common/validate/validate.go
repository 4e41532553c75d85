package validate

import (
	"unicode"
	"unicode/utf8"

	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/common"
	"github.com/go-playground/validator/v10"
)

const TagAckMessage = "ackmessage"

// Register 注册自定义校验规则
func Register(v *validator.Validate) error {
	return v.RegisterValidation(TagAckMessage, AckMessageValidation)
}

// AckMessageValidation 确认消息长度不超过列宽，不允许换行、制表符以外的控制字符。
// 空消息在业务层校验
func AckMessageValidation(fl validator.FieldLevel) bool {
	message := fl.Field().String()
	if utf8.RuneCountInString(message) > common.AcknowledgeMessageMaxLen {
		return false
	}
	for _, r := range message {
		if unicode.IsControl(r) && r != '\n' && r != '\r' && r != '\t' {
			return false
		}
	}
	return true
}
