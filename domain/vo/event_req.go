package vo

import (
	"reflect"

	"devops.aishu.cn/AISHUDevOps/AnyRobot/_git/itops-event-manager/domain/entity"
	"github.com/bytedance/sonic"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
)

// 整数按 int64 解码，避免大 ID 经 float64 丢失精度
var jsonAPI = sonic.Config{UseInt64: true}.Froze()

// EventGetReq 事件查询参数，未传的参数不参与过滤
type EventGetReq struct {
	GroupIDs      interface{} `json:"groupids" mapstructure:"groupids"`
	HostIDs       interface{} `json:"hostids" mapstructure:"hostids"`
	ObjectIDs     interface{} `json:"objectids" mapstructure:"objectids"`
	EventIDs      interface{} `json:"eventids" mapstructure:"eventids"`
	Editable      bool        `json:"editable" mapstructure:"editable"`
	Object        *int        `json:"object" mapstructure:"object"` // 默认触发器
	Source        *int        `json:"source" mapstructure:"source"` // 默认触发器来源
	Acknowledged  *bool       `json:"acknowledged" mapstructure:"acknowledged"`
	NoPermissions bool        `json:"nopermissions" mapstructure:"nopermissions"`

	Value       interface{} `json:"value" mapstructure:"value"`
	TimeFrom    *int64      `json:"time_from" mapstructure:"time_from"`
	TimeTill    *int64      `json:"time_till" mapstructure:"time_till"`
	EventIDFrom *uint64     `json:"eventid_from" mapstructure:"eventid_from"`
	EventIDTill *uint64     `json:"eventid_till" mapstructure:"eventid_till"`

	Filter                 map[string]interface{} `json:"filter" mapstructure:"filter"`
	Search                 map[string]interface{} `json:"search" mapstructure:"search"`
	SearchByAny            bool                   `json:"searchByAny" mapstructure:"searchByAny"`
	StartSearch            bool                   `json:"startSearch" mapstructure:"startSearch"`
	ExcludeSearch          bool                   `json:"excludeSearch" mapstructure:"excludeSearch"`
	SearchWildcardsEnabled bool                   `json:"searchWildcardsEnabled" mapstructure:"searchWildcardsEnabled"`

	Output              entity.Output `json:"output" mapstructure:"output"` // 缺省为 extend
	SelectHosts         entity.Output `json:"selectHosts" mapstructure:"selectHosts"`
	SelectRelatedObject entity.Output `json:"selectRelatedObject" mapstructure:"selectRelatedObject"`
	SelectAlerts        entity.Output `json:"select_alerts" mapstructure:"select_alerts"`
	SelectAcknowledges  entity.Output `json:"select_acknowledges" mapstructure:"select_acknowledges"`
	SelectTags          entity.Output `json:"selectTags" mapstructure:"selectTags"`

	CountOutput   bool        `json:"countOutput" mapstructure:"countOutput"`
	GroupCount    bool        `json:"groupCount" mapstructure:"groupCount"`
	PreserveKeys  bool        `json:"preservekeys" mapstructure:"preservekeys"`
	PreserveOrder bool        `json:"preserveorder" mapstructure:"preserveorder"` // 按查询顺序返回列表，preservekeys 优先
	SortField     interface{} `json:"sortfield" mapstructure:"sortfield"`         // 字符串或字符串数组
	SortOrder     interface{} `json:"sortorder" mapstructure:"sortorder"`
	Limit         interface{} `json:"limit" mapstructure:"limit"`
}

// AcknowledgeReq 确认事件
type AcknowledgeReq struct {
	EventIDs interface{} `json:"eventids" mapstructure:"eventids" validate:"required"`
	Message  *string     `json:"message" mapstructure:"message" validate:"omitempty,ackmessage"`
	Action   *int        `json:"action" mapstructure:"action"`
}

// DecodeEventGetReq 解析请求体，数字与布尔参数允许以字符串形式传入
func DecodeEventGetReq(body []byte) (EventGetReq, error) {
	req := EventGetReq{}
	err := decode(body, &req)
	return req, err
}

func DecodeAcknowledgeReq(body []byte) (AcknowledgeReq, error) {
	req := AcknowledgeReq{}
	err := decode(body, &req)
	return req, err
}

func decode(body []byte, out interface{}) error {
	raw := map[string]interface{}{}
	if len(body) > 0 {
		if err := jsonAPI.Unmarshal(body, &raw); err != nil {
			return errors.Wrap(err, "decode request body")
		}
	}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       outputHook,
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return errors.Wrap(err, "new decoder")
	}
	if err := decoder.Decode(raw); err != nil {
		return errors.Wrap(err, "decode request")
	}
	return nil
}

var outputType = reflect.TypeOf(entity.Output{})

func outputHook(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
	if to != outputType {
		return data, nil
	}
	return entity.ParseOutput(data)
}
