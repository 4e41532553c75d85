package entity

import (
	"github.com/bytedance/sonic"
	"github.com/pkg/errors"
)

type OutputMode int

const (
	// OutputNone 未请求该输出
	OutputNone OutputMode = iota
	OutputExtend
	OutputCount
	OutputFields
)

const (
	OutputValueExtend = "extend"
	OutputValueCount  = "count"
)

// Output 描述请求的输出：extend、count 或字段列表
type Output struct {
	Mode   OutputMode
	Fields []string
}

func Extend() Output {
	return Output{Mode: OutputExtend}
}

func Count() Output {
	return Output{Mode: OutputCount}
}

func Fields(fields ...string) Output {
	return Output{Mode: OutputFields, Fields: fields}
}

func (o Output) Requested() bool {
	return o.Mode != OutputNone
}

// Rows 需要返回对象本身（而不是数量）
func (o Output) Rows() bool {
	return o.Mode == OutputExtend || o.Mode == OutputFields
}

// Has 字段是否被请求，extend 视为请求全部字段
func (o Output) Has(field string) bool {
	switch o.Mode {
	case OutputExtend:
		return true
	case OutputFields:
		for _, f := range o.Fields {
			if f == field {
				return true
			}
		}
	}
	return false
}

func (o Output) MarshalJSON() ([]byte, error) {
	switch o.Mode {
	case OutputExtend:
		return []byte(`"extend"`), nil
	case OutputCount:
		return []byte(`"count"`), nil
	case OutputFields:
		return sonic.Marshal(o.Fields)
	}
	return []byte("null"), nil
}

func (o *Output) UnmarshalJSON(data []byte) error {
	var raw any
	if err := sonic.Unmarshal(data, &raw); err != nil {
		return errors.Wrap(err, "decode output")
	}
	out, err := ParseOutput(raw)
	if err != nil {
		return err
	}
	*o = out
	return nil
}

// ParseOutput 解析 JSON 中的输出参数
func ParseOutput(raw any) (Output, error) {
	switch v := raw.(type) {
	case nil:
		return Output{}, nil
	case string:
		switch v {
		case OutputValueExtend:
			return Extend(), nil
		case OutputValueCount:
			return Count(), nil
		}
		// 单个字段名
		return Fields(v), nil
	case []any:
		fields := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return Output{}, errors.Errorf("output field must be a string, got %T", item)
			}
			fields = append(fields, s)
		}
		return Fields(fields...), nil
	}
	return Output{}, errors.Errorf("unsupported output value %v", raw)
}
