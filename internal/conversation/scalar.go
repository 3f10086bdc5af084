package conversation

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Scalar 接受 JSON 字符串或数字，统一保存为字符串。
// 服务端对难度目标等字段时而发字符串、时而发整数。
type Scalar string

// UnmarshalJSON 实现 json.Unmarshaler；整数值的浮点数（70.0）折叠为 "70"。
func (s *Scalar) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = Scalar(str)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	if i, err := n.Int64(); err == nil {
		*s = Scalar(strconv.FormatInt(i, 10))
		return nil
	}
	f, err := n.Float64()
	if err != nil {
		return err
	}
	if f == float64(int64(f)) {
		*s = Scalar(strconv.FormatInt(int64(f), 10))
		return nil
	}
	*s = Scalar(n.String())
	return nil
}

// String 返回原始字符串形式。
func (s Scalar) String() string { return string(s) }

func scalarPtr(v string) *Scalar {
	s := Scalar(v)
	return &s
}
