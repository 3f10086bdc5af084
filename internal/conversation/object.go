package conversation

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Kind 是 conversation object 的类型判别字段。
type Kind string

const (
	KindUserMessage               Kind = "user_message"
	KindIntroBlurb                Kind = "intro_blurb"
	KindWorldGenData              Kind = "world_gen_data"
	KindMapData                   Kind = "map_data"
	KindOOCMessage                Kind = "ooc_message"
	KindDifficultyAnalysis        Kind = "difficulty_analysis"
	KindDifficultyTarget          Kind = "difficulty_target"
	KindDifficultyRoll            Kind = "difficulty_roll"
	KindWorldRevealAnalysis       Kind = "world_reveal_analysis"
	KindWorldRevealLevel          Kind = "world_reveal_level"
	KindWorldRevealRoll           Kind = "world_reveal_roll"
	KindResultingSceneDescription Kind = "resulting_scene_description"
	KindTrackedOperations         Kind = "tracked_operations"
	KindConditionTable            Kind = "condition_table"
	KindToolUse                   Kind = "tool_use"
	KindOutOfSectionText          Kind = "out_of_section_text"
	KindUnrecognizedSection       Kind = "unrecognized_section"
	KindServerError               Kind = "server_error"
	KindBootSequenceEnd           Kind = "boot_sequence_end"

	// KindError 只在客户端产生（校验失败、无法渲染的对象），服务端不会下发。
	KindError Kind = "error"
)

var knownKinds = map[Kind]bool{
	KindUserMessage:               true,
	KindIntroBlurb:                true,
	KindWorldGenData:              true,
	KindMapData:                   true,
	KindOOCMessage:                true,
	KindDifficultyAnalysis:        true,
	KindDifficultyTarget:          true,
	KindDifficultyRoll:            true,
	KindWorldRevealAnalysis:       true,
	KindWorldRevealLevel:          true,
	KindWorldRevealRoll:           true,
	KindResultingSceneDescription: true,
	KindTrackedOperations:         true,
	KindConditionTable:            true,
	KindToolUse:                   true,
	KindOutOfSectionText:          true,
	KindUnrecognizedSection:       true,
	KindServerError:               true,
	KindBootSequenceEnd:           true,
	KindError:                     true,
}

// Known reports whether k belongs to the closed set of object kinds.
func (k Kind) Known() bool {
	return knownKinds[k]
}

// Canonical 把别名折叠为主类型（map_data → world_gen_data）。
func (k Kind) Canonical() Kind {
	if k == KindMapData {
		return KindWorldGenData
	}
	return k
}

// ErrMalformed 标记缺少必填字段或字段越界的对象。
var ErrMalformed = errors.New("malformed conversation object")

// Object 是服务端下发的一个 conversation object。
// 可选字段使用指针，用于区分“缺失”和“零值”。
type Object struct {
	Type       Kind    `json:"type"`
	Text       *Scalar `json:"text,omitempty"`
	Value      *Scalar `json:"value,omitempty"`
	Integer    *int    `json:"integer,omitempty"`
	HeaderText *string `json:"header_text,omitempty"`
	BodyText   *string `json:"body_text,omitempty"`

	// DecodeErr 非空表示该元素无法解码为对象。
	DecodeErr error `json:"-"`
}

// TextValue 返回 text 字段，缺失时为空串。
func (o Object) TextValue() string {
	if o.Text == nil {
		return ""
	}
	return string(*o.Text)
}

// Label 返回 target/level 的取值；服务端历史上使用 text，新协议使用 value，数值目标以整数下发。
func (o Object) Label() (string, bool) {
	if o.Value != nil {
		return strings.TrimSpace(o.Value.String()), true
	}
	if o.Text != nil {
		return strings.TrimSpace(o.Text.String()), true
	}
	return "", false
}

// Roll 返回骰子点数。
func (o Object) Roll() (int, bool) {
	if o.Integer == nil {
		return 0, false
	}
	return *o.Integer, true
}

// Validate 检查该类型的必填字段。未知类型不在这里处理。
func (o Object) Validate() error {
	if o.DecodeErr != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, o.DecodeErr)
	}
	switch o.Type.Canonical() {
	case KindUserMessage, KindIntroBlurb, KindWorldGenData, KindOOCMessage,
		KindDifficultyAnalysis, KindWorldRevealAnalysis, KindResultingSceneDescription,
		KindTrackedOperations, KindConditionTable, KindOutOfSectionText, KindServerError, KindError:
		if o.Text == nil {
			return fmt.Errorf("%w: %s requires text", ErrMalformed, o.Type)
		}
	case KindDifficultyTarget:
		label, ok := o.Label()
		if !ok {
			return fmt.Errorf("%w: %s requires value", ErrMalformed, o.Type)
		}
		if _, err := ParseTarget(label); err != nil {
			return fmt.Errorf("%w: %v", ErrMalformed, err)
		}
	case KindWorldRevealLevel:
		if _, ok := o.Label(); !ok {
			return fmt.Errorf("%w: %s requires value", ErrMalformed, o.Type)
		}
	case KindDifficultyRoll, KindWorldRevealRoll:
		roll, ok := o.Roll()
		if !ok {
			return fmt.Errorf("%w: %s requires integer", ErrMalformed, o.Type)
		}
		if roll < MinRoll || roll > MaxRoll {
			return fmt.Errorf("%w: %s integer %d outside %d..%d", ErrMalformed, o.Type, roll, MinRoll, MaxRoll)
		}
	case KindUnrecognizedSection:
		if o.HeaderText == nil || o.BodyText == nil {
			return fmt.Errorf("%w: %s requires header_text and body_text", ErrMalformed, o.Type)
		}
	}
	return nil
}

// 骰子范围。
const (
	MinRoll = 1
	MaxRoll = 100
)

// TrivialLabel 是“无需检定”的难度目标。
const TrivialLabel = "Trivial"

// Target 是解析后的难度目标。
type Target struct {
	Trivial bool
	Percent int
	set     bool
}

// Numeric 返回数值目标；Trivial 或未设置时 ok 为 false。
func (t Target) Numeric() (int, bool) {
	if !t.set || t.Trivial {
		return 0, false
	}
	return t.Percent, true
}

// IsSet reports whether the target carries any value.
func (t Target) IsSet() bool {
	return t.set
}

// NumericTarget 构造数值目标。
func NumericTarget(percent int) Target {
	return Target{Percent: percent, set: true}
}

// TrivialTarget 构造 Trivial 目标。
func TrivialTarget() Target {
	return Target{Trivial: true, set: true}
}

// ParseTarget 解析 "Trivial" 或 0..100 的百分比字符串（允许带 % 后缀）。
func ParseTarget(label string) (Target, error) {
	label = strings.TrimSpace(label)
	if strings.EqualFold(label, TrivialLabel) {
		return TrivialTarget(), nil
	}
	n, err := strconv.Atoi(strings.TrimSuffix(label, "%"))
	if err != nil {
		return Target{}, fmt.Errorf("difficulty target %q is neither %q nor a percentage", label, TrivialLabel)
	}
	if n < 0 || n > 100 {
		return Target{}, fmt.Errorf("difficulty target %d outside 0..100", n)
	}
	return NumericTarget(n), nil
}

// Batch 按元素独立解码 JSON 数组：单个坏元素不会影响其他元素。
type Batch []Object

// UnmarshalJSON 实现 json.Unmarshaler。
func (b *Batch) UnmarshalJSON(data []byte) error {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return err
	}
	out := make(Batch, 0, len(raws))
	for _, raw := range raws {
		out = append(out, Decode(raw))
	}
	*b = out
	return nil
}

// Decode 解码单个对象；失败时返回带 DecodeErr 的对象而不是错误。
func Decode(raw json.RawMessage) Object {
	var obj Object
	if err := json.Unmarshal(raw, &obj); err != nil {
		var head struct {
			Type Kind `json:"type"`
		}
		_ = json.Unmarshal(raw, &head)
		return Object{Type: head.Type, DecodeErr: err}
	}
	return obj
}
