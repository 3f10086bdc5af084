package stream

import (
	"fmt"
	"strings"

	"narrator-cli/internal/conversation"

	"github.com/lucasb-eyer/go-colorful"
)

// Tone 是颜色的语义分类，渲染层和测试都依赖它而不是具体色值。
type Tone int

const (
	ToneNone Tone = iota
	ToneNeutral
	TonePlaceholder
	ToneTrivial
	ToneSuccess
	ToneFailure
)

func (t Tone) String() string {
	switch t {
	case ToneNeutral:
		return "neutral"
	case TonePlaceholder:
		return "placeholder"
	case ToneTrivial:
		return "trivial"
	case ToneSuccess:
		return "success"
	case ToneFailure:
		return "failure"
	default:
		return "none"
	}
}

// Color 是 HSL 三元组：H 为角度，S/L 为百分比。
type Color struct {
	Tone Tone
	H    float64
	S    float64
	L    float64
}

// IsZero reports whether no colour has been assigned.
func (c Color) IsZero() bool {
	return c.Tone == ToneNone
}

// Hex 转换为终端可用的 #rrggbb。
func (c Color) Hex() string {
	return colorful.Hsl(c.H, c.S/100, c.L/100).Clamped().Hex()
}

func (c Color) String() string {
	return fmt.Sprintf("hsl(%g, %g%%, %g%%)", c.H, c.S, c.L)
}

const (
	successHue = 140
	failureHue = 359

	maxSaturation = 43
	baseLightness = 10
	lightnessSpan = 30

	// Light 级别只在边缘触发，使用固定强度。
	lightDegree = 0.5
)

var (
	NeutralColor     = Color{Tone: ToneNeutral, H: 0, S: 0, L: 10}
	PlaceholderColor = Color{Tone: TonePlaceholder, H: 180, S: 43, L: 10}
	TrivialColor     = Color{Tone: ToneTrivial, H: 180, S: 42, L: 18}
)

// graded 按程度 [0,1] 线性提升饱和度与亮度。
func graded(tone Tone, degree float64) Color {
	if degree < 0 {
		degree = 0
	}
	if degree > 1 {
		degree = 1
	}
	hue := float64(successHue)
	if tone == ToneFailure {
		hue = failureHue
	}
	return Color{
		Tone: tone,
		H:    hue,
		S:    degree * maxSaturation,
		L:    baseLightness + degree*lightnessSpan,
	}
}

// DifficultyColor 计算难度检定条的颜色。
func DifficultyColor(target conversation.Target, roll int) Color {
	if target.Trivial {
		return TrivialColor
	}
	t, ok := target.Numeric()
	if !ok {
		return PlaceholderColor
	}
	if roll >= t {
		degree := 1.0
		if t < 100 {
			degree = float64(roll-t) / float64(100-t)
		}
		return graded(ToneSuccess, degree)
	}
	degree := 1.0
	if t > 0 {
		degree = float64(t-roll) / float64(t)
	}
	return graded(ToneFailure, degree)
}

// RevealLevel 是世界揭示强度。
type RevealLevel string

const (
	RevealNA       RevealLevel = "n/a"
	RevealLight    RevealLevel = "light"
	RevealModerate RevealLevel = "moderate"
	RevealStrong   RevealLevel = "strong"
)

// ParseRevealLevel 忽略大小写与首尾空白。
func ParseRevealLevel(s string) (RevealLevel, bool) {
	switch RevealLevel(strings.ToLower(strings.TrimSpace(s))) {
	case RevealNA:
		return RevealNA, true
	case RevealLight:
		return RevealLight, true
	case RevealModerate:
		return RevealModerate, true
	case RevealStrong:
		return RevealStrong, true
	}
	return "", false
}

// WorldRevealColor 计算世界揭示卡片的颜色；level 无法识别时返回中性色且 ok 为 false。
func WorldRevealColor(level string, roll int) (Color, bool) {
	lv, ok := ParseRevealLevel(level)
	if !ok {
		return NeutralColor, false
	}
	switch lv {
	case RevealLight:
		switch {
		case roll >= 95:
			return graded(ToneSuccess, lightDegree), true
		case roll <= 5:
			return graded(ToneFailure, lightDegree), true
		}
	case RevealModerate:
		switch {
		case roll >= 66:
			return graded(ToneSuccess, float64(roll-66)/34), true
		case roll <= 33:
			return graded(ToneFailure, float64(33-roll)/33), true
		}
	case RevealStrong:
		// roll == 50 落在中性色。
		switch {
		case roll > 50:
			return graded(ToneSuccess, float64(roll-50)/50), true
		case roll < 50:
			return graded(ToneFailure, float64(50-roll)/50), true
		}
	}
	return NeutralColor, true
}
