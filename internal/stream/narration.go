package stream

import (
	"fmt"

	"narrator-cli/internal/conversation"
)

// TrivialOutcome 附在 Trivial 检定的分析之后。
const TrivialOutcome = "Thus your action is a success."

// markerProximity 以内的目标标记不再高亮，避免遮挡成败判断。
const markerProximity = 6

// Glow 是极端骰值的提示。
type Glow int

const (
	GlowNone Glow = iota
	// GlowLow 对应 1–2。
	GlowLow
	// GlowHigh 对应 99–100。
	GlowHigh
)

// RollGlow classifies extreme rolls.
func RollGlow(roll int) Glow {
	switch {
	case roll == 1 || roll == 2:
		return GlowLow
	case roll == 99 || roll == 100:
		return GlowHigh
	}
	return GlowNone
}

// RollNarration 把数值目标和骰值写成一句话；没有数值目标时返回空串。
func RollNarration(target conversation.Target, roll int) string {
	t, ok := target.Numeric()
	if !ok {
		return ""
	}
	lead := fmt.Sprintf("You rolled a %d on a 100-sided die, ", roll)
	switch {
	case roll == t:
		return lead + fmt.Sprintf("hitting the difficulty target of %d exactly, which is (barely) a success.", t)
	case roll > t:
		degree := float64(roll-t) / float64(100-t)
		switch {
		case degree < 0.1:
			return lead + fmt.Sprintf("barely exceeding the difficulty target of %d, resulting in a mild success.", t)
		case degree < 0.8:
			return lead + fmt.Sprintf("exceeding the difficulty target of %d, resulting in a success.", t)
		default:
			return lead + fmt.Sprintf("greatly exceeding the difficulty target of %d, resulting in an exceptional success.", t)
		}
	default:
		degree := 1.0
		if t > 0 {
			degree = float64(t-roll) / float64(t)
		}
		switch {
		case degree < 0.1:
			return lead + fmt.Sprintf("barely missing the difficulty target of %d, resulting in a mild failure.", t)
		case degree < 0.8:
			return lead + fmt.Sprintf("missing the difficulty target of %d, resulting in a failure.", t)
		default:
			return lead + fmt.Sprintf("dramatically missing the difficulty target of %d, resulting in a serious failure.", t)
		}
	}
}
