package stream

import (
	"strconv"

	"narrator-cli/internal/conversation"
)

// BlockKind 标识块的种类。自由块沿用对象类型名。
type BlockKind string

const (
	// BlockPreScene 聚合难度与世界揭示对象。
	BlockPreScene BlockKind = "pre_scene"
	// BlockThinking 是等待服务端时的占位块。
	BlockThinking BlockKind = "thinking"
)

// Alignment 是水平对齐。
type Alignment string

const (
	AlignLeft  Alignment = "left"
	AlignRight Alignment = "right"
)

// Position 是纵向位置标签，决定相邻块的视觉衔接。
type Position string

const (
	PositionNone   Position = ""
	PositionTop    Position = "top"
	PositionMiddle Position = "middle"
	PositionBottom Position = "bottom"
)

// TextStyle 是正文样式提示。
type TextStyle string

const (
	StylePlain   TextStyle = ""
	StylePrimary TextStyle = "primary"
	StyleInfo    TextStyle = "info"
)

// Slot 是块内可逐步填充的区域。
type Slot string

const (
	SlotHeader Slot = "header"
	SlotBody   Slot = "body"

	SlotDifficultyAnalysis Slot = "difficulty_analysis"
	SlotDifficultyTarget   Slot = "difficulty_target"
	SlotDifficultyRoll     Slot = "difficulty_roll"
	SlotDifficultyBar      Slot = "difficulty_bar"
	SlotDifficultyOutcome  Slot = "difficulty_outcome"

	SlotRevealAnalysis Slot = "world_reveal_analysis"
	SlotRevealLevel    Slot = "world_reveal_level"
	SlotRevealRoll     Slot = "world_reveal_roll"
)

// Hints 是样式提示，全部字段可比较。
type Hints struct {
	DifficultyColor Color
	RevealColor     Color
	Glow            Glow
	// MarkerPlain 表示目标标记与骰值过近，不强调。
	MarkerPlain bool
	// HideRoll 用于 Trivial 检定。
	HideRoll bool
}

// Block 是 Block Surface 上的一个渲染块描述。
type Block struct {
	ID           int
	Kind         BlockKind
	Freestanding bool
	Align        Alignment
	Position     Position
	Style        TextStyle
	// Markdown 表示 body 类槽位需经过 markdown 渲染。
	Markdown bool
	Slots    map[Slot]string
	Hints    Hints
}

// IsGroup reports whether the block is a difficulty/reveal group.
func (b Block) IsGroup() bool {
	return b.Kind == BlockPreScene
}

// Slot 返回槽位内容；未填充时为空串。
func (b Block) Slot(s Slot) string {
	return b.Slots[s]
}

// Has reports whether the slot has been filled.
func (b Block) Has(s Slot) bool {
	_, ok := b.Slots[s]
	return ok
}

// Target 从槽位解析难度目标。
func (b Block) Target() conversation.Target {
	if !b.Has(SlotDifficultyTarget) {
		return conversation.Target{}
	}
	t, err := conversation.ParseTarget(b.Slot(SlotDifficultyTarget))
	if err != nil {
		return conversation.Target{}
	}
	return t
}

// DifficultyRoll 从槽位解析难度骰值。
func (b Block) DifficultyRoll() (int, bool) {
	return b.intSlot(SlotDifficultyRoll)
}

// RevealRoll 从槽位解析世界揭示骰值。
func (b Block) RevealRoll() (int, bool) {
	return b.intSlot(SlotRevealRoll)
}

func (b Block) intSlot(s Slot) (int, bool) {
	if !b.Has(s) {
		return 0, false
	}
	n, err := strconv.Atoi(b.Slot(s))
	if err != nil {
		return 0, false
	}
	return n, true
}

// HasDifficulty reports whether any difficulty slot is filled.
func (b Block) HasDifficulty() bool {
	return b.Has(SlotDifficultyAnalysis) || b.Has(SlotDifficultyTarget) || b.Has(SlotDifficultyRoll)
}

// HasReveal reports whether any world-reveal slot is filled.
func (b Block) HasReveal() bool {
	return b.Has(SlotRevealAnalysis) || b.Has(SlotRevealLevel) || b.Has(SlotRevealRoll)
}

// Text 拼接块内可见文本，供复制与纯文本输出。
func (b Block) Text() string {
	order := []Slot{
		SlotHeader, SlotBody,
		SlotDifficultyAnalysis, SlotDifficultyTarget, SlotDifficultyRoll, SlotDifficultyOutcome,
		SlotRevealAnalysis, SlotRevealLevel, SlotRevealRoll,
	}
	out := ""
	for _, s := range order {
		v, ok := b.Slots[s]
		if !ok || v == "" {
			continue
		}
		if out != "" {
			out += "\n"
		}
		out += v
	}
	return out
}

func (b Block) clone() Block {
	out := b
	out.Slots = make(map[Slot]string, len(b.Slots))
	for k, v := range b.Slots {
		out.Slots[k] = v
	}
	return out
}

// apply 把更新作用到单个块上。
func (b *Block) apply(u Update) {
	switch u.Op {
	case OpFill:
		if b.Slots == nil {
			b.Slots = map[Slot]string{}
		}
		b.Slots[u.Slot] = u.Content
	case OpStyle:
		b.Hints = u.Hints
	}
}

// Op 是更新的操作类型。
type Op string

const (
	OpAppend Op = "append"
	OpFill   Op = "fill"
	OpStyle  Op = "style"
	OpRemove Op = "remove"
	OpClear  Op = "clear"
)

// Update 描述对 Block Surface 的一次变更，与具体终端或 DOM 无关。
type Update struct {
	Op      Op
	BlockID int
	// Block 仅在 OpAppend 时有效。
	Block   *Block
	Slot    Slot
	Content string
	Hints   Hints
}
