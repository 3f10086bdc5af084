package stream

import (
	"fmt"
	"strconv"

	"narrator-cli/internal/conversation"
)

// Lookback 是合并决策唯一依赖的状态：最后一个块以及下一个可用 ID。
type Lookback struct {
	Last   *Block
	NextID int
}

// Options 控制可选的增强展示。
type Options struct {
	// Narration 在检定块里追加骰值叙述。
	Narration bool
	// Glow 为极端骰值加提示。
	Glow bool
}

// DefaultOptions 打开全部增强展示。
func DefaultOptions() Options {
	return Options{Narration: true, Glow: true}
}

// Handler 处理一种或多种对象类型，产出纯描述的更新。
type Handler interface {
	Kinds() []conversation.Kind
	Plan(p *Planner, look Lookback, obj conversation.Object) []Update
}

// Planner 把单个对象映射为更新序列，不持有 Surface。
type Planner struct {
	opts     Options
	handlers map[conversation.Kind]Handler
}

// NewPlanner 注册默认的处理器。
func NewPlanner(opts Options) *Planner {
	p := &Planner{opts: opts, handlers: map[conversation.Kind]Handler{}}
	for _, h := range defaultHandlers() {
		p.Register(h)
	}
	return p
}

// Register 覆盖同类型的已有处理器。
func (p *Planner) Register(h Handler) {
	if h == nil {
		return
	}
	for _, k := range h.Kinds() {
		p.handlers[k.Canonical()] = h
	}
}

// Plan 是 ConversationObject → []Update 的纯函数（给定 look）。
func (p *Planner) Plan(look Lookback, obj conversation.Object) []Update {
	if obj.Type != "" && !obj.Type.Known() {
		log.WithField("type", string(obj.Type)).Warn("skipping unknown conversation object")
		return nil
	}
	if err := obj.Validate(); err != nil {
		log.WithField("type", string(obj.Type)).Warnf("rendering degraded block: %v", err)
		return degradedBlock(look, obj, err)
	}
	h := p.handlers[obj.Type.Canonical()]
	if h == nil {
		log.WithField("type", string(obj.Type)).Debug("no handler registered; skipping")
		return nil
	}
	return h.Plan(p, look, obj)
}

func defaultHandlers() []Handler {
	return []Handler{
		freestandingHandler{kind: conversation.KindUserMessage, align: AlignRight, style: StylePrimary},
		freestandingHandler{kind: conversation.KindIntroBlurb, style: StylePrimary, markdown: true},
		freestandingHandler{kind: conversation.KindWorldGenData, style: StyleInfo, header: "World Gen Data", markdown: true},
		freestandingHandler{kind: conversation.KindOOCMessage, style: StylePrimary, markdown: true},
		freestandingHandler{kind: conversation.KindOutOfSectionText, markdown: true},
		freestandingHandler{kind: conversation.KindUnrecognizedSection, style: StyleInfo, markdown: true},
		freestandingHandler{kind: conversation.KindServerError, style: StyleInfo, header: "Server Error"},
		freestandingHandler{kind: conversation.KindError, style: StyleInfo, header: "Error"},
		placedHandler{kind: conversation.KindResultingSceneDescription, style: StylePrimary},
		placedHandler{kind: conversation.KindTrackedOperations, style: StyleInfo, header: "Tracked Operations"},
		placedHandler{kind: conversation.KindConditionTable, style: StyleInfo, header: "Character Condition"},
		groupHandler{},
		skipHandler{},
	}
}

// --- freestanding ---

type freestandingHandler struct {
	kind     conversation.Kind
	align    Alignment
	style    TextStyle
	header   string
	markdown bool
}

func (h freestandingHandler) Kinds() []conversation.Kind { return []conversation.Kind{h.kind} }

func (h freestandingHandler) Plan(_ *Planner, look Lookback, obj conversation.Object) []Update {
	align := h.align
	if align == "" {
		align = AlignLeft
	}
	b := Block{
		ID:           look.NextID,
		Kind:         BlockKind(h.kind),
		Freestanding: true,
		Align:        align,
		Style:        h.style,
		Markdown:     h.markdown,
		Slots:        map[Slot]string{},
	}
	header, body := h.header, obj.TextValue()
	if obj.Type == conversation.KindUnrecognizedSection {
		header, body = *obj.HeaderText, *obj.BodyText
	}
	if header != "" {
		b.Slots[SlotHeader] = header
	}
	b.Slots[SlotBody] = body
	return []Update{{Op: OpAppend, BlockID: b.ID, Block: &b}}
}

func degradedBlock(look Lookback, obj conversation.Object, err error) []Update {
	name := string(obj.Type)
	if name == "" {
		name = "object"
	}
	b := Block{
		ID:           look.NextID,
		Kind:         BlockKind(conversation.KindError),
		Freestanding: true,
		Align:        AlignLeft,
		Style:        StyleInfo,
		Slots: map[Slot]string{
			SlotHeader: "Error",
			SlotBody:   fmt.Sprintf("Could not display %s: %v", name, err),
		},
	}
	return []Update{{Op: OpAppend, BlockID: b.ID, Block: &b}}
}

// --- top/middle/bottom placement ---

type placedHandler struct {
	kind   conversation.Kind
	style  TextStyle
	header string
}

func (h placedHandler) Kinds() []conversation.Kind { return []conversation.Kind{h.kind} }

func (h placedHandler) Plan(_ *Planner, look Lookback, obj conversation.Object) []Update {
	b := Block{
		ID:       look.NextID,
		Kind:     BlockKind(h.kind),
		Align:    AlignLeft,
		Position: placement(h.kind, look.Last),
		Style:    h.style,
		Markdown: true,
		Slots:    map[Slot]string{SlotBody: obj.TextValue()},
	}
	if h.header != "" {
		b.Slots[SlotHeader] = h.header
	}
	return []Update{{Op: OpAppend, BlockID: b.ID, Block: &b}}
}

func placement(kind conversation.Kind, prev *Block) Position {
	switch kind {
	case conversation.KindConditionTable:
		return PositionBottom
	case conversation.KindTrackedOperations:
		return PositionMiddle
	}
	if prev != nil && (prev.Freestanding || prev.Align == AlignRight || prev.Position == PositionBottom) {
		return PositionTop
	}
	return PositionMiddle
}

// --- difficulty / world reveal group ---

type groupHandler struct{}

func (groupHandler) Kinds() []conversation.Kind {
	return []conversation.Kind{
		conversation.KindDifficultyAnalysis,
		conversation.KindDifficultyTarget,
		conversation.KindDifficultyRoll,
		conversation.KindWorldRevealAnalysis,
		conversation.KindWorldRevealLevel,
		conversation.KindWorldRevealRoll,
	}
}

func (groupHandler) Plan(p *Planner, look Lookback, obj conversation.Object) []Update {
	var ups []Update
	var group Block
	if look.Last != nil && look.Last.IsGroup() {
		group = look.Last.clone()
	} else {
		group = Block{
			ID:       look.NextID,
			Kind:     BlockPreScene,
			Align:    AlignLeft,
			Position: PositionTop,
			Style:    StyleInfo,
			Markdown: true,
			Slots:    map[Slot]string{},
		}
		fresh := group.clone()
		ups = append(ups, Update{Op: OpAppend, BlockID: group.ID, Block: &fresh})
	}

	fill := func(slot Slot, content string) {
		if cur, ok := group.Slots[slot]; ok && cur == content {
			return
		}
		u := Update{Op: OpFill, BlockID: group.ID, Slot: slot, Content: content}
		group.apply(u)
		ups = append(ups, u)
	}

	switch obj.Type {
	case conversation.KindDifficultyAnalysis:
		fill(SlotDifficultyAnalysis, obj.TextValue())
	case conversation.KindDifficultyTarget:
		label, _ := obj.Label()
		fill(SlotDifficultyTarget, label)
	case conversation.KindDifficultyRoll:
		roll, _ := obj.Roll()
		fill(SlotDifficultyRoll, strconv.Itoa(roll))
	case conversation.KindWorldRevealAnalysis:
		fill(SlotRevealAnalysis, obj.TextValue())
	case conversation.KindWorldRevealLevel:
		label, _ := obj.Label()
		fill(SlotRevealLevel, label)
	case conversation.KindWorldRevealRoll:
		roll, _ := obj.Roll()
		fill(SlotRevealRoll, strconv.Itoa(roll))
	}

	// 派生槽位与样式只依赖组内当前值，与对象到达顺序无关。
	target := group.Target()
	roll, hasRoll := group.DifficultyRoll()
	switch {
	case target.Trivial:
		fill(SlotDifficultyBar, "100")
	case hasRoll:
		fill(SlotDifficultyBar, strconv.Itoa(roll))
	}
	if outcome := p.outcome(target, roll, hasRoll); outcome != "" {
		fill(SlotDifficultyOutcome, outcome)
	}

	hints := p.hints(group, obj)
	if hints != group.Hints {
		u := Update{Op: OpStyle, BlockID: group.ID, Hints: hints}
		group.apply(u)
		ups = append(ups, u)
	}
	return ups
}

func (p *Planner) outcome(target conversation.Target, roll int, hasRoll bool) string {
	if target.Trivial {
		return TrivialOutcome
	}
	if !p.opts.Narration || !hasRoll {
		return ""
	}
	return RollNarration(target, roll)
}

func (p *Planner) hints(group Block, obj conversation.Object) Hints {
	var h Hints
	target := group.Target()
	roll, hasRoll := group.DifficultyRoll()
	h.HideRoll = target.Trivial
	if target.Trivial || hasRoll {
		h.DifficultyColor = DifficultyColor(target, roll)
	}
	if hasRoll {
		if p.opts.Glow {
			h.Glow = RollGlow(roll)
		}
		if t, ok := target.Numeric(); ok && abs(t-roll) <= markerProximity {
			h.MarkerPlain = true
		}
	}
	if revealRoll, ok := group.RevealRoll(); ok {
		level := group.Slot(SlotRevealLevel)
		color, known := WorldRevealColor(level, revealRoll)
		if !known && group.Has(SlotRevealLevel) && (obj.Type == conversation.KindWorldRevealLevel || obj.Type == conversation.KindWorldRevealRoll) {
			log.WithField("level", level).Warn("unknown world reveal level; using neutral colour")
		}
		h.RevealColor = color
	}
	return h
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// --- ignored kinds ---

type skipHandler struct{}

func (skipHandler) Kinds() []conversation.Kind {
	return []conversation.Kind{conversation.KindToolUse, conversation.KindBootSequenceEnd}
}

func (skipHandler) Plan(*Planner, Lookback, conversation.Object) []Update { return nil }
