package render

import (
	"strconv"
	"strings"

	"narrator-cli/internal/conversation"
	"narrator-cli/internal/markdown"
	"narrator-cli/internal/stream"

	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle     = lipgloss.NewStyle().Bold(true)
	infoStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#9ca3af"))
	userPrefixStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4")).Bold(true)
	userStyle       = lipgloss.NewStyle().Bold(true)
	bulletStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4"))
	gutterStyle     = lipgloss.NewStyle().Faint(true)
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#dc2626"))
	placeholderText = lipgloss.NewStyle().Faint(true)
	emptyBarStyle   = lipgloss.NewStyle().Faint(true)
	outcomeStyle    = lipgloss.NewStyle().Italic(true)
	markerStyle     = lipgloss.NewStyle().Bold(true)
	glowHighStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#22d3ee")).Bold(true)
	glowLowStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#ef4444")).Bold(true)
)

const (
	placeholder = "…"
	maxBarWidth = 40
	minBarWidth = 10
)

// BlockOptions 控制块的渲染方式。
type BlockOptions struct {
	// Markdown 为 nil 时按纯文本换行。
	Markdown markdown.Renderer
	// ThinkingFrame 是等待占位块的动画帧。
	ThinkingFrame string
}

// RenderBlock 把块渲染为终端行。
func RenderBlock(b stream.Block, width int, opts BlockOptions) []Line {
	if width <= 0 {
		width = 80
	}
	switch {
	case b.Kind == stream.BlockThinking:
		return renderThinking(opts.ThinkingFrame)
	case b.Align == stream.AlignRight:
		return renderRight(b, width)
	case b.IsGroup():
		return withGutter(renderGroup(b, width-2, opts), b.Position)
	case b.Position != stream.PositionNone:
		return withGutter(renderBody(b, width-2, opts), b.Position)
	}
	return renderFreestanding(b, width, opts)
}

func renderThinking(frame string) []Line {
	if frame == "" {
		frame = "..."
	}
	return []Line{{Spans: []Span{
		{Text: "• ", Style: bulletStyle},
		{Text: "Thinking " + frame, Style: placeholderText},
	}}}
}

func renderRight(b stream.Block, width int) []Line {
	wrapWidth := maxInt(20, width*3/4)
	wrapWidth = minInt(wrapWidth, width-2)
	body := wrapLines(b.Slot(stream.SlotBody), wrapWidth, userStyle)
	prefixed := PrefixLines(body, Span{Text: "› ", Style: userPrefixStyle}, Span{Text: "  "})
	return AlignRight(prefixed, width)
}

func renderFreestanding(b stream.Block, width int, opts BlockOptions) []Line {
	body := renderBody(b, width-2, opts)
	if b.Has(stream.SlotHeader) {
		return PrefixLines(body, Span{Text: "  "}, Span{Text: "  "})
	}
	return PrefixLines(body, Span{Text: "• ", Style: bulletStyle}, Span{Text: "  "})
}

// renderBody 输出可选标题和正文。
func renderBody(b stream.Block, width int, opts BlockOptions) []Line {
	style := bodyStyle(b)
	var lines []Line
	if header := b.Slot(stream.SlotHeader); header != "" {
		hs := headerStyle
		if isError(b) {
			hs = hs.Foreground(lipgloss.Color("#dc2626"))
		}
		lines = append(lines, plainLine(header, hs))
	}
	lines = append(lines, renderText(b.Slot(stream.SlotBody), width, b.Markdown, style, opts)...)
	return lines
}

func bodyStyle(b stream.Block) lipgloss.Style {
	switch {
	case isError(b):
		return errorStyle
	case b.Style == stream.StyleInfo:
		return infoStyle
	}
	return lipgloss.Style{}
}

func isError(b stream.Block) bool {
	return b.Kind == stream.BlockKind(conversation.KindServerError) || b.Kind == stream.BlockKind(conversation.KindError)
}

// renderText 渲染正文：开启 markdown 时交给渲染器，否则按宽度换行。
func renderText(text string, width int, md bool, style lipgloss.Style, opts BlockOptions) []Line {
	if md && opts.Markdown != nil {
		out := opts.Markdown.Render(text, width)
		if out == "" {
			return nil
		}
		parts := strings.Split(out, "\n")
		lines := make([]Line, 0, len(parts))
		for _, p := range parts {
			lines = append(lines, plainLine(p, lipgloss.Style{}))
		}
		return lines
	}
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return wrapLines(strings.TrimRight(text, "\n"), width, style)
}

func wrapLines(content string, width int, style lipgloss.Style) []Line {
	if width <= 0 {
		width = len(content)
	}
	lines := wrapText(content, width)
	out := make([]Line, 0, len(lines))
	for _, l := range lines {
		out = append(out, plainLine(l, style))
	}
	return out
}

// withGutter 给 top/middle/bottom 块加左侧连线，使相邻块视觉上连成一组。
func withGutter(lines []Line, pos stream.Position) []Line {
	if len(lines) == 0 {
		lines = []Line{{}}
	}
	bar := Span{Text: "│ ", Style: gutterStyle}
	first := bar
	if pos == stream.PositionTop {
		first = Span{Text: "┌ ", Style: gutterStyle}
	}
	out := PrefixLines(lines, first, bar)
	if pos == stream.PositionBottom {
		out[len(out)-1].Spans[0] = Span{Text: "└ ", Style: gutterStyle}
	}
	return out
}

func renderGroup(b stream.Block, width int, opts BlockOptions) []Line {
	var lines []Line
	if b.HasDifficulty() || b.Has(stream.SlotDifficultyBar) {
		lines = append(lines, renderDifficulty(b, width, opts)...)
	}
	if b.HasReveal() {
		if len(lines) > 0 {
			lines = append(lines, Line{})
		}
		lines = append(lines, renderReveal(b, width, opts)...)
	}
	return lines
}

func renderDifficulty(b stream.Block, width int, opts BlockOptions) []Line {
	lines := []Line{plainLine("Difficulty Check", headerStyle)}
	lines = append(lines, slotText(b, stream.SlotDifficultyAnalysis, width, opts)...)

	target := b.Target()
	stats := []Span{{Text: "Target: ", Style: infoStyle}}
	switch {
	case target.Trivial:
		stats = append(stats, Span{Text: conversation.TrivialLabel + " Success", Style: colorStyle(b.Hints.DifficultyColor)})
	case target.IsSet():
		t, _ := target.Numeric()
		stats = append(stats, Span{Text: strconv.Itoa(t) + "%"})
	case b.Has(stream.SlotDifficultyTarget):
		stats = append(stats, Span{Text: b.Slot(stream.SlotDifficultyTarget)})
	default:
		stats = append(stats, Span{Text: placeholder, Style: placeholderText})
	}
	if !b.Hints.HideRoll {
		stats = append(stats, Span{Text: "   Roll: ", Style: infoStyle})
		if roll, ok := b.DifficultyRoll(); ok {
			stats = append(stats, Span{Text: strconv.Itoa(roll)})
		} else {
			stats = append(stats, Span{Text: placeholder, Style: placeholderText})
		}
	}
	lines = append(lines, Line{Spans: stats})

	if b.Has(stream.SlotDifficultyBar) || target.IsSet() {
		lines = append(lines, renderBar(b, width)...)
	}
	if outcome := b.Slot(stream.SlotDifficultyOutcome); outcome != "" {
		lines = append(lines, wrapLines(outcome, width, outcomeStyle)...)
	}
	return lines
}

// renderBar 画目标标记行和进度条行。
func renderBar(b stream.Block, width int) []Line {
	barWidth := minInt(maxBarWidth, width-2)
	if barWidth < minBarWidth {
		barWidth = minBarWidth
	}
	var lines []Line
	if t, ok := b.Target().Numeric(); ok {
		pos := t * barWidth / 100
		if pos >= barWidth {
			pos = barWidth - 1
		}
		ms := markerStyle
		if b.Hints.MarkerPlain {
			ms = placeholderText
		}
		lines = append(lines, Line{Spans: []Span{
			{Text: strings.Repeat(" ", pos)},
			{Text: "▼", Style: ms},
		}})
	}

	percent := 0
	if v, err := strconv.Atoi(b.Slot(stream.SlotDifficultyBar)); err == nil {
		percent = v
	}
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	filled := percent * barWidth / 100
	color := b.Hints.DifficultyColor
	if color.IsZero() {
		color = stream.PlaceholderColor
	}
	spans := []Span{
		{Text: strings.Repeat("█", filled), Style: colorStyle(color)},
		{Text: strings.Repeat("░", barWidth-filled), Style: emptyBarStyle},
	}
	switch b.Hints.Glow {
	case stream.GlowHigh:
		spans = append(spans, Span{Text: " ✦", Style: glowHighStyle})
	case stream.GlowLow:
		spans = append(spans, Span{Text: " ✦", Style: glowLowStyle})
	}
	return append(lines, Line{Spans: spans})
}

func renderReveal(b stream.Block, width int, opts BlockOptions) []Line {
	lines := []Line{plainLine("World Reveal", headerStyle)}
	lines = append(lines, slotText(b, stream.SlotRevealAnalysis, width, opts)...)

	spans := []Span{{Text: "Level: ", Style: infoStyle}}
	if level := b.Slot(stream.SlotRevealLevel); level != "" {
		spans = append(spans, Span{Text: level})
	} else {
		spans = append(spans, Span{Text: placeholder, Style: placeholderText})
	}
	spans = append(spans, Span{Text: "   Roll: ", Style: infoStyle})
	if roll, ok := b.RevealRoll(); ok {
		if !b.Hints.RevealColor.IsZero() {
			spans = append(spans, Span{Text: "■ ", Style: colorStyle(b.Hints.RevealColor)})
		}
		spans = append(spans, Span{Text: strconv.Itoa(roll)})
	} else {
		spans = append(spans, Span{Text: placeholder, Style: placeholderText})
	}
	return append(lines, Line{Spans: spans})
}

func slotText(b stream.Block, slot stream.Slot, width int, opts BlockOptions) []Line {
	if !b.Has(slot) {
		return []Line{plainLine(placeholder, placeholderText)}
	}
	return renderText(b.Slot(slot), width, b.Markdown, infoStyle, opts)
}

func colorStyle(c stream.Color) lipgloss.Style {
	if c.IsZero() {
		return lipgloss.Style{}
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex()))
}
