package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Span 表示一段文本及其样式。
type Span struct {
	Text  string
	Style lipgloss.Style
}

// Line 由多个 Span 组成，可选整体样式。
type Line struct {
	Spans []Span
	Style lipgloss.Style
}

// Width 返回行的显示宽度，忽略 ANSI 转义序列。
func (l Line) Width() int {
	w := 0
	for _, sp := range l.Spans {
		w += lipgloss.Width(sp.Text)
	}
	return w
}

// Buffer 收集渲染结果，按行存储。
type Buffer struct {
	Lines []Line
}

// WriteLine 追加单行。
func (b *Buffer) WriteLine(line Line) {
	if b == nil {
		return
	}
	b.Lines = append(b.Lines, line)
}

// WriteLines 追加多行。
func (b *Buffer) WriteLines(lines ...Line) {
	if b == nil {
		return
	}
	b.Lines = append(b.Lines, lines...)
}

// LinesToStrings 将样式化的行转换为字符串列表。
func LinesToStrings(lines []Line) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		segments := make([]string, 0, len(line.Spans))
		for _, sp := range line.Spans {
			segments = append(segments, sp.Style.Render(sp.Text))
		}
		text := strings.Join(segments, "")
		text = line.Style.Render(text)
		out = append(out, text)
	}
	return out
}

// LinesToPlainStrings 丢弃样式，只保留文本。
func LinesToPlainStrings(lines []Line) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		var sb strings.Builder
		for _, sp := range line.Spans {
			sb.WriteString(sp.Text)
		}
		out = append(out, sb.String())
	}
	return out
}

func plainLine(text string, style lipgloss.Style) Line {
	return Line{Spans: []Span{{Text: text, Style: style}}}
}
