package render

import "strings"

// PrefixLines 为首行/续行添加前缀。
func PrefixLines(lines []Line, initial Span, subsequent Span) []Line {
	out := make([]Line, 0, len(lines))
	for i, l := range lines {
		spans := make([]Span, 0, len(l.Spans)+1)
		if i == 0 {
			spans = append(spans, initial)
		} else {
			spans = append(spans, subsequent)
		}
		spans = append(spans, l.Spans...)
		out = append(out, Line{Spans: spans, Style: l.Style})
	}
	return out
}

// AlignRight 在行首补空格，使整块靠右对齐到 width。
// 所有行使用同一缩进，保持块内左边缘整齐。
func AlignRight(lines []Line, width int) []Line {
	widest := 0
	for _, l := range lines {
		widest = maxInt(widest, l.Width())
	}
	pad := width - widest
	if pad <= 0 {
		return lines
	}
	indent := Span{Text: strings.Repeat(" ", pad)}
	return PrefixLines(lines, indent, indent)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
