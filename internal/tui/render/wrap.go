package render

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// wrapText 使用词级别换行，宽度按终端显示宽度计算。
func wrapText(text string, width int) []string {
	if width <= 0 {
		return []string{text}
	}
	lines := []string{}
	for _, raw := range strings.Split(text, "\n") {
		if strings.TrimSpace(raw) == "" {
			lines = append(lines, "")
			continue
		}
		lines = append(lines, wrapLine(raw, width)...)
	}
	if len(lines) == 0 {
		lines = append(lines, "")
	}
	return lines
}

func wrapLine(line string, width int) []string {
	if width <= 0 || runewidth.StringWidth(line) <= width {
		return []string{line}
	}
	out := []string{}
	current := ""
	for _, word := range strings.Fields(line) {
		ww := runewidth.StringWidth(word)
		if current == "" {
			if ww > width {
				parts := breakLongWord(word, width)
				out = append(out, parts[:len(parts)-1]...)
				current = parts[len(parts)-1]
				continue
			}
			current = word
			continue
		}
		if runewidth.StringWidth(current)+1+ww <= width {
			current += " " + word
			continue
		}
		out = append(out, current)
		if ww > width {
			parts := breakLongWord(word, width)
			out = append(out, parts[:len(parts)-1]...)
			current = parts[len(parts)-1]
			continue
		}
		current = word
	}
	if current != "" {
		out = append(out, current)
	}
	if len(out) == 0 {
		return []string{line}
	}
	return out
}

// breakLongWord 按显示宽度切分超长单词；宽字符不会被劈开。
func breakLongWord(word string, width int) []string {
	if width <= 0 {
		return []string{word}
	}
	out := []string{}
	var sb strings.Builder
	cur := 0
	for _, r := range word {
		rw := runewidth.RuneWidth(r)
		if cur+rw > width && cur > 0 {
			out = append(out, sb.String())
			sb.Reset()
			cur = 0
		}
		sb.WriteRune(r)
		cur += rw
	}
	if sb.Len() > 0 {
		out = append(out, sb.String())
	}
	if len(out) == 0 {
		out = append(out, "")
	}
	return out
}
