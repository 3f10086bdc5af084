package slash

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

var (
	nameStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#C4A1FF"))
	usageStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#7FB4CA")).Italic(true)
	descStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF"))
	hintStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280")).Italic(true)
	highlightStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#EBCB8B"))
	selectedStyle  = lipgloss.NewStyle().Background(lipgloss.Color("#2F2A3D"))
)

const minViewWidth = 24

// View 渲染弹窗内容（不含外围边框）。
// 每条命令占一行，超出宽度的说明截断；最后一行是针对选中项的提示。
func (s *State) View(width int) string {
	if s == nil || !s.open {
		return ""
	}
	if width < minViewWidth {
		width = minViewWidth
	}
	box := lipgloss.NewStyle().Width(width)
	if len(s.matches) == 0 {
		return box.Render(hintStyle.Render("no matches · Esc 关闭"))
	}

	nameWidth := s.nameColumn(width)
	start, end := visibleRange(len(s.matches), s.selected, s.maxLines-1)
	rows := make([]string, 0, end-start+1)
	for idx := start; idx < end; idx++ {
		rows = append(rows, renderRow(s.matches[idx], nameWidth, width, idx == s.selected))
	}
	rows = append(rows, s.footer(len(s.matches)-(end-start), width))
	return box.Render(strings.Join(rows, "\n"))
}

func renderRow(m match, nameWidth, width int, selected bool) string {
	display := m.item.DisplayName()
	pad := nameWidth - runewidth.StringWidth(display)
	if pad < 0 {
		pad = 0
	}
	line := nameStyle.Render(highlightName(display, m.highlights)) + strings.Repeat(" ", pad+2)

	rest := width - nameWidth - 2
	if m.item.Usage != "" {
		line += usageStyle.Render(m.item.Usage) + " "
		rest -= runewidth.StringWidth(m.item.Usage) + 1
	}
	if rest > 0 {
		line += descStyle.Render(runewidth.Truncate(m.item.Description, rest, "…"))
	}
	if selected {
		return selectedStyle.Render(line)
	}
	return line
}

// footer 对带参数的命令给出用法，其余给出按键提示。
func (s *State) footer(hidden, width int) string {
	item := s.matches[s.selected].item
	hint := "Tab 补全 · Enter 执行 · Esc 关闭"
	if item.TakesArgs {
		hint = fmt.Sprintf("用法: %s %s · Tab 补全后输入参数", item.DisplayName(), item.Usage)
	}
	if hidden > 0 {
		hint += fmt.Sprintf(" · 另有 %d 项", hidden)
	}
	return hintStyle.Render(runewidth.Truncate(hint, width, "…"))
}

func (s *State) nameColumn(width int) int {
	col := 8
	for _, m := range s.matches {
		if w := runewidth.StringWidth(m.item.DisplayName()); w > col {
			col = w
		}
	}
	if limit := width / 3; col > limit {
		col = limit
	}
	return col
}

// visibleRange 返回 [start,end)，保证 selected 在窗口内。
func visibleRange(n, selected, rows int) (int, int) {
	if rows < 1 {
		rows = 1
	}
	if n <= rows {
		return 0, n
	}
	start := 0
	if selected >= rows {
		start = selected - rows + 1
	}
	if start+rows > n {
		start = n - rows
	}
	return start, start + rows
}

// highlightName 加粗模糊匹配命中的字符；下标基于不含斜杠的 token。
func highlightName(name string, indexes []int) string {
	if len(indexes) == 0 {
		return name
	}
	offset := 0
	if strings.HasPrefix(name, "/") {
		offset = 1
	}
	marked := make(map[int]bool, len(indexes))
	for _, idx := range indexes {
		marked[idx+offset] = true
	}
	var sb strings.Builder
	for i, r := range []rune(name) {
		if marked[i] {
			sb.WriteString(highlightStyle.Render(string(r)))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
