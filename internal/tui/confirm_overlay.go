package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// confirmRequest 是等待用户确认的删除操作。
type confirmRequest struct {
	ConversationID string
	Title          string
}

func (m *Model) requestDelete(id, title string) {
	id = strings.TrimSpace(id)
	if id == "" {
		m.setNotice("No active conversation.")
		return
	}
	if strings.TrimSpace(title) == "" {
		title = id
	}
	m.confirmActive = &confirmRequest{ConversationID: id, Title: title}
}

func (m *Model) confirmView(width int) string {
	if m.confirmActive == nil {
		return ""
	}
	contentWidth := maxInt(20, width)
	titleStyle := lipgloss.NewStyle().Bold(true)
	hintStyle := lipgloss.NewStyle().Bold(true)

	lines := []string{titleStyle.Render("Delete conversation?"), ""}
	lines = append(lines, indentLines(wrapPlain(m.confirmActive.Title, contentWidth-2))...)
	lines = append(lines, indentLines([]string{m.confirmActive.ConversationID})...)
	lines = append(lines, "", hintStyle.Render("[y] delete • [n] keep"))
	return lipgloss.NewStyle().Width(contentWidth).Render(strings.Join(lines, "\n"))
}

func indentLines(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		out = append(out, "  "+line)
	}
	return out
}

func wrapPlain(text string, width int) []string {
	if width <= 0 || runewidth.StringWidth(text) <= width {
		return []string{text}
	}
	var out []string
	current := ""
	for _, word := range strings.Fields(text) {
		if current != "" && runewidth.StringWidth(current)+1+runewidth.StringWidth(word) > width {
			out = append(out, current)
			current = ""
		}
		if current == "" {
			current = runewidth.Truncate(word, width, "…")
			continue
		}
		current += " " + word
	}
	if current != "" {
		out = append(out, current)
	}
	return out
}

func (m *Model) handleConfirmKey(msg tea.KeyMsg) tea.Cmd {
	if m.confirmActive == nil {
		return nil
	}
	switch strings.ToLower(msg.String()) {
	case "y":
		req := *m.confirmActive
		m.confirmActive = nil
		return m.deleteCmd(req.ConversationID)
	case "n", "esc":
		m.confirmActive = nil
	case "ctrl+c":
		return m.quit()
	}
	return nil
}
