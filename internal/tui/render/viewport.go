package render

import (
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// Viewport 包装 bubbles viewport：内容未变时跳过 SetContent，追加内容时保持贴底。
type Viewport struct {
	viewport.Model
	lastLines []string
}

// NewViewport 创建视口。
func NewViewport(width, height int) Viewport {
	return Viewport{Model: viewport.New(width, height)}
}

// Resize 更新宽高；宽度变化时返回 true，调用方需重新排版内容。
func (v *Viewport) Resize(width, height int) bool {
	if v == nil {
		return false
	}
	widthChanged := v.Width != width
	v.Width = width
	v.Height = height
	if widthChanged {
		v.Invalidate()
	}
	return widthChanged
}

// HandleUpdate 代理 bubbles 的 Update，保持内部状态。
func (v *Viewport) HandleUpdate(msg tea.Msg) tea.Cmd {
	if v == nil {
		return nil
	}
	var cmd tea.Cmd
	v.Model, cmd = v.Model.Update(msg)
	return cmd
}

// SetLines 更新内容；之前停在底部时继续跟随底部。
func (v *Viewport) SetLines(lines []string) {
	if v == nil || slices.Equal(lines, v.lastLines) {
		return
	}
	stickToBottom := v.AtBottom() || len(v.lastLines) == 0
	v.lastLines = append([]string(nil), lines...)
	v.SetContent(strings.Join(lines, "\n"))
	if stickToBottom {
		v.GotoBottom()
	}
}

// Invalidate 清空已缓存的行，强制下次 SetLines 重设内容。
func (v *Viewport) Invalidate() {
	if v == nil {
		return
	}
	v.lastLines = nil
}
