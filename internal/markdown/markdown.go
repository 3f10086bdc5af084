// Package markdown 把叙事文本渲染为终端样式输出。
package markdown

import (
	"strings"
	"sync"

	"narrator-cli/internal/logger"

	"github.com/charmbracelet/glamour"
)

var log = logger.Named("markdown")

// DefaultStyle 是 glamour 的内置样式名。
const DefaultStyle = "dark"

// Renderer 把 markdown 文本按给定宽度渲染为终端文本。
type Renderer interface {
	Render(text string, width int) string
}

// Plain 不做任何格式化，只去掉首尾空白。
type Plain struct{}

func (Plain) Render(text string, _ int) string {
	return strings.TrimSpace(text)
}

// Glamour 用 glamour 渲染，按宽度缓存 TermRenderer；构造失败时退回 Plain。
type Glamour struct {
	style string

	mu    sync.Mutex
	cache map[int]*glamour.TermRenderer
}

// NewGlamour 创建渲染器；style 为空时使用 DefaultStyle。
func NewGlamour(style string) *Glamour {
	style = strings.TrimSpace(style)
	if style == "" {
		style = DefaultStyle
	}
	return &Glamour{style: style, cache: map[int]*glamour.TermRenderer{}}
}

func (g *Glamour) Render(text string, width int) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	if width < 20 {
		width = 20
	}
	tr, err := g.renderer(width)
	if err != nil {
		log.WithField("style", g.style).Warnf("glamour renderer unavailable: %v", err)
		return Plain{}.Render(text, width)
	}
	out, err := tr.Render(text)
	if err != nil {
		log.Debugf("markdown render failed: %v", err)
		return Plain{}.Render(text, width)
	}
	return strings.Trim(out, "\n")
}

func (g *Glamour) renderer(width int) (*glamour.TermRenderer, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if tr, ok := g.cache[width]; ok {
		return tr, nil
	}
	tr, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(g.style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	g.cache[width] = tr
	return tr, nil
}

// New 按开关返回 Glamour 或 Plain。
func New(enabled bool, style string) Renderer {
	if !enabled {
		return Plain{}
	}
	return NewGlamour(style)
}
