package render

import (
	"fmt"
	"io"

	"narrator-cli/internal/stream"
)

type cachedBlock struct {
	width int
	lines []Line
}

// Transcript 把 Surface 渲染为终端行，并按块缓存结果。
// Apply 作为 stream.Sink 订阅更新，只让被修改的块失效。
type Transcript struct {
	surface *stream.Surface
	opts    BlockOptions
	cache   map[int]cachedBlock
}

// NewTranscript 创建绑定到 surface 的 Transcript。
func NewTranscript(surface *stream.Surface, opts BlockOptions) *Transcript {
	return &Transcript{surface: surface, opts: opts, cache: map[int]cachedBlock{}}
}

// SetThinkingFrame 更新等待占位块的动画帧。
func (t *Transcript) SetThinkingFrame(frame string) {
	t.opts.ThinkingFrame = frame
}

// Apply 根据更新使缓存失效。
func (t *Transcript) Apply(u stream.Update) {
	switch u.Op {
	case stream.OpClear:
		t.cache = map[int]cachedBlock{}
	default:
		delete(t.cache, u.BlockID)
	}
}

// Invalidate 丢弃全部缓存，例如切换 markdown 样式之后。
func (t *Transcript) Invalidate() {
	t.cache = map[int]cachedBlock{}
}

// Lines 渲染全部块。相邻块之间空一行，middle/bottom 块紧贴前一块以保持连线。
func (t *Transcript) Lines(width int) []Line {
	blocks := t.surface.Blocks()
	col := NewColumn()
	for i, b := range blocks {
		if i > 0 && !attached(b) {
			col.Push(StaticLines{Line{}})
		}
		col.Push(StaticLines(t.blockLines(b, width)))
	}
	buf := Buffer{}
	col.Render(Rect{Width: width, Height: col.DesiredHeight(width)}, &buf)
	return buf.Lines
}

func attached(b stream.Block) bool {
	return !b.Freestanding && (b.Position == stream.PositionMiddle || b.Position == stream.PositionBottom)
}

func (t *Transcript) blockLines(b stream.Block, width int) []Line {
	if b.Kind == stream.BlockThinking {
		return RenderBlock(b, width, t.opts)
	}
	if c, ok := t.cache[b.ID]; ok && c.width == width {
		return c.lines
	}
	lines := RenderBlock(b, width, t.opts)
	t.cache[b.ID] = cachedBlock{width: width, lines: lines}
	return lines
}

// Print 把整个 Transcript 写到 w；styled 为 false 时输出纯文本。
func (t *Transcript) Print(w io.Writer, width int, styled bool) error {
	lines := t.Lines(width)
	var out []string
	if styled {
		out = LinesToStrings(lines)
	} else {
		out = LinesToPlainStrings(lines)
	}
	for _, l := range out {
		if _, err := fmt.Fprintln(w, l); err != nil {
			return err
		}
	}
	return nil
}
