package render

// Renderable 统一的可渲染抽象。
type Renderable interface {
	Render(area Rect, buf *Buffer)
	DesiredHeight(width int) int
}

// StaticLines 用于包装已准备好的行。
type StaticLines []Line

func (s StaticLines) Render(area Rect, buf *Buffer) {
	lines := []Line(s)
	if area.Height > 0 && len(lines) > area.Height {
		lines = lines[:area.Height]
	}
	buf.WriteLines(lines...)
}

func (s StaticLines) DesiredHeight(int) int {
	return len(s)
}

// ColumnRenderable 垂直堆叠子元素。
type ColumnRenderable struct {
	children []Renderable
}

// NewColumn 创建空列。
func NewColumn() *ColumnRenderable {
	return &ColumnRenderable{children: []Renderable{}}
}

// Push 添加子元素。
func (c *ColumnRenderable) Push(child Renderable) {
	if c == nil || child == nil {
		return
	}
	c.children = append(c.children, child)
}

// Len 返回子元素个数。
func (c *ColumnRenderable) Len() int {
	if c == nil {
		return 0
	}
	return len(c.children)
}

// Render 依次渲染子元素。
func (c *ColumnRenderable) Render(area Rect, buf *Buffer) {
	if c == nil {
		return
	}
	y := area.Y
	for _, child := range c.children {
		height := child.DesiredHeight(area.Width)
		childArea := Rect{X: area.X, Y: y, Width: area.Width, Height: height}
		child.Render(childArea, buf)
		y += height
		if area.Height > 0 && y-area.Y >= area.Height {
			break
		}
	}
}

// DesiredHeight 返回所有子元素高度之和。
func (c *ColumnRenderable) DesiredHeight(width int) int {
	if c == nil {
		return 0
	}
	total := 0
	for _, child := range c.children {
		total += child.DesiredHeight(width)
	}
	return total
}
