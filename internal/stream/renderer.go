package stream

import (
	"narrator-cli/internal/conversation"
	"narrator-cli/internal/logger"
)

var log = logger.Named("stream")

// Sink 接收已应用到 Surface 的更新，例如终端适配器。
type Sink func(Update)

// Renderer 按顺序消费对象批次并维护 Surface。
// 只应在单个 UI 线程上调用。
type Renderer struct {
	surface *Surface
	planner *Planner
	sinks   []Sink
}

// NewRenderer 创建渲染器；surface 为 nil 时新建一个。
func NewRenderer(surface *Surface, opts Options) *Renderer {
	if surface == nil {
		surface = NewSurface()
	}
	return &Renderer{surface: surface, planner: NewPlanner(opts)}
}

// Surface 返回底层 Surface。
func (r *Renderer) Surface() *Surface {
	return r.surface
}

// Planner 返回底层 Planner，可用于注册额外处理器。
func (r *Renderer) Planner() *Planner {
	return r.planner
}

// Subscribe 追加一个更新接收者。
func (r *Renderer) Subscribe(s Sink) {
	if s != nil {
		r.sinks = append(r.sinks, s)
	}
}

// Render 同步处理整批对象：逐个规划、逐个应用，中途不让出。
func (r *Renderer) Render(objs []conversation.Object) []Update {
	var out []Update
	for _, obj := range objs {
		for _, u := range r.planner.Plan(r.surface.Lookback(), obj) {
			r.apply(u)
			out = append(out, u)
		}
	}
	return out
}

// AddThinking 追加等待占位块并返回其 ID。
func (r *Renderer) AddThinking() int {
	look := r.surface.Lookback()
	b := Block{
		ID:           look.NextID,
		Kind:         BlockThinking,
		Freestanding: true,
		Align:        AlignLeft,
		Slots:        map[Slot]string{},
	}
	r.apply(Update{Op: OpAppend, BlockID: b.ID, Block: &b})
	return b.ID
}

// Remove 移除一个块；块不存在时返回 false。
func (r *Renderer) Remove(id int) bool {
	return r.apply(Update{Op: OpRemove, BlockID: id})
}

// Clear 清空 Surface，切换会话时调用。
func (r *Renderer) Clear() {
	r.apply(Update{Op: OpClear})
}

func (r *Renderer) apply(u Update) bool {
	if !r.surface.Apply(u) {
		log.WithField("op", string(u.Op)).WithField("block", u.BlockID).Warn("update targets a missing block")
		return false
	}
	for _, s := range r.sinks {
		s(u)
	}
	return true
}
