package tui

import (
	"fmt"
	"time"

	"narrator-cli/internal/tui/render"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// StatusIndicatorState 枚举了状态指示器可显示的所有状态。
type StatusIndicatorState int

const (
	// StatusSubmitting 表示一轮推进正在等待服务端，计时器持续累加。
	StatusSubmitting StatusIndicatorState = iota
	// StatusLoading 表示正在拉取会话或列表，计时器持续累加。
	StatusLoading
	// StatusAwaitingBegin 表示会话已加载但游戏尚未开始。
	StatusAwaitingBegin
	// StatusError 表示最近一次操作失败。
	StatusError
	// StatusIdle 表示空闲，不显示状态行。
	StatusIdle
)

func (s StatusIndicatorState) String() string {
	switch s {
	case StatusSubmitting:
		return "submitting"
	case StatusLoading:
		return "loading"
	case StatusAwaitingBegin:
		return "awaiting_begin"
	case StatusError:
		return "error"
	case StatusIdle:
		return "idle"
	default:
		return "unknown"
	}
}

func (s StatusIndicatorState) defaultHeader() string {
	switch s {
	case StatusSubmitting:
		return "The narrator is thinking"
	case StatusLoading:
		return "Loading"
	case StatusAwaitingBegin:
		return "Press Enter to begin"
	case StatusError:
		return "Error"
	default:
		return ""
	}
}

func (s StatusIndicatorState) tracksElapsed() bool {
	return s == StatusSubmitting || s == StatusLoading
}

func (s StatusIndicatorState) interruptible() bool {
	return s == StatusSubmitting
}

func (s StatusIndicatorState) visible() bool {
	return s != StatusIdle
}

func (s StatusIndicatorState) valid() bool {
	switch s {
	case StatusSubmitting, StatusLoading, StatusAwaitingBegin, StatusError, StatusIdle:
		return true
	default:
		return false
	}
}

// StatusIndicatorOptions 控制指示器的初始化行为。
type StatusIndicatorOptions struct {
	State             StatusIndicatorState
	Header            string
	ShowInterruptHint *bool
	Clock             func() time.Time
}

// StatusIndicatorWidget 渲染与管理状态行（spinner + 标题 + 计时/中断提示）。
type StatusIndicatorWidget struct {
	header            string
	showInterruptHint bool
	state             StatusIndicatorState
	frame             string

	elapsedRunning time.Duration
	lastResumeAt   time.Time
	paused         bool

	clock func() time.Time
}

// NewStatusIndicatorWidget 构造状态指示器，默认处于 Submitting。
func NewStatusIndicatorWidget(opts StatusIndicatorOptions) *StatusIndicatorWidget {
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}

	state := opts.State
	if !state.valid() {
		state = StatusSubmitting
	}

	header := opts.Header
	if header == "" {
		header = state.defaultHeader()
	}

	showHint := true
	if opts.ShowInterruptHint != nil {
		showHint = *opts.ShowInterruptHint
	}

	w := &StatusIndicatorWidget{
		header:            header,
		showInterruptHint: showHint,
		state:             state,
		clock:             clock,
		lastResumeAt:      clock(),
	}
	if !state.tracksElapsed() {
		w.paused = true
	}
	return w
}

// State 返回当前状态。
func (w *StatusIndicatorWidget) State() StatusIndicatorState {
	if w == nil {
		return StatusIdle
	}
	return w.state
}

// UpdateHeader 允许动态更新标题文本。
func (w *StatusIndicatorWidget) UpdateHeader(header string) {
	if w == nil {
		return
	}
	w.header = header
}

// SetFrame 设置 spinner 当前帧，由外部 spinner.Model 驱动。
func (w *StatusIndicatorWidget) SetFrame(frame string) {
	if w == nil {
		return
	}
	w.frame = frame
}

// SetState 更新状态；进入计时状态时从零开始计时。
func (w *StatusIndicatorWidget) SetState(state StatusIndicatorState) {
	if w == nil || !state.valid() {
		return
	}
	now := w.now()
	if state.tracksElapsed() && state != w.state {
		w.elapsedRunning = 0
		w.lastResumeAt = now
		w.paused = false
	}
	w.syncTimerForState(now, state)
	w.state = state
	w.header = state.defaultHeader()
}

// SetError 进入错误态并显示 message。
func (w *StatusIndicatorWidget) SetError(message string) {
	if w == nil {
		return
	}
	w.SetState(StatusError)
	if message != "" {
		w.header = message
	}
}

// SetInterruptHintVisible 控制是否显示 Esc 提示。
func (w *StatusIndicatorWidget) SetInterruptHintVisible(visible bool) {
	if w == nil {
		return
	}
	w.showInterruptHint = visible
}

// ElapsedSeconds 返回累计秒数。
func (w *StatusIndicatorWidget) ElapsedSeconds() uint64 {
	if w == nil {
		return 0
	}
	return w.elapsedSecondsAt(w.now())
}

// DesiredHeight 满足 Renderable 接口。
func (w *StatusIndicatorWidget) DesiredHeight(_ int) int {
	if w == nil || !w.state.visible() {
		return 0
	}
	return 1
}

// Render 绘制状态行：spinner + 标题 + 计时/中断提示。
func (w *StatusIndicatorWidget) Render(area render.Rect, buf *render.Buffer) {
	if w == nil || buf == nil || area.Height <= 0 || area.Width <= 0 || !w.state.visible() {
		return
	}

	spans := []render.Span{{Text: w.spinnerFrame()}}
	if w.header != "" {
		headerStyle := lipgloss.Style{}
		if w.state == StatusError {
			headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#dc2626"))
		}
		spans = append(spans, render.Span{Text: " "}, render.Span{Text: w.header, Style: headerStyle})
	}
	if w.state.tracksElapsed() {
		prettyElapsed := fmtElapsedCompact(w.elapsedSecondsAt(w.now()))
		hint := formatHint(prettyElapsed, w.showInterruptHint && w.state.interruptible())
		spans = append(spans, render.Span{Text: " "}, render.Span{
			Text:  hint,
			Style: lipgloss.NewStyle().Faint(true),
		})
	}

	clamped := clampSpans(spans, area.Width)
	if len(clamped) == 0 {
		return
	}
	buf.WriteLine(render.Line{Spans: clamped})
}

// View 以字符串形式渲染一行状态。
func (w *StatusIndicatorWidget) View(width int) string {
	buf := render.Buffer{}
	w.Render(render.Rect{Width: width, Height: 1}, &buf)
	if len(buf.Lines) == 0 {
		return ""
	}
	return render.LinesToStrings(buf.Lines)[0]
}

func (w *StatusIndicatorWidget) now() time.Time {
	if w.clock != nil {
		return w.clock()
	}
	return time.Now()
}

func (w *StatusIndicatorWidget) syncTimerForState(now time.Time, next StatusIndicatorState) {
	if next.tracksElapsed() && w.paused {
		w.resumeTimerAt(now)
		return
	}
	if !next.tracksElapsed() && !w.paused {
		w.pauseTimerAt(now)
	}
}

func (w *StatusIndicatorWidget) pauseTimerAt(now time.Time) {
	if w.paused {
		return
	}
	w.elapsedRunning += now.Sub(w.lastResumeAt)
	w.paused = true
}

func (w *StatusIndicatorWidget) resumeTimerAt(now time.Time) {
	if !w.paused {
		return
	}
	w.lastResumeAt = now
	w.paused = false
}

func (w *StatusIndicatorWidget) elapsedDurationAt(now time.Time) time.Duration {
	if w.paused {
		return w.elapsedRunning
	}
	return w.elapsedRunning + now.Sub(w.lastResumeAt)
}

func (w *StatusIndicatorWidget) elapsedSecondsAt(now time.Time) uint64 {
	return uint64(w.elapsedDurationAt(now).Seconds())
}

func (w *StatusIndicatorWidget) spinnerFrame() string {
	switch w.state {
	case StatusAwaitingBegin:
		return "▶"
	case StatusError:
		return "!"
	case StatusIdle:
		return ""
	}
	if w.frame != "" {
		return w.frame
	}
	return "•"
}

func formatHint(elapsed string, interruptible bool) string {
	if interruptible {
		return fmt.Sprintf("(%s • esc to cancel)", elapsed)
	}
	return fmt.Sprintf("(%s)", elapsed)
}

// fmtElapsedCompact 将秒数格式化为紧凑字符串。
func fmtElapsedCompact(elapsedSecs uint64) string {
	switch {
	case elapsedSecs < 60:
		return fmt.Sprintf("%ds", elapsedSecs)
	case elapsedSecs < 3600:
		minutes := elapsedSecs / 60
		seconds := elapsedSecs % 60
		return fmt.Sprintf("%dm %02ds", minutes, seconds)
	default:
		hours := elapsedSecs / 3600
		minutes := (elapsedSecs % 3600) / 60
		seconds := elapsedSecs % 60
		return fmt.Sprintf("%dh %02dm %02ds", hours, minutes, seconds)
	}
}

func clampSpans(spans []render.Span, width int) []render.Span {
	if width <= 0 {
		return nil
	}
	remaining := width
	out := make([]render.Span, 0, len(spans))
	for _, sp := range spans {
		if remaining <= 0 {
			break
		}
		tw := runewidth.StringWidth(sp.Text)
		if tw <= remaining {
			out = append(out, sp)
			remaining -= tw
			continue
		}
		text := truncateToWidth(sp.Text, remaining)
		if text != "" {
			sp.Text = text
			out = append(out, sp)
			remaining = 0
		}
	}
	return out
}

func truncateToWidth(text string, width int) string {
	if width <= 0 {
		return ""
	}
	w := 0
	out := make([]rune, 0, len(text))
	for _, r := range text {
		rw := runewidth.RuneWidth(r)
		if w+rw > width {
			break
		}
		out = append(out, r)
		w += rw
	}
	return string(out)
}
