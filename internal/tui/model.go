package tui

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"narrator-cli/internal/controller"
	"narrator-cli/internal/gateway"
	"narrator-cli/internal/logger"
	"narrator-cli/internal/markdown"
	"narrator-cli/internal/stream"
	"narrator-cli/internal/tui/render"
	"narrator-cli/internal/tui/slash"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var log = logger.Named("tui")

const historyLimit = 200

type Options struct {
	Controller *controller.Controller
	Markdown   markdown.Renderer
	// BeginDelay 是按下开始后展示暂存对象前的等待时长。
	BeginDelay      time.Duration
	PromptHistory   bool
	AltScreen       bool
	Debug           bool
	ServerURL       string
	Context         context.Context
	CopyToClipboard func(string) error
	Now             func() time.Time
}

type submitResultMsg struct {
	result controller.Result
}

type loadedMsg struct {
	seq    int
	loaded controller.Loaded
}

type listPurpose int

const (
	listForPicker listPurpose = iota
	listAtStartup
	listForOpen
)

type listingsMsg struct {
	purpose listPurpose
	query   string
	items   []gateway.Listing
	err     error
}

type worldsMsg struct {
	worlds []gateway.World
	err    error
}

type createdMsg struct {
	created gateway.Created
	err     error
}

type deletedMsg struct {
	id  string
	err error
}

type beginMsg struct {
	seq int
}

type Model struct {
	ctl        *controller.Controller
	transcript *render.Transcript
	viewport   render.Viewport
	textarea   textarea.Model
	spin       spinner.Model
	status     *StatusIndicatorWidget
	slash      *slash.State
	history    promptHistory
	picker     list.Model

	picking       pickerKind
	confirmActive *confirmRequest
	showHelp      bool
	notice        string

	ctx        context.Context
	cancel     context.CancelFunc
	inflight   int
	loadSeq    int
	beginDelay time.Duration
	useHistory bool
	serverURL  string
	copy       func(string) error
	now        func() time.Time

	dirty  bool
	width  int
	height int
}

func New(opts Options) *Model {
	ctl := opts.Controller
	if ctl == nil {
		ctl = controller.New(nil, nil, nil, nil)
	}
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	md := opts.Markdown
	if md == nil {
		md = markdown.Plain{}
	}

	ti := textarea.New()
	ti.Placeholder = "What do you do?"
	ti.Prompt = "› "
	ti.CharLimit = 0
	ti.SetWidth(90)
	ti.SetHeight(1)
	ti.ShowLineNumbers = false
	ti.KeyMap.InsertNewline = key.NewBinding(key.WithKeys("alt+enter", "ctrl+j"))
	ti.Focus()

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4"))

	m := &Model{
		ctl:        ctl,
		transcript: render.NewTranscript(ctl.Surface(), render.BlockOptions{Markdown: md}),
		viewport:   render.NewViewport(90, 12),
		textarea:   ti,
		spin:       spin,
		status:     NewStatusIndicatorWidget(StatusIndicatorOptions{State: StatusIdle, Clock: opts.Now}),
		slash:      slash.NewState(slash.Options{Debug: opts.Debug}),
		picker:     newPicker(),
		ctx:        ctx,
		beginDelay: opts.BeginDelay,
		useHistory: opts.PromptHistory,
		serverURL:  opts.ServerURL,
		copy:       opts.CopyToClipboard,
		now:        opts.Now,
		dirty:      true,
		width:      90,
		height:     24,
	}
	if m.copy == nil {
		m.copy = clipboard.WriteAll
	}
	if m.now == nil {
		m.now = time.Now
	}
	ctl.Renderer().Subscribe(func(u stream.Update) {
		m.transcript.Apply(u)
		m.dirty = true
	})
	return m
}

// Controller 返回底层控制器。
func (m *Model) Controller() *controller.Controller { return m.ctl }

func (m *Model) Init() tea.Cmd {
	m.status.SetState(StatusLoading)
	return tea.Batch(m.spin.Tick, m.listingsCmd(listAtStartup, ""))
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.picker.SetSize(maxInt(20, msg.Width-4), maxInt(5, msg.Height-8))
		m.layout()
		return m.finish(cmds...)
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		frame := strings.TrimSpace(m.spin.View())
		m.status.SetFrame(frame)
		m.transcript.SetThinkingFrame(frame)
		if m.hasThinking() {
			m.dirty = true
		}
		return m.finish(append(cmds, cmd)...)
	case submitResultMsg:
		m.handleSubmitResult(msg.result)
		return m.finish(cmds...)
	case loadedMsg:
		m.handleLoaded(msg)
		return m.finish(cmds...)
	case listingsMsg:
		cmds = append(cmds, m.handleListings(msg))
		return m.finish(cmds...)
	case worldsMsg:
		m.handleWorlds(msg)
		return m.finish(cmds...)
	case createdMsg:
		cmds = append(cmds, m.handleCreated(msg))
		return m.finish(cmds...)
	case deletedMsg:
		cmds = append(cmds, m.handleDeleted(msg))
		return m.finish(cmds...)
	case beginMsg:
		if msg.seq == m.loadSeq && m.ctl.BeginGame() {
			m.status.SetState(StatusIdle)
		}
		return m.finish(cmds...)
	case tea.MouseMsg:
		cmds = append(cmds, m.viewport.HandleUpdate(msg))
		return m.finish(cmds...)
	case tea.KeyMsg:
		if cmd, handled := m.handleKey(msg); handled {
			return m.finish(append(cmds, cmd)...)
		}
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	cmds = append(cmds, cmd)
	m.afterInput()
	return m.finish(cmds...)
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	if msg.String() == "ctrl+c" {
		return m.quit(), true
	}
	if m.confirmActive != nil {
		return m.handleConfirmKey(msg), true
	}
	if m.picking != pickNone {
		return m.handlePickerKey(msg), true
	}
	if m.showHelp {
		switch msg.String() {
		case "esc", "enter", "q", "?":
			m.showHelp = false
		}
		return nil, true
	}
	if action, handled := m.slash.HandleKey(msg.String()); handled {
		return m.applySlashAction(action), true
	}
	if cmd, handled := m.handleScrollKeys(msg); handled {
		return cmd, true
	}
	switch msg.String() {
	case "esc":
		if m.cancel != nil {
			m.cancel()
			return nil, true
		}
		m.notice = ""
		return nil, true
	case "ctrl+p":
		if m.useHistory {
			if text, ok := m.history.Prev(m.textarea.Value()); ok {
				m.setComposer(text)
			}
			return nil, true
		}
	case "ctrl+n":
		if m.useHistory {
			if text, ok := m.history.Next(); ok {
				m.setComposer(text)
			}
			return nil, true
		}
	case "enter":
		return m.submit(), true
	}
	return nil, false
}

func (m *Model) afterInput() {
	m.history.Edited(m.textarea.Value())
	m.syncSlash()
	m.setComposerHeight()
}

func (m *Model) syncSlash() {
	info := m.textarea.LineInfo()
	m.slash.SyncInput(slash.Input{
		Value:        m.textarea.Value(),
		CursorLine:   m.textarea.Line(),
		CursorColumn: info.StartColumn + info.ColumnOffset,
	})
}

func (m *Model) setComposer(text string) {
	m.textarea.SetValue(text)
	m.textarea.CursorEnd()
	m.syncSlash()
	m.setComposerHeight()
}

func (m *Model) clearComposer() {
	m.textarea.Reset()
	m.history.ResetBrowsing()
	m.slash.Close()
	m.setComposerHeight()
}

func (m *Model) applySlashAction(action slash.Action) tea.Cmd {
	switch action.Kind {
	case slash.ActionInsert:
		m.textarea.SetValue(action.NewValue)
		m.textarea.SetCursor(action.CursorColumn)
		m.syncSlash()
	case slash.ActionSubmitCommand:
		m.clearComposer()
		return m.runCommand(action.Command, action.Args)
	case slash.ActionError:
		m.setNotice(action.Message)
	}
	return nil
}

// submit 处理 Enter：斜杠命令、开局或一轮推进。
func (m *Model) submit() tea.Cmd {
	value := m.textarea.Value()
	if strings.HasPrefix(strings.TrimSpace(value), "/") {
		action := m.slash.ResolveSubmit(strings.TrimSpace(value))
		if action.Kind == slash.ActionSubmitCommand {
			m.clearComposer()
			return m.runCommand(action.Command, action.Args)
		}
		return m.applySlashAction(action)
	}
	return m.send(value)
}

func (m *Model) send(text string) tea.Cmd {
	p, err := m.ctl.Begin(text)
	switch {
	case errors.Is(err, controller.ErrEmptyMessage):
		if m.ctl.AwaitingBegin() {
			return m.beginGame()
		}
		return nil
	case errors.Is(err, controller.ErrBusy):
		return nil
	case errors.Is(err, controller.ErrGameNotBegun):
		m.setNotice("Press Enter on an empty line or use /begin to start the game.")
		return nil
	case errors.Is(err, controller.ErrNoActiveConversation):
		m.setNotice("Use /list, /new or /worlds to pick a game.")
		return nil
	case err != nil:
		m.setNotice(err.Error())
		return nil
	}

	if !p.Boot {
		m.history.Add(p.Text)
	}
	m.clearComposer()
	m.notice = ""
	m.status.SetState(StatusSubmitting)
	ctx, cancel := context.WithCancel(m.ctx)
	m.cancel = cancel
	m.inflight = p.ThinkingID
	return func() tea.Msg {
		defer cancel()
		return submitResultMsg{result: m.ctl.Send(ctx, p)}
	}
}

func (m *Model) handleSubmitResult(r controller.Result) {
	if r.ThinkingID == m.inflight {
		m.cancel = nil
		m.inflight = 0
	}
	err := m.ctl.Finish(r)
	if m.ctl.Session().Waiting() || r.ConversationID != m.ctl.Session().ActiveConversationID() {
		return
	}
	if err != nil {
		m.status.SetError(gateway.DisplayMessage(err))
		return
	}
	m.status.SetState(StatusIdle)
}

func (m *Model) beginGame() tea.Cmd {
	if _, ok := m.ctl.PrepareBegin(); !ok {
		return nil
	}
	m.status.SetState(StatusLoading)
	m.status.UpdateHeader("Beginning")
	seq := m.loadSeq
	if m.beginDelay <= 0 {
		return func() tea.Msg { return beginMsg{seq: seq} }
	}
	return tea.Tick(m.beginDelay, func(time.Time) tea.Msg { return beginMsg{seq: seq} })
}

func (m *Model) busy() bool {
	if m.ctl.Session().Waiting() {
		m.setNotice("Wait for the narrator to finish this turn.")
		return true
	}
	return false
}

func (m *Model) loadCmd(id string) tea.Cmd {
	if m.busy() {
		return nil
	}
	m.loadSeq++
	seq := m.loadSeq
	m.status.SetState(StatusLoading)
	ctx := m.ctx
	return func() tea.Msg {
		return loadedMsg{seq: seq, loaded: m.ctl.Fetch(ctx, id)}
	}
}

func (m *Model) handleLoaded(msg loadedMsg) {
	if msg.seq != m.loadSeq {
		log.WithField("conversation_id", msg.loaded.ID).Debug("stale load ignored")
		return
	}
	if err := m.ctl.Show(msg.loaded); err != nil {
		m.status.SetError(gateway.DisplayMessage(err))
		return
	}
	m.viewport.Invalidate()
	m.loadHistory(msg.loaded.ID)
	if m.ctl.AwaitingBegin() {
		m.status.SetState(StatusAwaitingBegin)
		return
	}
	m.status.SetState(StatusIdle)
}

func (m *Model) loadHistory(id string) {
	if !m.useHistory {
		return
	}
	store := m.ctl.History()
	if store == nil {
		m.history.Set(nil)
		return
	}
	texts, err := store.Texts(id, historyLimit)
	if err != nil {
		log.WithField("conversation_id", id).Warnf("failed to read prompt history: %v", err)
	}
	m.history.Set(texts)
}

func (m *Model) listingsCmd(purpose listPurpose, query string) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		items, err := m.ctl.Listings(ctx)
		return listingsMsg{purpose: purpose, query: query, items: items, err: err}
	}
}

func (m *Model) handleListings(msg listingsMsg) tea.Cmd {
	if msg.err != nil {
		m.status.SetError(gateway.DisplayMessage(msg.err))
		if msg.purpose == listAtStartup {
			if id := m.ctl.Session().ActiveConversationID(); id != "" {
				return m.loadCmd(id)
			}
		}
		return nil
	}
	switch msg.purpose {
	case listAtStartup:
		m.ctl.Reconcile(msg.items)
		if id := m.ctl.Session().ActiveConversationID(); id != "" {
			return m.loadCmd(id)
		}
		m.status.SetState(StatusIdle)
		if len(msg.items) == 0 {
			return m.worldsCmd()
		}
		m.openConversationPicker(msg.items)
	case listForOpen:
		it, ok := bestListing(msg.items, msg.query)
		if !ok {
			m.setNotice(fmt.Sprintf("No conversation matches %q.", msg.query))
			m.openConversationPicker(msg.items)
			return nil
		}
		return m.loadCmd(it.ID)
	default:
		m.status.SetState(StatusIdle)
		if len(msg.items) == 0 {
			m.setNotice("No saved games yet. Use /new or /worlds.")
			return nil
		}
		m.openConversationPicker(msg.items)
	}
	return nil
}

func (m *Model) worldsCmd() tea.Cmd {
	m.status.SetState(StatusLoading)
	ctx := m.ctx
	return func() tea.Msg {
		worlds, err := m.ctl.Worlds(ctx)
		return worldsMsg{worlds: worlds, err: err}
	}
}

func (m *Model) handleWorlds(msg worldsMsg) {
	if msg.err != nil {
		m.status.SetError(gateway.DisplayMessage(msg.err))
		return
	}
	m.status.SetState(StatusIdle)
	if len(msg.worlds) == 0 {
		m.setNotice("The server has no worlds to offer. Use /new.")
		return
	}
	m.openWorldPicker(msg.worlds)
}

func (m *Model) createCmd(seedID string) tea.Cmd {
	if m.busy() {
		return nil
	}
	m.status.SetState(StatusLoading)
	m.status.UpdateHeader("Creating a new game")
	ctx := m.ctx
	return func() tea.Msg {
		created, err := m.ctl.Create(ctx, seedID)
		return createdMsg{created: created, err: err}
	}
}

func (m *Model) handleCreated(msg createdMsg) tea.Cmd {
	if msg.err == nil {
		msg.err = m.ctl.Activate(msg.created)
	}
	if msg.err != nil {
		m.status.SetError(gateway.DisplayMessage(msg.err))
		return nil
	}
	return m.loadCmd(msg.created.ID)
}

func (m *Model) deleteCmd(id string) tea.Cmd {
	if m.busy() {
		return nil
	}
	m.status.SetState(StatusLoading)
	m.status.UpdateHeader("Deleting")
	ctx := m.ctx
	return func() tea.Msg {
		return deletedMsg{id: id, err: m.ctl.Delete(ctx, id)}
	}
}

func (m *Model) handleDeleted(msg deletedMsg) tea.Cmd {
	if msg.err != nil {
		m.status.SetError(gateway.DisplayMessage(msg.err))
		return nil
	}
	cleared, err := m.ctl.Forget(msg.id)
	if err != nil {
		log.Warnf("failed to persist client state: %v", err)
	}
	m.status.SetState(StatusIdle)
	m.setNotice("Conversation deleted.")
	if cleared {
		m.loadSeq++
		m.history.Set(nil)
		return m.listingsCmd(listForPicker, "")
	}
	return nil
}

func (m *Model) runCommand(cmd slash.Command, args string) tea.Cmd {
	switch cmd {
	case slash.CommandQuit, slash.CommandExit:
		return m.quit()
	case slash.CommandHelp:
		m.showHelp = true
	case slash.CommandList:
		m.status.SetState(StatusLoading)
		return m.listingsCmd(listForPicker, "")
	case slash.CommandOpen:
		m.status.SetState(StatusLoading)
		if strings.TrimSpace(args) == "" {
			return m.listingsCmd(listForPicker, "")
		}
		return m.listingsCmd(listForOpen, args)
	case slash.CommandNew:
		return m.createCmd("")
	case slash.CommandSeed:
		return m.createCmd(args)
	case slash.CommandWorlds:
		return m.worldsCmd()
	case slash.CommandBegin:
		if !m.ctl.AwaitingBegin() {
			m.setNotice("The game has already begun.")
			return nil
		}
		return m.beginGame()
	case slash.CommandBoot:
		return m.send(controller.BootCommand)
	case slash.CommandReload:
		id := m.ctl.Session().ActiveConversationID()
		if id == "" {
			m.setNotice(controller.NoActiveConversationText)
			return nil
		}
		return m.loadCmd(id)
	case slash.CommandDelete:
		sess := m.ctl.Session()
		m.requestDelete(sess.ActiveConversationID(), sess.Title())
	case slash.CommandCopy:
		m.copyLastBlock()
	case slash.CommandStatus:
		m.setNotice(m.statusText())
	}
	return nil
}

func (m *Model) copyLastBlock() {
	blocks := m.ctl.Surface().Blocks()
	for i := len(blocks) - 1; i >= 0; i-- {
		if blocks[i].Kind == stream.BlockThinking {
			continue
		}
		text := blocks[i].Text()
		if text == "" {
			continue
		}
		if err := m.copy(text); err != nil {
			m.setNotice(fmt.Sprintf("Copy failed: %v", err))
			return
		}
		m.setNotice("Copied the last block to the clipboard.")
		return
	}
	m.setNotice("Nothing to copy yet.")
}

func (m *Model) statusText() string {
	sess := m.ctl.Session()
	id := sess.ActiveConversationID()
	if id == "" {
		id = "none"
	}
	parts := []string{fmt.Sprintf("conversation: %s", id)}
	if title := sess.Title(); title != "" {
		parts = append(parts, fmt.Sprintf("title: %s", title))
	}
	parts = append(parts, fmt.Sprintf("blocks: %d", m.ctl.Surface().Len()))
	if m.serverURL != "" {
		parts = append(parts, fmt.Sprintf("server: %s", m.serverURL))
	}
	return strings.Join(parts, " • ")
}

func (m *Model) setNotice(text string) {
	m.notice = text
}

func (m *Model) quit() tea.Cmd {
	if m.cancel != nil {
		m.cancel()
	}
	return tea.Quit
}

func (m *Model) hasThinking() bool {
	for _, b := range m.ctl.Surface().Blocks() {
		if b.Kind == stream.BlockThinking {
			return true
		}
	}
	return false
}

func (m *Model) finish(cmds ...tea.Cmd) (tea.Model, tea.Cmd) {
	m.layout()
	if m.dirty {
		m.flushTranscript()
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) flushTranscript() {
	m.dirty = false
	m.viewport.SetLines(m.renderTranscriptLines())
}

func (m *Model) renderTranscriptLines() []string {
	width := m.viewport.Width
	if width <= 0 {
		width = 80
	}
	lines := m.transcript.Lines(width)
	if len(lines) == 0 {
		return []string{hintStyle.Render("Welcome, traveller. Type /help to see what you can do.")}
	}
	return render.LinesToStrings(lines)
}

// layout 按当前窗口尺寸分配视口高度。
func (m *Model) layout() {
	composerHeight := m.textarea.Height() + 2
	used := 1 + 1 + 1 + composerHeight // header, status, hints
	if m.slash.Open() {
		used += lipgloss.Height(m.slash.View(m.width - 2))
	}
	viewHeight := m.height - used
	if viewHeight < 3 {
		viewHeight = 3
	}
	if m.viewport.Resize(m.width, viewHeight) {
		m.dirty = true
	}
	m.textarea.SetWidth(maxInt(20, m.width-4))
}

func (m *Model) setComposerHeight() {
	lines := strings.Count(m.textarea.Value(), "\n") + 1
	if lines > 6 {
		lines = 6
	}
	if m.textarea.Height() != lines {
		m.textarea.SetHeight(lines)
	}
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))
	hintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D7A85"))
	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(1).
			BorderForeground(lipgloss.Color("#FFB454"))
	composerStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#5E6472")).
			Padding(0, 1)
)

func (m *Model) View() string {
	body := m.viewport.View()
	switch {
	case m.confirmActive != nil:
		body = modalStyle.Render(m.confirmView(m.width - 6))
	case m.picking != pickNone:
		body = modalStyle.Render(m.picker.View())
	case m.showHelp:
		body = modalStyle.Render(m.helpView())
	}
	parts := []string{m.headerView(), body, m.statusView()}
	if m.slash.Open() {
		parts = append(parts, m.slash.View(m.width-2))
	}
	parts = append(parts,
		composerStyle.Width(maxInt(20, m.width-2)).Render(m.textarea.View()),
		hintStyle.Render(truncateToWidth(renderHints(), maxInt(20, m.width))),
	)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m *Model) headerView() string {
	title := m.ctl.Session().Title()
	if title == "" {
		title = "narrator"
	}
	line := titleStyle.Render(title)
	if percent := m.scrollPercent(); percent < 100 {
		line += hintStyle.Render(fmt.Sprintf("  %3d%%", percent))
	}
	return line
}

func (m *Model) scrollPercent() int {
	percent := int(math.Round(m.viewport.ScrollPercent() * 100))
	if percent < 0 {
		return 0
	}
	if percent > 100 {
		return 100
	}
	return percent
}

func (m *Model) statusView() string {
	if m.status.State() != StatusIdle {
		return m.status.View(maxInt(20, m.width))
	}
	if m.notice != "" {
		return hintStyle.Render(truncateToWidth(m.notice, maxInt(20, m.width)))
	}
	return ""
}

func (m *Model) helpView() string {
	lines := []string{titleStyle.Render("Commands"), ""}
	for _, it := range m.slash.Items() {
		name := it.DisplayName()
		if it.Usage != "" {
			name += " " + it.Usage
		}
		lines = append(lines, fmt.Sprintf("  %-16s %s", name, it.Description))
	}
	lines = append(lines, "", titleStyle.Render("Keys"), "", "  "+renderHints())
	return strings.Join(lines, "\n")
}

func renderHints() string {
	return "Enter 发送 • Alt+Enter 换行 • Ctrl+P/Ctrl+N 历史 • PgUp/PgDn 滚动 • Esc 取消 • / 命令 • Ctrl+C 退出"
}

func (m *Model) handleScrollKeys(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch msg.Type {
	case tea.KeyPgUp:
		m.viewport.ViewUp()
		return nil, true
	case tea.KeyPgDown:
		m.viewport.ViewDown()
		return nil, true
	case tea.KeyHome:
		if m.textarea.Value() == "" {
			m.viewport.GotoTop()
			return nil, true
		}
	case tea.KeyEnd:
		if m.textarea.Value() == "" {
			m.viewport.GotoBottom()
			return nil, true
		}
	case tea.KeyUp:
		if m.shouldScrollViewport(tea.KeyUp, msg) {
			m.viewport.LineUp(1)
			return nil, true
		}
	case tea.KeyDown:
		if m.shouldScrollViewport(tea.KeyDown, msg) {
			m.viewport.LineDown(1)
			return nil, true
		}
	}
	return nil, false
}

func (m *Model) shouldScrollViewport(direction tea.KeyType, msg tea.KeyMsg) bool {
	if msg.Alt {
		return true
	}

	lineInfo := m.textarea.LineInfo()
	if lineInfo.Height < 1 {
		lineInfo.Height = 1
	}

	atTop := m.textarea.Line() == 0 && lineInfo.RowOffset == 0
	lastLine := m.textarea.LineCount() - 1
	if lastLine < 0 {
		lastLine = 0
	}
	atBottomLine := m.textarea.Line() >= lastLine
	atBottomRow := lineInfo.RowOffset >= lineInfo.Height-1

	switch direction {
	case tea.KeyUp:
		return atTop
	case tea.KeyDown:
		return atBottomLine && atBottomRow
	default:
		return false
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
