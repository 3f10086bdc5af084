package controller

import (
	"context"
	"errors"
	"strings"

	"narrator-cli/internal/conversation"
	"narrator-cli/internal/gateway"
	"narrator-cli/internal/history"
	"narrator-cli/internal/logger"
	"narrator-cli/internal/session"
	"narrator-cli/internal/stream"
)

var log = logger.Named("controller")

// BootCommand 触发服务端初始化流程，而不是普通的一轮推进。
const BootCommand = "run_boot_sequence"

var (
	ErrEmptyMessage         = errors.New("message is empty")
	ErrNoActiveConversation = errors.New("no active conversation")
	ErrBusy                 = errors.New("a submission is already in flight")
	ErrGameNotBegun         = errors.New("game has not begun")
)

// NoActiveConversationText 是无会话时显示的错误文案。
const NoActiveConversationText = "No active conversation."

// Gateway 是控制器依赖的后端操作集合，*gateway.Client 满足该接口。
type Gateway interface {
	GetConversation(ctx context.Context, id string) (gateway.Conversation, error)
	Advance(ctx context.Context, req gateway.AdvanceRequest) (gateway.AdvanceResponse, error)
	CreateConversation(ctx context.Context) (gateway.Created, error)
	CreateFromSeed(ctx context.Context, seedID string) (gateway.Created, error)
	ListConversations(ctx context.Context) ([]gateway.Listing, error)
	DeleteConversation(ctx context.Context, id string) error
	ListWorlds(ctx context.Context) ([]gateway.World, error)
}

// Controller 是输入控制器：单飞提交、等待占位块、乐观用户块，以及会话加载/切换/创建/删除。
//
// 带 ctx 的网络方法（Send、Fetch、Create、Delete、Listings、Worlds）不触碰 Surface，
// 可以在后台 goroutine 调用；其余方法只能在 UI 线程调用。
type Controller struct {
	gw       Gateway
	session  *session.Session
	renderer *stream.Renderer
	history  *history.Store

	thinking  int
	held      []conversation.Object
	awaiting  bool
	beginning int
}

// New 构造控制器；hist 可为 nil。
func New(gw Gateway, sess *session.Session, r *stream.Renderer, hist *history.Store) *Controller {
	if r == nil {
		r = stream.NewRenderer(nil, stream.DefaultOptions())
	}
	if sess == nil {
		sess = session.New(nil)
	}
	return &Controller{gw: gw, session: sess, renderer: r, history: hist}
}

func (c *Controller) Session() *session.Session   { return c.session }
func (c *Controller) Renderer() *stream.Renderer  { return c.renderer }
func (c *Controller) History() *history.Store     { return c.history }
func (c *Controller) Surface() *stream.Surface    { return c.renderer.Surface() }

// AwaitingBegin reports whether loaded objects are held until the player begins the game.
func (c *Controller) AwaitingBegin() bool { return c.awaiting }

// Pending 描述一次已通过校验、等待发送的提交。
type Pending struct {
	ConversationID string
	Text           string
	Boot           bool
	ThinkingID     int
}

// Result 是 Send 的结果，交回 UI 线程由 Finish 处理。
type Result struct {
	Pending
	Response gateway.AdvanceResponse
	Err      error
}

// Begin 校验输入并占用提交槽位。
// 成功时已追加乐观用户块（引导命令除外）和等待占位块。
func (c *Controller) Begin(text string) (Pending, error) {
	if c.session.Waiting() {
		log.Debug("submission ignored while waiting for server response")
		return Pending{}, ErrBusy
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return Pending{}, ErrEmptyMessage
	}
	id := c.session.ActiveConversationID()
	if id == "" {
		c.renderer.Render([]conversation.Object{conversation.ClientError(NoActiveConversationText)})
		return Pending{}, ErrNoActiveConversation
	}
	if c.awaiting {
		return Pending{}, ErrGameNotBegun
	}
	if !c.session.TryBeginWaiting() {
		return Pending{}, ErrBusy
	}

	p := Pending{ConversationID: id, Text: text, Boot: text == BootCommand}
	if !p.Boot {
		c.renderer.Render([]conversation.Object{conversation.UserMessage(text)})
		if c.history != nil {
			if err := c.history.Append(id, text); err != nil {
				log.WithField("conversation_id", id).Warnf("failed to append prompt history: %v", err)
			}
		}
	}
	p.ThinkingID = c.renderer.AddThinking()
	c.thinking = p.ThinkingID
	return p, nil
}

// Send 发起网络请求，不修改任何 UI 状态。
func (c *Controller) Send(ctx context.Context, p Pending) Result {
	resp, err := c.gw.Advance(ctx, gateway.AdvanceRequest{
		UserMessage:     p.Text,
		ConversationID:  p.ConversationID,
		RunBootSequence: p.Boot,
	})
	return Result{Pending: p, Response: resp, Err: err}
}

// Finish 移除等待占位块（恰好一次），渲染返回的对象，失败时追加一个错误块，并释放提交槽位。
// 返回的 error 即 r.Err。
func (c *Controller) Finish(r Result) error {
	if r.ThinkingID == 0 || r.ThinkingID != c.thinking {
		log.WithField("block", r.ThinkingID).Debug("stale submission result ignored")
		return r.Err
	}
	c.thinking = 0
	defer c.session.EndWaiting()

	if _, ok := c.Surface().Block(r.ThinkingID); ok {
		c.renderer.Remove(r.ThinkingID)
	}
	if r.ConversationID != c.session.ActiveConversationID() {
		log.WithField("conversation_id", r.ConversationID).Info("dropping result for a conversation that is no longer active")
		return r.Err
	}
	if r.Response.Name != "" {
		c.session.SetTitle(r.Response.Name)
	}
	objs := []conversation.Object(r.Response.Objects)
	if r.Err != nil {
		log.WithField("conversation_id", r.ConversationID).Warnf("advance failed: %v", r.Err)
		objs = append(objs, conversation.ServerError(gateway.DisplayMessage(r.Err)))
	}
	c.renderer.Render(objs)
	return r.Err
}

// Submit 顺序执行 Begin、Send 与 Finish，供非交互命令使用。
func (c *Controller) Submit(ctx context.Context, text string) error {
	p, err := c.Begin(text)
	if err != nil {
		return err
	}
	return c.Finish(c.Send(ctx, p))
}

// Loaded 是 Fetch 的结果。
type Loaded struct {
	ID           string
	Conversation gateway.Conversation
	Err          error
}

// Fetch 拉取会话历史。
func (c *Controller) Fetch(ctx context.Context, id string) Loaded {
	conv, err := c.gw.GetConversation(ctx, id)
	return Loaded{ID: id, Conversation: conv, Err: err}
}

// Show 把拉取到的会话设为当前会话并重绘 Surface。
// 游戏尚未开始时只显示开场简介，其余对象留到 BeginGame。
func (c *Controller) Show(l Loaded) error {
	if l.Err != nil {
		if gateway.IsNotFound(l.Err) {
			if cleared, err := c.session.ClearActive(l.ID); err != nil {
				log.Warnf("failed to persist client state: %v", err)
			} else if cleared {
				c.reset()
			}
		}
		c.renderer.Render([]conversation.Object{conversation.ServerError(gateway.DisplayMessage(l.Err))})
		return l.Err
	}
	if l.ID != c.session.ActiveConversationID() {
		if err := c.session.SetActiveConversation(l.ID); err != nil {
			log.Warnf("failed to persist client state: %v", err)
		}
	}
	c.reset()
	c.session.SetTitle(l.Conversation.Name)
	if blurb := strings.TrimSpace(l.Conversation.IntroBlurb); blurb != "" {
		c.renderer.Render([]conversation.Object{conversation.IntroBlurb(blurb)})
	}
	if l.Conversation.GameHasBegun {
		c.renderer.Render(l.Conversation.Objects)
		return nil
	}
	c.held = append([]conversation.Object(nil), l.Conversation.Objects...)
	c.awaiting = true
	log.WithField("conversation_id", l.ID).WithField("held", len(c.held)).Debug("holding objects until the game begins")
	return nil
}

// Load 顺序执行 Fetch 与 Show。
func (c *Controller) Load(ctx context.Context, id string) error {
	return c.Show(c.Fetch(ctx, id))
}

// PrepareBegin 在开局等待期间显示一个等待占位块并返回其 ID。
// 没有等待开始的游戏，或已在开局中时返回 false。
func (c *Controller) PrepareBegin() (int, bool) {
	if !c.awaiting || c.beginning != 0 {
		return 0, false
	}
	c.beginning = c.renderer.AddThinking()
	return c.beginning, true
}

// BeginGame 移除开局占位块并显示加载时暂存的对象；没有等待开始的游戏时返回 false。
func (c *Controller) BeginGame() bool {
	if !c.awaiting {
		return false
	}
	if c.beginning != 0 {
		if _, ok := c.Surface().Block(c.beginning); ok {
			c.renderer.Remove(c.beginning)
		}
		c.beginning = 0
	}
	held := c.held
	c.held = nil
	c.awaiting = false
	c.renderer.Render(held)
	return true
}

// Create 创建会话；seedID 为空时从零创建。
func (c *Controller) Create(ctx context.Context, seedID string) (gateway.Created, error) {
	if strings.TrimSpace(seedID) == "" {
		return c.gw.CreateConversation(ctx)
	}
	return c.gw.CreateFromSeed(ctx, strings.TrimSpace(seedID))
}

// Activate 把新建的会话设为当前会话并清空 Surface，随后应加载它。
func (c *Controller) Activate(created gateway.Created) error {
	if created.ID == "" {
		return errors.New("created conversation has no id")
	}
	c.reset()
	if err := c.session.SetActiveConversation(created.ID); err != nil {
		return err
	}
	c.session.SetTitle(created.Name)
	return nil
}

// NewConversation 创建、激活并加载会话，返回新会话 ID。
func (c *Controller) NewConversation(ctx context.Context, seedID string) (string, error) {
	created, err := c.Create(ctx, seedID)
	if err != nil {
		return "", err
	}
	if err := c.Activate(created); err != nil {
		return "", err
	}
	return created.ID, c.Load(ctx, created.ID)
}

// Delete 删除服务端会话。
func (c *Controller) Delete(ctx context.Context, id string) error {
	return c.gw.DeleteConversation(ctx, id)
}

// Forget 在删除成功后调用：删除的是当前会话时清除持久化状态与 Surface。
func (c *Controller) Forget(id string) (bool, error) {
	cleared, err := c.session.ClearActive(id)
	if id == "" || !cleared {
		return false, err
	}
	c.reset()
	return true, err
}

// DeleteConversation 顺序执行 Delete 与 Forget。
func (c *Controller) DeleteConversation(ctx context.Context, id string) (bool, error) {
	if strings.TrimSpace(id) == "" {
		return false, ErrNoActiveConversation
	}
	if err := c.Delete(ctx, id); err != nil {
		return false, err
	}
	return c.Forget(id)
}

// Listings 返回排序后的会话列表。
func (c *Controller) Listings(ctx context.Context) ([]gateway.Listing, error) {
	items, err := c.gw.ListConversations(ctx)
	if err != nil {
		return nil, err
	}
	gateway.SortListings(items)
	return items, nil
}

// Worlds 返回可用的世界种子。
func (c *Controller) Worlds(ctx context.Context) ([]gateway.World, error) {
	return c.gw.ListWorlds(ctx)
}

// Reconcile 在列表中找不到当前会话时将其清除，返回是否清除。
func (c *Controller) Reconcile(items []gateway.Listing) bool {
	id := c.session.ActiveConversationID()
	if id == "" {
		return false
	}
	for _, it := range items {
		if it.ID == id {
			return false
		}
	}
	log.WithField("conversation_id", id).Info("active conversation missing from listing, clearing")
	cleared, err := c.session.ClearActive(id)
	if err != nil {
		log.Warnf("failed to persist client state: %v", err)
	}
	if cleared {
		c.reset()
	}
	return cleared
}

// reset 清空 Surface 和暂存对象。在途提交的占位块随之消失，其结果由 Finish 丢弃。
func (c *Controller) reset() {
	c.renderer.Clear()
	c.held = nil
	c.awaiting = false
	c.beginning = 0
}
