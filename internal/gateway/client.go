package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"narrator-cli/internal/logger"

	"github.com/cenkalti/backoff/v5"
	"github.com/google/uuid"
)

var log = logger.Named("gateway")

// 端点路径。
const (
	PathGetConversation      = "/get_conversation"
	PathAdvance              = "/advance_conversation"
	PathLegacyChat           = "/chat"
	PathCreateConversation   = "/create_conversation"
	PathCreateFromSeed       = "/create_conversation_from_seed"
	PathConversationListings = "/get_conversation_listings"
	PathDeleteConversation   = "/delete_conversation"
	PathWorldListings        = "/get_game_world_listings"
)

const maxResponseBytes = 8 << 20

// Options 配置 Client。
type Options struct {
	BaseURL     string
	AdvancePath string
	// Timeout 是单次 HTTP 往返的超时，0 表示不限制。
	Timeout time.Duration
	// Retries 只作用于幂等读取。
	Retries    int
	HTTPClient *http.Client
	Logger     logger.HTTPLogger
	// NewBackOff 允许测试替换退避策略。
	NewBackOff func() backoff.BackOff
}

// Client 是后端 HTTP 接口的客户端。
type Client struct {
	baseURL     string
	advancePath string
	retries     int
	http        *http.Client
	log         logger.HTTPLogger
	newBackOff  func() backoff.BackOff
}

// New 校验 BaseURL 并构造 Client。
func New(opts Options) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid server url %q", opts.BaseURL)
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: opts.Timeout}
	}
	advance := opts.AdvancePath
	if advance == "" {
		advance = PathAdvance
	}
	hl := opts.Logger
	if hl == nil {
		hl = logger.NewHTTPLogger(nil)
	}
	nb := opts.NewBackOff
	if nb == nil {
		nb = func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 300 * time.Millisecond
			b.MaxInterval = 3 * time.Second
			return b
		}
	}
	retries := opts.Retries
	if retries < 0 {
		retries = 0
	}
	return &Client{
		baseURL:     base,
		advancePath: advance,
		retries:     retries,
		http:        hc,
		log:         hl,
		newBackOff:  nb,
	}, nil
}

// BaseURL 返回规范化后的后端地址。
func (c *Client) BaseURL() string {
	return c.baseURL
}

// GetConversation 拉取会话完整历史。
func (c *Client) GetConversation(ctx context.Context, id string) (Conversation, error) {
	var out Conversation
	err := c.do(ctx, http.MethodPost, PathGetConversation, conversationIDRequest{ConversationID: id}, &out, true)
	return out, err
}

// Advance 提交一条用户输入。非幂等，不重试。
// partial_success 时同时返回已生成的对象和 *ServerError。
func (c *Client) Advance(ctx context.Context, req AdvanceRequest) (AdvanceResponse, error) {
	var out AdvanceResponse
	if err := c.do(ctx, http.MethodPost, c.advancePath, req, &out, false); err != nil {
		return out, err
	}
	switch {
	case out.SuccessType == SuccessPartial, out.SuccessType == SuccessError, out.ErrorType != "":
		return out, &ServerError{Kind: ParseErrorKind(out.ErrorType), Message: out.ErrorMessage, Status: http.StatusOK}
	}
	return out, nil
}

// CreateConversation 从零创建会话。
func (c *Client) CreateConversation(ctx context.Context) (Created, error) {
	var out Created
	err := c.do(ctx, http.MethodPost, PathCreateConversation, struct{}{}, &out, false)
	if err == nil && out.ID == "" {
		err = &TransportError{Method: http.MethodPost, Path: PathCreateConversation, Status: http.StatusOK, Message: "response has no conversation_id"}
	}
	return out, err
}

// CreateFromSeed 以世界种子创建会话。
func (c *Client) CreateFromSeed(ctx context.Context, seedID string) (Created, error) {
	var out Created
	err := c.do(ctx, http.MethodPost, PathCreateFromSeed, seedRequest{SeedID: seedID}, &out, false)
	if err == nil && out.ID == "" {
		err = &TransportError{Method: http.MethodPost, Path: PathCreateFromSeed, Status: http.StatusOK, Message: "response has no conversation_id"}
	}
	return out, err
}

// ListConversations 返回会话列表（未排序）。
func (c *Client) ListConversations(ctx context.Context) ([]Listing, error) {
	var env listingEnvelope
	if err := c.do(ctx, http.MethodGet, PathConversationListings, nil, &env, true); err != nil {
		return nil, err
	}
	return env.items(), nil
}

// DeleteConversation 删除会话。
func (c *Client) DeleteConversation(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPost, PathDeleteConversation, conversationIDRequest{ConversationID: id}, nil, false)
}

// ListWorlds 返回可选的世界种子。
func (c *Client) ListWorlds(ctx context.Context) ([]World, error) {
	var env worldEnvelope
	if err := c.do(ctx, http.MethodGet, PathWorldListings, nil, &env, true); err != nil {
		return nil, err
	}
	return env.Worlds, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any, idempotent bool) error {
	var body []byte
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", path, err)
		}
		body = data
	}
	requestID := uuid.NewString()
	attempt := 0
	op := func() (struct{}, error) {
		attempt++
		err := c.once(ctx, method, path, requestID, body, out, attempt)
		if err == nil {
			return struct{}{}, nil
		}
		if !idempotent || !retryable(err) {
			return struct{}{}, backoff.Permanent(err)
		}
		return struct{}{}, err
	}
	_, err := backoff.Retry(ctx, op,
		backoff.WithBackOff(c.newBackOff()),
		backoff.WithMaxTries(uint(c.retries+1)),
	)
	return err
}

func (c *Client) once(ctx context.Context, method, path, requestID string, body []byte, out any, attempt int) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build %s request: %w", path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	c.log.Request(method, path, requestID, attempt)
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Error(method, path, requestID, err, attempt)
		return &TransportError{Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	c.log.Response(method, path, requestID, resp.StatusCode, time.Since(start))
	if err != nil {
		return &TransportError{Method: method, Path: path, Status: resp.StatusCode, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return statusError(method, path, resp.StatusCode, data)
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &TransportError{Method: method, Path: path, Status: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func statusError(method, path string, status int, data []byte) error {
	var env errorEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		log.WithField("status", status).Debugf("non-JSON error body from %s", path)
	}
	if env.ErrorType != "" {
		return &ServerError{Kind: ParseErrorKind(env.ErrorType), Message: env.ErrorMessage, Status: status}
	}
	msg := env.Message
	if msg == "" {
		msg = env.ErrorMessage
	}
	if msg == "" && !json.Valid(data) {
		msg = strings.TrimSpace(string(data))
		if len(msg) > 200 {
			msg = msg[:200]
		}
	}
	return &TransportError{Method: method, Path: path, Status: status, Message: msg}
}
