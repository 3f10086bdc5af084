package session

import (
	"sync"

	"narrator-cli/internal/logger"
)

var log = logger.Named("session")

// Session 持有当前会话 ID 与等待标志，是这两项状态的唯一所有者。
// 网络请求在后台 goroutine 完成，因此读写需要加锁。
type Session struct {
	mu       sync.Mutex
	activeID string
	title    string
	waiting  bool
	store    *Store
}

// New 从 store 恢复 active conversation；store 可为 nil（不持久化）。
func New(store *Store) *Session {
	s := &Session{store: store}
	if store == nil {
		return s
	}
	st, err := store.Load()
	if err != nil {
		log.Warnf("failed to load client state: %v", err)
		return s
	}
	s.activeID = st.ActiveConversationID
	return s
}

// ActiveConversationID 返回当前会话 ID，可能为空。
func (s *Session) ActiveConversationID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeID
}

// Title 返回当前会话名称。
func (s *Session) Title() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.title
}

// SetTitle 更新会话名称（不持久化）。
func (s *Session) SetTitle(title string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.title = title
}

// SetActiveConversation 切换会话并持久化。
func (s *Session) SetActiveConversation(id string) error {
	s.mu.Lock()
	s.activeID = id
	s.title = ""
	s.mu.Unlock()
	return s.persist(id)
}

// ClearActive 清除当前会话；仅当 id 为空或与当前一致时生效，返回是否清除。
func (s *Session) ClearActive(id string) (bool, error) {
	s.mu.Lock()
	if id != "" && id != s.activeID {
		s.mu.Unlock()
		return false, nil
	}
	s.activeID = ""
	s.title = ""
	s.mu.Unlock()
	return true, s.persist("")
}

// Waiting reports whether a submission is in flight.
func (s *Session) Waiting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.waiting
}

// TryBeginWaiting 原子地占用提交槽位；已有请求在途时返回 false。
func (s *Session) TryBeginWaiting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.waiting {
		return false
	}
	s.waiting = true
	return true
}

// EndWaiting 释放提交槽位。
func (s *Session) EndWaiting() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.waiting = false
}

func (s *Session) persist(id string) error {
	if s.store == nil {
		return nil
	}
	return s.store.Save(State{ActiveConversationID: id})
}
