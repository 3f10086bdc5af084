package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// State 是跨进程保留的客户端状态。
type State struct {
	ActiveConversationID string    `json:"active_conversation_id,omitempty"`
	Updated              time.Time `json:"updated"`
}

// Store 把 State 保存为单个 JSON 文件。
type Store struct {
	Path string
}

// NewStore 返回写入 path 的 Store。
func NewStore(path string) *Store {
	return &Store{Path: path}
}

// Load 读取状态；文件不存在时返回零值。
func (s *Store) Load() (State, error) {
	var st State
	if s == nil || strings.TrimSpace(s.Path) == "" {
		return st, errors.New("state store path is empty")
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return st, nil
		}
		return st, err
	}
	if err := json.Unmarshal(data, &st); err != nil {
		return State{}, fmt.Errorf("decode %s: %w", s.Path, err)
	}
	return st, nil
}

// Save 原子地写入状态：先写临时文件再 rename。
func (s *Store) Save(st State) error {
	if s == nil || strings.TrimSpace(s.Path) == "" {
		return errors.New("state store path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return err
	}
	st.Updated = time.Now()
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.Path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.Path)
}
