package session

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSessionPersistsActiveConversation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	s := New(NewStore(path))
	if got := s.ActiveConversationID(); got != "" {
		t.Fatalf("fresh session active = %q, want empty", got)
	}
	if err := s.SetActiveConversation("conv-1"); err != nil {
		t.Fatalf("SetActiveConversation: %v", err)
	}

	reloaded := New(NewStore(path))
	if got := reloaded.ActiveConversationID(); got != "conv-1" {
		t.Fatalf("reloaded active = %q, want conv-1", got)
	}

	cleared, err := reloaded.ClearActive("other")
	if err != nil || cleared {
		t.Fatalf("ClearActive(other) = %v, %v; want no-op", cleared, err)
	}
	cleared, err = reloaded.ClearActive("conv-1")
	if err != nil || !cleared {
		t.Fatalf("ClearActive(conv-1) = %v, %v", cleared, err)
	}
	if got := New(NewStore(path)).ActiveConversationID(); got != "" {
		t.Fatalf("after clear active = %q, want empty", got)
	}
}

func TestSessionSingleFlight(t *testing.T) {
	s := New(nil)
	if !s.TryBeginWaiting() {
		t.Fatalf("first TryBeginWaiting should succeed")
	}
	if s.TryBeginWaiting() {
		t.Fatalf("second TryBeginWaiting should be rejected")
	}
	if !s.Waiting() {
		t.Fatalf("Waiting() = false while in flight")
	}
	s.EndWaiting()
	if !s.TryBeginWaiting() {
		t.Fatalf("TryBeginWaiting after EndWaiting should succeed")
	}
}

func TestStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := NewStore(path).Load(); err == nil {
		t.Fatalf("Load should fail on corrupt state")
	}
	if got := New(NewStore(path)).ActiveConversationID(); got != "" {
		t.Fatalf("corrupt state should yield empty session, got %q", got)
	}
}
