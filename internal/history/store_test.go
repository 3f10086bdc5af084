package history

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestStoreAppendAndFilter(t *testing.T) {
	s := &Store{Path: filepath.Join(t.TempDir(), "history.jsonl")}
	for _, step := range []struct{ conv, text string }{
		{"a", "look around"},
		{"b", "other game"},
		{"a", "  "},
		{"a", "open the chest"},
		{"a", "run"},
	} {
		if err := s.Append(step.conv, step.text); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}
	got, err := s.Texts("a", 0)
	if err != nil {
		t.Fatalf("Texts: %v", err)
	}
	want := []string{"look around", "open the chest", "run"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Texts(a) = %v, want %v", got, want)
	}
	got, _ = s.Texts("a", 2)
	if !reflect.DeepEqual(got, want[1:]) {
		t.Fatalf("Texts(a, 2) = %v, want %v", got, want[1:])
	}
}

func TestStoreSkipsBadLinesAndMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.jsonl")
	s := &Store{Path: path}
	if got, err := s.Texts("a", 0); err != nil || got != nil {
		t.Fatalf("missing file = %v, %v", got, err)
	}
	content := "garbage\n{\"conversation_id\":\"a\",\"text\":\"ok\"}\n\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	got, err := s.Texts("a", 0)
	if err != nil || !reflect.DeepEqual(got, []string{"ok"}) {
		t.Fatalf("Texts = %v, %v", got, err)
	}
}
