package slash

import (
	"fmt"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestSyncInputOpensOnSlashToken(t *testing.T) {
	state := NewState(Options{})
	state.SyncInput(Input{Value: "/li", CursorLine: 0, CursorColumn: 3})
	if !state.Open() {
		t.Fatalf("expected slash popup to open")
	}
	if len(state.matches) == 0 || state.matches[0].item.Command != CommandList {
		t.Fatalf("matches = %+v", state.matches)
	}
}

func TestSyncInputOpensOnBareSlash(t *testing.T) {
	state := NewState(Options{})
	state.SyncInput(Input{Value: "/", CursorLine: 0, CursorColumn: 1})
	if !state.Open() {
		t.Fatalf("expected slash popup to open on bare slash")
	}
	if len(state.matches) != len(state.Items()) {
		t.Fatalf("matches = %d, want %d", len(state.matches), len(state.Items()))
	}
}

func TestSyncInputIgnoresPlainText(t *testing.T) {
	state := NewState(Options{})
	for _, value := range []string{"open the door", " /list", "/usr/bin", ""} {
		state.SyncInput(Input{Value: value, CursorColumn: len(value)})
		if state.Open() {
			t.Fatalf("popup opened for %q", value)
		}
	}
}

func TestSyncInputClosesPastToken(t *testing.T) {
	state := NewState(Options{})
	state.SyncInput(Input{Value: "/open tav", CursorColumn: 9})
	if state.Open() {
		t.Fatalf("popup should close once the cursor is in the arguments")
	}
}

func TestHandleKeyTabCompletes(t *testing.T) {
	state := NewState(Options{})
	state.SyncInput(Input{Value: "/se", CursorLine: 0, CursorColumn: 3})
	action, handled := state.HandleKey("tab")
	if !handled {
		t.Fatalf("expected tab handled")
	}
	if action.Kind != ActionInsert {
		t.Fatalf("expected insert action, got %v", action.Kind)
	}
	if strings.TrimSpace(action.NewValue) != "/seed" {
		t.Fatalf("unexpected inserted value: %q", action.NewValue)
	}
	if action.CursorColumn != len("/seed ") {
		t.Fatalf("CursorColumn = %d, want %d", action.CursorColumn, len("/seed "))
	}
}

func TestHandleKeyEnterDispatchesCommand(t *testing.T) {
	state := NewState(Options{})
	state.SyncInput(Input{Value: "/worlds", CursorLine: 0, CursorColumn: 7})
	action, handled := state.HandleKey("enter")
	if !handled {
		t.Fatalf("expected enter handled")
	}
	if action.Kind != ActionSubmitCommand || action.Command != CommandWorlds {
		t.Fatalf("unexpected action %+v", action)
	}
	if state.Open() {
		t.Fatalf("popup should close after dispatch")
	}
}

func TestHandleKeyEnterWaitsForRequiredArgs(t *testing.T) {
	state := NewState(Options{})
	state.SyncInput(Input{Value: "/seed", CursorLine: 0, CursorColumn: 5})
	action, _ := state.HandleKey("enter")
	if action.Kind != ActionInsert {
		t.Fatalf("Kind = %v, want insert", action.Kind)
	}
}

func TestHandleKeyNavigationWraps(t *testing.T) {
	state := NewState(Options{})
	state.SyncInput(Input{Value: "/", CursorColumn: 1})
	if _, handled := state.HandleKey("up"); !handled {
		t.Fatalf("expected up handled")
	}
	if state.selected != len(state.matches)-1 {
		t.Fatalf("selected = %d, want %d", state.selected, len(state.matches)-1)
	}
	state.HandleKey("down")
	if state.selected != 0 {
		t.Fatalf("selected = %d, want 0", state.selected)
	}
	if action, _ := state.HandleKey("esc"); action.Kind != ActionClose || state.Open() {
		t.Fatalf("esc should close the popup")
	}
}

func TestHandleKeyIgnoredWhenClosed(t *testing.T) {
	state := NewState(Options{})
	if _, handled := state.HandleKey("ctrl+p"); handled {
		t.Fatalf("closed popup must not consume keys")
	}
}

func TestResolveSubmit(t *testing.T) {
	state := NewState(Options{})
	cases := []struct {
		value string
		kind  ActionKind
		cmd   Command
		args  string
	}{
		{"/open tavern  ", ActionSubmitCommand, CommandOpen, "tavern"},
		{"/SEED 42", ActionSubmitCommand, CommandSeed, "42"},
		{"/open", ActionSubmitCommand, CommandOpen, ""},
		{"/dance", ActionError, "", ""},
		{"look around", ActionNone, "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.value, func(t *testing.T) {
			got := state.ResolveSubmit(tc.value)
			if got.Kind != tc.kind || got.Command != tc.cmd || got.Args != tc.args {
				t.Fatalf("ResolveSubmit(%q) = %+v", tc.value, got)
			}
		})
	}
}

func TestDebugCommandHidden(t *testing.T) {
	if _, ok := NewState(Options{}).findExactItem("boot"); ok {
		t.Fatalf("boot should require debug")
	}
	if _, ok := NewState(Options{Debug: true}).findExactItem("boot"); !ok {
		t.Fatalf("boot missing in debug mode")
	}
}

func TestViewShowsUsage(t *testing.T) {
	state := NewState(Options{})
	state.SyncInput(Input{Value: "/op", CursorColumn: 3})
	view := state.View(60)
	if !strings.Contains(view, "<query>") {
		t.Fatalf("view = %q", view)
	}
}

func TestViewFooterShowsArgumentUsage(t *testing.T) {
	state := NewState(Options{})
	state.SyncInput(Input{Value: "/se", CursorColumn: 3})
	view := state.View(60)
	if !strings.Contains(view, "用法: /seed <id>") {
		t.Fatalf("view missing usage footer:\n%s", view)
	}

	state.SyncInput(Input{Value: "/wor", CursorColumn: 4})
	if view := state.View(60); !strings.Contains(view, "Enter 执行") || strings.Contains(view, "用法:") {
		t.Fatalf("view for a no-arg command:\n%s", view)
	}
}

func TestViewKeepsSelectionVisible(t *testing.T) {
	state := NewState(Options{MaxLines: 5})
	state.SyncInput(Input{Value: "/", CursorColumn: 1})
	view := state.View(60)
	if got := lipgloss.Height(view); got != 5 {
		t.Fatalf("height = %d, want 5:\n%s", got, view)
	}
	hidden := len(state.matches) - 4
	if !strings.Contains(view, fmt.Sprintf("另有 %d 项", hidden)) {
		t.Fatalf("view missing hidden count %d:\n%s", hidden, view)
	}

	state.HandleKey("up")
	last := state.matches[len(state.matches)-1].item.DisplayName()
	if view := state.View(60); !strings.Contains(view, last) {
		t.Fatalf("selected %s scrolled out of view:\n%s", last, view)
	}
}

func TestVisibleRange(t *testing.T) {
	cases := []struct {
		n, selected, rows int
		start, end        int
	}{
		{3, 2, 7, 0, 3},
		{10, 0, 4, 0, 4},
		{10, 5, 4, 2, 6},
		{10, 9, 4, 6, 10},
		{10, 3, 0, 3, 4},
	}
	for _, tc := range cases {
		start, end := visibleRange(tc.n, tc.selected, tc.rows)
		if start != tc.start || end != tc.end {
			t.Fatalf("visibleRange(%d,%d,%d) = %d,%d, want %d,%d", tc.n, tc.selected, tc.rows, start, end, tc.start, tc.end)
		}
	}
}
