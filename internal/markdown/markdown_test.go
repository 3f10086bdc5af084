package markdown

import (
	"regexp"
	"strings"
	"testing"
)

var ansi = regexp.MustCompile(`\x1b\[[0-9;?]*[A-Za-z]`)

func TestPlain(t *testing.T) {
	if got := (Plain{}).Render("  **bold**\n", 80); got != "**bold**" {
		t.Fatalf("Plain.Render = %q, want %q", got, "**bold**")
	}
}

func TestGlamourRendersText(t *testing.T) {
	r := NewGlamour("notty")
	out := ansi.ReplaceAllString(r.Render("# Gate\n\nThe **gate** opens.", 60), "")
	if !strings.Contains(out, "Gate") || !strings.Contains(out, "gate") {
		t.Fatalf("render output missing text: %q", out)
	}
	if strings.Contains(out, "**") {
		t.Fatalf("emphasis markers left in output: %q", out)
	}
}

func TestGlamourEmptyInput(t *testing.T) {
	if got := NewGlamour("").Render("   ", 80); got != "" {
		t.Fatalf("Render(blank) = %q, want empty", got)
	}
}

func TestNewHonorsFlag(t *testing.T) {
	if _, ok := New(false, "dark").(Plain); !ok {
		t.Fatalf("New(false) should return Plain")
	}
	if _, ok := New(true, "dark").(*Glamour); !ok {
		t.Fatalf("New(true) should return *Glamour")
	}
}
