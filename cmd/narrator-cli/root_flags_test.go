package main

import (
	"reflect"
	"testing"
)

func TestParseRootArgsStopsAtSubcommand(t *testing.T) {
	orig := []string{"show", "--width", "60", "c1"}
	root, rest, err := parseRootArgs(orig)
	if err != nil {
		t.Fatalf("parseRootArgs returned error: %v", err)
	}
	if len(root.overrides) != 0 || root.configPath != "" {
		t.Fatalf("expected empty root args, got %+v", root)
	}
	if !reflect.DeepEqual(rest, orig) {
		t.Fatalf("expected rest to preserve args %v, got %v", orig, rest)
	}
}

func TestParseRootArgsExtractsOverrides(t *testing.T) {
	args := []string{
		"--config", "/tmp/n.toml",
		"-c", "retries=5",
		"--enable", "roll_glow",
		"-disable=markdown",
		"list",
	}
	root, rest, err := parseRootArgs(args)
	if err != nil {
		t.Fatalf("parseRootArgs returned error: %v", err)
	}
	expectedOverrides := []string{
		"retries=5",
		"features.roll_glow=true",
		"features.markdown=false",
	}
	if !reflect.DeepEqual(root.overrides, expectedOverrides) {
		t.Fatalf("unexpected overrides: got %v, want %v", root.overrides, expectedOverrides)
	}
	if root.configPath != "/tmp/n.toml" {
		t.Fatalf("configPath = %q, want /tmp/n.toml", root.configPath)
	}
	if !reflect.DeepEqual(rest, []string{"list"}) {
		t.Fatalf("unexpected rest args: got %v", rest)
	}
}

func TestParseRootArgsRejectsUnknownFeature(t *testing.T) {
	if _, _, err := parseRootArgs([]string{"--enable", "teleport"}); err == nil {
		t.Fatalf("expected error for unknown feature")
	}
}
