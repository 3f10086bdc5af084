package main

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"narrator-cli/internal/features"
)

// stringSlice 是可重复的字符串 flag。
type stringSlice []string

func (s *stringSlice) String() string {
	return strings.Join(*s, ",")
}

func (s *stringSlice) Set(v string) error {
	*s = append(*s, v)
	return nil
}

type rootArgs struct {
	configPath string
	overrides  []string
}

// parseRootArgs 解析子命令之前的全局 flag，剩余参数原样返回。
func parseRootArgs(args []string) (rootArgs, []string, error) {
	fs := flag.NewFlagSet("narrator-cli", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var configPath string
	var overrides stringSlice
	var enable stringSlice
	var disable stringSlice
	fs.StringVar(&configPath, "config", "", "Path to config file (default ~/.narrator/config.toml)")
	fs.Var(&overrides, "c", "Override config value key=value (repeatable)")
	fs.Var(&enable, "enable", "Enable a feature (repeatable). Equivalent to -c features.<name>=true")
	fs.Var(&disable, "disable", "Disable a feature (repeatable). Equivalent to -c features.<name>=false")
	if err := fs.Parse(args); err != nil {
		return rootArgs{}, nil, err
	}

	featureOverrides, err := buildFeatureOverrides(enable, disable)
	if err != nil {
		return rootArgs{}, nil, err
	}
	all := append([]string{}, overrides...)
	all = append(all, featureOverrides...)
	return rootArgs{configPath: strings.TrimSpace(configPath), overrides: all}, fs.Args(), nil
}

func buildFeatureOverrides(enable []string, disable []string) ([]string, error) {
	var overrides []string
	for _, key := range enable {
		if !features.IsKnown(key) {
			return nil, fmt.Errorf("unknown feature flag: %s", key)
		}
		overrides = append(overrides, fmt.Sprintf("features.%s=%t", key, true))
	}
	for _, key := range disable {
		if !features.IsKnown(key) {
			return nil, fmt.Errorf("unknown feature flag: %s", key)
		}
		overrides = append(overrides, fmt.Sprintf("features.%s=%t", key, false))
	}
	return overrides, nil
}
