package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"narrator-cli/internal/features"

	"github.com/caarlos0/env/v11"
	"github.com/pelletier/go-toml/v2"
)

// Config 是唯一持久化的配置文件结构。环境变量覆盖文件值。
type Config struct {
	ServerURL      string          `toml:"server_url" env:"NARRATOR_SERVER_URL"`
	AdvancePath    string          `toml:"advance_path" env:"NARRATOR_ADVANCE_PATH"`
	TimeoutSeconds int             `toml:"timeout_seconds" env:"NARRATOR_TIMEOUT_SECONDS"`
	Retries        int             `toml:"retries" env:"NARRATOR_RETRIES"`
	StatePath      string          `toml:"state_path" env:"NARRATOR_STATE_PATH"`
	HistoryPath    string          `toml:"history_path" env:"NARRATOR_HISTORY_PATH"`
	MarkdownStyle  string          `toml:"markdown_style" env:"NARRATOR_MARKDOWN_STYLE"`
	BeginDelayMS   int             `toml:"begin_delay_ms" env:"NARRATOR_BEGIN_DELAY_MS"`
	LogLevel       string          `toml:"log_level" env:"NARRATOR_LOG_LEVEL"`
	Features       map[string]bool `toml:"features,omitempty"`
	Source         string          `toml:"-"`
}

const (
	DefaultServerURL   = "http://127.0.0.1:5000"
	DefaultAdvancePath = "/advance_conversation"
)

// Default 返回内置默认值；路径依赖 $HOME，取不到时留空。
func Default() Config {
	cfg := Config{
		ServerURL:      DefaultServerURL,
		AdvancePath:    DefaultAdvancePath,
		TimeoutSeconds: 30,
		Retries:        2,
		MarkdownStyle:  "dark",
		LogLevel:       "info",
	}
	if dir := homeDir(); dir != "" {
		cfg.StatePath = filepath.Join(dir, "state.json")
		cfg.HistoryPath = filepath.Join(dir, "history.jsonl")
	}
	return cfg
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".narrator")
}

// DefaultPath 返回 ~/.narrator/config.toml。
func DefaultPath() string {
	dir := homeDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.toml")
}

// Load 读取配置文件（不存在则使用默认值），再叠加环境变量。
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath()
	}
	if path == "" {
		return cfg, errors.New("config path is empty and $HOME is not set")
	}
	cfg.Source = path

	content, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return cfg, err
	default:
		if err := toml.Unmarshal(content, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse environment: %w", err)
	}
	cfg.ServerURL = strings.TrimRight(strings.TrimSpace(cfg.ServerURL), "/")
	return cfg, nil
}

// Validate 检查后端地址与数值范围。
func (c Config) Validate() error {
	u, err := url.Parse(c.ServerURL)
	if err != nil {
		return fmt.Errorf("server_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("server_url %q must be http or https", c.ServerURL)
	}
	if u.Host == "" {
		return fmt.Errorf("server_url %q has no host", c.ServerURL)
	}
	if c.TimeoutSeconds < 0 || c.Retries < 0 || c.BeginDelayMS < 0 {
		return errors.New("timeout_seconds, retries and begin_delay_ms must not be negative")
	}
	if !strings.HasPrefix(c.AdvancePath, "/") {
		return fmt.Errorf("advance_path %q must start with /", c.AdvancePath)
	}
	return nil
}

// Timeout 返回单次请求超时，0 表示不限制。
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// BeginDelay 返回开局前的等待时长。
func (c Config) BeginDelay() time.Duration {
	return time.Duration(c.BeginDelayMS) * time.Millisecond
}

// Feature 查询功能开关。
func (c Config) Feature(key string) bool {
	return features.Enabled(c.Features, key)
}
