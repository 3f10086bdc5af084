package main

import (
	"fmt"
	"strings"

	"narrator-cli/internal/config"
	"narrator-cli/internal/controller"
	"narrator-cli/internal/features"
	"narrator-cli/internal/gateway"
	"narrator-cli/internal/history"
	"narrator-cli/internal/logger"
	"narrator-cli/internal/markdown"
	"narrator-cli/internal/session"
	"narrator-cli/internal/stream"
)

// app 聚合一次运行所需的全部组件。
type app struct {
	cfg      config.Config
	client   *gateway.Client
	ctl      *controller.Controller
	markdown markdown.Renderer
	stream   stream.Options
}

// loadConfig 读取配置并依次叠加 -c 覆盖项。
func loadConfig(root rootArgs) (config.Config, error) {
	cfg, err := config.Load(root.configPath)
	if err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}
	cfg = config.ApplyKVOverrides(cfg, root.overrides)
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", cfg.Source, err)
	}
	return cfg, nil
}

func newApp(root rootArgs, httpLog logger.HTTPLogger) (*app, error) {
	cfg, err := loadConfig(root)
	if err != nil {
		return nil, err
	}
	if err := logger.SetLevel(cfg.LogLevel); err != nil {
		log.Warnf("ignoring log_level %q: %v", cfg.LogLevel, err)
	}

	client, err := gateway.New(gateway.Options{
		BaseURL:     cfg.ServerURL,
		AdvancePath: cfg.AdvancePath,
		Timeout:     cfg.Timeout(),
		Retries:     cfg.Retries,
		Logger:      httpLog,
	})
	if err != nil {
		return nil, err
	}

	var store *session.Store
	if strings.TrimSpace(cfg.StatePath) != "" {
		store = session.NewStore(cfg.StatePath)
	}
	var hist *history.Store
	if strings.TrimSpace(cfg.HistoryPath) != "" && cfg.Feature(features.PromptHistory) {
		hist = &history.Store{Path: cfg.HistoryPath}
	}
	streamOpts := stream.Options{
		Narration: cfg.Feature(features.RollNarration),
		Glow:      cfg.Feature(features.RollGlow),
	}
	renderer := stream.NewRenderer(stream.NewSurface(), streamOpts)

	log.WithField("server_url", client.BaseURL()).WithField("config", cfg.Source).Debug("client configured")
	return &app{
		cfg:      cfg,
		client:   client,
		ctl:      controller.New(client, session.New(store), renderer, hist),
		markdown: markdown.New(cfg.Feature(features.Markdown), cfg.MarkdownStyle),
		stream:   streamOpts,
	}, nil
}
