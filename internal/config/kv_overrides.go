package config

import (
	"strconv"
	"strings"

	"narrator-cli/internal/logger"
)

var log = logger.Named("config")

// ApplyKVOverrides applies free-form -c key=value overrides.
func ApplyKVOverrides(cfg Config, overrides []string) Config {
	for _, raw := range overrides {
		key, val, ok := strings.Cut(raw, "=")
		if !ok {
			log.Warnf("ignoring override without '=': %q", raw)
			continue
		}
		key = strings.TrimSpace(key)
		val = strings.TrimSpace(val)
		switch key {
		case "server_url", "url":
			cfg.ServerURL = strings.TrimRight(val, "/")
		case "advance_path":
			cfg.AdvancePath = val
		case "state_path":
			cfg.StatePath = val
		case "history_path":
			cfg.HistoryPath = val
		case "markdown_style":
			cfg.MarkdownStyle = val
		case "log_level":
			cfg.LogLevel = val
		case "timeout_seconds":
			setInt(&cfg.TimeoutSeconds, key, val)
		case "retries":
			setInt(&cfg.Retries, key, val)
		case "begin_delay_ms":
			setInt(&cfg.BeginDelayMS, key, val)
		default:
			name, isFeature := strings.CutPrefix(key, "features.")
			if !isFeature {
				log.Warnf("ignoring unknown override key %q", key)
				continue
			}
			b, err := strconv.ParseBool(val)
			if err != nil {
				log.Warnf("ignoring override %s: %v", key, err)
				continue
			}
			if cfg.Features == nil {
				cfg.Features = map[string]bool{}
			}
			cfg.Features[name] = b
		}
	}
	return cfg
}

func setInt(dst *int, key, val string) {
	n, err := strconv.Atoi(val)
	if err != nil {
		log.Warnf("ignoring override %s: %v", key, err)
		return
	}
	*dst = n
}
