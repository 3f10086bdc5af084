package logger

import (
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// HTTPLogger 记录与后端的每次往返。
type HTTPLogger interface {
	Request(method, path, requestID string, attempt int)
	Response(method, path, requestID string, status int, elapsed time.Duration)
	Error(method, path, requestID string, err error, attempt int)
}

// NewHTTPLogger 基于 entry 构造；nil 时写入全局 logger。
func NewHTTPLogger(entry *LogEntry) HTTPLogger {
	if entry == nil {
		entry = Named("gateway")
	}
	return stdHTTPLogger{entry: entry}
}

type stdHTTPLogger struct {
	entry *LogEntry
}

func (l stdHTTPLogger) Request(method, path, requestID string, attempt int) {
	l.entry.WithFields(logrus.Fields{"request_id": requestID, "attempt": attempt}).
		Infof("-> %s %s", method, path)
}

func (l stdHTTPLogger) Response(method, path, requestID string, status int, elapsed time.Duration) {
	level := logrus.InfoLevel
	if status >= 400 {
		level = logrus.WarnLevel
	}
	l.entry.WithFields(logrus.Fields{"request_id": requestID, "status": status, "elapsed": elapsed.Round(time.Millisecond)}).
		Logf(level, "<- %s %s", method, path)
}

func (l stdHTTPLogger) Error(method, path, requestID string, err error, attempt int) {
	l.entry.WithFields(logrus.Fields{"request_id": requestID, "attempt": attempt}).
		Errorf("!! %s %s: %s", method, path, sanitize(err.Error()))
}

// NoopHTTPLogger 忽略所有输出。
type NoopHTTPLogger struct{}

func (NoopHTTPLogger) Request(string, string, string, int)                  {}
func (NoopHTTPLogger) Response(string, string, string, int, time.Duration) {}
func (NoopHTTPLogger) Error(string, string, string, error, int)             {}

func sanitize(text string) string {
	text = strings.ReplaceAll(text, "\n", `\n`)
	return strings.ReplaceAll(text, "\r", `\r`)
}
