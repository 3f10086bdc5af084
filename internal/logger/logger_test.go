package logger

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func TestPlainFormatter_TypePrefixAndFieldSkipping(t *testing.T) {
	ts := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	cases := []struct {
		name    string
		data    logrus.Fields
		message string
		want    string
	}{
		{
			name: "with type",
			data: logrus.Fields{
				"component":       "stream",
				"type":            "mystery",
				"caller":          "x.go:1",
				"conversation_id": "c1",
			},
			message: "skipping unknown conversation object",
			want:    "x.go:1 [2025-01-02T03:04:05Z] [INFO] [stream] [type=mystery] skipping unknown conversation object conversation_id=c1\n",
		},
		{
			name: "without type",
			data: logrus.Fields{
				"component": "gateway",
				"caller":    "x.go:1",
				"status":    200,
			},
			message: "hello",
			want:    "x.go:1 [2025-01-02T03:04:05Z] [INFO] [gateway] hello status=200\n",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			entry := &logrus.Entry{
				Logger:  logrus.New(),
				Time:    ts,
				Level:   logrus.InfoLevel,
				Message: tc.message,
				Data:    tc.data,
			}
			out, err := (PlainFormatter{}).Format(entry)
			if err != nil {
				t.Fatalf("Format() error: %v", err)
			}
			got := string(out)
			if got != tc.want {
				t.Fatalf("unexpected format:\nwant: %q\ngot:  %q", tc.want, got)
			}
			if strings.Count(got, "type=") > 1 {
				t.Fatalf("type should appear once, got %q", got)
			}
		})
	}
}

func TestShortenFilePath(t *testing.T) {
	cases := map[string]string{
		"/home/u/src/narrator-cli/internal/stream/planner.go": "internal/stream/planner.go",
		"/home/u/src/narrator-cli/cmd/narrator-cli/main.go":   "cmd/narrator-cli/main.go",
		"/tmp/other.go": "other.go",
	}
	for in, want := range cases {
		if got := shortenFilePath(in); got != want {
			t.Fatalf("shortenFilePath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSetupComponentFileWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "gateway.log")
	entry, closer, resolved, err := SetupComponentFile("gateway", path)
	if err != nil {
		t.Fatalf("SetupComponentFile: %v", err)
	}
	if resolved != path {
		t.Fatalf("resolved = %q, want %q", resolved, path)
	}
	NewHTTPLogger(entry).Error("POST", "/advance_conversation", "req-1", errors.New("boom\nline"), 2)
	_ = closer.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	got := string(data)
	for _, want := range []string{"[gateway]", "!! POST /advance_conversation: boom\\nline", "attempt=2", "request_id=req-1"} {
		if !strings.Contains(got, want) {
			t.Fatalf("log %q missing %q", got, want)
		}
	}
}

func TestSetLevel(t *testing.T) {
	l := logrus.New()
	var buf bytes.Buffer
	l.SetOutput(&buf)
	SetRoot(l)
	t.Cleanup(func() { SetRoot(nil) })

	if err := SetLevel("warn"); err != nil {
		t.Fatalf("SetLevel: %v", err)
	}
	Named("x").Info("hidden")
	Named("x").Warn("shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Fatalf("unexpected output %q", buf.String())
	}
	if err := SetLevel("loud"); err == nil {
		t.Fatalf("SetLevel(loud) should fail")
	}
}
