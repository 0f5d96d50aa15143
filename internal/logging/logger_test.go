package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"strings"
	"testing"

	"subclean/internal/config"
	"subclean/internal/logging"
	"subclean/internal/services"
)

func TestNewFromConfigWritesLogFile(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = t.TempDir()

	logger, err := logging.NewFromConfig(&cfg, "")
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Info("file message")

	content, err := os.ReadFile(cfg.LogFilePath())
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(content), "file message") {
		t.Fatalf("expected message in log file, got %q", content)
	}
}

func TestNewFromConfigLevelOverride(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = t.TempDir()

	logger, err := logging.NewFromConfig(&cfg, "error")
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Info("suppressed")
	logger.Error("kept")

	content, err := os.ReadFile(cfg.LogFilePath())
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if strings.Contains(string(content), "suppressed") || !strings.Contains(string(content), "kept") {
		t.Fatalf("expected only error-level output, got %q", content)
	}
}

func TestConsoleLoggerLiftsSubjectFields(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logging.NewComponentLogger(logger, "batch").Info("track selected",
		logging.String(logging.FieldFile, "/media/in/movie.mkv"),
		logging.Int(logging.FieldTrackIndex, 3),
		logging.String(logging.FieldSessionID, "1f0c9a2e-77aa-4c1b-9d0e-000000000000"),
		logging.String("reason", "sdh title"),
	)

	line := buf.String()
	if !strings.Contains(line, "INFO  [batch] movie.mkv#3 (1f0c9a2e) track selected") {
		t.Fatalf("expected lifted prefix, got %q", line)
	}
	if !strings.Contains(line, `reason="sdh title"`) {
		t.Fatalf("expected quoted tail value, got %q", line)
	}
	for _, key := range []string{"file=", "track_index=", "session_id=", "component="} {
		if strings.Contains(line, key) {
			t.Fatalf("expected %s to be lifted out of the tail, got %q", key, line)
		}
	}
}

func TestConsoleLoggerSubjectVariants(t *testing.T) {
	tests := []struct {
		name  string
		attrs []logging.Attr
		want  string
	}{
		{name: "none", want: "INFO  done"},
		{name: "file only", attrs: []logging.Attr{logging.String(logging.FieldFile, "a.mkv")}, want: "INFO  a.mkv done"},
		{name: "track only", attrs: []logging.Attr{logging.Int(logging.FieldTrackIndex, 2)}, want: "INFO  track#2 done"},
		{name: "session only", attrs: []logging.Attr{logging.String(logging.FieldSessionID, "abc")}, want: "INFO  (abc) done"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger, err := logging.New(logging.Options{Writer: &buf})
			if err != nil {
				t.Fatalf("New returned error: %v", err)
			}
			logger.Info("done", logging.Args(tc.attrs...)...)
			if !strings.HasSuffix(strings.TrimSpace(buf.String()), tc.want) {
				t.Fatalf("got %q, want suffix %q", buf.String(), tc.want)
			}
		})
	}
}

func TestConsoleLoggerQualifiesGroups(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.With(logging.String(logging.FieldFile, "a.mkv")).
		WithGroup("stats").
		With(logging.Int("accepted", 2)).
		Info("review finished", logging.Int("skipped", 1))

	line := buf.String()
	if !strings.Contains(line, "a.mkv review finished") {
		t.Fatalf("expected ungrouped file in prefix, got %q", line)
	}
	if !strings.Contains(line, "stats.accepted=2") || !strings.Contains(line, "stats.skipped=1") {
		t.Fatalf("expected grouped keys, got %q", line)
	}
}

func TestConsoleLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "warn", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("hidden")
	logger.Warn("shown")

	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "WARN  shown") {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestJSONLoggerRenamesKeys(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "json", Level: "info", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("json message", logging.String("k", "v"))

	var payload map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &payload); err != nil {
		t.Fatalf("decode json log: %v", err)
	}
	if payload["msg"] != "json message" || payload["level"] != "info" || payload["k"] != "v" {
		t.Fatalf("unexpected json payload: %v", payload)
	}
	if _, ok := payload["ts"]; !ok {
		t.Fatalf("expected ts key, got %v", payload)
	}
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	if _, err := logging.New(logging.Options{Level: "loud"}); err == nil {
		t.Fatal("expected unsupported level error")
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected unsupported format error")
	}
}

func TestWithContextAddsFields(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithFile(ctx, "movie.mkv")
	ctx = services.WithStage(ctx, "review")
	ctx = services.WithSessionID(ctx, "sess-1")

	var buf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&buf, nil))
	logging.WithContext(ctx, base).Info("contextual log")

	var payload map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for key, want := range map[string]string{
		logging.FieldFile:      "movie.mkv",
		logging.FieldStage:     "review",
		logging.FieldSessionID: "sess-1",
	} {
		if payload[key] != want {
			t.Fatalf("field %s = %v, want %q", key, payload[key], want)
		}
	}
}

func TestWarnWithContextInjectsDefaults(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	logging.WarnWithContext(logger, "scan failed", "scan_failed", logging.String(logging.FieldImpact, "custom impact"))

	var payload map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload[logging.FieldEventType] != "scan_failed" {
		t.Fatalf("unexpected event type: %v", payload[logging.FieldEventType])
	}
	if payload[logging.FieldErrorHint] == nil {
		t.Fatal("expected default error hint")
	}
	if payload[logging.FieldImpact] != "custom impact" {
		t.Fatalf("expected caller impact to win, got %v", payload[logging.FieldImpact])
	}
}
