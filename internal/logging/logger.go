package logging

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode"

	"subclean/internal/config"
)

// Options describes logger construction parameters.
type Options struct {
	Level  string
	Format string
	// Writer receives every record; nil means os.Stderr.
	Writer io.Writer
	// LogFile, when set, receives a copy of every record.
	LogFile string
}

// New constructs a slog logger using the provided options.
func New(opts Options) (*slog.Logger, error) {
	level, err := parseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}
	if opts.LogFile != "" {
		file, err := openLogFile(opts.LogFile)
		if err != nil {
			return nil, err
		}
		w = io.MultiWriter(w, file)
	}

	var handler slog.Handler
	switch strings.ToLower(strings.TrimSpace(opts.Format)) {
	case "", "console":
		handler = newConsoleHandler(w, level)
	case "json":
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level, ReplaceAttr: jsonKeys})
	default:
		return nil, fmt.Errorf("log format: unsupported value %q", opts.Format)
	}
	return slog.New(handler), nil
}

// NewFromConfig creates a logger from the [logging] section. A non-empty
// levelOverride (the --log-level flag) wins over the configured level.
func NewFromConfig(cfg *config.Config, levelOverride string) (*slog.Logger, error) {
	opts := Options{Level: levelOverride, Format: "console"}
	if cfg != nil {
		opts.Format = cfg.Logging.Format
		opts.LogFile = cfg.LogFilePath()
		if strings.TrimSpace(opts.Level) == "" {
			opts.Level = cfg.Logging.Level
		}
	}
	return New(opts)
}

func parseLevel(value string) (slog.Level, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return slog.LevelInfo, nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(value)); err != nil {
		return 0, fmt.Errorf("log level: unsupported value %q", value)
	}
	return level, nil
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file %q: %w", path, err)
	}
	return file, nil
}

func jsonKeys(groups []string, attr slog.Attr) slog.Attr {
	if len(groups) > 0 {
		return attr
	}
	switch attr.Key {
	case slog.TimeKey:
		attr.Key = "ts"
		attr.Value = slog.StringValue(attr.Value.Time().UTC().Format(time.RFC3339Nano))
	case slog.LevelKey:
		attr.Value = slog.StringValue(strings.ToLower(attr.Value.String()))
	}
	return attr
}

// consoleHandler renders one line per record for an operator watching a
// batch or a review. The component, file, track and session fields are
// lifted out of the key=value tail into a fixed prefix:
//
//	14:02:11 WARN  [batch] movie.mkv#3 (1f0c9a2e) track skipped reason=forced
type consoleHandler struct {
	mu    *sync.Mutex
	w     io.Writer
	level slog.Leveler
	group string
	attrs []slog.Attr
}

func newConsoleHandler(w io.Writer, level slog.Leveler) *consoleHandler {
	return &consoleHandler{mu: &sync.Mutex{}, w: w, level: level}
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	next := *h
	next.attrs = append(append([]slog.Attr(nil), h.attrs...), qualify(h.group, attrs)...)
	return &next
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.group = joinKey(h.group, name)
	return &next
}

func (h *consoleHandler) Handle(_ context.Context, r slog.Record) error {
	var line consoleLine
	for _, attr := range h.attrs {
		line.add("", attr)
	}
	r.Attrs(func(attr slog.Attr) bool {
		line.add(h.group, attr)
		return true
	})

	buf := line.render(r)
	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.w.Write(buf)
	return err
}

// qualify prefixes attr keys with the open group so WithAttrs values keep
// their group after the handler is cloned.
func qualify(group string, attrs []slog.Attr) []slog.Attr {
	if group == "" {
		return attrs
	}
	out := make([]slog.Attr, 0, len(attrs))
	for _, attr := range attrs {
		attr.Key = joinKey(group, attr.Key)
		out = append(out, attr)
	}
	return out
}

func joinKey(prefix, key string) string {
	switch {
	case prefix == "":
		return key
	case key == "":
		return prefix
	default:
		return prefix + "." + key
	}
}

type consoleLine struct {
	component string
	file      string
	track     string
	session   string
	rest      []slog.Attr
}

func (l *consoleLine) add(prefix string, attr slog.Attr) {
	attr.Value = attr.Value.Resolve()
	if attr.Equal(slog.Attr{}) {
		return
	}
	if attr.Value.Kind() == slog.KindGroup {
		group := joinKey(prefix, attr.Key)
		for _, member := range attr.Value.Group() {
			l.add(group, member)
		}
		return
	}
	key := joinKey(prefix, attr.Key)
	switch key {
	case FieldComponent:
		l.component = attr.Value.String()
	case FieldFile:
		l.file = filepath.Base(attr.Value.String())
	case FieldTrackIndex:
		l.track = attr.Value.String()
	case FieldSessionID:
		l.session = shortSession(attr.Value.String())
	default:
		attr.Key = key
		l.rest = append(l.rest, attr)
	}
}

func (l *consoleLine) render(r slog.Record) []byte {
	var b bytes.Buffer
	if !r.Time.IsZero() {
		b.WriteString(r.Time.Format("15:04:05"))
		b.WriteByte(' ')
	}
	fmt.Fprintf(&b, "%-5s", r.Level.String())
	if l.component != "" {
		b.WriteString(" [")
		b.WriteString(l.component)
		b.WriteByte(']')
	}
	if subject := l.subject(); subject != "" {
		b.WriteByte(' ')
		b.WriteString(subject)
	}
	b.WriteByte(' ')
	b.WriteString(r.Message)
	for _, attr := range l.rest {
		b.WriteByte(' ')
		b.WriteString(attr.Key)
		b.WriteByte('=')
		b.WriteString(formatValue(attr.Value))
	}
	b.WriteByte('\n')
	return b.Bytes()
}

// subject names what the record is about: "movie.mkv#3 (1f0c9a2e)".
func (l *consoleLine) subject() string {
	subject := l.file
	if l.track != "" {
		if subject == "" {
			subject = "track"
		}
		subject += "#" + l.track
	}
	if l.session != "" {
		if subject != "" {
			subject += " "
		}
		subject += "(" + l.session + ")"
	}
	return subject
}

func shortSession(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func formatValue(v slog.Value) string {
	var s string
	switch v.Kind() {
	case slog.KindTime:
		s = v.Time().Format(time.RFC3339)
	case slog.KindDuration:
		s = v.Duration().Round(time.Millisecond).String()
	default:
		s = v.String()
	}
	if s == "" || strings.ContainsFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || r == '"' || r == '=' || !unicode.IsPrint(r)
	}) {
		return strconv.Quote(s)
	}
	return s
}
