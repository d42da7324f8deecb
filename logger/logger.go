package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/fatih/color"
)

var (
	debugColor = color.New(color.FgHiBlack)
	infoColor  = color.New(color.FgHiCyan)
	warnColor  = color.New(color.FgHiYellow)
	errorColor = color.New(color.FgHiRed, color.Bold)
	attrColor  = color.New(color.FgHiBlack)
)

// New returns a logger writing colored, single-line records to w.
func New(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(NewHandler(w, level))
}

// Handler is a slog.Handler that prints "15:04:05 LEVEL message key=value".
type Handler struct {
	w      io.Writer
	level  slog.Leveler
	attrs  string
	groups []string
	mu     *sync.Mutex
}

func NewHandler(w io.Writer, level slog.Leveler) *Handler {
	if level == nil {
		level = slog.LevelInfo
	}
	return &Handler{w: w, level: level, mu: &sync.Mutex{}}
}

func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	var sb strings.Builder
	if !r.Time.IsZero() {
		sb.WriteString(r.Time.Format("15:04:05"))
		sb.WriteByte(' ')
	}
	sb.WriteString(levelTag(r.Level))
	sb.WriteByte(' ')
	sb.WriteString(r.Message)

	sb.WriteString(h.attrs)
	prefix := strings.Join(h.groups, ".")
	r.Attrs(func(a slog.Attr) bool {
		writeAttr(&sb, prefix, a)
		return true
	})
	sb.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, sb.String())
	return err
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	var sb strings.Builder
	prefix := strings.Join(h.groups, ".")
	for _, a := range attrs {
		writeAttr(&sb, prefix, a)
	}
	nh := *h
	nh.attrs = h.attrs + sb.String()
	return &nh
}

func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	nh := *h
	nh.groups = append(append([]string{}, h.groups...), name)
	return &nh
}

func levelTag(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return errorColor.Sprint("ERROR")
	case level >= slog.LevelWarn:
		return warnColor.Sprint("WARN ")
	case level >= slog.LevelInfo:
		return infoColor.Sprint("INFO ")
	default:
		return debugColor.Sprint("DEBUG")
	}
}

func writeAttr(sb *strings.Builder, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	key := a.Key
	if prefix != "" {
		key = prefix + "." + key
	}
	if a.Value.Kind() == slog.KindGroup {
		for _, ga := range a.Value.Group() {
			writeAttr(sb, key, ga)
		}
		return
	}
	sb.WriteByte(' ')
	sb.WriteString(attrColor.Sprint(key + "="))
	fmt.Fprintf(sb, "%v", a.Value.Any())
}
