// Package logger builds the slog handler used for use-case telemetry.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Options selects the handler. Format is "text" or "json".
type Options struct {
	Level  string
	Format string
}

// ParseLevel maps debug|info|warn|error to a slog level. Empty means info.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
}

// New returns a logger writing to w. Records are enriched with the fields
// stored on the context by WithLogFields.
func New(w io.Writer, opts Options) (*slog.Logger, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}
	hopts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch strings.ToLower(opts.Format) {
	case "json":
		handler = slog.NewJSONHandler(w, hopts)
	case "", "text":
		handler = slog.NewTextHandler(w, hopts)
	default:
		return nil, fmt.Errorf("unknown log format %q", opts.Format)
	}
	return slog.New(NewContextHandler(handler)), nil
}

// Setup builds a logger with New and installs it as the slog default.
func Setup(w io.Writer, opts Options) (*slog.Logger, error) {
	l, err := New(w, opts)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(l)
	return l, nil
}

// ContextHandler adds LogFields from the record's context.
type ContextHandler struct {
	slog.Handler
}

func NewContextHandler(h slog.Handler) *ContextHandler {
	return &ContextHandler{Handler: h}
}

func (h *ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	fields := GetLogFields(ctx)
	if fields.Command != "" {
		r.AddAttrs(slog.String("command", fields.Command))
	}
	if fields.OrganizationID != "" {
		r.AddAttrs(slog.String("organization_id", fields.OrganizationID))
	}
	return h.Handler.Handle(ctx, r)
}

func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ContextHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h *ContextHandler) WithGroup(name string) slog.Handler {
	return &ContextHandler{Handler: h.Handler.WithGroup(name)}
}
