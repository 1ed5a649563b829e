package runtime

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"
)

// LevelOff is above every level slog emits, silencing a logger.
const LevelOff = slog.Level(12)

// ParseLogLevel parses a string into a slog level.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return slog.LevelDebug, nil
	case "INFO", "":
		return slog.LevelInfo, nil
	case "WARN", "WARNING":
		return slog.LevelWarn, nil
	case "ERROR":
		return slog.LevelError, nil
	case "OFF", "NONE":
		return LevelOff, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level: %s", s)
	}
}

type PrettyHandlerOptions struct {
	SlogOpts slog.HandlerOptions
}

// PrettyHandler is a development slog handler: coloured level, message, and
// the record's attributes as indented JSON.
type PrettyHandler struct {
	slog.Handler
	l *log.Logger
}

func NewPrettyHandler(out io.Writer, opts PrettyHandlerOptions) *PrettyHandler {
	return &PrettyHandler{
		Handler: slog.NewJSONHandler(out, &opts.SlogOpts),
		l:       log.New(out, "", 0),
	}
}

func (h *PrettyHandler) Handle(ctx context.Context, r slog.Record) error {
	level := r.Level.String() + ":"
	switch {
	case r.Level >= slog.LevelError:
		level = color.RedString(level)
	case r.Level >= slog.LevelWarn:
		level = color.YellowString(level)
	case r.Level >= slog.LevelInfo:
		level = color.BlueString(level)
	default:
		level = color.MagentaString(level)
	}

	fields := make(map[string]any, r.NumAttrs())
	r.Attrs(func(a slog.Attr) bool {
		fields[a.Key] = a.Value.Any()
		return true
	})
	var attrs string
	if len(fields) > 0 {
		b, err := json.MarshalIndent(fields, "", "  ")
		if err != nil {
			return err
		}
		attrs = color.WhiteString(string(b))
	}

	h.l.Println(r.Time.Format("[15:04:05.000]"), level, color.CyanString(r.Message), attrs)
	return nil
}

// NewLogger returns the process logger: the pretty handler when pretty is
// set (local development), JSON lines otherwise.
func NewLogger(out io.Writer, level slog.Level, pretty bool) *slog.Logger {
	opts := slog.HandlerOptions{Level: level}
	if pretty {
		return slog.New(NewPrettyHandler(out, PrettyHandlerOptions{SlogOpts: opts}))
	}
	return slog.New(slog.NewJSONHandler(out, &opts))
}

// LoggerFromEnv builds a logger from FERMI_LOG_LEVEL and FERMI_ENV
// (FERMI_ENV=dev selects the pretty handler) writing to stderr.
func LoggerFromEnv() *slog.Logger {
	level, err := ParseLogLevel(os.Getenv("FERMI_LOG_LEVEL"))
	logger := NewLogger(os.Stderr, level, os.Getenv("FERMI_ENV") == "dev")
	if err != nil {
		logger.Warn("Ignoring FERMI_LOG_LEVEL", "error", err)
	}
	return logger
}
