// Package logger writes leveled diagnostics for a search run.
//
// Diagnostics are written as they occur, one line each, prefixed with a
// [HH:MM:SS] timestamp and the level. Colour is used only when the primary
// writer is a terminal, unless forced either way.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/kk-code-lab/rseek/internal/search"
)

// Level orders log messages by severity.
type Level int

const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
)

// Levels lists the accepted level names, least severe first.
var Levels = []string{"trace", "debug", "info", "warn", "error"}

func (l Level) String() string {
	switch l {
	case LevelTrace:
		return "TRACE"
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "INFO"
	}
}

// ParseLevel converts a case-insensitive level name.
func ParseLevel(name string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "trace":
		return LevelTrace, nil
	case "debug":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("invalid log level %q, must be one of: %s", name, strings.Join(Levels, ", "))
	}
}

// ColorMode selects when ANSI colours are emitted.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

type sink struct {
	w     io.Writer
	color bool
}

// ConsoleLogger is a mutex-guarded leveled logger. It implements
// search.Reporter so traversal diagnostics land in the same stream.
type ConsoleLogger struct {
	sinks []sink
	level Level
	mu    sync.Mutex
	now   func() time.Time
}

var _ search.Reporter = (*ConsoleLogger)(nil)

// NewConsoleLogger creates a logger writing to w. An invalid level falls back
// to info. A nil writer discards everything.
func NewConsoleLogger(w io.Writer, level string, mode ColorMode) *ConsoleLogger {
	lvl, _ := ParseLevel(level)
	cl := &ConsoleLogger{level: lvl, now: time.Now}
	if w != nil {
		cl.sinks = append(cl.sinks, sink{w: w, color: useColor(w, mode)})
	}
	return cl
}

// Mirror copies every subsequent line, uncoloured, to w.
func (cl *ConsoleLogger) Mirror(w io.Writer) {
	if w == nil {
		return
	}
	cl.mu.Lock()
	defer cl.mu.Unlock()
	cl.sinks = append(cl.sinks, sink{w: w})
}

// Enabled reports whether messages at level would be written.
func (cl *ConsoleLogger) Enabled(level Level) bool {
	return level >= cl.level
}

func (cl *ConsoleLogger) Tracef(format string, args ...any) { cl.logf(LevelTrace, format, args...) }
func (cl *ConsoleLogger) Debugf(format string, args ...any) { cl.logf(LevelDebug, format, args...) }
func (cl *ConsoleLogger) Infof(format string, args ...any) { cl.logf(LevelInfo, format, args...) }
func (cl *ConsoleLogger) Warnf(format string, args ...any) { cl.logf(LevelWarn, format, args...) }
func (cl *ConsoleLogger) Errorf(format string, args ...any) { cl.logf(LevelError, format, args...) }

// Report implements search.Reporter. Notices log at info, failures at warn.
func (cl *ConsoleLogger) Report(err *search.Error) {
	if err == nil {
		return
	}
	if err.Kind.IsNotice() {
		cl.Infof("%s", err.Error())
		return
	}
	cl.Warnf("%s", err.Error())
}

func (cl *ConsoleLogger) logf(level Level, format string, args ...any) {
	if !cl.Enabled(level) {
		return
	}

	message := fmt.Sprintf(format, args...)

	cl.mu.Lock()
	defer cl.mu.Unlock()

	ts := cl.now().Format("15:04:05")
	for _, s := range cl.sinks {
		label := level.String()
		if s.color {
			label = colorize(level, label)
		}
		_, _ = fmt.Fprintf(s.w, "[%s] [%s] %s\n", ts, label, message)
	}
}

func colorize(level Level, label string) string {
	var c *color.Color
	switch level {
	case LevelTrace:
		c = color.New(color.FgHiBlack)
	case LevelDebug:
		c = color.New(color.FgCyan)
	case LevelInfo:
		c = color.New(color.FgBlue)
	case LevelWarn:
		c = color.New(color.FgYellow)
	case LevelError:
		c = color.New(color.FgRed)
	default:
		return label
	}
	c.EnableColor()
	return c.Sprint(label)
}

// useColor resolves mode for w. In auto mode only a TTY gets colour and
// NO_COLOR turns it off.
func useColor(w io.Writer, mode ColorMode) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
