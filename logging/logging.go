package logging

import (
	"context"
	"fmt"
	"io"
	stdlog "log"
	"strings"
	"sync"

	"github.com/strongo/log"
)

// Level orders log severities.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarning
	LevelError
	LevelCritical
)

var levelNames = map[Level]string{
	LevelDebug:    "DEBUG",
	LevelInfo:     "INFO",
	LevelWarning:  "WARNING",
	LevelError:    "ERROR",
	LevelCritical: "CRITICAL",
}

func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("LEVEL(%d)", int(l))
}

// ParseLevel accepts the level names case-insensitively; "warn" is an alias
// of "warning".
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarning, nil
	case "error":
		return LevelError, nil
	case "critical":
		return LevelCritical, nil
	}
	return LevelInfo, fmt.Errorf("unknown log level %q", s)
}

// Printer is a strongo/log logger that writes one line per entry, prefixed
// with the level and the request ID carried by the context.
type Printer struct {
	level Level
	out   *stdlog.Logger
}

var _ log.Logger = (*Printer)(nil)

func NewPrinter(w io.Writer, level Level) *Printer {
	return &Printer{level: level, out: stdlog.New(w, "", stdlog.LstdFlags)}
}

func (p *Printer) Name() string {
	return "printer"
}

func (p *Printer) Debugf(c context.Context, format string, args ...interface{}) {
	p.printf(c, LevelDebug, format, args...)
}

func (p *Printer) Infof(c context.Context, format string, args ...interface{}) {
	p.printf(c, LevelInfo, format, args...)
}

func (p *Printer) Warningf(c context.Context, format string, args ...interface{}) {
	p.printf(c, LevelWarning, format, args...)
}

func (p *Printer) Errorf(c context.Context, format string, args ...interface{}) {
	p.printf(c, LevelError, format, args...)
}

func (p *Printer) Criticalf(c context.Context, format string, args ...interface{}) {
	p.printf(c, LevelCritical, format, args...)
}

func (p *Printer) printf(c context.Context, level Level, format string, args ...interface{}) {
	if level < p.level {
		return
	}
	prefix := level.String()
	if id := RequestID(c); id != "" {
		prefix += " [" + id + "]"
	}
	p.out.Printf("%s %s", prefix, fmt.Sprintf(format, args...))
}

var setupOnce sync.Once

// Setup registers a Printer with strongo/log. Only the first call has an
// effect, so tests and the serve command can both call it.
func Setup(w io.Writer, level Level) {
	setupOnce.Do(func() {
		log.AddLogger(NewPrinter(w, level))
	})
}

type requestIDKey struct{}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func RequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
