package infrastructure

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// ProgressTag prefixes the engine's download progress lines
const ProgressTag = "[download]"

// Prefixes yt-dlp puts on stderr lines
const (
	debugPrefix   = "[debug] "
	warningPrefix = "WARNING:"
	errorPrefix   = "ERROR:"
)

// RelayLogger implements domain.EngineLogger by copying engine lines verbatim
// to a diagnostic stream. Debug lines are only relayed when they carry the
// progress tag.
type RelayLogger struct {
	out io.Writer
	mu  sync.Mutex
}

// NewRelayLogger creates a relay writing to out (usually os.Stderr)
func NewRelayLogger(out io.Writer) *RelayLogger {
	return &RelayLogger{out: out}
}

// Debug relays download progress lines and drops everything else
func (l *RelayLogger) Debug(msg string) {
	if strings.HasPrefix(msg, ProgressTag) {
		l.write(msg)
	}
}

// Info relays msg
func (l *RelayLogger) Info(msg string) {
	l.write(msg)
}

// Warning relays msg
func (l *RelayLogger) Warning(msg string) {
	l.write(msg)
}

// Error relays msg
func (l *RelayLogger) Error(msg string) {
	l.write(msg)
}

func (l *RelayLogger) write(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.out, msg)
}

// lineLevel is the level a raw engine output line is dispatched at
type lineLevel int

const (
	levelDebug lineLevel = iota
	levelInfo
	levelWarning
	levelError
)

// classifyLine maps a yt-dlp output line to a logger level. Everything
// printed on stdout is screen output, which the engine routes to debug when a
// logger is attached; stderr carries the leveled messages.
func classifyLine(line string, fromStderr bool) lineLevel {
	if !fromStderr {
		return levelDebug
	}
	switch {
	case strings.HasPrefix(line, errorPrefix):
		return levelError
	case strings.HasPrefix(line, warningPrefix):
		return levelWarning
	case strings.HasPrefix(line, debugPrefix):
		return levelDebug
	default:
		return levelInfo
	}
}
