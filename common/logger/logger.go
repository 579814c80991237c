// Package logger is a small leveled logger with key/value context and
// optional size-rotated file output.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// LogLevel represents the severity level of a log message
type LogLevel int

const (
	ERROR LogLevel = iota
	WARN
	INFO
	DEBUG
	TRACE
)

var levelNames = map[LogLevel]string{
	ERROR: "ERROR",
	WARN:  "WARN",
	INFO:  "INFO",
	DEBUG: "DEBUG",
	TRACE: "TRACE",
}

// LogFileName is the active log file inside the log directory.
const LogFileName = "printinfo.log"

// LogEntry represents a single log entry
type LogEntry struct {
	Timestamp time.Time
	Level     LogLevel
	Message   string
	Context   map[string]interface{}
}

// RotationPolicy defines when rotated log files are created and pruned.
type RotationPolicy struct {
	Enabled   bool
	MaxSizeMB int
	MaxFiles  int
}

// Logger provides structured logging with levels. It is safe for concurrent use.
type Logger struct {
	mu             sync.RWMutex
	level          LogLevel
	logDir         string
	currentFile    *os.File
	rotationPolicy RotationPolicy
	console        io.Writer
	traceTags      map[string]bool
}

// New creates a Logger. An empty logDir disables file output. Console output
// goes to stderr so command output on stdout stays clean.
func New(level LogLevel, logDir string) *Logger {
	return &Logger{
		level:     level,
		logDir:    logDir,
		console:   os.Stderr,
		traceTags: make(map[string]bool),
		rotationPolicy: RotationPolicy{
			Enabled:   true,
			MaxSizeMB: 10,
			MaxFiles:  5,
		},
	}
}

// SetConsoleOutput redirects console output; nil disables it.
func (l *Logger) SetConsoleOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.console = w
}

// SetLevel changes the current log level
func (l *Logger) SetLevel(level LogLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// GetLevel returns the current log level
func (l *Logger) GetLevel() LogLevel {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.level
}

// SetRotationPolicy configures log rotation
func (l *Logger) SetRotationPolicy(policy RotationPolicy) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.rotationPolicy = policy
}

func (l *Logger) Error(msg string, context ...interface{}) { l.log(ERROR, msg, context...) }
func (l *Logger) Warn(msg string, context ...interface{})  { l.log(WARN, msg, context...) }
func (l *Logger) Info(msg string, context ...interface{})  { l.log(INFO, msg, context...) }
func (l *Logger) Debug(msg string, context ...interface{}) { l.log(DEBUG, msg, context...) }
func (l *Logger) Trace(msg string, context ...interface{}) { l.log(TRACE, msg, context...) }

// TraceTag logs at TRACE level when tag is enabled. With no tags enabled every
// trace message is logged.
func (l *Logger) TraceTag(tag string, msg string, context ...interface{}) {
	l.mu.RLock()
	enabled := l.traceTags[tag]
	anyTags := len(l.traceTags) > 0
	l.mu.RUnlock()

	if !anyTags || enabled {
		l.log(TRACE, msg, context...)
	}
}

// EnableTraceTag enables trace logging for a specific tag
func (l *Logger) EnableTraceTag(tag string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.traceTags[tag] = true
}

func (l *Logger) log(level LogLevel, msg string, context ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if level > l.level {
		return
	}

	ctx := make(map[string]interface{}, len(context)/2)
	for i := 0; i+1 < len(context); i += 2 {
		if key, ok := context[i].(string); ok {
			ctx[key] = context[i+1]
		}
	}

	entry := LogEntry{
		Timestamp: time.Now(),
		Level:     level,
		Message:   msg,
		Context:   ctx,
	}

	line := formatLogEntry(entry)
	if l.console != nil {
		fmt.Fprintln(l.console, line)
	}
	if l.logDir != "" {
		l.writeToFile(line)
	}
}

// writeToFile appends a formatted line to the current log file. Callers hold l.mu.
func (l *Logger) writeToFile(line string) {
	if l.currentFile == nil {
		if err := os.MkdirAll(l.logDir, 0o755); err != nil {
			return
		}
		f, err := os.OpenFile(filepath.Join(l.logDir, LogFileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return
		}
		l.currentFile = f
	}

	_, _ = l.currentFile.WriteString(line + "\n")

	if l.shouldRotate() {
		l.rotate()
	}
}

// formatLogEntry renders "timestamp [LEVEL] message k=v ..." with context
// keys sorted.
func formatLogEntry(entry LogEntry) string {
	var b strings.Builder
	b.WriteString(entry.Timestamp.Format("2006-01-02T15:04:05-07:00"))
	b.WriteString(" [")
	b.WriteString(levelNames[entry.Level])
	b.WriteString("] ")
	b.WriteString(entry.Message)

	keys := make([]string, 0, len(entry.Context))
	for k := range entry.Context {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, entry.Context[k])
	}
	return b.String()
}

func (l *Logger) shouldRotate() bool {
	if !l.rotationPolicy.Enabled || l.currentFile == nil || l.rotationPolicy.MaxSizeMB <= 0 {
		return false
	}
	stat, err := l.currentFile.Stat()
	if err != nil {
		return false
	}
	return stat.Size() >= int64(l.rotationPolicy.MaxSizeMB)*1024*1024
}

// rotate renames the current file with a timestamp and prunes old backups
// beyond MaxFiles.
func (l *Logger) rotate() {
	if l.currentFile == nil {
		return
	}
	_ = l.currentFile.Close()
	l.currentFile = nil

	backup := filepath.Join(l.logDir, fmt.Sprintf("printinfo_%s.log", time.Now().Format("20060102_150405.000")))
	_ = os.Rename(filepath.Join(l.logDir, LogFileName), backup)

	if l.rotationPolicy.MaxFiles <= 0 {
		return
	}
	files, err := filepath.Glob(filepath.Join(l.logDir, "printinfo_*.log"))
	if err != nil || len(files) <= l.rotationPolicy.MaxFiles {
		return
	}
	sort.Strings(files)
	for _, f := range files[:len(files)-l.rotationPolicy.MaxFiles] {
		_ = os.Remove(f)
	}
}

// Close closes the current log file
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.currentFile != nil {
		err := l.currentFile.Close()
		l.currentFile = nil
		return err
	}
	return nil
}

// LevelFromString converts a level name, in any case, to a LogLevel.
// Unknown names map to INFO.
func LevelFromString(s string) LogLevel {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ERROR":
		return ERROR
	case "WARN", "WARNING":
		return WARN
	case "DEBUG":
		return DEBUG
	case "TRACE":
		return TRACE
	default:
		return INFO
	}
}
