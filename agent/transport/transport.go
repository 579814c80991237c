// Package transport issues read-only SNMP v2c queries against a single
// printer. It is the only place that talks to the network; everything above it
// works on the string values it returns.
package transport

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrTransport is matched by every query failure (timeout, unreachable host,
// tool exit status, malformed or empty response).
var ErrTransport = errors.New("snmp transport failure")

// ErrUnsupported is returned by a Funcs adapter that was not given an
// implementation for the requested operation.
var ErrUnsupported = errors.New("operation not supported by transport")

// Error describes a failed query. errors.Is(err, ErrTransport) is true for
// every *Error.
type Error struct {
	Op   string // "get" or "walk"
	OID  string
	Host string
	Err  error
}

func (e *Error) Error() string {
	if e.Host == "" {
		return fmt.Sprintf("snmp %s %s: %v", e.Op, e.OID, e.Err)
	}
	return fmt.Sprintf("snmp %s %s on %s: %v", e.Op, e.OID, e.Host, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is ErrTransport.
func (e *Error) Is(target error) bool { return target == ErrTransport }

// Transport is the query contract the printer package depends on.
//
// Get reads one OID and returns the substring after the last ':' of the
// response line, trimmed of whitespace. Walk enumerates every OID under prefix
// and returns the raw response lines in the order the device reported them.
// Implementations must be safe for concurrent use.
type Transport interface {
	Get(ctx context.Context, oid string) (string, error)
	Walk(ctx context.Context, prefix string) ([]string, error)
}

// Logger is the subset of the structured logger used by this package.
type Logger interface {
	Error(msg string, context ...interface{})
	Warn(msg string, context ...interface{})
	Info(msg string, context ...interface{})
	Debug(msg string, context ...interface{})
}

type nopLogger struct{}

func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Debug(string, ...interface{}) {}

// Config holds the connection parameters shared by every transport kind.
type Config struct {
	Host      string
	Community string
	Port      uint16
	// Timeout applies to each query. Zero means DefaultTimeout.
	Timeout time.Duration
	Retries int
	// MaxRepetitions tunes GETBULK during walks (gosnmp only). Zero keeps
	// the library default.
	MaxRepetitions uint32
	// SnmpGetPath and SnmpWalkPath locate the net-snmp tools (exec only).
	SnmpGetPath  string
	SnmpWalkPath string
}

const (
	DefaultPort    = 161
	DefaultTimeout = 2 * time.Second
	DefaultRetries = 1
)

// Kind names a transport implementation.
const (
	KindGoSNMP = "gosnmp"
	KindExec   = "exec"
)

func (c Config) withDefaults() Config {
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.Retries < 0 {
		c.Retries = 0
	}
	if c.SnmpGetPath == "" {
		c.SnmpGetPath = "snmpget"
	}
	if c.SnmpWalkPath == "" {
		c.SnmpWalkPath = "snmpwalk"
	}
	return c
}

// New builds the transport named by kind. An empty kind selects gosnmp.
// No validation is done on host or community; bad values surface as query
// failures.
func New(kind string, cfg Config, log Logger) (Transport, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", KindGoSNMP:
		return NewSNMP(cfg, log), nil
	case KindExec:
		return NewExec(cfg, log), nil
	default:
		return nil, fmt.Errorf("unknown transport %q (use %q or %q)", kind, KindGoSNMP, KindExec)
	}
}

// Funcs adapts plain functions to the Transport interface.
type Funcs struct {
	GetFunc  func(ctx context.Context, oid string) (string, error)
	WalkFunc func(ctx context.Context, prefix string) ([]string, error)
}

func (f Funcs) Get(ctx context.Context, oid string) (string, error) {
	if f.GetFunc == nil {
		return "", &Error{Op: "get", OID: oid, Err: ErrUnsupported}
	}
	return f.GetFunc(ctx, oid)
}

func (f Funcs) Walk(ctx context.Context, prefix string) ([]string, error) {
	if f.WalkFunc == nil {
		return nil, &Error{Op: "walk", OID: prefix, Err: ErrUnsupported}
	}
	return f.WalkFunc(ctx, prefix)
}
