package discover

import "sync"

// ExternalLogger is the subset of the application logger used during browsing.
type ExternalLogger interface {
	Warn(msg string, context ...interface{})
	Info(msg string, context ...interface{})
	Debug(msg string, context ...interface{})
	TraceTag(tag string, msg string, context ...interface{})
}

var (
	logMu     sync.RWMutex
	extLogger ExternalLogger
)

// SetLogger injects the application logger. Without one the package is silent.
func SetLogger(l ExternalLogger) {
	logMu.Lock()
	defer logMu.Unlock()
	extLogger = l
}

func current() ExternalLogger {
	logMu.RLock()
	defer logMu.RUnlock()
	return extLogger
}

func info(msg string, context ...interface{}) {
	if l := current(); l != nil {
		l.Info(msg, context...)
	}
}

func warn(msg string, context ...interface{}) {
	if l := current(); l != nil {
		l.Warn(msg, context...)
	}
}

func trace(msg string, context ...interface{}) {
	if l := current(); l != nil {
		l.TraceTag("mdns", msg, context...)
	}
}
