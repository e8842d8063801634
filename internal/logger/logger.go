// Package logger is a process-wide structured logging facade. Commands
// log through the package functions; Init decides which backends receive
// the records.
package logger

// Backend is one destination for log records.
type Backend interface {
	Debug(message string, keyvals ...any)
	Info(message string, keyvals ...any)
	Warn(message string, keyvals ...any)
	Error(message string, keyvals ...any)
	Fatal(message string, keyvals ...any)
}

type dispatcher struct {
	backends []Backend
}

var active *dispatcher

// Init replaces the active backends. Logging before Init is a no-op.
func Init(backends ...Backend) {
	active = &dispatcher{backends: backends}
}

func each(fn func(Backend)) {
	if active == nil {
		return
	}
	for _, b := range active.backends {
		fn(b)
	}
}

// Debug logs at DEBUG level.
func Debug(message string, keyvals ...any) {
	each(func(b Backend) { b.Debug(message, keyvals...) })
}

// Info logs at INFO level.
func Info(message string, keyvals ...any) {
	each(func(b Backend) { b.Info(message, keyvals...) })
}

// Warn logs at WARN level.
func Warn(message string, keyvals ...any) {
	each(func(b Backend) { b.Warn(message, keyvals...) })
}

// Error logs at ERROR level.
func Error(message string, keyvals ...any) {
	each(func(b Backend) { b.Error(message, keyvals...) })
}

// Fatal logs at FATAL level. Backends terminate the process.
func Fatal(message string, keyvals ...any) {
	each(func(b Backend) { b.Fatal(message, keyvals...) })
}
