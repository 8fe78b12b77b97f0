package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// LogLevel represents different logging levels
type LogLevel int

const (
	// DEBUG level for detailed debugging information
	DEBUG LogLevel = iota
	// INFO level for general operational information
	INFO
	// WARN level for warning messages
	WARN
	// ERROR level for error messages
	ERROR
	// FATAL level for fatal errors that require immediate attention
	FATAL
)

var levelNames = map[LogLevel]string{
	DEBUG: "DEBUG",
	INFO:  "INFO",
	WARN:  "WARN",
	ERROR: "ERROR",
	FATAL: "FATAL",
}

var logrusLevels = map[LogLevel]logrus.Level{
	DEBUG: logrus.DebugLevel,
	INFO:  logrus.InfoLevel,
	WARN:  logrus.WarnLevel,
	ERROR: logrus.ErrorLevel,
	FATAL: logrus.FatalLevel,
}

// ParseLevel converts a level name such as "debug" or "WARN" to a LogLevel.
// Unknown names fall back to INFO.
func ParseLevel(name string) LogLevel {
	for level, levelName := range levelNames {
		if strings.EqualFold(name, levelName) {
			return level
		}
	}
	if strings.EqualFold(name, "warning") {
		return WARN
	}
	return INFO
}

// Logger is a levelled logger bound to a component name
type Logger struct {
	level     *levelVar
	base      *logrus.Logger
	component string
	fields    logrus.Fields
}

type levelVar struct {
	mu    sync.RWMutex
	level LogLevel
}

func (v *levelVar) get() LogLevel {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.level
}

func (v *levelVar) set(level LogLevel) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.level = level
}

var (
	defaultLogger *Logger
	once          sync.Once
)

func newLogrus() *logrus.Logger {
	base := logrus.New()
	base.SetOutput(os.Stdout)
	// Filtering happens in Logger.log
	base.SetLevel(logrus.DebugLevel)
	base.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006/01/02 15:04:05.000000",
	})
	return base
}

// New creates a standalone logger writing to out
func New(out io.Writer, level LogLevel, component string) *Logger {
	base := newLogrus()
	base.SetOutput(out)
	return &Logger{
		level:     &levelVar{level: level},
		base:      base,
		component: component,
	}
}

// InitLogger initializes the default logger
func InitLogger(level LogLevel, component string) {
	once.Do(func() {
		defaultLogger = &Logger{
			level:     &levelVar{level: level},
			base:      newLogrus(),
			component: component,
		}
	})
}

// GetLogger returns the default logger instance
func GetLogger() *Logger {
	if defaultLogger == nil {
		InitLogger(INFO, "default")
	}
	return defaultLogger
}

// WithComponent creates a new logger with the specified component name
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{
		level:     l.level,
		base:      l.base,
		component: component,
		fields:    l.fields,
	}
}

// WithField returns a logger that attaches key=value to every entry
func (l *Logger) WithField(key string, value interface{}) *Logger {
	fields := make(logrus.Fields, len(l.fields)+1)
	for k, v := range l.fields {
		fields[k] = v
	}
	fields[key] = value
	return &Logger{
		level:     l.level,
		base:      l.base,
		component: l.component,
		fields:    fields,
	}
}

// WithError attaches err to every entry
func (l *Logger) WithError(err error) *Logger {
	return l.WithField(logrus.ErrorKey, err)
}

// SetLevel sets the logging level
func (l *Logger) SetLevel(level LogLevel) {
	l.level.set(level)
}

// SetOutput redirects this logger and every logger derived from it
func (l *Logger) SetOutput(out io.Writer) {
	l.base.SetOutput(out)
}

// Level returns the current logging level
func (l *Logger) Level() LogLevel {
	return l.level.get()
}

// log performs the actual logging
func (l *Logger) log(level LogLevel, format string, args ...interface{}) {
	if level < l.level.get() {
		return
	}

	entry := l.base.WithField("component", l.component)
	if len(l.fields) > 0 {
		entry = entry.WithFields(l.fields)
	}
	entry.Log(logrusLevels[level], fmt.Sprintf(format, args...))

	if level == FATAL {
		l.base.Exit(1)
	}
}

// Debug logs debug level messages
func (l *Logger) Debug(format string, args ...interface{}) {
	l.log(DEBUG, format, args...)
}

// Info logs info level messages
func (l *Logger) Info(format string, args ...interface{}) {
	l.log(INFO, format, args...)
}

// Warn logs warning level messages
func (l *Logger) Warn(format string, args ...interface{}) {
	l.log(WARN, format, args...)
}

// Error logs error level messages
func (l *Logger) Error(format string, args ...interface{}) {
	l.log(ERROR, format, args...)
}

// Fatal logs fatal level messages and exits
func (l *Logger) Fatal(format string, args ...interface{}) {
	l.log(FATAL, format, args...)
}
