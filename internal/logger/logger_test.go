package logger

import (
	"bytes"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func newBufferedLogger(buf *bytes.Buffer, level LogLevel) *Logger {
	base := logrus.New()
	base.SetOutput(buf)
	base.SetLevel(logrus.DebugLevel)
	base.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true, DisableColors: true})
	return &Logger{
		level:     &levelVar{level: level},
		base:      base,
		component: "test",
	}
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	log := newBufferedLogger(&buf, INFO)

	tests := []struct {
		name     string
		level    LogLevel
		logFunc  func(format string, args ...interface{})
		message  string
		wantLog  bool
		contains string
	}{
		{
			name:     "Debug message below INFO level",
			level:    INFO,
			logFunc:  log.Debug,
			message:  "debug message",
			wantLog:  false,
			contains: "level=debug",
		},
		{
			name:     "Info message at INFO level",
			level:    INFO,
			logFunc:  log.Info,
			message:  "info message",
			wantLog:  true,
			contains: "level=info",
		},
		{
			name:     "Warning message above INFO level",
			level:    INFO,
			logFunc:  log.Warn,
			message:  "warning message",
			wantLog:  true,
			contains: "level=warning",
		},
		{
			name:     "Error message above INFO level",
			level:    INFO,
			logFunc:  log.Error,
			message:  "error message",
			wantLog:  true,
			contains: "level=error",
		},
		{
			name:     "Debug message at DEBUG level",
			level:    DEBUG,
			logFunc:  log.Debug,
			message:  "debug message",
			wantLog:  true,
			contains: "level=debug",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			log.SetLevel(tt.level)
			tt.logFunc(tt.message)

			output := buf.String()
			if tt.wantLog {
				assert.Contains(t, output, tt.contains, "log should contain level marker")
				assert.Contains(t, output, tt.message, "log should contain message")
				assert.Contains(t, output, "component=test", "log should contain component")
			} else {
				assert.Empty(t, output, "log should be empty")
			}
		})
	}
}

func TestLoggerWithComponent(t *testing.T) {
	logger := GetLogger().WithComponent("test-component")
	assert.Equal(t, "test-component", logger.component)
}

func TestLoggerWithError(t *testing.T) {
	var buf bytes.Buffer
	log := newBufferedLogger(&buf, INFO).WithError(assert.AnError)

	log.Warn("call failed")
	assert.Contains(t, buf.String(), assert.AnError.Error())
	assert.Contains(t, buf.String(), "call failed")
}

func TestLoggerWithFieldDoesNotLeak(t *testing.T) {
	var buf bytes.Buffer
	parent := newBufferedLogger(&buf, INFO)
	child := parent.WithField("request_id", "abc")

	child.Info("child")
	assert.Contains(t, buf.String(), "request_id=abc")

	buf.Reset()
	parent.Info("parent")
	assert.NotContains(t, buf.String(), "request_id")
}

func TestDerivedLoggersShareLevel(t *testing.T) {
	var buf bytes.Buffer
	parent := newBufferedLogger(&buf, INFO)
	child := parent.WithComponent("child")

	parent.SetLevel(ERROR)
	child.Warn("suppressed")
	assert.Empty(t, buf.String())
	assert.Equal(t, ERROR, child.Level())
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, DEBUG, ParseLevel("debug"))
	assert.Equal(t, INFO, ParseLevel("INFO"))
	assert.Equal(t, WARN, ParseLevel("warn"))
	assert.Equal(t, WARN, ParseLevel("warning"))
	assert.Equal(t, ERROR, ParseLevel("Error"))
	assert.Equal(t, INFO, ParseLevel("verbose"))
}

func TestLogLevelNames(t *testing.T) {
	assert.Equal(t, "DEBUG", levelNames[DEBUG])
	assert.Equal(t, "INFO", levelNames[INFO])
	assert.Equal(t, "WARN", levelNames[WARN])
	assert.Equal(t, "ERROR", levelNames[ERROR])
	assert.Equal(t, "FATAL", levelNames[FATAL])
}

func TestInitLoggerSingleton(t *testing.T) {
	defaultLogger = nil
	once = sync.Once{}

	for i := 0; i < 3; i++ {
		InitLogger(DEBUG, "test")
	}

	logger1 := GetLogger()
	logger2 := GetLogger()
	assert.Same(t, logger1, logger2, "GetLogger should return the same instance")
	assert.Equal(t, DEBUG, logger1.Level())
	assert.Equal(t, "test", logger1.component)
}

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, WARN, "standalone")

	log.Info("hidden")
	assert.Empty(t, buf.String())

	log.Warn("shown %d", 1)
	assert.Contains(t, buf.String(), "shown 1")
	assert.Contains(t, buf.String(), "component=standalone")
}

func TestSetOutputAppliesToDerivedLoggers(t *testing.T) {
	var first, second bytes.Buffer
	parent := newBufferedLogger(&first, INFO)
	child := parent.WithComponent("child").WithField("request_id", "abc")

	parent.SetOutput(&second)
	child.Info("redirected")

	assert.Empty(t, first.String())
	assert.Contains(t, second.String(), "redirected")
	assert.Contains(t, second.String(), "component=child")
}
