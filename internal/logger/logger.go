package logger

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// statusKey marks entries that carry a status prefix instead of a level prefix
const statusKey = "status"

const statusSuccess = "success"

var log = newLogger(os.Stderr)

// prefixFormatter renders entries as the plain CLI messages users see
type prefixFormatter struct{}

// Format implements logrus.Formatter
func (prefixFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	var prefix string
	switch entry.Level {
	case logrus.DebugLevel, logrus.TraceLevel:
		prefix = "[DEBUG] "
	case logrus.WarnLevel:
		prefix = "⚠ "
	case logrus.ErrorLevel, logrus.FatalLevel, logrus.PanicLevel:
		prefix = "✗ "
	default:
		if entry.Data[statusKey] == statusSuccess {
			prefix = "✓ "
		}
	}
	return []byte(prefix + entry.Message + "\n"), nil
}

func newLogger(out io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(out)
	l.SetFormatter(prefixFormatter{})
	l.SetLevel(logrus.InfoLevel)
	return l
}

// SetOutput redirects all log output (stderr by default)
func SetOutput(w io.Writer) {
	log.SetOutput(w)
}

// SetVerbose enables or disables verbose logging
func SetVerbose(v bool) {
	if v {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.InfoLevel)
	}
}

// IsVerbose returns true if verbose logging is enabled
func IsVerbose() bool {
	return log.IsLevelEnabled(logrus.DebugLevel)
}

// Debug prints debug messages only when verbose mode is enabled
func Debug(format string, args ...interface{}) {
	log.Debug(fmt.Sprintf(format, args...))
}

// Info prints informational messages
func Info(format string, args ...interface{}) {
	log.Info(fmt.Sprintf(format, args...))
}

// Success prints success messages with checkmark
func Success(format string, args ...interface{}) {
	log.WithField(statusKey, statusSuccess).Info(fmt.Sprintf(format, args...))
}

// Error prints error messages
func Error(format string, args ...interface{}) {
	log.Error(fmt.Sprintf(format, args...))
}

// Warn prints warning messages
func Warn(format string, args ...interface{}) {
	log.Warn(fmt.Sprintf(format, args...))
}
