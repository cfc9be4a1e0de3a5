// Package log wraps logrus with the small structured API used across
// imagesort: package-level helpers, key/value fields and error-aware entries.
package log

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync/atomic"

	"imagesort/internal/errors"

	"github.com/sirupsen/logrus"
)

var (
	isDebug atomic.Bool
	logger  = NewLogger()
)

// Field is a single structured key/value pair.
type Field struct {
	Key   string
	Value interface{}
}

// F creates a Field.
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

type options struct {
	out      io.Writer
	json     bool
	filePath string
}

// Option configures a Logger.
type Option func(*options)

// WithOutput sends log lines to w instead of stdout.
func WithOutput(w io.Writer) Option {
	return func(o *options) { o.out = w }
}

// WithJSON switches to one JSON object per line.
func WithJSON() Option {
	return func(o *options) { o.json = true }
}

// WithFile additionally appends log lines to the file at path.
func WithFile(path string) Option {
	return func(o *options) { o.filePath = path }
}

// Logger is a logrus logger carrying a set of fields.
type Logger struct {
	base   *logrus.Logger
	fields logrus.Fields
	file   *os.File
}

// NewLogger builds a Logger. Errors opening a log file fall back to the
// configured output alone.
func NewLogger(opts ...Option) *Logger {
	o := options{out: os.Stdout}
	for _, opt := range opts {
		opt(&o)
	}

	l := &Logger{base: logrus.New(), fields: logrus.Fields{}}
	l.base.SetLevel(logrus.DebugLevel)

	out := o.out
	if o.filePath != "" {
		f, err := os.OpenFile(o.filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err == nil {
			l.file = f
			out = io.MultiWriter(o.out, f)
		} else {
			fmt.Fprintf(o.out, "log: cannot open %s: %v\n", o.filePath, err)
		}
	}
	l.base.SetOutput(out)

	if o.json {
		l.base.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyMsg:   "message",
				logrus.FieldKeyTime:  "timestamp",
				logrus.FieldKeyLevel: "level",
			},
		})
	} else {
		l.base.SetFormatter(&textFormatter{})
	}
	return l
}

// Configure replaces the package-level logger.
func Configure(opts ...Option) {
	old := logger
	logger = NewLogger(opts...)
	if old != nil && old.file != nil {
		old.file.Close()
	}
}

// SetDebug toggles debug output for every logger.
func SetDebug(debug bool) {
	isDebug.Store(debug)
}

// Close releases the log file, if any.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// With returns a child logger carrying extra fields.
func (l *Logger) With(fields ...Field) *Logger {
	merged := make(logrus.Fields, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for _, f := range fields {
		merged[f.Key] = f.Value
	}
	return &Logger{base: l.base, fields: merged, file: l.file}
}

// WithError returns a child logger describing err.
func (l *Logger) WithError(err error) *Logger {
	return l.With(errorFields(err)...)
}

func (l *Logger) Info(msg string)                          { l.log(logrus.InfoLevel, msg) }
func (l *Logger) Infof(format string, args ...interface{}) { l.log(logrus.InfoLevel, fmt.Sprintf(format, args...)) }
func (l *Logger) Warn(msg string)                          { l.log(logrus.WarnLevel, msg) }
func (l *Logger) Warnf(format string, args ...interface{}) { l.log(logrus.WarnLevel, fmt.Sprintf(format, args...)) }
func (l *Logger) Error(msg string)                         { l.log(logrus.ErrorLevel, msg) }
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.log(logrus.ErrorLevel, fmt.Sprintf(format, args...))
}

// Debug logs only when SetDebug(true) is in effect.
func (l *Logger) Debug(msg string) {
	if isDebug.Load() {
		l.log(logrus.DebugLevel, msg)
	}
}

// Debugf is the formatted form of Debug.
func (l *Logger) Debugf(format string, args ...interface{}) {
	if isDebug.Load() {
		l.log(logrus.DebugLevel, fmt.Sprintf(format, args...))
	}
}

func (l *Logger) log(level logrus.Level, msg string) {
	entry := l.base.WithFields(l.fields)
	if _, file, line, ok := runtime.Caller(2); ok {
		entry = entry.WithField("caller", fmt.Sprintf("%s:%d", filepath.Base(file), line))
	}
	entry.Log(level, msg)
}

func errorFields(err error) []Field {
	if err == nil {
		return []Field{F("error", nil)}
	}
	fields := []Field{
		F("error", err.Error()),
		F("error_kind", int(errors.KindOf(err))),
	}
	var pathErr interface{ Path() string }
	if errors.As(err, &pathErr) && pathErr.Path() != "" {
		fields = append(fields, F("path", pathErr.Path()))
	}
	var cfgErr *errors.ConfigError
	if errors.As(err, &cfgErr) && cfgErr.Param() != "" {
		fields = append(fields, F("param", cfgErr.Param()))
	}
	return fields
}

// Package-level helpers use the configured global logger.

func Info(format string, args ...interface{}) {
	logger.log(logrus.InfoLevel, fmt.Sprintf(format, args...))
}

func Warn(format string, args ...interface{}) {
	logger.log(logrus.WarnLevel, fmt.Sprintf(format, args...))
}

func Error(format string, args ...interface{}) {
	logger.log(logrus.ErrorLevel, fmt.Sprintf(format, args...))
}

func Debug(format string, args ...interface{}) {
	if isDebug.Load() {
		logger.log(logrus.DebugLevel, fmt.Sprintf(format, args...))
	}
}

// LogWithFields returns the global logger carrying fields.
func LogWithFields(fields ...Field) *Logger {
	return logger.With(fields...)
}

// LogWithError returns the global logger describing err.
func LogWithError(err error) *Logger {
	return logger.WithError(err)
}

// LogError logs err at error level with msg.
func LogError(err error, msg string) {
	logger.WithError(err).log(logrus.ErrorLevel, msg)
}

// textFormatter renders "[timestamp] LEVEL: message key=value ...".
type textFormatter struct{}

func (textFormatter) Format(e *logrus.Entry) ([]byte, error) {
	var b bytes.Buffer
	fmt.Fprintf(&b, "[%s] %s: %s", e.Time.Format("2006-01-02 15:04:05"), strings.ToUpper(e.Level.String()), e.Message)

	keys := make([]string, 0, len(e.Data))
	for k := range e.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, e.Data[k])
	}
	b.WriteByte('\n')
	return b.Bytes(), nil
}
