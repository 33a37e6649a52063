package logging

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/runningwild/glop/glog"
)

type stdLogInterceptor interface {
	Printf(format string, v ...interface{})
}

type Logger interface {
	glog.Logger
	stdLogInterceptor
}

type sceneLogger struct {
	glog.Logger
}

func (log *sceneLogger) Printf(msg string, args ...interface{}) {
	log.Logger.Log(context.Background(), slog.LevelInfo, fmt.Sprintf(msg, args...))
}

var _ Logger = (*sceneLogger)(nil)

var debugLogger *sceneLogger
var infoLogger *sceneLogger
var warnLogger *sceneLogger
var errorLogger *sceneLogger

// Source locations are left out: glog only shortens paths under its own trim
// points and warns on slog.Default() for every other record.
func newLogger(lvl slog.Level) *sceneLogger {
	return &sceneLogger{
		Logger: glog.New(&glog.Opts{
			Level:          lvl,
			DoNotAddSource: true,
		}),
	}
}

func init() {
	debugLogger = newLogger(slog.LevelDebug)
	infoLogger = newLogger(slog.LevelInfo)
	warnLogger = newLogger(slog.LevelWarn)
	errorLogger = newLogger(slog.LevelError)
}

func DefaultLogger() Logger {
	return InfoLogger()
}

func DebugLogger() Logger {
	return debugLogger
}

func InfoLogger() Logger {
	return infoLogger
}

func WarnLogger() Logger {
	return warnLogger
}

func ErrorLogger() Logger {
	return errorLogger
}

func Log(msg string, args ...interface{}) {
	DefaultLogger().Info(msg, args...)
}

// Debug, Info and Trace all go through the default logger so that
// SetLogLevel controls their verbosity.
func Debug(msg string, args ...interface{}) {
	DefaultLogger().Debug(msg, args...)
}

func Info(msg string, args ...interface{}) {
	DefaultLogger().Info(msg, args...)
}

func Trace(msg string, args ...interface{}) {
	DefaultLogger().Log(context.Background(), glog.LevelTrace, msg, args...)
}

func Warn(msg string, args ...interface{}) {
	WarnLogger().Warn(msg, args...)
}

func Error(msg string, args ...interface{}) {
	ErrorLogger().Error(msg, args...)
}

// Call this to redirect all logging output to the given io.Writer. A cleanup
// function that undoes the redirect is returned.
func Redirect(newOut io.Writer) func() {
	oldDebugLogger := debugLogger
	debugLogger = &sceneLogger{
		Logger: glog.WithRedirect(oldDebugLogger, newOut),
	}

	oldInfoLogger := infoLogger
	infoLogger = &sceneLogger{
		Logger: glog.WithRedirect(oldInfoLogger, newOut),
	}

	oldWarnLogger := warnLogger
	warnLogger = &sceneLogger{
		Logger: glog.WithRedirect(oldWarnLogger, newOut),
	}

	oldErrorLogger := errorLogger
	errorLogger = &sceneLogger{
		Logger: glog.WithRedirect(oldErrorLogger, newOut),
	}

	oldDefault := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(newOut, nil)))
	return func() {
		debugLogger = oldDebugLogger
		infoLogger = oldInfoLogger
		warnLogger = oldWarnLogger
		errorLogger = oldErrorLogger
		slog.SetDefault(oldDefault)
	}
}

// Sends everything to logSink and also keeps a copy in the returned buffer
// so that a console can show recent output.
func SetupLogger(logSink io.Writer) *bytes.Buffer {
	logConsole := &bytes.Buffer{}
	logWriter := io.MultiWriter(logConsole, logSink)

	debugLogger.Logger = glog.WithRedirect(debugLogger.Logger, logWriter)
	infoLogger.Logger = glog.WithRedirect(infoLogger.Logger, logWriter)
	warnLogger.Logger = glog.WithRedirect(warnLogger.Logger, logWriter)
	errorLogger.Logger = glog.WithRedirect(errorLogger.Logger, logWriter)

	// Libraries logging through slog.Default() must not reach the terminal
	// either.
	slog.SetDefault(slog.New(slog.NewTextHandler(logWriter, nil)))

	return logConsole
}

// Tells the 'Default Logger' to changes its verbosity. The returned func
// restores the previous verbosity.
func SetLogLevel(lvl slog.Level) func() {
	old := infoLogger.Logger
	infoLogger.Logger = glog.Relevel(infoLogger.Logger, lvl)
	return func() {
		infoLogger.Logger = old
	}
}

// Maps the level names used in config files onto slog levels. "trace" is
// below debug.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "trace":
		return glog.LevelTrace, nil
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", name)
}
