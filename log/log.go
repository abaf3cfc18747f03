package log

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/sirupsen/logrus"
)

// Verbose controls whether debug messages are being printed on the console.
var Verbose bool

// IndentationLevel controls the amount of indentation of log messages.
var IndentationLevel = 0

// Spinner is shown on the console while long-running external tools execute.
var Spinner = spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))

var errorOccured = false

const (
	indentKey = "indent"
	tagKey    = "tag"
)

const (
	tagDebug    = "Debug"
	tagSuccess  = "Success"
	tagWarning  = "Warning"
	tagError    = "Error"
	tagCritical = "Critical"
)

var logger = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	l.SetLevel(logrus.TraceLevel)
	l.AddHook(consoleHook)
	return l
}

func emit(level logrus.Level, tag string, format string, a ...interface{}) {
	logger.WithFields(logrus.Fields{
		indentKey: IndentationLevel,
		tagKey:    tag,
	}).Logf(level, format, a...)
}

// ErrorOccured reports whether any errors have occured.
func ErrorOccured() bool {
	return errorOccured
}

// Log prints an indented and formatted message.
func Log(format string, a ...interface{}) {
	emit(logrus.InfoLevel, "", format, a...)
}

// Info is an alias of Log kept for symmetry with the channel levels.
func Info(format string, a ...interface{}) {
	emit(logrus.InfoLevel, "", format, a...)
}

// Debug prints an indented and formatted debug message.
func Debug(format string, a ...interface{}) {
	emit(logrus.DebugLevel, tagDebug, format, a...)
}

// Success prints an indented and formatted success message.
func Success(format string, a ...interface{}) {
	emit(logrus.InfoLevel, tagSuccess, format, a...)
}

// Warning prints an indented and formatted warning.
func Warning(format string, a ...interface{}) {
	emit(logrus.WarnLevel, tagWarning, format, a...)
}

// Error prints an indented and formatted error message.
func Error(format string, a ...interface{}) {
	errorOccured = true
	emit(logrus.ErrorLevel, tagError, format, a...)
}

// Critical prints an error message that aborts the current build.
func Critical(format string, a ...interface{}) {
	errorOccured = true
	emit(logrus.ErrorLevel, tagCritical, format, a...)
}

// Fatal prints an indented and formatted error message and terminates the program.
func Fatal(format string, a ...interface{}) {
	Error(format, a...)
	fmt.Fprintf(os.Stderr, "\033[31mA fatal error occured. Exiting...\033[0m\n")
	Close()
	os.Exit(1)
}

// Writer returns a writer whose lines are logged at the given level on every channel.
// The caller must close it.
func Writer(level Level) *io.PipeWriter {
	return logger.WithField(indentKey, IndentationLevel).WriterLevel(level)
}
