// Package logging provides the pipeline's rotating file logger.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Options controls logger construction.
type Options struct {
	// Filename is the log file path. Empty means log output is discarded
	// (useful in tests).
	Filename string
	// Stdout mirrors process-step messages to standard output.
	Stdout bool
}

// Logger is the pipeline logger. All validation activity goes to the log
// file; process steps optionally echo to stdout.
type Logger struct {
	logger *log.Logger
	stdout bool
	closer io.Closer
}

// New creates a logger. When a filename is configured the file rotates at
// 15 MB with three compressed backups kept for 28 days.
func New(opts Options) *Logger {
	if opts.Filename == "" {
		return &Logger{logger: log.New(io.Discard, "", 0), stdout: opts.Stdout}
	}
	logFile := &lumberjack.Logger{
		Filename:   opts.Filename,
		MaxSize:    15, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}
	return &Logger{
		logger: log.New(logFile, "", log.LstdFlags),
		stdout: opts.Stdout,
		closer: logFile,
	}
}

// Close releases the underlying log file.
func (l *Logger) Close() error {
	if l.closer != nil {
		return l.closer.Close()
	}
	return nil
}

// Log writes a general message to the log file.
func (l *Logger) Log(message string) {
	l.logger.Print(message)
}

// Logf writes a formatted general message to the log file.
func (l *Logger) Logf(format string, v ...any) {
	l.logger.Printf(format, v...)
}

// LogError writes an error to the log file.
func (l *Logger) LogError(err error) {
	l.logger.Printf("Error: %s", err)
}

// LogProcessStep logs the current step in the pipeline and echoes it to
// stdout when enabled.
func (l *Logger) LogProcessStep(step string) {
	l.logger.Printf("Process Step: %s", step)
	if l.stdout {
		fmt.Fprintln(os.Stdout, step)
	}
}
