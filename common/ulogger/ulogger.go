/******************************************************************************
 * Copyright (c) 2024-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

// Package ulogger implements interfaces.Logger with output to a daily
// rotated log file and/or a console writer.
package ulogger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/UnifyEM/uemauth/common/interfaces"
)

// This package implements interfaces.Logger
var _ interfaces.Logger = (*UEMLogger)(nil)

// Option is a function that configures a UEMLogger
type Option func(*UEMLogger) error

// UEMLogger writes event-numbered log lines. It is safe for concurrent use.
type UEMLogger struct {
	mu             sync.Mutex
	fileHandle     *os.File
	logfile        string
	console        io.Writer
	logStdout      bool
	debug          bool
	prefix         string
	retainDays     int
	currentLogDate string
	now            func() time.Time
}

// New creates a new instance of UEMLogger with the provided options
func New(options ...Option) (*UEMLogger, error) {
	u := &UEMLogger{retainDays: 30, console: os.Stdout, now: time.Now}

	for _, option := range options {
		if err := option(u); err != nil {
			return nil, err
		}
	}

	if err := u.open(); err != nil {
		return nil, err
	}
	return u, nil
}

// WithPrefix sets a process name or similar short identifier
func WithPrefix(prefix string) Option {
	return func(u *UEMLogger) error {
		u.prefix = prefix
		return nil
	}
}

// WithLogFile sets the log file for the UEMLogger
func WithLogFile(logfile string) Option {
	return func(u *UEMLogger) error {
		u.logfile = logfile
		return nil
	}
}

// WithLogStdout enables or disables logging to the console writer
func WithLogStdout(logStdout bool) Option {
	return func(u *UEMLogger) error {
		u.logStdout = logStdout
		return nil
	}
}

// WithConsole replaces stdout as the console writer
func WithConsole(w io.Writer) Option {
	return func(u *UEMLogger) error {
		if w == nil {
			return fmt.Errorf("console writer is nil")
		}
		u.console = w
		return nil
	}
}

// WithDebug enables or disables debug logging
func WithDebug(debug bool) Option {
	return func(u *UEMLogger) error {
		u.debug = debug
		return nil
	}
}

// WithRetention sets the number of days to retain logs
func WithRetention(retainDays int) Option {
	return func(u *UEMLogger) error {
		u.retainDays = retainDays
		return nil
	}
}

// open prepares the log file. Without a usable file, console logging is forced on.
func (u *UEMLogger) open() error {
	if u.logfile == "" {
		u.logStdout = true
		return nil
	}

	u.logfile = filepath.Clean(u.logfile)
	if err := os.MkdirAll(filepath.Dir(u.logfile), 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	// An existing file keeps its own date so that rotation names it correctly
	if info, err := os.Stat(u.logfile); err == nil {
		u.currentLogDate = info.ModTime().Format("20060102")
	} else {
		u.currentLogDate = u.now().Format("20060102")
	}

	fh, err := os.OpenFile(u.logfile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		u.fileHandle = nil
		u.logStdout = true
		return nil
	}
	u.fileHandle = fh
	return nil
}

// Close closes the logger.
func (u *UEMLogger) Close() {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.fileHandle != nil {
		_ = u.fileHandle.Sync()
		_ = u.fileHandle.Close()
		u.fileHandle = nil
	}
}

func (u *UEMLogger) formatMessage(eid uint32, level string, message string, fields interfaces.Fields) string {
	msg := fmt.Sprintf("%s %s [%s] %04d %s",
		u.now().Format("2006-01-02 15:04:05"),
		u.prefix, level, eid, message)

	if fields != nil {
		if text := fields.ToText(); text != "" {
			msg += ": " + text
		}
	}
	return msg
}

func (u *UEMLogger) writeLog(eid uint32, level string, message string, fields interfaces.Fields) {
	if level == "DEBUG" && !u.debug {
		return
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	if err := u.rotateLogs(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "log rotation error: %s\n", err.Error())
	}

	line := u.formatMessage(eid, level, message, fields) + "\n"

	if u.fileHandle != nil {
		_, _ = u.fileHandle.WriteString(line)
	}

	if u.logStdout {
		_, _ = io.WriteString(u.console, line)
	}
}

func (u *UEMLogger) Debug(eid uint32, message string, fields interfaces.Fields) {
	u.writeLog(eid, "DEBUG", message, fields)
}

func (u *UEMLogger) Info(eid uint32, message string, fields interfaces.Fields) {
	u.writeLog(eid, "INFO", message, fields)
}

func (u *UEMLogger) Warning(eid uint32, message string, fields interfaces.Fields) {
	u.writeLog(eid, "WARNING", message, fields)
}

func (u *UEMLogger) Error(eid uint32, message string, fields interfaces.Fields) {
	u.writeLog(eid, "ERROR", message, fields)
}

func (u *UEMLogger) Fatal(eid uint32, message string, fields interfaces.Fields) {
	u.writeLog(eid, "FATAL", message, fields)
}

func (u *UEMLogger) Debugf(eid uint32, format string, v ...any) {
	u.writeLog(eid, "DEBUG", fmt.Sprintf(format, v...), nil)
}

func (u *UEMLogger) Infof(eid uint32, format string, v ...any) {
	u.writeLog(eid, "INFO", fmt.Sprintf(format, v...), nil)
}

func (u *UEMLogger) Warningf(eid uint32, format string, v ...any) {
	u.writeLog(eid, "WARNING", fmt.Sprintf(format, v...), nil)
}

func (u *UEMLogger) Errorf(eid uint32, format string, v ...any) {
	u.writeLog(eid, "ERROR", fmt.Sprintf(format, v...), nil)
}

func (u *UEMLogger) Fatalf(eid uint32, format string, v ...any) {
	u.writeLog(eid, "FATAL", fmt.Sprintf(format, v...), nil)
}
