/******************************************************************************
 * Copyright (c) 2024-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package ulogger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// rotateLogs renames the log file once the date changes and prunes old files.
// The caller holds u.mu.
func (u *UEMLogger) rotateLogs() error {
	if u.logfile == "" || u.fileHandle == nil {
		return nil
	}

	currentDate := u.now().Format("20060102")
	if u.currentLogDate == currentDate {
		return nil
	}

	previousLogDate := u.currentLogDate

	_ = u.fileHandle.Sync()
	_ = u.fileHandle.Close()
	u.fileHandle = nil

	if err := os.Rename(u.logfile, fmt.Sprintf("%s-%s", u.logfile, previousLogDate)); err != nil {
		u.logStdout = true
		return fmt.Errorf("failed to rotate log file: %w", err)
	}

	fh, err := os.OpenFile(u.logfile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		u.logStdout = true
		return fmt.Errorf("failed to open new log file after rotating: %w", err)
	}
	u.fileHandle = fh
	u.currentLogDate = currentDate

	if err = u.deleteOldLogs(); err != nil {
		return fmt.Errorf("failed to delete old log files: %w", err)
	}
	return nil
}

// deleteOldLogs deletes rotated log files older than retainDays
func (u *UEMLogger) deleteOldLogs() error {
	if u.retainDays <= 1 {
		return nil
	}

	cutoffDate := u.now().AddDate(0, 0, -u.retainDays).Format("20060102")
	logDir := filepath.Dir(u.logfile)
	prefix := filepath.Base(u.logfile) + "-"

	files, err := os.ReadDir(logDir)
	if err != nil {
		return fmt.Errorf("failed to read log directory: %w", err)
	}

	for _, file := range files {
		name := file.Name()
		if file.IsDir() || !strings.HasPrefix(name, prefix) || len(name) < len(prefix)+8 {
			continue
		}
		if name[len(prefix):len(prefix)+8] < cutoffDate {
			if err = os.Remove(filepath.Join(logDir, name)); err != nil {
				return fmt.Errorf("failed to delete old log file: %w", err)
			}
		}
	}
	return nil
}
