package ulogger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/UnifyEM/uemauth/common/fields"
)

func TestConsoleOutput(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(WithPrefix("test"), WithConsole(&buf))
	require.NoError(t, err)

	l.Info(8101, "refresh succeeded", fields.NewFields(fields.NewField("method", "GET")))
	l.Debugf(8102, "hidden %d", 1)
	l.Warningf(8103, "status %d", 401)

	out := buf.String()
	assert.Contains(t, out, "test [INFO] 8101 refresh succeeded: method=GET")
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "[WARNING] 8103 status 401")
}

func TestDebugEnabled(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(WithConsole(&buf), WithDebug(true))
	require.NoError(t, err)

	l.Debug(1, "visible", nil)
	assert.Contains(t, buf.String(), "[DEBUG] 0001 visible")
}

func TestLogFileRotation(t *testing.T) {
	dir := t.TempDir()
	logfile := filepath.Join(dir, "logs", "uemauth.log")

	day := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	l, err := New(WithLogFile(logfile), WithRetention(0))
	require.NoError(t, err)
	defer l.Close()

	l.now = func() time.Time { return day }
	l.currentLogDate = day.Format("20060102")
	l.Info(1, "first day", nil)

	day = day.AddDate(0, 0, 1)
	l.Info(2, "second day", nil)

	rotated, err := os.ReadFile(logfile + "-20260301")
	require.NoError(t, err)
	assert.Contains(t, string(rotated), "first day")

	current, err := os.ReadFile(logfile)
	require.NoError(t, err)
	assert.Contains(t, string(current), "second day")
	assert.NotContains(t, string(current), "first day")
}
