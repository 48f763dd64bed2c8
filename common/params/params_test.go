package params

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstraints(t *testing.T) {
	p := New("TEST_")
	p.SetConstraint("timeout", 1, 300, 30)
	p.SetConstraint("server", 0, 0, "http://127.0.0.1:8080")

	assert.Equal(t, 30, p.Get("timeout").Int(), "default")

	p.Set("timeout", 60)
	assert.Equal(t, 60, p.Get("timeout").Int())
	assert.Equal(t, time.Minute, p.Get("timeout").Duration(time.Second))

	p.Set("timeout", 9999)
	assert.Equal(t, 30, p.Get("timeout").Int(), "out of range falls back to default")

	p.Set("server", "")
	assert.Equal(t, "http://127.0.0.1:8080", p.Get("server").String())

	assert.Equal(t, Value(""), p.Get("unknown"))
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(file, []byte("TEST_SERVER=http://file:1\nTEST_DEBUG=true\nTEST_KEY=s3cret\n"), 0600))

	p := New("TEST_")
	p.SetConstraint("server", 0, 0, "http://default")
	p.SetConstraint("debug", 0, 0, false)
	p.SetConstraint("key", 0, 0, "")
	p.SetSecret("key")

	t.Setenv("TEST_SERVER", "http://env:2")
	require.NoError(t, p.LoadEnv(filepath.Join(dir, "missing"), file))

	assert.Equal(t, "http://env:2", p.Get("server").String(), "environment wins")
	assert.True(t, p.Get("debug").Bool())
	assert.Equal(t, "s3cret", p.Get("key").String())
	assert.Equal(t, "[redacted]", p.Dump()["key"])
	assert.Equal(t, "TEST_SERVER", p.EnvName("server"))
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, Value(" a, ,b ").SplitList())
	assert.Nil(t, Value("").SplitList())
}
