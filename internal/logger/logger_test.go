package logger

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in   string
		want zapcore.Level
		ok   bool
	}{
		{"DEBUG", zap.DebugLevel, true},
		{"INFO", zap.InfoLevel, true},
		{"", zap.InfoLevel, true},
		{"WARNING", zap.WarnLevel, true},
		{"warn", zap.WarnLevel, true},
		{"ERROR", zap.ErrorLevel, true},
		{"CRITICAL", zap.FatalLevel, true},
		{"chatty", zap.InfoLevel, false},
	}
	for _, tc := range cases {
		got, ok := ParseLevel(tc.in)
		assert.Equal(t, tc.want, got, tc.in)
		assert.Equal(t, tc.ok, ok, tc.in)
	}
}

func TestNew_WritesDailyFile(t *testing.T) {
	prev := zap.L()
	t.Cleanup(func() { zap.ReplaceGlobals(prev) })

	dir := t.TempDir()
	log, err := New(dir, "WARNING", false)
	require.NoError(t, err)

	log.Infow("filtered out")
	log.Warnw("kept", "k", "v")
	_ = log.Sync()

	path := filepath.Join(dir, "logs", time.Now().Format("2006-01-02")+".log")
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"msg":"kept"`)
	assert.NotContains(t, string(b), "filtered out")
}
