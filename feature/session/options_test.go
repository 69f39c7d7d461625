package session

import (
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestOptionsSaveLoadRoundTrip(t *testing.T) {
	fs := memfs.New()
	o := NewOptions(fs, "options.json", zap.NewNop())
	o.Set("enabled", false)
	o.Set("log_level", "debug")
	require.NoError(t, o.Save())

	reloaded := NewOptions(fs, "options.json", zap.NewNop())
	reloaded.Load()
	assert.False(t, reloaded.Bool("enabled", true))
	assert.Equal(t, "debug", reloaded.String("log_level", "info"))
	assert.Equal(t, []string{"enabled", "log_level"}, reloaded.Names())
}

func TestOptionsLoadFallsBackToBackup(t *testing.T) {
	fs := memfs.New()
	o := NewOptions(fs, "options.json", zap.NewNop())
	o.Set("enabled", false)
	require.NoError(t, o.Save())
	require.NoError(t, o.Save())

	require.NoError(t, util.WriteFile(fs, "options.json", []byte("{bad"), 0o644))

	reloaded := NewOptions(fs, "options.json", zap.NewNop())
	reloaded.Load()
	assert.False(t, reloaded.Bool("enabled", true))
}

func TestOptionsDefaultsWhenAbsent(t *testing.T) {
	o := NewOptions(memfs.New(), "options.json", zap.NewNop())
	o.Load()
	assert.True(t, o.Bool("enabled", true))
	assert.Equal(t, "info", o.String("log_level", "info"))
	_, ok := o.Get("enabled")
	assert.False(t, ok)
}
