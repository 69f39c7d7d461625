package preset

import (
	"testing"
	"time"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestUsageBumpTracksFirstAndLast(t *testing.T) {
	u := NewUsageTracker(memfs.New(), "usage.json", zap.NewNop())
	clock := time.Unix(1000, 0)
	u.now = func() time.Time { return clock }

	u.Bump("Quadra_Type66")
	clock = time.Unix(2000, 0)
	u.Bump("Quadra_Type66")

	rec, ok := u.Get("Quadra_Type66")
	require.True(t, ok)
	assert.Equal(t, int64(1000), rec.First)
	assert.Equal(t, int64(2000), rec.Last)
	assert.Equal(t, 2, rec.Total)
}

func TestUsageSaveLoadRoundTrip(t *testing.T) {
	fs := memfs.New()
	u := NewUsageTracker(fs, "usage.json", zap.NewNop())
	u.Bump("Arch")
	u.Bump("Quadra")
	require.NoError(t, u.Save())

	reloaded := NewUsageTracker(fs, "usage.json", zap.NewNop())
	reloaded.Load()
	assert.Equal(t, []string{"Arch", "Quadra"}, reloaded.Keys())
}

func TestUsageLoadFallsBackToBackup(t *testing.T) {
	fs := memfs.New()
	u := NewUsageTracker(fs, "usage.json", zap.NewNop())
	u.Bump("Arch")
	require.NoError(t, u.Save())
	// A second save rotates the good copy to .bak.
	require.NoError(t, u.Save())

	require.NoError(t, util.WriteFile(fs, "usage.json", []byte("{corrupt"), 0o644))

	reloaded := NewUsageTracker(fs, "usage.json", zap.NewNop())
	reloaded.Load()
	_, ok := reloaded.Get("Arch")
	assert.True(t, ok, "corrupt primary must fall back to the .bak copy")
}

func TestUsageLoadStartsEmptyWhenBothMissing(t *testing.T) {
	u := NewUsageTracker(memfs.New(), "usage.json", zap.NewNop())
	u.Load()
	assert.Empty(t, u.Keys())
}

func TestUsageRemove(t *testing.T) {
	u := NewUsageTracker(memfs.New(), "usage.json", zap.NewNop())
	u.Bump("Arch")
	u.Remove("Arch")
	_, ok := u.Get("Arch")
	assert.False(t, ok)
}
