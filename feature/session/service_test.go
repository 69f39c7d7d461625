package session

import (
	"fmt"
	"testing"

	"camkit/core/timer"
	"camkit/core/tweakdb"
	"camkit/feature/editor"
	"camkit/feature/preset"
	"camkit/feature/resolver"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testProfileIDs = []string{
	"Arch", "Quadra", "Villefort", "Thorton", "Mizutani", "Herrera",
	"Makigai", "Mahir", "Chevalier", "Rayfield", "Kaukaz", "Militech",
}

func writeTestDefaults(t *testing.T, fs billy.Filesystem) {
	t.Helper()
	for _, id := range testProfileIDs {
		src := fmt.Sprintf(`{"id": %q, "close": {"z": 1.0, "distance": 4.0}, "is_default": true}`, id)
		require.NoError(t, util.WriteFile(fs, preset.DefaultsDir+"/"+id+".preset", []byte(src), 0o644))
	}
}

func newTestService(t *testing.T) (*Service, *tweakdb.Memory, billy.Filesystem) {
	t.Helper()
	fs := memfs.New()
	writeTestDefaults(t, fs)

	cfg := preset.Config{Root: "/", Extension: ".preset", MinDefaults: 12, UsageFile: "usage.json"}
	logger := zap.NewNop()
	usage := preset.NewUsageTracker(fs, cfg.UsageFile, logger)
	store := preset.NewStore(fs, cfg, usage, logger)
	tweaks := tweakdb.NewMemory()
	res := resolver.New(tweaks, logger)
	applier := preset.NewApplier(store, tweaks, res, usage,
		preset.BiasConfig{CombatZ: 0.35, CombatDistance: 0.5}, logger)
	ed := editor.NewMachine(store, applier, res, tweaks, logger)
	options := NewOptions(fs, "options.json", logger)

	svc := NewService(Config{Enabled: true, OptionsFile: "options.json"},
		store, usage, applier, res, ed, timer.NewScheduler(), options, logger)
	return svc, tweaks, fs
}

func mountQuadra(t *testing.T, svc *Service, tweaks *tweakdb.Memory) {
	t.Helper()
	tweaks.Set("Vehicle.v_q.tppCameraPresets", []string{"Camera.VehicleTPP_Quadra_High_Close"})
	require.NoError(t, svc.Mount("Quadra", "", "Vehicle.v_q"))
}

func TestStartSeedsBaselines(t *testing.T) {
	svc, tweaks, _ := newTestService(t)
	require.NoError(t, svc.Start())

	assert.True(t, svc.Enabled())
	v, ok := tweaks.Get("Camera.VehicleTPP_Quadra_High_Close.z")
	require.True(t, ok)
	assert.Equal(t, 1.0, v)
}

func TestStartHonorsOptionsFile(t *testing.T) {
	svc, _, fs := newTestService(t)
	require.NoError(t, util.WriteFile(fs, "options.json",
		[]byte(`{"enabled": {"value": false}}`), 0o644))

	require.NoError(t, svc.Start())
	assert.False(t, svc.Enabled())
}

func TestStartDisablesOnIncompleteBaselines(t *testing.T) {
	fs := memfs.New()
	cfg := preset.Config{Root: "/", Extension: ".preset", MinDefaults: 12, UsageFile: "usage.json"}
	logger := zap.NewNop()
	usage := preset.NewUsageTracker(fs, cfg.UsageFile, logger)
	store := preset.NewStore(fs, cfg, usage, logger)
	tweaks := tweakdb.NewMemory()
	res := resolver.New(tweaks, logger)
	applier := preset.NewApplier(store, tweaks, res, usage, preset.BiasConfig{}, logger)
	ed := editor.NewMachine(store, applier, res, tweaks, logger)
	svc := NewService(Config{Enabled: true}, store, usage, applier, res, ed,
		timer.NewScheduler(), NewOptions(fs, "options.json", logger), logger)

	require.ErrorIs(t, svc.Start(), preset.ErrIntegrity)
	assert.False(t, svc.Enabled())
	assert.ErrorIs(t, svc.SetEnabled(true), preset.ErrDisabled)
}

func TestMountAppliesAndIsIdempotent(t *testing.T) {
	svc, tweaks, _ := newTestService(t)
	require.NoError(t, svc.Start())
	tweaks.Set("Vehicle.v_q.tppCameraPresets", []string{"Camera.VehicleTPP_Quadra_High_Close"})

	// A user override for the mounted vehicle.
	p := &preset.Preset{ID: "Quadra", Close: &preset.OffsetData{Distance: preset.Float(5.5)}}
	require.NoError(t, svc.store.Set("Quadra_Type66", p))

	require.NoError(t, svc.Mount("Quadra_Type66", "", "Vehicle.v_q"))
	v, _ := tweaks.Get("Camera.VehicleTPP_Quadra_High_Close.distance")
	assert.Equal(t, 5.5, v)

	// Duplicate delivery of the same mount event is absorbed.
	require.NoError(t, svc.Mount("Quadra_Type66", "", "Vehicle.v_q"))
	st := svc.CurrentStatus()
	assert.True(t, st.Mounted)
	assert.Equal(t, "Vehicle.v_q", st.Record)
}

func TestMountRequiresRecord(t *testing.T) {
	svc, _, _ := newTestService(t)
	require.NoError(t, svc.Start())
	assert.ErrorIs(t, svc.Mount("Quadra", "", ""), ErrNoContext)
}

func TestUnmountRestoresTouchedProfiles(t *testing.T) {
	svc, tweaks, fs := newTestService(t)
	require.NoError(t, svc.Start())
	tweaks.Set("Vehicle.v_q.tppCameraPresets", []string{"Camera.VehicleTPP_Quadra_High_Close"})
	p := &preset.Preset{ID: "Quadra", Close: &preset.OffsetData{Distance: preset.Float(5.5)}}
	require.NoError(t, svc.store.Set("Quadra_Type66", p))

	require.NoError(t, svc.Mount("Quadra_Type66", "", "Vehicle.v_q"))
	svc.Unmount()

	v, _ := tweaks.Get("Camera.VehicleTPP_Quadra_High_Close.distance")
	assert.Equal(t, 4.0, v, "unmount must put the baseline back")
	assert.False(t, svc.CurrentStatus().Mounted)

	// Usage counters were flushed on the way out.
	_, err := fs.Stat("usage.json")
	assert.NoError(t, err)
}

func TestSetEnabledToggle(t *testing.T) {
	svc, tweaks, _ := newTestService(t)
	require.NoError(t, svc.Start())
	mountQuadra(t, svc, tweaks)

	tweaks.Set("Camera.VehicleTPP_Quadra_High_Close.distance", 9.9)
	require.NoError(t, svc.SetEnabled(false))
	v, _ := tweaks.Get("Camera.VehicleTPP_Quadra_High_Close.distance")
	assert.Equal(t, 4.0, v, "disabling restores every baseline")

	require.NoError(t, svc.SetEnabled(true))
	assert.True(t, svc.Enabled())
}

func TestFrameFlushesUsagePeriodically(t *testing.T) {
	svc, tweaks, fs := newTestService(t)
	require.NoError(t, svc.Start())
	mountQuadra(t, svc, tweaks)

	svc.Frame(usageFlushSeconds - 1)
	_, err := fs.Stat("usage.json")
	assert.Error(t, err, "flush must not fire before the interval elapses")

	svc.Frame(2)
	_, err = fs.Stat("usage.json")
	assert.NoError(t, err)
}

func TestReloadAllPicksUpNewFiles(t *testing.T) {
	svc, _, fs := newTestService(t)
	require.NoError(t, svc.Start())

	src := `{"id": "Quadra", "close": {"distance": 7.0}}`
	require.NoError(t, util.WriteFile(fs, preset.PresetsDir+"/Quadra_New.preset", []byte(src), 0o644))

	stats, err := svc.ReloadAll()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Presets)
}

func TestDeletePreset(t *testing.T) {
	svc, _, _ := newTestService(t)
	require.NoError(t, svc.Start())

	p := &preset.Preset{ID: "Quadra", Close: &preset.OffsetData{Distance: preset.Float(5.5)}}
	require.NoError(t, svc.store.SaveFile("Quadra_X", p, false))

	require.NoError(t, svc.DeletePreset("Quadra_X"))
	assert.False(t, svc.store.FileExists("Quadra_X"))
	_, ok := svc.store.Get("Quadra_X")
	assert.False(t, ok)
}

func TestListIncludesUsage(t *testing.T) {
	svc, tweaks, _ := newTestService(t)
	require.NoError(t, svc.Start())
	mountQuadra(t, svc, tweaks)

	var found bool
	for _, info := range svc.List() {
		if info.Key == "Quadra" {
			found = true
			require.NotNil(t, info.Usage)
			assert.Equal(t, 1, info.Usage.Total)
		}
	}
	assert.True(t, found)
}
