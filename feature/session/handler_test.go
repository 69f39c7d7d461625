package session

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"camkit/core/tweakdb"
	"camkit/feature/preset"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestApp(t *testing.T) (*fiber.App, *Service, *tweakdb.Memory) {
	t.Helper()
	svc, tweaks, _ := newTestService(t)
	require.NoError(t, svc.Start())

	app := fiber.New()
	feature := NewFeature(svc)
	require.NoError(t, feature.Load(app))
	return app, svc, tweaks
}

func TestHandleListPresets(t *testing.T) {
	app, _, _ := setupTestApp(t)

	req := httptest.NewRequest("GET", "/presets/", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body []FileInfo
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Len(t, body, 12)
}

func TestHandleMountAndStatus(t *testing.T) {
	app, _, tweaks := setupTestApp(t)
	tweaks.Set("Vehicle.v_q.tppCameraPresets", []string{"Camera.VehicleTPP_Quadra_High_Close"})

	req := httptest.NewRequest("POST", "/session/mount",
		strings.NewReader(`{"name": "Quadra", "record_id": "Vehicle.v_q"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/session/status", nil))
	require.NoError(t, err)
	var st Status
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&st))
	assert.True(t, st.Mounted)
	assert.Equal(t, "Vehicle.v_q", st.Record)
}

func TestHandleMountWithoutRecord(t *testing.T) {
	app, _, _ := setupTestApp(t)

	req := httptest.NewRequest("POST", "/session/mount", strings.NewReader(`{"name": "Quadra"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestHandleFrameAndUnmount(t *testing.T) {
	app, svc, tweaks := setupTestApp(t)
	tweaks.Set("Vehicle.v_q.tppCameraPresets", []string{"Camera.VehicleTPP_Quadra_High_Close"})
	require.NoError(t, svc.Mount("Quadra", "", "Vehicle.v_q"))

	req := httptest.NewRequest("POST", "/session/frame", strings.NewReader(`{"elapsed": 0.033}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 204, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("POST", "/session/unmount", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.False(t, svc.CurrentStatus().Mounted)
}

func TestHandleEnabledToggle(t *testing.T) {
	app, svc, _ := setupTestApp(t)
	require.NoError(t, svc.SetEnabled(false))

	req := httptest.NewRequest("POST", "/session/enabled", strings.NewReader(`{"enabled": true}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.True(t, svc.Enabled())
}

func TestHandleReload(t *testing.T) {
	app, _, _ := setupTestApp(t)

	resp, err := app.Test(httptest.NewRequest("POST", "/presets/reload", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestHandleEditorFlow(t *testing.T) {
	app, _, tweaks := setupTestApp(t)
	tweaks.Set("Vehicle.v_q.tppCameraPresets", []string{"Camera.VehicleTPP_Quadra_High_Close"})

	resp, err := app.Test(httptest.NewRequest("GET", "/editor/Quadra_Type66?record=Vehicle.v_q", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	req := httptest.NewRequest("POST", "/editor/Quadra_Type66",
		strings.NewReader(`{"tier": "Close", "field": "distance", "value": 5.5}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 204, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("POST", "/editor/Quadra_Type66/apply", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	v, ok := tweaks.Get("Camera.VehicleTPP_Quadra_High_Close.distance")
	require.True(t, ok)
	assert.Equal(t, 5.5, v)

	resp, err = app.Test(httptest.NewRequest("POST", "/editor/Quadra_Type66/save", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("DELETE", "/editor/Quadra_Type66", nil))
	require.NoError(t, err)
	var out map[string]bool
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.False(t, out["evicted"], "a saved override keeps its bundle alive")
}

func TestHandleDeletePreset(t *testing.T) {
	app, svc, _ := setupTestApp(t)
	p := &preset.Preset{ID: "Quadra", Close: &preset.OffsetData{Distance: preset.Float(5.5)}}
	require.NoError(t, svc.store.SaveFile("Quadra_X", p, false))

	resp, err := app.Test(httptest.NewRequest("DELETE", "/presets/Quadra_X", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.False(t, svc.store.FileExists("Quadra_X"))
}
