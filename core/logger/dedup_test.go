package logger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newObservedDedupLogger(window time.Duration, now *time.Time) (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zap.DebugLevel)
	dc := NewDedupCore(core, window).(*dedupCore)
	dc.now = func() time.Time { return *now }
	return zap.New(dc), logs
}

func TestDedupCore_DropsRepeatsInsideWindow(t *testing.T) {
	now := time.Now()
	log, logs := newObservedDedupLogger(5*time.Second, &now)

	log.Warn("binding keys not found")
	log.Warn("binding keys not found")
	log.Warn("binding keys not found")

	assert.Equal(t, 1, logs.Len())
}

func TestDedupCore_AllowsAfterCooldown(t *testing.T) {
	now := time.Now()
	log, logs := newObservedDedupLogger(5*time.Second, &now)

	log.Warn("binding keys not found")
	now = now.Add(6 * time.Second)
	log.Warn("binding keys not found")

	assert.Equal(t, 2, logs.Len())
}

func TestDedupCore_KeyedByLevelAndMessage(t *testing.T) {
	now := time.Now()
	log, logs := newObservedDedupLogger(5*time.Second, &now)

	log.Warn("binding keys not found")
	log.Error("binding keys not found")
	log.Warn("preset file invalid")

	assert.Equal(t, 3, logs.Len())
}

func TestDedupCore_SharedAcrossWith(t *testing.T) {
	now := time.Now()
	log, logs := newObservedDedupLogger(5*time.Second, &now)

	log.With(zap.String("vehicle", "car_red")).Warn("binding keys not found")
	log.With(zap.String("vehicle", "car_blue")).Warn("binding keys not found")

	// Cooldown is keyed by message content, not logger branch.
	assert.Equal(t, 1, logs.Len())
}
