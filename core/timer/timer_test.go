package timer_test

import (
	"testing"

	"camkit/core/timer"

	"github.com/stretchr/testify/assert"
)

func TestScheduler_FireAndReset(t *testing.T) {
	s := timer.NewScheduler()

	fired := 0
	s.Register("poll", 1.0, func() { fired++ })

	s.Tick(0.4)
	assert.Equal(t, 0, fired)

	s.Tick(0.7)
	assert.Equal(t, 1, fired)

	// Interval resets after firing; another 0.5s is not enough.
	s.Tick(0.5)
	assert.Equal(t, 1, fired)

	s.Tick(0.6)
	assert.Equal(t, 2, fired)
}

func TestScheduler_Cancel(t *testing.T) {
	s := timer.NewScheduler()

	fired := 0
	s.Register("poll", 1.0, func() { fired++ })
	assert.True(t, s.Active("poll"))

	s.Cancel("poll")
	assert.False(t, s.Active("poll"))

	s.Tick(5.0)
	assert.Equal(t, 0, fired)

	// Cancelling an unknown id is a no-op.
	s.Cancel("missing")
}

func TestScheduler_CancelFromCallback(t *testing.T) {
	s := timer.NewScheduler()

	var order []string
	s.Register("a", 1.0, func() {
		order = append(order, "a")
		s.Cancel("b")
	})
	s.Register("b", 1.0, func() {
		order = append(order, "b")
	})

	s.Tick(1.0)
	assert.Equal(t, []string{"a"}, order)

	s.Tick(1.0)
	assert.Equal(t, []string{"a", "a"}, order)
}

func TestScheduler_ReplaceResets(t *testing.T) {
	s := timer.NewScheduler()

	fired := 0
	s.Register("poll", 1.0, func() { fired++ })
	s.Tick(0.9)

	// Re-registering replaces the pending countdown.
	s.Register("poll", 1.0, func() { fired++ })
	s.Tick(0.2)
	assert.Equal(t, 0, fired)

	s.Tick(0.8)
	assert.Equal(t, 1, fired)
}

func TestScheduler_IgnoresInvalidRegistration(t *testing.T) {
	s := timer.NewScheduler()
	s.Register("bad", 0, func() {})
	s.Register("nilfn", 1.0, nil)
	assert.False(t, s.Active("bad"))
	assert.False(t, s.Active("nilfn"))
}
