package logger

import (
	"sync"
	"time"

	"go.uber.org/zap/zapcore"
)

// dedupCore drops log entries whose (level, message) pair was already emitted
// within the cooldown window. Per-frame re-evaluation of the same fault
// condition would otherwise flood the log.
type dedupCore struct {
	zapcore.Core

	window time.Duration
	now    func() time.Time
	state  *dedupState
}

// dedupState is shared across With branches; the cooldown is keyed by message
// content, not by logger instance.
type dedupState struct {
	mu   sync.Mutex
	seen map[dedupKey]time.Time
}

type dedupKey struct {
	level   zapcore.Level
	message string
}

// maxSeenEntries bounds the dedup map; when exceeded, expired entries are
// swept before new ones are admitted.
const maxSeenEntries = 1024

// NewDedupCore wraps core so repeated messages inside window are dropped.
func NewDedupCore(core zapcore.Core, window time.Duration) zapcore.Core {
	return &dedupCore{
		Core:   core,
		window: window,
		now:    time.Now,
		state:  &dedupState{seen: make(map[dedupKey]time.Time)},
	}
}

func (c *dedupCore) With(fields []zapcore.Field) zapcore.Core {
	return &dedupCore{
		Core:   c.Core.With(fields),
		window: c.window,
		now:    c.now,
		state:  c.state,
	}
}

func (c *dedupCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if !c.Enabled(ent.Level) {
		return ce
	}
	if c.suppress(ent) {
		return ce
	}
	return ce.AddCore(ent, c)
}

func (c *dedupCore) suppress(ent zapcore.Entry) bool {
	key := dedupKey{level: ent.Level, message: ent.Message}
	now := c.now()

	c.state.mu.Lock()
	defer c.state.mu.Unlock()

	if last, ok := c.state.seen[key]; ok && now.Sub(last) < c.window {
		return true
	}
	if len(c.state.seen) >= maxSeenEntries {
		for k, t := range c.state.seen {
			if now.Sub(t) >= c.window {
				delete(c.state.seen, k)
			}
		}
	}
	c.state.seen[key] = now
	return false
}
