package session

import (
	"errors"

	"camkit/core/timer"
	"camkit/feature/editor"
	"camkit/feature/preset"
	"camkit/feature/resolver"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ErrNoContext marks operations needing a mounted vehicle when none is.
var ErrNoContext = errors.New("no mounted vehicle")

// usageFlushSeconds is the interval of the periodic usage file flush.
const usageFlushSeconds = 30.0

// Config holds configuration for the session feature.
type Config struct {
	// Enabled is the initial enable state, before the options file merge.
	Enabled bool `mapstructure:"enabled" default:"true"`
	// OptionsFile is the global options file, relative to the preset root.
	OptionsFile string `mapstructure:"options_file" default:"options.json"`
}

// Service drives the camera core through host events.
type Service struct {
	cfg      Config
	store    *preset.Store
	usage    *preset.UsageTracker
	applier  *preset.Applier
	resolver *resolver.Resolver
	editor   *editor.Machine
	timers   *timer.Scheduler
	options  *Options
	logger   *zap.Logger

	level    zap.AtomicLevel
	hasLevel bool

	enabled       bool
	mounted       bool
	mountedRecord string
}

// NewService wires the session over the already-constructed core components.
func NewService(cfg Config, store *preset.Store, usage *preset.UsageTracker, applier *preset.Applier, res *resolver.Resolver, ed *editor.Machine, timers *timer.Scheduler, options *Options, logger *zap.Logger) *Service {
	return &Service{
		cfg:      cfg,
		store:    store,
		usage:    usage,
		applier:  applier,
		resolver: res,
		editor:   ed,
		timers:   timers,
		options:  options,
		logger:   logger,
		enabled:  cfg.Enabled,
	}
}

// SetLevelHandle hands the session the logger's level for runtime adjustment.
func (s *Service) SetLevelHandle(level zap.AtomicLevel) {
	s.level = level
	s.hasLevel = true
}

// Start loads persisted state, seeds the live store with the baseline
// profiles and schedules the periodic usage flush. An incomplete baseline
// set leaves the session disabled but the service running, so the failure
// stays observable.
func (s *Service) Start() error {
	s.usage.Load()
	s.options.Load()
	s.enabled = s.options.Bool("enabled", s.enabled)
	if lvl := s.options.String("log_level", ""); lvl != "" {
		if err := s.SetDebugLevel(lvl); err != nil {
			s.logger.Warn("options file carries a bad log level", zap.String("level", lvl))
		}
	}

	stats, err := s.store.Load(false)
	if err != nil {
		s.enabled = false
		s.logger.Error("preset load failed, session disabled", zap.Error(err))
		return err
	}
	s.logger.Info("presets loaded",
		zap.Int("defaults", stats.Defaults), zap.Int("presets", stats.Presets))

	s.applier.RestoreAll()

	s.timers.Register("usage_flush", usageFlushSeconds, func() {
		if err := s.usage.Save(); err != nil {
			s.logger.Warn("usage flush failed", zap.Error(err))
		}
	})
	return nil
}

// Mount activates a vehicle context. A repeated mount of the same record is
// absorbed; a mount over a different record unmounts it first.
func (s *Service) Mount(name, variant, recordID string) error {
	if recordID == "" {
		return ErrNoContext
	}
	if s.mounted && s.mountedRecord == recordID {
		s.logger.Debug("duplicate mount event absorbed", zap.String("record", recordID))
		return nil
	}
	if s.mounted {
		s.Unmount()
	}

	s.resolver.Invalidate()
	s.applier.SetActive(&preset.ActiveEntity{Name: name, Variant: variant, RecordID: recordID})
	s.mounted = true
	s.mountedRecord = recordID

	if !s.enabled {
		return nil
	}
	if err := s.applier.ApplyAuto(); err != nil && !errors.Is(err, preset.ErrDisabled) {
		return err
	}
	return nil
}

// Unmount restores the profiles touched this session and drops the context.
func (s *Service) Unmount() {
	if !s.mounted {
		return
	}
	s.applier.RestoreModified()
	s.applier.SetActive(nil)
	s.resolver.Invalidate()
	s.mounted = false
	s.mountedRecord = ""

	if err := s.usage.Save(); err != nil {
		s.logger.Warn("usage save on unmount failed", zap.Error(err))
	}
}

// Frame advances the cooperative clock and settles pending editor edits.
func (s *Service) Frame(elapsed float64) {
	s.timers.Tick(elapsed)
	s.editor.RecomputeDirty()
}

// SetEnabled toggles the whole system. Disabling restores every baseline;
// enabling re-applies the mounted vehicle's preset. A store shut down by an
// integrity failure cannot be enabled.
func (s *Service) SetEnabled(on bool) error {
	if on && s.store.Disabled() {
		return preset.ErrDisabled
	}
	if on == s.enabled {
		return nil
	}
	s.enabled = on

	if !on {
		s.applier.RestoreAll()
		return nil
	}
	if s.mounted {
		return s.applier.ApplyAuto()
	}
	return nil
}

// Enabled reports the current enable state.
func (s *Service) Enabled() bool {
	return s.enabled
}

// SetDebugLevel adjusts the logger's level at runtime.
func (s *Service) SetDebugLevel(level string) error {
	parsed, err := zapcore.ParseLevel(level)
	if err != nil {
		return err
	}
	if s.hasLevel {
		s.level.SetLevel(parsed)
	}
	s.logger.Info("log level changed", zap.String("level", level))
	return nil
}

// ReloadAll force-reloads the preset hierarchy and re-seeds the live store.
func (s *Service) ReloadAll() (preset.LoadStats, error) {
	stats, err := s.store.Load(true)
	if err != nil {
		s.enabled = false
		return stats, err
	}
	s.applier.RestoreAll()
	if s.mounted && s.enabled {
		if err := s.applier.ApplyAuto(); err != nil {
			return stats, err
		}
	}
	return stats, nil
}

// DeletePreset removes a preset file and its registry entry.
func (s *Service) DeletePreset(key string) error {
	if err := s.store.DeleteFile(key); err != nil {
		return err
	}
	s.store.Remove(key)
	return nil
}

// FileInfo is one row of the preset listing.
type FileInfo struct {
	Key       string              `json:"key"`
	IsDefault bool                `json:"is_default"`
	OnDisk    bool                `json:"on_disk"`
	Usage     *preset.UsageRecord `json:"usage,omitempty"`
}

// List returns every registered preset with its usage counters.
func (s *Service) List() []FileInfo {
	keys := s.store.Keys()
	out := make([]FileInfo, 0, len(keys))
	for _, key := range keys {
		p, _ := s.store.Get(key)
		info := FileInfo{
			Key:       key,
			IsDefault: p.IsDefault,
			OnDisk:    s.store.FileExists(key),
		}
		if rec, ok := s.usage.Get(key); ok {
			info.Usage = &rec
		}
		out = append(out, info)
	}
	return out
}

// Status is the session status report.
type Status struct {
	Enabled   bool   `json:"enabled"`
	Integrity bool   `json:"integrity"`
	Mounted   bool   `json:"mounted"`
	Record    string `json:"record,omitempty"`
	Presets   int    `json:"presets"`
	Editors   int    `json:"editors"`
}

// CurrentStatus reports the session's externally visible state.
func (s *Service) CurrentStatus() Status {
	return Status{
		Enabled:   s.enabled,
		Integrity: !s.store.Disabled(),
		Mounted:   s.mounted,
		Record:    s.mountedRecord,
		Presets:   len(s.store.Keys()),
		Editors:   len(s.editor.Bundles()),
	}
}

// MountedRecord returns the backing record of the mounted vehicle, if any.
func (s *Service) MountedRecord() (string, bool) {
	return s.mountedRecord, s.mounted
}

// Editor exposes the editor machine for the handler layer.
func (s *Service) Editor() *editor.Machine {
	return s.editor
}
