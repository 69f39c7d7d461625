package preset

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5"
	"go.uber.org/zap"
)

// Directory layout of the preset hierarchy, scanned in fixed order.
const (
	// DefaultsDir holds the first-party baseline profiles.
	DefaultsDir = "defaults"
	// PresetsDir holds user and third-party override presets.
	PresetsDir = "presets"
)

// Config holds configuration for the preset hierarchy.
type Config struct {
	// Root is the directory containing defaults/ and presets/.
	Root string `mapstructure:"root" default:"./data"`
	// Extension is the preset file extension.
	Extension string `mapstructure:"extension" default:".preset"`
	// MinDefaults is the number of baseline profiles the system ships with.
	// Loading fewer than this disables the system.
	MinDefaults int `mapstructure:"min_defaults" default:"12"`
	// UsageFile is the usage counter file, relative to Root.
	UsageFile string `mapstructure:"usage_file" default:"usage.json"`
}

// LoadStats summarizes one Load pass.
type LoadStats struct {
	// Defaults is the number of baseline profiles in the registry after
	// scanning defaults/.
	Defaults int `json:"defaults"`
	// Presets is the number of override presets loaded from presets/.
	Presets int `json:"presets"`
	// Skipped counts files whose key was already registered.
	Skipped int `json:"skipped"`
	// Invalid counts files that evaluated but violated the record invariant.
	Invalid int `json:"invalid"`
}

// Store is the in-memory preset registry backed by the two-tier hierarchy.
type Store struct {
	fs       billy.Filesystem
	cfg      Config
	logger   *zap.Logger
	usage    *UsageTracker
	presets  map[string]*Preset
	disabled bool
}

// NewStore creates a registry over the given filesystem root.
func NewStore(fs billy.Filesystem, cfg Config, usage *UsageTracker, logger *zap.Logger) *Store {
	return &Store{
		fs:      fs,
		cfg:     cfg,
		logger:  logger,
		usage:   usage,
		presets: make(map[string]*Preset),
	}
}

// Load scans defaults/ then presets/. Keys already present are skipped unless
// force is set, in which case the registry is cleared first. Loading fewer
// baseline profiles than cfg.MinDefaults is an integrity failure: the store
// disables itself and returns ErrIntegrity.
func (s *Store) Load(force bool) (LoadStats, error) {
	if force {
		s.presets = make(map[string]*Preset)
	}

	var stats LoadStats
	s.loadDir(DefaultsDir, &stats)
	stats.Defaults = len(s.presets)
	s.logger.Info("baseline profiles loaded",
		zap.Int("count", stats.Defaults), zap.Int("invalid", stats.Invalid))

	if stats.Defaults < s.cfg.MinDefaults {
		s.disabled = true
		s.logger.Error("baseline profile set incomplete, disabling",
			zap.Int("loaded", stats.Defaults), zap.Int("required", s.cfg.MinDefaults))
		return stats, fmt.Errorf("%w: loaded %d of %d required",
			ErrIntegrity, stats.Defaults, s.cfg.MinDefaults)
	}
	s.disabled = false

	before := len(s.presets)
	s.loadDir(PresetsDir, &stats)
	stats.Presets = len(s.presets) - before
	s.logger.Info("override presets loaded",
		zap.Int("count", stats.Presets), zap.Int("skipped", stats.Skipped))

	return stats, nil
}

func (s *Store) loadDir(dir string, stats *LoadStats) {
	entries, err := s.fs.ReadDir(dir)
	if err != nil {
		s.logger.Warn("preset directory unreadable", zap.String("dir", dir), zap.Error(err))
		return
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), s.cfg.Extension) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		key := strings.TrimSuffix(name, s.cfg.Extension)
		if _, exists := s.presets[key]; exists {
			stats.Skipped++
			continue
		}
		p, err := s.readFile(path.Join(dir, name))
		if err != nil {
			// A broken file never aborts the scan.
			s.logger.Warn("preset file skipped", zap.String("file", name), zap.Error(err))
			continue
		}
		if !p.IsValid() {
			stats.Invalid++
			s.logger.Warn("preset file invalid",
				zap.String("file", name), zap.String("reason", "record invariant violated"))
			continue
		}
		s.presets[key] = p
	}
}

func (s *Store) readFile(fullPath string) (*Preset, error) {
	f, err := s.fs.Open(fullPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	raw, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	return Decode(string(raw))
}

// Disabled reports whether an integrity failure shut the store down.
func (s *Store) Disabled() bool {
	return s.disabled
}

// Get returns the preset registered under key.
func (s *Store) Get(key string) (*Preset, bool) {
	p, ok := s.presets[key]
	return p, ok
}

// Set registers a preset under key, rejecting invalid records.
func (s *Store) Set(key string, p *Preset) error {
	if key == "" || !p.IsValid() {
		return ErrInvalidPreset
	}
	s.presets[key] = p
	return nil
}

// Remove drops the preset and its usage record.
func (s *Store) Remove(key string) {
	delete(s.presets, key)
	s.usage.Remove(key)
}

// Purge clears the whole registry, or only keys sharing prefix when given.
func (s *Store) Purge(prefix string) {
	if prefix == "" {
		s.presets = make(map[string]*Preset)
		return
	}
	for key := range s.presets {
		if strings.HasPrefix(key, prefix) {
			delete(s.presets, key)
		}
	}
}

// Keys returns all registered keys, sorted.
func (s *Store) Keys() []string {
	keys := make([]string, 0, len(s.presets))
	for k := range s.presets {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// DefaultIDs returns the profile ids of all baseline presets, sorted.
func (s *Store) DefaultIDs() []string {
	ids := make([]string, 0)
	for _, p := range s.presets {
		if p.IsDefault && p.ID != "" {
			ids = append(ids, p.ID)
		}
	}
	sort.Strings(ids)
	return ids
}

// DefaultFor returns the baseline preset for a profile id, if any.
func (s *Store) DefaultFor(id string) (*Preset, bool) {
	if id == "" {
		return nil, false
	}
	for _, key := range s.Keys() {
		p := s.presets[key]
		if p.IsDefault && p.ID == id {
			return p, true
		}
	}
	return nil, false
}

// DefaultKeys returns the registry keys of all baseline presets, sorted.
func (s *Store) DefaultKeys() []string {
	keys := make([]string, 0)
	for key, p := range s.presets {
		if p.IsDefault {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}

// FileExists reports whether an override file for key exists on disk.
func (s *Store) FileExists(key string) bool {
	_, err := s.fs.Stat(s.overridePath(key))
	return err == nil
}

// SaveFile writes the preset to disk and registers it. Override files carry
// only the fields differing from the profile's baseline; defaults carry all
// populated fields plus the is_default flag.
func (s *Store) SaveFile(key string, p *Preset, asDefault bool) error {
	if err := s.Set(key, p); err != nil {
		return err
	}

	var fallback *Preset
	if !asDefault {
		fallback, _ = s.DefaultFor(p.ID)
	}
	src := Encode(p, fallback, asDefault)

	dir := PresetsDir
	if asDefault {
		dir = DefaultsDir
	}
	fullPath := path.Join(dir, key+s.cfg.Extension)

	f, err := s.fs.Create(fullPath)
	if err != nil {
		return fmt.Errorf("preset save failed: %w", err)
	}
	defer f.Close()
	if _, err := f.Write([]byte(src)); err != nil {
		return fmt.Errorf("preset save failed: %w", err)
	}
	return nil
}

// DeleteFile removes the override file for key. Missing files are fine; the
// caller may be reverting a preset that was never saved.
func (s *Store) DeleteFile(key string) error {
	err := s.fs.Remove(s.overridePath(key))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (s *Store) overridePath(key string) string {
	return path.Join(PresetsDir, key+s.cfg.Extension)
}
