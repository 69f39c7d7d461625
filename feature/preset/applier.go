package preset

import (
	"fmt"

	"camkit/core/tweakdb"
	"camkit/feature/resolver"

	"go.uber.org/zap"
)

// MaxLinkDepth bounds Link chain resolution.
const MaxLinkDepth = 8

// maxRecent bounds the recently-applied list consumed by RestoreModified.
const maxRecent = 32

// BiasConfig holds the fixed combat sub-level corrections. Combat levels run
// a narrower field of view; pushing the camera up and back compensates.
type BiasConfig struct {
	// CombatZ is added to z on combat sub-levels.
	CombatZ float64 `mapstructure:"combat_z" default:"0.35"`
	// CombatDistance is added to distance on combat sub-levels.
	CombatDistance float64 `mapstructure:"combat_distance" default:"0.5"`
}

// tierConstants are the baked-in last-resort offsets per distance tier, used
// when neither the preset nor the profile baseline sets a field.
type tierOffsets struct {
	angle, x, y, z, distance float64
}

var tierConstants = map[string]tierOffsets{
	resolver.TierClose:  {angle: 0, x: 0, y: -0.1, z: 1.0, distance: 4.0},
	resolver.TierMedium: {angle: 0, x: 0, y: -0.15, z: 1.2, distance: 6.5},
	resolver.TierFar:    {angle: 0, x: 0, y: -0.2, z: 1.4, distance: 9.0},
}

// ActiveEntity describes the currently mounted vehicle.
type ActiveEntity struct {
	// Name is the vehicle's display record name.
	Name string
	// Variant is the appearance variant, may be empty.
	Variant string
	// RecordID is the raw backing record identifier.
	RecordID string
}

// Applier resolves and writes presets into the live tweak store.
type Applier struct {
	store    *Store
	tweaks   tweakdb.Store
	resolver *resolver.Resolver
	usage    *UsageTracker
	logger   *zap.Logger
	bias     BiasConfig

	active  *ActiveEntity
	recent  []string
	backups map[string]any
}

// NewApplier creates an applier over the given registry, tweak store and
// resolver.
func NewApplier(store *Store, tweaks tweakdb.Store, res *resolver.Resolver, usage *UsageTracker, bias BiasConfig, logger *zap.Logger) *Applier {
	return &Applier{
		store:    store,
		tweaks:   tweaks,
		resolver: res,
		usage:    usage,
		logger:   logger,
		bias:     bias,
		backups:  make(map[string]any),
	}
}

// SetActive updates the mounted vehicle context. Pass nil on unmount.
func (a *Applier) SetActive(e *ActiveEntity) {
	a.active = e
}

// Active returns the mounted vehicle context, or nil.
func (a *Applier) Active() *ActiveEntity {
	return a.active
}

// Recent returns the keys applied since the last restore, oldest first.
func (a *Applier) Recent() []string {
	return append([]string(nil), a.recent...)
}

// ApplyAuto resolves and applies the preset matching the mounted vehicle.
// Without a mounted vehicle or a matching preset it is a silent no-op.
func (a *Applier) ApplyAuto() error {
	if a.store.Disabled() {
		return ErrDisabled
	}
	if a.active == nil {
		a.logger.Debug("apply skipped, no mounted vehicle")
		return nil
	}

	key, p := a.bestMatch(a.active.Name, a.active.Variant)
	if p == nil {
		a.logger.Debug("no preset matches mounted vehicle",
			zap.String("name", a.active.Name), zap.String("variant", a.active.Variant))
		return nil
	}

	// Guards against stale cached lookups: the preset must belong to the
	// profile the resolver derived for this record.
	expectedID, err := a.resolver.ProfileID(a.active.RecordID, a.store.DefaultIDs())
	if err != nil {
		expectedID = ""
	}

	if err := a.Apply(p, expectedID); err != nil {
		return err
	}

	a.markRecent(key)
	a.usage.Bump(key)
	return nil
}

// bestMatch picks the registry key for a vehicle: exact name+variant first,
// exact name second, then the longest registry key that prefixes the name.
func (a *Applier) bestMatch(name, variant string) (string, *Preset) {
	if variant != "" {
		key := name + "_" + variant
		if p, ok := a.store.Get(key); ok {
			return key, p
		}
	}
	if p, ok := a.store.Get(name); ok {
		return name, p
	}

	bestKey := ""
	for _, key := range a.store.Keys() {
		if len(key) > len(bestKey) && len(key) < len(name) && name[:len(key)] == key {
			bestKey = key
		}
	}
	if bestKey == "" {
		return "", nil
	}
	p, _ := a.store.Get(bestKey)
	return bestKey, p
}

// Apply writes the preset's effective offsets into the tweak store.
// Link chains resolve up to MaxLinkDepth hops; expectedID, when non-empty,
// must match the terminal preset's ID.
func (a *Applier) Apply(p *Preset, expectedID string) error {
	if a.store.Disabled() {
		return ErrDisabled
	}

	p, err := a.resolveLink(p)
	if err != nil {
		a.logger.Warn("link resolution aborted", zap.Error(err))
		return err
	}
	if p.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidPreset)
	}
	if expectedID != "" && p.ID != expectedID {
		a.logger.Warn("preset id contradicts resolved profile, not applying",
			zap.String("preset_id", p.ID), zap.String("expected", expectedID))
		return fmt.Errorf("%w: preset %q, resolved %q", ErrIDMismatch, p.ID, expectedID)
	}

	var fallback *Preset
	if d, ok := a.store.DefaultFor(p.ID); ok && d != p {
		fallback = d
	}

	levelMap := a.activeLevelMap(p.ID)

	for _, level := range resolver.AllLevels() {
		angle, x, y, z, distance := effectiveOffsets(p.Tier(level.Tier), fallbackTier(fallback, level.Tier), level.Tier)
		if level.Combat {
			z += a.bias.CombatZ
			distance += a.bias.CombatDistance
		}

		base, custom := levelMap[level.Name()]
		if !custom {
			base = resolver.CanonicalPath(p.ID, level)
		}

		a.write(base, "angle", angle, custom)
		a.write(base, "x", x, custom)
		a.write(base, "y", y, custom)
		a.write(base, "z", z, custom)
		a.write(base, "distance", distance, custom)
	}
	return nil
}

// activeLevelMap returns the mounted vehicle's custom level map when the
// profile being applied is the mounted vehicle's own; custom paths from one
// vehicle must never receive another vehicle's offsets.
func (a *Applier) activeLevelMap(id string) map[string]string {
	if a.active == nil {
		return nil
	}
	activeID, err := a.resolver.ProfileID(a.active.RecordID, a.store.DefaultIDs())
	if err != nil || activeID != id {
		return nil
	}
	m, err := a.resolver.LevelKeyMap(a.active.RecordID)
	if err != nil {
		return nil
	}
	return m
}

// write sets one tunable, capturing the pre-existing value of custom-bound
// paths before their first overwrite so unmount can put them back.
func (a *Applier) write(base, variable string, value float64, custom bool) {
	path := resolver.VarPath(base, variable)
	if custom {
		if _, captured := a.backups[path]; !captured {
			if prev, ok := a.tweaks.Get(path); ok {
				a.backups[path] = prev
			}
		}
	}
	a.tweaks.Set(path, value)
}

func (a *Applier) resolveLink(p *Preset) (*Preset, error) {
	if p == nil {
		return nil, ErrInvalidPreset
	}
	visited := make(map[string]struct{})
	for depth := 0; p.IsLink(); depth++ {
		if depth >= MaxLinkDepth {
			return nil, fmt.Errorf("%w: more than %d hops", ErrLinkDepth, MaxLinkDepth)
		}
		if _, seen := visited[p.Link]; seen {
			return nil, fmt.Errorf("%w: %q", ErrCycleDetected, p.Link)
		}
		visited[p.Link] = struct{}{}

		next, ok := a.store.Get(p.Link)
		if !ok {
			return nil, fmt.Errorf("%w: link target %q", ErrNotFound, p.Link)
		}
		p = next
	}
	return p, nil
}

// RestoreAll re-applies every baseline profile and clears the
// recently-applied list.
func (a *Applier) RestoreAll() {
	if a.store.Disabled() {
		return
	}
	for _, key := range a.store.DefaultKeys() {
		p, _ := a.store.Get(key)
		if err := a.Apply(p, ""); err != nil {
			a.logger.Warn("baseline restore failed", zap.String("key", key), zap.Error(err))
		}
	}
	a.restoreBackups()
	a.recent = nil
}

// RestoreModified re-applies baselines only for profiles touched since the
// last restore. Run on unmount so untouched vehicles incur no cost.
func (a *Applier) RestoreModified() {
	if a.store.Disabled() {
		a.recent = nil
		return
	}
	for _, key := range a.recent {
		p, ok := a.store.Get(key)
		if !ok {
			continue
		}
		resolved, err := a.resolveLink(p)
		if err != nil {
			continue
		}
		d, ok := a.store.DefaultFor(resolved.ID)
		if !ok {
			continue
		}
		if err := a.Apply(d, ""); err != nil {
			a.logger.Warn("modified restore failed", zap.String("key", key), zap.Error(err))
		}
	}
	a.restoreBackups()
	a.recent = nil
}

// restoreBackups puts captured pre-existing custom values back.
func (a *Applier) restoreBackups() {
	for path, value := range a.backups {
		a.tweaks.Set(path, value)
	}
	a.backups = make(map[string]any)
}

func (a *Applier) markRecent(key string) {
	for _, k := range a.recent {
		if k == key {
			return
		}
	}
	if len(a.recent) >= maxRecent {
		a.recent = a.recent[1:]
	}
	a.recent = append(a.recent, key)
}

// effectiveOffsets merges explicit, fallback and constant values per field.
func effectiveOffsets(explicit, fallback *OffsetData, tier string) (angle, x, y, z, distance float64) {
	c := tierConstants[tier]
	angle = pick(fieldOf(explicit, "angle"), fieldOf(fallback, "angle"), c.angle)
	x = pick(fieldOf(explicit, "x"), fieldOf(fallback, "x"), c.x)
	y = pick(fieldOf(explicit, "y"), fieldOf(fallback, "y"), c.y)
	z = pick(fieldOf(explicit, "z"), fieldOf(fallback, "z"), c.z)
	distance = pick(fieldOf(explicit, "distance"), fieldOf(fallback, "distance"), c.distance)
	return
}

func fieldOf(o *OffsetData, name string) *float64 {
	if o == nil {
		return nil
	}
	return baseField(o, name)
}

func pick(explicit, fallback *float64, constant float64) float64 {
	if explicit != nil {
		return *explicit
	}
	if fallback != nil {
		return *fallback
	}
	return constant
}

func fallbackTier(p *Preset, tier string) *OffsetData {
	if p == nil {
		return nil
	}
	return p.Tier(tier)
}
