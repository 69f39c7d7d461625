package editor

import (
	"fmt"

	"camkit/core/tweakdb"
	"camkit/core/utils"
	"camkit/feature/preset"
	"camkit/feature/resolver"

	"go.uber.org/zap"
)

// Machine owns all editor bundles and runs their slot transitions.
type Machine struct {
	store    *preset.Store
	applier  *preset.Applier
	resolver *resolver.Resolver
	tweaks   tweakdb.Store
	logger   *zap.Logger
	bundles  map[string]*Bundle
}

// NewMachine creates an editor over the given registry and applier.
func NewMachine(store *preset.Store, applier *preset.Applier, res *resolver.Resolver, tweaks tweakdb.Store, logger *zap.Logger) *Machine {
	return &Machine{
		store:    store,
		applier:  applier,
		resolver: res,
		tweaks:   tweaks,
		logger:   logger,
		bundles:  make(map[string]*Bundle),
	}
}

func bundleKey(name, variant string) string {
	return name + "|" + variant
}

// Get returns an already-open bundle.
func (m *Machine) Get(name, variant string) (*Bundle, bool) {
	b, ok := m.bundles[bundleKey(name, variant)]
	return b, ok
}

// Open returns the bundle for an entity, creating it on first access.
// The entity's record must resolve to a profile id; without one there is no
// place to read defaults from or write edits to.
func (m *Machine) Open(name, variant, recordID string) (*Bundle, error) {
	if b, ok := m.Get(name, variant); ok {
		return b, nil
	}

	id, err := m.resolver.ProfileID(recordID, m.store.DefaultIDs())
	if err != nil {
		return nil, fmt.Errorf("cannot edit %q: %w", name, err)
	}

	nexus := m.nexusFor(id)
	flux := m.fluxFor(name, variant, id, nexus)

	b := &Bundle{
		Entity:   name,
		Variant:  variant,
		RecordID: recordID,
		Nexus:    nexus,
		Flux:     flux,
		Pivot:    snapshot(flux),
		Finale:   snapshot(flux),
	}
	m.Recompute(b)
	m.bundles[bundleKey(name, variant)] = b

	m.logger.Debug("editor bundle opened",
		zap.String("entity", name), zap.String("variant", variant), zap.String("profile", id))
	return b, nil
}

// nexusFor builds the immutable default slot for a profile id. Without a
// defaults file the slot is synthesized from the live store values and marked
// as joined.
func (m *Machine) nexusFor(id string) EditorPreset {
	for _, key := range m.store.DefaultKeys() {
		d, _ := m.store.Get(key)
		if d.ID != id {
			continue
		}
		p := d.Clone()
		return EditorPreset{
			Preset:    p,
			Key:       key,
			Name:      key,
			Token:     contentToken(p),
			IsPresent: !d.IsJoined,
		}
	}

	p := m.synthesize(id)
	return EditorPreset{Preset: p, Key: id, Name: id, Token: contentToken(p)}
}

// synthesize reads the current live values of a profile's canonical paths
// into a baseline preset. Sampled from the non-combat high levels; combat
// bias and the low rig derive from those at apply time.
func (m *Machine) synthesize(id string) *preset.Preset {
	p := &preset.Preset{ID: id, IsDefault: true, IsJoined: true}
	for _, tier := range resolver.Tiers() {
		base := resolver.CanonicalPath(id, resolver.Level{Height: resolver.HeightHigh, Tier: tier})
		for _, field := range []string{"angle", "x", "y", "z", "distance"} {
			raw, ok := m.tweaks.Get(resolver.VarPath(base, field))
			if !ok {
				continue
			}
			p.SetOffset(tier, field, utils.ToFloat(raw))
		}
	}
	return p
}

// fluxFor builds the editable slot: the registered override when one exists,
// otherwise a working copy of the default.
func (m *Machine) fluxFor(name, variant, id string, nexus EditorPreset) EditorPreset {
	key := name
	if variant != "" {
		key = name + "_" + variant
	}

	if p, ok := m.store.Get(key); ok && !p.IsDefault {
		c := p.Clone()
		return EditorPreset{
			Preset:    c,
			Key:       key,
			Name:      key,
			Token:     contentToken(c),
			IsPresent: m.store.FileExists(key),
		}
	}

	c := nexus.Preset.Clone()
	c.IsDefault = false
	c.IsJoined = false
	return EditorPreset{Preset: c, Key: key, Name: key, Token: contentToken(c)}
}

// EditField mutates one numeric field on the live slot and marks the bundle
// for recomputation.
func (m *Machine) EditField(name, variant, tier, field string, value float64) error {
	b, ok := m.Get(name, variant)
	if !ok {
		return fmt.Errorf("no open editor for %q", name)
	}
	if !b.Flux.Preset.SetOffset(tier, field, value) {
		return fmt.Errorf("%w: unknown field %s.%s", preset.ErrInvalidPreset, tier, field)
	}
	b.Tasks.Validate = true
	return nil
}

// Rename changes the target file name. The old file survives until the next
// save completes the rename.
func (m *Machine) Rename(name, variant, newName string) error {
	b, ok := m.Get(name, variant)
	if !ok {
		return fmt.Errorf("no open editor for %q", name)
	}
	b.Flux.Name = newName
	b.Flux.Key = newName
	b.Tasks.Rename = b.Finale.IsPresent && b.Flux.Name != b.Finale.Name
	return nil
}

// Recompute re-derives the live token and all pending-work flags.
func (m *Machine) Recompute(b *Bundle) {
	b.Flux.Token = contentToken(b.Flux.Preset)
	b.Tasks.Apply = b.Flux.Token != b.Pivot.Token
	b.Tasks.Save = b.Flux.Token != b.Finale.Token
	b.Tasks.Restore = b.Tasks.Save && b.Flux.Token == b.Nexus.Token
	b.Tasks.Validate = false
}

// RecomputeDirty recomputes every bundle with an unprocessed field edit.
// Called once per frame.
func (m *Machine) RecomputeDirty() {
	for _, b := range m.bundles {
		if b.Tasks.Validate {
			m.Recompute(b)
		}
	}
}

// ApplyAction pushes the live slot into the registry and the tweak store.
// A restore pushes the default instead and leaves the registry untouched.
func (m *Machine) ApplyAction(name, variant string) error {
	b, ok := m.Get(name, variant)
	if !ok {
		return fmt.Errorf("no open editor for %q", name)
	}
	m.Recompute(b)

	if b.Flux.Key != b.Pivot.Key {
		m.store.Remove(b.Pivot.Key)
	}

	if b.Tasks.Restore {
		if err := m.applier.Apply(b.Nexus.Preset, ""); err != nil {
			return err
		}
	} else {
		if err := m.store.Set(b.Flux.Key, b.Flux.Preset.Clone()); err != nil {
			return err
		}
		if err := m.applier.Apply(b.Flux.Preset, ""); err != nil {
			return err
		}
	}

	b.Pivot = snapshot(b.Flux)
	b.Tasks.Apply = false
	return nil
}

// SaveAction persists the live slot. When the content equals the default the
// override file is deleted instead of rewritten; a pending rename removes the
// previously saved file and registry key.
func (m *Machine) SaveAction(name, variant string) error {
	b, ok := m.Get(name, variant)
	if !ok {
		return fmt.Errorf("no open editor for %q", name)
	}
	m.Recompute(b)

	if b.Tasks.Restore {
		if err := m.store.DeleteFile(b.Flux.Key); err != nil {
			return err
		}
		m.store.Remove(b.Flux.Key)
		b.Flux.IsPresent = false
		m.logger.Info("override equals default, file removed",
			zap.String("key", b.Flux.Key))
	} else {
		if err := m.store.SaveFile(b.Flux.Key, b.Flux.Preset.Clone(), b.Flux.Preset.IsDefault); err != nil {
			return err
		}
		b.Flux.IsPresent = true
	}

	if b.Tasks.Rename && b.Finale.Key != b.Flux.Key {
		if err := m.store.DeleteFile(b.Finale.Key); err != nil {
			m.logger.Warn("renamed-away file not removed",
				zap.String("key", b.Finale.Key), zap.Error(err))
		}
		m.store.Remove(b.Finale.Key)
	}

	b.Finale = snapshot(b.Flux)
	b.Tasks.Save = false
	b.Tasks.Restore = false
	b.Tasks.Rename = false
	return nil
}

// Close evicts the bundle when nothing distinguishes it from the baseline:
// no pending work, content equal to the default, no backing file. Returns
// whether the bundle was evicted.
func (m *Machine) Close(name, variant string) bool {
	b, ok := m.Get(name, variant)
	if !ok {
		return false
	}
	m.Recompute(b)

	clean := !b.Tasks.Apply && !b.Tasks.Save && !b.Tasks.Rename &&
		b.Flux.Token == b.Nexus.Token && !b.Flux.IsPresent
	if clean {
		delete(m.bundles, bundleKey(name, variant))
	}
	return clean
}

// Bundles returns all open bundles keyed by entity|variant.
func (m *Machine) Bundles() map[string]*Bundle {
	return m.bundles
}
