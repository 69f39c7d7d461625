package editor

import (
	"camkit/core/checksum"
	"camkit/feature/preset"
)

// EditorPreset is one versioned slot of a bundle.
type EditorPreset struct {
	// Preset holds the slot's content.
	Preset *preset.Preset `json:"preset"`
	// Key is the registry key the content lives under.
	Key string `json:"key"`
	// Name is the user-visible file name, equal to Key unless mid-rename.
	Name string `json:"name"`
	// Token is the structural checksum of Preset's content.
	Token uint64 `json:"token"`
	// IsPresent reports whether a file for this slot exists on disk.
	IsPresent bool `json:"is_present"`
}

// Tasks holds the derived pending-work flags of a bundle.
type Tasks struct {
	// Rename is pending when the name differs from the last-saved name.
	Rename bool `json:"rename"`
	// Validate marks a field edit whose tokens have not been recomputed yet.
	Validate bool `json:"validate"`
	// Apply is pending while flux differs from the last-applied snapshot.
	Apply bool `json:"apply"`
	// Save is pending while flux differs from the last-saved snapshot.
	Save bool `json:"save"`
	// Restore refines Save: saving now would reproduce the default, so the
	// override file should be deleted instead.
	Restore bool `json:"restore"`
}

// Bundle is the editing state of one (entity, variant) pair.
type Bundle struct {
	Entity  string `json:"entity"`
	Variant string `json:"variant"`
	// RecordID is the backing record of the entity being edited.
	RecordID string `json:"record_id"`

	Nexus  EditorPreset `json:"nexus"`
	Flux   EditorPreset `json:"flux"`
	Pivot  EditorPreset `json:"pivot"`
	Finale EditorPreset `json:"finale"`
	Tasks  Tasks        `json:"tasks"`
}

// contentToken computes the slot token over the preset's offset content.
// The baseline flags are masked out so an override edited back to the default
// values compares equal to the default slot.
func contentToken(p *preset.Preset) uint64 {
	c := p.Clone()
	c.IsDefault = false
	c.IsJoined = false
	return checksum.Token(c)
}

// snapshot copies a slot, re-deriving its token from the copied content.
func snapshot(ep EditorPreset) EditorPreset {
	out := ep
	out.Preset = ep.Preset.Clone()
	out.Token = contentToken(out.Preset)
	return out
}
