package preset

import (
	"camkit/core/checksum"
	"camkit/feature/resolver"
)

// OffsetData holds the numeric offsets of one distance tier. Nil fields mean
// "inherit from the fallback preset or the baked-in tier constant".
type OffsetData struct {
	Angle    *float64 `json:"angle,omitempty" mapstructure:"angle"`
	X        *float64 `json:"x,omitempty" mapstructure:"x"`
	Y        *float64 `json:"y,omitempty" mapstructure:"y"`
	Z        *float64 `json:"z,omitempty" mapstructure:"z"`
	Distance *float64 `json:"distance,omitempty" mapstructure:"distance"`
}

// Override carries a scheduled per-level override of another preset key.
// It is preserved verbatim through load/save; the applier does not act on it.
type Override struct {
	Key    string   `json:"key,omitempty" mapstructure:"key"`
	Levels []string `json:"levels,omitempty" mapstructure:"levels"`
	Due    string   `json:"due,omitempty" mapstructure:"due"`
}

// Preset is one named camera offset bundle.
type Preset struct {
	// ID is the profile id grouping all camera levels of one vehicle class.
	ID string `json:"id,omitempty" mapstructure:"id"`
	// Close, Medium and Far hold the per-tier offsets.
	Close  *OffsetData `json:"close,omitempty" mapstructure:"close"`
	Medium *OffsetData `json:"medium,omitempty" mapstructure:"medium"`
	Far    *OffsetData `json:"far,omitempty" mapstructure:"far"`
	// Link names another preset whose values are used instead of this one.
	Link string `json:"link,omitempty" mapstructure:"link"`
	// Overrides is an optional scheduled override record.
	Overrides *Override `json:"overrides,omitempty" mapstructure:"overrides"`
	// IsDefault marks a baseline profile restored by RestoreAll.
	IsDefault bool `json:"is_default,omitempty" mapstructure:"is_default"`
	// IsJoined marks a default synthesized from the live store rather than
	// loaded from a defaults/ file.
	IsJoined bool `json:"is_joined,omitempty" mapstructure:"is_joined"`
}

// Tier returns the offsets for one distance tier name, or nil.
func (p *Preset) Tier(tier string) *OffsetData {
	switch tier {
	case resolver.TierClose:
		return p.Close
	case resolver.TierMedium:
		return p.Medium
	case resolver.TierFar:
		return p.Far
	default:
		return nil
	}
}

// setTier stores offsets under a tier name.
func (p *Preset) setTier(tier string, o *OffsetData) {
	switch tier {
	case resolver.TierClose:
		p.Close = o
	case resolver.TierMedium:
		p.Medium = o
	case resolver.TierFar:
		p.Far = o
	}
}

// SetOffset sets one named offset field on a tier, allocating the tier record
// if needed. Returns false for an unknown tier or field name.
func (p *Preset) SetOffset(tier, field string, value float64) bool {
	switch tier {
	case resolver.TierClose, resolver.TierMedium, resolver.TierFar:
	default:
		return false
	}
	o := p.Tier(tier)
	if o == nil {
		o = &OffsetData{}
		p.setTier(tier, o)
	}
	switch field {
	case "angle":
		o.Angle = Float(value)
	case "x":
		o.X = Float(value)
	case "y":
		o.Y = Float(value)
	case "z":
		o.Z = Float(value)
	case "distance":
		o.Distance = Float(value)
	default:
		return false
	}
	return true
}

// numericFieldCount counts set offset fields across all three tiers.
func (p *Preset) numericFieldCount() int {
	n := 0
	for _, o := range []*OffsetData{p.Close, p.Medium, p.Far} {
		if o == nil {
			continue
		}
		for _, f := range []*float64{o.Angle, o.X, o.Y, o.Z, o.Distance} {
			if f != nil {
				n++
			}
		}
	}
	return n
}

// IsValid reports whether the preset satisfies the record invariant: either a
// non-empty ID with at least one numeric offset, or a pure link record.
func (p *Preset) IsValid() bool {
	if p == nil {
		return false
	}
	if p.Link != "" {
		// A link record must carry nothing else.
		return p.ID == "" && p.numericFieldCount() == 0 &&
			p.Overrides == nil && !p.IsDefault && !p.IsJoined
	}
	return p.ID != "" && p.numericFieldCount() > 0
}

// IsLink reports whether the preset delegates to another preset.
func (p *Preset) IsLink() bool {
	return p != nil && p.Link != ""
}

// Token computes the structural checksum used for editor dirty tracking.
func (p *Preset) Token() uint64 {
	return checksum.Token(p)
}

// Clone returns a deep copy.
func (p *Preset) Clone() *Preset {
	if p == nil {
		return nil
	}
	out := *p
	out.Close = p.Close.clone()
	out.Medium = p.Medium.clone()
	out.Far = p.Far.clone()
	if p.Overrides != nil {
		o := *p.Overrides
		o.Levels = append([]string(nil), p.Overrides.Levels...)
		out.Overrides = &o
	}
	return &out
}

func (o *OffsetData) clone() *OffsetData {
	if o == nil {
		return nil
	}
	out := OffsetData{}
	out.Angle = cloneFloat(o.Angle)
	out.X = cloneFloat(o.X)
	out.Y = cloneFloat(o.Y)
	out.Z = cloneFloat(o.Z)
	out.Distance = cloneFloat(o.Distance)
	return &out
}

func cloneFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}

// Float is a convenience constructor for optional offset fields.
func Float(v float64) *float64 {
	return &v
}
