package preset

import (
	"fmt"
	"strconv"
	"strings"

	"camkit/core/checksum"
	"camkit/feature/resolver"

	"github.com/expr-lang/expr"
	"github.com/go-viper/mapstructure/v2"
)

// Decode evaluates one preset definition and returns the record it produces.
// The definition is an expression evaluated in an empty environment, so it
// cannot reach any outer state. It must produce exactly one record map.
func Decode(src string) (*Preset, error) {
	out, err := expr.Eval(src, map[string]any{})
	if err != nil {
		return nil, fmt.Errorf("preset definition failed to evaluate: %w", err)
	}
	record, ok := out.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("preset definition must produce exactly one record, got %T", out)
	}

	var p Preset
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &p,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(record); err != nil {
		return nil, fmt.Errorf("preset record malformed: %w", err)
	}
	return &p, nil
}

// Encode renders a preset back into definition source.
//
// Only fields whose value differs from the resolved default are emitted, so
// user override files stay minimal and keep inheriting future default
// changes. Saving as a default emits every populated field plus the
// is_default flag. Link records emit the link and nothing else.
func Encode(p *Preset, fallback *Preset, asDefault bool) string {
	var b strings.Builder
	b.WriteString("{\n")

	if p.IsLink() {
		fmt.Fprintf(&b, "\t%q: %q\n}\n", "link", p.Link)
		return b.String()
	}

	lines := make([]string, 0, 8)
	lines = append(lines, fmt.Sprintf("\t%q: %q", "id", p.ID))

	for _, tier := range resolver.Tiers() {
		offsets := p.Tier(tier)
		if offsets == nil {
			continue
		}
		var base *OffsetData
		if !asDefault && fallback != nil {
			base = fallback.Tier(tier)
		}
		if entry, ok := encodeTier(offsets, base, asDefault); ok {
			lines = append(lines, fmt.Sprintf("\t%q: %s", strings.ToLower(tier), entry))
		}
	}

	if p.Overrides != nil {
		lines = append(lines, fmt.Sprintf("\t%q: %s", "overrides", encodeOverride(p.Overrides)))
	}
	if asDefault {
		lines = append(lines, fmt.Sprintf("\t%q: true", "is_default"))
	}

	b.WriteString(strings.Join(lines, ",\n"))
	b.WriteString("\n}\n")
	return b.String()
}

// encodeTier renders one tier map, dropping fields equal to the fallback at
// checksum precision. Returns false when nothing differs.
func encodeTier(offsets, base *OffsetData, all bool) (string, bool) {
	type field struct {
		name     string
		value    *float64
		baseline *float64
	}
	fields := []field{
		{"angle", offsets.Angle, baseField(base, "angle")},
		{"x", offsets.X, baseField(base, "x")},
		{"y", offsets.Y, baseField(base, "y")},
		{"z", offsets.Z, baseField(base, "z")},
		{"distance", offsets.Distance, baseField(base, "distance")},
	}

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		if f.value == nil {
			continue
		}
		if !all && sameValue(f.value, f.baseline) {
			continue
		}
		parts = append(parts, fmt.Sprintf("%q: %s", f.name, checksum.FormatNumber(*f.value)))
	}
	if len(parts) == 0 {
		return "", false
	}
	return "{" + strings.Join(parts, ", ") + "}", true
}

func encodeOverride(o *Override) string {
	levels := make([]string, 0, len(o.Levels))
	for _, l := range o.Levels {
		levels = append(levels, strconv.Quote(l))
	}
	return fmt.Sprintf("{%q: %q, %q: [%s], %q: %q}",
		"key", o.Key, "levels", strings.Join(levels, ", "), "due", o.Due)
}

func baseField(o *OffsetData, name string) *float64 {
	if o == nil {
		return nil
	}
	switch name {
	case "angle":
		return o.Angle
	case "x":
		return o.X
	case "y":
		return o.Y
	case "z":
		return o.Z
	case "distance":
		return o.Distance
	default:
		return nil
	}
}

// sameValue compares two optional offsets at checksum precision.
func sameValue(a, b *float64) bool {
	if b == nil {
		return false
	}
	return checksum.FormatNumber(*a) == checksum.FormatNumber(*b)
}
