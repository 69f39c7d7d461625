package resolver

import (
	"fmt"
	"regexp"
	"strings"
)

// Camera key grammar shared by the resolver and the applier.
const (
	// Namespace is the store namespace for camera records.
	Namespace = "Camera"
	// Prefix marks third-person vehicle camera records.
	Prefix = "VehicleTPP"
	// BindingField is the vehicle record field holding the camera record list.
	BindingField = "tppCameraPresets"
	// HeightMarkerField is the per-record structural height marker.
	HeightMarkerField = "cameraHeight"
	// DistanceMarkerField is the per-record structural distance marker.
	DistanceMarkerField = "cameraDistance"
)

// Heights of the camera rig.
const (
	HeightHigh = "High"
	HeightLow  = "Low"
)

// Distance tiers of the camera rig.
const (
	TierClose  = "Close"
	TierMedium = "Medium"
	TierFar    = "Far"
)

// CombatSuffix marks the narrowed-FOV combat variant of a level.
const CombatSuffix = "Combat"

// Level identifies one of the twelve addressable view configurations.
type Level struct {
	Height string
	Tier   string
	Combat bool
}

// Name returns the level's store name, e.g. "High_Close" or "Low_Far_Combat".
func (l Level) Name() string {
	name := l.Height + "_" + l.Tier
	if l.Combat {
		name += "_" + CombatSuffix
	}
	return name
}

// Heights returns both rig heights.
func Heights() []string {
	return []string{HeightHigh, HeightLow}
}

// Tiers returns the distance tiers in near-to-far order.
func Tiers() []string {
	return []string{TierClose, TierMedium, TierFar}
}

// AllLevels returns all twelve levels in deterministic order.
func AllLevels() []Level {
	levels := make([]Level, 0, 12)
	for _, h := range Heights() {
		for _, t := range Tiers() {
			levels = append(levels, Level{Height: h, Tier: t})
			levels = append(levels, Level{Height: h, Tier: t, Combat: true})
		}
	}
	return levels
}

// CanonicalPath formats the first-party camera record path for a profile id
// and level.
func CanonicalPath(id string, level Level) string {
	return fmt.Sprintf("%s.%s_%s_%s", Namespace, Prefix, id, level.Name())
}

// VarPath addresses one tunable variable below a camera record path.
func VarPath(recordPath, variable string) string {
	return recordPath + "." + variable
}

// BindingPath addresses the camera binding list of a vehicle record.
func BindingPath(recordID string) string {
	return recordID + "." + BindingField
}

// canonicalPattern captures <id>, <height>, <tier> and the optional combat
// suffix from a first-party camera record path.
var canonicalPattern = regexp.MustCompile(
	`^` + Namespace + `\.` + Prefix + `_(.+)_(High|Low)_(Close|Medium|Far)(_` + CombatSuffix + `)?$`)

// matchCanonical parses a binding key against the canonical pattern.
func matchCanonical(key string) (id string, level Level, ok bool) {
	m := canonicalPattern.FindStringSubmatch(key)
	if m == nil {
		return "", Level{}, false
	}
	return m[1], Level{Height: m[2], Tier: m[3], Combat: m[4] != ""}, true
}

// ParseLevelName parses a "<height>_<tier>[_Combat]" level name.
func ParseLevelName(name string) (Level, bool) {
	parts := strings.Split(name, "_")
	if len(parts) < 2 || len(parts) > 3 {
		return Level{}, false
	}
	level := Level{Height: parts[0], Tier: parts[1]}
	if level.Height != HeightHigh && level.Height != HeightLow {
		return Level{}, false
	}
	if level.Tier != TierClose && level.Tier != TierMedium && level.Tier != TierFar {
		return Level{}, false
	}
	if len(parts) == 3 {
		if parts[2] != CombatSuffix {
			return Level{}, false
		}
		level.Combat = true
	}
	return level, true
}
