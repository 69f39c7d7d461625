package resolver

import "strings"

// suffixTags are decoration tags appended to camera record names by content
// generators; they carry no identity and are stripped before token analysis.
var suffixTags = []string{"_Preset", "_Record", "_Camera"}

// namespaceTokens are leading tokens that name the key's home rather than the
// vehicle: store namespaces, the camera prefix, and the lowercase variants
// third-party authors tend to use.
var namespaceTokens = []string{
	Namespace, strings.ToLower(Namespace),
	Prefix, strings.ToLower(Prefix),
	"Vehicle", "vehicle",
}

// levelTokens are the per-level suffix tokens stripped from the tail of a
// candidate, combat variant first so "Close_Combat" does not leave "_Combat"
// behind.
var levelTokens = []string{
	CombatSuffix,
	TierClose, TierMedium, TierFar,
	HeightHigh, HeightLow,
}

// separators between tokens in binding keys.
const separators = "._"

// Candidate derives a profile id from raw binding keys whose names do not
// follow the canonical pattern (hashed or renamed third-party content).
//
// For each key the known suffix tag is stripped, then leading separators and
// namespace/prefix tokens are stripped repeatedly until the string is stable,
// and finally the per-level tokens are stripped from the tail. Surviving
// non-empty tokens are de-duplicated in order. A candidate that is a prefix
// of an already-known default profile id is discarded so vanilla ids are not
// re-discovered under a mangled name. The first survivor wins.
//
// The function is pure: it never touches the live store.
func Candidate(bindingKeys []string, knownDefaultIDs []string) (string, bool) {
	seen := make(map[string]struct{})
	candidates := make([]string, 0, len(bindingKeys))

	for _, key := range bindingKeys {
		token := stripSuffixTags(key)
		token = stripLeadingTokens(token)
		token = stripLevelTokens(token)
		token = strings.Trim(token, separators)
		if token == "" || isLevelToken(token) {
			continue
		}
		if _, dup := seen[token]; dup {
			continue
		}
		seen[token] = struct{}{}
		candidates = append(candidates, token)
	}

	for _, c := range candidates {
		if prefixOfKnownID(c, knownDefaultIDs) {
			continue
		}
		return c, true
	}
	return "", false
}

func stripSuffixTags(s string) string {
	for changed := true; changed; {
		changed = false
		for _, tag := range suffixTags {
			if strings.HasSuffix(s, tag) {
				s = strings.TrimSuffix(s, tag)
				changed = true
			}
		}
	}
	return s
}

func stripLeadingTokens(s string) string {
	for {
		trimmed := strings.TrimLeft(s, separators)
		for _, tok := range namespaceTokens {
			if strings.HasPrefix(trimmed, tok) {
				rest := trimmed[len(tok):]
				// Token must end at a separator boundary; "VehicleX" is not
				// the "Vehicle" namespace.
				if rest == "" || strings.ContainsRune(separators, rune(rest[0])) {
					trimmed = rest
					break
				}
			}
		}
		if trimmed == s {
			return s
		}
		s = trimmed
	}
}

func stripLevelTokens(s string) string {
	for changed := true; changed; {
		changed = false
		for _, tok := range levelTokens {
			if strings.HasSuffix(s, "_"+tok) {
				s = strings.TrimSuffix(s, "_"+tok)
				changed = true
			}
		}
	}
	return s
}

// isLevelToken reports whether s is nothing but a bare level token; a key
// made solely of namespace and level tokens names no vehicle.
func isLevelToken(s string) bool {
	for _, tok := range levelTokens {
		if s == tok {
			return true
		}
	}
	return false
}

func prefixOfKnownID(candidate string, knownIDs []string) bool {
	for _, id := range knownIDs {
		if strings.HasPrefix(id, candidate) {
			return true
		}
	}
	return false
}
