package resolver

import (
	"strings"

	"camkit/core/tweakdb"
	"camkit/core/utils"

	"go.uber.org/zap"
)

// Resolver resolves vehicle records to profile ids and level paths.
// All results are memoized per record until Invalidate is called; the core
// runs frame-synchronously, so no locking is needed.
type Resolver struct {
	store  tweakdb.Store
	logger *zap.Logger
	cache  map[string]*entityCache
}

// entityCache memoizes per-record resolution results, including negative
// outcomes, for the duration of one mount session.
type entityCache struct {
	bindingKeys  []string
	bindingErr   error
	bindingDone  bool
	canonical    string
	canonicalErr error
	canonDone    bool
	obfuscated   string
	obfusErr     error
	obfusDone    bool
	levelMap     map[string]string
	levelErr     error
	levelDone    bool
}

// New creates a resolver over the given store.
func New(store tweakdb.Store, logger *zap.Logger) *Resolver {
	return &Resolver{
		store:  store,
		logger: logger,
		cache:  make(map[string]*entityCache),
	}
}

// Invalidate drops all memoized results. Called when the entity context
// changes (mount/unmount of a different vehicle).
func (r *Resolver) Invalidate() {
	r.cache = make(map[string]*entityCache)
}

func (r *Resolver) entity(recordID string) *entityCache {
	c, ok := r.cache[recordID]
	if !ok {
		c = &entityCache{}
		r.cache[recordID] = c
	}
	return c
}

// BindingKeys returns the camera record paths bound to the vehicle record.
func (r *Resolver) BindingKeys(recordID string) ([]string, error) {
	if recordID == "" {
		return nil, ErrNoRecord
	}
	c := r.entity(recordID)
	if c.bindingDone {
		return c.bindingKeys, c.bindingErr
	}
	c.bindingDone = true
	c.bindingKeys, c.bindingErr = r.loadBindingKeys(recordID)
	return c.bindingKeys, c.bindingErr
}

func (r *Resolver) loadBindingKeys(recordID string) ([]string, error) {
	raw, ok := r.store.Get(BindingPath(recordID))
	if !ok {
		// Distinguish a missing record from a record without bindings.
		if len(r.store.Paths(recordID+".")) == 0 {
			return nil, ErrNoRecord
		}
		return nil, ErrNoBindings
	}
	keys, ok := raw.([]string)
	if !ok || len(keys) == 0 {
		return nil, ErrNoBindings
	}
	return keys, nil
}

// CanonicalID extracts the short profile id from binding keys following the
// canonical pattern. The first match wins.
func (r *Resolver) CanonicalID(recordID string) (string, error) {
	c := r.entity(recordID)
	if c.canonDone {
		return c.canonical, c.canonicalErr
	}
	c.canonDone = true

	keys, err := r.BindingKeys(recordID)
	if err != nil {
		c.canonicalErr = err
		return "", err
	}
	for _, key := range keys {
		if id, _, ok := matchCanonical(key); ok {
			c.canonical = id
			return id, nil
		}
	}
	c.canonicalErr = ErrNoPatternMatch
	return "", c.canonicalErr
}

// ObfuscatedID runs the structural fallback heuristic over the binding keys.
// Negative outcomes are cached so the scan is not repeated every frame.
func (r *Resolver) ObfuscatedID(recordID string, knownDefaultIDs []string) (string, error) {
	c := r.entity(recordID)
	if c.obfusDone {
		return c.obfuscated, c.obfusErr
	}
	c.obfusDone = true

	keys, err := r.BindingKeys(recordID)
	if err != nil {
		c.obfusErr = err
		return "", err
	}
	id, ok := Candidate(keys, knownDefaultIDs)
	if !ok {
		c.obfusErr = ErrNoCandidate
		r.logger.Debug("structural fallback found no candidate",
			zap.String("record", recordID), zap.Int("binding_keys", len(keys)))
		return "", c.obfusErr
	}
	c.obfuscated = id
	return id, nil
}

// ProfileID resolves the profile id for a record: canonical pattern first,
// structural fallback second.
func (r *Resolver) ProfileID(recordID string, knownDefaultIDs []string) (string, error) {
	if id, err := r.CanonicalID(recordID); err == nil {
		return id, nil
	}
	return r.ObfuscatedID(recordID, knownDefaultIDs)
}

// LevelKeyMap builds an explicit level->path map from the height/distance
// marker fields of each binding key. Used for content whose record names
// carry no level information.
func (r *Resolver) LevelKeyMap(recordID string) (map[string]string, error) {
	c := r.entity(recordID)
	if c.levelDone {
		return c.levelMap, c.levelErr
	}
	c.levelDone = true

	keys, err := r.BindingKeys(recordID)
	if err != nil {
		c.levelErr = err
		return nil, err
	}

	levelMap := make(map[string]string, len(keys))
	for _, key := range keys {
		height, ok := r.heightMarker(key)
		if !ok {
			continue
		}
		rawDistance, ok := r.store.Get(VarPath(key, DistanceMarkerField))
		if !ok {
			continue
		}
		distance := utils.ToString(rawDistance)
		if distance == "" {
			continue
		}
		name := height + "_" + distance
		// First key for a level wins; duplicates in the binding list are a
		// content defect and are only reported.
		if prev, dup := levelMap[name]; dup {
			r.logger.Debug("duplicate level binding",
				zap.String("level", name), zap.String("kept", prev), zap.String("dropped", key))
			continue
		}
		levelMap[name] = key
	}

	if len(levelMap) == 0 {
		c.levelErr = ErrNoMarkers
		return nil, c.levelErr
	}
	c.levelMap = levelMap
	return levelMap, nil
}

// heightMarker reads the height marker of a camera record, correcting it
// against the record name's own textual hint when the two contradict each
// other. The write-back happens at most once: after correction the marker
// matches the hint, so re-resolution does not trigger it again. Observed
// data-entry defect in third-party content; heuristic, not guaranteed.
func (r *Resolver) heightMarker(key string) (string, bool) {
	raw, ok := r.store.Get(VarPath(key, HeightMarkerField))
	if !ok {
		return "", false
	}
	height := utils.ToString(raw)
	if height != HeightHigh && height != HeightLow {
		return "", false
	}

	if hint, ok := heightHint(key); ok && hint != height {
		r.logger.Warn("height marker contradicts record name, correcting",
			zap.String("record", key), zap.String("marker", height), zap.String("hint", hint))
		r.store.Set(VarPath(key, HeightMarkerField), hint)
		height = hint
	}
	return height, true
}

// heightHint extracts the height named in the record path itself, if any.
func heightHint(key string) (string, bool) {
	for _, h := range Heights() {
		if strings.Contains(key, "_"+h+"_") || strings.HasSuffix(key, "_"+h) {
			return h, true
		}
	}
	return "", false
}
