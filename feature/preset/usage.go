package preset

import (
	"encoding/json"
	"io"
	"os"
	"sort"
	"time"

	"github.com/go-git/go-billy/v5"
	"go.uber.org/zap"
)

// UsageRecord counts how often one preset key has been applied.
type UsageRecord struct {
	// First is the unix timestamp of the first apply.
	First int64 `json:"first"`
	// Last is the unix timestamp of the most recent apply.
	Last int64 `json:"last"`
	// Total is the number of applies.
	Total int `json:"total"`
}

// UsageTracker persists per-key usage counters to a JSON file with one-shot
// .bak fallback on load failure.
type UsageTracker struct {
	fs      billy.Filesystem
	path    string
	logger  *zap.Logger
	now     func() time.Time
	records map[string]*UsageRecord
}

// NewUsageTracker creates a tracker persisting to path on fs.
func NewUsageTracker(fs billy.Filesystem, path string, logger *zap.Logger) *UsageTracker {
	return &UsageTracker{
		fs:      fs,
		path:    path,
		logger:  logger,
		now:     time.Now,
		records: make(map[string]*UsageRecord),
	}
}

// Load reads the usage file. A corrupt or unreadable file falls back to its
// .bak copy once; if both fail the tracker starts empty.
func (u *UsageTracker) Load() {
	records, err := u.read(u.path)
	if err != nil {
		if !os.IsNotExist(err) {
			u.logger.Warn("usage file unreadable, trying backup",
				zap.String("path", u.path), zap.Error(err))
		}
		records, err = u.read(u.path + ".bak")
		if err != nil {
			records = make(map[string]*UsageRecord)
		}
	}
	u.records = records
}

func (u *UsageTracker) read(path string) (map[string]*UsageRecord, error) {
	f, err := u.fs.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	raw, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	records := make(map[string]*UsageRecord)
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// Save writes the usage file, refreshing the .bak copy from the previous
// version first.
func (u *UsageTracker) Save() error {
	if _, err := u.fs.Stat(u.path); err == nil {
		if err := u.fs.Rename(u.path, u.path+".bak"); err != nil {
			u.logger.Warn("usage backup rotation failed", zap.Error(err))
		}
	}

	raw, err := json.MarshalIndent(u.records, "", "\t")
	if err != nil {
		return err
	}
	f, err := u.fs.Create(u.path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.Write(raw)
	return err
}

// Bump records one apply of key.
func (u *UsageTracker) Bump(key string) {
	now := u.now().Unix()
	rec, ok := u.records[key]
	if !ok {
		u.records[key] = &UsageRecord{First: now, Last: now, Total: 1}
		return
	}
	rec.Last = now
	rec.Total++
}

// Get returns the usage record for key.
func (u *UsageTracker) Get(key string) (UsageRecord, bool) {
	rec, ok := u.records[key]
	if !ok {
		return UsageRecord{}, false
	}
	return *rec, true
}

// Remove drops the record for key. Called when its preset is deleted.
func (u *UsageTracker) Remove(key string) {
	delete(u.records, key)
}

// Keys returns all tracked keys, sorted.
func (u *UsageTracker) Keys() []string {
	keys := make([]string, 0, len(u.records))
	for k := range u.records {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
