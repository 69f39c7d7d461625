package tweakdb

import (
	"encoding/json"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Entry is the persisted form of one tunable value.
type Entry struct {
	// Path is the dotted tunable path (primary key).
	Path string `gorm:"primaryKey;column:path"`
	// Kind discriminates the encoded value (float, string, bool, strings).
	Kind string `gorm:"column:kind"`
	// Value is the encoded value.
	Value string `gorm:"column:value"`
}

// TableName overrides the GORM table name.
func (Entry) TableName() string {
	return "tweak_entries"
}

// Gorm is the database-backed Store implementation.
// Read or write failures are logged and surface as absent paths; the host
// store contract has no error channel.
type Gorm struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewGorm creates a database-backed store and migrates its schema.
func NewGorm(db *gorm.DB, logger *zap.Logger) (*Gorm, error) {
	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, err
	}
	return &Gorm{db: db, logger: logger}, nil
}

// NewGormUnmigrated creates a database-backed store without running the
// schema migration. Used by tests driving a mock connection.
func NewGormUnmigrated(db *gorm.DB, logger *zap.Logger) *Gorm {
	return &Gorm{db: db, logger: logger}
}

// Get returns the value at path.
func (g *Gorm) Get(path string) (any, bool) {
	var entry Entry
	err := g.db.First(&entry, "path = ?", path).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			g.logger.Error("tweak store read failed", zap.String("path", path), zap.Error(err))
		}
		return nil, false
	}
	value, err := decodeEntry(entry)
	if err != nil {
		g.logger.Error("tweak store entry corrupt", zap.String("path", path), zap.Error(err))
		return nil, false
	}
	return value, true
}

// Set writes the value at path.
func (g *Gorm) Set(path string, value any) {
	kind, encoded, err := encodeValue(value)
	if err != nil {
		g.logger.Error("tweak store value not encodable", zap.String("path", path), zap.Error(err))
		return
	}
	entry := Entry{Path: path, Kind: kind, Value: encoded}
	err = g.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "path"}},
		DoUpdates: clause.AssignmentColumns([]string{"kind", "value"}),
	}).Create(&entry).Error
	if err != nil {
		g.logger.Error("tweak store write failed", zap.String("path", path), zap.Error(err))
	}
}

// Paths returns all paths sharing the prefix, sorted.
// LIKE treats "_" as a wildcard and camera paths are full of underscores,
// so the database result is re-filtered with an exact prefix check.
func (g *Gorm) Paths(prefix string) []string {
	var paths []string
	err := g.db.Model(&Entry{}).
		Where("path LIKE ?", prefix+"%").
		Order("path").
		Pluck("path", &paths).Error
	if err != nil {
		g.logger.Error("tweak store scan failed", zap.String("prefix", prefix), zap.Error(err))
		return nil
	}
	out := paths[:0]
	for _, p := range paths {
		if strings.HasPrefix(p, prefix) {
			out = append(out, p)
		}
	}
	return out
}

func encodeValue(value any) (kind, encoded string, err error) {
	switch v := value.(type) {
	case float64:
		return "float", strconv.FormatFloat(v, 'g', -1, 64), nil
	case float32:
		return "float", strconv.FormatFloat(float64(v), 'g', -1, 64), nil
	case int:
		return "float", strconv.FormatFloat(float64(v), 'g', -1, 64), nil
	case bool:
		return "bool", strconv.FormatBool(v), nil
	case string:
		return "string", v, nil
	case []string:
		raw, err := json.Marshal(v)
		if err != nil {
			return "", "", err
		}
		return "strings", string(raw), nil
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			return "", "", err
		}
		return "json", string(raw), nil
	}
}

func decodeEntry(entry Entry) (any, error) {
	switch entry.Kind {
	case "float":
		return strconv.ParseFloat(entry.Value, 64)
	case "bool":
		return strconv.ParseBool(entry.Value)
	case "string":
		return entry.Value, nil
	case "strings":
		var out []string
		if err := json.Unmarshal([]byte(entry.Value), &out); err != nil {
			return nil, err
		}
		return out, nil
	default:
		var out any
		if err := json.Unmarshal([]byte(entry.Value), &out); err != nil {
			return nil, err
		}
		return out, nil
	}
}
