package session

import (
	"encoding/json"
	"io"
	"os"
	"sort"

	"camkit/core/utils"

	"github.com/go-git/go-billy/v5"
	"go.uber.org/zap"
)

// OptionValue wraps one global option parameter.
type OptionValue struct {
	Value any `json:"value"`
}

// Options is the global options file, parameter name to value, persisted as
// JSON with the same one-shot .bak fallback as the usage file.
type Options struct {
	fs     billy.Filesystem
	path   string
	logger *zap.Logger
	values map[string]OptionValue
}

// NewOptions creates an options file handle at path on fs.
func NewOptions(fs billy.Filesystem, path string, logger *zap.Logger) *Options {
	return &Options{
		fs:     fs,
		path:   path,
		logger: logger,
		values: make(map[string]OptionValue),
	}
}

// Load reads the options file, falling back to the .bak copy once. Missing
// or doubly-corrupt files start empty; the built-in defaults then stand.
func (o *Options) Load() {
	values, err := o.read(o.path)
	if err != nil {
		if !os.IsNotExist(err) {
			o.logger.Warn("options file unreadable, trying backup",
				zap.String("path", o.path), zap.Error(err))
		}
		values, err = o.read(o.path + ".bak")
		if err != nil {
			values = make(map[string]OptionValue)
		}
	}
	o.values = values
}

func (o *Options) read(path string) (map[string]OptionValue, error) {
	f, err := o.fs.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	raw, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	values := make(map[string]OptionValue)
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, err
	}
	return values, nil
}

// Save writes the options file, rotating the previous version to .bak first.
func (o *Options) Save() error {
	if _, err := o.fs.Stat(o.path); err == nil {
		if err := o.fs.Rename(o.path, o.path+".bak"); err != nil {
			o.logger.Warn("options backup rotation failed", zap.Error(err))
		}
	}

	raw, err := json.MarshalIndent(o.values, "", "\t")
	if err != nil {
		return err
	}
	f, err := o.fs.Create(o.path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.Write(raw)
	return err
}

// Get returns the raw value of a parameter.
func (o *Options) Get(name string) (any, bool) {
	v, ok := o.values[name]
	return v.Value, ok
}

// Set stores a parameter value.
func (o *Options) Set(name string, value any) {
	o.values[name] = OptionValue{Value: value}
}

// Bool reads a parameter as bool, or def when absent.
func (o *Options) Bool(name string, def bool) bool {
	v, ok := o.Get(name)
	if !ok {
		return def
	}
	return utils.ToBool(v)
}

// String reads a parameter as string, or def when absent.
func (o *Options) String(name string, def string) string {
	v, ok := o.Get(name)
	if !ok {
		return def
	}
	return utils.ToString(v)
}

// Names returns all parameter names, sorted.
func (o *Options) Names() []string {
	names := make([]string, 0, len(o.values))
	for n := range o.values {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
