// Package config defines the minidoc configuration file and its defaults.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/phobologic/minidoc/internal/model"
)

// FileName is the configuration file looked up in the project root.
const FileName = ".minidoc.yaml"

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid configuration")

// Defaults.
const (
	DefaultTitle       = "API Documentation"
	DefaultOutput      = "docs/index.md"
	DefaultInclude     = `\.(js|jsx|mjs|cjs|ts|tsx|mts|cts)$`
	DefaultExclude     = `(^|/)node_modules/`
	DefaultMaxFileSize = 1_000_000 // 1 MB
)

// Config is the root configuration structure.
type Config struct {
	// Title is the top-level heading of the generated document.
	Title string `yaml:"title"`
	// Output is the Markdown file written at the end of a build, relative to
	// the project root unless absolute.
	Output string `yaml:"output"`
	// Include selects source files by relative path (regular expression).
	Include string `yaml:"include"`
	// Exclude drops source files by relative path (regular expression).
	Exclude string `yaml:"exclude"`
	// GroupByKind groups entries under one heading per declaration kind.
	GroupByKind bool `yaml:"group_by_kind"`
	// Kinds lists the documentable declaration kinds.
	Kinds []model.Kind `yaml:"kinds"`
	// JsdocOnly restricts association to /** comments.
	JsdocOnly bool `yaml:"jsdoc_only"`
	// SkipTests ignores test files and directories.
	SkipTests bool `yaml:"skip_tests"`
	// HTML also writes an HTML rendering next to Output.
	HTML bool `yaml:"html"`
	// Embed replaces only the marked section of an existing Output file.
	Embed bool `yaml:"embed"`
	// Workers bounds per-file concurrency; 0 means GOMAXPROCS.
	Workers int `yaml:"workers"`
	// MaxFileSize skips larger files; 0 disables the limit.
	MaxFileSize int64 `yaml:"max_file_size"`
	// Cache is a file storing extraction results between runs, relative to
	// the project root unless absolute. Empty disables caching.
	Cache string `yaml:"cache"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Title:       DefaultTitle,
		Output:      DefaultOutput,
		Include:     DefaultInclude,
		Exclude:     DefaultExclude,
		GroupByKind: true,
		Kinds:       append([]model.Kind(nil), model.DefaultKinds...),
		SkipTests:   true,
		MaxFileSize: DefaultMaxFileSize,
	}
}

// Load reads path on top of the defaults. When explicit is false a missing
// file is not an error.
func Load(path string, explicit bool) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse yaml %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Output == "" {
		return fmt.Errorf("%w: output must not be empty", ErrInvalid)
	}
	if _, err := compile(c.Include); err != nil {
		return fmt.Errorf("%w: include: %v", ErrInvalid, err)
	}
	if _, err := compile(c.Exclude); err != nil {
		return fmt.Errorf("%w: exclude: %v", ErrInvalid, err)
	}
	for _, k := range c.Kinds {
		if !k.IsKnown() {
			return fmt.Errorf("%w: unknown kind %q", ErrInvalid, k)
		}
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must be >= 0", ErrInvalid)
	}
	if c.MaxFileSize < 0 {
		return fmt.Errorf("%w: max_file_size must be >= 0", ErrInvalid)
	}
	return nil
}

// IncludeRe returns the compiled include pattern, or nil if unset.
func (c *Config) IncludeRe() *regexp.Regexp {
	re, _ := compile(c.Include)
	return re
}

// ExcludeRe returns the compiled exclude pattern, or nil if unset.
func (c *Config) ExcludeRe() *regexp.Regexp {
	re, _ := compile(c.Exclude)
	return re
}

func compile(pattern string) (*regexp.Regexp, error) {
	if pattern == "" {
		return nil, nil
	}
	return regexp.Compile(pattern)
}

// OutputPath resolves Output against root.
func (c *Config) OutputPath(root string) string {
	return resolve(root, c.Output)
}

// CachePath resolves Cache against root, or returns "" when caching is off.
func (c *Config) CachePath(root string) string {
	if c.Cache == "" {
		return ""
	}
	return resolve(root, c.Cache)
}

func resolve(root, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}

// ToYAML serializes the configuration with a header comment.
func (c *Config) ToYAML(header string) ([]byte, error) {
	var buf bytes.Buffer
	if header != "" {
		buf.WriteString(header)
		if header[len(header)-1] != '\n' {
			buf.WriteByte('\n')
		}
		buf.WriteByte('\n')
	}

	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(c); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("close encoder: %w", err)
	}
	return buf.Bytes(), nil
}
