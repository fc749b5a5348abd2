package project

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"uno/internal/variant"
)

// ErrUnknownKeys is wrapped when uno.toml holds keys no section declares.
var ErrUnknownKeys = errors.New("unknown keys")

// ExpandConfig is the [expand] section.
type ExpandConfig struct {
	Engine   string `toml:"engine"`
	MaxDepth int    `toml:"max_depth"`
}

// ScanConfig is the [scan] section.
type ScanConfig struct {
	Extensions []string `toml:"extensions"`
	Attributes []string `toml:"attributes"`
	Functions  []string `toml:"functions"`
	Exclude    []string `toml:"exclude"`
}

// OutputConfig is the [output] section.
type OutputConfig struct {
	Merge bool `toml:"merge"`
}

// CacheConfig is the [cache] section.
type CacheConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

// Config mirrors uno.toml.
type Config struct {
	Expand ExpandConfig `toml:"expand"`
	Scan   ScanConfig   `toml:"scan"`
	Output OutputConfig `toml:"output"`
	Cache  CacheConfig  `toml:"cache"`

	// Path is the file the config came from; empty for defaults.
	Path string `toml:"-"`
}

// Default returns the configuration used when no uno.toml exists.
func Default() Config {
	return Config{
		Expand: ExpandConfig{
			Engine:   variant.EngineParser.String(),
			MaxDepth: variant.DefaultMaxDepth,
		},
		Scan: ScanConfig{
			Extensions: []string{".html", ".htm", ".templ", ".vue", ".svelte", ".jsx", ".tsx", ".astro", ".go"},
			Attributes: []string{"class", "className"},
			Functions:  []string{"uno.Classes", "uno.Expand", "uno.Merge"},
			Exclude:    []string{".git", "node_modules", "vendor", "dist"},
		},
		Cache: CacheConfig{Enabled: true},
	}
}

// Load decodes path over the defaults. Sections or keys missing from the
// file keep their default values.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%s: %w: %s", path, ErrUnknownKeys, strings.Join(keys, ", "))
	}
	// пустой массив в файле означает "как по умолчанию"
	def := Default()
	if meta.IsDefined("scan", "extensions") && len(cfg.Scan.Extensions) == 0 {
		cfg.Scan.Extensions = def.Scan.Extensions
	}
	cfg.Path = path
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Discover finds uno.toml above startDir and loads it, falling back to
// Default when there is none.
func Discover(startDir string) (Config, error) {
	path, ok, err := FindConfig(startDir)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}

// Validate checks values the decoder cannot.
func (c *Config) Validate() error {
	if _, err := variant.ParseEngine(c.Expand.Engine); err != nil {
		return fmt.Errorf("[expand].engine: %w", err)
	}
	if c.Expand.MaxDepth < 1 {
		return fmt.Errorf("[expand].max_depth must be positive, got %d", c.Expand.MaxDepth)
	}
	for i, ext := range c.Scan.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("[scan].extensions[%d] %q must start with '.'", i, ext)
		}
		c.Scan.Extensions[i] = strings.ToLower(ext)
	}
	return nil
}

// Engine returns the parsed [expand].engine.
func (c Config) Engine() variant.Engine {
	e, err := variant.ParseEngine(c.Expand.Engine)
	if err != nil {
		return variant.EngineParser
	}
	return e
}

// Options converts the [expand] section to expander options.
func (c Config) Options() variant.Options {
	return variant.Options{Engine: c.Engine(), MaxDepth: c.Expand.MaxDepth}
}

// Root is the directory of the config file, or "" for defaults.
func (c Config) Root() string {
	if c.Path == "" {
		return ""
	}
	return filepath.Dir(c.Path)
}

// Excluded reports whether a directory or file name is listed in [scan].exclude.
func (c Config) Excluded(name string) bool {
	return slices.Contains(c.Scan.Exclude, name)
}

// HasExtension reports whether path has one of the [scan].extensions.
func (c Config) HasExtension(path string) bool {
	return slices.Contains(c.Scan.Extensions, strings.ToLower(filepath.Ext(path)))
}

// Encode renders c as TOML.
func (c Config) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteDefault writes the default uno.toml into dir. It refuses to
// overwrite an existing file unless force is set.
func WriteDefault(dir string, force bool) (string, error) {
	path := filepath.Join(dir, ConfigName)
	if !force {
		if _, err := os.Stat(path); err == nil {
			return "", fmt.Errorf("%s already exists", path)
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("failed to stat %q: %w", path, err)
		}
	}
	data, err := Default().Encode()
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}
