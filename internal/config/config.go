// Package config loads bookgrid's settings: the embedded defaults merged
// with an optional user YAML file.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/bookgrid/internal/catalog"
	"github.com/oakwood-commons/bookgrid/pkg/gradient"
	"github.com/oakwood-commons/bookgrid/pkg/settings"
)

//go:embed default_config.yaml
var embeddedDefaultConfig []byte

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config is the merged configuration.
type Config struct {
	Units      Units      `yaml:"units"`
	Book       Book       `yaml:"book"`
	Federation Federation `yaml:"federation"`
	Theme      Theme      `yaml:"theme"`
}

// Units maps layout em onto terminal cells and lines.
type Units struct {
	CellsPerEm float64 `yaml:"cells_per_em"`
	EmPerLine  float64 `yaml:"em_per_line"`
}

// Width converts terminal columns into em.
func (u Units) Width(cols int) float64 {
	return float64(cols) / u.CellsPerEm
}

// Height converts terminal lines into em.
func (u Units) Height(lines int) float64 {
	return float64(lines) * u.EmPerLine
}

// Book configures the order book listing.
type Book struct {
	MaxWidth     int    `yaml:"max_width"`
	MaxHeight    int    `yaml:"max_height"`
	ShowControls bool   `yaml:"show_controls"`
	ShowFooter   bool   `yaml:"show_footer"`
	Mode         string `yaml:"mode"`
	Fullscreen   bool   `yaml:"fullscreen"`
}

// Federation configures the coordinator roster.
type Federation struct {
	MaxWidth  int `yaml:"max_width"`
	MaxHeight int `yaml:"max_height"`
}

// Theme holds hex colours.
type Theme struct {
	TextPrimary   string `yaml:"text_primary"`
	PrimaryDark   string `yaml:"primary_dark"`
	SecondaryDark string `yaml:"secondary_dark"`
	Background    string `yaml:"background"`
	HeaderFG      string `yaml:"header_fg"`
	Muted         string `yaml:"muted"`
	Success       string `yaml:"success"`
	Warning       string `yaml:"warning"`
	Error         string `yaml:"error"`
}

// DefaultConfigYAML returns a copy of the embedded default config YAML bytes.
func DefaultConfigYAML() []byte {
	return append([]byte(nil), embeddedDefaultConfig...)
}

// Default returns the embedded defaults.
func Default() (Config, error) {
	var cfg Config
	if len(embeddedDefaultConfig) == 0 {
		return cfg, fmt.Errorf("embedded default config is empty")
	}
	if err := decode(embeddedDefaultConfig, &cfg); err != nil {
		return cfg, fmt.Errorf("decode embedded default config: %w", err)
	}
	return cfg, nil
}

// Load merges the file at path, when set, over the defaults and validates
// the result.
func Load(path string) (Config, error) {
	cfg, err := Default()
	if err != nil {
		return cfg, err
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := decode(data, &cfg); err != nil {
			return cfg, fmt.Errorf("decode config %s: %w", path, err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// decode unmarshals data over cfg; keys absent from data keep their value.
// Unknown keys are rejected; a file of comments changes nothing.
func decode(data []byte, cfg *Config) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// ResolvePath returns explicit if set, otherwise the XDG path
// ($XDG_CONFIG_HOME/bookgrid/config.yaml) or ~/.config/bookgrid/config.yaml
// if present.
func ResolvePath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	candidate := ""
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		candidate = filepath.Join(xdg, settings.CliBinaryName, "config.yaml")
	} else if home, err := os.UserHomeDir(); err == nil {
		candidate = filepath.Join(home, ".config", settings.CliBinaryName, "config.yaml")
	}
	if candidate != "" {
		if st, err := os.Stat(candidate); err == nil && !st.IsDir() {
			return candidate
		}
	}
	return ""
}

// Validate checks units, mode and colours.
func (c Config) Validate() error {
	if c.Units.CellsPerEm <= 0 {
		return fmt.Errorf("%w: units.cells_per_em must be positive, got %v", ErrInvalid, c.Units.CellsPerEm)
	}
	if c.Units.EmPerLine <= 0 {
		return fmt.Errorf("%w: units.em_per_line must be positive, got %v", ErrInvalid, c.Units.EmPerLine)
	}
	if c.Book.MaxWidth < 0 || c.Book.MaxHeight < 0 || c.Federation.MaxWidth < 0 || c.Federation.MaxHeight < 0 {
		return fmt.Errorf("%w: max sizes must be non-negative", ErrInvalid)
	}
	if _, err := catalog.ParseMode(c.Book.Mode); err != nil {
		return fmt.Errorf("%w: book.mode: %v", ErrInvalid, err)
	}
	for name, hex := range c.Theme.colors() {
		if _, err := gradient.ParseHex(hex); err != nil {
			return fmt.Errorf("%w: theme.%s: %v", ErrInvalid, name, err)
		}
	}
	return nil
}

func (t Theme) colors() map[string]string {
	return map[string]string{
		"text_primary":   t.TextPrimary,
		"primary_dark":   t.PrimaryDark,
		"secondary_dark": t.SecondaryDark,
		"background":     t.Background,
		"header_fg":      t.HeaderFG,
		"muted":          t.Muted,
		"success":        t.Success,
		"warning":        t.Warning,
		"error":          t.Error,
	}
}

// YAML renders the configuration.
func (c Config) YAML() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
