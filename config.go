package texart

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// ErrBadConfig is returned for a config file that does not decode or holds
// unknown keys.
var ErrBadConfig = errors.New("bad config")

// Config is the file form of the render options:
//
//	glyphs = "ascii"
//	trim_whitespace = true
//
//	[metrics]
//	fraction_padding = 2
//	superscript_drop = 0
//	subscript_rise = 0
//
// Keys that are left out keep their defaults.
type Config struct {
	Glyphs         string        `toml:"glyphs"`
	TrimWhitespace bool          `toml:"trim_whitespace"`
	Metrics        MetricsConfig `toml:"metrics"`
}

// MetricsConfig mirrors Metrics with TOML keys.
type MetricsConfig struct {
	FractionPadding int `toml:"fraction_padding"`
	SuperscriptDrop int `toml:"superscript_drop"`
	SubscriptRise   int `toml:"subscript_rise"`
}

// DefaultConfig returns the configuration equivalent to passing no options.
func DefaultConfig() Config {
	m := DefaultMetrics()
	return Config{
		Glyphs: "unicode",
		Metrics: MetricsConfig{
			FractionPadding: m.FractionPadding,
			SuperscriptDrop: m.SuperscriptDrop,
			SubscriptRise:   m.SubscriptRise,
		},
	}
}

// LoadConfig decodes a TOML config from r over the defaults.
func LoadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	md, err := toml.NewDecoder(r).Decode(&cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrBadConfig, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%w: unknown keys %s", ErrBadConfig, strings.Join(keys, ", "))
	}
	return cfg, nil
}

// LoadConfigFile reads and decodes the TOML config at path.
func LoadConfigFile(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	cfg, err := LoadConfig(f)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Options converts the config to render options, validating it on the way.
func (c Config) Options() ([]Option, error) {
	glyphs, err := GlyphsByName(c.Glyphs)
	if err != nil {
		return nil, err
	}
	m := Metrics{
		FractionPadding: c.Metrics.FractionPadding,
		SuperscriptDrop: c.Metrics.SuperscriptDrop,
		SubscriptRise:   c.Metrics.SubscriptRise,
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return []Option{
		WithGlyphs(glyphs),
		WithMetrics(m),
		WithTrimWhitespace(c.TrimWhitespace),
	}, nil
}
