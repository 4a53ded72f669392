package texart

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name string
		toml string
		want Config
	}{
		{
			name: "empty keeps defaults",
			toml: "",
			want: DefaultConfig(),
		},
		{
			name: "full",
			toml: `
glyphs = "ascii"
trim_whitespace = true

[metrics]
fraction_padding = 0
superscript_drop = 1
subscript_rise = 1
`,
			want: Config{
				Glyphs:         "ascii",
				TrimWhitespace: true,
				Metrics:        MetricsConfig{FractionPadding: 0, SuperscriptDrop: 1, SubscriptRise: 1},
			},
		},
		{
			name: "partial metrics",
			toml: "[metrics]\nfraction_padding = 4\n",
			want: Config{
				Glyphs:  "unicode",
				Metrics: MetricsConfig{FractionPadding: 4},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LoadConfig(strings.NewReader(tt.toml))
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestLoadConfigErrors(t *testing.T) {
	for name, doc := range map[string]string{
		"syntax":      "glyphs = ",
		"wrong type":  "trim_whitespace = \"yes\"",
		"unknown key": "font = \"standard\"",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := LoadConfig(strings.NewReader(doc))
			require.ErrorIs(t, err, ErrBadConfig)
		})
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "texart.toml")
	require.NoError(t, os.WriteFile(path, []byte(`glyphs = "ascii"`), 0o600))

	cfg, err := LoadConfigFile(path)
	require.NoError(t, err)
	require.Equal(t, "ascii", cfg.Glyphs)

	_, err = LoadConfigFile(filepath.Join(t.TempDir(), "missing.toml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestConfigOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Glyphs = "ascii"
	cfg.TrimWhitespace = true

	opts, err := cfg.Options()
	require.NoError(t, err)

	got, err := Render(`\sqrt{\frac{a}{b}}`, opts...)
	require.NoError(t, err)
	require.Equal(t, join(" ___", "| a", "|---", "V b"), got)

	cfg.Glyphs = "braille"
	_, err = cfg.Options()
	require.ErrorIs(t, err, ErrInvalidGlyphs)

	cfg = DefaultConfig()
	cfg.Metrics.SuperscriptDrop = -3
	_, err = cfg.Options()
	require.ErrorIs(t, err, ErrInvalidMetrics)
}

func TestDefaultConfigMatchesDefaults(t *testing.T) {
	opts, err := DefaultConfig().Options()
	require.NoError(t, err)

	const input = `x^{\frac{1}{2}}_i`
	want, err := Render(input)
	require.NoError(t, err)
	got, err := Render(input, opts...)
	require.NoError(t, err)
	require.Equal(t, want, got)
}
