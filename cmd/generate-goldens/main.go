// Command generate-goldens writes the golden files checked by golden_test.go.
package main

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/ryanlewis/texart"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// GoldenMetadata is the YAML front matter of a golden file.
// It must stay in sync with goldenMetadata in golden_test.go.
type GoldenMetadata struct {
	Input          string `yaml:"input"`
	Glyphs         string `yaml:"glyphs"`
	TrimWhitespace bool   `yaml:"trim_whitespace"`
	Generated      string `yaml:"generated"`
	Generator      string `yaml:"generator"`
}

// sample is one golden input. Samples with trim unset keep the padding
// cells at the end of each row.
type sample struct {
	input  string
	glyphs string
	trim   bool
}

var defaultSamples = []sample{
	{`\frac{a}{b}`, "unicode", true},
	{`\sqrt{x}`, "unicode", true},
	{`x^{2}`, "unicode", true},
	{`x_{i}`, "unicode", true},
	{`x_i^2`, "unicode", true},
	{`\frac{1}{\frac{a}{b}}`, "unicode", true},
	{`x=\frac{-b+\sqrt{b^2-4ac}}{2a}`, "unicode", true},
	{`\frac{a}{bc}`, "unicode", false},
	{`\sqrt{\frac{a}{b}}`, "ascii", true},
}

func main() {
	outDir := pflag.StringP("out", "o", "testdata/goldens", "Output directory")
	glyphSets := pflag.String("glyphs", "", "Only generate samples for this glyph set")
	strict := pflag.Bool("strict", false, "Exit on the first failure")
	pflag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "generate-goldens"})

	failed := 0
	for _, s := range defaultSamples {
		if *glyphSets != "" && s.glyphs != *glyphSets {
			continue
		}
		path, err := generateGoldenFile(*outDir, s)
		if err != nil {
			if *strict {
				logger.Fatal("generating golden file", "input", s.input, "err", err)
			}
			logger.Warn("skipping sample", "input", s.input, "err", err)
			failed++
			continue
		}
		logger.Info("wrote", "path", path)
	}

	if failed > 0 {
		logger.Warn("golden file generation finished with failures", "failed", failed)
		os.Exit(1)
	}
	logger.Info("golden file generation complete")
}

func generateGoldenFile(outDir string, s sample) (string, error) {
	glyphs, err := texart.GlyphsByName(s.glyphs)
	if err != nil {
		return "", err
	}

	art, err := texart.Render(s.input, texart.WithGlyphs(glyphs), texart.WithTrimWhitespace(s.trim))
	if err != nil {
		return "", fmt.Errorf("render: %w", err)
	}

	metadata := GoldenMetadata{
		Input:          s.input,
		Glyphs:         s.glyphs,
		TrimWhitespace: s.trim,
		Generated:      time.Now().UTC().Format("2006-01-02"),
		Generator:      "generate-goldens",
	}
	yamlData, err := yaml.Marshal(&metadata)
	if err != nil {
		return "", fmt.Errorf("failed to marshal metadata: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(yamlData)
	buf.WriteString("---\n\n")
	fmt.Fprintf(&buf, "# %s\n\n", s.input)
	buf.WriteString("```text\n")
	buf.WriteString(art)
	buf.WriteString("\n```\n")

	dir := filepath.Join(outDir, s.glyphs)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	outFile := filepath.Join(dir, slugify(s.input)+".md")
	if err := os.WriteFile(outFile, buf.Bytes(), 0o600); err != nil {
		return "", fmt.Errorf("failed to write file %s: %w", outFile, err)
	}
	return outFile, nil
}

// slugify keeps ASCII letters and digits and collapses every other run of
// runes into a single underscore.
func slugify(s string) string {
	if s == "" {
		return "empty"
	}

	var result []rune
	for _, r := range s {
		if (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			result = append(result, r)
		} else if len(result) == 0 || result[len(result)-1] != '_' {
			result = append(result, '_')
		}
	}

	slug := strings.Trim(string(result), "_")
	if slug == "" {
		hash := sha256.Sum256([]byte(s))
		return fmt.Sprintf("%x", hash)[:8]
	}
	return slug
}
