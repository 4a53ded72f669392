package texart

import (
	"bufio"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// goldenMetadata is the YAML front matter of a golden file.
type goldenMetadata struct {
	Input          string `yaml:"input"`
	Glyphs         string `yaml:"glyphs"`
	TrimWhitespace bool   `yaml:"trim_whitespace"`
	Generated      string `yaml:"generated"`
	Generator      string `yaml:"generator"`
}

// parseGoldenFile splits a markdown golden file into its front matter and
// the contents of its first text code block.
func parseGoldenFile(path string) (*goldenMetadata, string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open golden file: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)

	var front []string
	inFrontMatter := false
	for scanner.Scan() {
		line := scanner.Text()
		if line == "---" {
			if inFrontMatter {
				break
			}
			inFrontMatter = true
			continue
		}
		if inFrontMatter {
			front = append(front, line)
		}
	}

	metadata := &goldenMetadata{}
	if err := yaml.Unmarshal([]byte(strings.Join(front, "\n")), metadata); err != nil {
		return nil, "", fmt.Errorf("bad front matter: %w", err)
	}

	var artLines []string
	inCodeBlock := false
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "```text") {
			inCodeBlock = true
			continue
		}
		if strings.HasPrefix(line, "```") && inCodeBlock {
			break
		}
		if inCodeBlock {
			artLines = append(artLines, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, "", fmt.Errorf("error reading golden file: %w", err)
	}

	return metadata, strings.Join(artLines, "\n"), nil
}

func (m *goldenMetadata) options() ([]Option, error) {
	glyphs, err := GlyphsByName(m.Glyphs)
	if err != nil {
		return nil, err
	}
	return []Option{WithGlyphs(glyphs), WithTrimWhitespace(m.TrimWhitespace)}, nil
}

func TestGoldenFiles(t *testing.T) {
	goldenDir := "testdata/goldens"
	if _, err := os.Stat(goldenDir); os.IsNotExist(err) {
		t.Skip("Golden files not found. Run go run ./cmd/generate-goldens to create them.")
	}

	var goldenFiles []string
	err := filepath.WalkDir(goldenDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, ".md") {
			goldenFiles = append(goldenFiles, path)
		}
		return nil
	})
	require.NoError(t, err, "walking golden directory")
	if len(goldenFiles) == 0 {
		t.Skip("No golden files found")
	}

	for _, goldenFile := range goldenFiles {
		relPath, _ := filepath.Rel(goldenDir, goldenFile)
		testName := strings.TrimSuffix(relPath, ".md")

		t.Run(testName, func(t *testing.T) {
			metadata, expected, err := parseGoldenFile(goldenFile)
			require.NoError(t, err, "parsing golden file")

			opts, err := metadata.options()
			require.NoError(t, err, "golden options")

			result, err := Render(metadata.Input, opts...)
			require.NoError(t, err, "rendering %q", metadata.Input)

			if result == expected {
				return
			}

			t.Errorf("Output mismatch for %q (glyphs %s)", metadata.Input, metadata.Glyphs)
			got := strings.Split(result, "\n")
			want := strings.Split(expected, "\n")
			for i := 0; i < len(got) || i < len(want); i++ {
				if i >= len(want) {
					t.Errorf("Line %d: Got extra line: %q", i+1, got[i])
					break
				}
				if i >= len(got) {
					t.Errorf("Line %d: Missing expected line: %q", i+1, want[i])
					break
				}
				if got[i] != want[i] {
					t.Errorf("Line %d differs:\n  Got:      %q\n  Expected: %q", i+1, got[i], want[i])
					break
				}
			}
		})
	}
}
