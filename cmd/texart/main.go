// Command texart renders LaTeX-style math markup as multi-line text art.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/ryanlewis/texart"
	"github.com/ryanlewis/texart/internal/strutil"
	"github.com/spf13/pflag"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

type cliFlags struct {
	configPath     string
	ascii          bool
	trimWhitespace bool
	bar            string
	overline       string
	stem           string
	radical        string
	document       bool
	frame          bool
	verbose        bool
	showVersion    bool
	showHelp       bool
	debugMode      bool
	debugFile      string
	debugPretty    bool
}

func newFlagSet(f *cliFlags, stderr io.Writer) *pflag.FlagSet {
	fs := pflag.NewFlagSet("texart", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {}

	fs.StringVarP(&f.configPath, "config", "c", "", "Path to a TOML config file")
	fs.BoolVarP(&f.ascii, "ascii", "a", false, "Use plain ASCII glyphs")
	fs.BoolVar(&f.trimWhitespace, "trim-whitespace", false, "Trim trailing whitespace from each line")
	fs.StringVar(&f.bar, "bar", "", "Rune for fraction bars")
	fs.StringVar(&f.overline, "overline", "", "Rune for radical overlines")
	fs.StringVar(&f.stem, "stem", "", "Rune for radical stems")
	fs.StringVar(&f.radical, "radical", "", "Rune for the radical sign")
	fs.BoolVarP(&f.document, "document", "d", false, "Treat input as text with embedded $...$ and $$...$$ math")
	fs.BoolVar(&f.frame, "frame", false, "Draw a rounded border around the output")
	fs.BoolVarP(&f.verbose, "verbose", "V", false, "Log progress to stderr")
	fs.BoolVarP(&f.showVersion, "version", "v", false, "Show version information")
	fs.BoolVarP(&f.showHelp, "help", "h", false, "Show help message")
	fs.BoolVar(&f.debugMode, "debug", false, "Enable debug tracing (outputs to stderr)")
	fs.StringVar(&f.debugFile, "debug-file", "", "Write debug trace to file instead of stderr")
	fs.BoolVar(&f.debugPretty, "debug-pretty", false, "Use pretty format for debug trace (default: JSON)")
	return fs
}

func newLogger(w io.Writer, verbose bool) *log.Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: verbose,
		TimeFormat:      "15:04:05.00",
		Level:           level,
		Prefix:          "texart",
	})
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var f cliFlags
	fs := newFlagSet(&f, stderr)
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		printHelp(stderr, fs)
		return 1
	}

	if f.showHelp {
		printHelp(stdout, fs)
		return 0
	}
	if f.showVersion {
		fmt.Fprintf(stdout, "texart version %s (commit: %s, built: %s)\n", version, commit, date)
		return 0
	}

	logger := newLogger(stderr, f.verbose)

	input, err := readInput(fs.Args(), stdin)
	if err != nil {
		logger.Error("reading input", "err", err)
		return 1
	}
	if input == "" {
		logger.Error("no markup provided")
		printHelp(stderr, fs)
		return 1
	}

	opts, err := buildOptions(&f, fs)
	if err != nil {
		logger.Error("invalid options", "err", err)
		return 1
	}

	if f.debugMode || f.debugFile != "" || os.Getenv("TEXART_DEBUG") == "1" {
		pretty := texart.DebugFromEnv() || f.debugPretty
		texart.EnableDebug(true)
		defer texart.EnableDebug(false)

		var out io.Writer = stderr
		if f.debugFile != "" {
			file, err := os.Create(f.debugFile)
			if err != nil {
				logger.Error("creating debug file", "err", err)
				return 1
			}
			defer file.Close()
			out = file
		}
		opts = append(opts, texart.WithDebug(out, pretty))
	}

	start := time.Now()
	var output string
	if f.document {
		logger.Debug("rendering document", "bytes", len(input))
		output, err = texart.RenderDocument(context.Background(), input, opts...)
	} else {
		logger.Debug("rendering markup", "input", input)
		output, err = texart.Render(input, opts...)
	}
	if err != nil {
		logger.Error("render failed", "err", err)
		if pointer := errorPointer(input, err); pointer != "" {
			fmt.Fprint(stderr, pointer)
		}
		return 1
	}
	logger.Debug("rendered", "rows", strings.Count(output, "\n")+1, "elapsed", time.Since(start).Round(time.Microsecond))

	if f.frame && output != "" {
		output = frameStyle(stdout).Render(output)
	}

	fmt.Fprintln(stdout, output)
	return 0
}

// readInput joins the positional arguments, or reads stdin when there are
// none or the only argument is "-".
func readInput(args []string, stdin io.Reader) (string, error) {
	if len(args) > 0 && !(len(args) == 1 && args[0] == "-") {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(data), "\r\n"), nil
}

// buildOptions layers explicitly set flags over the config file, which in
// turn sits over the library defaults.
func buildOptions(f *cliFlags, fs *pflag.FlagSet) ([]texart.Option, error) {
	cfg := texart.DefaultConfig()
	if f.configPath != "" {
		loaded, err := texart.LoadConfigFile(f.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if fs.Changed("ascii") && f.ascii {
		cfg.Glyphs = "ascii"
	}
	if fs.Changed("trim-whitespace") {
		cfg.TrimWhitespace = f.trimWhitespace
	}

	glyphs, err := texart.GlyphsByName(cfg.Glyphs)
	if err != nil {
		return nil, err
	}
	overrides := []struct {
		flag  string
		value string
		dst   *rune
	}{
		{"bar", f.bar, &glyphs.FractionBar},
		{"overline", f.overline, &glyphs.Overline},
		{"stem", f.stem, &glyphs.RadicalStem},
		{"radical", f.radical, &glyphs.RadicalBottom},
	}
	for _, o := range overrides {
		if !fs.Changed(o.flag) {
			continue
		}
		r, err := parseRune(o.value)
		if err != nil {
			return nil, fmt.Errorf("--%s: %w", o.flag, err)
		}
		*o.dst = r
	}

	opts, err := cfg.Options()
	if err != nil {
		return nil, err
	}
	return append(opts, texart.WithGlyphs(glyphs)), nil
}

// errorPointer shows a single-line input with a caret under the failing
// offset. Multi-line input gets no pointer.
func errorPointer(input string, err error) string {
	var rerr *texart.Error
	if !errors.As(err, &rerr) || strings.ContainsAny(input, "\r\n") {
		return ""
	}
	if rerr.Offset < 0 || rerr.Offset > len(input) {
		return ""
	}
	col := strutil.Width(strings.ToValidUTF8(input[:rerr.Offset], "?"))
	return "  " + input + "\n  " + strings.Repeat(" ", col) + "^\n"
}

func frameStyle(w io.Writer) lipgloss.Style {
	return lipgloss.NewRenderer(w).NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
}

// parseRune parses a glyph flag value which can be in various formats:
// - Literal character (e.g., "=", "~")
// - Escaped Unicode: "\uXXXX", "\UXXXXXXXX"
// - Unicode notation: "U+XXXX"
// - Hexadecimal: "0x2550"
// - Decimal: "61"
func parseRune(s string) (rune, error) {
	if s == "" {
		return 0, fmt.Errorf("glyph cannot be empty")
	}

	runes := []rune(s)
	if len(runes) == 1 {
		return runes[0], nil
	}

	if r, ok := parseEscapedUnicode(s); ok {
		return r, nil
	}
	if r, ok := parseUnicodeNotation(s); ok {
		return r, nil
	}
	if r, ok := parseHexadecimal(s); ok {
		return r, nil
	}
	if r, ok := parseDecimal(s); ok {
		return r, nil
	}

	return 0, fmt.Errorf("invalid rune format: %s", s)
}

// validateRune rejects values outside Unicode and UTF-16 surrogates.
func validateRune(r rune) (rune, bool) {
	if r < 0 || r > utf8.MaxRune {
		return 0, false
	}
	if r >= 0xD800 && r <= 0xDFFF {
		return 0, false
	}
	return r, true
}

func parseEscapedUnicode(s string) (rune, bool) {
	if strings.HasPrefix(s, "\\u") && len(s) == 6 {
		if code, err := strconv.ParseInt(s[2:], 16, 32); err == nil {
			return validateRune(rune(code))
		}
	}
	if strings.HasPrefix(s, "\\U") && len(s) == 10 {
		if code, err := strconv.ParseInt(s[2:], 16, 32); err == nil {
			return validateRune(rune(code))
		}
	}
	return 0, false
}

func parseUnicodeNotation(s string) (rune, bool) {
	if strings.HasPrefix(s, "U+") || strings.HasPrefix(s, "u+") {
		if code, err := strconv.ParseInt(s[2:], 16, 32); err == nil {
			return validateRune(rune(code))
		}
	}
	return 0, false
}

func parseHexadecimal(s string) (rune, bool) {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		if code, err := strconv.ParseInt(s[2:], 16, 32); err == nil {
			return validateRune(rune(code))
		}
	}
	return 0, false
}

func parseDecimal(s string) (rune, bool) {
	if code, err := strconv.ParseInt(s, 10, 32); err == nil {
		return validateRune(rune(code))
	}
	return 0, false
}

func printHelp(w io.Writer, fs *pflag.FlagSet) {
	fmt.Fprintln(w, "texart - render math markup as text art")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  texart [flags] <markup>")
	fmt.Fprintln(w, "  echo '<markup>' | texart [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprint(w, fs.FlagUsages())
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Examples:")
	fmt.Fprintln(w, `  texart '\frac{a+b}{c}'`)
	fmt.Fprintln(w, `  texart --ascii '\sqrt{x^2+1}'`)
	fmt.Fprintln(w, `  texart -d 'where $$\frac{1}{n}$$ is small'`)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Glyph formats:")
	fmt.Fprintln(w, "  Literal: --bar '='")
	fmt.Fprintln(w, "  Unicode escape: --bar '\\u2550'")
	fmt.Fprintln(w, "  Unicode notation: --bar 'U+2550'")
	fmt.Fprintln(w, "  Decimal: --bar '61'")
	fmt.Fprintln(w, "  Hexadecimal: --bar '0x3D'")
}
