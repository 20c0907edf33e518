package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cardtable/pkg/errors"
	"github.com/matzehuels/cardtable/pkg/geom"
	"github.com/matzehuels/cardtable/pkg/observability"
	"github.com/matzehuels/cardtable/pkg/pipeline"
)

func newTestCLI(t *testing.T) *CLI {
	t.Helper()
	t.Cleanup(observability.Reset)
	return New(io.Discard, LogInfo)
}

func execute(t *testing.T, args ...string) error {
	t.Helper()
	root := newTestCLI(t).RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root.Execute()
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := newTestCLI(t).RootCommand()

	want := []string{"deal", "graph", "play", "config", "cache", "completion"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestParseSize(t *testing.T) {
	tests := []struct {
		in      string
		want    geom.Vector
		wantErr bool
	}{
		{"1024x768", geom.Vec(1024, 768), false},
		{" 600X900 ", geom.Vec(600, 900), false},
		{"12.5x10", geom.Vec(12.5, 10), false},
		{"1024", geom.Vector{}, true},
		{"0x768", geom.Vector{}, true},
		{"axb", geom.Vector{}, true},
		{"-5x5", geom.Vector{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseSize(tt.in)
			if tt.wantErr {
				if !errors.Is(err, errors.ErrCodeInvalidInput) {
					t.Errorf("parseSize(%q) error = %v, want INVALID_INPUT", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseSize(%q) error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("parseSize(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestBasePathAndOutputPath(t *testing.T) {
	tests := []struct {
		output string
		format string
		want   string
	}{
		{"", pipeline.FormatSVG, "cardtable.svg"},
		{"table", pipeline.FormatPNG, "table.png"},
		{"table.svg", pipeline.FormatPNG, "table.png"},
		{"out/table.json", pipeline.FormatSVG, "out/table.svg"},
		{"table.graph.svg", pipeline.FormatGraph, "table.graph.svg"},
		{"table", pipeline.FormatDOT, "table.dot"},
		{"table.v2", pipeline.FormatJSON, "table.v2.json"},
	}

	for _, tt := range tests {
		t.Run(tt.output+"/"+tt.format, func(t *testing.T) {
			if got := outputPath(basePath(tt.output), tt.format); got != tt.want {
				t.Errorf("outputPath(basePath(%q), %q) = %q, want %q", tt.output, tt.format, got, tt.want)
			}
		})
	}
}

func parseTableFlags(t *testing.T, args ...string) (pipeline.Options, error) {
	t.Helper()
	var f tableFlags
	cmd := &cobra.Command{Use: "test"}
	f.register(cmd)
	if err := cmd.ParseFlags(args); err != nil {
		t.Fatalf("ParseFlags() error: %v", err)
	}
	return f.options(cmd)
}

func TestTableFlagsOptions(t *testing.T) {
	t.Chdir(t.TempDir())

	opts, err := parseTableFlags(t, "-n", "9", "--seed", "7", "--resize", "600x900", "--mobile", "--no-jitter")
	if err != nil {
		t.Fatalf("options() error: %v", err)
	}
	if opts.Cards != 9 || opts.Deal.Seed != 7 {
		t.Errorf("cards, seed = %d, %d, want 9, 7", opts.Cards, opts.Deal.Seed)
	}
	if opts.Resize == nil || *opts.Resize != geom.Vec(600, 900) {
		t.Errorf("resize = %v, want (600, 900)", opts.Resize)
	}
	if !opts.Grid.Mobile || !opts.Deal.NoJitter {
		t.Error("mobile and no-jitter flags not applied")
	}
	if opts.SkipGrid {
		t.Error("unset no-grid flag should leave SkipGrid false")
	}
}

func TestTableFlagsLabelsSetCards(t *testing.T) {
	t.Chdir(t.TempDir())

	opts, err := parseTableFlags(t, "--labels", "A,K,Q,J,10,9,8,7")
	if err != nil {
		t.Fatalf("options() error: %v", err)
	}
	if opts.Cards != 8 || len(opts.Labels) != 8 {
		t.Errorf("cards, labels = %d, %d, want 8, 8", opts.Cards, len(opts.Labels))
	}
}

func TestTableFlagsConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	content := "cards = 20\nskip_grid = true\n\n[deal]\nseed = 3\n"
	if err := os.WriteFile(filepath.Join(dir, defaultConfigFile), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	opts, err := parseTableFlags(t, "--seed", "5")
	if err != nil {
		t.Fatalf("options() error: %v", err)
	}
	if opts.Cards != 20 {
		t.Errorf("cards = %d, want 20 from the options file", opts.Cards)
	}
	if !opts.SkipGrid {
		t.Error("skip_grid from the options file was lost")
	}
	if opts.Deal.Seed != 5 {
		t.Errorf("seed = %d, want the flag value 5", opts.Deal.Seed)
	}
}

func TestTableFlagsBadConfig(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	if err := os.WriteFile(filepath.Join(dir, defaultConfigFile), []byte("bogus = 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := parseTableFlags(t); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("options() error = %v, want INVALID_CONFIG", err)
	}
}

func TestDealCommandWritesArtifacts(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	base := filepath.Join(dir, "out", "table")

	err := execute(t, "deal", "-n", "8", "--no-cache", "-f", "svg,json,dot", "-o", base+".svg")
	if err != nil {
		t.Fatalf("deal error: %v", err)
	}

	for _, ext := range []string{".svg", ".json", ".dot"} {
		data, err := os.ReadFile(base + ext)
		if err != nil {
			t.Fatalf("read %s: %v", ext, err)
		}
		if len(data) == 0 {
			t.Errorf("%s artifact is empty", ext)
		}
	}
	svg, _ := os.ReadFile(base + ".svg")
	if !bytes.Contains(svg, []byte("<svg")) {
		t.Error("svg artifact is not an SVG document")
	}
}

func TestDealCommandInsufficientCards(t *testing.T) {
	t.Chdir(t.TempDir())

	err := execute(t, "deal", "-n", "3", "--no-cache")
	if !errors.Is(err, errors.ErrCodeInsufficientCards) {
		t.Errorf("deal error = %v, want INSUFFICIENT_CARDS", err)
	}
}

func TestDealCommandStdoutNeedsOneFormat(t *testing.T) {
	t.Chdir(t.TempDir())

	err := execute(t, "deal", "--no-cache", "-f", "svg,png", "-o", "-")
	if err == nil || !strings.Contains(err.Error(), "exactly one format") {
		t.Errorf("deal error = %v, want stdout format error", err)
	}
}

func TestGraphCommandWritesDOT(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	out := filepath.Join(dir, "graph.dot")

	if err := execute(t, "graph", "-n", "8", "--no-cache", "--no-grid", "-o", out); err != nil {
		t.Fatalf("graph error: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(bytes.TrimSpace(data), []byte("digraph")) {
		t.Errorf("graph output does not start with digraph:\n%s", data)
	}
}

func TestGraphCommandRejectsFormat(t *testing.T) {
	t.Chdir(t.TempDir())

	if err := execute(t, "graph", "--no-cache", "-f", "pdf"); err == nil {
		t.Error("graph with pdf format should fail")
	}
}

func TestConfigInitAndShow(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	if err := execute(t, "config", "init"); err != nil {
		t.Fatalf("config init error: %v", err)
	}
	opts, err := pipeline.LoadOptions(filepath.Join(dir, defaultConfigFile))
	if err != nil {
		t.Fatalf("LoadOptions() error: %v", err)
	}
	if opts.Cards != pipeline.DefaultCards {
		t.Errorf("cards = %d, want %d", opts.Cards, pipeline.DefaultCards)
	}
	if opts.Deal.CardSize != pipeline.DefaultCardSize {
		t.Errorf("card size = %v, want %v", opts.Deal.CardSize, pipeline.DefaultCardSize)
	}

	if err := execute(t, "config", "init"); err == nil {
		t.Error("second config init without --force should fail")
	}
	if err := execute(t, "config", "init", "--force"); err != nil {
		t.Errorf("config init --force error: %v", err)
	}
	if err := execute(t, "config", "show"); err != nil {
		t.Errorf("config show error: %v", err)
	}
}
