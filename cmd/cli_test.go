package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/KaramelBytes/sddviz-cli/internal/animate"
	"github.com/KaramelBytes/sddviz-cli/internal/run"
)

const timedReport = "SDD version, SDDv1.0;\n" +
	"Volumes, 1,5,5,5,-5,-5,-5;\n" +
	"Data entries, 1, 1, 1, 0, 1, 0, 0, 0, 1, 0, 0, 0, 0, 0;\n" +
	"***EndOfHeader***;\n" +
	"1; 1 2 3; 1, 2, 3, 1; 0; 0;\n" +
	"1; 4 5 6; 1, 2, 4, 0; 1; 5;\n" +
	"1; 7 8 9; 1, 3, 1, 1; 1; 10;\n"

// resetFlags clears values and Changed state left by earlier invocations.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// runCmd is a helper to execute the root command with args. It returns
// everything the command printed.
func runCmd(t *testing.T, args ...string) string {
	t.Helper()
	out, err := execCmd(args...)
	if err != nil {
		t.Fatalf("command %v failed: %v", args, err)
	}
	return out
}

func execCmd(args ...string) (string, error) {
	resetFlags(rootCmd)
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

// isolatedHome points HOME at a temp dir and writes the report fixture there.
func isolatedHome(t *testing.T) (home, report string) {
	t.Helper()
	home = t.TempDir()
	oldHome := os.Getenv("HOME")
	t.Cleanup(func() { os.Setenv("HOME", oldHome) })
	os.Setenv("HOME", home)
	cfg = nil

	report = filepath.Join(home, "cell.txt")
	if err := os.WriteFile(report, []byte(timedReport), 0o644); err != nil {
		t.Fatalf("write report: %v", err)
	}
	return home, report
}

func writeYAML(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func TestCLI_ParseBatchAvoidsOverwrite(t *testing.T) {
	home, _ := isolatedHome(t)
	for _, d := range []string{"d1", "d2"} {
		dir := filepath.Join(home, d)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", d, err)
		}
		if err := os.WriteFile(filepath.Join(dir, "cell.txt"), []byte(timedReport), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	outDir := filepath.Join(home, "tables")
	out := runCmd(t, "parse", filepath.Join(home, "d*", "cell.txt"), "--out", outDir, "--format", "arrow")
	if !strings.Contains(out, "[1/2] Processing cell.txt") || !strings.Contains(out, "[2/2] Processing cell.txt") {
		t.Fatalf("missing progress lines:\n%s", out)
	}
	for _, name := range []string{"cell.arrow", "cell__2.arrow"} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Fatalf("missing %s: %v", name, err)
		}
	}
	m, err := run.Load(outDir)
	if err != nil {
		t.Fatalf("load manifest: %v", err)
	}
	if len(m.Inputs) != 2 || len(m.Outputs) != 2 {
		t.Fatalf("manifest inputs=%d outputs=%d", len(m.Inputs), len(m.Outputs))
	}

	if _, err := execCmd("parse", filepath.Join(home, "nothing*.txt")); err == nil {
		t.Fatalf("expected error when no input matches")
	}
}

func TestCLI_InspectReportAndSavedTable(t *testing.T) {
	home, report := isolatedHome(t)
	out := runCmd(t, "inspect", report, "--group-by", "chromosomeNumber")
	for _, want := range []string{"[DATASET SUMMARY]", "Rows: 3", "lesiontimes: numeric", "[GROUP-BY SUMMARY]"} {
		if !strings.Contains(out, want) {
			t.Fatalf("inspect output missing %q:\n%s", want, out)
		}
	}

	runCmd(t, "parse", report, "--out", filepath.Join(home, "tables"), "--quiet")
	md := filepath.Join(home, "cell.md")
	runCmd(t, "inspect", filepath.Join(home, "tables", "cell.csv"), "-o", md, "--sample-rows", "0")
	b, err := os.ReadFile(md)
	if err != nil {
		t.Fatalf("read summary: %v", err)
	}
	if strings.Contains(string(b), "[HEAD AND SAMPLE ROWS]") {
		t.Fatalf("expected no sample rows:\n%s", b)
	}
}

func TestCLI_RenderWithFilterAndLabels(t *testing.T) {
	home, report := isolatedHome(t)
	filter := writeYAML(t, home, "filter.yaml", "chromosomeNumber: [2]\nnumBases: {less: 3}\n")
	labels := writeYAML(t, home, "labels.yaml", "identifier: {include: true, labels: {1: hit}}\n")

	outDir := filepath.Join(home, "img")
	out := runCmd(t, "render", report, "--out", outDir, "--filter", filter, "--labels", labels, "--image-width", "120", "--image-height", "90")
	for _, name := range []string{"damage.png", "damage_identifier.png", "run.json"} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Fatalf("missing %s: %v", name, err)
		}
	}
	if !strings.Contains(out, "numBases: column not in table") {
		t.Fatalf("expected filter diagnostic in summary:\n%s", out)
	}

	if _, err := execCmd("render", report, "--out", outDir); err == nil || !strings.Contains(err.Error(), "not empty") {
		t.Fatalf("expected non-empty directory refusal, got %v", err)
	}
}

func TestCLI_AnimateFrames(t *testing.T) {
	home, report := isolatedHome(t)
	outDir := filepath.Join(home, "anim")
	runCmd(t, "animate", report, "--out", outDir, "--frames", "4", "--workers", "2", "--no-video", "--image-width", "64", "--image-height", "48")
	for i := 1; i <= 4; i++ {
		p := filepath.Join(outDir, animate.UnlabeledFolder, animate.FrameName(animate.UnlabeledFolder, i))
		if _, err := os.Stat(p); err != nil {
			t.Fatalf("missing frame %d: %v", i, err)
		}
	}
	if _, err := os.Stat(filepath.Join(outDir, "timeline.png")); err != nil {
		t.Fatalf("missing timeline: %v", err)
	}
	m, err := run.Load(outDir)
	if err != nil {
		t.Fatalf("load manifest: %v", err)
	}
	if m.Command != "animate" || len(m.Failed) != 0 {
		t.Fatalf("unexpected manifest %+v", m)
	}
}

func TestCLI_AnimateNeedsLesionTimes(t *testing.T) {
	home, _ := isolatedHome(t)
	report := filepath.Join(home, "static.txt")
	body := strings.Replace(timedReport, "1, 1, 1, 0, 1, 0, 0, 0, 1,", "1, 1, 1, 0, 1, 0, 0, 0, 0,", 1)
	body = strings.NewReplacer("; 0;\n", ";\n", "; 5;\n", ";\n", "; 10;\n", ";\n").Replace(body)
	if err := os.WriteFile(report, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, err := execCmd("animate", report, "--out", filepath.Join(home, "anim"))
	if err == nil || !strings.Contains(err.Error(), "lesion") {
		t.Fatalf("expected missing lesion time error, got %v", err)
	}
}

func TestCLI_ConfigSetAndShow(t *testing.T) {
	home, _ := isolatedHome(t)
	runCmd(t, "config", "set", "workers", "8")
	runCmd(t, "config", "set", "output_format", "tsv")
	if _, err := os.Stat(filepath.Join(home, ".sddviz", "config.yaml")); err != nil {
		t.Fatalf("config not saved: %v", err)
	}
	out := runCmd(t, "config", "show")
	if !strings.Contains(out, "workers: 8") || !strings.Contains(out, "output_format: tsv") {
		t.Fatalf("unexpected config:\n%s", out)
	}
	if _, err := execCmd("config", "set", "model", "x"); err == nil {
		t.Fatalf("expected unknown key error")
	}
	if _, err := execCmd("config", "set", "workers", "0"); err == nil {
		t.Fatalf("expected invalid value error")
	}
}
