package run_test

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"

	"github.com/KaramelBytes/sddviz-cli/internal/parser"
	"github.com/KaramelBytes/sddviz-cli/internal/run"
	"github.com/KaramelBytes/sddviz-cli/internal/table"
)

func TestManifestRoundTripAndSummary(t *testing.T) {
	tdir := t.TempDir()
	in := filepath.Join(tdir, "events.csv")
	tb := table.New(2)
	if err := tb.Add("xcenter", []float64{1, 2}); err != nil {
		t.Fatal(err)
	}
	if err := tb.WriteFile(in, table.FormatCSV); err != nil {
		t.Fatal(err)
	}

	m := run.New("render", filepath.Join(tdir, "out"))
	id, err := m.AddInput(in, &parser.Loaded{Kind: parser.KindCSV, Table: tb, Diagnostics: []string{"cause: column missing"}})
	if err != nil {
		t.Fatalf("add input: %v", err)
	}
	m.AddOutput("out/unlabeled.png")
	m.Fail([]int{3, 7}, errors.New("frame 3: boom"))
	if err := m.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := run.Load(filepath.Join(tdir, "out"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.ID != m.ID || got.Command != "render" {
		t.Fatalf("unexpected manifest %+v", got)
	}
	if got.Inputs[id] == nil || got.Inputs[id].Rows != 2 {
		t.Fatalf("input not persisted: %+v", got.Inputs)
	}

	s := got.Summary()
	for _, want := range []string{"[RUN]", "[INPUTS]", "events.csv (csv, 2 rows, 1 columns)", "cause: column missing", "[OUTPUTS]", "out/unlabeled.png", "[FAILURES]", "frames: [3 7]"} {
		if !strings.Contains(s, want) {
			t.Fatalf("summary missing %q:\n%s", want, s)
		}
	}
}

func TestLoadMissingManifest(t *testing.T) {
	if _, err := run.Load(t.TempDir()); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected not-exist, got %v", err)
	}
	var m run.Manifest
	if err := m.Save(); err == nil {
		t.Fatalf("expected error without directory")
	}
}
