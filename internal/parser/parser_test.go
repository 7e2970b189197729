package parser_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/KaramelBytes/sddviz-cli/internal/parser"
	"github.com/KaramelBytes/sddviz-cli/internal/table"
)

const timedReport = "SDD version, SDDv1.0;\n" +
	"Volumes, 0,5,5,5,-5,-5,-5;\n" +
	"Data entries, 1, 1, 1, 0, 1, 0, 0, 0, 1, 0, 0, 0, 0, 0;\n" +
	"***EndOfHeader***;\n" +
	"1; 1 2 3; 1, 2, 3, 1; 0; 0;\n" +
	"1; 4 5 6; 1, 2, 4, 0; 1; 5;\n" +
	"1; 7 8 9; 1, 3, 1, 1; 1; 10;\n"

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return p
}

func TestLoadFileSDD(t *testing.T) {
	for _, name := range []string{"run.txt", "run.sdd", "run"} {
		p := writeFile(t, name, timedReport)
		got, err := parser.LoadFile(p, nil)
		if err != nil {
			t.Fatalf("%s: load: %v", name, err)
		}
		if got.Kind != parser.KindSDD {
			t.Fatalf("%s: kind = %s", name, got.Kind)
		}
		if got.Table.Len() != 3 || !got.Table.Has("lesiontimes") {
			t.Fatalf("%s: unexpected table %v", name, got.Table.Names())
		}
		if len(got.Volumes) != 7 {
			t.Fatalf("%s: volumes = %v", name, got.Volumes)
		}
		if got.TimeScaler == nil || got.TimeScaler.DataMax != 10 {
			t.Fatalf("%s: time scaler = %+v", name, got.TimeScaler)
		}
	}
}

func TestLoadFileSavedTables(t *testing.T) {
	src, err := parser.LoadFile(writeFile(t, "run.txt", timedReport), nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	dir := t.TempDir()
	for _, f := range []table.Format{table.FormatCSV, table.FormatTSV, table.FormatArrow} {
		p := filepath.Join(dir, "events"+f.Ext())
		if err := src.Table.WriteFile(p, f); err != nil {
			t.Fatalf("write %s: %v", f, err)
		}
		got, err := parser.LoadFile(p, nil)
		if err != nil {
			t.Fatalf("reload %s: %v", f, err)
		}
		want := parser.KindCSV
		if f == table.FormatArrow {
			want = parser.KindArrow
		}
		if got.Kind != want {
			t.Fatalf("%s: kind = %s", f, got.Kind)
		}
		if got.Table.Len() != 3 || got.Table.Width() != src.Table.Width() {
			t.Fatalf("%s: shape %dx%d", f, got.Table.Len(), got.Table.Width())
		}
		if got.TimeScaler != nil || got.Volumes != nil {
			t.Fatalf("%s: saved tables carry no header context", f)
		}
	}
}

func TestLoadFileErrors(t *testing.T) {
	if _, err := parser.LoadFile(filepath.Join(t.TempDir(), "missing.txt"), nil); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist, got %v", err)
	}
	p := writeFile(t, "bad.txt", "Data entries, 1, 1;\n***EndOfHeader***;\n1; 1 2 3; 9;\n")
	if _, err := parser.LoadFile(p, nil); err == nil {
		t.Fatalf("expected schema mismatch")
	}
}
