package utils

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFreePath(t *testing.T) {
	dir := t.TempDir()
	if got := FreePath(dir, "events", ".csv"); got != filepath.Join(dir, "events.csv") {
		t.Fatalf("unexpected first path %s", got)
	}
	for _, name := range []string{"events.csv", "events__2.csv"} {
		if err := SafeWriteFile(filepath.Join(dir, name), []byte("x")); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	if got := FreePath(dir, "events", ".csv"); got != filepath.Join(dir, "events__3.csv") {
		t.Fatalf("expected third slot, got %s", got)
	}
	if _, err := os.Stat(filepath.Join(dir, "events.csv.tmp")); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind")
	}
}

func TestBaseName(t *testing.T) {
	if got := BaseName("/data/run.sdd.txt"); got != "run.sdd" {
		t.Fatalf("got %s", got)
	}
}
