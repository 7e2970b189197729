package cmd

import (
	"testing"

	"go.uber.org/zap"

	"github.com/KaramelBytes/sddviz-cli/internal/sdd"
)

func TestBuildSceneFilterKeepsPositions(t *testing.T) {
	home, report := isolatedHome(t)
	c := *settings()
	full, err := buildScene(report, &c, zap.NewNop())
	if err != nil {
		t.Fatalf("build scene: %v", err)
	}

	c.FilterFile = writeYAML(t, home, "filter.yaml", "chromosomeNumber: [2]\n")
	filtered, err := buildScene(report, &c, zap.NewNop())
	if err != nil {
		t.Fatalf("build filtered scene: %v", err)
	}
	if filtered.table.Len() != 2 {
		t.Fatalf("expected 2 events after filter, got %d", filtered.table.Len())
	}
	for _, col := range []string{sdd.ColXCenter, sdd.ColYCenter, sdd.ColZCenter} {
		want, got := full.table.MustColumn(col), filtered.table.MustColumn(col)
		for i := range got {
			if got[i] != want[i] {
				t.Fatalf("%s[%d] moved from %v to %v when filtered", col, i, want[i], got[i])
			}
		}
	}
}
