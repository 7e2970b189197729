package parser

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/KaramelBytes/sddviz-cli/internal/sdd"
	"github.com/KaramelBytes/sddviz-cli/internal/table"
)

type sddSource struct{}

func (sddSource) CanLoad(filename string) bool {
	name := strings.ToLower(filename)
	return strings.HasSuffix(name, ".sdd") || strings.HasSuffix(name, ".txt")
}

func (sddSource) Load(path string, log *zap.Logger) (*Loaded, error) {
	r, err := sdd.Open(path, sdd.WithLogger(log))
	if err != nil {
		return nil, err
	}
	t, err := r.Parse()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	out := &Loaded{Kind: KindSDD, Table: t, Volumes: r.Volumes(), Diagnostics: r.Diagnostics()}
	if ts, ok := r.TimeScaler(); ok {
		out.TimeScaler = &ts
	}
	return out, nil
}

type delimitedSource struct{}

func (delimitedSource) CanLoad(filename string) bool {
	switch table.FormatFromPath(filename) {
	case table.FormatTSV:
		return true
	case table.FormatCSV:
		return strings.HasSuffix(strings.ToLower(filename), ".csv")
	}
	return false
}

func (delimitedSource) Load(path string, log *zap.Logger) (*Loaded, error) {
	return loadSaved(path, KindCSV, log)
}

type arrowSource struct{}

func (arrowSource) CanLoad(filename string) bool {
	return table.FormatFromPath(filename) == table.FormatArrow
}

func (arrowSource) Load(path string, log *zap.Logger) (*Loaded, error) {
	return loadSaved(path, KindArrow, log)
}

func loadSaved(path string, kind Kind, log *zap.Logger) (*Loaded, error) {
	t, err := table.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if t.Empty() {
		return nil, fmt.Errorf("%s: %w", path, ErrEmptyTable)
	}
	log.Debug("loaded saved table", zap.String("path", path), zap.String("kind", string(kind)), zap.Int("rows", t.Len()))
	return &Loaded{Kind: kind, Table: t}, nil
}
