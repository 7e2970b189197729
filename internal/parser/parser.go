// Package parser resolves an input path to an event table. SDD reports are
// parsed from scratch; tables saved by an earlier parse are read back as-is.
package parser

import (
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/KaramelBytes/sddviz-cli/internal/normalize"
	"github.com/KaramelBytes/sddviz-cli/internal/table"
)

// Kind names the source that produced a Loaded table.
type Kind string

const (
	KindSDD   Kind = "sdd"
	KindCSV   Kind = "csv"
	KindArrow Kind = "arrow"
)

// Loaded is an event table plus whatever context its source carried.
// Saved tables have no volumes or time scaler.
type Loaded struct {
	Kind        Kind
	Table       *table.Table
	Volumes     []float64
	Diagnostics []string
	TimeScaler  *normalize.Scaler
}

// Source defines a table source implementation.
type Source interface {
	CanLoad(filename string) bool
	Load(path string, log *zap.Logger) (*Loaded, error)
}

var registry []Source

// fallback handles paths no registered source claims.
var fallback Source = sddSource{}

// Register adds a source implementation to the registry.
func Register(s Source) {
	registry = append(registry, s)
}

// LoadFile selects a source based on filename and loads the event table.
func LoadFile(path string, log *zap.Logger) (*Loaded, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("stat input: %w", err)
	}
	for _, s := range registry {
		if s.CanLoad(path) {
			return s.Load(path, log)
		}
	}
	return fallback.Load(path, log)
}

func init() {
	Register(arrowSource{})
	Register(delimitedSource{})
	Register(sddSource{})
}

// ErrEmptyTable indicates a source produced a table without columns.
var ErrEmptyTable = errors.New("table has no columns")
