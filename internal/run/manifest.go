// Package run records what a command read and wrote in a run.json manifest
// next to its outputs.
package run

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/KaramelBytes/sddviz-cli/internal/parser"
	"github.com/KaramelBytes/sddviz-cli/internal/utils"
)

const manifestFileName = "run.json"

// Manifest describes one command invocation persisted on disk.
type Manifest struct {
	ID        string            `json:"id"`
	Command   string            `json:"command"`
	Inputs    map[string]*Input `json:"inputs"`
	Outputs   []string          `json:"outputs"`
	Failed    []int             `json:"failed_frames,omitempty"`
	Errors    []string          `json:"errors,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`

	// Not serialized: directory holding run.json
	rootDir string `json:"-"`
}

// New constructs an in-memory manifest. Call Save() to persist.
func New(command, rootDir string) *Manifest {
	return &Manifest{
		ID:        uuid.NewString(),
		Command:   command,
		Inputs:    make(map[string]*Input),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
		rootDir:   rootDir,
	}
}

// Load reads run.json from dir.
func Load(dir string) (*Manifest, error) {
	path := filepath.Join(dir, manifestFileName)
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("manifest not found at %s: %w", path, err)
		}
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	m.rootDir = dir
	return &m, nil
}

// RootDir returns the directory run.json lives in.
func (m *Manifest) RootDir() string { return m.rootDir }

// Save writes run.json using atomic write.
func (m *Manifest) Save() error {
	if m.rootDir == "" {
		return errors.New("manifest directory not set")
	}
	if err := utils.EnsureDir(m.rootDir); err != nil {
		return fmt.Errorf("ensure dir: %w", err)
	}
	m.UpdatedAt = time.Now()
	data, err := utils.PrettyJSON(m)
	if err != nil {
		return err
	}
	return utils.SafeWriteFile(filepath.Join(m.rootDir, manifestFileName), data)
}

// AddInput records a loaded input and returns its id.
func (m *Manifest) AddInput(path string, l *parser.Loaded) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("stat input: %w", err)
	}
	in := &Input{
		ID:          uuid.NewString(),
		Path:        path,
		Name:        filepath.Base(path),
		Kind:        string(l.Kind),
		Rows:        l.Table.Len(),
		Columns:     l.Table.Names(),
		Diagnostics: l.Diagnostics,
		ModTime:     info.ModTime(),
	}
	if m.Inputs == nil {
		m.Inputs = make(map[string]*Input)
	}
	m.Inputs[in.ID] = in
	m.UpdatedAt = time.Now()
	return in.ID, nil
}

// AddOutput records paths written by the run.
func (m *Manifest) AddOutput(paths ...string) {
	m.Outputs = append(m.Outputs, paths...)
	m.UpdatedAt = time.Now()
}

// Fail records frame numbers that were not written and the error behind them.
func (m *Manifest) Fail(frames []int, err error) {
	m.Failed = append(m.Failed, frames...)
	if err != nil {
		m.Errors = append(m.Errors, err.Error())
	}
	m.UpdatedAt = time.Now()
}

// Summary renders the manifest as the sectioned text printed after a run.
func (m *Manifest) Summary() string {
	var sb strings.Builder
	sb.WriteString("[RUN]\n")
	sb.WriteString(fmt.Sprintf("%s (%s)\n\n", m.Command, m.ID))

	sb.WriteString("[INPUTS]\n")
	ids := make([]string, 0, len(m.Inputs))
	for id := range m.Inputs {
		ids = append(ids, id)
	}
	// deterministic order by file name
	sort.Slice(ids, func(i, j int) bool { return m.Inputs[ids[i]].Path < m.Inputs[ids[j]].Path })
	for _, id := range ids {
		in := m.Inputs[id]
		sb.WriteString(fmt.Sprintf("--- %s (%s, %d rows, %d columns) ---\n", in.Name, in.Kind, in.Rows, len(in.Columns)))
		for _, d := range in.Diagnostics {
			sb.WriteString("  ⚠ ")
			sb.WriteString(d)
			sb.WriteString("\n")
		}
	}

	sb.WriteString("\n[OUTPUTS]\n")
	for _, o := range m.Outputs {
		sb.WriteString("- ")
		sb.WriteString(o)
		sb.WriteString("\n")
	}
	if len(m.Failed) > 0 || len(m.Errors) > 0 {
		sb.WriteString("\n[FAILURES]\n")
		if len(m.Failed) > 0 {
			sb.WriteString(fmt.Sprintf("frames: %v\n", m.Failed))
		}
		for _, e := range m.Errors {
			sb.WriteString("- ")
			sb.WriteString(e)
			sb.WriteString("\n")
		}
	}
	return sb.String()
}
