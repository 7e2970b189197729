package run

import "time"

// Input holds metadata for a file read during a run.
type Input struct {
	ID          string    `json:"id"`
	Path        string    `json:"path"`
	Name        string    `json:"name"`
	Kind        string    `json:"kind"`
	Rows        int       `json:"rows"`
	Columns     []string  `json:"columns"`
	Diagnostics []string  `json:"diagnostics,omitempty"`
	ModTime     time.Time `json:"mod_time"`
}
