// Package workload loads process sets from CSV or YAML files.
//
// CSV rows are "id,burst[,priority]" with an optional header row. YAML
// files may also carry a default algorithm and quantum:
//
//	algorithm: rr
//	quantum: 2
//	processes:
//	  - {id: A, burst: 5, priority: 1}
//	  - {id: B, burst: 3}
package workload

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/randomizedcoder/go-cpusched/internal/process"
)

// ErrUnsupportedFormat is returned for file extensions other than
// .csv, .yaml and .yml.
var ErrUnsupportedFormat = errors.New("unsupported workload format")

// ErrNoProcesses is returned when a workload file lists no processes.
var ErrNoProcesses = errors.New("workload has no processes")

// Workload is a process set plus optional default scheduling parameters.
type Workload struct {
	Algorithm string            `yaml:"algorithm,omitempty" json:"algorithm,omitempty"`
	Quantum   int               `yaml:"quantum,omitempty" json:"quantum,omitempty"`
	Processes []process.Process `yaml:"processes" json:"processes"`
}

// Priorities returns the carried priority list, or nil when no process
// has one.
func (w *Workload) Priorities() []int {
	var prios []int
	for i, p := range w.Processes {
		if !p.HasPriority() {
			continue
		}
		if prios == nil {
			prios = make([]int, len(w.Processes))
		}
		prios[i] = p.PriorityValue()
	}
	return prios
}

// Load reads a workload file, choosing the parser by extension.
func Load(path string) (*Workload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read workload %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return ParseCSV(bytes.NewReader(data))
	case ".yaml", ".yml":
		return ParseYAML(bytes.NewReader(data))
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// ParseYAML decodes a YAML workload. Unknown keys are rejected.
func ParseYAML(r io.Reader) (*Workload, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var w Workload
	if err := dec.Decode(&w); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoProcesses
		}
		return nil, fmt.Errorf("parse yaml workload: %w", err)
	}
	if err := w.validate(); err != nil {
		return nil, err
	}
	return &w, nil
}

// ParseCSV reads "id,burst[,priority]" rows. Blank lines and lines
// starting with '#' are skipped. A first row whose burst column is the
// literal "burst" is treated as a header.
func ParseCSV(r io.Reader) (*Workload, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv workload: %w", err)
	}

	if len(rows) > 0 && len(rows[0]) >= 2 && strings.EqualFold(strings.TrimSpace(rows[0][1]), "burst") {
		rows = rows[1:]
	}

	w := &Workload{Processes: make([]process.Process, 0, len(rows))}
	for i, row := range rows {
		if len(row) < 2 || len(row) > 3 {
			return nil, fmt.Errorf("csv row %d: expected 2 or 3 columns, got %d", i+1, len(row))
		}
		burst, err := strconv.Atoi(strings.TrimSpace(row[1]))
		if err != nil {
			return nil, fmt.Errorf("csv row %d: burst %q is not an integer", i+1, row[1])
		}
		p := process.Process{ID: strings.TrimSpace(row[0]), Burst: burst}
		if len(row) == 3 && strings.TrimSpace(row[2]) != "" {
			prio, err := strconv.Atoi(strings.TrimSpace(row[2]))
			if err != nil {
				return nil, fmt.Errorf("csv row %d: priority %q is not an integer", i+1, row[2])
			}
			p = p.WithPriority(prio)
		}
		w.Processes = append(w.Processes, p)
	}

	if err := w.validate(); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *Workload) validate() error {
	if len(w.Processes) == 0 {
		return ErrNoProcesses
	}
	for i, p := range w.Processes {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("process %d: %w", i, err)
		}
	}
	if w.Quantum < 0 {
		return fmt.Errorf("quantum must not be negative (got %d)", w.Quantum)
	}
	return nil
}
