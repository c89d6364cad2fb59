// Package process defines the immutable process model consumed by the
// scheduling engine.
package process

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyID is returned when a process identifier is blank.
	ErrEmptyID = errors.New("process id must not be empty")

	// ErrNonPositiveBurst is returned when a burst time is zero or negative.
	ErrNonPositiveBurst = errors.New("burst time must be positive")
)

// Process is a unit of CPU work that is ready at time 0.
//
// Lower Priority values mean higher precedence. Priority is nil when the
// process was built without one.
type Process struct {
	ID       string `json:"id" yaml:"id"`
	Burst    int    `json:"burst" yaml:"burst"`
	Priority *int   `json:"priority,omitempty" yaml:"priority,omitempty"`
}

// New returns a validated process without a priority.
func New(id string, burst int) (Process, error) {
	p := Process{ID: id, Burst: burst}
	if err := p.Validate(); err != nil {
		return Process{}, err
	}
	return p, nil
}

// NewWithPriority returns a validated process carrying a priority value.
func NewWithPriority(id string, burst, priority int) (Process, error) {
	p, err := New(id, burst)
	if err != nil {
		return Process{}, err
	}
	p.Priority = &priority
	return p, nil
}

// Validate checks the process invariants.
func (p Process) Validate() error {
	if p.ID == "" {
		return ErrEmptyID
	}
	if p.Burst <= 0 {
		return fmt.Errorf("%w (process %q, got %d)", ErrNonPositiveBurst, p.ID, p.Burst)
	}
	return nil
}

// HasPriority reports whether the process carries a priority value.
func (p Process) HasPriority() bool {
	return p.Priority != nil
}

// PriorityValue returns the priority, or 0 when none is set.
func (p Process) PriorityValue() int {
	if p.Priority == nil {
		return 0
	}
	return *p.Priority
}

// WithPriority returns a copy of p with the given priority.
// The receiver is left untouched.
func (p Process) WithPriority(priority int) Process {
	p.Priority = &priority
	return p
}

// String implements fmt.Stringer.
func (p Process) String() string {
	if p.Priority == nil {
		return fmt.Sprintf("%s(burst=%d)", p.ID, p.Burst)
	}
	return fmt.Sprintf("%s(burst=%d, priority=%d)", p.ID, p.Burst, *p.Priority)
}

// Clone returns a copy of the list whose priority pointers are not shared
// with the original.
func Clone(procs []Process) []Process {
	out := make([]Process, len(procs))
	for i, p := range procs {
		if p.Priority != nil {
			prio := *p.Priority
			p.Priority = &prio
		}
		out[i] = p
	}
	return out
}

// TotalBurst returns the sum of all burst times.
func TotalBurst(procs []Process) int {
	total := 0
	for _, p := range procs {
		total += p.Burst
	}
	return total
}

// DuplicateIDs returns the identifiers that appear more than once, in
// first-seen order.
func DuplicateIDs(procs []Process) []string {
	seen := make(map[string]int, len(procs))
	var dups []string
	for _, p := range procs {
		seen[p.ID]++
		if seen[p.ID] == 2 {
			dups = append(dups, p.ID)
		}
	}
	return dups
}
