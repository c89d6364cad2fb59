package process

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseError describes a malformed comma-separated input field.
type ParseError struct {
	Field   string // "ids", "bursts" or "priorities"
	Index   int    // position in the list, -1 for whole-list problems
	Value   string
	Message string
}

func (e *ParseError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("%s[%d]: %s (got %q)", e.Field, e.Index, e.Message, e.Value)
}

// ParseList builds a process list from comma-separated identifiers, burst
// times and optional priorities. An empty priorities string means no
// process carries a priority.
func ParseList(ids, bursts, priorities string) ([]Process, error) {
	idList := splitList(ids)
	if len(idList) == 0 {
		return nil, &ParseError{Field: "ids", Index: -1, Message: "at least one process is required"}
	}

	burstList, err := parseInts("bursts", bursts)
	if err != nil {
		return nil, err
	}
	if len(burstList) != len(idList) {
		return nil, &ParseError{
			Field:   "bursts",
			Index:   -1,
			Message: fmt.Sprintf("expected %d values, got %d", len(idList), len(burstList)),
		}
	}

	var prioList []int
	if strings.TrimSpace(priorities) != "" {
		prioList, err = parseInts("priorities", priorities)
		if err != nil {
			return nil, err
		}
		if len(prioList) != len(idList) {
			return nil, &ParseError{
				Field:   "priorities",
				Index:   -1,
				Message: fmt.Sprintf("expected %d values, got %d", len(idList), len(prioList)),
			}
		}
	}

	procs := make([]Process, len(idList))
	for i, id := range idList {
		if id == "" {
			return nil, &ParseError{Field: "ids", Index: i, Value: id, Message: "must not be empty"}
		}
		if burstList[i] <= 0 {
			return nil, &ParseError{Field: "bursts", Index: i, Value: strconv.Itoa(burstList[i]), Message: "must be positive"}
		}
		procs[i] = Process{ID: id, Burst: burstList[i]}
		if prioList != nil {
			procs[i] = procs[i].WithPriority(prioList[i])
		}
	}
	return procs, nil
}

// ParseInts parses a comma-separated list of integers. An empty string
// yields a nil slice.
func ParseInts(field, s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	return parseInts(field, s)
}

func parseInts(field, s string) ([]int, error) {
	parts := splitList(s)
	out := make([]int, len(parts))
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, &ParseError{Field: field, Index: i, Value: part, Message: "not an integer"}
		}
		out[i] = n
	}
	return out, nil
}

// splitList splits on commas and trims whitespace. A blank input returns
// nil; blank elements in a non-blank input are kept so callers can report
// their position.
func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
