package scheduler

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// WriteTrace writes one JSON object per interval.
func WriteTrace(w io.Writer, t Trace) error {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	for _, iv := range t {
		if err := enc.Encode(iv); err != nil {
			return fmt.Errorf("failed to encode interval: %w", err)
		}
	}
	return bw.Flush()
}

// ReadTrace reads a trace written by WriteTrace.
func ReadTrace(r io.Reader) (Trace, error) {
	var t Trace
	dec := json.NewDecoder(bufio.NewReader(r))
	for dec.More() {
		var iv Interval
		if err := dec.Decode(&iv); err != nil {
			return nil, fmt.Errorf("failed to decode interval: %w", err)
		}
		t = append(t, iv)
	}
	return t, nil
}

// SaveTrace writes a trace to a JSON-lines file.
func SaveTrace(filename string, t Trace) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create trace file: %w", err)
	}
	if err := WriteTrace(f, t); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// LoadTrace reads a trace from a JSON-lines file.
func LoadTrace(filename string) (Trace, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open trace file: %w", err)
	}
	defer f.Close()
	return ReadTrace(f)
}
