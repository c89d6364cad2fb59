package logging

import (
	"bytes"
	"io"
	"sync"
)

const (
	// MaxLineLength is the maximum length of a single log line before truncation.
	MaxLineLength = 4096

	// MaxBufferedLines is the number of lines a LineBuffer retains.
	MaxBufferedLines = 100
)

// LineBuffer is an io.Writer that keeps the most recent log lines in a
// circular buffer. The interactive replay owns the terminal while it runs,
// so its logger writes here and the lines are flushed once it exits.
type LineBuffer struct {
	mu      sync.Mutex
	buffer  []string
	bufIdx  int
	total   int
	partial []byte
}

// NewLineBuffer creates an empty LineBuffer.
func NewLineBuffer() *LineBuffer {
	return &LineBuffer{buffer: make([]string, MaxBufferedLines)}
}

// Write splits p on newlines and stores each complete line. A trailing
// fragment is held until the next Write.
func (b *LineBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	data := append(b.partial, p...)
	for {
		i := bytes.IndexByte(data, '\n')
		if i < 0 {
			break
		}
		b.store(string(data[:i]))
		data = data[i+1:]
	}
	b.partial = append([]byte(nil), data...)
	return len(p), nil
}

func (b *LineBuffer) store(line string) {
	if len(line) > MaxLineLength {
		line = line[:MaxLineLength] + "...(truncated)"
	}
	b.buffer[b.bufIdx] = line
	b.bufIdx = (b.bufIdx + 1) % MaxBufferedLines
	b.total++
}

// Len returns the number of lines currently retained.
func (b *LineBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return min(b.total, MaxBufferedLines)
}

// RecentLines returns up to n of the most recent lines, oldest first.
func (b *LineBuffer) RecentLines(n int) []string {
	b.mu.Lock()
	defer b.mu.Unlock()

	n = min(n, b.total, MaxBufferedLines)
	lines := make([]string, 0, n)
	for i := 0; i < n; i++ {
		idx := (b.bufIdx - n + i + MaxBufferedLines) % MaxBufferedLines
		lines = append(lines, b.buffer[idx])
	}
	return lines
}

// Flush writes every retained line to w and empties the buffer.
func (b *LineBuffer) Flush(w io.Writer) error {
	lines := b.RecentLines(MaxBufferedLines)

	b.mu.Lock()
	b.total = 0
	b.bufIdx = 0
	b.mu.Unlock()

	for _, line := range lines {
		if _, err := io.WriteString(w, line+"\n"); err != nil {
			return err
		}
	}
	return nil
}
