package cli

import (
	"strings"
	"sync"
)

// LogWriter is an io.Writer that diverts log output into a ring buffer so a
// TUI can show it instead of letting it tear the screen. New lines are also
// announced on a channel.
type LogWriter struct {
	mu    sync.Mutex
	lines []string
	head  int
	full  bool
	ch    chan string
}

// NewLogWriter returns a writer retaining the last maxLines lines.
func NewLogWriter(maxLines int) *LogWriter {
	if maxLines <= 0 {
		maxLines = 1
	}
	return &LogWriter{
		lines: make([]string, maxLines),
		ch:    make(chan string, 100),
	}
}

// Write records p line by line. A single call may carry several newline
// separated lines; each is stored and announced separately.
func (w *LogWriter) Write(p []byte) (n int, err error) {
	text := strings.TrimRight(string(p), "\n")
	for _, line := range strings.Split(text, "\n") {
		w.mu.Lock()
		w.lines[w.head] = line
		w.head = (w.head + 1) % len(w.lines)
		if w.head == 0 {
			w.full = true
		}
		w.mu.Unlock()

		// 通知满了就丢，日志不值得阻塞写入方
		select {
		case w.ch <- line:
		default:
		}
	}
	return len(p), nil
}

// Lines returns the buffered lines, oldest first.
func (w *LogWriter) Lines() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.full {
		out := make([]string, w.head)
		copy(out, w.lines[:w.head])
		return out
	}
	out := make([]string, 0, len(w.lines))
	out = append(out, w.lines[w.head:]...)
	out = append(out, w.lines[:w.head]...)
	return out
}

// Channel exposes the stream of newly written lines.
func (w *LogWriter) Channel() <-chan string {
	return w.ch
}
