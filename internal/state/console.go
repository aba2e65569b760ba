// internal/state/console.go
package state

import "strings"

const maxConsoleHistory = 32

// console is the single-line debug command editor.
type console struct {
	open    bool
	buf     []rune
	history []string
	cursor  int // index into history while browsing; len(history) when editing
	lastErr string
}

func (c *console) Toggle() {
	c.open = !c.open
	c.buf = c.buf[:0]
	c.cursor = len(c.history)
}

// Type appends printable runes. The toggle key itself is never inserted.
func (c *console) Type(runes []rune) {
	for _, r := range runes {
		if r == '`' || r < 0x20 {
			continue
		}
		c.buf = append(c.buf, r)
	}
}

func (c *console) Backspace() {
	if len(c.buf) > 0 {
		c.buf = c.buf[:len(c.buf)-1]
	}
}

// Submit returns the trimmed line and clears the editor. Blank lines are
// not recorded.
func (c *console) Submit() (string, bool) {
	line := strings.TrimSpace(string(c.buf))
	c.buf = c.buf[:0]
	if line == "" {
		return "", false
	}
	c.history = append(c.history, line)
	if len(c.history) > maxConsoleHistory {
		c.history = c.history[len(c.history)-maxConsoleHistory:]
	}
	c.cursor = len(c.history)
	return line, true
}

// Recall steps through history; dir is -1 for older and +1 for newer.
func (c *console) Recall(dir int) {
	if len(c.history) == 0 {
		return
	}
	c.cursor += dir
	switch {
	case c.cursor < 0:
		c.cursor = 0
	case c.cursor >= len(c.history):
		c.cursor = len(c.history)
		c.buf = c.buf[:0]
		return
	}
	c.buf = append(c.buf[:0], []rune(c.history[c.cursor])...)
}

func (c *console) Line() string {
	return string(c.buf)
}
