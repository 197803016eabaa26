// Package history keeps recently submitted filter texts for Up/Down recall.
package history

// Capacity is the number of entries kept.
const Capacity = 20

// Direction moves the recall cursor.
type Direction int

const (
	Older Direction = -1
	Newer Direction = 1
)

// Buffer is a bounded list of past filters, oldest first, plus a recall
// cursor. A cursor of -1 means "not navigating". Not safe for concurrent use.
type Buffer struct {
	entries []string
	cursor  int
}

// New returns an empty buffer.
func New() *Buffer {
	return &Buffer{cursor: -1}
}

// Restore replaces the contents with entries (oldest first), keeping only
// the newest Capacity.
func (b *Buffer) Restore(entries []string) {
	if len(entries) > Capacity {
		entries = entries[len(entries)-Capacity:]
	}
	b.entries = append([]string(nil), entries...)
	b.cursor = -1
}

// Record appends text unless it is empty or equal to the newest entry.
// The oldest entry is evicted beyond Capacity. The cursor is reset either
// way. Reports whether the buffer changed.
func (b *Buffer) Record(text string) bool {
	b.cursor = -1
	if text == "" {
		return false
	}
	if n := len(b.entries); n > 0 && b.entries[n-1] == text {
		return false
	}
	b.entries = append(b.entries, text)
	if len(b.entries) > Capacity {
		b.entries = append([]string(nil), b.entries[len(b.entries)-Capacity:]...)
	}
	return true
}

// Navigate moves the cursor and returns the entry under it. Starting from
// the reset state the cursor begins just past the newest entry, so the
// first Older step lands on the newest one. The cursor clamps at both ends.
func (b *Buffer) Navigate(d Direction) (string, bool) {
	n := len(b.entries)
	if n == 0 {
		return "", false
	}
	if b.cursor == -1 {
		b.cursor = n
	}
	b.cursor += int(d)
	if b.cursor < 0 {
		b.cursor = 0
	}
	if b.cursor > n-1 {
		b.cursor = n - 1
	}
	return b.entries[b.cursor], true
}

// Reset drops the cursor back to "not navigating".
func (b *Buffer) Reset() {
	b.cursor = -1
}

// Cursor returns the recall position, or -1.
func (b *Buffer) Cursor() int { return b.cursor }

// Entries returns a copy of the entries, oldest first.
func (b *Buffer) Entries() []string {
	return append([]string(nil), b.entries...)
}

// Len returns the number of entries.
func (b *Buffer) Len() int { return len(b.entries) }
