// Package journal is an append-only, strictly ordered log of human-readable
// operation descriptions.
package journal

import (
	"sync"
	"time"

	"github.com/brettbedarf/nsim/internal/util"
)

// Entry is one immutable journal record.
type Entry struct {
	Seq  uint64    // 1-based position in the journal
	Time time.Time // When the entry was recorded
	Text string    // Human-readable description of the completed operation
}

func (e Entry) String() string {
	return e.Text
}

// Journal records entries in order. Entries are never edited or removed.
// The zero value is ready to use.
type Journal struct {
	entries []Entry
	mu      sync.RWMutex // Protects entries
	now     func() time.Time
}

// New returns an empty Journal.
func New() *Journal {
	return &Journal{}
}

// Record appends text unconditionally and returns the stored entry.
func (j *Journal) Record(text string) Entry {
	j.mu.Lock()
	e := Entry{
		Seq:  uint64(len(j.entries)) + 1,
		Time: j.clock(),
		Text: text,
	}
	j.entries = append(j.entries, e)
	j.mu.Unlock()

	logger := util.GetLogger("Journal")
	logger.Trace().Uint64("seq", e.Seq).Str("text", text).Msg("Recorded entry")
	return e
}

// Entries returns a snapshot of all entry texts in recording order.
func (j *Journal) Entries() []string {
	j.mu.RLock()
	defer j.mu.RUnlock()
	texts := make([]string, len(j.entries))
	for i, e := range j.entries {
		texts[i] = e.Text
	}
	return texts
}

// Records returns a snapshot of all entries in recording order.
func (j *Journal) Records() []Entry {
	j.mu.RLock()
	defer j.mu.RUnlock()
	out := make([]Entry, len(j.entries))
	copy(out, j.entries)
	return out
}

// Len returns the number of recorded entries.
func (j *Journal) Len() int {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return len(j.entries)
}

func (j *Journal) clock() time.Time {
	if j.now != nil {
		return j.now()
	}
	return time.Now()
}
