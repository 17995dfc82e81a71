// Package journal keeps a rolling buffer of gameplay events so operators can
// pull a recent history of deliveries, mission changes, and mode switches
// without standing up external storage.
package journal

import (
	"encoding/json"
	"io"
	"sync"
	"time"

	"github.com/klauspost/compress/gzip"
)

// Entry is one recorded gameplay event.
type Entry struct {
	Tick    uint64         `json:"tick"`
	Time    time.Time      `json:"time"`
	Type    string         `json:"type"`
	Player  string         `json:"player,omitempty"`
	Payload map[string]any `json:"payload,omitempty"`
}

// Eviction notes an entry dropped while enforcing retention.
type Eviction struct {
	Tick   uint64
	Reason string
}

// RecordResult reports the buffer window after a record.
type RecordResult struct {
	Size       int
	OldestTick uint64
	NewestTick uint64
	Evicted    []Eviction
}

// Journal accumulates entries with retention limits by count and age.
type Journal struct {
	mu         sync.RWMutex
	entries    []Entry
	maxEntries int
	maxAge     time.Duration
	now        func() time.Time
}

// New constructs a journal retaining up to capacity entries no older than
// maxAge. Zero capacity disables recording; zero maxAge disables age pruning.
func New(capacity int, maxAge time.Duration) *Journal {
	if capacity < 0 {
		capacity = 0
	}
	if maxAge < 0 {
		maxAge = 0
	}
	return &Journal{
		entries:    make([]Entry, 0, capacity),
		maxEntries: capacity,
		maxAge:     maxAge,
		now:        time.Now,
	}
}

// Record appends an entry, stamping its time, and enforces retention.
func (j *Journal) Record(entry Entry) RecordResult {
	if j == nil {
		return RecordResult{}
	}
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.maxEntries == 0 {
		j.entries = j.entries[:0]
		return RecordResult{}
	}

	if entry.Time.IsZero() {
		entry.Time = j.now()
	}
	j.entries = append(j.entries, cloneEntry(entry))

	evicted := make([]Eviction, 0)
	if j.maxAge > 0 {
		cutoff := entry.Time.Add(-j.maxAge)
		idx := 0
		for idx < len(j.entries) {
			if !j.entries[idx].Time.Before(cutoff) {
				break
			}
			evicted = append(evicted, Eviction{Tick: j.entries[idx].Tick, Reason: "expired"})
			idx++
		}
		if idx > 0 {
			copy(j.entries, j.entries[idx:])
			j.entries = j.entries[:len(j.entries)-idx]
		}
	}

	if overflow := len(j.entries) - j.maxEntries; overflow > 0 {
		for i := 0; i < overflow; i++ {
			evicted = append(evicted, Eviction{Tick: j.entries[i].Tick, Reason: "count"})
		}
		copy(j.entries, j.entries[overflow:])
		j.entries = j.entries[:len(j.entries)-overflow]
	}

	result := RecordResult{Size: len(j.entries), Evicted: evicted}
	if result.Size > 0 {
		result.OldestTick = j.entries[0].Tick
		result.NewestTick = j.entries[result.Size-1].Tick
	}
	return result
}

// Entries returns a chronological copy of the buffer.
func (j *Journal) Entries() []Entry {
	if j == nil {
		return nil
	}
	j.mu.RLock()
	defer j.mu.RUnlock()
	if len(j.entries) == 0 {
		return nil
	}
	copied := make([]Entry, len(j.entries))
	for i, entry := range j.entries {
		copied[i] = cloneEntry(entry)
	}
	return copied
}

// Len reports the number of retained entries.
func (j *Journal) Len() int {
	if j == nil {
		return 0
	}
	j.mu.RLock()
	defer j.mu.RUnlock()
	return len(j.entries)
}

// Window reports the retained tick range.
func (j *Journal) Window() (size int, oldest, newest uint64) {
	if j == nil {
		return 0, 0, 0
	}
	j.mu.RLock()
	defer j.mu.RUnlock()
	size = len(j.entries)
	if size == 0 {
		return size, 0, 0
	}
	return size, j.entries[0].Tick, j.entries[size-1].Tick
}

// ExportGzip streams the buffer as gzip-compressed newline-delimited JSON.
func (j *Journal) ExportGzip(w io.Writer) error {
	entries := j.Entries()
	zw := gzip.NewWriter(w)
	enc := json.NewEncoder(zw)
	for _, entry := range entries {
		if err := enc.Encode(entry); err != nil {
			zw.Close()
			return err
		}
	}
	return zw.Close()
}

func cloneEntry(entry Entry) Entry {
	cloned := entry
	if entry.Payload != nil {
		copied := make(map[string]any, len(entry.Payload))
		for k, v := range entry.Payload {
			copied[k] = v
		}
		cloned.Payload = copied
	}
	return cloned
}
