package game

import (
	"compress/gzip"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/magefree/goldfish/internal/game/rules"
)

// journalVersion is bumped whenever JournalEntry changes shape.
const journalVersion = 1

// JournalEntry is one resolved pending effect.
type JournalEntry struct {
	Turn   int
	Phase  string
	Effect rules.PendingEffect
}

// Journal records every pending effect a trial resolves, in order, and can
// be stepped through for debugging.
type Journal struct {
	Trial        int
	Seed         uint64
	Entries      []JournalEntry
	CurrentIndex int
}

// NewJournal creates an empty journal for one trial.
func NewJournal(trial int, seed uint64) *Journal {
	return &Journal{Trial: trial, Seed: seed}
}

// Record appends a resolved effect.
func (j *Journal) Record(turn int, phase string, pe rules.PendingEffect) {
	j.Entries = append(j.Entries, JournalEntry{Turn: turn, Phase: phase, Effect: pe})
}

// Start rewinds to the first entry.
func (j *Journal) Start() {
	j.CurrentIndex = 0
}

// Next returns the entry at the cursor and advances it.
func (j *Journal) Next() *JournalEntry {
	if j.CurrentIndex < len(j.Entries) {
		entry := &j.Entries[j.CurrentIndex]
		j.CurrentIndex++
		return entry
	}
	return nil
}

// Previous moves the cursor back one entry and returns it.
func (j *Journal) Previous() *JournalEntry {
	if j.CurrentIndex > 0 {
		j.CurrentIndex--
		return &j.Entries[j.CurrentIndex]
	}
	return nil
}

// Skip moves the cursor by count entries, clamped to the journal.
func (j *Journal) Skip(count int) *JournalEntry {
	if len(j.Entries) == 0 {
		return nil
	}
	j.CurrentIndex = max(0, min(j.CurrentIndex+count, len(j.Entries)-1))
	return &j.Entries[j.CurrentIndex]
}

// Size returns the number of entries.
func (j *Journal) Size() int {
	return len(j.Entries)
}

// At returns the entry at index or nil.
func (j *Journal) At(index int) *JournalEntry {
	if index >= 0 && index < len(j.Entries) {
		return &j.Entries[index]
	}
	return nil
}

// ForTurn returns the entries of one turn.
func (j *Journal) ForTurn(turn int) []JournalEntry {
	var out []JournalEntry
	for _, e := range j.Entries {
		if e.Turn == turn {
			out = append(out, e)
		}
	}
	return out
}

// journalMetadata heads a saved journal.
type journalMetadata struct {
	Trial      int
	Seed       uint64
	Timestamp  time.Time
	Version    int
	EntryCount int
}

// SaveToFile writes the journal to path as gzip-compressed gob.
func (j *Journal) SaveToFile(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	gzipWriter := gzip.NewWriter(file)
	encoder := gob.NewEncoder(gzipWriter)

	metadata := journalMetadata{
		Trial:      j.Trial,
		Seed:       j.Seed,
		Timestamp:  time.Now(),
		Version:    journalVersion,
		EntryCount: len(j.Entries),
	}
	if err := encoder.Encode(&metadata); err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}
	for i := range j.Entries {
		if err := encoder.Encode(&j.Entries[i]); err != nil {
			return fmt.Errorf("failed to encode entry %d: %w", i, err)
		}
	}
	if err := gzipWriter.Close(); err != nil {
		return fmt.Errorf("failed to flush journal: %w", err)
	}
	return nil
}

// LoadJournal reads a journal written by SaveToFile.
func LoadJournal(path string) (*Journal, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	gzipReader, err := gzip.NewReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gzipReader.Close()

	decoder := gob.NewDecoder(gzipReader)

	var metadata journalMetadata
	if err := decoder.Decode(&metadata); err != nil {
		return nil, fmt.Errorf("failed to decode metadata: %w", err)
	}
	if metadata.Version != journalVersion {
		return nil, fmt.Errorf("unsupported journal version: %d", metadata.Version)
	}

	j := NewJournal(metadata.Trial, metadata.Seed)
	for i := 0; i < metadata.EntryCount; i++ {
		var entry JournalEntry
		if err := decoder.Decode(&entry); err != nil {
			return nil, fmt.Errorf("failed to decode entry %d: %w", i, err)
		}
		j.Entries = append(j.Entries, entry)
	}
	return j, nil
}
