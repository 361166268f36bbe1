package sim

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/magefree/goldfish/internal/metrics"
)

// BatchState represents the state of a batch
type BatchState int

const (
	BatchStateWaiting BatchState = iota
	BatchStateRunning
	BatchStateFinished
	BatchStateCancelled
)

func (s BatchState) String() string {
	switch s {
	case BatchStateWaiting:
		return "WAITING"
	case BatchStateRunning:
		return "RUNNING"
	case BatchStateFinished:
		return "FINISHED"
	case BatchStateCancelled:
		return "CANCELLED"
	default:
		return "UNKNOWN"
	}
}

// Batch tracks one run of many trials of a deck. Workers report into it
// concurrently.
type Batch struct {
	ID         string
	Deck       string
	Trials     int
	Seed       uint64
	State      BatchState
	Completed  int
	Wins       int
	Aborted    int
	CreateTime time.Time
	StartTime  *time.Time
	EndTime    *time.Time
	mu         sync.RWMutex
}

// BatchSnapshot is a consistent copy of a batch.
type BatchSnapshot struct {
	ID         string     `json:"id"`
	Deck       string     `json:"deck"`
	Trials     int        `json:"trials"`
	Seed       uint64     `json:"seed"`
	State      string     `json:"state"`
	Completed  int        `json:"completed"`
	Wins       int        `json:"wins"`
	Aborted    int        `json:"aborted"`
	CreateTime time.Time  `json:"create_time"`
	StartTime  *time.Time `json:"start_time,omitempty"`
	EndTime    *time.Time `json:"end_time,omitempty"`
}

// NewBatch creates a waiting batch
func NewBatch(deck string, trials int, seed uint64) *Batch {
	return &Batch{
		ID:         uuid.New().String(),
		Deck:       deck,
		Trials:     trials,
		Seed:       seed,
		State:      BatchStateWaiting,
		CreateTime: time.Now(),
	}
}

// SetState sets the batch state
func (b *Batch) SetState(state BatchState) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.State = state

	if state == BatchStateRunning && b.StartTime == nil {
		now := time.Now()
		b.StartTime = &now
	} else if state == BatchStateFinished || state == BatchStateCancelled {
		now := time.Now()
		b.EndTime = &now
	}
}

// GetState returns the current batch state
func (b *Batch) GetState() BatchState {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.State
}

// record counts a finished trial and returns how many are done.
func (b *Batch) record(r metrics.TrialRecord) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.Completed++
	switch r.Outcome {
	case metrics.OutcomeWin:
		b.Wins++
	case metrics.OutcomeAborted:
		b.Aborted++
	}
	return b.Completed
}

// Snapshot returns a consistent copy of the batch state.
func (b *Batch) Snapshot() BatchSnapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return BatchSnapshot{
		ID:         b.ID,
		Deck:       b.Deck,
		Trials:     b.Trials,
		Seed:       b.Seed,
		State:      b.State.String(),
		Completed:  b.Completed,
		Wins:       b.Wins,
		Aborted:    b.Aborted,
		CreateTime: b.CreateTime,
		StartTime:  cloneTime(b.StartTime),
		EndTime:    cloneTime(b.EndTime),
	}
}

func cloneTime(src *time.Time) *time.Time {
	if src == nil {
		return nil
	}
	cp := *src
	return &cp
}
