package runner

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Entry is one worker's latest session summary.
type Entry struct {
	Worker    int    `json:"worker"`
	SessionID string `json:"sessionId"`
	Score     int    `json:"score"`
}

// Best is the highest score observed across all workers in this run.
type Best struct {
	SessionID string `json:"sessionId"`
	Score     int    `json:"score"`
}

// Scoreboard tracks per-worker progress and the global best under one
// mutex. All cross-worker mutation funnels through Record.
type Scoreboard struct {
	mu      sync.Mutex
	runID   string
	workers map[int]Entry
	best    Best
	hasBest bool
}

// NewScoreboard creates an empty scoreboard with a fresh run id.
func NewScoreboard() *Scoreboard {
	return &Scoreboard{
		runID:   uuid.NewString(),
		workers: make(map[int]Entry),
	}
}

// RunID identifies this pool launch in dumps and status responses.
func (s *Scoreboard) RunID() string { return s.runID }

// Record stores the worker's latest (session, score) pair. The global best
// moves only on a strictly greater score, so a best entry never regresses
// to a tie written later.
func (s *Scoreboard) Record(worker int, sessionID string, score int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.workers[worker] = Entry{Worker: worker, SessionID: sessionID, Score: score}
	if !s.hasBest || score > s.best.Score {
		s.best = Best{SessionID: sessionID, Score: score}
		s.hasBest = true
	}
}

// Snapshot is a point-in-time copy of the scoreboard, JSON-ready.
type Snapshot struct {
	RunID   string  `json:"runId"`
	Workers []Entry `json:"workers"`
	Best    *Best   `json:"best,omitempty"`
}

// Snapshot copies the current state; workers are sorted by index.
func (s *Scoreboard) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{RunID: s.runID}
	for _, e := range s.workers {
		snap.Workers = append(snap.Workers, e)
	}
	sort.Slice(snap.Workers, func(i, j int) bool {
		return snap.Workers[i].Worker < snap.Workers[j].Worker
	})
	if s.hasBest {
		best := s.best
		snap.Best = &best
	}
	return snap
}

// Format renders the snapshot as the operator-facing text dump.
func (snap Snapshot) Format() string {
	var b strings.Builder
	fmt.Fprintf(&b, "run %s\n", snap.RunID)
	for _, e := range snap.Workers {
		fmt.Fprintf(&b, "worker %d\tgame %s\tscore %d\n", e.Worker, e.SessionID, e.Score)
	}
	if snap.Best != nil {
		fmt.Fprintf(&b, "best\tgame %s\tscore %d\n", snap.Best.SessionID, snap.Best.Score)
	}
	return b.String()
}
