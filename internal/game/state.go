package game

// State is an immutable snapshot of a session, used by strategies for
// decisions and by the event log as a training signal.
type State struct {
	Score         int
	Lives         int
	Gold          int
	Level         int
	RepPeople     float64
	RepState      float64
	RepUnderworld float64
	Turn          int

	// Items maps owned item id to count.
	Items map[string]int
}

// StateDiff is the per-field arithmetic difference between two snapshots.
// It feeds training and logging, never control flow.
type StateDiff struct {
	Score         int
	Lives         int
	Gold          int
	Level         int
	RepPeople     float64
	RepState      float64
	RepUnderworld float64
	Turn          int
}

// Diff returns s - prev, field by field.
func (s State) Diff(prev State) StateDiff {
	return StateDiff{
		Score:         s.Score - prev.Score,
		Lives:         s.Lives - prev.Lives,
		Gold:          s.Gold - prev.Gold,
		Level:         s.Level - prev.Level,
		RepPeople:     s.RepPeople - prev.RepPeople,
		RepState:      s.RepState - prev.RepState,
		RepUnderworld: s.RepUnderworld - prev.RepUnderworld,
		Turn:          s.Turn - prev.Turn,
	}
}
