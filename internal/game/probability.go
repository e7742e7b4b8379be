package game

import (
	"errors"
	"strings"
)

// ErrUnknownProbability is returned for a probability label that is not in
// the fixed table.
var ErrUnknownProbability = errors.New("unknown probability label")

// probabilityEntry pairs a label with its raw safety score. One ordered
// table feeds both lookup directions so the normalization bounds cannot
// drift from the raw scores.
type probabilityEntry struct {
	label string
	raw   float64
}

// Eleven labels the server has been observed to use, safest first. The raw
// scores are tuned constants; ordering is what matters.
var probabilityTable = []probabilityEntry{
	{"Piece of cake", 95},
	{"Walk in the park", 90},
	{"Sure thing", 85},
	{"Quite likely", 70},
	{"Hmmm....", 50},
	{"Gamble", 45},
	{"Risky", 35},
	{"Rather detrimental", 25},
	{"Playing with fire", 15},
	{"Suicide mission", 5},
	{"Impossible", 0},
}

// rawScore returns the unnormalized safety score for a label,
// case-insensitively.
func rawScore(label string) (float64, error) {
	for _, e := range probabilityTable {
		if strings.EqualFold(e.label, label) {
			return e.raw, nil
		}
	}
	return 0, ErrUnknownProbability
}

// Risk maps a probability label to [0,1], where 1 is the safest label in
// the table and 0 the most dangerous.
func Risk(label string) (float64, error) {
	raw, err := rawScore(label)
	if err != nil {
		return 0, err
	}
	lo, hi := probabilityBounds()
	return (raw - lo) / (hi - lo), nil
}

func probabilityBounds() (lo, hi float64) {
	lo, hi = probabilityTable[0].raw, probabilityTable[0].raw
	for _, e := range probabilityTable[1:] {
		if e.raw < lo {
			lo = e.raw
		}
		if e.raw > hi {
			hi = e.raw
		}
	}
	return lo, hi
}
