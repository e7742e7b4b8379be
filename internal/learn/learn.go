// Package learn derives a cost table from recorded move events. Each
// event line scores as a single cost value; that cost is averaged into
// every feature present on the line, producing per-feature weights the
// learned strategy can sum at play time.
package learn

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/mugloar/mugomatic/internal/eventlog"
	"github.com/mugloar/mugomatic/internal/game"
)

// Cost weights. Losing outright dwarfs everything; losing a life costs
// ten times what gaining one is worth; reputation moves in 100-point
// steps to stay comparable with score.
const (
	deathCost    = -3000.0
	lifeLossCost = 1000.0
	lifeGainCost = 100.0
	repCost      = 100.0
)

// RowCost scores one recorded move. Positive is good.
func RowCost(f game.Features) float64 {
	dLives := f["diff:lives"]

	cost := 0.0
	if f["game:lives"]+dLives <= 0 {
		cost += deathCost
	}
	if dLives > 0 {
		cost += lifeGainCost * dLives
	} else {
		cost += lifeLossCost * dLives
	}
	cost += f["diff:score"]
	cost += repCost * (f["diff:rep_people"] + f["diff:rep_state"] + f["diff:rep_underworld"])
	return cost
}

// Model accumulates per-feature cost totals across event rows.
type Model struct {
	totals map[string]float64
	counts map[string]int
	rows   int
}

// New creates an empty model.
func New() *Model {
	return &Model{
		totals: make(map[string]float64),
		counts: make(map[string]int),
	}
}

// Rows reports how many events have been absorbed.
func (m *Model) Rows() int { return m.rows }

// AddRow folds one event into the model. The row's cost lands fully on
// each numeric state/diff feature and is split evenly across the presence
// features, so a verbose description does not outweigh a terse one.
func (m *Model) AddRow(f game.Features) {
	cost := RowCost(f)

	presence := 0
	for tag := range f {
		if isPresence(tag) {
			presence++
		}
	}

	for tag := range f {
		share := cost
		if isPresence(tag) {
			share = cost / float64(presence)
		}
		m.totals[tag] += share
		m.counts[tag]++
	}
	m.rows++
}

func isPresence(tag string) bool {
	return !strings.HasPrefix(tag, "game:") && !strings.HasPrefix(tag, "diff:")
}

// Consume parses an event log and folds every line into the model.
func (m *Model) Consume(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		if text == "" {
			continue
		}
		f, err := eventlog.ParseEvent(text)
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		m.AddRow(f)
	}
	return scanner.Err()
}

// ConsumeFile folds one event log file into the model.
func (m *Model) ConsumeFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := m.Consume(f); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// WriteTable emits the cost table: weight, sample count, feature tag, tab
// terminated, sorted by tag.
func (m *Model) WriteTable(w io.Writer) error {
	tags := make([]string, 0, len(m.totals))
	for tag := range m.totals {
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	bw := bufio.NewWriter(w)
	for _, tag := range tags {
		weight := m.totals[tag] / float64(m.counts[tag])
		bw.WriteString(strconv.FormatFloat(weight, 'g', -1, 64))
		bw.WriteByte('\t')
		bw.WriteString(strconv.Itoa(m.counts[tag]))
		bw.WriteByte('\t')
		bw.WriteString(tag)
		bw.WriteString("\t\n")
	}
	return bw.Flush()
}
