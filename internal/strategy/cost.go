package strategy

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/mugloar/mugomatic/internal/game"
)

// unknownFeaturePenalty is applied once per feature missing from the cost
// table. Novel content degrades scores instead of crashing the strategy.
const unknownFeaturePenalty = -100

// CostTable maps feature tags to learned weights. Read once at startup,
// never mutated.
type CostTable map[string]float64

// LoadCostTable parses the learner's output: tab-terminated rows of
// weight, sample count, feature tag.
func LoadCostTable(r io.Reader) (CostTable, error) {
	table := CostTable{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		fields := splitTabTerminated(scanner.Text())
		if len(fields) < 3 {
			continue
		}
		weight, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, fmt.Errorf("cost table line %d: bad weight %q: %w", line, fields[0], err)
		}
		table[fields[2]] = weight
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("cost table: %w", err)
	}
	return table, nil
}

// LoadCostTableFile loads a cost table from disk.
func LoadCostTableFile(path string) (CostTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadCostTable(f)
}

// splitTabTerminated splits a line of tab-TERMINATED fields: a trailing
// tab does not produce a phantom empty field.
func splitTabTerminated(line string) []string {
	fields := strings.Split(line, "\t")
	if n := len(fields); n > 0 && fields[n-1] == "" {
		fields = fields[:n-1]
	}
	return fields
}

// Cost is the learned strategy: score every candidate action by summing
// the weights of its features and execute the maximum.
type Cost struct {
	table  CostTable
	logger *log.Logger
}

// NewCost creates the learned strategy. logger receives one line per move
// listing feature tags absent from the table; nil discards them.
func NewCost(table CostTable, logger *log.Logger) *Cost {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Cost{table: table, logger: logger}
}

// Score computes the weighted feature sum for one candidate. Pure: the
// same feature set and table always yield the same score. Unknown tags
// are returned for logging.
func (c *Cost) Score(f game.Features) (float64, []string) {
	score := 0.0
	var unknown []string
	for tag, value := range f {
		if weight, ok := c.table[tag]; ok {
			score += value * weight
		} else {
			score += unknownFeaturePenalty
			unknown = append(unknown, tag)
		}
	}
	sort.Strings(unknown)
	return score, unknown
}

func (c *Cost) Pick(sess *game.Session) (Action, error) {
	st := sess.Snapshot()

	// Shared state features. Score and lives are outcomes, not inputs;
	// leaving them in would let the model chase its own scoreboard.
	base := game.Features{}
	game.ExtractStateFeatures(base, st)
	delete(base, "game:score")
	delete(base, "game:lives")

	var (
		best      Action
		bestScore float64
		found     bool
		unknown   []string
	)
	consider := func(a Action) {
		f := game.Features{}
		for k, v := range base {
			f[k] = v
		}
		for k, v := range a.Features() {
			f[k] = v
		}
		score, miss := c.Score(f)
		unknown = append(unknown, miss...)
		// Strictly greater: ties go to the first candidate encountered.
		if !found || score > bestScore {
			best, bestScore, found = a, score, true
		}
	}

	for _, msg := range sess.Messages() {
		consider(Action{Kind: KindSolve, Message: msg})
	}
	for _, item := range sess.ShopItems() {
		// Unaffordable buys would train the model to spam the shop.
		if item.Cost > st.Gold {
			continue
		}
		consider(Action{Kind: KindBuy, Item: item})
	}

	if len(unknown) > 0 {
		sort.Strings(unknown)
		c.logger.Printf("unknown features: %s", strings.Join(dedup(unknown), " "))
	}

	if !found {
		return Action{Kind: KindInvestigate}, nil
	}
	return best, nil
}

func dedup(sorted []string) []string {
	out := sorted[:0]
	for i, s := range sorted {
		if i == 0 || s != sorted[i-1] {
			out = append(out, s)
		}
	}
	return out
}
