// Package eventlog owns the tab-separated on-disk formats shared by the
// players and the learner: move event lines and final score lines. Both
// are append-only; concurrent workers interleave whole lines, never
// partial ones.
package eventlog

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/mugloar/mugomatic/internal/game"
)

// Writer serializes lines onto one destination. Safe for concurrent use.
type Writer struct {
	mu sync.Mutex
	w  io.Writer
	c  io.Closer
}

// New wraps an arbitrary destination, typically a buffer in tests.
func New(w io.Writer) *Writer {
	return &Writer{w: w}
}

// OpenFile opens path for appending, creating it if needed.
func OpenFile(path string) (*Writer, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	return &Writer{w: f, c: f}, nil
}

// Close closes the underlying file, if any.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.c == nil {
		return nil
	}
	return w.c.Close()
}

// WriteEvent appends one event line: every feature as key\tvalue\t, keys
// sorted so identical feature sets produce identical bytes.
func (w *Writer) WriteEvent(f game.Features) error {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		b.WriteString(k)
		b.WriteByte('\t')
		b.WriteString(formatValue(f[k]))
		b.WriteByte('\t')
	}
	b.WriteByte('\n')
	return w.writeLine(b.String())
}

// WriteScore appends one finished-game line.
func (w *Writer) WriteScore(id string, score, turns, level, lives int) error {
	line := fmt.Sprintf("id=%s\tscore=%d\tturns=%d\tlevel=%d\tlives=%d\t\n",
		id, score, turns, level, lives)
	return w.writeLine(line)
}

func (w *Writer) writeLine(line string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, err := io.WriteString(w.w, line)
	return err
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// ParseEvent decodes one event line back into a feature map. The format
// is tab-terminated key/value pairs, so a well-formed line splits into an
// even number of fields.
func ParseEvent(line string) (game.Features, error) {
	fields := strings.Split(strings.TrimSuffix(line, "\t"), "\t")
	if len(fields) == 1 && fields[0] == "" {
		return game.Features{}, nil
	}
	if len(fields)%2 != 0 {
		return nil, fmt.Errorf("event line: odd field count %d", len(fields))
	}
	f := make(game.Features, len(fields)/2)
	for i := 0; i < len(fields); i += 2 {
		v, err := strconv.ParseFloat(fields[i+1], 64)
		if err != nil {
			return nil, fmt.Errorf("event line: feature %q: bad value %q: %w", fields[i], fields[i+1], err)
		}
		f[fields[i]] = v
	}
	return f, nil
}
