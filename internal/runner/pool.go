// Package runner drives concurrent play-loops: a pool of workers, the
// shared scoreboard, the hijack queue for adopting live games, and the
// on-demand status dump.
package runner

import (
	"context"
	"io"
	"log"
	"sync"
	"time"

	"github.com/mugloar/mugomatic/internal/eventlog"
	"github.com/mugloar/mugomatic/internal/game"
	"github.com/mugloar/mugomatic/internal/mugloar"
	"github.com/mugloar/mugomatic/internal/strategy"
)

// hijackItem is bought immediately after adopting a live game: the buy
// response is what populates the resumed session's numeric fields.
var hijackItem = mugloar.Item{ID: "hpot", Name: "Healing potion", Cost: 50}

// startBackoff spaces out restart attempts after a failed game start.
const startBackoff = time.Second

// Config assembles a pool. Client and Strategy are required; everything
// else has a working zero value.
type Config struct {
	Workers     int
	Client      game.Client
	Strategy    func(worker int) (strategy.Strategy, error)
	Events      *eventlog.Writer
	Scores      *eventlog.Writer
	Scoreboard  *Scoreboard
	Hijack      *HijackQueue
	SessionOpts game.Options
	// Once stops each worker after its first finished game.
	Once   bool
	Logger *log.Logger
}

// Pool runs N independent workers until the context is cancelled. Workers
// share only the scoreboard and the hijack queue.
type Pool struct {
	cfg Config
}

// New validates and applies defaults.
func New(cfg Config) *Pool {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.Scoreboard == nil {
		cfg.Scoreboard = NewScoreboard()
	}
	if cfg.Hijack == nil {
		cfg.Hijack = &HijackQueue{}
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard, "", 0)
	}
	return &Pool{cfg: cfg}
}

// Scoreboard exposes the pool's scoreboard for status serving and dumps.
func (p *Pool) Scoreboard() *Scoreboard { return p.cfg.Scoreboard }

// Run spawns the workers and blocks until all of them observe
// cancellation (or finish, with Once). Game-level failures are logged and
// absorbed; a worker's outer loop is its own retry mechanism.
func (p *Pool) Run(ctx context.Context) error {
	var wg sync.WaitGroup
	for i := 0; i < p.cfg.Workers; i++ {
		w := &worker{index: i, pool: p}
		strat, err := p.cfg.Strategy(i)
		if err != nil {
			return err
		}
		w.strat = strat

		wg.Add(1)
		go func() {
			defer wg.Done()
			w.run(ctx)
		}()
	}
	wg.Wait()
	return nil
}

// worker owns one session at a time plus its strategy instance. Nothing
// here is shared.
type worker struct {
	index int
	pool  *Pool
	strat strategy.Strategy
}

func (w *worker) run(ctx context.Context) {
	cfg := w.pool.cfg
	for ctx.Err() == nil {
		sess, err := w.acquire(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			cfg.Logger.Printf("worker %d: start game: %v", w.index, err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(startBackoff):
			}
			continue
		}

		w.play(ctx, sess)
		w.finish(sess)

		if cfg.Once {
			return
		}
	}
}

// acquire resumes a hijacked game if one is queued, otherwise starts
// fresh. A resumed session is primed with a potion purchase so a real
// response fills its counters before any strategy decision.
func (w *worker) acquire(ctx context.Context) (*game.Session, error) {
	cfg := w.pool.cfg
	if id, ok := cfg.Hijack.Pop(); ok {
		cfg.Logger.Printf("worker %d: hijacking game %s", w.index, id)
		sess := game.ResumeSession(cfg.Client, id, cfg.SessionOpts)
		if _, err := sess.PurchaseItem(ctx, hijackItem); err != nil {
			return nil, err
		}
		return sess, nil
	}
	return game.NewSession(ctx, cfg.Client, cfg.SessionOpts)
}

// play drives one game to its end: death, cancellation, or a failure that
// aborts the game.
func (w *worker) play(ctx context.Context, sess *game.Session) {
	cfg := w.pool.cfg
	for !sess.Dead() {
		if ctx.Err() != nil {
			return
		}

		action, err := w.strat.Pick(sess)
		if err != nil {
			cfg.Logger.Printf("worker %d: game %s: pick: %v", w.index, sess.ID(), err)
			return
		}

		prev := sess.Snapshot()
		ok, err := w.execute(ctx, sess, action)
		if err != nil {
			if mugloar.IsGameOver(err) {
				cfg.Logger.Printf("worker %d: game %s over", w.index, sess.ID())
				return
			}
			cfg.Logger.Printf("worker %d: game %s: %s: %v", w.index, sess.ID(), action.Label(), err)
			return
		}
		cur := sess.Snapshot()

		w.logMove(prev, cur, action)
		cfg.Scoreboard.Record(w.index, sess.ID(), cur.Score)
		cfg.Logger.Printf("worker %d: game %s turn %d: %s ok=%t lives=%d gold=%d score=%d",
			w.index, sess.ID(), cur.Turn, action.Label(), ok, cur.Lives, cur.Gold, cur.Score)
	}
}

func (w *worker) execute(ctx context.Context, sess *game.Session, action strategy.Action) (bool, error) {
	switch action.Kind {
	case strategy.KindSolve:
		ok, _, err := sess.SolveMessage(ctx, action.Message)
		return ok, err
	case strategy.KindBuy:
		return sess.PurchaseItem(ctx, action.Item)
	default:
		return true, sess.QueryReputation(ctx)
	}
}

// logMove writes the training event line: pre-move state, the action, and
// the resulting diff.
func (w *worker) logMove(prev, cur game.State, action strategy.Action) {
	if w.pool.cfg.Events == nil {
		return
	}
	f := game.Features{}
	game.ExtractStateFeatures(f, prev)
	for k, v := range action.Features() {
		f[k] = v
	}
	game.ExtractDiffFeatures(f, cur.Diff(prev))
	if err := w.pool.cfg.Events.WriteEvent(f); err != nil {
		w.pool.cfg.Logger.Printf("worker %d: event log: %v", w.index, err)
	}
}

// finish writes the game's summary line. A hijacked session that never got
// populated has nothing worth recording.
func (w *worker) finish(sess *game.Session) {
	cfg := w.pool.cfg
	if !sess.Populated() {
		return
	}
	st := sess.Snapshot()
	cfg.Logger.Printf("worker %d: game %s finished: score=%d turns=%d level=%d lives=%d",
		w.index, sess.ID(), st.Score, st.Turn, st.Level, st.Lives)
	if cfg.Scores == nil {
		return
	}
	if err := cfg.Scores.WriteScore(sess.ID(), st.Score, st.Turn, st.Level, st.Lives); err != nil {
		cfg.Logger.Printf("worker %d: score log: %v", w.index, err)
	}
}
