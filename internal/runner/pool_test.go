package runner

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mugloar/mugomatic/internal/eventlog"
	"github.com/mugloar/mugomatic/internal/game"
	"github.com/mugloar/mugomatic/internal/mugloar"
	"github.com/mugloar/mugomatic/internal/strategy"
)

// fakePlayClient serves one-move games: the single quest solve ends the
// game. Safe for concurrent workers.
type fakePlayClient struct {
	mu      sync.Mutex
	started int
	buys    map[string]int
}

func newFakePlayClient() *fakePlayClient {
	return &fakePlayClient{buys: map[string]int{}}
}

func (c *fakePlayClient) StartGame(ctx context.Context) (mugloar.GameInfo, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.started++
	id := fmt.Sprintf("fresh%d", c.started)
	return mugloar.GameInfo{GameID: id, Lives: 1, Gold: 0, Level: 1, Turn: 1}, nil
}

func (c *fakePlayClient) InvestigateReputation(ctx context.Context, gameID string) (mugloar.Reputation, error) {
	return mugloar.Reputation{}, nil
}

func (c *fakePlayClient) Messages(ctx context.Context, gameID string) ([]mugloar.Message, error) {
	return []mugloar.Message{
		{AdID: "only", Text: "Kill the rats", Reward: 25, ExpiresIn: 3, Probability: "Piece of cake"},
	}, nil
}

func (c *fakePlayClient) Solve(ctx context.Context, gameID, adID string) (mugloar.SolveResult, error) {
	return mugloar.SolveResult{Success: true, Lives: 0, Gold: 25, Score: 25, HighScore: 25, Turn: 2, Narrative: "done"}, nil
}

func (c *fakePlayClient) ShopItems(ctx context.Context, gameID string) ([]mugloar.Item, error) {
	return []mugloar.Item{{ID: "hpot", Name: "Healing potion", Cost: 50}}, nil
}

func (c *fakePlayClient) BuyItem(ctx context.Context, gameID, itemID string) (mugloar.BuyResult, error) {
	c.mu.Lock()
	c.buys[gameID]++
	c.mu.Unlock()
	return mugloar.BuyResult{Success: true, Gold: 50, Lives: 1, Level: 2, Turn: 6}, nil
}

func (c *fakePlayClient) startedGames() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.started
}

func (c *fakePlayClient) buyCount(gameID string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buys[gameID]
}

// solveFirst always takes the first quest on offer.
type solveFirst struct{}

func (solveFirst) Pick(sess *game.Session) (strategy.Action, error) {
	msgs := sess.Messages()
	if len(msgs) == 0 {
		return strategy.Action{Kind: strategy.KindInvestigate}, nil
	}
	return strategy.Action{Kind: strategy.KindSolve, Message: msgs[0]}, nil
}

func solveFirstFactory(int) (strategy.Strategy, error) { return solveFirst{}, nil }

func TestPoolOnceWritesOneScoreLinePerWorker(t *testing.T) {
	var scores bytes.Buffer
	client := newFakePlayClient()

	p := New(Config{
		Workers:  3,
		Client:   client,
		Strategy: solveFirstFactory,
		Scores:   eventlog.New(&scores),
		Once:     true,
	})
	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	lines := strings.Count(scores.String(), "\n")
	if lines != 3 {
		t.Errorf("score lines = %d, want 3:\n%s", lines, scores.String())
	}
	if client.startedGames() != 3 {
		t.Errorf("started games = %d, want 3", client.startedGames())
	}
}

func TestPoolHijackConsumedByOneWorker(t *testing.T) {
	client := newFakePlayClient()
	queue := &HijackQueue{}
	queue.Push("live1")

	p := New(Config{
		Workers:  2,
		Client:   client,
		Strategy: solveFirstFactory,
		Hijack:   queue,
		Once:     true,
	})
	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if got := client.buyCount("live1"); got != 1 {
		t.Errorf("hijacked game primed %d times, want exactly 1", got)
	}
	if got := client.startedGames(); got != 1 {
		t.Errorf("fresh games = %d, want 1 (the non-hijacking worker)", got)
	}
	if queue.Len() != 0 {
		t.Errorf("hijack queue not drained, %d left", queue.Len())
	}
}

func TestPoolWritesEventLines(t *testing.T) {
	var events bytes.Buffer
	p := New(Config{
		Workers:  1,
		Client:   newFakePlayClient(),
		Strategy: solveFirstFactory,
		Events:   eventlog.New(&events),
		Once:     true,
	})
	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	line := strings.TrimSuffix(events.String(), "\n")
	if strings.Contains(line, "\n") {
		t.Fatalf("expected exactly one event line, got %q", events.String())
	}
	f, err := eventlog.ParseEvent(line)
	if err != nil {
		t.Fatalf("ParseEvent: %v", err)
	}
	for _, tag := range []string{"action:solve", "game:turn", "diff:score", "probability:piece of cake"} {
		if _, ok := f[tag]; !ok {
			t.Errorf("event line missing %q: %v", tag, f)
		}
	}
	if f["diff:score"] != 25 {
		t.Errorf("diff:score = %v, want 25", f["diff:score"])
	}
	if f["game:lives"] != 1 {
		t.Errorf("game:lives = %v, want pre-move value 1", f["game:lives"])
	}
}

// failingSolveClient wraps fakePlayClient so every Solve fails with the
// configured remote error.
type failingSolveClient struct {
	*fakePlayClient
	err *mugloar.RemoteError
}

func (c *failingSolveClient) Solve(ctx context.Context, gameID, adID string) (mugloar.SolveResult, error) {
	return mugloar.SolveResult{}, c.err
}

func TestPoolGameOverStopsGame(t *testing.T) {
	client := &failingSolveClient{
		fakePlayClient: newFakePlayClient(),
		err:            &mugloar.RemoteError{Kind: mugloar.KindGameOver, StatusCode: 410, Detail: "game over"},
	}
	var logs bytes.Buffer
	var scores bytes.Buffer

	p := New(Config{
		Workers:  1,
		Client:   client,
		Strategy: solveFirstFactory,
		Scores:   eventlog.New(&scores),
		Once:     true,
		Logger:   log.New(&logs, "", 0),
	})
	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if got := client.startedGames(); got != 1 {
		t.Errorf("started games = %d, want 1", got)
	}
	if !strings.Contains(logs.String(), "over") {
		t.Errorf("game over not logged as a normal stop: %q", logs.String())
	}
	if lines := strings.Count(scores.String(), "\n"); lines != 1 {
		t.Errorf("score lines = %d, want 1:\n%s", lines, scores.String())
	}
}

func TestPoolTransportErrorStartsNewGame(t *testing.T) {
	client := &failingSolveClient{
		fakePlayClient: newFakePlayClient(),
		err:            &mugloar.RemoteError{Kind: mugloar.KindTransport, Detail: "connection reset"},
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	p := New(Config{
		Workers:  1,
		Client:   client,
		Strategy: solveFirstFactory,
	})

	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	// Each failed solve aborts the game; the outer loop is the retry
	// mechanism, so fresh games keep coming until cancellation.
	deadline := time.Now().Add(5 * time.Second)
	for client.startedGames() < 3 {
		if time.Now().After(deadline) {
			t.Fatalf("only %d games started after repeated transport failures", client.startedGames())
		}
		time.Sleep(time.Millisecond)
	}
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("pool did not stop after cancellation")
	}
}

func TestPoolStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := New(Config{
		Workers:  2,
		Client:   newFakePlayClient(),
		Strategy: solveFirstFactory,
	})

	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("pool did not stop after cancellation")
	}
}

func TestPoolRecordsScoreboard(t *testing.T) {
	sb := NewScoreboard()
	p := New(Config{
		Workers:    1,
		Client:     newFakePlayClient(),
		Strategy:   solveFirstFactory,
		Scoreboard: sb,
		Once:       true,
	})
	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	snap := sb.Snapshot()
	if len(snap.Workers) != 1 {
		t.Fatalf("scoreboard workers = %v", snap.Workers)
	}
	if snap.Best == nil || snap.Best.Score != 25 {
		t.Errorf("best = %+v, want score 25", snap.Best)
	}
}
