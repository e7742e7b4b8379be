// Package game owns the live state of one Dragons of Mugloar play-through
// and the turn protocol that advances it. It holds no network code; all
// remote work goes through the Client interface.
package game

import (
	"context"
	"sort"

	"github.com/mugloar/mugomatic/internal/mugloar"
)

// Client is the set of remote operations a session needs. *mugloar.Client
// satisfies it; tests substitute fakes.
type Client interface {
	StartGame(ctx context.Context) (mugloar.GameInfo, error)
	InvestigateReputation(ctx context.Context, gameID string) (mugloar.Reputation, error)
	Messages(ctx context.Context, gameID string) ([]mugloar.Message, error)
	Solve(ctx context.Context, gameID, adID string) (mugloar.SolveResult, error)
	ShopItems(ctx context.Context, gameID string) ([]mugloar.Item, error)
	BuyItem(ctx context.Context, gameID, itemID string) (mugloar.BuyResult, error)
}

// Options configures session behaviour.
type Options struct {
	// AutoReputation fetches reputation during every refresh sequence.
	// Each fetch costs one turn.
	AutoReputation bool
}

// Session tracks one game. Not safe for concurrent use; each worker owns
// its session exclusively.
type Session struct {
	client Client
	opts   Options

	id        string
	lives     int
	gold      int
	level     int
	score     int
	highScore int
	turn      int

	repPeople     float64
	repState      float64
	repUnderworld float64

	messages  []mugloar.Message
	shopItems []mugloar.Item
	owned     map[string]int
	ownedIdx  map[string]mugloar.Item

	// populated is false for a resumed session until the first solve or
	// purchase response fills the numeric fields.
	populated bool
}

// NewSession starts a new game and runs the initial refresh sequence.
func NewSession(ctx context.Context, client Client, opts Options) (*Session, error) {
	s := &Session{
		client:   client,
		opts:     opts,
		owned:    make(map[string]int),
		ownedIdx: make(map[string]mugloar.Item),
	}
	info, err := client.StartGame(ctx)
	if err != nil {
		return nil, err
	}
	s.id = info.GameID
	s.lives = info.Lives
	s.gold = info.Gold
	s.level = info.Level
	s.score = info.Score
	s.highScore = info.HighScore
	s.turn = info.Turn
	s.populated = true

	if err := s.refresh(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// ResumeSession adopts an existing game by id. No remote call is made; the
// numeric fields stay unknown until the first solve or purchase response
// populates them, at which point the deferred refresh runs.
func ResumeSession(client Client, id string, opts Options) *Session {
	return &Session{
		client:   client,
		opts:     opts,
		id:       id,
		owned:    make(map[string]int),
		ownedIdx: make(map[string]mugloar.Item),
	}
}

// Getters

func (s *Session) ID() string { return s.id }
func (s *Session) Lives() int { return s.lives }
func (s *Session) Gold() int  { return s.gold }
func (s *Session) Level() int { return s.level }
func (s *Session) Score() int { return s.score }
func (s *Session) HighScore() int { return s.highScore }
func (s *Session) Turn() int { return s.turn }
func (s *Session) RepPeople() float64 { return s.repPeople }
func (s *Session) RepState() float64 { return s.repState }
func (s *Session) RepUnderworld() float64 { return s.repUnderworld }

// Messages returns the current quest offers. The slice is replaced
// wholesale on every refresh; callers must not mutate it.
func (s *Session) Messages() []mugloar.Message { return s.messages }

// ShopItems returns the current shop listing.
func (s *Session) ShopItems() []mugloar.Item { return s.shopItems }

// OwnedCount returns how many of the item are owned.
func (s *Session) OwnedCount(itemID string) int { return s.owned[itemID] }

// OwnedItem pairs an owned item with its count.
type OwnedItem struct {
	Item  mugloar.Item
	Count int
}

// OwnedList returns owned items with counts, sorted by id.
func (s *Session) OwnedList() []OwnedItem {
	out := make([]OwnedItem, 0, len(s.owned))
	for id, n := range s.owned {
		out = append(out, OwnedItem{Item: s.ownedIdx[id], Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Item.ID < out[j].Item.ID })
	return out
}

// Dead reports the unique terminal condition: zero lives. A resumed session
// is not dead until its fields have been populated.
func (s *Session) Dead() bool { return s.populated && s.lives == 0 }

// Populated reports whether the numeric fields hold real server values.
func (s *Session) Populated() bool { return s.populated }

// Snapshot captures the current state for strategies and logging.
func (s *Session) Snapshot() State {
	items := make(map[string]int, len(s.owned))
	for id, n := range s.owned {
		items[id] = n
	}
	return State{
		Score:         s.score,
		Lives:         s.lives,
		Gold:          s.gold,
		Level:         s.level,
		RepPeople:     s.repPeople,
		RepState:      s.repState,
		RepUnderworld: s.repUnderworld,
		Turn:          s.turn,
		Items:         items,
	}
}

// Operations

// SolveMessage attempts a quest and applies the reported counters, then
// runs the refresh sequence unless the game ended.
func (s *Session) SolveMessage(ctx context.Context, msg mugloar.Message) (bool, string, error) {
	res, err := s.client.Solve(ctx, s.id, msg.AdID)
	if err != nil {
		return false, "", err
	}
	s.lives = res.Lives
	s.gold = res.Gold
	s.score = res.Score
	s.highScore = res.HighScore
	s.turn = res.Turn
	s.populated = true

	if err := s.refresh(ctx); err != nil {
		return res.Success, res.Narrative, err
	}
	return res.Success, res.Narrative, nil
}

// PurchaseItem buys an item and applies the reported counters. On success
// the owned count for the item's id is incremented. Runs the refresh
// sequence unless the game ended.
func (s *Session) PurchaseItem(ctx context.Context, item mugloar.Item) (bool, error) {
	res, err := s.client.BuyItem(ctx, s.id, item.ID)
	if err != nil {
		return false, err
	}
	s.gold = res.Gold
	s.lives = res.Lives
	s.level = res.Level
	s.turn = res.Turn
	s.populated = true

	if res.Success {
		s.owned[item.ID]++
		s.ownedIdx[item.ID] = item
	}

	if err := s.refresh(ctx); err != nil {
		return res.Success, err
	}
	return res.Success, nil
}

// QueryReputation performs the explicit, turn-costing reputation fetch and
// then completes the refresh sequence (shop, messages). Reputation is
// fetched exactly once regardless of the auto-reputation setting.
func (s *Session) QueryReputation(ctx context.Context) error {
	if err := s.updateReputation(ctx); err != nil {
		return err
	}
	if err := s.updateItems(ctx); err != nil {
		return err
	}
	return s.updateMessages(ctx)
}

// refresh is the turn-started sequence: reputation first (it is the one
// call that advances the turn counter as a side effect and must stay
// isolated from the list fetches), then shop, then messages. No-op once
// dead.
func (s *Session) refresh(ctx context.Context) error {
	if s.Dead() {
		return nil
	}
	if s.opts.AutoReputation {
		if err := s.updateReputation(ctx); err != nil {
			return err
		}
	}
	if err := s.updateItems(ctx); err != nil {
		return err
	}
	return s.updateMessages(ctx)
}

func (s *Session) updateReputation(ctx context.Context) error {
	rep, err := s.client.InvestigateReputation(ctx, s.id)
	if err != nil {
		return err
	}
	s.repPeople = rep.People
	s.repState = rep.State
	s.repUnderworld = rep.Underworld
	// The investigate response carries no turn field, but the call costs
	// a turn on the server clock.
	s.turn++
	return nil
}

func (s *Session) updateMessages(ctx context.Context) error {
	msgs, err := s.client.Messages(ctx, s.id)
	if err != nil {
		return err
	}
	s.messages = msgs
	return nil
}

func (s *Session) updateItems(ctx context.Context) error {
	items, err := s.client.ShopItems(ctx, s.id)
	if err != nil {
		return err
	}
	s.shopItems = items
	return nil
}
