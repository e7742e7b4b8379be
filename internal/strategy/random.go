package strategy

import (
	"math/rand"

	"github.com/mugloar/mugomatic/internal/game"
)

// Random picks uniformly among all solve and buy candidates. Used by the
// data collector to explore the action space without bias.
type Random struct {
	rng *rand.Rand
}

// NewRandom creates the explorer strategy with its own PRNG.
func NewRandom(seed int64) *Random {
	return &Random{rng: rand.New(rand.NewSource(seed))}
}

func (r *Random) Pick(sess *game.Session) (Action, error) {
	var actions []Action
	for _, msg := range sess.Messages() {
		actions = append(actions, Action{Kind: KindSolve, Message: msg})
	}
	for _, item := range sess.ShopItems() {
		actions = append(actions, Action{Kind: KindBuy, Item: item})
	}
	if len(actions) == 0 {
		return Action{Kind: KindInvestigate}, nil
	}
	return actions[r.rng.Intn(len(actions))], nil
}
