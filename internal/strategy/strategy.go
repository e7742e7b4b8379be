// Package strategy decides which action a worker takes each turn. All
// implementations are single-turn greedy: they look at the current session
// snapshot and pick exactly one move.
package strategy

import (
	"fmt"

	"github.com/mugloar/mugomatic/internal/game"
	"github.com/mugloar/mugomatic/internal/mugloar"
)

// Kind identifies the type of a chosen action.
type Kind int

const (
	KindSolve Kind = iota
	KindBuy
	KindInvestigate
)

// Action is one executable move.
type Action struct {
	Kind    Kind
	Message mugloar.Message // set for KindSolve
	Item    mugloar.Item    // set for KindBuy
}

// Label is a human-readable description for move logging.
func (a Action) Label() string {
	switch a.Kind {
	case KindSolve:
		return fmt.Sprintf("SOLVE %s FOR %d GOLD", a.Message.Text, a.Message.Reward)
	case KindBuy:
		return fmt.Sprintf("BUY %s FOR %d GOLD", a.Item.Name, a.Item.Cost)
	default:
		return "INVESTIGATE REPUTATION"
	}
}

// Features returns the action's feature set for scoring and logging.
func (a Action) Features() game.Features {
	f := game.Features{}
	switch a.Kind {
	case KindSolve:
		game.ExtractMessageFeatures(f, a.Message)
	case KindBuy:
		game.ExtractItemFeatures(f, a.Item)
	default:
		f["action:investigate"] = 1
	}
	return f
}

// Strategy picks the next action for a session's current state.
// Implementations need not be safe for concurrent use; the pool creates
// one per worker.
type Strategy interface {
	Pick(sess *game.Session) (Action, error)
}
