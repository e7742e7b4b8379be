package strategy

import (
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/dop251/goja"

	"github.com/mugloar/mugomatic/internal/game"
)

// Script runs a user-supplied JavaScript hook to choose actions. The
// script must define
//
//	function pickAction(state, messages, items)
//
// and return {type: "solve", adId: ...}, {type: "buy", itemId: ...}, or
// null to spend the turn on a reputation query.
//
// A Script owns one goja runtime and is not safe for concurrent use; the
// pool creates one per worker.
type Script struct {
	runtime *goja.Runtime
	pick    goja.Callable
	logger  *log.Logger
}

// NewScript compiles the script source and resolves the pickAction hook.
// logger receives the script's log()/console.log() output; nil discards.
func NewScript(source string, logger *log.Logger) (*Script, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	s := &Script{runtime: goja.New(), logger: logger}

	// log(...args) joins arguments with spaces, like console.log.
	logFn := func(call goja.FunctionCall) goja.Value {
		parts := make([]string, len(call.Arguments))
		for i, arg := range call.Arguments {
			parts[i] = arg.String()
		}
		s.logger.Print(strings.Join(parts, " "))
		return goja.Undefined()
	}
	s.runtime.Set("log", logFn)
	console := s.runtime.NewObject()
	console.Set("log", s.runtime.Get("log"))
	s.runtime.Set("console", console)

	if _, err := s.runtime.RunString(source); err != nil {
		return nil, fmt.Errorf("script: %w", err)
	}

	pick, ok := goja.AssertFunction(s.runtime.Get("pickAction"))
	if !ok {
		return nil, fmt.Errorf("script: pickAction(state, messages, items) is not defined")
	}
	s.pick = pick
	return s, nil
}

func (s *Script) Pick(sess *game.Session) (Action, error) {
	st := sess.Snapshot()

	items := make(map[string]any, len(st.Items))
	for id, n := range st.Items {
		items[id] = n
	}
	state := map[string]any{
		"score":         st.Score,
		"lives":         st.Lives,
		"gold":          st.Gold,
		"level":         st.Level,
		"turn":          st.Turn,
		"repPeople":     st.RepPeople,
		"repState":      st.RepState,
		"repUnderworld": st.RepUnderworld,
		"items":         items,
	}

	msgs := sess.Messages()
	jsMsgs := make([]map[string]any, len(msgs))
	for i, m := range msgs {
		risk, err := game.Risk(m.Probability)
		if err != nil {
			return Action{}, err
		}
		jsMsgs[i] = map[string]any{
			"adId":        m.AdID,
			"message":     m.Text,
			"reward":      m.Reward,
			"expiresIn":   m.ExpiresIn,
			"probability": m.Probability,
			"risk":        risk,
		}
	}

	shop := sess.ShopItems()
	jsItems := make([]map[string]any, len(shop))
	for i, it := range shop {
		jsItems[i] = map[string]any{"id": it.ID, "name": it.Name, "cost": it.Cost}
	}

	res, err := s.pick(goja.Undefined(),
		s.runtime.ToValue(state), s.runtime.ToValue(jsMsgs), s.runtime.ToValue(jsItems))
	if err != nil {
		return Action{}, fmt.Errorf("script: pickAction: %w", err)
	}
	if res == nil || goja.IsNull(res) || goja.IsUndefined(res) {
		return Action{Kind: KindInvestigate}, nil
	}

	choice, ok := res.Export().(map[string]any)
	if !ok {
		return Action{}, fmt.Errorf("script: pickAction returned %v, want object or null", res)
	}

	switch choice["type"] {
	case "solve":
		adID, _ := choice["adId"].(string)
		for _, m := range msgs {
			if m.AdID == adID {
				return Action{Kind: KindSolve, Message: m}, nil
			}
		}
		return Action{}, fmt.Errorf("script: pickAction chose unknown adId %q", adID)
	case "buy":
		itemID, _ := choice["itemId"].(string)
		for _, it := range shop {
			if it.ID == itemID {
				return Action{Kind: KindBuy, Item: it}, nil
			}
		}
		return Action{}, fmt.Errorf("script: pickAction chose unknown itemId %q", itemID)
	default:
		return Action{}, fmt.Errorf("script: pickAction returned unknown type %v", choice["type"])
	}
}
