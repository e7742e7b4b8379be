package strategy

import (
	"bytes"
	"log"
	"strings"
	"testing"

	"github.com/mugloar/mugomatic/internal/mugloar"
)

func scriptStub() *stubClient {
	return &stubClient{
		info: mugloar.GameInfo{GameID: "g", Lives: 3, Gold: 120, Turn: 2},
		messages: []mugloar.Message{
			{AdID: "a1", Text: "Help the baker", Reward: 40, ExpiresIn: 5, Probability: "Sure thing"},
			{AdID: "a2", Text: "Steal the crown", Reward: 400, ExpiresIn: 2, Probability: "Suicide mission"},
		},
		items: []mugloar.Item{
			{ID: "hpot", Name: "Healing potion", Cost: 50},
			{ID: "cs", Name: "Claw Sharpening", Cost: 100},
		},
	}
}

func TestScriptPickSolve(t *testing.T) {
	src := `
function pickAction(state, messages, items) {
	var best = null;
	for (var i = 0; i < messages.length; i++) {
		var m = messages[i];
		if (best === null || m.reward * m.risk > best.reward * best.risk) {
			best = m;
		}
	}
	return {type: "solve", adId: best.adId};
}`
	s, err := NewScript(src, nil)
	if err != nil {
		t.Fatalf("NewScript: %v", err)
	}

	sess := stubSession(t, scriptStub())
	action, err := s.Pick(sess)
	if err != nil {
		t.Fatalf("Pick: %v", err)
	}
	// reward*risk: a1 = 40*(85/95) ≈ 35.8, a2 = 400*(5/95) ≈ 21.1
	if action.Kind != KindSolve || action.Message.AdID != "a1" {
		t.Errorf("got %s, want solve a1", action.Label())
	}
}

func TestScriptPickBuy(t *testing.T) {
	src := `
function pickAction(state, messages, items) {
	if (state.gold >= 100 && !state.items["cs"]) {
		return {type: "buy", itemId: "cs"};
	}
	return null;
}`
	s, err := NewScript(src, nil)
	if err != nil {
		t.Fatalf("NewScript: %v", err)
	}

	sess := stubSession(t, scriptStub())
	action, err := s.Pick(sess)
	if err != nil {
		t.Fatalf("Pick: %v", err)
	}
	if action.Kind != KindBuy || action.Item.ID != "cs" {
		t.Errorf("got %s, want buy cs", action.Label())
	}
}

func TestScriptPickNullInvestigates(t *testing.T) {
	s, err := NewScript(`function pickAction() { return null; }`, nil)
	if err != nil {
		t.Fatalf("NewScript: %v", err)
	}
	action, err := s.Pick(stubSession(t, scriptStub()))
	if err != nil {
		t.Fatalf("Pick: %v", err)
	}
	if action.Kind != KindInvestigate {
		t.Errorf("null must map to investigate, got %s", action.Label())
	}
}

func TestScriptPickUnknownAd(t *testing.T) {
	s, err := NewScript(`function pickAction() { return {type: "solve", adId: "nope"}; }`, nil)
	if err != nil {
		t.Fatalf("NewScript: %v", err)
	}
	if _, err := s.Pick(stubSession(t, scriptStub())); err == nil {
		t.Fatal("expected an error for an adId not in the current list")
	}
}

func TestScriptPickBadReturn(t *testing.T) {
	s, err := NewScript(`function pickAction() { return {type: "dance"}; }`, nil)
	if err != nil {
		t.Fatalf("NewScript: %v", err)
	}
	if _, err := s.Pick(stubSession(t, scriptStub())); err == nil {
		t.Fatal("expected an error for an unknown action type")
	}
}

func TestScriptMissingHook(t *testing.T) {
	if _, err := NewScript(`var x = 1;`, nil); err == nil {
		t.Fatal("expected an error when pickAction is not defined")
	}
}

func TestScriptSyntaxError(t *testing.T) {
	if _, err := NewScript(`function pickAction( {`, nil); err == nil {
		t.Fatal("expected a compile error")
	}
}

func TestScriptLog(t *testing.T) {
	var buf bytes.Buffer
	src := `
log("turn", 1);
console.log("hello");
function pickAction() { return null; }`
	if _, err := NewScript(src, log.New(&buf, "", 0)); err != nil {
		t.Fatalf("NewScript: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "turn 1") || !strings.Contains(out, "hello") {
		t.Errorf("log output missing lines: %q", out)
	}
}
