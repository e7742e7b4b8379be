package strategy

import (
	"testing"

	"github.com/mugloar/mugomatic/internal/mugloar"
)

func TestRandomPicksFromCandidates(t *testing.T) {
	sess := stubSession(t, scriptStub())
	r := NewRandom(1)

	valid := map[string]bool{"a1": true, "a2": true, "hpot": true, "cs": true}
	for i := 0; i < 50; i++ {
		action, err := r.Pick(sess)
		if err != nil {
			t.Fatalf("Pick: %v", err)
		}
		switch action.Kind {
		case KindSolve:
			if !valid[action.Message.AdID] {
				t.Fatalf("picked unknown message %q", action.Message.AdID)
			}
		case KindBuy:
			if !valid[action.Item.ID] {
				t.Fatalf("picked unknown item %q", action.Item.ID)
			}
		default:
			t.Fatalf("unexpected kind %v with candidates present", action.Kind)
		}
	}
}

func TestRandomEmptyInvestigates(t *testing.T) {
	sess := stubSession(t, &stubClient{info: mugloar.GameInfo{GameID: "g", Lives: 3}})
	action, err := NewRandom(1).Pick(sess)
	if err != nil {
		t.Fatalf("Pick: %v", err)
	}
	if action.Kind != KindInvestigate {
		t.Errorf("empty candidate set must investigate, got %s", action.Label())
	}
}
