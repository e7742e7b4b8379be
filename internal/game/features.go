package game

import (
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/mugloar/mugomatic/internal/mugloar"
)

// Features is a feature-tag to value map used for cost scoring and for the
// tab-separated event log.
type Features map[string]float64

// Lowercase converts a string to lowercase, Unicode-aware. Quest text is
// free-form and not guaranteed ASCII.
func Lowercase(s string) string {
	return cases.Lower(language.Und).String(s)
}

// ExtractActionFeatures adds the action-type tag plus one presence feature
// per word and per adjacent word pair of the description.
func ExtractActionFeatures(f Features, actionType, description string) {
	f["action:"+actionType] = 1

	words := strings.Fields(description)
	for _, w := range words {
		f[Lowercase(w)] = 1
	}
	for i := 0; i+1 < len(words); i++ {
		f[Lowercase(words[i]+" "+words[i+1])] = 1
	}
}

// ExtractMessageFeatures adds the features of a solve action: description
// words, cipher mode and probability label.
func ExtractMessageFeatures(f Features, msg mugloar.Message) {
	ExtractActionFeatures(f, "solve", msg.Text)

	if msg.Cipher == mugloar.CipherPlain {
		f["cipher:none"] = 1
	} else {
		f["cipher:"+strconv.Itoa(int(msg.Cipher))] = 1
	}
	f["probability:"+Lowercase(msg.Probability)] = 1
}

// ExtractItemFeatures adds the features of a buy action.
func ExtractItemFeatures(f Features, item mugloar.Item) {
	ExtractActionFeatures(f, "buy", item.Name)
}

// ExtractStateFeatures adds the numeric game-state features plus boolean
// markers for specific values.
func ExtractStateFeatures(f Features, st State) {
	f["game:score"] = float64(st.Score)
	f["game:lives"] = float64(st.Lives)
	f["game:gold"] = float64(st.Gold)
	f["game:level"] = float64(st.Level)
	f["game:rep_people"] = st.RepPeople
	f["game:rep_state"] = st.RepState
	f["game:rep_underworld"] = st.RepUnderworld
	f["game:turn"] = float64(st.Turn)
	for id, count := range st.Items {
		f["item:"+id] = float64(count)
	}
	f["lives:"+strconv.Itoa(st.Lives)] = 1
	f["level:"+strconv.Itoa(st.Level)] = 1
	f["gold:50min="+strconv.Itoa(st.Gold/50*50)] = 1
	f["turn:"+strconv.Itoa(st.Turn)] = 1
}

// ExtractDiffFeatures adds the per-field deltas of a completed action.
func ExtractDiffFeatures(f Features, d StateDiff) {
	f["diff:score"] = float64(d.Score)
	f["diff:lives"] = float64(d.Lives)
	f["diff:gold"] = float64(d.Gold)
	f["diff:level"] = float64(d.Level)
	f["diff:rep_people"] = d.RepPeople
	f["diff:rep_state"] = d.RepState
	f["diff:rep_underworld"] = d.RepUnderworld
}
