package mugloar

// GameInfo is the state block returned when a game is created.
type GameInfo struct {
	GameID    string
	Lives     int
	Gold      int
	Level     int
	Score     int
	HighScore int
	Turn      int
}

// Reputation holds the three reputation axes.
//
// The investigate endpoint reports fractional values, unlike every other
// numeric field in the API.
type Reputation struct {
	People     float64
	State      float64
	Underworld float64
}

// Cipher identifies the encoding applied to a message's text fields.
type Cipher int

const (
	CipherPlain Cipher = iota
	CipherBase64
	CipherROT13
)

func (c Cipher) String() string {
	switch c {
	case CipherBase64:
		return "base64"
	case CipherROT13:
		return "rot13"
	default:
		return "none"
	}
}

// Message is a quest offer. Text fields are already decoded; Cipher records
// which encoding the server used. Immutable once fetched.
type Message struct {
	AdID        string
	Text        string
	Reward      int
	ExpiresIn   int
	Probability string
	Cipher      Cipher
}

// Item is a shop offering. Identity is the ID; name and cost are descriptive.
type Item struct {
	ID   string
	Name string
	Cost int
}

// SolveResult is the outcome of a solve attempt plus the refreshed counters.
type SolveResult struct {
	Success   bool
	Lives     int
	Gold      int
	Score     int
	HighScore int
	Turn      int
	Narrative string
}

// BuyResult is the outcome of a purchase plus the refreshed counters.
type BuyResult struct {
	Success bool
	Gold    int
	Lives   int
	Level   int
	Turn    int
}

// wire types, kept private so callers only see validated values

type startResponse struct {
	GameID    string `json:"gameId"`
	Lives     *int   `json:"lives"`
	Gold      *int   `json:"gold"`
	Level     *int   `json:"level"`
	Score     *int   `json:"score"`
	HighScore *int   `json:"highScore"`
	Turn      *int   `json:"turn"`
}

type reputationResponse struct {
	People     *float64 `json:"people"`
	State      *float64 `json:"state"`
	Underworld *float64 `json:"underworld"`
}

type messageResponse struct {
	AdID        string `json:"adId"`
	Message     string `json:"message"`
	Reward      *int   `json:"reward"`
	ExpiresIn   *int   `json:"expiresIn"`
	Probability string `json:"probability"`
	Encrypted   *int   `json:"encrypted"`
}

type itemResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Cost *int   `json:"cost"`
}

type solveResponse struct {
	Success   *bool  `json:"success"`
	Lives     *int   `json:"lives"`
	Gold      *int   `json:"gold"`
	Score     *int   `json:"score"`
	HighScore *int   `json:"highScore"`
	Turn      *int   `json:"turn"`
	Message   string `json:"message"`
}

type buyResponse struct {
	Success *bool `json:"shoppingSuccess"`
	Gold    *int  `json:"gold"`
	Lives   *int  `json:"lives"`
	Level   *int  `json:"level"`
	Turn    *int  `json:"turn"`
}
