package models

// Strategy identifies the predictor (or fallback) that produced a
// decision. The set is closed; profile bookkeeping is keyed by it.
type Strategy string

const (
	StrategyFrequency Strategy = "frequency"
	StrategyMarkov    Strategy = "markov"
	StrategySequence  Strategy = "sequence"
	StrategyRandom    Strategy = "random"
	StrategySeed      Strategy = "seed"
	StrategyExploit   Strategy = "exploit"
)

// Predictors are the learnable sign-game strategies tracked for
// per-opponent accuracy and cooldowns.
var Predictors = [3]Strategy{StrategyFrequency, StrategyMarkov, StrategySequence}

// Valid reports whether s is a known strategy label.
func (s Strategy) Valid() bool {
	switch s {
	case StrategyFrequency, StrategyMarkov, StrategySequence,
		StrategyRandom, StrategySeed, StrategyExploit:
		return true
	}
	return false
}

// MoveDecision is the sign-game output: a move plus provenance for
// logging and post-game accuracy bookkeeping.
type MoveDecision struct {
	Move       Move     `json:"move"`
	Strategy   Strategy `json:"strategy"`
	Confidence float64  `json:"confidence"`
}

// CardActionKind is the closed set of budgeted card-game actions.
type CardActionKind uint8

const (
	ActCheck CardActionKind = iota
	ActBet
	ActCall
	ActRaise
	ActFold
)

func (k CardActionKind) String() string {
	switch k {
	case ActCheck:
		return "check"
	case ActBet:
		return "bet"
	case ActCall:
		return "call"
	case ActRaise:
		return "raise"
	case ActFold:
		return "fold"
	}
	return "unknown"
}

// Valid reports whether k is a defined card action.
func (k CardActionKind) Valid() bool { return k <= ActFold }

// CardDecision is the card-game output: an action, the wei amount it
// carries (zero for check/fold), and a confidence for logging.
type CardDecision struct {
	Action     CardActionKind `json:"action"`
	AmountWei  uint64         `json:"amount_wei"`
	Confidence float64        `json:"confidence"`
}

// BidStyle labels a sealed-bid decision for observability only; it has
// no effect on the submitted amount.
type BidStyle string

const (
	BidAggressive   BidStyle = "aggressive"
	BidBalanced     BidStyle = "balanced"
	BidConservative BidStyle = "conservative"
)

// BidDecision is the auction output.
type BidDecision struct {
	AmountWei uint64   `json:"amount_wei"`
	Fraction  float64  `json:"fraction"`
	Style     BidStyle `json:"style"`
}
