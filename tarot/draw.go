package tarot

import (
	"errors"
	"math/rand"
	"sync"
	"time"
)

const (
	// ReversalProbability is the per-card chance a drawn card lands reversed.
	ReversalProbability = 0.3

	// MinDrawCount and MaxDrawCount bound a single draw regardless of spread.
	MinDrawCount = 1
	MaxDrawCount = 10
)

// ErrInvalidCount is returned when a draw request falls outside the allowed range.
var ErrInvalidCount = errors.New("card count must be between 1 and 10")

// DrawnCard is a card pulled into a reading, with its position in the spread
// and its orientation.
type DrawnCard struct {
	Card
	Position   int  `json:"position"`
	IsReversed bool `json:"is_reversed"`
}

var (
	defaultRng   = rand.New(rand.NewSource(time.Now().UnixNano()))
	defaultRngMu sync.Mutex
)

// Draw samples count distinct cards uniformly without replacement and flips
// each to reversed with probability ReversalProbability.
func Draw(count int) ([]DrawnCard, error) {
	defaultRngMu.Lock()
	defer defaultRngMu.Unlock()
	return DrawWith(defaultRng, count)
}

// DrawWith is Draw with an injected RNG, so callers and tests control the
// randomness source.
func DrawWith(rng *rand.Rand, count int) ([]DrawnCard, error) {
	if count < MinDrawCount || count > MaxDrawCount {
		return nil, ErrInvalidCount
	}

	order := rng.Perm(len(deck))
	drawn := make([]DrawnCard, count)
	for i := 0; i < count; i++ {
		drawn[i] = DrawnCard{
			Card:       deck[order[i]],
			Position:   i + 1,
			IsReversed: rng.Float64() < ReversalProbability,
		}
	}
	return drawn, nil
}

// Spread card counts. Unknown spread types fall back to a single card; the
// result is still validated against the draw range by the caller.
var spreadCounts = map[string]int{
	"single":       1,
	"three_card":   3,
	"five_card":    5,
	"celtic_cross": 7,
}

// SpreadCardCount maps a spread type to the number of cards it lays out.
func SpreadCardCount(spreadType string) int {
	if n, ok := spreadCounts[spreadType]; ok {
		return n
	}
	return 1
}
