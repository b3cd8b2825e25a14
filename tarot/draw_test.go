package tarot

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeckHas78DistinctCards(t *testing.T) {
	cards := Deck()
	require.Len(t, cards, DeckSize)

	seenID := map[int]bool{}
	seenName := map[string]bool{}
	for _, c := range cards {
		assert.False(t, seenID[c.ID], "duplicate id %d", c.ID)
		assert.False(t, seenName[c.Name], "duplicate name %s", c.Name)
		seenID[c.ID] = true
		seenName[c.Name] = true
	}
}

func TestDrawCountBounds(t *testing.T) {
	for _, n := range []int{0, -1, 11, 100} {
		_, err := Draw(n)
		assert.ErrorIs(t, err, ErrInvalidCount, "count %d", n)
	}
	for _, n := range []int{1, 10} {
		cards, err := Draw(n)
		require.NoError(t, err, "count %d", n)
		assert.Len(t, cards, n)
	}
}

func TestDrawWithoutReplacement(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 50; i++ {
		cards, err := DrawWith(rng, 10)
		require.NoError(t, err)

		seen := map[int]bool{}
		for pos, c := range cards {
			assert.False(t, seen[c.ID], "card %d drawn twice", c.ID)
			seen[c.ID] = true
			assert.Equal(t, pos+1, c.Position)
		}
	}
}

func TestDrawReversalRate(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	reversed, total := 0, 0
	for i := 0; i < 1000; i++ {
		cards, err := DrawWith(rng, 5)
		require.NoError(t, err)
		for _, c := range cards {
			total++
			if c.IsReversed {
				reversed++
			}
		}
	}
	rate := float64(reversed) / float64(total)
	assert.InDelta(t, ReversalProbability, rate, 0.05)
}

func TestSpreadCardCount(t *testing.T) {
	cases := map[string]int{
		"single":       1,
		"three_card":   3,
		"five_card":    5,
		"celtic_cross": 7,
		"unknown":      1,
		"":             1,
	}
	for spread, want := range cases {
		assert.Equal(t, want, SpreadCardCount(spread), "spread %q", spread)
	}
}

func TestCardImageURL(t *testing.T) {
	card := Card{ID: 0, Name: "The Fool"}
	assert.Equal(t, "https://cdn.example.com/vintage/the_fool.png",
		CardImageURL("https://cdn.example.com/", card, "vintage"))

	ten := Card{ID: 30, Name: "Ten of Cups"}
	assert.Equal(t, "https://cdn.example.com/modern/ten_of_cups.png",
		CardImageURL("https://cdn.example.com", ten, "modern"))
}

func TestValidStyle(t *testing.T) {
	for _, s := range Styles() {
		assert.True(t, ValidStyle(s.ID))
	}
	assert.False(t, ValidStyle("watercolor"))
	assert.False(t, ValidStyle(""))
}
