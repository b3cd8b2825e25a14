package tarot

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleCards() []DrawnCard {
	d := Deck()
	return []DrawnCard{
		{Card: d[0], Position: 1, IsReversed: false},
		{Card: d[1], Position: 2, IsReversed: true},
	}
}

func TestInterpretUsesOrientation(t *testing.T) {
	cards := sampleCards()
	out := Interpret(cards, "love", false)

	assert.Contains(t, out.Basic, cards[0].Upright)
	assert.Contains(t, out.Basic, cards[1].Reversed)
	assert.NotContains(t, out.Basic, cards[1].Upright)
}

func TestInterpretQuestionTheme(t *testing.T) {
	cards := sampleCards()

	love := Interpret(cards, "love", false)
	assert.True(t, strings.HasPrefix(love.Basic, questionThemes["love"]))

	unknown := Interpret(cards, "dreams", false)
	assert.False(t, strings.HasPrefix(unknown.Basic, "This reading speaks"))
}

func TestInterpretDetailedIsPremiumOnly(t *testing.T) {
	cards := sampleCards()

	free := Interpret(cards, "money", false)
	assert.Empty(t, free.Detailed)

	premium := Interpret(cards, "money", true)
	require.NotEmpty(t, premium.Detailed)
	assert.Contains(t, premium.Detailed, premium.Basic)
	assert.Equal(t, free.Basic, premium.Basic)
}
