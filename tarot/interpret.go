package tarot

import (
	"fmt"
	"strings"
)

// Interpretation holds the generated reading text. Detailed is empty unless
// the reading was produced for a premium user.
type Interpretation struct {
	Basic    string `json:"basic"`
	Detailed string `json:"detailed,omitempty"`
}

var questionThemes = map[string]string{
	"love":   "This reading speaks to love and relationships.",
	"money":  "This reading speaks to wealth and material fortune.",
	"work":   "This reading speaks to career and study.",
	"career": "This reading speaks to career and study.",
	"daily":  "This reading speaks to the day ahead.",
}

// Interpret builds the textual interpretation for a set of drawn cards.
// The basic text is always produced; the detailed reading is added only for
// premium readings.
func Interpret(cards []DrawnCard, questionType string, premium bool) Interpretation {
	lines := make([]string, 0, len(cards)+1)
	if theme, ok := questionThemes[questionType]; ok {
		lines = append(lines, theme)
	}
	for _, c := range cards {
		meaning := c.Upright
		if c.IsReversed {
			meaning = c.Reversed
		}
		lines = append(lines, fmt.Sprintf("%s: %s", c.Name, meaning))
	}
	basic := strings.Join(lines, "\n\n")

	out := Interpretation{Basic: basic}
	if premium {
		out.Detailed = fmt.Sprintf(
			"Detailed reading:\n%s\n\nOverall message: accept the present calmly and trust your inner wisdom.",
			basic,
		)
	}
	return out
}
