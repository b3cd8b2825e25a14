package tarot

import (
	"fmt"
	"regexp"
	"strings"
)

// Card is one card of the 78-card deck.
type Card struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Arcana   string `json:"arcana"` // "major" or "minor"
	Suit     string `json:"suit,omitempty"`
	Number   int    `json:"number"`
	Keywords string `json:"keywords"`
	Upright  string `json:"upright"`
	Reversed string `json:"reversed"`
}

var majorArcana = []Card{
	{0, "The Fool", "major", "", 0, "beginnings, innocence, adventure, freedom",
		"A new journey begins. Approach it with an open heart; endless possibility awaits.",
		"Beware of reckless decisions. A more careful approach is needed before you leap."},
	{1, "The Magician", "major", "", 1, "willpower, creation, action, focus",
		"You have every tool you need. Trust your abilities and put your plans into motion.",
		"Your talents may be aimed at the wrong goal. Reconsider your true purpose."},
	{2, "The High Priestess", "major", "", 2, "intuition, mystery, inner wisdom, subconscious",
		"Listen to your inner voice. A hidden truth is about to reveal itself.",
		"Emotions are clouding your judgement. Quiet your mind before deciding."},
	{3, "The Empress", "major", "", 3, "abundance, creativity, nurture, nature",
		"A season of abundance approaches. Creative energy flows through everything you touch.",
		"Guard against excess and dependence. Balance is what matters now."},
	{4, "The Emperor", "major", "", 4, "authority, stability, leadership, structure",
		"Build on solid foundations. Structured, disciplined effort pays off.",
		"Rigidity and control are working against you. Practice flexibility."},
	{5, "The Hierophant", "major", "", 5, "tradition, guidance, teaching, belief",
		"Wisdom can be found in tradition. Seek the counsel of a mentor.",
		"Do not follow convention blindly. Your own path is calling."},
	{6, "The Lovers", "major", "", 6, "love, choice, harmony, union",
		"Love and harmony surround you. An important choice stands before you.",
		"Discord or a poor choice looms. Decide carefully and honestly."},
	{7, "The Chariot", "major", "", 7, "victory, willpower, direction, achievement",
		"Determination carries you to victory. Keep a firm grip on the reins.",
		"Scattered effort leads nowhere. Regain control of your direction."},
	{8, "Strength", "major", "", 8, "courage, patience, inner strength, compassion",
		"Gentle courage overcomes brute force. Your quiet persistence will prevail.",
		"Self-doubt is sapping your strength. Be patient with yourself."},
	{9, "The Hermit", "major", "", 9, "introspection, solitude, guidance, searching",
		"Step back and reflect. The answer you seek lies within.",
		"Isolation has gone on too long. It is time to rejoin the world."},
	{10, "Wheel of Fortune", "major", "", 10, "cycles, destiny, turning point, luck",
		"The wheel turns in your favor. Embrace the change that fortune brings.",
		"Events feel outside your control. Ride out the downturn; it will pass."},
	{11, "Justice", "major", "", 11, "fairness, truth, cause and effect, law",
		"Truth and fairness prevail. Decisions made now will be honored.",
		"An imbalance needs correcting. Face the consequences honestly."},
	{12, "The Hanged Man", "major", "", 12, "surrender, new perspective, pause, sacrifice",
		"Let go and see things from a new angle. The pause itself is progress.",
		"Needless sacrifice and stalling hold you back. Release what binds you."},
	{13, "Death", "major", "", 13, "endings, transformation, transition, renewal",
		"One chapter closes so another may open. Welcome the transformation.",
		"You are resisting a necessary ending. Holding on only prolongs the pain."},
	{14, "Temperance", "major", "", 14, "balance, moderation, patience, harmony",
		"Blend opposing forces with patience. Moderation brings peace.",
		"Excess has tipped the scales. Restore your equilibrium."},
	{15, "The Devil", "major", "", 15, "bondage, temptation, materialism, shadow",
		"Examine what chains you. Naming the temptation is the first step to freedom.",
		"The chains are loosening. You are ready to break an unhealthy bond."},
	{16, "The Tower", "major", "", 16, "upheaval, revelation, sudden change, awakening",
		"A sudden shake-up clears away the false. What remains is real.",
		"You are delaying an inevitable collapse. Let the old structure fall."},
	{17, "The Star", "major", "", 17, "hope, inspiration, healing, serenity",
		"Hope is renewed. Healing and inspiration flow toward you.",
		"Faith feels distant. Tend the small spark; it has not gone out."},
	{18, "The Moon", "major", "", 18, "illusion, intuition, uncertainty, dreams",
		"Not everything is as it seems. Trust intuition over appearances.",
		"Confusion begins to lift. Clarity returns as fears recede."},
	{19, "The Sun", "major", "", 19, "joy, success, vitality, clarity",
		"Warmth and success shine on you. Celebrate openly.",
		"Clouded joy or delayed success. The light is there; let it in."},
	{20, "Judgement", "major", "", 20, "rebirth, reckoning, calling, absolution",
		"A calling demands an answer. Rise renewed from past judgements.",
		"Self-criticism drowns out the call. Forgive yourself and move on."},
	{21, "The World", "major", "", 21, "completion, fulfillment, wholeness, travel",
		"A cycle completes in fulfillment. You have earned this wholeness.",
		"Loose ends prevent closure. Finish what remains before moving on."},
}

type suitInfo struct {
	name  string
	theme string
}

var minorSuits = []suitInfo{
	{"Wands", "passion and ambition"},
	{"Cups", "emotion and relationships"},
	{"Swords", "intellect and conflict"},
	{"Pentacles", "work and material life"},
}

type rankInfo struct {
	name     string
	keywords string
	upright  string
	reversed string
}

var minorRanks = []rankInfo{
	{"Ace", "new energy, potential, a seed", "A fresh start in %s. Plant the seed now.", "A delayed beginning in %s. The moment is not yet ripe."},
	{"Two", "duality, choice, balance", "A crossroads in %s. Weigh both paths calmly.", "Indecision stalls your %s. Commit to one direction."},
	{"Three", "growth, collaboration, first results", "Early growth in %s. Shared effort multiplies it.", "Stunted progress in %s. Revisit the foundations."},
	{"Four", "stability, rest, consolidation", "A stable plateau in %s. Consolidate before climbing on.", "Restlessness disturbs your %s. Stability has become stagnation."},
	{"Five", "conflict, loss, challenge", "A trial in %s tests your resolve. Stand firm.", "The worst of the struggle in %s is behind you."},
	{"Six", "harmony, generosity, passage", "Harmony returns to %s. Share the good fortune.", "An uneven exchange in %s. Rebalance giving and taking."},
	{"Seven", "assessment, patience, perseverance", "Pause and assess your %s. Patience will be repaid.", "Impatience undermines your %s. Do not abandon the field early."},
	{"Eight", "movement, mastery, effort", "Swift progress in %s. Skill meets momentum.", "Effort without direction scatters your %s."},
	{"Nine", "fruition, resilience, near completion", "Your %s nears fruition. One last push remains.", "Weariness shadows your %s. Rest before the final step."},
	{"Ten", "completion, legacy, culmination", "A cycle of %s completes. Enjoy what you built.", "A heavy ending in %s. Set the burden down."},
	{"Page", "curiosity, messages, study", "A message or new study touching %s arrives.", "Unfocused curiosity scatters your %s."},
	{"Knight", "pursuit, drive, adventure", "Bold pursuit advances your %s. Ride with purpose.", "Haste or delay disrupts your %s. Check your pace."},
	{"Queen", "maturity, care, mastery of feeling", "Nurturing mastery strengthens your %s.", "Neglect of self erodes your %s. Care inward first."},
	{"King", "authority, command, completion of will", "Confident command settles your %s.", "Heavy-handedness sours your %s. Lead with a lighter touch."},
}

var deck = buildDeck()

func buildDeck() []Card {
	cards := make([]Card, 0, 78)
	cards = append(cards, majorArcana...)
	id := len(majorArcana)
	for _, s := range minorSuits {
		for i, r := range minorRanks {
			cards = append(cards, Card{
				ID:       id,
				Name:     fmt.Sprintf("%s of %s", r.name, s.name),
				Arcana:   "minor",
				Suit:     strings.ToLower(s.name),
				Number:   i + 1,
				Keywords: r.keywords,
				Upright:  fmt.Sprintf(r.upright, s.theme),
				Reversed: fmt.Sprintf(r.reversed, s.theme),
			})
			id++
		}
	}
	return cards
}

// Deck returns the full 78-card deck in canonical order.
func Deck() []Card {
	out := make([]Card, len(deck))
	copy(out, deck)
	return out
}

// DeckSize is the number of cards in a complete deck.
const DeckSize = 78

var slugPattern = regexp.MustCompile(`[^a-z0-9_]`)

// CardImageURL derives the CDN image URL for a card rendered in a style.
func CardImageURL(baseURL string, card Card, style string) string {
	slug := strings.ToLower(card.Name)
	slug = strings.ReplaceAll(slug, " ", "_")
	slug = slugPattern.ReplaceAllString(slug, "")
	if slug == "" {
		slug = fmt.Sprintf("card_%d", card.ID)
	}
	return fmt.Sprintf("%s/%s/%s.png", strings.TrimRight(baseURL, "/"), style, slug)
}

// Style is a selectable card art style.
type Style struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Styles lists the card art styles clients may request.
func Styles() []Style {
	return []Style{
		{ID: "vintage", Name: "Vintage", Description: "Classic, elegant traditional tarot artwork"},
		{ID: "cartoon", Name: "Cartoon", Description: "Friendly modern illustration style"},
		{ID: "modern", Name: "Modern", Description: "Sleek minimalist contemporary design"},
	}
}

// ValidStyle reports whether the style id is one of the published styles.
func ValidStyle(id string) bool {
	for _, s := range Styles() {
		if s.ID == id {
			return true
		}
	}
	return false
}
