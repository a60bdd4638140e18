package game

import (
	"math/rand/v2"
	"strings"
)

// Tier is one difficulty bucket of candidate words.
type Tier struct {
	Name  string
	Words []string
}

// WordSource supplies the secret word for a new game.
type WordSource interface {
	Pick() (word, tier string)
}

// Dictionary picks a random tier, then a random word inside it.
type Dictionary []Tier

func (d Dictionary) Pick() (string, string) {
	tiers := make([]Tier, 0, len(d))
	for _, t := range d {
		if len(t.Words) > 0 {
			tiers = append(tiers, t)
		}
	}
	if len(tiers) == 0 {
		return "", ""
	}
	t := tiers[rand.IntN(len(tiers))]
	return strings.ToUpper(t.Words[rand.IntN(len(t.Words))]), t.Name
}

// FixedWord always yields the same word. Used for tests and demos.
type FixedWord string

func (w FixedWord) Pick() (string, string) {
	return strings.ToUpper(string(w)), "fixed"
}

// DefaultDictionary is the built-in word list.
var DefaultDictionary = Dictionary{
	{
		Name: "easy",
		Words: []string{
			"APPLE", "DREAM", "WATER", "BIRD", "DOG", "SUN", "HOUSE", "FLOWER", "HAPPY", "GHOST",
			"SMOKE", "CLOUDS", "TABLE", "CHAIR", "BOOK", "PANTS", "COFFEE", "MUSIC", "GAMES", "PIZZA",
		},
	},
	{
		Name: "medium",
		Words: []string{
			"MOUNTAIN", "KEYBOARD", "PLANET", "FRIENDSHIP", "ALPHABET", "GUITAR", "OCEAN", "CASTLE",
			"JOURNEY", "FESTIVAL", "PENCIL", "BLIZZARD", "SUNFLOWER", "OCTOPUS", "COMPUTER", "PROGRAMMING",
		},
	},
	{
		Name: "hard",
		Words: []string{
			"AMBIGUOUS", "EXAGGERATE", "INNOVATION", "PHOENIX", "SYMPHONY", "QUICKSAND",
			"ZEPHYR", "JUXTAPOSE", "PARADIGM", "SERENDIPITY", "UNEMPLOYMENT", "INCORRIGIBLE",
		},
	},
}
