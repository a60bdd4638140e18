package game

import (
	"fmt"
	"strings"
)

const NoHintText = "No hint available."

// HintSource produces a clue for the current word. Clues must not reveal letters.
type HintSource interface {
	Hint(word, tier string) string
}

// NoHint is used when no clue generator is configured.
type NoHint struct{}

func (NoHint) Hint(string, string) string { return NoHintText }

// TierHint names the difficulty tier and the word length.
type TierHint struct{}

func (TierHint) Hint(word, tier string) string {
	if tier == "" {
		return fmt.Sprintf("The word has %d letters.", len(word))
	}
	return fmt.Sprintf("It is %s %s word with %d letters.", article(tier), tier, len(word))
}

func article(s string) string {
	if strings.ContainsRune("aeiou", rune(strings.ToLower(s)[0])) {
		return "an"
	}
	return "a"
}

// HintSourceByName maps a config value to a HintSource.
func HintSourceByName(name string) (HintSource, error) {
	switch strings.ToLower(name) {
	case "", "none":
		return NoHint{}, nil
	case "tier":
		return TierHint{}, nil
	default:
		return nil, fmt.Errorf("unknown hint source %q", name)
	}
}
