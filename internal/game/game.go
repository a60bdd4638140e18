// Package game holds the authoritative state of the word guessing game
// played inside a room.
package game

import (
	"errors"
	"fmt"
	"strings"

	"duet/internal/protocol"
)

const (
	MaxTurns    = 6
	Placeholder = "_"
)

var (
	ErrGameOver       = errors.New("game is over")
	ErrInvalidGuess   = errors.New("guess must be a single letter A-Z")
	ErrAlreadyGuessed = errors.New("letter already guessed")
)

// Game is not safe for concurrent use. A room's game is only touched from
// the dispatch loop.
type Game struct {
	words WordSource
	hints HintSource

	word    string
	tier    string
	display []byte
	turns   int
	guessed []byte
	status  protocol.GameStatus
	message string
	hint    string
}

// New starts a game with a word from words. A nil words uses
// DefaultDictionary and a nil hints uses NoHint.
func New(words WordSource, hints HintSource) *Game {
	if words == nil {
		words = DefaultDictionary
	}
	if hints == nil {
		hints = NoHint{}
	}
	g := &Game{words: words, hints: hints}
	g.Restart()
	return g
}

// Restart replaces the whole session with a fresh word. A source that
// yields no word is backed by DefaultDictionary.
func (g *Game) Restart() {
	word, tier := g.words.Pick()
	if word == "" {
		word, tier = DefaultDictionary.Pick()
	}
	g.word = word
	g.tier = tier
	g.display = []byte(strings.Repeat(Placeholder, len(word)))
	g.turns = MaxTurns
	g.guessed = g.guessed[:0]
	g.status = protocol.StatusPlaying
	g.message = fmt.Sprintf("The word has %d letters.", len(word))
	g.hint = ""
}

// Guess applies one letter. Any returned error means the state is unchanged.
func (g *Game) Guess(input string) error {
	letter, err := normalize(input)
	if err != nil {
		return err
	}
	if g.status == protocol.StatusOver {
		return ErrGameOver
	}
	for _, l := range g.guessed {
		if l == letter {
			return ErrAlreadyGuessed
		}
	}
	g.guessed = append(g.guessed, letter)

	found := false
	for i := 0; i < len(g.word); i++ {
		if g.word[i] == letter {
			g.display[i] = letter
			found = true
		}
	}
	if found {
		g.message = "Good guess!"
	} else {
		g.turns--
		g.message = fmt.Sprintf("Sorry, '%c' is not in the word.", letter)
	}

	// win first: revealing the last letter never counts as a loss
	switch {
	case !strings.Contains(string(g.display), Placeholder):
		g.status = protocol.StatusOver
		g.message = fmt.Sprintf("Congratulations! The word was: %s", g.word)
	case g.turns <= 0:
		g.turns = 0
		g.status = protocol.StatusOver
		g.message = fmt.Sprintf("You ran out of turns. The word was: %s", g.word)
	}
	return nil
}

// RequestHint fills in the hint. Calling it again yields the same hint.
func (g *Game) RequestHint() error {
	if g.status == protocol.StatusOver {
		return ErrGameOver
	}
	g.hint = g.hints.Hint(g.word, g.tier)
	return nil
}

// Snapshot copies the state so callers can marshal it after further moves.
func (g *Game) Snapshot() protocol.GameState {
	display := make([]string, len(g.display))
	for i, c := range g.display {
		display[i] = string(c)
	}
	guessed := make([]string, len(g.guessed))
	for i, c := range g.guessed {
		guessed[i] = string(c)
	}
	return protocol.GameState{
		CurrentWord:    g.word,
		DisplayWord:    display,
		TurnsLeft:      g.turns,
		GuessedLetters: guessed,
		GameStatus:     g.status,
		Message:        g.message,
		Hint:           g.hint,
	}
}

func normalize(input string) (byte, error) {
	s := strings.ToUpper(input)
	if len(s) != 1 || s[0] < 'A' || s[0] > 'Z' {
		return 0, ErrInvalidGuess
	}
	return s[0], nil
}
