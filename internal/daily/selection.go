// Package daily picks and persists the topic selection for the current day.
package daily

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/jmylchreest/dailywords/internal/words"
)

// SelectionSize is the number of topics shown per day.
const SelectionSize = 10

// DateLayout formats a date key.
const DateLayout = "2006-01-02"

// ErrInvalidSelection is returned when stored words do not form a valid selection.
var ErrInvalidSelection = errors.New("invalid selection")

// Selection is the set of topics chosen for one calendar day.
type Selection struct {
	Date  string   `json:"date" yaml:"date"`
	Words []string `json:"words" yaml:"words"`
}

// DateKey returns the local calendar date of t as YYYY-MM-DD.
func DateKey(t time.Time) string {
	return t.Local().Format(DateLayout)
}

// Generate shuffles a copy of the bank and returns its first SelectionSize topics.
// A bank smaller than SelectionSize yields all of its topics, shuffled.
func Generate(bank *words.Bank, rng *rand.Rand) []string {
	shuffled := bank.Words()
	shuffle := rand.Shuffle
	if rng != nil {
		shuffle = rng.Shuffle
	}
	shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled[:min(SelectionSize, len(shuffled))]
}

// encodeWords serializes words the way they are stored under the words key.
func encodeWords(ws []string) (string, error) {
	data, err := json.Marshal(ws)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// decodeWords parses a stored words value and validates it.
func decodeWords(raw string) ([]string, error) {
	var ws []string
	if err := json.Unmarshal([]byte(raw), &ws); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSelection, err)
	}
	if err := validateWords(ws); err != nil {
		return nil, err
	}
	return ws, nil
}

func validateWords(ws []string) error {
	if len(ws) != SelectionSize {
		return fmt.Errorf("%w: want %d words, got %d", ErrInvalidSelection, SelectionSize, len(ws))
	}
	seen := make(map[string]bool, len(ws))
	for _, w := range ws {
		if w == "" {
			return fmt.Errorf("%w: empty word", ErrInvalidSelection)
		}
		if seen[w] {
			return fmt.Errorf("%w: duplicate word %q", ErrInvalidSelection, w)
		}
		seen[w] = true
	}
	return nil
}
