// Package words provides the topic word bank that daily selections draw from.
package words

import (
	"bufio"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// MinBankSize is the smallest bank a daily selection can be drawn from.
const MinBankSize = 10

//go:embed topics.txt
var defaultTopics string

// Validation errors.
var (
	ErrTooFewWords   = errors.New("word bank must contain at least 10 topics")
	ErrDuplicateWord = errors.New("word bank contains a duplicate topic")
	ErrEmptyWord     = errors.New("word bank contains an empty topic")
)

// Bank is an immutable ordered list of unique topics.
type Bank struct {
	words []string
}

// New builds a Bank from words, validating it.
func New(words []string) (*Bank, error) {
	b := &Bank{words: append([]string(nil), words...)}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

// Default returns the embedded topic bank.
func Default() *Bank {
	b, err := Parse(strings.NewReader(defaultTopics))
	if err != nil {
		// The embedded bank is fixed at build time and covered by tests.
		panic(fmt.Sprintf("words: invalid embedded bank: %v", err))
	}
	return b
}

// Parse reads a line-based bank. Blank lines and lines starting with # are skipped.
func Parse(r io.Reader) (*Bank, error) {
	var words []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read word bank: %w", err)
	}
	return New(words)
}

// Load reads a custom word bank file.
// An empty path returns the default bank.
func Load(path string) (*Bank, error) {
	if path == "" {
		return Default(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open word bank %s: %w", path, err)
	}
	defer f.Close()

	b, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("word bank %s: %w", path, err)
	}
	return b, nil
}

// Validate checks the bank can produce a full selection of distinct topics.
func (b *Bank) Validate() error {
	if len(b.words) < MinBankSize {
		return fmt.Errorf("%w: got %d", ErrTooFewWords, len(b.words))
	}

	seen := make(map[string]bool, len(b.words))
	for _, w := range b.words {
		if strings.TrimSpace(w) == "" {
			return ErrEmptyWord
		}
		if seen[w] {
			return fmt.Errorf("%w: %q", ErrDuplicateWord, w)
		}
		seen[w] = true
	}
	return nil
}

// Words returns a copy of the topics in bank order.
func (b *Bank) Words() []string {
	return append([]string(nil), b.words...)
}

// Len returns the number of topics.
func (b *Bank) Len() int {
	return len(b.words)
}

// Contains reports whether w is in the bank.
func (b *Bank) Contains(w string) bool {
	for _, x := range b.words {
		if x == w {
			return true
		}
	}
	return false
}
