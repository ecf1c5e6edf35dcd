package daily

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/jmylchreest/dailywords/internal/store"
	"github.com/jmylchreest/dailywords/internal/words"
)

// Reason records why a selection was returned as-is or regenerated.
type Reason string

const (
	// ReasonCached means the stored selection belongs to today.
	ReasonCached Reason = "cached"
	// ReasonMissing means nothing was stored (or the store could not be read).
	ReasonMissing Reason = "missing"
	// ReasonStale means the stored selection belongs to another day.
	ReasonStale Reason = "stale"
	// ReasonCorrupt means the stored words could not be parsed.
	ReasonCorrupt Reason = "corrupt"
	// ReasonForced means regeneration was requested explicitly.
	ReasonForced Reason = "forced"
)

// Options configures a Manager.
type Options struct {
	Bank   *words.Bank
	Store  store.KV
	Logger *slog.Logger

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
	// Rand is the shuffle source. Defaults to the global generator.
	Rand *rand.Rand
}

// Manager owns the word bank and keeps the day's selection in the store.
type Manager struct {
	mu     sync.Mutex
	bank   *words.Bank
	kv     store.KV
	logger *slog.Logger
	now    func() time.Time
	rng    *rand.Rand

	lastReason Reason
}

// NewManager creates a Manager. Bank and Store are required.
func NewManager(opts Options) (*Manager, error) {
	if opts.Bank == nil {
		return nil, fmt.Errorf("daily: word bank is required")
	}
	if opts.Store == nil {
		return nil, fmt.Errorf("daily: store is required")
	}
	if err := opts.Bank.Validate(); err != nil {
		return nil, err
	}

	m := &Manager{
		bank:   opts.Bank,
		kv:     opts.Store,
		logger: opts.Logger,
		now:    opts.Now,
		rng:    opts.Rand,
	}
	if m.logger == nil {
		m.logger = slog.Default()
	}
	if m.now == nil {
		m.now = time.Now
	}
	return m, nil
}

// Now returns the manager's current time.
func (m *Manager) Now() time.Time {
	return m.now()
}

// CurrentDateKey returns today's date key.
func (m *Manager) CurrentDateKey() string {
	return DateKey(m.now())
}

// Bank returns the word bank.
func (m *Manager) Bank() *words.Bank {
	return m.bank
}

// LastReason returns the reason for the most recent LoadOrCreate or ForceRegenerate.
func (m *Manager) LastReason() Reason {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastReason
}

// GenerateSelection returns a fresh random selection without persisting it.
func (m *Manager) GenerateSelection() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Generate(m.bank, m.rng)
}

// LoadOrCreate returns today's stored selection, or generates and stores a new one
// when the stored state is missing, stale, or corrupt.
// The returned selection is always valid; a non-nil error means it could not be persisted.
func (m *Manager) LoadOrCreate() (Selection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	today := DateKey(m.now())

	stored, reason := m.readStored(today)
	if reason == ReasonCached {
		m.lastReason = reason
		return Selection{Date: today, Words: stored}, nil
	}

	m.logger.Debug("regenerating daily selection", "date", today, "reason", reason)
	return m.regenerate(today, reason)
}

// ForceRegenerate generates and stores a new selection for today regardless of stored state.
func (m *Manager) ForceRegenerate() (Selection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	today := DateKey(m.now())
	m.logger.Debug("forcing daily selection", "date", today)
	return m.regenerate(today, ReasonForced)
}

// Inspect reports what LoadOrCreate would do, without writing anything.
// The selection is only set when the reason is ReasonCached.
func (m *Manager) Inspect() (Selection, Reason) {
	m.mu.Lock()
	defer m.mu.Unlock()

	today := DateKey(m.now())
	stored, reason := m.readStored(today)
	if reason != ReasonCached {
		return Selection{}, reason
	}
	return Selection{Date: today, Words: stored}, reason
}

// readStored reads persisted state and classifies it. Callers must hold the lock.
func (m *Manager) readStored(today string) ([]string, Reason) {
	date, ok, err := m.kv.Get(store.KeyDate)
	if err != nil {
		m.logger.Warn("failed to read stored date", "error", err)
		return nil, ReasonMissing
	}
	if !ok {
		return nil, ReasonMissing
	}

	raw, ok, err := m.kv.Get(store.KeyWords)
	if err != nil {
		m.logger.Warn("failed to read stored words", "error", err)
		return nil, ReasonMissing
	}
	if !ok {
		return nil, ReasonMissing
	}

	if date != today {
		return nil, ReasonStale
	}

	ws, err := decodeWords(raw)
	if err != nil {
		m.logger.Debug("stored selection is corrupt", "error", err)
		return nil, ReasonCorrupt
	}
	return ws, ReasonCached
}

// regenerate builds and persists a new selection. Callers must hold the lock.
func (m *Manager) regenerate(today string, reason Reason) (Selection, error) {
	sel := Selection{Date: today, Words: Generate(m.bank, m.rng)}
	m.lastReason = reason

	encoded, err := encodeWords(sel.Words)
	if err != nil {
		return sel, fmt.Errorf("encode selection: %w", err)
	}

	if err := store.SetAll(m.kv, map[string]string{
		store.KeyWords: encoded,
		store.KeyDate:  today,
	}); err != nil {
		m.logger.Warn("failed to persist daily selection", "error", err)
		return sel, fmt.Errorf("persist selection: %w", err)
	}
	return sel, nil
}
