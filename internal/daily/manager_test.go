package daily

import (
	"errors"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/jmylchreest/dailywords/internal/store"
	"github.com/jmylchreest/dailywords/internal/words"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testClock is a settable clock.
type testClock struct {
	t time.Time
}

func (c *testClock) Now() time.Time { return c.t }

func localDate(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.Local)
}

func newTestManager(t *testing.T, kv store.KV, clock *testClock) *Manager {
	t.Helper()
	m, err := NewManager(Options{
		Bank:  words.Default(),
		Store: kv,
		Now:   clock.Now,
		Rand:  rand.New(rand.NewPCG(1, 2)),
	})
	require.NoError(t, err)
	return m
}

func storedWords(ws []string) string {
	s, _ := encodeWords(ws)
	return s
}

func assertValidSelection(t *testing.T, bank *words.Bank, ws []string) {
	t.Helper()
	require.Len(t, ws, SelectionSize)
	seen := make(map[string]bool)
	for _, w := range ws {
		assert.True(t, bank.Contains(w), "word %q not in bank", w)
		assert.False(t, seen[w], "duplicate word %q", w)
		seen[w] = true
	}
}

func TestNewManager_RequiresBankAndStore(t *testing.T) {
	_, err := NewManager(Options{Store: store.NewMemoryKV()})
	assert.Error(t, err)

	_, err = NewManager(Options{Bank: words.Default()})
	assert.Error(t, err)
}

func TestManager_CurrentDateKey(t *testing.T) {
	clock := &testClock{t: localDate(2024, time.January, 1)}
	m := newTestManager(t, store.NewMemoryKV(), clock)

	assert.Equal(t, "2024-01-01", m.CurrentDateKey())

	clock.t = time.Date(2024, time.December, 31, 23, 59, 59, 0, time.Local)
	assert.Equal(t, "2024-12-31", m.CurrentDateKey())
}

func TestGenerate_TenDistinctBankMembers(t *testing.T) {
	bank := words.Default()
	rng := rand.New(rand.NewPCG(42, 7))

	for i := 0; i < 200; i++ {
		assertValidSelection(t, bank, Generate(bank, rng))
	}
}

func TestGenerate_DoesNotMutateBank(t *testing.T) {
	bank := words.Default()
	before := bank.Words()

	Generate(bank, rand.New(rand.NewPCG(3, 4)))

	assert.Equal(t, before, bank.Words())
}

func TestGenerate_NilRandUsesGlobalSource(t *testing.T) {
	assertValidSelection(t, words.Default(), Generate(words.Default(), nil))
}

func TestGenerate_CoversWholeBank(t *testing.T) {
	bank := words.Default()
	rng := rand.New(rand.NewPCG(9, 9))
	seen := make(map[string]bool)

	for i := 0; i < 500; i++ {
		for _, w := range Generate(bank, rng) {
			seen[w] = true
		}
	}

	assert.Len(t, seen, bank.Len())
}

func TestManager_GenerateSelectionDoesNotPersist(t *testing.T) {
	kv := store.NewMemoryKV()
	m := newTestManager(t, kv, &testClock{t: localDate(2024, time.January, 1)})

	assertValidSelection(t, m.Bank(), m.GenerateSelection())
	assert.Equal(t, 0, kv.Writes())
}

func TestLoadOrCreate_EmptyStore(t *testing.T) {
	kv := store.NewMemoryKV()
	m := newTestManager(t, kv, &testClock{t: localDate(2024, time.January, 1)})

	sel, err := m.LoadOrCreate()
	require.NoError(t, err)

	assert.Equal(t, "2024-01-01", sel.Date)
	assertValidSelection(t, m.Bank(), sel.Words)
	assert.Equal(t, ReasonMissing, m.LastReason())

	date, ok, _ := kv.Get(store.KeyDate)
	assert.True(t, ok)
	assert.Equal(t, "2024-01-01", date)

	raw, ok, _ := kv.Get(store.KeyWords)
	assert.True(t, ok)
	assert.Equal(t, storedWords(sel.Words), raw)
}

func TestLoadOrCreate_SameDayReturnsStoredWithoutWriting(t *testing.T) {
	stored := words.Default().Words()[:SelectionSize]

	kv := store.NewMemoryKV()
	require.NoError(t, kv.Set(store.KeyWords, storedWords(stored)))
	require.NoError(t, kv.Set(store.KeyDate, "2024-01-01"))
	writes := kv.Writes()

	m := newTestManager(t, kv, &testClock{t: localDate(2024, time.January, 1)})

	sel, err := m.LoadOrCreate()
	require.NoError(t, err)

	assert.Equal(t, stored, sel.Words)
	assert.Equal(t, ReasonCached, m.LastReason())
	assert.Equal(t, writes, kv.Writes(), "cache hit must not write")
}

func TestLoadOrCreate_IdempotentWithinDay(t *testing.T) {
	kv := store.NewMemoryKV()
	clock := &testClock{t: time.Date(2024, time.January, 1, 0, 0, 1, 0, time.Local)}
	m := newTestManager(t, kv, clock)

	first, err := m.LoadOrCreate()
	require.NoError(t, err)

	for _, h := range []int{6, 12, 18, 23} {
		clock.t = time.Date(2024, time.January, 1, h, 59, 59, 0, time.Local)
		again, err := m.LoadOrCreate()
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestLoadOrCreate_NewDayRegenerates(t *testing.T) {
	stored := words.Default().Words()[:SelectionSize]

	kv := store.NewMemoryKV()
	require.NoError(t, kv.Set(store.KeyWords, storedWords(stored)))
	require.NoError(t, kv.Set(store.KeyDate, "2024-01-01"))
	writes := kv.Writes()

	m := newTestManager(t, kv, &testClock{t: localDate(2024, time.January, 2)})

	sel, err := m.LoadOrCreate()
	require.NoError(t, err)

	assert.Equal(t, "2024-01-02", sel.Date)
	assertValidSelection(t, m.Bank(), sel.Words)
	assert.Equal(t, ReasonStale, m.LastReason())
	assert.Greater(t, kv.Writes(), writes)

	date, _, _ := kv.Get(store.KeyDate)
	assert.Equal(t, "2024-01-02", date)
	raw, _, _ := kv.Get(store.KeyWords)
	assert.Equal(t, storedWords(sel.Words), raw)
}

func TestLoadOrCreate_CorruptState(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"not_json", "{definitely not json"},
		{"wrong_type", `{"words":1}`},
		{"too_few", `["a","b","c"]`},
		{"duplicates", `["a","a","b","c","d","e","f","g","h","i"]`},
		{"empty_entry", `["","b","c","d","e","f","g","h","i","j"]`},
		{"empty_string", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := store.NewMemoryKV()
			require.NoError(t, kv.Set(store.KeyWords, tt.value))
			require.NoError(t, kv.Set(store.KeyDate, "2024-01-01"))

			m := newTestManager(t, kv, &testClock{t: localDate(2024, time.January, 1)})

			sel, err := m.LoadOrCreate()
			require.NoError(t, err)
			assertValidSelection(t, m.Bank(), sel.Words)
			assert.Equal(t, ReasonCorrupt, m.LastReason())

			raw, _, _ := kv.Get(store.KeyWords)
			assert.Equal(t, storedWords(sel.Words), raw)
		})
	}
}

func TestLoadOrCreate_DateWithoutWords(t *testing.T) {
	kv := store.NewMemoryKV()
	require.NoError(t, kv.Set(store.KeyDate, "2024-01-01"))

	m := newTestManager(t, kv, &testClock{t: localDate(2024, time.January, 1)})

	sel, err := m.LoadOrCreate()
	require.NoError(t, err)
	assertValidSelection(t, m.Bank(), sel.Words)
	assert.Equal(t, ReasonMissing, m.LastReason())
}

func TestForceRegenerate_StoreReflectsLatest(t *testing.T) {
	kv := store.NewMemoryKV()
	m := newTestManager(t, kv, &testClock{t: localDate(2024, time.January, 1)})

	first, err := m.ForceRegenerate()
	require.NoError(t, err)
	second, err := m.ForceRegenerate()
	require.NoError(t, err)

	assertValidSelection(t, m.Bank(), first.Words)
	assertValidSelection(t, m.Bank(), second.Words)
	assert.Equal(t, ReasonForced, m.LastReason())

	raw, _, _ := kv.Get(store.KeyWords)
	assert.Equal(t, storedWords(second.Words), raw)

	// The forced selection is what later loads return
	loaded, err := m.LoadOrCreate()
	require.NoError(t, err)
	assert.Equal(t, second, loaded)
}

func TestForceRegenerate_IgnoresCachedState(t *testing.T) {
	stored := words.Default().Words()[:SelectionSize]

	kv := store.NewMemoryKV()
	require.NoError(t, kv.Set(store.KeyWords, storedWords(stored)))
	require.NoError(t, kv.Set(store.KeyDate, "2024-01-01"))
	writes := kv.Writes()

	m := newTestManager(t, kv, &testClock{t: localDate(2024, time.January, 1)})

	_, err := m.ForceRegenerate()
	require.NoError(t, err)
	assert.Greater(t, kv.Writes(), writes)
}

// failingKV reads fine but cannot be written.
type failingKV struct {
	*store.MemoryKV
	readErr  error
	writeErr error
}

func (f *failingKV) Get(key string) (string, bool, error) {
	if f.readErr != nil {
		return "", false, f.readErr
	}
	return f.MemoryKV.Get(key)
}

func (f *failingKV) Set(key, value string) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	return f.MemoryKV.Set(key, value)
}

func TestLoadOrCreate_ReadErrorRegenerates(t *testing.T) {
	kv := &failingKV{MemoryKV: store.NewMemoryKV(), readErr: errors.New("disk on fire")}
	m := newTestManager(t, kv, &testClock{t: localDate(2024, time.January, 1)})

	sel, err := m.LoadOrCreate()
	require.NoError(t, err)
	assertValidSelection(t, m.Bank(), sel.Words)
	assert.Equal(t, ReasonMissing, m.LastReason())
}

func TestLoadOrCreate_WriteErrorStillReturnsSelection(t *testing.T) {
	writeErr := errors.New("read-only")
	kv := &failingKV{MemoryKV: store.NewMemoryKV(), writeErr: writeErr}
	m := newTestManager(t, kv, &testClock{t: localDate(2024, time.January, 1)})

	sel, err := m.LoadOrCreate()
	assert.ErrorIs(t, err, writeErr)
	assert.Equal(t, "2024-01-01", sel.Date)
	assertValidSelection(t, m.Bank(), sel.Words)
}

func TestInspect_DoesNotWrite(t *testing.T) {
	kv := store.NewMemoryKV()
	clock := &testClock{t: localDate(2024, time.January, 1)}
	m := newTestManager(t, kv, clock)

	_, reason := m.Inspect()
	assert.Equal(t, ReasonMissing, reason)
	assert.Equal(t, 0, kv.Writes())

	created, err := m.LoadOrCreate()
	require.NoError(t, err)

	sel, reason := m.Inspect()
	assert.Equal(t, ReasonCached, reason)
	assert.Equal(t, created, sel)

	clock.t = localDate(2024, time.January, 2)
	sel, reason = m.Inspect()
	assert.Equal(t, ReasonStale, reason)
	assert.Empty(t, sel.Words)
}

func TestGenerate_SmallBankDoesNotPanic(t *testing.T) {
	assert.Empty(t, Generate(&words.Bank{}, nil))
}
