package main

import (
	"bytes"
	"context"
	"math/rand/v2"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/dailywords/internal/adapter/output"
	"github.com/jmylchreest/dailywords/internal/daily"
	"github.com/jmylchreest/dailywords/internal/store"
	"github.com/jmylchreest/dailywords/internal/words"
)

// syncBuffer is a bytes.Buffer safe for a writer and a polling reader.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// newNearMidnightManager returns a manager whose clock always reads half a
// second before midnight, so every armed timer fires quickly.
func newNearMidnightManager(t *testing.T) *daily.Manager {
	t.Helper()
	m, err := daily.NewManager(daily.Options{
		Bank:  words.Default(),
		Store: store.NewMemoryKV(),
		Now: func() time.Time {
			return time.Date(2024, 1, 1, 23, 59, 59, 500_000_000, time.Local)
		},
		Rand: rand.New(rand.NewPCG(3, 3)),
	})
	require.NoError(t, err)
	return m
}

func jsonFormatter(t *testing.T) output.Formatter {
	t.Helper()
	f, err := newFormatter(string(output.FormatJSON), false)
	require.NoError(t, err)
	return f
}

func TestFollowSelection_OneShotReturnsAfterFirstMidnight(t *testing.T) {
	m := newNearMidnightManager(t)
	f := jsonFormatter(t)
	var out syncBuffer

	done := make(chan error, 1)
	go func() {
		done <- followSelection(context.Background(), m, false, f, &out)
	}()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("follow without rearm did not return")
	}

	assert.Equal(t, 1, strings.Count(out.String(), `"date"`))
}

func TestFollowSelection_RearmKeepsPrinting(t *testing.T) {
	m := newNearMidnightManager(t)
	f := jsonFormatter(t)
	var out syncBuffer

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- followSelection(ctx, m, true, f, &out)
	}()

	require.Eventually(t, func() bool {
		return strings.Count(out.String(), `"date"`) >= 2
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("follow did not stop on cancel")
	}
}
