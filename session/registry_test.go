package session

import (
	"context"
	"testing"
	"time"

	"github.com/andrewpaige1/studybuddy/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryCreateRunsInitialLoad(t *testing.T) {
	b := &fakeBackend{listed: []client.SavedFlashcard{{ID: 1, Question: "Q", Answer: "A", Category: "General"}}}
	r := NewRegistry(func() *Manager { return newTestManager(b) }, time.Minute)

	id, m := r.Create(context.Background())
	require.NotEmpty(t, id)
	assert.Len(t, m.SavedCards(), 1)

	got, ok := r.Get(id)
	require.True(t, ok)
	assert.Same(t, m, got)

	_, ok = r.Get("unknown")
	assert.False(t, ok)
}

func TestRegistrySessionsAreIndependent(t *testing.T) {
	b := &fakeBackend{questions: pairs(2)}
	r := NewRegistry(func() *Manager { return newTestManager(b) }, 0)

	_, first := r.Create(context.Background())
	_, second := r.Create(context.Background())
	require.NoError(t, first.Generate(context.Background(), longNotes, ""))

	assert.Len(t, first.CurrentBatch(), 2)
	assert.Empty(t, second.CurrentBatch())
	assert.Equal(t, 2, r.Len())
}

func TestRegistrySweepDropsIdleSessions(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	r := NewRegistry(func() *Manager { return newTestManager(&fakeBackend{}) }, 10*time.Minute)
	r.now = clock.now

	idle, _ := r.Create(context.Background())
	active, _ := r.Create(context.Background())

	clock.advance(8 * time.Minute)
	_, ok := r.Get(active)
	require.True(t, ok)

	clock.advance(5 * time.Minute)
	assert.Equal(t, 1, r.Sweep())

	_, ok = r.Get(idle)
	assert.False(t, ok)
	_, ok = r.Get(active)
	assert.True(t, ok)
}

func TestRegistryWithoutTTLNeverSweeps(t *testing.T) {
	r := NewRegistry(func() *Manager { return newTestManager(&fakeBackend{}) }, 0)
	r.Create(context.Background())
	assert.Zero(t, r.Sweep())
	assert.Equal(t, 1, r.Len())
}
