package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestBoardExpiresAfterLifetime(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
	b := NewBoard(clock.now)

	b.Post(MessageSuccess, "first")
	clock.advance(3 * time.Second)
	b.Post(MessageError, "second")

	msgs := b.Active()
	require.Len(t, msgs, 2)
	assert.Equal(t, "first", msgs[0].Text)

	clock.advance(2 * time.Second)
	msgs = b.Active()
	require.Len(t, msgs, 1)
	assert.Equal(t, "second", msgs[0].Text)
	assert.Equal(t, MessageError, msgs[0].Kind)

	clock.advance(3 * time.Second)
	assert.Empty(t, b.Active())
}

func TestManagerMessagesUseClock(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	m := newTestManager(&fakeBackend{}, WithClock(clock.now))

	_, err := m.SaveAll(t.Context())
	require.NoError(t, err)
	require.Len(t, m.Messages(), 1)

	clock.advance(MessageLifetime)
	assert.Empty(t, m.Messages())
}
