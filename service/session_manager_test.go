package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionManagerGetOrCreate(t *testing.T) {
	m := NewSessionManager(NewServices(testConfig(), nil, nil), time.Minute)

	s, created := m.GetOrCreate("")
	require.True(t, created)
	require.NotEmpty(t, s.ID)

	again, created := m.GetOrCreate(s.ID)
	assert.False(t, created)
	assert.Same(t, s, again)

	other, created := m.GetOrCreate("unknown")
	assert.True(t, created)
	assert.NotEqual(t, s.ID, other.ID)
	assert.Equal(t, 2, m.Len())
}

func TestSessionManagerSweep(t *testing.T) {
	stream := &fakeStream{frame: solid(4, 4, red)}
	m := NewSessionManager(NewServices(testConfig(), &fakeCamera{stream: stream}, nil), time.Minute)

	now := time.Unix(1000, 0)
	m.now = func() time.Time { return now }

	idle := m.Create()
	require.NoError(t, idle.OpenCamera(context.Background()))
	active := m.Create()

	now = now.Add(45 * time.Second)
	_, ok := m.Get(active.ID)
	require.True(t, ok)

	now = now.Add(30 * time.Second)
	assert.Equal(t, 1, m.Sweep())

	_, ok = m.Get(idle.ID)
	assert.False(t, ok)
	_, ok = m.Get(active.ID)
	assert.True(t, ok)
	assert.Equal(t, 1, stream.closeCount(), "camera of expired session released")
}

func TestSessionManagerCloseAll(t *testing.T) {
	stream := &fakeStream{frame: solid(4, 4, red)}
	m := NewSessionManager(NewServices(testConfig(), &fakeCamera{stream: stream}, nil), 0)

	s := m.Create()
	require.NoError(t, s.OpenCamera(context.Background()))
	assert.Zero(t, m.Sweep())

	m.CloseAll()
	assert.Zero(t, m.Len())
	assert.Equal(t, 1, stream.closeCount())
}
