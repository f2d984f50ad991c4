package state

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eduforge/agentkit/agent"
)

func TestInMemoryStoreSaveAndLoad(t *testing.T) {
	store := NewInMemoryStore()

	st := agent.RuntimeState{
		Status:       agent.StatusCompleted,
		LastResponse: "Hello!",
		UpdatedAt:    time.Now(),
	}
	require.NoError(t, store.Save(context.Background(), "tutor", st))

	got, ok := store.Load("tutor")
	require.True(t, ok)
	assert.Equal(t, agent.StatusCompleted, got.Status)
	assert.Equal(t, "Hello!", got.LastResponse)
}

func TestInMemoryStoreLoadMissing(t *testing.T) {
	store := NewInMemoryStore()

	_, ok := store.Load("nope")
	assert.False(t, ok)
}

func TestInMemoryStoreOverwrites(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "tutor", agent.RuntimeState{Status: agent.StatusRunning}))
	require.NoError(t, store.Save(ctx, "tutor", agent.RuntimeState{Status: agent.StatusError, LastError: "boom"}))

	got, ok := store.Load("tutor")
	require.True(t, ok)
	assert.Equal(t, agent.StatusError, got.Status)
	assert.Equal(t, "boom", got.LastError)
}
