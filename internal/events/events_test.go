package events

import (
	"encoding/json"
	"movierec/config"
	"movierec/internal/types"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeMovieAction(t *testing.T) {
	rating := 8.5
	data, err := json.Marshal(MovieAction{MovieID: 7, Action: types.ActionRate, Weight: 1, Rating: &rating})
	require.NoError(t, err)

	action, err := DecodeMovieAction(Event{Type: MOVIE_ACTION, Data: data})

	require.NoError(t, err)
	assert.Equal(t, 7, action.MovieID)
	assert.Equal(t, types.ActionRate, action.Action)
	require.NotNil(t, action.Rating)
	assert.Equal(t, 8.5, *action.Rating)
}

func TestDecodeSnapshotReload(t *testing.T) {
	data, err := json.Marshal(SnapshotReload{Origin: "api-1"})
	require.NoError(t, err)

	reload, err := DecodeSnapshotReload(Event{Type: SNAPSHOT_RELOAD, Channel: ADMIN_CHANNEL, Data: data})

	require.NoError(t, err)
	assert.Equal(t, "api-1", reload.Origin)
}

func TestEventBus_HandleMessageDispatchesOnce(t *testing.T) {
	bus := New(nil, config.Config{})
	defer bus.Close()

	var mu sync.Mutex
	var received []Event
	var wg sync.WaitGroup
	wg.Add(1)

	bus.mutex.Lock()
	bus.handlers[MOVIE_ACTIONS_CHANNEL] = []EventHandler{func(event Event) error {
		mu.Lock()
		received = append(received, event)
		mu.Unlock()
		wg.Done()
		return nil
	}}
	bus.mutex.Unlock()

	payload, err := json.Marshal(Event{ID: "evt-1", Type: MOVIE_ACTION, Timestamp: time.Now()})
	require.NoError(t, err)

	bus.handleMessage(MOVIE_ACTIONS_CHANNEL, string(payload))
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, received, 1)
	assert.Equal(t, "evt-1", received[0].ID)
}

func TestEventBus_HandleMessageIgnoresMalformed(t *testing.T) {
	bus := New(nil, config.Config{})
	defer bus.Close()

	called := false
	bus.handlers[MOVIE_ACTIONS_CHANNEL] = []EventHandler{func(Event) error {
		called = true
		return nil
	}}

	bus.handleMessage(MOVIE_ACTIONS_CHANNEL, "{not json")

	assert.False(t, called)
}
