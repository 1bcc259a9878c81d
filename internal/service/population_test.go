package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/iliyamo/igloo-rooms/internal/room"
)

type fixedSnapshot struct{ snap room.Snapshot }

func (f *fixedSnapshot) Snapshot() room.Snapshot { return f.snap }

func setupMirror(t *testing.T, snap room.Snapshot) (*miniredis.Miniredis, *fixedSnapshot, *PopulationMirror) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	src := &fixedSnapshot{snap: snap}
	return mr, src, NewPopulationMirror(rdb, src, "blizzard", 10*time.Millisecond, zap.NewNop())
}

func TestPopulationMirror_Write(t *testing.T) {
	mr, src, m := setupMirror(t, room.Snapshot{Total: 3, Rooms: map[int]int{100: 2, 110: 1, 220: 0}})

	require.NoError(t, m.Write(context.Background()))

	assert.Equal(t, "3", mr.HGet(PopulationKey, "blizzard"))
	assert.Equal(t, "2", mr.HGet(RoomsKey("blizzard"), "100"))
	assert.Equal(t, "1", mr.HGet(RoomsKey("blizzard"), "110"))
	fields, err := mr.HKeys(RoomsKey("blizzard"))
	require.NoError(t, err)
	assert.Equal(t, []string{"100", "110"}, fields)

	src.snap = room.Snapshot{Total: 1, Rooms: map[int]int{100: 0, 110: 1}}
	require.NoError(t, m.Write(context.Background()))

	assert.Equal(t, "1", mr.HGet(PopulationKey, "blizzard"))
	fields, err = mr.HKeys(RoomsKey("blizzard"))
	require.NoError(t, err)
	assert.Equal(t, []string{"110"}, fields)
}

func TestPopulationMirror_RunClearsOnStop(t *testing.T) {
	mr, _, m := setupMirror(t, room.Snapshot{Total: 2, Rooms: map[int]int{100: 2}})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx) }()

	require.Eventually(t, func() bool { return mr.HGet(PopulationKey, "blizzard") == "2" }, time.Second, 5*time.Millisecond)
	cancel()

	assert.ErrorIs(t, <-done, context.Canceled)
	assert.Empty(t, mr.HGet(PopulationKey, "blizzard"))
	assert.False(t, mr.Exists(RoomsKey("blizzard")))
}
