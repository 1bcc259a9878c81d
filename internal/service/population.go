package service

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/iliyamo/igloo-rooms/internal/room"
)

// PopulationKey is the hash of total population per server.
const PopulationKey = "houdini:population"

// RoomsKey is the hash of per-room population for one server.
func RoomsKey(serverID string) string { return "houdini:" + serverID + ":rooms" }

// Snapshotter is satisfied by *room.Registry.
type Snapshotter interface {
	Snapshot() room.Snapshot
}

// PopulationMirror periodically copies room populations into Redis so
// login servers and dashboards can show them.
type PopulationMirror struct {
	rdb      *redis.Client
	rooms    Snapshotter
	serverID string
	interval time.Duration
	log      *zap.Logger
}

func NewPopulationMirror(rdb *redis.Client, rooms Snapshotter, serverID string, interval time.Duration, log *zap.Logger) *PopulationMirror {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &PopulationMirror{rdb: rdb, rooms: rooms, serverID: serverID, interval: interval, log: log}
}

// Write publishes one snapshot.  The per-room hash is replaced as a whole
// so emptied rooms disappear.
func (m *PopulationMirror) Write(ctx context.Context) error {
	snap := m.rooms.Snapshot()
	roomsKey := RoomsKey(m.serverID)

	fields := make(map[string]interface{}, len(snap.Rooms))
	for id, n := range snap.Rooms {
		if n > 0 {
			fields[strconv.Itoa(id)] = n
		}
	}

	_, err := m.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, PopulationKey, m.serverID, snap.Total)
		pipe.Del(ctx, roomsKey)
		if len(fields) > 0 {
			pipe.HSet(ctx, roomsKey, fields)
		}
		return nil
	})
	return err
}

// Run writes a snapshot every interval until ctx is done, then removes
// this server's entries.
func (m *PopulationMirror) Run(ctx context.Context) error {
	t := time.NewTicker(m.interval)
	defer t.Stop()
	for {
		if err := m.Write(ctx); err != nil && ctx.Err() == nil {
			m.log.Warn("population mirror write failed", zap.Error(err))
		}
		select {
		case <-ctx.Done():
			m.clear()
			return ctx.Err()
		case <-t.C:
		}
	}
}

func (m *PopulationMirror) clear() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	pipe := m.rdb.TxPipeline()
	pipe.HDel(ctx, PopulationKey, m.serverID)
	pipe.Del(ctx, RoomsKey(m.serverID))
	if _, err := pipe.Exec(ctx); err != nil {
		m.log.Warn("population mirror cleanup failed", zap.Error(err))
	}
}
