// Package catalog holds the static room topology: room, table and waddle
// definitions loaded once at startup and read for the life of the process.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/iliyamo/igloo-rooms/internal/model"
)

// Source supplies definitions.  repository.RoomRepo satisfies it.
type Source interface {
	ListRooms(ctx context.Context) ([]model.RoomDefinition, error)
	ListTables(ctx context.Context) ([]model.TableDefinition, error)
	ListWaddles(ctx context.Context) ([]model.WaddleDefinition, error)
}

var (
	// ErrDuplicateID is returned for a room id defined twice, or a table or
	// waddle id defined twice within one room.
	ErrDuplicateID = errors.New("duplicate definition id")
	// ErrInvalidSeats is returned for a waddle with fewer than one seat.
	ErrInvalidSeats = errors.New("waddle seats must be at least 1")
)

// Catalog is read-only after construction.  Accessors return copies so
// callers cannot mutate the shared definitions.
type Catalog struct {
	rooms   []model.RoomDefinition
	byID    map[int]int // room id -> index into rooms
	tables  []model.TableDefinition
	waddles []model.WaddleDefinition
}

// Load reads every definition from src.
func Load(ctx context.Context, src Source) (*Catalog, error) {
	rooms, err := src.ListRooms(ctx)
	if err != nil {
		return nil, fmt.Errorf("load rooms: %w", err)
	}
	tables, err := src.ListTables(ctx)
	if err != nil {
		return nil, fmt.Errorf("load tables: %w", err)
	}
	waddles, err := src.ListWaddles(ctx)
	if err != nil {
		return nil, fmt.Errorf("load waddles: %w", err)
	}
	return New(rooms, tables, waddles)
}

// New builds a catalog from in-memory definitions.  Duplicate ids and
// seatless waddles are rejected.
func New(rooms []model.RoomDefinition, tables []model.TableDefinition, waddles []model.WaddleDefinition) (*Catalog, error) {
	c := &Catalog{
		rooms:   append([]model.RoomDefinition(nil), rooms...),
		byID:    make(map[int]int, len(rooms)),
		tables:  append([]model.TableDefinition(nil), tables...),
		waddles: append([]model.WaddleDefinition(nil), waddles...),
	}
	for i, r := range c.rooms {
		if _, dup := c.byID[r.ID]; dup {
			return nil, fmt.Errorf("room %d: %w", r.ID, ErrDuplicateID)
		}
		c.byID[r.ID] = i
	}

	type groupKey struct{ room, id int }
	seenTables := make(map[groupKey]bool, len(c.tables))
	for _, t := range c.tables {
		k := groupKey{t.RoomID, t.ID}
		if seenTables[k] {
			return nil, fmt.Errorf("table %d in room %d: %w", t.ID, t.RoomID, ErrDuplicateID)
		}
		seenTables[k] = true
	}
	seenWaddles := make(map[groupKey]bool, len(c.waddles))
	for _, w := range c.waddles {
		if w.Seats < 1 {
			return nil, fmt.Errorf("waddle %d: seats %d: %w", w.ID, w.Seats, ErrInvalidSeats)
		}
		k := groupKey{w.RoomID, w.ID}
		if seenWaddles[k] {
			return nil, fmt.Errorf("waddle %d in room %d: %w", w.ID, w.RoomID, ErrDuplicateID)
		}
		seenWaddles[k] = true
	}
	return c, nil
}

// Room returns the definition with the given id.
func (c *Catalog) Room(id int) (model.RoomDefinition, bool) {
	i, ok := c.byID[id]
	if !ok {
		return model.RoomDefinition{}, false
	}
	return c.rooms[i], true
}

// Rooms returns all room definitions in load order.
func (c *Catalog) Rooms() []model.RoomDefinition {
	return append([]model.RoomDefinition(nil), c.rooms...)
}

// Tables returns all table definitions in load order.
func (c *Catalog) Tables() []model.TableDefinition {
	return append([]model.TableDefinition(nil), c.tables...)
}

// Waddles returns all waddle definitions in load order.
func (c *Catalog) Waddles() []model.WaddleDefinition {
	return append([]model.WaddleDefinition(nil), c.waddles...)
}

// Len reports the number of rooms.
func (c *Catalog) Len() int { return len(c.rooms) }
