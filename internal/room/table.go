package room

import (
	"fmt"
	"strings"

	"github.com/iliyamo/igloo-rooms/internal/game"
)

// TableSeats is the fixed capacity of a table.
const TableSeats = 2

// Table is a two-seat head-to-head game inside a room.
type Table struct {
	seats
	game game.Game
}

func newTable(id int, r *Room, g game.Game) *Table {
	return &Table{
		seats: seats{id: id, room: r, capacity: TableSeats, slots: make([]Occupant, TableSeats)},
		game:  g,
	}
}

func (t *Table) Kind() string { return GroupTable }

// Game is the table's game kind.
func (t *Table) Game() string { return t.game.Kind() }

// Assign seats o at the lowest free seat.  o must be in the table's room
// and must not hold another seat.  A full table returns ErrTableFull;
// callers are expected to check Count first.  o receives jt with the
// 1-based seat and the room receives ut with the new count.
func (t *Table) Assign(o Occupant) (int, error) {
	ob := t.room.oc.begin()
	defer t.room.oc.end(ob)
	return t.assign(ob, o)
}

func (t *Table) assign(ob *outbox, o Occupant) (int, error) {
	p, err := t.admit(t.room.oc, o)
	if err != nil {
		return -1, fmt.Errorf("join table %d: %w", t.id, err)
	}
	i := t.firstEmpty()
	if i < 0 {
		return -1, fmt.Errorf("join table %d: %w", t.id, ErrTableFull)
	}

	t.slots[i] = o
	p.seat = t

	ob.send(o, NewEvent(CmdJoinTable, t.id, i+1))
	ob.broadcast(t.room, NewEvent(CmdUpdateTable, t.id, t.count()))
	ob.record(Change{Kind: ChangeSeat, OccupantID: o.ID(), RoomID: t.room.ID(), GroupKind: GroupTable, GroupID: t.id, Seat: i})
	return i, nil
}

// Release frees o's seat.  o receives lt and the room receives ut.
func (t *Table) Release(o Occupant) error {
	ob := t.room.oc.begin()
	defer t.room.oc.end(ob)
	return t.release(ob, o)
}

func (t *Table) release(ob *outbox, o Occupant) error {
	i := t.indexOf(o)
	if i < 0 {
		return fmt.Errorf("leave table %d: occupant %d: %w", t.id, o.ID(), ErrNotSeated)
	}

	t.slots[i] = nil
	if p := t.room.oc.lookup(o); p != nil {
		p.seat = nil
	}
	t.room.oc.tidy(o)

	ob.send(o, NewEvent(CmdLeaveTable))
	ob.broadcast(t.room, NewEvent(CmdUpdateTable, t.id, t.count()))
	ob.record(Change{Kind: ChangeUnseat, OccupantID: o.ID(), RoomID: t.room.ID(), GroupKind: GroupTable, GroupID: t.id, Seat: i})
	return nil
}

// Reset empties the table, restarts its game and tells the room the
// table now holds nobody.
func (t *Table) Reset() {
	ob := t.room.oc.begin()
	defer t.room.oc.end(ob)
	t.reset(ob)
}

func (t *Table) reset(ob *outbox) {
	for i, o := range t.slots {
		if o == nil {
			continue
		}
		t.slots[i] = nil
		if p := t.room.oc.lookup(o); p != nil {
			p.seat = nil
		}
		t.room.oc.tidy(o)
	}
	t.game.Reset()

	ob.broadcast(t.room, NewEvent(CmdUpdateTable, t.id, 0))
	ob.record(Change{Kind: ChangeReset, RoomID: t.room.ID(), GroupKind: GroupTable, GroupID: t.id, Seat: -1})
}

// SeatIndex returns the 0-based seat o holds.
func (t *Table) SeatIndex(o Occupant) (int, error) {
	return t.seatIndex(t.room.oc, o)
}

// Seated lists the seated occupants in seat order.
func (t *Table) Seated() []Occupant {
	t.room.oc.mu.Lock()
	defer t.room.oc.mu.Unlock()
	return t.seated()
}

// Count is the number of occupied seats.
func (t *Table) Count() int {
	t.room.oc.mu.Lock()
	defer t.room.oc.mu.Unlock()
	return t.count()
}

// Status is the table summary sent to clients: empty with nobody seated,
// "A%%<game>" with one player and "A%B%<game>" with two.
func (t *Table) Status() string {
	t.room.oc.mu.Lock()
	defer t.room.oc.mu.Unlock()
	return t.status()
}

func (t *Table) status() string {
	seated := t.seated()
	switch len(seated) {
	case 0:
		return ""
	case 1:
		return strings.Join([]string{seated[0].Nickname(), "", t.game.Status()}, Separator)
	default:
		return strings.Join([]string{seated[0].Nickname(), seated[1].Nickname(), t.game.Status()}, Separator)
	}
}
