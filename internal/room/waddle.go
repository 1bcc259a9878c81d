package room

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/iliyamo/igloo-rooms/internal/game"
)

// Waddle is an N-seat line-up for a group minigame.  When the last seat is
// taken the line-up is handed to the start hook and the waddle resets.
type Waddle struct {
	seats
	game game.Game
}

func newWaddle(id, capacity int, r *Room, g game.Game) *Waddle {
	return &Waddle{
		seats: seats{id: id, room: r, capacity: capacity},
		game:  g,
	}
}

func (w *Waddle) Kind() string { return GroupWaddle }

// Game is the waddle's game kind.
func (w *Waddle) Game() string { return w.game.Kind() }

// Assign seats o at the lowest free seat.  o receives jw with the seat and
// o's room receives uw with the seat and o's nickname.  Filling the last
// seat resets the waddle before Assign returns.
func (w *Waddle) Assign(o Occupant) (int, error) {
	ob := w.room.oc.begin()
	defer w.room.oc.end(ob)
	return w.assign(ob, o)
}

func (w *Waddle) assign(ob *outbox, o Occupant) (int, error) {
	p, err := w.admit(w.room.oc, o)
	if err != nil {
		return -1, fmt.Errorf("join waddle %d: %w", w.id, err)
	}
	if w.slots == nil {
		w.slots = make([]Occupant, w.capacity)
	}
	i := w.firstEmpty()

	w.slots[i] = o
	p.seat = w

	ob.send(o, NewEvent(CmdJoinWaddle, i))
	ob.broadcast(p.room, NewEvent(CmdUpdateWaddle, w.id, i, o.Nickname()))
	ob.record(Change{Kind: ChangeSeat, OccupantID: o.ID(), RoomID: p.room.ID(), GroupKind: GroupWaddle, GroupID: w.id, Seat: i})

	if w.firstEmpty() < 0 {
		lineup := w.seated()
		if start := w.room.oc.start; start != nil {
			ob.after = append(ob.after, func() { start(w, lineup) })
		}
		w.room.oc.log.Info("waddle full",
			zap.Int("waddle_id", w.id),
			zap.Int("room_id", w.room.ID()),
			zap.String("game", w.game.Kind()),
			zap.Int("players", len(lineup)))
		w.reset(ob)
	}
	return i, nil
}

// Release frees o's seat.  o receives lw and the waddle's room receives uw
// with the cleared seat.
func (w *Waddle) Release(o Occupant) error {
	ob := w.room.oc.begin()
	defer w.room.oc.end(ob)
	return w.release(ob, o)
}

func (w *Waddle) release(ob *outbox, o Occupant) error {
	i := w.indexOf(o)
	if i < 0 {
		return fmt.Errorf("leave waddle %d: occupant %d: %w", w.id, o.ID(), ErrNotSeated)
	}

	w.slots[i] = nil
	if p := w.room.oc.lookup(o); p != nil {
		p.seat = nil
	}
	w.room.oc.tidy(o)

	ob.send(o, NewEvent(CmdLeaveWaddle))
	ob.broadcast(w.room, NewEvent(CmdUpdateWaddle, w.id, i))
	ob.record(Change{Kind: ChangeUnseat, OccupantID: o.ID(), RoomID: w.room.ID(), GroupKind: GroupWaddle, GroupID: w.id, Seat: i})
	return nil
}

// Reset empties every seat.  Each cleared seat is announced to the room
// its occupant is in at reset time, which is not necessarily the waddle's
// room.
func (w *Waddle) Reset() {
	ob := w.room.oc.begin()
	defer w.room.oc.end(ob)
	w.reset(ob)
}

func (w *Waddle) reset(ob *outbox) {
	for i, o := range w.slots {
		if o == nil {
			continue
		}
		w.slots[i] = nil
		p := w.room.oc.lookup(o)
		if p != nil {
			p.seat = nil
			if p.room != nil {
				ob.broadcast(p.room, NewEvent(CmdUpdateWaddle, w.id, i))
			}
		}
		w.room.oc.tidy(o)
	}
	w.game.Reset()
	ob.record(Change{Kind: ChangeReset, RoomID: w.room.ID(), GroupKind: GroupWaddle, GroupID: w.id, Seat: -1})
}

// SeatIndex returns the 0-based seat o holds.
func (w *Waddle) SeatIndex(o Occupant) (int, error) {
	return w.seatIndex(w.room.oc, o)
}

// Seated lists the seated occupants in seat order.
func (w *Waddle) Seated() []Occupant {
	w.room.oc.mu.Lock()
	defer w.room.oc.mu.Unlock()
	return w.seated()
}

// Lineup returns one entry per seat: the nickname, or "" for an empty seat.
func (w *Waddle) Lineup() []string {
	w.room.oc.mu.Lock()
	defer w.room.oc.mu.Unlock()
	out := make([]string, w.capacity)
	for i, o := range w.slots {
		if o != nil {
			out[i] = o.Nickname()
		}
	}
	return out
}
