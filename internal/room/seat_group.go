package room

// SeatGroup is the seating behaviour shared by tables and waddles.  Every
// method takes the registry's occupancy lock.
type SeatGroup interface {
	ID() int
	// Kind is GroupTable or GroupWaddle.
	Kind() string
	// Room is the room the group is placed in.
	Room() *Room
	Capacity() int
	// Assign seats o in the lowest empty slot and returns its index.
	Assign(o Occupant) (int, error)
	// Release frees the slot o holds.
	Release(o Occupant) error
	// Reset frees every slot.
	Reset()
	// SeatIndex is the 0-based slot o holds.
	SeatIndex(o Occupant) (int, error)
	// Seated lists occupants in slot order, skipping empty slots.
	Seated() []Occupant

	release(ob *outbox, o Occupant) error
}

// seats is the slot array behind both group kinds.  A nil slots slice
// means every seat is empty.
type seats struct {
	id       int
	room     *Room
	capacity int
	slots    []Occupant
}

func (s *seats) ID() int       { return s.id }
func (s *seats) Room() *Room   { return s.room }
func (s *seats) Capacity() int { return s.capacity }

// firstEmpty returns the lowest empty slot or -1.
func (s *seats) firstEmpty() int {
	for i, o := range s.slots {
		if o == nil {
			return i
		}
	}
	return -1
}

func (s *seats) indexOf(o Occupant) int {
	for i, x := range s.slots {
		if x != nil && x.ID() == o.ID() {
			return i
		}
	}
	return -1
}

func (s *seats) count() int {
	n := 0
	for _, o := range s.slots {
		if o != nil {
			n++
		}
	}
	return n
}

func (s *seats) seated() []Occupant {
	out := make([]Occupant, 0, len(s.slots))
	for _, o := range s.slots {
		if o != nil {
			out = append(out, o)
		}
	}
	return out
}

// admit checks that o may take a seat in a group placed in s.room.
func (s *seats) admit(oc *occupancy, o Occupant) (*presence, error) {
	p := oc.lookup(o)
	if p == nil || p.room != s.room {
		return nil, ErrNotInRoom
	}
	if p.seat != nil {
		return nil, ErrAlreadySeated
	}
	return p, nil
}

func (s *seats) seatIndex(oc *occupancy, o Occupant) (int, error) {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	if i := s.indexOf(o); i >= 0 {
		return i, nil
	}
	return -1, ErrNotSeated
}
