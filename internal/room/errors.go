package room

import (
	"errors"
	"fmt"
)

// ErrPrecondition marks a caller defect: the occupant is not where the
// operation requires it to be.  These are never silently ignored; callers
// get the error and nothing is mutated.
var ErrPrecondition = errors.New("occupancy precondition violated")

var (
	// ErrNotInRoom is returned when leaving a room the occupant is not in,
	// or taking a seat in a room the occupant has not joined.
	ErrNotInRoom = fmt.Errorf("%w: occupant is not in the room", ErrPrecondition)
	// ErrNotSeated is returned when releasing or looking up a seat the
	// occupant does not hold.
	ErrNotSeated = fmt.Errorf("%w: occupant does not hold a seat here", ErrPrecondition)
	// ErrAlreadySeated is returned when an occupant that already holds a
	// seat asks for another one.
	ErrAlreadySeated = fmt.Errorf("%w: occupant already holds a seat", ErrPrecondition)
)

// ErrTableFull is returned by Table.Assign when both seats are taken.
// Waddles reset when they fill, so they never return it.
var ErrTableFull = errors.New("table full")

// ErrRoomFull is returned when a room has reached its capacity.
var ErrRoomFull = errors.New("room full")

// ErrDeliveryFailed is returned by occupant transports that can no longer
// accept events.  It is logged and never aborts a broadcast.
var ErrDeliveryFailed = errors.New("delivery failed")

// Registry lifecycle errors.
var (
	ErrNotLoaded     = errors.New("rooms not loaded")
	ErrAlreadyLoaded = errors.New("rooms already loaded")
	ErrUnknownRoom   = errors.New("unknown room")
)
