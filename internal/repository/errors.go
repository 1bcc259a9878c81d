// Package repository reads the static room topology from MySQL.  The
// sentinel values below let the catalog loader tell an empty or malformed
// dataset apart from a transport failure.
package repository

import (
	"errors"

	"github.com/iliyamo/igloo-rooms/internal/catalog"
)

// ErrNoRooms is returned when the rooms table is empty.  A server with no
// rooms cannot place anyone, so startup should abort.
var ErrNoRooms = errors.New("no rooms defined")

// ErrInvalidSeats is returned when a waddle row declares fewer than one
// seat.  It is the catalog's sentinel so either layer's check matches.
var ErrInvalidSeats = catalog.ErrInvalidSeats
