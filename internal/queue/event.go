// Package queue defines the occupancy messages exchanged over the broker
// and the consumer that writes them to the occupancy audit log.
package queue

// DefaultQueueName is the durable queue occupancy events are published to.
const DefaultQueueName = "room.occupancy"

// OccupancyEvent is one committed occupancy change.  It carries enough for
// downstream consumers to log or aggregate without asking the game server.
type OccupancyEvent struct {
	ServerID   string `json:"server_id"`
	Kind       string `json:"kind"`
	OccupantID int    `json:"occupant_id"`
	RoomID     int    `json:"room_id"`
	GroupKind  string `json:"group_kind,omitempty"`
	GroupID    int    `json:"group_id,omitempty"`
	Seat       int    `json:"seat"`
	At         string `json:"at"`
}
