package model

// RoomDefinition describes a room as stored in the rooms table.  Rows are
// read once at startup and never written by the server.
//
// Fields:
//  ID           – rooms.id, also the live room identity.
//  Name         – display name.
//  MaxUsers     – capacity of the room.
//  Member       – only members may enter.
//  Game         – the room is a mini-game room.
//  Blackhole    – the room hands the player off to another server.
//  Spawn        – players may be placed here on login.
//  RequiredItem – item that must be owned to enter (nil if none).
//  StampGroup   – stamp group awarded in this room (nil if none).
type RoomDefinition struct {
	ID           int    // rooms.id
	Name         string // rooms.name
	MaxUsers     int    // rooms.max_users
	Member       bool   // rooms.member
	Game         bool   // rooms.game
	Blackhole    bool   // rooms.blackhole
	Spawn        bool   // rooms.spawn
	RequiredItem *int   // rooms.required_item (nullable)
	StampGroup   *int   // rooms.stamp_group (nullable)
}

// TableDefinition is a two-seat table placed in a room.
type TableDefinition struct {
	ID     int    // room_tables.id
	RoomID int    // room_tables.room_id
	Game   string // room_tables.game
}

// WaddleDefinition is an N-seat waddle placed in a room.
type WaddleDefinition struct {
	ID     int    // room_waddles.id
	RoomID int    // room_waddles.room_id
	Seats  int    // room_waddles.seats
	Game   string // room_waddles.game
}
