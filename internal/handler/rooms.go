// Package handler exposes the HTTP API: public read-only views of room
// occupancy and moderator actions.
package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/igloo-rooms/internal/room"
)

// RoomsHandler serves public occupancy views.  Responses never include
// occupant ids.
type RoomsHandler struct {
	Rooms *room.Registry
}

// RoomSummary is one entry of the room list.
type RoomSummary struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Population int    `json:"population"`
	Capacity   int    `json:"capacity"`
	Member     bool   `json:"member"`
	Game       bool   `json:"game"`
	Spawn      bool   `json:"spawn"`
}

// TableView is a table inside RoomDetail.
type TableView struct {
	ID     int    `json:"id"`
	Game   string `json:"game"`
	Count  int    `json:"count"`
	Status string `json:"status"`
}

// WaddleView is a waddle inside RoomDetail.  Lineup has one entry per
// seat, empty for free seats.
type WaddleView struct {
	ID     int      `json:"id"`
	Game   string   `json:"game"`
	Seats  int      `json:"seats"`
	Lineup []string `json:"lineup"`
}

// RoomDetail is the single-room view.
type RoomDetail struct {
	RoomSummary
	Roster  []string     `json:"roster"`
	Tables  []TableView  `json:"tables"`
	Waddles []WaddleView `json:"waddles"`
}

func summarize(r *room.Room) RoomSummary {
	def := r.Definition()
	return RoomSummary{
		ID:         def.ID,
		Name:       def.Name,
		Population: r.Population(),
		Capacity:   def.MaxUsers,
		Member:     def.Member,
		Game:       def.Game,
		Spawn:      def.Spawn,
	}
}

// ListRooms returns every room in catalog order under "items".
func (h *RoomsHandler) ListRooms(c echo.Context) error {
	rooms := h.Rooms.Rooms()
	out := make([]RoomSummary, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, summarize(r))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// ListSpawnRooms returns the rooms new connections are placed in.
func (h *RoomsHandler) ListSpawnRooms(c echo.Context) error {
	rooms := h.Rooms.SpawnRooms()
	out := make([]RoomSummary, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, summarize(r))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// GetRoom returns one room with its roster, tables and waddles.
func (h *RoomsHandler) GetRoom(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}
	r, ok := h.Rooms.Room(id)
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
	}

	occupants := r.Occupants()
	out := RoomDetail{
		RoomSummary: summarize(r),
		Roster:      make([]string, 0, len(occupants)),
		Tables:      []TableView{},
		Waddles:     []WaddleView{},
	}
	for _, o := range occupants {
		out.Roster = append(out.Roster, o.Nickname())
	}
	for _, t := range r.Tables() {
		out.Tables = append(out.Tables, TableView{ID: t.ID(), Game: t.Game(), Count: t.Count(), Status: t.Status()})
	}
	for _, w := range r.Waddles() {
		out.Waddles = append(out.Waddles, WaddleView{ID: w.ID(), Game: w.Game(), Seats: w.Capacity(), Lineup: w.Lineup()})
	}
	return c.JSON(http.StatusOK, out)
}
