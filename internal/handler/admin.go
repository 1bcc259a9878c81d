package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/igloo-rooms/internal/middleware"
	"github.com/iliyamo/igloo-rooms/internal/room"
)

// Kicker closes an occupant's connection.  The WebSocket server satisfies
// it.
type Kicker interface {
	Kick(penguinID int) bool
}

// AdminHandler carries moderator actions.  Routes using it sit behind
// JWTAuth and RequireRole.
type AdminHandler struct {
	Rooms  *room.Registry
	Kicker Kicker
	Log    *zap.Logger
}

// Kick disconnects a penguin.  404 when the penguin is not connected.
func (h *AdminHandler) Kick(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid occupant id"})
	}
	if !h.Kicker.Kick(id) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "occupant not connected"})
	}
	mod, _ := middleware.PenguinID(c)
	h.Log.Info("occupant kicked", zap.Int("occupant_id", id), zap.Int("moderator_id", mod))
	return c.JSON(http.StatusOK, echo.Map{"kicked": id})
}

// ResetTable clears every seat of a table.
func (h *AdminHandler) ResetTable(c echo.Context) error {
	r, ok := h.room(c)
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
	}
	id, err := strconv.Atoi(c.Param("table"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid table id"})
	}
	t, ok := r.Table(id)
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "table not found"})
	}
	t.Reset()
	h.logReset(c, room.GroupTable, r.ID(), id)
	return c.JSON(http.StatusOK, echo.Map{"room_id": r.ID(), "table_id": id, "status": t.Status()})
}

// ResetWaddle clears every seat of a waddle.
func (h *AdminHandler) ResetWaddle(c echo.Context) error {
	r, ok := h.room(c)
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
	}
	id, err := strconv.Atoi(c.Param("waddle"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid waddle id"})
	}
	w, ok := r.Waddle(id)
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "waddle not found"})
	}
	w.Reset()
	h.logReset(c, room.GroupWaddle, r.ID(), id)
	return c.JSON(http.StatusOK, echo.Map{"room_id": r.ID(), "waddle_id": id})
}

func (h *AdminHandler) room(c echo.Context) (*room.Room, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return nil, false
	}
	return h.Rooms.Room(id)
}

func (h *AdminHandler) logReset(c echo.Context, kind string, roomID, groupID int) {
	mod, _ := middleware.PenguinID(c)
	h.Log.Info("seat group reset",
		zap.String("kind", kind),
		zap.Int("room_id", roomID),
		zap.Int("group_id", groupID),
		zap.Int("moderator_id", mod))
}
