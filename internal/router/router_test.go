package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/iliyamo/igloo-rooms/internal/catalog"
	"github.com/iliyamo/igloo-rooms/internal/game"
	"github.com/iliyamo/igloo-rooms/internal/handler"
	"github.com/iliyamo/igloo-rooms/internal/model"
	"github.com/iliyamo/igloo-rooms/internal/penguin"
	"github.com/iliyamo/igloo-rooms/internal/room"
	"github.com/iliyamo/igloo-rooms/internal/utils"
)

type noKicks struct{}

func (noKicks) Kick(int) bool { return false }

func newEcho(t *testing.T) *echo.Echo {
	t.Helper()
	c, err := catalog.New([]model.RoomDefinition{{ID: 100, Name: "Town", MaxUsers: 80, Spawn: true}}, nil, nil)
	require.NoError(t, err)
	reg := room.NewRegistry(zap.NewNop(), penguin.StringCompiler{}, game.Default())
	require.NoError(t, reg.Setup(c))

	e := echo.New()
	Register(e, Deps{
		Rooms:     &handler.RoomsHandler{Rooms: reg},
		Admin:     &handler.AdminHandler{Rooms: reg, Kicker: noKicks{}, Log: zap.NewNop()},
		WS:        func(c echo.Context) error { return c.NoContent(http.StatusTeapot) },
		JWTSecret: "router-secret",
		Log:       zap.NewNop(),
	})
	return e
}

func call(e *echo.Echo, method, path, auth string) int {
	req := httptest.NewRequest(method, path, nil)
	if auth != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+auth)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec.Code
}

func TestRoutes(t *testing.T) {
	e := newEcho(t)
	mod, err := utils.NewSessionToken("router-secret", 9, utils.SessionClaims{Nickname: "mod", Role: utils.RoleModerator}, time.Minute)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, call(e, http.MethodGet, "/healthz", ""))
	assert.Equal(t, http.StatusOK, call(e, http.MethodGet, "/v1/rooms", ""))
	assert.Equal(t, http.StatusOK, call(e, http.MethodGet, "/v1/rooms/100", ""))
	assert.Equal(t, http.StatusOK, call(e, http.MethodGet, "/v1/spawn-rooms", ""))
	assert.Equal(t, http.StatusTeapot, call(e, http.MethodGet, "/ws", ""))

	assert.Equal(t, http.StatusUnauthorized, call(e, http.MethodPost, "/v1/admin/occupants/1/kick", ""))
	assert.Equal(t, http.StatusNotFound, call(e, http.MethodPost, "/v1/admin/occupants/1/kick", mod.Token))
}
