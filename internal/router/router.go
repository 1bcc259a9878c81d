// Package router registers the HTTP routes on an echo instance.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/iliyamo/igloo-rooms/internal/config"
	"github.com/iliyamo/igloo-rooms/internal/handler"
	"github.com/iliyamo/igloo-rooms/internal/middleware"
	"github.com/iliyamo/igloo-rooms/internal/utils"
)

// Deps is everything the routes need.  Redis may be nil, in which case
// rate limiting and caching are off.
type Deps struct {
	Rooms     *handler.RoomsHandler
	Admin     *handler.AdminHandler
	WS        echo.HandlerFunc
	JWTSecret string
	Redis     *redis.Client
	RateLimit config.RateLimitConfig
	Cache     config.CacheConfig
	Log       *zap.Logger
}

// RegisterRoutes exposes the health check only.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterPublic exposes read-only occupancy views.  They are rate limited
// before the cache so cached hits still count against the bucket.
func RegisterPublic(e *echo.Echo, d Deps) {
	g := e.Group("/v1",
		middleware.NewTokenBucket(d.RateLimit, d.Redis, d.Log),
		middleware.NewRedisCache(d.Cache, d.Redis, d.Log),
	)
	g.GET("/rooms", d.Rooms.ListRooms)
	g.GET("/rooms/:id", d.Rooms.GetRoom)
	g.GET("/spawn-rooms", d.Rooms.ListSpawnRooms)
}

// RegisterAdmin exposes moderator actions behind JWT and the MODERATOR
// role.
func RegisterAdmin(e *echo.Echo, d Deps) {
	g := e.Group("/v1/admin", middleware.JWTAuth(d.JWTSecret), middleware.RequireRole(utils.RoleModerator))
	g.POST("/occupants/:id/kick", d.Admin.Kick)
	g.POST("/rooms/:id/tables/:table/reset", d.Admin.ResetTable)
	g.POST("/rooms/:id/waddles/:waddle/reset", d.Admin.ResetWaddle)
}

// RegisterWS mounts the occupant WebSocket endpoint.  Authentication is
// done by the handler from the token query parameter.
func RegisterWS(e *echo.Echo, d Deps) {
	e.GET("/ws", d.WS)
}

// Register mounts every route group.
func Register(e *echo.Echo, d Deps) {
	RegisterRoutes(e)
	RegisterPublic(e, d)
	RegisterAdmin(e, d)
	RegisterWS(e, d)
}
