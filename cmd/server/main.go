package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/iliyamo/igloo-rooms/internal/catalog"
	"github.com/iliyamo/igloo-rooms/internal/config"
	"github.com/iliyamo/igloo-rooms/internal/database"
	"github.com/iliyamo/igloo-rooms/internal/game"
	"github.com/iliyamo/igloo-rooms/internal/handler"
	"github.com/iliyamo/igloo-rooms/internal/penguin"
	"github.com/iliyamo/igloo-rooms/internal/repository"
	"github.com/iliyamo/igloo-rooms/internal/room"
	"github.com/iliyamo/igloo-rooms/internal/router"
	"github.com/iliyamo/igloo-rooms/internal/service"
	"github.com/iliyamo/igloo-rooms/internal/transport/ws"
)

func main() {
	_ = godotenv.Load() // .env is optional

	cfg, err := config.Load()
	if err != nil {
		// the logger is not configured yet
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}
	log, err := config.NewLogger(cfg.LogLevel, cfg.LogFormat, "igloo-rooms")
	if err != nil {
		os.Stderr.WriteString("logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	serverID := strconv.Itoa(cfg.ServerID)

	db, err := database.Open(ctx, database.Params{
		User: cfg.DBUser, Pass: cfg.DBPass, Host: cfg.DBHost, Port: cfg.DBPort, Name: cfg.DBName,
	})
	if err != nil {
		return err
	}
	defer db.Close()

	cat, err := catalog.Load(ctx, repository.NewRoomRepo(db))
	if err != nil {
		return err
	}

	publisher := service.NewOccupancyPublisher(cfg.RabbitURL, cfg.OccupancyQueue, serverID, service.DefaultPublishBuffer, log.Named("publisher"))
	rooms := room.NewRegistry(log.Named("rooms"), penguin.StringCompiler{}, game.Default(),
		room.WithObserver(publisher.Observe),
		room.WithWaddleStart(func(w *room.Waddle, lineup []room.Occupant) {
			ids := make([]int, len(lineup))
			for i, o := range lineup {
				ids[i] = o.ID()
			}
			log.Info("waddle match starting", zap.Int("waddle_id", w.ID()), zap.String("game", w.Game()), zap.Ints("occupants", ids))
		}),
	)
	if err := rooms.Setup(cat); err != nil {
		return err
	}
	log.Info("rooms loaded",
		zap.Int("rooms", cat.Len()),
		zap.Int("tables", len(cat.Tables())),
		zap.Int("waddles", len(cat.Waddles())))

	go func() {
		if err := publisher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("occupancy publisher stopped", zap.Error(err))
		}
	}()

	rdb, err := config.NewRedisClient(ctx, config.RedisOptions())
	if err != nil {
		log.Warn("redis unavailable, rate limit, cache and population mirror disabled", zap.Error(err))
	} else {
		defer rdb.Close()
		mirror := service.NewPopulationMirror(rdb, rooms, serverID, cfg.PopulationInterval, log.Named("population"))
		go func() { _ = mirror.Run(ctx) }()
	}

	wsServer := ws.NewServer(rooms, log.Named("ws"), cfg.JWTSecret, cfg.SendQueue)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	router.Register(e, router.Deps{
		Rooms:     &handler.RoomsHandler{Rooms: rooms},
		Admin:     &handler.AdminHandler{Rooms: rooms, Kicker: wsServer, Log: log.Named("admin")},
		WS:        wsServer.Handle,
		JWTSecret: cfg.JWTSecret,
		Redis:     rdb,
		RateLimit: config.LoadRateLimitConfig(),
		Cache:     config.LoadCacheConfig(),
		Log:       log.Named("http"),
	})

	addr := ":" + cfg.Port
	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env), zap.String("server_id", serverID))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down", zap.Int("online", wsServer.Online()))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
