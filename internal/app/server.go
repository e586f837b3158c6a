package app

import (
	"context"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"tapify/internal/audit"
	"tapify/internal/cache"
	"tapify/internal/config"
	"tapify/internal/crash"
	"tapify/internal/db"
	"tapify/internal/event"
	"tapify/internal/jobs"
	"tapify/internal/ledger"
	"tapify/internal/logger"
	"tapify/internal/monitoring"
	"tapify/internal/notify"
	"tapify/internal/security"
	"tapify/internal/tap"
	"tapify/internal/wallet"
	"tapify/internal/ws"
)

type Server struct {
	app  *fiber.App
	jobs *jobs.Manager
	port string
}

func NewServer() *Server {
	cfg := config.Load()
	logger.Init()
	monitoring.Init()

	database := db.Init(cfg.DBPath)
	rdb := cache.Init(cfg.RedisAddr)

	ledgerService := ledger.New(database)
	walletService := wallet.New(database, ledgerService)
	auditService := audit.New(database)

	bus := event.NewBus()
	engine := crash.NewEngine(database, walletService, bus, cfg)
	history := crash.NewHistory(rdb)
	tapService := tap.New(database, walletService, cfg.TapRewardCents)

	hub := ws.NewHub()

	var notifier crash.Notifier
	if cfg.TelegramToken != "" {
		tg, err := notify.NewTelegram(cfg.TelegramToken)
		if err != nil {
			logger.Log.Warn("telegram notifier disabled", zap.Error(err))
		} else {
			notifier = tg
		}
	}

	crash.RegisterConsumers(bus, auditService, hub, history, notifier)

	app := fiber.New()

	app.Use(func(c *fiber.Ctx) error {
		monitoring.HttpRequests.WithLabelValues(c.Method(), c.Path()).Inc()
		return c.Next()
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(hub.Handler))

	api := app.Group("/api", security.PlayerGuard(cfg.WebappSecret))
	crash.RegisterRoutes(api, engine, history)
	tap.RegisterRoutes(api, tapService)
	wallet.RegisterRoutes(api, walletService)

	manager := jobs.New()
	manager.Register(jobs.NewSweeper(engine, cfg.SweepInterval, cfg.StaleAfter))

	return &Server{app: app, jobs: manager, port: cfg.Port}
}

func (s *Server) Start() error {
	go s.jobs.Start(context.Background())
	return s.app.Listen(":" + s.port)
}
