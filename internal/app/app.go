package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ironslayer/parking-management-system/config"
	"github.com/ironslayer/parking-management-system/internal/adapter/http/server"
	repo "github.com/ironslayer/parking-management-system/internal/adapter/postgres"
	rabbitAdapter "github.com/ironslayer/parking-management-system/internal/adapter/rabbit"
	wsAdapter "github.com/ironslayer/parking-management-system/internal/adapter/ws"
	"github.com/ironslayer/parking-management-system/internal/service/admin"
	"github.com/ironslayer/parking-management-system/internal/service/auth"
	"github.com/ironslayer/parking-management-system/internal/service/payment"
	"github.com/ironslayer/parking-management-system/internal/service/session"
	"github.com/ironslayer/parking-management-system/internal/service/user"
	"github.com/ironslayer/parking-management-system/internal/service/vehicle"
	"github.com/ironslayer/parking-management-system/pkg/logger"
	"github.com/ironslayer/parking-management-system/pkg/postgres"
	"github.com/ironslayer/parking-management-system/pkg/rabbit"
	"github.com/ironslayer/parking-management-system/pkg/trm"
	wsHub "github.com/ironslayer/parking-management-system/pkg/wsHub"
)

type App struct {
	postgresDB *postgres.PostgreDB
	rabbitMQ   *rabbit.RabbitMQ
	hub        *wsHub.ConnectionHub
	httpServer *server.API

	cfg config.Config
	log logger.Logger
}

// NewApplication wires repositories, services and the HTTP server together.
func NewApplication(ctx context.Context, cfg config.Config, log logger.Logger) (*App, error) {
	postgresDB, err := postgres.New(ctx, cfg.Database)
	if err != nil {
		log.Error(ctx, "Failed to setup database", err)
		return nil, err
	}

	rabbitMQ, err := rabbit.New(ctx, cfg.RabbitMQ.GetDSN(), log)
	if err != nil {
		log.Error(ctx, "Failed to setup rabbitmq", err)
		return nil, err
	}

	hub := wsHub.NewConnHub(log)

	txManager := trm.New(postgresDB.Pool)

	userRepo := repo.NewUserRepo(postgresDB.Pool)
	refreshRepo := repo.NewRefreshTokenRepo(postgresDB.Pool)
	vehicleRepo := repo.NewVehicleRepo(postgresDB.Pool)
	sessionRepo := repo.NewSessionRepo(postgresDB.Pool)
	paymentRepo := repo.NewPaymentRepo(postgresDB.Pool)

	// Session lifecycle events fan out to the message broker and to any
	// dashboards connected over WebSocket.
	events := session.NewMultiPublisher(
		rabbitAdapter.NewSessionBroker(rabbitMQ, log),
		wsAdapter.NewDashboardFeed(hub, log),
	)

	tokenService := auth.NewTokenService(
		cfg.Auth.JWTSecret,
		userRepo,
		refreshRepo,
		txManager,
		cfg.Auth.RefreshTokenTTL,
		cfg.Auth.AccessTokenTTL,
		log,
	)
	authService := auth.NewAuthService(userRepo, tokenService, log)
	userService := user.NewUserService(userRepo, refreshRepo, log)
	vehicleService := vehicle.NewVehicleService(vehicleRepo, log)
	sessionService := session.NewSessionService(
		sessionRepo,
		paymentRepo,
		vehicleRepo,
		session.DefaultRateTable(),
		txManager,
		events,
		log,
	)
	paymentService := payment.NewPaymentService(paymentRepo, log)
	adminService := admin.NewAdminService(sessionRepo, paymentRepo, vehicleRepo, log)

	httpServer, err := server.New(
		cfg,
		authService,
		tokenService,
		vehicleService,
		sessionService,
		paymentService,
		adminService,
		userService,
		hub,
		log,
	)
	if err != nil {
		log.Error(ctx, "Failed to setup http server", err)
		return nil, err
	}

	return &App{
		postgresDB: postgresDB,
		rabbitMQ:   rabbitMQ,
		hub:        hub,
		httpServer: httpServer,
		cfg:        cfg,
		log:        log,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	a.httpServer.Run(ctx, errCh)
	defer func() {
		a.close(ctx)
		a.log.Info(ctx, "application closed")
	}()

	// Waiting signal
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	a.log.Info(ctx, "application started")

	select {
	case errRun := <-errCh:
		return errRun
	case sig := <-shutdownCh:
		a.log.Info(ctx, "shutting down application", "signal", sig.String())
		return nil
	}
}

func (a *App) close(ctx context.Context) {
	if a.httpServer != nil {
		if err := a.httpServer.Stop(ctx); err != nil {
			a.log.Warn(ctx, "Failed to gracefully close http server", "error", err.Error())
		}
	}

	if a.hub != nil {
		a.hub.Close()
	}

	if a.rabbitMQ != nil {
		if err := a.rabbitMQ.Close(ctx); err != nil {
			a.log.Warn(ctx, "Failed to gracefully close rabbitmq connection", "error", err.Error())
		}
	}

	if a.postgresDB != nil && a.postgresDB.Pool != nil {
		a.postgresDB.Pool.Close()
	}
}
