package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ironslayer/parking-management-system/config"
	"github.com/ironslayer/parking-management-system/internal/adapter/http/handler"
	"github.com/ironslayer/parking-management-system/internal/adapter/http/middleware"
	"github.com/ironslayer/parking-management-system/internal/domain/types"
	"github.com/ironslayer/parking-management-system/pkg/logger"
	wrap "github.com/ironslayer/parking-management-system/pkg/logger/wrapper"
	wsHub "github.com/ironslayer/parking-management-system/pkg/wsHub"
)

type API struct {
	mux    *http.ServeMux
	server *http.Server
	routes *handlers
	m      *middleware.Middleware

	addr string
	cfg  config.Config
	log  logger.Logger
}

type handlers struct {
	health    *handler.Health
	auth      *handler.Auth
	vehicle   *handler.Vehicle
	session   *handler.Session
	payment   *handler.Payment
	admin     *handler.Admin
	dashboard *handler.Dashboard
}

func New(
	cfg config.Config,
	authService handler.AuthService,
	tokenService handler.TokenService,
	vehicleService handler.VehicleService,
	sessionService handler.SessionService,
	paymentService handler.PaymentService,
	adminService handler.AdminService,
	userService handler.UserService,
	hub *wsHub.ConnectionHub,
	log logger.Logger,
) (*API, error) {
	if authService == nil {
		return nil, errors.New("auth service is required")
	}

	routes := &handlers{
		health:    handler.NewHealth(types.ServiceName, log),
		auth:      handler.NewAuth(authService, tokenService, log),
		vehicle:   handler.NewVehicle(vehicleService, log),
		session:   handler.NewSession(sessionService, log),
		payment:   handler.NewPayment(paymentService, log),
		admin:     handler.NewAdmin(adminService, userService, log),
		dashboard: handler.NewDashboard(hub, log),
	}

	mid := middleware.NewMiddleware(authService, log)

	api := &API{
		mux:    http.NewServeMux(),
		routes: routes,
		m:      mid,
		addr:   cfg.Server.Addr(),
		cfg:    cfg,
		log:    log,
	}

	setupRoutes(api.mux, api.routes, api.m)

	api.server = &http.Server{
		Addr:    api.addr,
		Handler: api.withMiddleware(),
	}

	return api, nil
}

func (a *API) Stop(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	ctx = wrap.WithAction(ctx, "http_server_stop")

	a.log.Debug(ctx, "shutting down HTTP server...", "address", a.addr)
	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}
	a.log.Debug(ctx, "shutting down HTTP server completed")

	return nil
}

func (a *API) Run(ctx context.Context, errCh chan<- error) {
	go func() {
		ctx = wrap.WithAction(ctx, "http_server_start")
		a.log.Info(ctx, "started http server", "address", a.addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("failed to start HTTP server: %w", err)
			return
		}
	}()
}

// withMiddleware applies middlewares to the mux
func (a *API) withMiddleware() http.Handler {
	return a.m.Recover(
		a.m.RequestID(
			a.m.Metrics(types.ServiceName)(
				a.m.Logging(
					a.m.Auth(a.mux),
				),
			),
		),
	)
}
