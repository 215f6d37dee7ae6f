package server

import (
	"net/http"

	"github.com/ironslayer/parking-management-system/internal/adapter/http/middleware"
	"github.com/ironslayer/parking-management-system/internal/domain/types"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

// setupRoutes - setups http routes
func setupRoutes(mux *http.ServeMux, routes *handlers, m *middleware.Middleware) {
	// System Health
	mux.HandleFunc("/health", routes.health.HealthCheck)

	// Swagger UI and Prometheus metrics
	mux.HandleFunc("/swagger/", httpSwagger.Handler())
	mux.Handle("/metrics", promhttp.Handler())

	setupAuthRoutes(mux, routes)
	setupVehicleRoutes(mux, routes, m)
	setupSessionRoutes(mux, routes, m)
	setupPaymentRoutes(mux, routes, m)
	setupAdminRoutes(mux, routes, m)
}

func setupAuthRoutes(mux *http.ServeMux, routes *handlers) {
	mux.HandleFunc("POST /auth/register", routes.auth.Register)
	mux.HandleFunc("POST /auth/login", routes.auth.Login)
	mux.HandleFunc("POST /auth/refresh", routes.auth.Refresh)
	mux.HandleFunc("GET /auth/me", routes.auth.Profile)
}

func setupVehicleRoutes(mux *http.ServeMux, routes *handlers, m *middleware.Middleware) {
	mux.Handle("POST /vehicles", m.RequireLevel(routes.vehicle.Register, types.RoleOperator))                    // Register a vehicle
	mux.Handle("GET /vehicles", m.RequireLevel(routes.vehicle.List, types.RoleUser))                             // List vehicles
	mux.Handle("GET /vehicles/{id}", m.RequireLevel(routes.vehicle.Get, types.RoleUser))                         // Get one vehicle
	mux.Handle("GET /vehicles/plate/{plate}", m.RequireLevel(routes.vehicle.GetByPlate, types.RoleUser))         // Lookup by plate
	mux.Handle("PATCH /vehicles/{id}", m.RequireLevel(routes.vehicle.Update, types.RoleOperator))                // Partial update
	mux.Handle("POST /vehicles/{id}/deactivate", m.RequireLevel(routes.vehicle.Deactivate, types.RoleOperator)) // Soft delete
	mux.Handle("POST /vehicles/{id}/reactivate", m.RequireLevel(routes.vehicle.Reactivate, types.RoleOperator)) // Undo soft delete
}

func setupSessionRoutes(mux *http.ServeMux, routes *handlers, m *middleware.Middleware) {
	mux.Handle("POST /sessions", m.RequireLevel(routes.session.Start, types.RoleOperator))                // Vehicle enters the lot
	mux.Handle("POST /sessions/{id}/complete", m.RequireLevel(routes.session.Complete, types.RoleOperator)) // Exit, bill and capture payment
	mux.Handle("POST /sessions/{id}/cancel", m.RequireLevel(routes.session.Cancel, types.RoleOperator))   // Void without charging
	mux.Handle("GET /sessions", m.RequireLevel(routes.session.List, types.RoleUser))                      // Session history
	mux.Handle("GET /sessions/active", m.RequireLevel(routes.session.ListActive, types.RoleUser))         // Currently parked
	mux.Handle("GET /sessions/{id}", m.RequireLevel(routes.session.Get, types.RoleUser))                  // Get one session
	mux.Handle("GET /sessions/{id}/cost", m.RequireLevel(routes.session.EstimateCost, types.RoleUser))    // Live cost estimate
	mux.Handle("GET /sessions/{id}/payment", m.RequireLevel(routes.payment.GetBySession, types.RoleUser)) // Payment for a session

	mux.HandleFunc("GET /ws/dashboard", routes.dashboard.HandleWebSocket) // Live session event feed
}

func setupPaymentRoutes(mux *http.ServeMux, routes *handlers, m *middleware.Middleware) {
	mux.Handle("GET /payments", m.RequireLevel(routes.payment.List, types.RoleOperator))     // Payment history
	mux.Handle("GET /payments/{id}", m.RequireLevel(routes.payment.Get, types.RoleOperator)) // Get one payment
}

func setupAdminRoutes(mux *http.ServeMux, routes *handlers, m *middleware.Middleware) {
	mux.Handle("GET /admin/overview", m.RequireLevel(routes.admin.GetOverview, types.RoleAdmin))                   // Lot occupancy and revenue snapshot
	mux.Handle("GET /admin/users", m.RequireLevel(routes.admin.ListUsers, types.RoleAdmin))                        // List accounts
	mux.Handle("PUT /admin/users/{id}/role", m.RequireLevel(routes.admin.ChangeUserRole, types.RoleAdmin))         // Promote/demote
	mux.Handle("POST /admin/users/{id}/deactivate", m.RequireLevel(routes.admin.DeactivateUser, types.RoleAdmin))  // Disable account
	mux.Handle("POST /admin/users/{id}/reactivate", m.RequireLevel(routes.admin.ReactivateUser, types.RoleAdmin))  // Re-enable account
}
