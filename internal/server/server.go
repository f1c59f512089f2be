// Package server assembles the HTTP API: repositories, services, handlers
// and the process lifecycle around them.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/georgemunganga/marketplace-backend/internal/config"
	"github.com/georgemunganga/marketplace-backend/internal/dbx"
	"github.com/georgemunganga/marketplace-backend/internal/httpx"
	"github.com/georgemunganga/marketplace-backend/internal/logging"
	"github.com/georgemunganga/marketplace-backend/internal/modules/auth"
	"github.com/georgemunganga/marketplace-backend/internal/modules/catalog"
	"github.com/georgemunganga/marketplace-backend/internal/modules/events"
	"github.com/georgemunganga/marketplace-backend/internal/modules/order"
	"github.com/georgemunganga/marketplace-backend/internal/modules/roles"
	"github.com/georgemunganga/marketplace-backend/internal/modules/user"
	"github.com/georgemunganga/marketplace-backend/internal/modules/vendor"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"
)

// App is the wired API.
type App struct {
	cfg       *config.Config
	db        *sql.DB
	log       logging.Logger
	publisher events.Publisher
	router    chi.Router
}

// New wires every module against db. publisher receives order events and is
// closed by Run.
func New(cfg *config.Config, db *sql.DB, publisher events.Publisher, log logging.Logger) *App {
	a := &App{cfg: cfg, db: db, log: log, publisher: publisher}
	a.router = a.routes()
	return a
}

// Handler exposes the router, mainly for tests.
func (a *App) Handler() http.Handler { return a.router }

func (a *App) routes() chi.Router {
	secret := []byte(a.cfg.JWTSecret)
	tx := dbx.NewRetryRunner(dbx.NewSerializableRunner(a.db), a.cfg.TxRetries, a.cfg.TxRetryBackoff)
	conn := tx.Conn()

	// ── Identity ─────────────────────────────────────────────
	userRepo := user.NewPostgresRepository(conn)
	userHandler := user.NewHandler(user.NewService(userRepo), auth.ActorFromContext)
	authHandler := auth.NewHandler(auth.NewService(userRepo, secret, a.cfg.TokenTTL))
	roleService := roles.NewService(tx, roles.NewPostgresRepository, user.NewPostgresRepository, a.log)
	vendorService := vendor.NewService(tx, vendor.NewPostgresRepository, roles.NewPostgresRepository, a.log)

	// ── Catalog & Orders ─────────────────────────────────────
	catalogService := catalog.NewService(tx, catalog.NewPostgresRepository, roles.NewPostgresRepository, a.log)
	orderService := order.NewService(
		tx,
		order.NewPostgresRepository,
		catalog.NewPostgresRepository,
		roles.NewPostgresRepository,
		a.publisher,
		a.log,
	)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(accessLog(a.log))
	router.Use(middleware.Recoverer)

	router.Get("/healthz", a.health)

	router.Group(func(r chi.Router) {
		userHandler.RegisterPublicRoutes(r)
		authHandler.RegisterRoutes(r)
	})

	router.Group(func(r chi.Router) {
		r.Use(auth.Authenticate(secret))
		userHandler.RegisterRoutes(r)
		vendor.NewHandler(vendorService).RegisterRoutes(r)
		roles.NewHandler(roleService).RegisterRoutes(r)
		catalog.NewHandler(catalogService).RegisterRoutes(r)
		order.NewHandler(orderService).RegisterRoutes(r)
	})
	return router
}

func (a *App) health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := a.db.PingContext(ctx); err != nil {
		a.log.Warn(ctx, "health check failed", "error", err)
		httpx.Respond(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	httpx.Respond(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Run serves on ln until ctx is cancelled, then drains in-flight requests
// and closes the event publisher.
func (a *App) Run(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           a.router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.log.Info(gctx, "http server listening", "address", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		a.log.Info(context.Background(), "http server shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		if cerr := a.publisher.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("close publisher: %w", cerr))
		}
		return err
	})
	return g.Wait()
}
