package main

import (
	"database/sql"
	"net/http"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	server "github.com/Bekimoon0043/Hotel-connecter/internal/adapters/http_server"
	"github.com/Bekimoon0043/Hotel-connecter/internal/adapters/observability"
	"github.com/Bekimoon0043/Hotel-connecter/internal/adapters/payments"
	redisad "github.com/Bekimoon0043/Hotel-connecter/internal/adapters/redis"
	"github.com/Bekimoon0043/Hotel-connecter/internal/app"
	"github.com/Bekimoon0043/Hotel-connecter/internal/domain"
	"github.com/Bekimoon0043/Hotel-connecter/internal/shared"
	mysqlrepo "github.com/Bekimoon0043/Hotel-connecter/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve()

	// db
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("database connection ok")

	// deps
	repo := mysqlrepo.New(db)
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	sessions := redisad.NewSessions(cache.Client())

	var gateway domain.PaymentGateway
	if cfg.PaymentsBase != "" {
		gw, err := payments.New(cfg.PaymentsBase, cfg.PaymentsKey, 5)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize payment gateway")
		}
		gateway = gw
	} else {
		log.Warn().Msg("PAYMENTS_BASE_URL empty; confirmations skip the charge step")
	}

	catalog := app.NewCatalogService(repo, cache, cfg.CacheTTL)
	bookings := app.NewBookingService(repo, repo, gateway)
	accounts := app.NewAccountService(repo, sessions, cfg.AdminEmail, cfg.AdminPassword, cfg.SessionTTL)

	// http
	srv := server.New()
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{Catalog: catalog, Bookings: bookings, Accounts: accounts})

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
