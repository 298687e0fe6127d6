package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"sync"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"github.com/Bekimoon0043/Hotel-connecter/internal/adapters/observability"
	redisad "github.com/Bekimoon0043/Hotel-connecter/internal/adapters/redis"
	"github.com/Bekimoon0043/Hotel-connecter/internal/app"
	"github.com/Bekimoon0043/Hotel-connecter/internal/domain"
	"github.com/Bekimoon0043/Hotel-connecter/internal/shared"
	mysqlrepo "github.com/Bekimoon0043/Hotel-connecter/internal/storage/mysql"
)

// seedFile is the demo fixture layout: complete listings plus the demo
// accounts that own them.
type seedFile struct {
	Hotels []domain.Hotel `json:"hotels"`
	Users  []seedUser     `json:"users"`
}

type seedUser struct {
	FullName string      `json:"fullName"`
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Role     domain.Role `json:"role"`
}

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	log.Logger = observability.NewLogger(cfg.AppEnv)

	raw, err := os.ReadFile(cfg.SeedFile)
	if err != nil {
		log.Fatal().Str("file", cfg.SeedFile).Err(err).Msg("read seed file failed")
	}
	var seed seedFile
	if err := json.Unmarshal(raw, &seed); err != nil {
		log.Fatal().Str("file", cfg.SeedFile).Err(err).Msg("parse seed file failed")
	}

	log.Info().
		Int("hotels", len(seed.Hotels)).
		Int("users", len(seed.Users)).
		Int("workers", cfg.SeedWorkers).
		Msg("seeder starting")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	repo := mysqlrepo.New(db)
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	sessions := redisad.NewSessions(cache.Client())
	accounts := app.NewAccountService(repo, sessions, cfg.AdminEmail, cfg.AdminPassword, cfg.SessionTTL)

	// Accounts first so listings can reference their owners.
	for _, u := range seed.Users {
		if _, err := accounts.Register(ctx, u.FullName, u.Email, u.Password, u.Role); err != nil {
			if err == domain.ErrDuplicateEmail {
				log.Info().Str("email", u.Email).Msg("user already seeded")
				continue
			}
			log.Warn().Str("email", u.Email).Err(err).Msg("seed user failed")
		}
	}

	sem := semaphore.NewWeighted(int64(cfg.SeedWorkers))
	var wg sync.WaitGroup

	for _, h := range seed.Hotels {
		h := h

		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, int64(1)); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func(hotel domain.Hotel) {
			defer wg.Done()
			defer sem.Release(int64(1))

			hotel.Normalize()
			if err := hotel.Validate(); err != nil {
				log.Warn().Str("hotel", hotel.Name).Err(err).Msg("invalid seed listing")
				return
			}
			if err := repo.UpsertHotel(ctx, hotel); err != nil {
				log.Warn().Str("hotel", hotel.Name).Err(err).Msg("seed hotel failed")
				return
			}
			_ = cache.Del(ctx, "hotel:"+hotel.ID)
			log.Info().Str("hotel", hotel.Name).Msg("seed ok")
		}(h)
	}

	wg.Wait()
	log.Info().Msg("seeding completed")
}
