package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/numberguess/internal/auth"
	"github.com/robalobadob/numberguess/internal/config"
	"github.com/robalobadob/numberguess/internal/db"
	"github.com/robalobadob/numberguess/internal/httpserver"
	"github.com/robalobadob/numberguess/internal/i18n"
	"github.com/robalobadob/numberguess/internal/ledger"
	"github.com/robalobadob/numberguess/internal/logging"
	"github.com/robalobadob/numberguess/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	lang, ok := i18n.ParseTag(cfg.DefaultLang)
	if !ok {
		log.Warn().Str("lang", cfg.DefaultLang).Msg("unsupported DEFAULT_LANG, using default")
		lang = i18n.Default()
	}

	opts := httpserver.Options{
		Store:        store.NewMemoryStore(),
		DefaultLang:  lang,
		DailySalt:    cfg.DailySalt,
		ClientOrigin: cfg.ClientOrigin,
		Secure:       cfg.IsProduction(),
	}

	var conn *sql.DB
	if cfg.DB.Enabled {
		conn, err = db.OpenMigrated(cfg.DB.Path)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.DB.Path).Msg("open database")
		}
		defer conn.Close()
		opts.Ledger = ledger.NewStore(conn)
		opts.Auth = auth.NewService(conn, auth.Options{
			Secret:     cfg.Auth.JWTSecret,
			TTL:        time.Duration(cfg.Auth.JWTExpiresDays) * 24 * time.Hour,
			CookieName: cfg.Auth.CookieName,
			Secure:     cfg.IsProduction(),
		})
	} else {
		log.Info().Msg("database disabled: no accounts, stats or leaderboard")
	}
	if cfg.IsProduction() && cfg.Auth.JWTSecret == "dev_secret_change_me" {
		log.Warn().Msg("JWT_SECRET is the development default")
	}

	srv := httpserver.New(opts)
	go srv.PruneIdle(ctx, 10*time.Minute, cfg.SessionTTL)

	hs := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := hs.Shutdown(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("shutdown")
		}
	}()

	log.Info().Str("addr", hs.Addr).Str("lang", lang.String()).Bool("db", cfg.DB.Enabled).Msg("starting numberguess server")
	if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("server exited")
	}
	log.Info().Msg("server stopped")
}
