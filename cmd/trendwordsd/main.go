// trendwordsd - live-feed daemon: websocket word-count streaming plus the
// report-history REST API.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/matiasleandrokruk/trendwords/internal/api"
	"github.com/matiasleandrokruk/trendwords/internal/infra/config"
	"github.com/matiasleandrokruk/trendwords/internal/infra/reddit"
	"github.com/matiasleandrokruk/trendwords/internal/infra/sqlite"
	"github.com/matiasleandrokruk/trendwords/internal/server"
	"github.com/matiasleandrokruk/trendwords/internal/version"
)

const shutdownGrace = 10 * time.Second

func main() {
	log.Printf("%s", version.String())

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	db, err := sqlite.NewDB(cfg.DBPath)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	if err := sqlite.MigrateUp(db); err != nil {
		log.Fatalf("migrate database: %v", err)
	}

	client := reddit.NewClient(cfg.RedditBaseURL, cfg.UserAgent, cfg.RequestsPerSecond)
	router := api.NewRouter(db, client, cfg.Pipeline())

	srvCfg := server.DefaultConfig()
	srvCfg.Host = cfg.Host
	srvCfg.Port = cfg.Port
	srv := server.NewServer(db, router, srvCfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		errc <- srv.Start(ctx)
	}()

	select {
	case err := <-errc:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("shutdown: %v", err)
	}
}
