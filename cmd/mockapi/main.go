// Command mockapi runs the development backend the menu card client talks to.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/Sam414141/Digital-MenuCard-sub001/config"
	"github.com/Sam414141/Digital-MenuCard-sub001/live"
	"github.com/Sam414141/Digital-MenuCard-sub001/logger"
	"github.com/Sam414141/Digital-MenuCard-sub001/mockapi"
)

func main() {
	os.Exit(run())
}

func run() int {
	log := logger.New("mockapi")
	seed := flag.Bool("seed", true, "seed demo accounts and menu into an empty database")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Error("config_load_failed", err, nil)
		return 1
	}
	logger.SetDebug(cfg.Debug)
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := config.OpenDB(cfg.Database)
	if err != nil {
		log.Error("db_connect_failed", err, map[string]any{"driver": cfg.Database.Driver})
		return 1
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	var events live.Publisher = live.NopPublisher{}
	if cfg.Live.AMQPURL != "" {
		pub, err := live.NewAMQPPublisher(cfg.Live.AMQPURL, cfg.Live.Exchange)
		if err != nil {
			log.Warn("live_publisher_unavailable", err, nil)
		} else {
			events = pub
			defer pub.Close()
		}
	}

	r, _, err := mockapi.NewEngine(db, mockapi.Options{
		Secret:   []byte(cfg.Server.JWTSecret),
		TokenTTL: cfg.Session.TTL,
		Events:   events,
		Seed:     *seed,
	})
	if err != nil {
		log.Error("engine_setup_failed", err, nil)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{Addr: ":" + cfg.Server.Port, Handler: r, ReadHeaderTimeout: 10 * time.Second}
	log.Info("server_started", map[string]any{"port": cfg.Server.Port, "driver": cfg.Database.Driver})
	if err := serve(ctx, srv); err != nil {
		log.Error("server_failed", err, nil)
		return 1
	}
	log.Info("server_stopped", nil)
	return 0
}

// serve runs srv until ctx is done, then shuts it down gracefully
func serve(ctx context.Context, srv *http.Server) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
