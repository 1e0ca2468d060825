// Command menucard is the terminal client of the digital menu card: guests
// browse and order, staff run the kitchen and waiter boards, admins manage
// stock, promotions and users.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Sam414141/Digital-MenuCard-sub001/apperr"
	"github.com/Sam414141/Digital-MenuCard-sub001/cli"
	"github.com/Sam414141/Digital-MenuCard-sub001/config"
	"github.com/Sam414141/Digital-MenuCard-sub001/logger"
)

func main() {
	os.Exit(run())
}

func run() int {
	log := logger.New("menucard")

	fs := flag.NewFlagSet("menucard", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to a config.yaml")
	debug := fs.Bool("debug", false, "log debug lines to stderr")
	if err := fs.Parse(os.Args[1:]); err != nil {
		return 2
	}

	var (
		cfg *config.Config
		err error
	)
	if *configPath != "" {
		cfg, err = config.LoadFile(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		log.Error("config_load_failed", err, nil)
		return 1
	}
	logger.SetDebug(cfg.Debug || *debug)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := cli.NewApp(ctx, cfg, os.Stdout)
	if err != nil {
		log.Error("startup_failed", err, nil)
		return 1
	}
	defer app.Close()

	if err := app.Run(ctx, fs.Args()); err != nil {
		if cli.IsUsageError(err) {
			return 2
		}
		fmt.Fprintln(os.Stderr, "error:", err)
		if apperr.Is(err, apperr.KindAuthentication) {
			return 3
		}
		return 1
	}
	return 0
}
