// Package cli is the terminal front end: one subcommand per screen, each
// backed by the typed services and the persisted session.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/Sam414141/Digital-MenuCard-sub001/api"
	"github.com/Sam414141/Digital-MenuCard-sub001/apperr"
	"github.com/Sam414141/Digital-MenuCard-sub001/config"
	"github.com/Sam414141/Digital-MenuCard-sub001/dashboard"
	"github.com/Sam414141/Digital-MenuCard-sub001/live"
	"github.com/Sam414141/Digital-MenuCard-sub001/logger"
	"github.com/Sam414141/Digital-MenuCard-sub001/services"
	"github.com/Sam414141/Digital-MenuCard-sub001/session"
)

// App holds everything a command needs
type App struct {
	cfg     *config.Config
	out     io.Writer
	r       *dashboard.Renderer
	client  *api.Client
	svc     *services.Services
	session *session.Manager
	live    live.Source
	log     *logger.Logger
	closers []func() error
}

type Option func(*App)

// WithLiveSource replaces the AMQP push source, e.g. with an in-process bus
func WithLiveSource(src live.Source) Option {
	return func(a *App) { a.live = src }
}

// WithRenderer replaces the renderer built over out
func WithRenderer(r *dashboard.Renderer) Option {
	return func(a *App) { a.r = r }
}

// NewApp wires the client stack from cfg and restores the saved session
func NewApp(ctx context.Context, cfg *config.Config, out io.Writer, opts ...Option) (*App, error) {
	a := &App{cfg: cfg, out: out, log: logger.New("cli")}
	for _, o := range opts {
		o(a)
	}
	if a.r == nil {
		a.r = dashboard.New(out)
	}
	if a.live == nil && cfg.Live.AMQPURL != "" {
		a.live = live.NewAMQPSource(cfg.Live.AMQPURL, cfg.Live.Exchange)
	}

	sink := a.openSink(cfg.Errors)
	a.closers = append(a.closers, sink.Close)
	errs := apperr.NewHandler(dashboard.NewToaster(a.r), apperr.WithSink(sink))
	a.client = api.NewClient(cfg.API.BaseURL, cfg.API.Timeout, api.WithErrorHandler(errs))
	a.svc = services.New(a.client)

	db, err := config.OpenSQLite(cfg.Session.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		a.closers = append(a.closers, sqlDB.Close)
	}
	store, err := session.NewGormStore(db)
	if err != nil {
		return nil, err
	}
	a.session = session.NewManager(store, a.svc.Auth,
		session.WithTTL(cfg.Session.TTL),
		session.WithRefreshWindow(cfg.Session.RefreshWindow),
		session.WithCheckInterval(cfg.Session.CheckInterval),
	)
	a.client.SetTokenSource(a.session)
	errs.SetAuthFailure(a.session.HandleAuthFailure)

	if err := a.session.Init(ctx); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

// openSink picks where handled errors are forwarded. A broker that cannot
// be reached is logged and the client carries on without forwarding.
func (a *App) openSink(cfg config.ErrorsConfig) apperr.Sink {
	var (
		sink apperr.Sink
		err  error
	)
	switch cfg.Sink {
	case "kafka":
		sink, err = apperr.NewKafkaSink(cfg.KafkaBrokers, cfg.KafkaTopic)
	case "amqp":
		sink, err = apperr.NewAMQPSink(cfg.AMQPURL, cfg.AMQPExchange)
	default:
		return apperr.NopSink{}
	}
	if err != nil {
		a.log.Warn("error_sink_unavailable", err, map[string]any{"sink": cfg.Sink})
		return apperr.NopSink{}
	}
	return sink
}

func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.log.Debug("close_failed", map[string]any{"error": err.Error()})
		}
	}
	a.closers = nil
}

func (a *App) Session() *session.Manager { return a.session }

type command struct {
	summary string
	run     func(ctx context.Context, a *App, args []string) error
}

var commands = map[string]command{
	"login":     {"sign in", runLogin},
	"register":  {"create a customer account", runRegister},
	"logout":    {"sign out", runLogout},
	"whoami":    {"show the signed-in user", runWhoami},
	"menu":      {"browse the menu", runMenu},
	"order":     {"place an order", runOrder},
	"history":   {"list your past orders", runHistory},
	"track":     {"follow one order", runTrack},
	"promo":     {"list promotions or check a code", runPromo},
	"kitchen":   {"kitchen board (kitchen staff)", runKitchen},
	"waiter":    {"waiter board (waiters)", runWaiter},
	"inventory": {"stock levels (admin)", runInventory},
	"analytics": {"sales analytics (admin)", runAnalytics},
	"users":     {"manage users (admin)", runUsers},
	"feedback":  {"leave or read feedback", runFeedback},
}

var ErrUnknownCommand = errors.New("unknown command")

// Run executes one subcommand
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" {
		a.Usage()
		return nil
	}
	cmd, ok := commands[args[0]]
	if !ok {
		a.Usage()
		return fmt.Errorf("%w %q", ErrUnknownCommand, args[0])
	}
	return cmd.run(ctx, a, args[1:])
}

func (a *App) Usage() {
	names := make([]string, 0, len(commands))
	for n := range commands {
		names = append(names, n)
	}
	sort.Strings(names)
	var b strings.Builder
	b.WriteString("usage: menucard [-config file] <command> [flags]\n\ncommands:\n")
	for _, n := range names {
		fmt.Fprintf(&b, "  %-10s %s\n", n, commands[n].summary)
	}
	fmt.Fprint(a.out, b.String())
}
