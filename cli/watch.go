package cli

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Sam414141/Digital-MenuCard-sub001/apperr"
	"github.com/Sam414141/Digital-MenuCard-sub001/live"
	"github.com/Sam414141/Digital-MenuCard-sub001/middleware"
	"github.com/Sam414141/Digital-MenuCard-sub001/models"
	"github.com/Sam414141/Digital-MenuCard-sub001/orderview"
	"github.com/Sam414141/Digital-MenuCard-sub001/poll"
)

// watch keeps a screen live: the poller, the session expiry timer and the
// push source run together until ctx is cancelled or the session ends.
func watch[T any](ctx context.Context, a *App, p *poll.Poller[T], render func(poll.Snapshot[T])) error {
	p.OnUpdate(func(s poll.Snapshot[T]) {
		a.r.Clear()
		render(s)
	})

	a.log.Debug("watch_started", map[string]any{"screen": p.Name(), "interval": p.Interval().String()})
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return p.Run(gctx) })
	g.Go(func() error { return a.session.Run(gctx) })
	g.Go(func() error { return live.Bridge(gctx, a.live, p) })
	g.Go(func() error {
		ids, unsubscribe := a.session.Subscribe()
		defer unsubscribe()
		for {
			select {
			case <-gctx.Done():
				return nil
			case id := <-ids:
				if !id.Authenticated {
					return apperr.FromStatus(http.StatusUnauthorized, "session ended, please log in again")
				}
			}
		}
	})
	return g.Wait()
}

// refreshTimeout bounds the one-shot fetch behind a non-watching screen
const refreshTimeout = 30 * time.Second

// once renders a single fetch, for scripts and -once
func once[T any](ctx context.Context, p *poll.Poller[T], render func(poll.Snapshot[T])) error {
	ctx, cancel := context.WithTimeout(ctx, refreshTimeout)
	defer cancel()
	err := p.Refresh(ctx)
	render(p.Snapshot())
	return err
}

func show[T any](ctx context.Context, a *App, follow bool, p *poll.Poller[T], render func(poll.Snapshot[T])) error {
	if follow {
		return watch(ctx, a, p, render)
	}
	return once(ctx, p, render)
}

func runKitchen(ctx context.Context, a *App, args []string) error {
	fs := newFlags("kitchen")
	advance := fs.Uint("advance", 0, "move this order line to its next kitchen status")
	follow := fs.Bool("watch", false, "keep refreshing")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := middleware.RequireRole(a.session, models.RoleKitchenStaff, models.RoleAdmin); err != nil {
		return err
	}

	if *advance != 0 {
		items, err := a.svc.Kitchen.Orders(ctx)
		if err != nil {
			return err
		}
		for _, it := range items {
			if it.ID == uint(*advance) {
				updated, err := a.svc.Kitchen.Advance(ctx, it)
				if err != nil {
					return err
				}
				fmt.Fprintf(a.out, "%s for table %d is now %s\n", updated.ItemName, updated.TableNumber, updated.Status)
				return nil
			}
		}
		return apperr.FromStatus(http.StatusNotFound, fmt.Sprintf("order line %d is not on the kitchen board", *advance))
	}

	board := orderview.NewBoard()
	p := poll.New[[]models.KitchenOrderItem]("kitchen", a.cfg.Poll.Kitchen, a.svc.Kitchen.Orders)
	return show(ctx, a, *follow, p, func(s poll.Snapshot[[]models.KitchenOrderItem]) {
		if s.Err == nil {
			board.Apply(s.Value)
		}
		a.r.Banner("kitchen", board.UpdatedAt(), s.Err)
		a.r.KitchenBoard(board.Groups())
	})
}

type floor struct {
	items  []models.KitchenOrderItem
	tables []models.TableStatus
}

func runWaiter(ctx context.Context, a *App, args []string) error {
	fs := newFlags("waiter")
	serve := fs.Uint("serve", 0, "mark every ready line of this order served")
	follow := fs.Bool("watch", false, "keep refreshing")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := middleware.RequireRole(a.session, models.RoleWaiter, models.RoleAdmin); err != nil {
		return err
	}

	if *serve != 0 {
		order, err := a.svc.Waiter.Serve(ctx, uint(*serve))
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Order #%d for table %d served (%s)\n", order.ID, order.TableNumber, order.Status)
		return nil
	}

	p := poll.New[floor]("waiter", a.cfg.Poll.Waiter, func(ctx context.Context) (floor, error) {
		items, err := a.svc.Waiter.Orders(ctx)
		if err != nil {
			return floor{}, err
		}
		tables, err := a.svc.Waiter.Tables(ctx)
		return floor{items: items, tables: tables}, err
	})
	return show(ctx, a, *follow, p, func(s poll.Snapshot[floor]) {
		a.r.Banner("waiter", s.UpdatedAt, s.Err)
		a.r.WaiterBoard(orderview.Sorted(orderview.GroupKitchenItems(s.Value.items)), s.Value.tables)
	})
}

func runTrack(ctx context.Context, a *App, args []string) error {
	fs := newFlags("track")
	id := fs.Uint("id", 0, "order id")
	follow := fs.Bool("watch", false, "keep refreshing")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := middleware.RequireRole(a.session); err != nil {
		return err
	}
	if *id == 0 {
		return apperr.Validation("orders.get", "-id is required")
	}

	p := poll.New[models.Order]("tracking", a.cfg.Poll.Tracking, func(ctx context.Context) (models.Order, error) {
		return a.svc.Orders.Get(ctx, uint(*id))
	})
	return show(ctx, a, *follow, p, func(s poll.Snapshot[models.Order]) {
		a.r.Banner("tracking", s.UpdatedAt, s.Err)
		if s.HasValue {
			a.r.Tracking(s.Value)
		}
	})
}

func runHistory(ctx context.Context, a *App, args []string) error {
	fs := newFlags("history")
	follow := fs.Bool("watch", false, "keep refreshing")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := middleware.RequireRole(a.session); err != nil {
		return err
	}

	p := poll.New[[]models.Order]("history", a.cfg.Poll.History, a.svc.Orders.History)
	return show(ctx, a, *follow, p, func(s poll.Snapshot[[]models.Order]) {
		a.r.Banner("history", s.UpdatedAt, s.Err)
		a.r.History(s.Value)
	})
}
