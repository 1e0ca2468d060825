package services

import (
	"context"

	"github.com/Sam414141/Digital-MenuCard-sub001/api"
	"github.com/Sam414141/Digital-MenuCard-sub001/models"
	"github.com/Sam414141/Digital-MenuCard-sub001/statemachine"
)

type Kitchen struct {
	c *api.Client
}

// Orders lists every open order line for the kitchen board
func (k *Kitchen) Orders(ctx context.Context) ([]models.KitchenOrderItem, error) {
	return getList[models.KitchenOrderItem](ctx, k.c, "kitchen", "orders", api.Request{}, "orders")
}

// UpdateItemStatus moves one line. Moves the kitchen may not make are
// refused locally without a request.
func (k *Kitchen) UpdateItemStatus(ctx context.Context, item models.KitchenOrderItem, to models.OrderStatus) (models.KitchenOrderItem, error) {
	if err := statemachine.CanTransition(item.Status, to, statemachine.ActorKitchen); err != nil {
		return item, validationf("kitchen.updateItemStatus", "%s", err.Error())
	}
	var out models.KitchenOrderItem
	body := map[string]models.OrderStatus{"status": statemachine.NormalizeStatus(to)}
	err := k.c.Put(ctx, "kitchen", "updateItemStatus", api.ID(item.ID), body, &out, api.SkipAuthRedirect())
	return out, err
}

// Advance moves a line to the kitchen's next status
func (k *Kitchen) Advance(ctx context.Context, item models.KitchenOrderItem) (models.KitchenOrderItem, error) {
	next := statemachine.NextFor(item.Status, statemachine.ActorKitchen)
	if len(next) == 0 {
		return item, validationf("kitchen.updateItemStatus", "nothing left for the kitchen to do on %s item", item.Status)
	}
	return k.UpdateItemStatus(ctx, item, next[0])
}

type Waiter struct {
	c *api.Client
}

// Orders lists lines the waiter cares about: prepared and waiting to be served
func (w *Waiter) Orders(ctx context.Context) ([]models.KitchenOrderItem, error) {
	return getList[models.KitchenOrderItem](ctx, w.c, "waiter", "orders", api.Request{}, "orders")
}

// Serve marks every prepared line of an order as served
func (w *Waiter) Serve(ctx context.Context, orderID uint) (models.Order, error) {
	var order models.Order
	err := w.c.Put(ctx, "waiter", "serve", api.ID(orderID), nil, &order, api.SkipAuthRedirect())
	return order, err
}

func (w *Waiter) Tables(ctx context.Context) ([]models.TableStatus, error) {
	return getList[models.TableStatus](ctx, w.c, "waiter", "tables", api.Request{}, "tables")
}
