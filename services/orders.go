package services

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	json "github.com/goccy/go-json"

	"github.com/Sam414141/Digital-MenuCard-sub001/api"
	"github.com/Sam414141/Digital-MenuCard-sub001/apperr"
	"github.com/Sam414141/Digital-MenuCard-sub001/models"
)

type Orders struct {
	c *api.Client
	v *validator.Validate
}

type OrderItemInput struct {
	MenuItemID    uint   `json:"menu_item_id" binding:"required"`
	Quantity      int    `json:"quantity" binding:"required,min=1,max=50"`
	Customization string `json:"customization,omitempty" binding:"max=200"`
}

// PlaceOrderRequest is the dine-in order form
type PlaceOrderRequest struct {
	TableNumber   int              `json:"table_number" binding:"required,min=1"`
	Items         []OrderItemInput `json:"items" binding:"required,min=1,dive"`
	PromotionCode string           `json:"promotion_code,omitempty"`
	Notes         string           `json:"notes,omitempty" binding:"max=500"`
}

func validationf(op, format string, args ...any) error {
	return apperr.Validation(op, fmt.Sprintf(format, args...))
}

func (o *Orders) Place(ctx context.Context, req PlaceOrderRequest) (models.Order, error) {
	var order models.Order
	if err := validate(o.v, "orders.create", req); err != nil {
		return order, err
	}
	err := o.c.Post(ctx, "orders", "create", nil, req, &order)
	return order, err
}

func (o *Orders) List(ctx context.Context) ([]models.Order, error) {
	return getList[models.Order](ctx, o.c, "orders", "list", api.Request{}, "orders")
}

func (o *Orders) Get(ctx context.Context, id uint) (models.Order, error) {
	var order models.Order
	err := o.c.DoRetry(ctx, api.DefaultReadPolicy, "orders", "get", api.Request{Params: api.ID(id)}, &order)
	return order, err
}

// History returns the signed-in customer's past orders. A payload that is
// not a list (null, an error object, a bare string) yields an empty list.
func (o *Orders) History(ctx context.Context) ([]models.Order, error) {
	var raw json.RawMessage
	if err := o.c.Get(ctx, "orders", "history", nil, nil, &raw); err != nil {
		return []models.Order{}, err
	}
	return decodeList[models.Order](raw, "orders", "history"), nil
}

func (o *Orders) Cancel(ctx context.Context, id uint) (models.Order, error) {
	var order models.Order
	err := o.c.Put(ctx, "orders", "cancel", api.ID(id), nil, &order)
	return order, err
}

// UpdateStatus moves a whole order; staff screens use it, so a 401 does not
// log them out mid-shift.
func (o *Orders) UpdateStatus(ctx context.Context, id uint, status models.OrderStatus) (models.Order, error) {
	var order models.Order
	body := map[string]models.OrderStatus{"status": status}
	err := o.c.Put(ctx, "orders", "updateStatus", api.ID(id), body, &order, api.SkipAuthRedirect())
	return order, err
}
