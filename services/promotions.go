package services

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/Sam414141/Digital-MenuCard-sub001/api"
	"github.com/Sam414141/Digital-MenuCard-sub001/apperr"
	"github.com/Sam414141/Digital-MenuCard-sub001/models"
)

type Promotions struct {
	c *api.Client
	v *validator.Validate
}

func (p *Promotions) List(ctx context.Context) ([]models.Promotion, error) {
	return getList[models.Promotion](ctx, p.c, "promotions", "list", api.Request{}, "promotions")
}

func (p *Promotions) Active(ctx context.Context) ([]models.Promotion, error) {
	return getList[models.Promotion](ctx, p.c, "promotions", "active", api.Request{}, "promotions")
}

// PromotionInput is the admin promotion form
type PromotionInput struct {
	Code          string              `json:"code" binding:"required,min=3,max=32"`
	Name          string              `json:"name" binding:"required"`
	Description   string              `json:"description"`
	DiscountType  models.DiscountType `json:"discount_type" binding:"required,oneof=percentage fixed_amount buy_get"`
	Value         float64             `json:"value" binding:"gte=0"`
	BuyQuantity   int                 `json:"buy_quantity,omitempty" binding:"gte=0"`
	GetQuantity   int                 `json:"get_quantity,omitempty" binding:"gte=0"`
	MenuItemID    *uint               `json:"menu_item_id,omitempty"`
	StartsAt      time.Time           `json:"starts_at"`
	EndsAt        time.Time           `json:"ends_at"`
	UsageLimit    int                 `json:"usage_limit" binding:"gte=0"`
	MinOrderValue float64             `json:"min_order_value" binding:"gte=0"`
	IsActive      bool                `json:"is_active"`
}

// check covers the rules that span fields
func (in PromotionInput) check() error {
	const op = "promotions.save"
	switch in.DiscountType {
	case models.DiscountPercentage:
		if in.Value <= 0 || in.Value > 100 {
			return apperr.Validation(op, "percentage must be between 0 and 100")
		}
	case models.DiscountFixedAmount:
		if in.Value <= 0 {
			return apperr.Validation(op, "fixed amount must be greater than 0")
		}
	case models.DiscountBuyGet:
		if in.BuyQuantity < 1 || in.GetQuantity < 1 {
			return apperr.Validation(op, "buy and get quantities must be at least 1")
		}
	}
	if !in.StartsAt.IsZero() && !in.EndsAt.IsZero() && !in.EndsAt.After(in.StartsAt) {
		return apperr.Validation(op, "end date must be after start date")
	}
	return nil
}

func (p *Promotions) save(ctx context.Context, action string, params api.Params, in PromotionInput) (models.Promotion, error) {
	var out models.Promotion
	in.Code = strings.ToUpper(strings.TrimSpace(in.Code))
	if err := validate(p.v, "promotions."+action, in); err != nil {
		return out, err
	}
	if err := in.check(); err != nil {
		return out, err
	}
	if action == "create" {
		err := p.c.Post(ctx, "promotions", action, params, in, &out)
		return out, err
	}
	err := p.c.Put(ctx, "promotions", action, params, in, &out)
	return out, err
}

func (p *Promotions) Create(ctx context.Context, in PromotionInput) (models.Promotion, error) {
	return p.save(ctx, "create", nil, in)
}

func (p *Promotions) Update(ctx context.Context, id uint, in PromotionInput) (models.Promotion, error) {
	return p.save(ctx, "update", api.ID(id), in)
}

func (p *Promotions) Delete(ctx context.Context, id uint) error {
	return p.c.Delete(ctx, "promotions", "delete", api.ID(id), nil)
}

type validateRequest struct {
	Code       string  `json:"code" binding:"required"`
	OrderTotal float64 `json:"order_total" binding:"gte=0"`
}

// Validate asks the server about a code for an order of total. A code the
// server rejects comes back as a verdict with Valid=false and the server's
// message, not as an error; errors are reserved for failed calls.
func (p *Promotions) Validate(ctx context.Context, code string, total decimal.Decimal) (models.PromotionValidation, error) {
	req := validateRequest{Code: strings.ToUpper(strings.TrimSpace(code)), OrderTotal: total.InexactFloat64()}
	if err := validate(p.v, "promotions.validate", req); err != nil {
		return models.PromotionValidation{}, err
	}
	var res models.PromotionValidation
	err := p.c.Post(ctx, "promotions", "validate", nil, req, &res, api.Silent())
	if err != nil {
		switch apperr.KindOf(err) {
		case apperr.KindValidation, apperr.KindNotFound:
			e := apperr.Classify(err)
			return models.PromotionValidation{Valid: false, Message: e.Message}, nil
		}
		return res, err
	}
	return res, nil
}
