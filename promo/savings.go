// Package promo computes the savings a promotion gives on an order, for
// display next to the server's validation verdict.
package promo

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Sam414141/Digital-MenuCard-sub001/models"
)

var hundred = decimal.NewFromInt(100)

// Line is one order line as far as discounts care
type Line struct {
	MenuItemID uint
	UnitPrice  decimal.Decimal
	Quantity   int
}

// LinesFrom converts order lines
func LinesFrom(items []models.OrderItem) []Line {
	out := make([]Line, len(items))
	for i, it := range items {
		out[i] = Line{MenuItemID: it.MenuItemID, UnitPrice: decimal.NewFromFloat(it.Price), Quantity: it.Quantity}
	}
	return out
}

// Total is the undiscounted sum of lines
func Total(lines []Line) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return sum
}

type Result struct {
	Applicable bool
	Reason     string
	Savings    decimal.Decimal
	FreeUnits  int
}

// Display is the savings as shown to the user, always two decimals
func (r Result) Display() string { return r.Savings.StringFixed(2) }

// Savings computes what p takes off an order of total. Orders below the
// minimum order value get nothing. Fixed amounts never exceed the total.
func Savings(p models.Promotion, total decimal.Decimal, lines []Line) Result {
	if minOrder := decimal.NewFromFloat(p.MinOrderValue); p.MinOrderValue > 0 && total.LessThan(minOrder) {
		return Result{Reason: fmt.Sprintf("minimum order value is %s", minOrder.StringFixed(2)), Savings: decimal.Zero}
	}
	value := decimal.NewFromFloat(p.Value)

	switch p.DiscountType {
	case models.DiscountPercentage:
		s := total.Mul(value).Div(hundred).Round(2)
		return Result{Applicable: true, Savings: s}

	case models.DiscountFixedAmount:
		s := value
		if s.GreaterThan(total) {
			s = total
		}
		return Result{Applicable: true, Savings: s.Round(2)}

	case models.DiscountBuyGet:
		return buyGet(p, lines)
	}
	return Result{Reason: fmt.Sprintf("unknown discount type %q", p.DiscountType), Savings: decimal.Zero}
}

// buyGet gives GetQuantity free units for every BuyQuantity+GetQuantity
// eligible units; the cheapest units are the free ones.
func buyGet(p models.Promotion, lines []Line) Result {
	group := p.BuyQuantity + p.GetQuantity
	if p.BuyQuantity <= 0 || p.GetQuantity <= 0 {
		return Result{Reason: "promotion has no buy/get quantities", Savings: decimal.Zero}
	}

	var units []decimal.Decimal
	for _, l := range lines {
		if p.MenuItemID != nil && l.MenuItemID != *p.MenuItemID {
			continue
		}
		for i := 0; i < l.Quantity; i++ {
			units = append(units, l.UnitPrice)
		}
	}
	free := len(units) / group * p.GetQuantity
	if free == 0 {
		return Result{Reason: fmt.Sprintf("add %d more eligible item(s)", group-len(units)%group), Savings: decimal.Zero}
	}
	sort.Slice(units, func(i, j int) bool { return units[i].LessThan(units[j]) })
	s := decimal.Zero
	for _, u := range units[:free] {
		s = s.Add(u)
	}
	return Result{Applicable: true, Savings: s.Round(2), FreeUnits: free}
}

// Applicable mirrors the server's gating so the client can grey out
// promotions that cannot apply. The server verdict always wins.
func Applicable(p models.Promotion, total decimal.Decimal, now time.Time) (bool, string) {
	switch {
	case !p.IsActive:
		return false, "promotion is not active"
	case !p.StartsAt.IsZero() && now.Before(p.StartsAt):
		return false, "promotion has not started yet"
	case !p.EndsAt.IsZero() && now.After(p.EndsAt):
		return false, "promotion has expired"
	case p.UsageLimit > 0 && p.UsageCount >= p.UsageLimit:
		return false, "promotion usage limit reached"
	case p.MinOrderValue > 0 && total.LessThan(decimal.NewFromFloat(p.MinOrderValue)):
		return false, fmt.Sprintf("minimum order value is %s", decimal.NewFromFloat(p.MinOrderValue).StringFixed(2))
	}
	return true, ""
}

// FromValidation renders the server's verdict. A rejected code shows the
// server's message and no savings.
func FromValidation(v models.PromotionValidation, total decimal.Decimal, lines []Line) Result {
	if !v.Valid || v.Promotion == nil {
		reason := v.Message
		if reason == "" {
			reason = "promotion code is not valid"
		}
		return Result{Reason: reason, Savings: decimal.Zero}
	}
	return Savings(*v.Promotion, total, lines)
}
