package models

import "time"

// DiscountType selects how a promotion's Value is interpreted
type DiscountType string

const (
	DiscountPercentage  DiscountType = "percentage"
	DiscountFixedAmount DiscountType = "fixed_amount"
	DiscountBuyGet      DiscountType = "buy_get"
)

type Promotion struct {
	ID            uint         `json:"id" gorm:"primaryKey"`
	Code          string       `json:"code" gorm:"uniqueIndex;not null"`
	Name          string       `json:"name"`
	Description   string       `json:"description"`
	DiscountType  DiscountType `json:"discount_type" gorm:"not null"`
	Value         float64      `json:"value"`
	BuyQuantity   int          `json:"buy_quantity,omitempty"` // buy_get only
	GetQuantity   int          `json:"get_quantity,omitempty"` // buy_get only
	MenuItemID    *uint        `json:"menu_item_id,omitempty"` // buy_get: restrict to one item
	StartsAt      time.Time    `json:"starts_at"`
	EndsAt        time.Time    `json:"ends_at"`
	UsageLimit    int          `json:"usage_limit"` // 0 = unlimited
	UsageCount    int          `json:"usage_count"`
	MinOrderValue float64      `json:"min_order_value"`
	IsActive      bool         `json:"is_active" gorm:"default:true"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// PromotionValidation is the server verdict returned by the validate endpoint
type PromotionValidation struct {
	Valid          bool       `json:"valid"`
	Message        string     `json:"message,omitempty"`
	Promotion      *Promotion `json:"promotion,omitempty"`
	DiscountAmount float64    `json:"discount_amount"`
}
