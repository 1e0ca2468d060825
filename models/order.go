package models

import "time"

// OrderStatus represents the lifecycle states of a dine-in order and of its items
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusPreparing OrderStatus = "preparing"
	StatusPrepared  OrderStatus = "prepared"
	StatusServed    OrderStatus = "served"
	StatusCompleted OrderStatus = "completed"
	StatusCancelled OrderStatus = "cancelled"
)

// IsTerminal is true once nothing can move the order any further
func (s OrderStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

type Order struct {
	ID             uint        `json:"id" gorm:"primaryKey"`
	TableNumber    int         `json:"table_number"`
	CustomerID     uint        `json:"customer_id" gorm:"index"`
	CustomerName   string      `json:"customer_name"`
	Status         OrderStatus `json:"status" gorm:"not null;default:'pending'"`
	TotalPrice     float64     `json:"total_price"`
	DiscountAmount float64     `json:"discount_amount"`
	PromotionCode  string      `json:"promotion_code,omitempty"`
	Notes          string      `json:"notes"`
	Items          []OrderItem `json:"items,omitempty" gorm:"foreignKey:OrderID"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// OrderItem is one line of an order. Its status moves through the kitchen
// independently from the other lines of the same order.
type OrderItem struct {
	ID            uint        `json:"id" gorm:"primaryKey"`
	OrderID       uint        `json:"order_id" gorm:"not null;index"`
	MenuItemID    uint        `json:"menu_item_id" gorm:"not null"`
	Name          string      `json:"name"`  // snapshot name
	Price         float64     `json:"price"` // snapshot price at time of order
	Quantity      int         `json:"quantity" gorm:"not null"`
	Customization string      `json:"customization"`
	Status        OrderStatus `json:"status" gorm:"not null;default:'pending'"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// KitchenOrderItem is the flat record served to kitchen and waiter screens:
// one row per order line, denormalized with its parent order's table and customer.
type KitchenOrderItem struct {
	ID            uint        `json:"id"`
	OrderID       uint        `json:"order_id"`
	TableNumber   int         `json:"table_number"`
	CustomerName  string      `json:"customer_name"`
	ItemName      string      `json:"item_name"`
	Quantity      int         `json:"quantity"`
	Customization string      `json:"customization"`
	Status        OrderStatus `json:"status"`
	CreatedAt     time.Time   `json:"created_at"`
}
