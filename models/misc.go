package models

import "time"

type Feedback struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id"`
	OrderID   *uint     `json:"order_id,omitempty"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

type ContactMessage struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// AnalyticsSummary backs the admin analytics screen
type AnalyticsSummary struct {
	TotalOrders    int                 `json:"total_orders"`
	TotalRevenue   float64             `json:"total_revenue"`
	AverageOrder   float64             `json:"average_order"`
	OrdersByStatus map[OrderStatus]int `json:"orders_by_status"`
	PopularItems   []PopularItem       `json:"popular_items"`
}

type PopularItem struct {
	MenuItemID uint    `json:"menu_item_id"`
	Name       string  `json:"name"`
	Quantity   int     `json:"quantity"`
	Revenue    float64 `json:"revenue"`
}

// VideoSession is a customer-support video call negotiated over the signaling endpoints
type VideoSession struct {
	ID        string    `json:"id"`
	HostID    uint      `json:"host_id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// TableStatus is one table on the waiter floor plan
type TableStatus struct {
	TableNumber  int         `json:"table_number"`
	ActiveOrders int         `json:"active_orders"`
	ReadyItems   int         `json:"ready_items"`
	Status       OrderStatus `json:"status"`
}

// AdminDashboard is the landing summary of the admin back office
type AdminDashboard struct {
	Users          int     `json:"users"`
	MenuItems      int     `json:"menu_items"`
	ActiveOrders   int     `json:"active_orders"`
	TodayRevenue   float64 `json:"today_revenue"`
	LowStockItems  int     `json:"low_stock_items"`
	ActivePromos   int     `json:"active_promotions"`
	PendingReviews int     `json:"pending_feedback"`
}

// RevenuePoint is one bucket of the revenue chart
type RevenuePoint struct {
	Date    string  `json:"date"`
	Orders  int     `json:"orders"`
	Revenue float64 `json:"revenue"`
}

// SalesReport covers a date range
type SalesReport struct {
	From      time.Time      `json:"from"`
	To        time.Time      `json:"to"`
	Orders    int            `json:"orders"`
	Gross     float64        `json:"gross"`
	Discounts float64        `json:"discounts"`
	Net       float64        `json:"net"`
	Daily     []RevenuePoint `json:"daily"`
}

// InventoryReport lists stock with the items that need reordering
type InventoryReport struct {
	Items      []InventoryItem `json:"items"`
	LowStock   []InventoryItem `json:"low_stock"`
	TotalItems int             `json:"total_items"`
}

// VideoSignal is an opaque negotiation message relayed between call peers
type VideoSignal struct {
	From    uint   `json:"from"`
	Type    string `json:"type"` // offer, answer, candidate
	Payload string `json:"payload"`
}
