// Package orderview turns the flat per-line records served to the kitchen
// and waiter screens into one card per order with a single derived status.
package orderview

import (
	"sort"
	"sync"
	"time"

	"github.com/Sam414141/Digital-MenuCard-sub001/models"
	"github.com/Sam414141/Digital-MenuCard-sub001/statemachine"
)

// ItemSummary is one line as shown on an order card
type ItemSummary struct {
	ID            uint               `json:"id"`
	Name          string             `json:"name"`
	Quantity      int                `json:"quantity"`
	Customization string             `json:"customization,omitempty"`
	Status        models.OrderStatus `json:"status"`
	CreatedAt     time.Time          `json:"created_at"`
}

// OrderGroup is every line sharing a parent order id
type OrderGroup struct {
	OrderID      uint               `json:"order_id"`
	TableNumber  int                `json:"table_number"`
	CustomerName string             `json:"customer_name"`
	Items        []ItemSummary      `json:"items"`
	Status       models.OrderStatus `json:"status"`
	OldestAt     time.Time          `json:"oldest_at"`
}

// Statuses lists the item statuses of the group in item order
func (g *OrderGroup) Statuses() []models.OrderStatus {
	out := make([]models.OrderStatus, len(g.Items))
	for i, it := range g.Items {
		out[i] = it.Status
	}
	return out
}

// GroupKitchenItems partitions items by parent order id. Every input line
// lands in exactly one group; table and customer come from the first line
// seen for the order.
func GroupKitchenItems(items []models.KitchenOrderItem) map[uint]*OrderGroup {
	groups := make(map[uint]*OrderGroup)
	for _, it := range items {
		g, ok := groups[it.OrderID]
		if !ok {
			g = &OrderGroup{
				OrderID:      it.OrderID,
				TableNumber:  it.TableNumber,
				CustomerName: it.CustomerName,
				OldestAt:     it.CreatedAt,
			}
			groups[it.OrderID] = g
		}
		if g.CustomerName == "" {
			g.CustomerName = it.CustomerName
		}
		if !it.CreatedAt.IsZero() && (g.OldestAt.IsZero() || it.CreatedAt.Before(g.OldestAt)) {
			g.OldestAt = it.CreatedAt
		}
		g.Items = append(g.Items, ItemSummary{
			ID:            it.ID,
			Name:          it.ItemName,
			Quantity:      it.Quantity,
			Customization: it.Customization,
			Status:        statemachine.NormalizeStatus(it.Status),
			CreatedAt:     it.CreatedAt,
		})
	}
	for _, g := range groups {
		g.Status = DeriveStatus(g.Statuses())
	}
	return groups
}

// DeriveStatus folds item statuses into one order status:
//
//	any preparing  -> preparing
//	all prepared   -> prepared
//	all completed  -> completed
//	otherwise      -> pending
//
// Legacy spellings are normalized first. An empty list is pending.
func DeriveStatus(statuses []models.OrderStatus) models.OrderStatus {
	if len(statuses) == 0 {
		return models.StatusPending
	}
	allPrepared, allCompleted := true, true
	for _, s := range statuses {
		switch statemachine.NormalizeStatus(s) {
		case models.StatusPreparing:
			return models.StatusPreparing
		case models.StatusPrepared:
			allCompleted = false
		case models.StatusCompleted:
			allPrepared = false
		default:
			allPrepared, allCompleted = false, false
		}
	}
	switch {
	case allPrepared:
		return models.StatusPrepared
	case allCompleted:
		return models.StatusCompleted
	}
	return models.StatusPending
}

// Sorted returns the groups oldest first, order id breaking ties
func Sorted(groups map[uint]*OrderGroup) []*OrderGroup {
	out := make([]*OrderGroup, 0, len(groups))
	for _, g := range groups {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].OldestAt.Equal(out[j].OldestAt) {
			return out[i].OldestAt.Before(out[j].OldestAt)
		}
		return out[i].OrderID < out[j].OrderID
	})
	return out
}

// Board holds the latest grouped view of a screen. Apply always rebuilds
// from the full item list; nothing is carried over between fetches.
type Board struct {
	mu        sync.RWMutex
	groups    map[uint]*OrderGroup
	updatedAt time.Time
}

func NewBoard() *Board {
	return &Board{groups: map[uint]*OrderGroup{}}
}

func (b *Board) Apply(items []models.KitchenOrderItem) {
	groups := GroupKitchenItems(items)
	b.mu.Lock()
	b.groups = groups
	b.updatedAt = time.Now()
	b.mu.Unlock()
}

// Groups returns the current cards oldest first
func (b *Board) Groups() []*OrderGroup {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return Sorted(b.groups)
}

// WithStatus filters the current cards by derived status
func (b *Board) WithStatus(status models.OrderStatus) []*OrderGroup {
	var out []*OrderGroup
	for _, g := range b.Groups() {
		if g.Status == status {
			out = append(out, g)
		}
	}
	return out
}

func (b *Board) Get(orderID uint) (*OrderGroup, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	g, ok := b.groups[orderID]
	return g, ok
}

func (b *Board) UpdatedAt() time.Time {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.updatedAt
}

// OrderStatusFor derives the status of a full order from its own lines.
// Lines that all agree (every one served, say) give that status; otherwise
// DeriveStatus decides.
func OrderStatusFor(o models.Order) models.OrderStatus {
	if len(o.Items) == 0 {
		return statemachine.NormalizeStatus(o.Status)
	}
	statuses := make([]models.OrderStatus, len(o.Items))
	same := true
	for i, it := range o.Items {
		statuses[i] = statemachine.NormalizeStatus(it.Status)
		if statuses[i] != statuses[0] {
			same = false
		}
	}
	if same {
		return statuses[0]
	}
	return DeriveStatus(statuses)
}
