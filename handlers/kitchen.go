package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Sam414141/Digital-MenuCard-sub001/live"
	"github.com/Sam414141/Digital-MenuCard-sub001/middleware"
	"github.com/Sam414141/Digital-MenuCard-sub001/models"
	"github.com/Sam414141/Digital-MenuCard-sub001/statemachine"
)

// kitchenItems flattens order lines in the given statuses into the record
// the kitchen and waiter boards consume.
func (h *Handler) kitchenItems(statuses ...models.OrderStatus) []models.KitchenOrderItem {
	out := []models.KitchenOrderItem{}
	h.DB.Table("order_items").
		Select(`order_items.id, order_items.order_id, orders.table_number, orders.customer_name,
			order_items.name AS item_name, order_items.quantity, order_items.customization,
			order_items.status, order_items.created_at`).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("order_items.status IN ?", statuses).
		Order("order_items.created_at, order_items.id").
		Scan(&out)
	return out
}

// KitchenOrders returns every line still waiting on the kitchen
func (h *Handler) KitchenOrders(c *gin.Context) {
	items := h.kitchenItems(models.StatusPending, models.StatusPreparing, models.StatusPrepared)

	// dashboard summary
	summary := map[models.OrderStatus]int{}
	for _, it := range items {
		summary[it.Status]++
	}
	c.JSON(http.StatusOK, gin.H{"count": len(items), "item_summary": summary, "orders": items})
}

// UpdateItemStatus moves one order line through the kitchen and rolls the
// change up into its order.
func (h *Handler) UpdateItemStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var item models.OrderItem
	if err := h.DB.First(&item, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order item not found"})
		return
	}
	to := statemachine.NormalizeStatus(req.Status)
	if err := canAct(middleware.GetRole(c), item.Status, to); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":             "Invalid state transition",
			"current_status":    item.Status,
			"requested":         to,
			"reason":            err.Error(),
			"valid_next_states": statemachine.ValidTransitionsFrom(item.Status),
		})
		return
	}
	h.DB.Model(&item).Update("status", to)

	order, err := h.rollUp(item.OrderID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order"})
		return
	}
	h.publish(live.Event{Type: live.EventItemStatus, OrderID: order.ID, ItemID: item.ID, TableNumber: order.TableNumber, Status: to})

	c.JSON(http.StatusOK, models.KitchenOrderItem{
		ID:            item.ID,
		OrderID:       order.ID,
		TableNumber:   order.TableNumber,
		CustomerName:  order.CustomerName,
		ItemName:      item.Name,
		Quantity:      item.Quantity,
		Customization: item.Customization,
		Status:        to,
		CreatedAt:     item.CreatedAt,
	})
}
