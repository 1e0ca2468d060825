package handlers

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"github.com/Sam414141/Digital-MenuCard-sub001/middleware"
	"github.com/Sam414141/Digital-MenuCard-sub001/models"
	"github.com/Sam414141/Digital-MenuCard-sub001/statemachine"
)

// WaiterOrders returns lines that are ready to take to a table
func (h *Handler) WaiterOrders(c *gin.Context) {
	items := h.kitchenItems(models.StatusPrepared)
	c.JSON(http.StatusOK, gin.H{"count": len(items), "orders": items})
}

// ServeOrder marks every prepared line of an order as served
func (h *Handler) ServeOrder(c *gin.Context) {
	order, ok := h.loadOrder(c)
	if !ok {
		return
	}
	role := middleware.GetRole(c)

	served := 0
	for i := range order.Items {
		it := &order.Items[i]
		if statemachine.NormalizeStatus(it.Status) != models.StatusPrepared {
			continue
		}
		if err := canAct(role, it.Status, models.StatusServed); err != nil {
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
			return
		}
		h.DB.Model(it).Update("status", models.StatusServed)
		it.Status = models.StatusServed
		served++
	}
	if served == 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":          "Nothing to serve",
			"current_status": order.Status,
		})
		return
	}
	updated, err := h.rollUp(order.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order"})
		return
	}
	c.JSON(http.StatusOK, updated)
}

// WaiterTables summarizes open orders per table
func (h *Handler) WaiterTables(c *gin.Context) {
	var orders []models.Order
	h.DB.Preload("Items").
		Where("status NOT IN ?", []models.OrderStatus{models.StatusCompleted, models.StatusCancelled}).
		Find(&orders)

	byTable := map[int]*models.TableStatus{}
	for _, o := range orders {
		t, ok := byTable[o.TableNumber]
		if !ok {
			t = &models.TableStatus{TableNumber: o.TableNumber, Status: o.Status}
			byTable[o.TableNumber] = t
		}
		t.ActiveOrders++
		for _, it := range o.Items {
			if statemachine.NormalizeStatus(it.Status) == models.StatusPrepared {
				t.ReadyItems++
			}
		}
		if t.ReadyItems > 0 {
			t.Status = models.StatusPrepared
		}
	}
	tables := make([]models.TableStatus, 0, len(byTable))
	for _, t := range byTable {
		tables = append(tables, *t)
	}
	sort.Slice(tables, func(i, j int) bool { return tables[i].TableNumber < tables[j].TableNumber })
	c.JSON(http.StatusOK, gin.H{"count": len(tables), "tables": tables})
}
