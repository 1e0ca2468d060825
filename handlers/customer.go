package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Sam414141/Digital-MenuCard-sub001/live"
	"github.com/Sam414141/Digital-MenuCard-sub001/middleware"
	"github.com/Sam414141/Digital-MenuCard-sub001/models"
	"github.com/Sam414141/Digital-MenuCard-sub001/orderview"
	"github.com/Sam414141/Digital-MenuCard-sub001/promo"
	"github.com/Sam414141/Digital-MenuCard-sub001/statemachine"
)

type PlaceOrderRequest struct {
	TableNumber int `json:"table_number" binding:"required,min=1"`
	Items       []struct {
		MenuItemID    uint   `json:"menu_item_id" binding:"required"`
		Quantity      int    `json:"quantity" binding:"required,min=1"`
		Customization string `json:"customization"`
	} `json:"items" binding:"required,min=1,dive"`
	PromotionCode string `json:"promotion_code"`
	Notes         string `json:"notes"`
}

// PlaceOrder creates a dine-in order for the caller
func (h *Handler) PlaceOrder(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var customer models.User
	if err := h.DB.First(&customer, userID).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User no longer exists"})
		return
	}

	// Build order items and calculate total
	var orderItems []models.OrderItem
	for _, reqItem := range req.Items {
		var menuItem models.MenuItem
		if err := h.DB.First(&menuItem, reqItem.MenuItemID).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Menu item not found: %d", reqItem.MenuItemID)})
			return
		}
		if !menuItem.IsAvailable {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Menu item '" + menuItem.Name + "' is not available"})
			return
		}
		orderItems = append(orderItems, models.OrderItem{
			MenuItemID:    menuItem.ID,
			Name:          menuItem.Name,
			Price:         menuItem.Price,
			Quantity:      reqItem.Quantity,
			Customization: reqItem.Customization,
			Status:        models.StatusPending,
		})
	}
	lines := promo.LinesFrom(orderItems)
	total := promo.Total(lines)

	order := models.Order{
		TableNumber:  req.TableNumber,
		CustomerID:   customer.ID,
		CustomerName: customer.Name,
		Status:       models.StatusPending,
		Notes:        req.Notes,
		Items:        orderItems,
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		discount := decimal.Zero
		if code := strings.ToUpper(strings.TrimSpace(req.PromotionCode)); code != "" {
			var p models.Promotion
			if err := tx.Where("code = ?", code).First(&p).Error; err != nil {
				return errBadPromo("Promotion code not found")
			}
			if ok, reason := promo.Applicable(p, total, time.Now()); !ok {
				return errBadPromo(reason)
			}
			discount = promo.Savings(p, total, lines).Savings
			order.PromotionCode = p.Code
			if err := tx.Model(&p).Update("usage_count", gorm.Expr("usage_count + 1")).Error; err != nil {
				return err
			}
		}
		order.DiscountAmount = discount.InexactFloat64()
		order.TotalPrice = total.Sub(discount).Round(2).InexactFloat64()
		return tx.Create(&order).Error
	})
	var bad errBadPromo
	if errors.As(err, &bad) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": string(bad)})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to place order"})
		return
	}

	h.publish(live.Event{Type: live.EventOrderCreated, OrderID: order.ID, TableNumber: order.TableNumber, Status: order.Status})
	c.JSON(http.StatusCreated, order)
}

type errBadPromo string

func (e errBadPromo) Error() string { return string(e) }

// ListOrders returns the caller's orders; staff see every order
func (h *Handler) ListOrders(c *gin.Context) {
	var orders []models.Order
	query := h.DB.Preload("Items").Order("created_at desc")
	if !middleware.GetRole(c).IsStaff() {
		query = query.Where("customer_id = ?", middleware.GetUserID(c))
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", statemachine.NormalizeStatus(models.OrderStatus(status)))
	}
	if table := c.Query("table"); table != "" {
		query = query.Where("table_number = ?", table)
	}
	query.Find(&orders)
	c.JSON(http.StatusOK, gin.H{"count": len(orders), "orders": orders})
}

// OrderHistory returns the caller's finished orders
func (h *Handler) OrderHistory(c *gin.Context) {
	var orders []models.Order
	h.DB.Preload("Items").
		Where("customer_id = ?", middleware.GetUserID(c)).
		Order("created_at desc").
		Find(&orders)
	c.JSON(http.StatusOK, gin.H{"count": len(orders), "orders": orders})
}

// loadOrder fetches an order the caller may see: their own, or any for staff
func (h *Handler) loadOrder(c *gin.Context) (*models.Order, bool) {
	id, ok := paramID(c, "id")
	if !ok {
		return nil, false
	}
	var order models.Order
	if err := h.DB.Preload("Items").First(&order, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return nil, false
	}
	if order.CustomerID != middleware.GetUserID(c) && !middleware.GetRole(c).IsStaff() {
		c.JSON(http.StatusForbidden, gin.H{"error": "This order does not belong to you"})
		return nil, false
	}
	return &order, true
}

func (h *Handler) GetOrder(c *gin.Context) {
	order, ok := h.loadOrder(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, order)
}

// CancelOrder cancels an order nobody has started on yet
func (h *Handler) CancelOrder(c *gin.Context) {
	order, ok := h.loadOrder(c)
	if !ok {
		return
	}
	actor := statemachine.ActorFor(middleware.GetRole(c))
	if actor != statemachine.ActorAdmin {
		actor = statemachine.ActorCustomer
	}
	if err := statemachine.CanTransition(order.Status, models.StatusCancelled, actor); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":         "Cannot cancel order",
			"reason":        err.Error(),
			"current_state": order.Status,
		})
		return
	}
	h.setOrderStatus(order, models.StatusCancelled, true)
	c.JSON(http.StatusOK, order)
}

type UpdateOrderStatusRequest struct {
	Status models.OrderStatus `json:"status" binding:"required"`
}

// UpdateOrderStatus moves a whole order and all its open lines
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	order, ok := h.loadOrder(c)
	if !ok {
		return
	}
	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	to := statemachine.NormalizeStatus(req.Status)
	if err := canAct(middleware.GetRole(c), order.Status, to); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":             "Invalid state transition",
			"current_status":    order.Status,
			"requested":         to,
			"reason":            err.Error(),
			"valid_next_states": statemachine.ValidTransitionsFrom(order.Status),
		})
		return
	}
	h.setOrderStatus(order, to, true)
	c.JSON(http.StatusOK, order)
}

// canAct checks a transition for a role; admins may act as any staff member
func canAct(role models.UserRole, from, to models.OrderStatus) error {
	err := statemachine.CanTransition(from, to, statemachine.ActorFor(role))
	if err == nil || role != models.RoleAdmin {
		return err
	}
	for _, a := range []statemachine.Actor{statemachine.ActorKitchen, statemachine.ActorWaiter} {
		if statemachine.CanTransition(from, to, a) == nil {
			return nil
		}
	}
	return err
}

// setOrderStatus writes the order status and, with lines set, moves every
// line that is not already terminal along with it.
func (h *Handler) setOrderStatus(order *models.Order, to models.OrderStatus, lines bool) {
	h.DB.Model(order).Update("status", to)
	if lines {
		h.DB.Model(&models.OrderItem{}).
			Where("order_id = ? AND status NOT IN ?", order.ID, []models.OrderStatus{models.StatusCompleted, models.StatusCancelled}).
			Update("status", to)
		for i := range order.Items {
			if !order.Items[i].Status.IsTerminal() {
				order.Items[i].Status = to
			}
		}
	}
	order.Status = to
	h.publish(live.Event{Type: live.EventOrderStatus, OrderID: order.ID, TableNumber: order.TableNumber, Status: to})
}

// rollUp recomputes an order's status from its lines after one changed
func (h *Handler) rollUp(orderID uint) (*models.Order, error) {
	var order models.Order
	if err := h.DB.Preload("Items").First(&order, orderID).Error; err != nil {
		return nil, err
	}
	derived := orderview.OrderStatusFor(order)
	if derived != order.Status {
		h.setOrderStatus(&order, derived, false)
	}
	return &order, nil
}
