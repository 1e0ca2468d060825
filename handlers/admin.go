package handlers

import (
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Sam414141/Digital-MenuCard-sub001/middleware"
	"github.com/Sam414141/Digital-MenuCard-sub001/models"
)

// AdminGetAllUsers returns all users, optionally by role
func (h *Handler) AdminGetAllUsers(c *gin.Context) {
	var users []models.User
	query := h.DB.Order("id")
	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}
	query.Find(&users)
	c.JSON(http.StatusOK, gin.H{"count": len(users), "users": users})
}

// AdminUpdateRole promotes or demotes a user
func (h *Handler) AdminUpdateRole(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Role models.UserRole `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !req.Role.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role. Must be: customer, waiter, kitchen_staff, or admin"})
		return
	}
	if id == middleware.GetUserID(c) && req.Role != models.RoleAdmin {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Admins cannot demote themselves"})
		return
	}
	var user models.User
	if err := h.DB.First(&user, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	h.DB.Model(&user).Update("role", req.Role)
	user.Role = req.Role
	c.JSON(http.StatusOK, user)
}

func (h *Handler) AdminDeleteUser(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if id == middleware.GetUserID(c) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Admins cannot delete themselves"})
		return
	}
	if res := h.DB.Delete(&models.User{}, id); res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}

// AdminDashboard is the back-office landing summary
func (h *Handler) AdminDashboard(c *gin.Context) {
	var d models.AdminDashboard
	var n int64
	h.DB.Model(&models.User{}).Count(&n)
	d.Users = int(n)
	h.DB.Model(&models.MenuItem{}).Count(&n)
	d.MenuItems = int(n)
	h.DB.Model(&models.Order{}).Where("status NOT IN ?", []models.OrderStatus{models.StatusCompleted, models.StatusCancelled}).Count(&n)
	d.ActiveOrders = int(n)
	h.DB.Model(&models.InventoryItem{}).Where("quantity <= reorder_level").Count(&n)
	d.LowStockItems = int(n)
	h.DB.Model(&models.Promotion{}).Where("is_active = ?", true).Count(&n)
	d.ActivePromos = int(n)
	h.DB.Model(&models.Feedback{}).Count(&n)
	d.PendingReviews = int(n)

	y, m, day := time.Now().Date()
	for _, o := range h.ordersSince(time.Date(y, m, day, 0, 0, 0, 0, time.Local)) {
		d.TodayRevenue += o.TotalPrice
	}
	c.JSON(http.StatusOK, d)
}

// ordersSince loads non-cancelled orders created at or after since
func (h *Handler) ordersSince(since time.Time) []models.Order {
	var orders []models.Order
	query := h.DB.Preload("Items").Where("status <> ?", models.StatusCancelled)
	if !since.IsZero() {
		query = query.Where("created_at >= ?", since)
	}
	query.Order("created_at").Find(&orders)
	return orders
}

func periodStart(period string) time.Time {
	now := time.Now()
	switch period {
	case "today":
		y, m, d := now.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	case "week":
		return now.AddDate(0, 0, -7)
	case "month":
		return now.AddDate(0, -1, 0)
	case "year":
		return now.AddDate(-1, 0, 0)
	}
	return time.Time{}
}

func popularItems(orders []models.Order, limit int) []models.PopularItem {
	byItem := map[uint]*models.PopularItem{}
	for _, o := range orders {
		for _, it := range o.Items {
			p, ok := byItem[it.MenuItemID]
			if !ok {
				p = &models.PopularItem{MenuItemID: it.MenuItemID, Name: it.Name}
				byItem[it.MenuItemID] = p
			}
			p.Quantity += it.Quantity
			p.Revenue += it.Price * float64(it.Quantity)
		}
	}
	out := make([]models.PopularItem, 0, len(byItem))
	for _, p := range byItem {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Quantity != out[j].Quantity {
			return out[i].Quantity > out[j].Quantity
		}
		return out[i].MenuItemID < out[j].MenuItemID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func dailyRevenue(orders []models.Order) []models.RevenuePoint {
	var out []models.RevenuePoint
	idx := map[string]int{}
	for _, o := range orders {
		day := o.CreatedAt.Format(time.DateOnly)
		i, ok := idx[day]
		if !ok {
			i = len(out)
			idx[day] = i
			out = append(out, models.RevenuePoint{Date: day})
		}
		out[i].Orders++
		out[i].Revenue += o.TotalPrice
	}
	return out
}

func (h *Handler) AnalyticsSummary(c *gin.Context) {
	var orders []models.Order
	if period := c.Query("period"); period != "" {
		orders = h.ordersSince(periodStart(period))
	} else {
		orders = h.ordersSince(time.Time{})
	}
	s := models.AnalyticsSummary{OrdersByStatus: map[models.OrderStatus]int{}}
	for _, o := range orders {
		s.TotalOrders++
		s.TotalRevenue += o.TotalPrice
		s.OrdersByStatus[o.Status]++
	}
	if s.TotalOrders > 0 {
		s.AverageOrder = s.TotalRevenue / float64(s.TotalOrders)
	}
	s.PopularItems = popularItems(orders, 5)
	c.JSON(http.StatusOK, s)
}

func (h *Handler) AnalyticsPopularItems(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	items := popularItems(h.ordersSince(periodStart(c.Query("period"))), limit)
	c.JSON(http.StatusOK, gin.H{"count": len(items), "items": items})
}

func (h *Handler) AnalyticsRevenue(c *gin.Context) {
	points := dailyRevenue(h.ordersSince(periodStart(c.DefaultQuery("period", "month"))))
	c.JSON(http.StatusOK, gin.H{"count": len(points), "revenue": points})
}

func (h *Handler) SalesReport(c *gin.Context) {
	var from, to time.Time
	if s := c.Query("from"); s != "" {
		t, err := time.ParseInLocation(time.DateOnly, s, time.Local)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "from must be YYYY-MM-DD"})
			return
		}
		from = t
	}
	if s := c.Query("to"); s != "" {
		t, err := time.ParseInLocation(time.DateOnly, s, time.Local)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "to must be YYYY-MM-DD"})
			return
		}
		to = t.AddDate(0, 0, 1)
	}

	orders := filterBefore(h.ordersSince(from), to)
	r := models.SalesReport{From: from, To: to, Daily: dailyRevenue(orders)}
	for _, o := range orders {
		r.Orders++
		r.Net += o.TotalPrice
		r.Discounts += o.DiscountAmount
	}
	r.Gross = r.Net + r.Discounts
	c.JSON(http.StatusOK, r)
}

func filterBefore(orders []models.Order, to time.Time) []models.Order {
	if to.IsZero() {
		return orders
	}
	out := orders[:0]
	for _, o := range orders {
		if o.CreatedAt.Before(to) {
			out = append(out, o)
		}
	}
	return out
}

func (h *Handler) InventoryReport(c *gin.Context) {
	var r models.InventoryReport
	h.DB.Order("ingredient_name").Find(&r.Items)
	r.LowStock = []models.InventoryItem{}
	for _, it := range r.Items {
		if it.NeedsReorder() {
			r.LowStock = append(r.LowStock, it)
		}
	}
	r.TotalItems = len(r.Items)
	c.JSON(http.StatusOK, r)
}
