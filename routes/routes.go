package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/Sam414141/Digital-MenuCard-sub001/handlers"
	"github.com/Sam414141/Digital-MenuCard-sub001/middleware"
	"github.com/Sam414141/Digital-MenuCard-sub001/models"
)

func SetupRoutes(r *gin.Engine, h *handlers.Handler) {
	authed := middleware.AuthRequired(h.Secret)
	adminOnly := middleware.RoleRequired(models.RoleAdmin)
	kitchen := middleware.RoleRequired(models.RoleKitchenStaff, models.RoleAdmin)
	staff := middleware.RoleRequired(models.RoleKitchenStaff, models.RoleWaiter, models.RoleAdmin)

	// ── Public routes ──────────────────────────────────────────────
	public := r.Group("/api")
	{
		public.POST("/auth/register", h.Register)
		public.POST("/auth/login", h.Login)
		public.GET("/auth/check-email", h.CheckEmail)

		public.GET("/menu", h.ListMenu)
		public.GET("/menu/categories", h.MenuCategories)
		public.GET("/menu/:id", h.GetMenuItem)

		public.GET("/promotions/active", h.ActivePromotions)
		public.POST("/promotions/validate", h.ValidatePromotion)

		public.POST("/contact", h.SendContact)

		public.GET("/state-machine", handlers.GetStateMachineInfo)
	}

	// ── Any signed-in user ─────────────────────────────────────────
	auth := r.Group("/api")
	auth.Use(authed)
	{
		auth.GET("/auth/verify", h.Verify)
		auth.GET("/auth/me", h.Me)
		auth.POST("/auth/logout", h.Logout)

		auth.GET("/users/:id", h.GetUser)
		auth.PUT("/users/:id", h.UpdateUser)
		auth.PUT("/users/:id/preferences", h.UpdatePreferences)

		auth.GET("/favorites", h.ListFavorites)
		auth.POST("/favorites", h.AddFavorite)
		auth.DELETE("/favorites/:id", h.RemoveFavorite)

		auth.POST("/orders", h.PlaceOrder)
		auth.GET("/orders", h.ListOrders)
		auth.GET("/orders/history", h.OrderHistory)
		auth.GET("/orders/:id", h.GetOrder)
		auth.PUT("/orders/:id/cancel", h.CancelOrder)
		auth.PUT("/orders/:id/status", staff, h.UpdateOrderStatus)

		auth.POST("/feedback", h.SubmitFeedback)

		auth.POST("/video/sessions", h.CreateVideoSession)
		auth.POST("/video/sessions/:id/join", h.JoinVideoSession)
		auth.POST("/video/sessions/:id/signal", h.SignalVideoSession)
		auth.DELETE("/video/sessions/:id", h.EndVideoSession)

		auth.PATCH("/menu/:id/availability", kitchen, h.SetAvailability)
	}

	// ── Kitchen routes ─────────────────────────────────────────────
	kitchenGroup := r.Group("/api/kitchen")
	kitchenGroup.Use(authed, kitchen)
	{
		kitchenGroup.GET("/orders", h.KitchenOrders)
		kitchenGroup.PUT("/items/:id/status", h.UpdateItemStatus)
	}

	// ── Waiter routes ──────────────────────────────────────────────
	waiter := r.Group("/api/waiter")
	waiter.Use(authed, middleware.RoleRequired(models.RoleWaiter, models.RoleAdmin))
	{
		waiter.GET("/orders", h.WaiterOrders)
		waiter.PUT("/orders/:id/serve", h.ServeOrder)
		waiter.GET("/tables", h.WaiterTables)
	}

	// ── Admin routes ───────────────────────────────────────────────
	admin := r.Group("/api")
	admin.Use(authed, adminOnly)
	{
		admin.GET("/admin/users", h.AdminGetAllUsers)
		admin.PUT("/admin/users/:id/role", h.AdminUpdateRole)
		admin.DELETE("/admin/users/:id", h.AdminDeleteUser)
		admin.GET("/admin/dashboard", h.AdminDashboard)

		admin.POST("/menu", h.CreateMenuItem)
		admin.PUT("/menu/:id", h.UpdateMenuItem)
		admin.DELETE("/menu/:id", h.DeleteMenuItem)

		admin.GET("/promotions", h.ListPromotions)
		admin.POST("/promotions", h.CreatePromotion)
		admin.PUT("/promotions/:id", h.UpdatePromotion)
		admin.DELETE("/promotions/:id", h.DeletePromotion)

		admin.GET("/inventory", h.ListInventory)
		admin.GET("/inventory/low-stock", h.LowStock)
		admin.POST("/inventory", h.CreateInventoryItem)
		admin.PUT("/inventory/:id", h.UpdateInventoryItem)
		admin.DELETE("/inventory/:id", h.DeleteInventoryItem)
		admin.POST("/inventory/:id/restock", h.Restock)

		admin.GET("/analytics/summary", h.AnalyticsSummary)
		admin.GET("/analytics/popular-items", h.AnalyticsPopularItems)
		admin.GET("/analytics/revenue", h.AnalyticsRevenue)

		admin.GET("/reports/sales", h.SalesReport)
		admin.GET("/reports/inventory", h.InventoryReport)

		admin.GET("/feedback", h.ListFeedback)
	}
}
