package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Sam414141/Digital-MenuCard-sub001/middleware"
	"github.com/Sam414141/Digital-MenuCard-sub001/models"
	"github.com/Sam414141/Digital-MenuCard-sub001/statemachine"
)

// selfOrAdmin loads the user named in the path if the caller is that user
// or an admin.
func (h *Handler) selfOrAdmin(c *gin.Context) (*models.User, bool) {
	id, ok := paramID(c, "id")
	if !ok {
		return nil, false
	}
	if id != middleware.GetUserID(c) && middleware.GetRole(c) != models.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only access your own profile"})
		return nil, false
	}
	var user models.User
	if err := h.DB.First(&user, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return nil, false
	}
	return &user, true
}

func (h *Handler) GetUser(c *gin.Context) {
	user, ok := h.selfOrAdmin(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *Handler) UpdateUser(c *gin.Context) {
	user, ok := h.selfOrAdmin(c)
	if !ok {
		return
	}
	var req struct {
		Name                string   `json:"name" binding:"omitempty,min=2"`
		Phone               string   `json:"phone" binding:"omitempty,min=7"`
		DietaryRestrictions []string `json:"dietary_restrictions"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Phone != "" {
		user.Phone = req.Phone
	}
	if req.DietaryRestrictions != nil {
		user.DietaryRestrictions = req.DietaryRestrictions
	}
	h.DB.Save(user)
	c.JSON(http.StatusOK, user)
}

func (h *Handler) UpdatePreferences(c *gin.Context) {
	user, ok := h.selfOrAdmin(c)
	if !ok {
		return
	}
	var prefs map[string]string
	if err := c.ShouldBindJSON(&prefs); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if user.Preferences == nil {
		user.Preferences = map[string]string{}
	}
	for k, v := range prefs {
		if v == "" {
			delete(user.Preferences, k)
			continue
		}
		user.Preferences[k] = v
	}
	h.DB.Save(user)
	c.JSON(http.StatusOK, user)
}

func (h *Handler) ListFavorites(c *gin.Context) {
	var favs []models.Favorite
	h.DB.Preload("MenuItem").Where("user_id = ?", middleware.GetUserID(c)).Order("created_at desc").Find(&favs)
	c.JSON(http.StatusOK, gin.H{"count": len(favs), "favorites": favs})
}

func (h *Handler) AddFavorite(c *gin.Context) {
	var req struct {
		MenuItemID uint `json:"menu_item_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var item models.MenuItem
	if err := h.DB.First(&item, req.MenuItemID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Menu item not found"})
		return
	}
	userID := middleware.GetUserID(c)
	fav := models.Favorite{UserID: userID, MenuItemID: item.ID}
	h.DB.Where(models.Favorite{UserID: userID, MenuItemID: item.ID}).FirstOrCreate(&fav)
	fav.MenuItem = &item
	c.JSON(http.StatusCreated, fav)
}

func (h *Handler) RemoveFavorite(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	res := h.DB.Where("id = ? AND user_id = ?", id, middleware.GetUserID(c)).Delete(&models.Favorite{})
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Favorite not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Favorite removed"})
}

func (h *Handler) SubmitFeedback(c *gin.Context) {
	var req struct {
		OrderID *uint  `json:"order_id"`
		Rating  int    `json:"rating" binding:"required,min=1,max=5"`
		Comment string `json:"comment" binding:"max=1000"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	fb := models.Feedback{UserID: middleware.GetUserID(c), OrderID: req.OrderID, Rating: req.Rating, Comment: req.Comment}
	if err := h.DB.Create(&fb).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save feedback"})
		return
	}
	c.JSON(http.StatusCreated, fb)
}

func (h *Handler) ListFeedback(c *gin.Context) {
	var list []models.Feedback
	h.DB.Order("created_at desc").Find(&list)
	c.JSON(http.StatusOK, gin.H{"count": len(list), "feedback": list})
}

func (h *Handler) SendContact(c *gin.Context) {
	var req struct {
		Name    string `json:"name" binding:"required"`
		Email   string `json:"email" binding:"required,email"`
		Subject string `json:"subject" binding:"required,max=120"`
		Message string `json:"message" binding:"required,min=10,max=2000"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	msg := models.ContactMessage{Name: req.Name, Email: req.Email, Subject: req.Subject, Message: req.Message}
	h.DB.Create(&msg)
	c.JSON(http.StatusCreated, gin.H{"message": "Thanks, we will get back to you soon", "id": msg.ID})
}

// GetStateMachineInfo returns the order line lifecycle for documentation
func GetStateMachineInfo(c *gin.Context) {
	transitions := statemachine.GetAllTransitions()
	info := make([]gin.H, len(transitions))
	for i, t := range transitions {
		info[i] = gin.H{"from": t.From, "to": t.To, "actor": t.Actor}
	}
	c.JSON(http.StatusOK, gin.H{
		"state_machine":   info,
		"terminal_states": []models.OrderStatus{models.StatusCompleted, models.StatusCancelled},
		"description":     "Dine-in order and order line lifecycle",
	})
}
