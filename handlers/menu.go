package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Sam414141/Digital-MenuCard-sub001/models"
)

type menuItemRequest struct {
	Name        string   `json:"name" binding:"required,min=2"`
	Description string   `json:"description"`
	Price       float64  `json:"price" binding:"required,gt=0"`
	Category    string   `json:"category" binding:"required"`
	IsAvailable *bool    `json:"is_available"`
	Allergens   []string `json:"allergens"`
	DietaryTags []string `json:"dietary_tags"`
	ImageURL    string   `json:"image_url"`
}

func (r menuItemRequest) apply(item *models.MenuItem) {
	item.Name = r.Name
	item.Description = r.Description
	item.Price = r.Price
	item.Category = r.Category
	item.Allergens = r.Allergens
	item.DietaryTags = r.DietaryTags
	item.ImageURL = r.ImageURL
	if r.IsAvailable != nil {
		item.IsAvailable = *r.IsAvailable
	}
}

// ListMenu returns menu items (public)
func (h *Handler) ListMenu(c *gin.Context) {
	var items []models.MenuItem
	query := h.DB.Order("category, name")

	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if search := c.Query("search"); search != "" {
		query = query.Where("name LIKE ? OR description LIKE ?", "%"+search+"%", "%"+search+"%")
	}
	if c.Query("available") == "true" {
		query = query.Where("is_available = ?", true)
	}
	query.Find(&items)

	c.JSON(http.StatusOK, gin.H{"count": len(items), "menu_items": items})
}

// MenuCategories lists distinct categories in use
func (h *Handler) MenuCategories(c *gin.Context) {
	var categories []string
	h.DB.Model(&models.MenuItem{}).Distinct().Order("category").Pluck("category", &categories)
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

func (h *Handler) GetMenuItem(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var item models.MenuItem
	if err := h.DB.First(&item, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Menu item not found"})
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *Handler) CreateMenuItem(c *gin.Context) {
	var req menuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	item := models.MenuItem{IsAvailable: true}
	req.apply(&item)
	if err := h.DB.Create(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create menu item"})
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *Handler) UpdateMenuItem(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var item models.MenuItem
	if err := h.DB.First(&item, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Menu item not found"})
		return
	}
	var req menuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	req.apply(&item)
	if err := h.DB.Save(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update menu item"})
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *Handler) DeleteMenuItem(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	res := h.DB.Delete(&models.MenuItem{}, id)
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Menu item not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Menu item deleted"})
}

// SetAvailability toggles whether an item can be ordered
func (h *Handler) SetAvailability(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req struct {
		IsAvailable *bool `json:"is_available" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var item models.MenuItem
	if err := h.DB.First(&item, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Menu item not found"})
		return
	}
	h.DB.Model(&item).Update("is_available", *req.IsAvailable)
	c.JSON(http.StatusOK, item)
}
