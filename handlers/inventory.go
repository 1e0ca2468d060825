package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Sam414141/Digital-MenuCard-sub001/models"
)

type inventoryRequest struct {
	IngredientName  string  `json:"ingredient_name" binding:"required"`
	Quantity        float64 `json:"quantity" binding:"gte=0"`
	Unit            string  `json:"unit" binding:"required"`
	ReorderLevel    float64 `json:"reorder_level" binding:"gte=0"`
	SupplierName    string  `json:"supplier_name"`
	SupplierContact string  `json:"supplier_contact"`
}

func (r inventoryRequest) apply(i *models.InventoryItem) {
	i.IngredientName = r.IngredientName
	i.Quantity = r.Quantity
	i.Unit = r.Unit
	i.ReorderLevel = r.ReorderLevel
	i.SupplierName = r.SupplierName
	i.SupplierContact = r.SupplierContact
}

func (h *Handler) ListInventory(c *gin.Context) {
	var items []models.InventoryItem
	h.DB.Order("ingredient_name").Find(&items)
	c.JSON(http.StatusOK, gin.H{"count": len(items), "inventory": items})
}

func (h *Handler) LowStock(c *gin.Context) {
	var items []models.InventoryItem
	h.DB.Where("quantity <= reorder_level").Order("ingredient_name").Find(&items)
	c.JSON(http.StatusOK, gin.H{"count": len(items), "inventory": items})
}

func (h *Handler) CreateInventoryItem(c *gin.Context) {
	var req inventoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var item models.InventoryItem
	req.apply(&item)
	if err := h.DB.Create(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create inventory item"})
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *Handler) UpdateInventoryItem(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var item models.InventoryItem
	if err := h.DB.First(&item, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Inventory item not found"})
		return
	}
	var req inventoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	req.apply(&item)
	h.DB.Save(&item)
	c.JSON(http.StatusOK, item)
}

func (h *Handler) DeleteInventoryItem(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if res := h.DB.Delete(&models.InventoryItem{}, id); res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Inventory item not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Inventory item deleted"})
}

func (h *Handler) Restock(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Quantity float64 `json:"quantity" binding:"required,gt=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var item models.InventoryItem
	if err := h.DB.First(&item, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Inventory item not found"})
		return
	}
	h.DB.Model(&item).Update("quantity", gorm.Expr("quantity + ?", req.Quantity))
	h.DB.First(&item, id)
	c.JSON(http.StatusOK, item)
}
