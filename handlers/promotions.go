package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/Sam414141/Digital-MenuCard-sub001/models"
	"github.com/Sam414141/Digital-MenuCard-sub001/promo"
)

type promotionRequest struct {
	Code          string              `json:"code" binding:"required,min=3,max=32"`
	Name          string              `json:"name" binding:"required"`
	Description   string              `json:"description"`
	DiscountType  models.DiscountType `json:"discount_type" binding:"required,oneof=percentage fixed_amount buy_get"`
	Value         float64             `json:"value" binding:"gte=0"`
	BuyQuantity   int                 `json:"buy_quantity"`
	GetQuantity   int                 `json:"get_quantity"`
	MenuItemID    *uint               `json:"menu_item_id"`
	StartsAt      time.Time           `json:"starts_at"`
	EndsAt        time.Time           `json:"ends_at"`
	UsageLimit    int                 `json:"usage_limit" binding:"gte=0"`
	MinOrderValue float64             `json:"min_order_value" binding:"gte=0"`
	IsActive      bool                `json:"is_active"`
}

func (r promotionRequest) apply(p *models.Promotion) {
	p.Code = strings.ToUpper(strings.TrimSpace(r.Code))
	p.Name = r.Name
	p.Description = r.Description
	p.DiscountType = r.DiscountType
	p.Value = r.Value
	p.BuyQuantity = r.BuyQuantity
	p.GetQuantity = r.GetQuantity
	p.MenuItemID = r.MenuItemID
	p.StartsAt = r.StartsAt
	p.EndsAt = r.EndsAt
	p.UsageLimit = r.UsageLimit
	p.MinOrderValue = r.MinOrderValue
	p.IsActive = r.IsActive
}

func (h *Handler) ListPromotions(c *gin.Context) {
	var promos []models.Promotion
	h.DB.Order("created_at desc").Find(&promos)
	c.JSON(http.StatusOK, gin.H{"count": len(promos), "promotions": promos})
}

// ActivePromotions lists promotions usable right now (public)
func (h *Handler) ActivePromotions(c *gin.Context) {
	var all []models.Promotion
	h.DB.Where("is_active = ?", true).Find(&all)
	now := time.Now()
	active := []models.Promotion{}
	for _, p := range all {
		// order total is unknown here, so the minimum is not checked
		p2 := p
		p2.MinOrderValue = 0
		if ok, _ := promo.Applicable(p2, decimal.Zero, now); ok {
			active = append(active, p)
		}
	}
	c.JSON(http.StatusOK, gin.H{"count": len(active), "promotions": active})
}

func (h *Handler) CreatePromotion(c *gin.Context) {
	var req promotionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var p models.Promotion
	req.apply(&p)
	var count int64
	h.DB.Model(&models.Promotion{}).Where("code = ?", p.Code).Count(&count)
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Promotion code already exists"})
		return
	}
	if err := h.DB.Create(&p).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create promotion"})
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *Handler) UpdatePromotion(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var p models.Promotion
	if err := h.DB.First(&p, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Promotion not found"})
		return
	}
	var req promotionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	req.apply(&p)
	if err := h.DB.Save(&p).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update promotion"})
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) DeletePromotion(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if res := h.DB.Delete(&models.Promotion{}, id); res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Promotion not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Promotion deleted"})
}

// ValidatePromotion is the authoritative check of a code against an order
// total. A code that exists but cannot apply is a 200 with valid=false.
func (h *Handler) ValidatePromotion(c *gin.Context) {
	var req struct {
		Code       string  `json:"code" binding:"required"`
		OrderTotal float64 `json:"order_total" binding:"gte=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var p models.Promotion
	if err := h.DB.Where("code = ?", strings.ToUpper(strings.TrimSpace(req.Code))).First(&p).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Promotion code not found"})
		return
	}
	total := decimal.NewFromFloat(req.OrderTotal)
	if ok, reason := promo.Applicable(p, total, time.Now()); !ok {
		c.JSON(http.StatusOK, models.PromotionValidation{Valid: false, Message: reason, Promotion: &p})
		return
	}
	res := promo.Savings(p, total, nil)
	c.JSON(http.StatusOK, models.PromotionValidation{
		Valid:          true,
		Message:        "Promotion applied",
		Promotion:      &p,
		DiscountAmount: res.Savings.InexactFloat64(),
	})
}
