package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/Sam414141/Digital-MenuCard-sub001/middleware"
	"github.com/Sam414141/Digital-MenuCard-sub001/models"
)

// Register creates a customer account. Staff accounts are promoted by an admin.
func (h *Handler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	// Check email uniqueness
	var existing models.User
	if result := h.DB.Where("email = ?", req.Email).First(&existing); result.Error == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	user := models.User{
		Name:                req.Name,
		Email:               req.Email,
		PasswordHash:        string(hash),
		Role:                models.RoleCustomer,
		Phone:               req.Phone,
		DietaryRestrictions: req.DietaryRestrictions,
	}
	if err := h.DB.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}
	h.respondWithToken(c, http.StatusCreated, "Account created successfully", &user)
}

// Login authenticates a user and returns a JWT
func (h *Handler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := h.DB.Where("email = ?", strings.ToLower(strings.TrimSpace(req.Email))).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}
	h.respondWithToken(c, http.StatusOK, "Login successful", &user)
}

// Verify confirms the caller's token and hands back a fresh one
func (h *Handler) Verify(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	h.respondWithToken(c, http.StatusOK, "Token valid", user)
}

// Logout is stateless: tokens simply expire
func (h *Handler) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// Me returns the authenticated user's profile
func (h *Handler) Me(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, user)
}

// CheckEmail reports whether an address is free to register
func (h *Handler) CheckEmail(c *gin.Context) {
	email := strings.ToLower(strings.TrimSpace(c.Query("email")))
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email query parameter required"})
		return
	}
	var count int64
	h.DB.Model(&models.User{}).Where("email = ?", email).Count(&count)
	c.JSON(http.StatusOK, gin.H{"email": email, "available": count == 0})
}

func (h *Handler) currentUser(c *gin.Context) (*models.User, bool) {
	var user models.User
	if err := h.DB.First(&user, middleware.GetUserID(c)).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User no longer exists"})
		return nil, false
	}
	return &user, true
}

func (h *Handler) respondWithToken(c *gin.Context, status int, msg string, user *models.User) {
	token, err := middleware.GenerateToken(h.Secret, user, h.TokenTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}
	c.JSON(status, models.AuthResponse{Message: msg, Token: token, User: *user})
}
