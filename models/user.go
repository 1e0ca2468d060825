package models

import (
	"time"
)

// UserRole defines allowed roles in the system
type UserRole string

const (
	RoleCustomer     UserRole = "customer"
	RoleWaiter       UserRole = "waiter"
	RoleKitchenStaff UserRole = "kitchen_staff"
	RoleAdmin        UserRole = "admin"
)

// Valid reports whether r is one of the known roles
func (r UserRole) Valid() bool {
	switch r {
	case RoleCustomer, RoleWaiter, RoleKitchenStaff, RoleAdmin:
		return true
	}
	return false
}

// IsStaff is true for anyone working the floor or the kitchen, admins included
func (r UserRole) IsStaff() bool {
	return r == RoleWaiter || r == RoleKitchenStaff || r == RoleAdmin
}

type User struct {
	ID                  uint              `json:"id" gorm:"primaryKey"`
	Name                string            `json:"name" gorm:"not null"`
	Email               string            `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash        string            `json:"-" gorm:"not null"`
	Role                UserRole          `json:"role" gorm:"not null;default:'customer'"`
	Phone               string            `json:"phone"`
	Preferences         map[string]string `json:"preferences,omitempty" gorm:"serializer:json"`
	DietaryRestrictions []string          `json:"dietary_restrictions,omitempty" gorm:"serializer:json"`
	CreatedAt           time.Time         `json:"created_at"`
	UpdatedAt           time.Time         `json:"updated_at"`
}

// Favorite links a customer to a menu item they bookmarked
type Favorite struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	UserID     uint      `json:"user_id" gorm:"not null;index"`
	MenuItemID uint      `json:"menu_item_id" gorm:"not null"`
	MenuItem   *MenuItem `json:"menu_item,omitempty" gorm:"foreignKey:MenuItemID"`
	CreatedAt  time.Time `json:"created_at"`
}

// LoginRequest is the body of the login call
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest is the body of the register call. Staff accounts are
// created by admins, so self-registration always yields a customer.
type RegisterRequest struct {
	Name                string   `json:"name" binding:"required,min=2"`
	Email               string   `json:"email" binding:"required,email"`
	Password            string   `json:"password" binding:"required,min=6"`
	Phone               string   `json:"phone" binding:"omitempty,min=7"`
	DietaryRestrictions []string `json:"dietary_restrictions,omitempty"`
}

// AuthResponse is returned by login, register and verify
type AuthResponse struct {
	Message string `json:"message,omitempty"`
	Token   string `json:"token"`
	User    User   `json:"user"`
}
