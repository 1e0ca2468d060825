package mockapi

import (
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Sam414141/Digital-MenuCard-sub001/models"
)

// DemoPassword is the password of every seeded account
const DemoPassword = "password123"

// Seed fills an empty database with demo accounts, a menu, promotions and
// stock. It does nothing if users already exist.
func Seed(db *gorm.DB) error {
	var count int64
	db.Model(&models.User{}).Count(&count)
	if count > 0 {
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := seedUsers(tx); err != nil {
			return fmt.Errorf("failed to seed users: %w", err)
		}
		if err := tx.Create(demoMenu()).Error; err != nil {
			return fmt.Errorf("failed to seed menu: %w", err)
		}
		if err := tx.Create(demoPromotions(time.Now())).Error; err != nil {
			return fmt.Errorf("failed to seed promotions: %w", err)
		}
		if err := tx.Create(demoInventory()).Error; err != nil {
			return fmt.Errorf("failed to seed inventory: %w", err)
		}
		return nil
	})
}

func seedUsers(tx *gorm.DB) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.MinCost)
	if err != nil {
		return err
	}
	users := []models.User{
		{Name: "Admin", Email: "admin@menucard.local", Role: models.RoleAdmin},
		{Name: "Kitchen", Email: "kitchen@menucard.local", Role: models.RoleKitchenStaff},
		{Name: "Waiter", Email: "waiter@menucard.local", Role: models.RoleWaiter},
		{Name: "Guest", Email: "guest@menucard.local", Role: models.RoleCustomer, Phone: "5550100"},
	}
	for i := range users {
		users[i].PasswordHash = string(hash)
	}
	return tx.Create(&users).Error
}

func demoMenu() *[]models.MenuItem {
	return &[]models.MenuItem{
		{Name: "Margherita Pizza", Description: "Tomato, mozzarella, basil", Price: 250, Category: "mains", IsAvailable: true, Allergens: []string{"gluten", "dairy"}, DietaryTags: []string{"vegetarian"}},
		{Name: "Paneer Tikka", Description: "Char-grilled cottage cheese", Price: 220, Category: "starters", IsAvailable: true, Allergens: []string{"dairy"}, DietaryTags: []string{"vegetarian", "gluten_free"}},
		{Name: "Veg Spring Rolls", Description: "Crispy rolls, sweet chilli dip", Price: 150, Category: "starters", IsAvailable: true, Allergens: []string{"gluten"}, DietaryTags: []string{"vegan"}},
		{Name: "Butter Chicken", Description: "Creamy tomato gravy", Price: 320, Category: "mains", IsAvailable: true, Allergens: []string{"dairy"}},
		{Name: "Masala Lemonade", Description: "Fresh lime, spices", Price: 80, Category: "drinks", IsAvailable: true, DietaryTags: []string{"vegan", "gluten_free"}},
		{Name: "Gulab Jamun", Description: "Two pieces, warm", Price: 90, Category: "desserts", IsAvailable: true, Allergens: []string{"dairy", "gluten"}, DietaryTags: []string{"vegetarian"}},
	}
}

func demoPromotions(now time.Time) *[]models.Promotion {
	start := now.Add(-24 * time.Hour)
	end := now.AddDate(0, 1, 0)
	return &[]models.Promotion{
		{Code: "WELCOME10", Name: "Welcome 10%", DiscountType: models.DiscountPercentage, Value: 10, StartsAt: start, EndsAt: end, IsActive: true},
		{Code: "FLAT75", Name: "Flat 75 off", DiscountType: models.DiscountFixedAmount, Value: 75, MinOrderValue: 400, StartsAt: start, EndsAt: end, IsActive: true},
		{Code: "B2G1", Name: "Buy 2 get 1", DiscountType: models.DiscountBuyGet, BuyQuantity: 2, GetQuantity: 1, StartsAt: start, EndsAt: end, IsActive: true},
	}
}

func demoInventory() *[]models.InventoryItem {
	return &[]models.InventoryItem{
		{IngredientName: "Mozzarella", Quantity: 12, Unit: "kg", ReorderLevel: 5, SupplierName: "Dairy Co"},
		{IngredientName: "Paneer", Quantity: 3, Unit: "kg", ReorderLevel: 4, SupplierName: "Dairy Co"},
		{IngredientName: "Flour", Quantity: 40, Unit: "kg", ReorderLevel: 10, SupplierName: "Mill House"},
		{IngredientName: "Lemons", Quantity: 2, Unit: "dozen", ReorderLevel: 3, SupplierName: "Green Farms"},
	}
}
