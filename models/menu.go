package models

import "time"

type MenuItem struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"not null"`
	Description string    `json:"description"`
	Price       float64   `json:"price" gorm:"not null"`
	Category    string    `json:"category" gorm:"index"`
	IsAvailable bool      `json:"is_available" gorm:"default:true"`
	Allergens   []string  `json:"allergens,omitempty" gorm:"serializer:json"`
	DietaryTags []string  `json:"dietary_tags,omitempty" gorm:"serializer:json"`
	ImageURL    string    `json:"image_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// HasTag reports whether the item carries the given dietary tag (vegan, gluten_free, ...)
func (m MenuItem) HasTag(tag string) bool {
	for _, t := range m.DietaryTags {
		if t == tag {
			return true
		}
	}
	return false
}

// ContainsAllergen reports whether the item lists any of the given allergens
func (m MenuItem) ContainsAllergen(allergens ...string) bool {
	for _, a := range m.Allergens {
		for _, want := range allergens {
			if a == want {
				return true
			}
		}
	}
	return false
}
