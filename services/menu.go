package services

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Sam414141/Digital-MenuCard-sub001/api"
	"github.com/Sam414141/Digital-MenuCard-sub001/models"
)

type Menu struct {
	c *api.Client
	v *validator.Validate
}

// MenuFilter narrows the menu. Category, availability and search go to the
// server; tag and allergen filtering happen locally.
type MenuFilter struct {
	Category         string
	AvailableOnly    bool
	Search           string
	DietaryTags      []string
	ExcludeAllergens []string
}

func (f MenuFilter) query() url.Values {
	q := url.Values{}
	if f.Category != "" {
		q.Set("category", f.Category)
	}
	if f.AvailableOnly {
		q.Set("available", "true")
	}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	return q
}

func (f MenuFilter) match(m models.MenuItem) bool {
	for _, tag := range f.DietaryTags {
		if !m.HasTag(tag) {
			return false
		}
	}
	return !m.ContainsAllergen(f.ExcludeAllergens...)
}

func (m *Menu) List(ctx context.Context, f MenuFilter) ([]models.MenuItem, error) {
	items, err := getList[models.MenuItem](ctx, m.c, "menu", "list", api.Request{Query: f.query()}, "menu_items", "menu")
	if err != nil {
		return nil, err
	}
	out := items[:0]
	for _, it := range items {
		if f.match(it) {
			out = append(out, it)
		}
	}
	return out, nil
}

func (m *Menu) Categories(ctx context.Context) ([]string, error) {
	return getList[string](ctx, m.c, "menu", "categories", api.Request{}, "categories")
}

func (m *Menu) Get(ctx context.Context, id uint) (models.MenuItem, error) {
	var item models.MenuItem
	err := m.c.Get(ctx, "menu", "get", api.ID(id), nil, &item)
	return item, err
}

// MenuItemInput is the admin create/edit form
type MenuItemInput struct {
	Name        string   `json:"name" binding:"required,min=2"`
	Description string   `json:"description"`
	Price       float64  `json:"price" binding:"required,gt=0"`
	Category    string   `json:"category" binding:"required"`
	IsAvailable *bool    `json:"is_available,omitempty"`
	Allergens   []string `json:"allergens,omitempty"`
	DietaryTags []string `json:"dietary_tags,omitempty"`
	ImageURL    string   `json:"image_url,omitempty" binding:"omitempty,url"`
}

// SplitList turns "nuts, dairy" into ["nuts", "dairy"]
func SplitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (m *Menu) Create(ctx context.Context, in MenuItemInput) (models.MenuItem, error) {
	var item models.MenuItem
	if err := validate(m.v, "menu.create", in); err != nil {
		return item, err
	}
	err := m.c.Post(ctx, "menu", "create", nil, in, &item)
	return item, err
}

func (m *Menu) Update(ctx context.Context, id uint, in MenuItemInput) (models.MenuItem, error) {
	var item models.MenuItem
	if err := validate(m.v, "menu.update", in); err != nil {
		return item, err
	}
	err := m.c.Put(ctx, "menu", "update", api.ID(id), in, &item)
	return item, err
}

func (m *Menu) Delete(ctx context.Context, id uint) error {
	return m.c.Delete(ctx, "menu", "delete", api.ID(id), nil)
}

func (m *Menu) SetAvailability(ctx context.Context, id uint, available bool) (models.MenuItem, error) {
	var item models.MenuItem
	body := map[string]bool{"is_available": available}
	err := m.c.Patch(ctx, "menu", "availability", api.ID(id), body, &item)
	return item, err
}

// ParseID reads a positive id typed on the command line
func ParseID(s string) (uint, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil || n == 0 {
		return 0, validationf("id", "%q is not a valid id", s)
	}
	return uint(n), nil
}
