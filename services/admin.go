package services

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/Sam414141/Digital-MenuCard-sub001/api"
	"github.com/Sam414141/Digital-MenuCard-sub001/apperr"
	"github.com/Sam414141/Digital-MenuCard-sub001/models"
)

type Inventory struct {
	c *api.Client
	v *validator.Validate
}

type InventoryInput struct {
	IngredientName  string  `json:"ingredient_name" binding:"required"`
	Quantity        float64 `json:"quantity" binding:"gte=0"`
	Unit            string  `json:"unit" binding:"required"`
	ReorderLevel    float64 `json:"reorder_level" binding:"gte=0"`
	SupplierName    string  `json:"supplier_name"`
	SupplierContact string  `json:"supplier_contact"`
}

func (i *Inventory) List(ctx context.Context) ([]models.InventoryItem, error) {
	return getList[models.InventoryItem](ctx, i.c, "inventory", "list", api.Request{}, "inventory")
}

func (i *Inventory) LowStock(ctx context.Context) ([]models.InventoryItem, error) {
	return getList[models.InventoryItem](ctx, i.c, "inventory", "lowStock", api.Request{}, "inventory")
}

func (i *Inventory) Create(ctx context.Context, in InventoryInput) (models.InventoryItem, error) {
	var out models.InventoryItem
	if err := validate(i.v, "inventory.create", in); err != nil {
		return out, err
	}
	err := i.c.Post(ctx, "inventory", "create", nil, in, &out)
	return out, err
}

func (i *Inventory) Update(ctx context.Context, id uint, in InventoryInput) (models.InventoryItem, error) {
	var out models.InventoryItem
	if err := validate(i.v, "inventory.update", in); err != nil {
		return out, err
	}
	err := i.c.Put(ctx, "inventory", "update", api.ID(id), in, &out)
	return out, err
}

func (i *Inventory) Delete(ctx context.Context, id uint) error {
	return i.c.Delete(ctx, "inventory", "delete", api.ID(id), nil)
}

func (i *Inventory) Restock(ctx context.Context, id uint, amount float64) (models.InventoryItem, error) {
	var out models.InventoryItem
	if amount <= 0 {
		return out, apperr.Validation("inventory.restock", "restock amount must be greater than 0")
	}
	err := i.c.Post(ctx, "inventory", "restock", api.ID(id), map[string]float64{"quantity": amount}, &out)
	return out, err
}

type Admin struct {
	c *api.Client
}

func (a *Admin) Users(ctx context.Context) ([]models.User, error) {
	return getList[models.User](ctx, a.c, "admin", "users", api.Request{}, "users")
}

func (a *Admin) UpdateRole(ctx context.Context, id uint, role models.UserRole) (models.User, error) {
	var u models.User
	if !role.Valid() {
		return u, validationf("admin.updateRole", "unknown role %q", role)
	}
	err := a.c.Put(ctx, "admin", "updateRole", api.ID(id), map[string]models.UserRole{"role": role}, &u)
	return u, err
}

func (a *Admin) DeleteUser(ctx context.Context, id uint) error {
	return a.c.Delete(ctx, "admin", "deleteUser", api.ID(id), nil)
}

func (a *Admin) Dashboard(ctx context.Context) (models.AdminDashboard, error) {
	var d models.AdminDashboard
	err := a.c.DoRetry(ctx, api.DefaultReadPolicy, "admin", "dashboard", api.Request{}, &d)
	return d, err
}

type Users struct {
	c *api.Client
}

func (u *Users) Get(ctx context.Context, id uint) (models.User, error) {
	var out models.User
	err := u.c.Get(ctx, "users", "get", api.ID(id), nil, &out)
	return out, err
}

type ProfileInput struct {
	Name                string   `json:"name,omitempty" binding:"omitempty,min=2"`
	Phone               string   `json:"phone,omitempty" binding:"omitempty,min=7"`
	DietaryRestrictions []string `json:"dietary_restrictions,omitempty"`
}

func (u *Users) Update(ctx context.Context, id uint, in ProfileInput) (models.User, error) {
	var out models.User
	err := u.c.Put(ctx, "users", "update", api.ID(id), in, &out)
	return out, err
}

func (u *Users) UpdatePreferences(ctx context.Context, id uint, prefs map[string]string) (models.User, error) {
	var out models.User
	err := u.c.Put(ctx, "users", "preferences", api.ID(id), prefs, &out)
	return out, err
}

type Favorites struct {
	c *api.Client
}

func (f *Favorites) List(ctx context.Context) ([]models.Favorite, error) {
	return getList[models.Favorite](ctx, f.c, "favorites", "list", api.Request{}, "favorites")
}

func (f *Favorites) Add(ctx context.Context, menuItemID uint) (models.Favorite, error) {
	var out models.Favorite
	err := f.c.Post(ctx, "favorites", "add", nil, map[string]uint{"menu_item_id": menuItemID}, &out)
	return out, err
}

func (f *Favorites) Remove(ctx context.Context, id uint) error {
	return f.c.Delete(ctx, "favorites", "remove", api.ID(id), nil)
}

type Analytics struct {
	c *api.Client
}

func (a *Analytics) Summary(ctx context.Context, period string) (models.AnalyticsSummary, error) {
	var s models.AnalyticsSummary
	req := api.Request{Query: periodQuery(period)}
	err := a.c.DoRetry(ctx, api.DefaultReadPolicy, "analytics", "summary", req, &s)
	return s, err
}

func (a *Analytics) PopularItems(ctx context.Context, limit int) ([]models.PopularItem, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	return getList[models.PopularItem](ctx, a.c, "analytics", "popularItems", api.Request{Query: q}, "items")
}

func (a *Analytics) Revenue(ctx context.Context, period string) ([]models.RevenuePoint, error) {
	return getList[models.RevenuePoint](ctx, a.c, "analytics", "revenue", api.Request{Query: periodQuery(period)}, "revenue")
}

func periodQuery(period string) url.Values {
	q := url.Values{}
	if period != "" {
		q.Set("period", period)
	}
	return q
}

type Reports struct {
	c *api.Client
}

func (r *Reports) Sales(ctx context.Context, from, to time.Time) (models.SalesReport, error) {
	var out models.SalesReport
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return out, apperr.Validation("reports.sales", "end date must not be before start date")
	}
	q := url.Values{}
	if !from.IsZero() {
		q.Set("from", from.Format(time.DateOnly))
	}
	if !to.IsZero() {
		q.Set("to", to.Format(time.DateOnly))
	}
	err := r.c.DoRetry(ctx, api.DefaultReadPolicy, "reports", "sales", api.Request{Query: q}, &out)
	return out, err
}

func (r *Reports) Inventory(ctx context.Context) (models.InventoryReport, error) {
	var out models.InventoryReport
	err := r.c.DoRetry(ctx, api.DefaultReadPolicy, "reports", "inventory", api.Request{}, &out)
	return out, err
}
