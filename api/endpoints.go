package api

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/Sam414141/Digital-MenuCard-sub001/apperr"
)

// Params fills the dynamic segments of an endpoint path
type Params map[string]string

// PathFunc builds the concrete path of an endpoint
type PathFunc func(Params) (string, error)

// Endpoint is one backend operation
type Endpoint struct {
	Method string
	Path   PathFunc
}

// Static is an endpoint path with no dynamic segments
func Static(path string) PathFunc {
	return func(Params) (string, error) { return path, nil }
}

// WithID fills every {name} placeholder of pattern from Params. A missing or
// empty value is a validation error and no request is sent.
func WithID(pattern string) PathFunc {
	return func(p Params) (string, error) {
		out := pattern
		for {
			start := strings.IndexByte(out, '{')
			if start < 0 {
				return out, nil
			}
			end := strings.IndexByte(out[start:], '}')
			if end < 0 {
				return "", fmt.Errorf("malformed path pattern %q", pattern)
			}
			name := out[start+1 : start+end]
			val := p[name]
			if val == "" {
				return "", fmt.Errorf("missing path parameter %q", name)
			}
			out = out[:start] + url.PathEscape(val) + out[start+end+1:]
		}
	}
}

func get(p PathFunc) Endpoint { return Endpoint{Method: http.MethodGet, Path: p} }
func post(p PathFunc) Endpoint { return Endpoint{Method: http.MethodPost, Path: p} }
func put(p PathFunc) Endpoint { return Endpoint{Method: http.MethodPut, Path: p} }
func patch(p PathFunc) Endpoint { return Endpoint{Method: http.MethodPatch, Path: p} }
func del(p PathFunc) Endpoint { return Endpoint{Method: http.MethodDelete, Path: p} }

// Endpoints is the full surface of the backend the client consumes, grouped by resource.
var Endpoints = map[string]map[string]Endpoint{
	"auth": {
		"login":      post(Static("/api/auth/login")),
		"register":   post(Static("/api/auth/register")),
		"logout":     post(Static("/api/auth/logout")),
		"verify":     get(Static("/api/auth/verify")),
		"me":         get(Static("/api/auth/me")),
		"checkEmail": get(Static("/api/auth/check-email")),
	},
	"users": {
		"get":         get(WithID("/api/users/{id}")),
		"update":      put(WithID("/api/users/{id}")),
		"preferences": put(WithID("/api/users/{id}/preferences")),
	},
	"favorites": {
		"list":   get(Static("/api/favorites")),
		"add":    post(Static("/api/favorites")),
		"remove": del(WithID("/api/favorites/{id}")),
	},
	"menu": {
		"list":         get(Static("/api/menu")),
		"categories":   get(Static("/api/menu/categories")),
		"get":          get(WithID("/api/menu/{id}")),
		"create":       post(Static("/api/menu")),
		"update":       put(WithID("/api/menu/{id}")),
		"delete":       del(WithID("/api/menu/{id}")),
		"availability": patch(WithID("/api/menu/{id}/availability")),
	},
	"orders": {
		"create":       post(Static("/api/orders")),
		"list":         get(Static("/api/orders")),
		"history":      get(Static("/api/orders/history")),
		"get":          get(WithID("/api/orders/{id}")),
		"cancel":       put(WithID("/api/orders/{id}/cancel")),
		"updateStatus": put(WithID("/api/orders/{id}/status")),
	},
	"analytics": {
		"summary":      get(Static("/api/analytics/summary")),
		"popularItems": get(Static("/api/analytics/popular-items")),
		"revenue":      get(Static("/api/analytics/revenue")),
	},
	"reports": {
		"sales":     get(Static("/api/reports/sales")),
		"inventory": get(Static("/api/reports/inventory")),
	},
	"inventory": {
		"list":     get(Static("/api/inventory")),
		"create":   post(Static("/api/inventory")),
		"update":   put(WithID("/api/inventory/{id}")),
		"delete":   del(WithID("/api/inventory/{id}")),
		"lowStock": get(Static("/api/inventory/low-stock")),
		"restock":  post(WithID("/api/inventory/{id}/restock")),
	},
	"promotions": {
		"list":     get(Static("/api/promotions")),
		"active":   get(Static("/api/promotions/active")),
		"create":   post(Static("/api/promotions")),
		"update":   put(WithID("/api/promotions/{id}")),
		"delete":   del(WithID("/api/promotions/{id}")),
		"validate": post(Static("/api/promotions/validate")),
	},
	"waiter": {
		"orders": get(Static("/api/waiter/orders")),
		"serve":  put(WithID("/api/waiter/orders/{id}/serve")),
		"tables": get(Static("/api/waiter/tables")),
	},
	"kitchen": {
		"orders":           get(Static("/api/kitchen/orders")),
		"updateItemStatus": put(WithID("/api/kitchen/items/{id}/status")),
	},
	"admin": {
		"users":      get(Static("/api/admin/users")),
		"updateRole": put(WithID("/api/admin/users/{id}/role")),
		"deleteUser": del(WithID("/api/admin/users/{id}")),
		"dashboard":  get(Static("/api/admin/dashboard")),
	},
	"feedback": {
		"submit": post(Static("/api/feedback")),
		"list":   get(Static("/api/feedback")),
	},
	"contact": {
		"send": post(Static("/api/contact")),
	},
	"video": {
		"create": post(Static("/api/video/sessions")),
		"join":   post(WithID("/api/video/sessions/{id}/join")),
		"signal": post(WithID("/api/video/sessions/{id}/signal")),
		"end":    del(WithID("/api/video/sessions/{id}")),
	},
}

// Resolve turns a (category, action) pair into its endpoint and concrete path
func Resolve(category, action string, params Params) (Endpoint, string, error) {
	op := category + "." + action
	actions, ok := Endpoints[category]
	if !ok {
		return Endpoint{}, "", apperr.Validation(op, "unknown endpoint category "+category)
	}
	ep, ok := actions[action]
	if !ok {
		return Endpoint{}, "", apperr.Validation(op, "unknown endpoint "+op)
	}
	path, err := ep.Path(params)
	if err != nil {
		return Endpoint{}, "", apperr.Validation(op, err.Error())
	}
	return ep, path, nil
}
