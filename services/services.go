// Package services wraps the API client in one typed value per backend
// resource. Forms are validated locally before anything goes on the wire.
package services

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	json "github.com/goccy/go-json"

	"github.com/Sam414141/Digital-MenuCard-sub001/api"
	"github.com/Sam414141/Digital-MenuCard-sub001/apperr"
)

// Services bundles every resource over one client
type Services struct {
	Auth       *Auth
	Users      *Users
	Favorites  *Favorites
	Menu       *Menu
	Orders     *Orders
	Kitchen    *Kitchen
	Waiter     *Waiter
	Promotions *Promotions
	Inventory  *Inventory
	Admin      *Admin
	Analytics  *Analytics
	Reports    *Reports
	Feedback   *Feedback
	Contact    *Contact
	Video      *Video
}

func New(c *api.Client) *Services {
	v := newValidator()
	return &Services{
		Auth:       &Auth{c: c, v: v},
		Users:      &Users{c: c},
		Favorites:  &Favorites{c: c},
		Menu:       &Menu{c: c, v: v},
		Orders:     &Orders{c: c, v: v},
		Kitchen:    &Kitchen{c: c},
		Waiter:     &Waiter{c: c},
		Promotions: &Promotions{c: c, v: v},
		Inventory:  &Inventory{c: c, v: v},
		Admin:      &Admin{c: c},
		Analytics:  &Analytics{c: c},
		Reports:    &Reports{c: c},
		Feedback:   &Feedback{c: c, v: v},
		Contact:    &Contact{c: c, v: v},
		Video:      &Video{c: c},
	}
}

// newValidator reads the same `binding` tags gin uses on the backend, so
// one request struct serves both sides.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.SetTagName("binding")
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validate turns validator failures into one validation error naming every
// offending field.
func validate(v *validator.Validate, op string, form any) error {
	err := v.Struct(form)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperr.Validation(op, err.Error())
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return apperr.Validation(op, strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be %s or more", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	}
	return fmt.Sprintf("%s failed %s", field, fe.Tag())
}

// decodeList accepts a bare array or an object wrapping one under a common
// key. Anything else, null included, is an empty list.
func decodeList[T any](raw json.RawMessage, keys ...string) []T {
	var list []T
	if err := json.Unmarshal(raw, &list); err == nil {
		if list == nil {
			return []T{}
		}
		return list
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return []T{}
	}
	for _, k := range append(keys, "data", "items") {
		inner, ok := obj[k]
		if !ok {
			continue
		}
		if err := json.Unmarshal(inner, &list); err == nil && list != nil {
			return list
		}
	}
	return []T{}
}

// getList fetches a list endpoint with the default read retry
func getList[T any](ctx context.Context, c *api.Client, category, action string, req api.Request, keys ...string) ([]T, error) {
	var raw json.RawMessage
	if err := c.DoRetry(ctx, api.DefaultReadPolicy, category, action, req, &raw); err != nil {
		return nil, err
	}
	return decodeList[T](raw, keys...), nil
}
