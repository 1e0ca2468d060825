package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"github.com/Sam414141/Digital-MenuCard-sub001/apperr"
	"github.com/Sam414141/Digital-MenuCard-sub001/middleware"
	"github.com/Sam414141/Digital-MenuCard-sub001/models"
	"github.com/Sam414141/Digital-MenuCard-sub001/promo"
	"github.com/Sam414141/Digital-MenuCard-sub001/services"
)

func newFlags(name string) *flag.FlagSet {
	return flag.NewFlagSet(name, flag.ContinueOnError)
}

func runLogin(ctx context.Context, a *App, args []string) error {
	fs := newFlags("login")
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	user, err := a.session.Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Welcome back, %s (%s)\n", user.Name, user.Role)
	return nil
}

func runRegister(ctx context.Context, a *App, args []string) error {
	fs := newFlags("register")
	var req models.RegisterRequest
	fs.StringVar(&req.Name, "name", "", "full name")
	fs.StringVar(&req.Email, "email", "", "email")
	fs.StringVar(&req.Password, "password", "", "password, at least 6 characters")
	fs.StringVar(&req.Phone, "phone", "", "phone number")
	diet := fs.String("diet", "", "comma separated dietary restrictions")
	if err := fs.Parse(args); err != nil {
		return err
	}
	req.DietaryRestrictions = services.SplitList(*diet)

	if req.Email != "" {
		if ok, err := a.svc.Auth.CheckEmail(ctx, req.Email); err == nil && !ok {
			return apperr.Validation("auth.register", "email is already registered")
		}
	}
	user, err := a.session.Register(ctx, req)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Account created. Signed in as %s\n", user.Email)
	return nil
}

func runLogout(ctx context.Context, a *App, _ []string) error {
	if err := a.session.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Signed out.")
	return nil
}

func runWhoami(_ context.Context, a *App, _ []string) error {
	id := a.session.Identity()
	if !id.Authenticated {
		fmt.Fprintln(a.out, "Not signed in.")
		return nil
	}
	fmt.Fprintf(a.out, "%s <%s> · %s · session expires %s\n",
		id.User.Name, id.User.Email, id.User.Role, humanize.Time(id.ExpiresAt))
	return nil
}

func runMenu(ctx context.Context, a *App, args []string) error {
	fs := newFlags("menu")
	var f services.MenuFilter
	fs.StringVar(&f.Category, "category", "", "only this category")
	fs.StringVar(&f.Search, "search", "", "name or description contains")
	fs.BoolVar(&f.AvailableOnly, "available", false, "hide unavailable dishes")
	tags := fs.String("tags", "", "comma separated dietary tags every dish must carry")
	exclude := fs.String("exclude", "", "comma separated allergens to avoid")
	hide := fs.Uint("hide", 0, "mark a dish unavailable (kitchen staff)")
	show := fs.Uint("show", 0, "mark a dish available again (kitchen staff)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *hide != 0 || *show != 0 {
		if err := middleware.RequireRole(a.session, models.RoleKitchenStaff, models.RoleAdmin); err != nil {
			return err
		}
		id, available := *show, true
		if *hide != 0 {
			id, available = *hide, false
		}
		item, err := a.svc.Menu.SetAvailability(ctx, uint(id), available)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "%s is now %s\n", item.Name, map[bool]string{true: "available", false: "unavailable"}[item.IsAvailable])
		return nil
	}

	f.DietaryTags = services.SplitList(*tags)
	f.ExcludeAllergens = services.SplitList(*exclude)
	items, err := a.svc.Menu.List(ctx, f)
	if err != nil {
		return err
	}
	a.r.Menu(items)
	return nil
}

// parseItems reads "id x qty[:note]" entries separated by commas, e.g.
// "1x2,4x1:no onions".
func parseItems(s string) ([]services.OrderItemInput, error) {
	var out []services.OrderItemInput
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		var note string
		if i := strings.IndexByte(part, ':'); i >= 0 {
			part, note = part[:i], strings.TrimSpace(part[i+1:])
		}
		idStr, qtyStr, found := strings.Cut(strings.ToLower(part), "x")
		if !found {
			qtyStr = "1"
		}
		id, err := services.ParseID(idStr)
		if err != nil {
			return nil, apperr.Validation("orders.create", fmt.Sprintf("bad item %q", part))
		}
		qty, err := strconv.Atoi(strings.TrimSpace(qtyStr))
		if err != nil {
			return nil, apperr.Validation("orders.create", fmt.Sprintf("bad quantity in %q", part))
		}
		out = append(out, services.OrderItemInput{MenuItemID: id, Quantity: qty, Customization: note})
	}
	return out, nil
}

func runOrder(ctx context.Context, a *App, args []string) error {
	fs := newFlags("order")
	table := fs.Int("table", 0, "table number")
	items := fs.String("items", "", `dishes as "id x qty[:note]", comma separated`)
	code := fs.String("promo", "", "promotion code")
	notes := fs.String("notes", "", "note for the kitchen")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := middleware.RequireRole(a.session); err != nil {
		return err
	}
	lines, err := parseItems(*items)
	if err != nil {
		return err
	}
	order, err := a.svc.Orders.Place(ctx, services.PlaceOrderRequest{
		TableNumber:   *table,
		Items:         lines,
		PromotionCode: strings.ToUpper(strings.TrimSpace(*code)),
		Notes:         *notes,
	})
	if err != nil {
		return err
	}
	a.r.Tracking(order)
	return nil
}

func runPromo(ctx context.Context, a *App, args []string) error {
	fs := newFlags("promo")
	code := fs.String("code", "", "check this code against -total")
	totalStr := fs.String("total", "0", "order total")
	if err := fs.Parse(args); err != nil {
		return err
	}
	total, err := decimal.NewFromString(*totalStr)
	if err != nil {
		return apperr.Validation("promotions.validate", "total must be a number")
	}

	if *code != "" {
		v, err := a.svc.Promotions.Validate(ctx, *code, total)
		if err != nil {
			return err
		}
		a.r.Savings(strings.ToUpper(*code), promo.FromValidation(v, total, nil))
		return nil
	}

	list, err := a.svc.Promotions.Active(ctx)
	if err != nil {
		return err
	}
	results := make([]promo.Result, len(list))
	now := time.Now()
	for i, p := range list {
		if ok, reason := promo.Applicable(p, total, now); !ok {
			results[i] = promo.Result{Reason: reason}
			continue
		}
		results[i] = promo.Savings(p, total, nil)
	}
	a.r.Promotions(list, results)
	return nil
}

func runInventory(ctx context.Context, a *App, args []string) error {
	fs := newFlags("inventory")
	low := fs.Bool("low", false, "only items that need reordering")
	restock := fs.Uint("restock", 0, "inventory item to restock")
	amount := fs.Float64("amount", 0, "quantity to add with -restock")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := middleware.RequireRole(a.session, models.RoleAdmin); err != nil {
		return err
	}
	if *restock != 0 {
		item, err := a.svc.Inventory.Restock(ctx, uint(*restock), *amount)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "%s now at %s %s\n", item.IngredientName, humanize.Ftoa(item.Quantity), item.Unit)
		return nil
	}
	list := a.svc.Inventory.List
	if *low {
		list = a.svc.Inventory.LowStock
	}
	items, err := list(ctx)
	if err != nil {
		return err
	}
	a.r.Inventory(items)
	return nil
}

func runAnalytics(ctx context.Context, a *App, args []string) error {
	fs := newFlags("analytics")
	period := fs.String("period", "week", "day, week, month or all")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := middleware.RequireRole(a.session, models.RoleAdmin); err != nil {
		return err
	}
	s, err := a.svc.Analytics.Summary(ctx, *period)
	if err != nil {
		return err
	}
	a.r.Analytics(s)
	return nil
}

func runUsers(ctx context.Context, a *App, args []string) error {
	fs := newFlags("users")
	setRole := fs.String("set-role", "", `change a role, as "id=role"`)
	del := fs.Uint("delete", 0, "delete this user")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := middleware.RequireRole(a.session, models.RoleAdmin); err != nil {
		return err
	}
	switch {
	case *setRole != "":
		idStr, role, ok := strings.Cut(*setRole, "=")
		id, err := services.ParseID(idStr)
		if !ok || err != nil {
			return apperr.Validation("admin.updateRole", `expected "id=role"`)
		}
		u, err := a.svc.Admin.UpdateRole(ctx, id, models.UserRole(strings.TrimSpace(role)))
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "%s is now %s\n", u.Email, u.Role)
		return nil
	case *del != 0:
		if err := a.svc.Admin.DeleteUser(ctx, uint(*del)); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "User %d deleted\n", *del)
		return nil
	}
	users, err := a.svc.Admin.Users(ctx)
	if err != nil {
		return err
	}
	a.r.Users(users)
	return nil
}

func runFeedback(ctx context.Context, a *App, args []string) error {
	fs := newFlags("feedback")
	list := fs.Bool("list", false, "read all feedback (admin)")
	rating := fs.Int("rating", 0, "1 to 5")
	comment := fs.String("comment", "", "what you thought")
	orderID := fs.Uint("order", 0, "order this is about")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *list {
		if err := middleware.RequireRole(a.session, models.RoleAdmin); err != nil {
			return err
		}
		items, err := a.svc.Feedback.List(ctx)
		if err != nil {
			return err
		}
		a.r.Feedback(items)
		return nil
	}
	if err := middleware.RequireRole(a.session); err != nil {
		return err
	}
	in := services.FeedbackInput{Rating: *rating, Comment: *comment}
	if *orderID != 0 {
		id := uint(*orderID)
		in.OrderID = &id
	}
	if _, err := a.svc.Feedback.Submit(ctx, in); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Thanks for your feedback!")
	return nil
}

// IsUsageError reports whether err came from bad command line flags
func IsUsageError(err error) bool {
	return errors.Is(err, flag.ErrHelp) || errors.Is(err, ErrUnknownCommand)
}
