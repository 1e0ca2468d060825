package dashboard

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/Sam414141/Digital-MenuCard-sub001/models"
	"github.com/Sam414141/Digital-MenuCard-sub001/promo"
)

func (r *Renderer) Menu(items []models.MenuItem) {
	r.title("MENU")
	if len(items) == 0 {
		fmt.Fprintln(r.w, "No dishes match.")
		return
	}
	tw := r.table()
	fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tPRICE\tTAGS\tALLERGENS\tAVAILABLE")
	for _, m := range items {
		avail := r.paint(ansiGreen, "yes")
		if !m.IsAvailable {
			avail = r.paint(ansiRed, "no")
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			m.ID, m.Name, m.Category, Money(m.Price), joinOr(m.DietaryTags, "-"), joinOr(m.Allergens, "-"), avail)
	}
	tw.Flush()
}

// Promotions lists codes with what they would save on total
func (r *Renderer) Promotions(list []models.Promotion, results []promo.Result) {
	r.title("PROMOTIONS")
	if len(list) == 0 {
		fmt.Fprintln(r.w, "No active promotions.")
		return
	}
	tw := r.table()
	fmt.Fprintln(tw, "CODE\tNAME\tTYPE\tENDS\tSAVES")
	for i, p := range list {
		saves := "-"
		if i < len(results) {
			saves = r.savingsText(results[i])
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", p.Code, p.Name, p.DiscountType, r.ago(p.EndsAt), saves)
	}
	tw.Flush()
}

// Savings prints the single line shown under the order total
func (r *Renderer) Savings(code string, res promo.Result) {
	fmt.Fprintf(r.w, "%s: %s\n", code, r.savingsText(res))
}

func (r *Renderer) savingsText(res promo.Result) string {
	if !res.Applicable {
		return r.paint(ansiGrey, "not applicable ("+res.Reason+")")
	}
	s := "you save " + res.Display()
	if res.FreeUnits > 0 {
		s += fmt.Sprintf(" (%d free)", res.FreeUnits)
	}
	return r.paint(ansiGreen, s)
}

// Inventory flags every line at or under its reorder level
func (r *Renderer) Inventory(items []models.InventoryItem) {
	r.title("INVENTORY")
	tw := r.table()
	fmt.Fprintln(tw, "ID\tINGREDIENT\tQUANTITY\tREORDER AT\tSUPPLIER\t")
	low := 0
	for _, it := range items {
		flag := ""
		if it.NeedsReorder() {
			flag = r.paint(ansiRed, "REORDER")
			low++
		}
		fmt.Fprintf(tw, "%d\t%s\t%s %s\t%s\t%s\t%s\n",
			it.ID, it.IngredientName, humanize.Ftoa(it.Quantity), it.Unit, humanize.Ftoa(it.ReorderLevel), it.SupplierName, flag)
	}
	tw.Flush()
	fmt.Fprintf(r.w, "%d items, %d need reordering\n", len(items), low)
}

func (r *Renderer) Analytics(s models.AnalyticsSummary) {
	r.title("ANALYTICS")
	fmt.Fprintf(r.w, "Orders: %s · Revenue: %s · Average order: %s\n",
		humanize.Comma(int64(s.TotalOrders)), Money(s.TotalRevenue), Money(s.AverageOrder))
	if len(s.OrdersByStatus) > 0 {
		tw := r.table()
		fmt.Fprintln(tw, "STATUS\tORDERS")
		for _, st := range []models.OrderStatus{models.StatusPending, models.StatusPreparing, models.StatusPrepared, models.StatusServed, models.StatusCompleted, models.StatusCancelled} {
			if n, ok := s.OrdersByStatus[st]; ok {
				fmt.Fprintf(tw, "%s\t%d\n", r.status(st), n)
			}
		}
		tw.Flush()
	}
	if len(s.PopularItems) == 0 {
		return
	}
	fmt.Fprintln(r.w)
	tw := r.table()
	fmt.Fprintln(tw, "RANK\tITEM\tSOLD\tREVENUE")
	for i, p := range s.PopularItems {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", humanize.Ordinal(i+1), p.Name, p.Quantity, Money(p.Revenue))
	}
	tw.Flush()
}

func (r *Renderer) Users(users []models.User) {
	r.title("USERS")
	tw := r.table()
	fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tROLE\tJOINED")
	for _, u := range users {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", u.ID, u.Name, u.Email, u.Role, r.ago(u.CreatedAt))
	}
	tw.Flush()
}

func (r *Renderer) Feedback(list []models.Feedback) {
	r.title("FEEDBACK")
	tw := r.table()
	fmt.Fprintln(tw, "RATING\tORDER\tCOMMENT\tWHEN")
	for _, f := range list {
		order := "-"
		if f.OrderID != nil {
			order = fmt.Sprintf("#%d", *f.OrderID)
		}
		fmt.Fprintf(tw, "%d/5\t%s\t%s\t%s\n", f.Rating, order, f.Comment, r.ago(f.CreatedAt))
	}
	tw.Flush()
}
