package dashboard

import (
	"fmt"

	"github.com/Sam414141/Digital-MenuCard-sub001/models"
	"github.com/Sam414141/Digital-MenuCard-sub001/orderview"
	"github.com/Sam414141/Digital-MenuCard-sub001/statemachine"
)

// KitchenBoard prints one card per order, oldest first, with the action
// each line can take next.
func (r *Renderer) KitchenBoard(groups []*orderview.OrderGroup) {
	r.title("KITCHEN")
	if len(groups) == 0 {
		fmt.Fprintln(r.w, "No orders in the kitchen.")
		return
	}
	for _, g := range groups {
		r.orderCard(g, statemachine.ActorKitchen)
	}
}

// WaiterBoard prints orders with lines ready to serve
func (r *Renderer) WaiterBoard(groups []*orderview.OrderGroup, tables []models.TableStatus) {
	r.title("WAITER")
	if len(groups) == 0 {
		fmt.Fprintln(r.w, "Nothing ready to serve.")
	}
	for _, g := range groups {
		r.orderCard(g, statemachine.ActorWaiter)
	}
	if len(tables) == 0 {
		return
	}
	fmt.Fprintln(r.w)
	tw := r.table()
	fmt.Fprintln(tw, "TABLE\tACTIVE ORDERS\tREADY ITEMS\tSTATUS")
	for _, t := range tables {
		fmt.Fprintf(tw, "%d\t%d\t%d\t%s\n", t.TableNumber, t.ActiveOrders, t.ReadyItems, r.status(t.Status))
	}
	tw.Flush()
}

func (r *Renderer) orderCard(g *orderview.OrderGroup, actor statemachine.Actor) {
	fmt.Fprintf(r.w, "\nOrder #%d · table %d · %s · %s · %s\n",
		g.OrderID, g.TableNumber, nameOr(g.CustomerName), r.status(g.Status), r.ago(g.OldestAt))
	tw := r.table()
	fmt.Fprintln(tw, "  ITEM ID\tQTY\tITEM\tNOTES\tSTATUS\tNEXT")
	for _, it := range g.Items {
		next := "-"
		if n := statemachine.NextFor(it.Status, actor); len(n) > 0 {
			next = string(n[0])
		}
		fmt.Fprintf(tw, "  %d\t%d\t%s\t%s\t%s\t%s\n", it.ID, it.Quantity, it.Name, it.Customization, r.status(it.Status), next)
	}
	tw.Flush()
}

func nameOr(s string) string {
	if s == "" {
		return "guest"
	}
	return s
}

// Tracking is the customer's view of one order
func (r *Renderer) Tracking(o models.Order) {
	status := orderview.OrderStatusFor(o)
	r.title(fmt.Sprintf("Order #%d", o.ID))
	fmt.Fprintf(r.w, "Table %d · placed %s · %s\n", o.TableNumber, r.ago(o.CreatedAt), r.status(status))
	tw := r.table()
	fmt.Fprintln(tw, "QTY\tITEM\tPRICE\tSTATUS")
	for _, it := range o.Items {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", it.Quantity, it.Name, Money(it.Price*float64(it.Quantity)), r.status(it.Status))
	}
	tw.Flush()
	if o.DiscountAmount > 0 {
		fmt.Fprintf(r.w, "Discount (%s): -%s\n", o.PromotionCode, Money(o.DiscountAmount))
	}
	fmt.Fprintf(r.w, "Total: %s\n", Money(o.TotalPrice))
}

// History lists past orders, newest first as served
func (r *Renderer) History(orders []models.Order) {
	r.title("ORDER HISTORY")
	if len(orders) == 0 {
		fmt.Fprintln(r.w, "No orders yet.")
		return
	}
	tw := r.table()
	fmt.Fprintln(tw, "ORDER\tTABLE\tITEMS\tTOTAL\tSTATUS\tPLACED")
	for _, o := range orders {
		fmt.Fprintf(tw, "#%d\t%d\t%d\t%s\t%s\t%s\n",
			o.ID, o.TableNumber, len(o.Items), Money(o.TotalPrice), r.status(orderview.OrderStatusFor(o)), r.ago(o.CreatedAt))
	}
	tw.Flush()
}
