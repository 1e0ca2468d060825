// Package dashboard renders client screens as plain terminal tables.
package dashboard

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"github.com/Sam414141/Digital-MenuCard-sub001/models"
)

const (
	ansiReset  = "\033[0m"
	ansiBold   = "\033[1m"
	ansiRed    = "\033[31m"
	ansiGreen  = "\033[32m"
	ansiYellow = "\033[33m"
	ansiBlue   = "\033[34m"
	ansiGrey   = "\033[90m"
)

// Renderer writes screens to w. Colour is only used on a terminal.
type Renderer struct {
	w     io.Writer
	color bool
	now   func() time.Time
}

func New(w io.Writer) *Renderer {
	color := false
	if f, ok := w.(*os.File); ok {
		color = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &Renderer{w: w, color: color, now: time.Now}
}

// WithClock fixes the reference time for relative timestamps
func (r *Renderer) WithClock(now func() time.Time) *Renderer {
	r.now = now
	return r
}

func (r *Renderer) paint(code, s string) string {
	if !r.color {
		return s
	}
	return code + s + ansiReset
}

func (r *Renderer) status(s models.OrderStatus) string {
	switch s {
	case models.StatusPending:
		return r.paint(ansiYellow, string(s))
	case models.StatusPreparing:
		return r.paint(ansiBlue, string(s))
	case models.StatusPrepared:
		return r.paint(ansiGreen+ansiBold, string(s))
	case models.StatusCancelled:
		return r.paint(ansiRed, string(s))
	case models.StatusServed, models.StatusCompleted:
		return r.paint(ansiGrey, string(s))
	}
	return string(s)
}

func (r *Renderer) ago(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return humanize.RelTime(t, r.now(), "ago", "from now")
}

func (r *Renderer) table() *tabwriter.Writer {
	return tabwriter.NewWriter(r.w, 0, 0, 2, ' ', 0)
}

func (r *Renderer) title(s string) {
	fmt.Fprintln(r.w, r.paint(ansiBold, s))
}

// Money formats a price with thousands separators and two decimals
func Money(v float64) string {
	return humanize.FormatFloat("#,###.##", v)
}

// Banner prints the refresh line shown above every live screen. A failed
// refresh keeps the last data on screen and says so.
func (r *Renderer) Banner(name string, updatedAt time.Time, err error) {
	line := fmt.Sprintf("%s · updated %s", name, r.ago(updatedAt))
	if err != nil {
		line += " · " + r.paint(ansiRed, "refresh failed: "+err.Error()+" (showing last data)")
	}
	fmt.Fprintln(r.w, line)
}

func joinOr(list []string, empty string) string {
	if len(list) == 0 {
		return empty
	}
	return strings.Join(list, ", ")
}

// Clear wipes the screen before a live redraw. Off a terminal it prints a
// separator so piped output stays readable.
func (r *Renderer) Clear() {
	if r.color {
		fmt.Fprint(r.w, "\033[H\033[2J")
		return
	}
	fmt.Fprintln(r.w, strings.Repeat("-", 40))
}

// Writer is where the renderer prints
func (r *Renderer) Writer() io.Writer { return r.w }
