package dashboard

import (
	"fmt"
	"sync"

	"github.com/Sam414141/Digital-MenuCard-sub001/apperr"
)

// Toaster prints toasts on their own line. Concurrent pollers may report at
// the same time, so writes are serialized.
type Toaster struct {
	r  *Renderer
	mu sync.Mutex
}

func NewToaster(r *Renderer) *Toaster { return &Toaster{r: r} }

func (t *Toaster) Notify(toast apperr.Toast) {
	code := ansiRed
	switch toast.Level {
	case apperr.LevelWarning:
		code = ansiYellow
	case apperr.LevelInfo:
		code = ansiBlue
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.r.w, "%s %s\n", t.r.paint(code, "["+toast.Title+"]"), toast.Message)
}

var _ apperr.Notifier = (*Toaster)(nil)
