package apperr

import (
	"context"
	"errors"
	"time"

	"github.com/Sam414141/Digital-MenuCard-sub001/logger"
)

// Level is the severity a toast is shown with
type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Toast is one user-facing notification
type Toast struct {
	Level    Level
	Title    string
	Message  string
	Duration time.Duration
}

// Notifier displays toasts
type Notifier interface {
	Notify(Toast)
}

// NotifierFunc adapts a function to Notifier
type NotifierFunc func(Toast)

func (f NotifierFunc) Notify(t Toast) { f(t) }

// Severity scales how loudly a kind is reported
func Severity(k Kind) Level {
	switch k {
	case KindValidation, KindNotFound:
		return LevelWarning
	}
	return LevelError
}

func durationFor(l Level) time.Duration {
	switch l {
	case LevelInfo:
		return 3 * time.Second
	case LevelWarning:
		return 4 * time.Second
	}
	return 6 * time.Second
}

func titleFor(k Kind) string {
	switch k {
	case KindValidation:
		return "Invalid request"
	case KindAuthentication:
		return "Session expired"
	case KindAuthorization:
		return "Access denied"
	case KindNotFound:
		return "Not found"
	case KindServer:
		return "Server error"
	case KindNetwork:
		return "Connection problem"
	}
	return "Error"
}

// ToastFor builds the notification for a classified error
func ToastFor(e *Error) Toast {
	lvl := Severity(e.Kind)
	msg := e.Message
	if msg == "" {
		msg = DefaultMessage(e.Kind)
	}
	return Toast{Level: lvl, Title: titleFor(e.Kind), Message: msg, Duration: durationFor(lvl)}
}

// Options tune how a single failure is handled
type Options struct {
	// SkipAuthRedirect keeps a 401 from clearing the session and bouncing the
	// user to the login screen.
	SkipAuthRedirect bool
	// Silent suppresses the toast; the error is still classified and forwarded.
	Silent bool
}

// Handler is the central error handler every API call reports to.
type Handler struct {
	notifier      Notifier
	sink          Sink
	onAuthFailure func()
	log           *logger.Logger
}

type HandlerOption func(*Handler)

// WithSink forwards every handled error to an external sink
func WithSink(s Sink) HandlerOption {
	return func(h *Handler) { h.sink = s }
}

// WithAuthFailure sets the callback run on authentication errors: clear the
// token and send the user to login.
func WithAuthFailure(fn func()) HandlerOption {
	return func(h *Handler) { h.onAuthFailure = fn }
}

func NewHandler(n Notifier, opts ...HandlerOption) *Handler {
	h := &Handler{notifier: n, sink: NopSink{}, log: logger.New("apperr")}
	for _, o := range opts {
		o(h)
	}
	return h
}

// SetAuthFailure replaces the authentication-failure callback. The session
// manager is usually built after the handler, so it is wired in late.
func (h *Handler) SetAuthFailure(fn func()) { h.onAuthFailure = fn }

// Handle classifies err, notifies the user, forwards it to the sink and runs
// the auth-failure callback when appropriate. Cancelled requests are only
// classified. It returns the classified error.
func (h *Handler) Handle(ctx context.Context, err error, opts Options) *Error {
	e := Classify(err)
	if e == nil {
		return nil
	}
	if errors.Is(e, context.Canceled) {
		// caller went away; nobody is left to tell
		h.log.Debug("request_cancelled", map[string]any{"op": e.Op})
		return e
	}
	h.log.Debug("request_failed", map[string]any{"kind": e.Kind, "status": e.Status, "op": e.Op})

	if !opts.Silent && h.notifier != nil {
		h.notifier.Notify(ToastFor(e))
	}
	if h.sink != nil {
		if serr := h.sink.Send(ctx, NewEvent(e)); serr != nil {
			h.log.Warn("error_sink_failed", serr, map[string]any{"op": e.Op})
		}
	}
	if e.Kind == KindAuthentication && !opts.SkipAuthRedirect && h.onAuthFailure != nil {
		h.onAuthFailure()
	}
	return e
}
