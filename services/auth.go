package services

import (
	"context"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/Sam414141/Digital-MenuCard-sub001/api"
	"github.com/Sam414141/Digital-MenuCard-sub001/models"
)

type Auth struct {
	c *api.Client
	v *validator.Validate
}

// Login never triggers the logout redirect: a wrong password is reported,
// not treated as a lost session.
func (a *Auth) Login(ctx context.Context, req models.LoginRequest) (models.AuthResponse, error) {
	var res models.AuthResponse
	if err := validate(a.v, "auth.login", req); err != nil {
		return res, err
	}
	err := a.c.Post(ctx, "auth", "login", nil, req, &res, api.SkipAuthRedirect())
	return res, err
}

func (a *Auth) Register(ctx context.Context, req models.RegisterRequest) (models.AuthResponse, error) {
	var res models.AuthResponse
	if err := validate(a.v, "auth.register", req); err != nil {
		return res, err
	}
	err := a.c.Post(ctx, "auth", "register", nil, req, &res, api.SkipAuthRedirect())
	return res, err
}

// Verify is the background revalidation call; the session decides what a
// failure means, so it is silent.
func (a *Auth) Verify(ctx context.Context) (models.AuthResponse, error) {
	var res models.AuthResponse
	err := a.c.Get(ctx, "auth", "verify", nil, nil, &res, api.SkipAuthRedirect(), api.Silent())
	return res, err
}

func (a *Auth) Logout(ctx context.Context) error {
	return a.c.Post(ctx, "auth", "logout", nil, nil, nil, api.SkipAuthRedirect(), api.Silent())
}

func (a *Auth) Me(ctx context.Context) (models.User, error) {
	var u models.User
	err := a.c.Get(ctx, "auth", "me", nil, nil, &u)
	return u, err
}

// CheckEmail asks whether an address is still free to register
func (a *Auth) CheckEmail(ctx context.Context, email string) (bool, error) {
	var res struct {
		Available bool `json:"available"`
	}
	err := a.c.Get(ctx, "auth", "checkEmail", nil, url.Values{"email": {email}}, &res, api.Silent())
	return res.Available, err
}

type EmailResult struct {
	Email     string
	Available bool
	Err       error
}

// EmailChecker debounces availability lookups while a user types: only the
// last address entered within the delay is checked, and results for
// addresses typed over since are dropped.
type EmailChecker struct {
	auth     *Auth
	delay    time.Duration
	onResult func(EmailResult)

	mu     sync.Mutex
	timer  *time.Timer
	seq    uint64
	ctx    context.Context
	cancel context.CancelFunc
}

func (a *Auth) NewEmailChecker(delay time.Duration, onResult func(EmailResult)) *EmailChecker {
	ctx, cancel := context.WithCancel(context.Background())
	return &EmailChecker{auth: a, delay: delay, onResult: onResult, ctx: ctx, cancel: cancel}
}

func (e *EmailChecker) Check(email string) {
	email = strings.TrimSpace(email)
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.ctx.Err() != nil {
		return
	}
	e.seq++
	seq := e.seq
	if e.timer != nil {
		e.timer.Stop()
	}
	if email == "" {
		return
	}
	e.timer = time.AfterFunc(e.delay, func() {
		if err := e.auth.v.Var(email, "required,email"); err != nil {
			e.deliver(seq, EmailResult{Email: email, Err: validate(e.auth.v, "auth.checkEmail", struct {
				Email string `json:"email" binding:"required,email"`
			}{email})})
			return
		}
		ok, err := e.auth.CheckEmail(e.ctx, email)
		e.deliver(seq, EmailResult{Email: email, Available: ok, Err: err})
	})
}

func (e *EmailChecker) deliver(seq uint64, r EmailResult) {
	e.mu.Lock()
	current := seq == e.seq && e.ctx.Err() == nil
	e.mu.Unlock()
	if current {
		e.onResult(r)
	}
}

// Stop cancels the pending check and any lookup in flight
func (e *EmailChecker) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.timer != nil {
		e.timer.Stop()
	}
	e.cancel()
}
