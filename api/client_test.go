package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sam414141/Digital-MenuCard-sub001/apperr"
	"github.com/Sam414141/Digital-MenuCard-sub001/models"
)

func newTestClient(t *testing.T, h http.HandlerFunc, opts ...ClientOption) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, 5*time.Second, opts...)
}

func TestClient_AttachesTokenAndDecodes(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/menu/5", r.URL.Path)
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":5,"name":"Paneer Tikka","price":12.5,"is_available":true}`)
	}, WithTokenSource(TokenFunc(func() string { return "tok-123" })))

	var item models.MenuItem
	require.NoError(t, c.Get(context.Background(), "menu", "get", ID(5), nil, &item))
	assert.Equal(t, "Paneer Tikka", item.Name)
	assert.Equal(t, 12.5, item.Price)
}

func TestClient_NoTokenNoHeader(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		assert.Equal(t, "Starters", r.URL.Query().Get("category"))
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, `[]`)
	})
	var items []models.MenuItem
	require.NoError(t, c.Get(context.Background(), "menu", "list", nil, url.Values{"category": {"Starters"}}, &items))
	assert.Empty(t, items)
}

func TestClient_SendsJSONBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		b, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"email":"a@b.c","password":"secret1"}`, string(b))
		w.WriteHeader(http.StatusNoContent)
	})
	body := map[string]string{"email": "a@b.c", "password": "secret1"}
	require.NoError(t, c.Post(context.Background(), "auth", "login", nil, body, nil))
}

func TestClient_ClassifiesFailures(t *testing.T) {
	var toasts []apperr.Toast
	redirects := 0
	h := apperr.NewHandler(apperr.NotifierFunc(func(t apperr.Toast) { toasts = append(toasts, t) }),
		apperr.WithAuthFailure(func() { redirects++ }))

	status := http.StatusUnauthorized
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = io.WriteString(w, `{"error":"Invalid or expired token"}`)
	}, WithErrorHandler(h))

	err := c.Get(context.Background(), "orders", "list", nil, nil, nil)
	var e *apperr.Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, apperr.KindAuthentication, e.Kind)
	assert.Equal(t, "orders.list", e.Op)
	assert.Equal(t, "Invalid or expired token", e.Message)
	assert.Equal(t, 1, redirects)

	err = c.Put(context.Background(), "kitchen", "updateItemStatus", ID(1), map[string]string{"status": "preparing"}, nil, SkipAuthRedirect())
	assert.True(t, apperr.Is(err, apperr.KindAuthentication))
	assert.Equal(t, 1, redirects, "opted-out call must not redirect")
	assert.Len(t, toasts, 2)

	status = http.StatusInternalServerError
	err = c.Get(context.Background(), "menu", "list", nil, nil, nil, Silent())
	assert.True(t, apperr.Is(err, apperr.KindServer))
	assert.Len(t, toasts, 2, "silent call must not toast")
}

func TestClient_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	base := srv.URL
	srv.Close()

	c := NewClient(base, time.Second)
	err := c.Get(context.Background(), "menu", "list", nil, nil, nil)
	assert.True(t, apperr.Is(err, apperr.KindNetwork))
}

func TestClient_MissingParamNeverHitsNetwork(t *testing.T) {
	var hits int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) { atomic.AddInt32(&hits, 1) })
	err := c.Get(context.Background(), "orders", "get", nil, nil, nil)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	assert.Zero(t, atomic.LoadInt32(&hits))
}

func TestClient_UndecodableBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `<html>gateway</html>`)
	})
	var out []models.Order
	err := c.Get(context.Background(), "orders", "list", nil, nil, &out)
	assert.True(t, apperr.Is(err, apperr.KindUnknown))
}

func TestClient_DoRetryReportsOnce(t *testing.T) {
	var hits int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = io.WriteString(w, `[{"id":1,"name":"Dal"}]`)
	})
	var toasts int32
	c.errors = apperr.NewHandler(apperr.NotifierFunc(func(apperr.Toast) { atomic.AddInt32(&toasts, 1) }))

	var items []models.MenuItem
	err := c.DoRetry(context.Background(), Policy{Attempts: 3, Base: time.Millisecond}, "menu", "list", Request{}, &items)
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, int32(3), atomic.LoadInt32(&hits))
	assert.Zero(t, atomic.LoadInt32(&toasts), "recovered failures are not reported")

	atomic.StoreInt32(&hits, -10)
	err = c.DoRetry(context.Background(), Policy{Attempts: 2, Base: time.Millisecond}, "menu", "list", Request{}, &items)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindServer))
	assert.Equal(t, int32(1), atomic.LoadInt32(&toasts))
}
