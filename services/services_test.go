package services

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sam414141/Digital-MenuCard-sub001/api"
	"github.com/Sam414141/Digital-MenuCard-sub001/apperr"
	"github.com/Sam414141/Digital-MenuCard-sub001/models"
)

// newTestServices serves every request with h and counts the hits
func newTestServices(t *testing.T, h http.HandlerFunc, opts ...api.ClientOption) (*Services, *int32) {
	t.Helper()
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		h(w, r)
	}))
	t.Cleanup(srv.Close)
	return New(api.NewClient(srv.URL, 5*time.Second, opts...)), &hits
}

func reply(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}
}

func TestDecodeList(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want int
	}{
		{"bare array", `[{"id":1},{"id":2}]`, 2},
		{"wrapped", `{"count":1,"orders":[{"id":1}]}`, 1},
		{"data key", `{"data":[{"id":1}]}`, 1},
		{"null", `null`, 0},
		{"error object", `{"error":"boom"}`, 0},
		{"string", `"nope"`, 0},
		{"wrong inner type", `{"orders":"x"}`, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := decodeList[models.Order](json.RawMessage(tt.raw), "orders")
			require.NotNil(t, got)
			assert.Len(t, got, tt.want)
		})
	}
}

func TestOrdersHistory_NonListPayload(t *testing.T) {
	s, _ := newTestServices(t, reply(http.StatusOK, `{"message":"no history yet"}`))
	orders, err := s.Orders.History(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, orders)
	assert.Empty(t, orders)
}

func TestOrdersHistory_FailureIsEmpty(t *testing.T) {
	s, _ := newTestServices(t, reply(http.StatusInternalServerError, `{"error":"db down"}`))
	orders, err := s.Orders.History(context.Background())
	assert.True(t, apperr.Is(err, apperr.KindServer))
	assert.NotNil(t, orders)
	assert.Empty(t, orders)
}

func TestOrdersPlace_ValidatesBeforeSending(t *testing.T) {
	s, hits := newTestServices(t, reply(http.StatusCreated, `{}`))

	tests := []struct {
		name string
		req  PlaceOrderRequest
		msg  string
	}{
		{"no table", PlaceOrderRequest{Items: []OrderItemInput{{MenuItemID: 1, Quantity: 1}}}, "table_number"},
		{"no items", PlaceOrderRequest{TableNumber: 3}, "items"},
		{"zero quantity", PlaceOrderRequest{TableNumber: 3, Items: []OrderItemInput{{MenuItemID: 1}}}, "quantity"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Orders.Place(context.Background(), tt.req)
			assert.True(t, apperr.Is(err, apperr.KindValidation))
			assert.ErrorContains(t, err, tt.msg)
		})
	}
	assert.Zero(t, atomic.LoadInt32(hits))
}

func TestOrdersPlace_Sends(t *testing.T) {
	s, _ := newTestServices(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/orders", r.URL.Path)
		b, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"table_number":4,"items":[{"menu_item_id":2,"quantity":3}]}`, string(b))
		reply(http.StatusCreated, `{"id":11,"table_number":4,"status":"pending"}`)(w, r)
	})
	order, err := s.Orders.Place(context.Background(), PlaceOrderRequest{
		TableNumber: 4,
		Items:       []OrderItemInput{{MenuItemID: 2, Quantity: 3}},
	})
	require.NoError(t, err)
	assert.Equal(t, uint(11), order.ID)
}

func TestPromotionsValidate(t *testing.T) {
	t.Run("unknown code is a verdict", func(t *testing.T) {
		s, _ := newTestServices(t, reply(http.StatusNotFound, `{"error":"Promotion code not found"}`))
		v, err := s.Promotions.Validate(context.Background(), "nope", decimal.NewFromInt(100))
		require.NoError(t, err)
		assert.False(t, v.Valid)
		assert.Equal(t, "Promotion code not found", v.Message)
	})
	t.Run("server failure is an error", func(t *testing.T) {
		s, _ := newTestServices(t, reply(http.StatusBadGateway, `{"error":"upstream"}`))
		_, err := s.Promotions.Validate(context.Background(), "SAVE", decimal.NewFromInt(100))
		assert.True(t, apperr.Is(err, apperr.KindServer))
	})
	t.Run("code is normalized", func(t *testing.T) {
		s, _ := newTestServices(t, func(w http.ResponseWriter, r *http.Request) {
			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "SAVE10", body["code"])
			assert.Equal(t, 250.5, body["order_total"])
			reply(http.StatusOK, `{"valid":true,"discount_amount":25.05}`)(w, r)
		})
		v, err := s.Promotions.Validate(context.Background(), " save10 ", decimal.RequireFromString("250.50"))
		require.NoError(t, err)
		assert.True(t, v.Valid)
	})
}

func TestPromotionInput_Check(t *testing.T) {
	s, hits := newTestServices(t, reply(http.StatusCreated, `{}`))
	_, err := s.Promotions.Create(context.Background(), PromotionInput{Code: "B2G1", Name: "Buy two", DiscountType: models.DiscountBuyGet})
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = s.Promotions.Create(context.Background(), PromotionInput{Code: "X", Name: "Short", DiscountType: models.DiscountPercentage, Value: 10})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	assert.Zero(t, atomic.LoadInt32(hits))
}

func TestKitchenUpdateItemStatus_RefusesLocally(t *testing.T) {
	s, hits := newTestServices(t, reply(http.StatusOK, `{}`))
	item := models.KitchenOrderItem{ID: 3, Status: models.StatusPending}

	_, err := s.Kitchen.UpdateItemStatus(context.Background(), item, models.StatusServed)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	assert.Zero(t, atomic.LoadInt32(hits))
}

func TestKitchenAdvance_LegacySpelling(t *testing.T) {
	s, _ := newTestServices(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/kitchen/items/3/status", r.URL.Path)
		b, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"status":"prepared"}`, string(b))
		reply(http.StatusOK, `{"id":3,"status":"prepared"}`)(w, r)
	})
	out, err := s.Kitchen.Advance(context.Background(), models.KitchenOrderItem{ID: 3, Status: "prepairing"})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPrepared, out.Status)
}

func TestStaffMutations_DoNotLogOut(t *testing.T) {
	var authFailures int32
	errs := apperr.NewHandler(nil, apperr.WithAuthFailure(func() { atomic.AddInt32(&authFailures, 1) }))
	s, _ := newTestServices(t, reply(http.StatusUnauthorized, `{"error":"token expired"}`), api.WithErrorHandler(errs))
	ctx := context.Background()

	_, err := s.Waiter.Serve(ctx, 1)
	assert.True(t, apperr.Is(err, apperr.KindAuthentication))
	_, err = s.Kitchen.UpdateItemStatus(ctx, models.KitchenOrderItem{ID: 1, Status: models.StatusPending}, models.StatusPreparing)
	assert.True(t, apperr.Is(err, apperr.KindAuthentication))
	assert.Zero(t, atomic.LoadInt32(&authFailures))

	// an ordinary read does log out
	_, err = s.Orders.Get(ctx, 1)
	assert.True(t, apperr.Is(err, apperr.KindAuthentication))
	assert.Equal(t, int32(1), atomic.LoadInt32(&authFailures))
}

func TestMenuList_LocalFilters(t *testing.T) {
	s, _ := newTestServices(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "mains", r.URL.Query().Get("category"))
		reply(http.StatusOK, `{"count":3,"menu_items":[
			{"id":1,"name":"Dal","category":"mains","dietary_tags":["vegan"]},
			{"id":2,"name":"Korma","category":"mains","allergens":["nuts"],"dietary_tags":["vegan"]},
			{"id":3,"name":"Tikka","category":"mains","allergens":["dairy"]}]}`)(w, r)
	})
	items, err := s.Menu.List(context.Background(), MenuFilter{Category: "mains", DietaryTags: []string{"vegan"}, ExcludeAllergens: []string{"nuts"}})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Dal", items[0].Name)
}

func TestInventoryRestock_RejectsNonPositive(t *testing.T) {
	s, hits := newTestServices(t, reply(http.StatusOK, `{}`))
	_, err := s.Inventory.Restock(context.Background(), 1, 0)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	assert.Zero(t, atomic.LoadInt32(hits))
}

func TestReportsSales_RejectsInvertedRange(t *testing.T) {
	s, hits := newTestServices(t, reply(http.StatusOK, `{}`))
	from := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	_, err := s.Reports.Sales(context.Background(), from, from.AddDate(0, 0, -1))
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	assert.Zero(t, atomic.LoadInt32(hits))
}

func TestEmailChecker_Debounces(t *testing.T) {
	var mu sync.Mutex
	var asked []string
	s, _ := newTestServices(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		asked = append(asked, r.URL.Query().Get("email"))
		mu.Unlock()
		reply(http.StatusOK, `{"available":true}`)(w, r)
	})

	results := make(chan EmailResult, 4)
	checker := s.Auth.NewEmailChecker(30*time.Millisecond, func(r EmailResult) { results <- r })
	defer checker.Stop()

	checker.Check("a@")
	checker.Check("a@ex")
	checker.Check("a@example.com")

	select {
	case r := <-results:
		assert.Equal(t, "a@example.com", r.Email)
		assert.True(t, r.Available)
		assert.NoError(t, r.Err)
	case <-time.After(2 * time.Second):
		t.Fatal("no result")
	}
	mu.Lock()
	assert.Equal(t, []string{"a@example.com"}, asked)
	mu.Unlock()
}

func TestEmailChecker_InvalidAddressNoRequest(t *testing.T) {
	s, hits := newTestServices(t, reply(http.StatusOK, `{"available":true}`))
	results := make(chan EmailResult, 1)
	checker := s.Auth.NewEmailChecker(5*time.Millisecond, func(r EmailResult) { results <- r })
	defer checker.Stop()

	checker.Check("not-an-email")
	r := <-results
	assert.True(t, apperr.Is(r.Err, apperr.KindValidation))
	assert.Zero(t, atomic.LoadInt32(hits))
}
