package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"deepshop/cache"
	"deepshop/gateway"
	"deepshop/middleware"
	"deepshop/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap/zaptest"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type checkoutEnv struct {
	handler *CheckoutHandler
	router  *gin.Engine
	orders  *fakeOrderStore
	carts   *fakeCartStore
	pending *fakePendingStore
	events  *fakePublisher
}

func newCheckoutEnv(t *testing.T, cfg models.SiteConfig, user *models.User) *checkoutEnv {
	t.Helper()

	env := &checkoutEnv{
		orders:  &fakeOrderStore{},
		carts:   newFakeCartStore(),
		pending: newFakePendingStore(),
		events:  &fakePublisher{},
	}

	gw := gateway.New("https://shop.bkash.com/pay", "01778953114", "https://deepshop.example/checkout/callback", 300)
	env.handler = NewCheckoutHandler(
		env.orders,
		&fakeConfigStore{cfg: cfg},
		env.carts,
		env.pending,
		gw,
		env.events,
		zaptest.NewLogger(t),
	)

	env.router = gin.New()
	env.router.Use(func(c *gin.Context) {
		middleware.SetUser(c, user)
		c.Next()
	})
	env.router.GET("/checkout/modes", env.handler.GetModes)
	env.router.POST("/checkout/advance", env.handler.InitiateAdvance)
	env.router.GET("/checkout/advance/callback", env.handler.AdvanceCallback)
	env.router.POST("/checkout/nid", env.handler.CheckoutNID)
	env.router.POST("/checkout/cod", env.handler.CheckoutCOD)
	return env
}

func testBuyer() *models.User {
	return &models.User{UID: "uid-buyer-1", Name: "Rahim Uddin", Email: "rahim@example.com"}
}

func testCart() []models.CartItem {
	return []models.CartItem{
		{ProductID: "p1", Name: "Gaming Mouse", Price: 1000, Quantity: 2, SellerID: "seller-1"},
		{ProductID: "p2", Name: "Mouse Pad", Price: 500, Quantity: 1, SellerID: "seller-1"},
	}
}

func postJSON(router *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	data, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func validAddress() map[string]string {
	return map[string]string{
		"fullName":    "Rahim Uddin",
		"phone":       "01712345678",
		"fullAddress": "House 12, Road 5, Dhanmondi, Dhaka",
	}
}

func TestResolveModes(t *testing.T) {
	tests := []struct {
		name        string
		advance     bool
		nid         bool
		cod         bool
		wantModes   []models.VerificationType
		wantDefault models.VerificationType
	}{
		{
			name:        "all disabled falls back to none",
			wantModes:   []models.VerificationType{models.VerificationNone},
			wantDefault: models.VerificationNone,
		},
		{
			name:        "cod only",
			cod:         true,
			wantModes:   []models.VerificationType{models.VerificationNone},
			wantDefault: models.VerificationNone,
		},
		{
			name:        "advance only",
			advance:     true,
			wantModes:   []models.VerificationType{models.VerificationAdvance},
			wantDefault: models.VerificationAdvance,
		},
		{
			name:        "nid only",
			nid:         true,
			wantModes:   []models.VerificationType{models.VerificationNID},
			wantDefault: models.VerificationNID,
		},
		{
			name:        "advance and cod",
			advance:     true,
			cod:         true,
			wantModes:   []models.VerificationType{models.VerificationAdvance, models.VerificationNone},
			wantDefault: models.VerificationAdvance,
		},
		{
			name:        "nid and cod",
			nid:         true,
			cod:         true,
			wantModes:   []models.VerificationType{models.VerificationNID, models.VerificationNone},
			wantDefault: models.VerificationNID,
		},
		{
			name:        "advance beats nid as default",
			advance:     true,
			nid:         true,
			wantModes:   []models.VerificationType{models.VerificationAdvance, models.VerificationNID},
			wantDefault: models.VerificationAdvance,
		},
		{
			name:        "everything enabled",
			advance:     true,
			nid:         true,
			cod:         true,
			wantModes:   []models.VerificationType{models.VerificationAdvance, models.VerificationNID, models.VerificationNone},
			wantDefault: models.VerificationAdvance,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &models.SiteConfig{
				AdvanceRequired: tt.advance,
				NIDRequired:     tt.nid,
				CODEnabled:      tt.cod,
			}
			modes, def := ResolveModes(cfg)
			if !reflect.DeepEqual(modes, tt.wantModes) {
				t.Errorf("modes = %v, want %v", modes, tt.wantModes)
			}
			if def != tt.wantDefault {
				t.Errorf("default = %v, want %v", def, tt.wantDefault)
			}
		})
	}
}

func TestGetModes(t *testing.T) {
	env := newCheckoutEnv(t, models.SiteConfig{AdvanceRequired: true, CODEnabled: true}, testBuyer())

	req := httptest.NewRequest(http.MethodGet, "/checkout/modes", nil)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	var resp struct {
		Modes         []string `json:"modes"`
		Default       string   `json:"default"`
		AdvanceAmount float64  `json:"advanceAmount"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !reflect.DeepEqual(resp.Modes, []string{"advance", "none"}) {
		t.Errorf("modes = %v, want [advance none]", resp.Modes)
	}
	if resp.Default != "advance" {
		t.Errorf("default = %q, want advance", resp.Default)
	}
	if resp.AdvanceAmount != 300 {
		t.Errorf("advanceAmount = %v, want 300", resp.AdvanceAmount)
	}
}

func TestInitiateAdvance_MissingFieldsHasNoSideEffects(t *testing.T) {
	env := newCheckoutEnv(t, models.SiteConfig{AdvanceRequired: true}, testBuyer())
	env.carts.Put(context.Background(), "uid-buyer-1", testCart())

	w := postJSON(env.router, "/checkout/advance", map[string]string{"fullName": "Rahim Uddin"})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
	if len(env.pending.entries) != 0 {
		t.Errorf("pending entries = %d, want 0", len(env.pending.entries))
	}
	if len(env.orders.orders) != 0 {
		t.Errorf("orders = %d, want 0", len(env.orders.orders))
	}
}

func TestInitiateAdvance_ModeDisabled(t *testing.T) {
	env := newCheckoutEnv(t, models.SiteConfig{CODEnabled: true}, testBuyer())
	env.carts.Put(context.Background(), "uid-buyer-1", testCart())

	w := postJSON(env.router, "/checkout/advance", validAddress())

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
	if len(env.pending.entries) != 0 {
		t.Errorf("pending entries = %d, want 0", len(env.pending.entries))
	}
}

func TestInitiateAdvance_EmptyCart(t *testing.T) {
	env := newCheckoutEnv(t, models.SiteConfig{AdvanceRequired: true}, testBuyer())

	w := postJSON(env.router, "/checkout/advance", validAddress())

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
	if len(env.pending.entries) != 0 {
		t.Errorf("pending entries = %d, want 0", len(env.pending.entries))
	}
}

func TestInitiateAdvance_StoresPendingAndReturnsRedirect(t *testing.T) {
	env := newCheckoutEnv(t, models.SiteConfig{AdvanceRequired: true}, testBuyer())
	env.carts.Put(context.Background(), "uid-buyer-1", testCart())

	w := postJSON(env.router, "/checkout/advance", validAddress())

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", w.Code, http.StatusOK, w.Body.String())
	}
	var resp struct {
		RedirectURL string `json:"redirectUrl"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.RedirectURL == "" {
		t.Fatal("expected a redirect URL")
	}

	pending, ok := env.pending.entries["uid-buyer-1"]
	if !ok {
		t.Fatal("expected a pending checkout for the buyer")
	}
	if pending.Address.Phone != "01712345678" {
		t.Errorf("pending phone = %q, want 01712345678", pending.Address.Phone)
	}
	if pending.IdempotencyKey == "" {
		t.Error("expected a non-empty idempotency key")
	}
	if len(env.orders.orders) != 0 {
		t.Errorf("orders = %d, want 0 before the callback", len(env.orders.orders))
	}
}

func TestAdvanceCallback_SuccessCreatesOneOrder(t *testing.T) {
	env := newCheckoutEnv(t, models.SiteConfig{AdvanceRequired: true}, testBuyer())
	env.carts.Put(context.Background(), "uid-buyer-1", testCart())
	env.pending.Put(context.Background(), cache.PendingCheckout{
		UserID: "uid-buyer-1",
		Address: models.Address{
			FullName:    "Rahim Uddin",
			FullAddress: "House 12, Road 5, Dhanmondi, Dhaka",
			Phone:       "01712345678",
		},
		IdempotencyKey: "key-1",
	})

	req := httptest.NewRequest(http.MethodGet, "/checkout/advance/callback?status=success&trxid=ABC123", nil)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d: %s", w.Code, http.StatusCreated, w.Body.String())
	}
	if len(env.orders.orders) != 1 {
		t.Fatalf("orders = %d, want 1", len(env.orders.orders))
	}

	order := env.orders.orders[0]
	if order.TotalAmount != 2500 {
		t.Errorf("totalAmount = %v, want 2500", order.TotalAmount)
	}
	if order.AdvancePaid != 300 {
		t.Errorf("advancePaid = %v, want 300", order.AdvancePaid)
	}
	if order.TransactionID != "ABC123" {
		t.Errorf("transactionId = %q, want ABC123", order.TransactionID)
	}
	if order.PaymentMethod != "bkash" {
		t.Errorf("paymentMethod = %q, want bkash", order.PaymentMethod)
	}
	if order.VerificationType != models.VerificationAdvance {
		t.Errorf("verificationType = %q, want advance", order.VerificationType)
	}
	if order.Status != models.OrderStatusPending {
		t.Errorf("status = %q, want pending", order.Status)
	}
	if order.SellerID != "seller-1" {
		t.Errorf("sellerId = %q, want seller-1", order.SellerID)
	}

	if items, _ := env.carts.Get(context.Background(), "uid-buyer-1"); len(items) != 0 {
		t.Errorf("cart items after checkout = %d, want 0", len(items))
	}
	if len(env.pending.entries) != 0 {
		t.Errorf("pending entries after callback = %d, want 0", len(env.pending.entries))
	}
	if len(env.events.events) != 1 {
		t.Fatalf("published events = %d, want 1", len(env.events.events))
	}
	event, ok := env.events.events[0].(models.OrderEvent)
	if !ok {
		t.Fatalf("event type = %T, want models.OrderEvent", env.events.events[0])
	}
	if event.EventType != "order_created" {
		t.Errorf("eventType = %q, want order_created", event.EventType)
	}
	if event.TotalAmount != 2500 {
		t.Errorf("event totalAmount = %v, want 2500", event.TotalAmount)
	}
}

func TestAdvanceCallback_ReplayDoesNotDuplicate(t *testing.T) {
	env := newCheckoutEnv(t, models.SiteConfig{AdvanceRequired: true}, testBuyer())
	env.carts.Put(context.Background(), "uid-buyer-1", testCart())
	env.pending.Put(context.Background(), cache.PendingCheckout{
		UserID:         "uid-buyer-1",
		Address:        models.Address{FullName: "Rahim Uddin", FullAddress: "Dhanmondi, Dhaka", Phone: "01712345678"},
		IdempotencyKey: "key-1",
	})

	first := httptest.NewRequest(http.MethodGet, "/checkout/advance/callback?status=success&trxid=ABC123", nil)
	w1 := httptest.NewRecorder()
	env.router.ServeHTTP(w1, first)
	if w1.Code != http.StatusCreated {
		t.Fatalf("first callback status = %d, want %d", w1.Code, http.StatusCreated)
	}

	replay := httptest.NewRequest(http.MethodGet, "/checkout/advance/callback?status=success&trxid=ABC123", nil)
	w2 := httptest.NewRecorder()
	env.router.ServeHTTP(w2, replay)

	if w2.Code != http.StatusConflict {
		t.Fatalf("replayed callback status = %d, want %d", w2.Code, http.StatusConflict)
	}
	if len(env.orders.orders) != 1 {
		t.Errorf("orders after replay = %d, want 1", len(env.orders.orders))
	}
}

func TestAdvanceCallback_NotCompleted(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"missing status", "trxid=ABC123"},
		{"failed status", "status=failed&trxid=ABC123"},
		{"success without trxid", "status=success"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newCheckoutEnv(t, models.SiteConfig{AdvanceRequired: true}, testBuyer())
			env.carts.Put(context.Background(), "uid-buyer-1", testCart())
			env.pending.Put(context.Background(), cache.PendingCheckout{
				UserID:         "uid-buyer-1",
				Address:        models.Address{FullName: "Rahim Uddin", FullAddress: "Dhaka", Phone: "01712345678"},
				IdempotencyKey: "key-1",
			})

			req := httptest.NewRequest(http.MethodGet, "/checkout/advance/callback?"+tt.query, nil)
			w := httptest.NewRecorder()
			env.router.ServeHTTP(w, req)

			if w.Code != http.StatusOK {
				t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
			}
			if len(env.orders.orders) != 0 {
				t.Errorf("orders = %d, want 0", len(env.orders.orders))
			}
			// The buyer can retry, so the pending entry survives.
			if len(env.pending.entries) != 1 {
				t.Errorf("pending entries = %d, want 1", len(env.pending.entries))
			}
		})
	}
}

func TestCheckoutNID_MissingGuardianFields(t *testing.T) {
	env := newCheckoutEnv(t, models.SiteConfig{NIDRequired: true}, testBuyer())
	env.carts.Put(context.Background(), "uid-buyer-1", testCart())

	body := validAddress()
	body["parentType"] = "Mother"
	// parentName and parentPhone omitted.
	w := postJSON(env.router, "/checkout/nid", body)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
	if len(env.orders.orders) != 0 {
		t.Errorf("orders = %d, want 0", len(env.orders.orders))
	}
	if items, _ := env.carts.Get(context.Background(), "uid-buyer-1"); len(items) != 2 {
		t.Errorf("cart items = %d, want untouched cart of 2", len(items))
	}
}

func TestCheckoutNID_RejectsUnknownParentType(t *testing.T) {
	env := newCheckoutEnv(t, models.SiteConfig{NIDRequired: true}, testBuyer())
	env.carts.Put(context.Background(), "uid-buyer-1", testCart())

	body := validAddress()
	body["parentType"] = "Uncle"
	body["parentName"] = "Karim Uddin"
	body["parentPhone"] = "01898765432"
	w := postJSON(env.router, "/checkout/nid", body)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
	if len(env.orders.orders) != 0 {
		t.Errorf("orders = %d, want 0", len(env.orders.orders))
	}
}

func TestCheckoutNID_Success(t *testing.T) {
	env := newCheckoutEnv(t, models.SiteConfig{NIDRequired: true}, testBuyer())
	env.carts.Put(context.Background(), "uid-buyer-1", testCart())

	body := validAddress()
	body["parentType"] = "Father"
	body["parentName"] = "Karim Uddin"
	body["parentPhone"] = "01898765432"
	w := postJSON(env.router, "/checkout/nid", body)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d: %s", w.Code, http.StatusCreated, w.Body.String())
	}
	if len(env.orders.orders) != 1 {
		t.Fatalf("orders = %d, want 1", len(env.orders.orders))
	}

	order := env.orders.orders[0]
	if order.VerificationType != models.VerificationNID {
		t.Errorf("verificationType = %q, want nid", order.VerificationType)
	}
	if order.AdvancePaid != 0 {
		t.Errorf("advancePaid = %v, want 0", order.AdvancePaid)
	}
	if order.PaymentMethod != "cod" {
		t.Errorf("paymentMethod = %q, want cod", order.PaymentMethod)
	}
	if order.ParentInfo == nil {
		t.Fatal("expected parentInfo on the order")
	}
	if order.ParentInfo.ParentType != "Father" || order.ParentInfo.ParentName != "Karim Uddin" {
		t.Errorf("parentInfo = %+v, want Father / Karim Uddin", order.ParentInfo)
	}
}

func TestCheckoutCOD_AllowedWhenNothingConfigured(t *testing.T) {
	// With every flag off the storefront still has to sell, so plain COD
	// is the forced fallback.
	env := newCheckoutEnv(t, models.SiteConfig{}, testBuyer())
	env.carts.Put(context.Background(), "uid-buyer-1", testCart())

	w := postJSON(env.router, "/checkout/cod", validAddress())

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d: %s", w.Code, http.StatusCreated, w.Body.String())
	}
	if len(env.orders.orders) != 1 {
		t.Fatalf("orders = %d, want 1", len(env.orders.orders))
	}
	order := env.orders.orders[0]
	if order.VerificationType != models.VerificationNone {
		t.Errorf("verificationType = %q, want none", order.VerificationType)
	}
	if order.TotalAmount != 2500 {
		t.Errorf("totalAmount = %v, want 2500", order.TotalAmount)
	}
}

func TestCheckoutCOD_DisabledWhenVerificationRequired(t *testing.T) {
	env := newCheckoutEnv(t, models.SiteConfig{AdvanceRequired: true}, testBuyer())
	env.carts.Put(context.Background(), "uid-buyer-1", testCart())

	w := postJSON(env.router, "/checkout/cod", validAddress())

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
	if len(env.orders.orders) != 0 {
		t.Errorf("orders = %d, want 0", len(env.orders.orders))
	}
}

func TestCheckoutCOD_MixedSellersLeaveSellerIDEmpty(t *testing.T) {
	env := newCheckoutEnv(t, models.SiteConfig{CODEnabled: true}, testBuyer())
	env.carts.Put(context.Background(), "uid-buyer-1", []models.CartItem{
		{ProductID: "p1", Name: "Gaming Mouse", Price: 1000, Quantity: 1, SellerID: "seller-1"},
		{ProductID: "p3", Name: "USB Hub", Price: 700, Quantity: 1, SellerID: "seller-2"},
	})

	w := postJSON(env.router, "/checkout/cod", validAddress())

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusCreated)
	}
	if env.orders.orders[0].SellerID != "" {
		t.Errorf("sellerId = %q, want empty for a mixed cart", env.orders.orders[0].SellerID)
	}
}
