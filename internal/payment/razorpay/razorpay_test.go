package razorpay

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
)

func TestVerifyPaymentSignature(t *testing.T) {
	cfg := &Config{KeyID: "rzp_test_key", KeySecret: "secret_abc"}

	sig := Sign("order_test_1|pay_test_1", cfg.KeySecret)
	if err := VerifyPaymentSignature(cfg, "order_test_1", "pay_test_1", sig); err != nil {
		t.Fatalf("valid signature rejected: %v", err)
	}

	if err := VerifyPaymentSignature(cfg, "order_test_1", "pay_test_1", "deadbeef"); err == nil {
		t.Fatal("invalid signature accepted")
	}
	if err := VerifyPaymentSignature(cfg, "order_test_2", "pay_test_1", sig); err == nil {
		t.Fatal("signature for other order accepted")
	}
	if err := VerifyPaymentSignature(cfg, "order_test_1", "pay_test_1", ""); err == nil {
		t.Fatal("empty signature accepted")
	}
}

func TestVerifyWebhookSignature(t *testing.T) {
	cfg := &Config{KeyID: "rzp_test_key", KeySecret: "secret_abc", WebhookSecret: "whsec_abc"}
	body := []byte(`{"event":"payment.captured"}`)

	sig := Sign(string(body), cfg.WebhookSecret)
	if err := VerifyWebhookSignature(cfg, body, sig); err != nil {
		t.Fatalf("valid webhook signature rejected: %v", err)
	}
	if err := VerifyWebhookSignature(cfg, []byte(`{"event":"tampered"}`), sig); err == nil {
		t.Fatal("tampered body accepted")
	}
	if err := VerifyWebhookSignature(&Config{}, body, sig); err == nil {
		t.Fatal("missing webhook secret accepted")
	}
}

func TestToSubunits(t *testing.T) {
	cases := []struct {
		amount string
		want   int64
	}{
		{"864.00", 86400},
		{"0.01", 1},
		{"1234.56", 123456},
	}
	for _, tc := range cases {
		amount, err := decimal.NewFromString(tc.amount)
		if err != nil {
			t.Fatalf("parse amount failed: %v", err)
		}
		if got := ToSubunits(amount); got != tc.want {
			t.Fatalf("ToSubunits(%s) = %d, want %d", tc.amount, got, tc.want)
		}
	}
}

func TestCreateOrderSendsSubunitsAndBasicAuth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/orders" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != "rzp_test_key" || pass != "secret_abc" {
			t.Fatalf("unexpected basic auth: %s:%s", user, pass)
		}
		var params map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
			t.Fatalf("decode request failed: %v", err)
		}
		if params["amount"] != float64(86400) {
			t.Fatalf("unexpected amount: %v", params["amount"])
		}
		if params["receipt"] != "HA-20260831-0001" {
			t.Fatalf("unexpected receipt: %v", params["receipt"])
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"id":       "order_test_1",
			"amount":   86400,
			"currency": "INR",
			"receipt":  "HA-20260831-0001",
			"status":   "created",
		})
	}))
	defer server.Close()

	cfg := &Config{KeyID: "rzp_test_key", KeySecret: "secret_abc", BaseURL: server.URL}
	order, err := CreateOrder(context.Background(), cfg, CreateOrderInput{
		Amount:   decimal.RequireFromString("864.00"),
		Currency: "INR",
		Receipt:  "HA-20260831-0001",
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	if order.ID != "order_test_1" {
		t.Fatalf("unexpected order id: %s", order.ID)
	}
	if order.Amount != 86400 {
		t.Fatalf("unexpected amount: %d", order.Amount)
	}
}

func TestCreateOrderSurfacesGatewayError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]interface{}{
				"code":        "BAD_REQUEST_ERROR",
				"description": "amount must be at least 100",
			},
		})
	}))
	defer server.Close()

	cfg := &Config{KeyID: "rzp_test_key", KeySecret: "secret_abc", BaseURL: server.URL}
	_, err := CreateOrder(context.Background(), cfg, CreateOrderInput{
		Amount:   decimal.RequireFromString("0.50"),
		Currency: "INR",
		Receipt:  "HA-20260831-0002",
	})
	if err == nil {
		t.Fatal("expected gateway error")
	}
}

func TestFetchPayment(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/payments/pay_test_1" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"id":       "pay_test_1",
			"order_id": "order_test_1",
			"amount":   86400,
			"currency": "INR",
			"status":   PaymentStatusCaptured,
			"method":   "upi",
		})
	}))
	defer server.Close()

	cfg := &Config{KeyID: "rzp_test_key", KeySecret: "secret_abc", BaseURL: server.URL}
	payment, err := FetchPayment(context.Background(), cfg, "pay_test_1")
	if err != nil {
		t.Fatalf("fetch payment failed: %v", err)
	}
	if payment.Status != PaymentStatusCaptured {
		t.Fatalf("unexpected status: %s", payment.Status)
	}
	if payment.OrderID != "order_test_1" {
		t.Fatalf("unexpected order id: %s", payment.OrderID)
	}
}

func TestParseWebhookEvent(t *testing.T) {
	body := []byte(`{
		"event": "payment.captured",
		"payload": {
			"payment": {
				"entity": {
					"id": "pay_test_1",
					"order_id": "order_test_1",
					"amount": 86400,
					"currency": "INR",
					"status": "captured"
				}
			}
		}
	}`)

	event, err := ParseWebhookEvent(body)
	if err != nil {
		t.Fatalf("parse webhook failed: %v", err)
	}
	if event.Event != "payment.captured" {
		t.Fatalf("unexpected event: %s", event.Event)
	}
	if event.Payload.Payment.Entity.ID != "pay_test_1" {
		t.Fatalf("unexpected payment id: %s", event.Payload.Payment.Entity.ID)
	}

	if _, err := ParseWebhookEvent([]byte(`{}`)); err == nil {
		t.Fatal("expected error for missing event type")
	}
}
