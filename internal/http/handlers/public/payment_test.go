package public

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hostara-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

func decodeBusinessCode(t *testing.T, body []byte) int {
	t.Helper()
	var resp struct {
		StatusCode int `json:"status_code"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp.StatusCode
}

func TestVerifyPaymentRequiresAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/verify", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	h := &Handler{}
	h.VerifyPayment(c)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	if code := decodeBusinessCode(t, w.Body.Bytes()); code != response.CodeUnauthorized {
		t.Fatalf("expected business code %d, got %d", response.CodeUnauthorized, code)
	}
}

func TestVerifyPaymentRejectIncompletePayload(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/verify", strings.NewReader(`{"razorpay_order_id":"order_x"}`))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Set("user_id", uint(7))

	h := &Handler{}
	h.VerifyPayment(c)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	if code := decodeBusinessCode(t, w.Body.Bytes()); code != response.CodeBadRequest {
		t.Fatalf("expected business code %d, got %d", response.CodeBadRequest, code)
	}
}

func TestCheckoutPaymentRejectInvalidPayload(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/checkout", strings.NewReader(`{"order_id":0}`))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Set("user_id", uint(7))

	h := &Handler{}
	h.CheckoutPayment(c)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	if code := decodeBusinessCode(t, w.Body.Bytes()); code != response.CodeBadRequest {
		t.Fatalf("expected business code %d, got %d", response.CodeBadRequest, code)
	}
}
