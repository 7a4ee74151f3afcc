package razorpay

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrConfigInvalid    = errors.New("razorpay config invalid")
	ErrRequestFailed    = errors.New("razorpay request failed")
	ErrResponseInvalid  = errors.New("razorpay response invalid")
	ErrSignatureInvalid = errors.New("razorpay signature invalid")
)

// DefaultBaseURL Razorpay API 地址
const DefaultBaseURL = "https://api.razorpay.com/v1"

// 支付状态常量（网关侧）
const (
	PaymentStatusCaptured   = "captured"
	PaymentStatusAuthorized = "authorized"
	PaymentStatusFailed     = "failed"
)

// Config Razorpay 配置
type Config struct {
	KeyID         string `json:"key_id"`         // API Key ID
	KeySecret     string `json:"key_secret"`     // API Key Secret
	WebhookSecret string `json:"webhook_secret"` // Webhook 签名密钥
	BaseURL       string `json:"base_url"`       // API 地址,默认官方网关
	TimeoutMS     int    `json:"timeout_ms"`     // 请求超时,默认 15s
}

// CreateOrderInput 创建网关订单输入
type CreateOrderInput struct {
	Amount   decimal.Decimal // 订单金额（主币单位,内部转为最小单位）
	Currency string
	Receipt  string
	Notes    map[string]string
}

// GatewayOrder 网关订单
type GatewayOrder struct {
	ID         string                 `json:"id"`
	Amount     int64                  `json:"amount"`
	AmountPaid int64                  `json:"amount_paid"`
	AmountDue  int64                  `json:"amount_due"`
	Currency   string                 `json:"currency"`
	Receipt    string                 `json:"receipt"`
	Status     string                 `json:"status"`
	Attempts   int                    `json:"attempts"`
	CreatedAt  int64                  `json:"created_at"`
	Notes      map[string]interface{} `json:"notes"`
}

// GatewayPayment 网关支付单
type GatewayPayment struct {
	ID               string `json:"id"`
	OrderID          string `json:"order_id"`
	Amount           int64  `json:"amount"`
	Currency         string `json:"currency"`
	Status           string `json:"status"`
	Method           string `json:"method"`
	Email            string `json:"email"`
	Contact          string `json:"contact"`
	ErrorCode        string `json:"error_code"`
	ErrorDescription string `json:"error_description"`
	CreatedAt        int64  `json:"created_at"`
}

// ValidateConfig 校验配置
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("%w: config is nil", ErrConfigInvalid)
	}
	if strings.TrimSpace(cfg.KeyID) == "" {
		return fmt.Errorf("%w: key_id is required", ErrConfigInvalid)
	}
	if strings.TrimSpace(cfg.KeySecret) == "" {
		return fmt.Errorf("%w: key_secret is required", ErrConfigInvalid)
	}
	return nil
}

func (c *Config) baseURL() string {
	base := strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if base == "" {
		return DefaultBaseURL
	}
	return base
}

func (c *Config) timeout() time.Duration {
	if c.TimeoutMS <= 0 {
		return 15 * time.Second
	}
	return time.Duration(c.TimeoutMS) * time.Millisecond
}

// ToSubunits 将主币金额转为网关要求的最小货币单位（INR 为 paise）
func ToSubunits(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// CreateOrder 创建网关订单
func CreateOrder(ctx context.Context, cfg *Config, input CreateOrderInput) (*GatewayOrder, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	if input.Receipt == "" || input.Currency == "" {
		return nil, fmt.Errorf("%w: receipt and currency are required", ErrConfigInvalid)
	}
	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: amount must be positive", ErrConfigInvalid)
	}

	params := map[string]interface{}{
		"amount":   ToSubunits(input.Amount),
		"currency": input.Currency,
		"receipt":  input.Receipt,
	}
	if len(input.Notes) > 0 {
		params["notes"] = input.Notes
	}

	respBytes, err := doRequest(ctx, cfg, http.MethodPost, "/orders", params)
	if err != nil {
		return nil, err
	}

	var order GatewayOrder
	if err := json.Unmarshal(respBytes, &order); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrResponseInvalid, err)
	}
	if order.ID == "" {
		return nil, fmt.Errorf("%w: missing order id", ErrResponseInvalid)
	}
	return &order, nil
}

// FetchPayment 查询网关支付单
func FetchPayment(ctx context.Context, cfg *Config, paymentID string) (*GatewayPayment, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	if strings.TrimSpace(paymentID) == "" {
		return nil, fmt.Errorf("%w: payment id is required", ErrConfigInvalid)
	}

	respBytes, err := doRequest(ctx, cfg, http.MethodGet, "/payments/"+paymentID, nil)
	if err != nil {
		return nil, err
	}

	var payment GatewayPayment
	if err := json.Unmarshal(respBytes, &payment); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrResponseInvalid, err)
	}
	if payment.ID == "" {
		return nil, fmt.Errorf("%w: missing payment id", ErrResponseInvalid)
	}
	return &payment, nil
}

// VerifyPaymentSignature 验证前端回传的支付签名。
// 签名规则：HMAC-SHA256(order_id + "|" + payment_id, key_secret) 的十六进制小写。
func VerifyPaymentSignature(cfg *Config, gatewayOrderID, gatewayPaymentID, signature string) error {
	if cfg == nil || strings.TrimSpace(cfg.KeySecret) == "" {
		return ErrConfigInvalid
	}
	if gatewayOrderID == "" || gatewayPaymentID == "" || signature == "" {
		return ErrSignatureInvalid
	}
	payload := gatewayOrderID + "|" + gatewayPaymentID
	if !hmacEqual(payload, cfg.KeySecret, signature) {
		return ErrSignatureInvalid
	}
	return nil
}

// VerifyWebhookSignature 验证 Webhook 签名。
// 签名规则：HMAC-SHA256(原始请求体, webhook_secret) 的十六进制小写,来自 X-Razorpay-Signature 头。
func VerifyWebhookSignature(cfg *Config, body []byte, signature string) error {
	if cfg == nil || strings.TrimSpace(cfg.WebhookSecret) == "" {
		return ErrConfigInvalid
	}
	if len(body) == 0 || signature == "" {
		return ErrSignatureInvalid
	}
	if !hmacEqual(string(body), cfg.WebhookSecret, signature) {
		return ErrSignatureInvalid
	}
	return nil
}

// Sign 按网关规则生成签名,测试与回调构造用
func Sign(payload, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}

func hmacEqual(payload, secret, signature string) bool {
	expected := Sign(payload, secret)
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(strings.TrimSpace(signature))))
}

// WebhookEvent Webhook 事件
type WebhookEvent struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity GatewayPayment `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

// ParseWebhookEvent 解析 Webhook 事件体
func ParseWebhookEvent(body []byte) (*WebhookEvent, error) {
	if len(body) == 0 {
		return nil, ErrResponseInvalid
	}
	var event WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrResponseInvalid, err)
	}
	if event.Event == "" {
		return nil, fmt.Errorf("%w: missing event type", ErrResponseInvalid)
	}
	return &event, nil
}

func doRequest(ctx context.Context, cfg *Config, method, path string, params map[string]interface{}) ([]byte, error) {
	var reqBody io.Reader
	if params != nil {
		body, err := json.Marshal(params)
		if err != nil {
			return nil, err
		}
		reqBody = strings.NewReader(string(body))
	}

	req, err := http.NewRequestWithContext(ctx, method, cfg.baseURL()+path, reqBody)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(cfg.KeyID, cfg.KeySecret)
	if params != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	client := &http.Client{Timeout: cfg.timeout()}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr struct {
			Error struct {
				Code        string `json:"code"`
				Description string `json:"description"`
			} `json:"error"`
		}
		if json.Unmarshal(respBytes, &apiErr) == nil && apiErr.Error.Description != "" {
			return nil, fmt.Errorf("%w: %s (%s)", ErrRequestFailed, apiErr.Error.Description, apiErr.Error.Code)
		}
		return nil, fmt.Errorf("%w: status %d", ErrRequestFailed, resp.StatusCode)
	}
	return respBytes, nil
}
