package service

import (
	"strings"
	"time"

	"github.com/hostara-next/internal/config"

	"github.com/mojocn/base64Captcha"
)

// CaptchaImageChallenge 图片验证码挑战
type CaptchaImageChallenge struct {
	CaptchaID   string `json:"captcha_id"`
	ImageBase64 string `json:"image_base64"`
}

// CaptchaVerifyPayload 验证码校验请求载荷
type CaptchaVerifyPayload struct {
	CaptchaID   string `json:"captcha_id"`
	CaptchaCode string `json:"captcha_code"`
}

// CaptchaService 图片验证码服务;登录场景可按配置关闭
type CaptchaService struct {
	cfg   config.CaptchaConfig
	store base64Captcha.Store
}

// NewCaptchaService 创建验证码服务
func NewCaptchaService(cfg config.CaptchaConfig) *CaptchaService {
	maxStore := cfg.MaxStore
	if maxStore <= 0 {
		maxStore = 10240
	}
	expireSec := cfg.ExpireSeconds
	if expireSec <= 0 {
		expireSec = 300
	}
	return &CaptchaService{
		cfg:   cfg,
		store: base64Captcha.NewMemoryStore(maxStore, time.Duration(expireSec)*time.Second),
	}
}

// LoginRequired 登录是否需要验证码
func (s *CaptchaService) LoginRequired() bool {
	return s != nil && s.cfg.LoginEnabled
}

// GenerateImageChallenge 生成图片验证码
func (s *CaptchaService) GenerateImageChallenge() (*CaptchaImageChallenge, error) {
	driver := base64Captcha.NewDriverString(
		positive(s.cfg.Height, 60),
		positive(s.cfg.Width, 200),
		s.cfg.NoiseCount,
		s.cfg.ShowLine,
		positive(s.cfg.Length, 5),
		"0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ",
		nil,
		base64Captcha.DefaultEmbeddedFonts,
		nil,
	)
	captcha := base64Captcha.NewCaptcha(driver, s.store)
	id, b64s, _, err := captcha.Generate()
	if err != nil {
		return nil, err
	}
	return &CaptchaImageChallenge{
		CaptchaID:   strings.TrimSpace(id),
		ImageBase64: strings.TrimSpace(b64s),
	}, nil
}

// Verify 校验登录验证码;未启用时直接放行
func (s *CaptchaService) Verify(payload CaptchaVerifyPayload) error {
	if !s.LoginRequired() {
		return nil
	}
	captchaID := strings.TrimSpace(payload.CaptchaID)
	captchaCode := strings.TrimSpace(payload.CaptchaCode)
	if captchaID == "" || captchaCode == "" {
		return ErrCaptchaRequired
	}
	if !s.store.Verify(captchaID, captchaCode, true) {
		return ErrCaptchaInvalid
	}
	return nil
}

func positive(v, fallback int) int {
	if v > 0 {
		return v
	}
	return fallback
}
