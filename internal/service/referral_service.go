package service

import (
	"time"

	"github.com/hostara-next/internal/config"
	"github.com/hostara-next/internal/constants"
	"github.com/hostara-next/internal/logger"
	"github.com/hostara-next/internal/models"
	"github.com/hostara-next/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ReferralService 推广佣金服务
type ReferralService struct {
	userRepo     repository.UserRepository
	referralRepo repository.ReferralRepository
	cfg          config.ReferralConfig
}

// NewReferralService 创建推广佣金服务
func NewReferralService(userRepo repository.UserRepository, referralRepo repository.ReferralRepository, cfg config.ReferralConfig) *ReferralService {
	return &ReferralService{
		userRepo:     userRepo,
		referralRepo: referralRepo,
		cfg:          cfg,
	}
}

// levelRates 返回生效的各级佣金比例。
// 累计比例不得超过 max_total_percent,超出部分的层级直接跳过。
func (s *ReferralService) levelRates() []decimal.Decimal {
	maxTotal := decimal.NewFromFloat(s.cfg.MaxTotalPercent)
	if maxTotal.LessThanOrEqual(decimal.Zero) {
		maxTotal = decimal.NewFromInt(20)
	}
	rates := make([]decimal.Decimal, 0, len(s.cfg.LevelRates))
	running := decimal.Zero
	for _, raw := range s.cfg.LevelRates {
		rate := decimal.NewFromFloat(raw)
		if rate.LessThanOrEqual(decimal.Zero) {
			continue
		}
		if running.Add(rate).GreaterThan(maxTotal) {
			continue
		}
		running = running.Add(rate)
		rates = append(rates, rate)
	}
	return rates
}

// FanOutForOrder 订单完成后派发多级佣金;必须在订单完成事务内调用。
// 沿 referred_by_id 向上逐级创建 pending 佣金记录,遇到以下情况正常终止:
// 比例表用尽、无推荐人、推荐人记录缺失、用户 ID 重复出现（环保护）。
func (s *ReferralService) FanOutForOrder(tx *gorm.DB, order *models.Order, paidAt time.Time) error {
	if !s.cfg.Enabled {
		return nil
	}
	rates := s.levelRates()
	if len(rates) == 0 {
		return nil
	}

	userRepo := s.userRepo.WithTx(tx)
	referralRepo := s.referralRepo.WithTx(tx)

	exists, err := referralRepo.ExistsByOrder(order.ID)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	buyer, err := userRepo.GetByID(order.UserID)
	if err != nil {
		return err
	}
	if buyer == nil {
		return nil
	}

	// 佣金一律先落 pending,confirm_days 为 0 时立即到期,由确认任务翻转为可提现。
	due := paidAt
	if s.cfg.ConfirmDays > 0 {
		due = paidAt.Add(time.Duration(s.cfg.ConfirmDays) * 24 * time.Hour)
	}
	availableAt := &due
	status := constants.ReferralEarningStatusPending

	seen := map[uint]bool{buyer.ID: true}
	current := buyer
	for level := 1; level <= len(rates); level++ {
		if current.ReferredByID == nil {
			break
		}
		referrerID := *current.ReferredByID
		if seen[referrerID] {
			logger.SW().Warnw("推荐链存在环,终止佣金派发", "order_id", order.ID, "user_id", referrerID)
			break
		}
		referrer, err := userRepo.GetByID(referrerID)
		if err != nil {
			return err
		}
		if referrer == nil {
			break
		}

		rate := rates[level-1]
		commission := order.GrandTotal.Decimal.Mul(rate).Div(decimal.NewFromInt(100)).Round(2)
		earning := &models.ReferralEarning{
			UserID:           referrer.ID,
			ReferredUserID:   buyer.ID,
			OrderID:          order.ID,
			Level:            level,
			RatePercent:      models.NewMoneyFromDecimal(rate),
			OrderAmount:      order.GrandTotal,
			CommissionAmount: models.NewMoneyFromDecimal(commission),
			Status:           status,
			AvailableAt:      availableAt,
		}
		if err := referralRepo.CreateEarning(earning); err != nil {
			return err
		}

		seen[referrer.ID] = true
		current = referrer
	}
	return nil
}

// ConfirmDueEarnings 把到达确认期的佣金置为可提现;worker 调用
func (s *ReferralService) ConfirmDueEarnings(now time.Time) (int64, error) {
	return s.referralRepo.MarkPendingAvailable(now)
}

// CancelForOrder 取消订单关联的未结算佣金
func (s *ReferralService) CancelForOrder(orderID uint) (int64, error) {
	return s.referralRepo.CancelByOrder(orderID)
}

// ListEarnings 佣金列表
func (s *ReferralService) ListEarnings(filter repository.ReferralEarningListFilter) ([]models.ReferralEarning, int64, error) {
	return s.referralRepo.List(filter)
}

// EarningSummary 用户佣金汇总
type EarningSummary struct {
	Pending       models.Money `json:"pending"`
	Available     models.Money `json:"available"`
	Paid          models.Money `json:"paid"`
	ReferredUsers int64        `json:"referred_users"`
}

// Summary 汇总用户各状态佣金与直推人数
func (s *ReferralService) Summary(userID uint) (*EarningSummary, error) {
	pending, err := s.referralRepo.SumByUser(userID, []string{constants.ReferralEarningStatusPending})
	if err != nil {
		return nil, err
	}
	available, err := s.referralRepo.SumByUser(userID, []string{constants.ReferralEarningStatusAvailable})
	if err != nil {
		return nil, err
	}
	paid, err := s.referralRepo.SumByUser(userID, []string{constants.ReferralEarningStatusPaid})
	if err != nil {
		return nil, err
	}
	referred, err := s.userRepo.CountReferredBy(userID)
	if err != nil {
		return nil, err
	}
	return &EarningSummary{
		Pending:       models.NewMoneyFromDecimal(pending),
		Available:     models.NewMoneyFromDecimal(available),
		Paid:          models.NewMoneyFromDecimal(paid),
		ReferredUsers: referred,
	}, nil
}
