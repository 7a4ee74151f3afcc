package main

import (
	"fmt"

	"github.com/hostara-next/internal/config"
	"github.com/hostara-next/internal/logger"
	"github.com/hostara-next/internal/models"

	"github.com/shopspring/decimal"
)

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 示例套餐
	plans := []models.Plan{
		{
			Name:              "Starter",
			Slug:              "starter",
			Description:       "入门级共享主机，适合个人站点与演示环境",
			Currency:          "INR",
			MonthlyPrice:      models.NewMoneyFromDecimal(decimal.NewFromInt(199)),
			QuarterlyPrice:    models.NewMoneyFromDecimal(decimal.NewFromInt(549)),
			SemiAnnuallyPrice: models.NewMoneyFromDecimal(decimal.NewFromInt(999)),
			AnnuallyPrice:     models.NewMoneyFromDecimal(decimal.NewFromInt(1799)),
			BienniallyPrice:   models.NewMoneyFromDecimal(decimal.NewFromInt(3299)),
			TrienniallyPrice:  models.NewMoneyFromDecimal(decimal.NewFromInt(4599)),
			IsActive:          true,
			SortOrder:         10,
		},
		{
			Name:              "Business",
			Slug:              "business",
			Description:       "中小企业建站首选，更多资源与独立 IP",
			Currency:          "INR",
			MonthlyPrice:      models.NewMoneyFromDecimal(decimal.NewFromInt(499)),
			QuarterlyPrice:    models.NewMoneyFromDecimal(decimal.NewFromInt(1399)),
			SemiAnnuallyPrice: models.NewMoneyFromDecimal(decimal.NewFromInt(2599)),
			AnnuallyPrice:     models.NewMoneyFromDecimal(decimal.NewFromInt(4799)),
			BienniallyPrice:   models.NewMoneyFromDecimal(decimal.NewFromInt(8999)),
			TrienniallyPrice:  models.NewMoneyFromDecimal(decimal.NewFromInt(12599)),
			IsActive:          true,
			SortOrder:         20,
		},
		{
			Name:              "Pro VPS",
			Slug:              "pro-vps",
			Description:       "独享虚拟服务器，root 权限与弹性扩容",
			Currency:          "INR",
			MonthlyPrice:      models.NewMoneyFromDecimal(decimal.NewFromInt(1299)),
			QuarterlyPrice:    models.NewMoneyFromDecimal(decimal.NewFromInt(3699)),
			SemiAnnuallyPrice: models.NewMoneyFromDecimal(decimal.NewFromInt(6999)),
			AnnuallyPrice:     models.NewMoneyFromDecimal(decimal.NewFromInt(12999)),
			BienniallyPrice:   models.NewMoneyFromDecimal(decimal.NewFromInt(23999)),
			TrienniallyPrice:  models.NewMoneyFromDecimal(decimal.NewFromInt(33999)),
			IsActive:          true,
			SortOrder:         30,
		},
		{
			Name:          "Legacy Basic",
			Slug:          "legacy-basic",
			Description:   "历史套餐，仅保留给存量用户续费",
			Currency:      "INR",
			MonthlyPrice:  models.NewMoneyFromDecimal(decimal.NewFromInt(99)),
			AnnuallyPrice: models.NewMoneyFromDecimal(decimal.NewFromInt(899)),
			IsActive:      false,
			SortOrder:     90,
		},
	}

	created := 0
	for _, plan := range plans {
		var existing models.Plan
		if err := models.DB.Where("slug = ?", plan.Slug).First(&existing).Error; err != nil {
			// 不存在则创建
			if err := models.DB.Create(&plan).Error; err != nil {
				stdLog.Printf("Failed to create plan %s: %v", plan.Slug, err)
			} else {
				stdLog.Printf("Created plan: %s", plan.Slug)
				created++
			}
		} else {
			stdLog.Printf("Plan already exists: %s", plan.Slug)
		}
	}

	// 默认管理员
	if err := models.InitDefaultAdmin("", ""); err != nil {
		stdLog.Printf("Failed to init default admin: %v", err)
	}

	fmt.Println("\n✅ Seed data ready!")
	fmt.Println("Summary:")
	fmt.Printf("- %d plans created (%d defined)\n", created, len(plans))
	fmt.Println("- Default admin ensured")
}
