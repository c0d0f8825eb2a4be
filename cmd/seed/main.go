package main

import (
	"fmt"
	"time"

	"github.com/mesa-next/internal/config"
	"github.com/mesa-next/internal/constants"
	"github.com/mesa-next/internal/logger"
	"github.com/mesa-next/internal/models"

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

	// 添加分类
	categories := []models.Category{
		{Slug: "appetizers", Name: "前菜", Description: "开胃小食与沙拉", SortOrder: 400, IsActive: true},
		{Slug: "mains", Name: "主菜", Description: "招牌主食与现做热菜", SortOrder: 300, IsActive: true},
		{Slug: "desserts", Name: "甜品", Description: "手工甜品与时令水果", SortOrder: 200, IsActive: true},
		{Slug: "drinks", Name: "饮品", Description: "现调饮品与咖啡", SortOrder: 100, IsActive: true},
	}

	for _, cat := range categories {
		var existing models.Category
		if err := models.DB.Where("slug = ?", cat.Slug).First(&existing).Error; err != nil {
			if err := models.DB.Create(&cat).Error; err != nil {
				stdLog.Printf("Failed to create category %s: %v", cat.Slug, err)
			} else {
				stdLog.Printf("Created category: %s", cat.Slug)
			}
		} else {
			stdLog.Printf("Category already exists: %s", cat.Slug)
		}
	}

	// 获取分类ID
	categoryIDs := map[string]uint{}
	var categoryList []models.Category
	if err := models.DB.Where("slug IN ?", []string{"appetizers", "mains", "desserts", "drinks"}).Find(&categoryList).Error; err != nil {
		stdLog.Printf("Failed to load categories: %v", err)
	}
	for _, cat := range categoryList {
		categoryIDs[cat.Slug] = cat.ID
	}
	appetizersID := categoryIDs["appetizers"]
	mainsID := categoryIDs["mains"]
	dessertsID := categoryIDs["desserts"]
	drinksID := categoryIDs["drinks"]

	// 添加菜品
	menuItems := []models.MenuItem{
		{
			CategoryID:  appetizersID,
			Slug:        "crispy-spring-rolls",
			Name:        "香脆春卷",
			Description: "手工现炸，配秘制蘸酱",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(18.00)),
			Images:      models.StringArray([]string{"https://images.unsplash.com/photo-1544025162-d76694265947?w=800"}),
			Tags:        models.StringArray([]string{"素食", "招牌"}),
			Status:      constants.MenuItemStatusAvailable,
			SortOrder:   400,
		},
		{
			CategoryID:  appetizersID,
			Slug:        "caesar-salad",
			Name:        "凯撒沙拉",
			Description: "罗马生菜、帕玛森芝士与烤面包丁",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(28.00)),
			Images:      models.StringArray([]string{"https://images.unsplash.com/photo-1550304943-4f24f54ddde9?w=800"}),
			Tags:        models.StringArray([]string{"轻食"}),
			Status:      constants.MenuItemStatusAvailable,
			SortOrder:   390,
		},
		{
			CategoryID:  mainsID,
			Slug:        "braised-beef-noodles",
			Name:        "红烧牛肉面",
			Description: "慢炖六小时牛腱，现拉面条",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(42.00)),
			Images:      models.StringArray([]string{"https://images.unsplash.com/photo-1555126634-323283e090fa?w=800"}),
			Tags:        models.StringArray([]string{"招牌", "微辣"}),
			Status:      constants.MenuItemStatusAvailable,
			SortOrder:   300,
		},
		{
			CategoryID:  mainsID,
			Slug:        "kung-pao-chicken",
			Name:        "宫保鸡丁",
			Description: "经典川味，花生酥脆",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(38.00)),
			Images:      models.StringArray([]string{"https://images.unsplash.com/photo-1525755662778-989d0524087e?w=800"}),
			Tags:        models.StringArray([]string{"中辣"}),
			Status:      constants.MenuItemStatusAvailable,
			SortOrder:   290,
		},
		{
			CategoryID:  mainsID,
			Slug:        "grilled-salmon",
			Name:        "香煎三文鱼",
			Description: "挪威三文鱼配时蔬与柠檬黄油汁",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(68.00)),
			Images:      models.StringArray([]string{"https://images.unsplash.com/photo-1519708227418-c8fd9a32b7a2?w=800"}),
			Tags:        models.StringArray([]string{"海鲜"}),
			Status:      constants.MenuItemStatusAvailable,
			SortOrder:   280,
		},
		{
			CategoryID:  mainsID,
			Slug:        "truffle-risotto",
			Name:        "黑松露烩饭",
			Description: "季节限定，每日限量供应",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(88.00)),
			Images:      models.StringArray([]string{"https://images.unsplash.com/photo-1476124369491-e7addf5db371?w=800"}),
			Tags:        models.StringArray([]string{"素食", "限量"}),
			Status:      constants.MenuItemStatusUnavailable,
			SortOrder:   270,
		},
		{
			CategoryID:  dessertsID,
			Slug:        "mango-pomelo-sago",
			Name:        "杨枝甘露",
			Description: "新鲜芒果、西柚与西米露",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(22.00)),
			Images:      models.StringArray([]string{"https://images.unsplash.com/photo-1488477181946-6428a0291777?w=800"}),
			Tags:        models.StringArray([]string{"冰品"}),
			Status:      constants.MenuItemStatusAvailable,
			SortOrder:   200,
		},
		{
			CategoryID:  dessertsID,
			Slug:        "molten-chocolate-cake",
			Name:        "熔岩巧克力蛋糕",
			Description: "现烤浓郁巧克力，配香草冰淇淋",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(32.00)),
			Images:      models.StringArray([]string{"https://images.unsplash.com/photo-1606313564200-e75d5e30476c?w=800"}),
			Tags:        models.StringArray([]string{"招牌"}),
			Status:      constants.MenuItemStatusAvailable,
			SortOrder:   190,
		},
		{
			CategoryID:  drinksID,
			Slug:        "fresh-lemon-tea",
			Name:        "鲜柠檬茶",
			Description: "现切柠檬，手打锡兰红茶",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(16.00)),
			Images:      models.StringArray([]string{"https://images.unsplash.com/photo-1556679343-c7306c1976bc?w=800"}),
			Tags:        models.StringArray([]string{"冰饮"}),
			Status:      constants.MenuItemStatusAvailable,
			SortOrder:   100,
		},
		{
			CategoryID:  drinksID,
			Slug:        "hand-drip-coffee",
			Name:        "手冲咖啡",
			Description: "单品庄园豆，每日现磨",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(26.00)),
			Images:      models.StringArray([]string{"https://images.unsplash.com/photo-1495474472287-4d71bcdd2085?w=800"}),
			Tags:        models.StringArray([]string{"热饮"}),
			Status:      constants.MenuItemStatusAvailable,
			SortOrder:   90,
		},
	}

	for _, item := range menuItems {
		if item.CategoryID == 0 {
			stdLog.Printf("Skip menu item %s: category_id missing", item.Slug)
			continue
		}
		var existing models.MenuItem
		if err := models.DB.Where("slug = ?", item.Slug).First(&existing).Error; err != nil {
			if err := models.DB.Create(&item).Error; err != nil {
				stdLog.Printf("Failed to create menu item %s: %v", item.Slug, err)
			} else {
				stdLog.Printf("Created menu item: %s", item.Slug)
			}
		} else {
			existing.CategoryID = item.CategoryID
			existing.Name = item.Name
			existing.Description = item.Description
			existing.Price = item.Price
			existing.Images = item.Images
			existing.Tags = item.Tags
			existing.Status = item.Status
			existing.SortOrder = item.SortOrder
			if err := models.DB.Save(&existing).Error; err != nil {
				stdLog.Printf("Failed to update menu item %s: %v", item.Slug, err)
			} else {
				stdLog.Printf("Updated menu item: %s", item.Slug)
			}
		}
	}

	// 添加促销活动
	now := time.Now()
	longStart := now.Add(-24 * time.Hour)
	longEnd := now.AddDate(0, 3, 0)
	weekStart := now.Add(-12 * time.Hour)
	weekEnd := now.AddDate(0, 0, 7)
	futureStart := now.AddDate(0, 0, 14)
	futureEnd := now.AddDate(0, 1, 14)

	codeNew20 := "NEW20"
	codeSave50 := "SAVE50"
	codeSweet15 := "SWEET15"
	codeBogo := "BOGODRINK"
	codeFreeShip := "FREESHIP"

	promotions := []models.Promotion{
		{
			Name:              "新客立减 20%",
			Description:       "新顾客下单享 8 折，单笔最高优惠 30 元",
			Code:              &codeNew20,
			Type:              constants.PromotionTypePercentage,
			DiscountValue:     models.NewMoneyFromDecimal(decimal.NewFromInt(20)),
			MinOrderAmount:    models.NewMoneyFromDecimal(decimal.NewFromInt(50)),
			MaxDiscountAmount: models.NewMoneyFromDecimal(decimal.NewFromInt(30)),
			UsagePerCustomer:  1,
			StartDate:         &longStart,
			EndDate:           &longEnd,
			Status:            constants.PromotionStatusActive,
		},
		{
			Name:           "满 200 减 50",
			Description:    "单笔消费满 200 元立减 50 元",
			Code:           &codeSave50,
			Type:           constants.PromotionTypeFixedAmount,
			DiscountValue:  models.NewMoneyFromDecimal(decimal.NewFromInt(50)),
			MinOrderAmount: models.NewMoneyFromDecimal(decimal.NewFromInt(200)),
			UsageLimit:     500,
			StartDate:      &weekStart,
			EndDate:        &weekEnd,
			Status:         constants.PromotionStatusActive,
		},
		{
			Name:              "甜品专区 85 折",
			Description:       "甜品分类全场 85 折",
			Code:              &codeSweet15,
			Type:              constants.PromotionTypeCategoryDiscount,
			DiscountValue:     models.NewMoneyFromDecimal(decimal.NewFromInt(15)),
			MaxDiscountAmount: models.NewMoneyFromDecimal(decimal.NewFromInt(20)),
			StartDate:         &longStart,
			EndDate:           &longEnd,
			Status:            constants.PromotionStatusActive,
		},
		{
			Name:          "饮品买二送一",
			Description:   "任意饮品买 2 送 1，赠最低价饮品",
			Code:          &codeBogo,
			Type:          constants.PromotionTypeBuyXGetY,
			BuyQuantity:   2,
			GetQuantity:   1,
			StartDate:     &weekStart,
			EndDate:       &weekEnd,
			Status:        constants.PromotionStatusActive,
			DiscountValue: models.NewMoneyFromDecimal(decimal.Zero),
		},
		{
			Name:           "外送免配送费",
			Description:    "满 100 元外送订单免配送费",
			Code:           &codeFreeShip,
			Type:           constants.PromotionTypeFreeShipping,
			MinOrderAmount: models.NewMoneyFromDecimal(decimal.NewFromInt(100)),
			StartDate:      &futureStart,
			EndDate:        &futureEnd,
			Status:         constants.PromotionStatusScheduled,
		},
	}

	assignSweetCategory := func(p *models.Promotion) {
		if p.Type == constants.PromotionTypeCategoryDiscount && dessertsID != 0 {
			p.CategoryID = &dessertsID
		}
	}
	assignDrinkCategory := func(p *models.Promotion) {
		if p.Type == constants.PromotionTypeBuyXGetY && drinksID != 0 {
			p.CategoryID = &drinksID
		}
	}

	for i := range promotions {
		assignSweetCategory(&promotions[i])
		assignDrinkCategory(&promotions[i])
		promo := promotions[i]
		var existing models.Promotion
		if err := models.DB.Where("code = ?", promo.Code).First(&existing).Error; err != nil {
			if err := models.DB.Create(&promo).Error; err != nil {
				stdLog.Printf("Failed to create promotion %s: %v", *promo.Code, err)
			} else {
				stdLog.Printf("Created promotion: %s", *promo.Code)
			}
		} else {
			existing.Name = promo.Name
			existing.Description = promo.Description
			existing.Type = promo.Type
			existing.DiscountValue = promo.DiscountValue
			existing.MinOrderAmount = promo.MinOrderAmount
			existing.MaxDiscountAmount = promo.MaxDiscountAmount
			existing.BuyQuantity = promo.BuyQuantity
			existing.GetQuantity = promo.GetQuantity
			existing.CategoryID = promo.CategoryID
			existing.UsageLimit = promo.UsageLimit
			existing.UsagePerCustomer = promo.UsagePerCustomer
			existing.StartDate = promo.StartDate
			existing.EndDate = promo.EndDate
			existing.Status = promo.Status
			if err := models.DB.Save(&existing).Error; err != nil {
				stdLog.Printf("Failed to update promotion %s: %v", *promo.Code, err)
			} else {
				stdLog.Printf("Updated promotion: %s", *promo.Code)
			}
		}
	}

	// 更新网站配置
	configData := map[string]interface{}{
		"name": "Mesa 餐厅",
		"contact": map[string]string{
			"phone":   "+86 10 6688 0101",
			"address": "北京市朝阳区望京街 12 号",
		},
		"business_hours": map[string]string{
			"weekday": "11:00-22:00",
			"weekend": "10:30-23:00",
		},
		"delivery_fee": 8,
		"currency":     "CNY",
		"table_count":  24,
	}

	var setting models.Setting
	if err := models.DB.Where("key = ?", constants.SettingKeySiteConfig).First(&setting).Error; err != nil {
		setting = models.Setting{
			Key:       constants.SettingKeySiteConfig,
			ValueJSON: models.JSON(configData),
		}
		if err := models.DB.Create(&setting).Error; err != nil {
			stdLog.Printf("Failed to create setting: %v", err)
		} else {
			stdLog.Println("Created site config")
		}
	} else {
		setting.ValueJSON = models.JSON(configData)
		if err := models.DB.Save(&setting).Error; err != nil {
			stdLog.Printf("Failed to update setting: %v", err)
		} else {
			stdLog.Println("Updated site config")
		}
	}

	fmt.Println("\n✅ Test data created successfully!")
	fmt.Println("Summary:")
	fmt.Println("- 4 Categories")
	fmt.Println("- 10 Menu items (含 1 个停售菜品)")
	fmt.Println("- 5 Promotions (NEW20 / SAVE50 / SWEET15 / BOGODRINK / FREESHIP)")
	fmt.Println("- Site configuration")
}
