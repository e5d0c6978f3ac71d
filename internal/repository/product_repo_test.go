package repository

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"scout_dev_v1_202609/internal/model"
)

// ==================== 测试辅助 ====================

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("连接测试数据库失败: %v", err)
	}

	if err := db.AutoMigrate(
		&model.Product{}, &model.Seller{},
		&model.ProductSeller{}, &model.Recommendation{},
	); err != nil {
		t.Fatalf("建表失败: %v", err)
	}
	return db
}

func ratingPtr(v float64) *float64 { return &v }

func countPtr(v int) *int { return &v }

// ==================== 商品 Upsert ====================

func TestProductRepo_UpsertByURL_Create(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProductRepository(db)
	ctx := context.Background()

	product := &model.Product{
		ProductURL:    "https://www.amazon.com/dp/B001",
		Marketplace:   model.MarketplaceAmazon,
		Name:          "机械键盘",
		PriceAmount:   decimal.NewFromFloat(129.99),
		PriceCurrency: "USD",
		RatingValue:   ratingPtr(4.5),
		RatingCount:   countPtr(1234),
		Images:        []string{"https://img.example.com/1.jpg"},
	}

	if err := repo.UpsertByURL(ctx, product); err != nil {
		t.Fatalf("首次 upsert 失败: %v", err)
	}
	if product.ID == 0 {
		t.Fatal("upsert 后应当回填主键")
	}
	// categoryPath 缺省时落成空列表而不是 NULL
	if product.CategoryPath == nil {
		t.Error("category_path 应当默认为空列表")
	}
}

func TestProductRepo_UpsertByURL_UpdateInPlace(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProductRepository(db)
	ctx := context.Background()

	first := &model.Product{
		ProductURL:    "https://www.amazon.com/dp/B002",
		Marketplace:   model.MarketplaceAmazon,
		Name:          "旧名称",
		PriceAmount:   decimal.NewFromFloat(10),
		PriceCurrency: "USD",
	}
	if err := repo.UpsertByURL(ctx, first); err != nil {
		t.Fatalf("首次 upsert 失败: %v", err)
	}

	second := &model.Product{
		ProductURL:    "https://www.amazon.com/dp/B002",
		Marketplace:   model.MarketplaceAmazon,
		Name:          "新名称",
		PriceAmount:   decimal.NewFromFloat(12.5),
		PriceCurrency: "USD",
		RatingValue:   ratingPtr(4.2),
	}
	if err := repo.UpsertByURL(ctx, second); err != nil {
		t.Fatalf("二次 upsert 失败: %v", err)
	}

	// 同一自然键只保留一行，内容以最后一次为准
	var count int64
	db.Model(&model.Product{}).Count(&count)
	if count != 1 {
		t.Fatalf("products 行数 = %d, want 1", count)
	}
	if second.ID != first.ID {
		t.Errorf("主键应当保持不变: first=%d second=%d", first.ID, second.ID)
	}

	saved, err := repo.GetByURL(ctx, "https://www.amazon.com/dp/B002")
	if err != nil {
		t.Fatalf("回查失败: %v", err)
	}
	if saved.Name != "新名称" {
		t.Errorf("Name = %q, want 新名称", saved.Name)
	}
	if !saved.PriceAmount.Equal(decimal.NewFromFloat(12.5)) {
		t.Errorf("PriceAmount = %s, want 12.5", saved.PriceAmount)
	}
	if saved.RatingValue == nil || *saved.RatingValue != 4.2 {
		t.Errorf("RatingValue = %v, want 4.2", saved.RatingValue)
	}
}

// 评分可空与 0 分要能区分
func TestProductRepo_UpsertByURL_NullableRating(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProductRepository(db)
	ctx := context.Background()

	product := &model.Product{
		ProductURL:    "https://www.ebay.com/itm/1",
		Marketplace:   model.MarketplaceEbay,
		Name:          "无评分商品",
		PriceAmount:   decimal.NewFromFloat(5),
		PriceCurrency: "USD",
	}
	if err := repo.UpsertByURL(ctx, product); err != nil {
		t.Fatalf("upsert 失败: %v", err)
	}

	saved, err := repo.GetByURL(ctx, "https://www.ebay.com/itm/1")
	if err != nil {
		t.Fatalf("回查失败: %v", err)
	}
	if saved.RatingValue != nil {
		t.Errorf("RatingValue 应当为 nil, got %v", *saved.RatingValue)
	}
}

// ==================== 列表查询 ====================

func TestProductRepo_List(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProductRepository(db)
	ctx := context.Background()

	urls := []string{
		"https://www.amazon.com/dp/A1",
		"https://www.amazon.com/dp/A2",
		"https://www.ebay.com/itm/E1",
	}
	markets := []model.Marketplace{
		model.MarketplaceAmazon, model.MarketplaceAmazon, model.MarketplaceEbay,
	}
	for i, u := range urls {
		p := &model.Product{
			ProductURL:    u,
			Marketplace:   markets[i],
			Name:          "商品",
			PriceAmount:   decimal.NewFromInt(int64(i + 1)),
			PriceCurrency: "USD",
		}
		if err := repo.UpsertByURL(ctx, p); err != nil {
			t.Fatalf("准备数据失败: %v", err)
		}
	}

	amazonOnly, total, err := repo.List(ctx, ProductFilter{Marketplace: model.MarketplaceAmazon})
	if err != nil {
		t.Fatalf("List 失败: %v", err)
	}
	if total != 2 || len(amazonOnly) != 2 {
		t.Errorf("Amazon 筛选 total=%d len=%d, want 2/2", total, len(amazonOnly))
	}

	all, total, err := repo.List(ctx, ProductFilter{})
	if err != nil {
		t.Fatalf("List 失败: %v", err)
	}
	if total != 3 || len(all) != 3 {
		t.Errorf("全量 total=%d len=%d, want 3/3", total, len(all))
	}
}

// 名称关键字模糊匹配，大小写不敏感
func TestProductRepo_List_Keyword(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProductRepository(db)
	ctx := context.Background()

	seed := []struct {
		url  string
		name string
	}{
		{"https://www.amazon.com/dp/K1", "Mechanical Keyboard"},
		{"https://www.amazon.com/dp/K2", "Wireless KEYBOARD"},
		{"https://www.amazon.com/dp/K3", "Gaming Mouse"},
	}
	for _, s := range seed {
		p := &model.Product{
			ProductURL:    s.url,
			Marketplace:   model.MarketplaceAmazon,
			Name:          s.name,
			PriceAmount:   decimal.NewFromInt(1),
			PriceCurrency: "USD",
		}
		if err := repo.UpsertByURL(ctx, p); err != nil {
			t.Fatalf("准备数据失败: %v", err)
		}
	}

	tests := []struct {
		name    string
		keyword string
		want    int64
	}{
		{name: "小写关键字", keyword: "keyboard", want: 2},
		{name: "大写关键字", keyword: "KEYBOARD", want: 2},
		{name: "无匹配", keyword: "monitor", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, total, err := repo.List(ctx, ProductFilter{Keyword: tt.keyword})
			if err != nil {
				t.Fatalf("List 失败: %v", err)
			}
			if total != tt.want || int64(len(rows)) != tt.want {
				t.Errorf("total=%d len=%d, want %d", total, len(rows), tt.want)
			}
		})
	}
}

// ListStalest 按 updated_at 从旧到新取一批
func TestProductRepo_ListStalest(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProductRepository(db)
	ctx := context.Background()

	for i, u := range []string{
		"https://www.amazon.com/dp/S1",
		"https://www.amazon.com/dp/S2",
		"https://www.amazon.com/dp/S3",
	} {
		p := &model.Product{
			ProductURL:    u,
			Marketplace:   model.MarketplaceAmazon,
			Name:          "商品",
			PriceAmount:   decimal.NewFromInt(1),
			PriceCurrency: "USD",
		}
		if err := repo.UpsertByURL(ctx, p); err != nil {
			t.Fatalf("准备数据失败: %v", err)
		}
		// 人为拉开 updated_at，S1 最旧
		stamp := time.Date(2026, 1, 1+i, 0, 0, 0, 0, time.UTC)
		if err := db.Model(&model.Product{}).Where("id = ?", p.ID).
			Update("updated_at", stamp).Error; err != nil {
			t.Fatalf("改写 updated_at 失败: %v", err)
		}
	}

	stalest, err := repo.ListStalest(ctx, 2)
	if err != nil {
		t.Fatalf("ListStalest 失败: %v", err)
	}
	if len(stalest) != 2 {
		t.Fatalf("批次大小 = %d, want 2", len(stalest))
	}
	if stalest[0].ProductURL != "https://www.amazon.com/dp/S1" {
		t.Errorf("最旧的应当排在最前: %s", stalest[0].ProductURL)
	}
}
