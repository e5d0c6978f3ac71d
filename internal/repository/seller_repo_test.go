package repository

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"scout_dev_v1_202609/internal/model"
)

// ==================== 卖家 Upsert ====================

func TestSellerRepo_UpsertByExternalID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSellerRepository(db)
	ctx := context.Background()

	first := &model.Seller{
		Marketplace: model.MarketplaceAmazon,
		ExternalID:  "SELLER-001",
		Name:        "旧店名",
	}
	if err := repo.UpsertByExternalID(ctx, first); err != nil {
		t.Fatalf("首次 upsert 失败: %v", err)
	}

	second := &model.Seller{
		Marketplace: model.MarketplaceAmazon,
		ExternalID:  "SELLER-001",
		Name:        "新店名",
		RatingValue: ratingPtr(4.8),
		SellerURL:   "https://www.amazon.com/sp?seller=SELLER-001",
	}
	if err := repo.UpsertByExternalID(ctx, second); err != nil {
		t.Fatalf("二次 upsert 失败: %v", err)
	}

	var count int64
	db.Model(&model.Seller{}).Count(&count)
	if count != 1 {
		t.Fatalf("sellers 行数 = %d, want 1", count)
	}

	saved, err := repo.GetByExternalID(ctx, model.MarketplaceAmazon, "SELLER-001")
	if err != nil {
		t.Fatalf("回查失败: %v", err)
	}
	if saved.Name != "新店名" {
		t.Errorf("Name = %q, want 新店名", saved.Name)
	}
	if saved.ID != first.ID {
		t.Errorf("主键应当保持不变: %d vs %d", saved.ID, first.ID)
	}
}

// 不同平台的同名 external_id 是两个不同卖家
func TestSellerRepo_CompositeKeySeparatesMarketplaces(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSellerRepository(db)
	ctx := context.Background()

	amazon := &model.Seller{Marketplace: model.MarketplaceAmazon, ExternalID: "S-1", Name: "A"}
	ebay := &model.Seller{Marketplace: model.MarketplaceEbay, ExternalID: "S-1", Name: "B"}

	if err := repo.UpsertByExternalID(ctx, amazon); err != nil {
		t.Fatalf("upsert 失败: %v", err)
	}
	if err := repo.UpsertByExternalID(ctx, ebay); err != nil {
		t.Fatalf("upsert 失败: %v", err)
	}

	var count int64
	db.Model(&model.Seller{}).Count(&count)
	if count != 2 {
		t.Errorf("sellers 行数 = %d, want 2", count)
	}
}

// ==================== 报价追加 ====================

func TestOfferRepo_CreateIsAppendOnly(t *testing.T) {
	db := setupTestDB(t)
	productRepo := NewProductRepository(db)
	sellerRepo := NewSellerRepository(db)
	offerRepo := NewOfferRepository(db)
	ctx := context.Background()

	product := seedProduct(t, productRepo, "https://www.amazon.com/dp/OFF1")
	seller := &model.Seller{Marketplace: model.MarketplaceAmazon, ExternalID: "S-OFF", Name: "店"}
	if err := sellerRepo.UpsertByExternalID(ctx, seller); err != nil {
		t.Fatalf("准备卖家失败: %v", err)
	}

	// 相同参数写两次，应当得到两条记录
	for i := 0; i < 2; i++ {
		offer := &model.ProductSeller{
			ProductID:     product.ID,
			SellerID:      seller.ID,
			PriceAmount:   decimal.NewFromFloat(9.99),
			PriceCurrency: "USD",
		}
		if err := offerRepo.Create(ctx, offer); err != nil {
			t.Fatalf("写入报价失败: %v", err)
		}
	}

	offers, err := offerRepo.ListByProduct(ctx, product.ID)
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if len(offers) != 2 {
		t.Errorf("报价条数 = %d, want 2 (纯追加不去重)", len(offers))
	}
}

func TestOfferRepo_ClearPrimary(t *testing.T) {
	db := setupTestDB(t)
	productRepo := NewProductRepository(db)
	sellerRepo := NewSellerRepository(db)
	offerRepo := NewOfferRepository(db)
	ctx := context.Background()

	product := seedProduct(t, productRepo, "https://www.amazon.com/dp/OFF2")
	seller := &model.Seller{Marketplace: model.MarketplaceAmazon, ExternalID: "S-P", Name: "店"}
	if err := sellerRepo.UpsertByExternalID(ctx, seller); err != nil {
		t.Fatalf("准备卖家失败: %v", err)
	}

	primary := &model.ProductSeller{
		ProductID:     product.ID,
		SellerID:      seller.ID,
		PriceAmount:   decimal.NewFromInt(10),
		PriceCurrency: "USD",
		IsPrimary:     true,
	}
	if err := offerRepo.Create(ctx, primary); err != nil {
		t.Fatalf("写入报价失败: %v", err)
	}

	if err := offerRepo.ClearPrimary(ctx, product.ID); err != nil {
		t.Fatalf("ClearPrimary 失败: %v", err)
	}

	offers, err := offerRepo.ListByProduct(ctx, product.ID)
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	for _, o := range offers {
		if o.IsPrimary {
			t.Error("ClearPrimary 后不应存在主报价")
		}
	}
}
