package repository

import (
	"context"

	"gorm.io/gorm"

	"scout_dev_v1_202609/internal/model"
)

// ==================== 接口定义 ====================

// OfferRepository 商品-卖家报价仓储接口
type OfferRepository interface {
	// Create 纯追加：相同参数调用两次会产生两条报价记录，
	// 历史报价是否去重由上层业务决定
	Create(ctx context.Context, offer *model.ProductSeller) error
	ListByProduct(ctx context.Context, productID int64) ([]model.ProductSeller, error)
	ClearPrimary(ctx context.Context, productID int64) error

	WithTx(tx *gorm.DB) OfferRepository
}

// ==================== 仓储实现 ====================

type offerRepo struct {
	db *gorm.DB
}

// NewOfferRepository 创建报价仓储
func NewOfferRepository(db *gorm.DB) OfferRepository {
	return &offerRepo{db: db}
}

func (r *offerRepo) Create(ctx context.Context, offer *model.ProductSeller) error {
	return r.db.WithContext(ctx).Create(offer).Error
}

func (r *offerRepo) ListByProduct(ctx context.Context, productID int64) ([]model.ProductSeller, error) {
	var offers []model.ProductSeller
	err := r.db.WithContext(ctx).
		Preload("Seller").
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Find(&offers).Error
	return offers, err
}

// ClearPrimary 撤销某商品下所有报价的主报价标记
// 新的主报价落库前调用，保证同一商品最多一条 is_primary
func (r *offerRepo) ClearPrimary(ctx context.Context, productID int64) error {
	return r.db.WithContext(ctx).
		Model(&model.ProductSeller{}).
		Where("product_id = ? AND is_primary = ?", productID, true).
		Update("is_primary", false).Error
}

func (r *offerRepo) WithTx(tx *gorm.DB) OfferRepository {
	return &offerRepo{db: tx}
}
