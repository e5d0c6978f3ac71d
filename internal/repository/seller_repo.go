package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"scout_dev_v1_202609/internal/model"
)

// ==================== 接口定义 ====================

// SellerRepository 卖家仓储接口
type SellerRepository interface {
	UpsertByExternalID(ctx context.Context, seller *model.Seller) error
	GetByExternalID(ctx context.Context, marketplace model.Marketplace, externalID string) (*model.Seller, error)
	List(ctx context.Context, marketplace model.Marketplace, page, pageSize int) ([]model.Seller, int64, error)

	WithTx(tx *gorm.DB) SellerRepository
}

// ==================== 仓储实现 ====================

type sellerRepo struct {
	db *gorm.DB
}

// NewSellerRepository 创建卖家仓储
func NewSellerRepository(db *gorm.DB) SellerRepository {
	return &sellerRepo{db: db}
}

// UpsertByExternalID 以 (marketplace, external_id) 复合自然键写入卖家
// 与商品 upsert 同一契约：首次插入，再次出现则覆盖可变字段
func (r *sellerRepo) UpsertByExternalID(ctx context.Context, seller *model.Seller) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "marketplace"}, {Name: "external_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "rating_value", "seller_url", "meta", "updated_at",
		}),
	}).Create(seller).Error
	if err != nil {
		return err
	}

	var saved model.Seller
	if err := r.db.WithContext(ctx).
		Where("marketplace = ? AND external_id = ?", seller.Marketplace, seller.ExternalID).
		First(&saved).Error; err != nil {
		return err
	}
	*seller = saved
	return nil
}

func (r *sellerRepo) GetByExternalID(ctx context.Context, marketplace model.Marketplace, externalID string) (*model.Seller, error) {
	var seller model.Seller
	err := r.db.WithContext(ctx).
		Where("marketplace = ? AND external_id = ?", marketplace, externalID).
		First(&seller).Error
	if err != nil {
		return nil, err
	}
	return &seller, nil
}

func (r *sellerRepo) List(ctx context.Context, marketplace model.Marketplace, page, pageSize int) ([]model.Seller, int64, error) {
	var sellers []model.Seller
	var total int64

	query := r.db.WithContext(ctx).Model(&model.Seller{})
	if marketplace != "" {
		query = query.Where("marketplace = ?", marketplace)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}

	err := query.
		Order("updated_at DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&sellers).Error

	return sellers, total, err
}

func (r *sellerRepo) WithTx(tx *gorm.DB) SellerRepository {
	return &sellerRepo{db: tx}
}
