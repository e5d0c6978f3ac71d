package repository

import (
	"context"

	"gorm.io/gorm"

	"scout_dev_v1_202609/internal/model"
)

// ==================== 接口定义 ====================

// RecommendationRepository 推荐商品仓储接口
type RecommendationRepository interface {
	// ReplaceForProduct 整批替换某商品的推荐列表：
	// 先删除 source_product_id 下的全部旧记录，再批量插入新批次。
	// 两步包在同一事务里，避免中途失败留下空推荐集
	ReplaceForProduct(ctx context.Context, sourceProductID int64, rows []model.Recommendation) error
	ListBySource(ctx context.Context, sourceProductID int64) ([]model.Recommendation, error)

	WithTx(tx *gorm.DB) RecommendationRepository
}

// ==================== 仓储实现 ====================

type recommendationRepo struct {
	db *gorm.DB
}

// NewRecommendationRepository 创建推荐仓储
func NewRecommendationRepository(db *gorm.DB) RecommendationRepository {
	return &recommendationRepo{db: db}
}

func (r *recommendationRepo) ReplaceForProduct(ctx context.Context, sourceProductID int64, rows []model.Recommendation) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("source_product_id = ?", sourceProductID).
			Unscoped().
			Delete(&model.Recommendation{}).Error; err != nil {
			return err
		}

		if len(rows) == 0 {
			return nil
		}

		for i := range rows {
			rows[i].SourceProductID = sourceProductID
		}
		return tx.Create(&rows).Error
	})
}

func (r *recommendationRepo) ListBySource(ctx context.Context, sourceProductID int64) ([]model.Recommendation, error) {
	var recs []model.Recommendation
	err := r.db.WithContext(ctx).
		Where("source_product_id = ?", sourceProductID).
		Order("rank ASC").
		Find(&recs).Error
	return recs, err
}

func (r *recommendationRepo) WithTx(tx *gorm.DB) RecommendationRepository {
	return &recommendationRepo{db: tx}
}
