package repository

import (
	"context"

	"gorm.io/gorm"
)

// ==================== 事务支持 ====================

// ScrapeUnitOfWork 抓取入库工作单元（事务）
// 一次抓取要落四张表：商品、卖家、报价、推荐，
// 工作单元保证一次抓取要么整体可见要么整体回滚
type ScrapeUnitOfWork struct {
	db              *gorm.DB
	Products        ProductRepository
	Sellers         SellerRepository
	Offers          OfferRepository
	Recommendations RecommendationRepository
}

// NewScrapeUnitOfWork 创建工作单元
func NewScrapeUnitOfWork(db *gorm.DB) *ScrapeUnitOfWork {
	return &ScrapeUnitOfWork{
		db:              db,
		Products:        NewProductRepository(db),
		Sellers:         NewSellerRepository(db),
		Offers:          NewOfferRepository(db),
		Recommendations: NewRecommendationRepository(db),
	}
}

// Transaction 执行事务
func (u *ScrapeUnitOfWork) Transaction(ctx context.Context, fn func(uow *ScrapeUnitOfWork) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txUow := &ScrapeUnitOfWork{
			db:              tx,
			Products:        NewProductRepository(tx),
			Sellers:         NewSellerRepository(tx),
			Offers:          NewOfferRepository(tx),
			Recommendations: NewRecommendationRepository(tx),
		}
		return fn(txUow)
	})
}
