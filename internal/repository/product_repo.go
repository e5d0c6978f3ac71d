package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"scout_dev_v1_202609/internal/model"
)

// ==================== 接口定义 ====================

// ProductRepository 商品仓储接口
type ProductRepository interface {
	// 写路径
	UpsertByURL(ctx context.Context, product *model.Product) error
	Delete(ctx context.Context, id int64) error

	// 读路径
	GetByID(ctx context.Context, id int64) (*model.Product, error)
	GetByURL(ctx context.Context, productURL string) (*model.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]model.Product, int64, error)
	ListStalest(ctx context.Context, limit int) ([]model.Product, error)

	// 事务
	WithTx(tx *gorm.DB) ProductRepository
	Transaction(ctx context.Context, fn func(txRepo ProductRepository) error) error
}

// ==================== 过滤条件 ====================

// ProductFilter 商品过滤条件
type ProductFilter struct {
	Marketplace model.Marketplace
	Keyword     string
	Page        int
	PageSize    int
}

// ==================== 仓储实现 ====================

type productRepo struct {
	db *gorm.DB
}

// NewProductRepository 创建商品仓储
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepo{db: db}
}

// UpsertByURL 以 product_url 为自然键写入商品
// 不存在则插入完整记录；存在则原地覆盖所有可变字段（整体替换，非补丁），
// product_url 与主键保持不变。写入后回填数据库生成的字段。
func (r *productRepo) UpsertByURL(ctx context.Context, product *model.Product) error {
	if product.CategoryPath == nil {
		product.CategoryPath = []string{}
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "product_url"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"marketplace", "name",
			"price_amount", "price_currency",
			"rating_value", "rating_count",
			"images", "specs", "category_path",
			"updated_at",
		}),
	}).Create(product).Error
	if err != nil {
		return err
	}

	// 冲突更新路径下 gorm 不回填已存在行的主键，重查一次
	var saved model.Product
	if err := r.db.WithContext(ctx).
		Where("product_url = ?", product.ProductURL).
		First(&saved).Error; err != nil {
		return err
	}
	*product = saved
	return nil
}

func (r *productRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&model.Product{}, id).Error
}

func (r *productRepo) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).
		Preload("Offers").
		Preload("Offers.Seller").
		Preload("Recommendations", func(db *gorm.DB) *gorm.DB {
			return db.Order("rank ASC")
		}).
		First(&product, id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) GetByURL(ctx context.Context, productURL string) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).
		Where("product_url = ?", productURL).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) List(ctx context.Context, filter ProductFilter) ([]model.Product, int64, error) {
	var products []model.Product
	var total int64

	query := r.db.WithContext(ctx).Model(&model.Product{})

	if filter.Marketplace != "" {
		query = query.Where("marketplace = ?", filter.Marketplace)
	}
	if filter.Keyword != "" {
		// 大小写不敏感的模糊匹配，postgres/sqlite 通用
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(filter.Keyword)+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	offset := (filter.Page - 1) * filter.PageSize
	err := query.
		Order("updated_at DESC").
		Limit(filter.PageSize).
		Offset(offset).
		Find(&products).Error

	return products, total, err
}

// ListStalest 返回最久未重新抓取的商品，供定时刷新任务使用
func (r *productRepo) ListStalest(ctx context.Context, limit int) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).
		Order("updated_at ASC").
		Limit(limit).
		Find(&products).Error
	return products, err
}

func (r *productRepo) WithTx(tx *gorm.DB) ProductRepository {
	return &productRepo{db: tx}
}

func (r *productRepo) Transaction(ctx context.Context, fn func(txRepo ProductRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(r.WithTx(tx))
	})
}
