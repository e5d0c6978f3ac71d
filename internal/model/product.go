package model

import (
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// ==================== 市场平台枚举 ====================

// Marketplace 商品来源平台
type Marketplace string

const (
	MarketplaceAmazon  Marketplace = "Amazon"
	MarketplaceEbay    Marketplace = "eBay"
	MarketplaceEtsy    Marketplace = "Etsy"
	MarketplaceShopify Marketplace = "Shopify"
	MarketplaceWalmart Marketplace = "Walmart"
	MarketplaceTarget  Marketplace = "Target"
	MarketplaceGeneric Marketplace = "Online Store"
)

// ==================== 商品模型 ====================

type Product struct {
	BaseModel

	// --- 商品身份字段 ---
	// ProductURL 是商品的自然键，首次抓取后不再变化
	ProductURL  string      `gorm:"size:1024;uniqueIndex;not null" json:"product_url"`
	Marketplace Marketplace `gorm:"size:50;index" json:"marketplace"`

	// --- 商品基本信息 ---
	Name string `gorm:"size:512" json:"name"`

	// --- 价格 ---
	// 金额使用 decimal 列，避免浮点误差
	PriceAmount   decimal.Decimal `gorm:"type:decimal(12,2)" json:"price_amount"`
	PriceCurrency string          `gorm:"size:5" json:"price_currency"`

	// --- 评分（可空，与 0 分区分） ---
	RatingValue *float64 `json:"rating_value"`
	RatingCount *int     `json:"rating_count"`

	// --- 图片与规格 ---
	Images       pq.StringArray `gorm:"type:text[]" json:"images"`
	Specs        datatypes.JSON `gorm:"type:jsonb" json:"specs"`
	CategoryPath pq.StringArray `gorm:"type:text[]" json:"category_path"`

	// --- 关联关系 ---
	Offers          []ProductSeller  `gorm:"foreignKey:ProductID" json:"offers,omitempty"`
	Recommendations []Recommendation `gorm:"foreignKey:SourceProductID" json:"recommendations,omitempty"`
}

func (Product) TableName() string {
	return "products"
}

// ==================== 商品-卖家报价 ====================

// ProductSeller 卖家报价关联
// 纯追加表：同一 (product, seller) 可以存在多条历史报价
type ProductSeller struct {
	BaseModel

	ProductID int64    `gorm:"index;not null" json:"product_id"`
	Product   *Product `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	SellerID  int64    `gorm:"index;not null" json:"seller_id"`
	Seller    *Seller  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"seller,omitempty"`

	PriceAmount   decimal.Decimal `gorm:"type:decimal(12,2)" json:"price_amount"`
	PriceCurrency string          `gorm:"size:5" json:"price_currency"`
	// IsPrimary 标记该报价为商品展示价的来源
	IsPrimary bool `gorm:"default:false;index" json:"is_primary"`
}

func (ProductSeller) TableName() string {
	return "product_sellers"
}

// ==================== 推荐商品 ====================

// Recommendation 推荐商品记录
// 每次抓取整批替换：同一 source_product_id 下只保留最近一次抓取的结果
type Recommendation struct {
	BaseModel

	SourceProductID int64    `gorm:"index;not null" json:"source_product_id"`
	SourceProduct   *Product `gorm:"foreignKey:SourceProductID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	TargetURL   string      `gorm:"size:1024" json:"target_url"`
	Name        string      `gorm:"size:512" json:"name"`
	Marketplace Marketplace `gorm:"size:50" json:"marketplace"`

	PriceAmount   decimal.Decimal `gorm:"type:decimal(12,2)" json:"price_amount"`
	PriceCurrency string          `gorm:"size:5" json:"price_currency"`
	RatingValue   *float64        `json:"rating_value"`
	ImageURL      string          `gorm:"size:1024" json:"image_url"`

	// Rank 展示顺序，从 0 开始
	Rank int `gorm:"not null;index" json:"rank"`
}

func (Recommendation) TableName() string {
	return "recommendations"
}
