package model

import (
	"gorm.io/datatypes"
)

// Seller 卖家
// 自然键为 (marketplace, external_id) 复合唯一索引
type Seller struct {
	BaseModel

	Marketplace Marketplace `gorm:"size:50;uniqueIndex:idx_seller_mkt_ext;not null" json:"marketplace"`
	ExternalID  string      `gorm:"size:255;uniqueIndex:idx_seller_mkt_ext;not null" json:"external_id"`

	Name        string   `gorm:"size:255" json:"name"`
	RatingValue *float64 `json:"rating_value"`
	SellerURL   string   `gorm:"size:1024" json:"seller_url"`

	// Meta 平台侧的自由结构元数据
	Meta datatypes.JSON `gorm:"type:jsonb" json:"meta"`
}

func (Seller) TableName() string {
	return "sellers"
}
