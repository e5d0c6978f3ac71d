package dto

import "time"

// ==================== 请求 ====================

// AnalyzeRequest 商品分析请求
type AnalyzeRequest struct {
	URL string `json:"url"`
}

// ==================== 响应 ====================

// OfferResp 卖家报价
type OfferResp struct {
	ID            int64  `json:"id"`
	SellerID      int64  `json:"seller_id"`
	SellerName    string `json:"seller_name"`
	PriceAmount   string `json:"price_amount"`
	PriceCurrency string `json:"price_currency"`
	DisplayPrice  string `json:"display_price"`
	IsPrimary     bool   `json:"is_primary"`
}

// RecommendationResp 推荐商品
type RecommendationResp struct {
	ID            int64    `json:"id"`
	TargetURL     string   `json:"target_url"`
	Name          string   `json:"name"`
	Marketplace   string   `json:"marketplace"`
	PriceAmount   string   `json:"price_amount"`
	PriceCurrency string   `json:"price_currency"`
	DisplayPrice  string   `json:"display_price"`
	RatingValue   *float64 `json:"rating_value"`
	ImageURL      string   `json:"image_url"`
	Rank          int      `json:"rank"`
}

// ProductResp 商品详情
type ProductResp struct {
	ID              int64                `json:"id"`
	ProductURL      string               `json:"product_url"`
	Marketplace     string               `json:"marketplace"`
	Name            string               `json:"name"`
	PriceAmount     string               `json:"price_amount"`
	PriceCurrency   string               `json:"price_currency"`
	DisplayPrice    string               `json:"display_price"`
	RatingValue     *float64             `json:"rating_value"`
	RatingCount     *int                 `json:"rating_count"`
	Images          []string             `json:"images"`
	Specs           interface{}          `json:"specs"`
	CategoryPath    []string             `json:"category_path"`
	Offers          []OfferResp          `json:"offers,omitempty"`
	Recommendations []RecommendationResp `json:"recommendations,omitempty"`
	UpdatedAt       time.Time            `json:"updated_at"`
}

// ProductListResp 商品列表响应
type ProductListResp struct {
	Code     int           `json:"code"`
	Message  string        `json:"message"`
	Data     []ProductResp `json:"data"`
	Total    int64         `json:"total"`
	Page     int           `json:"page"`
	PageSize int           `json:"page_size"`
}
