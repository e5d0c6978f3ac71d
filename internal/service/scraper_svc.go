package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// ==================== 配置 ====================

type ScraperConfig struct {
	BaseURL string // 默认 http://localhost:8000
	Timeout time.Duration
}

// ==================== 错误模型 ====================

// APIError 抓取后端的统一错误结构
// StatusCode 为 0 表示传输层失败（连接拒绝、超时等）
type APIError struct {
	Message    string `json:"message"`
	Code       string `json:"code,omitempty"`
	StatusCode int    `json:"status_code"`
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("[%s] %s (HTTP %d)", e.Code, e.Message, e.StatusCode)
	}
	return fmt.Sprintf("%s (HTTP %d)", e.Message, e.StatusCode)
}

// ==================== 抓取结果结构 ====================

// ScrapedSeller 抓取到的卖家及其报价
type ScrapedSeller struct {
	ExternalID    string                 `json:"externalId"`
	Name          string                 `json:"name"`
	RatingValue   *float64               `json:"ratingValue,omitempty"`
	SellerURL     string                 `json:"sellerUrl,omitempty"`
	Meta          map[string]interface{} `json:"meta,omitempty"`
	PriceAmount   float64                `json:"priceAmount"`
	PriceCurrency string                 `json:"priceCurrency"`
	IsPrimary     bool                   `json:"isPrimary"`
}

// ScrapedProduct 抓取到的商品详情
type ScrapedProduct struct {
	ProductURL    string                 `json:"productUrl"`
	Name          string                 `json:"name"`
	PriceAmount   float64                `json:"priceAmount"`
	PriceCurrency string                 `json:"priceCurrency"`
	RatingValue   *float64               `json:"ratingValue,omitempty"`
	RatingCount   *int                   `json:"ratingCount,omitempty"`
	Images        []string               `json:"images"`
	Specs         map[string]interface{} `json:"specs,omitempty"`
	CategoryPath  []string               `json:"categoryPath,omitempty"`
	Sellers       []ScrapedSeller        `json:"sellers,omitempty"`
}

// ScrapedRecommendation 抓取到的推荐商品
type ScrapedRecommendation struct {
	ProductURL    string   `json:"productUrl"`
	Name          string   `json:"name"`
	Marketplace   string   `json:"marketplace"`
	PriceAmount   float64  `json:"priceAmount"`
	PriceCurrency string   `json:"priceCurrency"`
	RatingValue   *float64 `json:"ratingValue,omitempty"`
	ImageURL      string   `json:"imageUrl,omitempty"`
}

// AnalyzeMeta 本次抓取的元信息
type AnalyzeMeta struct {
	Marketplace  string `json:"marketplace"`
	ScrapingMode string `json:"scrapingMode"`
	ElapsedMS    int64  `json:"elapsedMs"`
}

// AnalyzeResult POST /analyze 的响应体
type AnalyzeResult struct {
	ProductDetails  ScrapedProduct          `json:"productDetails"`
	Recommendations []ScrapedRecommendation `json:"recommendations"`
	Meta            AnalyzeMeta             `json:"meta"`
}

// HealthStatus GET /health 的响应体
type HealthStatus struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// ==================== 服务实现 ====================

// ScraperService 抓取后端客户端
type ScraperService struct {
	config *ScraperConfig
	client *resty.Client
}

func NewScraperService(cfg *ScraperConfig) *ScraperService {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:8000"
	}
	if cfg.Timeout == 0 {
		// 抓取可能比较慢，给 60s
		cfg.Timeout = 60 * time.Second
	}

	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("User-Agent", "Scout-Go-App/1.0")

	return &ScraperService{config: cfg, client: client}
}

// ==================== 公共方法 ====================

// AnalyzeProduct 提交商品链接给抓取后端分析
// 错误分类：
//   - 传输层失败 → APIError{StatusCode: 0, Message: "network error"}
//   - 非 2xx 且响应体可解析 → 取响应体里的 message/code
//   - 非 2xx 且响应体不可解析 → 按状态码合成通用消息
func (s *ScraperService) AnalyzeProduct(ctx context.Context, productURL string) (*AnalyzeResult, error) {
	var result AnalyzeResult

	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(map[string]string{"url": productURL}).
		SetResult(&result).
		Post("/analyze")

	if err != nil {
		return nil, &APIError{Message: "network error", StatusCode: 0}
	}

	if resp.IsError() {
		return nil, s.parseErrorBody(resp)
	}

	return &result, nil
}

// CheckHealth 探测抓取后端存活
// 非 2xx 和传输失败统一折叠成同一个错误，不区分原因
func (s *ScraperService) CheckHealth(ctx context.Context) (*HealthStatus, error) {
	var status HealthStatus

	resp, err := s.client.R().
		SetContext(ctx).
		SetResult(&status).
		Get("/health")

	if err != nil || resp.IsError() {
		return nil, &APIError{Message: "backend server is not available", StatusCode: 0}
	}

	return &status, nil
}

// ==================== 内部方法 ====================

// parseErrorBody 容错解析错误响应体
// 解析失败时退化为空对象，用状态码合成消息
func (s *ScraperService) parseErrorBody(resp *resty.Response) *APIError {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
		Code    string `json:"code"`
	}
	_ = json.Unmarshal(resp.Body(), &body)

	message := body.Message
	if message == "" {
		message = body.Error
	}
	if message == "" {
		message = fmt.Sprintf("HTTP error %d", resp.StatusCode())
	}

	return &APIError{
		Message:    message,
		Code:       body.Code,
		StatusCode: resp.StatusCode(),
	}
}
