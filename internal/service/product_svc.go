package service

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"scout_dev_v1_202609/internal/api/dto"
	"scout_dev_v1_202609/internal/model"
	"scout_dev_v1_202609/internal/repository"
	"scout_dev_v1_202609/pkg/money"
	"scout_dev_v1_202609/pkg/urlutil"
)

// ==================== 服务实现 ====================

// ProductService 商品业务服务
// 负责"分析一条商品链接"的完整链路：校验 → 调抓取后端 → 事务落库
type ProductService struct {
	Uow     *repository.ScrapeUnitOfWork
	Scraper *ScraperService
}

func NewProductService(uow *repository.ScrapeUnitOfWork, scraper *ScraperService) *ProductService {
	return &ProductService{
		Uow:     uow,
		Scraper: scraper,
	}
}

// ==================== 抓取入库 ====================

// AnalyzeAndSave 分析商品链接并持久化抓取结果
// 落库动作在一个工作单元事务里完成：
//  1. 按 product_url 自然键 upsert 商品
//  2. 按 (marketplace, external_id) 逐个 upsert 卖家
//  3. 追加报价记录（出现新主报价时先撤销旧标记）
//  4. 整批替换推荐列表
func (s *ProductService) AnalyzeAndSave(ctx context.Context, rawURL string) (*model.Product, error) {
	if err := urlutil.ValidateProductURL(rawURL); err != nil {
		return nil, err
	}
	rawURL = strings.TrimSpace(rawURL)

	requestID := uuid.NewString()
	start := time.Now()

	result, err := s.Scraper.AnalyzeProduct(ctx, rawURL)
	if err != nil {
		log.Printf("[Analyze][%s] 抓取失败: %v", requestID, err)
		return nil, err
	}

	// 抓取后端没给平台时退回 host 识别
	marketplace := model.Marketplace(result.Meta.Marketplace)
	if marketplace == "" {
		marketplace = urlutil.ExtractProductInfo(rawURL)
	}

	product := s.toProductModel(rawURL, marketplace, &result.ProductDetails)

	err = s.Uow.Transaction(ctx, func(uow *repository.ScrapeUnitOfWork) error {
		if err := uow.Products.UpsertByURL(ctx, product); err != nil {
			return err
		}

		for i := range result.ProductDetails.Sellers {
			scraped := &result.ProductDetails.Sellers[i]

			seller := s.toSellerModel(marketplace, scraped)
			if err := uow.Sellers.UpsertByExternalID(ctx, seller); err != nil {
				return err
			}

			if scraped.IsPrimary {
				if err := uow.Offers.ClearPrimary(ctx, product.ID); err != nil {
					return err
				}
			}
			offer := &model.ProductSeller{
				ProductID:     product.ID,
				SellerID:      seller.ID,
				PriceAmount:   money.AmountFromFloat(scraped.PriceAmount),
				PriceCurrency: scraped.PriceCurrency,
				IsPrimary:     scraped.IsPrimary,
			}
			if err := uow.Offers.Create(ctx, offer); err != nil {
				return err
			}
		}

		rows := s.toRecommendationRows(result.Recommendations)
		return uow.Recommendations.ReplaceForProduct(ctx, product.ID, rows)
	})
	if err != nil {
		log.Printf("[Analyze][%s] 入库失败: %v", requestID, err)
		return nil, err
	}

	log.Printf("[Analyze][%s] %s 入库完成 (mode=%s, sellers=%d, recs=%d, 耗时=%v)",
		requestID, rawURL, result.Meta.ScrapingMode,
		len(result.ProductDetails.Sellers), len(result.Recommendations), time.Since(start))

	return product, nil
}

// ==================== 查询 ====================

func (s *ProductService) GetProduct(ctx context.Context, id int64) (*model.Product, error) {
	return s.Uow.Products.GetByID(ctx, id)
}

func (s *ProductService) GetProductByURL(ctx context.Context, productURL string) (*model.Product, error) {
	return s.Uow.Products.GetByURL(ctx, productURL)
}

func (s *ProductService) ListProducts(ctx context.Context, filter repository.ProductFilter) ([]model.Product, int64, error) {
	return s.Uow.Products.List(ctx, filter)
}

func (s *ProductService) GetRecommendations(ctx context.Context, sourceProductID int64) ([]model.Recommendation, error) {
	return s.Uow.Recommendations.ListBySource(ctx, sourceProductID)
}

// ==================== 定时刷新 ====================

// RescrapeStalest 重新抓取最久未更新的一批商品
// 供定时任务调用，单个失败不中断整批
func (s *ProductService) RescrapeStalest(ctx context.Context, limit int) (int, error) {
	products, err := s.Uow.Products.ListStalest(ctx, limit)
	if err != nil {
		return 0, err
	}

	refreshed := 0
	for _, p := range products {
		if _, err := s.AnalyzeAndSave(ctx, p.ProductURL); err != nil {
			log.Printf("[Rescrape] %s 刷新失败: %v", p.ProductURL, err)
			continue
		}
		refreshed++
	}
	return refreshed, nil
}

// ==================== 响应映射 ====================

// ToProductResp 组装商品详情响应
func (s *ProductService) ToProductResp(p *model.Product) dto.ProductResp {
	var specs interface{}
	if len(p.Specs) > 0 {
		_ = json.Unmarshal(p.Specs, &specs)
	}

	resp := dto.ProductResp{
		ID:            p.ID,
		ProductURL:    p.ProductURL,
		Marketplace:   string(p.Marketplace),
		Name:          p.Name,
		PriceAmount:   p.PriceAmount.StringFixed(2),
		PriceCurrency: p.PriceCurrency,
		DisplayPrice:  money.Format(p.PriceAmount, p.PriceCurrency),
		RatingValue:   p.RatingValue,
		RatingCount:   p.RatingCount,
		Images:        p.Images,
		Specs:         specs,
		CategoryPath:  p.CategoryPath,
		UpdatedAt:     p.UpdatedAt,
	}

	for _, offer := range p.Offers {
		o := dto.OfferResp{
			ID:            offer.ID,
			SellerID:      offer.SellerID,
			PriceAmount:   offer.PriceAmount.StringFixed(2),
			PriceCurrency: offer.PriceCurrency,
			DisplayPrice:  money.Format(offer.PriceAmount, offer.PriceCurrency),
			IsPrimary:     offer.IsPrimary,
		}
		if offer.Seller != nil {
			o.SellerName = offer.Seller.Name
		}
		resp.Offers = append(resp.Offers, o)
	}

	for _, rec := range p.Recommendations {
		resp.Recommendations = append(resp.Recommendations, s.ToRecommendationResp(&rec))
	}

	return resp
}

// ToRecommendationResp 组装推荐商品响应
func (s *ProductService) ToRecommendationResp(rec *model.Recommendation) dto.RecommendationResp {
	return dto.RecommendationResp{
		ID:            rec.ID,
		TargetURL:     rec.TargetURL,
		Name:          rec.Name,
		Marketplace:   string(rec.Marketplace),
		PriceAmount:   rec.PriceAmount.StringFixed(2),
		PriceCurrency: rec.PriceCurrency,
		DisplayPrice:  money.Format(rec.PriceAmount, rec.PriceCurrency),
		RatingValue:   rec.RatingValue,
		ImageURL:      rec.ImageURL,
		Rank:          rec.Rank,
	}
}

// ==================== 模型映射 ====================

func (s *ProductService) toProductModel(rawURL string, marketplace model.Marketplace, d *ScrapedProduct) *model.Product {
	categoryPath := d.CategoryPath
	if categoryPath == nil {
		categoryPath = []string{}
	}

	var specs []byte
	if d.Specs != nil {
		specs, _ = json.Marshal(d.Specs)
	}

	return &model.Product{
		ProductURL:    rawURL,
		Marketplace:   marketplace,
		Name:          d.Name,
		PriceAmount:   money.AmountFromFloat(d.PriceAmount),
		PriceCurrency: d.PriceCurrency,
		RatingValue:   d.RatingValue,
		RatingCount:   d.RatingCount,
		Images:        d.Images,
		Specs:         specs,
		CategoryPath:  categoryPath,
	}
}

func (s *ProductService) toSellerModel(marketplace model.Marketplace, scraped *ScrapedSeller) *model.Seller {
	var meta []byte
	if scraped.Meta != nil {
		meta, _ = json.Marshal(scraped.Meta)
	}

	return &model.Seller{
		Marketplace: marketplace,
		ExternalID:  scraped.ExternalID,
		Name:        scraped.Name,
		RatingValue: scraped.RatingValue,
		SellerURL:   scraped.SellerURL,
		Meta:        meta,
	}
}

func (s *ProductService) toRecommendationRows(scraped []ScrapedRecommendation) []model.Recommendation {
	rows := make([]model.Recommendation, 0, len(scraped))
	for i, rec := range scraped {
		rows = append(rows, model.Recommendation{
			TargetURL:     rec.ProductURL,
			Name:          rec.Name,
			Marketplace:   model.Marketplace(rec.Marketplace),
			PriceAmount:   money.AmountFromFloat(rec.PriceAmount),
			PriceCurrency: rec.PriceCurrency,
			RatingValue:   rec.RatingValue,
			ImageURL:      rec.ImageURL,
			Rank:          i,
		})
	}
	return rows
}
