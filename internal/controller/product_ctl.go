package controller

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"scout_dev_v1_202609/internal/api/dto"
	"scout_dev_v1_202609/internal/middleware"
	"scout_dev_v1_202609/internal/model"
	"scout_dev_v1_202609/internal/repository"
	"scout_dev_v1_202609/internal/service"
	"scout_dev_v1_202609/pkg/urlutil"
)

// 同一条链接两次抓取之间的最小间隔
var analyzeCooldown = 30 * time.Second

type ProductController struct {
	productService *service.ProductService
}

func NewProductController(productService *service.ProductService) *ProductController {
	return &ProductController{productService: productService}
}

// ==================== 抓取接口 ====================

// Analyze 提交商品链接进行分析
// @Summary 提交商品链接，抓取并入库商品详情与推荐
// @Tags Product
// @Accept json
// @Produce json
// @Param body body dto.AnalyzeRequest true "商品链接"
// @Success 200 {object} dto.ProductResp
// @Router /api/products/analyze [post]
func (ctrl *ProductController) Analyze(c *gin.Context) {
	var req dto.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"code": 400, "message": "参数错误: " + err.Error()})
		return
	}

	// 同链接冷却检查，防止用户连点重复抓取
	check := middleware.GetLimiter().Check(middleware.AnalyzeKey(req.URL), analyzeCooldown)
	if !check.Allowed {
		c.JSON(http.StatusTooManyRequests, gin.H{
			"code":    429,
			"message": "该链接刚刚抓取过，请稍后再试",
			"data":    gin.H{"retry_after": int(check.RetryAfter.Seconds())},
		})
		return
	}

	ctx := c.Request.Context()
	product, err := ctrl.productService.AnalyzeAndSave(ctx, req.URL)
	if err != nil {
		// 抓取失败不占用冷却窗口，允许马上重试
		middleware.GetLimiter().Reset(middleware.AnalyzeKey(req.URL))
		ctrl.writeAnalyzeError(c, err)
		return
	}

	c.JSON(200, gin.H{
		"code":    0,
		"message": "success",
		"data":    ctrl.productService.ToProductResp(product),
	})
}

// writeAnalyzeError 把分析链路的错误翻译成响应
// 校验错误返回本地化 key；抓取后端错误透传状态码，传输层失败归为 502
func (ctrl *ProductController) writeAnalyzeError(c *gin.Context, err error) {
	if errors.Is(err, urlutil.ErrEmptyURL) || errors.Is(err, urlutil.ErrInvalidURL) {
		c.JSON(400, gin.H{"code": 400, "message": err.Error()})
		return
	}

	var apiErr *service.APIError
	if errors.As(err, &apiErr) {
		status := apiErr.StatusCode
		if status == 0 {
			status = http.StatusBadGateway
		}
		c.JSON(status, gin.H{
			"code":    status,
			"message": apiErr.Message,
			"data":    gin.H{"error_code": apiErr.Code},
		})
		return
	}

	c.JSON(500, gin.H{"code": 500, "message": "入库失败: " + err.Error()})
}

// ==================== 查询接口 ====================

// GetProducts 获取商品列表
// @Summary 获取已抓取的商品列表
// @Tags Product
// @Param marketplace query string false "平台筛选"
// @Param keyword query string false "名称搜索"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(20)
// @Success 200 {object} dto.ProductListResp
// @Router /api/products [get]
func (ctrl *ProductController) GetProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	filter := repository.ProductFilter{
		Marketplace: model.Marketplace(c.Query("marketplace")),
		Keyword:     c.Query("keyword"),
		Page:        page,
		PageSize:    pageSize,
	}

	ctx := c.Request.Context()
	products, total, err := ctrl.productService.ListProducts(ctx, filter)
	if err != nil {
		c.JSON(500, gin.H{"code": 500, "message": "查询失败: " + err.Error()})
		return
	}

	respList := make([]dto.ProductResp, 0, len(products))
	for _, p := range products {
		respList = append(respList, ctrl.productService.ToProductResp(&p))
	}

	c.JSON(200, dto.ProductListResp{
		Code:     0,
		Message:  "success",
		Data:     respList,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

// GetProduct 获取商品详情
// @Summary 获取单个商品详情（含报价与推荐）
// @Tags Product
// @Param id path int true "商品ID"
// @Success 200 {object} dto.ProductResp
// @Router /api/products/{id} [get]
func (ctrl *ProductController) GetProduct(c *gin.Context) {
	idStr := c.Param("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		c.JSON(400, gin.H{"code": 400, "message": "无效的商品ID"})
		return
	}

	ctx := c.Request.Context()
	product, err := ctrl.productService.GetProduct(ctx, id)
	if err != nil {
		c.JSON(404, gin.H{"code": 404, "message": "商品不存在"})
		return
	}

	c.JSON(200, gin.H{
		"code":    0,
		"message": "success",
		"data":    ctrl.productService.ToProductResp(product),
	})
}

// GetRecommendations 获取商品推荐列表
// @Summary 获取某商品最近一次抓取的推荐列表
// @Tags Product
// @Param id path int true "商品ID"
// @Success 200 {object} []dto.RecommendationResp
// @Router /api/products/{id}/recommendations [get]
func (ctrl *ProductController) GetRecommendations(c *gin.Context) {
	idStr := c.Param("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		c.JSON(400, gin.H{"code": 400, "message": "无效的商品ID"})
		return
	}

	ctx := c.Request.Context()
	recs, err := ctrl.productService.GetRecommendations(ctx, id)
	if err != nil {
		c.JSON(500, gin.H{"code": 500, "message": "查询失败: " + err.Error()})
		return
	}

	respList := make([]dto.RecommendationResp, 0, len(recs))
	for i := range recs {
		respList = append(respList, ctrl.productService.ToRecommendationResp(&recs[i]))
	}

	c.JSON(200, gin.H{
		"code":    0,
		"message": "success",
		"data":    respList,
	})
}
