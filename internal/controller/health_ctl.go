package controller

import (
	"time"

	"github.com/gin-gonic/gin"

	"scout_dev_v1_202609/internal/service"
)

// HealthController 健康检查控制器
type HealthController struct {
	scraper *service.ScraperService
}

func NewHealthController(scraper *service.ScraperService) *HealthController {
	return &HealthController{scraper: scraper}
}

// Check 服务健康检查
// @Summary 服务自身与抓取后端的健康状态
// @Tags Health
// @Produce json
// @Router /api/health [get]
func (ctrl *HealthController) Check(c *gin.Context) {
	backend := "ok"
	if _, err := ctrl.scraper.CheckHealth(c.Request.Context()); err != nil {
		backend = err.Error()
	}

	c.JSON(200, gin.H{
		"code":      0,
		"status":    "ok",
		"backend":   backend,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
