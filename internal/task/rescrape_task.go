package task

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"scout_dev_v1_202609/internal/service"
)

// ==================== 商品定时刷新 ====================

// RescrapeTask 存量商品定时刷新任务
// 每轮只取最久未更新的一小批，避免把抓取后端压垮
type RescrapeTask struct {
	ProductService *service.ProductService
	Cron           *cron.Cron

	batchSize int
}

func NewRescrapeTask(productService *service.ProductService) *RescrapeTask {
	return &RescrapeTask{
		ProductService: productService,
		Cron:           cron.New(cron.WithSeconds()),
		batchSize:      10,
	}
}

// Start 启动定时任务
func (t *RescrapeTask) Start() {
	// 每小时整点刷新一批
	_, err := t.Cron.AddFunc("0 0 * * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
		defer cancel()
		t.refreshJob(ctx)
	})
	if err != nil {
		log.Fatalf("无法启动商品刷新任务: %v", err)
	}

	t.Cron.Start()
	log.Println("商品定时刷新任务已启动 (每小时一批)")
}

// Stop 停止定时任务
func (t *RescrapeTask) Stop() {
	t.Cron.Stop()
}

// refreshJob 执行一轮刷新
func (t *RescrapeTask) refreshJob(ctx context.Context) {
	start := time.Now()
	refreshed, err := t.ProductService.RescrapeStalest(ctx, t.batchSize)
	if err != nil {
		log.Printf("[Rescrape] 取待刷新商品失败: %v", err)
		return
	}
	log.Printf("[Rescrape] 本轮刷新完成: %d/%d, 耗时=%v", refreshed, t.batchSize, time.Since(start))
}
