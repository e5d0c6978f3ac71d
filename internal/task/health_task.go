package task

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"scout_dev_v1_202609/internal/service"
)

// ==================== 后端健康监控 ====================

// HealthMonitor 抓取后端健康监控任务
// 周期性探测 /health，只在状态发生变化时打日志
type HealthMonitor struct {
	Scraper *service.ScraperService
	Cron    *cron.Cron

	mu        sync.Mutex
	available bool
	checkedAt time.Time
}

func NewHealthMonitor(scraper *service.ScraperService) *HealthMonitor {
	return &HealthMonitor{
		Scraper:   scraper,
		Cron:      cron.New(cron.WithSeconds()), // 支持秒级控制
		available: true,                         // 启动时先假定可用，首次探测纠正
	}
}

// Start 启动定时任务
func (t *HealthMonitor) Start() {
	// 首次执行
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		t.checkJob(ctx)
	}()

	// 每 30 秒探测一次
	_, err := t.Cron.AddFunc("0/30 * * * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		t.checkJob(ctx)
	})
	if err != nil {
		log.Fatalf("无法启动健康监控任务: %v", err)
	}

	t.Cron.Start()
	log.Println("抓取后端健康监控已启动 (每30秒探测一次)")
}

// Stop 停止定时任务
func (t *HealthMonitor) Stop() {
	t.Cron.Stop()
}

// LastStatus 最近一次探测结果
func (t *HealthMonitor) LastStatus() (available bool, checkedAt time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.available, t.checkedAt
}

// checkJob 执行一次探测
func (t *HealthMonitor) checkJob(ctx context.Context) {
	_, err := t.Scraper.CheckHealth(ctx)

	t.mu.Lock()
	defer t.mu.Unlock()

	wasAvailable := t.available
	t.available = err == nil
	t.checkedAt = time.Now()

	if wasAvailable && err != nil {
		log.Printf("[Health] 抓取后端不可用: %v", err)
	}
	if !wasAvailable && err == nil {
		log.Println("[Health] 抓取后端已恢复")
	}
}
