package middleware

import (
	"fmt"
	"sync"
	"time"
)

// ==================== AnalyzeRateLimiter 抓取限流器 ====================

// AnalyzeRateLimiter 抓取任务限流器
// 防止用户对同一条商品链接频繁触发重新抓取，把抓取后端打挂
type AnalyzeRateLimiter struct {
	locks sync.Map // key -> *lockEntry
}

// lockEntry 锁条目
type lockEntry struct {
	lastTime time.Time
	mu       sync.Mutex
}

// 全局限流器实例
var globalLimiter = &AnalyzeRateLimiter{}

// GetLimiter 获取全局限流器
func GetLimiter() *AnalyzeRateLimiter {
	return globalLimiter
}

// ==================== 限流检查 ====================

// CheckResult 检查结果
type CheckResult struct {
	Allowed    bool          // 是否允许
	RetryAfter time.Duration // 剩余冷却时间
}

// Check 检查是否允许执行
// key: 限流键，如 "analyze:https://..."
// interval: 冷却间隔
func (r *AnalyzeRateLimiter) Check(key string, interval time.Duration) CheckResult {
	actual, _ := r.locks.LoadOrStore(key, &lockEntry{})
	entry := actual.(*lockEntry)

	entry.mu.Lock()
	defer entry.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(entry.lastTime)

	if elapsed < interval {
		return CheckResult{
			Allowed:    false,
			RetryAfter: interval - elapsed,
		}
	}

	entry.lastTime = now
	return CheckResult{Allowed: true}
}

// Reset 清除某个键的冷却状态
// 抓取失败后调用，让同一条链接可以马上重试
func (r *AnalyzeRateLimiter) Reset(key string) {
	r.locks.Delete(key)
}

// AnalyzeKey 生成商品链接的限流键
func AnalyzeKey(productURL string) string {
	return fmt.Sprintf("analyze:%s", productURL)
}
