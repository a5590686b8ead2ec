package middleware

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"kitchen-companion/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RateLimiter 限流器結構，每個客戶端 IP 各自持有一個令牌桶
type RateLimiter struct {
	mu       sync.Mutex
	buckets  map[string]*tokenBucket
	capacity int
	rate     float64
	window   time.Duration
}

// tokenBucket 單一客戶端的令牌桶
type tokenBucket struct {
	tokens   float64
	lastTime time.Time
}

// NewRateLimiter 創建新的限流器
func NewRateLimiter(requests int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		buckets:  make(map[string]*tokenBucket),
		capacity: requests,
		rate:     float64(requests) / window.Seconds(),
		window:   window,
	}

	// 啟動清理閒置令牌桶的協程，避免 map 隨客戶端 IP 無限增長
	go rl.startCleanup()

	return rl
}

// startCleanup 定期清除閒置的令牌桶
func (rl *RateLimiter) startCleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		rl.evictIdle(time.Now())
	}
}

// evictIdle 清除閒置超過一個 window 的令牌桶
// 閒置滿一個 window 的桶必定已補滿令牌，重建後行為不變
func (rl *RateLimiter) evictIdle(now time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	for ip, bucket := range rl.buckets {
		if now.Sub(bucket.lastTime) > rl.window {
			delete(rl.buckets, ip)
		}
	}
}

// Allow 檢查是否允許指定客戶端的請求
func (rl *RateLimiter) Allow(clientIP string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	bucket, ok := rl.buckets[clientIP]
	if !ok {
		bucket = &tokenBucket{tokens: float64(rl.capacity), lastTime: now}
		rl.buckets[clientIP] = bucket
	}

	// 按經過時間補充令牌
	elapsed := now.Sub(bucket.lastTime).Seconds()
	bucket.lastTime = now
	bucket.tokens += elapsed * rl.rate
	if bucket.tokens > float64(rl.capacity) {
		bucket.tokens = float64(rl.capacity)
	}

	if bucket.tokens >= 1 {
		bucket.tokens--
		return true
	}
	return false
}

// RateLimit 限流中間件
func RateLimit(requests int, window time.Duration) gin.HandlerFunc {
	limiter := NewRateLimiter(requests, window)

	return func(c *gin.Context) {
		if !limiter.Allow(c.ClientIP()) {
			common.LogInfo("Rate limit exceeded",
				zap.String("ip", c.ClientIP()),
				zap.String("path", c.Request.URL.Path),
			)

			c.Header("Retry-After", fmt.Sprintf("%d", int(window.Seconds())))
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "Too many requests",
				"retry_after": window.Seconds(),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
