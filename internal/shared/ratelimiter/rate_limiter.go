package ratelimiter

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// RateLimiterInterface は、操作の頻度を制限するインターフェースです。
type RateLimiterInterface interface {
	Allow(key string) bool
}

// RateLimiterは、キーごとに固定ウィンドウで操作の頻度を制限します。
// 認証系エンドポイントのブルートフォース対策として、クライアントIPを
// キーに使います。
type RateLimiter struct {
	limit    int           // ウィンドウあたりの上限
	interval time.Duration // どの単位でリセットするか

	mu      sync.Mutex
	windows map[string]*window
}

type window struct {
	count     int
	lastReset time.Time
}

// NewRateLimiterは新しいRateLimiterのインスタンスを生成します。
func NewRateLimiter(limit int, interval time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:    limit,
		interval: interval,
		windows:  make(map[string]*window),
	}
}

// Allowは指定されたキーの操作を許可するかを返します。
// ウィンドウ内の回数が上限を超えた場合はfalseを返します。
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	w, ok := rl.windows[key]
	if !ok {
		w = &window{lastReset: now}
		rl.windows[key] = w
	}

	// interval を過ぎたらカウントリセット
	if now.Sub(w.lastReset) >= rl.interval {
		w.count = 0
		w.lastReset = now
	}

	w.count++
	return w.count <= rl.limit
}

// Middlewareはクライアント IP 単位でレートリミットを適用するGinミドルウェアを返します。
// 上限超過時は429を返します。
func Middleware(rl RateLimiterInterface) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.Allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}
		c.Next()
	}
}
