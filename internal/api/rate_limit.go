package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// clientLimiter 单个客户端的限流器及最近活跃时间
type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// clientLimiterPool 按客户端 IP 维护限流器
// 长期不活跃的条目定期回收,防止 map 随客户端数无限增长
type clientLimiterPool struct {
	mu      sync.Mutex
	clients map[string]*clientLimiter
	rps     rate.Limit
	burst   int
}

func newClientLimiterPool(rps float64, burst int) *clientLimiterPool {
	return &clientLimiterPool{
		clients: make(map[string]*clientLimiter),
		rps:     rate.Limit(rps),
		burst:   burst,
	}
}

// get 取出或创建客户端限流器
func (p *clientLimiterPool) get(clientIP string) *rate.Limiter {
	p.mu.Lock()
	defer p.mu.Unlock()

	entry, ok := p.clients[clientIP]
	if !ok {
		entry = &clientLimiter{limiter: rate.NewLimiter(p.rps, p.burst)}
		p.clients[clientIP] = entry
	}
	entry.lastSeen = time.Now()
	return entry.limiter
}

// prune 回收一段时间未出现的客户端
func (p *clientLimiterPool) prune(maxIdle time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	cutoff := time.Now().Add(-maxIdle)
	for ip, entry := range p.clients {
		if entry.lastSeen.Before(cutoff) {
			delete(p.clients, ip)
		}
	}
}

// RateLimitMiddleware 按客户端 IP 限流
// rps/burst 来自配置,单个客户端刷接口不影响其他客户端
func RateLimitMiddleware(rps float64, burst int) gin.HandlerFunc {
	pool := newClientLimiterPool(rps, burst)

	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			pool.prune(5 * time.Minute)
		}
	}()

	return func(c *gin.Context) {
		if !pool.get(c.ClientIP()).Allow() {
			c.JSON(http.StatusTooManyRequests, ErrorResponse{
				Code:    429,
				Message: "too many requests",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
