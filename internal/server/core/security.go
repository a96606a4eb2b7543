// Package core 连接层的安全组件：连接限流、消息限流、来源校验、IP 过滤
package core

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/palemoky/secret-hitler/internal/logger"
)

// window 固定时间窗计数
type window struct {
	start time.Time
	count int
}

// hit 计数一次，窗口过期则重置，返回窗口内的计数
func (w *window) hit(now time.Time, size time.Duration) int {
	if now.Sub(w.start) >= size {
		w.start = now
		w.count = 0
	}
	w.count++
	return w.count
}

// RateLimiter 按 IP 的建连速率限制器，超限后封禁一段时间
type RateLimiter struct {
	requests map[string]*clientRate
	mu       sync.Mutex

	maxPerSecond int
	maxPerMinute int
	banDuration  time.Duration
	now          func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
}

type clientRate struct {
	second      window
	minute      window
	bannedUntil time.Time
}

// NewRateLimiter 创建速率限制器并启动过期记录清理
func NewRateLimiter(maxPerSecond, maxPerMinute int, banDuration time.Duration) *RateLimiter {
	rl := &RateLimiter{
		requests:     make(map[string]*clientRate),
		maxPerSecond: maxPerSecond,
		maxPerMinute: maxPerMinute,
		banDuration:  banDuration,
		now:          time.Now,
		stop:         make(chan struct{}),
	}
	go rl.cleanupLoop(5 * time.Minute)
	return rl
}

// Close 停止清理协程
func (rl *RateLimiter) Close() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

// Allow 检查是否允许请求
func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rate, ok := rl.requests[ip]
	if !ok {
		rate = &clientRate{}
		rl.requests[ip] = rate
	}

	if now.Before(rate.bannedUntil) {
		return false
	}

	perSecond := rate.second.hit(now, time.Second)
	perMinute := rate.minute.hit(now, time.Minute)
	if perSecond > rl.maxPerSecond || perMinute > rl.maxPerMinute {
		rate.bannedUntil = now.Add(rl.banDuration)
		logger.LogWarn("⚠️ IP %s 因请求过于频繁被暂时封禁 %v", ip, rl.banDuration)
		return false
	}
	return true
}

// IsBanned 检查 IP 是否被封禁
func (rl *RateLimiter) IsBanned(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rate, ok := rl.requests[ip]
	return ok && rl.now().Before(rate.bannedUntil)
}

func (rl *RateLimiter) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			rl.sweep()
		}
	}
}

// sweep 删除 10 分钟无请求且未封禁的记录
func (rl *RateLimiter) sweep() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	removed := 0
	for ip, rate := range rl.requests {
		if now.Sub(rate.minute.start) > 10*time.Minute && now.After(rate.bannedUntil) {
			delete(rl.requests, ip)
			removed++
		}
	}
	return removed
}

// --- 来源验证 ---

// OriginChecker 来源验证器
type OriginChecker struct {
	allowed  map[string]bool
	allowAll bool
}

// NewOriginChecker 创建来源验证器，"*" 表示放行全部
func NewOriginChecker(origins []string) *OriginChecker {
	oc := &OriginChecker{allowed: make(map[string]bool)}
	for _, origin := range origins {
		if origin == "*" {
			oc.allowAll = true
			continue
		}
		oc.allowed[strings.ToLower(strings.TrimSuffix(origin, "/"))] = true
	}
	return oc
}

// Check 检查来源是否允许；没有 Origin 头的本地客户端总是放行
func (oc *OriginChecker) Check(r *http.Request) bool {
	if oc.allowAll {
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	return oc.allowed[strings.ToLower(strings.TrimSuffix(origin, "/"))]
}

// --- IP 白名单/黑名单 ---

// IPFilter IP 过滤器，名单在构造后只读
type IPFilter struct {
	whitelist map[string]bool
	blacklist map[string]bool
}

// NewIPFilter 创建 IP 过滤器
func NewIPFilter(whitelist, blacklist []string) *IPFilter {
	f := &IPFilter{
		whitelist: make(map[string]bool),
		blacklist: make(map[string]bool),
	}
	for _, ip := range whitelist {
		f.whitelist[ip] = true
	}
	for _, ip := range blacklist {
		f.blacklist[ip] = true
	}
	return f
}

// IsAllowed 检查 IP 是否允许：黑名单优先，白名单非空时只放行名单内 IP
func (f *IPFilter) IsAllowed(ip string) bool {
	if f.blacklist[ip] {
		return false
	}
	return len(f.whitelist) == 0 || f.whitelist[ip]
}

// GetClientIP 获取客户端真实 IP，优先使用代理头
func GetClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		return strings.TrimSpace(first)
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// --- 消息速率限制 ---

// MessageRateLimiter 已连接客户端的消息速率限制器
type MessageRateLimiter struct {
	limits map[string]*messageRate
	mu     sync.Mutex

	maxPerSecond     int
	warningThreshold int
	now              func() time.Time
}

type messageRate struct {
	second   window
	warnings int
}

// NewMessageRateLimiter 创建消息速率限制器；超过一半配额开始警告
func NewMessageRateLimiter(maxPerSecond int) *MessageRateLimiter {
	return &MessageRateLimiter{
		limits:           make(map[string]*messageRate),
		maxPerSecond:     maxPerSecond,
		warningThreshold: maxPerSecond / 2,
		now:              time.Now,
	}
}

// AllowMessage 检查是否允许处理该消息
func (ml *MessageRateLimiter) AllowMessage(clientID string) (allowed, warning bool) {
	ml.mu.Lock()
	defer ml.mu.Unlock()

	rate, ok := ml.limits[clientID]
	if !ok {
		rate = &messageRate{}
		ml.limits[clientID] = rate
	}

	count := rate.second.hit(ml.now(), time.Second)
	switch {
	case count > ml.maxPerSecond:
		rate.warnings++
		return false, true
	case count > ml.warningThreshold:
		return true, true
	}
	return true, false
}

// GetWarningCount 获取超限次数
func (ml *MessageRateLimiter) GetWarningCount(clientID string) int {
	ml.mu.Lock()
	defer ml.mu.Unlock()

	if rate, ok := ml.limits[clientID]; ok {
		return rate.warnings
	}
	return 0
}

// RemoveClient 移除客户端记录
func (ml *MessageRateLimiter) RemoveClient(clientID string) {
	ml.mu.Lock()
	defer ml.mu.Unlock()
	delete(ml.limits, clientID)
}
