package core

import (
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock 可手动推进的时钟
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestLimiter(t *testing.T, perSecond, perMinute int, ban time.Duration) (*RateLimiter, *fakeClock) {
	t.Helper()
	clock := newFakeClock()
	rl := NewRateLimiter(perSecond, perMinute, ban)
	rl.now = clock.Now
	t.Cleanup(rl.Close)
	return rl, clock
}

func TestRateLimiter_Allow(t *testing.T) {
	t.Parallel()

	rl, clock := newTestLimiter(t, 5, 10, time.Minute)
	ip := "127.0.0.1"

	for i := range 5 {
		assert.True(t, rl.Allow(ip), "request %d should be allowed", i)
	}
	assert.False(t, rl.Allow(ip), "6th request in one second is blocked")
	assert.True(t, rl.IsBanned(ip))

	// 封禁期间即使进入新窗口也拒绝
	clock.Advance(2 * time.Second)
	assert.False(t, rl.Allow(ip))

	clock.Advance(time.Minute)
	assert.False(t, rl.IsBanned(ip))
	assert.True(t, rl.Allow(ip))

	assert.True(t, rl.Allow("10.0.0.9"), "other IPs are unaffected")
}

func TestRateLimiter_MinuteLimit(t *testing.T) {
	t.Parallel()

	rl, clock := newTestLimiter(t, 100, 5, time.Second)
	ip := "127.0.0.2"

	for range 5 {
		assert.True(t, rl.Allow(ip))
		clock.Advance(2 * time.Second)
	}
	assert.False(t, rl.Allow(ip), "6th request within a minute is blocked")
}

func TestRateLimiter_Sweep(t *testing.T) {
	t.Parallel()

	rl, clock := newTestLimiter(t, 5, 10, time.Second)
	require.True(t, rl.Allow("a"))
	require.True(t, rl.Allow("b"))

	clock.Advance(5 * time.Minute)
	require.True(t, rl.Allow("b"))
	clock.Advance(6 * time.Minute)

	assert.Equal(t, 1, rl.sweep())
	assert.Equal(t, 0, rl.sweep())
}

func TestRateLimiter_Concurrency(t *testing.T) {
	t.Parallel()

	rl, _ := newTestLimiter(t, 20, 200, time.Second)
	var wg sync.WaitGroup
	var mu sync.Mutex
	allowed := 0

	for range 50 {
		wg.Go(func() {
			if rl.Allow("concurrent") {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		})
	}
	wg.Wait()
	assert.Equal(t, 20, allowed)
}

func TestOriginChecker(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		allowed []string
		origin  string
		want    bool
	}{
		{"wildcard", []string{"*"}, "https://evil.example", true},
		{"no origin header", []string{"https://game.example"}, "", true},
		{"listed origin", []string{"https://game.example/"}, "https://GAME.example", true},
		{"unlisted origin", []string{"https://game.example"}, "https://evil.example", false},
		{"empty list", nil, "https://game.example", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req, err := http.NewRequest(http.MethodGet, "/ws", http.NoBody)
			require.NoError(t, err)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			assert.Equal(t, tt.want, NewOriginChecker(tt.allowed).Check(req))
		})
	}
}

func TestIPFilter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		ip      string
		white   []string
		black   []string
		allowed bool
	}{
		{name: "default allow", ip: "192.168.1.1", allowed: true},
		{name: "configured blacklist", ip: "192.168.1.2", black: []string{"192.168.1.2"}, allowed: false},
		{name: "not in whitelist", ip: "192.168.1.4", white: []string{"10.0.0.1"}, allowed: false},
		{name: "in whitelist", ip: "10.0.0.1", white: []string{"10.0.0.1"}, allowed: true},
		{
			name:    "blacklist overrides whitelist",
			ip:      "10.0.0.2",
			white:   []string{"10.0.0.2"},
			black:   []string{"10.0.0.2"},
			allowed: false,
		},
		{name: "whitelist ignores other blacklist", ip: "10.0.0.3", white: []string{"10.0.0.3"}, black: []string{"10.0.0.4"}, allowed: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := NewIPFilter(tt.white, tt.black)
			assert.Equal(t, tt.allowed, f.IsAllowed(tt.ip))
		})
	}
}

func TestGetClientIP(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		want       string
	}{
		{"direct", "192.168.1.1:12345", nil, "192.168.1.1"},
		{"no port", "192.168.1.9", nil, "192.168.1.9"},
		{"forwarded single", "10.0.0.1:1", map[string]string{"X-Forwarded-For": "203.0.113.1"}, "203.0.113.1"},
		{"forwarded chain", "10.0.0.1:1", map[string]string{"X-Forwarded-For": "203.0.113.1, 10.0.0.2"}, "203.0.113.1"},
		{"real ip", "10.0.0.1:1", map[string]string{"X-Real-IP": "203.0.113.2"}, "203.0.113.2"},
		{
			"forwarded wins",
			"10.0.0.1:1",
			map[string]string{"X-Forwarded-For": "203.0.113.3", "X-Real-IP": "203.0.113.4"},
			"203.0.113.3",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req, err := http.NewRequest(http.MethodGet, "/", http.NoBody)
			require.NoError(t, err)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, GetClientIP(req))
		})
	}
}

func TestMessageRateLimiter(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	ml := NewMessageRateLimiter(10)
	ml.now = clock.Now
	id := "player-1"

	for i := range 5 {
		allowed, warning := ml.AllowMessage(id)
		assert.True(t, allowed, "message %d", i)
		assert.False(t, warning, "message %d", i)
	}
	for range 5 {
		allowed, warning := ml.AllowMessage(id)
		assert.True(t, allowed)
		assert.True(t, warning)
	}
	allowed, warning := ml.AllowMessage(id)
	assert.False(t, allowed)
	assert.True(t, warning)
	assert.Equal(t, 1, ml.GetWarningCount(id))

	clock.Advance(time.Second)
	allowed, warning = ml.AllowMessage(id)
	assert.True(t, allowed)
	assert.False(t, warning)

	ml.RemoveClient(id)
	assert.Equal(t, 0, ml.GetWarningCount(id))
}
