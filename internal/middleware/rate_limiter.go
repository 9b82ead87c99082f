package middleware

import (
	"sync"
	"time"
)

// RateLimiter implements a simple in-memory fixed window rate limiter
type RateLimiter struct {
	userLimits map[uint]*windowLimit
	ipLimits   map[string]*windowLimit
	mu         sync.RWMutex

	userMaxRequests int
	ipMaxRequests   int
	window          time.Duration

	stop     chan struct{}
	stopOnce sync.Once
}

type windowLimit struct {
	requests  int
	resetTime time.Time
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(userMaxRequests, ipMaxRequests int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		userLimits:      make(map[uint]*windowLimit),
		ipLimits:        make(map[string]*windowLimit),
		userMaxRequests: userMaxRequests,
		ipMaxRequests:   ipMaxRequests,
		window:          window,
		stop:            make(chan struct{}),
	}

	// Start cleanup goroutine
	go rl.cleanup(5 * time.Minute)

	return rl
}

// CheckUserLimit checks if user has exceeded rate limit
func (rl *RateLimiter) CheckUserLimit(userID uint) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	return allow(rl.userLimits, userID, rl.userMaxRequests, rl.window)
}

// CheckIPLimit checks if IP has exceeded rate limit
func (rl *RateLimiter) CheckIPLimit(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	return allow(rl.ipLimits, ip, rl.ipMaxRequests, rl.window)
}

func allow[K comparable](limits map[K]*windowLimit, key K, maxRequests int, window time.Duration) bool {
	now := time.Now()

	limit, exists := limits[key]
	if !exists || now.After(limit.resetTime) {
		limits[key] = &windowLimit{
			requests:  1,
			resetTime: now.Add(window),
		}
		return maxRequests > 0
	}

	if limit.requests >= maxRequests {
		return false
	}

	limit.requests++
	return true
}

// GetUserRemaining returns remaining requests for user
func (rl *RateLimiter) GetUserRemaining(userID uint) int {
	rl.mu.RLock()
	defer rl.mu.RUnlock()

	return remaining(rl.userLimits, userID, rl.userMaxRequests)
}

// GetIPRemaining returns remaining requests for IP
func (rl *RateLimiter) GetIPRemaining(ip string) int {
	rl.mu.RLock()
	defer rl.mu.RUnlock()

	return remaining(rl.ipLimits, ip, rl.ipMaxRequests)
}

func remaining[K comparable](limits map[K]*windowLimit, key K, maxRequests int) int {
	limit, exists := limits[key]
	if !exists || time.Now().After(limit.resetTime) {
		return maxRequests
	}

	left := maxRequests - limit.requests
	if left < 0 {
		return 0
	}
	return left
}

// cleanup removes expired entries
func (rl *RateLimiter) cleanup(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			rl.purgeExpired(time.Now())
		}
	}
}

func (rl *RateLimiter) purgeExpired(now time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	for userID, limit := range rl.userLimits {
		if now.After(limit.resetTime) {
			delete(rl.userLimits, userID)
		}
	}

	for ip, limit := range rl.ipLimits {
		if now.After(limit.resetTime) {
			delete(rl.ipLimits, ip)
		}
	}
}

// Stop ends the cleanup goroutine
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

// Reset clears all rate limits (useful for testing)
func (rl *RateLimiter) Reset() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.userLimits = make(map[uint]*windowLimit)
	rl.ipLimits = make(map[string]*windowLimit)
}
