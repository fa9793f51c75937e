package smtp

import (
	"sync"
	"time"
)

// ConnectionLimiter SMTP 连接限流器
//
// 同时限制并发连接数和每秒新建连接数。
type ConnectionLimiter struct {
	mu       sync.Mutex
	maxConns int
	current  int
	maxRate  int
	window   time.Time
	opened   int
}

// NewConnectionLimiter 创建连接限流器
//
// 参数:
//   - maxConns: 最大并发连接数
//   - maxRate: 每秒最大新建连接数
func NewConnectionLimiter(maxConns, maxRate int) *ConnectionLimiter {
	return &ConnectionLimiter{
		maxConns: maxConns,
		maxRate:  maxRate,
		window:   time.Now().Truncate(time.Second),
	}
}

// Acquire 获取连接许可
func (l *ConnectionLimiter) Acquire() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.current >= l.maxConns {
		return false
	}

	now := time.Now().Truncate(time.Second)
	if now.After(l.window) {
		l.window = now
		l.opened = 0
	}
	if l.opened >= l.maxRate {
		return false
	}

	l.opened++
	l.current++
	return true
}

// Release 释放连接
func (l *ConnectionLimiter) Release() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.current > 0 {
		l.current--
	}
}

// Current 当前连接数
func (l *ConnectionLimiter) Current() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.current
}
