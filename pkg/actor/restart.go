package actor

import (
	"sync"
	"time"
)

// RestartPolicy 重启窗口策略
//
// 限制一个角色在时间窗口内的最大重启次数，防止故障 Actor 的
// 无限重启循环。窗口滑动：过期的重启记录不再计入。
type RestartPolicy struct {
	// MaxRestarts 窗口内最大重启次数
	MaxRestarts int
	// Within 时间窗口
	Within time.Duration

	mu            sync.Mutex
	restartWindow []time.Time
}

// NewRestartPolicy 创建重启策略
func NewRestartPolicy(maxRestarts int, within time.Duration) *RestartPolicy {
	return &RestartPolicy{
		MaxRestarts:   maxRestarts,
		Within:        within,
		restartWindow: make([]time.Time, 0),
	}
}

// DefaultRestartPolicy 默认策略：1 分钟内最多 3 次重启
func DefaultRestartPolicy() *RestartPolicy {
	return NewRestartPolicy(3, time.Minute)
}

// Allow 判断是否允许再次重启，允许则记录本次重启
func (p *RestartPolicy) Allow() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := time.Now()
	cutoff := now.Add(-p.Within)

	// 清理过期的重启记录
	validRestarts := make([]time.Time, 0, len(p.restartWindow))
	for _, t := range p.restartWindow {
		if t.After(cutoff) {
			validRestarts = append(validRestarts, t)
		}
	}
	p.restartWindow = validRestarts

	if len(p.restartWindow) >= p.MaxRestarts {
		return false
	}

	p.restartWindow = append(p.restartWindow, now)
	return true
}

// Restarts 返回窗口内已记录的重启次数
func (p *RestartPolicy) Restarts() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	cutoff := time.Now().Add(-p.Within)
	count := 0
	for _, t := range p.restartWindow {
		if t.After(cutoff) {
			count++
		}
	}
	return count
}

// Reset 清空重启记录
func (p *RestartPolicy) Reset() {
	p.mu.Lock()
	p.restartWindow = p.restartWindow[:0]
	p.mu.Unlock()
}
