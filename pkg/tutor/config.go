package tutor

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config Dispatcher 配置
type Config struct {
	// RequestTimeout 单个请求的响应超时
	RequestTimeout time.Duration `env:"TUTOR_REQUEST_TIMEOUT" envDefault:"30s"`
	// MailboxSize 每个 Actor 的邮箱容量
	MailboxSize int `env:"TUTOR_MAILBOX_SIZE" envDefault:"100"`
	// MaxRestarts 重启窗口内单个角色的最大重启次数
	MaxRestarts int `env:"TUTOR_MAX_RESTARTS" envDefault:"3"`
	// RestartWindow 重启计数的滑动窗口
	RestartWindow time.Duration `env:"TUTOR_RESTART_WINDOW" envDefault:"1m"`
	// StorePath 持久化存储目录；为空时使用内存存储
	StorePath string `env:"TUTOR_STORE_PATH"`
}

// LoadConfig 从环境变量加载配置
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// DefaultConfig 默认配置
func DefaultConfig() *Config {
	return &Config{
		RequestTimeout: 30 * time.Second,
		MailboxSize:    100,
		MaxRestarts:    3,
		RestartWindow:  time.Minute,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// 选项
// ═══════════════════════════════════════════════════════════════════════════

// Option Dispatcher 构造选项
type Option func(*Dispatcher)

// WithConfig 设置配置
func WithConfig(cfg *Config) Option {
	return func(d *Dispatcher) {
		if cfg != nil {
			d.cfg = cfg
		}
	}
}

// WithLogger 设置日志器
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithTimeout 设置请求超时
func WithTimeout(timeout time.Duration) Option {
	return func(d *Dispatcher) {
		if timeout > 0 {
			d.cfg.RequestTimeout = timeout
		}
	}
}

// WithRand 设置 Problem 角色的随机源，便于测试时注入确定性随机
func WithRand(rng *rand.Rand) Option {
	return func(d *Dispatcher) {
		if rng != nil {
			d.rng = rng
		}
	}
}

// WithRestartPolicy 设置重启窗口参数
func WithRestartPolicy(maxRestarts int, window time.Duration) Option {
	return func(d *Dispatcher) {
		if maxRestarts > 0 && window > 0 {
			d.cfg.MaxRestarts = maxRestarts
			d.cfg.RestartWindow = window
		}
	}
}
