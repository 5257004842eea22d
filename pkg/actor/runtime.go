package actor

import (
	"context"
	"log/slog"
	"runtime/debug"
	"sync/atomic"
	"time"
)

// Ref Actor 的发送端句柄
//
// 持有方只通过 Ref 与 Actor 交互，不共享任何可变状态。
// Ref 停止后不可复用，重建 Actor 需要重新 Spawn。
type Ref struct {
	role    string
	mailbox chan *Message
	cancel  context.CancelFunc
	stats   *StatsCollector
	stopped atomic.Bool
}

// SpawnOption Spawn 配置选项
type SpawnOption func(*spawnConfig)

type spawnConfig struct {
	mailboxSize int
	logger      *slog.Logger
}

// WithMailboxSize 设置邮箱大小
func WithMailboxSize(size int) SpawnOption {
	return func(c *spawnConfig) {
		if size > 0 {
			c.mailboxSize = size
		}
	}
}

// WithLogger 设置日志器
func WithLogger(logger *slog.Logger) SpawnOption {
	return func(c *spawnConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Spawn 创建并启动一个 Actor
//
// 每个 Actor 独占一个 goroutine，从自己的邮箱按 FIFO 顺序逐条处理消息。
// 响应与故障发送到 bus；parent 取消时 Actor 随之退出。
func Spawn(parent context.Context, role string, h Handler, bus *Bus, opts ...SpawnOption) *Ref {
	cfg := &spawnConfig{
		mailboxSize: 100,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	ctx, cancel := context.WithCancel(parent)

	c := &cell{
		role:    role,
		handler: h,
		mailbox: make(chan *Message, cfg.mailboxSize),
		bus:     bus,
		ctx:     ctx,
		cancel:  cancel,
		logger:  cfg.logger,
		stats:   NewStatsCollector(),
	}

	go c.loop()

	c.logger.Debug("actor spawned", "role", role, "mailbox", cfg.mailboxSize)
	return &Ref{
		role:    role,
		mailbox: c.mailbox,
		cancel:  cancel,
		stats:   c.stats,
	}
}

// Role 返回 Actor 角色
func (r *Ref) Role() string {
	return r.role
}

// Send 投递消息到 Actor 邮箱（非阻塞）
//
// 邮箱已满返回 ErrMailboxFull，Actor 已停止返回 ErrStopped。
func (r *Ref) Send(msg *Message) error {
	if r.stopped.Load() {
		return ErrStopped
	}
	select {
	case r.mailbox <- msg:
		return nil
	default:
		return ErrMailboxFull
	}
}

// Stop 停止 Actor
//
// 邮箱中未处理的消息被丢弃，对应请求由持有方按超时处理。
func (r *Ref) Stop() {
	if r.stopped.CompareAndSwap(false, true) {
		r.cancel()
	}
}

// Stats 获取统计快照
func (r *Ref) Stats() *ActorStats {
	return r.stats.Stats()
}

// cell Actor 运行时单元
type cell struct {
	role    string
	handler Handler
	mailbox chan *Message
	bus     *Bus
	ctx     context.Context
	cancel  context.CancelFunc
	logger  *slog.Logger
	stats   *StatsCollector
}

// loop Actor 消息处理循环
//
// 故障（panic）上报后循环立即退出；应用层错误不影响循环。
func (c *cell) loop() {
	defer c.cancel()

	for {
		select {
		case <-c.ctx.Done():
			c.logger.Debug("actor stopped", "role", c.role)
			return
		case msg := <-c.mailbox:
			if fault := c.process(msg); fault != nil {
				c.reportFault(fault)
				return
			}
		}
	}
}

// process 处理单条消息，panic 转换为 Fault 返回
func (c *cell) process(msg *Message) (fault *Fault) {
	c.stats.RecordReceived()
	startTime := time.Now()

	defer func() {
		if r := recover(); r != nil {
			fault = &Fault{
				Role:    c.role,
				Reason:  r,
				Stack:   debug.Stack(),
				Message: msg,
				At:      time.Now(),
			}
			return
		}
		c.stats.RecordHandled(time.Since(startTime))
	}()

	// 缺少类型的请求在角色分发之前就被拒绝
	if msg.Type == "" {
		c.stats.RecordError(ErrMissingType)
		c.reply(NewError(msg, ErrMissingType))
		return nil
	}

	payload, err := c.handler.Handle(c.ctx, msg)
	if err != nil {
		c.stats.RecordError(err)
		c.reply(NewError(msg, err))
		return nil
	}

	c.reply(NewResult(msg, payload))
	return nil
}

// reply 发送响应到 Bus
func (c *cell) reply(resp *Message) {
	select {
	case c.bus.Responses <- resp:
	case <-c.ctx.Done():
	}
}

// reportFault 上报运行时故障
func (c *cell) reportFault(f *Fault) {
	c.stats.RecordError(f)
	c.logger.Error("actor fault",
		"role", c.role,
		"reason", f.Reason,
		"message", messageType(f.Message),
		"stack", string(f.Stack))

	select {
	case c.bus.Faults <- *f:
	default:
		c.logger.Warn("fault channel full, fault dropped", "role", c.role)
	}
}

func messageType(msg *Message) string {
	if msg == nil {
		return ""
	}
	return msg.Type
}
