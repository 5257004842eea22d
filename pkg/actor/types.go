// Package actor 提供面向请求-响应关联的轻量级 Actor 运行时
//
// 每个 Actor 是独立的串行执行单元：
//   - 拥有私有状态（无需锁保护）
//   - 通过邮箱（mailbox）按 FIFO 顺序接收消息
//   - 一次只处理一条消息
//   - 每条请求恰好产生一条响应（成功或错误），以相同的 ID 关联
//
// 设计原则:
//   - 应用层错误不会终止 Actor 的消息循环，只会变成 error 响应
//   - 运行时故障（panic）通过 Bus 上报，由持有方负责重建
//   - 响应统一汇聚到共享 Bus，由持有方按 ID 关联回调用者
package actor

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Message 消息信封
//
// 请求与响应共用同一结构；响应的 ID 必须等于触发它的请求的 ID，
// 这是唯一的关联机制。
type Message struct {
	// ID 关联标识（UUID）
	ID string
	// Type 消息类型，如 "session.init"；响应为 "<type>.result" 或 "error"
	Type string
	// Payload 消息负载
	Payload any
}

// MessageTypeError 错误响应的消息类型
const MessageTypeError = "error"

// ErrorPayload 错误响应的负载
type ErrorPayload struct {
	// Err 处理过程中产生的错误
	Err error
	// Original 触发错误的原始请求
	Original *Message
}

// Handler 角色处理器接口
//
// Handle 处理一条请求并返回结果负载。返回的 error 会被运行时包装为
// error 响应，不会终止消息循环。
type Handler interface {
	Handle(ctx context.Context, msg *Message) (any, error)
}

// HandlerFunc 函数式 Handler，便于快速创建简单处理器
type HandlerFunc func(ctx context.Context, msg *Message) (any, error)

// Handle 实现 Handler 接口
func (f HandlerFunc) Handle(ctx context.Context, msg *Message) (any, error) {
	return f(ctx, msg)
}

// Fault 运行时故障
//
// 区别于处理器主动返回的应用层错误：Fault 表示执行单元本身失效
// （panic），对应的 Actor goroutine 已退出，需要持有方重建。
type Fault struct {
	// Role 发生故障的 Actor 角色
	Role string
	// Reason panic 的值
	Reason any
	// Stack 故障时的调用栈
	Stack []byte
	// Message 故障时正在处理的消息（可能为 nil）
	Message *Message
	// At 故障时间
	At time.Time
}

// Error 实现 error 接口
func (f *Fault) Error() string {
	return fmt.Sprintf("actor %s faulted: %v", f.Role, f.Reason)
}

// Bus Actor 与持有方之间的共享通道
//
// 所有 Actor 的响应与故障汇聚到同一 Bus，由持有方（Dispatcher）消费。
type Bus struct {
	// Responses 响应通道
	Responses chan *Message
	// Faults 故障通道
	Faults chan Fault
}

// NewBus 创建 Bus
func NewBus(size int) *Bus {
	if size <= 0 {
		size = 1024
	}
	return &Bus{
		Responses: make(chan *Message, size),
		Faults:    make(chan Fault, 16),
	}
}

// ============== 运行时错误 ==============

// ErrMissingType 请求缺少 Type 字段
var ErrMissingType = errors.New("message has no type")

// ErrMailboxFull Actor 邮箱已满
var ErrMailboxFull = errors.New("actor mailbox full")

// ErrStopped Actor 已停止
var ErrStopped = errors.New("actor stopped")

// ============== 响应构造 ==============

// ResultType 返回请求类型对应的成功响应类型
func ResultType(requestType string) string {
	return requestType + ".result"
}

// NewResult 构造成功响应
func NewResult(req *Message, payload any) *Message {
	return &Message{
		ID:      req.ID,
		Type:    ResultType(req.Type),
		Payload: payload,
	}
}

// NewError 构造错误响应
func NewError(req *Message, err error) *Message {
	return &Message{
		ID:   req.ID,
		Type: MessageTypeError,
		Payload: &ErrorPayload{
			Err:      err,
			Original: req,
		},
	}
}
