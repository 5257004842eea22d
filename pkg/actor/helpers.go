package actor

import (
	"context"
)

// ═══════════════════════════════════════════════════════════════════════════
// 通道工具函数
// ═══════════════════════════════════════════════════════════════════════════

// TrySend 尝试非阻塞发送到通道
// 如果通道为 nil 或已满，返回 false
func TrySend[T any](ch chan<- T, value T) bool {
	if ch == nil {
		return false
	}
	select {
	case ch <- value:
		return true
	default:
		return false
	}
}

// TrySendWithContext 带 context 的尝试发送
// 如果 context 取消或通道满，返回 false
func TrySendWithContext[T any](ctx context.Context, ch chan<- T, value T) bool {
	if ch == nil {
		return false
	}
	select {
	case ch <- value:
		return true
	case <-ctx.Done():
		return false
	default:
		return false
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// 错误处理工具
// ═══════════════════════════════════════════════════════════════════════════

// IsContextError 检查错误是否为 context 相关错误
func IsContextError(err error) bool {
	return err == context.Canceled || err == context.DeadlineExceeded
}

// IgnoreContextError 如果是 context 错误则返回 nil
func IgnoreContextError(err error) error {
	if IsContextError(err) {
		return nil
	}
	return err
}

// ═══════════════════════════════════════════════════════════════════════════
// 响应工具
// ═══════════════════════════════════════════════════════════════════════════

// IsError 判断响应是否为错误响应
func IsError(resp *Message) bool {
	return resp != nil && resp.Type == MessageTypeError
}

// UnwrapError 从错误响应中取出错误；非错误响应返回 nil
func UnwrapError(resp *Message) error {
	if !IsError(resp) {
		return nil
	}
	if p, ok := resp.Payload.(*ErrorPayload); ok {
		return p.Err
	}
	return nil
}
