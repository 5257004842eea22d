package tutor

import (
	"errors"
	"fmt"
	"time"
)

// ═══════════════════════════════════════════════════════════════════════════
// 错误分类
// ═══════════════════════════════════════════════════════════════════════════

// ValidationError 必填字段缺失或取值非法
//
// 在 Actor 处理器内、任何存储访问之前同步产生，作为 error 响应返回，
// 不会自动重试。
type ValidationError struct {
	Msg string
}

// Error 实现 error 接口
func (e *ValidationError) Error() string {
	return e.Msg
}

// NotFoundError 引用的实体在存储中不存在
type NotFoundError struct {
	// Kind 实体种类，如 "session"、"problem"
	Kind string
	// ID 缺失的实体 id
	ID string
}

// Error 实现 error 接口
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

// TimeoutError 请求在超时窗口内未收到响应
//
// 仅在 Dispatcher 侧产生；Actor 侧迟到的计算结果被静默丢弃。
type TimeoutError struct {
	Role      Role
	MessageID string
	Timeout   time.Duration
}

// Error 实现 error 接口
func (e *TimeoutError) Error() string {
	return fmt.Sprintf("request %s to %s timed out after %s", e.MessageID, e.Role, e.Timeout)
}

// ActorFaultError 角色的执行单元失效且重启预算已耗尽
//
// 区别于处理器主动返回的应用层错误；角色保持下线，后续请求立即失败。
type ActorFaultError struct {
	Role   Role
	Reason string
}

// Error 实现 error 接口
func (e *ActorFaultError) Error() string {
	return fmt.Sprintf("actor %s is unavailable: %s", e.Role, e.Reason)
}

// ErrDispatcherClosed Dispatcher 已关闭
var ErrDispatcherClosed = errors.New("dispatcher closed")

// ============== 判别辅助 ==============

// IsValidation 判断是否为校验错误
func IsValidation(err error) bool {
	var e *ValidationError
	return errors.As(err, &e)
}

// IsNotFound 判断是否为实体缺失错误
func IsNotFound(err error) bool {
	var e *NotFoundError
	return errors.As(err, &e)
}

// IsTimeout 判断是否为超时错误
func IsTimeout(err error) bool {
	var e *TimeoutError
	return errors.As(err, &e)
}

// IsActorFault 判断是否为运行时故障错误
func IsActorFault(err error) bool {
	var e *ActorFaultError
	return errors.As(err, &e)
}
