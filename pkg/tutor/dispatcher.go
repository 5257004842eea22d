package tutor

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lwmacct/260830-go-pkg-tutor/pkg/actor"
	"github.com/lwmacct/260830-go-pkg-tutor/pkg/store"
)

// ═══════════════════════════════════════════════════════════════════════════
// Call
// ═══════════════════════════════════════════════════════════════════════════

// Call 一次异步请求的结果载体
//
// Dispatcher.Send 立即返回 Call；结果通过 Done/Await/Result 获取。
// 放弃等待不会中止 Actor 侧的计算，迟到的结果被丢弃。
type Call struct {
	// Role 目标角色
	Role Role
	// Request 已分配 ID 的请求消息
	Request *actor.Message

	once    sync.Once
	done    chan struct{}
	payload any
	err     error
}

func newCall(role Role, msg *actor.Message) *Call {
	return &Call{
		Role:    role,
		Request: msg,
		done:    make(chan struct{}),
	}
}

// complete 写入结果并关闭 done，只有第一次调用生效
func (c *Call) complete(payload any, err error) {
	c.once.Do(func() {
		c.payload = payload
		c.err = err
		close(c.done)
	})
}

// Done 返回完成通知通道
func (c *Call) Done() <-chan struct{} {
	return c.done
}

// Result 阻塞等待并返回结果
func (c *Call) Result() (any, error) {
	<-c.done
	return c.payload, c.err
}

// Await 等待结果，ctx 取消时提前返回
func (c *Call) Await(ctx context.Context) (any, error) {
	select {
	case <-c.done:
		return c.payload, c.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Dispatcher
// ═══════════════════════════════════════════════════════════════════════════

// pendingCall 未完成请求的关联簿记
type pendingCall struct {
	call  *Call
	role  Role
	timer *time.Timer
}

// Dispatcher 进程级任务协调者
//
// 进程启动时为每个角色急切创建一个 Actor，在进程生命周期内持有其句柄。
// Dispatcher 不持有任何领域状态，只维护请求/响应关联、超时与故障重建。
// 通过 New 显式构造并注入调用方，不提供全局单例。
type Dispatcher struct {
	cfg    *Config
	store  store.Store
	logger *slog.Logger
	rng    *rand.Rand

	bus    *actor.Bus
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu       sync.Mutex
	refs     map[Role]*actor.Ref
	policies map[Role]*actor.RestartPolicy
	down     map[Role]string
	pending  map[string]*pendingCall
	closed   bool
}

// New 创建 Dispatcher 并启动全部角色 Actor
func New(st store.Store, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		cfg:      DefaultConfig(),
		store:    st,
		logger:   slog.Default(),
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		refs:     make(map[Role]*actor.Ref),
		policies: make(map[Role]*actor.RestartPolicy),
		down:     make(map[Role]string),
		pending:  make(map[string]*pendingCall),
	}
	for _, opt := range opts {
		opt(d)
	}

	d.bus = actor.NewBus(0)
	d.ctx, d.cancel = context.WithCancel(context.Background())

	for _, role := range Roles() {
		d.refs[role] = d.spawn(role)
		d.policies[role] = actor.NewRestartPolicy(d.cfg.MaxRestarts, d.cfg.RestartWindow)
	}

	d.wg.Add(2)
	go d.resolveLoop()
	go d.faultLoop()

	d.logger.Debug("dispatcher started",
		"roles", len(d.refs),
		"timeout", d.cfg.RequestTimeout)
	return d
}

// spawn 为角色创建一个新的 Actor 实例
func (d *Dispatcher) spawn(role Role) *actor.Ref {
	return actor.Spawn(d.ctx, string(role), d.handlerFor(role), d.bus,
		actor.WithMailboxSize(d.cfg.MailboxSize),
		actor.WithLogger(d.logger))
}

// handlerFor 返回角色对应的全新处理器
//
// Actor 在消息之间不保留内存状态，重建时直接换用新处理器即可。
func (d *Dispatcher) handlerFor(role Role) actor.Handler {
	switch role {
	case RoleSession:
		return newSessionActor(d.store)
	case RoleProblem:
		return newProblemActor(d.store, d.rng)
	case RoleEvaluation:
		return newEvaluationActor(d.store)
	case RoleHint:
		return newHintActor(d.store)
	case RoleStudyPlan:
		return newStudyPlanActor(d.store)
	case RoleHistory:
		return newHistoryActor(d.store)
	default:
		return actor.HandlerFunc(func(_ context.Context, msg *actor.Message) (any, error) {
			return nil, unknownType(role, msg)
		})
	}
}

// Send 发送请求并返回异步结果
//
// ID 为空时自动分配 UUID；超时窗口内未收到响应则以 TimeoutError 拒绝，
// 对应 Actor 若随后才完成，其响应因找不到等待者而被丢弃。
func (d *Dispatcher) Send(role Role, msg *actor.Message) *Call {
	if msg.ID == "" {
		msg.ID = uuid.New().String()
	}
	call := newCall(role, msg)

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		call.complete(nil, ErrDispatcherClosed)
		return call
	}
	if reason, isDown := d.down[role]; isDown {
		d.mu.Unlock()
		call.complete(nil, &ActorFaultError{Role: role, Reason: reason})
		return call
	}
	ref, ok := d.refs[role]
	if !ok {
		d.mu.Unlock()
		call.complete(nil, &ValidationError{Msg: fmt.Sprintf("unknown role %q", role)})
		return call
	}

	pc := &pendingCall{call: call, role: role}
	d.pending[msg.ID] = pc
	pc.timer = time.AfterFunc(d.cfg.RequestTimeout, func() {
		d.expire(msg.ID)
	})
	d.mu.Unlock()

	if err := ref.Send(msg); err != nil {
		d.reject(msg.ID, err)
	}
	return call
}

// expire 超时回收：移除等待者并以 TimeoutError 拒绝
func (d *Dispatcher) expire(id string) {
	d.mu.Lock()
	pc := d.pending[id]
	delete(d.pending, id)
	d.mu.Unlock()

	if pc == nil {
		return
	}
	d.logger.Warn("request timed out", "id", id, "role", pc.role)
	pc.call.complete(nil, &TimeoutError{
		Role:      pc.role,
		MessageID: id,
		Timeout:   d.cfg.RequestTimeout,
	})
}

// reject 投递失败：移除等待者并以给定错误拒绝
func (d *Dispatcher) reject(id string, err error) {
	d.mu.Lock()
	pc := d.pending[id]
	delete(d.pending, id)
	d.mu.Unlock()

	if pc == nil {
		return
	}
	pc.timer.Stop()
	pc.call.complete(nil, err)
}

// resolveLoop 消费响应并按 ID 关联回等待者
func (d *Dispatcher) resolveLoop() {
	defer d.wg.Done()
	for {
		select {
		case <-d.ctx.Done():
			return
		case resp := <-d.bus.Responses:
			d.resolve(resp)
		}
	}
}

// resolve 完成单条响应的关联；无等待者的响应被丢弃
func (d *Dispatcher) resolve(resp *actor.Message) {
	d.mu.Lock()
	pc := d.pending[resp.ID]
	delete(d.pending, resp.ID)
	d.mu.Unlock()

	if pc == nil {
		d.logger.Debug("dropping unmatched response", "id", resp.ID, "type", resp.Type)
		return
	}
	pc.timer.Stop()

	if actor.IsError(resp) {
		err := actor.UnwrapError(resp)
		if err == nil {
			err = fmt.Errorf("malformed error response %s", resp.ID)
		}
		pc.call.complete(nil, err)
		return
	}
	pc.call.complete(resp.Payload, nil)
}

// faultLoop 消费运行时故障并按重启策略重建 Actor
func (d *Dispatcher) faultLoop() {
	defer d.wg.Done()
	for {
		select {
		case <-d.ctx.Done():
			return
		case f := <-d.bus.Faults:
			d.handleFault(f)
		}
	}
}

// handleFault 处理单次故障
//
// 重启预算内重建该角色的 Actor；预算耗尽则角色保持下线，
// 后续请求立即以 ActorFaultError 失败。发往故障实例的在途请求
// 不会重发，调用方按超时观测。
func (d *Dispatcher) handleFault(f actor.Fault) {
	role := Role(f.Role)

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}

	policy := d.policies[role]
	if policy == nil {
		d.logger.Error("fault from unknown role", "role", f.Role)
		return
	}
	if old := d.refs[role]; old != nil {
		old.Stop()
	}

	if !policy.Allow() {
		reason := fmt.Sprintf("restart budget exhausted, last fault: %v", f.Reason)
		d.down[role] = reason
		delete(d.refs, role)
		d.logger.Error("actor permanently down", "role", role, "reason", reason)
		return
	}

	d.refs[role] = d.spawn(role)
	d.logger.Warn("actor respawned",
		"role", role,
		"reason", f.Reason,
		"restarts", policy.Restarts())
}

// Stats 返回各角色 Actor 的统计快照；下线角色不出现在结果中
func (d *Dispatcher) Stats() map[Role]*actor.ActorStats {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make(map[Role]*actor.ActorStats, len(d.refs))
	for role, ref := range d.refs {
		out[role] = ref.Stats()
	}
	return out
}

// Shutdown 关闭 Dispatcher
//
// 未完成的请求以 ErrDispatcherClosed 拒绝，全部 Actor 停止，
// 后台循环在 ctx 期限内回收。
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	outstanding := make([]*pendingCall, 0, len(d.pending))
	for _, pc := range d.pending {
		outstanding = append(outstanding, pc)
	}
	d.pending = make(map[string]*pendingCall)
	refs := make([]*actor.Ref, 0, len(d.refs))
	for _, ref := range d.refs {
		refs = append(refs, ref)
	}
	d.mu.Unlock()

	for _, pc := range outstanding {
		pc.timer.Stop()
		pc.call.complete(nil, ErrDispatcherClosed)
	}
	for _, ref := range refs {
		ref.Stop()
	}
	d.cancel()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		d.logger.Debug("dispatcher stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
