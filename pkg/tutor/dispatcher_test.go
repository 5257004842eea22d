package tutor

import (
	"context"
	"io"
	"log/slog"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lwmacct/260830-go-pkg-tutor/pkg/actor"
	"github.com/lwmacct/260830-go-pkg-tutor/pkg/store"
)

func newTestDispatcher(t *testing.T, opts ...Option) *Dispatcher {
	t.Helper()

	base := []Option{
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithRand(rand.New(rand.NewSource(1))),
		WithTimeout(2 * time.Second),
	}
	d := New(store.NewMemory(), append(base, opts...)...)
	t.Cleanup(func() { _ = d.Shutdown(context.Background()) })
	return d
}

func validEvaluateRequest() *EvaluateCodeRequest {
	return &EvaluateCodeRequest{
		Code:      "func twoSum(nums []int, target int) []int {\n\tseen := make(map[int]int)\n\tfor i, n := range nums {\n\t\tif j, ok := seen[target-n]; ok {\n\t\t\treturn []int{j, i}\n\t\t}\n\t\tseen[n] = i\n\t}\n\treturn nil\n}",
		Language:  "go",
		ProblemID: "two-sum",
		UserID:    "u1",
		SessionID: "s1",
	}
}

// seedCatalog 触发首次空读播种
func seedCatalog(t *testing.T, d *Dispatcher) {
	t.Helper()
	_, err := d.FilterProblems(context.Background(), &FilterProblemsRequest{})
	require.NoError(t, err)
}

func TestResponseIDMatchesRequest(t *testing.T) {
	d := newTestDispatcher(t)

	msg := &actor.Message{
		ID:   "fixed-id",
		Type: MsgSessionInit,
		Payload: &InitSessionRequest{
			UserID:          "u1",
			ExperienceLevel: "beginner",
			TargetAreas:     []string{"arrays"},
		},
	}
	c := d.Send(RoleSession, msg)

	payload, err := c.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "fixed-id", c.Request.ID)
	assert.IsType(t, &InitSessionResult{}, payload)
}

func TestSendAssignsID(t *testing.T) {
	d := newTestDispatcher(t)

	c := d.Send(RoleSession, &actor.Message{
		Type: MsgSessionInit,
		Payload: &InitSessionRequest{
			UserID:          "u1",
			ExperienceLevel: "beginner",
			TargetAreas:     []string{"arrays"},
		},
	})
	assert.NotEmpty(t, c.Request.ID)

	_, err := c.Await(context.Background())
	require.NoError(t, err)
}

func TestMissingTypeRejectsWithoutHang(t *testing.T) {
	d := newTestDispatcher(t)

	c := d.Send(RoleSession, &actor.Message{Payload: &InitSessionRequest{}})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, err := c.Await(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, actor.ErrMissingType)
}

func TestValidationErrorRejects(t *testing.T) {
	d := newTestDispatcher(t)

	_, err := d.InitSession(context.Background(), &InitSessionRequest{
		ExperienceLevel: "beginner",
		TargetAreas:     []string{"arrays"},
	})
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestUnknownMessageTypeRejects(t *testing.T) {
	d := newTestDispatcher(t)

	c := d.Send(RoleSession, &actor.Message{Type: "session.bogus", Payload: &EndSessionRequest{SessionID: "x"}})
	_, err := c.Await(context.Background())
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

// TestFaultRespawn 模拟 evaluation 角色的执行单元在处理中途失效：
// 在途请求按超时拒绝，重建后的后续请求正常成功。
func TestFaultRespawn(t *testing.T) {
	d := newTestDispatcher(t, WithTimeout(150*time.Millisecond))
	seedCatalog(t, d)
	ctx := context.Background()

	// 换入一个会卡死并崩溃的执行单元
	wedged := make(chan struct{})
	d.mu.Lock()
	old := d.refs[RoleEvaluation]
	d.refs[RoleEvaluation] = actor.Spawn(d.ctx, string(RoleEvaluation),
		actor.HandlerFunc(func(_ context.Context, _ *actor.Message) (any, error) {
			<-wedged
			panic("execution unit crashed")
		}),
		d.bus,
		actor.WithLogger(d.logger))
	d.mu.Unlock()
	old.Stop()

	// 在途请求观测到超时
	_, err := d.EvaluateCode(ctx, validEvaluateRequest())
	require.Error(t, err)
	assert.True(t, IsTimeout(err))

	// 触发故障，等待重建后的实例接管
	close(wedged)
	require.Eventually(t, func() bool {
		_, err := d.EvaluateCode(ctx, validEvaluateRequest())
		return err == nil
	}, 3*time.Second, 50*time.Millisecond)
}

func TestRestartBudgetExhaustion(t *testing.T) {
	d := newTestDispatcher(t, WithRestartPolicy(1, time.Minute))
	seedCatalog(t, d)

	// 第一次故障在预算内重建，第二次耗尽预算后角色下线
	d.bus.Faults <- actor.Fault{Role: string(RoleEvaluation), Reason: "boom", At: time.Now()}
	d.bus.Faults <- actor.Fault{Role: string(RoleEvaluation), Reason: "boom again", At: time.Now()}

	require.Eventually(t, func() bool {
		_, err := d.EvaluateCode(context.Background(), validEvaluateRequest())
		return IsActorFault(err)
	}, 3*time.Second, 50*time.Millisecond)

	// 其他角色不受影响
	_, err := d.InitSession(context.Background(), &InitSessionRequest{
		UserID:          "u1",
		ExperienceLevel: "beginner",
		TargetAreas:     []string{"arrays"},
	})
	require.NoError(t, err)
}

func TestShutdownRejectsNewRequests(t *testing.T) {
	d := New(store.NewMemory(),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	require.NoError(t, d.Shutdown(context.Background()))

	_, err := d.InitSession(context.Background(), &InitSessionRequest{
		UserID:          "u1",
		ExperienceLevel: "beginner",
		TargetAreas:     []string{"arrays"},
	})
	assert.ErrorIs(t, err, ErrDispatcherClosed)

	// 幂等
	require.NoError(t, d.Shutdown(context.Background()))
}

func TestConcurrentRequests(t *testing.T) {
	d := newTestDispatcher(t)
	ctx := context.Background()

	const n = 20
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		go func() {
			_, err := d.InitSession(ctx, &InitSessionRequest{
				UserID:          "u1",
				ExperienceLevel: "intermediate",
				TargetAreas:     []string{"arrays"},
			})
			errs <- err
		}()
	}
	for i := 0; i < n; i++ {
		require.NoError(t, <-errs)
	}
}

func TestStats(t *testing.T) {
	d := newTestDispatcher(t)

	_, err := d.InitSession(context.Background(), &InitSessionRequest{
		UserID:          "u1",
		ExperienceLevel: "beginner",
		TargetAreas:     []string{"arrays"},
	})
	require.NoError(t, err)

	stats := d.Stats()
	require.Contains(t, stats, RoleSession)
	assert.Equal(t, int64(1), stats[RoleSession].MessagesReceived)
}
