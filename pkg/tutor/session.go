package tutor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lwmacct/260830-go-pkg-tutor/pkg/actor"
	"github.com/lwmacct/260830-go-pkg-tutor/pkg/store"
)

// sessionActor 会话角色处理器
type sessionActor struct {
	store store.Store
}

func newSessionActor(st store.Store) *sessionActor {
	return &sessionActor{store: st}
}

// Handle 实现 actor.Handler 接口
func (a *sessionActor) Handle(ctx context.Context, msg *actor.Message) (any, error) {
	switch msg.Type {
	case MsgSessionInit:
		return a.init(ctx, msg)
	case MsgSessionUpdate:
		return a.update(ctx, msg)
	case MsgSessionEnd:
		return a.end(ctx, msg)
	case MsgSessionPersist:
		return a.persist(ctx, msg)
	default:
		return nil, unknownType(RoleSession, msg)
	}
}

// init 创建会话并生成按经验水平定制的欢迎语
func (a *sessionActor) init(ctx context.Context, msg *actor.Message) (any, error) {
	req, err := payloadAs[InitSessionRequest](msg)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	welcome := welcomeMessage(req.ExperienceLevel, req.TargetAreas)
	sc := &SessionContext{
		ID:               uuid.New().String(),
		UserID:           req.UserID,
		ExperienceLevel:  req.ExperienceLevel,
		TargetAreas:      req.TargetAreas,
		SessionStartTime: now,
		LastActive:       now,
		Active:           true,
		Messages: []SessionMessage{
			{Role: "tutor", Content: welcome, At: now},
		},
	}

	if _, err := a.store.Put(ctx, colSessions, sc); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}

	return &InitSessionResult{
		SessionID: sc.ID,
		Welcome:   welcome,
		Context:   sc,
	}, nil
}

// update 更新会话上下文，零值字段保持不变
func (a *sessionActor) update(ctx context.Context, msg *actor.Message) (any, error) {
	req, err := payloadAs[UpdateSessionRequest](msg)
	if err != nil {
		return nil, err
	}

	sc, err := a.load(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}

	if req.ExperienceLevel != "" {
		sc.ExperienceLevel = req.ExperienceLevel
	}
	if len(req.TargetAreas) > 0 {
		sc.TargetAreas = req.TargetAreas
	}
	sc.LastActive = time.Now()

	if _, err := a.store.Put(ctx, colSessions, sc); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}
	return sc, nil
}

// end 标记会话结束；记录保留，只设置非活跃与结束时间
func (a *sessionActor) end(ctx context.Context, msg *actor.Message) (any, error) {
	req, err := payloadAs[EndSessionRequest](msg)
	if err != nil {
		return nil, err
	}

	sc, err := a.load(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	sc.Active = false
	sc.EndTime = &now
	sc.LastActive = now

	if _, err := a.store.Put(ctx, colSessions, sc); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}
	return sc, nil
}

// persist 向会话历史追加一条消息
func (a *sessionActor) persist(ctx context.Context, msg *actor.Message) (any, error) {
	req, err := payloadAs[PersistMessageRequest](msg)
	if err != nil {
		return nil, err
	}

	sc, err := a.load(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	sc.Messages = append(sc.Messages, SessionMessage{
		Role:    req.Role,
		Content: req.Content,
		At:      now,
	})
	sc.LastActive = now

	if _, err := a.store.Put(ctx, colSessions, sc); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}
	return sc, nil
}

// load 按 id 读取会话
func (a *sessionActor) load(ctx context.Context, id string) (*SessionContext, error) {
	var sc SessionContext
	found, err := a.store.Get(ctx, colSessions, id, &sc)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if !found {
		return nil, &NotFoundError{Kind: "session", ID: id}
	}
	return &sc, nil
}

// welcomeMessage 按经验水平生成欢迎语
func welcomeMessage(level string, areas []string) string {
	focus := strings.Join(areas, ", ")
	switch level {
	case "beginner":
		return fmt.Sprintf(
			"Welcome! We'll start with foundational concepts in %s and build up step by step.",
			focus)
	case "intermediate":
		return fmt.Sprintf(
			"Welcome back! We'll sharpen your skills in %s with progressively harder problems.",
			focus)
	default:
		return fmt.Sprintf(
			"Welcome! We'll dig into advanced techniques and edge cases in %s.",
			focus)
	}
}
