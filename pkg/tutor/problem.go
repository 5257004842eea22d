package tutor

import (
	"context"
	"fmt"
	"math/rand"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/lwmacct/260830-go-pkg-tutor/pkg/actor"
	"github.com/lwmacct/260830-go-pkg-tutor/pkg/store"
)

// problemActor 题目角色处理器
//
// 随机源由外部注入，测试时可使用固定种子获得确定性选题。
type problemActor struct {
	store store.Store
	rng   *rand.Rand
}

func newProblemActor(st store.Store, rng *rand.Rand) *problemActor {
	return &problemActor{store: st, rng: rng}
}

// Handle 实现 actor.Handler 接口
func (a *problemActor) Handle(ctx context.Context, msg *actor.Message) (any, error) {
	switch msg.Type {
	case MsgProblemRequest:
		return a.request(ctx, msg)
	case MsgProblemSuggest:
		return a.suggest(ctx, msg)
	case MsgProblemProvide:
		return a.provide(ctx, msg)
	case MsgProblemFilter:
		return a.filter(ctx, msg)
	default:
		return nil, unknownType(RoleProblem, msg)
	}
}

// request 按条件随机选取一道题目并记录使用
//
// 无匹配时合成通用题目，属于既定策略而非错误。
func (a *problemActor) request(ctx context.Context, msg *actor.Message) (any, error) {
	req, err := payloadAs[RequestProblemRequest](msg)
	if err != nil {
		return nil, err
	}

	matches, err := a.matching(ctx, req.Difficulty, req.Categories)
	if err != nil {
		return nil, err
	}

	var problem CodingProblem
	if len(matches) == 0 {
		problem = synthesizeProblem(req.Difficulty, req.Categories)
		if _, err := a.store.Put(ctx, colProblems, &problem); err != nil {
			return nil, fmt.Errorf("persist synthesized problem: %w", err)
		}
	} else {
		problem = matches[a.rng.Intn(len(matches))]
	}

	usage := &ProblemUsage{
		ID:        uuid.New().String(),
		ProblemID: problem.ID,
		UserID:    req.UserID,
		SessionID: req.SessionID,
		UsedAt:    time.Now(),
	}
	if _, err := a.store.Put(ctx, colProblemUsage, usage); err != nil {
		return nil, fmt.Errorf("record problem usage: %w", err)
	}

	return &problem, nil
}

// suggest 推荐最多 3 道候选题目，不记录使用
func (a *problemActor) suggest(ctx context.Context, msg *actor.Message) (any, error) {
	req, err := payloadAs[SuggestProblemsRequest](msg)
	if err != nil {
		return nil, err
	}

	matches, err := a.matching(ctx, req.Difficulty, req.Categories)
	if err != nil {
		return nil, err
	}

	if len(matches) == 0 {
		problem := synthesizeProblem(req.Difficulty, req.Categories)
		if _, err := a.store.Put(ctx, colProblems, &problem); err != nil {
			return nil, fmt.Errorf("persist synthesized problem: %w", err)
		}
		return []CodingProblem{problem}, nil
	}

	limit := min(3, len(matches))
	picked := make([]CodingProblem, 0, limit)
	for _, i := range a.rng.Perm(len(matches))[:limit] {
		picked = append(picked, matches[i])
	}
	return picked, nil
}

// provide 按 id 获取题目
func (a *problemActor) provide(ctx context.Context, msg *actor.Message) (any, error) {
	req, err := payloadAs[ProvideProblemRequest](msg)
	if err != nil {
		return nil, err
	}

	var problem CodingProblem
	found, err := a.store.Get(ctx, colProblems, req.ProblemID, &problem)
	if err != nil {
		return nil, fmt.Errorf("load problem: %w", err)
	}
	if !found {
		return nil, &NotFoundError{Kind: "problem", ID: req.ProblemID}
	}
	return &problem, nil
}

// filter 返回全部匹配的题目，不做选取
func (a *problemActor) filter(ctx context.Context, msg *actor.Message) (any, error) {
	req, err := payloadAs[FilterProblemsRequest](msg)
	if err != nil {
		return nil, err
	}
	return a.matching(ctx, req.Difficulty, req.Categories)
}

// matching 读取目录（首次空读时播种）并按条件筛选
func (a *problemActor) matching(ctx context.Context, difficulty string, categories []string) ([]CodingProblem, error) {
	catalog, err := a.catalog(ctx)
	if err != nil {
		return nil, err
	}

	matches := make([]CodingProblem, 0, len(catalog))
	for _, p := range catalog {
		if difficulty != "" && p.Difficulty != difficulty {
			continue
		}
		if len(categories) > 0 && !hasAnyCategory(p.Categories, categories) {
			continue
		}
		matches = append(matches, p)
	}
	return matches, nil
}

// catalog 读取题目目录，首次空读时写入种子题目
func (a *problemActor) catalog(ctx context.Context) ([]CodingProblem, error) {
	var catalog []CodingProblem
	if err := a.store.GetAll(ctx, colProblems, &catalog); err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	if len(catalog) > 0 {
		return catalog, nil
	}

	catalog = seedProblems()
	for i := range catalog {
		if _, err := a.store.Put(ctx, colProblems, &catalog[i]); err != nil {
			return nil, fmt.Errorf("seed catalog: %w", err)
		}
	}
	return catalog, nil
}

// hasAnyCategory 判断题目类别与请求类别是否有交集
func hasAnyCategory(have, want []string) bool {
	for _, w := range want {
		if slices.Contains(have, w) {
			return true
		}
	}
	return false
}
