package tutor

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/lwmacct/260830-go-pkg-tutor/pkg/actor"
	"github.com/lwmacct/260830-go-pkg-tutor/pkg/store"
)

// studyPlanActor 学习计划角色处理器
type studyPlanActor struct {
	store store.Store
}

func newStudyPlanActor(st store.Store) *studyPlanActor {
	return &studyPlanActor{store: st}
}

// Handle 实现 actor.Handler 接口
func (a *studyPlanActor) Handle(ctx context.Context, msg *actor.Message) (any, error) {
	switch msg.Type {
	case MsgStudyPlanAnalyze:
		return a.analyze(ctx, msg)
	case MsgStudyPlanGenerate:
		return a.generate(ctx, msg)
	case MsgStudyPlanUpdate:
		return a.update(ctx, msg)
	default:
		return nil, unknownType(RoleStudyPlan, msg)
	}
}

// analyze 计算进度指标，不持久化
func (a *studyPlanActor) analyze(ctx context.Context, msg *actor.Message) (any, error) {
	req, err := payloadAs[StudyPlanRequest](msg)
	if err != nil {
		return nil, err
	}

	evals, err := a.loadEvaluations(ctx, req.UserID, req.SessionIDs)
	if err != nil {
		return nil, err
	}
	metrics, err := a.buildMetrics(ctx, evals)
	if err != nil {
		return nil, err
	}

	return &ProgressReport{
		UserID:        req.UserID,
		Metrics:       metrics,
		TopStrengths:  topCategories(metrics, true, 2),
		TopWeaknesses: topCategories(metrics, false, 2),
		Evaluated:     len(evals),
	}, nil
}

// generate 全量重建学习计划并持久化，覆盖该用户的上一份
//
// 用户没有任何评估时返回入门计划，而不是错误。
func (a *studyPlanActor) generate(ctx context.Context, msg *actor.Message) (any, error) {
	req, err := payloadAs[StudyPlanRequest](msg)
	if err != nil {
		return nil, err
	}
	return a.rebuild(ctx, req)
}

// update 重建既有学习计划；计划不存在返回 NotFoundError
func (a *studyPlanActor) update(ctx context.Context, msg *actor.Message) (any, error) {
	req, err := payloadAs[StudyPlanRequest](msg)
	if err != nil {
		return nil, err
	}

	var existing StudyPlan
	found, err := a.store.Get(ctx, colStudyPlans, req.UserID, &existing)
	if err != nil {
		return nil, fmt.Errorf("load study plan: %w", err)
	}
	if !found {
		return nil, &NotFoundError{Kind: "study plan", ID: req.UserID}
	}
	return a.rebuild(ctx, req)
}

// rebuild 构建计划并持久化；计划 id 等于 userId 以实现覆盖
func (a *studyPlanActor) rebuild(ctx context.Context, req *StudyPlanRequest) (*StudyPlan, error) {
	evals, err := a.loadEvaluations(ctx, req.UserID, req.SessionIDs)
	if err != nil {
		return nil, err
	}
	metrics, err := a.buildMetrics(ctx, evals)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	plan := &StudyPlan{
		ID:          req.UserID,
		UserID:      req.UserID,
		Metrics:     metrics,
		GeneratedAt: now,
	}

	if len(evals) == 0 {
		plan.Recommendations = []Recommendation{{
			Priority: 1,
			Category: "fundamentals",
			Action:   "Solve a few easy problems to establish a baseline.",
			Reason:   "No evaluations recorded yet.",
		}}
		plan.Milestones = []Milestone{{
			Title:       "First evaluations",
			Description: "Complete and submit three easy problems.",
			TargetDate:  now.AddDate(0, 0, 7),
		}}
	} else {
		plan.Recommendations = buildRecommendations(metrics)
		plan.Milestones = buildMilestones(metrics, now)
	}

	if _, err := a.store.Put(ctx, colStudyPlans, plan); err != nil {
		return nil, fmt.Errorf("persist study plan: %w", err)
	}
	return plan, nil
}

// loadEvaluations 读取用户的评估记录，可选按会话过滤
func (a *studyPlanActor) loadEvaluations(ctx context.Context, userID string, sessionIDs []string) ([]CodeEvaluation, error) {
	var all []CodeEvaluation
	if err := a.store.GetAll(ctx, colEvaluations, &all); err != nil {
		return nil, fmt.Errorf("load evaluations: %w", err)
	}

	out := make([]CodeEvaluation, 0, len(all))
	for _, e := range all {
		if e.UserID != userID {
			continue
		}
		if len(sessionIDs) > 0 && !slices.Contains(sessionIDs, e.SessionID) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

// categoryAgg 单个类别的聚合中间态
type categoryAgg struct {
	sum        float64
	attempts   int
	strengths  map[string]bool
	weaknesses map[string]bool
}

// buildMetrics 按题目类别聚合评估结果
func (a *studyPlanActor) buildMetrics(ctx context.Context, evals []CodeEvaluation) ([]CategoryMetric, error) {
	problems := make(map[string][]string)
	agg := make(map[string]*categoryAgg)

	for i := range evals {
		e := &evals[i]
		cats, ok := problems[e.ProblemID]
		if !ok {
			var p CodingProblem
			found, err := a.store.Get(ctx, colProblems, e.ProblemID, &p)
			if err != nil {
				return nil, fmt.Errorf("load problem: %w", err)
			}
			if found {
				cats = p.Categories
			}
			problems[e.ProblemID] = cats
		}

		for _, cat := range cats {
			ca := agg[cat]
			if ca == nil {
				ca = &categoryAgg{
					strengths:  make(map[string]bool),
					weaknesses: make(map[string]bool),
				}
				agg[cat] = ca
			}
			ca.sum += e.OverallScore
			ca.attempts++
			for name, score := range facetScores(e) {
				if score >= 0.8 {
					ca.strengths[name] = true
				} else if score <= 0.5 {
					ca.weaknesses[name] = true
				}
			}
		}
	}

	metrics := make([]CategoryMetric, 0, len(agg))
	for cat, ca := range agg {
		metrics = append(metrics, CategoryMetric{
			Category:   cat,
			Score:      ca.sum / float64(ca.attempts),
			Attempts:   ca.attempts,
			Strengths:  sortedKeys(ca.strengths),
			Weaknesses: sortedKeys(ca.weaknesses),
		})
	}
	sort.Slice(metrics, func(i, j int) bool {
		return metrics[i].Category < metrics[j].Category
	})
	return metrics, nil
}

// facetScores 评估记录的各分面得分
func facetScores(e *CodeEvaluation) map[string]float64 {
	return map[string]float64{
		"correctness":        e.Correctness,
		"time complexity":    e.TimeComplexity.Score,
		"space complexity":   e.SpaceComplexity.Score,
		"edge case coverage": e.EdgeCases.Score,
		"code quality":       qualityAverage(e.CodeQuality),
	}
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// buildRecommendations 按分数升序为最薄弱的类别生成建议，优先级 1-5
func buildRecommendations(metrics []CategoryMetric) []Recommendation {
	byScore := slices.Clone(metrics)
	sort.Slice(byScore, func(i, j int) bool {
		return byScore[i].Score < byScore[j].Score
	})

	out := make([]Recommendation, 0, min(5, len(byScore)))
	for i, m := range byScore {
		if i >= 5 {
			break
		}
		out = append(out, Recommendation{
			Priority: i + 1,
			Category: m.Category,
			Action:   fmt.Sprintf("Practice more %s problems, starting below your current difficulty.", m.Category),
			Reason:   fmt.Sprintf("Average score %.0f over %d attempts.", m.Score, m.Attempts),
		})
	}
	return out
}

// buildMilestones 生成有时间框的阶段目标
func buildMilestones(metrics []CategoryMetric, now time.Time) []Milestone {
	weakest := topCategories(metrics, false, 1)
	focus := "your weakest category"
	if len(weakest) > 0 {
		focus = weakest[0]
	}

	return []Milestone{
		{
			Title:       "Stabilize " + focus,
			Description: fmt.Sprintf("Raise your average score in %s above 70.", focus),
			TargetDate:  now.AddDate(0, 0, 7),
		},
		{
			Title:       "Broaden coverage",
			Description: "Attempt at least one problem in every target category.",
			TargetDate:  now.AddDate(0, 0, 14),
		},
		{
			Title:       "Level up",
			Description: "Move one difficulty level up in your strongest category.",
			TargetDate:  now.AddDate(0, 0, 28),
		},
	}
}

// topCategories 按分数排序返回前 n 个类别名
func topCategories(metrics []CategoryMetric, best bool, n int) []string {
	byScore := slices.Clone(metrics)
	sort.Slice(byScore, func(i, j int) bool {
		if best {
			return byScore[i].Score > byScore[j].Score
		}
		return byScore[i].Score < byScore[j].Score
	})

	out := make([]string, 0, n)
	for i, m := range byScore {
		if i >= n {
			break
		}
		out = append(out, m.Category)
	}
	return out
}
