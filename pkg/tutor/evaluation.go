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

// 总分权重
const (
	weightCorrectness = 0.35
	weightTime        = 0.15
	weightSpace       = 0.10
	weightEdgeCases   = 0.20
	weightQuality     = 0.20
)

// evaluationActor 评估角色处理器
type evaluationActor struct {
	store store.Store
}

func newEvaluationActor(st store.Store) *evaluationActor {
	return &evaluationActor{store: st}
}

// Handle 实现 actor.Handler 接口
func (a *evaluationActor) Handle(ctx context.Context, msg *actor.Message) (any, error) {
	switch msg.Type {
	case MsgEvaluationEvaluate:
		return a.evaluate(ctx, msg)
	case MsgEvaluationFeedback:
		return a.feedback(ctx, msg)
	case MsgEvaluationImprove:
		return a.improve(ctx, msg)
	default:
		return nil, unknownType(RoleEvaluation, msg)
	}
}

// evaluate 分析提交代码并持久化一条评估记录
func (a *evaluationActor) evaluate(ctx context.Context, msg *actor.Message) (any, error) {
	req, err := payloadAs[EvaluateCodeRequest](msg)
	if err != nil {
		return nil, err
	}
	return a.compute(ctx, req)
}

// feedback 返回反馈，优先复用 (userId, problemId, code) 匹配的既有评估
func (a *evaluationActor) feedback(ctx context.Context, msg *actor.Message) (any, error) {
	req, err := payloadAs[EvaluateCodeRequest](msg)
	if err != nil {
		return nil, err
	}

	eval, err := a.reuseOrCompute(ctx, req)
	if err != nil {
		return nil, err
	}
	return &FeedbackResult{
		EvaluationID: eval.ID,
		Feedback:     eval.Feedback,
		Suggestions:  eval.Suggestions,
	}, nil
}

// improve 返回改进建议与薄弱分面，优先复用既有评估
func (a *evaluationActor) improve(ctx context.Context, msg *actor.Message) (any, error) {
	req, err := payloadAs[EvaluateCodeRequest](msg)
	if err != nil {
		return nil, err
	}

	eval, err := a.reuseOrCompute(ctx, req)
	if err != nil {
		return nil, err
	}
	return &ImprovementResult{
		EvaluationID: eval.ID,
		Suggestions:  eval.Suggestions,
		FocusAreas:   focusAreas(eval),
	}, nil
}

// reuseOrCompute 查找匹配的既有评估，不存在则重新计算并持久化
func (a *evaluationActor) reuseOrCompute(ctx context.Context, req *EvaluateCodeRequest) (*CodeEvaluation, error) {
	var evals []CodeEvaluation
	if err := a.store.GetAll(ctx, colEvaluations, &evals); err != nil {
		return nil, fmt.Errorf("load evaluations: %w", err)
	}
	for i := range evals {
		e := &evals[i]
		if e.UserID == req.UserID && e.ProblemID == req.ProblemID && e.Code == req.Code {
			return e, nil
		}
	}
	return a.compute(ctx, req)
}

// compute 执行静态分析、加权合成总分并持久化
func (a *evaluationActor) compute(ctx context.Context, req *EvaluateCodeRequest) (*CodeEvaluation, error) {
	var problem CodingProblem
	found, err := a.store.Get(ctx, colProblems, req.ProblemID, &problem)
	if err != nil {
		return nil, fmt.Errorf("load problem: %w", err)
	}
	if !found {
		return nil, &NotFoundError{Kind: "problem", ID: req.ProblemID}
	}

	actualTime := estimateTimeComplexity(req.Code)
	actualSpace := estimateSpaceComplexity(req.Code)

	eval := &CodeEvaluation{
		ID:          uuid.New().String(),
		UserID:      req.UserID,
		SessionID:   req.SessionID,
		ProblemID:   req.ProblemID,
		Code:        req.Code,
		Language:    req.Language,
		Correctness: scoreCorrectness(req.Code, &problem),
		TimeComplexity: ComplexityScore{
			Actual:   actualTime,
			Expected: problem.ExpectedTime,
			Score:    scoreComplexity(actualTime, problem.ExpectedTime),
		},
		SpaceComplexity: ComplexityScore{
			Actual:   actualSpace,
			Expected: problem.ExpectedSpace,
			Score:    scoreComplexity(actualSpace, problem.ExpectedSpace),
		},
		EdgeCases:   edgeCaseCoverage(req.Code, problem.EdgeCases),
		CodeQuality: scoreQuality(req.Code),
		CreatedAt:   time.Now(),
	}

	eval.OverallScore = 100 * (weightCorrectness*eval.Correctness +
		weightTime*eval.TimeComplexity.Score +
		weightSpace*eval.SpaceComplexity.Score +
		weightEdgeCases*eval.EdgeCases.Score +
		weightQuality*qualityAverage(eval.CodeQuality))
	eval.Feedback = buildFeedback(eval, &problem)
	eval.Suggestions = buildSuggestions(eval)

	if _, err := a.store.Put(ctx, colEvaluations, eval); err != nil {
		return nil, fmt.Errorf("persist evaluation: %w", err)
	}
	return eval, nil
}

// buildFeedback 组合可读的反馈文本
func buildFeedback(e *CodeEvaluation, problem *CodingProblem) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Your solution to %q scored %.0f/100.", problem.Title, e.OverallScore)

	switch {
	case e.OverallScore >= 80:
		b.WriteString(" Solid work overall.")
	case e.OverallScore >= 60:
		b.WriteString(" A good base with room to improve.")
	default:
		b.WriteString(" There are several areas to work on.")
	}

	if e.TimeComplexity.Score < 1.0 {
		fmt.Fprintf(&b, " Estimated time complexity %s is worse than the expected %s.",
			e.TimeComplexity.Actual, e.TimeComplexity.Expected)
	}
	if len(e.EdgeCases.Missed) > 0 {
		fmt.Fprintf(&b, " Unhandled edge cases: %s.", strings.Join(e.EdgeCases.Missed, ", "))
	}
	return b.String()
}

// buildSuggestions 按薄弱分面生成建议
func buildSuggestions(e *CodeEvaluation) []string {
	var out []string
	if e.Correctness < 0.7 {
		out = append(out, "Walk through the examples by hand and make sure every branch returns a result.")
	}
	if e.TimeComplexity.Score < 1.0 {
		out = append(out, fmt.Sprintf("Look for a way to reduce %s toward %s, for example by trading memory for lookups.",
			e.TimeComplexity.Actual, e.TimeComplexity.Expected))
	}
	if e.SpaceComplexity.Score < 1.0 {
		out = append(out, fmt.Sprintf("Try to bring memory use down from %s toward %s.",
			e.SpaceComplexity.Actual, e.SpaceComplexity.Expected))
	}
	for _, missed := range e.EdgeCases.Missed {
		out = append(out, fmt.Sprintf("Add handling for the %q case.", missed))
	}
	if qualityAverage(e.CodeQuality) < 0.7 {
		out = append(out, "Shorten long lines and add a comment explaining the core idea.")
	}
	if len(out) == 0 {
		out = append(out, "Try the next difficulty level to keep progressing.")
	}
	return out
}

// focusAreas 识别最薄弱的分面
func focusAreas(e *CodeEvaluation) []string {
	type facet struct {
		name  string
		score float64
	}
	facets := []facet{
		{"correctness", e.Correctness},
		{"time complexity", e.TimeComplexity.Score},
		{"space complexity", e.SpaceComplexity.Score},
		{"edge case coverage", e.EdgeCases.Score},
		{"code quality", qualityAverage(e.CodeQuality)},
	}

	var out []string
	for _, f := range facets {
		if f.score < 0.7 {
			out = append(out, f.name)
		}
	}
	if len(out) == 0 {
		out = append(out, "consistency")
	}
	return out
}
