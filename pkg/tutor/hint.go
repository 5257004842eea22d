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

// hintActor 提示角色处理器
type hintActor struct {
	store store.Store
}

func newHintActor(st store.Store) *hintActor {
	return &hintActor{store: st}
}

// Handle 实现 actor.Handler 接口
func (a *hintActor) Handle(ctx context.Context, msg *actor.Message) (any, error) {
	switch msg.Type {
	case MsgHintRequest:
		return a.request(ctx, msg)
	case MsgHintProvide:
		return a.provide(ctx, msg)
	default:
		return nil, unknownType(RoleHint, msg)
	}
}

// request 生成并持久化一条新提示
//
// 显式程度 level = min(difficultyLevel + hintsProvided, 5)；
// 类别按优先级选取：缺失概念 → 低效 → 缺失边界情况 → 逻辑 → 通用；
// 同一会话同一题目已给出过的文本不会重复。
func (a *hintActor) request(ctx context.Context, msg *actor.Message) (any, error) {
	req, err := payloadAs[RequestHintRequest](msg)
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

	level := req.DifficultyLevel + req.HintsProvided
	if level > 5 {
		level = 5
	}

	seen, err := a.givenTexts(ctx, req.SessionID, req.ProblemID)
	if err != nil {
		return nil, err
	}

	hint := &Hint{
		ID:        uuid.New().String(),
		UserID:    req.UserID,
		SessionID: req.SessionID,
		ProblemID: req.ProblemID,
		Level:     level,
		CreatedAt: time.Now(),
	}

	for _, cand := range hintCandidates(req.Code, &problem) {
		text := hintText(cand, level, &problem)
		if seen[text] {
			continue
		}
		hint.Text = text
		hint.Category = cand.category
		hint.RelatedConcept = cand.concept
		break
	}
	if hint.Text == "" {
		// 全部候选都给过了，退化为带序号的通用提示
		hint.Category = "general"
		hint.Text = fmt.Sprintf("Re-read the problem statement and your code side by side (hint %d).",
			len(seen)+1)
	}
	if level >= 5 && hint.RelatedConcept != "" {
		hint.CodeSnippet = fmt.Sprintf("// sketch: apply %s here", hint.RelatedConcept)
	}

	if _, err := a.store.Put(ctx, colHints, hint); err != nil {
		return nil, fmt.Errorf("persist hint: %w", err)
	}
	return hint, nil
}

// provide 按 id 获取提示
func (a *hintActor) provide(ctx context.Context, msg *actor.Message) (any, error) {
	req, err := payloadAs[ProvideHintRequest](msg)
	if err != nil {
		return nil, err
	}

	var hint Hint
	found, err := a.store.Get(ctx, colHints, req.HintID, &hint)
	if err != nil {
		return nil, fmt.Errorf("load hint: %w", err)
	}
	if !found {
		return nil, &NotFoundError{Kind: "hint", ID: req.HintID}
	}
	return &hint, nil
}

// givenTexts 收集同一会话同一题目已给出的提示文本
func (a *hintActor) givenTexts(ctx context.Context, sessionID, problemID string) (map[string]bool, error) {
	var hints []Hint
	if err := a.store.GetAll(ctx, colHints, &hints); err != nil {
		return nil, fmt.Errorf("load hints: %w", err)
	}

	seen := make(map[string]bool)
	for _, h := range hints {
		if h.SessionID == sessionID && h.ProblemID == problemID {
			seen[h.Text] = true
		}
	}
	return seen, nil
}

// ============== 提示内容选取 ==============

// hintCandidate 提示候选
type hintCandidate struct {
	category string
	concept  string
	detail   string
}

// hintCandidates 按优先级生成提示候选，末尾总有通用候选兜底
func hintCandidates(code string, problem *CodingProblem) []hintCandidate {
	lower := strings.ToLower(code)
	var out []hintCandidate

	for _, concept := range problem.Concepts {
		if !mentionsConcept(lower, concept) {
			out = append(out, hintCandidate{category: "concept", concept: concept})
			break
		}
	}

	actual := estimateTimeComplexity(code)
	if complexityRank(actual) > complexityRank(problem.ExpectedTime) {
		out = append(out, hintCandidate{category: "efficiency", detail: problem.ExpectedTime})
	}

	coverage := edgeCaseCoverage(code, problem.EdgeCases)
	if len(coverage.Missed) > 0 {
		out = append(out, hintCandidate{category: "edge-case", detail: coverage.Missed[0]})
	}

	if !strings.Contains(lower, "return") {
		out = append(out, hintCandidate{category: "logic"})
	}

	return append(out, hintCandidate{category: "general"})
}

func mentionsConcept(lowerCode, concept string) bool {
	for _, w := range strings.Fields(strings.ToLower(concept)) {
		if len(w) >= 3 && strings.Contains(lowerCode, w) {
			return true
		}
	}
	return false
}

// hintText 按类别与显式程度生成提示文本
func hintText(c hintCandidate, level int, problem *CodingProblem) string {
	switch c.category {
	case "concept":
		if level <= 2 {
			return fmt.Sprintf("Think about which data structure or technique fits this problem best. Something related to %s might help.", c.concept)
		}
		if level <= 4 {
			return fmt.Sprintf("This problem is a classic application of %s. Try restructuring your approach around it.", c.concept)
		}
		return fmt.Sprintf("Use %s: it directly gives the property the solution needs.", c.concept)
	case "efficiency":
		if level <= 2 {
			return "Your current approach works, but can it be faster? Count how many times you touch each element."
		}
		if level <= 4 {
			return fmt.Sprintf("There is a %s approach. Look for repeated work you can cache or avoid.", c.detail)
		}
		return fmt.Sprintf("Replace the nested iteration with a single pass using extra bookkeeping to reach %s.", c.detail)
	case "edge-case":
		if level <= 2 {
			return "Test your code mentally against unusual inputs. Is there an input shape you have not considered?"
		}
		if level <= 4 {
			return fmt.Sprintf("Your solution does not yet handle the %q case.", c.detail)
		}
		return fmt.Sprintf("Add an explicit check for %q before the main logic runs.", c.detail)
	case "logic":
		if level <= 2 {
			return "Trace through the first example step by step and compare with the expected output."
		}
		return "Make sure every path through your function produces a result for the caller."
	default:
		if level <= 2 {
			return fmt.Sprintf("Re-read the constraints of %q. One of them narrows the solution space considerably.", problem.Title)
		}
		return fmt.Sprintf("Break %q into smaller steps: what must be true before the main computation can work?", problem.Title)
	}
}
