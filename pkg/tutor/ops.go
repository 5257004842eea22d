package tutor

import (
	"context"
	"fmt"

	"github.com/lwmacct/260830-go-pkg-tutor/pkg/actor"
)

// 本文件为每个公开用例提供一个类型化便捷方法：构造正确形状的请求、
// 调用 Send、等待并断言结果负载类型。

// call 发送请求并等待类型化结果
func call[T any](ctx context.Context, d *Dispatcher, role Role, msgType string, payload any) (T, error) {
	var zero T
	c := d.Send(role, &actor.Message{Type: msgType, Payload: payload})
	result, err := c.Await(ctx)
	if err != nil {
		return zero, err
	}
	typed, ok := result.(T)
	if !ok {
		return zero, fmt.Errorf("%s: unexpected result type %T", msgType, result)
	}
	return typed, nil
}

// ============== Session ==============

// InitSession 初始化辅导会话
func (d *Dispatcher) InitSession(ctx context.Context, req *InitSessionRequest) (*InitSessionResult, error) {
	return call[*InitSessionResult](ctx, d, RoleSession, MsgSessionInit, req)
}

// UpdateSession 更新会话上下文
func (d *Dispatcher) UpdateSession(ctx context.Context, req *UpdateSessionRequest) (*SessionContext, error) {
	return call[*SessionContext](ctx, d, RoleSession, MsgSessionUpdate, req)
}

// EndSession 结束会话（标记非活跃，不删除）
func (d *Dispatcher) EndSession(ctx context.Context, req *EndSessionRequest) (*SessionContext, error) {
	return call[*SessionContext](ctx, d, RoleSession, MsgSessionEnd, req)
}

// PersistSessionMessage 向会话历史追加一条消息
func (d *Dispatcher) PersistSessionMessage(ctx context.Context, req *PersistMessageRequest) (*SessionContext, error) {
	return call[*SessionContext](ctx, d, RoleSession, MsgSessionPersist, req)
}

// ============== Problem ==============

// RequestProblem 按条件选取一道题目并记录使用
func (d *Dispatcher) RequestProblem(ctx context.Context, req *RequestProblemRequest) (*CodingProblem, error) {
	return call[*CodingProblem](ctx, d, RoleProblem, MsgProblemRequest, req)
}

// SuggestProblems 推荐最多 3 道候选题目
func (d *Dispatcher) SuggestProblems(ctx context.Context, req *SuggestProblemsRequest) ([]CodingProblem, error) {
	return call[[]CodingProblem](ctx, d, RoleProblem, MsgProblemSuggest, req)
}

// ProvideProblem 按 id 获取题目
func (d *Dispatcher) ProvideProblem(ctx context.Context, req *ProvideProblemRequest) (*CodingProblem, error) {
	return call[*CodingProblem](ctx, d, RoleProblem, MsgProblemProvide, req)
}

// FilterProblems 返回全部匹配的题目，不做选取
func (d *Dispatcher) FilterProblems(ctx context.Context, req *FilterProblemsRequest) ([]CodingProblem, error) {
	return call[[]CodingProblem](ctx, d, RoleProblem, MsgProblemFilter, req)
}

// ============== Evaluation ==============

// EvaluateCode 评估提交代码并持久化一条评估记录
func (d *Dispatcher) EvaluateCode(ctx context.Context, req *EvaluateCodeRequest) (*CodeEvaluation, error) {
	return call[*CodeEvaluation](ctx, d, RoleEvaluation, MsgEvaluationEvaluate, req)
}

// RequestFeedback 获取反馈，优先复用匹配的既有评估
func (d *Dispatcher) RequestFeedback(ctx context.Context, req *EvaluateCodeRequest) (*FeedbackResult, error) {
	return call[*FeedbackResult](ctx, d, RoleEvaluation, MsgEvaluationFeedback, req)
}

// RequestImprovement 获取改进建议，优先复用匹配的既有评估
func (d *Dispatcher) RequestImprovement(ctx context.Context, req *EvaluateCodeRequest) (*ImprovementResult, error) {
	return call[*ImprovementResult](ctx, d, RoleEvaluation, MsgEvaluationImprove, req)
}

// ============== Hint ==============

// RequestHint 请求一条新提示，显式程度随已提供次数递进
func (d *Dispatcher) RequestHint(ctx context.Context, req *RequestHintRequest) (*Hint, error) {
	return call[*Hint](ctx, d, RoleHint, MsgHintRequest, req)
}

// ProvideHint 按 id 获取提示
func (d *Dispatcher) ProvideHint(ctx context.Context, req *ProvideHintRequest) (*Hint, error) {
	return call[*Hint](ctx, d, RoleHint, MsgHintProvide, req)
}

// ============== StudyPlan ==============

// AnalyzeProgress 分析用户进度，不持久化
func (d *Dispatcher) AnalyzeProgress(ctx context.Context, req *StudyPlanRequest) (*ProgressReport, error) {
	return call[*ProgressReport](ctx, d, RoleStudyPlan, MsgStudyPlanAnalyze, req)
}

// GenerateStudyPlan 生成学习计划并覆盖持久化
func (d *Dispatcher) GenerateStudyPlan(ctx context.Context, req *StudyPlanRequest) (*StudyPlan, error) {
	return call[*StudyPlan](ctx, d, RoleStudyPlan, MsgStudyPlanGenerate, req)
}

// UpdateStudyPlan 重建既有学习计划；计划不存在返回 NotFoundError
func (d *Dispatcher) UpdateStudyPlan(ctx context.Context, req *StudyPlanRequest) (*StudyPlan, error) {
	return call[*StudyPlan](ctx, d, RoleStudyPlan, MsgStudyPlanUpdate, req)
}

// ============== History ==============

// FetchHistory 查询会话历史，按开始时间倒序
func (d *Dispatcher) FetchHistory(ctx context.Context, req *FetchHistoryRequest) ([]SessionHistory, error) {
	return call[[]SessionHistory](ctx, d, RoleHistory, MsgHistoryFetch, req)
}

// SaveHistory 保存（upsert）一条会话历史
func (d *Dispatcher) SaveHistory(ctx context.Context, req *SaveHistoryRequest) (*SessionHistory, error) {
	return call[*SessionHistory](ctx, d, RoleHistory, MsgHistorySave, req)
}

// AnalyzeHistory 分析历史趋势
func (d *Dispatcher) AnalyzeHistory(ctx context.Context, req *AnalyzeHistoryRequest) (*HistoryAnalysis, error) {
	return call[*HistoryAnalysis](ctx, d, RoleHistory, MsgHistoryAnalyze, req)
}
