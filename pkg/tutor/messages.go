package tutor

import (
	"fmt"
	"time"

	"github.com/lwmacct/260830-go-pkg-tutor/pkg/actor"
)

// ═══════════════════════════════════════════════════════════════════════════
// 消息类型
// ═══════════════════════════════════════════════════════════════════════════

// 各角色的消息类型；响应类型为 "<type>.result" 或 "error"
const (
	MsgSessionInit    = "session.init"
	MsgSessionUpdate  = "session.update"
	MsgSessionEnd     = "session.end"
	MsgSessionPersist = "session.persist"

	MsgProblemRequest = "problem.request"
	MsgProblemSuggest = "problem.suggest"
	MsgProblemProvide = "problem.provide"
	MsgProblemFilter  = "problem.filter"

	MsgEvaluationEvaluate = "evaluation.evaluate"
	MsgEvaluationFeedback = "evaluation.feedback"
	MsgEvaluationImprove  = "evaluation.improve"

	MsgHintRequest = "hint.request"
	MsgHintProvide = "hint.provide"

	MsgStudyPlanAnalyze  = "study-plan.analyze"
	MsgStudyPlanGenerate = "study-plan.generate"
	MsgStudyPlanUpdate   = "study-plan.update"

	MsgHistoryFetch   = "history.fetch"
	MsgHistorySave    = "history.save"
	MsgHistoryAnalyze = "history.analyze"
)

// ═══════════════════════════════════════════════════════════════════════════
// 请求负载
// ═══════════════════════════════════════════════════════════════════════════

// InitSessionRequest 初始化会话请求
type InitSessionRequest struct {
	UserID          string   `json:"userId" validate:"required"`
	ExperienceLevel string   `json:"experienceLevel" validate:"required,oneof=beginner intermediate advanced"`
	TargetAreas     []string `json:"targetAreas" validate:"required,min=1"`
}

// UpdateSessionRequest 更新会话请求，零值字段不修改
type UpdateSessionRequest struct {
	SessionID       string   `json:"sessionId" validate:"required"`
	ExperienceLevel string   `json:"experienceLevel,omitempty" validate:"omitempty,oneof=beginner intermediate advanced"`
	TargetAreas     []string `json:"targetAreas,omitempty"`
}

// EndSessionRequest 结束会话请求
type EndSessionRequest struct {
	SessionID string `json:"sessionId" validate:"required"`
}

// PersistMessageRequest 追加会话消息请求
type PersistMessageRequest struct {
	SessionID string `json:"sessionId" validate:"required"`
	Role      string `json:"role" validate:"required,oneof=user tutor"`
	Content   string `json:"content" validate:"required"`
}

// RequestProblemRequest 选题请求
type RequestProblemRequest struct {
	UserID     string   `json:"userId" validate:"required"`
	SessionID  string   `json:"sessionId" validate:"required"`
	Difficulty string   `json:"difficulty,omitempty" validate:"omitempty,oneof=easy medium hard"`
	Categories []string `json:"categories,omitempty"`
}

// SuggestProblemsRequest 推荐候选题目请求（最多 3 个）
type SuggestProblemsRequest struct {
	UserID     string   `json:"userId" validate:"required"`
	SessionID  string   `json:"sessionId" validate:"required"`
	Difficulty string   `json:"difficulty,omitempty" validate:"omitempty,oneof=easy medium hard"`
	Categories []string `json:"categories,omitempty"`
}

// ProvideProblemRequest 按 id 获取题目请求
type ProvideProblemRequest struct {
	ProblemID string `json:"problemId" validate:"required"`
}

// FilterProblemsRequest 筛选题目请求，返回全部匹配
type FilterProblemsRequest struct {
	Difficulty string   `json:"difficulty,omitempty" validate:"omitempty,oneof=easy medium hard"`
	Categories []string `json:"categories,omitempty"`
}

// EvaluateCodeRequest 代码评估请求
//
// evaluate/feedback/improve 共用同一负载；feedback/improve 优先复用
// (userId, problemId, code) 匹配的既有评估。
type EvaluateCodeRequest struct {
	Code      string `json:"code" validate:"required"`
	Language  string `json:"language" validate:"required"`
	ProblemID string `json:"problemId" validate:"required"`
	UserID    string `json:"userId" validate:"required"`
	SessionID string `json:"sessionId" validate:"required"`
}

// RequestHintRequest 提示请求
type RequestHintRequest struct {
	Code      string `json:"code" validate:"required"`
	Language  string `json:"language" validate:"required"`
	ProblemID string `json:"problemId" validate:"required"`
	UserID    string `json:"userId" validate:"required"`
	SessionID string `json:"sessionId" validate:"required"`
	// HintsProvided 本会话已提供的提示数
	HintsProvided int `json:"hintsProvided" validate:"min=0"`
	// DifficultyLevel 题目难度等级 1-5
	DifficultyLevel int `json:"difficultyLevel" validate:"required,min=1,max=5"`
}

// ProvideHintRequest 按 id 获取提示请求
type ProvideHintRequest struct {
	HintID string `json:"hintId" validate:"required"`
}

// StudyPlanRequest 学习计划请求
//
// analyze/generate/update 共用同一负载；SessionIDs 为空表示全量历史。
type StudyPlanRequest struct {
	UserID     string   `json:"userId" validate:"required"`
	SessionIDs []string `json:"sessionIds,omitempty"`
}

// FetchHistoryRequest 历史查询请求
type FetchHistoryRequest struct {
	UserID    string     `json:"userId" validate:"required"`
	SessionID string     `json:"sessionId,omitempty"`
	TimeRange *TimeRange `json:"timeRange,omitempty"`
}

// SaveHistoryRequest 保存会话历史请求
type SaveHistoryRequest struct {
	UserID    string           `json:"userId" validate:"required"`
	SessionID string           `json:"sessionId" validate:"required"`
	StartTime time.Time        `json:"startTime" validate:"required"`
	EndTime   time.Time        `json:"endTime,omitempty"`
	Problems  []ProblemAttempt `json:"problems,omitempty"`
}

// AnalyzeHistoryRequest 历史趋势分析请求
type AnalyzeHistoryRequest struct {
	UserID    string     `json:"userId" validate:"required"`
	SessionID string     `json:"sessionId,omitempty"`
	TimeRange *TimeRange `json:"timeRange,omitempty"`
}

// ═══════════════════════════════════════════════════════════════════════════
// 负载提取
// ═══════════════════════════════════════════════════════════════════════════

// payloadAs 提取并校验消息负载
//
// 类型不符或校验失败均返回 ValidationError，先于任何存储访问。
func payloadAs[T any](msg *actor.Message) (*T, error) {
	p, ok := msg.Payload.(*T)
	if !ok {
		return nil, &ValidationError{
			Msg: fmt.Sprintf("%s: unexpected payload type %T", msg.Type, msg.Payload),
		}
	}
	if err := validateRequest(p); err != nil {
		return nil, err
	}
	return p, nil
}

// unknownType 未知消息类型错误
func unknownType(role Role, msg *actor.Message) error {
	return &ValidationError{
		Msg: fmt.Sprintf("role %s does not handle message type %q", role, msg.Type),
	}
}
