package tutor

import "time"

// Role Actor 角色
type Role string

// 固定的角色集合，每个角色在进程生命周期内对应一个长驻 Actor
const (
	RoleSession    Role = "session"
	RoleProblem    Role = "problem"
	RoleEvaluation Role = "evaluation"
	RoleHint       Role = "hint"
	RoleStudyPlan  Role = "study-plan"
	RoleHistory    Role = "history"
)

// Roles 返回全部角色
func Roles() []Role {
	return []Role{RoleSession, RoleProblem, RoleEvaluation, RoleHint, RoleStudyPlan, RoleHistory}
}

// ============== 存储集合 ==============

// 每个角色按约定只访问自己的集合；集合在首次写入时惰性创建
const (
	colSessions       = "sessions"
	colProblems       = "problems"
	colProblemUsage   = "problem_usage"
	colEvaluations    = "evaluations"
	colHints          = "hints"
	colStudyPlans     = "study_plans"
	colSessionHistory = "session_history"
)

// ============== 会话 ==============

// SessionMessage 会话历史中的一条消息
type SessionMessage struct {
	Role    string    `json:"role"`
	Content string    `json:"content"`
	At      time.Time `json:"at"`
}

// SessionContext 辅导会话上下文
//
// init 创建，update/persist 修改，end 标记为非活跃（不删除）。
type SessionContext struct {
	ID               string           `json:"id"`
	UserID           string           `json:"userId"`
	ExperienceLevel  string           `json:"experienceLevel"`
	TargetAreas      []string         `json:"targetAreas"`
	SessionStartTime time.Time        `json:"sessionStartTime"`
	LastActive       time.Time        `json:"lastActive"`
	Active           bool             `json:"active"`
	EndTime          *time.Time       `json:"endTime,omitempty"`
	Messages         []SessionMessage `json:"messages"`
}

// InitSessionResult 会话初始化结果
type InitSessionResult struct {
	SessionID string          `json:"sessionId"`
	Welcome   string          `json:"welcome"`
	Context   *SessionContext `json:"context"`
}

// ============== 题目 ==============

// ProblemExample 题目示例
type ProblemExample struct {
	Input       string `json:"input"`
	Output      string `json:"output"`
	Explanation string `json:"explanation,omitempty"`
}

// CodingProblem 编程题目
//
// 目录在首次空读时播种；无匹配时按需合成通用题目（策略，非错误）。
type CodingProblem struct {
	ID            string           `json:"id"`
	Title         string           `json:"title"`
	Description   string           `json:"description"`
	Difficulty    string           `json:"difficulty"`
	Categories    []string         `json:"categories"`
	Examples      []ProblemExample `json:"examples,omitempty"`
	Constraints   []string         `json:"constraints,omitempty"`
	ExpectedTime  string           `json:"expectedTime"`
	ExpectedSpace string           `json:"expectedSpace"`
	Concepts      []string         `json:"concepts,omitempty"`
	EdgeCases     []string         `json:"edgeCases,omitempty"`
}

// ProblemUsage 题目使用记录，按 (problem, user, session) 追踪
type ProblemUsage struct {
	ID        string    `json:"id"`
	ProblemID string    `json:"problemId"`
	UserID    string    `json:"userId"`
	SessionID string    `json:"sessionId"`
	UsedAt    time.Time `json:"usedAt"`
}

// ============== 评估 ==============

// ComplexityScore 复杂度子评分
type ComplexityScore struct {
	Actual   string  `json:"actual"`
	Expected string  `json:"expected"`
	Score    float64 `json:"score"`
}

// EdgeCaseScore 边界情况覆盖子评分
type EdgeCaseScore struct {
	Covered []string `json:"covered"`
	Missed  []string `json:"missed"`
	Score   float64  `json:"score"`
}

// QualityScore 代码质量子评分
type QualityScore struct {
	Readability     float64 `json:"readability"`
	Maintainability float64 `json:"maintainability"`
	BestPractices   float64 `json:"bestPractices"`
}

// CodeEvaluation 代码评估记录
//
// 每次评估请求写入一条，写入后不再修改；
// 按 (userId, problemId, code) 交叉引用以复用既有评估。
type CodeEvaluation struct {
	ID              string          `json:"id"`
	UserID          string          `json:"userId"`
	SessionID       string          `json:"sessionId"`
	ProblemID       string          `json:"problemId"`
	Code            string          `json:"code"`
	Language        string          `json:"language"`
	Correctness     float64         `json:"correctness"`
	TimeComplexity  ComplexityScore `json:"timeComplexity"`
	SpaceComplexity ComplexityScore `json:"spaceComplexity"`
	EdgeCases       EdgeCaseScore   `json:"edgeCases"`
	CodeQuality     QualityScore    `json:"codeQuality"`
	// OverallScore 加权总分，0-100
	OverallScore float64   `json:"overallScore"`
	Feedback     string    `json:"feedback"`
	Suggestions  []string  `json:"suggestions"`
	CreatedAt    time.Time `json:"createdAt"`
}

// FeedbackResult 反馈结果
type FeedbackResult struct {
	EvaluationID string   `json:"evaluationId"`
	Feedback     string   `json:"feedback"`
	Suggestions  []string `json:"suggestions"`
}

// ImprovementResult 改进建议结果
type ImprovementResult struct {
	EvaluationID string   `json:"evaluationId"`
	Suggestions  []string `json:"suggestions"`
	FocusAreas   []string `json:"focusAreas"`
}

// ============== 提示 ==============

// Hint 提示记录，每次请求追加一条新提示，从不修改已有提示
type Hint struct {
	ID        string `json:"id"`
	UserID    string `json:"userId"`
	SessionID string `json:"sessionId"`
	ProblemID string `json:"problemId"`
	Text      string `json:"text"`
	// Level 显式程度 1-5，越高越直接
	Level          int       `json:"level"`
	Category       string    `json:"category"`
	RelatedConcept string    `json:"relatedConcept,omitempty"`
	CodeSnippet    string    `json:"codeSnippet,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

// ============== 学习计划 ==============

// CategoryMetric 按类别聚合的能力指标
type CategoryMetric struct {
	Category   string   `json:"category"`
	Score      float64  `json:"score"`
	Attempts   int      `json:"attempts"`
	Strengths  []string `json:"strengths,omitempty"`
	Weaknesses []string `json:"weaknesses,omitempty"`
}

// Recommendation 学习建议
type Recommendation struct {
	// Priority 优先级 1-5，1 为最高
	Priority int    `json:"priority"`
	Category string `json:"category"`
	Action   string `json:"action"`
	Reason   string `json:"reason"`
}

// Milestone 有时间框的阶段目标
type Milestone struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	TargetDate  time.Time `json:"targetDate"`
}

// StudyPlan 学习计划
//
// 每次 generate 全量重建并持久化，覆盖该用户的上一份计划
// （计划 id 等于 userId，保证覆盖语义）。
type StudyPlan struct {
	ID              string           `json:"id"`
	UserID          string           `json:"userId"`
	Metrics         []CategoryMetric `json:"metrics"`
	Recommendations []Recommendation `json:"recommendations"`
	Milestones      []Milestone      `json:"milestones"`
	GeneratedAt     time.Time        `json:"generatedAt"`
}

// ProgressReport 进度分析结果（不持久化）
type ProgressReport struct {
	UserID        string           `json:"userId"`
	Metrics       []CategoryMetric `json:"metrics"`
	TopStrengths  []string         `json:"topStrengths"`
	TopWeaknesses []string         `json:"topWeaknesses"`
	Evaluated     int              `json:"evaluated"`
}

// ============== 历史 ==============

// ProblemAttempt 会话内的一次题目尝试
type ProblemAttempt struct {
	ProblemID    string   `json:"problemId"`
	Title        string   `json:"title"`
	Categories   []string `json:"categories,omitempty"`
	Score        float64  `json:"score"`
	EvaluationID string   `json:"evaluationId,omitempty"`
}

// SessionHistory 按会话聚合的历史记录（id 等于 sessionId，保证 upsert 语义）
type SessionHistory struct {
	ID        string           `json:"id"`
	UserID    string           `json:"userId"`
	SessionID string           `json:"sessionId"`
	StartTime time.Time        `json:"startTime"`
	EndTime   time.Time        `json:"endTime"`
	Problems  []ProblemAttempt `json:"problems"`
}

// TimeRange 时间窗口过滤条件
type TimeRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// HistoryAnalysis 历史趋势分析结果
type HistoryAnalysis struct {
	// Trend improving / declining / neutral
	Trend         string   `json:"trend"`
	AverageScore  float64  `json:"averageScore"`
	TopStrengths  []string `json:"topStrengths"`
	TopWeaknesses []string `json:"topWeaknesses"`
	Sessions      int      `json:"sessions"`
}
