package tutor

import (
	"context"
	"fmt"
	"sort"

	"github.com/lwmacct/260830-go-pkg-tutor/pkg/actor"
	"github.com/lwmacct/260830-go-pkg-tutor/pkg/store"
)

// trendThreshold 前后半段平均分差超过该值才视为趋势变化
const trendThreshold = 5.0

// historyActor 历史角色处理器
type historyActor struct {
	store store.Store
}

func newHistoryActor(st store.Store) *historyActor {
	return &historyActor{store: st}
}

// Handle 实现 actor.Handler 接口
func (a *historyActor) Handle(ctx context.Context, msg *actor.Message) (any, error) {
	switch msg.Type {
	case MsgHistoryFetch:
		return a.fetch(ctx, msg)
	case MsgHistorySave:
		return a.save(ctx, msg)
	case MsgHistoryAnalyze:
		return a.analyze(ctx, msg)
	default:
		return nil, unknownType(RoleHistory, msg)
	}
}

// save 保存（upsert）一条会话历史；记录 id 等于 sessionId
func (a *historyActor) save(ctx context.Context, msg *actor.Message) (any, error) {
	req, err := payloadAs[SaveHistoryRequest](msg)
	if err != nil {
		return nil, err
	}

	record := &SessionHistory{
		ID:        req.SessionID,
		UserID:    req.UserID,
		SessionID: req.SessionID,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Problems:  req.Problems,
	}
	if _, err := a.store.Put(ctx, colSessionHistory, record); err != nil {
		return nil, fmt.Errorf("persist history: %w", err)
	}
	return record, nil
}

// fetch 查询会话历史，按开始时间倒序；结果总是切片
func (a *historyActor) fetch(ctx context.Context, msg *actor.Message) (any, error) {
	req, err := payloadAs[FetchHistoryRequest](msg)
	if err != nil {
		return nil, err
	}

	records, err := a.filtered(ctx, req.UserID, req.SessionID, req.TimeRange)
	if err != nil {
		return nil, err
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].StartTime.After(records[j].StartTime)
	})
	return records, nil
}

// analyze 从时间序上的得分推导趋势与强弱项
func (a *historyActor) analyze(ctx context.Context, msg *actor.Message) (any, error) {
	req, err := payloadAs[AnalyzeHistoryRequest](msg)
	if err != nil {
		return nil, err
	}

	records, err := a.filtered(ctx, req.UserID, req.SessionID, req.TimeRange)
	if err != nil {
		return nil, err
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].StartTime.Before(records[j].StartTime)
	})

	// 每条记录取其题目得分均值，作为该会话的得分
	var sessionScores []float64
	categoryScores := make(map[string][]float64)
	for _, r := range records {
		if len(r.Problems) == 0 {
			continue
		}
		sum := 0.0
		for _, p := range r.Problems {
			sum += p.Score
			for _, cat := range p.Categories {
				categoryScores[cat] = append(categoryScores[cat], p.Score)
			}
		}
		sessionScores = append(sessionScores, sum/float64(len(r.Problems)))
	}

	analysis := &HistoryAnalysis{
		Trend:         trend(sessionScores),
		AverageScore:  mean(sessionScores),
		TopStrengths:  rankCategories(categoryScores, true, 2),
		TopWeaknesses: rankCategories(categoryScores, false, 2),
		Sessions:      len(records),
	}
	return analysis, nil
}

// filtered 按用户、会话与时间窗口过滤历史记录
func (a *historyActor) filtered(ctx context.Context, userID, sessionID string, tr *TimeRange) ([]SessionHistory, error) {
	var all []SessionHistory
	if err := a.store.GetAll(ctx, colSessionHistory, &all); err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}

	out := make([]SessionHistory, 0, len(all))
	for _, r := range all {
		if r.UserID != userID {
			continue
		}
		if sessionID != "" && r.SessionID != sessionID {
			continue
		}
		if tr != nil {
			if r.StartTime.Before(tr.Start) || r.StartTime.After(tr.End) {
				continue
			}
		}
		out = append(out, r)
	}
	return out, nil
}

// trend 前后半段平均分对比
func trend(scores []float64) string {
	if len(scores) < 2 {
		return "neutral"
	}

	mid := len(scores) / 2
	delta := mean(scores[mid:]) - mean(scores[:mid])
	switch {
	case delta > trendThreshold:
		return "improving"
	case delta < -trendThreshold:
		return "declining"
	default:
		return "neutral"
	}
}

func mean(scores []float64) float64 {
	if len(scores) == 0 {
		return 0
	}
	sum := 0.0
	for _, s := range scores {
		sum += s
	}
	return sum / float64(len(scores))
}

// rankCategories 按类别平均分排序返回前 n 个类别名
func rankCategories(byCategory map[string][]float64, best bool, n int) []string {
	type entry struct {
		category string
		avg      float64
	}
	entries := make([]entry, 0, len(byCategory))
	for cat, scores := range byCategory {
		entries = append(entries, entry{category: cat, avg: mean(scores)})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].avg == entries[j].avg {
			return entries[i].category < entries[j].category
		}
		if best {
			return entries[i].avg > entries[j].avg
		}
		return entries[i].avg < entries[j].avg
	})

	out := make([]string, 0, n)
	for i, e := range entries {
		if i >= n {
			break
		}
		out = append(out, e.category)
	}
	return out
}
