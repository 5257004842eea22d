// Package tutor 提供编程辅导系统的任务编排核心
//
// # Overview
//
// tutor 包基于 [actor] 包的运行时，提供六个角色 Actor 与一个 Dispatcher：
//   - [Dispatcher]: 进程级协调者，持有每个角色的 Actor 句柄，
//     负责请求/响应按 ID 关联、超时与故障重建
//   - session: 辅导会话的创建、更新、结束与消息持久化
//   - problem: 题目目录的筛选、随机选题、推荐与按需合成
//   - evaluation: 提交代码的静态启发式评分
//   - hint: 按显式程度递进的提示生成
//   - study-plan: 基于历史评估的学习计划聚合
//   - history: 会话历史的保存、过滤查询与趋势分析
//
// # Design Philosophy
//
// 所有实体状态由 [store.Store] 独占持有；Actor 在消息之间不保留内存状态，
// Dispatcher 只保留路由与关联簿记。每个角色在进程生命周期内恰好对应
// 一个长驻 Actor；运行时故障触发按窗口策略的重建，应用层错误只会变成
// 被拒绝的调用结果。
//
// # Usage
//
//	st := store.NewMemory()
//	d := tutor.New(st)
//	defer d.Shutdown(context.Background())
//
//	result, err := d.InitSession(ctx, &tutor.InitSessionRequest{
//	    UserID:          "u1",
//	    ExperienceLevel: "beginner",
//	    TargetAreas:     []string{"arrays"},
//	})
//
// # Error Handling
//
// 公开操作返回的错误属于固定分类：[ValidationError]、[NotFoundError]、
// [TimeoutError]、[ActorFaultError]，均携带可直接展示的文本，可用
// errors.As 判别。
package tutor
