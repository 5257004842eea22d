// Package actor 提供面向请求-响应关联的轻量级 Actor 运行时
//
// 每个 Actor 是独立的串行执行单元，通过邮箱按 FIFO 顺序接收消息，
// 一次只处理一条，每条请求恰好产生一条以相同 ID 关联的响应。
//
// # 核心组件
//
// [Spawn] 创建并启动一个 Actor，返回发送端句柄 [Ref]：
//
//	bus := actor.NewBus(1024)
//	ref := actor.Spawn(ctx, "worker", handler, bus)
//	defer ref.Stop()
//
// [Handler] 接口定义消息处理行为，[HandlerFunc] 提供函数式快捷方式。
//
// [Message] 是统一的消息信封 {ID, Type, Payload}；响应的 ID 等于请求的 ID，
// 这是唯一的关联机制。成功响应类型为 "<type>.result"，错误响应类型为 "error"。
//
// [Bus] 汇聚所有 Actor 的响应与故障，由持有方消费并按 ID 关联回调用者。
//
// # 错误与故障
//
// 两类失败走两条路径：
//
//   - 应用层错误：Handler 返回 error，运行时包装为 error 响应，
//     消息循环继续运行
//   - 运行时故障：Handler panic，运行时将 [Fault] 上报到 Bus，
//     Actor goroutine 退出，由持有方按 [RestartPolicy] 决定是否重建
//
// 缺少 Type 的请求在角色分发之前就会收到 error 响应，不会挂起。
//
// # 最佳实践
//
// 1. 消息不可变，发送后不要修改消息内容
// 2. 避免阻塞，Handle 方法中不要执行长时间操作
// 3. 为关键角色配置重启策略，防止无限重启循环
// 4. 合理设置邮箱大小，根据负载调整
//
// 完整使用示例请参考 example_test.go 或运行 go doc -all。
package actor
