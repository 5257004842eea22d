package actor_test

import (
	"context"
	"fmt"
	"strings"

	"github.com/lwmacct/260830-go-pkg-tutor/pkg/actor"
)

// Example 演示最小的请求-响应往返
func Example() {
	bus := actor.NewBus(16)

	// 大写回显处理器
	upper := actor.HandlerFunc(func(_ context.Context, msg *actor.Message) (any, error) {
		text, _ := msg.Payload.(string)
		return strings.ToUpper(text), nil
	})

	ref := actor.Spawn(context.Background(), "upper", upper, bus)
	defer ref.Stop()

	_ = ref.Send(&actor.Message{ID: "req-1", Type: "upper.echo", Payload: "hello"})

	resp := <-bus.Responses
	fmt.Println(resp.ID, resp.Type, resp.Payload)

	// Output:
	// req-1 upper.echo.result HELLO
}

// Example_errorResponse 演示应用层错误变为 error 响应
func Example_errorResponse() {
	bus := actor.NewBus(16)

	strict := actor.HandlerFunc(func(_ context.Context, msg *actor.Message) (any, error) {
		return nil, fmt.Errorf("unsupported operation: %s", msg.Type)
	})

	ref := actor.Spawn(context.Background(), "strict", strict, bus)
	defer ref.Stop()

	_ = ref.Send(&actor.Message{ID: "req-2", Type: "strict.anything"})

	resp := <-bus.Responses
	fmt.Println(resp.Type, actor.UnwrapError(resp))

	// Output:
	// error unsupported operation: strict.anything
}
