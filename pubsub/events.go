package pubsub

import "context"

const (
	// CreatedEvent 一次处理开始
	CreatedEvent EventType = "created"
	// UpdatedEvent 处理进入新阶段
	UpdatedEvent EventType = "updated"
	// FinishedEvent 处理结束，载荷中带结果或错误
	FinishedEvent EventType = "finished"
)

type (
	// EventType 事件类型
	EventType string

	// Event 一条带类型的事件
	Event[T any] struct {
		Type    EventType
		Payload T
	}

	// Subscriber 可订阅事件流的对象
	Subscriber[T any] interface {
		Subscribe(context.Context) <-chan Event[T]
	}

	// Publisher 可发布事件的对象
	Publisher[T any] interface {
		Publish(EventType, T)
	}
)

var (
	_ Subscriber[int] = (*Broker[int])(nil)
	_ Publisher[int]  = (*Broker[int])(nil)
)
