package pubsub

import (
	"context"
	"sync"
	"sync/atomic"
)

// DefaultBufferSize 每个订阅者通道的默认缓冲大小
const DefaultBufferSize = 64

// Broker 是进程内的发布/订阅中心，流水线用它把进度事件推送给界面。
// 泛型参数 T 是事件载荷类型。
type Broker[T any] struct {
	mu         sync.RWMutex
	subs       map[chan Event[T]]struct{} // 活跃订阅者
	done       chan struct{}              // 关闭后不再接受订阅与发布
	bufferSize int
	dropped    atomic.Int64 // 因订阅者缓冲区已满而丢弃的事件数
}

// NewBroker 使用默认缓冲大小创建 Broker。
func NewBroker[T any]() *Broker[T] {
	return NewBrokerWithBuffer[T](DefaultBufferSize)
}

// NewBrokerWithBuffer 创建每个订阅通道缓冲为 size 的 Broker，size 小于 1 时按 1 处理。
func NewBrokerWithBuffer[T any](size int) *Broker[T] {
	if size < 1 {
		size = 1
	}
	return &Broker[T]{
		subs:       make(map[chan Event[T]]struct{}),
		done:       make(chan struct{}),
		bufferSize: size,
	}
}

// Shutdown 关闭 Broker 并关闭所有订阅通道，可重复调用。
func (b *Broker[T]) Shutdown() {
	b.mu.Lock()
	defer b.mu.Unlock()

	select {
	case <-b.done:
		return
	default:
		close(b.done)
	}

	for ch := range b.subs {
		delete(b.subs, ch)
		close(ch)
	}
}

// Subscribe 注册订阅者。ctx 结束或 Broker 关闭时通道会被关闭。
func (b *Broker[T]) Subscribe(ctx context.Context) <-chan Event[T] {
	b.mu.Lock()
	defer b.mu.Unlock()

	select {
	case <-b.done:
		ch := make(chan Event[T])
		close(ch)
		return ch
	default:
	}

	sub := make(chan Event[T], b.bufferSize)
	b.subs[sub] = struct{}{}

	go func() {
		select {
		case <-ctx.Done():
		case <-b.done:
			return
		}

		b.mu.Lock()
		defer b.mu.Unlock()
		if _, ok := b.subs[sub]; ok {
			delete(b.subs, sub)
			close(sub)
		}
	}()

	return sub
}

// SubscriberCount 返回当前订阅者数量。
func (b *Broker[T]) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Dropped 返回累计丢弃的事件数。
func (b *Broker[T]) Dropped() int64 {
	return b.dropped.Load()
}

// Publish 把事件发给所有订阅者，不会阻塞：缓冲区已满的订阅者错过这一条事件。
func (b *Broker[T]) Publish(t EventType, payload T) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	select {
	case <-b.done:
		return
	default:
	}

	event := Event[T]{Type: t, Payload: payload}
	for sub := range b.subs {
		select {
		case sub <- event:
		default:
			b.dropped.Add(1)
		}
	}
}
