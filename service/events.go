package service

import (
	"Plume/pkg/log"
	"Plume/pkg/rocketmq"
	"Plume/types"
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"
)

// EventBus 时间线变更事件出口。
// 发布失败只记日志不回滚，事件属于尽力而为的通知。
type EventBus interface {
	Publish(ctx context.Context, event types.Event) error
}

// eventEnvelope MQ 消息体，name 字段用于消费端分发
type eventEnvelope struct {
	Name      string          `json:"name"`
	EmittedAt int64           `json:"emitted_at"`
	Payload   json.RawMessage `json:"payload"`
}

type MQEventBus struct {
	MQ *rocketmq.Rocketmq
}

var _ EventBus = (*MQEventBus)(nil)

func NewMQEventBus(mq *rocketmq.Rocketmq) *MQEventBus {
	return &MQEventBus{MQ: mq}
}

func (b *MQEventBus) Publish(ctx context.Context, event types.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	body, err := json.Marshal(eventEnvelope{
		Name:      event.Name(),
		EmittedAt: time.Now().UnixMilli(),
		Payload:   payload,
	})
	if err != nil {
		return err
	}
	if err := b.MQ.SendMsg(event.Topic(), body); err != nil {
		log.L.Error("publish event failed",
			zap.String("name", event.Name()),
			zap.Error(err))
		return err
	}
	return nil
}

// MemoryEventBus 进程内收集事件，测试用
type MemoryEventBus struct {
	events []types.Event
}

var _ EventBus = (*MemoryEventBus)(nil)

func NewMemoryEventBus() *MemoryEventBus {
	return &MemoryEventBus{}
}

func (b *MemoryEventBus) Publish(_ context.Context, event types.Event) error {
	b.events = append(b.events, event)
	return nil
}

func (b *MemoryEventBus) Events() []types.Event {
	return b.events
}

func (b *MemoryEventBus) Reset() {
	b.events = nil
}

// publishEvent 统一吞掉发布错误，调用方不因事件失败而失败
func publishEvent(ctx context.Context, bus EventBus, event types.Event) {
	if bus == nil {
		return
	}
	_ = bus.Publish(ctx, event)
}
