package service

import (
	"Plume/pkg/log"
	"Plume/pkg/response"
	"Plume/pkg/rocketmq"
	"Plume/types"
	"context"
	"encoding/json"

	"github.com/apache/rocketmq-client-go/v2/consumer"
	"github.com/apache/rocketmq-client-go/v2/primitive"
	"go.uber.org/zap"
)

// EventSubscriber 消费上游状态事件，驱动扇出与缓存维护。
// 单条消息处理失败不阻塞批次，记日志后继续。
type EventSubscriber struct {
	MQ            *rocketmq.Rocketmq
	StatusService IStatusService
}

func NewEventSubscriber(mq *rocketmq.Rocketmq, statusService IStatusService) *EventSubscriber {
	return &EventSubscriber{
		MQ:            mq,
		StatusService: statusService,
	}
}

// Start 订阅并启动消费
func (s *EventSubscriber) Start() error {
	err := s.MQ.RocketmqConsumer.Subscribe(types.TopicStatus, consumer.MessageSelector{}, s.handle)
	if err != nil {
		return err
	}
	return s.MQ.RocketmqConsumer.Start()
}

func (s *EventSubscriber) Shutdown() error {
	return s.MQ.RocketmqConsumer.Shutdown()
}

func (s *EventSubscriber) handle(ctx context.Context, msgs ...*primitive.MessageExt) (consumer.ConsumeResult, error) {
	for _, msg := range msgs {
		if err := s.dispatch(ctx, msg.Body); err != nil {
			log.L.Error("handle status event failed",
				zap.String("msg_id", msg.MsgId),
				zap.Error(err))
		}
	}
	return consumer.ConsumeSuccess, nil
}

func (s *EventSubscriber) dispatch(ctx context.Context, body []byte) error {
	var envelope eventEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return err
	}

	switch envelope.Name {
	case types.EventStatusCreated:
		var ev types.StatusCreated
		if err := json.Unmarshal(envelope.Payload, &ev); err != nil {
			return err
		}
		return s.StatusService.FanoutExisting(ctx, ev.StatusID)

	case types.EventStatusDeleted:
		var ev types.StatusDeleted
		if err := json.Unmarshal(envelope.Payload, &ev); err != nil {
			return err
		}
		// 重复投递时动态可能已打过墓碑，按成功处理
		err := s.StatusService.DeleteStatus(ctx, ev.StatusID, ev.AuthorID)
		if err == response.ErrStatusNotFound {
			return nil
		}
		return err

	case types.EventStatusActioned:
		// 计数与热度在写路径已同步落好，这里只确认消费
		return nil

	default:
		// 不认识的事件直接跳过，上游新增事件不应打挂消费端
		log.L.Warn("skip unknown event", zap.String("name", envelope.Name))
		return nil
	}
}
