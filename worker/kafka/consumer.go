package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/IBM/sarama"
	"go.uber.org/zap"
)

const rejoinDelay = time.Second

// MessageHandler applies one event. A non-nil error leaves the message
// unmarked.
type MessageHandler func(ctx context.Context, event *ProgressEvent) error

// ProgressEvent is published by the dubbing pipeline whenever a job advances.
// Progress is fractional while subtitles are translated and voiced.
type ProgressEvent struct {
	JobID      string  `json:"job_id"`
	TraceID    string  `json:"trace_id"`
	Status     string  `json:"status"`
	Progress   float64 `json:"progress"`
	Step       string  `json:"step"`
	OutputPath string  `json:"output_path,omitempty"`
	Error      string  `json:"error,omitempty"`
}

type Consumer struct {
	consumer sarama.ConsumerGroup
	logger   *zap.Logger
}

func NewConsumer(brokers []string, groupID string, logger *zap.Logger) (*Consumer, error) {
	config := sarama.NewConfig()
	config.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{sarama.NewBalanceStrategyRoundRobin()}
	config.Consumer.Offsets.Initial = sarama.OffsetOldest

	c, err := sarama.NewConsumerGroup(brokers, groupID, config)
	if err != nil {
		return nil, err
	}

	return &Consumer{consumer: c, logger: logger}, nil
}

type consumerHandler struct {
	fn     MessageHandler
	ctx    context.Context
	logger *zap.Logger
}

func (h *consumerHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *consumerHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *consumerHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for msg := range claim.Messages() {
		var event ProgressEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			h.logger.Warn("Dropping malformed progress event",
				zap.Int32("partition", msg.Partition),
				zap.Int64("offset", msg.Offset),
				zap.Error(err),
			)
			session.MarkMessage(msg, "")
			continue
		}
		// The offset is only marked once the event is applied, so a failed
		// event is redelivered after the group rejoins.
		if err := h.fn(h.ctx, &event); err != nil {
			h.logger.Error("Failed to apply progress event",
				zap.String("job_id", event.JobID),
				zap.Int32("partition", msg.Partition),
				zap.Int64("offset", msg.Offset),
				zap.Error(err),
			)
			return err
		}
		session.MarkMessage(msg, "")
	}
	return nil
}

// Consume joins the group and blocks until ctx is cancelled, rejoining after
// every rebalance or failed event.
func (c *Consumer) Consume(ctx context.Context, topic string, handler MessageHandler) error {
	h := &consumerHandler{fn: handler, ctx: ctx, logger: c.logger}
	for {
		if err := c.consumer.Consume(ctx, []string{topic}, h); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(rejoinDelay):
		}
	}
}

func (c *Consumer) Close() error {
	return c.consumer.Close()
}
