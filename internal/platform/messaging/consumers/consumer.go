package consumers

import (
	"context"
	"log/slog"
	"time"

	"github.com/school-finance-ledger/internal/config"
	"github.com/segmentio/kafka-go"
)

// MessageHandler processes one dispatch request. A nil return commits the
// offset; an error leaves the message uncommitted for redelivery.
type MessageHandler func(ctx context.Context, key []byte, value []byte) error

// Consumer defines the message queue consumer interface
type Consumer interface {
	Subscribe(ctx context.Context, topic string, groupID string, handler MessageHandler) error
	Close() error
}

// KafkaConsumer reads notification dispatch requests for the notifier's
// consumer group. Offsets are committed explicitly, only after the handler
// has accepted the message.
type KafkaConsumer struct {
	reader *kafka.Reader
	logger *slog.Logger
}

func NewKafkaConsumer(_ context.Context, logger *slog.Logger, cfg *config.KafkaConfig) *KafkaConsumer {
	return &KafkaConsumer{
		logger: logger,
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:     []string{cfg.Brokers},
			Topic:       cfg.NotificationTopic,
			GroupID:     cfg.ConsumerGroup,
			MinBytes:    cfg.MinBytes,
			MaxBytes:    cfg.MaxBytes,
			MaxWait:     cfg.MaxWait,
			StartOffset: kafka.FirstOffset,
		}),
	}
}

// Subscribe starts a fetch loop in a goroutine and returns immediately.
// The loop runs until ctx is canceled; fetch errors back off for a second
// and retry rather than killing the loop.
func (c *KafkaConsumer) Subscribe(ctx context.Context, topic string, groupID string, handler MessageHandler) error {
	c.logger.Info("Subscribed to Kafka topic",
		"topic", topic,
		"group_id", groupID,
	)

	go func() {
		for {
			if ctx.Err() != nil {
				c.logger.Info("Stopping notification consumer",
					"topic", topic,
					"group_id", groupID,
				)
				return
			}

			msg, err := c.reader.FetchMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					c.logger.Info("Stopping notification consumer",
						"topic", topic,
						"group_id", groupID,
					)
					return
				}
				c.logger.Error("Failed to fetch message from Kafka",
					"topic", topic,
					"group_id", groupID,
					"error", err,
				)
				time.Sleep(time.Second)
				continue
			}

			c.logger.Debug("Fetched dispatch request",
				"topic", msg.Topic,
				"partition", msg.Partition,
				"offset", msg.Offset,
				"notification_id", string(msg.Key),
			)

			if err := handler(ctx, msg.Key, msg.Value); err != nil {
				// Uncommitted: the message is redelivered.
				c.logger.Error("Handler rejected message, leaving offset uncommitted",
					"topic", msg.Topic,
					"partition", msg.Partition,
					"offset", msg.Offset,
					"notification_id", string(msg.Key),
					"error", err,
				)
				continue
			}

			if err := c.reader.CommitMessages(ctx, msg); err != nil {
				c.logger.Error("Failed to commit offset",
					"topic", msg.Topic,
					"partition", msg.Partition,
					"offset", msg.Offset,
					"notification_id", string(msg.Key),
					"error", err,
				)
			}
		}
	}()

	return nil
}

func (c *KafkaConsumer) Close() error {
	if c.reader != nil {
		return c.reader.Close()
	}
	return nil
}
