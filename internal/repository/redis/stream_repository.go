package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Vishrutha-23/SafeWalk/internal/domain"
	"github.com/Vishrutha-23/SafeWalk/internal/domain/repository"
)

const (
	defaultReadBlock = time.Second
	readBatchSize    = 10
	// streamMaxLen caps published streams; trimming is approximate
	streamMaxLen = 10000
)

type streamRepository struct {
	client    *redis.Client
	logger    *zap.Logger
	readBlock time.Duration
}

// NewStreamRepository wraps client for consumer groups and publishing.
// readBlock bounds each XREADGROUP call; zero uses one second.
func NewStreamRepository(client *redis.Client, logger *zap.Logger, readBlock time.Duration) repository.StreamRepository {
	if readBlock <= 0 {
		readBlock = defaultReadBlock
	}
	return &streamRepository{
		client:    client,
		logger:    logger,
		readBlock: readBlock,
	}
}

// CreateConsumerGroup creates the group at "$" and the stream if missing.
// An existing group is not an error.
func (r *streamRepository) CreateConsumerGroup(ctx context.Context, stream, group string) error {
	err := r.client.XGroupCreateMkStream(ctx, stream, group, "$").Err()
	if err != nil {
		if strings.HasPrefix(err.Error(), "BUSYGROUP") {
			r.logger.Debug("Consumer group already exists",
				zap.String("stream", stream),
				zap.String("group", group))
			return nil
		}
		r.logger.Error("Failed to create consumer group",
			zap.String("stream", stream),
			zap.String("group", group),
			zap.Error(err))
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	r.logger.Info("Consumer group created",
		zap.String("stream", stream),
		zap.String("group", group))
	return nil
}

// ConsumeStream delivers new group messages on the returned channel until ctx
// is cancelled. Entries without a "data" field are skipped and acked.
func (r *streamRepository) ConsumeStream(ctx context.Context, stream, group, consumer string) (<-chan domain.StreamMessage, error) {
	msgChan := make(chan domain.StreamMessage, readBatchSize)

	go func() {
		defer close(msgChan)

		for ctx.Err() == nil {
			result, err := r.client.XReadGroup(ctx, &redis.XReadGroupArgs{
				Group:    group,
				Consumer: consumer,
				Streams:  []string{stream, ">"},
				Count:    readBatchSize,
				Block:    r.readBlock,
			}).Result()

			if err != nil {
				if err == redis.Nil {
					continue
				}
				if ctx.Err() != nil {
					break
				}
				r.logger.Error("Failed to read from stream",
					zap.String("stream", stream),
					zap.Error(err))
				select {
				case <-time.After(time.Second):
				case <-ctx.Done():
				}
				continue
			}

			for _, s := range result {
				for _, msg := range s.Messages {
					data, ok := msg.Values["data"].(string)
					if !ok {
						r.logger.Warn("Message does not contain 'data' field",
							zap.String("stream", stream),
							zap.String("message_id", msg.ID))
						_ = r.AckMessage(ctx, stream, group, msg.ID)
						continue
					}

					select {
					case msgChan <- domain.StreamMessage{ID: msg.ID, Data: data}:
					case <-ctx.Done():
						return
					}
				}
			}
		}

		r.logger.Info("Stream consumer stopped",
			zap.String("stream", stream),
			zap.String("consumer", consumer))
	}()

	return msgChan, nil
}

func (r *streamRepository) AckMessage(ctx context.Context, stream, group, messageID string) error {
	if err := r.client.XAck(ctx, stream, group, messageID).Err(); err != nil {
		r.logger.Error("Failed to acknowledge message",
			zap.String("stream", stream),
			zap.String("group", group),
			zap.String("message_id", messageID),
			zap.Error(err))
		return fmt.Errorf("failed to acknowledge message: %w", err)
	}

	r.logger.Debug("Message acknowledged", zap.String("message_id", messageID))
	return nil
}

// PublishToStream stores data as JSON under the "data" field.
func (r *streamRepository) PublishToStream(ctx context.Context, stream string, data interface{}) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal data: %w", err)
	}

	id, err := r.client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		MaxLen: streamMaxLen,
		Approx: true,
		Values: map[string]interface{}{
			"data": string(jsonData),
		},
	}).Result()
	if err != nil {
		r.logger.Error("Failed to publish to stream",
			zap.String("stream", stream),
			zap.Error(err))
		return fmt.Errorf("failed to publish to stream: %w", err)
	}

	r.logger.Debug("Message published to stream",
		zap.String("stream", stream),
		zap.String("message_id", id))
	return nil
}
