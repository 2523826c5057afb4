package redis

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const roomChannelPrefix = "videoflow:room:"

// RoomBridge fans room events out across instances over redis pub/sub.
// Every instance, including the publisher, receives the event through its
// subscription and re-emits it to local room members.
type RoomBridge struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRoomBridge creates a room bridge.
func NewRoomBridge(client *redis.Client, logger *zap.Logger) *RoomBridge {
	return &RoomBridge{client: client, logger: logger}
}

// Publish sends a room event to all instances.
func (b *RoomBridge) Publish(ctx context.Context, videoID uuid.UUID, data []byte) error {
	return b.client.Publish(ctx, roomChannelPrefix+videoID.String(), data).Err()
}

// Listen subscribes to every room channel and invokes receive for each
// event until the context is canceled.
func (b *RoomBridge) Listen(ctx context.Context, receive func(videoID uuid.UUID, data []byte)) {
	pubsub := b.client.PSubscribe(ctx, roomChannelPrefix+"*")
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			videoID, err := uuid.Parse(strings.TrimPrefix(msg.Channel, roomChannelPrefix))
			if err != nil {
				b.logger.Warn("dropping event on malformed room channel",
					zap.String("channel", msg.Channel),
				)
				continue
			}
			receive(videoID, []byte(msg.Payload))
		}
	}
}
