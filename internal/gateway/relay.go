package gateway

import (
	"context"
	"encoding/json"
	"log"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"
)

const (
	userChannelPrefix = "ws:user:"
	broadcastChannel  = "ws:broadcast"
)

// Relay unifies push delivery across horizontally scaled gateway
// instances: every push goes over redis pub/sub, and every instance
// forwards frames for its own locally connected sessions. Without it,
// "push to user" only reaches the instance holding the socket.
type Relay struct {
	rdb *redis.Client
}

func NewRelay(rdb *redis.Client) *Relay {
	return &Relay{rdb: rdb}
}

func (r *Relay) PublishToUser(ctx context.Context, userID uint64, frame []byte) error {
	return r.rdb.Publish(ctx, userChannelPrefix+strconv.FormatUint(userID, 10), frame).Err()
}

func (r *Relay) PublishBroadcast(ctx context.Context, frame []byte) error {
	return r.rdb.Publish(ctx, broadcastChannel, frame).Err()
}

// Run subscribes to the user channels and the broadcast channel and feeds
// received frames into the local delivery callbacks until ctx ends.
func (r *Relay) Run(
	ctx context.Context,
	deliver func(userID uint64, event string, frame []byte),
	broadcast func(frame []byte),
) {
	pubsub := r.rdb.PSubscribe(ctx, userChannelPrefix+"*")
	defer func() { _ = pubsub.Close() }()

	bcast := r.rdb.Subscribe(ctx, broadcastChannel)
	defer func() { _ = bcast.Close() }()

	userCh := pubsub.Channel()
	bcastCh := bcast.Channel()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-userCh:
			if !ok {
				return
			}
			userID, err := strconv.ParseUint(strings.TrimPrefix(msg.Channel, userChannelPrefix), 10, 64)
			if err != nil {
				log.Printf("relay: bad user channel %s", msg.Channel)
				continue
			}
			var env Envelope
			if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
				log.Printf("relay: malformed frame on %s", msg.Channel)
				continue
			}
			deliver(userID, env.Event, []byte(msg.Payload))
		case msg, ok := <-bcastCh:
			if !ok {
				return
			}
			broadcast([]byte(msg.Payload))
		}
	}
}
