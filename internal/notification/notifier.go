// Package notification delivers finalized per-store orders to the outside
// world. Message formatting and deep links are left to the subscribers.
package notification

import (
	"context"
	"encoding/json"
	"errors"

	"multitoko-be/internal/cart"
	"multitoko-be/internal/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const channelPrefix = "orders:"

// Channel is the pub/sub channel orders of storeID are published on.
func Channel(storeID string) string {
	return channelPrefix + storeID
}

// RedisNotifier publishes each order summary as JSON on the store's channel.
type RedisNotifier struct {
	rdb *redis.Client
}

func NewRedisNotifier(rdb *redis.Client) *RedisNotifier {
	return &RedisNotifier{rdb: rdb}
}

func (n *RedisNotifier) NotifyOrder(ctx context.Context, order cart.OrderSummary) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "notification"),
		zap.String("method", "PublishOrder"),
		zap.String("store_id", order.StoreID),
	)

	payload, err := json.Marshal(order)
	if err != nil {
		return err
	}

	receivers, err := n.rdb.Publish(ctx, Channel(order.StoreID), payload).Result()
	if err != nil {
		log.Error("failed to publish order", zap.Error(err))
		return err
	}

	log.Debug("order published",
		zap.String("order_number", order.OrderNumber),
		zap.Int64("receivers", receivers),
	)
	return nil
}

// LogNotifier writes the order to the structured log.
type LogNotifier struct{}

func (LogNotifier) NotifyOrder(ctx context.Context, order cart.OrderSummary) error {
	logger.FromCtx(ctx).Info("order placed",
		zap.String("order_number", order.OrderNumber),
		zap.String("store_id", order.StoreID),
		zap.String("store_name", order.StoreName),
		zap.Int("lines", len(order.Lines)),
		zap.Int64("subtotal", order.Subtotal),
	)
	return nil
}

// Fanout delivers to every notifier and joins their errors.
type Fanout []cart.Notifier

func (f Fanout) NotifyOrder(ctx context.Context, order cart.OrderSummary) error {
	var errs []error
	for _, n := range f {
		if err := n.NotifyOrder(ctx, order); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
