package redis

import (
	"context"
	"math"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/krewshul/pyxchange/pkg/errors"
	"github.com/krewshul/pyxchange/pkg/logger"
	v9 "github.com/redis/go-redis/v9"
)

type client struct {
	logger *logger.Logger
	config *Config
	conn   v9.UniversalClient
}

// NewClient creates a new Redis client with the provided logger and configuration.
func NewClient(logger *logger.Logger, config *Config) Client {
	return &client{
		logger: logger,
		config: config,
	}
}

func (c *client) Connect(ctx context.Context) error {
	if err := c.config.Validate(); err != nil {
		return err
	}

	switch c.config.Mode {
	case Standalone:
		c.conn = v9.NewClient(&v9.Options{
			Addr:            c.config.Addrs[0],
			Username:        c.config.Username,
			Password:        c.config.Password,
			DB:              c.config.DB,
			MaxRetries:      c.config.MaxRetries,
			MinRetryBackoff: c.config.MinRetryBackoff,
			MaxRetryBackoff: c.config.MaxRetryBackoff,
			DialTimeout:     c.config.ConnectTimeout,
			ReadTimeout:     c.config.ConnectTimeout,
			WriteTimeout:    c.config.ConnectTimeout,
			PoolSize:        c.config.PoolSize,
			MinIdleConns:    c.config.MinIdleConns,
			PoolTimeout:     c.config.PoolTimeout,
		})
	case Cluster:
		c.conn = v9.NewClusterClient(&v9.ClusterOptions{
			Addrs:           c.config.Addrs,
			Username:        c.config.Username,
			Password:        c.config.Password,
			MaxRetries:      c.config.MaxRetries,
			MinRetryBackoff: c.config.MinRetryBackoff,
			MaxRetryBackoff: c.config.MaxRetryBackoff,
			DialTimeout:     c.config.ConnectTimeout,
			ReadTimeout:     c.config.ConnectTimeout,
			WriteTimeout:    c.config.ConnectTimeout,
			PoolSize:        c.config.PoolSize,
			MinIdleConns:    c.config.MinIdleConns,
			PoolTimeout:     c.config.PoolTimeout,
		})
	}

	if err := c.conn.Ping(ctx).Err(); err != nil {
		return errors.NewCodedTracer(errors.RedisConnectionError, "Failed to connect to Redis").Wrap(err)
	}
	return nil
}

func (c *client) Reconnect(ctx context.Context) bool {
	baseDelay := c.config.MinRetryBackoff
	maxDelay := c.config.MaxRetryBackoff

	for i := range c.config.ReconnectMaxRetries {
		backoff := min(baseDelay*time.Duration(math.Pow(2, float64(i))), maxDelay)

		jitter := time.Duration(rand.IntN(1000)) * time.Millisecond
		totalDelay := backoff + jitter

		c.logger.Info("Reconnecting to Redis", logger.Field{
			Key:   "attempt",
			Value: i + 1,
		}, logger.Field{
			Key:   "delay",
			Value: totalDelay,
		})

		select {
		case <-ctx.Done():
			c.logger.Info("Reconnect cancelled", logger.Field{
				Key:   "reason",
				Value: ctx.Err(),
			})
			return false
		case <-time.After(totalDelay):
			connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			err := c.Connect(connectCtx)
			cancel()
			if err == nil {
				c.logger.Info("Reconnected to Redis successfully", logger.Field{
					Key:   "attempt",
					Value: i + 1,
				})
				return true
			}
			c.logger.Error(errors.TracerFromError(err), logger.Field{
				Key:   "attempt",
				Value: i + 1,
			})
		}
	}

	return false
}

func (c *client) Disconnect(ctx context.Context) error {
	if c.conn == nil {
		return errors.NewErrorDetails("Redis client is not connected", string(errors.RedisDisconnectionError), "disconnect")
	}
	return c.conn.Close()
}

func (c *client) Ping(ctx context.Context) error {
	if c.conn == nil {
		return errors.NewErrorDetails("Redis client is not connected", string(errors.RedisPingError), "ping")
	}
	if err := c.conn.Ping(ctx).Err(); err != nil {
		return errors.NewErrorDetails("Failed to ping Redis", string(errors.RedisPingError), "ping")
	}
	return nil
}

func (c *client) HSet(ctx context.Context, key string, values map[string]any) (int64, error) {
	affected, err := c.conn.HSet(ctx, key, values).Result()
	if err != nil {
		return 0, errors.NewCodedTracer(errors.RedisWriteError, "Failed to set fields in hash in Redis").Wrap(err)
	}
	return affected, nil
}

func (c *client) HDel(ctx context.Context, key string, fields ...string) (int64, error) {
	deleted, err := c.conn.HDel(ctx, key, fields...).Result()
	if err != nil {
		return 0, errors.NewCodedTracer(errors.RedisWriteError, "Failed to delete fields from hash in Redis").Wrap(err)
	}
	return deleted, nil
}

func (c *client) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	values, err := c.conn.HGetAll(ctx, key).Result()
	if err == v9.Nil {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, errors.NewCodedTracer(errors.RedisReadError, "Failed to read hash from Redis").Wrap(err)
	}
	return values, nil
}

func (c *client) Subscribe(ctx context.Context, channels ...string) (*v9.PubSub, error) {
	pubSub := c.conn.Subscribe(ctx, channels...)

	if _, err := pubSub.Receive(ctx); err != nil {
		_ = pubSub.Close()
		return nil, errors.NewCodedTracer(errors.RedisSubscribeError, "Failed to subscribe to channels in Redis").Wrap(err)
	}
	return pubSub, nil
}

// Publish sends message to channel and returns the number of receivers.
// Zero receivers is not an error.
func (c *client) Publish(ctx context.Context, channel string, message any) (int64, error) {
	published, err := c.conn.Publish(ctx, channel, message).Result()
	if err != nil {
		return 0, errors.NewCodedTracer(errors.RedisPublishError, "Failed to publish message to Redis").Wrap(err)
	}
	return published, nil
}

// Key joins parts with ':' behind the configured prefix.
func (c *client) Key(parts ...string) string {
	return c.config.PrefixKey + strings.Join(parts, ":")
}
