package travel

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	gateKey = "travel:provider:gate"
	// gateTTL bounds how long a crashed holder can block other replicas.
	gateTTL     = 10 * time.Second
	gatePoll    = 50 * time.Millisecond
	gateMaxWait = 5 * time.Second
)

var ErrGateTimeout = errors.New("timed out waiting for provider gate")

// releaseScript deletes the gate only if this holder still owns it.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisGate lets one replica at a time call the travel provider.
type RedisGate struct {
	redis   redis.UniversalClient
	key     string
	ttl     time.Duration
	poll    time.Duration
	maxWait time.Duration
}

func NewRedisGate(client redis.UniversalClient) *RedisGate {
	return &RedisGate{
		redis:   client,
		key:     gateKey,
		ttl:     gateTTL,
		poll:    gatePoll,
		maxWait: gateMaxWait,
	}
}

func (g *RedisGate) Acquire(ctx context.Context) (func(), error) {
	token := uuid.NewString()
	deadline := time.NewTimer(g.maxWait)
	defer deadline.Stop()
	poll := time.NewTicker(g.poll)
	defer poll.Stop()

	for {
		ok, err := g.redis.SetNX(ctx, g.key, token, g.ttl).Result()
		if err != nil {
			return nil, err
		}
		if ok {
			return func() {
				// release must run even when the request context is already cancelled
				_ = releaseScript.Run(context.Background(), g.redis, []string{g.key}, token).Err()
			}, nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-deadline.C:
			return nil, ErrGateTimeout
		case <-poll.C:
		}
	}
}
