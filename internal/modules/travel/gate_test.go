package travel

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestGate(t *testing.T) (*RedisGate, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	gate := NewRedisGate(client)
	gate.poll = 5 * time.Millisecond
	gate.maxWait = 50 * time.Millisecond
	return gate, mr
}

func TestRedisGate_AcquireSetsKeyWithTTL(t *testing.T) {
	gate, mr := newTestGate(t)

	release, err := gate.Acquire(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer release()

	if !mr.Exists(gateKey) {
		t.Fatal("expected gate key to be set")
	}
	if ttl := mr.TTL(gateKey); ttl <= 0 || ttl > gateTTL {
		t.Fatalf("expected ttl in (0, %v], got %v", gateTTL, ttl)
	}
}

func TestRedisGate_ReleaseDeletesKey(t *testing.T) {
	gate, mr := newTestGate(t)

	release, err := gate.Acquire(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	release()

	if mr.Exists(gateKey) {
		t.Fatal("expected gate key to be deleted on release")
	}
	// free again
	release, err = gate.Acquire(context.Background())
	if err != nil {
		t.Fatalf("expected gate to be free after release: %v", err)
	}
	release()
}

func TestRedisGate_SecondAcquireTimesOut(t *testing.T) {
	gate, _ := newTestGate(t)

	release, err := gate.Acquire(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer release()

	start := time.Now()
	_, err = gate.Acquire(context.Background())
	if !errors.Is(err, ErrGateTimeout) {
		t.Fatalf("expected ErrGateTimeout, got %v", err)
	}
	if elapsed := time.Since(start); elapsed < gate.maxWait {
		t.Fatalf("gave up after %v, before maxWait %v", elapsed, gate.maxWait)
	}
}

func TestRedisGate_AcquireHonorsCancelledContext(t *testing.T) {
	gate, mr := newTestGate(t)
	if err := mr.Set(gateKey, "someone-else"); err != nil {
		t.Fatalf("seed key: %v", err)
	}
	gate.maxWait = time.Second

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := gate.Acquire(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestRedisGate_StaleReleaseKeepsNewHolder(t *testing.T) {
	gate, mr := newTestGate(t)

	release, err := gate.Acquire(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mr.FastForward(gateTTL + time.Second)
	if mr.Exists(gateKey) {
		t.Fatal("expected gate key to expire")
	}
	if err := mr.Set(gateKey, "other-replica"); err != nil {
		t.Fatalf("seed key: %v", err)
	}

	release()

	got, err := mr.Get(gateKey)
	if err != nil {
		t.Fatalf("expected other holder's key to survive: %v", err)
	}
	if got != "other-replica" {
		t.Fatalf("expected other-replica, got %q", got)
	}
}

func TestOracle_ProceedsWhenGateIsHeldElsewhere(t *testing.T) {
	gate, mr := newTestGate(t)
	if err := mr.Set(gateKey, "other-replica"); err != nil {
		t.Fatalf("seed key: %v", err)
	}
	provider := &fakeProvider{minutes: map[string]int{"A": 9}}
	oracle := NewOracle(provider, gate, testConfig(), nil)

	if got := oracle.Between(context.Background(), "A", "B"); got != 9 {
		t.Fatalf("expected provider minutes 9 after gate timeout, got %d", got)
	}
}
