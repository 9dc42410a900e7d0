package redis

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// fakeClient is an in-memory stand-in for the real redis client.
type fakeClient struct {
	mu       sync.Mutex
	values   map[string]string
	counters map[string]int64
	expires  map[string]time.Duration

	incrErr  error
	setNXErr error
}

var _ RedisClient = (*fakeClient)(nil)

func newFakeClient() *fakeClient {
	return &fakeClient{
		values:   make(map[string]string),
		counters: make(map[string]int64),
		expires:  make(map[string]time.Duration),
	}
}

func (f *fakeClient) Ping(ctx context.Context) error { return nil }

func (f *fakeClient) Incr(ctx context.Context, key string) (int64, error) {
	if f.incrErr != nil {
		return 0, f.incrErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counters[key]++
	return f.counters[key], nil
}

func (f *fakeClient) Expire(ctx context.Context, key string, expiration time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.expires[key] = expiration
	return nil
}

func (f *fakeClient) SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	if f.setNXErr != nil {
		return false, f.setNXErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.values[key]; ok {
		return false, nil
	}
	f.values[key] = value
	return true, nil
}

// Eval emulates the compare-and-delete unlock script.
func (f *fakeClient) Eval(ctx context.Context, script *redis.Script, keys []string, args ...interface{}) (interface{}, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(keys) == 1 && len(args) == 1 {
		if f.values[keys[0]] == args[0].(string) {
			delete(f.values, keys[0])
			return int64(1), nil
		}
	}
	return int64(0), nil
}

func (f *fakeClient) Close() error { return nil }
