package lock

import (
	"context"
	"sync"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrLockTimeout 在等待时间内没有拿到锁
var ErrLockTimeout = errors.New("lock wait timeout")

// Locker 实体级互斥锁，返回的 unlock 必须调用
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

// Noop 不加锁，对应默认的 read-modify-write 行为
type Noop struct{}

func (Noop) Lock(context.Context, string) (func(), error) { return func() {}, nil }

// releaseScript 只删除自己持有的锁
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// RedisLocker 基于 SET NX PX 的分布式锁
type RedisLocker struct {
	client *redis.Client
	ttl    time.Duration
	wait   time.Duration
	retry  time.Duration
}

// NewRedisLocker 创建 Redis 锁
func NewRedisLocker(client *redis.Client, ttl, wait time.Duration) *RedisLocker {
	return &RedisLocker{client: client, ttl: ttl, wait: wait, retry: 20 * time.Millisecond}
}

func (l *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	fullKey := "lock:" + key
	token := uuid.NewString()

	ctx, cancel := context.WithTimeout(ctx, l.wait)
	defer cancel()

	for {
		ok, err := l.client.SetNX(ctx, fullKey, token, l.ttl).Result()
		if err != nil && !errors.Is(err, context.DeadlineExceeded) {
			return nil, errors.Wrap(err, "acquire lock")
		}
		if ok {
			return func() {
				_ = releaseScript.Run(context.Background(), l.client, []string{fullKey}, token).Err()
			}, nil
		}

		select {
		case <-ctx.Done():
			return nil, ErrLockTimeout
		case <-time.After(l.retry):
		}
	}
}

// LocalLocker 进程内按 key 加锁，未启用 Redis 时使用
type LocalLocker struct {
	mu    sync.Mutex
	locks map[string]*entry
}

type entry struct {
	ch   chan struct{}
	refs int
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{locks: make(map[string]*entry)}
}

func (l *LocalLocker) Lock(ctx context.Context, key string) (func(), error) {
	l.mu.Lock()
	e, ok := l.locks[key]
	if !ok {
		e = &entry{ch: make(chan struct{}, 1)}
		l.locks[key] = e
	}
	e.refs++
	l.mu.Unlock()

	select {
	case e.ch <- struct{}{}:
	case <-ctx.Done():
		l.release(key, e, false)
		return nil, ErrLockTimeout
	}

	var once sync.Once
	return func() {
		once.Do(func() { l.release(key, e, true) })
	}, nil
}

func (l *LocalLocker) release(key string, e *entry, held bool) {
	if held {
		<-e.ch
	}
	l.mu.Lock()
	e.refs--
	if e.refs == 0 {
		delete(l.locks, key)
	}
	l.mu.Unlock()
}

// New 按配置选择实现
func New(enabled bool, client *redis.Client) Locker {
	switch {
	case !enabled:
		return Noop{}
	case client != nil:
		return NewRedisLocker(client, 10*time.Second, 5*time.Second)
	default:
		return NewLocalLocker()
	}
}
