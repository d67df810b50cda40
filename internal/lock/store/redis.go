package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/infonl/dimpact-zaakafhandelcomponent-sub005/internal/lock/models"
	"github.com/infonl/dimpact-zaakafhandelcomponent-sub005/internal/lock/ports"
	id "github.com/infonl/dimpact-zaakafhandelcomponent-sub005/pkg/domain"
	"github.com/infonl/dimpact-zaakafhandelcomponent-sub005/pkg/platform/sentinel"
)

var _ ports.Store = (*RedisStore)(nil)

const lockKeyPrefix = "doclock:"

// deleteIfToken removes the lock only when its stored token matches, so a
// stale release cannot drop a lock that was re-acquired in the meantime.
var deleteIfToken = redis.NewScript(`
local raw = redis.call("GET", KEYS[1])
if not raw then
	return 0
end
local lock = cjson.decode(raw)
if lock["token"] ~= ARGV[1] then
	return 0
end
return redis.call("DEL", KEYS[1])
`)

// RedisStore keeps locks as JSON values. Temporary locks expire after
// temporaryTTL so a crashed instance cannot leave a document locked forever.
type RedisStore struct {
	client       *redis.Client
	temporaryTTL time.Duration
}

type RedisOption func(*RedisStore)

func WithTemporaryTTL(ttl time.Duration) RedisOption {
	return func(s *RedisStore) {
		s.temporaryTTL = ttl
	}
}

func NewRedis(client *redis.Client, opts ...RedisOption) *RedisStore {
	s := &RedisStore{client: client, temporaryTTL: 5 * time.Minute}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisStore) Find(ctx context.Context, documentID id.DocumentID) (models.Lock, error) {
	raw, err := s.client.Get(ctx, lockKeyPrefix+documentID.String()).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.Lock{}, sentinel.ErrNotFound
	}
	if err != nil {
		return models.Lock{}, fmt.Errorf("get lock: %w", err)
	}
	var lock models.Lock
	if err := json.Unmarshal(raw, &lock); err != nil {
		return models.Lock{}, fmt.Errorf("decode lock: %w", err)
	}
	return lock, nil
}

func (s *RedisStore) Create(ctx context.Context, lock models.Lock) error {
	raw, err := json.Marshal(lock)
	if err != nil {
		return fmt.Errorf("encode lock: %w", err)
	}
	var ttl time.Duration
	if lock.Temporary {
		ttl = s.temporaryTTL
	}
	ok, err := s.client.SetNX(ctx, lockKeyPrefix+lock.DocumentID.String(), raw, ttl).Result()
	if err != nil {
		return fmt.Errorf("set lock: %w", err)
	}
	if !ok {
		return sentinel.ErrConflict
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, documentID id.DocumentID, token string) error {
	n, err := deleteIfToken.Run(ctx, s.client, []string{lockKeyPrefix + documentID.String()}, token).Int()
	if err != nil {
		return fmt.Errorf("delete lock: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}
