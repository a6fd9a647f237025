package cache

import (
	"chatlens/internal/model"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ResultStore holds the latest analysis result of each viewing session.
// Put is guarded by the upload sequence: a result older than the stored one
// is refused, so a slow earlier upload cannot overwrite a newer one.
type ResultStore interface {
	// NextSeq allocates the next upload sequence number for a session.
	NextSeq(ctx context.Context, sessionID string) (int64, error)
	// Put stores r unless a result with the same or a higher Seq is already
	// stored. It reports whether r was accepted.
	Put(ctx context.Context, r *model.StoredResult) (bool, error)
	// Get returns the stored result, or nil when the session has none.
	Get(ctx context.Context, sessionID string) (*model.StoredResult, error)
}

// putIfNewer sets seq and data only when ARGV[1] exceeds the stored seq.
var putIfNewer = redis.NewScript(`
local cur = tonumber(redis.call('HGET', KEYS[1], 'seq') or '0')
if tonumber(ARGV[1]) <= cur then
  return 0
end
redis.call('HSET', KEYS[1], 'seq', ARGV[1], 'data', ARGV[2])
redis.call('PEXPIRE', KEYS[1], ARGV[3])
return 1
`)

type resultCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewResultCache creates a Redis backed result store
func NewResultCache(client *redis.Client, ttl time.Duration) ResultStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &resultCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *resultCache) resultKey(sessionID string) string {
	return fmt.Sprintf("session:%s:result", sessionID)
}

// NextSeq keeps its counter in the result hash, under the same TTL.
func (c *resultCache) NextSeq(ctx context.Context, sessionID string) (int64, error) {
	var incr *redis.IntCmd
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.HIncrBy(ctx, c.resultKey(sessionID), "next", 1)
		pipe.PExpire(ctx, c.resultKey(sessionID), c.ttl)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

func (c *resultCache) Put(ctx context.Context, r *model.StoredResult) (bool, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return false, err
	}
	n, err := putIfNewer.Run(ctx, c.client, []string{c.resultKey(r.SessionID)}, r.Seq, data, c.ttl.Milliseconds()).Int()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (c *resultCache) Get(ctx context.Context, sessionID string) (*model.StoredResult, error) {
	data, err := c.client.HGet(ctx, c.resultKey(sessionID), "data").Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var r model.StoredResult
	if err := json.Unmarshal([]byte(data), &r); err != nil {
		return nil, err
	}
	return &r, nil
}
