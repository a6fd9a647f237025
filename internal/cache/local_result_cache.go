package cache

import (
	"chatlens/internal/model"
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/ristretto"
	"github.com/rs/zerolog/log"
)

// ErrSetDropped is returned when the in-process cache refuses a write.
var ErrSetDropped = errors.New("result cache dropped the write")

type localResultCache struct {
	mu     sync.Mutex // serializes compare-and-set in Put
	client *ristretto.Cache
	ttl    time.Duration
	seq    atomic.Int64
}

// NewLocalResultCache creates an in-process result store for single
// instance deployments. maxEntries bounds the number of sessions kept.
func NewLocalResultCache(maxEntries int, ttl time.Duration) (ResultStore, error) {
	if maxEntries <= 0 {
		maxEntries = 10000
	}
	if ttl < 0 {
		ttl = 0
	}
	client, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: int64(maxEntries) * 10,
		MaxCost:     int64(maxEntries),
		BufferItems: 64,

		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Int("max_entries", maxEntries).
		Dur("ttl", ttl).
		Msg("Local result cache initialized")

	return &localResultCache{
		client: client,
		ttl:    ttl,
	}, nil
}

// NextSeq hands out process-wide increasing numbers, which are also
// increasing within every session.
func (c *localResultCache) NextSeq(ctx context.Context, sessionID string) (int64, error) {
	return c.seq.Add(1), nil
}

func (c *localResultCache) Put(ctx context.Context, r *model.StoredResult) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if cur, ok := c.load(r.SessionID); ok && r.Seq <= cur.Seq {
		return false, nil
	}

	stored := *r
	if !c.client.SetWithTTL(r.SessionID, &stored, 1, c.ttl) {
		return false, ErrSetDropped
	}
	c.client.Wait()
	return true, nil
}

func (c *localResultCache) Get(ctx context.Context, sessionID string) (*model.StoredResult, error) {
	cur, ok := c.load(sessionID)
	if !ok {
		return nil, nil
	}
	out := *cur
	return &out, nil
}

func (c *localResultCache) load(sessionID string) (*model.StoredResult, bool) {
	v, ok := c.client.Get(sessionID)
	if !ok {
		return nil, false
	}
	r, ok := v.(*model.StoredResult)
	return r, ok
}
