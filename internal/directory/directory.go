// Package directory resolves visitors and hosts for the scheduling engine,
// keeping recently used host records in an expiring LRU cache.
package directory

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/rs/zerolog"

	"github.com/Shivanand-hulikatti/campus-visitor-scheduling/internal/model"
)

// Source is the backing store of visitor and staff records.
type Source interface {
	Visitor(ctx context.Context, id string) (*model.Visitor, error)
	Host(ctx context.Context, id string) (*model.Host, error)
	Hosts(ctx context.Context) ([]model.HostSummary, error)
}

// Cached serves host lookups from memory. Staff records change rarely and
// are read on every listing that shows a host name, so entries live for ttl.
type Cached struct {
	src   Source
	hosts *expirable.LRU[string, model.Host]
}

// NewCached wraps src with a host cache of the given size and entry lifetime.
func NewCached(src Source, size int, ttl time.Duration) (*Cached, error) {
	if size <= 0 {
		return nil, fmt.Errorf("create host cache: size must be positive, got %d", size)
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("create host cache: ttl must be positive, got %s", ttl)
	}
	return &Cached{src: src, hosts: expirable.NewLRU[string, model.Host](size, nil, ttl)}, nil
}

// Visitor always reads through; visitor contact details must be current
// when an email is about to go out.
func (c *Cached) Visitor(ctx context.Context, id string) (*model.Visitor, error) {
	return c.src.Visitor(ctx, id)
}

// Host returns a copy of the cached host, loading it on a miss.
func (c *Cached) Host(ctx context.Context, id string) (*model.Host, error) {
	if h, ok := c.hosts.Get(id); ok {
		zerolog.Ctx(ctx).Debug().Str("host_id", id).Msg("directory.host.cache_hit")
		return &h, nil
	}

	h, err := c.src.Host(ctx, id)
	if err != nil {
		return nil, err
	}
	c.hosts.Add(id, *h)
	return h, nil
}

// ResolveHost reads the host from the source and refreshes the cache.
// A host that no longer resolves is dropped from the cache.
func (c *Cached) ResolveHost(ctx context.Context, id string) (*model.Host, error) {
	h, err := c.src.Host(ctx, id)
	if err != nil {
		c.Invalidate(id)
		return nil, err
	}
	c.hosts.Add(id, *h)
	return h, nil
}

// Hosts lists bookable hosts.
func (c *Cached) Hosts(ctx context.Context) ([]model.HostSummary, error) {
	return c.src.Hosts(ctx)
}

// Invalidate drops a host from the cache.
func (c *Cached) Invalidate(id string) {
	c.hosts.Remove(id)
}
