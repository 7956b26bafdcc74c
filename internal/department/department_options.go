package department

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const ActiveOptionsKey = "departments:active"

// Options caches the active departments shown in pickers. Redis is used when
// configured, otherwise the list is kept in process for ttl.
type Options struct {
	svc    Service
	rdb    *redis.Client
	ttl    time.Duration
	sf     singleflight.Group
	logger *zap.Logger

	mu        sync.RWMutex
	local     []Department
	fetchedAt time.Time
}

func NewOptions(svc Service, rdb *redis.Client, ttl time.Duration, logger ...*zap.Logger) *Options {
	l := zap.L().Named("department.options")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("department.options")
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Options{svc: svc, rdb: rdb, ttl: ttl, logger: l}
}

func (o *Options) Active(ctx context.Context) ([]Department, error) {
	if depts, ok := o.cached(ctx); ok {
		return depts, nil
	}

	v, err, _ := o.sf.Do(ActiveOptionsKey, func() (interface{}, error) {
		depts, err := o.svc.Active(ctx)
		if err != nil {
			return nil, err
		}
		o.store(ctx, depts)
		return depts, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]Department), nil
}

// Name resolves a department id to its name from the cached options.
func (o *Options) Name(ctx context.Context, id int64) (string, bool) {
	depts, err := o.Active(ctx)
	if err != nil {
		o.logger.Debug("department options unavailable", zap.Error(err))
		return "", false
	}
	for _, d := range depts {
		if d.ID == id {
			return d.Name, true
		}
	}
	return "", false
}

func (o *Options) Invalidate(ctx context.Context) {
	o.mu.Lock()
	o.local = nil
	o.fetchedAt = time.Time{}
	o.mu.Unlock()

	if o.rdb != nil {
		if err := o.rdb.Del(ctx, ActiveOptionsKey).Err(); err != nil {
			o.logger.Warn("failed to invalidate department options", zap.Error(err))
		}
	}
}

func (o *Options) cached(ctx context.Context) ([]Department, bool) {
	if o.rdb != nil {
		cached, err := o.rdb.Get(ctx, ActiveOptionsKey).Result()
		if err != nil {
			if err != redis.Nil {
				o.logger.Warn("department options cache read failed", zap.Error(err))
			}
			return nil, false
		}
		var depts []Department
		if json.Unmarshal([]byte(cached), &depts) != nil {
			return nil, false
		}
		return depts, true
	}

	o.mu.RLock()
	defer o.mu.RUnlock()
	if o.local == nil || time.Since(o.fetchedAt) > o.ttl {
		return nil, false
	}
	return o.local, true
}

func (o *Options) store(ctx context.Context, depts []Department) {
	if o.rdb != nil {
		if data, err := json.Marshal(depts); err == nil {
			if err := o.rdb.Set(ctx, ActiveOptionsKey, data, o.ttl).Err(); err != nil {
				o.logger.Warn("department options cache write failed", zap.Error(err))
			}
		}
		return
	}

	o.mu.Lock()
	o.local = depts
	o.fetchedAt = time.Now()
	o.mu.Unlock()
}

// invalidating drops the options cache after every successful mutation.
type invalidating struct {
	Service
	opts *Options
}

// WithInvalidation wraps svc so writes invalidate opts.
func WithInvalidation(svc Service, opts *Options) Service {
	return &invalidating{Service: svc, opts: opts}
}

func (s *invalidating) Create(ctx context.Context, d Department) (Department, string, error) {
	out, msg, err := s.Service.Create(ctx, d)
	if err == nil {
		s.opts.Invalidate(ctx)
	}
	return out, msg, err
}

func (s *invalidating) Update(ctx context.Context, id int64, d Department) (Department, string, error) {
	out, msg, err := s.Service.Update(ctx, id, d)
	if err == nil {
		s.opts.Invalidate(ctx)
	}
	return out, msg, err
}

func (s *invalidating) Delete(ctx context.Context, id int64) (string, error) {
	msg, err := s.Service.Delete(ctx, id)
	if err == nil {
		s.opts.Invalidate(ctx)
	}
	return msg, err
}

func (s *invalidating) Restore(ctx context.Context, id int64) (string, error) {
	msg, err := s.Service.Restore(ctx, id)
	if err == nil {
		s.opts.Invalidate(ctx)
	}
	return msg, err
}
