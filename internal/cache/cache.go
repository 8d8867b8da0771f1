package cache

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/agentflow/agentflow-api/internal/logger"
)

var cacheRequests = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "cache_requests_total",
		Help: "Total number of cache lookups by namespace and result",
	},
	[]string{"namespace", "result"},
)

// Service is a namespaced in-memory key/value store with per-entry TTL.
// Instances are constructed explicitly and injected; each owns its namespace,
// so Flush never touches another instance's keys.
//
// GetOrSet is deliberately not single-flight: the mutex guards map access
// only, the factory runs unlocked, so two concurrent misses for the same key
// may both invoke it. Factories must be idempotent reads.
type Service struct {
	mu         sync.Mutex
	namespace  string
	defaultTTL time.Duration
	entries    map[string]entry
	log        *logger.Logger
	production bool

	hits   uint64
	misses uint64
}

type entry struct {
	value     any
	expiresAt time.Time
}

// Factory computes a value on cache miss.
type Factory func(ctx context.Context) (any, error)

func New(namespace string, defaultTTL time.Duration, log *logger.Logger, production bool) *Service {
	s := &Service{
		namespace:  namespace,
		defaultTTL: defaultTTL,
		entries:    make(map[string]entry),
		log:        log.Child("cache", map[string]any{"namespace": namespace}),
		production: production,
	}
	go s.janitor()
	return s
}

// Get returns the cached value, or nil and false on miss or expiry. Expired
// entries are never returned; they are deleted on sight.
func (s *Service) Get(key string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		s.misses++
		cacheRequests.WithLabelValues(s.namespace, "miss").Inc()
		return nil, false
	}
	if time.Now().After(e.expiresAt) {
		delete(s.entries, key)
		s.misses++
		cacheRequests.WithLabelValues(s.namespace, "miss").Inc()
		s.debug("cache expire", key)
		return nil, false
	}
	s.hits++
	cacheRequests.WithLabelValues(s.namespace, "hit").Inc()
	return e.value, true
}

// Set stores value under key. A zero ttl means the instance default.
func (s *Service) Set(key string, value any, ttl time.Duration) {
	if ttl <= 0 {
		ttl = s.defaultTTL
	}
	s.mu.Lock()
	s.entries[key] = entry{value: value, expiresAt: time.Now().Add(ttl)}
	s.mu.Unlock()
	s.debug("cache set", key)
}

// Delete removes key and reports how many entries were removed (0 or 1).
func (s *Service) Delete(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[key]; !ok {
		return 0
	}
	delete(s.entries, key)
	s.debug("cache delete", key)
	return 1
}

// Flush clears every entry in this namespace. Other instances are unaffected.
func (s *Service) Flush() {
	s.mu.Lock()
	n := len(s.entries)
	s.entries = make(map[string]entry)
	s.mu.Unlock()
	s.log.Info("cache flushed", map[string]any{"evicted": n})
}

// GetOrSet is the read-through path: on miss it runs factory, caches the
// result under ttl (instance default when zero) and returns it. A factory
// error propagates and nothing is cached; there is no negative caching.
func (s *Service) GetOrSet(ctx context.Context, key string, ttl time.Duration, factory Factory) (any, error) {
	if v, ok := s.Get(key); ok {
		return v, nil
	}

	v, err := factory(ctx)
	if err != nil {
		return nil, err
	}

	s.Set(key, v, ttl)
	return v, nil
}

// Stats is a point-in-time snapshot for the admin report.
type Stats struct {
	Namespace string `json:"namespace"`
	Entries   int    `json:"entries"`
	Hits      uint64 `json:"hits"`
	Misses    uint64 `json:"misses"`
}

func (s *Service) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Stats{
		Namespace: s.namespace,
		Entries:   len(s.entries),
		Hits:      s.hits,
		Misses:    s.misses,
	}
}

func (s *Service) janitor() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		s.mu.Lock()
		for k, e := range s.entries {
			if now.After(e.expiresAt) {
				delete(s.entries, k)
			}
		}
		s.mu.Unlock()
	}
}

func (s *Service) debug(msg, key string) {
	if s.production {
		return
	}
	s.log.Debug(msg, map[string]any{"key": key})
}
