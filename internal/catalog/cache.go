package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"insurance-workers/internal/common/logger"
	"insurance-workers/internal/common/metrics"
	"insurance-workers/internal/models"
)

const keyPrefix = "catalog:"

// CachedRepository is a read-through Redis cache in front of another
// Repository. Redis failures are logged and the call falls through.
type CachedRepository struct {
	next   Repository
	redis  *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

func NewCachedRepository(next Repository, client *redis.Client, ttl time.Duration, log logger.Logger) *CachedRepository {
	return &CachedRepository{
		next:   next,
		redis:  client,
		ttl:    ttl,
		logger: log.WithFields(map[string]interface{}{"component": "catalog-cache"}),
	}
}

func (c *CachedRepository) ListPolicies(ctx context.Context) ([]models.PolicyRecord, error) {
	key := keyPrefix + "policies"

	var cached []models.PolicyRecord
	if c.get(ctx, key, &cached) {
		return cached, nil
	}

	policies, err := c.next.ListPolicies(ctx)
	if err != nil {
		return nil, err
	}
	c.set(ctx, key, policies)
	return policies, nil
}

func (c *CachedRepository) FeatureSets(ctx context.Context, names []string) (map[string]models.PolicyFeatureSet, error) {
	out := make(map[string]models.PolicyFeatureSet, len(names))
	if len(names) == 0 {
		return out, nil
	}

	keys := make([]string, len(names))
	for i, n := range names {
		keys[i] = featureKey(n)
	}

	var misses []string
	vals, err := c.redis.MGet(ctx, keys...).Result()
	if err != nil {
		metrics.CatalogCacheRequests.WithLabelValues("error").Inc()
		c.logger.Warn("cache read failed", map[string]interface{}{"key": keys[0], "error": err.Error()})
		misses = names
	} else {
		for i, v := range vals {
			s, ok := v.(string)
			if !ok {
				misses = append(misses, names[i])
				continue
			}
			var set models.PolicyFeatureSet
			if err := json.Unmarshal([]byte(s), &set); err != nil {
				misses = append(misses, names[i])
				continue
			}
			out[names[i]] = set
		}
		metrics.CatalogCacheRequests.WithLabelValues("hit").Add(float64(len(names) - len(misses)))
		metrics.CatalogCacheRequests.WithLabelValues("miss").Add(float64(len(misses)))
	}

	if len(misses) == 0 {
		return out, nil
	}

	fetched, err := c.next.FeatureSets(ctx, misses)
	if err != nil {
		return nil, err
	}
	for name, set := range fetched {
		out[name] = set
		c.set(ctx, featureKey(name), set)
	}
	return out, nil
}

func (c *CachedRepository) CompanyFinancials(ctx context.Context, company string) (*models.CompanyFinancials, error) {
	key := keyPrefix + "company:" + companyKey(company)

	var cached models.CompanyFinancials
	if c.get(ctx, key, &cached) {
		return &cached, nil
	}

	fin, err := c.next.CompanyFinancials(ctx, company)
	if err != nil {
		return nil, err
	}
	c.set(ctx, key, fin)
	return fin, nil
}

// Invalidate drops every cached catalog entry.
func (c *CachedRepository) Invalidate(ctx context.Context) error {
	iter := c.redis.Scan(ctx, 0, keyPrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.redis.Del(ctx, keys...).Err()
}

func (c *CachedRepository) get(ctx context.Context, key string, dst interface{}) bool {
	val, err := c.redis.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			metrics.CatalogCacheRequests.WithLabelValues("miss").Inc()
		} else {
			metrics.CatalogCacheRequests.WithLabelValues("error").Inc()
			c.logger.Warn("cache read failed", map[string]interface{}{"key": key, "error": err.Error()})
		}
		return false
	}
	if err := json.Unmarshal(val, dst); err != nil {
		metrics.CatalogCacheRequests.WithLabelValues("error").Inc()
		c.logger.Warn("discarding corrupt cache entry", map[string]interface{}{"key": key, "error": err.Error()})
		return false
	}
	metrics.CatalogCacheRequests.WithLabelValues("hit").Inc()
	return true
}

func (c *CachedRepository) set(ctx context.Context, key string, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Warn("cache write failed", map[string]interface{}{"key": key, "error": err.Error()})
	}
}

// featureKey is case-sensitive, matching the lookup of every Repository.
func featureKey(name string) string {
	return keyPrefix + "features:" + name
}
