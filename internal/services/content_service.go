// internal/services/content_service.go
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const (
	contactTemplateKey = "contactEmailTemplate"
	landingNodesKey    = "landingNodes-v2"
)

// ContentCache serves operator-editable content blobs. The second return
// reports presence: an absent key is not an error, the caller falls back to
// its built-in default.
type ContentCache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// RedisContentCache backs ContentCache with a shared redis instance so
// content edits apply without a deploy.
type RedisContentCache struct {
	client *redis.Client
}

func NewRedisContentCache(client *redis.Client) *RedisContentCache {
	return &RedisContentCache{client: client}
}

func (c *RedisContentCache) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, &CollaboratorError{Collaborator: "content cache", Err: err}
	}
	return value, true, nil
}

func (c *RedisContentCache) Set(ctx context.Context, key, value string) error {
	if err := c.client.Set(ctx, key, value, 0).Err(); err != nil {
		return &CollaboratorError{Collaborator: "content cache", Err: err}
	}
	return nil
}

const defaultLandingNodes = `{"nodes":[{"type":"hero","title":"Arepa Venezuelan Kitchen","subtitle":"Authentic Venezuelan street food"},{"type":"featured","title":"Our Menu"}]}`

// ContentService exposes the storefront's editable content: the landing page
// node tree and the contact-form email template.
type ContentService struct {
	cache ContentCache
}

func NewContentService(cache ContentCache) *ContentService {
	return &ContentService{cache: cache}
}

// LandingNodes returns the landing page node tree, falling back to the
// built-in default when the cache has no override.
func (s *ContentService) LandingNodes(ctx context.Context) (map[string]interface{}, error) {
	raw, ok, err := s.cache.Get(ctx, landingNodesKey)
	if err != nil {
		return nil, err
	}
	if !ok {
		raw = defaultLandingNodes
	}

	var nodes map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &nodes); err != nil {
		return nil, fmt.Errorf("malformed landing nodes: %w", err)
	}
	return nodes, nil
}

func (s *ContentService) SaveLandingNodes(ctx context.Context, nodes map[string]interface{}) error {
	raw, err := json.Marshal(nodes)
	if err != nil {
		return fmt.Errorf("failed to encode landing nodes: %w", err)
	}
	return s.cache.Set(ctx, landingNodesKey, string(raw))
}
