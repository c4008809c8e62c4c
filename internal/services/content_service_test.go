// internal/services/content_service_test.go
package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLandingNodesDefault(t *testing.T) {
	svc := NewContentService(&fakeContentCache{})

	nodes, err := svc.LandingNodes(context.Background())
	require.NoError(t, err)
	assert.Contains(t, nodes, "nodes")
}

func TestLandingNodesRoundTrip(t *testing.T) {
	cache := &fakeContentCache{}
	svc := NewContentService(cache)

	saved := map[string]interface{}{"nodes": []interface{}{map[string]interface{}{"type": "hero"}}}
	require.NoError(t, svc.SaveLandingNodes(context.Background(), saved))

	nodes, err := svc.LandingNodes(context.Background())
	require.NoError(t, err)
	assert.Len(t, nodes["nodes"], 1)
}
