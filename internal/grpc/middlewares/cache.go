package middleware

// Responses are cached in process memory. The snapshot never changes after
// startup, so a response depends only on the method and the request body.

import (
	"context"
	"encoding/json"
	"fmt"

	lru "github.com/hashicorp/golang-lru"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/proto"
)

// ResponseCache keeps the most recently used responses.
type ResponseCache struct {
	cache *lru.Cache
}

// NewResponseCache sets up an in-memory LRU cache holding size responses.
func NewResponseCache(size int) (*ResponseCache, error) {
	cache, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &ResponseCache{cache: cache}, nil
}

// Len returns the number of cached responses.
func (c *ResponseCache) Len() int {
	return c.cache.Len()
}

// Interceptor is a gRPC middleware serving repeated requests from the cache.
// Errors are never cached.
func (c *ResponseCache) Interceptor(
	ctx context.Context,
	req interface{},
	info *grpc.UnaryServerInfo,
	handler grpc.UnaryHandler,
) (interface{}, error) {
	key, ok := generateCacheKey(info.FullMethod, req)
	if !ok {
		return handler(ctx, req)
	}

	if cachedResp, ok := c.cache.Get(key); ok {
		return cachedResp, nil
	}

	resp, err := handler(ctx, req)
	if err != nil {
		return nil, err
	}

	c.cache.Add(key, resp)
	return resp, nil
}

// generateCacheKey serializes the request. Protobuf messages use
// deterministic marshaling so that map fields produce stable keys.
func generateCacheKey(method string, req interface{}) (string, bool) {
	var reqBytes []byte
	var err error
	if msg, isProto := req.(proto.Message); isProto {
		reqBytes, err = proto.MarshalOptions{Deterministic: true}.Marshal(msg)
	} else {
		reqBytes, err = json.Marshal(req)
	}
	if err != nil {
		return "", false
	}
	return fmt.Sprintf("%s:%s", method, string(reqBytes)), true
}
