package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/lazylynx/gmanifold/manifold"
)

// MeshCache stores built meshes by request key.
type MeshCache interface {
	// Get reports ok=false on a miss.
	Get(ctx context.Context, key string) (mesh *manifold.Mesh, ok bool, err error)
	Set(ctx context.Context, key string, mesh *manifold.Mesh) error
}

// Key derives a stable cache key from a request value. Equal values give
// equal keys.
func Key(kind string, v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("cache key: %w", err)
	}
	sum := sha256.Sum256(b)
	return "gmanifold:" + kind + ":" + hex.EncodeToString(sum[:]), nil
}

// Valkey keeps meshes as JSON in Valkey (Redis-compatible).
type Valkey struct {
	client valkey.Client
	ttl    time.Duration
}

// New connects to the Valkey server at addr.
func New(addr string, ttl time.Duration) (*Valkey, error) {
	client, err := valkey.NewClient(valkey.ClientOption{
		InitAddress: []string{addr},
	})
	if err != nil {
		return nil, fmt.Errorf("valkey connect: %w", err)
	}
	return &Valkey{client: client, ttl: ttl}, nil
}

func (c *Valkey) Get(ctx context.Context, key string) (*manifold.Mesh, bool, error) {
	b, err := c.client.Do(ctx, c.client.B().Get().Key(key).Build()).AsBytes()
	if valkey.IsValkeyNil(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var mesh manifold.Mesh
	if err := json.Unmarshal(b, &mesh); err != nil {
		return nil, false, fmt.Errorf("decode cached mesh %s: %w", key, err)
	}
	return &mesh, true, nil
}

func (c *Valkey) Set(ctx context.Context, key string, mesh *manifold.Mesh) error {
	b, err := json.Marshal(mesh)
	if err != nil {
		return fmt.Errorf("encode mesh: %w", err)
	}
	cmd := c.client.Do(ctx,
		c.client.B().Set().Key(key).Value(valkey.BinaryString(b)).Ex(c.ttl).Build(),
	)
	return cmd.Error()
}

// Ping checks connectivity.
func (c *Valkey) Ping(ctx context.Context) error {
	return c.client.Do(ctx, c.client.B().Ping().Build()).Error()
}

// Close releases the client.
func (c *Valkey) Close() {
	c.client.Close()
}

// Nop is the cache used when caching is disabled; it never hits.
type Nop struct{}

func (Nop) Get(context.Context, string) (*manifold.Mesh, bool, error) { return nil, false, nil }

func (Nop) Set(context.Context, string, *manifold.Mesh) error { return nil }
