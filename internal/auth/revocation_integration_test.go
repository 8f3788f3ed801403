package auth

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupTestRedis(t *testing.T) (string, func()) {
	if testing.Short() {
		t.Skip("Skipping redis integration test in short mode")
	}

	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("Failed to start redis container: %v", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}

	port, err := container.MappedPort(ctx, "6379")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	cleanup := func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	}

	return fmt.Sprintf("redis://%s:%s/0", host, port.Port()), cleanup
}

func TestRedisRevoker(t *testing.T) {
	url, cleanup := setupTestRedis(t)
	defer cleanup()

	ctx := context.Background()

	rdb, err := NewRedisClient(ctx, url)
	if err != nil {
		t.Fatalf("Connect to redis: %v", err)
	}
	defer rdb.Close()

	revoker := NewRedisRevoker(rdb)

	revoked, err := revoker.IsRevoked(ctx, "token-1")
	if err != nil {
		t.Fatalf("IsRevoked: %v", err)
	}
	if revoked {
		t.Error("Fresh token should not be revoked")
	}

	if err := revoker.Revoke(ctx, "token-1", time.Now().Add(time.Minute)); err != nil {
		t.Fatalf("Revoke: %v", err)
	}

	revoked, err = revoker.IsRevoked(ctx, "token-1")
	if err != nil {
		t.Fatalf("IsRevoked: %v", err)
	}
	if !revoked {
		t.Error("Token should be revoked after logout")
	}

	ttl, err := rdb.TTL(ctx, "petshop:revoked:token-1").Result()
	if err != nil {
		t.Fatalf("TTL: %v", err)
	}
	if ttl <= 0 || ttl > time.Minute {
		t.Errorf("Expected revocation ttl within a minute, got %s", ttl)
	}

	if err := revoker.Revoke(ctx, "token-2", time.Now().Add(-time.Minute)); err != nil {
		t.Fatalf("Revoke expired: %v", err)
	}
	revoked, err = revoker.IsRevoked(ctx, "token-2")
	if err != nil {
		t.Fatalf("IsRevoked: %v", err)
	}
	if revoked {
		t.Error("Already expired token should not be stored")
	}
}
