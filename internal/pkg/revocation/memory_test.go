package revocation

import (
	"context"
	"testing"
	"time"
)

func TestMemoryStoreRevoke(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if err := s.Revoke(ctx, "jti-1", time.Minute); err != nil {
		t.Fatalf("Revoke: %v", err)
	}

	revoked, err := s.IsRevoked(ctx, "jti-1")
	if err != nil {
		t.Fatalf("IsRevoked: %v", err)
	}
	if !revoked {
		t.Error("expected jti-1 to be revoked")
	}

	revoked, err = s.IsRevoked(ctx, "jti-2")
	if err != nil {
		t.Fatalf("IsRevoked: %v", err)
	}
	if revoked {
		t.Error("jti-2 was never revoked")
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	// Non-positive TTL means the token is already expired
	if err := s.Revoke(ctx, "expired", 0); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	revoked, _ := s.IsRevoked(ctx, "expired")
	if revoked {
		t.Error("entry with zero TTL should not be recorded")
	}

	if err := s.Revoke(ctx, "short", time.Millisecond); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	revoked, _ = s.IsRevoked(ctx, "short")
	if revoked {
		t.Error("entry should expire after its TTL")
	}
}
