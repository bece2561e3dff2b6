package revocation

import (
	"context"
	"os"
	"testing"
	"time"

	"paysecure/internal/testutil"

	"github.com/redis/go-redis/v9"
)

func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	revoked, err := s.IsRevoked(ctx, "token-a")
	if err != nil {
		t.Fatalf("IsRevoked: %v", err)
	}
	if revoked {
		t.Fatal("fresh token reported revoked")
	}

	if err := s.Revoke(ctx, "token-a", time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	// Revoking twice is harmless
	if err := s.Revoke(ctx, "token-a", time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("second Revoke: %v", err)
	}

	for i := 0; i < 3; i++ {
		revoked, err = s.IsRevoked(ctx, "token-a")
		if err != nil || !revoked {
			t.Fatalf("expected token-a revoked on every check, got %v, %v", revoked, err)
		}
	}

	revoked, _ = s.IsRevoked(ctx, "token-b")
	if revoked {
		t.Fatal("unrelated token reported revoked")
	}

	if err := s.Revoke(ctx, "token-old", time.Now().Add(-time.Minute)); err != nil {
		t.Fatalf("Revoke expired: %v", err)
	}
	revoked, _ = s.IsRevoked(ctx, "token-old")
	if revoked {
		t.Fatal("already-expired token should not be stored")
	}
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestMemoryStorePurge(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if err := s.Revoke(ctx, "short", time.Now().Add(time.Minute)); err != nil {
		t.Fatal(err)
	}
	if err := s.Revoke(ctx, "long", time.Now().Add(time.Hour)); err != nil {
		t.Fatal(err)
	}

	s.now = func() time.Time { return time.Now().Add(10 * time.Minute) }

	if revoked, _ := s.IsRevoked(ctx, "short"); revoked {
		t.Error("expired entry still reported revoked")
	}

	n, err := s.Purge(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 || s.Len() != 1 {
		t.Fatalf("expected one purged and one left, got purged=%d left=%d", n, s.Len())
	}
	if revoked, _ := s.IsRevoked(ctx, "long"); !revoked {
		t.Error("live entry lost after purge")
	}
}

func TestDatabaseStore(t *testing.T) {
	exerciseStore(t, NewDatabaseStore(testutil.NewRevokedTokenRepo(), "customer"))
}

func TestDatabaseStoreAudiencesAreIndependent(t *testing.T) {
	repo := testutil.NewRevokedTokenRepo()
	customer := NewDatabaseStore(repo, "customer")
	staff := NewDatabaseStore(repo, "staff")
	ctx := context.Background()

	if err := customer.Revoke(ctx, "shared-token", time.Now().Add(time.Hour)); err != nil {
		t.Fatal(err)
	}
	if revoked, _ := staff.IsRevoked(ctx, "shared-token"); revoked {
		t.Fatal("staff store must not see customer revocations")
	}
	if revoked, _ := customer.IsRevoked(ctx, "shared-token"); !revoked {
		t.Fatal("customer store lost its revocation")
	}
}

// TestRedisStore runs against a real server when REDIS_ADDR is set.
func TestRedisStore(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { client.Close() })

	s := NewRedisStore(client, "test-"+time.Now().Format("150405.000000"))
	if err := s.Ping(context.Background()); err != nil {
		t.Skipf("redis unavailable: %v", err)
	}
	exerciseStore(t, s)
}
