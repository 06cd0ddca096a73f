package cache

import (
	"context"
	"testing"
	"time"

	"github.com/hoanganh-hue/vssbridge/internal/domain"
)

func TestLRUSetAndGet(t *testing.T) {
	c := NewLRUCache(10)
	defer c.Close()

	ctx := context.Background()

	if err := c.Set(ctx, "key1", []byte("value1"), time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	val, err := c.Get(ctx, "key1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if string(val) != "value1" {
		t.Errorf("value = %q, want value1", val)
	}
}

func TestLRUMissReturnsNil(t *testing.T) {
	c := NewLRUCache(10)
	defer c.Close()

	val, err := c.Get(context.Background(), "missing")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if val != nil {
		t.Errorf("expected nil for miss, got %q", val)
	}
}

func TestLRUExpiry(t *testing.T) {
	c := NewLRUCache(10)
	defer c.Close()

	ctx := context.Background()
	c.Set(ctx, "key1", []byte("value1"), 10*time.Millisecond)

	time.Sleep(20 * time.Millisecond)

	val, _ := c.Get(ctx, "key1")
	if val != nil {
		t.Errorf("expected expired entry to be gone, got %q", val)
	}
}

func TestLRUEviction(t *testing.T) {
	c := NewLRUCache(3)
	defer c.Close()

	ctx := context.Background()
	c.Set(ctx, "k1", []byte("v1"), time.Minute)
	c.Set(ctx, "k2", []byte("v2"), time.Minute)
	c.Set(ctx, "k3", []byte("v3"), time.Minute)

	// Touch k1 so k2 becomes the oldest
	c.Get(ctx, "k1")

	c.Set(ctx, "k4", []byte("v4"), time.Minute)

	if val, _ := c.Get(ctx, "k2"); val != nil {
		t.Errorf("k2 should have been evicted")
	}
	if val, _ := c.Get(ctx, "k1"); val == nil {
		t.Errorf("k1 should survive eviction")
	}

	size, capacity := c.Stats()
	if size != 3 || capacity != 3 {
		t.Errorf("stats = %d/%d, want 3/3", size, capacity)
	}
}

func TestLRUDelete(t *testing.T) {
	c := NewLRUCache(10)
	defer c.Close()

	ctx := context.Background()
	c.Set(ctx, "key1", []byte("value1"), time.Minute)

	if err := c.Delete(ctx, "key1"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if val, _ := c.Get(ctx, "key1"); val != nil {
		t.Errorf("expected nil after delete")
	}
}

func TestLRUEnterpriseRoundTrip(t *testing.T) {
	c := NewLRUCache(10)
	defer c.Close()

	ctx := context.Background()

	rec := &domain.EnterpriseRecord{
		TaxID:     "0101234567",
		Name:      "Công ty TNHH ACME",
		Province:  "Hà Nội",
		Quality:   90,
		Source:    "thongtindoanhnghiep.co",
		Authentic: true,
	}

	if err := c.SetEnterprise(ctx, rec.TaxID, rec, time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	got, err := c.GetEnterprise(ctx, "0101234567")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected cached record")
	}
	if got.Name != rec.Name || got.Quality != rec.Quality || !got.Authentic {
		t.Errorf("round trip mismatch: %+v", got)
	}
}

func TestLRUEnterpriseMiss(t *testing.T) {
	c := NewLRUCache(10)
	defer c.Close()

	got, err := c.GetEnterprise(context.Background(), "0101234567")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil miss, got %+v", got)
	}
}

func TestLRUCounter(t *testing.T) {
	c := NewLRUCache(10)
	defer c.Close()

	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		got, err := c.IncrementCounter(ctx, "requests", time.Minute)
		if err != nil {
			t.Fatalf("increment failed: %v", err)
		}
		if got != want {
			t.Errorf("counter = %d, want %d", got, want)
		}
	}
}

func TestLRUCounterWindowReset(t *testing.T) {
	c := NewLRUCache(10)
	defer c.Close()

	ctx := context.Background()

	c.IncrementCounter(ctx, "requests", 10*time.Millisecond)
	time.Sleep(20 * time.Millisecond)

	got, _ := c.IncrementCounter(ctx, "requests", time.Minute)
	if got != 1 {
		t.Errorf("counter after window reset = %d, want 1", got)
	}
}

func TestNewFactory(t *testing.T) {
	c, err := New(domain.CacheConfig{Type: "memory", LocalMaxSize: 100})
	if err != nil {
		t.Fatalf("factory failed: %v", err)
	}
	defer c.Close()

	if _, ok := c.(*LRUCache); !ok {
		t.Errorf("expected LRUCache, got %T", c)
	}

	if _, err := New(domain.CacheConfig{Type: "unknown"}); err == nil {
		t.Error("expected error for unknown cache type")
	}
}
