package services

import (
	"os"
	"testing"
)

func TestNoopLikeCounter(t *testing.T) {
	var c LikeCounter = NoopLikeCounter{}
	if n, err := c.Incr(1); n != 0 || err != nil {
		t.Errorf("expected 0, nil; got %d, %v", n, err)
	}
	if err := c.Set(1, 5); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
	if n, ok, err := c.Count(1); n != 0 || ok || err != nil {
		t.Errorf("expected 0, false, nil; got %d, %v, %v", n, ok, err)
	}
}

func TestRedisLikeCounter(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	c, err := NewRedisLikeCounter(addr)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer c.Close()
	c.client.Del(likeKey(7), likeKey(8))

	if _, ok, _ := c.Count(7); ok {
		t.Fatal("expected unknown comment before first write")
	}
	if err := c.Set(7, 3); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if _, err := c.Incr(7); err != nil {
		t.Fatalf("Incr failed: %v", err)
	}
	n, ok, err := c.Count(7)
	if err != nil || !ok {
		t.Fatalf("Count: ok=%v err=%v", ok, err)
	}
	if n != 4 {
		t.Errorf("expected 4, got %d", n)
	}
	if _, ok, _ := c.Count(8); ok {
		t.Error("expected comment 8 to be unknown")
	}
}
