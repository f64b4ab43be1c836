package cache

import (
	"bytes"
	"path/filepath"
	"testing"
)

func TestSQLiteCacheRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "responses.db")
	c, err := NewSQLiteCache(path)
	if err != nil {
		t.Fatalf("NewSQLiteCache: %v", err)
	}
	defer c.Close()

	if _, ok := c.Get("a"); ok {
		t.Error("Get on empty cache reported a hit")
	}

	c.Set("a", []byte("one"))
	if body, ok := c.Get("a"); !ok || !bytes.Equal(body, []byte("one")) {
		t.Errorf("Get(a) = %q, %v", body, ok)
	}

	c.Set("a", []byte("two"))
	if body, _ := c.Get("a"); !bytes.Equal(body, []byte("two")) {
		t.Errorf("Get(a) after overwrite = %q", body)
	}

	c.Invalidate("a")
	if _, ok := c.Get("a"); ok {
		t.Error("Get after Invalidate reported a hit")
	}
}

func TestSQLiteCachePersistsAcrossOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "responses.db")

	c, err := NewSQLiteCache(path)
	if err != nil {
		t.Fatalf("NewSQLiteCache: %v", err)
	}
	c.Set("url", []byte("body"))
	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	c2, err := NewSQLiteCache(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer c2.Close()
	if body, ok := c2.Get("url"); !ok || !bytes.Equal(body, []byte("body")) {
		t.Errorf("Get after reopen = %q, %v", body, ok)
	}
}
