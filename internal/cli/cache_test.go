package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/pixelgraph/pkg/cache"
)

func TestCacheDirXDG(t *testing.T) {
	custom := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", custom)

	want := filepath.Join(custom, appName)
	if got := cacheDir(); got != want {
		t.Errorf("cacheDir() = %q, want %q", got, want)
	}
}

func TestCacheDirDefault(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")
	dir := cacheDir()
	if !strings.HasSuffix(dir, appName) && !strings.HasSuffix(dir, appName+"-cache") {
		t.Errorf("cacheDir() = %q, should end with %q", dir, appName)
	}
}

func TestCachePathCommand(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	c := New(&bytes.Buffer{}, LogInfo)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"cache", "path"})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("cache path: %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != cacheDir() {
		t.Errorf("cache path printed %q, want %q", got, cacheDir())
	}
}

func TestCacheClearCommand(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	fc, err := cache.NewFileCache(cacheDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	for _, k := range []string{"a", "b"} {
		if err := fc.Set(ctx, k, []byte(k), time.Hour); err != nil {
			t.Fatal(err)
		}
	}

	root := New(&bytes.Buffer{}, LogInfo).RootCommand()
	root.SetArgs([]string{"cache", "clear"})
	if err := root.ExecuteContext(ctx); err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	if _, ok, _ := fc.Get(ctx, "a"); ok {
		t.Error("entry survived cache clear")
	}
	entries, _ := os.ReadDir(cacheDir())
	for _, e := range entries {
		if !e.IsDir() {
			t.Errorf("file %s left in cache dir", e.Name())
		}
	}
}

func TestNewCacheNoCache(t *testing.T) {
	c := New(&bytes.Buffer{}, LogInfo)
	cc, err := c.newCache(context.Background(), true)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := cc.(cache.NullCache); !ok {
		t.Errorf("newCache(noCache) = %T, want cache.NullCache", cc)
	}
}

func TestNewCacheBadRedisURL(t *testing.T) {
	t.Setenv(envRedisURL, "not-a-url")
	c := New(&bytes.Buffer{}, LogInfo)
	if _, err := c.newCache(context.Background(), false); err == nil {
		t.Error("newCache with invalid redis url succeeded")
	}
}
