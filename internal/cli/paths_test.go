package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/trackgraph/pkg/errors"
)

func TestCacheDir(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	tests := []struct {
		name string
		xdg  string
		want string
	}{
		{"default", "", filepath.Join(home, ".cache", "trackgraph")},
		{"xdg", "/tmp/xdg-cache", filepath.Join("/tmp/xdg-cache", "trackgraph")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("XDG_CACHE_HOME", tt.xdg)
			got, err := cacheDir()
			if err != nil {
				t.Fatalf("cacheDir() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("cacheDir() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewCache(t *testing.T) {
	tests := []struct {
		selector  string
		persisted bool
	}{
		{"", true},
		{"file", true},
		{"none", false},
	}
	for _, tt := range tests {
		t.Run("selector="+tt.selector, func(t *testing.T) {
			xdg := t.TempDir()
			t.Setenv("XDG_CACHE_HOME", xdg)
			ctx := context.Background()

			c, err := newCache(ctx, tt.selector)
			if err != nil {
				t.Fatalf("newCache(%q) error = %v", tt.selector, err)
			}
			defer c.Close()

			if err := c.Set(ctx, "report:k", []byte(`{"corporation":"Y"}`), 0); err != nil {
				t.Fatalf("Set() error = %v", err)
			}
			_, hit, err := c.Get(ctx, "report:k")
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if hit != tt.persisted {
				t.Errorf("Get() hit = %v, want %v", hit, tt.persisted)
			}

			entries, _ := os.ReadDir(filepath.Join(xdg, "trackgraph"))
			if got := len(entries) > 0; got != tt.persisted {
				t.Errorf("entries under %s/trackgraph = %d, persisted = %v", xdg, len(entries), tt.persisted)
			}
		})
	}
}

func TestNewCacheRejectsUnknownBackend(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	if _, err := newCache(context.Background(), "memcached://localhost"); !errors.Is(err, errors.ErrCodeInvalidCache) {
		t.Errorf("newCache(memcached) error = %v, want %s", err, errors.ErrCodeInvalidCache)
	}
}
