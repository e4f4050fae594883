package cache

import (
	"context"
	"strings"

	"github.com/matzehuels/trackgraph/pkg/errors"
)

// Open returns the backend named by selector: "none", "file" (rooted at
// dir), or a redis:// or mongodb:// URL. Remote backends are pinged so a
// misconfigured URL fails early.
func Open(ctx context.Context, selector, dir string) (Cache, error) {
	if err := errors.ValidateCacheURL(selector); err != nil {
		return nil, err
	}

	switch {
	case selector == "none":
		return NewNullCache(), nil
	case selector == "file":
		c, err := NewFileCache(dir)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeCache, err, "open cache dir %s", dir)
		}
		return c, nil
	case strings.HasPrefix(selector, "redis"):
		c, err := NewRedisCache(selector, "trackgraph:")
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidCache, err, "open redis cache")
		}
		if err := c.Ping(ctx); err != nil {
			c.Close()
			return nil, errors.Wrap(errors.ErrCodeCache, err, "open redis cache")
		}
		return c, nil
	default:
		c, err := NewMongoCache(ctx, selector, "", "")
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidCache, err, "open mongodb cache")
		}
		if err := c.Ping(ctx); err != nil {
			c.Close()
			return nil, errors.Wrap(errors.ErrCodeCache, err, "open mongodb cache")
		}
		return c, nil
	}
}
