package service

import "context"

// CacheReportes stores rendered read models. It is best effort: failures are
// logged by the implementation and reads fall through to the store.
type CacheReportes interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, val []byte)
	// Version is the current data version. Keys built with it go stale on
	// the next Invalidar.
	Version(ctx context.Context) int64
	Invalidar(ctx context.Context)
}
