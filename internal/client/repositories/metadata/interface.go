package metadata

import (
	"context"
)

// Repository is a string key/value table in the local database.
// Get reports found=false, without error, for a missing key.
type Repository interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, keys ...string) error
}
