package enrollment

import (
	"context"
	"time"
)

// Guard claims a key for a short time so two submissions of the same
// transaction do not run side by side. The payments unique index remains the
// source of truth; a guard only fails fast.
type Guard interface {
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

type noopGuard struct{}

func (noopGuard) Claim(context.Context, string, time.Duration) (bool, error) { return true, nil }
func (noopGuard) Release(context.Context, string) error                      { return nil }
