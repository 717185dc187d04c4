package storage

import (
	"context"
	"strings"
)

// BadgeResolver turns a badge reference from the scores table into a URL the
// browser can load. Images are never fetched or cached here.
type BadgeResolver interface {
	Resolve(ctx context.Context, ref string) (string, error)
}

type passthroughBadgeResolver struct{}

// NewPassthroughBadgeResolver is used when badge references are already URLs.
func NewPassthroughBadgeResolver() BadgeResolver {
	return passthroughBadgeResolver{}
}

func (passthroughBadgeResolver) Resolve(_ context.Context, ref string) (string, error) {
	return strings.TrimSpace(ref), nil
}

func isAbsoluteURL(ref string) bool {
	lower := strings.ToLower(ref)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") || strings.HasPrefix(lower, "//")
}
