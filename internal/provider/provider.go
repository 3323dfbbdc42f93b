// Package provider contains the account-data sources and the resolver
// that tries them in priority order.
package provider

import (
	"context"

	"github.com/okonar/birdwatch/internal/model"
	"github.com/okonar/birdwatch/internal/validate"
)

// maxRecentPosts bounds the batch of recent posts fetched per account.
const maxRecentPosts = 100

// Client is a single account-data source. Implementations swallow all
// internal failures (missing credential, timeout, non-2xx status,
// malformed payload, subprocess errors) and report them as a nil
// profile. Lookup never returns an error: "no data" is the only
// failure mode the resolver has to handle, which keeps fallback
// branch-free.
type Client interface {
	// Name identifies the source. It becomes the report's provenance
	// label when this client satisfies a request.
	Name() string

	// Lookup fetches and normalizes the profile and up to
	// maxRecentPosts recent posts for an already-validated handle.
	// A nil profile means this source has no data for the handle.
	Lookup(ctx context.Context, handle validate.Handle) (*model.AccountProfile, []model.Post)
}
