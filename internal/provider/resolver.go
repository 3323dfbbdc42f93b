package provider

import (
	"context"

	"go.uber.org/zap"

	"github.com/okonar/birdwatch/internal/model"
	"github.com/okonar/birdwatch/internal/validate"
	"github.com/okonar/birdwatch/internal/worker"
)

// Resolver tries providers sequentially in fixed priority order and
// stops at the first one that yields a profile. Attempts are sequential
// on purpose: the point of fallback is to avoid the cost of the second
// source whenever the first one answers.
type Resolver struct {
	clients []Client
	limiter *worker.Limiter
	logger  *zap.Logger
}

// NewResolver creates a resolver over the given clients, ordered by
// priority. The limiter is optional.
func NewResolver(clients []Client, limiter *worker.Limiter, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		clients: clients,
		limiter: limiter,
		logger:  logger,
	}
}

// Resolve returns the normalized profile, up to 100 recent posts, and
// the label of the source that satisfied the request. When every
// provider comes up empty it returns (nil, nil, ""), which the caller
// surfaces as not-found.
func (r *Resolver) Resolve(ctx context.Context, handle validate.Handle) (*model.AccountProfile, []model.Post, string) {
	for _, client := range r.clients {
		if r.limiter != nil {
			if err := r.limiter.Wait(ctx, client.Name()); err != nil {
				r.logger.Debug("resolve aborted", zap.String("handle", handle.String()), zap.Error(err))
				return nil, nil, ""
			}
		}

		r.logger.Debug("attempting provider",
			zap.String("handle", handle.String()),
			zap.String("provider", client.Name()))

		profile, posts := client.Lookup(ctx, handle)
		if profile == nil {
			r.logger.Debug("provider returned no data, falling back",
				zap.String("handle", handle.String()),
				zap.String("provider", client.Name()))
			continue
		}

		if len(posts) > maxRecentPosts {
			posts = posts[:maxRecentPosts]
		}
		return profile, posts, client.Name()
	}

	return nil, nil, ""
}
