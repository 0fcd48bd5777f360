package media

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/opencourse/campus/pkg/course"
	"github.com/opencourse/campus/pkg/observability"
)

// concurrent presign requests per resolve call
const maxSignConcurrency = 8

// GatedResource is a course resource prepared for one caller. Link
// resources carry their stored URL; file resources carry a fresh signed
// URL or are marked Unavailable when signing failed.
type GatedResource struct {
	ID          string
	Type        course.ResourceType
	Title       string
	URL         string
	ExpiresAt   time.Time
	Unavailable bool
}

// Resolver turns stored resources into caller-facing ones, signing file
// keys concurrently. One failed signature degrades that item only; the
// rest of the list is still served.
type Resolver struct {
	signer  *Signer
	logger  *observability.Logger
	metrics *observability.Metrics
}

func NewResolver(signer *Signer, logger *observability.Logger, metrics *observability.Metrics) *Resolver {
	return &Resolver{signer: signer, logger: logger, metrics: metrics}
}

// Resolve signs every file resource in the list and passes link
// resources through. Order is preserved. The returned slice is complete
// even when some items are unavailable; only a cancelled context aborts
// the whole resolve.
func (r *Resolver) Resolve(ctx context.Context, resources []*course.Resource) ([]*GatedResource, error) {
	out := make([]*GatedResource, len(resources))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxSignConcurrency)

	for i, res := range resources {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out[i] = r.resolveOne(ctx, res)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Resolver) resolveOne(ctx context.Context, res *course.Resource) *GatedResource {
	gated := &GatedResource{
		ID:    res.ID,
		Type:  res.Type,
		Title: res.Title,
	}

	if res.Type == course.ResourceLink {
		gated.URL = res.URL.String
		return gated
	}

	if !res.FilePath.Valid || res.FilePath.String == "" {
		gated.Unavailable = true
		return gated
	}

	url, expiresAt, err := r.signer.IssueTimedAccessURL(ctx, res.FilePath.String)
	if err != nil {
		if r.metrics != nil {
			r.metrics.SignedURLErrorsTotal.Inc()
		}
		r.logger.WithError(err).WithField("resource_id", res.ID).Warn("failed to sign resource URL")
		gated.Unavailable = true
		return gated
	}

	if r.metrics != nil {
		r.metrics.SignedURLsIssuedTotal.Inc()
	}
	gated.URL = url
	gated.ExpiresAt = expiresAt
	return gated
}
