package profile

import (
	"context"
	"fmt"

	"github.com/opencourse/campus/pkg/identity"
	"github.com/opencourse/campus/pkg/observability"
)

// Reconciler completes the once-per-identity profile reconciliation after an
// external sign-in. Repeating it for the same identity never creates a second
// profile and never changes role or status.
type Reconciler struct {
	store   *Store
	logger  *observability.Logger
	metrics *observability.Metrics
}

// NewReconciler creates a reconciler over the profile store. Metrics may be
// nil in tests.
func NewReconciler(store *Store, logger *observability.Logger, metrics *observability.Metrics) *Reconciler {
	return &Reconciler{
		store:   store,
		logger:  logger,
		metrics: metrics,
	}
}

// Reconcile creates or refreshes the profile for a just-authenticated
// identity. New profiles get the lowest-privilege role; existing profiles get
// only an email and timestamp refresh.
func (r *Reconciler) Reconcile(ctx context.Context, ident *identity.Identity) (*Profile, error) {
	if ident == nil || ident.ID == "" {
		return nil, fmt.Errorf("cannot reconcile empty identity")
	}

	prof, created, err := r.store.Upsert(ctx, ident.ID, ident.Email)
	if err != nil {
		if r.metrics != nil {
			r.metrics.ReconciliationErrorsTotal.Inc()
		}
		return nil, fmt.Errorf("profile reconciliation failed: %w", err)
	}

	if created {
		if r.metrics != nil {
			r.metrics.ProfilesCreatedTotal.Inc()
		}
		r.logger.WithField("user_id", prof.ID).Info("profile created on first sign-in")
	}

	return prof, nil
}
