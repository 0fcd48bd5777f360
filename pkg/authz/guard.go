package authz

import (
	"context"
	"errors"
	"fmt"

	"github.com/opencourse/campus/pkg/identity"
	"github.com/opencourse/campus/pkg/observability"
	"github.com/opencourse/campus/pkg/profile"
)

// Denial reasons reported to callers and carried on redirects.
const (
	ReasonLoginRequired = "login_required"
	ReasonForbidden     = "forbidden"
	ReasonSuspended     = "suspended"
)

// Denial explains why access was refused and where the caller should be
// sent. It satisfies error so guard results flow through normal error
// handling.
type Denial struct {
	Reason     string
	RedirectTo string
}

func (d *Denial) Error() string {
	return fmt.Sprintf("access denied: %s", d.Reason)
}

// AsDenial unwraps err into a *Denial when the failure is an access
// decision rather than an infrastructure fault.
func AsDenial(err error) (*Denial, bool) {
	var d *Denial
	if errors.As(err, &d) {
		return d, true
	}
	return nil, false
}

// ProfileLoader fetches the stored profile for an identity.
type ProfileLoader interface {
	GetByID(ctx context.Context, id string) (*profile.Profile, error)
}

// Guard evaluates role requirements against the caller's stored profile.
// The stored role is the only source of truth; nothing from the request
// is trusted.
type Guard struct {
	profiles ProfileLoader
	logger   *observability.Logger
	metrics  *observability.Metrics
}

func NewGuard(profiles ProfileLoader, logger *observability.Logger, metrics *observability.Metrics) *Guard {
	return &Guard{profiles: profiles, logger: logger, metrics: metrics}
}

// Require loads the caller's profile and checks it clears minRole.
// A nil identity, a missing profile, or a suspended account all deny
// before any role comparison. Suspension is checked for every role,
// including admin.
func (g *Guard) Require(ctx context.Context, ident *identity.Identity, minRole profile.Role) (*profile.Profile, error) {
	if ident == nil {
		g.deny(ReasonLoginRequired)
		return nil, &Denial{Reason: ReasonLoginRequired, RedirectTo: "/login"}
	}

	prof, err := g.profiles.GetByID(ctx, ident.ID)
	if err != nil {
		// A failed lookup is indistinguishable from an unknown caller on
		// purpose: partial state never leaks to the client. The cause is
		// only visible server-side.
		if !errors.Is(err, profile.ErrNotFound) {
			g.logger.WithError(err).WithField("user_id", ident.ID).Error("profile lookup failed")
		}
		g.deny(ReasonLoginRequired)
		return nil, &Denial{Reason: ReasonLoginRequired, RedirectTo: "/login"}
	}

	if prof.Suspended() {
		if g.metrics != nil {
			g.metrics.SuspendedAttempts.Inc()
		}
		g.deny(ReasonSuspended)
		g.logger.WithField("user_id", prof.ID).Warn("suspended account attempted access")
		return nil, &Denial{Reason: ReasonSuspended, RedirectTo: "/login?reason=suspended"}
	}

	if !prof.Role.AtLeast(minRole) {
		g.deny(ReasonForbidden)
		return nil, &Denial{Reason: ReasonForbidden, RedirectTo: prof.Home()}
	}

	return prof, nil
}

func (g *Guard) deny(reason string) {
	if g.metrics != nil {
		g.metrics.AuthDenialsTotal.WithLabelValues(reason).Inc()
	}
}
