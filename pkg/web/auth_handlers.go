package web

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/opencourse/campus/pkg/httputil"
	"github.com/opencourse/campus/pkg/identity"
)

// stateCookie carries the OAuth state nonce across the round trip to the
// provider.
const stateCookie = "campus-auth-state"

// handleLogin is the anonymous landing point for bounced requests. It
// reports why the caller landed here and where to start a sign-in.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	resp := map[string]string{
		"sign_in": "/auth/sign-in",
	}
	if reason := r.URL.Query().Get(httputil.ReasonParam); reason != "" {
		resp["reason"] = reason
	}
	if msg := r.URL.Query().Get(httputil.ErrorParam); msg != "" {
		resp["error"] = msg
	}
	httputil.WriteSuccess(w, resp)
}

// handleSignInRedirect starts the authorization code flow.
func (s *Server) handleSignInRedirect(w http.ResponseWriter, r *http.Request) {
	state := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/",
		MaxAge:   600,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, s.bridge.AuthCodeURL(state), http.StatusSeeOther)
}

// handleCallback completes the sign-in: it exchanges the code, reconciles
// the profile, and sends the caller to their role home. The session
// cookies and the redirect ride the same response; there is no second
// round trip on which they could diverge.
func (s *Server) handleCallback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		httputil.RedirectWithError(w, r, "/login", "missing authorization code")
		return
	}

	if state := r.URL.Query().Get("state"); state != "" {
		cookie, err := r.Cookie(stateCookie)
		if err != nil || cookie.Value != state {
			httputil.RedirectWithError(w, r, "/login", "state mismatch")
			return
		}
	}

	ident, mutations, err := s.bridge.Establish(r.Context(), code)
	if err != nil {
		s.logger.WithError(err).Warn("code exchange failed")
		httputil.RedirectWithError(w, r, "/login", "sign-in failed")
		return
	}

	prof, err := s.reconciler.Reconcile(r.Context(), ident)
	if err != nil {
		s.logger.WithError(err).Error("profile reconciliation failed")
		httputil.RedirectWithError(w, r, "/login", "sign-in failed")
		return
	}

	// Expire the state nonce now that the round trip is complete.
	http.SetCookie(w, &http.Cookie{Name: stateCookie, Value: "", Path: "/", MaxAge: -1})
	identity.ApplyCookies(w, mutations)
	httputil.Redirect(w, r, prof.Home())
}

// handlePasswordSignIn forwards form credentials to the provider.
// Failures redirect back to the login page with an error message rather
// than a bare status code.
func (s *Server) handlePasswordSignIn(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		httputil.RedirectWithError(w, r, "/login", "invalid form")
		return
	}
	email := r.PostFormValue("email")
	password := r.PostFormValue("password")
	if email == "" || password == "" {
		httputil.RedirectWithError(w, r, "/login", "email and password are required")
		return
	}

	ident, mutations, err := s.bridge.EstablishWithPassword(r.Context(), email, password)
	if err != nil {
		s.recordSignIn("failure")
		s.logger.WithError(err).Debug("password sign-in failed")
		httputil.RedirectWithError(w, r, "/login", "invalid credentials")
		return
	}

	prof, err := s.reconciler.Reconcile(r.Context(), ident)
	if err != nil {
		s.recordSignIn("failure")
		s.logger.WithError(err).Error("profile reconciliation failed")
		httputil.RedirectWithError(w, r, "/login", "sign-in failed")
		return
	}

	s.recordSignIn("success")
	identity.ApplyCookies(w, mutations)
	httputil.Redirect(w, r, prof.Home())
}

// handleSignOut clears the session locally regardless of whether the
// provider acknowledged the revocation.
func (s *Server) handleSignOut(w http.ResponseWriter, r *http.Request) {
	mutations := s.bridge.SignOut(r.Context(), identity.Snapshot(r))
	identity.ApplyCookies(w, mutations)
	httputil.Redirect(w, r, "/login")
}

func (s *Server) recordSignIn(outcome string) {
	if s.metrics != nil {
		s.metrics.SignInsTotal.WithLabelValues(outcome).Inc()
	}
}
