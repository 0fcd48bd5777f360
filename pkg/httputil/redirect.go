package httputil

import (
	"net/http"
	"net/url"
)

// Redirect reason parameters attached to the redirect target. Every failed
// transition in the authorization flow lands on a fixed terminal carrying one
// of these, never on the resource the caller asked for.
const (
	ReasonParam  = "reason"
	ErrorParam   = "error"
	SuccessParam = "success"
)

// RedirectWithReason sends a 303 redirect to target with a machine-readable
// reason query parameter (e.g. "login_required", "suspended").
func RedirectWithReason(w http.ResponseWriter, r *http.Request, target, reason string) {
	RedirectWithParam(w, r, target, ReasonParam, reason)
}

// RedirectWithError sends a 303 redirect to target with a human-readable
// error message query parameter. Used to surface upstream failures without
// leaking stack traces.
func RedirectWithError(w http.ResponseWriter, r *http.Request, target, message string) {
	RedirectWithParam(w, r, target, ErrorParam, message)
}

// RedirectWithSuccess sends a 303 redirect to target with a success message
func RedirectWithSuccess(w http.ResponseWriter, r *http.Request, target, message string) {
	RedirectWithParam(w, r, target, SuccessParam, message)
}

// RedirectWithParam sends a 303 redirect with one query parameter appended.
// Existing query parameters on target are preserved.
func RedirectWithParam(w http.ResponseWriter, r *http.Request, target, key, value string) {
	u, err := url.Parse(target)
	if err != nil {
		// A malformed internal redirect target is a programming error; fall
		// back to the bare target rather than failing the response.
		http.Redirect(w, r, target, http.StatusSeeOther)
		return
	}
	q := u.Query()
	q.Set(key, value)
	u.RawQuery = q.Encode()
	http.Redirect(w, r, u.String(), http.StatusSeeOther)
}

// Redirect sends a plain 303 redirect
func Redirect(w http.ResponseWriter, r *http.Request, target string) {
	http.Redirect(w, r, target, http.StatusSeeOther)
}
