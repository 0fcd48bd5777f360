// Package authz decides whether a resolved identity may perform an
// operation. It covers two layers: role gating (student < instructor <
// admin, with suspension checked before any role comparison) and
// ownership checks for instructor-scoped mutations, where admins bypass
// ownership and callers cannot distinguish a missing record from one
// they do not own.
package authz
