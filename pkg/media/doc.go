// Package media mints short-lived presigned URLs for gated course files.
// Signed URLs are generated fresh on every read, handed to the caller,
// and never written to storage; only the stable object key persists.
package media
