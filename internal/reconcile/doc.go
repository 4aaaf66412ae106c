// Package reconcile classifies every show from the configured inventory
// instances and drives stub files, media-server state, and the overlay
// document toward that classification. Decisions are recomputed from scratch
// each pass; the filesystem and the media server are treated as caches to
// converge, which makes a pass safe to repeat at any time.
package reconcile
