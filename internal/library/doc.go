// Package library inspects and mutates show directories under the media
// root.
//
// HasRealMedia is the presence detector: it answers whether a show has any
// real (non-stub) video file on disk. Manager owns the placeholder
// lifecycle: deterministic stub naming, idempotent creation from a template
// or synthetic payload, suffix-matched cleanup, and the .plexmatch
// identification sidecar. All operations tolerate missing directories so a
// pass can act on shows Sonarr knows about before anything exists on disk.
package library
