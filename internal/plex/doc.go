// Package plex mirrors reconciliation decisions into a Plex server.
//
// Client is a thin JSON wrapper over the handful of endpoints the
// synchronizer needs: section listing, show search, leaf episodes, label
// edits, and scrobbling. Synchronizer holds the actual protocol: match a
// show by typed external identifier (never by title alone), apply the
// marker label idempotently, and mark exactly the stub-suffixed episode
// watched. Shows the server has not scanned yet surface as the typed
// ErrNotInCatalog result rather than a hard failure.
package plex
