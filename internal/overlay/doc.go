// Package overlay resolves presentation styles and writes the Kometa
// overlay file for shows waiting on new episodes. Style resolution layers
// optional file-based overrides on built-in defaults with null meaning
// "inherit"; emission always writes a document, with an explicitly empty id
// list when nothing qualifies, so stale overlays are retracted.
package overlay
