// Package sonarr is the inventory source adapter for Sonarr v3 instances.
//
// A Client exposes exactly the two capabilities the reconciler needs:
// listing the series inventory (optionally narrowed to a tag label) and
// enforcing the media-management settings the stub workflow depends on.
// Everything else in the Sonarr API is out of scope.
package sonarr
