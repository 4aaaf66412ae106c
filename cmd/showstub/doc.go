// Command showstub reconciles serialized shows across Sonarr, the library
// filesystem, and Plex: placeholder episodes for shows awaiting their next
// season, cleanup when real media lands or a show ends, and a Kometa overlay
// file marking everything still in the waiting set.
package main
