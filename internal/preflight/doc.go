// Package preflight validates filesystem access and service connectivity
// before a reconciliation pass mutates anything.
package preflight
