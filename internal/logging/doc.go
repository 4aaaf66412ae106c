// Package logging builds the slog loggers used across showstub.
//
// Two handlers are provided: a console handler that flattens attribute
// groups into "k=v" pairs and pulls a "component" attribute into the line
// prefix, and a JSON handler for scheduled runs. Format "auto" picks between
// them based on whether output is a terminal. NewFromConfig additionally
// tees output to showstub.log under the configured log directory.
package logging
