// Package logging wraps log/slog with shuttle's conventions: a console
// handler for interactive use, a JSON handler for machine consumption, and
// standardized attribute keys so job and clip identifiers are queryable
// across every component.
package logging
