// Package capability routes source clips to execution engines.
//
// Classification is a pure lookup over fixed tables: RAW camera formats that
// Resolve can develop, the general set FFmpeg handles, RAW flavors with no
// safe decode path anywhere, and edition-gated RAW formats that need Resolve
// Studio. Anything outside the tables is rejected; unknown formats are never
// defaulted to an engine. The tables are process-wide constants and never
// change at runtime, so the same descriptor classifies identically across
// calls and across restarts.
package capability
