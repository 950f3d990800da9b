// Package writers serializes the result table into the formats accepted by
// --formats and streams per-call diagnostics as JSON lines.
//
// Each format registers itself in init(); callers resolve names with
// ParseFormats and dispatch through Lookup. Wire shapes come from pkg/api.
package writers
