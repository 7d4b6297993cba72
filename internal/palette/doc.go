// Package palette resolves palette declarations into token colors.
//
// Resolution runs in two passes. BuildTable first collects every custom
// property ("--name") into a lookup table, so declaration order does not
// matter for var() references. Resolve then evaluates each token's
// expression: var() with fallbacks, color-mix(), derived shifts and ramps.
//
// Unresolvable colors are reported through a diag.Collector. In lenient mode
// the token becomes opaque magenta; in strict mode Resolve fails.
package palette
