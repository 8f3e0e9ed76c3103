// Package diagnostic provides coded diagnostics and the error kinds used by
// the asset registry generator.
//
// Key capabilities:
//   - Collect manifest problems (missing keys, bad scales, unknown bases)
//     and report them together instead of failing on the first one
//   - Classify fatal errors as configuration, I/O or probe errors
package diagnostic
