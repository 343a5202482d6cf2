// Package preflight provides readiness checks for the filesystem paths that
// vidscribe writes into.
//
// These checks run in two contexts:
//   - serverrun logs a warning for each failed check at startup, before any
//     client connects, so permission problems surface before a long download.
//   - The "vidscribe deps" command renders every result next to the tool and
//     model report.
package preflight
