// Package layout reconstructs reading-order paragraphs and multi-column
// structure from a flat bag of positioned text fragments.
//
// The pipeline is a fixed sequence of detectors wired by the [Detector]
// orchestrator:
//
//   - [StripDetector] sweeps the page in thin horizontal bands and clusters
//     the whitespace gaps it exposes into vertical strips, the candidate
//     column gutters, each scored with a confidence in [0,1].
//   - [RegionDetector] independently segments the page vertically into spans
//     of constant column count, guarding merges across layout transitions.
//   - [GridDetector] finds page-wide horizontal gutters from a projection
//     profile; the orchestrator models them as high-confidence bands.
//   - [Merger] runs the multi-stage paragraph state machine: initial
//     grouping, strip-based splitting, stacked merging, an iterative
//     nested/overlap merge loop run to a bounded fixed point, inline run
//     stitching and deduplication.
//
// Everything is synchronous, pure with respect to its inputs, and total:
// degenerate input produces well-defined fallback output, never an error.
// One [Config] value, immutable for the duration of a call, carries every
// tunable. Setting Config.ForceLinear selects the linear merge policy, which
// bypasses all column and band awareness in favor of pure vertical-proximity
// concatenation.
package layout
