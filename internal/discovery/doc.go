// SPDX-License-Identifier: MPL-2.0

// Package discovery runs the registered environment strategies and merges
// their findings into one result.
//
// Two kinds of work feed the result. Every strategy's Enumerate scans the
// locations its family knows about, and every candidate interpreter found
// under the search roots or on the executable search path is offered to the
// strategies in registration order until one classifies it. Both run
// concurrently; the accumulator is the only shared state.
//
// Environments are de-duplicated by identity key (normalized executable,
// else normalized prefix). When two reports share a key, the one from the
// earlier-registered strategy wins; at equal rank enumeration beats
// classification.
//
// File organization:
//   - discovery.go: Discovery, options, and the concurrent run
//   - candidates.go: search-root expansion and candidate collection
//   - accumulator.go: precedence-ordered, mutex-guarded result merging
//   - diagnostic.go: structured non-fatal diagnostics
package discovery
