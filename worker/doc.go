// Package worker provides parallel validation of many dataset files.
//
// Two entry points are offered:
//   - Pool: a long-lived worker pool consuming Jobs from a channel,
//     suitable for services that validate files as they arrive.
//   - BatchValidator: one-shot bounded-concurrency validation of a
//     fixed list of files, preserving input order.
package worker
