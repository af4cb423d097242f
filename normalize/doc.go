// Package normalize turns threat-intelligence records into a STIX 2.1 bundle
// by prompting a language model one batch at a time.
//
// A run moves through fixed stages:
//
//	load -> split -> (build request, generate, recover)* -> stamp -> assemble -> write
//
// Batches are processed sequentially and in input order. A batch whose model
// output cannot be recovered is recorded as a core.Failure, its raw text is
// saved as a failure artifact, and the run moves on. Indicators recovered from
// other batches are never discarded. Only boundary I/O errors, invalid
// configuration and context cancellation stop a run, and none of them leave a
// partial bundle file behind.
//
// Identity and timestamps are assigned after the last batch: every indicator
// in a run shares one millisecond timestamp and gets its own indicator id.
package normalize
