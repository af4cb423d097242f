// Package evaluate inspects bundles produced by conversion runs.
//
// Two checks are provided, each applied to every *.json file in a directory:
//   - Evaluate compares indicator patterns against the values of a source
//     file and reports matched, missing, repeated and unexpected entries
//   - Validate checks the structure of each bundle and lists every problem found
//
// Files are read and inspected concurrently using a worker pool. Results are
// always returned sorted by file name.
package evaluate
