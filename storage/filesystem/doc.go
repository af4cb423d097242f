// Package filesystem implements storage.Workspace on the local filesystem.
//
// Bundles are written atomically: the content goes to a temporary file in the
// destination directory, which is synced and renamed over the target. A failed
// write leaves no partial file behind. Failure artifacts use the same path, so
// a rerun in the same directory replaces the artifact an earlier run left.
package filesystem
