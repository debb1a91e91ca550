// Package reconcile finds and removes upload files that no product image
// references any more.
//
// A run has three phases:
//
//  1. Scan: list the files directly inside /uploads and /uploads/thumbs.
//     Dotfiles, the .gitkeep marker and subdirectories are skipped.
//  2. Resolve: read the url column of every image row and normalize each
//     value to its path component, so https://cdn.example.com/uploads/x.png
//     and /uploads/x.png compare equal.
//  3. Reconcile: every scanned path that is not referenced is an orphan. In
//     dry-run mode the orphans are only reported. In confirm mode each one
//     is removed; a removal failure is recorded and the run continues.
//
// Scan and resolve run concurrently and must both succeed before anything is
// deleted. A failed reference query never turns into "nothing is
// referenced".
//
// Runs hold no locks. Overlapping confirm runs are safe because a file that
// is already gone is counted as missing, not as a failure.
package reconcile
