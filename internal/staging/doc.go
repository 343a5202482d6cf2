// Package staging manages per-run scratch directories.
//
// Downloads and intermediate audio live in a Workspace that is removed when
// the run ends. CleanStale sweeps workspaces orphaned by killed processes.
package staging
