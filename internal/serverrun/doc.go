// Package serverrun wires configuration into a running protocol server: it
// builds the per-session component graph, sweeps stale scratch directories,
// and starts the configured transport until the process is signalled.
package serverrun
