package service

// ExportedRunGuard lets the external test package exercise runGuard.
type ExportedRunGuard = runGuard
