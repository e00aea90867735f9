// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - RecordSource: Streams raw records from an upstream corpus
//   - SourceFactory: Creates record sources from configuration
//   - Ledger: Per-document ingestion bookkeeping
//   - CommitWriter: Atomic per-document persistence
//   - CursorStore: Persisted stream position per source
package driven
