// Package domain defines the core business entities for Jurist.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - RawRecord: A record as fetched from an upstream corpus source
//   - Document: The canonical normalised legal document
//   - Chunk: A bounded text segment of a Document, the unit of indexing
//   - LedgerEntry: Per-document ingestion bookkeeping
//   - SourceConfig: A configured upstream corpus source
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
package domain
