package domain

import "time"

// SourceConfig describes one configured upstream corpus source.
type SourceConfig struct {
	// ID is the unique identifier for the source (e.g., "fc", "scc").
	ID string

	// Type identifies the source reader type ("huggingface", "jsonl").
	Type string

	// Jurisdiction is assigned to every document produced by this
	// source.
	Jurisdiction Jurisdiction

	// Dataset is the upstream dataset name
	// (e.g., "refugee-law-lab/canadian-legal-data").
	Dataset string

	// Config is the dataset configuration name (e.g., "FC", "SCC").
	Config string

	// Split is the dataset split (e.g., "train").
	Split string

	// Path is the local file path for file-backed sources.
	Path string
}

// CursorState tracks the persisted read position for a source, so a
// re-run resumes where the last one stopped instead of relying on
// ambient process state.
type CursorState struct {
	// SourceID links to the SourceConfig.
	SourceID string

	// Cursor is an opaque position marker into the upstream stream.
	Cursor string

	// UpdatedAt is when the cursor was last advanced.
	UpdatedAt time.Time
}
