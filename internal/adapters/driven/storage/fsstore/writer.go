// Package fsstore persists committed documents as a directory tree on
// local disk, one directory per document. It is the storage backend
// for deployments that want the corpus browsable as plain files
// instead of rows in SQLite.
//
// Atomicity per document comes from the rename: content is staged
// under a temporary directory and moved into place in one step, so a
// crash mid-write never leaves a partially visible chunk set.
package fsstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/canlaw-labs/jurist-cli/internal/core/domain"
	"github.com/canlaw-labs/jurist-cli/internal/core/ports/driven"
)

const (
	documentFile = "document.json"
	chunksFile   = "chunks.json"
	stagingDir   = ".staging"
)

var (
	_ driven.CommitWriter   = (*Writer)(nil)
	_ driven.DocumentReader = (*Writer)(nil)
)

// Writer implements driven.CommitWriter on a filesystem tree.
type Writer struct {
	root   string
	ledger driven.Ledger
}

// NewWriter creates a filesystem writer rooted at the given directory.
// The ledger is updated to done after each successful rename.
func NewWriter(root string, ledger driven.Ledger) (*Writer, error) {
	if root == "" {
		return nil, fmt.Errorf("%w: fsstore root is empty", domain.ErrInvalidInput)
	}
	if err := os.MkdirAll(filepath.Join(root, stagingDir), 0700); err != nil {
		return nil, fmt.Errorf("creating storage root: %w", err)
	}
	return &Writer{root: root, ledger: ledger}, nil
}

// Commit stages the document and chunk files, renames the staged
// directory into place, then marks the ledger entry done. A failure at
// any point before the rename leaves the previous version untouched.
func (w *Writer) Commit(ctx context.Context, doc *domain.Document, chunks []domain.Chunk) error {
	staged := filepath.Join(w.root, stagingDir, doc.ID+"-"+uuid.New().String())
	if err := w.stage(staged, doc, chunks); err != nil {
		os.RemoveAll(staged)
		return fmt.Errorf("%w: staging %s: %v", domain.ErrWriterFailure, doc.ID, err)
	}

	final := filepath.Join(w.root, doc.ID)
	previous := staged + ".previous"

	// An existing version moves aside first; rename cannot replace a
	// non-empty directory.
	hadPrevious := false
	if _, err := os.Stat(final); err == nil {
		if err := os.Rename(final, previous); err != nil {
			os.RemoveAll(staged)
			return fmt.Errorf("%w: displacing old version of %s: %v", domain.ErrWriterFailure, doc.ID, err)
		}
		hadPrevious = true
	}

	if err := os.Rename(staged, final); err != nil {
		// Put the old version back so the store stays consistent.
		if hadPrevious {
			os.Rename(previous, final)
		}
		os.RemoveAll(staged)
		return fmt.Errorf("%w: publishing %s: %v", domain.ErrWriterFailure, doc.ID, err)
	}
	if hadPrevious {
		os.RemoveAll(previous)
	}

	if err := w.ledger.Record(ctx, domain.LedgerEntry{
		DocumentID:  doc.ID,
		ContentHash: doc.ContentHash,
		Status:      domain.StatusDone,
	}); err != nil {
		return fmt.Errorf("%w: recording ledger for %s: %v", domain.ErrWriterFailure, doc.ID, err)
	}
	return nil
}

// stage writes the document and chunk files under a temporary path.
func (w *Writer) stage(dir string, doc *domain.Document, chunks []domain.Chunk) error {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}
	if err := writeJSON(filepath.Join(dir, documentFile), doc); err != nil {
		return err
	}
	// An empty chunk slice still writes a file, so readers can tell
	// "empty document" from "not yet committed".
	if chunks == nil {
		chunks = []domain.Chunk{}
	}
	return writeJSON(filepath.Join(dir, chunksFile), chunks)
}

// GetDocument reads a committed document back from disk.
func (w *Writer) GetDocument(_ context.Context, id string) (*domain.Document, error) {
	var doc domain.Document
	if err := readJSON(filepath.Join(w.root, id, documentFile), &doc); err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &doc, nil
}

// GetChunks reads the committed chunks for a document.
func (w *Writer) GetChunks(_ context.Context, documentID string) ([]domain.Chunk, error) {
	var chunks []domain.Chunk
	if err := readJSON(filepath.Join(w.root, documentID, chunksFile), &chunks); err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return chunks, nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}
