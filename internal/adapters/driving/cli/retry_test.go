package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/canlaw-labs/jurist-cli/internal/core/domain"
)

func TestRetryCmd_SingleDocument(t *testing.T) {
	ledger := &mockLedger{entries: []domain.LedgerEntry{
		{DocumentID: "doc-1", Status: domain.StatusFailed},
	}}
	cleanup := setupStatusTest(ledger)
	defer cleanup()

	buf, err := execute("retry", "doc-1")

	assert.NoError(t, err)
	assert.Equal(t, []string{"doc-1"}, ledger.retried)
	assert.Contains(t, buf.String(), "Document doc-1 queued")
}

func TestRetryCmd_UnknownDocument(t *testing.T) {
	cleanup := setupStatusTest(&mockLedger{})
	defer cleanup()

	_, err := execute("retry", "missing")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRetryCmd_NoArgRetriesAllFailed(t *testing.T) {
	ledger := &mockLedger{entries: []domain.LedgerEntry{
		{DocumentID: "doc-1", Status: domain.StatusFailed},
		{DocumentID: "doc-2", Status: domain.StatusDone},
		{DocumentID: "doc-3", Status: domain.StatusFailed},
	}}
	cleanup := setupStatusTest(ledger)
	defer cleanup()

	buf, err := execute("retry")

	assert.NoError(t, err)
	assert.ElementsMatch(t, []string{"doc-1", "doc-3"}, ledger.retried)
	assert.Contains(t, buf.String(), "2 documents queued")
}
