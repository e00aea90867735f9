// Package sqlite implements the ingestion ledger, the cursor store and
// the default document store on a single SQLite database.
//
// Keeping documents, chunks and the ledger in one database lets a
// document commit and its ledger transition to done happen in a single
// transaction, which is what makes per-document atomicity trivial here.
package sqlite
