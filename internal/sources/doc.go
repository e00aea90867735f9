// Package sources provides the record source factory and the record
// decoding shared by source implementations.
//
// Concrete sources live in subpackages:
//
//   - huggingface: pages the Hugging Face datasets-server rows API
//   - jsonl: reads newline-delimited JSON files on local disk
//   - statutexml: parses consolidated statutes in justice.gc.ca XML
package sources
