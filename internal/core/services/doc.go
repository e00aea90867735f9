// Package services contains the core business logic, orchestrating
// the driven ports to implement the driving ports. The ingestion
// orchestrator lives here: it pulls raw records from a source, fans
// them out to a worker pool, and funnels per-document outcomes into a
// run summary.
package services
