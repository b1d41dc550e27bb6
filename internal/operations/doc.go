// Package operations orchestrates one pipeline run per patient
// dataset: parse, aggregate, anonymize, pivot, categorize, reconcile,
// assemble. Each run owns an explicit RunState; nothing survives a run
// in process-wide state, so runs for different patients can execute
// concurrently.
package operations
