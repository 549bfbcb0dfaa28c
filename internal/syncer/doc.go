// Package syncer drives reconciliation: per article, classify against the
// live discussion list and the database, act on the remote stores, and
// write the new row id back into the local file when a row was created.
//
// The batch runner fans the orchestrator out across all articles
// concurrently. Failures are isolated per article: one article's parse or
// store error never cancels or blocks a sibling, and every dispatched
// article runs to completion before the run concludes. The run result
// only records whether any article failed; the caller maps that to the
// process exit status.
//
// Nothing in this package retries. Idempotence (the checksum-based
// classifier plus in-place row updates) is what makes manual re-runs
// after a failure safe.
package syncer
