// Package reconciliationengine implements the vote & submitter
// reconciliation engine inside the legislation context.
//
// The module owns the Bronze-to-Gold promotion pipeline: classifying raw
// submitter strings, matching extracted group judgments to canonical groups,
// expanding group judgments into per-politician rows through time-bounded
// membership, reconciling authoritative roll-call votes with defection
// detection, and deduplicating bulk proposal imports. Business rules live in
// application/domain layers; infrastructure stays behind ports and adapters.
package reconciliationengine
