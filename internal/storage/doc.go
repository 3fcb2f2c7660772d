// Package storage keeps an optional append-only history of alert attempts.
//
// The history is for operators only. It is never read back into the dedup
// ledger, so a restart still starts from an empty ledger.
package storage
