// Package storage provides the BBolt journal for jsonlock.
//
// The journal remembers what jsonlock last did to each document so that
// status can be shown without a password and an already encrypted document
// is not encrypted a second time by accident.
//
// Database structure uses two buckets:
//   - config: format version and timestamps
//   - documents: absolute document path -> JSON entry (state, value count,
//     SHA-256 of the file as written, time of the operation)
//
// The journal never holds passwords, keys, plaintext or envelopes.
//
// BBolt provides ACID transactions, file locking, and corruption detection.
package storage
