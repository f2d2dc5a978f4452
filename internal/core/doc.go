// Package core provides the file-level jsonlock operations.
//
// Core operations include:
//   - EncryptFile / DecryptFile: Transform every leaf of a JSON document
//   - Rekey: Re-encrypt a document under a new password in one write
//   - VerifyPassword: Check a password against the first leaf only
//   - Diff: Compare an encrypted document with a plaintext one
//   - Status / Forget / Compact: Inspect and maintain the journal
//
// Every successful write is recorded in the journal (path, state, leaf
// count, content hash). The journal is advisory; a failure to update it
// is logged and never undoes a write.
package core
