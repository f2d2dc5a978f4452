// Package crypto provides the value-level cryptography for jsonlock.
//
// Every scalar is encrypted independently with AES-256-GCM:
//   - 32-byte key derived from the password via Argon2id
//   - fresh 16-byte random salt per value, so every value has its own key
//   - fresh 12-byte random nonce per value
//   - no associated data
//
// Key derivation uses Argon2id with 8 lanes, 64 MiB of memory and 4 passes.
// The parameters are not stored anywhere; encrypt and decrypt must agree on them.
//
// Envelope layout (Base64, standard alphabet, padded):
//
//	salt(16) | nonce(12) | tag(16) | ciphertext(N)
//
// The envelope carries no version byte and is not bound to the location of
// the value inside the document. An envelope copied from one field into
// another field decrypts without error.
//
// Callers encrypt the JSON literal of a value (strings keep their quotes),
// so envelopes holding bare text from other tools are not interchangeable:
// such plaintext decrypts as a string, or as a number or boolean when the
// bare text happens to be a valid literal.
//
// Memory safety:
//   - derived keys are zeroed before every Encrypt/Decrypt call returns
//   - use ClearBytes() to zero passwords read from the terminal
package crypto
