// Package git provides git integration status checks for jsonlock.
//
// Checks performed for each decrypted document:
//   - Whether it is tracked by git (it should not be)
//   - Whether it is in .gitignore (it should be)
//
// Encrypted documents are safe to commit and are not checked.
// These checks help users avoid accidentally committing plaintext secrets.
package git
