// Package keyring stores document passwords in the OS keyring.
//
// Entries are keyed by the absolute path of the document, so moving a
// document means saving its password again.
package keyring

import (
	"errors"

	"github.com/zalando/go-keyring"
)

const serviceName = "jsonlock"

// ErrNotFound is returned when no password is stored for a document
var ErrNotFound = keyring.ErrNotFound

// SavePassword stores a password in the OS keyring
func SavePassword(documentPath string, password string) error {
	return keyring.Set(serviceName, documentPath, password)
}

// GetPassword retrieves a password from the OS keyring
func GetPassword(documentPath string) (string, error) {
	return keyring.Get(serviceName, documentPath)
}

// DeletePassword removes a password from the OS keyring
func DeletePassword(documentPath string) error {
	return keyring.Delete(serviceName, documentPath)
}

// HasPassword checks if a password is stored in the keyring
func HasPassword(documentPath string) bool {
	_, err := keyring.Get(serviceName, documentPath)
	return err == nil
}

// IsNotFound reports whether err means no entry exists
func IsNotFound(err error) bool {
	return errors.Is(err, keyring.ErrNotFound)
}
