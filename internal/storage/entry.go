package storage

import (
	"time"
)

// State is what jsonlock last did to a document.
type State string

const (
	StateEncrypted State = "encrypted"
	StateDecrypted State = "decrypted"
)

// Entry is the journal record for one document
type Entry struct {
	Path    string    `json:"path"`
	State   State     `json:"state"`
	Leaves  int       `json:"leaves"`
	Size    int64     `json:"size"`
	Hash    string    `json:"hash"`
	Updated time.Time `json:"updated"`
}

// NewEntry creates an entry stamped with the current time
func NewEntry(path string, state State, leaves int, size int64, hash string) Entry {
	if size < 0 {
		size = 0
	}
	return Entry{
		Path:    path,
		State:   state,
		Leaves:  leaves,
		Size:    size,
		Hash:    hash,
		Updated: time.Now(),
	}
}
