package core

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/illarion/jsonlock/internal/crypto"
	"github.com/illarion/jsonlock/internal/document"
	"github.com/illarion/jsonlock/internal/git"
	"github.com/illarion/jsonlock/internal/jsontree"
	"github.com/illarion/jsonlock/internal/logging"
	"github.com/illarion/jsonlock/internal/storage"
)

const (
	PasswordEnv = "JSONLOCK_PASSWORD"
	JournalEnv  = "JSONLOCK_JOURNAL"
)

var (
	ErrAlreadyEncrypted = errors.New("document already encrypted")
	ErrNoJournal        = errors.New("journal disabled")
	ErrPasswordRequired = errors.New("password required")
	ErrPasswordMismatch = errors.New("passwords do not match")
)

// JSONLock encrypts and decrypts JSON documents on disk
type JSONLock struct {
	cipher      *crypto.ValueCipher
	journalPath string
	log         *logging.Logger
}

type settings struct {
	cipherOpts  []crypto.Option
	journalPath string
	noJournal   bool
	log         *logging.Logger
}

// Option configures a JSONLock
type Option func(*settings)

// WithCipherParams overrides the Argon2id parameters. Documents encrypted
// with non-default parameters can only be decrypted with the same ones.
func WithCipherParams(p crypto.Params) Option {
	return func(s *settings) {
		s.cipherOpts = append(s.cipherOpts, crypto.WithParams(p))
	}
}

// WithJournal stores the journal at path instead of the default location
func WithJournal(path string) Option {
	return func(s *settings) {
		s.journalPath = path
		s.noJournal = false
	}
}

// WithoutJournal disables the journal
func WithoutJournal() Option {
	return func(s *settings) {
		s.noJournal = true
	}
}

// WithLogger sets the logger used for progress and warnings
func WithLogger(l *logging.Logger) Option {
	return func(s *settings) {
		s.log = l
	}
}

// New creates a JSONLock. Without WithJournal the journal lives under the
// user config directory; if that cannot be located the journal is disabled.
func New(opts ...Option) (*JSONLock, error) {
	s := settings{}
	for _, opt := range opts {
		opt(&s)
	}
	if s.log == nil {
		s.log = logging.Discard()
	}

	c, err := crypto.NewValueCipher(s.cipherOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	journalPath := ""
	if !s.noJournal {
		journalPath = s.journalPath
		if journalPath == "" {
			if p, err := storage.DefaultPath(); err == nil {
				journalPath = p
			} else {
				s.log.Debugf("journal disabled: %v", err)
			}
		}
	}

	return &JSONLock{
		cipher:      c,
		journalPath: journalPath,
		log:         s.log,
	}, nil
}

// JournalPath returns the journal location, or "" when it is disabled
func (j *JSONLock) JournalPath() string {
	return j.journalPath
}

// EncryptOptions controls EncryptFile
type EncryptOptions struct {
	Force  bool   // encrypt even if the journal says the file is already encrypted
	DryRun bool   // transform in memory only
	Output string // write here instead of replacing the source
}

// DecryptOptions controls DecryptFile
type DecryptOptions struct {
	DryRun bool
	Output string
}

// Result describes a completed transform
type Result struct {
	Path    string // absolute path of the source document
	Output  string // absolute path of the written (or would-be) document
	Leaves  int
	Written bool
	Data    []byte // the transformed document
}

// EncryptFile encrypts every leaf of the document at path
func (j *JSONLock) EncryptFile(ctx context.Context, path, password string, opts EncryptOptions) (*Result, error) {
	if err := crypto.CheckPassword(password); err != nil {
		return nil, err
	}

	doc, err := document.Open(path)
	if err != nil {
		return nil, err
	}
	defer doc.Close()

	data, err := doc.Read()
	if err != nil {
		return nil, err
	}

	if !opts.Force {
		entry, err := j.journalEntry(doc.Path())
		if err != nil {
			j.log.Warnf("cannot read journal: %v", err)
		}
		if entry != nil && entry.State == storage.StateEncrypted && entry.Hash == document.Hash(data) {
			return nil, fmt.Errorf("%w: %s", ErrAlreadyEncrypted, doc.Path())
		}
	}

	root, err := jsontree.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", doc.Path(), err)
	}

	out, err := j.transformer().Transform(ctx, root, password, jsontree.Encrypt)
	if err != nil {
		return nil, err
	}

	return j.finish(doc, opts.Output, opts.DryRun, out, storage.StateEncrypted)
}

// DecryptFile decrypts every leaf of the document at path
func (j *JSONLock) DecryptFile(ctx context.Context, path, password string, opts DecryptOptions) (*Result, error) {
	if err := crypto.CheckPassword(password); err != nil {
		return nil, err
	}

	doc, err := document.Open(path)
	if err != nil {
		return nil, err
	}
	defer doc.Close()

	root, err := readTree(doc)
	if err != nil {
		return nil, err
	}

	out, err := j.transformer().Transform(ctx, root, password, jsontree.Decrypt)
	if err != nil {
		return nil, err
	}

	result, err := j.finish(doc, opts.Output, opts.DryRun, out, storage.StateDecrypted)
	if err != nil {
		return nil, err
	}
	if result.Written && git.IsTrackedDocument(result.Output) {
		j.log.Warnf("%s is tracked by git; encrypt it again before committing", result.Output)
	}
	return result, nil
}

// Rekey re-encrypts the document at path under newPassword. The document
// is decrypted in memory and written once, so a wrong old password leaves
// it untouched.
func (j *JSONLock) Rekey(ctx context.Context, path, oldPassword, newPassword string) (*Result, error) {
	if err := crypto.CheckPassword(oldPassword); err != nil {
		return nil, err
	}
	if err := crypto.CheckPassword(newPassword); err != nil {
		return nil, err
	}

	doc, err := document.Open(path)
	if err != nil {
		return nil, err
	}
	defer doc.Close()

	root, err := readTree(doc)
	if err != nil {
		return nil, err
	}

	t := j.transformer()
	plain, err := t.Transform(ctx, root, oldPassword, jsontree.Decrypt)
	if err != nil {
		return nil, err
	}
	out, err := t.Transform(ctx, plain, newPassword, jsontree.Encrypt)
	if err != nil {
		return nil, err
	}

	return j.finish(doc, "", false, out, storage.StateEncrypted)
}

// VerifyPassword checks password against the first leaf of the document.
// A document without leaves accepts any non-blank password.
func (j *JSONLock) VerifyPassword(ctx context.Context, path, password string) error {
	if err := crypto.CheckPassword(password); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	doc, err := document.Open(path)
	if err != nil {
		return err
	}
	defer doc.Close()

	root, err := readTree(doc)
	if err != nil {
		return err
	}

	leaf, pointer, ok := jsontree.FirstLeaf(root)
	if !ok {
		return nil
	}
	if _, err := j.cipher.DecryptScalar(leaf.Text, password); err != nil {
		if pointer == "" {
			pointer = "document root"
		}
		return fmt.Errorf("decrypt %s: %w", pointer, err)
	}
	return nil
}

func (j *JSONLock) transformer() *jsontree.Transformer {
	return jsontree.NewTransformer(j.cipher, jsontree.WithLeafHook(func(pointer string) {
		j.log.Debugf("leaf %q", pointer)
	}))
}

func readTree(doc *document.Document) (jsontree.Value, error) {
	data, err := doc.Read()
	if err != nil {
		return nil, err
	}
	root, err := jsontree.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", doc.Path(), err)
	}
	return root, nil
}

// finish marshals out and writes it to the source document or to output.
func (j *JSONLock) finish(doc *document.Document, output string, dryRun bool, out jsontree.Value, state storage.State) (*Result, error) {
	encoded, err := jsontree.Marshal(out)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Path:   doc.Path(),
		Output: doc.Path(),
		Leaves: jsontree.Leaves(out),
		Data:   encoded,
	}

	target := doc
	if output != "" {
		outDoc, err := document.Open(output)
		if err != nil {
			return nil, err
		}
		defer outDoc.Close()
		target = outDoc
		result.Output = outDoc.Path()
	}

	if dryRun {
		j.log.Infof("dry run: %d leaves, nothing written", result.Leaves)
		return result, nil
	}

	if err := target.Write(encoded); err != nil {
		return nil, err
	}
	result.Written = true
	j.log.Infof("%s %d leaves into %s", state, result.Leaves, result.Output)

	entry := storage.NewEntry(result.Output, state, result.Leaves, int64(len(encoded)), document.Hash(encoded))
	if err := j.record(entry); err != nil {
		j.log.Warnf("failed to update journal: %v", err)
	}
	return result, nil
}

// withJournal runs fn against an open, initialized journal. It is a no-op
// when the journal is disabled.
func (j *JSONLock) withJournal(fn func(db *storage.Storage) error) error {
	if j.journalPath == "" {
		return nil
	}
	db, err := storage.Open(j.journalPath)
	if err != nil {
		return err
	}
	defer db.Close()

	initialized, err := db.IsInitialized()
	if err != nil {
		return err
	}
	if !initialized {
		j.log.Debugf("Creating journal at %s", db.Path())
		if err := db.Initialize(); err != nil {
			return fmt.Errorf("failed to initialize journal: %w", err)
		}
	}
	return fn(db)
}

func (j *JSONLock) record(entry storage.Entry) error {
	return j.withJournal(func(db *storage.Storage) error {
		return db.Record(entry)
	})
}

func (j *JSONLock) journalEntry(path string) (*storage.Entry, error) {
	var entry *storage.Entry
	err := j.withJournal(func(db *storage.Storage) error {
		var err error
		entry, err = db.Entry(path)
		return err
	})
	return entry, err
}

// DocumentState is the state of a journaled document as found on disk
type DocumentState string

const (
	StateEncrypted DocumentState = "encrypted"
	StateDecrypted DocumentState = "decrypted"
	StateModified  DocumentState = "modified"
	StateMissing   DocumentState = "missing"
)

// DocumentStatus pairs a journal entry with the document's current state
type DocumentStatus struct {
	Entry   storage.Entry
	Current DocumentState
}

// StatusInfo contains status information
type StatusInfo struct {
	JournalPath    string
	LastModified   time.Time
	Documents      []DocumentStatus
	EncryptedCount int
	DecryptedCount int
	ModifiedCount  int
	MissingCount   int
	GitStatus      *git.GitStatus
}

// Status returns the journaled documents and their current state
// (no password required)
func (j *JSONLock) Status(ctx context.Context) (*StatusInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if j.journalPath == "" {
		return nil, ErrNoJournal
	}

	status := &StatusInfo{JournalPath: j.journalPath}
	var entries []storage.Entry
	err := j.withJournal(func(db *storage.Storage) error {
		status.JournalPath = db.Path()
		var err error
		if status.LastModified, err = db.GetModified(); err != nil {
			// Not critical
			status.LastModified = time.Time{}
		}
		entries, err = db.Entries()
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read journal: %w", err)
	}

	var plain []string
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		current := currentState(entry)
		switch current {
		case StateEncrypted:
			status.EncryptedCount++
		case StateDecrypted:
			status.DecryptedCount++
			plain = append(plain, entry.Path)
		case StateModified:
			status.ModifiedCount++
			if entry.State == storage.StateDecrypted {
				plain = append(plain, entry.Path)
			}
		case StateMissing:
			status.MissingCount++
		}
		status.Documents = append(status.Documents, DocumentStatus{Entry: entry, Current: current})
	}

	status.GitStatus = git.CheckDocuments(plain)
	return status, nil
}

func currentState(entry storage.Entry) DocumentState {
	doc, err := document.Open(entry.Path)
	if err != nil {
		return StateMissing
	}
	defer doc.Close()

	data, err := doc.Read()
	if err != nil {
		return StateMissing
	}
	if document.Hash(data) != entry.Hash {
		return StateModified
	}
	if entry.State == storage.StateEncrypted {
		return StateEncrypted
	}
	return StateDecrypted
}

// Forget drops the journal entry for path. It reports whether an entry existed.
func (j *JSONLock) Forget(path string) (bool, error) {
	if j.journalPath == "" {
		return false, ErrNoJournal
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false, fmt.Errorf("failed to get absolute path: %w", err)
	}

	var removed bool
	err = j.withJournal(func(db *storage.Storage) error {
		var err error
		removed, err = db.Forget(absPath)
		return err
	})
	return removed, err
}

// Compact rewrites the journal to reclaim space
func (j *JSONLock) Compact() error {
	if j.journalPath == "" {
		return ErrNoJournal
	}
	return j.withJournal(func(db *storage.Storage) error {
		return db.Compact()
	})
}
