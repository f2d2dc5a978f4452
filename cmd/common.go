package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/illarion/jsonlock/internal/core"
	"github.com/illarion/jsonlock/internal/crypto"
	"github.com/illarion/jsonlock/internal/document"
	"github.com/illarion/jsonlock/internal/jsontree"
	"github.com/illarion/jsonlock/internal/keyring"
)

var errUsage = errors.New("usage error")

// PasswordSource records where a password came from
type PasswordSource int

const (
	SourceFlag PasswordSource = iota
	SourceEnv
	SourceKeyring
	SourcePrompt
)

func (s PasswordSource) String() string {
	switch s {
	case SourceFlag:
		return "flag"
	case SourceEnv:
		return "environment"
	case SourceKeyring:
		return "keyring"
	default:
		return "prompt"
	}
}

// GetPassword resolves a password for the document at path.
// Order: flag value, JSONLOCK_PASSWORD, keyring entry for the document, prompt.
// With confirm set the prompt asks twice.
func GetPassword(flagValue, path, prompt string, confirm bool) (string, PasswordSource, error) {
	if flagValue != "" {
		return flagValue, SourceFlag, nil
	}

	if password := core.GetPasswordFromEnv(); password != "" {
		Logger.Debugf("Using password from %s", core.PasswordEnv)
		return password, SourceEnv, nil
	}

	if absPath, err := filepath.Abs(path); err == nil {
		password, err := keyring.GetPassword(absPath)
		if err == nil {
			Logger.Debugf("Using password from keyring for %s", absPath)
			return password, SourceKeyring, nil
		}
		if !keyring.IsNotFound(err) {
			Logger.Debugf("Keyring unavailable: %v", err)
		}
	}

	password, err := promptPassword(prompt, confirm)
	return password, SourcePrompt, err
}

// promptPassword asks for the password on the terminal
func promptPassword(prompt string, confirm bool) (string, error) {
	if !core.IsTerminal() {
		return "", core.ErrPasswordRequired
	}
	if confirm {
		return core.ReadPasswordConfirm(prompt)
	}
	return core.ReadPassword(prompt)
}

// GetPasswordWithRetry is like GetPassword but checks a keyring password
// with verify first. A stale keyring password is discarded and the user is
// prompted instead.
func GetPasswordWithRetry(flagValue, path, prompt string, verify func(password string) error) (string, PasswordSource, error) {
	password, source, err := GetPassword(flagValue, path, prompt, false)
	if err != nil || source != SourceKeyring {
		return password, source, err
	}

	err = verify(password)
	if err == nil {
		return password, source, nil
	}
	if !errors.Is(err, crypto.ErrAuthenticationFailure) {
		return "", source, err
	}

	Logger.Warnf("Password stored in keyring does not match, please enter it")
	password, err = promptPassword(prompt, false)
	return password, SourcePrompt, err
}

// OfferToSavePassword asks whether a prompted password should be stored in
// the keyring for the document. Passwords from flags or the environment are
// never stored.
func OfferToSavePassword(path, password string, source PasswordSource) {
	if source != SourcePrompt || !core.IsTerminal() {
		return
	}
	absPath, err := filepath.Abs(path)
	if err != nil || keyring.HasPassword(absPath) {
		return
	}

	fmt.Fprint(os.Stderr, "Save password to keyring? [y/N] ")
	answer, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	if answer != "y" && answer != "yes" {
		return
	}

	if err := keyring.SavePassword(absPath, password); err != nil {
		Logger.Warnf("Failed to save to keyring: %v", err)
		return
	}
	fmt.Println("Password saved to keyring")
}

// describeError turns an error into a message and an optional hint
func describeError(err error) (string, string) {
	switch {
	case errors.Is(err, errUsage):
		return strings.TrimPrefix(err.Error(), errUsage.Error()+": "), "Run 'jsonlock --help' for usage"
	case errors.Is(err, document.ErrNotJSON):
		return document.ErrNotJSON.Error(), ""
	case errors.Is(err, document.ErrNotFound):
		return err.Error(), ""
	case errors.Is(err, crypto.ErrAuthenticationFailure):
		return "wrong password or document has been modified", ""
	case errors.Is(err, crypto.ErrMalformedEnvelope):
		return err.Error(), "Is the document encrypted?"
	case errors.Is(err, jsontree.ErrInvalidJSON):
		return err.Error(), ""
	case errors.Is(err, core.ErrAlreadyEncrypted):
		return err.Error(), "Use --force to encrypt it again"
	case errors.Is(err, core.ErrPasswordRequired):
		return "password required", "Pass --password or set " + core.PasswordEnv
	case errors.Is(err, core.ErrNoJournal):
		return "journal is disabled", "Drop --no-journal to use this command"
	case errors.Is(err, context.Canceled):
		return "interrupted", ""
	default:
		return err.Error(), ""
	}
}

// HandleError prints err in a consistent way
func HandleError(err error) {
	msg, hint := describeError(err)
	fmt.Fprintf(os.Stderr, "%s %s\n", color.RedString("Error:"), msg)
	if hint != "" {
		fmt.Fprintf(os.Stderr, "%s %s\n", color.CyanString("→"), hint)
	}
}
