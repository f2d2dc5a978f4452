package core

import (
	"fmt"
	"os"
	"syscall"

	"github.com/illarion/jsonlock/internal/crypto"
	"golang.org/x/term"
)

// ReadPassword reads a password from the terminal without echoing
func ReadPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)

	// Read password without echo
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr) // New line after password

	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	defer crypto.ClearBytes(password)

	return string(password), nil
}

// ReadPasswordConfirm reads a password twice and ensures they match
func ReadPasswordConfirm(prompt string) (string, error) {
	password1, err := ReadPassword(prompt)
	if err != nil {
		return "", err
	}

	password2, err := ReadPassword("Confirm password: ")
	if err != nil {
		return "", err
	}

	if !crypto.ConstantTimeCompare([]byte(password1), []byte(password2)) {
		return "", ErrPasswordMismatch
	}

	return password1, nil
}

// IsTerminal reports whether stdin is an interactive terminal
func IsTerminal() bool {
	return term.IsTerminal(int(syscall.Stdin))
}

// GetPasswordFromEnv reads password from JSONLOCK_PASSWORD environment variable
func GetPasswordFromEnv() string {
	return os.Getenv(PasswordEnv)
}
