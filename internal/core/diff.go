package core

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/illarion/jsonlock/internal/crypto"
	"github.com/illarion/jsonlock/internal/document"
	"github.com/illarion/jsonlock/internal/jsontree"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// Diff decrypts the document at encryptedPath in memory and compares it
// with the plaintext document at plainPath. Both are re-marshaled first,
// so formatting differences are ignored. Returns "" when they match.
func (j *JSONLock) Diff(ctx context.Context, encryptedPath, plainPath, password string) (string, error) {
	if err := crypto.CheckPassword(password); err != nil {
		return "", err
	}

	encDoc, err := document.Open(encryptedPath)
	if err != nil {
		return "", err
	}
	defer encDoc.Close()

	plainDoc, err := document.Open(plainPath)
	if err != nil {
		return "", err
	}
	defer plainDoc.Close()

	encRoot, err := readTree(encDoc)
	if err != nil {
		return "", err
	}
	plainRoot, err := readTree(plainDoc)
	if err != nil {
		return "", err
	}

	decrypted, err := j.transformer().Transform(ctx, encRoot, password, jsontree.Decrypt)
	if err != nil {
		return "", err
	}

	a, err := jsontree.Marshal(decrypted)
	if err != nil {
		return "", err
	}
	b, err := jsontree.Marshal(plainRoot)
	if err != nil {
		return "", err
	}

	return GenerateUnifiedDiff(encDoc.Path(), plainDoc.Path(), a, b), nil
}

// GenerateUnifiedDiff generates a unified diff using go-diff library
// Returns the diff output, or empty string if the inputs are identical
func GenerateUnifiedDiff(fromName, toName string, from, to []byte) string {
	if bytes.Equal(from, to) {
		return ""
	}

	dmp := diffmatchpatch.New()

	// Line-mode diff for better output
	fromStr, toStr := string(from), string(to)
	a, b, lineArray := dmp.DiffLinesToChars(fromStr, toStr)
	diffs := dmp.DiffMain(a, b, false)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)

	patches := dmp.PatchMake(fromStr, diffs)
	if len(patches) == 0 {
		return ""
	}

	var result strings.Builder
	result.WriteString(fmt.Sprintf("--- a/%s\n", fromName))
	result.WriteString(fmt.Sprintf("+++ b/%s\n", toName))
	result.WriteString(dmp.PatchToText(patches))

	return result.String()
}
