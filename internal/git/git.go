package git

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// GitStatus contains git integration status information
type GitStatus struct {
	IsRepo         bool
	TrackedPlain   []string // Decrypted documents tracked by git (bad)
	UnignoredPlain []string // Decrypted documents not in .gitignore (warning)
	IgnoredPlain   []string // Decrypted documents in .gitignore (good)
}

// IsGitRepo checks if the working directory is inside a git repository
func IsGitRepo(workDir string) bool {
	cmd := exec.Command("git", "rev-parse", "--is-inside-work-tree")
	cmd.Dir = workDir
	err := cmd.Run()
	return err == nil
}

// IsTracked checks if a file is tracked by git
func IsTracked(workDir, path string) bool {
	cmd := exec.Command("git", "ls-files", "--", path)
	cmd.Dir = workDir
	output, err := cmd.Output()

	if err != nil {
		return false
	}

	return len(strings.TrimSpace(string(output))) > 0
}

// IsIgnored checks if a file is ignored by git (handles all .gitignore files)
func IsIgnored(workDir, path string) bool {
	cmd := exec.Command("git", "check-ignore", "-q", "--", path)
	cmd.Dir = workDir
	err := cmd.Run()

	// git check-ignore returns exit code 0 if file is ignored
	return err == nil
}

// IsTrackedDocument checks whether the document at an absolute path is
// tracked by the repository that contains it.
func IsTrackedDocument(path string) bool {
	dir := filepath.Dir(path)
	return IsGitRepo(dir) && IsTracked(dir, filepath.Base(path))
}

// CheckDocuments checks git status for decrypted documents given as absolute paths
func CheckDocuments(plainDocuments []string) *GitStatus {
	status := &GitStatus{}

	for _, path := range plainDocuments {
		dir, name := filepath.Dir(path), filepath.Base(path)
		if !IsGitRepo(dir) {
			continue
		}
		status.IsRepo = true

		if IsTracked(dir, name) {
			status.TrackedPlain = append(status.TrackedPlain, path)
			continue
		}

		if IsIgnored(dir, name) {
			status.IgnoredPlain = append(status.IgnoredPlain, path)
		} else {
			status.UnignoredPlain = append(status.UnignoredPlain, path)
		}
	}

	return status
}

// FormatGitStatus formats git status for display
func FormatGitStatus(status *GitStatus) string {
	if status == nil || !status.IsRepo {
		return ""
	}

	var result strings.Builder
	result.WriteString("\nGit Integration:\n")

	if len(status.TrackedPlain) > 0 {
		result.WriteString(fmt.Sprintf("   error: %d decrypted document(s) tracked by git:\n", len(status.TrackedPlain)))
		for _, file := range status.TrackedPlain {
			result.WriteString(fmt.Sprintf("      - %s (encrypt it before committing)\n", file))
		}
	} else {
		result.WriteString("   ok: no decrypted documents tracked by git\n")
	}

	for _, file := range status.UnignoredPlain {
		result.WriteString(fmt.Sprintf("   warning: %s not in .gitignore\n", file))
	}
	if len(status.UnignoredPlain) == 0 && len(status.IgnoredPlain) > 0 {
		result.WriteString(fmt.Sprintf("   ok: %d decrypted document(s) in .gitignore\n", len(status.IgnoredPlain)))
	}

	return result.String()
}
