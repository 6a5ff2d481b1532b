// This file handles automatic .gitignore management for the .treedex
// directory.
package loader

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// EnsureStateDirIgnored ensures that .treedex/ is listed in the project's
// .gitignore file, so locally persisted view state does not pollute the git
// repository.
//
// The function is idempotent and safe to call multiple times.
// It will:
//   - Create .gitignore if it doesn't exist
//   - Add ".treedex/" if it's not already present (checks for .treedex,
//     .treedex/, .treedex/*, etc.)
//   - Preserve existing file content and formatting
//
// Returns nil on success, or an error if the file cannot be read/written.
func EnsureStateDirIgnored(projectDir string) error {
	if projectDir == "" {
		var err error
		projectDir, err = os.Getwd()
		if err != nil {
			return err
		}
	}

	gitignorePath := filepath.Join(projectDir, ".gitignore")

	alreadyPresent, err := isStateDirInGitignore(gitignorePath)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	if alreadyPresent {
		return nil
	}

	return appendToGitignore(gitignorePath, ".treedex/")
}

// isStateDirInGitignore checks if .treedex is already covered by the
// .gitignore file. It returns true if any of these patterns are found:
//   - .treedex
//   - .treedex/
//   - .treedex/*
//   - .treedex/**
func isStateDirInGitignore(path string) (bool, error) {
	file, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if matchesStateDirPattern(line) {
			return true, nil
		}
	}

	return false, scanner.Err()
}

// matchesStateDirPattern checks if a gitignore line covers the .treedex
// directory.
func matchesStateDirPattern(line string) bool {
	// Normalize: remove the leading slash for comparison
	normalized := strings.TrimPrefix(line, "/")

	patterns := []string{
		".treedex",
		".treedex/",
		".treedex/*",
		".treedex/**",
		".treedex/**/*",
	}

	for _, pattern := range patterns {
		if normalized == pattern {
			return true
		}
	}

	return false
}

// appendToGitignore appends a pattern to the .gitignore file.
// It creates the file if it doesn't exist.
// It ensures there's a newline before the pattern if the file doesn't end with one.
func appendToGitignore(path string, pattern string) error {
	content, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer file.Close()

	var toWrite string
	if len(content) == 0 {
		// New file: just add comment and pattern (no leading blank line)
		toWrite = "# treedex local view state\n" + pattern + "\n"
	} else {
		// Existing file: ensure proper separation
		if content[len(content)-1] != '\n' {
			toWrite = "\n"
		}
		toWrite += "\n# treedex local view state\n" + pattern + "\n"
	}

	if _, err := file.WriteString(toWrite); err != nil {
		return err
	}

	return nil
}
