package model

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LineContext is a chord list line with its neighbours, shown next to failures.
type LineContext struct {
	Before     string // Line before the target
	Target     string // The chord line itself
	After      string // Line after the target
	LineNumber int    // Line number of the target
	HasBefore  bool
	HasAfter   bool
	ErrorMsg   string // Error message if the file couldn't be read
}

// ExpandTilde expands a leading ~ to the user's home directory.
func ExpandTilde(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
		}
	}
	return path
}

// GetLineContext reads a chord list file and returns the target line with one line of context.
func GetLineContext(filePath string, lineNumber int) LineContext {
	result := LineContext{
		LineNumber: lineNumber,
	}

	file, err := os.Open(ExpandTilde(filePath))
	if err != nil {
		result.ErrorMsg = fmt.Sprintf("Could not read file: %v", err)
		return result
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		result.ErrorMsg = fmt.Sprintf("Error reading file: %v", err)
		return result
	}

	if lineNumber < 1 || lineNumber > len(lines) {
		result.ErrorMsg = fmt.Sprintf("Line %d out of range (file has %d lines)", lineNumber, len(lines))
		return result
	}

	result.Target = lines[lineNumber-1]
	if lineNumber > 1 {
		result.Before = lines[lineNumber-2]
		result.HasBefore = true
	}
	if lineNumber < len(lines) {
		result.After = lines[lineNumber]
		result.HasAfter = true
	}

	return result
}
