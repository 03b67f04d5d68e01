package model

import (
	_ "embed"
	"strings"
)

//go:embed help.md
var helpMD string

// HelpMarkdown returns the user guide with the version filled in.
func HelpMarkdown() string {
	return strings.ReplaceAll(helpMD, "{{VERSION}}", Version)
}
