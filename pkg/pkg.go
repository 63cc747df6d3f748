//nolint:gochecknoglobals
package pkg

import (
	_ "embed"
)

// Version is the semantic version of the windstyle module embedded at build
// time. It is printed by the CLI when users invoke the version flag.
//
//go:embed VERSION
var Version string

const (
	// Name is the canonical command and module identifier. It names the
	// metrics namespace, the default config directory, and the environment
	// variable prefix.
	Name = "windstyle"
	// Description is a short summary of the project used in help output.
	Description = "Style expression evaluator for wind particle layers"
)

// AuthorInfo represents an individual author's name and email address.
type AuthorInfo struct {
	Name  string
	Email string
}

// Author lists the primary author(s) of the project.
//
//nolint:gochecknoglobals
var Author = []AuthorInfo{
	{"ardnew", "andrew@ardnew.com"},
}
