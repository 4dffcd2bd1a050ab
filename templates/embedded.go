// Package templates holds the page skeleton and entry templates compiled into the binary.
package templates

import "embed"

// EmbeddedTemplates provides read-only access to template files compiled into the binary.
//
//go:embed *.tmpl *.html
var EmbeddedTemplates embed.FS
