// Package web holds the HTML templates and static assets of the quiz UI.
package web

import "embed"

//go:embed templates static
var FS embed.FS
