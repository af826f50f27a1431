package web

import "embed"

// FS exposes the embedded static assets served at the site root.
//
//go:embed index.html
var FS embed.FS
