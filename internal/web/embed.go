// Package web holds the browser page served at the root path.
package web

import (
	"embed"
)

//go:embed index.html
var FS embed.FS

// IndexPage returns the game page.
func IndexPage() ([]byte, error) {
	return FS.ReadFile("index.html")
}
