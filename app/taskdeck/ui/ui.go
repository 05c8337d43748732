// Package ui serves the embedded task list page.
package ui

import (
	"embed"

	"github.com/jrazmi/taskdeck/infrastructure/web"
)

//go:embed static
var staticFiles embed.FS

func AddHandlers(wh *web.WebHandler) error {
	return wh.FileServerSPA(staticFiles, "static", "/")
}
