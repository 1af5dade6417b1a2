package catalog

import "embed"

//go:embed catalog.yaml sources/*.txt
var embeddedFS embed.FS
