package templates

import (
	"embed"
	"io/fs"
)

//go:embed *.html
var Pages embed.FS

//go:embed static
var static embed.FS

// Static holds the files served under /static/.
var Static, _ = fs.Sub(static, "static")
