package migrations

import (
	"embed"
	"io/fs"
)

//go:embed *.sql
var files embed.FS

// FS holds the schema migrations, applied in file name order.
var FS fs.FS = files
