// Package migrations holds the SQL schema files, embedded into the binary.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
