// Package migrations holds the schema for the archstore database as
// numbered up/down SQL files.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
