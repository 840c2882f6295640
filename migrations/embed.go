// Package migrations embeds the SQL schema for every supported database driver.
// Files follow golang-migrate naming: <version>_<name>.(up|down).sql.
package migrations

import "embed"

// FS holds one directory per driver: postgres/ and sqlite/.
//
//go:embed postgres/*.sql sqlite/*.sql
var FS embed.FS
