// Package all registers every built-in snapshot backend with the storage
// factory. Import it for its side effects:
//
//	import _ "mariprog/internal/storage/all"
//
// after which storage.New accepts the kinds "sqlite", "postgres" and "mssql".
package all

import (
	_ "mariprog/internal/storage/mssql"
	_ "mariprog/internal/storage/postgres"
	_ "mariprog/internal/storage/sqlite"
)
