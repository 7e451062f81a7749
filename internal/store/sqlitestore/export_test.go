package sqlitestore

import "database/sql"

// DB exposes the connection pool to external tests.
func (s *Store) DB() *sql.DB { return s.db }
