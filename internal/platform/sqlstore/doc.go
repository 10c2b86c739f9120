// Package sqlstore provides the database/sql implementation of the store
// interfaces. The same store code serves both supported drivers: pgx for
// PostgreSQL and modernc.org/sqlite for the zero-dependency single-file
// default. Queries stick to the portable subset both engines accept
// ($N placeholders, TEXT keys, unix-seconds timestamps); schema differences
// live in the per-dialect migration directories.
package sqlstore
